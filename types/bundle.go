package types

import (
	"encoding/binary"
	"math/big"

	"github.com/cespare/xxhash/v2"
	"github.com/ethereum/go-ethereum/common"
)

// Leg is one transaction slot in a bundle. Payload is an opaque contract
// call; byte-exact ABI encoding is owned by the signing layer.
type Leg struct {
	Target   common.Address
	Payload  []byte
	Value    *big.Int
	GasLimit uint64
	GasPrice *big.Int
}

// Bundle is an ordered, atomically-included transaction sequence targeting
// a single block. Leg order is execution order and is never reordered.
type Bundle struct {
	ID             string
	Legs           []Leg
	TargetBlock    uint64
	MinTimestamp   uint64 // zero means unset
	MaxTimestamp   uint64 // zero means unset
	TotalGas       uint64
	ExpectedProfit *big.Int
}

// Fingerprint is a fast content hash over the bundle's legs and target
// block, stable across processes for the same built bundle.
func (b *Bundle) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], b.TargetBlock)
	_, _ = h.Write(buf[:])
	for _, leg := range b.Legs {
		_, _ = h.Write(leg.Target.Bytes())
		_, _ = h.Write(leg.Payload)
		binary.BigEndian.PutUint64(buf[:], leg.GasLimit)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// RelayTarget is one configured block-builder relay. The relay list is
// read-only after initialization; list order is submission priority.
type RelayTarget struct {
	Name              string  `yaml:"name"`
	Endpoint          string  `yaml:"endpoint"`
	Credential        string  `yaml:"credential,omitempty"`
	Enabled           bool    `yaml:"enabled"`
	InclusionEstimate float64 `yaml:"inclusion_estimate,omitempty"`
}

// SubmissionStatus is the relay-reported state of a submitted bundle.
type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "submitted"
	StatusIncluded  SubmissionStatus = "included"
	StatusFailed    SubmissionStatus = "failed"
	StatusExpired   SubmissionStatus = "expired"
	StatusReverted  SubmissionStatus = "reverted"
)

// SubmissionOutcome is produced once per successful submission attempt.
// Failed attempts produce no outcome, only an error that triggers fallback.
type SubmissionOutcome struct {
	Relay                string
	BundleID             string
	Status               SubmissionStatus
	BlockNumber          uint64  // zero when unknown
	InclusionProbability float64 // zero when unknown
}
