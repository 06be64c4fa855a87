package relay

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ybbus/jsonrpc/v3"
	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/types"
)

const flashbotsSignatureHeader = "X-Flashbots-Signature"

// sendBundleParam is the eth_sendBundle argument shape. Leg payloads
// travel as-is; signing them into raw transactions is the signing
// layer's concern, upstream of this client.
type sendBundleParam struct {
	Txs          []hexutil.Bytes `json:"txs"`
	BlockNumber  hexutil.Uint64  `json:"blockNumber"`
	MinTimestamp uint64          `json:"minTimestamp,omitempty"`
	MaxTimestamp uint64          `json:"maxTimestamp,omitempty"`
}

// JSONRPCRelay submits bundles to one relay over JSON-RPC, signing each
// request body with the relay credential when one is configured.
type JSONRPCRelay struct {
	target types.RelayTarget
	client jsonrpc.RPCClient
	log    *zap.Logger
}

// NewJSONRPCRelay dials a relay target. A credential that parses as a
// hex private key enables the flashbots-style signature header; targets
// without credentials submit unsigned.
func NewJSONRPCRelay(target types.RelayTarget, log *zap.Logger) *JSONRPCRelay {
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := http.DefaultClient
	if target.Credential != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(target.Credential, "0x"))
		if err != nil {
			log.Warn("relay credential is not a hex private key, submitting unsigned",
				zap.String("relay", target.Name),
				zap.Error(err))
		} else {
			httpClient = &http.Client{
				Transport: &signingTransport{key: key, next: http.DefaultTransport},
			}
		}
	}

	return &JSONRPCRelay{
		target: target,
		client: jsonrpc.NewClientWithOpts(target.Endpoint, &jsonrpc.RPCClientOpts{
			HTTPClient: httpClient,
		}),
		log: log,
	}
}

func (r *JSONRPCRelay) Name() string { return r.target.Name }

// Submit sends the bundle via eth_sendBundle and maps the response into a
// SubmissionOutcome.
func (r *JSONRPCRelay) Submit(ctx context.Context, bundle *types.Bundle) (*types.SubmissionOutcome, error) {
	param := sendBundleParam{
		Txs:          make([]hexutil.Bytes, 0, len(bundle.Legs)),
		BlockNumber:  hexutil.Uint64(bundle.TargetBlock),
		MinTimestamp: bundle.MinTimestamp,
		MaxTimestamp: bundle.MaxTimestamp,
	}
	for _, leg := range bundle.Legs {
		param.Txs = append(param.Txs, hexutil.Bytes(leg.Payload))
	}

	var result struct {
		BundleHash string `json:"bundleHash"`
	}
	if err := r.client.CallFor(ctx, &result, "eth_sendBundle", []sendBundleParam{param}); err != nil {
		return nil, fmt.Errorf("relay %s: %w", r.target.Name, err)
	}

	r.log.Debug("relay accepted bundle",
		zap.String("relay", r.target.Name),
		zap.String("bundle_id", bundle.ID),
		zap.String("bundle_hash", result.BundleHash))

	return &types.SubmissionOutcome{
		Relay:                r.target.Name,
		BundleID:             bundle.ID,
		Status:               types.StatusSubmitted,
		BlockNumber:          bundle.TargetBlock,
		InclusionProbability: r.target.InclusionEstimate,
	}, nil
}

// signingTransport signs each outgoing request body into the
// X-Flashbots-Signature header: keccak hash of the payload, text-hashed
// and signed with the relay key.
type signingTransport struct {
	key  *ecdsa.PrivateKey
	next http.RoundTripper
}

func (t *signingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		_ = req.Body.Close()
		body = b
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	sig, err := crypto.Sign(
		accounts.TextHash([]byte(hexutil.Encode(crypto.Keccak256(body)))),
		t.key,
	)
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	req.Header.Set(flashbotsSignatureHeader, fmt.Sprintf("%s:%s",
		crypto.PubkeyToAddress(t.key.PublicKey).Hex(),
		hexutil.Encode(sig),
	))
	return t.next.RoundTrip(req)
}
