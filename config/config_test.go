package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortexlabs/mempool-vortex/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vortex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(1e18), cfg.MinArbAmountIn.Int)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18)), cfg.MinSandwichAmountIn.Int)
	assert.Equal(t, 10*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, big.NewInt(20e9), cfg.GasBaseFee.Int)
	assert.Equal(t, big.NewInt(5e9), cfg.GasPriorityFee.Int)
	require.Len(t, cfg.Relays, 3)
	assert.Equal(t, "flashbots", cfg.Relays[0].Name)
	assert.Equal(t, 0.85, cfg.Relays[0].InclusionEstimate)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
rpc_endpoint: ws://node:8546
min_arb_amount_in: "2000000000000000000"
max_sandwich_gas_price: "60000000000"
gas_base_fee: "30000000000"
gas_priority_fee: "2000000000"
enabled_venues: [uniswap_v2, uniswap_v3]
workers: 4
relays:
  - name: flashbots
    endpoint: https://relay.flashbots.net
    enabled: true
    inclusion_estimate: 0.4
  - name: backup
    endpoint: https://rpc.beaverbuild.org
    enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://node:8546", cfg.RPCEndpoint)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(2), big.NewInt(1e18)), cfg.MinArbAmountIn.Int)
	assert.Equal(t, big.NewInt(60e9), cfg.MaxSandwichGasPrice.Int)
	assert.Equal(t, big.NewInt(30e9), cfg.GasBaseFee.Int)
	assert.Equal(t, big.NewInt(2e9), cfg.GasPriorityFee.Int)
	assert.Equal(t, 4, cfg.Workers)
	require.Len(t, cfg.Relays, 2)
	assert.False(t, cfg.Relays[1].Enabled)

	venues, err := cfg.Venues()
	require.NoError(t, err)
	assert.Equal(t, []types.Venue{types.VenueUniswapV2, types.VenueUniswapV3}, venues)
}

func TestLoadRejectsBadWei(t *testing.T) {
	path := writeConfig(t, `min_arb_amount_in: "not-a-number"`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownVenue(t *testing.T) {
	path := writeConfig(t, `enabled_venues: [uniswap_v4]`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown venue")
}

func TestValidateRejectsZeroBaseFee(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GasBaseFee = NewWei(big.NewInt(0))
	assert.ErrorContains(t, cfg.Validate(), "gas_base_fee")
}

func TestValidateCatchesMissingRelayFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Relays = []types.RelayTarget{{Name: "", Endpoint: ""}}
	assert.ErrorContains(t, cfg.Validate(), "name and an endpoint")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvRPCURL, "ws://env-node:8546")
	t.Setenv(EnvSigningKey, "deadbeef")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "ws://env-node:8546", cfg.RPCEndpoint)
	assert.Equal(t, "deadbeef", cfg.Relays[0].Credential)
}

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("VORTEX_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnvWithDefault("VORTEX_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnvWithDefault("VORTEX_TEST_KEY_UNSET", "fallback"))
}

func TestApplyEnvKeepsExplicitCredential(t *testing.T) {
	t.Setenv(EnvSigningKey, "deadbeef")

	cfg := DefaultConfig()
	cfg.Relays[0].Credential = "explicit"
	cfg.ApplyEnv()

	assert.Equal(t, "explicit", cfg.Relays[0].Credential)
}
