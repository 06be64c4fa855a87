package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/types"
)

// test-only key, generated for this suite
const testSigningKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestJSONRPCRelaySubmit(t *testing.T) {
	var gotMethod string
	var gotSignature string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		gotMethod = req.Method
		gotSignature = r.Header.Get("X-Flashbots-Signature")

		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"bundleHash":"0xabc"}}`))
	}))
	defer server.Close()

	target := types.RelayTarget{
		Name:              "testrelay",
		Endpoint:          server.URL,
		Credential:        testSigningKey,
		Enabled:           true,
		InclusionEstimate: 0.85,
	}
	client := NewJSONRPCRelay(target, zap.NewNop())

	outcome, err := client.Submit(context.Background(), testBundle())
	require.NoError(t, err)

	assert.Equal(t, "eth_sendBundle", gotMethod)
	assert.NotEmpty(t, gotSignature)
	assert.Contains(t, gotSignature, ":0x")
	assert.Equal(t, "testrelay", outcome.Relay)
	assert.Equal(t, "bundle-test", outcome.BundleID)
	assert.Equal(t, types.StatusSubmitted, outcome.Status)
	assert.Equal(t, 0.85, outcome.InclusionProbability)
}

func TestJSONRPCRelayNoCredentialSubmitsUnsigned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-Flashbots-Signature"))
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"bundleHash":"0xdef"}}`))
	}))
	defer server.Close()

	client := NewJSONRPCRelay(types.RelayTarget{
		Name:     "open",
		Endpoint: server.URL,
		Enabled:  true,
	}, zap.NewNop())

	_, err := client.Submit(context.Background(), testBundle())
	assert.NoError(t, err)
}

func TestJSONRPCRelayServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewJSONRPCRelay(types.RelayTarget{
		Name:     "down",
		Endpoint: server.URL,
		Enabled:  true,
	}, zap.NewNop())

	_, err := client.Submit(context.Background(), testBundle())
	assert.Error(t, err)
}
