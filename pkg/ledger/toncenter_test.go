package ledger

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
)

var testAddr = address.MustParseAddr("EQDtFpEwcFAEcRe5mLVh2N6C0x-_hJEM7W61_JLnSF74p4q2")

func newTestToncenter(t *testing.T, h http.HandlerFunc) *Toncenter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewToncenter(logger.Test(t), srv.URL+"/", "secret")
}

func TestToncenter_AddressInformation(t *testing.T) {
	code := "te6cckEBAQEAAgAAAEysuc0="
	c := newTestToncenter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/addressInformation", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		assert.Equal(t, testAddr.String(), r.URL.Query().Get("address"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"balance": "1500000000",
			"code":    code,
			"status":  "active",
		})
	})

	balance, err := c.GetBalance(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, "1.5", balance.String())

	deployed, err := c.IsContractDeployed(context.Background(), testAddr)
	require.NoError(t, err)
	assert.True(t, deployed)
}

func TestToncenter_Uninitialized(t *testing.T) {
	c := newTestToncenter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"balance": "0",
			"code":    nil,
			"status":  "uninit",
		})
	})

	deployed, err := c.IsContractDeployed(context.Background(), testAddr)
	require.NoError(t, err)
	assert.False(t, deployed)
}

func TestToncenter_RunGetMethod(t *testing.T) {
	content := cell.BeginCell().MustStoreUInt(1, 8).EndCell()
	owner := getmethod.Address(testAddr)

	c := newTestToncenter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/runGetMethod", r.URL.Path)

		var req runGetMethodRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "get_wallet_address", req.Method)
		assert.Equal(t, []getmethod.Entry{owner}, req.Stack)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"gas_used":  1234,
			"exit_code": 0,
			"stack": []map[string]any{
				{"type": "num", "value": "0x2a"},
				{"type": "cell", "value": getmethod.Cell(content).Value},
				{"type": "tuple", "value": []any{}},
			},
		})
	})

	raw, err := c.CallGetMethod(context.Background(), testAddr, "get_wallet_address", owner)
	require.NoError(t, err)
	require.Len(t, raw, 3)
	assert.Equal(t, getmethod.Entry{Type: "tuple", Value: "[]"}, raw[2])

	res, err := getmethod.Parse(raw[:2])
	require.NoError(t, err)
	n, err := res.Int(0)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Cmp(big.NewInt(42)))
}

func TestToncenter_ExitCode(t *testing.T) {
	c := newTestToncenter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"gas_used": 0, "exit_code": 11, "stack": []any{}})
	})

	_, err := c.CallGetMethod(context.Background(), testAddr, "get_jetton_data")
	require.ErrorContains(t, err, "exited with code 11")
	assert.False(t, IsTransient(err))
}

func TestToncenter_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, want: ErrRateLimited},
		{name: "server error", status: http.StatusBadGateway, want: ErrNetwork},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestToncenter(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			})

			_, err := c.GetBalance(context.Background(), testAddr)
			require.ErrorIs(t, err, tc.want)
			assert.True(t, IsTransient(err))
		})
	}

	t.Run("client error is not transient", func(t *testing.T) {
		c := newTestToncenter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad address"}`))
		})

		_, err := c.GetBalance(context.Background(), testAddr)
		require.ErrorContains(t, err, "bad address")
		assert.False(t, IsTransient(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		c := NewToncenter(logger.Test(t), "http://127.0.0.1:1", "")
		_, err := c.IsContractDeployed(context.Background(), testAddr)
		require.ErrorIs(t, err, ErrNetwork)
	})
}
