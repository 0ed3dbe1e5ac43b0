package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDecodedTOMLConfig_Defaults(t *testing.T) {
	cfg, err := NewDecodedTOMLConfig(``)
	require.NoError(t, err)

	assert.Equal(t, ChainIDMainnet, *cfg.ChainID)
	assert.Equal(t, BackendLiteClient, *cfg.Ledger.Backend)
	assert.Equal(t, mainnetConfigURL, cfg.Ledger.ConfigURL.String())

	gas, err := cfg.DeployGas()
	require.NoError(t, err)
	assert.Equal(t, "0.25", gas.String())

	mintTon, err := cfg.MintTonAmount()
	require.NoError(t, err)
	assert.Equal(t, "0.2", mintTon.String())

	policy := cfg.PollPolicy()
	assert.Equal(t, 3*time.Second, policy.Interval)
	assert.Equal(t, uint(25), policy.MaxAttempts)
	assert.Equal(t, 2*time.Minute, policy.Timeout)

	assert.InDelta(t, 0.9, *cfg.RateLimit.RequestsPerSecond, 1e-9)
}

func TestNewDecodedTOMLConfig_Overrides(t *testing.T) {
	raw := `
ChainID = '-3'

[Deployer]
Workchain = -1
DeployGas = '0.5'
MinterCodePath = 'build/JettonMinter.compiled.json'

[Poll]
Interval = '1s'
MaxAttempts = 10
Timeout = '30s'

[RateLimit]
RequestsPerSecond = 10.0
Burst = 2

[Ledger]
Backend = 'toncenter'
APIKey = 'secret'

[Wallet]
Version = 'highload-v3'
`
	cfg, err := NewDecodedTOMLConfig(raw)
	require.NoError(t, err)

	assert.Equal(t, int8(-1), *cfg.Deployer.Workchain)
	assert.Equal(t, "build/JettonMinter.compiled.json", *cfg.Deployer.MinterCodePath)
	assert.Equal(t, testnetToncenterURL, cfg.Ledger.Endpoint.String())
	assert.Equal(t, testnetConfigURL, cfg.Ledger.ConfigURL.String())
	assert.Equal(t, "secret", *cfg.Ledger.APIKey)
	assert.Equal(t, 2, *cfg.RateLimit.Burst)

	gas, err := cfg.DeployGas()
	require.NoError(t, err)
	assert.Equal(t, "0.5", gas.String())

	policy := cfg.PollPolicy()
	assert.Equal(t, time.Second, policy.Interval)
	assert.Equal(t, uint(10), policy.MaxAttempts)

	out, err := cfg.TOMLString()
	require.NoError(t, err)
	again, err := NewDecodedTOMLConfig(out)
	require.NoError(t, err)
	assert.Equal(t, *cfg.Wallet.Version, *again.Wallet.Version)
}

func TestNewDecodedTOMLConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "unknown field", raw: "Foo = 1", want: "failed to decode"},
		{name: "bad backend", raw: "[Ledger]\nBackend = 'rpc'", want: "Ledger.Backend"},
		{name: "bad gas", raw: "[Deployer]\nDeployGas = 'lots'", want: "Deployer.DeployGas"},
		{name: "bad workchain", raw: "[Deployer]\nWorkchain = 5", want: "Deployer.Workchain"},
		{name: "zero attempts", raw: "[Poll]\nMaxAttempts = 0", want: "max attempts"},
		{name: "zero rate", raw: "[RateLimit]\nRequestsPerSecond = 0.0", want: "RateLimit.RequestsPerSecond"},
		{name: "bad wallet", raw: "[Wallet]\nVersion = 'v1r1'", want: "Wallet.Version"},
		{name: "empty chain id", raw: "ChainID = ''", want: "ChainID"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDecodedTOMLConfig(tc.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
