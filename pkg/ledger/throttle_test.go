package ledger

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
)

type countingClient struct {
	calls atomic.Int32
}

func (c *countingClient) GetBalance(context.Context, *address.Address) (tlb.Coins, error) {
	c.calls.Add(1)
	return tlb.MustFromTON("1"), nil
}

func (c *countingClient) IsContractDeployed(context.Context, *address.Address) (bool, error) {
	c.calls.Add(1)
	return true, nil
}

func (c *countingClient) CallGetMethod(context.Context, *address.Address, string, ...getmethod.Entry) (getmethod.RawStack, error) {
	c.calls.Add(1)
	return getmethod.RawStack{}, nil
}

func TestThrottled_SpacesCalls(t *testing.T) {
	inner := &countingClient{}
	// 20 rps keeps the test fast while still forcing measurable spacing
	throttled := NewThrottled(inner, NewLimiter(20, 1))
	ctx := context.Background()

	start := time.Now()
	_, err := throttled.GetBalance(ctx, testAddr)
	require.NoError(t, err)
	_, err = throttled.IsContractDeployed(ctx, testAddr)
	require.NoError(t, err)
	_, err = throttled.CallGetMethod(ctx, testAddr, "get_jetton_data")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestThrottled_SharedAcrossWrappers(t *testing.T) {
	limiter := NewLimiter(20, 0)
	a := NewThrottled(&countingClient{}, limiter)
	b := NewThrottled(&countingClient{}, limiter)

	start := time.Now()
	_, err := a.GetBalance(context.Background(), testAddr)
	require.NoError(t, err)
	_, err = b.GetBalance(context.Background(), testAddr)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestThrottled_ContextCancelled(t *testing.T) {
	inner := &countingClient{}
	throttled := NewThrottled(inner, NewLimiter(DefaultRequestsPerSecond, 1))

	_, err := throttled.GetBalance(context.Background(), testAddr)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = throttled.IsContractDeployed(ctx, testAddr)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.False(t, IsTransient(err))
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestThrottled_DeadlineBeforeNextToken(t *testing.T) {
	inner := &countingClient{}
	throttled := NewThrottled(inner, NewLimiter(DefaultRequestsPerSecond, 1))

	_, err := throttled.GetBalance(context.Background(), testAddr)
	require.NoError(t, err)

	// the next token is over a second away
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = throttled.CallGetMethod(ctx, testAddr, "get_jetton_data")
	require.ErrorIs(t, err, ErrRateLimited)
	assert.True(t, IsTransient(err))
	assert.Equal(t, int32(1), inner.calls.Load())
}
