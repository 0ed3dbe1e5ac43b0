package ledger

import (
	"context"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"golang.org/x/time/rate"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
)

// DefaultRequestsPerSecond keeps reads under the public toncenter quota of one
// request per second without an API key.
const DefaultRequestsPerSecond = 0.9

var _ Client = (*Throttled)(nil)

// Throttled gates every call of the wrapped client on a single token bucket.
// Build it once and share the instance between all callers: the limit is global
// only because the instance is.
type Throttled struct {
	client  Client
	limiter *rate.Limiter
}

func NewLimiter(requestsPerSecond float64, burst int) *rate.Limiter {
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func NewThrottled(client Client, limiter *rate.Limiter) *Throttled {
	return &Throttled{client: client, limiter: limiter}
}

// wait blocks for a token. A done caller context is returned as is; only a
// deadline too close for the next token counts as rate limiting.
func (t *Throttled) wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return nil
}

func (t *Throttled) GetBalance(ctx context.Context, addr *address.Address) (tlb.Coins, error) {
	if err := t.wait(ctx); err != nil {
		return tlb.ZeroCoins, err
	}
	return t.client.GetBalance(ctx, addr)
}

func (t *Throttled) IsContractDeployed(ctx context.Context, addr *address.Address) (bool, error) {
	if err := t.wait(ctx); err != nil {
		return false, err
	}
	return t.client.IsContractDeployed(ctx, addr)
}

func (t *Throttled) CallGetMethod(ctx context.Context, addr *address.Address, method string, args ...getmethod.Entry) (getmethod.RawStack, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}
	return t.client.CallGetMethod(ctx, addr, method, args...)
}
