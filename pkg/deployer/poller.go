package deployer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ledger"
)

var errNotYetDeployed = errors.New("contract not yet deployed")

// DeployedChecker is the ledger read the poller needs. ledger.Client satisfies it.
type DeployedChecker interface {
	IsContractDeployed(ctx context.Context, addr *address.Address) (bool, error)
}

// PollPolicy bounds confirmation polling. Whichever of MaxAttempts or Timeout is
// reached first ends the wait.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts uint
	Timeout     time.Duration
}

// DefaultPollPolicy waits up to 25 reads three seconds apart.
var DefaultPollPolicy = PollPolicy{
	Interval:    3 * time.Second,
	MaxAttempts: 25,
	Timeout:     2 * time.Minute,
}

func (p PollPolicy) Validate() error {
	var err error
	if p.Interval <= 0 {
		err = errors.Join(err, fmt.Errorf("poll interval must be positive, got %s", p.Interval))
	}
	// retry-go treats zero attempts as unbounded
	if p.MaxAttempts == 0 {
		err = errors.Join(err, errors.New("poll max attempts must be at least 1"))
	}
	if p.Timeout <= 0 {
		err = errors.Join(err, fmt.Errorf("poll timeout must be positive, got %s", p.Timeout))
	}
	return err
}

type Poller struct {
	lggr   logger.Logger
	policy PollPolicy
}

func NewPoller(lggr logger.Logger, policy PollPolicy) (*Poller, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid poll policy: %w", err)
	}
	return &Poller{lggr: logger.Named(lggr, "DeployPoller"), policy: policy}, nil
}

func (p *Poller) Policy() PollPolicy {
	return p.policy
}

// AwaitDeployed polls until addr holds a deployed contract. Transient ledger
// errors count as unsuccessful attempts, any other read error aborts at once.
// Running out of attempts or time yields ErrDeployTimeout; cancellation of ctx
// yields the context error.
func (p *Poller) AwaitDeployed(ctx context.Context, addr *address.Address, checker DeployedChecker) error {
	pollCtx, cancel := context.WithTimeout(ctx, p.policy.Timeout)
	defer cancel()

	var attempts uint
	var lastErr error
	err := retry.Do(
		func() error {
			attempts++
			deployed, err := checker.IsContractDeployed(pollCtx, addr)
			switch {
			case err != nil:
				lastErr = err
			case !deployed:
				lastErr = errNotYetDeployed
			default:
				return nil
			}
			return lastErr
		},
		retry.Context(pollCtx),
		retry.Attempts(p.policy.MaxAttempts),
		retry.Delay(p.policy.Interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errNotYetDeployed) || ledger.IsTransient(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			p.lggr.Debugw("waiting for deployment", "address", addr.String(), "attempt", n+1, "err", err)
		}),
	)
	if err == nil {
		p.lggr.Debugw("contract deployed", "address", addr.String(), "attempts", attempts)
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if pollCtx.Err() != nil || errors.Is(err, errNotYetDeployed) || ledger.IsTransient(err) {
		if lastErr == nil {
			lastErr = err
		}
		return fmt.Errorf("%w: %s after %d attempts: %w", ErrDeployTimeout, addr.String(), attempts, lastErr)
	}
	return fmt.Errorf("failed to check deployment of %s: %w", addr.String(), err)
}
