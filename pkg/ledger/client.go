// Package ledger provides read access to the TON ledger: balances, account state
// and get-method calls. All implementations report transport failures as
// ErrNetwork and quota rejections as ErrRateLimited, the two transient classes the
// confirmation poller is allowed to retry.
package ledger

import (
	"context"
	"errors"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
)

var (
	ErrNetwork     = errors.New("ledger network error")
	ErrRateLimited = errors.New("ledger rate limited")
)

// IsTransient reports whether err belongs to a class that may succeed on retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrRateLimited)
}

type Client interface {
	GetBalance(ctx context.Context, addr *address.Address) (tlb.Coins, error)
	// IsContractDeployed reports whether addr holds an active account with code.
	IsContractDeployed(ctx context.Context, addr *address.Address) (bool, error)
	CallGetMethod(ctx context.Context, addr *address.Address, method string, args ...getmethod.Entry) (getmethod.RawStack, error)
}
