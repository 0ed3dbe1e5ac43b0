package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ledger"
)

const (
	OpGetBalance         = "GetBalance"
	OpIsContractDeployed = "IsContractDeployed"
	OpCallGetMethod      = "CallGetMethod"
)

// GetterFunc answers a get-method call on the fake ledger.
type GetterFunc func(args []getmethod.Entry) (getmethod.RawStack, error)

// LedgerCall records one read against the fake ledger.
type LedgerCall struct {
	Op      string
	Address string
	Method  string
}

var _ ledger.Client = (*FakeLedger)(nil)

// FakeLedger is an in-memory ledger.Client. Accounts are keyed by their raw
// address form, so bounceable and non-bounceable spellings share state.
type FakeLedger struct {
	mu        sync.Mutex
	balances  map[string]tlb.Coins
	deployed  map[string]bool
	pending   map[string]int
	getters   map[string]GetterFunc
	stateErrs []error
	calls     []LedgerCall
}

func NewFakeLedger() *FakeLedger {
	return &FakeLedger{
		balances: map[string]tlb.Coins{},
		deployed: map[string]bool{},
		pending:  map[string]int{},
		getters:  map[string]GetterFunc{},
	}
}

func key(addr *address.Address) string {
	return addr.StringRaw()
}

func (l *FakeLedger) SetBalance(addr *address.Address, balance tlb.Coins) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[key(addr)] = balance
}

func (l *FakeLedger) SetDeployed(addr *address.Address) {
	l.DeployAfter(addr, 0)
}

// DeployAfter makes addr report as not deployed for the next reads state reads,
// and deployed from then on.
func (l *FakeLedger) DeployAfter(addr *address.Address, reads int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deployed[key(addr)] = true
	l.pending[key(addr)] = reads
}

// FailStateReads queues errors returned by the next IsContractDeployed calls.
func (l *FakeLedger) FailStateReads(errs ...error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stateErrs = append(l.stateErrs, errs...)
}

func (l *FakeLedger) HandleGetMethod(addr *address.Address, method string, fn GetterFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.getters[key(addr)+"/"+method] = fn
}

func (l *FakeLedger) Calls() []LedgerCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LedgerCall(nil), l.calls...)
}

// CountCalls counts recorded calls of op, optionally narrowed to a get method.
func (l *FakeLedger) CountCalls(op, method string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		if c.Op == op && (method == "" || c.Method == method) {
			n++
		}
	}
	return n
}

func (l *FakeLedger) record(op string, addr *address.Address, method string) {
	l.calls = append(l.calls, LedgerCall{Op: op, Address: key(addr), Method: method})
}

func (l *FakeLedger) GetBalance(ctx context.Context, addr *address.Address) (tlb.Coins, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(OpGetBalance, addr, "")
	if err := ctx.Err(); err != nil {
		return tlb.ZeroCoins, err
	}
	if b, ok := l.balances[key(addr)]; ok {
		return b, nil
	}
	return tlb.ZeroCoins, nil
}

func (l *FakeLedger) IsContractDeployed(ctx context.Context, addr *address.Address) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(OpIsContractDeployed, addr, "")
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(l.stateErrs) > 0 {
		err := l.stateErrs[0]
		l.stateErrs = l.stateErrs[1:]
		return false, err
	}
	k := key(addr)
	if !l.deployed[k] {
		return false, nil
	}
	if l.pending[k] > 0 {
		l.pending[k]--
		return false, nil
	}
	return true, nil
}

func (l *FakeLedger) CallGetMethod(ctx context.Context, addr *address.Address, method string, args ...getmethod.Entry) (getmethod.RawStack, error) {
	l.mu.Lock()
	l.record(OpCallGetMethod, addr, method)
	fn, ok := l.getters[key(addr)+"/"+method]
	l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("get method %s on %s exited with code 11", method, addr.String())
	}
	return fn(args)
}
