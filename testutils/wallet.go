package testutils

import (
	"context"
	"sync"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/deployer"
)

var _ deployer.WalletAdapter = (*FakeWallet)(nil)

// FakeWallet records transaction requests. OnRequest runs for every accepted
// request and is the place to make the ledger react to a submission.
type FakeWallet struct {
	mu       sync.Mutex
	requests []deployer.TransactionRequest

	Err       error
	OnRequest func(req deployer.TransactionRequest)
}

func (w *FakeWallet) RequestTransaction(_ context.Context, req deployer.TransactionRequest) error {
	w.mu.Lock()
	w.requests = append(w.requests, req)
	err, hook := w.Err, w.OnRequest
	w.mu.Unlock()

	if err != nil {
		return err
	}
	if hook != nil {
		hook(req)
	}
	return nil
}

func (w *FakeWallet) Requests() []deployer.TransactionRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]deployer.TransactionRequest(nil), w.requests...)
}
