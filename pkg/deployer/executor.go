// Package deployer submits contract deployments and waits for them to land.
package deployer

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// DeployRequest describes a single deployment attempt.
type DeployRequest struct {
	Deployer  *address.Address
	Workchain int8
	Value     tlb.Coins
	Code      *cell.Cell
	Data      *cell.Cell
	// Message is the body delivered with the deployment, nil for an empty body.
	Message *cell.Cell
	DryRun  bool
}

// TransactionRequest is what the wallet is asked to sign and submit.
type TransactionRequest struct {
	To        *address.Address
	Value     tlb.Coins
	StateInit *tlb.StateInit
	Message   *cell.Cell
}

// WalletAdapter signs and submits transactions on behalf of the deployer.
// Implementations return an error wrapping ErrUserRejected when the signer
// declines, and ErrSubmissionFailed when the transaction could not be sent.
type WalletAdapter interface {
	RequestTransaction(ctx context.Context, req TransactionRequest) error
}

type Executor struct {
	lggr logger.Logger
}

func NewExecutor(lggr logger.Logger) *Executor {
	return &Executor{lggr: logger.Named(lggr, "DeployExecutor")}
}

// AddressFor returns the address the request would deploy to.
func (e *Executor) AddressFor(req DeployRequest) *address.Address {
	return DeriveAddress(req.Workchain, req.Code, req.Data)
}

// Deploy sends exactly one deployment transaction and returns the contract address
// once the wallet accepted it for submission. It does not wait for inclusion.
func (e *Executor) Deploy(ctx context.Context, req DeployRequest, w WalletAdapter) (*address.Address, error) {
	if req.Code == nil || req.Data == nil {
		return nil, errors.New("deploy request must carry code and data")
	}
	addr := e.AddressFor(req)
	if req.DryRun {
		e.lggr.Debugw("dry run, skipping submission", "address", addr.String())
		return addr, nil
	}

	tx := TransactionRequest{
		To:        addr,
		Value:     req.Value,
		StateInit: StateInit(req.Code, req.Data),
		Message:   req.Message,
	}
	lggr := logger.With(e.lggr, "address", addr.String(), "value", req.Value.String())
	if req.Deployer != nil {
		lggr = logger.With(lggr, "deployer", req.Deployer.String())
	}
	lggr.Info("submitting deployment")
	if err := w.RequestTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", addr.String(), err)
	}
	return addr, nil
}
