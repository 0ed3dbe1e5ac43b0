// Package wallet submits deployment transactions from a tonutils-go wallet.
package wallet

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	tonwallet "github.com/xssnick/tonutils-go/ton/wallet"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/deployer"
)

// Sender is the part of *tonwallet.Wallet the adapter uses.
type Sender interface {
	WalletAddress() *address.Address
	Send(ctx context.Context, message *tonwallet.Message, waitConfirmation ...bool) error
}

// ConfirmFunc asks the key holder to approve a transaction. Returning false
// rejects it.
type ConfirmFunc func(ctx context.Context, req deployer.TransactionRequest) (bool, error)

type AdapterOption func(*Adapter)

func WithConfirm(fn ConfirmFunc) AdapterOption {
	return func(a *Adapter) { a.confirm = fn }
}

var _ deployer.WalletAdapter = (*Adapter)(nil)

type Adapter struct {
	lggr    logger.Logger
	sender  Sender
	confirm ConfirmFunc
}

func NewAdapter(lggr logger.Logger, sender Sender, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		lggr:   logger.Named(lggr, "WalletAdapter"),
		sender: sender,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Address() *address.Address {
	return a.sender.WalletAddress()
}

// RequestTransaction sends req without waiting for it to be included in a block.
func (a *Adapter) RequestTransaction(ctx context.Context, req deployer.TransactionRequest) error {
	if a.confirm != nil {
		ok, err := a.confirm(ctx, req)
		if err != nil {
			return fmt.Errorf("%w: %w", deployer.ErrUserRejected, err)
		}
		if !ok {
			return deployer.ErrUserRejected
		}
	}

	if err := a.sender.Send(ctx, Message(req), false); err != nil {
		return fmt.Errorf("%w: %w", deployer.ErrSubmissionFailed, err)
	}
	a.lggr.Infow("transaction sent", "from", a.Address().String(), "to", req.To.String(), "value", req.Value.String())
	return nil
}

// Message builds the internal message for req. Deployments go to an account that
// does not exist yet, so the message must not bounce.
func Message(req deployer.TransactionRequest) *tonwallet.Message {
	return &tonwallet.Message{
		Mode: tonwallet.PayGasSeparately + tonwallet.IgnoreErrors,
		InternalMessage: &tlb.InternalMessage{
			IHRDisabled: true,
			Bounce:      false,
			DstAddr:     req.To,
			Amount:      req.Value,
			Body:        req.Message,
			StateInit:   req.StateInit,
		},
	}
}

// PromptConfirm asks on out and reads a yes/no answer from in.
func PromptConfirm(in io.Reader, out io.Writer) ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(_ context.Context, req deployer.TransactionRequest) (bool, error) {
		if _, err := fmt.Fprintf(out, "Send %s TON to %s with state init? [y/N]: ", req.Value.String(), req.To.String()); err != nil {
			return false, err
		}
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}
