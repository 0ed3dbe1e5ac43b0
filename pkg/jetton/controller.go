// Package jetton deploys a jetton minter, mints the initial supply to its owner
// and verifies the result on chain.
package jetton

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	bindings "github.com/smartcontractkit/ton-jetton-deployer/pkg/bindings/jetton"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/deployer"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ledger"
)

// DeployParams describes one jetton. AmountToMint is in the jetton's smallest
// units and is minted to Owner, who also becomes the admin.
type DeployParams struct {
	Owner        *address.Address
	Metadata     bindings.Metadata
	AmountToMint *big.Int
	// Progress defaults to NopProgress.
	Progress ProgressSink
}

func (p DeployParams) Validate() error {
	var err error
	if p.Owner == nil || p.Owner.Type() != address.StdAddress {
		err = errors.Join(err, errors.New("owner must be a standard address"))
	}
	if p.AmountToMint == nil || p.AmountToMint.Sign() <= 0 {
		err = errors.Join(err, errors.New("amount to mint must be positive"))
	}
	if p.Metadata.Name == "" || p.Metadata.Symbol == "" {
		err = errors.Join(err, errors.New("jetton name and symbol are required"))
	}
	return err
}

type Option func(*Controller)

func WithDeployGas(gas tlb.Coins) Option {
	return func(c *Controller) { c.deployGas = gas }
}

func WithMintTonAmount(amount tlb.Coins) Option {
	return func(c *Controller) { c.mintTon = amount }
}

func WithWorkchain(workchain int8) Option {
	return func(c *Controller) { c.workchain = workchain }
}

func WithPoller(p *deployer.Poller) Option {
	return func(c *Controller) { c.poller = p }
}

// Controller holds only immutable dependencies; every CreateJetton call is an
// independent attempt and calls may run concurrently.
type Controller struct {
	lggr       logger.Logger
	client     ledger.Client
	executor   *deployer.Executor
	poller     *deployer.Poller
	minterCode *cell.Cell
	walletCode *cell.Cell
	workchain  int8
	deployGas  tlb.Coins
	mintTon    tlb.Coins
}

// NewController wires a controller around client. Wrap client in a
// ledger.Throttled shared by every reader of the same endpoint.
func NewController(lggr logger.Logger, client ledger.Client, minterCode, walletCode *cell.Cell, opts ...Option) (*Controller, error) {
	if minterCode == nil || walletCode == nil {
		return nil, errors.New("minter and wallet code are required")
	}
	c := &Controller{
		lggr:       logger.Named(lggr, "JettonController"),
		client:     client,
		executor:   deployer.NewExecutor(lggr),
		minterCode: minterCode,
		walletCode: walletCode,
		deployGas:  bindings.DeployGas,
		mintTon:    bindings.MintTonAmount,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.poller == nil {
		p, err := deployer.NewPoller(lggr, deployer.DefaultPollPolicy)
		if err != nil {
			return nil, err
		}
		c.poller = p
	}
	return c, nil
}

func (c *Controller) deployRequest(params DeployParams) (deployer.DeployRequest, error) {
	data, err := bindings.MinterDataCell(params.Owner, params.Metadata, c.walletCode)
	if err != nil {
		return deployer.DeployRequest{}, fmt.Errorf("failed to encode minter data: %w", err)
	}
	body, err := bindings.MintBodyWithTon(params.Owner, tlb.FromNanoTON(params.AmountToMint), c.mintTon)
	if err != nil {
		return deployer.DeployRequest{}, fmt.Errorf("failed to encode mint message: %w", err)
	}
	return deployer.DeployRequest{
		Deployer:  params.Owner,
		Workchain: c.workchain,
		Value:     c.deployGas,
		Code:      c.minterCode,
		Data:      data,
		Message:   body,
	}, nil
}

// AddressFor predicts the minter address of params without touching the ledger
// or the wallet.
func (c *Controller) AddressFor(ctx context.Context, params DeployParams) (*address.Address, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	req, err := c.deployRequest(params)
	if err != nil {
		return nil, err
	}
	req.DryRun = true
	return c.executor.Deploy(ctx, req, nil)
}

type run struct {
	lggr  logger.Logger
	sink  ProgressSink
	state DeployState
}

func (r *run) emit(state DeployState, payload string) {
	r.state = state
	r.lggr.Infow("state transition", "state", state.String(), "payload", payload)
	notify(r.lggr, r.sink, Progress{State: state, Payload: payload})
}

func (r *run) fail(err error) error {
	notify(r.lggr, r.sink, Progress{State: r.state, Err: err})
	return &StateError{State: r.state, Err: err}
}

// CreateJetton deploys the minter described by params through w, unless it is
// already live, and verifies the admin, the owner's jetton wallet and the
// minted balance. It returns the minter address. Errors are *StateError values
// wrapping the deployer, getmethod and ledger sentinels.
func (c *Controller) CreateJetton(ctx context.Context, params DeployParams, w deployer.WalletAdapter) (*address.Address, error) {
	r := &run{lggr: c.lggr, sink: params.Progress, state: NotStarted}
	if r.sink == nil {
		r.sink = NopProgress
	}
	if err := params.Validate(); err != nil {
		return nil, r.fail(fmt.Errorf("invalid deploy params: %w", err))
	}

	r.emit(BalanceCheck, "")
	balance, err := c.client.GetBalance(ctx, params.Owner)
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to get deployer balance: %w", err))
	}
	if balance.Nano().Cmp(c.deployGas.Nano()) < 0 {
		return nil, r.fail(fmt.Errorf("%w: deployer %s holds %s TON, need %s TON",
			deployer.ErrInsufficientFunds, params.Owner.String(), balance.String(), c.deployGas.String()))
	}

	req, err := c.deployRequest(params)
	if err != nil {
		return nil, r.fail(err)
	}
	minter := c.executor.AddressFor(req)

	deployed, err := c.client.IsContractDeployed(ctx, minter)
	if err != nil {
		return nil, r.fail(fmt.Errorf("failed to check minter state: %w", err))
	}
	if deployed {
		r.emit(AlreadyDeployed, minter.String())
	} else {
		if _, err := c.executor.Deploy(ctx, req, w); err != nil {
			return nil, r.fail(err)
		}
		r.emit(AwaitingMinterDeploy, minter.String())
		if err := c.poller.AwaitDeployed(ctx, minter, c.client); err != nil {
			return nil, r.fail(err)
		}
	}

	data, err := c.jettonData(ctx, minter)
	if err != nil {
		return nil, r.fail(err)
	}
	if !deployer.SameAccount(data.Admin, params.Owner) {
		return nil, r.fail(fmt.Errorf("%w: minter %s reports admin %s, expected %s",
			deployer.ErrDeployedIncorrectly, minter.String(), data.Admin.String(), params.Owner.String()))
	}

	jettonWallet, err := c.walletAddress(ctx, minter, params.Owner)
	if err != nil {
		return nil, r.fail(err)
	}

	r.emit(AwaitingJettonWalletDeploy, jettonWallet.String())
	if err := c.poller.AwaitDeployed(ctx, jettonWallet, c.client); err != nil {
		return nil, r.fail(err)
	}

	r.emit(VerifyMint, minter.String())
	state, err := c.walletData(ctx, jettonWallet)
	if err != nil {
		return nil, r.fail(err)
	}
	if state.Balance.Cmp(params.AmountToMint) != 0 {
		return nil, r.fail(fmt.Errorf("%w: jetton wallet %s holds %s, expected %s",
			deployer.ErrMintVerificationFailed, jettonWallet.String(), state.Balance.String(), params.AmountToMint.String()))
	}

	r.emit(Done, minter.String())
	return minter, nil
}

func (c *Controller) call(ctx context.Context, addr *address.Address, method string, args ...getmethod.Entry) (getmethod.Result, error) {
	raw, err := c.client.CallGetMethod(ctx, addr, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", method, addr.String(), err)
	}
	res, err := getmethod.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("unexpected %s result from %s: %w", method, addr.String(), err)
	}
	return res, nil
}

func (c *Controller) jettonData(ctx context.Context, minter *address.Address) (*bindings.JettonData, error) {
	res, err := c.call(ctx, minter, bindings.GetterJettonData)
	if err != nil {
		return nil, err
	}
	data, err := bindings.DecodeJettonData(res)
	if err != nil {
		return nil, fmt.Errorf("unexpected %s result from %s: %w", bindings.GetterJettonData, minter.String(), err)
	}
	return data, nil
}

// walletAddress asks the minter for the jetton wallet of owner. The answer is
// only a prediction until the wallet is observed on chain.
func (c *Controller) walletAddress(ctx context.Context, minter, owner *address.Address) (*address.Address, error) {
	res, err := c.call(ctx, minter, bindings.GetterWalletAddress, getmethod.Address(owner))
	if err != nil {
		return nil, err
	}
	addr, err := bindings.DecodeWalletAddress(res)
	if err != nil {
		return nil, fmt.Errorf("unexpected %s result from %s: %w", bindings.GetterWalletAddress, minter.String(), err)
	}

	if local, err := bindings.WalletAddress(c.workchain, minter, owner, c.walletCode); err == nil && !deployer.SameAccount(local, addr) {
		// custom wallet layouts legitimately differ from the standard one
		c.lggr.Debugw("minter reported non-standard jetton wallet address",
			"minter", minter.String(), "reported", addr.String(), "standard", local.String())
	}
	return addr, nil
}

func (c *Controller) walletData(ctx context.Context, jettonWallet *address.Address) (*bindings.WalletState, error) {
	res, err := c.call(ctx, jettonWallet, bindings.GetterWalletData)
	if err != nil {
		return nil, err
	}
	state, err := bindings.DecodeWalletData(res)
	if err != nil {
		return nil, fmt.Errorf("unexpected %s result from %s: %w", bindings.GetterWalletData, jettonWallet.String(), err)
	}
	return state, nil
}
