package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ton/tvm"
)

var _ Client = (*LiteClient)(nil)

// LiteAPI is the part of ton.APIClientWrapped the lite client reads through.
type LiteAPI interface {
	CurrentMasterchainInfo(ctx context.Context) (*ton.BlockIDExt, error)
	GetAccount(ctx context.Context, block *ton.BlockIDExt, addr *address.Address) (*tlb.Account, error)
	RunGetMethod(ctx context.Context, block *ton.BlockIDExt, addr *address.Address, method string, params ...any) (*ton.ExecutionResult, error)
}

// LiteClient reads the ledger through liteservers. Every call is pinned to the
// masterchain block current at call time.
type LiteClient struct {
	api LiteAPI
	// atBlock returns a client that has caught up with seqno.
	atBlock func(seqno uint32) LiteAPI
	lggr    logger.Logger
}

func NewLiteClient(lggr logger.Logger, api ton.APIClientWrapped) *LiteClient {
	c := newLiteClient(lggr, api)
	c.atBlock = func(seqno uint32) LiteAPI { return api.WaitForBlock(seqno) }
	return c
}

func newLiteClient(lggr logger.Logger, api LiteAPI) *LiteClient {
	return &LiteClient{
		api:     api,
		atBlock: func(uint32) LiteAPI { return api },
		lggr:    logger.Named(lggr, "LiteClient"),
	}
}

func (c *LiteClient) account(ctx context.Context, addr *address.Address) (*tlb.Account, error) {
	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get current block: %w", ErrNetwork, err)
	}
	acc, err := c.atBlock(block.SeqNo).GetAccount(ctx, block, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get account %s: %w", ErrNetwork, addr.String(), err)
	}
	return acc, nil
}

func (c *LiteClient) GetBalance(ctx context.Context, addr *address.Address) (tlb.Coins, error) {
	acc, err := c.account(ctx, addr)
	if err != nil {
		return tlb.ZeroCoins, err
	}
	if acc.State == nil {
		return tlb.ZeroCoins, nil
	}
	return acc.State.Balance, nil
}

func (c *LiteClient) IsContractDeployed(ctx context.Context, addr *address.Address) (bool, error) {
	acc, err := c.account(ctx, addr)
	if err != nil {
		return false, err
	}
	deployed := acc.IsActive && acc.State != nil && acc.State.Status == tlb.AccountStatusActive && acc.Code != nil
	c.lggr.Debugw("account state", "address", addr.String(), "deployed", deployed)
	return deployed, nil
}

func (c *LiteClient) CallGetMethod(ctx context.Context, addr *address.Address, method string, args ...getmethod.Entry) (getmethod.RawStack, error) {
	params := make([]any, 0, len(args))
	for i, arg := range args {
		p, err := liteParam(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %d for %s: %w", i, method, err)
		}
		params = append(params, p)
	}

	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get current block: %w", ErrNetwork, err)
	}
	res, err := c.atBlock(block.SeqNo).RunGetMethod(ctx, block, addr, method, params...)
	var execErr ton.ContractExecError
	if errors.As(err, &execErr) {
		code := tvm.ExitCode(execErr.Code)
		return nil, fmt.Errorf("get method %s on %s exited with code %d: %s", method, addr.String(), code, code.Describe())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to run get method %s on %s: %w", ErrNetwork, method, addr.String(), err)
	}

	tuple := res.AsTuple()
	stack := make(getmethod.RawStack, 0, len(tuple))
	for _, v := range tuple {
		stack = append(stack, liteEntry(v))
	}
	return stack, nil
}

func liteParam(arg getmethod.Entry) (any, error) {
	parsed, err := getmethod.Parse(getmethod.RawStack{arg})
	if err != nil {
		return nil, err
	}
	switch arg.Type {
	case getmethod.TypeNum:
		return parsed[0].Int(), nil
	case getmethod.TypeSlice:
		return parsed[0].Blob().BeginParse(), nil
	case getmethod.TypeCell:
		return parsed[0].Blob(), nil
	default:
		return nil, fmt.Errorf("unsupported argument type %q", arg.Type)
	}
}

// liteEntry maps a tonutils stack value onto a raw entry. Values the parser has no
// variant for keep a descriptive type so that decoding them fails loudly.
func liteEntry(v any) getmethod.Entry {
	switch val := v.(type) {
	case nil:
		return getmethod.Entry{Type: getmethod.TypeNull}
	case *big.Int:
		return getmethod.Num(val)
	case *cell.Cell:
		return getmethod.Cell(val)
	case *cell.Slice:
		c, err := val.ToCell()
		if err != nil {
			return getmethod.Entry{Type: getmethod.TypeSlice, Value: err.Error()}
		}
		return getmethod.Slice(c)
	case []any:
		return getmethod.Entry{Type: "tuple", Value: fmt.Sprintf("%d items", len(val))}
	default:
		return getmethod.Entry{Type: fmt.Sprintf("%T", v)}
	}
}
