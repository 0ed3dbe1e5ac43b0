package testutils

import (
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
)

func JettonDataStack(supply *big.Int, admin *address.Address, content, walletCode *cell.Cell) getmethod.RawStack {
	return getmethod.RawStack{
		getmethod.Num(supply),
		getmethod.Num(big.NewInt(-1)),
		getmethod.Address(admin),
		getmethod.Cell(content),
		getmethod.Cell(walletCode),
	}
}

func WalletAddressStack(wallet *address.Address) getmethod.RawStack {
	return getmethod.RawStack{getmethod.Address(wallet)}
}

func WalletDataStack(balance *big.Int, owner, minter *address.Address, walletCode *cell.Cell) getmethod.RawStack {
	return getmethod.RawStack{
		getmethod.Num(balance),
		getmethod.Address(owner),
		getmethod.Address(minter),
		getmethod.Cell(walletCode),
	}
}

// Static returns a getter that always answers with stack.
func Static(stack getmethod.RawStack) GetterFunc {
	return func([]getmethod.Entry) (getmethod.RawStack, error) {
		return stack, nil
	}
}
