package jetton

import (
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
)

// Get method names of the minter and wallet.
const (
	GetterJettonData    = "get_jetton_data"
	GetterWalletAddress = "get_wallet_address"
	GetterWalletData    = "get_wallet_data"
)

// JettonData is the result of get_jetton_data:
// [0] total_supply int, [1] mintable int, [2] admin slice, [3] content cell, [4] wallet_code cell
type JettonData struct {
	TotalSupply *big.Int
	Mintable    bool
	Admin       *address.Address
	Content     *cell.Cell
	WalletCode  *cell.Cell
}

func DecodeJettonData(res getmethod.Result) (*JettonData, error) {
	supply, err := res.Int(0)
	if err != nil {
		return nil, err
	}
	mintable, err := res.Int(1)
	if err != nil {
		return nil, err
	}
	admin, err := res.Address(2)
	if err != nil {
		return nil, err
	}
	content, err := res.Cell(3)
	if err != nil {
		return nil, err
	}
	walletCode, err := res.Cell(4)
	if err != nil {
		return nil, err
	}
	return &JettonData{
		TotalSupply: supply,
		Mintable:    mintable.Sign() != 0,
		Admin:       admin,
		Content:     content,
		WalletCode:  walletCode,
	}, nil
}

// DecodeWalletAddress reads the result of get_wallet_address(owner slice):
// [0] jetton wallet slice
func DecodeWalletAddress(res getmethod.Result) (*address.Address, error) {
	return res.Address(0)
}

// WalletState is the result of get_wallet_data:
// [0] balance int, [1] owner slice, [2] minter slice, [3] wallet_code cell
type WalletState struct {
	Balance    *big.Int
	Owner      *address.Address
	Minter     *address.Address
	WalletCode *cell.Cell
}

func DecodeWalletData(res getmethod.Result) (*WalletState, error) {
	balance, err := res.Int(0)
	if err != nil {
		return nil, err
	}
	owner, err := res.Address(1)
	if err != nil {
		return nil, err
	}
	minter, err := res.Address(2)
	if err != nil {
		return nil, err
	}
	code, err := res.Cell(3)
	if err != nil {
		return nil, err
	}
	return &WalletState{Balance: balance, Owner: owner, Minter: minter, WalletCode: code}, nil
}
