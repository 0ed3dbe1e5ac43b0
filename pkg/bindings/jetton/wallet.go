package jetton

import (
	"fmt"
	"path"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/deployer"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ton/contract"
)

var WalletContractPath = path.Join(PathToContracts, "JettonWallet.compiled.json")

// WalletData is the storage of a standard jetton wallet:
// balance:Coins owner_address:MsgAddressInt jetton_master_address:MsgAddressInt jetton_wallet_code:^Cell
type WalletData struct {
	Balance    tlb.Coins        `tlb:"."`
	Owner      *address.Address `tlb:"addr"`
	Minter     *address.Address `tlb:"addr"`
	WalletCode *cell.Cell       `tlb:"^"`
}

// WalletAddress computes the jetton wallet of owner locally. The minter's
// get_wallet_address stays authoritative; this is used to cross-check it.
func WalletAddress(workchain int8, minter, owner *address.Address, walletCode *cell.Cell) (*address.Address, error) {
	data, err := tlb.ToCell(WalletData{
		Balance:    tlb.ZeroCoins,
		Owner:      owner,
		Minter:     minter,
		WalletCode: walletCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to convert wallet data to cell: %w", err)
	}
	return deployer.DeriveAddress(workchain, walletCode, data), nil
}

// WalletCode loads the jetton wallet code from path, or from WalletContractPath
// when path is empty.
func WalletCode(path string) (*cell.Cell, error) {
	if path == "" {
		path = WalletContractPath
	}
	code, err := contract.ParseCompiledContract(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet code: %w", err)
	}
	return code, nil
}
