package jetton

import (
	"fmt"
	"os"
	"path"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ton/contract"
)

// Opcodes of the messages a deployment sends
const (
	OpcodeMinterMint             = 0x15
	OpcodeMinterInternalTransfer = 0x178d4519
)

var (
	// DeployGas is attached to the deployment message and funds the mint.
	DeployGas = tlb.MustFromTON("0.25")
	// MintTonAmount is forwarded by the minter to the new jetton wallet.
	MintTonAmount = tlb.MustFromTON("0.2")
	// ForwardTonAmount is passed on to the owner with the transfer notification.
	ForwardTonAmount = tlb.MustFromTON("0.001")
)

// PathToContracts points at the compiled contracts directory when set.
var PathToContracts = os.Getenv("PATH_CONTRACTS_JETTON")

var MinterContractPath = path.Join(PathToContracts, "JettonMinter.compiled.json")

// MinterData is the initial storage of the minter:
// total_supply:Coins admin_address:MsgAddress content:^Cell jetton_wallet_code:^Cell
type MinterData struct {
	TotalSupply tlb.Coins        `tlb:"."`
	Admin       *address.Address `tlb:"addr"`
	Content     *cell.Cell       `tlb:"^"`
	WalletCode  *cell.Cell       `tlb:"^"`
}

type InternalTransferMessage struct {
	_                tlb.Magic        `tlb:"#178d4519"` //nolint:revive // This field should stay uninitialized
	QueryID          uint64           `tlb:"## 64"`
	Amount           tlb.Coins        `tlb:"."`
	From             *address.Address `tlb:"addr"`
	ResponseAddress  *address.Address `tlb:"addr"`
	ForwardTonAmount tlb.Coins        `tlb:"."`
	// ForwardPayloadInRef is the Either tag of an empty forward payload.
	ForwardPayloadInRef bool `tlb:"bool"`
}

type MintMessage struct {
	_           tlb.Magic               `tlb:"#00000015"` //nolint:revive // This field should stay uninitialized
	QueryID     uint64                  `tlb:"## 64"`
	Destination *address.Address        `tlb:"addr"`
	TonAmount   tlb.Coins               `tlb:"."`
	MasterMsg   InternalTransferMessage `tlb:"^"`
}

// MinterDataCell encodes the initial storage of a minter administered by owner.
func MinterDataCell(owner *address.Address, metadata Metadata, walletCode *cell.Cell) (*cell.Cell, error) {
	content, err := metadata.ContentCell()
	if err != nil {
		return nil, err
	}
	data, err := tlb.ToCell(MinterData{
		TotalSupply: tlb.ZeroCoins,
		Admin:       owner,
		Content:     content,
		WalletCode:  walletCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to convert minter data to cell: %w", err)
	}
	return data, nil
}

// MintBody encodes the message that mints amount jettons to owner. It rides on
// the deployment transaction so the minter mints right after initialisation.
func MintBody(owner *address.Address, amount tlb.Coins) (*cell.Cell, error) {
	return MintBodyWithTon(owner, amount, MintTonAmount)
}

// MintBodyWithTon is MintBody with a custom amount of TON for the jetton wallet.
func MintBodyWithTon(owner *address.Address, amount, tonAmount tlb.Coins) (*cell.Cell, error) {
	body, err := tlb.ToCell(MintMessage{
		QueryID:     0,
		Destination: owner,
		TonAmount:   tonAmount,
		MasterMsg: InternalTransferMessage{
			QueryID:          0,
			Amount:           amount,
			From:             address.NewAddressNone(),
			ResponseAddress:  owner,
			ForwardTonAmount: ForwardTonAmount,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to convert mint message to cell: %w", err)
	}
	return body, nil
}

// MinterCode loads the minter code from path, or from MinterContractPath when
// path is empty.
func MinterCode(path string) (*cell.Cell, error) {
	if path == "" {
		path = MinterContractPath
	}
	code, err := contract.ParseCompiledContract(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load minter code: %w", err)
	}
	return code, nil
}
