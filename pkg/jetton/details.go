package jetton

import (
	"context"
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"

	bindings "github.com/smartcontractkit/ton-jetton-deployer/pkg/bindings/jetton"
)

type JettonRecord struct {
	Name            string `json:"name,omitempty"`
	Symbol          string `json:"symbol,omitempty"`
	Description     string `json:"description,omitempty"`
	Image           string `json:"image,omitempty"`
	ContentURI      string `json:"contentUri,omitempty"`
	ContractAddress string `json:"contractAddress"`
}

type WalletRecord struct {
	JettonAmount *big.Int `json:"jettonAmount"`
	OwnerWallet  string   `json:"ownerJWallet"`
	Owner        string   `json:"owner"`
}

// Details is read fresh from the ledger on every call.
type Details struct {
	Jetton JettonRecord `json:"jetton"`
	Wallet WalletRecord `json:"wallet"`
}

// GetJettonDetails reads the metadata of minter and the jetton balance of owner.
func (c *Controller) GetJettonDetails(ctx context.Context, minter, owner *address.Address) (*Details, error) {
	data, err := c.jettonData(ctx, minter)
	if err != nil {
		return nil, err
	}
	metadata, err := bindings.ParseMetadata(data.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata of %s: %w", minter.String(), err)
	}

	jettonWallet, err := c.walletAddress(ctx, minter, owner)
	if err != nil {
		return nil, err
	}
	state, err := c.walletData(ctx, jettonWallet)
	if err != nil {
		return nil, err
	}

	return &Details{
		Jetton: JettonRecord{
			Name:            metadata.Name,
			Symbol:          metadata.Symbol,
			Description:     metadata.Description,
			Image:           metadata.Image,
			ContentURI:      metadata.URI,
			ContractAddress: minter.String(),
		},
		Wallet: WalletRecord{
			JettonAmount: state.Balance,
			OwnerWallet:  jettonWallet.String(),
			Owner:        owner.String(),
		},
	}, nil
}
