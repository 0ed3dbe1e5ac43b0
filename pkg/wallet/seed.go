package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/xssnick/tonutils-go/address"
	tonwallet "github.com/xssnick/tonutils-go/ton/wallet"
)

const (
	VersionV3R2       = "v3r2"
	VersionV4R2       = "v4r2"
	VersionHighloadV3 = "highload-v3"
)

var highloadV3 = tonwallet.ConfigHighloadV3{
	MessageTTL: 120, // 2 minutes TTL
	MessageBuilder: func(ctx context.Context, subWalletId uint32) (id uint32, createdAt int64, err error) {
		tm := time.Now().Unix() - 30
		return uint32(10000 + tm%(1<<23)), tm, nil
	},
}

// VersionConfig maps a configured wallet version name to its tonutils config.
func VersionConfig(version string) (tonwallet.VersionConfig, error) {
	switch strings.ToLower(version) {
	case VersionV3R2:
		return tonwallet.V3R2, nil
	case "", VersionV4R2:
		return tonwallet.V4R2, nil
	case VersionHighloadV3:
		return highloadV3, nil
	default:
		return nil, fmt.Errorf("unsupported wallet version %q", version)
	}
}

// FromMnemonic opens the wallet of a space separated mnemonic.
func FromMnemonic(api tonwallet.TonAPI, mnemonic, version string) (*tonwallet.Wallet, error) {
	words := strings.Fields(mnemonic)
	if len(words) == 0 {
		return nil, fmt.Errorf("empty mnemonic")
	}
	v, err := VersionConfig(version)
	if err != nil {
		return nil, err
	}
	w, err := tonwallet.FromSeed(api, words, v)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet from mnemonic: %w", err)
	}
	return w, nil
}

// Identity describes the signing wallet of a deployment.
type Identity struct {
	Address   *address.Address
	PublicKey string
	Version   string
}

// IdentityOf reports the address and hex public key of w, opened as version.
func IdentityOf(w *tonwallet.Wallet, version string) (Identity, error) {
	pub, ok := w.PrivateKey().Public().(ed25519.PublicKey)
	if !ok {
		return Identity{}, fmt.Errorf("unsupported key type: %T", w.PrivateKey().Public())
	}
	if version == "" {
		version = VersionV4R2
	}
	return Identity{
		Address:   w.WalletAddress(),
		PublicKey: hex.EncodeToString(pub),
		Version:   strings.ToLower(version),
	}, nil
}
