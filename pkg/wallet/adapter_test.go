package wallet

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	tonwallet "github.com/xssnick/tonutils-go/ton/wallet"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/deployer"
)

type fakeSender struct {
	sent []*tonwallet.Message
	wait []bool
	err  error
}

func (f *fakeSender) WalletAddress() *address.Address {
	return address.MustParseAddr("EQDtFpEwcFAEcRe5mLVh2N6C0x-_hJEM7W61_JLnSF74p4q2")
}

func (f *fakeSender) Send(_ context.Context, msg *tonwallet.Message, waitConfirmation ...bool) error {
	f.sent = append(f.sent, msg)
	f.wait = append(f.wait, len(waitConfirmation) > 0 && waitConfirmation[0])
	return f.err
}

func testTx() deployer.TransactionRequest {
	code := cell.BeginCell().MustStoreUInt(1, 8).EndCell()
	data := cell.BeginCell().MustStoreUInt(2, 8).EndCell()
	return deployer.TransactionRequest{
		To:        deployer.DeriveAddress(0, code, data),
		Value:     tlb.MustFromTON("0.25"),
		StateInit: deployer.StateInit(code, data),
		Message:   cell.BeginCell().MustStoreUInt(0x15, 32).EndCell(),
	}
}

func TestAdapter_RequestTransaction(t *testing.T) {
	sender := &fakeSender{}
	a := NewAdapter(logger.Test(t), sender)
	tx := testTx()

	require.NoError(t, a.RequestTransaction(context.Background(), tx))
	require.Len(t, sender.sent, 1)
	assert.False(t, sender.wait[0], "must not wait for confirmation")

	msg := sender.sent[0]
	assert.Equal(t, uint8(tonwallet.PayGasSeparately+tonwallet.IgnoreErrors), msg.Mode)
	assert.False(t, msg.InternalMessage.Bounce)
	assert.Equal(t, tx.To.StringRaw(), msg.InternalMessage.DstAddr.StringRaw())
	assert.Equal(t, tx.Value.Nano().String(), msg.InternalMessage.Amount.Nano().String())
	assert.Equal(t, tx.Message.Hash(), msg.InternalMessage.Body.Hash())
	assert.Same(t, tx.StateInit, msg.InternalMessage.StateInit)
}

func TestAdapter_SubmissionFailed(t *testing.T) {
	sender := &fakeSender{err: errors.New("liteserver unavailable")}
	a := NewAdapter(logger.Test(t), sender)

	err := a.RequestTransaction(context.Background(), testTx())
	require.ErrorIs(t, err, deployer.ErrSubmissionFailed)
	assert.ErrorContains(t, err, "liteserver unavailable")
}

func TestAdapter_Confirm(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		sender := &fakeSender{}
		a := NewAdapter(logger.Test(t), sender, WithConfirm(func(context.Context, deployer.TransactionRequest) (bool, error) {
			return false, nil
		}))

		require.ErrorIs(t, a.RequestTransaction(context.Background(), testTx()), deployer.ErrUserRejected)
		assert.Empty(t, sender.sent)
	})

	t.Run("prompt failure counts as rejection", func(t *testing.T) {
		sender := &fakeSender{}
		a := NewAdapter(logger.Test(t), sender, WithConfirm(func(context.Context, deployer.TransactionRequest) (bool, error) {
			return false, errors.New("no tty")
		}))

		require.ErrorIs(t, a.RequestTransaction(context.Background(), testTx()), deployer.ErrUserRejected)
		assert.Empty(t, sender.sent)
	})

	t.Run("prompt", func(t *testing.T) {
		for input, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false} {
			var out bytes.Buffer
			ok, err := PromptConfirm(strings.NewReader(input), &out)(context.Background(), testTx())
			require.NoError(t, err)
			assert.Equal(t, want, ok, "input %q", input)
			assert.Contains(t, out.String(), "0.25 TON")
		}
	})
}

func TestFromMnemonic(t *testing.T) {
	seed := tonwallet.NewSeed()

	v4, err := FromMnemonic(nil, strings.Join(seed, " "), VersionV4R2)
	require.NoError(t, err)
	v3, err := FromMnemonic(nil, strings.Join(seed, " "), VersionV3R2)
	require.NoError(t, err)
	assert.NotEqual(t, v4.WalletAddress().StringRaw(), v3.WalletAddress().StringRaw())

	id, err := IdentityOf(v4, "")
	require.NoError(t, err)
	assert.Len(t, id.PublicKey, 64)
	assert.Equal(t, VersionV4R2, id.Version)
	assert.Equal(t, v4.WalletAddress().StringRaw(), id.Address.StringRaw())

	// the key does not depend on the wallet contract version
	id3, err := IdentityOf(v3, VersionV3R2)
	require.NoError(t, err)
	assert.Equal(t, id.PublicKey, id3.PublicKey)
	assert.NotEqual(t, id.Address.StringRaw(), id3.Address.StringRaw())

	_, err = FromMnemonic(nil, "", VersionV4R2)
	require.Error(t, err)
	_, err = VersionConfig("v1r1")
	require.Error(t, err)
}
