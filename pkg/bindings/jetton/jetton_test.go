package jetton

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/deployer"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
)

var (
	owner      = address.MustParseAddr("EQDtFpEwcFAEcRe5mLVh2N6C0x-_hJEM7W61_JLnSF74p4q2")
	minter     = address.NewAddress(0, 0, bytes.Repeat([]byte{0x42}, 32))
	walletCode = cell.BeginCell().MustStoreUInt(0xbeef, 16).EndCell()
)

func TestMetadataRoundTrip(t *testing.T) {
	m := Metadata{
		Name:        "Test Jetton",
		Symbol:      "TJ",
		Description: "for tests",
		Image:       "https://example.com/tj.png",
	}

	content, err := m.ContentCell()
	require.NoError(t, err)

	s := content.BeginParse()
	prefix, err := s.LoadUInt(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), prefix, "on-chain content prefix")

	parsed, err := ParseMetadata(content)
	require.NoError(t, err)
	assert.Equal(t, m, parsed)
}

func TestMetadataRequiresNameAndSymbol(t *testing.T) {
	_, err := Metadata{Name: "Only name"}.ContentCell()
	require.Error(t, err)
}

func TestMinterDataCell(t *testing.T) {
	m := Metadata{Name: "Test Jetton", Symbol: "TJ"}
	data, err := MinterDataCell(owner, m, walletCode)
	require.NoError(t, err)

	s := data.BeginParse()
	supply, err := s.LoadBigCoins()
	require.NoError(t, err)
	assert.Zero(t, supply.Sign())

	admin, err := s.LoadAddr()
	require.NoError(t, err)
	assert.Equal(t, owner.StringRaw(), admin.StringRaw())

	content, err := s.LoadRef()
	require.NoError(t, err)
	contentCell, err := content.ToCell()
	require.NoError(t, err)
	parsed, err := ParseMetadata(contentCell)
	require.NoError(t, err)
	assert.Equal(t, "TJ", parsed.Symbol)

	code, err := s.LoadRef()
	require.NoError(t, err)
	codeCell, err := code.ToCell()
	require.NoError(t, err)
	assert.Equal(t, walletCode.Hash(), codeCell.Hash())
}

func TestMintBody(t *testing.T) {
	amount := tlb.MustFromTON("1000")
	body, err := MintBody(owner, amount)
	require.NoError(t, err)

	s := body.BeginParse()
	op, err := s.LoadUInt(32)
	require.NoError(t, err)
	assert.Equal(t, uint64(OpcodeMinterMint), op)

	queryID, err := s.LoadUInt(64)
	require.NoError(t, err)
	assert.Zero(t, queryID)

	dst, err := s.LoadAddr()
	require.NoError(t, err)
	assert.Equal(t, owner.StringRaw(), dst.StringRaw())

	ton, err := s.LoadBigCoins()
	require.NoError(t, err)
	assert.Equal(t, MintTonAmount.Nano().String(), ton.String())

	ref, err := s.LoadRef()
	require.NoError(t, err)

	transferOp, err := ref.LoadUInt(32)
	require.NoError(t, err)
	assert.Equal(t, uint64(OpcodeMinterInternalTransfer), transferOp)

	_, err = ref.LoadUInt(64)
	require.NoError(t, err)
	jettons, err := ref.LoadBigCoins()
	require.NoError(t, err)
	assert.Equal(t, amount.Nano().String(), jettons.String())

	from, err := ref.LoadAddr()
	require.NoError(t, err)
	assert.Equal(t, address.NoneAddress, from.Type())

	response, err := ref.LoadAddr()
	require.NoError(t, err)
	assert.Equal(t, owner.StringRaw(), response.StringRaw())

	forward, err := ref.LoadBigCoins()
	require.NoError(t, err)
	assert.Equal(t, ForwardTonAmount.Nano().String(), forward.String())

	inRef, err := ref.LoadBoolBit()
	require.NoError(t, err)
	assert.False(t, inRef)
	assert.Zero(t, ref.BitsLeft())
}

func TestWalletAddress(t *testing.T) {
	a, err := WalletAddress(0, minter, owner, walletCode)
	require.NoError(t, err)
	b, err := WalletAddress(0, minter, owner, walletCode)
	require.NoError(t, err)
	assert.Equal(t, a.StringRaw(), b.StringRaw())

	other, err := WalletAddress(0, minter, minter, walletCode)
	require.NoError(t, err)
	assert.NotEqual(t, a.StringRaw(), other.StringRaw())

	data, err := tlb.ToCell(WalletData{Balance: tlb.ZeroCoins, Owner: owner, Minter: minter, WalletCode: walletCode})
	require.NoError(t, err)
	assert.Equal(t, deployer.DeriveAddress(0, walletCode, data).StringRaw(), a.StringRaw())

	master, err := WalletAddress(-1, minter, owner, walletCode)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), master.Workchain())
	assert.Equal(t, a.Data(), master.Data())
}

func TestDecoders(t *testing.T) {
	content, err := Metadata{Name: "Test Jetton", Symbol: "TJ"}.ContentCell()
	require.NoError(t, err)

	t.Run("jetton data", func(t *testing.T) {
		res, err := getmethod.Parse(getmethod.RawStack{
			getmethod.Num(big.NewInt(500)),
			getmethod.Num(big.NewInt(-1)),
			getmethod.Address(owner),
			getmethod.Cell(content),
			getmethod.Cell(walletCode),
		})
		require.NoError(t, err)

		data, err := DecodeJettonData(res)
		require.NoError(t, err)
		assert.Equal(t, int64(500), data.TotalSupply.Int64())
		assert.True(t, data.Mintable)
		assert.Equal(t, owner.StringRaw(), data.Admin.StringRaw())
		assert.Equal(t, walletCode.Hash(), data.WalletCode.Hash())
	})

	t.Run("jetton data with malformed admin", func(t *testing.T) {
		res, err := getmethod.Parse(getmethod.RawStack{
			getmethod.Num(big.NewInt(0)),
			getmethod.Num(big.NewInt(0)),
			getmethod.Cell(content),
			getmethod.Cell(content),
			getmethod.Cell(walletCode),
		})
		require.NoError(t, err)

		_, err = DecodeJettonData(res)
		require.ErrorIs(t, err, getmethod.ErrMalformedResult)
	})

	t.Run("wallet data", func(t *testing.T) {
		res, err := getmethod.Parse(getmethod.RawStack{
			getmethod.Num(big.NewInt(1000)),
			getmethod.Address(owner),
			getmethod.Address(minter),
			getmethod.Cell(walletCode),
		})
		require.NoError(t, err)

		state, err := DecodeWalletData(res)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), state.Balance.Int64())
		assert.Equal(t, minter.StringRaw(), state.Minter.StringRaw())
	})

	t.Run("wallet address", func(t *testing.T) {
		res, err := getmethod.Parse(getmethod.RawStack{getmethod.Address(owner)})
		require.NoError(t, err)
		addr, err := DecodeWalletAddress(res)
		require.NoError(t, err)
		assert.Equal(t, owner.StringRaw(), addr.StringRaw())
	})
}
