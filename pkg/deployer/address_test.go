package deployer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

func TestDeriveAddress(t *testing.T) {
	code := cell.BeginCell().MustStoreUInt(0xc0de, 16).EndCell()
	data := cell.BeginCell().MustStoreUInt(0, 32).MustStoreUInt(7, 64).EndCell()

	t.Run("canonical state init layout", func(t *testing.T) {
		// split_depth:0 special:0 code:1 data:1 library:0, then code and data refs
		want := cell.BeginCell().
			MustStoreUInt(0b00110, 5).
			MustStoreRef(code).
			MustStoreRef(data).
			EndCell()

		addr := DeriveAddress(0, code, data)
		assert.Equal(t, want.Hash(), StateInitCell(code, data).Hash())
		assert.Equal(t, want.Hash(), addr.Data())
		assert.Equal(t, int32(0), addr.Workchain())
	})

	t.Run("code only", func(t *testing.T) {
		want := cell.BeginCell().MustStoreUInt(0b00100, 5).MustStoreRef(code).EndCell()
		assert.Equal(t, want.Hash(), StateInitCell(code, nil).Hash())
	})

	t.Run("deterministic", func(t *testing.T) {
		a := DeriveAddress(0, code, data)
		b := DeriveAddress(0, code, data)
		assert.Equal(t, a.StringRaw(), b.StringRaw())
	})

	t.Run("data changes address", func(t *testing.T) {
		other := cell.BeginCell().MustStoreUInt(0, 32).MustStoreUInt(8, 64).EndCell()
		assert.NotEqual(t, DeriveAddress(0, code, data).StringRaw(), DeriveAddress(0, code, other).StringRaw())
	})

	t.Run("masterchain", func(t *testing.T) {
		addr := DeriveAddress(-1, code, data)
		assert.Equal(t, int32(-1), addr.Workchain())
		assert.Equal(t, DeriveAddress(0, code, data).Data(), addr.Data())
	})
}

func TestSameAccount(t *testing.T) {
	a := address.MustParseAddr("EQDtFpEwcFAEcRe5mLVh2N6C0x-_hJEM7W61_JLnSF74p4q2")
	nonBounce := address.NewAddress(0, 0, a.Data())
	nonBounce.SetBounce(false)

	assert.True(t, SameAccount(a, nonBounce))
	assert.False(t, SameAccount(a, DeriveAddress(0, cell.BeginCell().EndCell(), cell.BeginCell().EndCell())))
	assert.False(t, SameAccount(a, nil))
}
