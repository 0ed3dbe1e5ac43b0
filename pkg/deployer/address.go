package deployer

import (
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// StateInit returns the StateInit carrying only code and data.
func StateInit(code, data *cell.Cell) *tlb.StateInit {
	return &tlb.StateInit{Code: code, Data: data}
}

// StateInitCell serializes StateInit(code, data).
func StateInitCell(code, data *cell.Cell) *cell.Cell {
	c, err := tlb.ToCell(tlb.StateInit{Code: code, Data: data})
	if err != nil {
		// five flag bits and at most two refs always fit
		panic(fmt.Sprintf("failed to serialize state init: %v", err))
	}
	return c
}

// DeriveAddress computes the address a contract with the given code and initial
// data occupies on workchain.
func DeriveAddress(workchain int8, code, data *cell.Cell) *address.Address {
	return address.NewAddress(0, byte(workchain), StateInitCell(code, data).Hash())
}

// SameAccount compares two standard addresses by workchain and account hash,
// ignoring the bounce and testnet flags of their user-friendly forms.
func SameAccount(a, b *address.Address) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Workchain() == b.Workchain() && string(a.Data()) == string(b.Data())
}
