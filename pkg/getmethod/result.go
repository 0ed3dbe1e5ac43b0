package getmethod

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// Result is a decoded get-method stack, indexed from the bottom like the
// ExecutionResult of tonutils-go.
type Result []Value

func (r Result) at(i int, want Kind) (Value, error) {
	if i < 0 || i >= len(r) {
		return Value{}, &MalformedResultError{Index: i, Reason: fmt.Sprintf("stack has %d entries", len(r))}
	}
	if r[i].kind != want {
		return Value{}, &MalformedResultError{Index: i, Reason: fmt.Sprintf("expected %s, got %s", want, r[i].kind)}
	}
	return r[i], nil
}

// Int returns the integer at index i.
func (r Result) Int(i int) (*big.Int, error) {
	v, err := r.at(i, KindInt)
	if err != nil {
		return nil, err
	}
	return v.integer, nil
}

// Cell returns the blob at index i.
func (r Result) Cell(i int) (*cell.Cell, error) {
	v, err := r.at(i, KindBlob)
	if err != nil {
		return nil, err
	}
	return v.blob, nil
}

// Address decodes the blob at index i as a standard address. Anything else,
// including addr_none, is reported as malformed.
func (r Result) Address(i int) (*address.Address, error) {
	c, err := r.Cell(i)
	if err != nil {
		return nil, err
	}
	slice := c.BeginParse()
	addr, err := slice.LoadAddr()
	if err != nil {
		return nil, &MalformedResultError{Index: i, Reason: "blob does not hold an address", Err: err}
	}
	if slice.BitsLeft() != 0 || slice.RefsNum() != 0 {
		return nil, &MalformedResultError{Index: i,
			Reason: fmt.Sprintf("blob has %d bits and %d refs after the address", slice.BitsLeft(), slice.RefsNum())}
	}
	if addr.Type() != address.StdAddress || len(addr.Data()) != 32 {
		return nil, &MalformedResultError{Index: i, Reason: fmt.Sprintf("not a standard address (type %d)", addr.Type())}
	}
	return addr, nil
}
