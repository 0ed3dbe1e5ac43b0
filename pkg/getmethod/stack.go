// Package getmethod decodes the positional result stack returned by read-only
// contract calls (get-methods). Entries carry no names: callers must know the
// schema of the method they called and access values by index.
package getmethod

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// Stack entry types, as reported by the toncenter v3 API.
const (
	TypeNum   = "num"
	TypeCell  = "cell"
	TypeSlice = "slice"
	TypeNull  = "null"
)

// Entry is a raw tagged stack element. Integers are hex encoded ("0x1f", "-0x2"),
// cells and slices are base64 encoded BOCs.
type Entry struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// RawStack is the undecoded result (or argument list) of a get-method call.
type RawStack []Entry

// Num builds an integer entry.
func Num(v *big.Int) Entry {
	return Entry{Type: TypeNum, Value: fmt.Sprintf("%#x", v)}
}

// Cell builds a cell entry.
func Cell(c *cell.Cell) Entry {
	return Entry{Type: TypeCell, Value: base64.StdEncoding.EncodeToString(c.ToBOC())}
}

// Slice builds a slice entry holding the whole content of c.
func Slice(c *cell.Cell) Entry {
	return Entry{Type: TypeSlice, Value: base64.StdEncoding.EncodeToString(c.ToBOC())}
}

// Address builds a slice entry holding a single serialized address, the way
// get_wallet_address expects its owner argument.
func Address(addr *address.Address) Entry {
	return Slice(cell.BeginCell().MustStoreAddr(addr).EndCell())
}

// Kind is the decoded variant of a stack value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a decoded stack element. Exactly one of the accessors is meaningful,
// according to Kind.
type Value struct {
	kind    Kind
	integer *big.Int
	blob    *cell.Cell
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Int() *big.Int { return v.integer }

func (v Value) Blob() *cell.Cell { return v.blob }

var ErrMalformedResult = errors.New("malformed get-method result")

// MalformedResultError reports which entry could not be decoded and keeps the raw
// entry for diagnosis.
type MalformedResultError struct {
	Index  int
	Entry  *Entry
	Reason string
	Err    error
}

func (e *MalformedResultError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrMalformedResult.Error())
	fmt.Fprintf(&sb, ": index %d: %s", e.Index, e.Reason)
	if e.Entry != nil {
		fmt.Fprintf(&sb, " (type=%q value=%q)", e.Entry.Type, e.Entry.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *MalformedResultError) Unwrap() error { return e.Err }

func (e *MalformedResultError) Is(target error) bool { return target == ErrMalformedResult }

// Parse decodes every entry of raw by its declared type. It performs no schema
// validation beyond per-entry decoding.
func Parse(raw RawStack) (Result, error) {
	res := make(Result, 0, len(raw))
	for i := range raw {
		v, err := parseEntry(raw[i])
		if err != nil {
			entry := raw[i]
			return nil, &MalformedResultError{Index: i, Entry: &entry, Reason: "cannot decode entry", Err: err}
		}
		res = append(res, v)
	}
	return res, nil
}

func parseEntry(e Entry) (Value, error) {
	switch e.Type {
	case TypeNum:
		n, ok := new(big.Int).SetString(strings.TrimSpace(e.Value), 0)
		if !ok {
			return Value{}, fmt.Errorf("invalid integer %q", e.Value)
		}
		return Value{kind: KindInt, integer: n}, nil
	case TypeCell, TypeSlice:
		boc, err := base64.StdEncoding.DecodeString(e.Value)
		if err != nil {
			return Value{}, fmt.Errorf("failed to decode base64: %w", err)
		}
		c, err := cell.FromBOC(boc)
		if err != nil {
			return Value{}, fmt.Errorf("failed to parse BOC: %w", err)
		}
		return Value{kind: KindBlob, blob: c}, nil
	case TypeNull:
		return Value{kind: KindNull}, nil
	default:
		return Value{}, fmt.Errorf("unrecognized entry type %q", e.Type)
	}
}
