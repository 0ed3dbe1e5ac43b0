// Package contract loads compiled contract code cells from build artifacts.
package contract

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

var ErrUnsupportedFormat = errors.New("unsupported contract file format")

// compiledContract is the artifact written by blueprint and func-js builds.
type compiledContract struct {
	Hash       string `json:"hash"`
	HashBase64 string `json:"hashBase64"`
	Hex        string `json:"hex"`
	Base64     string `json:"base64"`
}

func (c compiledContract) codeCell() (*cell.Cell, error) {
	var boc []byte
	var err error
	switch {
	case c.Hex != "":
		boc, err = hex.DecodeString(c.Hex)
	case c.Base64 != "":
		boc, err = base64.StdEncoding.DecodeString(c.Base64)
	default:
		return nil, errors.New("compiled contract has neither hex nor base64 code")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode code boc: %w", err)
	}

	code, err := cell.FromBOC(boc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse code boc: %w", err)
	}

	if c.Hash != "" && !strings.EqualFold(c.Hash, hex.EncodeToString(code.Hash())) {
		return nil, fmt.Errorf("code hash mismatch: artifact declares %s, got %x", c.Hash, code.Hash())
	}
	return code, nil
}

// ParseCompiledContract reads a code cell from a .compiled.json artifact, a raw
// .boc file or a .hex file holding the hex encoded boc.
func ParseCompiledContract(path string) (*cell.Cell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compiled contract: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".compiled.json"):
		var compiled compiledContract
		if err := json.Unmarshal(data, &compiled); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return compiled.codeCell()
	case strings.HasSuffix(path, ".hex"):
		code, err := ParseCodeHex(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return code, nil
	case strings.HasSuffix(path, ".boc"):
		code, err := cell.FromBOC(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return code, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseCodeHex decodes a hex encoded code boc, the form jetton code is usually
// embedded in.
func ParseCodeHex(s string) (*cell.Cell, error) {
	return compiledContract{Hex: strings.TrimSpace(s)}.codeCell()
}
