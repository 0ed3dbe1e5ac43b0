package jetton

import (
	"errors"
	"fmt"

	"github.com/xssnick/tonutils-go/ton/nft"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// TEP-64 metadata keys
const (
	KeyName        = "name"
	KeySymbol      = "symbol"
	KeyDescription = "description"
	KeyImage       = "image"
	KeyDecimals    = "decimals"
	KeyURI         = "uri"
)

// Metadata is the jetton content stored by the minter. Empty fields are left
// out of the on-chain dictionary. A set URI turns it into semichain content.
type Metadata struct {
	Name        string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Decimals    string `json:"decimals,omitempty"`
	URI         string `json:"uri,omitempty"`
}

func (m Metadata) attributes() [][2]string {
	return [][2]string{
		{KeyName, m.Name},
		{KeySymbol, m.Symbol},
		{KeyDescription, m.Description},
		{KeyImage, m.Image},
		{KeyDecimals, m.Decimals},
		{KeyURI, m.URI},
	}
}

// ContentCell encodes the metadata as TEP-64 on-chain content.
func (m Metadata) ContentCell() (*cell.Cell, error) {
	if m.Name == "" || m.Symbol == "" {
		return nil, errors.New("jetton metadata requires name and symbol")
	}
	content := &nft.ContentOnchain{}
	for _, kv := range m.attributes() {
		if kv[1] == "" {
			continue
		}
		if err := content.SetAttribute(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("failed to set metadata %s: %w", kv[0], err)
		}
	}
	c, err := content.ContentCell()
	if err != nil {
		return nil, fmt.Errorf("failed to build content cell: %w", err)
	}
	return c, nil
}

// ParseMetadata decodes minter content of any TEP-64 layout. Off-chain content
// only yields the URI; resolving it is left to the caller.
func ParseMetadata(content *cell.Cell) (Metadata, error) {
	parsed, err := nft.ContentFromCell(content)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to parse jetton content: %w", err)
	}

	var m Metadata
	switch c := parsed.(type) {
	case *nft.ContentSemichain:
		m = fromAttributes(c.GetAttribute)
		m.URI = c.URI
	case *nft.ContentOnchain:
		m = fromAttributes(c.GetAttribute)
	case *nft.ContentOffchain:
		m.URI = c.URI
	default:
		return Metadata{}, fmt.Errorf("unsupported jetton content %T", parsed)
	}
	return m, nil
}

func fromAttributes(get func(string) string) Metadata {
	return Metadata{
		Name:        get(KeyName),
		Symbol:      get(KeySymbol),
		Description: get(KeyDescription),
		Image:       get(KeyImage),
		Decimals:    get(KeyDecimals),
		URI:         get(KeyURI),
	}
}
