package testutils

import (
	"crypto/sha256"

	"github.com/xssnick/tonutils-go/address"
)

// AddressFromSeed returns a stable basechain address derived from seed.
func AddressFromSeed(seed string) *address.Address {
	h := sha256.Sum256([]byte(seed))
	return address.NewAddress(0, 0, h[:])
}
