// Package score counts zero bytes in contract addresses.
package score

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/darkforestry/zero-seeker/pkg/types"
)

// CountTotal returns the number of zero bytes anywhere in addr.
func CountTotal(addr *common.Address) uint8 {
	var n uint8
	for _, b := range addr {
		if b == 0 {
			n++
		}
	}
	return n
}

// CountLeading returns the number of zero bytes before the first nonzero byte.
func CountLeading(addr *common.Address) uint8 {
	var n uint8
	for _, b := range addr {
		if b != 0 {
			break
		}
		n++
	}
	return n
}

// Score counts zero bytes in addr according to mode.
func Score(addr *common.Address, mode types.Mode) uint8 {
	if mode == types.Leading {
		return CountLeading(addr)
	}
	return CountTotal(addr)
}
