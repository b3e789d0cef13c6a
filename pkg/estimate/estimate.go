// Package estimate models the cost of a zero-byte search.
//
// Every byte of a contract address is the output of Keccak-256 and is modelled
// as independently zero with probability 1/256. Leading mode uses the exact
// probability of a zero prefix. Total mode uses the binomial point probability
// of exactly k zero bytes among 20, which underestimates the at-least-k tail
// and therefore overestimates the expected attempts slightly.
// TailProbability gives the exact tail for comparison.
package estimate

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/darkforestry/zero-seeker/pkg/types"
)

const (
	// AddressBytes is the length of an Ethereum address
	AddressBytes = 20

	// precision in bits for intermediate values; p^20 is about 2^-160
	precision = 256
)

// ErrDegenerateProbability is returned for targets the model cannot express.
var ErrDegenerateProbability = errors.New("zero byte target outside [0, 20]")

var (
	pZero    = new(big.Float).SetPrec(precision).Quo(big.NewFloat(1), big.NewFloat(256))
	pNonZero = new(big.Float).SetPrec(precision).Sub(big.NewFloat(1), pZero)
)

// ExpectedAttempts returns the expected number of candidates that must be
// evaluated to reach target zero bytes in the given mode.
func ExpectedAttempts(target int, mode types.Mode) (float64, error) {
	p, err := Probability(target, mode)
	if err != nil {
		return 0, err
	}
	attempts, _ := newFloat().Quo(newFloat().SetInt64(1), p).Float64()
	return attempts, nil
}

// Probability returns the per-attempt success probability used by
// ExpectedAttempts.
func Probability(target int, mode types.Mode) (*big.Float, error) {
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	if mode == types.Leading {
		return pow(pZero, target), nil
	}
	return pointProbability(target), nil
}

// TailProbability returns the exact probability that at least target of the
// 20 address bytes are zero.
func TailProbability(target int) (*big.Float, error) {
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	sum := newFloat()
	for k := target; k <= AddressBytes; k++ {
		sum.Add(sum, pointProbability(k))
	}
	return sum, nil
}

// pointProbability is C(20,k) * p^k * (1-p)^(20-k).
func pointProbability(k int) *big.Float {
	comb := new(big.Int).Binomial(AddressBytes, int64(k))
	prob := newFloat().SetInt(comb)
	prob.Mul(prob, pow(pZero, k))
	prob.Mul(prob, pow(pNonZero, AddressBytes-k))
	return prob
}

func pow(base *big.Float, exp int) *big.Float {
	result := newFloat().SetInt64(1)
	for i := 0; i < exp; i++ {
		result.Mul(result, base)
	}
	return result
}

func newFloat() *big.Float {
	return new(big.Float).SetPrec(precision)
}

func checkTarget(target int) error {
	if target < 0 || target > AddressBytes {
		return fmt.Errorf("%w: got %d", ErrDegenerateProbability, target)
	}
	return nil
}
