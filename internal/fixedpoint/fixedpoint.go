// Package fixedpoint provides integer-only fixed-point arithmetic with
// explicit rounding direction. All amounts are unsigned big.Int values and
// results are bounded to 256 bits so off-chain decisions agree bit-for-bit
// with the on-chain uint256 arithmetic they simulate.
package fixedpoint

import (
	"errors"
	"math/big"
)

// Common errors
var (
	ErrDivisionByZero     = errors.New("fixedpoint: division by zero")
	ErrArithmeticOverflow = errors.New("fixedpoint: arithmetic overflow")
	ErrNegativeAmount     = errors.New("fixedpoint: negative amount")
	ErrNilAmount          = errors.New("fixedpoint: nil amount")
)

// BasisPointsBase is the denominator for basis-point math: 10000 bps = 100%.
const BasisPointsBase = 10_000

var (
	bpsBase = big.NewInt(BasisPointsBase)
	one     = big.NewInt(1)

	// maxUint256 = 2^256 - 1, the largest value the on-chain side can hold.
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(one, 256), one)
)

// Rounding selects the rounding direction for a lossy division.
type Rounding int

const (
	// RoundDown truncates toward zero (floor for unsigned values).
	RoundDown Rounding = iota
	// RoundUp rounds toward +infinity.
	RoundUp
)

func (r Rounding) String() string {
	if r == RoundUp {
		return "up"
	}
	return "down"
}

// MulDiv computes a*b/denominator with the full product held in an
// arbitrary-width intermediate, so a*b never overflows before the division.
// The result must still fit in 256 bits; ErrArithmeticOverflow is returned
// otherwise, and ErrDivisionByZero when denominator is zero.
func MulDiv(a, b, denominator *big.Int, round Rounding) (*big.Int, error) {
	if a == nil || b == nil || denominator == nil {
		return nil, ErrNilAmount
	}
	if a.Sign() < 0 || b.Sign() < 0 || denominator.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if denominator.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	if a.Cmp(maxUint256) > 0 || b.Cmp(maxUint256) > 0 {
		return nil, ErrArithmeticOverflow
	}

	product := new(big.Int).Mul(a, b)
	quotient, remainder := new(big.Int).QuoRem(product, denominator, new(big.Int))
	if round == RoundUp && remainder.Sign() != 0 {
		quotient.Add(quotient, one)
	}
	if quotient.Cmp(maxUint256) > 0 {
		return nil, ErrArithmeticOverflow
	}
	return quotient, nil
}

// ScaleDecimals rescales amount between two decimal bases. Scaling up
// multiplies by 10^(to-from); scaling down divides with the given rounding
// direction (precision is lost, so the direction must be chosen explicitly).
func ScaleDecimals(amount *big.Int, from, to uint8, round Rounding) (*big.Int, error) {
	if amount == nil {
		return nil, ErrNilAmount
	}
	if amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	switch {
	case from == to:
		return new(big.Int).Set(amount), nil
	case to > from:
		scaled := new(big.Int).Mul(amount, Pow10(to-from))
		if scaled.Cmp(maxUint256) > 0 {
			return nil, ErrArithmeticOverflow
		}
		return scaled, nil
	default:
		return MulDiv(amount, one, Pow10(from-to), round)
	}
}

// MulBps applies a basis-point factor: amount*bps/10000.
func MulBps(amount *big.Int, bps uint64, round Rounding) (*big.Int, error) {
	return MulDiv(amount, new(big.Int).SetUint64(bps), bpsBase, round)
}

// Pow10 returns 10^n as a fresh big.Int.
func Pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// MaxUint256 returns a copy of 2^256-1.
func MaxUint256() *big.Int {
	return new(big.Int).Set(maxUint256)
}
