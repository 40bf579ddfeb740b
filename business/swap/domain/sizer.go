package domain

import (
	"fmt"
	"math/big"

	pricingDomain "github.com/dloop-labs/flashsizer/business/pricing/domain"
	"github.com/dloop-labs/flashsizer/internal/fixedpoint"
)

// InsufficientOutputError reports an exact-output swap that delivered less
// than the fixed output amount.
type InsufficientOutputError struct {
	Expected *big.Int
	Actual   *big.Int
}

func (e *InsufficientOutputError) Error() string {
	return fmt.Sprintf("swap: insufficient output: expected %s, got %s", e.Expected, e.Actual)
}

// ExcessiveInputError reports a swap that spent more than the input ceiling
// derived from the oracle price plus slippage buffer.
type ExcessiveInputError struct {
	Max    *big.Int
	Actual *big.Int
}

func (e *ExcessiveInputError) Error() string {
	return fmt.Sprintf("swap: excessive input: max %s, spent %s", e.Max, e.Actual)
}

// MaxInputForExactOutput derives the ceiling a caller passes to the venue
// as amountInMaximum: the oracle-rate equivalent of the fixed output,
// rounded up, then inflated by the slippage tolerance. This ceiling is
// always derived from oracle prices - never from a realized or
// venue-supplied value.
func MaxInputForExactOutput(output *big.Int, in, out pricingDomain.AssetQuote, slippageBps uint32) (*big.Int, error) {
	converted, err := pricingDomain.Convert(output, out, in, fixedpoint.RoundUp)
	if err != nil {
		return nil, err
	}
	return pricingDomain.WithSlippageBuffer(converted, slippageBps)
}

// Settlement is the accepted outcome of an exact-output swap. Surplus is
// whatever the venue delivered beyond the fixed output amount; whether the
// surplus is swept to a receiver or retained is the caller's policy - the
// engine only computes and reports it.
type Settlement struct {
	AmountSpent    *big.Int
	AmountReceived *big.Int
	Surplus        *big.Int
}

// ValidateResult checks a realized swap against the exact-output contract:
// the received amount is a floor (the fixed output must be met) and the
// spent amount is a ceiling (never above maxInput). Getting either
// direction backwards would let a venue short-deliver or overcharge, so
// both directions carry dedicated tests.
func ValidateResult(result Result, expectedOutput, maxInput *big.Int) (Settlement, error) {
	if result.AmountSpent == nil || result.AmountReceived == nil || expectedOutput == nil || maxInput == nil {
		return Settlement{}, ErrNilAmount
	}
	if result.AmountReceived.Cmp(expectedOutput) < 0 {
		return Settlement{}, &InsufficientOutputError{
			Expected: new(big.Int).Set(expectedOutput),
			Actual:   new(big.Int).Set(result.AmountReceived),
		}
	}
	if result.AmountSpent.Cmp(maxInput) > 0 {
		return Settlement{}, &ExcessiveInputError{
			Max:    new(big.Int).Set(maxInput),
			Actual: new(big.Int).Set(result.AmountSpent),
		}
	}

	return Settlement{
		AmountSpent:    new(big.Int).Set(result.AmountSpent),
		AmountReceived: new(big.Int).Set(result.AmountReceived),
		Surplus:        new(big.Int).Sub(result.AmountReceived, expectedOutput),
	}, nil
}
