// Package domain models exact-output swaps executed through an external
// venue: the request the caller sends, the ceiling the engine derives for
// it, and validation of the realized result.
package domain

import (
	"errors"
	"math/big"
	"time"

	pricingDomain "github.com/dloop-labs/flashsizer/business/pricing/domain"
)

// Common errors
var (
	ErrAmountModeConflict = errors.New("swap: exactly one of exact-input or exact-output must be set")
	ErrNilAmount          = errors.New("swap: nil amount")
	ErrExpiredDeadline    = errors.New("swap: quote deadline has passed")
)

// Request describes a swap to be quoted and executed by an external venue.
// Exactly one of ExactInput/ExactOutput is set; the sizing engine only
// issues exact-output requests, but the type models both so venue adapters
// can share it. Created fresh per operation.
type Request struct {
	In          pricingDomain.AssetQuote
	Out         pricingDomain.AssetQuote
	ExactInput  *big.Int
	ExactOutput *big.Int
	SlippageBps uint32
	Deadline    time.Time
}

// Validate enforces the mutually-exclusive amount mode.
func (r Request) Validate() error {
	if (r.ExactInput == nil) == (r.ExactOutput == nil) {
		return ErrAmountModeConflict
	}
	return nil
}

// IsExactOutput reports whether the request fixes the output amount.
func (r Request) IsExactOutput() bool {
	return r.ExactOutput != nil
}

// Expired reports whether the quote deadline has passed.
func (r Request) Expired(now time.Time) bool {
	return !r.Deadline.IsZero() && now.After(r.Deadline)
}

// Result is the realized outcome of a swap executed by an external venue.
// It is produced by the execution collaborator and only ever validated,
// never produced, by this engine.
type Result struct {
	AmountSpent    *big.Int
	AmountReceived *big.Int
}

// Quote is a venue's answer to an exact-output quote request.
type Quote struct {
	AmountIn  *big.Int
	AmountOut *big.Int
	QuotedAt  time.Time
}
