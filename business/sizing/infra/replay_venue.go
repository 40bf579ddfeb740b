package infra

import (
	"context"
	"math/big"
	"sync"
	"time"

	pricingDomain "github.com/dloop-labs/flashsizer/business/pricing/domain"
	swapDomain "github.com/dloop-labs/flashsizer/business/swap/domain"
	"github.com/dloop-labs/flashsizer/internal/apperror"
	"github.com/dloop-labs/flashsizer/internal/fixedpoint"
)

// ReplayVenue is a SwapVenue that fills exact-output requests from a
// recorded list of fills, in order. When the list is empty it falls back
// to the oracle rate, spending the converted input and delivering exactly
// the requested output. It exists for scenario replay and dry runs, not
// live trading.
type ReplayVenue struct {
	mu    sync.Mutex
	fills []RecordedFill
	next  int
}

// RecordedFill is one pre-recorded venue fill.
type RecordedFill struct {
	AmountIn  *big.Int
	AmountOut *big.Int
}

// NewReplayVenue creates a ReplayVenue over the given fills. fills may be
// empty for pure oracle-rate replay.
func NewReplayVenue(fills []RecordedFill) *ReplayVenue {
	return &ReplayVenue{fills: fills}
}

// QuoteExactOutput returns the next recorded fill without consuming it,
// or an oracle-rate estimate when no fills remain.
func (v *ReplayVenue) QuoteExactOutput(ctx context.Context, req swapDomain.Request) (swapDomain.Quote, error) {
	if err := req.Validate(); err != nil {
		return swapDomain.Quote{}, err
	}
	if !req.IsExactOutput() {
		return swapDomain.Quote{}, apperror.Validation(apperror.CodeInvalidInput, "replay venue only quotes exact output")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.next < len(v.fills) {
		fill := v.fills[v.next]
		return swapDomain.Quote{
			AmountIn:  new(big.Int).Set(fill.AmountIn),
			AmountOut: new(big.Int).Set(fill.AmountOut),
			QuotedAt:  time.Now(),
		}, nil
	}

	amountIn, err := oracleSpend(req)
	if err != nil {
		return swapDomain.Quote{}, err
	}

	return swapDomain.Quote{
		AmountIn:  amountIn,
		AmountOut: new(big.Int).Set(req.ExactOutput),
		QuotedAt:  time.Now(),
	}, nil
}

// ExecuteExactOutput consumes the next recorded fill, or fills at the
// oracle rate when no fills remain.
func (v *ReplayVenue) ExecuteExactOutput(ctx context.Context, req swapDomain.Request) (swapDomain.Result, error) {
	if err := req.Validate(); err != nil {
		return swapDomain.Result{}, err
	}
	if !req.IsExactOutput() {
		return swapDomain.Result{}, apperror.Validation(apperror.CodeInvalidInput, "replay venue only fills exact output")
	}
	if req.Expired(time.Now()) {
		return swapDomain.Result{}, apperror.New(apperror.CodeDeadlineExceeded)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.next < len(v.fills) {
		fill := v.fills[v.next]
		v.next++
		return swapDomain.Result{
			AmountSpent:    new(big.Int).Set(fill.AmountIn),
			AmountReceived: new(big.Int).Set(fill.AmountOut),
		}, nil
	}

	amountIn, err := oracleSpend(req)
	if err != nil {
		return swapDomain.Result{}, err
	}

	return swapDomain.Result{
		AmountSpent:    amountIn,
		AmountReceived: new(big.Int).Set(req.ExactOutput),
	}, nil
}

// Remaining reports how many recorded fills are left.
func (v *ReplayVenue) Remaining() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.fills) - v.next
}

// oracleSpend prices the exact output at the oracle rate, rounding against
// the spender.
func oracleSpend(req swapDomain.Request) (*big.Int, error) {
	return pricingDomain.Convert(req.ExactOutput, req.Out, req.In, fixedpoint.RoundUp)
}
