package app

import (
	"context"
	"math/big"

	"github.com/dloop-labs/flashsizer/business/sizing/domain"
	swapDomain "github.com/dloop-labs/flashsizer/business/swap/domain"
)

// SwapVenue is the exact-output swap port. Quotes are advisory; executions
// settle and their results must still pass ValidateResult before the
// settlement is trusted.
type SwapVenue interface {
	// QuoteExactOutput returns the venue's current input estimate for
	// delivering output units of the request's out asset.
	QuoteExactOutput(ctx context.Context, req swapDomain.Request) (swapDomain.Quote, error)

	// ExecuteExactOutput performs the swap and reports what was actually
	// spent and received.
	ExecuteExactOutput(ctx context.Context, req swapDomain.Request) (swapDomain.Result, error)
}

// Reporter receives decisions and settlements for display or logging.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// ReportDecision sends one sizing decision to be displayed/logged.
	ReportDecision(op domain.Operation, decision domain.Decision)

	// ReportSettlement sends one validated swap settlement.
	ReportSettlement(settlement swapDomain.Settlement, surplus *big.Int)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
