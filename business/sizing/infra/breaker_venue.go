package infra

import (
	"context"

	"github.com/sony/gobreaker/v2"

	"github.com/dloop-labs/flashsizer/business/sizing/app"
	swapDomain "github.com/dloop-labs/flashsizer/business/swap/domain"
	"github.com/dloop-labs/flashsizer/internal/circuitbreaker"
	"github.com/dloop-labs/flashsizer/internal/logger"
)

// BreakerVenue wraps a SwapVenue with circuit breakers so a failing venue
// stops being hammered. Quotes and executions trip independently: a venue
// that still quotes but cannot settle should keep quoting.
type BreakerVenue struct {
	inner   app.SwapVenue
	quoteCB *circuitbreaker.CircuitBreaker[swapDomain.Quote]
	execCB  *circuitbreaker.CircuitBreaker[swapDomain.Result]
}

// NewBreakerVenue wraps inner with breakers built from cfg.
func NewBreakerVenue(inner app.SwapVenue, cfg circuitbreaker.Config, log logger.LoggerInterface) *BreakerVenue {
	onChange := func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	quoteCfg := cfg
	quoteCfg.Name = cfg.Name + "-quote"
	quoteCfg.OnStateChange = onChange

	execCfg := cfg
	execCfg.Name = cfg.Name + "-exec"
	execCfg.OnStateChange = onChange

	return &BreakerVenue{
		inner:   inner,
		quoteCB: circuitbreaker.New[swapDomain.Quote](quoteCfg),
		execCB:  circuitbreaker.New[swapDomain.Result](execCfg),
	}
}

// QuoteExactOutput delegates through the quote breaker.
func (v *BreakerVenue) QuoteExactOutput(ctx context.Context, req swapDomain.Request) (swapDomain.Quote, error) {
	return v.quoteCB.Execute(func() (swapDomain.Quote, error) {
		return v.inner.QuoteExactOutput(ctx, req)
	})
}

// ExecuteExactOutput delegates through the execution breaker.
func (v *BreakerVenue) ExecuteExactOutput(ctx context.Context, req swapDomain.Request) (swapDomain.Result, error) {
	return v.execCB.Execute(func() (swapDomain.Result, error) {
		return v.inner.ExecuteExactOutput(ctx, req)
	})
}
