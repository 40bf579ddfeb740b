package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	leverageDomain "github.com/dloop-labs/flashsizer/business/leverage/domain"
	"github.com/dloop-labs/flashsizer/business/sizing/domain"
	swapDomain "github.com/dloop-labs/flashsizer/business/swap/domain"
	"github.com/dloop-labs/flashsizer/internal/logger"
	"github.com/dloop-labs/flashsizer/internal/metrics"

	"github.com/dloop-labs/flashsizer/internal/apm"
)

// Evaluator wraps the Engine with the application's observability stack
// and the venue port. The engine stays pure; everything context-aware
// lives here.
type Evaluator struct {
	engine   *Engine
	venue    SwapVenue
	reporter Reporter
	log      logger.LoggerInterface
	tracer   apm.Tracer
	metrics  *metrics.SizingMetrics
}

// NewEvaluator creates an Evaluator. venue and metrics may be nil when the
// caller only wants offline decisions.
func NewEvaluator(
	engine *Engine,
	venue SwapVenue,
	reporter Reporter,
	log logger.LoggerInterface,
	sizingMetrics *metrics.SizingMetrics,
) *Evaluator {
	return &Evaluator{
		engine:   engine,
		venue:    venue,
		reporter: reporter,
		log:      log,
		tracer:   apm.NewTracer("sizing.evaluator"),
		metrics:  sizingMetrics,
	}
}

// Evaluate runs one engine evaluation, records it, and reports the
// decision. Hard failures are returned after being counted.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	position leverageDomain.Position,
	config leverageDomain.Config,
	op domain.Operation,
) (domain.Decision, error) {
	ctx, span := e.tracer.StartSpanFromContext(ctx, "evaluate")
	defer span.End()

	span.SetAttributes(
		attribute.String("operation.kind", string(op.Kind)),
		attribute.String("operation.amount", op.Amount.String()),
	)

	started := time.Now()
	decision, err := e.engine.Evaluate(position, config, op)
	elapsed := time.Since(started)

	if err != nil {
		span.NoticeError(err)
		if e.metrics != nil {
			e.metrics.RecordHardFailure(ctx, elapsed)
		}
		e.log.Error(ctx, "evaluation failed", "kind", op.Kind, "error", err)
		return domain.Decision{}, err
	}

	span.SetAttribute(attribute.Bool("decision.proceed", decision.Proceed))
	if !decision.Proceed {
		span.SetAttribute(attribute.String("decision.reason", string(decision.Reason)))
	}

	if e.metrics != nil {
		e.metrics.RecordDecision(ctx, decision.Proceed, string(decision.Reason), elapsed)
	}

	e.log.Info(ctx, "evaluation complete",
		"kind", op.Kind,
		"decision", decision.String(),
		"elapsed", elapsed,
	)

	if e.reporter != nil {
		e.reporter.ReportDecision(op, decision)
	}

	return decision, nil
}

// Execute carries out a proceed decision on the venue: swap up to
// MaxSwapInput for exactly RequiredOutput, then validate the fill against
// both bounds. The settlement comes back only when the fill respects the
// output floor and input ceiling.
func (e *Evaluator) Execute(
	ctx context.Context,
	op domain.Operation,
	decision domain.Decision,
) (swapDomain.Settlement, error) {
	if e.venue == nil {
		return swapDomain.Settlement{}, fmt.Errorf("no swap venue configured")
	}
	if !decision.Proceed {
		return swapDomain.Settlement{}, fmt.Errorf("cannot execute a %s decision", decision.Reason)
	}

	ctx, span := e.tracer.StartSpanFromContext(ctx, "execute")
	defer span.End()

	req := swapDomain.Request{
		In:          op.In,
		Out:         op.Out,
		ExactOutput: decision.RequiredOutput,
		SlippageBps: e.engine.Policy().SlippageBps,
	}
	if err := req.Validate(); err != nil {
		span.NoticeError(err)
		return swapDomain.Settlement{}, err
	}

	result, err := e.venue.ExecuteExactOutput(ctx, req)
	if err != nil {
		span.NoticeError(err)
		e.log.Error(ctx, "swap execution failed", "error", err)
		return swapDomain.Settlement{}, err
	}

	settlement, err := swapDomain.ValidateResult(result, decision.RequiredOutput, decision.MaxSwapInput)
	if err != nil {
		span.NoticeError(err)
		e.log.Error(ctx, "swap settlement rejected",
			"spent", result.AmountSpent,
			"received", result.AmountReceived,
			"error", err,
		)
		return swapDomain.Settlement{}, err
	}

	e.log.Info(ctx, "swap settled",
		"spent", settlement.AmountSpent,
		"received", settlement.AmountReceived,
		"surplus", settlement.Surplus,
	)

	if e.reporter != nil {
		e.reporter.ReportSettlement(settlement, settlement.Surplus)
	}

	return settlement, nil
}
