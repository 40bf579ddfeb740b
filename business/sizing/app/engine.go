// Package app contains the profitability engine and port definitions for
// the sizing context.
package app

import (
	"math/big"
	"time"

	leverageDomain "github.com/dloop-labs/flashsizer/business/leverage/domain"
	pricingDomain "github.com/dloop-labs/flashsizer/business/pricing/domain"
	"github.com/dloop-labs/flashsizer/business/sizing/domain"
	swapDomain "github.com/dloop-labs/flashsizer/business/swap/domain"
	"github.com/dloop-labs/flashsizer/internal/fixedpoint"
)

// Engine sizes flash-loan-funded vault operations and decides whether they
// are worth executing. It is a pure computation: every call takes all its
// inputs as parameters and retains nothing, so concurrent use needs no
// locks and identical inputs always produce identical decisions.
type Engine struct {
	policy domain.Policy
}

// NewEngine creates an Engine with the caller's fee/profit policy.
func NewEngine(policy domain.Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy}, nil
}

// Policy returns the engine's policy.
func (e *Engine) Policy() domain.Policy {
	return e.policy
}

// Evaluate composes the leverage, pricing and swap-sizing rules into one
// decision for a flash-loan-funded operation.
//
// Hard failures (overflow, zero price, undercollateralized position,
// malformed input) are returned as errors and never produce a decision:
// "the engine cannot answer" must stay distinguishable from "the answer is
// no", or a caller could not tell a broken price feed from an unprofitable
// cycle. Business rejections come back as Decision variants.
func (e *Engine) Evaluate(position leverageDomain.Position, config leverageDomain.Config, op domain.Operation) (domain.Decision, error) {
	if err := op.Validate(); err != nil {
		return domain.Decision{}, err
	}
	if err := config.Validate(); err != nil {
		return domain.Decision{}, err
	}

	// 1. The vault must be inside its leverage band before any flow is
	// allowed to move it.
	leverageBps, err := leverageDomain.CurrentLeverageBps(position.Collateral, position.Debt)
	if err != nil {
		return domain.Decision{}, err
	}
	if !leverageDomain.IsWithinBounds(leverageBps, config.LowerBps, config.UpperBps) {
		return reject(domain.RejectOutOfBounds, leverageBps, nil, nil), nil
	}

	// 2. Exact output the swap must deliver for this flow.
	var requiredOutput *big.Int
	switch op.Kind {
	case domain.OperationRedeem:
		requiredOutput, err = leverageDomain.CollateralToRemoveForRedeem(op.Amount, config.TargetBps)
	default:
		requiredOutput, err = leverageDomain.LeveragedDepositAmount(op.Amount, config.TargetBps)
	}
	if err != nil {
		return domain.Decision{}, err
	}

	// 3. Input ceiling for the exact-out swap, from oracle rate plus
	// slippage buffer.
	maxSwapInput, err := swapDomain.MaxInputForExactOutput(requiredOutput, op.In, op.Out, e.policy.SlippageBps)
	if err != nil {
		return domain.Decision{}, err
	}

	// 4. Principal to borrow is the ceiling minus funds already at hand;
	// the flash fee rounds up in the lender's favor.
	principal := new(big.Int).Set(maxSwapInput)
	if op.AvailableFunds != nil {
		principal.Sub(principal, op.AvailableFunds)
	}
	if principal.Sign() <= 0 {
		return reject(domain.RejectZeroPrincipal, leverageBps, requiredOutput, nil), nil
	}
	flashFee, err := fixedpoint.MulBps(principal, e.policy.FlashFeeBps, fixedpoint.RoundUp)
	if err != nil {
		return domain.Decision{}, err
	}

	// 5. Proceeds in the flash asset, net of the protocol's cut. The
	// conversion rounds down and the fee rounds up: both directions favor
	// the protocol over the caller.
	grossProceeds, err := pricingDomain.Convert(op.GrossProceeds, op.ProceedsAsset, op.In, fixedpoint.RoundDown)
	if err != nil {
		return domain.Decision{}, err
	}
	protocolFee, err := fixedpoint.MulBps(grossProceeds, e.policy.ProtocolFeeBps, fixedpoint.RoundUp)
	if err != nil {
		return domain.Decision{}, err
	}
	netProceeds := new(big.Int).Sub(grossProceeds, protocolFee)

	// 6. netProfit = netProceeds - principal - flashFee, signed until the
	// verdict is known.
	netProfit := new(big.Int).Sub(netProceeds, principal)
	netProfit.Sub(netProfit, flashFee)

	// 7. Verdict.
	if netProfit.Sign() < 0 {
		return reject(domain.RejectNegativeMargin, leverageBps, requiredOutput, flashFee), nil
	}
	if netProfit.Sign() == 0 {
		if e.policy.MinProfitBps == 0 && e.policy.AcceptBreakEven {
			return proceed(principal, maxSwapInput, netProfit, leverageBps, requiredOutput, flashFee), nil
		}
		return reject(domain.RejectBelowThreshold, leverageBps, requiredOutput, flashFee), nil
	}
	marginBps, err := fixedpoint.MulDiv(netProfit, big.NewInt(fixedpoint.BasisPointsBase), principal, fixedpoint.RoundDown)
	if err != nil {
		return domain.Decision{}, err
	}
	if marginBps.Cmp(new(big.Int).SetUint64(e.policy.MinProfitBps)) < 0 {
		return reject(domain.RejectBelowThreshold, leverageBps, requiredOutput, flashFee), nil
	}

	return proceed(principal, maxSwapInput, netProfit, leverageBps, requiredOutput, flashFee), nil
}

func proceed(principal, maxInput, netProfit, leverageBps, requiredOutput, flashFee *big.Int) domain.Decision {
	return domain.Decision{
		Proceed:            true,
		FlashPrincipal:     principal,
		MaxSwapInput:       maxInput,
		ExpectedNetProfit:  netProfit,
		CurrentLeverageBps: leverageBps,
		RequiredOutput:     requiredOutput,
		FlashFee:           flashFee,
		EvaluatedAt:        time.Now(),
	}
}

func reject(reason domain.RejectReason, leverageBps, requiredOutput, flashFee *big.Int) domain.Decision {
	return domain.Decision{
		Proceed:            false,
		Reason:             reason,
		CurrentLeverageBps: leverageBps,
		RequiredOutput:     requiredOutput,
		FlashFee:           flashFee,
		EvaluatedAt:        time.Now(),
	}
}
