// Package domain contains the value types of the sizing context: the
// operation under evaluation, the caller's fee/profit policy, and the
// decision the engine hands back.
package domain

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	pricingDomain "github.com/dloop-labs/flashsizer/business/pricing/domain"
	"github.com/dloop-labs/flashsizer/internal/fixedpoint"
)

// RejectReason classifies a business-outcome rejection. Rejections are
// expected, first-class answers - "no, don't proceed" - as opposed to hard
// failures, which mean the engine could not answer at all.
type RejectReason string

const (
	RejectOutOfBounds    RejectReason = "OUT_OF_BOUNDS"
	RejectBelowThreshold RejectReason = "BELOW_THRESHOLD"
	RejectNegativeMargin RejectReason = "NEGATIVE_MARGIN"
	RejectZeroPrincipal  RejectReason = "ZERO_PRINCIPAL"
)

// OperationKind selects the vault flow being sized.
type OperationKind string

const (
	OperationDeposit OperationKind = "DEPOSIT"
	OperationRedeem  OperationKind = "REDEEM"
)

// Common errors
var (
	ErrInvalidOperation = errors.New("sizing: invalid operation")
	ErrInvalidPolicy    = errors.New("sizing: invalid policy")
)

// Policy carries the caller-supplied constants of an evaluation: slippage
// tolerance, the flash lender's fee, the protocol's cut of proceeds, and
// the minimum acceptable profit margin. AcceptBreakEven resolves the
// zero-profit tie: rejected by default, accepted only when the threshold is
// zero and the caller opts in.
type Policy struct {
	SlippageBps     uint32
	FlashFeeBps     uint64
	ProtocolFeeBps  uint64
	MinProfitBps    uint64
	AcceptBreakEven bool
}

// Validate rejects fee rates of 100% or more.
func (p Policy) Validate() error {
	if p.SlippageBps >= fixedpoint.BasisPointsBase {
		return fmt.Errorf("%w: slippage %d bps", ErrInvalidPolicy, p.SlippageBps)
	}
	if p.FlashFeeBps >= fixedpoint.BasisPointsBase {
		return fmt.Errorf("%w: flash fee %d bps", ErrInvalidPolicy, p.FlashFeeBps)
	}
	if p.ProtocolFeeBps >= fixedpoint.BasisPointsBase {
		return fmt.Errorf("%w: protocol fee %d bps", ErrInvalidPolicy, p.ProtocolFeeBps)
	}
	return nil
}

// Operation describes one flash-loan-funded vault flow to size: the user
// amount entering the flow, the swap legs (flash asset in, collateral
// asset out), the gross proceeds the flow is expected to recover, and any
// funds already at hand that reduce the principal to borrow.
type Operation struct {
	Kind   OperationKind
	Amount *big.Int // deposit amount or assets to withdraw, in Out-asset units

	In  pricingDomain.AssetQuote // flash-borrowed asset, spent on the swap
	Out pricingDomain.AssetQuote // collateral asset the swap must deliver

	// GrossProceeds is the value the flow recovers (borrowed funds plus
	// claimed rewards, or collateral received), denominated in
	// ProceedsAsset and converted to the flash asset during evaluation.
	GrossProceeds *big.Int
	ProceedsAsset pricingDomain.AssetQuote

	// AvailableFunds is the flash-asset balance already held (dust from
	// prior runs), which reduces the principal to borrow.
	AvailableFunds *big.Int
}

// Validate checks structural validity; price validity is checked where the
// prices are used.
func (o Operation) Validate() error {
	if o.Kind != OperationDeposit && o.Kind != OperationRedeem {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, o.Kind)
	}
	if o.Amount == nil || o.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	}
	if o.In.Asset == nil || o.Out.Asset == nil || o.ProceedsAsset.Asset == nil {
		return fmt.Errorf("%w: missing asset quote", ErrInvalidOperation)
	}
	if o.GrossProceeds == nil || o.GrossProceeds.Sign() < 0 {
		return fmt.Errorf("%w: gross proceeds must be non-negative", ErrInvalidOperation)
	}
	if o.AvailableFunds != nil && o.AvailableFunds.Sign() < 0 {
		return fmt.Errorf("%w: available funds must be non-negative", ErrInvalidOperation)
	}
	return nil
}

// Decision is the engine's answer for one operation: either proceed with
// the computed sizing, or reject with a reason. It is a pure value with no
// lifecycle beyond the call that produced it.
type Decision struct {
	Proceed bool
	Reason  RejectReason // set when Proceed is false

	// Sizing, set when Proceed is true. ExpectedNetProfit is denominated
	// in the flash asset.
	FlashPrincipal    *big.Int
	MaxSwapInput      *big.Int
	ExpectedNetProfit *big.Int

	// Diagnostics, populated on both outcomes where available.
	CurrentLeverageBps *big.Int
	RequiredOutput     *big.Int
	FlashFee           *big.Int
	EvaluatedAt        time.Time
}

// NewProceed builds an accepting decision.
func NewProceed(principal, maxInput, netProfit *big.Int) Decision {
	return Decision{
		Proceed:           true,
		FlashPrincipal:    principal,
		MaxSwapInput:      maxInput,
		ExpectedNetProfit: netProfit,
		EvaluatedAt:       time.Now(),
	}
}

// NewReject builds a rejecting decision.
func NewReject(reason RejectReason) Decision {
	return Decision{
		Proceed:     false,
		Reason:      reason,
		EvaluatedAt: time.Now(),
	}
}

// String summarizes the decision for logs.
func (d Decision) String() string {
	if !d.Proceed {
		return fmt.Sprintf("reject(%s)", d.Reason)
	}
	return fmt.Sprintf("proceed(principal=%s maxInput=%s netProfit=%s)",
		d.FlashPrincipal, d.MaxSwapInput, d.ExpectedNetProfit)
}
