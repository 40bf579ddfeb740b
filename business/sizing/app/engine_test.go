package app_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	leverageDomain "github.com/dloop-labs/flashsizer/business/leverage/domain"
	pricingDomain "github.com/dloop-labs/flashsizer/business/pricing/domain"
	"github.com/dloop-labs/flashsizer/business/sizing/app"
	"github.com/dloop-labs/flashsizer/business/sizing/domain"
	"github.com/dloop-labs/flashsizer/internal/asset"
)

func quote(t testing.TB, a *asset.Asset, usd string) pricingDomain.AssetQuote {
	t.Helper()
	price := asset.NewOraclePriceFromDecimal(a, decimal.RequireFromString(usd), time.Now())
	q, err := pricingDomain.NewAssetQuote(a, price)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return q
}

func mustBig(t testing.TB, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad big.Int literal %q", s)
	}
	return v
}

func newEngine(t testing.TB, policy domain.Policy) *app.Engine {
	t.Helper()
	engine, err := app.NewEngine(policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return engine
}

// threeXConfig is a 3.00x vault with a [2.00x, 4.00x] band.
var threeXConfig = leverageDomain.Config{
	TargetBps: 30_000,
	LowerBps:  20_000,
	UpperBps:  40_000,
}

func balancedPosition(t testing.TB) leverageDomain.Position {
	t.Helper()
	// 300 collateral vs 200 debt = exactly 3.00x.
	p, err := leverageDomain.NewPosition(mustBig(t, "300000000000000000000"), mustBig(t, "200000000000000000000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

// Worked compounding example: 3.00x target, 100e18 deposit needs 300e18
// collateral; borrowed funds plus claimed rewards recover 310e18 dUSD;
// 5e18 dUSD dust is already at hand; flash fee 9 bps.
//
//	principal = 300e18 - 5e18 = 295e18
//	flash fee = 295e18 * 9 / 10000 = 0.2655e18 (rounded up)
//	netProfit = 310e18 - 295e18 - 0.2655e18 = 14.7345e18 > 0
func compoundingOp(t testing.TB, grossProceeds string) domain.Operation {
	t.Helper()
	dusd := quote(t, asset.DUSD, "1")
	sfrax := quote(t, asset.SFRAX, "1")
	return domain.Operation{
		Kind:           domain.OperationDeposit,
		Amount:         mustBig(t, "100000000000000000000"),
		In:             dusd,
		Out:            sfrax,
		GrossProceeds:  mustBig(t, grossProceeds),
		ProceedsAsset:  dusd,
		AvailableFunds: mustBig(t, "5000000000000000000"),
	}
}

func TestEngine_Evaluate_WorkedExample_Proceed(t *testing.T) {
	engine := newEngine(t, domain.Policy{FlashFeeBps: 9})

	decision, err := engine.Evaluate(balancedPosition(t), threeXConfig, compoundingOp(t, "310000000000000000000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Proceed {
		t.Fatalf("expected Proceed, got %s", decision)
	}

	wantPrincipal := mustBig(t, "295000000000000000000")
	if decision.FlashPrincipal.Cmp(wantPrincipal) != 0 {
		t.Errorf("principal = %s, want %s", decision.FlashPrincipal, wantPrincipal)
	}
	wantMaxInput := mustBig(t, "300000000000000000000")
	if decision.MaxSwapInput.Cmp(wantMaxInput) != 0 {
		t.Errorf("maxSwapInput = %s, want %s", decision.MaxSwapInput, wantMaxInput)
	}
	wantFee := mustBig(t, "265500000000000000")
	if decision.FlashFee.Cmp(wantFee) != 0 {
		t.Errorf("flashFee = %s, want %s", decision.FlashFee, wantFee)
	}
	wantProfit := mustBig(t, "14734500000000000000")
	if decision.ExpectedNetProfit.Cmp(wantProfit) != 0 {
		t.Errorf("netProfit = %s, want %s", decision.ExpectedNetProfit, wantProfit)
	}
}

func TestEngine_Evaluate_WorkedExample_NegativeMargin(t *testing.T) {
	engine := newEngine(t, domain.Policy{FlashFeeBps: 9})

	// Rewards shrink to 50e18: 200+50 < 295 + fee.
	decision, err := engine.Evaluate(balancedPosition(t), threeXConfig, compoundingOp(t, "250000000000000000000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Proceed {
		t.Fatalf("expected rejection, got %s", decision)
	}
	if decision.Reason != domain.RejectNegativeMargin {
		t.Errorf("reason = %s, want %s", decision.Reason, domain.RejectNegativeMargin)
	}
}

func TestEngine_Evaluate_OutOfBounds(t *testing.T) {
	engine := newEngine(t, domain.Policy{})

	// 5.00x leverage against a [2x, 4x] band.
	position, err := leverageDomain.NewPosition(big.NewInt(500), big.NewInt(400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision, err := engine.Evaluate(position, threeXConfig, compoundingOp(t, "310000000000000000000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Proceed || decision.Reason != domain.RejectOutOfBounds {
		t.Errorf("expected Reject(OUT_OF_BOUNDS), got %s", decision)
	}
	if decision.CurrentLeverageBps.Int64() != 50_000 {
		t.Errorf("leverage diagnostic = %s, want 50000", decision.CurrentLeverageBps)
	}
}

func TestEngine_Evaluate_ZeroPrincipal(t *testing.T) {
	engine := newEngine(t, domain.Policy{})

	op := compoundingOp(t, "310000000000000000000")
	op.AvailableFunds = mustBig(t, "300000000000000000000") // covers the whole swap

	decision, err := engine.Evaluate(balancedPosition(t), threeXConfig, op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Proceed || decision.Reason != domain.RejectZeroPrincipal {
		t.Errorf("expected Reject(ZERO_PRINCIPAL), got %s", decision)
	}
}

// Profitability threshold boundary: a margin exactly at MinProfitBps
// proceeds, one profit unit below rejects.
func TestEngine_Evaluate_ThresholdBoundary(t *testing.T) {
	policy := domain.Policy{MinProfitBps: 100}
	engine := newEngine(t, policy)

	// Unlevered flow keeps the numbers bare: principal = amount = 10000.
	config := leverageDomain.Config{TargetBps: 10_000, LowerBps: 10_000, UpperBps: 40_000}
	base := domain.Operation{
		Kind:          domain.OperationDeposit,
		Amount:        big.NewInt(10_000),
		In:            quote(t, asset.DUSD, "1"),
		Out:           quote(t, asset.SFRAX, "1"),
		ProceedsAsset: quote(t, asset.DUSD, "1"),
	}

	// netProfit = 100 on principal 10000 = exactly 100 bps.
	base.GrossProceeds = big.NewInt(10_100)
	decision, err := engine.Evaluate(balancedPosition(t), config, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Proceed {
		t.Errorf("margin at threshold: expected Proceed, got %s", decision)
	}

	// One unit less profit drops the floored margin to 99 bps.
	base.GrossProceeds = big.NewInt(10_099)
	decision, err = engine.Evaluate(balancedPosition(t), config, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Proceed || decision.Reason != domain.RejectBelowThreshold {
		t.Errorf("one unit below threshold: expected Reject(BELOW_THRESHOLD), got %s", decision)
	}
}

func TestEngine_Evaluate_BreakEvenTie(t *testing.T) {
	config := leverageDomain.Config{TargetBps: 10_000, LowerBps: 10_000, UpperBps: 40_000}
	op := domain.Operation{
		Kind:          domain.OperationDeposit,
		Amount:        big.NewInt(10_000),
		In:            quote(t, asset.DUSD, "1"),
		Out:           quote(t, asset.SFRAX, "1"),
		GrossProceeds: big.NewInt(10_000), // exactly breaks even
		ProceedsAsset: quote(t, asset.DUSD, "1"),
	}

	// Rejected by default.
	engine := newEngine(t, domain.Policy{})
	decision, err := engine.Evaluate(balancedPosition(t), config, op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Proceed || decision.Reason != domain.RejectBelowThreshold {
		t.Errorf("break-even default: expected Reject(BELOW_THRESHOLD), got %s", decision)
	}

	// Accepted when the caller opts in with a zero threshold.
	engine = newEngine(t, domain.Policy{AcceptBreakEven: true})
	decision, err = engine.Evaluate(balancedPosition(t), config, op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Proceed {
		t.Errorf("break-even opt-in: expected Proceed, got %s", decision)
	}
	if decision.ExpectedNetProfit.Sign() != 0 {
		t.Errorf("netProfit = %s, want 0", decision.ExpectedNetProfit)
	}
}

func TestEngine_Evaluate_CrossAssetProceeds(t *testing.T) {
	engine := newEngine(t, domain.Policy{ProtocolFeeBps: 1_000}) // 10% protocol cut

	config := leverageDomain.Config{TargetBps: 10_000, LowerBps: 10_000, UpperBps: 40_000}
	op := domain.Operation{
		Kind:   domain.OperationDeposit,
		Amount: mustBig(t, "2000000000000000000000"), // needs 2000 dUSD
		In:     quote(t, asset.DUSD, "1"),
		Out:    quote(t, asset.SFRAX, "1"),
		// Proceeds arrive as 1.2 wfrxETH at $2000 = 2400 dUSD gross,
		// 2160 dUSD after the 10% protocol fee.
		GrossProceeds: mustBig(t, "1200000000000000000"),
		ProceedsAsset: quote(t, asset.WFRXETH, "2000"),
	}

	decision, err := engine.Evaluate(balancedPosition(t), config, op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Proceed {
		t.Fatalf("expected Proceed, got %s", decision)
	}
	// 2400 - 240 - 2000 = 160 dUSD.
	wantProfit := mustBig(t, "160000000000000000000")
	if decision.ExpectedNetProfit.Cmp(wantProfit) != 0 {
		t.Errorf("netProfit = %s, want %s", decision.ExpectedNetProfit, wantProfit)
	}
}

func TestEngine_Evaluate_HardFailures(t *testing.T) {
	engine := newEngine(t, domain.Policy{})
	op := compoundingOp(t, "310000000000000000000")

	// Undercollateralized position is an error, not a rejection.
	broken, err := leverageDomain.NewPosition(big.NewInt(100), big.NewInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = engine.Evaluate(broken, threeXConfig, op)
	if !errors.Is(err, leverageDomain.ErrUndercollateralized) {
		t.Errorf("expected ErrUndercollateralized, got %v", err)
	}

	// A dead price feed must never turn into a decision.
	unpriced := asset.NewOraclePrice(asset.SFRAX, big.NewInt(0), time.Now())
	op.Out, _ = pricingDomain.NewAssetQuote(asset.SFRAX, unpriced)
	_, err = engine.Evaluate(balancedPosition(t), threeXConfig, op)
	if !errors.Is(err, pricingDomain.ErrZeroPrice) {
		t.Errorf("expected ErrZeroPrice, got %v", err)
	}
}

func TestEngine_Evaluate_SlippageWidensPrincipal(t *testing.T) {
	tight := newEngine(t, domain.Policy{SlippageBps: 0})
	loose := newEngine(t, domain.Policy{SlippageBps: 200})

	op := compoundingOp(t, "310000000000000000000")
	op.AvailableFunds = big.NewInt(0)

	a, err := tight.Evaluate(balancedPosition(t), threeXConfig, op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := loose.Evaluate(balancedPosition(t), threeXConfig, op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.MaxSwapInput.Cmp(a.MaxSwapInput) <= 0 {
		t.Errorf("expected wider slippage to raise the ceiling: %s vs %s", b.MaxSwapInput, a.MaxSwapInput)
	}
}

func TestNewEngine_RejectsInvalidPolicy(t *testing.T) {
	_, err := app.NewEngine(domain.Policy{SlippageBps: 10_000})
	if !errors.Is(err, domain.ErrInvalidPolicy) {
		t.Errorf("expected ErrInvalidPolicy, got %v", err)
	}
}

func BenchmarkEngine_Evaluate(b *testing.B) {
	engine := newEngine(b, domain.Policy{FlashFeeBps: 9, MinProfitBps: 10})
	position := balancedPosition(b)
	op := compoundingOp(b, "310000000000000000000")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Evaluate(position, threeXConfig, op)
	}
}
