package domain_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/dloop-labs/flashsizer/business/pricing/domain"
	"github.com/dloop-labs/flashsizer/business/swap/domain"
	"github.com/dloop-labs/flashsizer/internal/asset"
)

func quote(t *testing.T, a *asset.Asset, usd string) pricingDomain.AssetQuote {
	t.Helper()
	price := asset.NewOraclePriceFromDecimal(a, decimal.RequireFromString(usd), time.Now())
	q, err := pricingDomain.NewAssetQuote(a, price)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return q
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad big.Int literal %q", s)
	}
	return v
}

func TestMaxInputForExactOutput(t *testing.T) {
	in := quote(t, asset.DUSD, "1")
	out := quote(t, asset.WFRXETH, "2000")

	// 1 wfrxETH output costs 2000 dUSD at oracle rate; 50 bps buffer -> 2010.
	got, err := domain.MaxInputForExactOutput(mustBig(t, "1000000000000000000"), in, out, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mustBig(t, "2010000000000000000000")
	if got.Cmp(want) != 0 {
		t.Errorf("MaxInputForExactOutput = %s, want %s", got, want)
	}
}

func TestMaxInputForExactOutput_ZeroPricePropagates(t *testing.T) {
	in := quote(t, asset.DUSD, "1")
	unpriced := asset.NewOraclePrice(asset.WFRXETH, big.NewInt(0), time.Now())
	out, _ := pricingDomain.NewAssetQuote(asset.WFRXETH, unpriced)

	_, err := domain.MaxInputForExactOutput(big.NewInt(1e18), in, out, 50)
	if !errors.Is(err, pricingDomain.ErrZeroPrice) {
		t.Errorf("expected ErrZeroPrice, got %v", err)
	}
}

// Exact-out validation directionality: received is a floor, spent is a
// ceiling. One unit past either boundary must fail; the boundaries
// themselves must pass.
func TestValidateResult_Directionality(t *testing.T) {
	expectedOutput := big.NewInt(1_000_000)
	maxInput := big.NewInt(2_000_000)

	tests := []struct {
		name     string
		spent    int64
		received int64
		wantErr  string // "", "insufficient", "excessive"
	}{
		{"exactly_at_both_bounds", 2_000_000, 1_000_000, ""},
		{"under_spent_over_delivered", 1_999_999, 1_000_001, ""},
		{"one_unit_short_output", 2_000_000, 999_999, "insufficient"},
		{"one_unit_over_input", 2_000_001, 1_000_000, "excessive"},
		{"both_violations_output_first", 2_000_001, 999_999, "insufficient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := domain.Result{
				AmountSpent:    big.NewInt(tt.spent),
				AmountReceived: big.NewInt(tt.received),
			}
			settlement, err := domain.ValidateResult(result, expectedOutput, maxInput)

			switch tt.wantErr {
			case "":
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if settlement.AmountSpent.Int64() != tt.spent {
					t.Errorf("settlement spent = %s, want %d", settlement.AmountSpent, tt.spent)
				}
			case "insufficient":
				var insufficientErr *domain.InsufficientOutputError
				if !errors.As(err, &insufficientErr) {
					t.Fatalf("expected InsufficientOutputError, got %v", err)
				}
				if insufficientErr.Expected.Cmp(expectedOutput) != 0 || insufficientErr.Actual.Int64() != tt.received {
					t.Errorf("error fields = {%s %s}, want {%s %d}",
						insufficientErr.Expected, insufficientErr.Actual, expectedOutput, tt.received)
				}
			case "excessive":
				var excessiveErr *domain.ExcessiveInputError
				if !errors.As(err, &excessiveErr) {
					t.Fatalf("expected ExcessiveInputError, got %v", err)
				}
				if excessiveErr.Max.Cmp(maxInput) != 0 || excessiveErr.Actual.Int64() != tt.spent {
					t.Errorf("error fields = {%s %s}, want {%s %d}",
						excessiveErr.Max, excessiveErr.Actual, maxInput, tt.spent)
				}
			}
		})
	}
}

func TestValidateResult_ReportsSurplus(t *testing.T) {
	result := domain.Result{
		AmountSpent:    big.NewInt(1_500_000),
		AmountReceived: big.NewInt(1_000_123),
	}
	settlement, err := domain.ValidateResult(result, big.NewInt(1_000_000), big.NewInt(2_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settlement.Surplus.Int64() != 123 {
		t.Errorf("surplus = %s, want 123", settlement.Surplus)
	}

	// Exact delivery means zero surplus, not an error.
	settlement, err = domain.ValidateResult(domain.Result{
		AmountSpent:    big.NewInt(1_500_000),
		AmountReceived: big.NewInt(1_000_000),
	}, big.NewInt(1_000_000), big.NewInt(2_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settlement.Surplus.Sign() != 0 {
		t.Errorf("surplus = %s, want 0", settlement.Surplus)
	}
}

func TestRequest_Validate(t *testing.T) {
	in := quote(t, asset.DUSD, "1")
	out := quote(t, asset.WFRXETH, "2000")

	exactOut := domain.Request{In: in, Out: out, ExactOutput: big.NewInt(1e18), SlippageBps: 50}
	if err := exactOut.Validate(); err != nil {
		t.Errorf("exact-output request rejected: %v", err)
	}

	neither := domain.Request{In: in, Out: out}
	if err := neither.Validate(); !errors.Is(err, domain.ErrAmountModeConflict) {
		t.Errorf("expected ErrAmountModeConflict for neither amount, got %v", err)
	}

	both := domain.Request{In: in, Out: out, ExactInput: big.NewInt(1), ExactOutput: big.NewInt(1)}
	if err := both.Validate(); !errors.Is(err, domain.ErrAmountModeConflict) {
		t.Errorf("expected ErrAmountModeConflict for both amounts, got %v", err)
	}
}

func TestRequest_Expired(t *testing.T) {
	now := time.Now()
	r := domain.Request{Deadline: now.Add(-time.Second)}
	if !r.Expired(now) {
		t.Error("past deadline not reported expired")
	}

	open := domain.Request{} // zero deadline never expires
	if open.Expired(now) {
		t.Error("zero deadline reported expired")
	}
}
