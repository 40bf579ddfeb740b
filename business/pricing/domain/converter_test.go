package domain_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dloop-labs/flashsizer/business/pricing/domain"
	"github.com/dloop-labs/flashsizer/internal/asset"
	"github.com/dloop-labs/flashsizer/internal/fixedpoint"
)

func quote(t *testing.T, a *asset.Asset, usd string) domain.AssetQuote {
	t.Helper()
	price := asset.NewOraclePriceFromDecimal(a, decimal.RequireFromString(usd), time.Now())
	q, err := domain.NewAssetQuote(a, price)
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

func TestConvert(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		from      *asset.Asset
		fromUSD   string
		to        *asset.Asset
		toUSD     string
		round     fixedpoint.Rounding
		want      string
	}{
		{
			// 1 wfrxETH at $2000 into dUSD at $1 = 2000 dUSD
			name:   "eth_to_dusd",
			amount: "1000000000000000000", from: asset.WFRXETH, fromUSD: "2000",
			to: asset.DUSD, toUSD: "1",
			round: fixedpoint.RoundDown, want: "2000000000000000000000",
		},
		{
			// decimal rescale: 2000 dUSD (18 dec) into USDC (6 dec)
			name:   "dusd_to_usdc",
			amount: "2000000000000000000000", from: asset.DUSD, fromUSD: "1",
			to: asset.USDC, toUSD: "1",
			round: fixedpoint.RoundDown, want: "2000000000",
		},
		{
			// 1 base unit of USDC is 5e8 wei of $2000 wfrxETH
			name:   "usdc_dust_to_eth_wei",
			amount: "1", from: asset.USDC, fromUSD: "1",
			to: asset.WFRXETH, toUSD: "2000",
			round: fixedpoint.RoundDown, want: "500000000",
		},
		{
			// price with sub-dollar precision
			name:   "depegged_stable",
			amount: "1000000000000000000", from: asset.DUSD, fromUSD: "0.9985",
			to: asset.FRAX, toUSD: "1.0001",
			round: fixedpoint.RoundDown, want: "998400159984001599",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.Convert(mustBig(t, tt.amount), quote(t, tt.from, tt.fromUSD), quote(t, tt.to, tt.toUSD), tt.round)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Cmp(mustBig(t, tt.want)) != 0 {
				t.Errorf("Convert = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConvert_Identity(t *testing.T) {
	// Same asset in and out returns the amount unchanged without touching
	// prices - even a zero (unavailable) price must not matter here.
	unpriced := asset.NewOraclePrice(asset.DUSD, big.NewInt(0), time.Now())
	q, err := domain.NewAssetQuote(asset.DUSD, unpriced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	amount := big.NewInt(123456789)
	got, err := domain.Convert(amount, q, q, fixedpoint.RoundUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(amount) != 0 {
		t.Errorf("identity conversion = %s, want %s", got, amount)
	}
}

func TestConvert_ZeroPrice(t *testing.T) {
	from := quote(t, asset.WFRXETH, "2000")
	unpriced := asset.NewOraclePrice(asset.DUSD, big.NewInt(0), time.Now())
	to, _ := domain.NewAssetQuote(asset.DUSD, unpriced)

	_, err := domain.Convert(big.NewInt(1e18), from, to, fixedpoint.RoundDown)
	if !errors.Is(err, domain.ErrZeroPrice) {
		t.Errorf("expected ErrZeroPrice, got %v", err)
	}

	_, err = domain.Convert(big.NewInt(1e18), to, from, fixedpoint.RoundDown)
	if !errors.Is(err, domain.ErrZeroPrice) {
		t.Errorf("expected ErrZeroPrice for from leg, got %v", err)
	}
}

// Round-trip conversion never ends above the starting amount when both
// legs round down.
func TestConvert_RoundTripNeverGains(t *testing.T) {
	from := quote(t, asset.WFRXETH, "1999.37")
	to := quote(t, asset.DUSD, "1.0003")

	amounts := []string{"1", "999", "1000000000000000001", "777777777777777777777"}
	for _, s := range amounts {
		start := mustBig(t, s)
		leg1, err := domain.Convert(start, from, to, fixedpoint.RoundDown)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		back, err := domain.Convert(leg1, to, from, fixedpoint.RoundDown)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if back.Cmp(start) > 0 {
			t.Errorf("round trip of %s gained value: %s", start, back)
		}
	}
}

func TestWithSlippageBuffer(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		slippageBps uint32
		want        int64
	}{
		{"zero_slippage", 10_000, 0, 10_000},
		{"fifty_bps", 10_000, 50, 10_050},
		{"rounds_up", 3, 1, 4}, // 3*10001/10000 = 3.0003 -> 4
		{"max_allowed", 10_000, 9_999, 19_999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.WithSlippageBuffer(big.NewInt(tt.amount), tt.slippageBps)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Int64() != tt.want {
				t.Errorf("WithSlippageBuffer(%d, %d) = %s, want %d", tt.amount, tt.slippageBps, got, tt.want)
			}
		})
	}
}

func TestWithSlippageBuffer_RejectsFullSlippage(t *testing.T) {
	for _, bps := range []uint32{10_000, 10_001, 65_000} {
		_, err := domain.WithSlippageBuffer(big.NewInt(1), bps)
		if !errors.Is(err, domain.ErrInvalidSlippage) {
			t.Errorf("slippage %d: expected ErrInvalidSlippage, got %v", bps, err)
		}
	}
}

// Slippage monotonicity: a larger tolerance always buys a strictly larger buffer.
func TestWithSlippageBuffer_Monotonic(t *testing.T) {
	amount := mustBig(t, "123456789123456789")
	prev, err := domain.WithSlippageBuffer(amount, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bps := range []uint32{1, 10, 100, 2_500, 9_999} {
		next, err := domain.WithSlippageBuffer(amount, bps)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.Cmp(prev) <= 0 {
			t.Errorf("buffer at %d bps (%s) not greater than previous (%s)", bps, next, prev)
		}
		prev = next
	}
}
