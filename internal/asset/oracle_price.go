package asset

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// OraclePriceDecimals is the fixed-point precision of oracle prices,
// matching the 8-decimal USD convention of the protocol's price getters.
const OraclePriceDecimals = 8

var oraclePriceMultiplier = new(big.Int).Exp(big.NewInt(10), big.NewInt(OraclePriceDecimals), nil)

// OraclePrice is a USD price observation for a single asset, stored as an
// 8-decimal fixed-point integer. A price of $2000.50 is 200050000000.
// Prices are snapshotted by the caller and passed fresh into every
// computation; staleness handling belongs to the caller, not the engine.
type OraclePrice struct {
	value      *big.Int
	asset      *Asset
	observedAt time.Time
}

// NewOraclePrice creates a price from a raw 8-decimal fixed-point value.
func NewOraclePrice(a *Asset, value *big.Int, observedAt time.Time) OraclePrice {
	if a == nil {
		panic(ErrNilAsset)
	}
	if value == nil {
		panic(ErrNilRaw)
	}
	if value.Sign() < 0 {
		panic("asset: negative oracle price")
	}

	return OraclePrice{
		value:      new(big.Int).Set(value),
		asset:      a,
		observedAt: observedAt,
	}
}

// NewOraclePriceFromDecimal creates a price from a decimal USD rate.
// This is a BOUNDARY function for config and scenario parsing.
func NewOraclePriceFromDecimal(a *Asset, usd decimal.Decimal, observedAt time.Time) OraclePrice {
	if usd.IsNegative() {
		panic("asset: negative oracle price")
	}
	scaled := usd.Shift(OraclePriceDecimals).Truncate(0)
	return NewOraclePrice(a, scaled.BigInt(), observedAt)
}

// Value returns a copy of the raw 8-decimal fixed-point price.
func (p OraclePrice) Value() *big.Int {
	if p.value == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(p.value)
}

// Asset returns the asset this price refers to.
func (p OraclePrice) Asset() *Asset {
	return p.asset
}

// ObservedAt returns when this price was read from the oracle.
func (p OraclePrice) ObservedAt() time.Time {
	return p.observedAt
}

// IsZero reports whether the price is zero, i.e. "price unavailable".
// The engine never coerces a zero price to a default.
func (p OraclePrice) IsZero() bool {
	return p.value == nil || p.value.Sign() == 0
}

// Age returns how old this observation is.
func (p OraclePrice) Age() time.Duration {
	return time.Since(p.observedAt)
}

// IsStale returns true if the observation is older than maxAge.
func (p OraclePrice) IsStale(maxAge time.Duration) bool {
	return p.Age() > maxAge
}

// ToDecimal returns the USD rate for display.
func (p OraclePrice) ToDecimal() decimal.Decimal {
	if p.value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(p.value, -OraclePriceDecimals)
}

// String returns a human-readable representation (e.g., "dUSD @ $1.0001").
func (p OraclePrice) String() string {
	symbol := "???"
	if p.asset != nil {
		symbol = p.asset.Symbol()
	}
	return fmt.Sprintf("%s @ $%s", symbol, p.ToDecimal().String())
}

// OraclePriceMultiplier returns 10^OraclePriceDecimals as a fresh big.Int.
func OraclePriceMultiplier() *big.Int {
	return new(big.Int).Set(oraclePriceMultiplier)
}
