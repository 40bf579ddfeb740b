// Package domain contains the core pricing types for the sizing engine:
// oracle-quoted assets and cross-asset conversion with explicit rounding.
package domain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dloop-labs/flashsizer/internal/asset"
	"github.com/dloop-labs/flashsizer/internal/fixedpoint"
)

// Common errors
var (
	ErrZeroPrice       = errors.New("pricing: zero oracle price")
	ErrInvalidSlippage = errors.New("pricing: slippage tolerance must be below 10000 bps")
	ErrNilAsset        = errors.New("pricing: nil asset in quote")
	ErrQuoteMismatch   = errors.New("pricing: price does not belong to quoted asset")
)

// AssetQuote pairs an asset with a fresh oracle price observation. Quotes
// are rebuilt by the caller for every computation; the engine never caches
// them.
type AssetQuote struct {
	Asset *asset.Asset
	Price asset.OraclePrice
}

// NewAssetQuote builds a quote, checking that the price observation belongs
// to the asset being quoted.
func NewAssetQuote(a *asset.Asset, price asset.OraclePrice) (AssetQuote, error) {
	if a == nil {
		return AssetQuote{}, ErrNilAsset
	}
	if price.Asset() != nil && !price.Asset().Equals(a) {
		return AssetQuote{}, fmt.Errorf("%w: price is for %s, quote is for %s",
			ErrQuoteMismatch, price.Asset().Symbol(), a.Symbol())
	}
	return AssetQuote{Asset: a, Price: price}, nil
}

// Convert converts an amount of the from asset into the equivalent amount
// of the to asset:
//
//	amount * priceFrom * 10^decimalsTo / (priceTo * 10^decimalsFrom)
//
// computed in a single wide-intermediate division with the caller's rounding
// direction. A zero oracle price means "price unavailable" and is an error,
// never coerced to a default.
//
// Converting an asset to itself is the identity and does not touch prices,
// so it stays correct for an asset the oracle does not quote.
func Convert(amount *big.Int, from, to AssetQuote, round fixedpoint.Rounding) (*big.Int, error) {
	if amount == nil {
		return nil, fixedpoint.ErrNilAmount
	}
	if from.Asset == nil || to.Asset == nil {
		return nil, ErrNilAsset
	}
	if from.Asset.Equals(to.Asset) {
		return new(big.Int).Set(amount), nil
	}
	if from.Price.IsZero() || to.Price.IsZero() {
		return nil, ErrZeroPrice
	}

	numerator := new(big.Int).Mul(from.Price.Value(), fixedpoint.Pow10(to.Asset.Decimals()))
	denominator := new(big.Int).Mul(to.Price.Value(), fixedpoint.Pow10(from.Asset.Decimals()))
	return fixedpoint.MulDiv(amount, numerator, denominator, round)
}

// WithSlippageBuffer inflates an amount by a slippage tolerance:
// amount * (10000 + slippageBps) / 10000, rounding up so the buffer never
// understates the worst case. Tolerances of 100% or more are rejected.
func WithSlippageBuffer(amount *big.Int, slippageBps uint32) (*big.Int, error) {
	if slippageBps >= fixedpoint.BasisPointsBase {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSlippage, slippageBps)
	}
	return fixedpoint.MulBps(amount, uint64(fixedpoint.BasisPointsBase+slippageBps), fixedpoint.RoundUp)
}
