package domain

import (
	"math/big"

	"github.com/dloop-labs/flashsizer/internal/fixedpoint"
)

// CurrentLeverageBps computes the vault's current leverage ratio in basis
// points: collateral * 10000 / (collateral - debt). 10000 means fully
// unlevered, 30000 means 3.00x. Positions where debt meets or exceeds
// collateral have no finite leverage and fail with ErrUndercollateralized -
// that is a broken position, not an answerable question.
func CurrentLeverageBps(collateral, debt *big.Int) (*big.Int, error) {
	if collateral == nil || debt == nil {
		return nil, ErrNilPosition
	}
	if collateral.Sign() <= 0 || debt.Cmp(collateral) >= 0 {
		return nil, ErrUndercollateralized
	}

	equity := new(big.Int).Sub(collateral, debt)
	return fixedpoint.MulDiv(collateral, big.NewInt(OneLeverageBps), equity, fixedpoint.RoundDown)
}

// LeveragedDepositAmount returns the total collateral the vault should end
// up holding after a leveraged deposit of the caller's own funds plus
// borrowed funds: deposit * targetBps / 10000, rounded down so the vault is
// never promised more collateral than the deposit can fund.
func LeveragedDepositAmount(deposit *big.Int, targetBps uint64) (*big.Int, error) {
	return fixedpoint.MulBps(deposit, targetBps, fixedpoint.RoundDown)
}

// CollateralToRemoveForRedeem mirrors the deposit formula for the
// withdrawal path: assets * targetBps / 10000, rounded down so the vault
// never releases more collateral than the redemption justifies.
func CollateralToRemoveForRedeem(assets *big.Int, targetBps uint64) (*big.Int, error) {
	return fixedpoint.MulBps(assets, targetBps, fixedpoint.RoundDown)
}

// IsWithinBounds reports whether a leverage reading sits inside
// [lower, upper]. Callers must refuse deposit/mint/redeem flows while the
// vault is outside its band; the orchestrator checks this before declaring
// any operation viable.
func IsWithinBounds(currentBps *big.Int, lowerBps, upperBps uint64) bool {
	if currentBps == nil {
		return false
	}
	if currentBps.Cmp(new(big.Int).SetUint64(lowerBps)) < 0 {
		return false
	}
	return currentBps.Cmp(new(big.Int).SetUint64(upperBps)) <= 0
}
