// Package domain contains the leverage model for dLOOP-style vaults:
// basis-point leverage bounds, position snapshots, and the calculator that
// derives flash-loan-relevant quantities from them.
package domain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dloop-labs/flashsizer/internal/fixedpoint"
)

// OneLeverageBps is 1.00x expressed in basis points. A vault targeting
// 3.00x leverage carries TargetBps = 30000.
const OneLeverageBps = fixedpoint.BasisPointsBase

// Common errors
var (
	ErrInvalidConfig       = errors.New("leverage: invalid leverage config")
	ErrUndercollateralized = errors.New("leverage: debt meets or exceeds collateral")
	ErrNilPosition         = errors.New("leverage: nil collateral or debt")
)

// Config holds a vault's immutable leverage bounds, all in basis points.
// It is read-only input to the engine for the lifetime of the vault.
type Config struct {
	TargetBps     uint64
	LowerBps      uint64
	UpperBps      uint64
	MaxSubsidyBps uint64
}

// Validate checks the bound ordering invariant: lower <= target <= upper,
// with the target at or above 1.00x.
func (c Config) Validate() error {
	if c.TargetBps < OneLeverageBps {
		return fmt.Errorf("%w: target %d bps is below 1.00x", ErrInvalidConfig, c.TargetBps)
	}
	if c.LowerBps > c.TargetBps {
		return fmt.Errorf("%w: lower bound %d above target %d", ErrInvalidConfig, c.LowerBps, c.TargetBps)
	}
	if c.TargetBps > c.UpperBps {
		return fmt.Errorf("%w: target %d above upper bound %d", ErrInvalidConfig, c.TargetBps, c.UpperBps)
	}
	return nil
}

// Position is a snapshot of a vault's collateral and debt, both valued in
// base-asset units. The caller reads it on-chain before invoking the
// engine; the engine never mutates it.
type Position struct {
	Collateral *big.Int
	Debt       *big.Int
}

// NewPosition copies the snapshot values defensively.
func NewPosition(collateral, debt *big.Int) (Position, error) {
	if collateral == nil || debt == nil {
		return Position{}, ErrNilPosition
	}
	if collateral.Sign() < 0 || debt.Sign() < 0 {
		return Position{}, fixedpoint.ErrNegativeAmount
	}
	return Position{
		Collateral: new(big.Int).Set(collateral),
		Debt:       new(big.Int).Set(debt),
	}, nil
}
