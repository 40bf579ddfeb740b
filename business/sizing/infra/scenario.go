package infra

import (
	"fmt"
	"math/big"
	"time"

	leverageDomain "github.com/dloop-labs/flashsizer/business/leverage/domain"
	pricingDomain "github.com/dloop-labs/flashsizer/business/pricing/domain"
	sizingDomain "github.com/dloop-labs/flashsizer/business/sizing/domain"
	"github.com/dloop-labs/flashsizer/internal/asset"
	"github.com/dloop-labs/flashsizer/internal/config"

	"github.com/shopspring/decimal"
)

// BoundScenario is a scenario resolved into domain types, ready for the
// evaluator.
type BoundScenario struct {
	Name     string
	Position leverageDomain.Position
	Op       sizingDomain.Operation
	Fills    []RecordedFill
}

// BindScenario resolves a parsed scenario file against the asset registry:
// symbols become assets, base-unit strings become asset amounts, and quotes
// become recorded fills. Assets not in the registry get dev placeholders.
func BindScenario(s *config.Scenario, registry *asset.Registry) (*BoundScenario, error) {
	observedAt := time.Now()

	quotes := make(map[string]pricingDomain.AssetQuote, len(s.Assets))
	for _, sa := range s.Assets {
		a, ok := registry.GetBySymbolAndChain(sa.Symbol, asset.ChainIDFraxtal)
		if !ok {
			a = asset.DevAsset(sa.Symbol, sa.Decimals)
		}

		usd, err := decimal.NewFromString(sa.PriceUSD)
		if err != nil {
			return nil, fmt.Errorf("asset %s: bad price %q: %w", sa.Symbol, sa.PriceUSD, err)
		}

		price := asset.NewOraclePriceFromDecimal(a, usd, observedAt)
		quote, err := pricingDomain.NewAssetQuote(a, price)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", sa.Symbol, err)
		}
		quotes[sa.Symbol] = quote
	}

	inAsset := quotes[s.Op.InSymbol].Asset
	outAsset := quotes[s.Op.OutSymbol].Asset

	// Position values are denominated in the collateral (out) asset.
	collateral, err := parseBaseAmount(outAsset, s.Position.Collateral, "position.collateral")
	if err != nil {
		return nil, err
	}
	debt, err := parseBaseAmount(outAsset, s.Position.Debt, "position.debt")
	if err != nil {
		return nil, err
	}
	position, err := leverageDomain.NewPosition(collateral.Raw(), debt.Raw())
	if err != nil {
		return nil, err
	}

	amount, err := parseBaseAmount(outAsset, s.Op.Amount, "operation.amount")
	if err != nil {
		return nil, err
	}
	gross, err := parseBaseAmount(quotes[s.Op.ProceedsSymbol].Asset, s.Op.GrossProceeds, "operation.gross_proceeds")
	if err != nil {
		return nil, err
	}

	var available *big.Int
	if s.Op.AvailableFunds != "" {
		funds, err := parseBaseAmount(inAsset, s.Op.AvailableFunds, "operation.available_funds")
		if err != nil {
			return nil, err
		}
		available = funds.Raw()
	}

	op := sizingDomain.Operation{
		Kind:           sizingDomain.OperationKind(s.Op.Kind),
		Amount:         amount.Raw(),
		In:             quotes[s.Op.InSymbol],
		Out:            quotes[s.Op.OutSymbol],
		GrossProceeds:  gross.Raw(),
		ProceedsAsset:  quotes[s.Op.ProceedsSymbol],
		AvailableFunds: available,
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}

	fills := make([]RecordedFill, 0, len(s.Quotes))
	for i, q := range s.Quotes {
		amountIn, err := parseBaseAmount(inAsset, q.AmountIn, fmt.Sprintf("quotes[%d].amount_in", i))
		if err != nil {
			return nil, err
		}
		amountOut, err := parseBaseAmount(outAsset, q.AmountOut, fmt.Sprintf("quotes[%d].amount_out", i))
		if err != nil {
			return nil, err
		}
		fills = append(fills, RecordedFill{AmountIn: amountIn.Raw(), AmountOut: amountOut.Raw()})
	}

	return &BoundScenario{
		Name:     s.Name,
		Position: position,
		Op:       op,
		Fills:    fills,
	}, nil
}

// parseBaseAmount binds a base-unit integer string to its asset, rejecting
// malformed and negative values before they reach the domain.
func parseBaseAmount(a *asset.Asset, s, field string) (asset.Amount, error) {
	if a == nil {
		return asset.Amount{}, fmt.Errorf("%s: no asset bound", field)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return asset.Amount{}, fmt.Errorf("%s: bad amount %q", field, s)
	}
	if v.Sign() < 0 {
		return asset.Amount{}, fmt.Errorf("%s: negative amount %q", field, s)
	}
	return asset.NewAmount(a, v), nil
}
