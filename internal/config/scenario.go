package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Scenario is a replayable evaluation input: the vault position, the
// oracle prices observed, and the operation to size. Amount fields are
// decimal strings in base units so scenarios stay exact at 18 decimals.
type Scenario struct {
	Name     string            `mapstructure:"name"`
	Position ScenarioPosition  `mapstructure:"position"`
	Assets   []ScenarioAsset   `mapstructure:"assets"`
	Op       ScenarioOperation `mapstructure:"operation"`
	Quotes   []ScenarioQuote   `mapstructure:"quotes"`
}

// ScenarioPosition is the vault state in base units of the collateral asset.
type ScenarioPosition struct {
	Collateral string `mapstructure:"collateral"`
	Debt       string `mapstructure:"debt"`
}

// ScenarioAsset declares one asset and its oracle price in USD.
type ScenarioAsset struct {
	Symbol   string `mapstructure:"symbol"`
	Decimals uint8  `mapstructure:"decimals"`
	PriceUSD string `mapstructure:"price_usd"`
}

// ScenarioOperation is the flow to size.
type ScenarioOperation struct {
	Kind           string `mapstructure:"kind"` // DEPOSIT or REDEEM
	Amount         string `mapstructure:"amount"`
	InSymbol       string `mapstructure:"in_symbol"`
	OutSymbol      string `mapstructure:"out_symbol"`
	GrossProceeds  string `mapstructure:"gross_proceeds"`
	ProceedsSymbol string `mapstructure:"proceeds_symbol"`
	AvailableFunds string `mapstructure:"available_funds"`
}

// ScenarioQuote is one venue fill the replay venue hands back, in order.
type ScenarioQuote struct {
	AmountIn  string `mapstructure:"amount_in"`
	AmountOut string `mapstructure:"amount_out"`
}

// LoadScenario reads a scenario file (yaml/json/toml by extension).
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return nil, fmt.Errorf("scenario path is required")
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var s Scenario
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

// Validate checks structural validity; numeric parsing happens when the
// scenario is bound to assets.
func (s *Scenario) Validate() error {
	if s.Position.Collateral == "" || s.Position.Debt == "" {
		return fmt.Errorf("position collateral and debt are required")
	}
	if len(s.Assets) == 0 {
		return fmt.Errorf("at least one asset is required")
	}
	seen := make(map[string]bool, len(s.Assets))
	for _, a := range s.Assets {
		if a.Symbol == "" {
			return fmt.Errorf("asset symbol cannot be empty")
		}
		if seen[a.Symbol] {
			return fmt.Errorf("duplicate asset symbol %s", a.Symbol)
		}
		seen[a.Symbol] = true
	}
	if s.Op.Kind != "DEPOSIT" && s.Op.Kind != "REDEEM" {
		return fmt.Errorf("operation.kind must be DEPOSIT or REDEEM, got %q", s.Op.Kind)
	}
	for _, sym := range []string{s.Op.InSymbol, s.Op.OutSymbol, s.Op.ProceedsSymbol} {
		if !seen[sym] {
			return fmt.Errorf("operation references undeclared asset %q", sym)
		}
	}
	return nil
}
