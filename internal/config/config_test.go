package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Name != "flashsizer" {
		t.Errorf("app.name = %q", cfg.App.Name)
	}
	if cfg.Vault.TargetBps != 30000 || cfg.Vault.LowerBps != 20000 || cfg.Vault.UpperBps != 40000 {
		t.Errorf("vault band = [%d, %d] target %d", cfg.Vault.LowerBps, cfg.Vault.UpperBps, cfg.Vault.TargetBps)
	}
	if cfg.Policy.FlashFeeBps != 9 {
		t.Errorf("flash fee = %d, want 9", cfg.Policy.FlashFeeBps)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid_defaults", func(c *Config) {}, false},
		{"target_below_one", func(c *Config) { c.Vault.TargetBps = 9000 }, true},
		{"band_excludes_target", func(c *Config) { c.Vault.LowerBps = 35000 }, true},
		{"slippage_full", func(c *Config) { c.Policy.SlippageBps = 10000 }, true},
		{"bad_address", func(c *Config) { c.Vault.Address = "0xZZ" }, true},
		{"zero_pace", func(c *Config) { c.Venue.EvaluationsPerMinute = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	body := `
name: deposit-3x
position:
  collateral: "300000000000000000000"
  debt: "199000000000000000000"
assets:
  - symbol: dUSD
    decimals: 18
    price_usd: "1"
  - symbol: sFRAX
    decimals: 18
    price_usd: "1.05"
operation:
  kind: DEPOSIT
  amount: "100000000000000000000"
  in_symbol: dUSD
  out_symbol: sFRAX
  gross_proceeds: "310000000000000000000"
  proceeds_symbol: dUSD
  available_funds: "5000000000000000000"
quotes:
  - amount_in: "100"
    amount_out: "10"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "deposit-3x" {
		t.Errorf("name = %q", s.Name)
	}
	if s.Op.Kind != "DEPOSIT" || s.Op.OutSymbol != "sFRAX" {
		t.Errorf("operation = %+v", s.Op)
	}
	if len(s.Quotes) != 1 || s.Quotes[0].AmountIn != "100" {
		t.Errorf("quotes = %+v", s.Quotes)
	}
}

func TestLoadScenario_RejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	body := `
name: bad
position:
  collateral: "1"
  debt: "0"
assets:
  - symbol: dUSD
    decimals: 18
    price_usd: "1"
operation:
  kind: BORROW
  amount: "1"
  in_symbol: dUSD
  out_symbol: dUSD
  gross_proceeds: "0"
  proceeds_symbol: dUSD
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for unknown operation kind")
	}
}
