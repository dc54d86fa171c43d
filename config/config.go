package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/morningtrading/sizer/exposure"
	"github.com/morningtrading/sizer/market"
	"github.com/morningtrading/sizer/risk"
)

// Config is the complete sizing configuration: screened symbol
// specifications, per-symbol risk coefficients, global limits, and the
// journal/metrics settings.
type Config struct {
	Account AccountConfig           `json:"account" yaml:"account"`
	Symbols map[string]SymbolConfig `json:"symbols" yaml:"symbols"`
	Risk    RiskConfig              `json:"risk" yaml:"risk"`
	Journal JournalConfig           `json:"journal" yaml:"journal"`
	Metrics MetricsConfig           `json:"metrics" yaml:"metrics"`
}

// AccountConfig describes the account the exposure caps are computed against.
type AccountConfig struct {
	Currency string  `json:"currency" yaml:"currency"`
	Equity   float64 `json:"equity" yaml:"equity"`
}

// SymbolConfig is one entry of the screening collaborator's output. Only
// entries with both Available and Tradeable set may be registered.
type SymbolConfig struct {
	AssetClass   string  `json:"asset_class" yaml:"asset_class"`
	MinLot       float64 `json:"min_lot" yaml:"min_lot"`
	LotStep      float64 `json:"lot_step" yaml:"lot_step"`
	MaxLot       float64 `json:"max_lot" yaml:"max_lot"`
	ContractSize float64 `json:"contract_size" yaml:"contract_size"`
	Available    bool    `json:"available" yaml:"available"`
	Tradeable    bool    `json:"tradeable" yaml:"tradeable"`
}

// CoefficientConfig carries the operator-assigned risk multiplier for one
// symbol, with an optional min-lot override of the screened value.
type CoefficientConfig struct {
	Coefficient    float64 `json:"coefficient" yaml:"coefficient"`
	CoefficientCap float64 `json:"coefficient_cap,omitempty" yaml:"coefficient_cap,omitempty"`
	MinLot         float64 `json:"min_lot,omitempty" yaml:"min_lot,omitempty"`
}

// RiskConfig holds the per-symbol coefficients and the global limits.
type RiskConfig struct {
	Coefficients      map[string]CoefficientConfig `json:"coefficients" yaml:"coefficients"`
	PortfolioCapPct   float64                      `json:"portfolio_cap_pct" yaml:"portfolio_cap_pct"`
	PerSymbolCapPct   float64                      `json:"per_symbol_cap_pct" yaml:"per_symbol_cap_pct"`
	DailyLossLimitPct float64                      `json:"daily_loss_limit_pct" yaml:"daily_loss_limit_pct"`
}

// JournalConfig selects the audit backend.
type JournalConfig struct {
	Type      string `json:"type" yaml:"type"` // "csv" or "sqlite"
	AuditFile string `json:"audit_file,omitempty" yaml:"audit_file,omitempty"`
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MetricsConfig controls the Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Listen  string `json:"listen,omitempty" yaml:"listen,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON), validating
// it before returning so misconfigured symbols fail at load time rather
// than at decision time.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration, choosing the format by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks global settings and every registrable symbol spec.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Equity <= 0 {
		return fmt.Errorf("account.equity must be positive")
	}
	if c.Risk.PortfolioCapPct <= 0 || c.Risk.PortfolioCapPct > 1 {
		return fmt.Errorf("risk.portfolio_cap_pct must be between 0 and 1")
	}
	if c.Risk.PerSymbolCapPct <= 0 || c.Risk.PerSymbolCapPct > 1 {
		return fmt.Errorf("risk.per_symbol_cap_pct must be between 0 and 1")
	}
	if c.Risk.DailyLossLimitPct <= 0 || c.Risk.DailyLossLimitPct > 1 {
		return fmt.Errorf("risk.daily_loss_limit_pct must be between 0 and 1")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && c.Journal.AuditFile == "" {
		return fmt.Errorf("journal.audit_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required for SQLite type")
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen required when metrics are enabled")
	}

	for symbol := range c.Symbols {
		spec, registrable := c.Spec(symbol)
		if !registrable {
			continue
		}
		if err := spec.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Spec merges the screened symbol entry with its risk coefficients into a
// SymbolSpec. The second return is false when the symbol is unknown or not
// cleared for trading (available && tradeable).
func (c *Config) Spec(symbol string) (market.SymbolSpec, bool) {
	sc, ok := c.Symbols[symbol]
	if !ok || !sc.Available || !sc.Tradeable {
		return market.SymbolSpec{}, false
	}

	spec := market.SymbolSpec{
		Symbol:          symbol,
		Class:           market.AssetClass(sc.AssetClass),
		MinLot:          sc.MinLot,
		LotStep:         sc.LotStep,
		MaxLot:          sc.MaxLot,
		ContractSize:    sc.ContractSize,
		BaseCoefficient: 1.0,
		CoefficientCap:  1.0,
	}

	if cc, ok := c.Risk.Coefficients[symbol]; ok {
		spec.BaseCoefficient = cc.Coefficient
		spec.CoefficientCap = cc.CoefficientCap
		if spec.CoefficientCap == 0 {
			// uncapped entries default to their own coefficient, never
			// below 1.0 so conservatively-sized symbols keep headroom
			spec.CoefficientCap = spec.BaseCoefficient
			if spec.CoefficientCap < 1.0 {
				spec.CoefficientCap = 1.0
			}
		}
		if cc.MinLot > 0 {
			spec.MinLot = cc.MinLot
		}
	}
	return spec, true
}

// BuildRegistry registers every available and tradeable symbol.
func (c *Config) BuildRegistry() (*market.Registry, error) {
	reg := market.NewRegistry()
	for symbol := range c.Symbols {
		spec, registrable := c.Spec(symbol)
		if !registrable {
			continue
		}
		if err := reg.Register(spec); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Caps converts the configured percentages into ledger caps.
func (c *Config) Caps() exposure.Caps {
	return exposure.Caps{
		PortfolioPct: c.Risk.PortfolioCapPct,
		PerSymbolPct: c.Risk.PerSymbolCapPct,
	}
}

// Default returns a configuration mirroring the stock nine-symbol
// portfolio, with the BTCUSD coefficient hard-capped at 1.0.
func Default() *Config {
	crypto := SymbolConfig{
		AssetClass: string(market.Crypto),
		MinLot:     0.01, LotStep: 0.01, MaxLot: 100, ContractSize: 1,
		Available: true, Tradeable: true,
	}
	index := SymbolConfig{
		AssetClass: string(market.Index),
		MinLot:     0.1, LotStep: 0.1, MaxLot: 50, ContractSize: 10,
		Available: true, Tradeable: true,
	}

	return &Config{
		Account: AccountConfig{Currency: "USD", Equity: 100_000},
		Symbols: map[string]SymbolConfig{
			"BTCUSD":  crypto,
			"ETHUSD":  crypto,
			"SOLUSD":  crypto,
			"XRPUSD":  crypto,
			"US2000":  index,
			"NAS100":  index,
			"SP500ft": index,
			"USOUSD": {
				AssetClass: string(market.Commodity),
				MinLot:     0.01, LotStep: 0.01, MaxLot: 50, ContractSize: 100,
				Available: true, Tradeable: true,
			},
			"XAUUSD": {
				AssetClass: string(market.PreciousMetal),
				MinLot:     0.01, LotStep: 0.01, MaxLot: 20, ContractSize: 100,
				Available: true, Tradeable: true,
			},
		},
		Risk: RiskConfig{
			Coefficients: map[string]CoefficientConfig{
				"BTCUSD":  {Coefficient: 1.0, CoefficientCap: 1.0},
				"ETHUSD":  {Coefficient: 5.0, CoefficientCap: 5.0},
				"SOLUSD":  {Coefficient: 5.0, CoefficientCap: 5.0},
				"XRPUSD":  {Coefficient: 5.0, CoefficientCap: 5.0},
				"US2000":  {Coefficient: 1.0},
				"NAS100":  {Coefficient: 1.0},
				"SP500ft": {Coefficient: 1.0},
				"USOUSD":  {Coefficient: 1.0},
				"XAUUSD":  {Coefficient: 1.0},
			},
			PortfolioCapPct:   0.25,
			PerSymbolCapPct:   0.15,
			DailyLossLimitPct: risk.DefaultDailyLossLimitPct,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./sizer.sqlite",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9108",
		},
	}
}
