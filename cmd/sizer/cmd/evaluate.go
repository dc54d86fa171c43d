package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/morningtrading/sizer/config"
	"github.com/morningtrading/sizer/exposure"
	"github.com/morningtrading/sizer/market"
	"github.com/morningtrading/sizer/monitoring"
	"github.com/morningtrading/sizer/risk"
)

var (
	evalSymbol    string
	evalDirection string
	evalEquity    float64
	evalRegime    string
	evalVol       float64
	evalPrice     float64
	evalAll       bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Size a position for one symbol, or summarize the whole portfolio",
	Long: `Evaluate runs the sizing engine against the configured portfolio.

With --symbol it produces one decision (and journals it). With --all it
prints the theoretical size and notional for every registered symbol
without reserving exposure.

Examples:
  sizer evaluate --symbol BTCUSD --regime high_volatility --vol 0.9 --price 43000
  sizer evaluate --all`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evalSymbol, "symbol", "s", "", "symbol to size")
	evaluateCmd.Flags().StringVarP(&evalDirection, "direction", "d", "BUY", "intended direction (BUY or SELL)")
	evaluateCmd.Flags().Float64VarP(&evalEquity, "equity", "e", 0, "account equity override (defaults to config)")
	evaluateCmd.Flags().StringVar(&evalRegime, "regime", "", "market regime: normal|bull|bear|high_volatility")
	evaluateCmd.Flags().Float64Var(&evalVol, "vol", 0.5, "volatility percentile 0..1")
	evaluateCmd.Flags().Float64VarP(&evalPrice, "price", "p", 0, "reference price (defaults to 1.0)")
	evaluateCmd.Flags().BoolVar(&evalAll, "all", false, "summarize theoretical sizes for all symbols")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := cfg.BuildRegistry()
	if err != nil {
		return err
	}

	equity := cfg.Account.Equity
	if evalEquity > 0 {
		equity = evalEquity
	}

	if cfg.Metrics.Enabled {
		go func() {
			if err := monitoring.Serve(cfg.Metrics.Listen); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	if evalAll {
		return summarizePortfolio(cfg, reg, equity)
	}
	if evalSymbol == "" {
		return fmt.Errorf("either --symbol or --all is required")
	}

	var cond *market.Condition
	if evalRegime != "" {
		regime, err := market.ParseRegime(evalRegime)
		if err != nil {
			return err
		}
		cond = &market.Condition{Regime: regime, VolatilityPercentile: evalVol}
	}

	auditor, err := openAuditor(cfg)
	if err != nil {
		return err
	}
	defer auditor.Close()

	ledger := exposure.NewLedger(cfg.Caps())
	session := risk.NewSession(cfg.Risk.DailyLossLimitPct)
	engine := risk.NewEngine(reg, ledger, session, auditor)

	d := engine.Evaluate(risk.SizingRequest{
		Symbol:         evalSymbol,
		Direction:      evalDirection,
		AccountEquity:  equity,
		Condition:      cond,
		ReferencePrice: evalPrice,
	})
	printDecision(evalSymbol, d)
	return nil
}

func printDecision(symbol string, d risk.Decision) {
	if d.Approved {
		fmt.Printf("APPROVED  %-10s lot=%-8g coeff=%.3f notional=%.2f\n",
			symbol, d.Lot, d.Coefficient, d.Notional)
		fmt.Printf("          exposure %.2f/%.2f (symbol %.2f/%.2f)\n",
			d.TotalExposure, d.PortfolioCap, d.SymbolExposure, d.PerSymbolCap)
		return
	}
	fmt.Printf("REJECTED  %-10s reason=%s\n", symbol, d.Reason)
	if d.Detail != "" {
		fmt.Printf("          %s\n", d.Detail)
	}
}

// summarizePortfolio prints the theoretical footprint of every symbol under
// current defaults, without touching the ledger.
func summarizePortfolio(cfg *config.Config, reg *market.Registry, equity float64) error {
	caps := cfg.Caps()
	fmt.Printf("%-10s | %-14s | %-6s | %-8s | %-12s\n", "Symbol", "Class", "Coeff", "Lot", "Notional")
	fmt.Println("-----------+----------------+--------+----------+-------------")

	total := 0.0
	for _, symbol := range reg.Symbols() {
		spec, err := reg.Lookup(symbol)
		if err != nil {
			return err
		}
		coeff := risk.Adjust(spec.BaseCoefficient, market.DefaultCondition(), spec.CoefficientCap)
		lot := risk.RoundToStep(spec.MinLot*coeff, spec.LotStep)
		if lot == 0 && coeff > 0 {
			lot = spec.MinLot
		}
		if lot > spec.MaxLot {
			lot = spec.MaxLot
		}
		notional := lot * spec.ContractSize
		total += notional
		fmt.Printf("%-10s | %-14s | %6.3f | %8g | %12.2f\n",
			symbol, spec.Class, coeff, lot, notional)
	}

	fmt.Printf("\nTheoretical exposure at price 1.0: %.2f (portfolio cap %.2f)\n",
		total, caps.PortfolioPct*equity)
	return nil
}
