package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/morningtrading/sizer/config"
	"github.com/morningtrading/sizer/journal"
	"github.com/morningtrading/sizer/market"
)

var (
	addSymbol       string
	addClass        string
	addMinLot       float64
	addLotStep      float64
	addMaxLot       float64
	addContractSize float64
	addCoefficient  float64
	addCap          float64
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Inspect and onboard portfolio symbols",
}

var symbolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registrable symbols with their merged constraints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := cfg.BuildRegistry()
		if err != nil {
			return err
		}

		fmt.Printf("%-10s | %-14s | %-8s | %-8s | %-8s | %-6s | %-6s\n",
			"Symbol", "Class", "MinLot", "Step", "MaxLot", "Coeff", "Cap")
		fmt.Println("-----------+----------------+----------+----------+----------+--------+-------")
		for _, symbol := range reg.Symbols() {
			spec, err := reg.Lookup(symbol)
			if err != nil {
				return err
			}
			fmt.Printf("%-10s | %-14s | %8g | %8g | %8g | %6g | %6g\n",
				spec.Symbol, spec.Class, spec.MinLot, spec.LotStep, spec.MaxLot,
				spec.BaseCoefficient, spec.CoefficientCap)
		}
		return nil
	},
}

var symbolsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Onboard a new symbol into the configuration",
	Long: `Add validates a new symbol spec through the registry and, only when it
passes, writes it into the config file. A failed validation leaves the
config untouched, so there is nothing to roll back.

Example:
  sizer symbols add --config sizer.yaml --symbol XAGUSD --class precious_metal \
    --min-lot 0.01 --lot-step 0.01 --max-lot 20 --contract-size 5000 --coefficient 1`,
	Args: cobra.NoArgs,
	RunE: runSymbolsAdd,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.AddCommand(symbolsListCmd, symbolsAddCmd)

	symbolsAddCmd.Flags().StringVar(&addSymbol, "symbol", "", "symbol ID (required)")
	symbolsAddCmd.Flags().StringVar(&addClass, "class", "", "asset class: forex|crypto|index|commodity|precious_metal")
	symbolsAddCmd.Flags().Float64Var(&addMinLot, "min-lot", 0, "minimum lot size")
	symbolsAddCmd.Flags().Float64Var(&addLotStep, "lot-step", 0, "lot step")
	symbolsAddCmd.Flags().Float64Var(&addMaxLot, "max-lot", 0, "maximum lot size")
	symbolsAddCmd.Flags().Float64Var(&addContractSize, "contract-size", 1, "contract size")
	symbolsAddCmd.Flags().Float64Var(&addCoefficient, "coefficient", 1, "base risk coefficient")
	symbolsAddCmd.Flags().Float64Var(&addCap, "cap", 0, "coefficient cap (defaults to max(coefficient, 1))")
	_ = symbolsAddCmd.MarkFlagRequired("symbol")
	_ = symbolsAddCmd.MarkFlagRequired("class")
	_ = symbolsAddCmd.MarkFlagRequired("min-lot")
	_ = symbolsAddCmd.MarkFlagRequired("lot-step")
	_ = symbolsAddCmd.MarkFlagRequired("max-lot")
}

func runSymbolsAdd(cmd *cobra.Command, args []string) error {
	if cfgPath == "" {
		return fmt.Errorf("--config is required: symbols are added to a config file")
	}
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return err
	}

	if _, exists := cfg.Symbols[addSymbol]; exists {
		return fmt.Errorf("symbol %s already configured", addSymbol)
	}

	cfg.Symbols[addSymbol] = config.SymbolConfig{
		AssetClass:   addClass,
		MinLot:       addMinLot,
		LotStep:      addLotStep,
		MaxLot:       addMaxLot,
		ContractSize: addContractSize,
		Available:    true,
		Tradeable:    true,
	}
	if cfg.Risk.Coefficients == nil {
		cfg.Risk.Coefficients = map[string]config.CoefficientConfig{}
	}
	cfg.Risk.Coefficients[addSymbol] = config.CoefficientConfig{
		Coefficient:    addCoefficient,
		CoefficientCap: addCap,
	}

	// validate-then-commit: the registry runs the full invariant check
	// before anything is written back
	reg, err := cfg.BuildRegistry()
	if err != nil {
		return fmt.Errorf("onboarding %s: %w", addSymbol, err)
	}
	spec, err := reg.Lookup(addSymbol)
	if err != nil {
		return fmt.Errorf("onboarding %s: %w", addSymbol, err)
	}

	if err := cfg.SaveToFile(cfgPath); err != nil {
		return err
	}

	if cfg.Journal.Type == "sqlite" {
		j, jerr := journal.NewSQLite(cfg.Journal.DBPath)
		if jerr != nil {
			return fmt.Errorf("journal spec change: %w", jerr)
		}
		defer j.Close()
		// onboarding journals a zero-value old spec
		if jerr := j.RecordSpecChange(market.SymbolSpec{Symbol: addSymbol}, spec); jerr != nil {
			return fmt.Errorf("journal spec change: %w", jerr)
		}
	}

	fmt.Printf("added %s (%s): min_lot=%g step=%g max_lot=%g coeff=%g cap=%g\n",
		spec.Symbol, spec.Class, spec.MinLot, spec.LotStep, spec.MaxLot,
		spec.BaseCoefficient, spec.CoefficientCap)
	return nil
}
