package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morningtrading/sizer/config"
	"github.com/morningtrading/sizer/journal"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "sizer",
	Short:         "Coefficient-based position sizing and exposure control",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (defaults to the built-in portfolio)")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}

// openAuditor builds the configured journal backend.
func openAuditor(cfg *config.Config) (journal.Auditor, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.AuditFile)
	default:
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
}
