package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/morningtrading/sizer/config"
)

var configInitOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default nine-symbol configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if err := cfg.SaveToFile(configInitOutput); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d symbols)\n", configInitOutput, len(cfg.Symbols))
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			return fmt.Errorf("--config is required")
		}
		cfg, err := config.LoadFromFile(cfgPath)
		if err != nil {
			return err
		}
		reg, err := cfg.BuildRegistry()
		if err != nil {
			return err
		}
		fmt.Printf("%s is valid: %d registrable symbol(s)\n", cfgPath, reg.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "./sizer.yaml", "output path (.yaml, .yml, or .json)")
}
