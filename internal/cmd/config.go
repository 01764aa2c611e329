package cmd

import (
	"fmt"

	"github.com/hcnaf/Logging-MentoringProgram/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration as YAML",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and the email settings file",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	raw, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(raw)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Email.Enabled {
		if _, err := config.LoadEmailSettings(cfg.Email.SettingsFile); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "configuration OK")
	return nil
}
