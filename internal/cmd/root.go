package cmd

import (
	"strings"

	"github.com/hcnaf/Logging-MentoringProgram/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "brainstorm",
	Short: "Brainstorm sessions web app",
	Long: `Brainstorm serves a small web app for collecting ideas in sessions.
Every request is logged through a routed pipeline: console, a daily rolling
file, the system log, and email alerts for fatal errors plus a weekly digest
of warnings.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./config.yaml or $HOME/.config/brainstorm/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BRAINSTORM")
	// e.g., BRAINSTORM_LOGGING_DIR for logging.dir
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
