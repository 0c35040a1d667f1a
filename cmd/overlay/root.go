package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	verbose      bool
	noColor      bool
	dryRun       bool
	settingsPath string
	fragmentDirs []string
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "overlay",
	Short: "Reconcile extension fragments with a settings document",
	Long: `Overlay resolves how independently authored extension fragments apply to a
base settings document. Fragments modify existing profiles, describe new
profiles, or contribute color schemes. Entries whose target no longer exists
are dropped. Each extension source can be enabled or disabled; the choice is
written back to the settings document.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.overlay.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "apply enable/disable changes in memory only")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings document (default is the user config dir)")
	rootCmd.PersistentFlags().StringSliceVar(&fragmentDirs, "fragments-dir", nil, "fragment directory, repeatable (default is <settings dir>/fragments)")

	_ = viper.BindPFlag("settings", rootCmd.PersistentFlags().Lookup("settings"))
	_ = viper.BindPFlag("fragments_dirs", rootCmd.PersistentFlags().Lookup("fragments-dir"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".overlay")
	}

	viper.SetEnvPrefix("OVERLAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
