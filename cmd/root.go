package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imishinist/http-shortcuts/internal/config"
	"github.com/imishinist/http-shortcuts/internal/logging"
	"github.com/imishinist/http-shortcuts/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "http-shortcuts",
	Short: "Reusable HTTP request shortcuts",
	Long: `A command line tool for defining reusable HTTP requests.
Shortcuts keep an ordered list of body parameters that may reference
{{variables}}, resolved when the shortcut is executed.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("store-dir", "", "Directory holding shortcut files (overrides HTTP_SHORTCUTS_STORE_DIR)")
	rootCmd.PersistentFlags().String("format", "", "File format for saved shortcuts (json/yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout")
	viper.BindPFlag("store_dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

func initConfig() {
	// Environment variables
	viper.SetEnvPrefix("HTTP_SHORTCUTS")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("store_dir", "./shortcuts")
	viper.SetDefault("format", "yaml")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("timeout", "30s")
	viper.SetDefault("retries", 0)
}

// env bundles what every command needs.
type env struct {
	cfg    *config.Config
	logger *logrus.Logger
	store  *store.Store
}

func newEnv() (*env, error) {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	st, err := store.New(afero.NewOsFs(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return &env{cfg: cfg, logger: logger, store: st}, nil
}
