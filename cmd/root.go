package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/figma-sync/internal/config"
	"github.com/pders01/figma-sync/internal/figma"
	"github.com/pders01/figma-sync/internal/ollama"
	"github.com/pders01/figma-sync/internal/report"
)

var (
	cfgFile        string
	syncConfigFile string
)

var rootCmd = &cobra.Command{
	Use:   "figma-sync",
	Short: "Sync design tokens from Figma into JSON and SVG assets",
	Long: `figma-sync pulls design tokens from a Figma file and writes them as
artifacts consumed by the apps:
  - colors.json with light and dark values and semantic aliases
  - an SVG directory plus icons.json
  - typography.json with heading and body styles

Set FIGMA_ACCESS_TOKEN (or put it in .env) and point --sync-config at the
shared figma-sync-config.json.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Sync failed:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/figma-sync/config.toml)")
	rootCmd.PersistentFlags().StringVar(&syncConfigFile, "sync-config", "", "sync config JSON (default is ./figma-sync-config.json)")
	viper.BindPFlag("sync.config", rootCmd.PersistentFlags().Lookup("sync-config"))
}

func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "figma-sync")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("figma.token", config.TokenEnv)

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("figma.api_url", figma.DefaultURL)
	viper.SetDefault("figma.timeout", figma.DefaultTimeout)
	viper.SetDefault("sync.config", "figma-sync-config.json")
	viper.SetDefault("icons.concurrency", 1)
	viper.SetDefault("icons.exclude", []string{})
	viper.SetDefault("aliases.suggest", false)
	viper.SetDefault("aliases.ollama_url", ollama.DefaultURL)
	viper.SetDefault("aliases.model", ollama.DefaultModel)
	viper.SetDefault("aliases.threshold", 0.6)
	viper.SetDefault("aliases.cache_dir", defaultCacheDir())
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "figma-sync", "embeddings")
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func stdout(cmd *cobra.Command) io.Writer {
	if cmd != nil {
		return cmd.OutOrStdout()
	}
	return os.Stdout
}

func printerFor(cmd *cobra.Command) *report.Printer {
	if cmd == nil {
		return report.New()
	}
	return &report.Printer{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
}
