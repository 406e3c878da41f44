// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the museum-search CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/museum-search/internal/config"
	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// viperKey is the flag annotation naming the config key a flag overrides.
const viperKey = "viper-key"

var (
	cfgFile    string
	secretsDir string
	logLevel   string

	// cfg and log are set by the root PersistentPreRunE.
	cfg *types.Config
	log logger.Logger
)

// rootCmd is the base command for the museum-search CLI.
var rootCmd = &cobra.Command{
	Use:   "museum-search",
	Short: "Search open museum collections by theme",
	Long: `museum-search finds artworks matching a free-text theme across open museum
collection APIs (The Met, Art Institute of Chicago, Cleveland Museum of Art,
Harvard Art Museums). Themes that name a historical period ("cold war
posters") are searched within the period's dates; other themes are searched
topically. Results are scored, de-duplicated, and ranked.

Run "museum-search search <theme>" for a one-off search or "museum-search
serve" for the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := config.New(cfgFile)
		if err := bindFlags(v, cmd); err != nil {
			return err
		}
		c, err := config.Load(v, config.Options{SecretsDir: secretsDir}, nil)
		if err != nil {
			return err
		}
		l, err := logger.New(logger.Config{Level: c.Logging.Level, Development: c.Logging.Development})
		if err != nil {
			return err
		}
		if used := v.ConfigFileUsed(); used != "" {
			l.Debug("Using config file", logger.String("path", used))
		}
		cfg, log = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./museum-search.yaml or ~/.config/museum-search/museum-search.yaml)")
	rootCmd.PersistentFlags().StringVar(&secretsDir, "secrets-dir", "", "directory of <source>-api-key files (default: .secrets)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	annotate(rootCmd.PersistentFlags(), "log-level", "logging.level")
}

// annotate marks flag as overriding the config key.
func annotate(fs *pflag.FlagSet, flag, key string) {
	if err := fs.SetAnnotation(flag, viperKey, []string{key}); err != nil {
		panic(err)
	}
}

// bindFlags binds every annotated flag visible to cmd into v. Unset flags
// leave the config value alone.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys, ok := f.Annotations[viperKey]
		if !ok || len(keys) == 0 || err != nil {
			return
		}
		err = v.BindPFlag(keys[0], f)
	})
	if err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
