// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the authorid CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/authorid/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the authorid CLI.
var rootCmd = &cobra.Command{
	Use:   "authorid",
	Short: "Disambiguate paper authors into identity clusters",
	Long: `authorid groups the author occurrences of a paper corpus into clusters,
one per real-world author. Literals are blocked by fuzzy name similarity,
candidate pairs within a block are scored and classified, and MATCH decisions
are merged into clusters.

Runs are persisted to a SQLite database under the data directory and can be
listed and exported later.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./authorid.yaml or ~/.config/authorid/authorid.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "base directory for the run store (contains index/)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("authorid")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "authorid"))
		}
	}

	viper.SetEnvPrefix("AUTHORID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := types.DefaultDisambiguationConfig()
	viper.SetDefault("blocking.threshold", d.Blocking.Threshold)
	viper.SetDefault("blocking.mode", string(d.Blocking.Mode))
	viper.SetDefault("merge.mode", string(d.Merge.Mode))
	viper.SetDefault("merge.workers", d.Merge.Workers)
	viper.SetDefault("classifier.model", d.Classifier.Model)
	viper.SetDefault("store.data_dir", d.Store.DataDir)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// persistentKeys maps root flags to configuration keys.
var persistentKeys = map[string]string{
	"data-dir":   "store.data_dir",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// bindFlags binds the named flags of cmd to configuration keys. Binding
// happens when the command runs so that commands sharing a key do not
// overwrite each other's bindings.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	bind := func(flags *pflag.FlagSet, m map[string]string) error {
		for name, key := range m {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
		return nil
	}
	if err := bind(cmd.Flags(), persistentKeys); err != nil {
		return err
	}
	return bind(cmd.Flags(), keys)
}

// loadConfig resolves the pipeline configuration from defaults, the config
// file, AUTHORID_* environment variables and bound flags, in increasing
// precedence.
func loadConfig() (types.DisambiguationConfig, error) {
	cfg := types.DisambiguationConfig{
		Blocking: types.BlockingConfig{
			Threshold: viper.GetInt("blocking.threshold"),
			Mode:      types.BlockMode(viper.GetString("blocking.mode")),
		},
		Merge: types.MergeConfig{
			Mode:    types.MergeMode(viper.GetString("merge.mode")),
			Workers: viper.GetInt("merge.workers"),
		},
		Classifier: types.ClassifierConfig{Model: viper.GetString("classifier.model")},
		Store:      types.StoreConfig{DataDir: viper.GetString("store.data_dir")},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the stderr logger selected by cfg and installs it as the
// default.
func newLogger(cfg types.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch cfg.Format {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, nil
}

// setup binds flags and returns the resolved configuration and logger.
func setup(cmd *cobra.Command, keys map[string]string) (types.DisambiguationConfig, *slog.Logger, error) {
	if err := bindFlags(cmd, keys); err != nil {
		return types.DisambiguationConfig{}, nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
