// Package main provides the leiden command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usage usageError
		if errors.As(err, &usage) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// usageError marks errors caused by invalid arguments.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leiden",
		Short: "Extract, remap and validate LOVD variant data",
		Long: `leiden extracts variant tables from LOVD 2 and LOVD 3 installations,
remaps their HGVS descriptions to genomic coordinates with the Mutalyzer
position converter and validates LOVD protein changes against annotated VCFs.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.leiden.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	cmd.AddCommand(newGenesCmd())
	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newRemapCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".leiden")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LEIDEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one must exist.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// newLogger builds a console logger on stderr. Verbose mode logs at debug
// level with development formatting.
func newLogger(verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.DisableStacktrace = true
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// ensureDir creates dir if it does not exist.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// defaultCachePath returns ~/.leiden/remap_cache.duckdb.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".leiden", "remap_cache.duckdb")
}
