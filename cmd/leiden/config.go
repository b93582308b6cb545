package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/macarthurlab/leiden/internal/lovd"
	"github.com/macarthurlab/leiden/internal/remap"
)

// Config keys.
const (
	keyRemapURL          = "remap.url"
	keyRemapBuild        = "remap.build"
	keyRemapPollInterval = "remap.poll_interval"
	keyRemapMaxPolls     = "remap.max_polls"
	keyRemapBatchSize    = "remap.batch_size"
	keyRemapRateLimit    = "remap.rate_limit"
	keyRemapTimeout      = "remap.timeout"
	keyCachePath         = "cache.path"
	keyLOVDRateLimit     = "lovd.rate_limit"
	keyLOVDTimeout       = "lovd.timeout"
)

func setDefaults() {
	rc := remap.DefaultConfig()
	viper.SetDefault(keyRemapURL, rc.URL)
	viper.SetDefault(keyRemapBuild, rc.Build)
	viper.SetDefault(keyRemapPollInterval, rc.PollInterval.String())
	viper.SetDefault(keyRemapMaxPolls, rc.MaxPolls)
	viper.SetDefault(keyRemapBatchSize, rc.BatchSize)
	viper.SetDefault(keyRemapRateLimit, rc.RateLimit)
	viper.SetDefault(keyRemapTimeout, rc.Timeout.String())
	viper.SetDefault(keyCachePath, defaultCachePath())

	lc := lovd.DefaultConfig()
	viper.SetDefault(keyLOVDRateLimit, lc.RateLimit)
	viper.SetDefault(keyLOVDTimeout, lc.Timeout.String())
}

func remapConfig() remap.Config {
	return remap.Config{
		URL:          viper.GetString(keyRemapURL),
		Build:        viper.GetString(keyRemapBuild),
		PollInterval: viper.GetDuration(keyRemapPollInterval),
		MaxPolls:     viper.GetInt(keyRemapMaxPolls),
		BatchSize:    viper.GetInt(keyRemapBatchSize),
		RateLimit:    viper.GetFloat64(keyRemapRateLimit),
		Timeout:      viper.GetDuration(keyRemapTimeout),
	}
}

func lovdConfig() lovd.Config {
	return lovd.Config{
		RateLimit: viper.GetFloat64(keyLOVDRateLimit),
		Timeout:   viper.GetDuration(keyLOVDTimeout),
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage leiden configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.leiden.yaml.",
		Example: `  leiden config                          # show all config
  leiden config set remap.build hg38     # remap against GRCh38
  leiden config get remap.batch_size     # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", f)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	if !knownKey(key) {
		return usageError{fmt.Sprintf("unknown config key %q (known: %v)", key, knownKeys())}
	}

	// Numbers are stored as numbers; durations and URLs stay strings.
	if n, err := strconv.Atoi(value); err == nil {
		viper.Set(key, n)
	} else if f, err := strconv.ParseFloat(value, 64); err == nil {
		viper.Set(key, f)
	} else {
		viper.Set(key, value)
	}

	// Ensure config file exists
	cfg := viper.ConfigFileUsed()
	if cfg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfg = filepath.Join(home, ".leiden.yaml")
	}

	if err := viper.WriteConfigAs(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfg)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

func knownKeys() []string {
	keys := []string{
		keyRemapURL, keyRemapBuild, keyRemapPollInterval, keyRemapMaxPolls,
		keyRemapBatchSize, keyRemapRateLimit, keyRemapTimeout,
		keyCachePath, keyLOVDRateLimit, keyLOVDTimeout,
	}
	sort.Strings(keys)
	return keys
}

func knownKey(key string) bool {
	for _, k := range knownKeys() {
		if k == key {
			return true
		}
	}
	return false
}
