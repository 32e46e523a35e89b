// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the libdocs CLI: it resolves library
// names to canonical identifiers and fetches scoped documentation for use
// by an assistant with a limited context budget.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/libdocs/internal/docsapi"
	"github.com/pdiddy/libdocs/internal/logging"
	"github.com/pdiddy/libdocs/internal/metrics"
	"github.com/pdiddy/libdocs/internal/secrets"
	"github.com/pdiddy/libdocs/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// appConfig is populated from file, env, and flags before each command runs.
	appConfig  types.Config
	logger     = zerolog.Nop()
	appMetrics = metrics.New()
)

// rootCmd is the base command for the libdocs CLI.
var rootCmd = &cobra.Command{
	Use:   "libdocs",
	Short: "Fetch up-to-date library documentation for coding assistants",
	Long: `libdocs resolves a library name to a canonical identifier
(/organization/project[/version]) and fetches documentation snippets scoped
by topic and token budget from a Context7-compatible service.

Typical flow: "libdocs search react" to find the identifier, then
"libdocs docs /facebook/react --topic hooks" to fetch focused docs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./libdocs.yaml or ~/.config/libdocs/config.yaml)")
	pf.String("api-key", "", "API key (default: $LIBDOCS_API_KEY, $CONTEXT7_API_KEY, or .secrets/context7-api-key)")
	pf.String("base-url", types.DefaultBaseURL, "documentation service base URL")
	pf.Duration("timeout", types.DefaultTimeout, "timeout for a single HTTP attempt")
	pf.Int("max-attempts", types.DefaultMaxAttempts, "total attempts for transient failures")
	pf.Float64("rps", 0, "maximum requests per second (0 = unpaced)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("secrets-dir", ".secrets", "directory of plain-text secret files")
	pf.String("metrics-file", "", "write Prometheus metrics to this file after the run")

	mustBind("client.api_key", "api-key")
	mustBind("client.base_url", "base-url")
	mustBind("client.timeout", "timeout")
	mustBind("client.max_attempts", "max-attempts")
	mustBind("client.requests_per_second", "rps")
	mustBind("log.level", "log-level")
	mustBind("secrets_dir", "secrets-dir")
}

func mustBind(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("libdocs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "libdocs"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("LIBDOCS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("client.api_key", "LIBDOCS_API_KEY", "CONTEXT7_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so env overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("client.base_url", types.DefaultBaseURL)
	v.SetDefault("client.source_tag", types.DefaultSourceTag)
	v.SetDefault("client.timeout", types.DefaultTimeout)
	v.SetDefault("client.user_agent", "libdocs/"+version)
	v.SetDefault("client.max_attempts", types.DefaultMaxAttempts)
	v.SetDefault("client.base_delay", types.DefaultBaseDelay)
	v.SetDefault("client.requests_per_second", 0.0)
	v.SetDefault("client.api_key", "")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.ttl", types.DefaultCacheTTL)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.pretty", false)
	v.SetDefault("secrets_dir", ".secrets")
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "libdocs")
	}
	return ".libdocs-cache"
}

// loadConfig decodes viper state into appConfig, builds the logger, and
// falls back to the secrets directory for the API key.
func loadConfig() error {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding configuration: %w", err)
	}
	logger = logging.New(cfg.Log, os.Stderr)

	if cfg.Client.APIKey == "" {
		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			logger.Info().Strs("secrets", s.Names()).Msg("loaded secrets")
		}
		cfg.Client.APIKey = s.APIKey()
	}

	appConfig = cfg
	return nil
}

// newClient builds the API client from the loaded configuration.
func newClient() *docsapi.Client {
	return docsapi.New(appConfig.Client, logger, appMetrics)
}

func writeMetrics() {
	path, _ := rootCmd.PersistentFlags().GetString("metrics-file")
	if path == "" {
		return
	}
	if err := appMetrics.WriteTextfile(path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing metrics: %v\n", err)
	}
}

func main() {
	err := rootCmd.Execute()
	writeMetrics()
	if err != nil {
		os.Exit(1)
	}
}
