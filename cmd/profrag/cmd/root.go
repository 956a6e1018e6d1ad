// Package cmd implements the profrag command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/profrag/internal/config"
	logpkg "github.com/kailas-cloud/profrag/internal/logger"
)

var (
	cfgFile string
	envName string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "profrag",
	Short: "Professor review retrieval for LLM prompts",
	Long: `profrag resolves professor names in free-text questions against a
directory with fuzzy matching and fetches the most relevant student
reviews from a Redis vector index.

Commands:
  serve    - HTTP API (POST /v1/retrieve, GET /health, GET /metrics)
  ingest   - load professors and reviews from a YAML or TOML dataset
  query    - resolve one question and print the result
  version  - build information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment name (default: $ENV or local)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func currentEnv() string {
	if envName != "" {
		return envName
	}
	return config.GetEnv()
}

// loadRuntime reads the configuration and builds the logger for the selected environment.
func loadRuntime() (config.Config, *zap.Logger, error) {
	env := currentEnv()

	var (
		cfg config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
