// =============================================================================
// Order Set Decoder - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// ('process', 'validate', 'version') attach to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (decoder)
//   ├── processCmd (decoder process)
//   ├── validateCmd (decoder validate)
//   └── versionCmd (decoder version)
//
// The root command owns the global flags (--config, --verbose) and the
// logger; subcommands load configuration through loadConfig().
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/order-set-decoder/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// Overridden with the --config flag.
var cfgFile string

// verbose enables debug logging when set.
var verbose bool

// logger is the application logger, initialized before any subcommand runs.
var logger *zap.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "decoder",
	Short: "Order Set Decoder - Expand bundle order lines into component lines",

	Long: `Order Set Decoder transforms e-commerce order exports so that bundle
(set) lines become their individual component lines, ready for warehouse
picking and inventory systems.

Key Features:
  - Set decoding driven by a master XLSX workbook (PRODUCTS / SETS sheets)
  - Companion product injection via ADDITION rules (FIXED or MATCHED quantity)
  - SKU synthesis for lines exported without a SKU
  - Pre-flight validation with CRITICAL / WARNING / INFO findings
  - Per-client column mapping profiles for non-Shopify exports
  - Automatic archival of processed input files

Example Usage:
  decoder process                      # Process all files in the input directory
  decoder process --orders june.csv    # Process one specific export
  decoder validate --orders june.csv   # Report findings without processing`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},

	// The logger must exist before any subcommand logic runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.main().
func Execute() {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig loads the main configuration for a subcommand run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// initLogger builds the application logger. --verbose forces debug level
// regardless of the configured level.
func initLogger() error {
	level := zapcore.InfoLevel
	if cfg, err := config.Load(cfgFile); err == nil {
		if parsed, perr := zapcore.ParseLevel(cfg.LogLevel); perr == nil {
			level = parsed
		}
	}

	zc := zap.NewProductionConfig()
	if verbose {
		zc = zap.NewDevelopmentConfig()
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = log
	return nil
}
