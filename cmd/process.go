// =============================================================================
// Order Set Decoder - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command for decoding
// order exports. It orchestrates the whole pipeline.
//
// COMMAND USAGE:
//   decoder process [flags]
//
// FLAGS:
//   --orders        : Specific export file(s) to process (repeatable)
//   --master        : Override the master workbook path
//   --profile       : Client profile name for column mapping
//   --generate-skus : Synthesize SKUs for lines that have none
//   --force         : Process even when validation finds CRITICAL issues
//   --dry-run       : Run the pipeline without writing or archiving
//   --output        : Override the output file name pattern
//
// PROCESSING PIPELINE:
//   1. Load configuration and the client profile
//   2. Load the master workbook; build the catalog and addition rules
//   3. Discover input files (or take them from --orders)
//   4. For each file (concurrently):
//      a. Read the CSV
//      b. Apply the column mapping
//      c. Optionally synthesize missing SKUs
//      d. Validate; abort the file on CRITICAL findings unless --force
//      e. Decode sets and inject companions
//      f. Write the output file and archive the input
//   5. Record history and print a summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-set-decoder/internal/additions"
	"github.com/ginjaninja78/order-set-decoder/internal/catalog"
	"github.com/ginjaninja78/order-set-decoder/internal/colmap"
	"github.com/ginjaninja78/order-set-decoder/internal/config"
	"github.com/ginjaninja78/order-set-decoder/internal/csvio"
	"github.com/ginjaninja78/order-set-decoder/internal/engine"
	"github.com/ginjaninja78/order-set-decoder/internal/masterfile"
	"github.com/ginjaninja78/order-set-decoder/internal/validator"
	"github.com/ginjaninja78/order-set-decoder/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// orderFiles lists specific export files to process instead of scanning the
// input directory.
var orderFiles []string

// masterPath overrides the configured master workbook path.
var masterPath string

// profileName selects the client profile for column mapping.
var profileName string

// generateSKUs enables SKU synthesis for lines without one.
var generateSKUs bool

// force processes files despite CRITICAL validation findings.
var force bool

// dryRun runs the pipeline without writing output or archiving input.
var dryRun bool

// outputPattern overrides the configured output file name pattern.
var outputPattern string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Decode order exports: expand sets and inject companion products",
	Long: `The process command reads order export CSVs, expands every set line into
its component lines using the master workbook, injects companion products per
the ADDITION rules, and writes the decoded CSVs to the output directory.

Files are processed concurrently and independently: an error in one file does
not affect the others.

On successful processing:
  - The decoded CSV is placed in the output directory
  - The original export is moved to the archive directory
  - The run is recorded in the history file

On CRITICAL validation findings the file is skipped unless --force is given.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringSliceVar(
		&orderFiles,
		"orders",
		nil,
		"Specific export file(s) to process (default: scan the input directory)",
	)

	processCmd.Flags().StringVar(
		&masterPath,
		"master",
		"",
		"Path to the master workbook (default from config)",
	)

	processCmd.Flags().StringVar(
		&profileName,
		"profile",
		"",
		"Client profile name for column mapping",
	)

	processCmd.Flags().BoolVar(
		&generateSKUs,
		"generate-skus",
		false,
		"Synthesize SKUs from item names for lines without one",
	)

	processCmd.Flags().BoolVar(
		&force,
		"force",
		false,
		"Process files even when validation finds CRITICAL issues",
	)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run the pipeline without writing output files or archiving input",
	)

	processCmd.Flags().StringVar(
		&outputPattern,
		"output",
		"",
		"Output file name pattern (default from config)",
	)
}

// =============================================================================
// PIPELINE SETUP
// =============================================================================

// pipeline bundles everything a single-file run needs.
type pipeline struct {
	cfg     *config.Config
	mapper  *colmap.Mapper
	eng     *engine.Engine
	rules   *additions.Table
	cat     *catalog.Catalog
	files   *utils.FileManager
	pattern string
}

// setupPipeline loads configuration and reference data shared by all files.
func setupPipeline() (*pipeline, []string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}

	// Client profile → column mapper. No profile means the export already
	// uses the standard column names.
	var mapping map[string]string
	if profileName != "" {
		profiles, err := config.LoadProfiles(cfg.ProfilesDir)
		if err != nil {
			return nil, nil, err
		}
		profile, ok := profiles[profileName]
		if !ok {
			return nil, nil, fmt.Errorf("unknown profile %q (looked in %s)", profileName, cfg.ProfilesDir)
		}
		mapping = profile.ColumnMapping
		logger.Info("client profile loaded",
			zap.String("client", profile.ClientName),
			zap.String("platform", profile.Platform))
	}

	// Master workbook → catalog and addition rules.
	master := masterPath
	if master == "" {
		master = cfg.MasterFile
	}
	mf, err := masterfile.Load(master)
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.Build(mf.Products, mf.Sets)
	if err != nil {
		return nil, nil, err
	}

	var rules *additions.Table
	if mf.Addition != nil {
		if rules, err = additions.Build(*mf.Addition); err != nil {
			return nil, nil, err
		}
	}

	logger.Info("reference data loaded",
		zap.String("master", master),
		zap.Int("products", cat.ProductCount()),
		zap.Int("sets", cat.BundleCount()),
		zap.Int("rules", ruleCount(rules)))

	// Input files: explicit list wins over directory discovery.
	fm := utils.NewFileManager(cfg.InputDir, cfg.ArchiveDir)
	inputs := orderFiles
	if len(inputs) == 0 {
		if inputs, err = fm.DiscoverInputFiles(); err != nil {
			return nil, nil, err
		}
	}

	pattern := outputPattern
	if pattern == "" {
		pattern = cfg.OutputPattern
	}

	return &pipeline{
		cfg:     cfg,
		mapper:  colmap.New(mapping),
		eng:     engine.New(cat, rules, logger),
		rules:   rules,
		cat:     cat,
		files:   fm,
		pattern: pattern,
	}, inputs, nil
}

func ruleCount(rules *additions.Table) int {
	if rules == nil {
		return 0
	}
	return rules.RuleCount()
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// fileResult is the outcome of processing one export file.
type fileResult struct {
	SourceFile string
	OutputFile string
	Stats      *engine.Stats
	Err        error
}

// runProcess orchestrates the decoding pipeline.
func runProcess() error {
	startTime := time.Now()

	p, inputs, err := setupPipeline()
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Println("No CSV files found in the input directory.")
		return nil
	}

	fmt.Printf("Processing %d file(s)...\n", len(inputs))

	var wg sync.WaitGroup
	results := make(chan fileResult, len(inputs))

	for _, file := range inputs {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			results <- p.processFile(path)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	history, err := utils.LoadHistory(p.cfg.HistoryFile)
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		history = nil
	}

	var successCount, errorCount int
	for result := range results {
		if result.Err != nil {
			errorCount++
			fmt.Printf("  ✗ %s: %v\n", filepath.Base(result.SourceFile), result.Err)
			continue
		}
		successCount++
		fmt.Printf("  ✓ %s -> %s (%d lines in, %d out, %d sets, %d companions)\n",
			filepath.Base(result.SourceFile), filepath.Base(result.OutputFile),
			result.Stats.InputLines, result.Stats.OutputLines,
			result.Stats.SetsDecoded, result.Stats.Injected)

		if history != nil && !dryRun {
			history.Add(utils.HistoryEntry{
				SourceFile:  result.SourceFile,
				OutputFile:  result.OutputFile,
				ProcessedAt: time.Now(),
				InputLines:  result.Stats.InputLines,
				OutputLines: result.Stats.OutputLines,
			})
		}
	}

	if history != nil && !dryRun {
		if err := history.Save(p.cfg.HistoryFile); err != nil {
			logger.Warn("failed to save history", zap.Error(err))
		}
	}

	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total files:     %d\n", len(inputs))
	fmt.Printf("Successful:      %d\n", successCount)
	fmt.Printf("Errors:          %d\n", errorCount)
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime))

	if errorCount > 0 {
		return fmt.Errorf("%d file(s) failed", errorCount)
	}
	return nil
}

// processFile runs the per-file pipeline: read, map, synthesize, validate,
// decode, write, archive.
func (p *pipeline) processFile(path string) fileResult {
	result := fileResult{SourceFile: path}

	batch, err := csvio.Read(path, csvio.Settings{Delimiter: p.cfg.Delimiter()})
	if err != nil {
		result.Err = err
		return result
	}

	if batch, err = p.mapper.Apply(batch); err != nil {
		result.Err = err
		return result
	}

	if generateSKUs {
		var changes []engine.SKUChange
		batch, changes = p.eng.GenerateMissingSKUs(batch)
		for _, c := range changes {
			logger.Info("SKU synthesized",
				zap.String("file", filepath.Base(path)),
				zap.Int("row", c.Row),
				zap.String("name", c.Name),
				zap.String("sku", c.NewSKU))
		}
	}

	report := validator.Validate(batch, p.cat, p.rules)
	if len(report.Findings) > 0 {
		fmt.Printf("\n%s: %s\n", filepath.Base(path), report.Format())
	}
	if report.HasCritical() && !force {
		result.Err = fmt.Errorf("validation found %d CRITICAL issue(s); use --force to process anyway",
			len(report.Critical()))
		return result
	}

	decoded, stats, err := p.eng.Process(batch)
	if err != nil {
		result.Err = err
		return result
	}
	result.Stats = stats

	outName := utils.GenerateOutputFileName(p.pattern, path)
	result.OutputFile = filepath.Join(p.cfg.OutputDir, outName)

	if dryRun {
		logger.Info("dry run: output not written", zap.String("would_write", result.OutputFile))
		return result
	}

	if err := csvio.Write(result.OutputFile, decoded, csvio.Settings{Delimiter: p.cfg.Delimiter()}); err != nil {
		result.Err = err
		return result
	}

	// Only files discovered in the input directory are archived; files
	// named explicitly with --orders stay where they are.
	if len(orderFiles) == 0 {
		if _, err := p.files.ArchiveInputFile(path); err != nil {
			logger.Warn("failed to archive input", zap.String("file", path), zap.Error(err))
		}
	}

	return result
}
