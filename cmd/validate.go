// =============================================================================
// Order Set Decoder - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which runs the pre-flight checks
// on order exports without decoding or writing anything.
//
// COMMAND USAGE:
//   decoder validate [flags]
//
// The command exits non-zero when any file has CRITICAL findings, so it
// slots into shell pipelines that gate processing.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-set-decoder/internal/csvio"
	"github.com/ginjaninja78/order-set-decoder/internal/validator"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate order exports without processing them",
	Long: `The validate command loads the master workbook and the order exports, runs
every validation check, and prints the findings report per file. Nothing is
decoded, written, or archived.

Findings come in three severities:
  CRITICAL - the file cannot be processed faithfully
  WARNING  - processing would proceed with degraded data
  INFO     - advisory counts`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	// The validate command shares the process command's input flags.
	validateCmd.Flags().StringSliceVar(
		&orderFiles,
		"orders",
		nil,
		"Specific export file(s) to validate (default: scan the input directory)",
	)

	validateCmd.Flags().StringVar(
		&masterPath,
		"master",
		"",
		"Path to the master workbook (default from config)",
	)

	validateCmd.Flags().StringVar(
		&profileName,
		"profile",
		"",
		"Client profile name for column mapping",
	)
}

// runValidate validates every input file and reports per-file findings.
func runValidate() error {
	p, inputs, err := setupPipeline()
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Println("No CSV files found in the input directory.")
		return nil
	}

	criticalFiles := 0
	for _, path := range inputs {
		batch, err := csvio.Read(path, csvio.Settings{Delimiter: p.cfg.Delimiter()})
		if err != nil {
			fmt.Printf("✗ %s: %v\n", filepath.Base(path), err)
			criticalFiles++
			continue
		}
		if batch, err = p.mapper.Apply(batch); err != nil {
			fmt.Printf("✗ %s: %v\n", filepath.Base(path), err)
			criticalFiles++
			continue
		}

		report := validator.Validate(batch, p.cat, p.rules)
		fmt.Printf("\n%s:\n%s\n", filepath.Base(path), report.Format())
		if report.HasCritical() {
			criticalFiles++
		}
	}

	if criticalFiles > 0 {
		return fmt.Errorf("%d file(s) have CRITICAL findings", criticalFiles)
	}
	fmt.Println("\nAll files passed validation.")
	return nil
}
