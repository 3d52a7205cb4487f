// =============================================================================
// Order Set Decoder - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Order Set Decoder CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   decoder process        - Decode all order exports in the input directory
//   decoder validate       - Run validation checks without processing
//   decoder version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//   - profiles/      : Per-client column mapping YAMLs
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/order-set-decoder/cmd"
)

func main() {
	cmd.Execute()
}
