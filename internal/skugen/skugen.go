// =============================================================================
// Order Set Decoder - SKU Synthesis
// =============================================================================
//
// Some export lines arrive without a SKU. This module derives a stable SKU
// from the product display name so those lines become inventory-trackable:
//
//   "Barrier Cream Sample" → "BARRIER_CREAM_SAMPLE"
//
// Synthesis is deterministic and total. A name that strips down to nothing
// yields "", which callers must treat as synthesis failure: such lines keep
// their blank SKU and are reported as unresolved by the validator.
//
// =============================================================================

package skugen

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	invalidRe    = regexp.MustCompile(`[^A-Z0-9_]`)
)

// Synthesize derives a SKU from a display name: uppercase, runs of
// whitespace collapsed to a single underscore, characters outside
// [A-Z0-9_] stripped, leading and trailing underscores trimmed.
func Synthesize(name string) string {
	s := strings.ToUpper(name)
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = invalidRe.ReplaceAllString(s, "")
	return strings.Trim(s, "_")
}

// IsBlankSKU reports whether a SKU cell is effectively empty. Besides
// whitespace, spreadsheet-export artifacts ("nan", "none", "null") count as
// blank.
func IsBlankSKU(sku string) bool {
	switch strings.ToLower(strings.TrimSpace(sku)) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

// PreviewSynthesis returns the SKUs that would be generated for a batch,
// keyed by line index. Only lines with a blank SKU and a name that
// synthesizes to a non-empty SKU appear in the result. The batch is not
// modified.
func PreviewSynthesis(batch *types.Batch) map[int]string {
	preview := make(map[int]string)
	for i, line := range batch.Lines {
		if !IsBlankSKU(line.SKU()) {
			continue
		}
		if sku := Synthesize(line.Get(types.ColItemName)); sku != "" {
			preview[i] = sku
		}
	}
	return preview
}
