// =============================================================================
// Order Set Decoder - Batch Validation
// =============================================================================
//
// This module inspects an order batch against the loaded reference data and
// produces a findings report before any transformation runs. Findings carry a
// severity:
//
//   CRITICAL - the batch cannot be processed faithfully (missing required
//              columns, lines referencing declared-but-empty bundles).
//   WARNING  - processing will proceed with degraded data (blank SKUs,
//              malformed quantity or price cells, duplicate order/SKU pairs).
//   INFO     - advisory counts useful for operator review.
//
// Validation never mutates the batch and never short-circuits: the report
// always contains everything found so operators can fix a file in one pass.
//
// =============================================================================

package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-set-decoder/internal/additions"
	"github.com/ginjaninja78/order-set-decoder/internal/catalog"
	"github.com/ginjaninja78/order-set-decoder/internal/skugen"
	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

// =============================================================================
// SEVERITY
// =============================================================================

// Severity classifies a finding.
type Severity int

const (
	// SeverityCritical findings block processing unless forced.
	SeverityCritical Severity = iota

	// SeverityWarning findings degrade to defaults during processing.
	SeverityWarning

	// SeverityInfo findings are advisory counts.
	SeverityInfo
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityWarning:
		return "WARNING"
	default:
		return "INFO"
	}
}

// =============================================================================
// FINDINGS
// =============================================================================

// Finding codes.
const (
	CodeMissingColumn = "missing-column"
	CodeEmptyBundle   = "empty-bundle"
	CodeBlankSKU      = "blank-sku"
	CodeDuplicateLine = "duplicate-line"
	CodeBadQuantity   = "bad-quantity"
	CodeBadPrice      = "bad-price"
	CodeBundleLines   = "bundle-lines"
	CodeRulesArmed    = "rules-armed"
)

// Finding is one validation result.
type Finding struct {
	Severity Severity
	Code     string
	Message  string

	// Row is the 1-based source row, or 0 for batch-level findings.
	Row int

	// OrderID and SKU locate the finding when it concerns a single line.
	OrderID string
	SKU     string
}

// String renders a finding as one report line.
func (f Finding) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", f.Severity, f.Message)
	if f.Row > 0 {
		fmt.Fprintf(&b, " (row %d)", f.Row)
	}
	return b.String()
}

// Report is the full set of findings for one batch.
type Report struct {
	Findings []Finding
}

// Critical returns the CRITICAL findings.
func (r *Report) Critical() []Finding { return r.bySeverity(SeverityCritical) }

// Warnings returns the WARNING findings.
func (r *Report) Warnings() []Finding { return r.bySeverity(SeverityWarning) }

// Infos returns the INFO findings.
func (r *Report) Infos() []Finding { return r.bySeverity(SeverityInfo) }

// HasCritical reports whether any finding blocks processing.
func (r *Report) HasCritical() bool { return len(r.Critical()) > 0 }

func (r *Report) bySeverity(s Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// Format renders the report for terminal display, critical first.
func (r *Report) Format() string {
	if len(r.Findings) == 0 {
		return "No validation findings"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Validation findings (%d):\n", len(r.Findings))
	for _, sev := range []Severity{SeverityCritical, SeverityWarning, SeverityInfo} {
		for _, f := range r.bySeverity(sev) {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate inspects a raw order batch against the catalog and rule table.
// Both cat and rules may be nil; the corresponding checks are skipped.
func Validate(batch *types.Batch, cat *catalog.Catalog, rules *additions.Table) *Report {
	report := &Report{}

	if missing := batch.MissingColumns(types.RequiredOrderColumns); len(missing) > 0 {
		report.add(Finding{
			Severity: SeverityCritical,
			Code:     CodeMissingColumn,
			Message:  fmt.Sprintf("orders: missing required column(s): %s", strings.Join(missing, ", ")),
		})
		// Per-line checks would mislead without the required columns.
		return report
	}

	seen := make(map[string]int)
	bundleLines := 0
	triggered := make(map[string]bool)

	for _, line := range batch.Lines {
		orderID := line.OrderID()
		sku := line.SKU()

		if skugen.IsBlankSKU(sku) {
			report.add(Finding{
				Severity: SeverityWarning,
				Code:     CodeBlankSKU,
				Message:  fmt.Sprintf("order %s: line has no SKU (%q)", orderID, line.Get(types.ColItemName)),
				Row:      line.Row,
				OrderID:  orderID,
			})
		} else {
			key := orderID + "\x00" + sku
			if prev, dup := seen[key]; dup {
				report.add(Finding{
					Severity: SeverityWarning,
					Code:     CodeDuplicateLine,
					Message:  fmt.Sprintf("order %s: SKU %s appears again (first at row %d)", orderID, sku, prev),
					Row:      line.Row,
					OrderID:  orderID,
					SKU:      sku,
				})
			} else {
				seen[key] = line.Row
			}
		}

		if cell := line.Get(types.ColQuantity); cell != "" {
			if n, err := strconv.Atoi(cell); err != nil || n <= 0 {
				report.add(Finding{
					Severity: SeverityWarning,
					Code:     CodeBadQuantity,
					Message:  fmt.Sprintf("order %s: quantity %q is not a positive integer, will default to 1", orderID, cell),
					Row:      line.Row,
					OrderID:  orderID,
					SKU:      sku,
				})
			}
		}

		if cell := line.Get(types.ColPrice); cell != "" {
			if _, err := decimal.NewFromString(cell); err != nil {
				report.add(Finding{
					Severity: SeverityWarning,
					Code:     CodeBadPrice,
					Message:  fmt.Sprintf("order %s: price %q is not numeric, will default to 0", orderID, cell),
					Row:      line.Row,
					OrderID:  orderID,
					SKU:      sku,
				})
			}
		}

		if cat != nil {
			if components, ok := cat.LookupBundle(sku); ok {
				bundleLines++
				if len(components) == 0 {
					report.add(Finding{
						Severity: SeverityCritical,
						Code:     CodeEmptyBundle,
						Message:  fmt.Sprintf("order %s: set %s is declared but has no components", orderID, sku),
						Row:      line.Row,
						OrderID:  orderID,
						SKU:      sku,
					})
				}
			}
		}

		if rules != nil && rules.HasRule(sku) {
			triggered[sku] = true
		}
	}

	if cat != nil && bundleLines > 0 {
		report.add(Finding{
			Severity: SeverityInfo,
			Code:     CodeBundleLines,
			Message:  fmt.Sprintf("%d line(s) reference a set and will be decoded", bundleLines),
		})
	}
	if rules != nil && len(triggered) > 0 {
		report.add(Finding{
			Severity: SeverityInfo,
			Code:     CodeRulesArmed,
			Message:  fmt.Sprintf("%d addition rule trigger(s) present in this batch", len(triggered)),
		})
	}

	return report
}
