// =============================================================================
// Order Set Decoder - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - catalog
//   - additions
//   - validator
//   - engine
//   - csvio / masterfile / colmap
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STANDARD ORDER COLUMNS
// =============================================================================
//
// Column names follow the Shopify order export format, which is the standard
// shape every batch is normalized to before processing (see colmap for
// renaming other platforms' exports into this shape).

const (
	// ColOrderID is the order identifier column (e.g. "#76360").
	ColOrderID = "Name"

	// ColSKU is the line item SKU column. May be blank on lines that need
	// SKU synthesis.
	ColSKU = "Lineitem sku"

	// ColQuantity is the line item quantity column.
	ColQuantity = "Lineitem quantity"

	// ColItemName is the line item display name column.
	ColItemName = "Lineitem name"

	// ColPrice is the line item unit price column.
	ColPrice = "Lineitem price"

	// ColDiscount is the line item discount column. Optional; zeroed on
	// generated lines so financial totals are never duplicated.
	ColDiscount = "Lineitem discount"
)

// RequiredOrderColumns are the columns the transformation engine cannot run
// without. Their absence is a SchemaError; every other column is passthrough.
var RequiredOrderColumns = []string{ColOrderID, ColSKU, ColQuantity, ColPrice}

// =============================================================================
// PROVENANCE
// =============================================================================

// Provenance is a flag set recording how an output line came to exist.
// The flags are presentation/debugging metadata only: they never influence
// quantity or price arithmetic.
type Provenance uint8

const (
	// FromBundle marks a line produced by decoding a set into components.
	FromBundle Provenance = 1 << iota

	// Injected marks a companion line appended by an addition rule or a
	// manual addition.
	Injected

	// SynthesizedSKU marks a line whose SKU was generated from its name.
	SynthesizedSKU
)

// Has reports whether all flags in flag are set on p.
func (p Provenance) Has(flag Provenance) bool {
	return p&flag == flag
}

// =============================================================================
// ORDER LINES AND BATCHES
// =============================================================================

// Line is a single order line. Fields holds every column value keyed by
// header name; columns the engine does not touch round-trip verbatim.
type Line struct {
	// Fields contains the column values for this line.
	Fields map[string]string

	// Row is the 1-based row number in the source file, or 0 for lines
	// generated during processing. Used for reporting only.
	Row int

	// Provenance records how this line was produced.
	Provenance Provenance
}

// Clone returns a deep copy of the line.
func (l Line) Clone() Line {
	fields := make(map[string]string, len(l.Fields))
	for k, v := range l.Fields {
		fields[k] = v
	}
	return Line{Fields: fields, Row: l.Row, Provenance: l.Provenance}
}

// Get returns the trimmed value of a column, or "" if absent.
func (l Line) Get(col string) string {
	return strings.TrimSpace(l.Fields[col])
}

// OrderID returns the trimmed order identifier.
func (l Line) OrderID() string { return l.Get(ColOrderID) }

// SKU returns the trimmed item SKU.
func (l Line) SKU() string { return l.Get(ColSKU) }

// Quantity returns the line quantity. Cells that do not parse as a positive
// integer degrade to 1; the validator reports them separately.
func (l Line) Quantity() int {
	n, err := strconv.Atoi(l.Get(ColQuantity))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// Price returns the unit price as an exact decimal. Cells that do not parse
// degrade to zero.
func (l Line) Price() decimal.Decimal {
	d, err := decimal.NewFromString(l.Get(ColPrice))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Batch is a loaded order export: the header row plus one Line per data row.
// Headers preserve the source column order so output files round-trip the
// original layout.
type Batch struct {
	// Headers contains the column headers in source order.
	Headers []string

	// Lines contains the order lines.
	Lines []Line

	// SourceFile is the path the batch was loaded from, if any.
	SourceFile string
}

// Clone returns a deep copy of the batch.
func (b *Batch) Clone() *Batch {
	out := &Batch{
		Headers:    append([]string(nil), b.Headers...),
		Lines:      make([]Line, len(b.Lines)),
		SourceFile: b.SourceFile,
	}
	for i, l := range b.Lines {
		out.Lines[i] = l.Clone()
	}
	return out
}

// HasColumn reports whether a header is present.
func (b *Batch) HasColumn(col string) bool {
	for _, h := range b.Headers {
		if h == col {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of required that is absent from Headers,
// in the order given.
func (b *Batch) MissingColumns(required []string) []string {
	var missing []string
	for _, col := range required {
		if !b.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// EnsureColumn appends a header if it is not already present.
func (b *Batch) EnsureColumn(col string) {
	if !b.HasColumn(col) {
		b.Headers = append(b.Headers, col)
	}
}

// =============================================================================
// REFERENCE TABLES
// =============================================================================

// Table is a loaded reference sheet (PRODUCTS, SETS, ADDITION): headers plus
// rows as header → value maps, cells trimmed at load time.
type Table struct {
	// Name identifies the table in error messages (usually the sheet name).
	Name string

	// Headers contains the column headers in sheet order.
	Headers []string

	// Rows contains the data rows.
	Rows []map[string]string
}

// HasColumn reports whether a header is present.
func (t Table) HasColumn(col string) bool {
	for _, h := range t.Headers {
		if h == col {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of required that is absent from Headers.
func (t Table) MissingColumns(required []string) []string {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// SchemaError reports required columns absent from a loaded table or batch.
// It is the only fatal error class in the core: individual malformed cells
// always degrade to defaults instead.
type SchemaError struct {
	// Table names the offending table ("PRODUCTS", "SETS", "ADDITION",
	// "orders").
	Table string

	// Missing lists the absent required columns.
	Missing []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required column(s): %s",
		e.Table, strings.Join(e.Missing, ", "))
}
