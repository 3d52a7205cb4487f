// =============================================================================
// Order Set Decoder - Column Mapping
// =============================================================================
//
// Order exports from different platforms name their columns differently. This
// module renames a batch's columns into the standard shape the engine
// expects, using a per-client mapping (source header → standard header) from
// the client profile, then backfills any standard column the export lacks.
//
// Backfill defaults keep downstream arithmetic safe: quantity "1", price and
// discount "0", everything else empty.
//
// =============================================================================

package colmap

import (
	"strings"

	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

// StandardColumns is the normalized column set, in canonical output order.
var StandardColumns = []string{
	types.ColOrderID,
	"Created at",
	types.ColItemName,
	types.ColSKU,
	types.ColQuantity,
	types.ColPrice,
	types.ColDiscount,
	"Shipping Name",
	"Shipping Method",
}

// columnDefault returns the backfill value for a standard column.
func columnDefault(col string) string {
	switch col {
	case types.ColQuantity:
		return "1"
	case types.ColPrice, types.ColDiscount:
		return "0"
	default:
		return ""
	}
}

// Mapper renames batch columns into the standard shape.
type Mapper struct {
	mapping map[string]string
}

// New creates a Mapper from a source → standard header mapping. A nil or
// empty mapping is valid and means the export already uses standard names.
func New(mapping map[string]string) *Mapper {
	m := make(map[string]string, len(mapping))
	for from, to := range mapping {
		m[strings.TrimSpace(from)] = strings.TrimSpace(to)
	}
	return &Mapper{mapping: m}
}

// Apply returns a copy of the batch with columns renamed per the mapping and
// missing standard columns backfilled. Returns a *types.SchemaError when a
// required column is still absent after mapping.
func (m *Mapper) Apply(batch *types.Batch) (*types.Batch, error) {
	out := &types.Batch{
		Headers:    make([]string, len(batch.Headers)),
		Lines:      make([]types.Line, len(batch.Lines)),
		SourceFile: batch.SourceFile,
	}

	for i, h := range batch.Headers {
		out.Headers[i] = m.rename(h)
	}
	for i, line := range batch.Lines {
		fields := make(map[string]string, len(line.Fields))
		for k, v := range line.Fields {
			fields[m.rename(k)] = v
		}
		out.Lines[i] = types.Line{Fields: fields, Row: line.Row, Provenance: line.Provenance}
	}

	if missing := out.MissingColumns(types.RequiredOrderColumns); len(missing) > 0 {
		return nil, &types.SchemaError{Table: "orders", Missing: missing}
	}

	for _, col := range StandardColumns {
		if out.HasColumn(col) {
			continue
		}
		out.Headers = append(out.Headers, col)
		def := columnDefault(col)
		for i := range out.Lines {
			out.Lines[i].Fields[col] = def
		}
	}

	return out, nil
}

func (m *Mapper) rename(header string) string {
	if to, ok := m.mapping[strings.TrimSpace(header)]; ok && to != "" {
		return to
	}
	return header
}

// =============================================================================
// PLATFORM DETECTION
// =============================================================================

// DetectPlatform guesses the export's source platform from header
// fingerprints. Returns "shopify", "woocommerce", or "unknown".
func DetectPlatform(headers []string) string {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[strings.ToLower(strings.TrimSpace(h))] = true
	}

	if have["lineitem sku"] && have["lineitem quantity"] {
		return "shopify"
	}
	if have["order number"] && (have["sku"] || have["item name"]) {
		return "woocommerce"
	}
	return "unknown"
}
