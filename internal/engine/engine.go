// =============================================================================
// Order Set Decoder - Transformation Engine
// =============================================================================
//
// This module turns a raw order batch into its decoded form in two passes:
//
//   Pass 1 (set decoding): every line whose SKU is declared as a set is
//   replaced, in place, by one line per component. Component quantity is
//   order quantity x component multiplicity x physical unit count. The first
//   component carries the set line's price and discount; the rest carry 0,
//   so order totals are conserved exactly.
//
//   Pass 2 (companion injection): addition rules run against the decoded
//   lines, once per order. A rule fires when its trigger SKU appears in an
//   order and its companion is not already present; the companion is appended
//   after the order's last line at price 0. One companion per order per rule,
//   so re-processing an already-decoded file is a no-op.
//
// Unknown columns round-trip verbatim; only missing required columns are
// fatal.
//
// =============================================================================

package engine

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ginjaninja78/order-set-decoder/internal/additions"
	"github.com/ginjaninja78/order-set-decoder/internal/catalog"
	"github.com/ginjaninja78/order-set-decoder/internal/skugen"
	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

// Engine applies set decoding and companion injection to order batches.
// Safe for concurrent use: all reference data is immutable after New.
type Engine struct {
	catalog *catalog.Catalog
	rules   *additions.Table
	log     *zap.Logger
}

// New creates an Engine. rules may be nil to disable companion injection;
// logger may be nil for silent operation.
func New(cat *catalog.Catalog, rules *additions.Table, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{catalog: cat, rules: rules, log: logger}
}

// Stats summarizes one Process run.
type Stats struct {
	InputLines    int
	OutputLines   int
	SetsDecoded   int
	Injected      int
	OrdersTouched int
}

// =============================================================================
// PROCESS
// =============================================================================

// Process decodes a batch. The input is not modified; the returned batch is
// fully independent. Returns a *types.SchemaError when required order
// columns are absent.
func (e *Engine) Process(batch *types.Batch) (*types.Batch, *Stats, error) {
	if missing := batch.MissingColumns(types.RequiredOrderColumns); len(missing) > 0 {
		return nil, nil, &types.SchemaError{Table: "orders", Missing: missing}
	}

	stats := &Stats{InputLines: len(batch.Lines)}

	decoded := e.decodeSets(batch, stats)
	out := e.injectCompanions(decoded, stats)

	out.EnsureColumn(types.ColItemName)
	stats.OutputLines = len(out.Lines)

	e.log.Info("batch processed",
		zap.Int("input_lines", stats.InputLines),
		zap.Int("output_lines", stats.OutputLines),
		zap.Int("sets_decoded", stats.SetsDecoded),
		zap.Int("companions_injected", stats.Injected))

	return out, stats, nil
}

// decodeSets is Pass 1: replace each set line with its component lines.
func (e *Engine) decodeSets(batch *types.Batch, stats *Stats) *types.Batch {
	out := &types.Batch{
		Headers:    append([]string(nil), batch.Headers...),
		Lines:      make([]types.Line, 0, len(batch.Lines)),
		SourceFile: batch.SourceFile,
	}

	for _, line := range batch.Lines {
		components, ok := e.catalog.LookupBundle(line.SKU())
		if !ok {
			out.Lines = append(out.Lines, line.Clone())
			continue
		}

		stats.SetsDecoded++
		orderQty := line.Quantity()

		if len(components) == 0 {
			// Declared but empty: the set line vanishes and contributes
			// nothing. The validator flags these before processing.
			e.log.Warn("empty set dropped",
				zap.String("order", line.OrderID()),
				zap.String("set", line.SKU()))
			continue
		}

		for i, comp := range components {
			cl := line.Clone()
			cl.Provenance |= types.FromBundle
			cl.Fields[types.ColSKU] = comp.SKU
			cl.Fields[types.ColItemName] = e.catalog.ProductName(comp.SKU)
			cl.Fields[types.ColQuantity] = strconv.Itoa(
				orderQty * comp.Multiplicity * e.catalog.UnitCount(comp.SKU))
			if i > 0 {
				// Price rides on the first component only.
				cl.Fields[types.ColPrice] = "0"
				if _, has := cl.Fields[types.ColDiscount]; has {
					cl.Fields[types.ColDiscount] = "0"
				}
			}
			out.Lines = append(out.Lines, cl)
		}
	}

	return out
}

// injectCompanions is Pass 2: append rule companions per order. Triggers are
// evaluated against the decoded lines only; injected companions never
// trigger further rules.
func (e *Engine) injectCompanions(batch *types.Batch, stats *Stats) *types.Batch {
	if e.rules == nil || e.rules.RuleCount() == 0 {
		return batch
	}

	// Per-order presence set and last-line position, in one scan.
	present := make(map[string]map[string]bool)
	lastLine := make(map[string]int)
	for i, line := range batch.Lines {
		id := line.OrderID()
		if present[id] == nil {
			present[id] = make(map[string]bool)
		}
		present[id][line.SKU()] = true
		lastLine[id] = i
	}

	// The first trigger occurrence in line order decides the companion
	// quantity; marking the companion present immediately makes both a
	// second trigger line and an already-present companion a no-op.
	pending := make(map[int][]types.Line)
	touched := make(map[string]bool)

	for _, line := range batch.Lines {
		rule, ok := e.rules.GetRule(line.SKU())
		if !ok {
			continue
		}
		id := line.OrderID()
		if present[id][rule.Companion] {
			continue
		}
		present[id][rule.Companion] = true
		touched[id] = true

		qty := rule.Quantity
		if rule.Mode == additions.ModeMatched {
			qty = line.Quantity()
		}

		companion := line.Clone()
		companion.Row = 0
		companion.Provenance = types.Injected
		companion.Fields[types.ColSKU] = rule.Companion
		companion.Fields[types.ColItemName] = e.catalog.ProductName(rule.Companion)
		companion.Fields[types.ColQuantity] = strconv.Itoa(qty)
		companion.Fields[types.ColPrice] = "0"
		if _, has := companion.Fields[types.ColDiscount]; has {
			companion.Fields[types.ColDiscount] = "0"
		}

		pending[lastLine[id]] = append(pending[lastLine[id]], companion)
		stats.Injected++

		e.log.Debug("companion injected",
			zap.String("order", id),
			zap.String("trigger", rule.Trigger),
			zap.String("companion", rule.Companion),
			zap.Int("quantity", qty))
	}

	stats.OrdersTouched = len(touched)
	if len(pending) == 0 {
		return batch
	}

	out := &types.Batch{
		Headers:    batch.Headers,
		Lines:      make([]types.Line, 0, len(batch.Lines)+stats.Injected),
		SourceFile: batch.SourceFile,
	}
	for i, line := range batch.Lines {
		out.Lines = append(out.Lines, line)
		out.Lines = append(out.Lines, pending[i]...)
	}
	return out
}

// =============================================================================
// SKU SYNTHESIS
// =============================================================================

// SKUChange records one synthesized SKU.
type SKUChange struct {
	Row    int
	Name   string
	NewSKU string
}

// GenerateMissingSKUs returns a copy of the batch with blank SKUs replaced by
// SKUs synthesized from the line's display name, plus the list of changes.
// Lines whose name yields nothing keep their blank SKU.
func (e *Engine) GenerateMissingSKUs(batch *types.Batch) (*types.Batch, []SKUChange) {
	out := batch.Clone()
	var changes []SKUChange

	for i := range out.Lines {
		line := &out.Lines[i]
		if !skugen.IsBlankSKU(line.SKU()) {
			continue
		}
		name := line.Get(types.ColItemName)
		sku := skugen.Synthesize(name)
		if sku == "" {
			continue
		}
		line.Fields[types.ColSKU] = sku
		line.Provenance |= types.SynthesizedSKU
		changes = append(changes, SKUChange{Row: line.Row, Name: name, NewSKU: sku})
	}

	if len(changes) > 0 {
		e.log.Info("missing SKUs generated", zap.Int("count", len(changes)))
	}
	return out, changes
}

// =============================================================================
// MANUAL ADDITIONS
// =============================================================================

// AddManualProduct appends a zero-priced line for sku to an existing order.
// The new line inherits the order's passthrough columns from the order's
// first line. Returns an error when the order is not in the batch.
func (e *Engine) AddManualProduct(batch *types.Batch, orderID, sku string, qty int) (*types.Batch, error) {
	if qty <= 0 {
		qty = 1
	}

	out := batch.Clone()
	for _, line := range out.Lines {
		if line.OrderID() != orderID {
			continue
		}

		manual := line.Clone()
		manual.Row = 0
		manual.Provenance = types.Injected
		manual.Fields[types.ColSKU] = sku
		manual.Fields[types.ColItemName] = e.catalog.ProductName(sku)
		manual.Fields[types.ColQuantity] = strconv.Itoa(qty)
		manual.Fields[types.ColPrice] = "0"
		if _, has := manual.Fields[types.ColDiscount]; has {
			manual.Fields[types.ColDiscount] = "0"
		}

		out.Lines = append(out.Lines, manual)
		e.log.Info("manual product added",
			zap.String("order", orderID),
			zap.String("sku", sku),
			zap.Int("quantity", qty))
		return out, nil
	}

	return nil, fmt.Errorf("order %s not found in batch", orderID)
}
