// =============================================================================
// Order Set Decoder - Addition Rule Table
// =============================================================================
//
// This module holds companion-product rules loaded from the ADDITION sheet.
// A rule says: when the trigger SKU appears in an order, append the companion
// SKU to that order (at price 0). Two quantity policies exist:
//
//   FIXED   - the companion quantity is the rule's constant (default 1),
//             regardless of how many trigger units were ordered.
//   MATCHED - the companion quantity mirrors the triggering line's quantity.
//
// The table is a plain mapping: exactly one active rule per trigger SKU, and
// a later sheet row for the same trigger overwrites the earlier one.
//
// =============================================================================

package additions

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

// Column names of the ADDITION sheet. TYPE and QUANTITY are optional.
const (
	ColTrigger   = "IF_SKU"
	ColCompanion = "THEN_ADD"
	ColMode      = "TYPE"
	ColQuantity  = "QUANTITY"
)

var requiredColumns = []string{ColTrigger, ColCompanion}

// =============================================================================
// QUANTITY MODES
// =============================================================================

// Mode selects the companion quantity policy.
type Mode int

const (
	// ModeFixed adds the rule's constant quantity.
	ModeFixed Mode = iota

	// ModeMatched mirrors the triggering line's quantity.
	ModeMatched
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeMatched {
		return "MATCHED"
	}
	return "FIXED"
}

// ParseMode parses a TYPE cell, case-insensitively. Anything that is not
// recognizably MATCHED normalizes to FIXED, which keeps sheets written
// before the TYPE column existed loading with their original behavior.
func ParseMode(cell string) Mode {
	if strings.EqualFold(strings.TrimSpace(cell), "MATCHED") {
		return ModeMatched
	}
	return ModeFixed
}

// =============================================================================
// RULES
// =============================================================================

// Rule is one companion-addition rule.
type Rule struct {
	// Trigger is the SKU whose presence in an order fires the rule.
	Trigger string

	// Companion is the SKU appended to the order.
	Companion string

	// Mode selects the quantity policy.
	Mode Mode

	// Quantity is the constant companion quantity for ModeFixed.
	// Ignored for ModeMatched.
	Quantity int
}

// Table maps trigger SKU → active rule. Immutable after Build.
type Table struct {
	rules map[string]Rule
}

// Build constructs a Table from the ADDITION sheet rows.
//
// Returns a *types.SchemaError if IF_SKU or THEN_ADD is absent. Rows with a
// blank trigger or companion are skipped; malformed TYPE/QUANTITY cells
// degrade to FIXED/1.
func Build(rows types.Table) (*Table, error) {
	if missing := rows.MissingColumns(requiredColumns); len(missing) > 0 {
		name := rows.Name
		if name == "" {
			name = "ADDITION"
		}
		return nil, &types.SchemaError{Table: name, Missing: missing}
	}

	t := &Table{rules: make(map[string]Rule, len(rows.Rows))}

	for _, row := range rows.Rows {
		trigger := strings.TrimSpace(row[ColTrigger])
		companion := strings.TrimSpace(row[ColCompanion])
		if trigger == "" || companion == "" {
			continue
		}

		qty := 1
		if n, err := strconv.Atoi(strings.TrimSpace(row[ColQuantity])); err == nil && n > 0 {
			qty = n
		}

		// Map assignment: the last row for a trigger wins.
		t.rules[trigger] = Rule{
			Trigger:   trigger,
			Companion: companion,
			Mode:      ParseMode(row[ColMode]),
			Quantity:  qty,
		}
	}

	return t, nil
}

// HasRule reports whether a trigger SKU has an active rule.
func (t *Table) HasRule(trigger string) bool {
	_, ok := t.rules[strings.TrimSpace(trigger)]
	return ok
}

// GetRule returns the active rule for a trigger SKU.
func (t *Table) GetRule(trigger string) (Rule, bool) {
	r, ok := t.rules[strings.TrimSpace(trigger)]
	return r, ok
}

// RuleCount returns the number of active rules.
func (t *Table) RuleCount() int { return len(t.rules) }
