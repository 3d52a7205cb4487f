// =============================================================================
// Order Set Decoder - Reference Catalog
// =============================================================================
//
// This module builds the in-memory reference catalog from the PRODUCTS and
// SETS sheets of the master workbook:
//   - Product directory: SKU → display name + physical unit count
//   - Bundle directory:  set SKU → ordered component list with multiplicities
//
// The catalog is built once per load and never mutated afterwards; a reload
// replaces it wholesale. Because nothing is written after Build returns, a
// single catalog may be shared across concurrent processing runs.
//
// LOAD TOLERANCE:
//   Only missing columns are fatal (SchemaError). Malformed individual cells
//   degrade to defaults: non-numeric unit counts and multiplicities become 1,
//   duplicate product SKUs keep the first occurrence, blank component cells
//   are dropped. A set whose component cells are all blank stays in the
//   bundle directory as a declared-but-empty bundle; the validator flags any
//   order line that references one.
//
// =============================================================================

package catalog

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

// =============================================================================
// SHEET COLUMNS
// =============================================================================

// Column names of the PRODUCTS sheet.
const (
	ColProductName = "Products_Name"
	ColProductSKU  = "SKU"
	ColProductQty  = "Quantity_Product"
)

// Column names of the SETS sheet. SET_QUANTITY is optional.
const (
	ColSetName      = "SET_Name"
	ColSetSKU       = "SET_SKU"
	ColSetComponent = "SKUs_in_SET"
	ColSetQty       = "SET_QUANTITY"
)

var (
	requiredProductColumns = []string{ColProductName, ColProductSKU, ColProductQty}
	requiredSetColumns     = []string{ColSetName, ColSetSKU, ColSetComponent}
)

// =============================================================================
// CATALOG TYPES
// =============================================================================

// Product is one entry of the product directory.
type Product struct {
	// Name is the display name used on decoded lines.
	Name string

	// UnitCount is the number of physical units one SKU represents.
	// Defaults to 1 when the sheet cell is missing or non-numeric.
	UnitCount int
}

// Component is one entry of a bundle's ordered component list.
type Component struct {
	// SKU is the component product SKU.
	SKU string

	// Multiplicity is how many of this component one set contains.
	// Defaults to 1 when SET_QUANTITY is absent or non-numeric.
	Multiplicity int
}

// Catalog holds the product and bundle directories. Immutable after Build.
type Catalog struct {
	products map[string]Product
	bundles  map[string][]Component
}

// =============================================================================
// BUILD
// =============================================================================

// Build constructs a Catalog from the PRODUCTS and SETS tables.
//
// Returns a *types.SchemaError if either table is missing required columns;
// never fails on malformed individual cells.
func Build(products, sets types.Table) (*Catalog, error) {
	if missing := products.MissingColumns(requiredProductColumns); len(missing) > 0 {
		return nil, &types.SchemaError{Table: tableName(products, "PRODUCTS"), Missing: missing}
	}
	if missing := sets.MissingColumns(requiredSetColumns); len(missing) > 0 {
		return nil, &types.SchemaError{Table: tableName(sets, "SETS"), Missing: missing}
	}

	c := &Catalog{
		products: make(map[string]Product, len(products.Rows)),
		bundles:  make(map[string][]Component),
	}

	// Product directory. Duplicate SKUs keep the first occurrence.
	for _, row := range products.Rows {
		sku := strings.TrimSpace(row[ColProductSKU])
		if sku == "" {
			continue
		}
		if _, exists := c.products[sku]; exists {
			continue
		}
		c.products[sku] = Product{
			Name:      row[ColProductName],
			UnitCount: parsePositiveInt(row[ColProductQty], 1),
		}
	}

	// Bundle directory. Rows are grouped by SET_SKU; component order within
	// a group follows sheet row order. Blank component cells are dropped
	// but the set itself stays declared.
	for _, row := range sets.Rows {
		setSKU := strings.TrimSpace(row[ColSetSKU])
		if setSKU == "" {
			continue
		}
		if _, exists := c.bundles[setSKU]; !exists {
			c.bundles[setSKU] = []Component{}
		}
		componentSKU := strings.TrimSpace(row[ColSetComponent])
		if componentSKU == "" {
			continue
		}
		c.bundles[setSKU] = append(c.bundles[setSKU], Component{
			SKU:          componentSKU,
			Multiplicity: parsePositiveInt(row[ColSetQty], 1),
		})
	}

	return c, nil
}

// =============================================================================
// LOOKUPS
// =============================================================================

// LookupProduct returns the product directory entry for a SKU.
func (c *Catalog) LookupProduct(sku string) (Product, bool) {
	p, ok := c.products[strings.TrimSpace(sku)]
	return p, ok
}

// ProductName returns the display name for a SKU, falling back to the SKU
// itself when the product directory has no entry.
func (c *Catalog) ProductName(sku string) string {
	if p, ok := c.LookupProduct(sku); ok {
		return p.Name
	}
	return strings.TrimSpace(sku)
}

// UnitCount returns the physical unit count for a SKU, defaulting to 1 when
// the product directory has no entry.
func (c *Catalog) UnitCount(sku string) int {
	if p, ok := c.LookupProduct(sku); ok {
		return p.UnitCount
	}
	return 1
}

// LookupBundle returns the ordered component list for a set SKU. A declared
// set with no valid component rows returns an empty (non-nil) list with
// ok=true; an unknown SKU returns ok=false.
func (c *Catalog) LookupBundle(sku string) ([]Component, bool) {
	components, ok := c.bundles[strings.TrimSpace(sku)]
	return components, ok
}

// IsBundle reports whether a SKU is declared in the bundle directory,
// including declared-but-empty bundles.
func (c *Catalog) IsBundle(sku string) bool {
	_, ok := c.bundles[strings.TrimSpace(sku)]
	return ok
}

// ProductCount returns the number of product directory entries.
func (c *Catalog) ProductCount() int { return len(c.products) }

// BundleCount returns the number of bundle directory entries.
func (c *Catalog) BundleCount() int { return len(c.bundles) }

// =============================================================================
// HELPERS
// =============================================================================

// parsePositiveInt parses a cell as a positive integer, returning def when
// the cell is blank, non-numeric, or not positive.
func parsePositiveInt(cell string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// tableName prefers the loaded table's own name for error messages.
func tableName(t types.Table, fallback string) string {
	if t.Name != "" {
		return t.Name
	}
	return fallback
}
