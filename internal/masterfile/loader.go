// =============================================================================
// Order Set Decoder - Master Workbook Loader
// =============================================================================
//
// This module loads the reference workbook (XLSX) that drives a processing
// run. The workbook carries up to three sheets:
//
//   PRODUCTS - required; the product directory
//   SETS     - required; the bundle definitions
//   ADDITION - optional; companion rules (absent sheet = no rules)
//
// Loading only reads the raw sheets into generic tables; interpretation and
// schema checks happen in catalog and additions respectively.
//
// =============================================================================

package masterfile

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

// Sheet names expected in the master workbook.
const (
	SheetProducts = "PRODUCTS"
	SheetSets     = "SETS"
	SheetAddition = "ADDITION"
)

// Master holds the raw sheets of one workbook. Addition is nil when the
// workbook has no ADDITION sheet.
type Master struct {
	Products types.Table
	Sets     types.Table
	Addition *types.Table

	// Path is the workbook the sheets were loaded from.
	Path string
}

// Load opens an XLSX workbook and extracts the reference sheets. The
// PRODUCTS and SETS sheets must exist; ADDITION is optional.
func Load(path string) (*Master, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open master file %s: %w", path, err)
	}
	defer f.Close()

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	for _, required := range []string{SheetProducts, SheetSets} {
		if !sheets[required] {
			return nil, fmt.Errorf("master file %s has no %s sheet", path, required)
		}
	}

	m := &Master{Path: path}

	if m.Products, err = sheetTable(f, SheetProducts); err != nil {
		return nil, err
	}
	if m.Sets, err = sheetTable(f, SheetSets); err != nil {
		return nil, err
	}
	if sheets[SheetAddition] {
		addition, err := sheetTable(f, SheetAddition)
		if err != nil {
			return nil, err
		}
		m.Addition = &addition
	}

	return m, nil
}

// sheetTable reads one sheet into a Table: first row is the header, cells
// are trimmed, and rows with no non-empty cell are skipped. Short rows are
// padded so every header has a value.
func sheetTable(f *excelize.File, sheet string) (types.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return types.Table{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return types.Table{Name: sheet}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := types.Table{Name: sheet, Headers: headers}

	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		empty := true
		for i, header := range headers {
			var cell string
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			if cell != "" {
				empty = false
			}
			record[header] = cell
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
