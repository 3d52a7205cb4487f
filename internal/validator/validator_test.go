package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-set-decoder/internal/additions"
	"github.com/ginjaninja78/order-set-decoder/internal/catalog"
	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Build(
		types.Table{
			Name:    "PRODUCTS",
			Headers: []string{catalog.ColProductName, catalog.ColProductSKU, catalog.ColProductQty},
			Rows: []map[string]string{
				{catalog.ColProductName: "Lavender Oil", catalog.ColProductSKU: "LAV-10ML", catalog.ColProductQty: "1"},
			},
		},
		types.Table{
			Name:    "SETS",
			Headers: []string{catalog.ColSetName, catalog.ColSetSKU, catalog.ColSetComponent},
			Rows: []map[string]string{
				{catalog.ColSetName: "Relax Set", catalog.ColSetSKU: "SET-RELAX", catalog.ColSetComponent: "LAV-10ML"},
				{catalog.ColSetName: "Ghost Set", catalog.ColSetSKU: "SET-GHOST", catalog.ColSetComponent: ""},
			},
		},
	)
	require.NoError(t, err)
	return cat
}

func line(row int, orderID, sku, qty, price string) types.Line {
	return types.Line{
		Row: row,
		Fields: map[string]string{
			types.ColOrderID:  orderID,
			types.ColSKU:      sku,
			types.ColQuantity: qty,
			types.ColItemName: sku,
			types.ColPrice:    price,
		},
	}
}

func batch(lines ...types.Line) *types.Batch {
	return &types.Batch{
		Headers: []string{types.ColOrderID, types.ColSKU, types.ColQuantity, types.ColItemName, types.ColPrice},
		Lines:   lines,
	}
}

func findingCodes(fs []Finding) []string {
	codes := make([]string, len(fs))
	for i, f := range fs {
		codes[i] = f.Code
	}
	return codes
}

func TestValidate_CleanBatch(t *testing.T) {
	report := Validate(batch(line(2, "#1", "LAV-10ML", "2", "9.95")), testCatalog(t), nil)

	assert.False(t, report.HasCritical())
	assert.Empty(t, report.Warnings())
}

func TestValidate_MissingColumnsIsCriticalAndStops(t *testing.T) {
	b := &types.Batch{
		Headers: []string{types.ColOrderID},
		Lines:   []types.Line{{Fields: map[string]string{types.ColOrderID: "#1"}}},
	}

	report := Validate(b, testCatalog(t), nil)

	require.True(t, report.HasCritical())
	require.Len(t, report.Findings, 1)
	assert.Equal(t, CodeMissingColumn, report.Findings[0].Code)
}

func TestValidate_EmptyBundleReferenceIsCritical(t *testing.T) {
	report := Validate(batch(line(2, "#1", "SET-GHOST", "1", "10.00")), testCatalog(t), nil)

	critical := report.Critical()
	require.Len(t, critical, 1)
	assert.Equal(t, CodeEmptyBundle, critical[0].Code)
	assert.Equal(t, "SET-GHOST", critical[0].SKU)
	assert.Equal(t, 2, critical[0].Row)
}

func TestValidate_DegradedCellsAreWarnings(t *testing.T) {
	report := Validate(batch(
		line(2, "#1", "", "1", "9.95"),
		line(3, "#1", "LAV-10ML", "lots", "9.95"),
		line(4, "#1", "LAV-10ML", "1", "free"),
	), testCatalog(t), nil)

	assert.False(t, report.HasCritical())
	codes := findingCodes(report.Warnings())
	assert.Contains(t, codes, CodeBlankSKU)
	assert.Contains(t, codes, CodeBadQuantity)
	assert.Contains(t, codes, CodeBadPrice)
	assert.Contains(t, codes, CodeDuplicateLine)
}

func TestValidate_DuplicateScopedToOrder(t *testing.T) {
	report := Validate(batch(
		line(2, "#1", "LAV-10ML", "1", "9.95"),
		line(3, "#2", "LAV-10ML", "1", "9.95"),
	), testCatalog(t), nil)

	assert.NotContains(t, findingCodes(report.Warnings()), CodeDuplicateLine)
}

func TestValidate_InfoCounts(t *testing.T) {
	rules, err := additions.Build(types.Table{
		Name:    "ADDITION",
		Headers: []string{additions.ColTrigger, additions.ColCompanion},
		Rows: []map[string]string{
			{additions.ColTrigger: "LAV-10ML", additions.ColCompanion: "DROPPER"},
		},
	})
	require.NoError(t, err)

	report := Validate(batch(
		line(2, "#1", "SET-RELAX", "1", "29.99"),
		line(3, "#1", "LAV-10ML", "1", "9.95"),
	), testCatalog(t), rules)

	codes := findingCodes(report.Infos())
	assert.Contains(t, codes, CodeBundleLines)
	assert.Contains(t, codes, CodeRulesArmed)
}

func TestReport_Format(t *testing.T) {
	empty := &Report{}
	assert.Equal(t, "No validation findings", empty.Format())

	report := Validate(batch(line(2, "#1", "SET-GHOST", "x", "10.00")), testCatalog(t), nil)
	out := report.Format()
	assert.Contains(t, out, "[CRITICAL]")
	assert.Contains(t, out, "[WARNING]")
	assert.Contains(t, out, "(row 2)")
}
