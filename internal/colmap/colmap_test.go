package colmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

func TestApply_RenamesAndBackfills(t *testing.T) {
	mapper := New(map[string]string{
		"Order Number": types.ColOrderID,
		"SKU":          types.ColSKU,
		"Qty":          types.ColQuantity,
		"Item Cost":    types.ColPrice,
	})

	batch := &types.Batch{
		Headers: []string{"Order Number", "SKU", "Qty", "Item Cost"},
		Lines: []types.Line{
			{Row: 2, Fields: map[string]string{
				"Order Number": "1001", "SKU": "LAV-10ML", "Qty": "2", "Item Cost": "9.95",
			}},
		},
	}

	out, err := mapper.Apply(batch)
	require.NoError(t, err)

	assert.Equal(t, "1001", out.Lines[0].OrderID())
	assert.Equal(t, "LAV-10ML", out.Lines[0].SKU())
	assert.Equal(t, 2, out.Lines[0].Quantity())

	// Unmapped standard columns get safe defaults.
	assert.True(t, out.HasColumn(types.ColDiscount))
	assert.Equal(t, "0", out.Lines[0].Get(types.ColDiscount))
	assert.True(t, out.HasColumn(types.ColItemName))
	assert.Equal(t, "", out.Lines[0].Get(types.ColItemName))

	// The input batch is untouched.
	assert.Equal(t, []string{"Order Number", "SKU", "Qty", "Item Cost"}, batch.Headers)
}

func TestApply_EmptyMappingPassesStandardExport(t *testing.T) {
	batch := &types.Batch{
		Headers: []string{types.ColOrderID, types.ColSKU, types.ColQuantity, types.ColPrice},
		Lines: []types.Line{
			{Fields: map[string]string{
				types.ColOrderID: "#1", types.ColSKU: "X",
				types.ColQuantity: "1", types.ColPrice: "5.00",
			}},
		},
	}

	out, err := New(nil).Apply(batch)
	require.NoError(t, err)
	assert.Equal(t, "#1", out.Lines[0].OrderID())
}

func TestApply_MissingRequiredAfterMappingFails(t *testing.T) {
	batch := &types.Batch{
		Headers: []string{"Order Number", "SKU"},
		Lines:   []types.Line{{Fields: map[string]string{"Order Number": "1001", "SKU": "X"}}},
	}

	_, err := New(map[string]string{"Order Number": types.ColOrderID}).Apply(batch)

	var schemaErr *types.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "orders", schemaErr.Table)
	assert.Contains(t, schemaErr.Missing, types.ColSKU)
}

func TestDetectPlatform(t *testing.T) {
	assert.Equal(t, "shopify", DetectPlatform([]string{"Name", "Lineitem sku", "Lineitem quantity"}))
	assert.Equal(t, "woocommerce", DetectPlatform([]string{"Order Number", "SKU", "Qty"}))
	assert.Equal(t, "unknown", DetectPlatform([]string{"id", "stuff"}))
}
