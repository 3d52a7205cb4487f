package skugen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Barrier Cream Sample", "BARRIER_CREAM_SAMPLE"},
		{"collapses whitespace runs", "Lavender   Oil\t10ml", "LAVENDER_OIL_10ML"},
		{"strips punctuation", "Chamomile (Roman) - 5%", "CHAMOMILE_ROMAN_5"},
		{"trims edge underscores", "  a--b  ", "AB"},
		{"already clean", "NECTAR-30", "NECTAR30"},
		{"digits kept", "Gift Box 2024", "GIFT_BOX_2024"},
		{"empty name", "", ""},
		{"only punctuation", "!!! ???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Synthesize(tt.input))
		})
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	first := Synthesize("Rose Water Toner")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Synthesize("Rose Water Toner"))
	}
}

func TestIsBlankSKU(t *testing.T) {
	assert.True(t, IsBlankSKU(""))
	assert.True(t, IsBlankSKU("   "))
	assert.True(t, IsBlankSKU("nan"))
	assert.True(t, IsBlankSKU("NaN"))
	assert.True(t, IsBlankSKU("None"))
	assert.True(t, IsBlankSKU("NULL"))
	assert.False(t, IsBlankSKU("LAV-10ML"))
	assert.False(t, IsBlankSKU("0"))
}

func TestPreviewSynthesis(t *testing.T) {
	batch := &types.Batch{
		Headers: []string{types.ColOrderID, types.ColSKU, types.ColItemName},
		Lines: []types.Line{
			{Fields: map[string]string{types.ColSKU: "LAV-10ML", types.ColItemName: "Lavender Oil"}},
			{Fields: map[string]string{types.ColSKU: "", types.ColItemName: "Barrier Cream Sample"}},
			{Fields: map[string]string{types.ColSKU: "nan", types.ColItemName: "Gift Wrap"}},
			{Fields: map[string]string{types.ColSKU: "", types.ColItemName: "???"}},
		},
	}

	preview := PreviewSynthesis(batch)

	assert.Len(t, preview, 2)
	assert.Equal(t, "BARRIER_CREAM_SAMPLE", preview[1])
	assert.Equal(t, "GIFT_WRAP", preview[2])

	// The batch itself stays untouched.
	assert.Equal(t, "", batch.Lines[1].SKU())
}
