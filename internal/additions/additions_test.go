package additions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

func additionTable(rows []map[string]string) types.Table {
	return types.Table{
		Name:    "ADDITION",
		Headers: []string{ColTrigger, ColCompanion, ColMode, ColQuantity},
		Rows:    rows,
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeMatched, ParseMode("MATCHED"))
	assert.Equal(t, ModeMatched, ParseMode("matched"))
	assert.Equal(t, ModeMatched, ParseMode("  Matched  "))
	assert.Equal(t, ModeFixed, ParseMode("FIXED"))
	assert.Equal(t, ModeFixed, ParseMode(""))
	assert.Equal(t, ModeFixed, ParseMode("nonsense"))
}

func TestBuild_MissingColumnsFail(t *testing.T) {
	_, err := Build(types.Table{Name: "ADDITION", Headers: []string{ColTrigger}})

	var schemaErr *types.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "ADDITION", schemaErr.Table)
	assert.Equal(t, []string{ColCompanion}, schemaErr.Missing)
}

func TestBuild_Rules(t *testing.T) {
	table, err := Build(additionTable([]map[string]string{
		{ColTrigger: "NECTAR-30", ColCompanion: "NECTAR-DROPPER", ColMode: "FIXED", ColQuantity: "2"},
		{ColTrigger: "LAV-10ML", ColCompanion: "SAMPLE", ColMode: "MATCHED", ColQuantity: ""},
		{ColTrigger: "", ColCompanion: "IGNORED"},
		{ColTrigger: "IGNORED", ColCompanion: ""},
	}))
	require.NoError(t, err)

	assert.Equal(t, 2, table.RuleCount())

	rule, ok := table.GetRule("NECTAR-30")
	require.True(t, ok)
	assert.Equal(t, Rule{Trigger: "NECTAR-30", Companion: "NECTAR-DROPPER", Mode: ModeFixed, Quantity: 2}, rule)

	rule, ok = table.GetRule("LAV-10ML")
	require.True(t, ok)
	assert.Equal(t, ModeMatched, rule.Mode)
	assert.Equal(t, 1, rule.Quantity)

	assert.False(t, table.HasRule("UNKNOWN"))
}

func TestBuild_LastRuleWinsPerTrigger(t *testing.T) {
	table, err := Build(additionTable([]map[string]string{
		{ColTrigger: "NECTAR-30", ColCompanion: "OLD-DROPPER", ColMode: "FIXED", ColQuantity: "1"},
		{ColTrigger: "NECTAR-30", ColCompanion: "NEW-DROPPER", ColMode: "MATCHED", ColQuantity: "1"},
	}))
	require.NoError(t, err)

	require.Equal(t, 1, table.RuleCount())
	rule, _ := table.GetRule("NECTAR-30")
	assert.Equal(t, "NEW-DROPPER", rule.Companion)
	assert.Equal(t, ModeMatched, rule.Mode)
}

func TestBuild_MalformedQuantityDefaults(t *testing.T) {
	table, err := Build(additionTable([]map[string]string{
		{ColTrigger: "A", ColCompanion: "B", ColQuantity: "several"},
		{ColTrigger: "C", ColCompanion: "D", ColQuantity: "-2"},
	}))
	require.NoError(t, err)

	a, _ := table.GetRule("A")
	c, _ := table.GetRule("C")
	assert.Equal(t, 1, a.Quantity)
	assert.Equal(t, 1, c.Quantity)
}
