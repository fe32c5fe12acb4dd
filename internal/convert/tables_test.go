package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenTableCopiesInput(t *testing.T) {
	src := map[string]string{"p-1": "padding: 0.25rem;"}
	table := NewTokenTable(src)

	src["p-1"] = "padding: 9rem;"
	src["p-2"] = "padding: 0.5rem;"

	decl, ok := table.Lookup("p-1")
	require.True(t, ok)
	assert.Equal(t, "padding: 0.25rem;", decl)
	_, ok = table.Lookup("p-2")
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())
}

func TestTokenTableMergeLeavesOriginal(t *testing.T) {
	base := DefaultTokenTable()
	before := base.Len()

	merged := base.Merge(map[string]string{
		"flex": "display: inline-flex;",
		"grid": "display: grid;",
	})

	decl, _ := base.Lookup("flex")
	assert.Equal(t, "display: flex;", decl)
	_, ok := base.Lookup("grid")
	assert.False(t, ok)
	assert.Equal(t, before, base.Len())

	decl, _ = merged.Lookup("flex")
	assert.Equal(t, "display: inline-flex;", decl)
	assert.Equal(t, before+1, merged.Len())
}

func TestDefaultTablesAreIndependent(t *testing.T) {
	a := DefaultTokenTable()
	b := DefaultTokenTable()
	a.entries["flex"] = "mutated"

	decl, _ := b.Lookup("flex")
	assert.Equal(t, "display: flex;", decl)
}

func TestTokenTableTokensSorted(t *testing.T) {
	table := NewTokenTable(map[string]string{"b": "1", "a": "2", "c": "3"})
	assert.Equal(t, []string{"a", "b", "c"}, table.Tokens())
}

func TestNilTables(t *testing.T) {
	var tokens *TokenTable
	var colors *ColorTable

	_, ok := tokens.Lookup("flex")
	assert.False(t, ok)
	assert.Zero(t, tokens.Len())
	assert.Nil(t, tokens.Tokens())
	assert.Equal(t, "red-1", colors.Resolve("red-1"))
	assert.Equal(t, 1, tokens.Merge(map[string]string{"x": "y"}).Len())
}

func TestColorTableResolve(t *testing.T) {
	colors := DefaultColorTable()

	testCases := []struct {
		alias    string
		expected string
	}{
		{"blue-500", "#3b82f6"},
		{"blue-600", "#2563eb"},
		{"purple-600", "#9333ea"},
		{"purple-700", "#7e22ce"},
		{"slate-800", "#1e293b"},
		{"slate-700", "#334155"},
		{"unknown-color", "unknown-color"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.alias, func(t *testing.T) {
			assert.Equal(t, tc.expected, colors.Resolve(tc.alias))
		})
	}
}

func TestColorTableMerge(t *testing.T) {
	colors := DefaultColorTable().Merge(map[string]string{"rose-500": "#f43f5e"})

	assert.Equal(t, "#f43f5e", colors.Resolve("rose-500"))
	assert.Equal(t, "#3b82f6", colors.Resolve("blue-500"))
	assert.Contains(t, colors.Aliases(), "rose-500")
	assert.Equal(t, DefaultColorTable().Len()+1, colors.Len())
}

func TestConverterUsesInjectedTables(t *testing.T) {
	conv := New(Options{
		Tokens: NewTokenTable(map[string]string{"card": "border-radius: 1rem;"}),
		Colors: NewColorTable(map[string]string{"brand": "#123456"}),
	})

	res := conv.Convert(`<div className="card p-4 bg-gradient-to-r from-brand to-blue-500">x</div>`)

	assert.Contains(t, res.CSS, "  border-radius: 1rem;\n")
	assert.NotContains(t, res.CSS, "padding")
	assert.Contains(t, res.CSS, "linear-gradient(to right, #123456, blue-500)")
}
