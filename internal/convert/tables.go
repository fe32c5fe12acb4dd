package convert

import "sort"

// TokenTable maps utility tokens to CSS declaration text.
type TokenTable struct {
	entries map[string]string
}

// NewTokenTable creates a table holding a copy of entries.
func NewTokenTable(entries map[string]string) *TokenTable {
	copied := make(map[string]string, len(entries))
	for token, decl := range entries {
		copied[token] = decl
	}
	return &TokenTable{entries: copied}
}

// DefaultTokenTable returns the built-in utility table.
func DefaultTokenTable() *TokenTable {
	return &TokenTable{entries: defaultTokens()}
}

// Lookup returns the declaration for token.
func (t *TokenTable) Lookup(token string) (string, bool) {
	if t == nil {
		return "", false
	}
	decl, ok := t.entries[token]
	return decl, ok
}

// Len returns the number of entries.
func (t *TokenTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Tokens returns all known tokens in sorted order.
func (t *TokenTable) Tokens() []string {
	if t == nil {
		return nil
	}
	return sortedKeys(t.entries)
}

// Merge returns a new table with extra layered over t. Neither input is
// modified.
func (t *TokenTable) Merge(extra map[string]string) *TokenTable {
	merged := make(map[string]string, t.Len()+len(extra))
	if t != nil {
		for token, decl := range t.entries {
			merged[token] = decl
		}
	}
	for token, decl := range extra {
		merged[token] = decl
	}
	return &TokenTable{entries: merged}
}

// ColorTable maps short color aliases such as "blue-500" to hex literals.
type ColorTable struct {
	entries map[string]string
}

// NewColorTable creates a table holding a copy of entries.
func NewColorTable(entries map[string]string) *ColorTable {
	copied := make(map[string]string, len(entries))
	for alias, hex := range entries {
		copied[alias] = hex
	}
	return &ColorTable{entries: copied}
}

// DefaultColorTable returns the built-in color aliases.
func DefaultColorTable() *ColorTable {
	return &ColorTable{entries: defaultColors()}
}

// Lookup returns the hex literal for alias.
func (c *ColorTable) Lookup(alias string) (string, bool) {
	if c == nil {
		return "", false
	}
	hex, ok := c.entries[alias]
	return hex, ok
}

// Resolve returns the hex literal for alias, or alias itself when unknown.
// The fallback can yield invalid CSS such as "blue-450".
func (c *ColorTable) Resolve(alias string) string {
	if hex, ok := c.Lookup(alias); ok {
		return hex
	}
	return alias
}

// Len returns the number of entries.
func (c *ColorTable) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Aliases returns all known aliases in sorted order.
func (c *ColorTable) Aliases() []string {
	if c == nil {
		return nil
	}
	return sortedKeys(c.entries)
}

// Merge returns a new table with extra layered over c.
func (c *ColorTable) Merge(extra map[string]string) *ColorTable {
	merged := make(map[string]string, c.Len()+len(extra))
	if c != nil {
		for alias, hex := range c.entries {
			merged[alias] = hex
		}
	}
	for alias, hex := range extra {
		merged[alias] = hex
	}
	return &ColorTable{entries: merged}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func defaultTokens() map[string]string {
	return map[string]string{
		// Colors
		"bg-white":   "background-color: white;",
		"bg-black":   "background-color: black;",
		"text-white": "color: white;",
		"text-black": "color: black;",

		// Sizing
		"w-full":   "width: 100%;",
		"h-full":   "height: 100%;",
		"max-w-sm": "max-width: 24rem;",

		// Spacing
		"p-4":     "padding: 1rem;",
		"p-6":     "padding: 1.5rem;",
		"px-4":    "padding-left: 1rem; padding-right: 1rem;",
		"py-2":    "padding-top: 0.5rem; padding-bottom: 0.5rem;",
		"m-4":     "margin: 1rem;",
		"mx-auto": "margin-left: auto; margin-right: auto;",

		// Flexbox
		"flex":           "display: flex;",
		"items-center":   "align-items: center;",
		"justify-center": "justify-content: center;",
		"gap-2":          "gap: 0.5rem;",

		// Typography
		"text-sm":   "font-size: 0.875rem; line-height: 1.25rem;",
		"text-lg":   "font-size: 1.125rem; line-height: 1.75rem;",
		"font-bold": "font-weight: 700;",
		"text-xl":   "font-size: 1.25rem; line-height: 1.75rem;",

		// Borders
		"rounded-lg": "border-radius: 0.5rem;",
		"border":     "border-width: 1px;",
		"border-2":   "border-width: 2px;",

		// Effects
		"shadow-md":       "box-shadow: 0 4px 6px -1px rgba(0, 0, 0, 0.1), 0 2px 4px -1px rgba(0, 0, 0, 0.06);",
		"hover:shadow-lg": "&:hover { box-shadow: 0 10px 15px -3px rgba(0, 0, 0, 0.1), 0 4px 6px -2px rgba(0, 0, 0, 0.05); }",

		// Transitions
		"transition-all": "transition-property: all; transition-timing-function: cubic-bezier(0.4, 0, 0.2, 1); transition-duration: 150ms;",
		"duration-300":   "transition-duration: 300ms;",
	}
}

func defaultColors() map[string]string {
	return map[string]string{
		"blue-500":   "#3b82f6",
		"blue-600":   "#2563eb",
		"purple-600": "#9333ea",
		"purple-700": "#7e22ce",
		"slate-800":  "#1e293b",
		"slate-700":  "#334155",
	}
}
