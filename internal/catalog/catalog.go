package catalog

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/tailplay/internal/errors"
)

// Catalog is an ordered, ID-indexed set of snippets. Readers may call it
// concurrently with Replace.
type Catalog struct {
	mu      sync.RWMutex
	entries []Snippet
	byID    map[string]int
}

// New creates a catalog from entries. Entries are expected to be normalized
// and unique; use a Loader to build them from files.
func New(entries []Snippet) *Catalog {
	c := &Catalog{}
	c.Replace(entries)
	return c
}

// Replace swaps the catalog contents atomically.
func (c *Catalog) Replace(entries []Snippet) {
	copied := make([]Snippet, len(entries))
	copy(copied, entries)

	byID := make(map[string]int, len(copied))
	for i, s := range copied {
		byID[s.ID] = i
	}

	c.mu.Lock()
	c.entries = copied
	c.byID = byID
	c.mu.Unlock()
}

// Len returns the number of snippets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// All returns every snippet in catalog order.
func (c *Catalog) All() []Snippet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Snippet, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get returns the snippet with id.
func (c *Catalog) Get(id string) (Snippet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return Snippet{}, errors.ErrSnippetNotFound(id)
	}
	return c.entries[i], nil
}

// Filter returns the snippets whose title, description or tags contain
// query (case-insensitive) and that carry tag, when tag is set. Empty
// arguments match everything. Results keep catalog order.
func (c *Catalog) Filter(query, tag string) []Snippet {
	query = fold(strings.TrimSpace(query))
	tag = cases.Lower(language.Und).String(strings.TrimSpace(tag))

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Snippet, 0, len(c.entries))
	for _, s := range c.entries {
		if s.hasTag(tag) && s.matches(query) {
			out = append(out, s)
		}
	}
	return out
}

// Tags returns every distinct tag, sorted.
func (c *Catalog) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	for _, s := range c.entries {
		for _, t := range s.Tags {
			seen[t] = true
		}
	}

	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
