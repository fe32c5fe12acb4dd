package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/errors"
)

func TestBuiltin(t *testing.T) {
	entries := Builtin()
	require.Len(t, entries, 10)

	cat := New(entries)

	button, err := cat.Get("gradient-button")
	require.NoError(t, err)
	assert.Equal(t, "Gradient Button", button.Title)
	assert.Equal(t, KindExample, button.Kind)
	assert.Equal(t, "button", button.Element)
	assert.Contains(t, button.Code, `className="px-4 py-2 bg-gradient-to-r`)
	assert.Equal(t, "builtin/examples.yaml", button.Source)

	empty, err := cat.Get("empty")
	require.NoError(t, err)
	assert.Equal(t, KindTemplate, empty.Kind)
	assert.Equal(t, "div", empty.Element)
	assert.Contains(t, empty.CSS, ".container {")
	assert.Equal(t, "console.log('Hello from JavaScript!');", empty.JS)

	for _, s := range entries {
		assert.NotEmpty(t, s.Title, s.ID)
		assert.NotEmpty(t, s.Description, s.ID)
		assert.NotEmpty(t, s.Tags, s.ID)
		assert.NotEmpty(t, s.Element, s.ID)
	}
}

func TestCatalogGet(t *testing.T) {
	cat := New(Builtin())

	_, err := cat.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCatalogFilter(t *testing.T) {
	cat := New(Builtin())

	tests := []struct {
		name  string
		query string
		tag   string
		ids   []string
	}{
		{"empty arguments match all", "", "", nil},
		{"title substring", "navbar", "", []string{"responsive-navbar", "navbar"}},
		{"case insensitive", "GRADIENT", "", []string{"gradient-button", "button"}},
		{"description substring", "testimonials", "", []string{"testimonial-card"}},
		{"tag filter", "", "card", []string{"card-with-shadow", "testimonial-card", "card"}},
		{"tag filter ignores case", "", "CARD", []string{"card-with-shadow", "testimonial-card", "card"}},
		{"query and tag", "shadow", "card", []string{"card-with-shadow"}},
		{"no match", "carousel", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := cat.Filter(tt.query, tt.tag)
			if tt.ids == nil {
				assert.Len(t, results, cat.Len())
				return
			}
			ids := make([]string, 0, len(results))
			for _, s := range results {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestCatalogTags(t *testing.T) {
	cat := New([]Snippet{
		{ID: "a", Tags: []string{"b", "a"}},
		{ID: "b", Tags: []string{"a", "c"}},
	})
	assert.Equal(t, []string{"a", "b", "c"}, cat.Tags())
}

func TestCatalogReplaceConcurrent(t *testing.T) {
	cat := New(Builtin())
	alt := []Snippet{{ID: "only", Title: "Only", Code: "<p>x</p>", Kind: KindExample}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = cat.Filter("card", "")
				_, _ = cat.Get("only")
			}
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				cat.Replace(alt)
			} else {
				cat.Replace(Builtin())
			}
		}(i)
	}
	wg.Wait()

	n := cat.Len()
	assert.True(t, n == 1 || n == 10)
}

func TestParse(t *testing.T) {
	data := []byte(`snippets:
  - id: pill
    tags: [Badge, badge, " small "]
    code: <span className="px-2 rounded-full">New</span>
  - id: starter
    html: <main>hi</main>
    css: "main { color: red; }"
  - id: ""
    code: <p>x</p>
  - id: bad kind
    code: <p>x</p>
  - id: nocode
    kind: example
  - id: weird
    kind: widget
    code: <p>x</p>
`)

	entries, errs := Parse(data, "snippets/extra.yaml")
	require.Len(t, entries, 2)
	assert.Len(t, errs, 4)

	pill := entries[0]
	assert.Equal(t, "Pill", pill.Title)
	assert.Equal(t, KindExample, pill.Kind)
	assert.Equal(t, []string{"badge", "small"}, pill.Tags)
	assert.Equal(t, "span", pill.Element)
	assert.Equal(t, "snippets/extra.yaml", pill.Source)

	starter := entries[1]
	assert.Equal(t, KindTemplate, starter.Kind)
	assert.Equal(t, "main", starter.Element)
	assert.Equal(t, "<main>hi</main>", starter.Markup())

	for _, err := range errs {
		assert.Equal(t, errors.ErrCodeInvalidSnippet, errors.Code(err))
	}
}

func TestParseMalformed(t *testing.T) {
	entries, errs := Parse([]byte("snippets: [unclosed"), "broken.yaml")
	assert.Empty(t, entries)
	require.Len(t, errs, 1)

	var pe *errors.PlaygroundError
	require.ErrorAs(t, errs[0], &pe)
	assert.Equal(t, "broken.yaml", pe.FilePath)
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml":        {Data: []byte("snippets:\n  - id: one\n    code: <p>1</p>\n")},
		"nested/b.yml":  {Data: []byte("snippets:\n  - id: two\n    code: <div>2</div>\n")},
		"nested/c.txt":  {Data: []byte("not a snippet file")},
		"deep/x/d.yaml": {Data: []byte("snippets:\n  - id: three\n    code: <b>3</b>\n")},
	}

	entries, errs := LoadFS(fsys, "snippets", []string{"**/*.yaml", "**/*.yml"})
	require.Empty(t, errs)

	ids := make([]string, 0, len(entries))
	for _, s := range entries {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"one", "three", "two"}, ids)
	assert.Equal(t, "snippets/nested/b.yml", entries[2].Source)
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "more"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(`snippets:
  - id: alert
    title: Alert
    description: A warning banner
    tags: [feedback]
    code: <div className="p-4 bg-white">Careful</div>
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "more", "dup.yaml"), []byte(`snippets:
  - id: gradient-button
    code: <button>dup</button>
`), 0644))

	loader := &Loader{
		Paths:    []string{dir, filepath.Join(dir, "missing")},
		Patterns: []string{"**/*.yaml"},
		Builtin:  true,
	}

	entries, err := loader.Load()
	require.Error(t, err)
	assert.Len(t, entries, 11)

	cat := New(entries)
	alert, getErr := cat.Get("alert")
	require.NoError(t, getErr)
	assert.Equal(t, "div", alert.Element)

	// the built-in entry wins over the duplicate
	button, getErr := cat.Get("gradient-button")
	require.NoError(t, getErr)
	assert.Equal(t, "builtin/examples.yaml", button.Source)

	assert.Contains(t, err.Error(), "duplicate snippet id: gradient-button")
	assert.Contains(t, err.Error(), "catalog path unavailable")
}

func TestLoaderWithoutBuiltin(t *testing.T) {
	loader := &Loader{Patterns: []string{"**/*.yaml"}}
	entries, err := loader.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoaderMatches(t *testing.T) {
	root := filepath.Join("tmp", "snippets")
	loader := &Loader{Paths: []string{root}, Patterns: []string{"**/*.yaml"}}

	assert.True(t, loader.Matches(filepath.Join(root, "a.yaml")))
	assert.True(t, loader.Matches(filepath.Join(root, "x", "y", "b.yaml")))
	assert.False(t, loader.Matches(filepath.Join(root, "a.txt")))
	assert.False(t, loader.Matches(filepath.Join("tmp", "other", "a.yaml")))
}

func TestRootElement(t *testing.T) {
	tests := map[string]string{
		`<button className="x">Go</button>`:    "button",
		"  \n<!-- note -->\n<img src=\"a\" />": "img",
		"plain text":                           "",
		"":                                     "",
		`<div className={"x"}>{label}</div>`:   "div",
	}
	for markup, expected := range tests {
		assert.Equal(t, expected, rootElement(markup), markup)
	}
}

func TestSnippetConvert(t *testing.T) {
	conv := convert.New(convert.Options{})

	example := Snippet{Kind: KindExample, Code: `<p className="p-4">x</p>`}
	res := example.Convert(conv)
	assert.Equal(t, "<p>x</p>", res.HTML)
	assert.Equal(t, convert.RuleBlock("padding: 1rem;"), res.CSS)

	template := Snippet{Kind: KindTemplate, HTML: `<p className="p-4">x</p>`, CSS: "p{}", JS: "go()"}
	assert.Equal(t, convert.Result{HTML: template.HTML, CSS: "p{}", JS: "go()"}, template.Convert(conv))
}
