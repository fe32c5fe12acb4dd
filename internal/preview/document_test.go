package preview

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tailplay/internal/convert"
)

func TestFromResult(t *testing.T) {
	res := convert.Result{HTML: "<button>Click</button>", CSS: "/* c */", JS: "x()"}

	wrapped := FromResult(res, true)
	assert.Equal(t, "<div class=\"component\">\n<button>Click</button>\n</div>", wrapped.HTML)
	assert.Equal(t, res.CSS, wrapped.CSS)
	assert.Equal(t, res.JS, wrapped.JS)

	plain := FromResult(res, false)
	assert.Equal(t, res.HTML, plain.HTML)
}

func TestRender(t *testing.T) {
	conv := convert.New(convert.Options{})
	res := conv.Convert(`<button className="p-4 bg-white" onClick={go}>Click</button>`)

	doc, err := Render(context.Background(), "Button <demo>", FromResult(res, true))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>Button &lt;demo&gt;</title>")
	assert.Contains(t, doc, "<style>\n/* Converted from Tailwind */\n.component {\n  padding: 1rem;\n  background-color: white;\n}\n</style>")
	assert.Contains(t, doc, "<body>\n<div class=\"component\">\n<button onClick=go>Click</button>\n</div>")
	assert.Contains(t, doc, "<script>\n"+convert.ClickScript+"\n</script>")
	assert.True(t, strings.HasSuffix(doc, "</body>\n</html>\n"))
}

func TestRenderWithoutScript(t *testing.T) {
	doc, err := Render(context.Background(), "Empty", Panels{HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.NotContains(t, doc, "<script>")
	assert.Contains(t, doc, "<body>\n<p>hi</p>\n</body>")
}

func TestDocumentComponent(t *testing.T) {
	var buf bytes.Buffer
	err := Document("T", Panels{HTML: "<main></main>", CSS: "main{}", JS: "1"}).Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<main></main>")
}

func TestCloseSafe(t *testing.T) {
	tests := []struct {
		text     string
		element  string
		expected string
	}{
		{"console.log(1)", "script", "console.log(1)"},
		{"a('</script>')", "script", `a('<\/script>')`},
		{"a('</SCRIPT>') + b('</script>')", "script", `a('<\/SCRIPT>') + b('<\/script>')`},
		{"p{} </style> x", "style", `p{} <\/style> x`},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, closeSafe(tt.text, tt.element))
		})
	}
}
