// Package preview composes conversion results and playground panels into a
// standalone HTML document, the page the playground loads into its iframe.
package preview

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/tailplay/internal/convert"
)

// Panels are the three editor panels of the playground.
type Panels struct {
	HTML string `json:"html" msgpack:"html"`
	CSS  string `json:"css" msgpack:"css"`
	JS   string `json:"js" msgpack:"js"`
}

// FromResult returns the panels for a conversion result. When wrap is set
// the html is placed inside an element carrying the component class, so the
// generated rule and click script have something to target after the class
// attributes were removed.
func FromResult(res convert.Result, wrap bool) Panels {
	html := res.HTML
	if wrap {
		html = `<div class="` + convert.ComponentClass + `">` + "\n" + html + "\n</div>"
	}
	return Panels{HTML: html, CSS: res.CSS, JS: res.JS}
}

// Document renders a full HTML page for the panels. The html panel is
// inserted verbatim; css and js are placed in style and script elements.
func Document(title string, p Panels) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n"+
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<title>"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</title>\n<style>\n"+closeSafe(p.CSS, "style")+"\n</style>\n</head>\n<body>\n"); err != nil {
			return err
		}
		if err := templ.Raw(p.HTML).Render(ctx, w); err != nil {
			return err
		}
		if strings.TrimSpace(p.JS) != "" {
			if _, err := io.WriteString(w, "\n<script>\n"+closeSafe(p.JS, "script")+"\n</script>"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
}

// Render renders the document into a string.
func Render(ctx context.Context, title string, p Panels) (string, error) {
	var buf bytes.Buffer
	if err := Document(title, p).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// closeSafe keeps text from terminating its raw-text element early.
func closeSafe(text, element string) string {
	closing := "</" + element
	if !strings.Contains(strings.ToLower(text), closing) {
		return text
	}
	var b strings.Builder
	lower := strings.ToLower(text)
	for {
		i := strings.Index(lower, closing)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		b.WriteString(`<\/`)
		b.WriteString(text[i+2 : i+len(closing)])
		text = text[i+len(closing):]
		lower = lower[i+len(closing):]
	}
}
