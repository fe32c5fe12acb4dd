package server

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/tailplay/internal/catalog"
	"github.com/conneroisu/tailplay/internal/preview"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:0;color:#1f2937;background:#f9fafb}
header{background:#111827;color:#fff;padding:1rem 2rem;display:flex;gap:1.5rem;align-items:center}
header a{color:#d1d5db;text-decoration:none}header a:hover{color:#fff}
main{padding:2rem;max-width:72rem;margin:0 auto}
textarea{width:100%;min-height:10rem;font-family:ui-monospace,monospace;font-size:.875rem;box-sizing:border-box}
pre{background:#111827;color:#e5e7eb;padding:1rem;border-radius:.5rem;overflow:auto;white-space:pre-wrap}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(20rem,1fr));gap:1rem}
.card{background:#fff;border-radius:.5rem;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.tag{display:inline-block;background:#e5e7eb;border-radius:9999px;padding:0 .5rem;margin-right:.25rem;font-size:.75rem}
.panels{display:grid;grid-template-columns:1fr 1fr 1fr;gap:1rem}
iframe{width:100%;height:24rem;border:1px solid #d1d5db;border-radius:.5rem;background:#fff}
button{background:#2563eb;color:#fff;border:0;border-radius:.375rem;padding:.5rem 1rem;cursor:pointer}`

// layout wraps body in the shared page chrome.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n" +
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n" +
			"<title>" + templ.EscapeString(title) + " - tailplay</title>\n<style>" + pageStyle + "</style>\n</head>\n<body>\n" +
			"<header><strong>tailplay</strong><a href=\"/\">Converter</a><a href=\"/examples\">Examples</a><a href=\"/playground\">Playground</a></header>\n<main>\n"
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}

func indexPage(sample string) templ.Component {
	return layout("Converter", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Tailwind to CSS</h1>
<p>Paste markup that uses <code>className</code> utilities and convert it to plain HTML, CSS and JavaScript.</p>
<textarea id="markup">`+templ.EscapeString(sample)+`</textarea>
<p><button id="convert">Convert</button></p>
<h2>HTML</h2><pre id="html"></pre>
<h2>CSS</h2><pre id="css"></pre>
<h2>JavaScript</h2><pre id="js"></pre>
<script>
document.getElementById('convert').addEventListener('click', async () => {
  const res = await fetch('/api/convert', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({markup: document.getElementById('markup').value})
  });
  const out = await res.json();
  for (const k of ['html', 'css', 'js']) document.getElementById(k).textContent = out[k] || '';
});
</script>`)
		return err
	}))
}

func examplesPage(entries []catalog.Snippet, query, tag string) templ.Component {
	return layout("Examples", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Examples</h1>
<form method="get" action="/examples"><input name="q" placeholder="Search" value="` + templ.EscapeString(query) + `">
<input name="tag" placeholder="Tag" value="` + templ.EscapeString(tag) + `"> <button type="submit">Filter</button></form>
<div class="grid">`)
		for _, sn := range entries {
			id := templ.EscapeString(sn.ID)
			b.WriteString("\n<div class=\"card\" id=\"" + id + "\">")
			b.WriteString("<h2>" + templ.EscapeString(sn.Title) + "</h2>")
			b.WriteString("<p>" + templ.EscapeString(sn.Description) + "</p><p>")
			for _, t := range sn.Tags {
				b.WriteString(`<a class="tag" href="/examples?tag=` + templ.EscapeString(t) + `">` + templ.EscapeString(t) + "</a>")
			}
			b.WriteString("</p><pre>" + templ.EscapeString(sn.Markup()) + "</pre>")
			b.WriteString(`<a href="/api/examples/` + id + `/preview">Preview</a> | <a href="/playground?snippet=` + id + `">Open in playground</a>`)
			b.WriteString("</div>")
		}
		if len(entries) == 0 {
			b.WriteString("\n<p>No examples match.</p>")
		}
		b.WriteString("\n</div>")
		_, err := io.WriteString(w, b.String())
		return err
	}))
}

func playgroundPage(templates []catalog.Snippet, selected string, panels preview.Panels) templ.Component {
	return layout("Playground", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Playground</h1>
<form method="get" action="/playground"><select name="snippet" onchange="this.form.submit()">`)
		for _, sn := range templates {
			attr := ""
			if sn.ID == selected {
				attr = " selected"
			}
			b.WriteString(`<option value="` + templ.EscapeString(sn.ID) + `"` + attr + ">" + templ.EscapeString(sn.Title) + "</option>")
		}
		b.WriteString(`</select></form>
<div class="panels">
<label>HTML<textarea id="html">` + templ.EscapeString(panels.HTML) + `</textarea></label>
<label>CSS<textarea id="css">` + templ.EscapeString(panels.CSS) + `</textarea></label>
<label>JavaScript<textarea id="js">` + templ.EscapeString(panels.JS) + `</textarea></label>
</div>
<h2>Preview</h2>
<iframe id="preview" sandbox="allow-scripts"></iframe>
<script>
(() => {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/ws');
  const frame = document.getElementById('preview');
  let seq = 0, timer;
  const send = () => {
    if (ws.readyState !== WebSocket.OPEN) return;
    const panels = {};
    for (const k of ['html', 'css', 'js']) panels[k] = document.getElementById(k).value;
    ws.send(JSON.stringify({type: 'preview', id: String(++seq), panels}));
  };
  ws.addEventListener('open', send);
  ws.addEventListener('message', (ev) => {
    const msg = JSON.parse(ev.data);
    if (msg.type === 'document' && msg.id === String(seq)) frame.srcdoc = msg.document;
  });
  for (const k of ['html', 'css', 'js']) {
    document.getElementById(k).addEventListener('input', () => { clearTimeout(timer); timer = setTimeout(send, 250); });
  }
})();
</script>`)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sample := `<button className="px-4 py-2 bg-blue-500 text-white rounded" onClick={save}>Save</button>`
	if sn, err := s.catalog.Get("gradient-button"); err == nil {
		sample = sn.Code
	}
	s.renderPage(w, r, indexPage(sample))
}

func (s *Server) handleExamplesPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q, tag := query.Get("q"), query.Get("tag")
	s.renderPage(w, r, examplesPage(s.catalog.Filter(q, tag), q, tag))
}

// handlePlaygroundPage opens the editor on ?snippet=<id>, defaulting to the
// first template. Examples open converted.
func (s *Server) handlePlaygroundPage(w http.ResponseWriter, r *http.Request) {
	var templates []catalog.Snippet
	for _, sn := range s.catalog.All() {
		if sn.Kind == catalog.KindTemplate {
			templates = append(templates, sn)
		}
	}

	id := r.URL.Query().Get("snippet")
	if id == "" && len(templates) > 0 {
		id = templates[0].ID
	}

	var panels preview.Panels
	if id != "" {
		sn, err := s.catalog.Get(id)
		if err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		panels = s.panelsFor(sn)
		if sn.Kind != catalog.KindTemplate {
			templates = append([]catalog.Snippet{sn}, templates...)
		}
	}

	s.renderPage(w, r, playgroundPage(templates, id, panels))
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "Failed to render page", "path", r.URL.Path)
	}
}
