// Package catalog holds the style snippets offered by the playground: the
// built-in examples and starter templates plus any YAML snippet files found
// under the configured catalog paths.
package catalog

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/errors"
)

// Kind distinguishes convertible markup from ready-made playground starters.
type Kind string

const (
	// KindExample is markup written with className attributes.
	KindExample Kind = "example"
	// KindTemplate is a plain html/css/js starter for the playground editor.
	KindTemplate Kind = "template"
)

// Snippet is one catalog entry.
type Snippet struct {
	ID          string   `json:"id" yaml:"id" msgpack:"id"`
	Title       string   `json:"title" yaml:"title" msgpack:"title"`
	Description string   `json:"description" yaml:"description" msgpack:"description"`
	Code        string   `json:"code,omitempty" yaml:"code,omitempty" msgpack:"code,omitempty"`
	Tags        []string `json:"tags" yaml:"tags" msgpack:"tags"`
	Kind        Kind     `json:"kind" yaml:"kind" msgpack:"kind"`
	Element     string   `json:"element,omitempty" yaml:"element,omitempty" msgpack:"element,omitempty"`

	// Template panels, empty for examples.
	HTML string `json:"html,omitempty" yaml:"html,omitempty" msgpack:"html,omitempty"`
	CSS  string `json:"css,omitempty" yaml:"css,omitempty" msgpack:"css,omitempty"`
	JS   string `json:"js,omitempty" yaml:"js,omitempty" msgpack:"js,omitempty"`

	// Source is the file the snippet was loaded from.
	Source string `json:"-" yaml:"-" msgpack:"-"`
}

// Casers carry state and are not shared between goroutines.
func fold(s string) string { return cases.Fold().String(s) }

// Markup returns the text the snippet renders: the example code, or the
// html panel of a template.
func (s Snippet) Markup() string {
	if s.Kind == KindTemplate {
		return s.HTML
	}
	return s.Code
}

// Convert returns the conversion result of the snippet. Templates are
// already plain html, css and js and pass through unchanged.
func (s Snippet) Convert(engine convert.Engine) convert.Result {
	if s.Kind == KindTemplate {
		return convert.Result{HTML: s.HTML, CSS: s.CSS, JS: s.JS}
	}
	return engine.Convert(s.Code)
}

// normalize fills derived fields and validates the snippet.
func (s *Snippet) normalize() error {
	s.ID = strings.TrimSpace(s.ID)
	if s.ID == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidSnippet, "snippet has no id").
			WithFile(s.Source)
	}
	if strings.ContainsAny(s.ID, " /\\?#") {
		return errors.NewValidationError(errors.ErrCodeInvalidSnippet, "snippet id must be a URL-safe slug: "+s.ID).
			WithFile(s.Source)
	}

	if s.Kind == "" {
		s.Kind = KindExample
		if s.Code == "" && s.HTML != "" {
			s.Kind = KindTemplate
		}
	}

	switch s.Kind {
	case KindExample:
		if strings.TrimSpace(s.Code) == "" {
			return errors.NewValidationError(errors.ErrCodeInvalidSnippet, "example has no code: "+s.ID).
				WithFile(s.Source)
		}
	case KindTemplate:
		if strings.TrimSpace(s.HTML) == "" {
			return errors.NewValidationError(errors.ErrCodeInvalidSnippet, "template has no html: "+s.ID).
				WithFile(s.Source)
		}
	default:
		return errors.NewValidationError(errors.ErrCodeInvalidSnippet, "unknown snippet kind: "+string(s.Kind)).
			WithFile(s.Source).
			WithContext("id", s.ID)
	}

	if strings.TrimSpace(s.Title) == "" {
		s.Title = cases.Title(language.English).String(strings.ReplaceAll(s.ID, "-", " "))
	}

	lower := cases.Lower(language.Und)
	tags := make([]string, 0, len(s.Tags))
	seen := make(map[string]bool, len(s.Tags))
	for _, tag := range s.Tags {
		tag = lower.String(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	s.Tags = tags

	s.Element = rootElement(s.Markup())

	return nil
}

// rootElement returns the name of the first start tag in markup, or "" when
// there is none. Only the tag name is read; attribute values are ignored.
func rootElement(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			return string(name)
		}
	}
}

// matches reports whether the snippet contains query in its title,
// description or tags, ignoring case.
func (s Snippet) matches(query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(fold(s.Title), query) ||
		strings.Contains(fold(s.Description), query) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(fold(tag), query) {
			return true
		}
	}
	return false
}

func (s Snippet) hasTag(tag string) bool {
	if tag == "" {
		return true
	}
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
