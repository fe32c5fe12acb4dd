package convert

import (
	"fmt"
	"regexp"
	"strings"
)

// ComponentClass is the class name the generated CSS rule and click script
// target.
const ComponentClass = "component"

// Header is the comment line that opens every generated stylesheet.
const Header = "/* Converted from Tailwind */"

// GradientMarker is the utility token that switches on gradient detection.
const GradientMarker = "bg-gradient-to-r"

// ClickScript is emitted whenever the markup carries an onClick handler.
// The handler body itself is never translated.
const ClickScript = `// Event handlers
document.querySelector('.component').addEventListener('click', function() {
  // Add your click handler logic here
  console.log('Component clicked!');
});`

// space matches Unicode whitespace; RE2's \s alone is ASCII-only.
const space = `[\s\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

var (
	classAttrPattern      = regexp.MustCompile(`className="([^"]*)"`)
	classAttrStripPattern = regexp.MustCompile(space + `*className="[^"]*"`)
	braceExprPattern      = regexp.MustCompile(`\{([^{}]*)\}`)
	whitespacePattern     = regexp.MustCompile(space + `+`)
	clickHandlerPattern   = regexp.MustCompile(`onClick=\{([^}]*)\}`)
)

// StripPolicy decides what replaces a class attribute in the HTML output.
type StripPolicy int

const (
	// StripRemove deletes the attribute and the whitespace before it.
	StripRemove StripPolicy = iota
	// StripPlaceholder swaps the attribute for class="component".
	StripPlaceholder
)

// String returns the configuration name of the policy.
func (p StripPolicy) String() string {
	switch p {
	case StripRemove:
		return "remove"
	case StripPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// ParseStripPolicy parses a policy name as written in configuration.
// The empty string selects StripRemove.
func ParseStripPolicy(name string) (StripPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "remove":
		return StripRemove, nil
	case "placeholder":
		return StripPlaceholder, nil
	default:
		return StripRemove, fmt.Errorf("unknown strip policy %q (want remove or placeholder)", name)
	}
}

// Result is the output of one conversion.
type Result struct {
	HTML string `json:"html" yaml:"html" msgpack:"html"`
	CSS  string `json:"css" yaml:"css" msgpack:"css"`
	JS   string `json:"js" yaml:"js" msgpack:"js"`
}

// Engine converts markup. Converter and CachedConverter both satisfy it.
type Engine interface {
	Convert(markup string) Result
}

// Options configures a Converter. Nil tables fall back to the defaults.
type Options struct {
	Tokens *TokenTable
	Colors *ColorTable
	Strip  StripPolicy
}

// Converter converts markup fragments. It holds only read-only state and is
// safe for concurrent use.
type Converter struct {
	tokens *TokenTable
	colors *ColorTable
	strip  StripPolicy
}

// New creates a converter.
func New(opts Options) *Converter {
	tokens := opts.Tokens
	if tokens == nil {
		tokens = DefaultTokenTable()
	}
	colors := opts.Colors
	if colors == nil {
		colors = DefaultColorTable()
	}
	return &Converter{
		tokens: tokens,
		colors: colors,
		strip:  opts.Strip,
	}
}

// Tokens returns the token table in use.
func (c *Converter) Tokens() *TokenTable { return c.tokens }

// Colors returns the color table in use.
func (c *Converter) Colors() *ColorTable { return c.colors }

// Policy returns the strip policy in use.
func (c *Converter) Policy() StripPolicy { return c.strip }

// Convert produces the HTML, CSS and JS projections of markup.
func (c *Converter) Convert(markup string) Result {
	declarations := c.ResolveTokens(c.ExtractClassTokens(markup))
	if gradient, ok := c.DetectGradient(markup); ok {
		if declarations != "" {
			declarations += "\n"
		}
		declarations += gradient
	}

	js, _ := DetectClickHandler(markup)

	return Result{
		HTML: c.StripClassSyntax(markup),
		CSS:  RuleBlock(declarations),
		JS:   js,
	}
}

// ExtractClassTokens returns every utility token named in a className
// attribute, in input order with duplicates kept.
func (c *Converter) ExtractClassTokens(markup string) []string {
	matches := classAttrPattern.FindAllStringSubmatch(markup, -1)
	if len(matches) == 0 {
		return []string{}
	}

	tokens := make([]string, 0, len(matches)*4)
	for _, match := range matches {
		tokens = append(tokens, strings.Fields(match[1])...)
	}
	return tokens
}

// ResolveTokens maps tokens through the token table, one declaration per
// line. Unknown tokens are skipped.
func (c *Converter) ResolveTokens(tokens []string) string {
	lines := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if decl, ok := c.tokens.Lookup(token); ok {
			lines = append(lines, decl)
		}
	}
	return strings.Join(lines, "\n")
}

// DetectGradient composes a linear-gradient declaration when the class list
// holds the gradient marker plus from- and to- color stops. The first stop
// of each kind wins; hover: and other variant prefixes are not stops.
func (c *Converter) DetectGradient(markup string) (string, bool) {
	var (
		hasMarker bool
		from, to  string
	)
	for _, token := range c.ExtractClassTokens(markup) {
		switch {
		case token == GradientMarker:
			hasMarker = true
		case from == "" && strings.HasPrefix(token, "from-"):
			from = strings.TrimPrefix(token, "from-")
		case to == "" && strings.HasPrefix(token, "to-"):
			to = strings.TrimPrefix(token, "to-")
		}
	}

	if !hasMarker || from == "" || to == "" {
		return "", false
	}

	return fmt.Sprintf("background: linear-gradient(to right, %s, %s);",
		c.colors.Resolve(from), c.colors.Resolve(to)), true
}

// StripClassSyntax turns markup into a display fragment: simple {expr}
// braces are unwrapped, class attributes are handled per the strip policy,
// whitespace runs collapse to one space and the ends are trimmed.
//
// Braces go first so that className={"x"} cannot reappear as a class
// attribute afterwards. Removal repeats until no attribute is left, since
// deleting one can splice the text around it into another.
func (c *Converter) StripClassSyntax(markup string) string {
	out := braceExprPattern.ReplaceAllString(markup, "$1")

	switch c.strip {
	case StripPlaceholder:
		out = classAttrPattern.ReplaceAllLiteralString(out, `class="`+ComponentClass+`"`)
	default:
		for classAttrPattern.MatchString(out) {
			out = classAttrStripPattern.ReplaceAllLiteralString(out, "")
		}
	}

	out = whitespacePattern.ReplaceAllLiteralString(out, " ")
	return strings.TrimSpace(out)
}

// DetectClickHandler returns ClickScript when markup has an onClick={...}
// attribute.
func DetectClickHandler(markup string) (string, bool) {
	if !clickHandlerPattern.MatchString(markup) {
		return "", false
	}
	return ClickScript, true
}

// RuleBlock wraps declarations in the .component rule under the generated
// header, indenting each line by two spaces.
func RuleBlock(declarations string) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n.")
	b.WriteString(ComponentClass)
	b.WriteString(" {\n")
	if declarations != "" {
		for _, line := range strings.Split(declarations, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("}")
	return b.String()
}
