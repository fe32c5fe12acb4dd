package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tailplay/internal/errors"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// snippetFile is the on-disk layout of a snippet file.
type snippetFile struct {
	Snippets []Snippet `yaml:"snippets"`
}

// Loader discovers snippet files under Paths using doublestar Patterns.
type Loader struct {
	Paths    []string
	Patterns []string
	Builtin  bool
}

// Load reads the built-in snippets (when enabled) followed by every
// matching file under Paths. Invalid snippets and duplicate IDs are skipped;
// the first snippet with a given ID wins. The returned error describes the
// skipped entries and does not invalidate the returned snippets.
func (l *Loader) Load() ([]Snippet, error) {
	var (
		all  []Snippet
		errs []error
	)

	if l.Builtin {
		entries, loadErrs := LoadFS(builtinFS, "", []string{"builtin/*.yaml"})
		all = append(all, entries...)
		errs = append(errs, loadErrs...)
	}

	for _, root := range l.Paths {
		info, err := os.Stat(root)
		if err != nil {
			errs = append(errs, errors.WrapIO(err, errors.ErrCodeFileNotFound, "catalog path unavailable", root))
			continue
		}
		if !info.IsDir() {
			errs = append(errs, errors.ErrInvalidPath(root).WithContext("reason", "not a directory"))
			continue
		}

		entries, loadErrs := LoadFS(os.DirFS(root), root, l.Patterns)
		all = append(all, entries...)
		errs = append(errs, loadErrs...)
	}

	unique, dupErrs := dedupe(all)
	errs = append(errs, dupErrs...)

	return unique, errors.CombineErrors(errs...)
}

// Matches reports whether path is a snippet file under one of the loader's
// paths. It is used to filter file system events.
func (l *Loader) Matches(name string) bool {
	for _, root := range l.Paths {
		rel, err := filepath.Rel(root, name)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			continue
		}
		if matchAny(l.Patterns, rel) {
			return true
		}
	}
	return false
}

// Builtin returns the snippets compiled into the binary.
func Builtin() []Snippet {
	entries, errs := LoadFS(builtinFS, "", []string{"builtin/*.yaml"})
	if len(errs) > 0 {
		panic(fmt.Sprintf("catalog: invalid built-in snippets: %v", errs))
	}
	unique, dupErrs := dedupe(entries)
	if len(dupErrs) > 0 {
		panic(fmt.Sprintf("catalog: duplicate built-in snippets: %v", dupErrs))
	}
	return unique
}

// LoadFS walks fsys and parses every file matching one of patterns.
// Files are visited in lexical order so results are deterministic. label is
// prefixed to file names in errors and snippet sources.
func LoadFS(fsys fs.FS, label string, patterns []string) ([]Snippet, []error) {
	var (
		entries []Snippet
		errs    []error
	)

	walkErr := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, errors.WrapIO(err, errors.ErrCodeReadFailed, "walk catalog", sourceName(label, name)))
			return nil
		}
		if d.IsDir() || !matchAny(patterns, name) {
			return nil
		}

		source := sourceName(label, name)
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, errors.WrapIO(err, errors.ErrCodeReadFailed, "read snippet file", source))
			return nil
		}

		parsed, parseErrs := Parse(data, source)
		entries = append(entries, parsed...)
		errs = append(errs, parseErrs...)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, errors.WrapIO(walkErr, errors.ErrCodeReadFailed, "walk catalog", label))
	}

	return entries, errs
}

// Parse decodes one snippet file. Valid snippets are returned even when
// others in the same file fail validation.
func Parse(data []byte, source string) ([]Snippet, []error) {
	var file snippetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, []error{errors.NewValidationError(errors.ErrCodeInvalidSnippet, "malformed snippet file").
			WithFile(source).
			WithContext("cause", err.Error())}
	}

	var (
		entries []Snippet
		errs    []error
	)
	for _, s := range file.Snippets {
		s.Source = source
		if err := s.normalize(); err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, s)
	}
	return entries, errs
}

func dedupe(entries []Snippet) ([]Snippet, []error) {
	seen := make(map[string]string, len(entries))
	unique := make([]Snippet, 0, len(entries))
	var errs []error

	for _, s := range entries {
		if first, ok := seen[s.ID]; ok {
			errs = append(errs, errors.NewValidationError(errors.ErrCodeDuplicateSnippet, "duplicate snippet id: "+s.ID).
				WithFile(s.Source).
				WithContext("first_defined_in", first))
			continue
		}
		seen[s.ID] = s.Source
		unique = append(unique, s)
	}
	return unique, errs
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func sourceName(label, name string) string {
	if label == "" {
		return name
	}
	return path.Join(filepath.ToSlash(label), name)
}
