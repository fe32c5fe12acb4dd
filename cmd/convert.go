package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tailplay/internal/catalog"
	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/errors"
)

var convertCmd = &cobra.Command{
	Use:     "convert [file|-]",
	Aliases: []string{"c"},
	Short:   "Convert utility-class markup to HTML, CSS and JS",
	Long: `Convert markup that uses className utility tokens into plain HTML, a CSS
rule block and an optional click-handler script.

The markup is read from the given file, or from stdin when the file is "-"
or omitted. With --example the markup of a catalog snippet is converted
instead.

Examples:
  tailplay convert button.html                 # Convert a file
  cat card.html | tailplay convert             # Convert stdin
  tailplay convert --example gradient-button   # Convert a catalog example
  tailplay convert card.html -o json           # Output as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

var (
	convertFlags   *OutputFlags
	convertExample string
)

func init() {
	rootCmd.AddCommand(convertCmd)

	convertFlags = AddOutputFlags(convertCmd, FormatText, FormatJSON, FormatYAML)
	convertCmd.Flags().StringVarP(&convertExample, "example", "e", "", "Convert the catalog snippet with this ID")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertExample != "" && len(args) > 0 {
		return fmt.Errorf("cannot combine --example with an input file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	conv, err := cfg.NewConverter()
	if err != nil {
		return err
	}

	var (
		result  convert.Result
		snippet *catalog.Snippet
	)

	if convertExample != "" {
		sn, err := loadCatalog(cmd.Context(), cfg, logger).Get(convertExample)
		if errors.IsNotFound(err) {
			return errors.NewEnhancedError(fmt.Sprintf("Unknown example %q", convertExample), err, []errors.ErrorSuggestion{
				{
					Title:   "List the snippet IDs of the catalog",
					Command: "tailplay examples -q",
				},
				{
					Title:       "Include your own snippet files",
					Description: "User snippets are loaded from the catalog paths",
					Example:     "tailplay convert --catalog ./snippets -e my-card",
				},
			})
		}
		if err != nil {
			return err
		}
		snippet = &sn
		result = sn.Convert(conv)
	} else {
		markup, err := readMarkup(cmd, args)
		if err != nil {
			return err
		}
		logger.Debug(cmd.Context(), "Converting markup", "bytes", len(markup))
		result = conv.Convert(markup)
	}

	out := cmd.OutOrStdout()
	switch convertFlags.Format {
	case FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case FormatYAML:
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(result)
	default:
		return renderResult(out, snippet, result, convertFlags.Quiet)
	}
}

// readMarkup reads the markup named by args, defaulting to stdin.
func readMarkup(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	if err := ValidateFileExists(args[0]); err != nil {
		return "", err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

// renderResult writes the three panels as titled sections. Quiet output
// drops the titles and empty panels.
func renderResult(w io.Writer, snippet *catalog.Snippet, result convert.Result, quiet bool) error {
	sections := []struct {
		title string
		body  string
	}{
		{"HTML", result.HTML},
		{"CSS", result.CSS},
		{"JS", result.JS},
	}

	var b strings.Builder
	if quiet {
		var bodies []string
		for _, s := range sections {
			if s.body != "" {
				bodies = append(bodies, s.body)
			}
		}
		b.WriteString(strings.Join(bodies, "\n\n"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if snippet != nil {
		fmt.Fprintf(&b, "%s %s (%s)\n\n", labelStyle.Render("Example:"), snippet.Title, snippet.ID)
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(titleStyle.Render(s.title))
		b.WriteString("\n")
		if s.body == "" {
			b.WriteString(mutedStyle.Render("(none)"))
		} else {
			b.WriteString(s.body)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
