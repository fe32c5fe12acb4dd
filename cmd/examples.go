package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tailplay/internal/catalog"
)

var examplesCmd = &cobra.Command{
	Use:     "examples",
	Aliases: []string{"ls"},
	Short:   "List catalog snippets",
	Long: `List the examples and templates of the snippet catalog.

--query matches titles, descriptions and tags case-insensitively; --tag keeps
snippets that carry the tag. Both filters can be combined.

Examples:
  tailplay examples                      # Table of every snippet
  tailplay examples --tag button         # Only button snippets
  tailplay examples -q navbar -o json    # Search, output as JSON
  tailplay examples --tags               # List the distinct tags`,
	Args: cobra.NoArgs,
	RunE: runExamples,
}

var (
	examplesFlags    *OutputFlags
	examplesTag      string
	examplesQuery    string
	examplesListTags bool
)

func init() {
	rootCmd.AddCommand(examplesCmd)

	examplesFlags = AddOutputFlags(examplesCmd, FormatTable, FormatJSON, FormatYAML)
	examplesCmd.Flags().StringVarP(&examplesTag, "tag", "t", "", "Only snippets carrying this tag")
	examplesCmd.Flags().StringVar(&examplesQuery, "query", "", "Case-insensitive search over title, description and tags")
	examplesCmd.Flags().BoolVar(&examplesListTags, "tags", false, "List distinct tags instead of snippets")
}

func runExamples(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cat := loadCatalog(cmd.Context(), cfg, logger)
	out := cmd.OutOrStdout()

	if examplesListTags {
		return writeList(out, examplesFlags.Format, cat.Tags())
	}

	entries := cat.Filter(examplesQuery, examplesTag)

	switch examplesFlags.Format {
	case FormatJSON, FormatYAML:
		return writeList(out, examplesFlags.Format, entries)
	default:
		if examplesFlags.Quiet {
			for _, sn := range entries {
				fmt.Fprintln(out, sn.ID)
			}
			return nil
		}
		return writeExamplesTable(out, entries)
	}
}

// writeList encodes v as JSON or YAML; table output prints one item per line.
func writeList[T any](w io.Writer, format string, v []T) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(v)
	default:
		for _, item := range v {
			if _, err := fmt.Fprintln(w, item); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeExamplesTable(w io.Writer, entries []catalog.Snippet) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No snippets match."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tTITLE\tTAGS")
	for _, sn := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sn.ID, sn.Kind, sn.Title, strings.Join(sn.Tags, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n", successStyle.Render(fmt.Sprintf("%d snippet(s)", len(entries))))
	return err
}
