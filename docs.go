package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/funcatalog/internal/catalog"
	"github.com/phobologic/funcatalog/internal/category"
	"github.com/phobologic/funcatalog/internal/model"
)

const (
	sentinelStart = "<!-- funcatalog:start -->"
	sentinelEnd   = "<!-- funcatalog:end -->"
)

// docsCommand implements `funcatalog docs`, which writes (or updates) a
// function reference section in a Markdown file.
func (a *app) docsCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "docs [path-to-markdown]",
		Short: "Write a Markdown function reference",
		Long: `Write a Markdown reference of the catalog, grouped by category. The section is
wrapped in sentinel comments so it can be updated in place on subsequent runs
without touching surrounding content. Creates the file if it does not exist.

path-to-markdown defaults to ./FUNCTIONS.md.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := generateSection(a.catalog.Snapshot(cmd.Context()), a.category)

			// --dry-run with no path: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(a.stdout, section)
				return nil
			}

			path := "FUNCTIONS.md"
			if len(args) > 0 {
				path = args[0]
			}

			existing, _ := os.ReadFile(path)
			updated := applySection(string(existing), section)

			if dryRun {
				_, _ = fmt.Fprint(a.stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(a.stderr, "wrote function reference to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// generateSection returns the sentinel-wrapped function reference. Functions
// appear under every category they carry; uncategorized ones come last.
func generateSection(snap *catalog.Snapshot, labels *category.Resolver) string {
	var b strings.Builder
	b.WriteString("## Expression functions\n")

	for _, key := range snap.Categories() {
		fmt.Fprintf(&b, "\n### %s\n", labels.DisplayName(key))
		if desc, ok := labels.Description(key); ok {
			fmt.Fprintf(&b, "\n%s\n", desc)
		}
		writeTable(&b, snap.FunctionsByCategory(key))
	}

	var other []*model.Function
	for _, fn := range snap.AllFunctions() {
		if len(fn.Categories) == 0 {
			other = append(other, fn)
		}
	}
	if len(other) > 0 {
		b.WriteString("\n### Other\n")
		writeTable(&b, other)
	}

	return sentinelStart + "\n" + strings.TrimRight(b.String(), "\n") + "\n" + sentinelEnd
}

func writeTable(b *strings.Builder, fns []*model.Function) {
	b.WriteString("\n| Function | Returns | Description |\n|---|---|---|\n")
	for _, fn := range fns {
		returns := string(fn.Returns)
		if returns == "" {
			returns = string(model.Any)
		}
		fmt.Fprintf(b, "| `%s` | %s | %s |\n", fn.Signature(), returns, markdownCell(fn.Description))
	}
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
