package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/toon"
	"github.com/phobologic/funcatalog/internal/usage"
)

// maxExpressionSize bounds one line of expression input.
const maxExpressionSize = 1 << 20

func (a *app) listCommand() *cobra.Command {
	var categoryKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the functions of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap := a.catalog.Snapshot(cmd.Context())
			fns := snap.AllFunctions()
			if categoryKey != "" {
				fns = snap.FunctionsByCategory(categoryKey)
			}
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeCatalog(snap.Modules(), fns, snap.Warnings()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&categoryKey, "category", "c", "", "only list functions tagged with this category key")
	return cmd
}

func (a *app) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category keys with their labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap := a.catalog.Snapshot(cmd.Context())
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeCategories(a.categoryInfos(snap.Categories(), snap.FunctionsByCategory)))
			return nil
		},
	}
}

func (a *app) categoryInfos(keys []string, byCategory func(string) []*model.Function) []model.CategoryInfo {
	infos := make([]model.CategoryInfo, len(keys))
	for i, key := range keys {
		desc, _ := a.category.Description(key)
		infos[i] = model.CategoryInfo{
			Key:         key,
			Display:     a.category.DisplayName(key),
			Description: desc,
			Functions:   len(byCategory(key)),
		}
	}
	return infos
}

func (a *app) describeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe NAME",
		Short: "Describe one function and its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, ok := a.catalog.Function(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("unknown function %q", args[0])
			}
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeFunction(fn))
			return nil
		},
	}
}

func (a *app) existsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists NAME...",
		Short: "Report whether functions exist, by canonical name",
		Long: "Report whether functions exist, by canonical name. Names are case sensitive.\n" +
			"Exits with an error when any name is missing.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var missing []string
			for _, name := range args {
				ok := a.catalog.ExistsFunction(cmd.Context(), name)
				_, _ = fmt.Fprintf(a.stdout, "%s: %t\n", name, ok)
				if !ok {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("unknown functions: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

func (a *app) modulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the modules that contributed functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap := a.catalog.Snapshot(cmd.Context())
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeModules(snap.Modules(), snap.AllFunctions()))
			return nil
		},
	}
}

func (a *app) scanCommand() *cobra.Command {
	var (
		files []string
		top   int
	)
	cmd := &cobra.Command{
		Use:   "scan [EXPRESSION...]",
		Short: "Find the catalog functions used by expressions",
		Long: "Find the catalog functions used by expressions. Expressions are taken from\n" +
			"the arguments, then from every non-empty line of each --file. With neither,\n" +
			"lines are read from standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var exprs []model.Expression
			for i, text := range args {
				exprs = append(exprs, model.Expression{ID: "arg:" + strconv.Itoa(i+1), Text: text})
			}
			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening expressions: %w", err)
				}
				got, err := readExpressions(f, path)
				_ = f.Close()
				if err != nil {
					return err
				}
				exprs = append(exprs, got...)
			}
			if len(args) == 0 && len(files) == 0 {
				got, err := readExpressions(cmd.InOrStdin(), "stdin")
				if err != nil {
					return err
				}
				exprs = got
			}

			ctx := cmd.Context()
			snap := a.catalog.Snapshot(ctx)
			report := usage.Build(ctx, a.scanner, exprs, snap.AllFunctions())
			if err := ctx.Err(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeUsage(usage.Select(report, top)))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "read expressions from a file, one per line")
	cmd.Flags().IntVarP(&top, "top", "n", 0, "only report the N most used functions")
	cmd.Flags().Int("cache-size", 1024, "memoised scan results (0 disables)")
	return cmd
}

// readExpressions returns one expression per non-empty line of r, labelled
// name:LINE.
func readExpressions(r io.Reader, name string) ([]model.Expression, error) {
	var exprs []model.Expression
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxExpressionSize)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		exprs = append(exprs, model.Expression{ID: name + ":" + strconv.Itoa(line), Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return exprs, nil
}
