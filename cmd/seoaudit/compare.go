package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/history"
	"github.com/nao1215/seoaudit/internal/model"
)

// listLimit bounds the number of runs printed by --list.
const listLimit = 20

// NewCompareCmd creates the compare command.
// This command compares two audit runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [run-a run-b]",
		Short: "Compare two stored audit runs",
		Long: `Compare shows what changed between two audit runs kept in the history:
- New issues that appeared in the newer run
- Resolved issues that are no longer reported
- Issue counts per criticality in both runs

Without arguments the two most recent runs are compared. Runs are named by
id; a unique id prefix, as printed by --list, is enough.

Examples:
  # Compare the two latest runs
  seoaudit compare

  # Compare the two latest runs of one site
  seoaudit compare --label shop.com

  # List stored runs
  seoaudit compare --list

  # Compare two specific runs and print Markdown
  seoaudit compare --markdown 3f2a9c1e 8b7d6e5f`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.New("expected no run ids or exactly two")
			}
			return nil
		},
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "L", false,
		"List stored runs instead of comparing")
	cmd.Flags().StringP("label", "l", "",
		"Restrict to the runs of one site label")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"History database directory")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	listRuns, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	label, err := flags.GetString("label")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}

	store, err := history.Open(dbDir, history.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history (run 'seoaudit audit' first): %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if listRuns {
		return listStoredRuns(ctx, out, store, label)
	}

	var idA, idB string
	if len(args) == 2 {
		idA, idB = args[0], args[1]
	} else {
		latest, err := store.Latest(ctx, label, 2)
		if err != nil {
			return fmt.Errorf("cannot pick runs to compare: %w", err)
		}
		idA, idB = latest[1].ID, latest[0].ID
	}

	comparison, err := store.Diff(ctx, idA, idB)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		return outputComparisonJSON(out, comparison)
	case markdownOutput:
		return outputComparisonMarkdown(out, comparison)
	default:
		return outputComparisonText(out, comparison)
	}
}

// listStoredRuns prints the most recent runs.
func listStoredRuns(ctx context.Context, out io.Writer, store *history.Store, label string) error {
	runs, err := store.ListRuns(ctx, label, listLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "Nenhuma execução no histórico.")
		return nil
	}

	fmt.Fprintf(out, "%-10s  %-19s  %-24s  %7s  %8s  %s\n", "ID", "DATA", "SITE", "URLS", "ISSUES", "CRITICIDADE")
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(out, "%-10s  %-19s  %-24s  %7d  %8d  %s\n",
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Label,
			r.RecordCount,
			r.IssueCount,
			formatCriticalitySummary(r.CriticalitySummary),
		)
	}
	return nil
}

// formatCriticalitySummary renders counts in criticality order, skipping zeros.
func formatCriticalitySummary(summary map[string]int) string {
	var parts []string
	for _, c := range model.Criticalities {
		if n := summary[c.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", c, n))
		}
	}
	for label, n := range summary {
		if c := model.Criticality(label); !c.Known() && n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", label, n))
		}
	}
	if len(parts) == 0 {
		return "sem problemas"
	}
	return strings.Join(parts, " ")
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, c *history.Comparison) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// criticalityRows returns one row per known criticality with both counts
// and the delta.
func criticalityRows(c *history.Comparison) [][]string {
	rows := make([][]string, 0, len(model.Criticalities)+1)
	for _, crit := range model.Criticalities {
		before := c.From.CriticalitySummary[crit.String()]
		after := c.To.CriticalitySummary[crit.String()]
		rows = append(rows, []string{crit.String(), strconv.Itoa(before), strconv.Itoa(after), formatDelta(after - before)})
	}
	rows = append(rows, []string{
		"Total",
		strconv.Itoa(c.From.IssueCount),
		strconv.Itoa(c.To.IssueCount),
		formatDelta(c.To.IssueCount - c.From.IssueCount),
	})
	return rows
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, c *history.Comparison) error {
	md := markdown.NewMarkdown(out)

	md.H1f("Comparação: %s", c.To.Label)
	md.PlainText("")
	md.PlainTextf("**Tendência:** %s", formatTrend(c.Trend))
	md.PlainText("")
	md.PlainTextf("Anterior: `%s` (%s)", shortID(c.From.ID), c.From.CreatedAt.Format("2006-01-02 15:04"))
	md.PlainText("")
	md.PlainTextf("Atual: `%s` (%s)", shortID(c.To.ID), c.To.CreatedAt.Format("2006-01-02 15:04"))
	md.PlainText("")

	md.H2("Resumo")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Criticidade", "Anterior", "Atual", "Variação"},
		Rows:   criticalityRows(c),
	})
	md.PlainText("")

	if len(c.New) > 0 {
		md.H2f("Novos problemas (%d)", len(c.New))
		md.PlainText("")
		md.BulletList(refItems(c.New, false)...)
		md.PlainText("")
	}
	if len(c.Resolved) > 0 {
		md.H2f("Problemas resolvidos (%d)", len(c.Resolved))
		md.PlainText("")
		md.BulletList(refItems(c.Resolved, true)...)
		md.PlainText("")
	}
	if c.Unchanged > 0 {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%d problemas inalterados*", c.Unchanged)
	}

	return md.Build()
}

func refItems(refs []history.IssueRef, strike bool) []string {
	items := make([]string, len(refs))
	for i, ref := range refs {
		item := fmt.Sprintf("**[%s]** %s: %s (`%s`)", ref.Criticality, ref.Category, ref.Problem, ref.URL)
		if strike {
			item = "~~" + item + "~~"
		}
		items[i] = item
	}
	return items
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, c *history.Comparison) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Comparação: %s\n", c.To.Label)
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "\nTendência: %s\n", formatTrend(c.Trend))
	fmt.Fprintf(&sb, "\nAnterior: %s  %s\n", shortID(c.From.ID), c.From.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Atual:    %s  %s\n", shortID(c.To.ID), c.To.CreatedAt.Local().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&sb, "\n  %-16s  %-9s  %-9s  %-9s\n", "Criticidade", "Anterior", "Atual", "Variação")
	sb.WriteString("  " + strings.Repeat("-", 50) + "\n")
	for _, row := range criticalityRows(c) {
		fmt.Fprintf(&sb, "  %-16s  %-9s  %-9s  %-9s\n", row[0], row[1], row[2], row[3])
	}

	if len(c.New) > 0 {
		fmt.Fprintf(&sb, "\nNovos problemas (%d):\n", len(c.New))
		for _, ref := range c.New {
			fmt.Fprintf(&sb, "  [+] [%s] %s: %s\n      %s\n", ref.Criticality, ref.Category, ref.Problem, ref.URL)
		}
	}
	if len(c.Resolved) > 0 {
		fmt.Fprintf(&sb, "\nProblemas resolvidos (%d):\n", len(c.Resolved))
		for _, ref := range c.Resolved {
			fmt.Fprintf(&sb, "  [-] [%s] %s: %s\n      %s\n", ref.Criticality, ref.Category, ref.Problem, ref.URL)
		}
	}
	if c.Unchanged > 0 {
		fmt.Fprintf(&sb, "\nInalterados: %d problemas\n", c.Unchanged)
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

// formatTrend formats the trend for display.
func formatTrend(t history.Trend) string {
	switch t {
	case history.TrendImproved:
		return "MELHOROU (menos problemas graves)"
	case history.TrendDegraded:
		return "PIOROU (mais problemas graves)"
	default:
		return "ESTÁVEL"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
