package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/seoaudit/internal/model"
)

// ruleWidth is the width of the separator lines.
const ruleWidth = 70

// TextWriter prints a short human-readable overview of an audit to a
// terminal: the executive summary, the issue count per criticality and one
// line per report.
//
// Design decision: We use plain text with ASCII formatting rather than ANSI
// colors so the output can be piped to files or CI logs unchanged.
type TextWriter struct {
	output io.Writer

	// showClear lists all-clear reports too.
	showClear bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowClear lists reports without issues as well.
func WithShowClear(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showClear = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{output: output}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write prints the overview of result.
func (w *TextWriter) Write(result *model.AuditResult) (int, error) {
	var sb strings.Builder

	writeRule(&sb, "=")
	sb.WriteString("                          AUDITORIA SEO\n")
	writeRule(&sb, "=")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Gerado em:      %s\n", result.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "URLs:           %d\n", result.Summary.Total)
	fmt.Fprintf(&sb, "Problemas:      %d\n\n", result.TotalIssues())

	w.writeSummary(&sb, result.Summary)
	w.writeCriticality(&sb, result)
	w.writeReports(&sb, result.Reports)

	return io.WriteString(w.output, sb.String())
}

func (w *TextWriter) writeSummary(sb *strings.Builder, s model.Summary) {
	writeSection(sb, strings.ToUpper(SummaryName))
	if s.Empty() {
		fmt.Fprintf(sb, "  %s\n\n", s.Message)
		return
	}

	width := 0
	for _, row := range s.Rows {
		width = max(width, len([]rune(row.Label)))
	}
	for _, row := range s.Rows {
		pad := strings.Repeat(" ", width-len([]rune(row.Label)))
		fmt.Fprintf(sb, "  %s%s  %6d  %6s\n", row.Label, pad, row.Count, row.PercentageText())
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeCriticality(sb *strings.Builder, result *model.AuditResult) {
	writeSection(sb, "PROBLEMAS POR CRITICIDADE")

	counts := result.CountByCriticality()
	other := 0
	for c, n := range counts {
		if !c.Known() {
			other += n
		}
	}
	for _, c := range model.Criticalities {
		fmt.Fprintf(sb, "  %-16s %d\n", c.String()+":", counts[c])
	}
	if other > 0 {
		fmt.Fprintf(sb, "  %-16s %d\n", "OUTROS:", other)
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeReports(sb *strings.Builder, reports []model.Report) {
	writeSection(sb, "RELATÓRIOS")

	for _, r := range reports {
		switch r.Status {
		case model.ReportStatusIssues:
			fmt.Fprintf(sb, "  [%4d] %s\n", len(r.Issues), r.Name)
		case model.ReportStatusFailed:
			fmt.Fprintf(sb, "  [ERRO] %s: %s\n", r.Name, r.Message)
		default:
			if w.showClear {
				fmt.Fprintf(sb, "  [  OK] %s\n", r.Name)
			}
		}
	}
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	writeRule(sb, "-")
	sb.WriteString(title)
	sb.WriteString("\n")
	writeRule(sb, "-")
	sb.WriteString("\n")
}

func writeRule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, ruleWidth))
	sb.WriteString("\n")
}
