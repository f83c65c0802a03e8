package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/seoaudit/internal/model"
)

// maxCellLength truncates long cells so tables stay readable.
const maxCellLength = 80

// MarkdownEncoder writes the bundle as a Markdown document: the executive
// summary, a criticality pie chart, then one section per report.
//
// The raw dataset is not rendered; it is usually far too wide for Markdown.
type MarkdownEncoder struct {
	// title is the H1 of the document.
	title string
}

// MarkdownEncoderOption configures a MarkdownEncoder.
type MarkdownEncoderOption func(*MarkdownEncoder)

// WithTitle sets the document title.
func WithTitle(title string) MarkdownEncoderOption {
	return func(e *MarkdownEncoder) {
		e.title = title
	}
}

// NewMarkdownEncoder creates a MarkdownEncoder.
func NewMarkdownEncoder(opts ...MarkdownEncoderOption) *MarkdownEncoder {
	e := &MarkdownEncoder{title: "Auditoria SEO"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes b to w.
func (e *MarkdownEncoder) Encode(w io.Writer, b Bundle) error {
	md := markdown.NewMarkdown(w)

	md.H1(e.title)
	md.PlainText("")
	md.PlainTextf("Gerado em %s", b.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	md.PlainText("")

	e.writeSummary(md, b.Summary)
	e.writeCriticality(md, b.Reports)
	for _, r := range b.Reports {
		e.writeReport(md, r)
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Relatório gerado por seoaudit*")

	return md.Build()
}

func (e *MarkdownEncoder) writeSummary(md *markdown.Markdown, s model.Summary) {
	md.H2(SummaryName)
	md.PlainText("")

	if s.Empty() {
		md.Note(s.Message)
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		rows[i] = []string{row.Label, strconv.Itoa(row.Count), row.PercentageText()}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Métrica", "Valor", "Percentual"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCriticality writes the issue distribution across all reports.
func (e *MarkdownEncoder) writeCriticality(md *markdown.Markdown, reports []model.Report) {
	counts := make(map[model.Criticality]int)
	other := 0
	total := 0
	for _, r := range reports {
		for c, n := range r.CountByCriticality() {
			total += n
			if c.Known() {
				canonical, _ := model.ParseCriticality(string(c))
				counts[canonical] += n
				continue
			}
			other += n
		}
	}

	md.H2("Problemas por Criticidade")
	md.PlainText("")

	if total == 0 {
		md.Tip("Nenhum problema encontrado.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(model.Criticalities)+2)
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Distribuição por Criticidade"),
		piechart.WithShowData(true),
	)
	for _, c := range model.Criticalities {
		rows = append(rows, []string{c.String(), strconv.Itoa(counts[c])})
		if counts[c] > 0 {
			chart.LabelAndIntValue(c.String(), uint64(counts[c]))
		}
	}
	if other > 0 {
		rows = append(rows, []string{"OUTROS", strconv.Itoa(other)})
		chart.LabelAndIntValue("OUTROS", uint64(other))
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(total) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Criticidade", "Problemas"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	switch {
	case counts[model.CriticalityMaximum]+counts[model.CriticalityCritical] > 0:
		md.Cautionf("%d problema(s) crítico(s) exigem ação imediata.",
			counts[model.CriticalityMaximum]+counts[model.CriticalityCritical])
	case counts[model.CriticalityHigh] > 0:
		md.Warningf("%d problema(s) de criticidade alta.", counts[model.CriticalityHigh])
	case counts[model.CriticalityMedium] > 0:
		md.Importantf("%d problema(s) de criticidade média.", counts[model.CriticalityMedium])
	default:
		md.Note("Apenas problemas de baixa criticidade.")
	}
	md.PlainText("")
}

func (e *MarkdownEncoder) writeReport(md *markdown.Markdown, r model.Report) {
	md.H2(r.Name)
	md.PlainText("")

	switch r.Status {
	case model.ReportStatusAllClear:
		md.Tip(strings.ReplaceAll(r.Message, "\n", " "))
		md.PlainText("")
		return
	case model.ReportStatusFailed:
		md.Cautionf("%s", r.Message)
		md.PlainText("")
		return
	}

	rows := make([][]string, len(r.Issues))
	for i, issue := range r.Issues {
		cells := issue.Row(r.Columns)
		row := make([]string, len(cells))
		for j, cell := range cells {
			row[j] = markdownCell(cellText(cell))
		}
		rows[i] = row
	}
	md.Table(markdown.TableSet{
		Header: r.Columns,
		Rows:   rows,
	})
	md.PlainText("")
}

// markdownCell escapes pipes, flattens newlines and truncates long text.
func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	return truncateString(s, maxCellLength)
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
