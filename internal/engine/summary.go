package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/model"
)

// NoDataMessage is the summary marker for an empty record set.
const NoDataMessage = "Nenhum dado para resumir"

// TotalLabel is the label of the first summary row.
const TotalLabel = "Total de URLs"

// maxStatusRows caps the status code distribution.
const maxStatusRows = 10

// summaryMetric counts the records matching a predicate. The metric is only
// reported when at least one record carries field, and only when the count
// is positive. Records without the field are judged on its default value.
type summaryMetric struct {
	label string
	field model.Field
	match func(r *model.Record) bool
}

func summaryMetrics(th config.Thresholds) []summaryMetric {
	return []summaryMetric{
		{"URLs sem título", model.FieldTitle, func(r *model.Record) bool { return strings.TrimSpace(r.Title) == "" }},
		{"URLs sem meta description", model.FieldMetaDescription, func(r *model.Record) bool { return strings.TrimSpace(r.MetaDescription) == "" }},
		{"URLs sem H1", model.FieldH1Count, func(r *model.Record) bool { return r.H1Count == 0 }},
		{"URLs sem H2", model.FieldH2Count, func(r *model.Record) bool { return r.H2Count == 0 }},
		{"URLs com imagens sem ALT", model.FieldImagesWithoutAlt, func(r *model.Record) bool { return r.ImagesWithoutAlt > 0 }},
		{"URLs sem canonical", model.FieldCanonicalURL, func(r *model.Record) bool { return strings.TrimSpace(r.CanonicalURL) == "" }},
		{"URLs sem viewport", model.FieldHasViewport, func(r *model.Record) bool { return !r.HasViewport }},
		{fmt.Sprintf("URLs lentas (>%gs)", th.SlowResponse), model.FieldResponseTime, func(r *model.Record) bool { return r.ResponseTime > th.SlowResponse }},
		{"URLs com Mixed Content", model.FieldTotalMixedContentCount, func(r *model.Record) bool { return r.TotalMixedContentCount > 0 }},
		{"URLs com Mixed Content CRÍTICO", model.FieldActiveMixedContentCount, func(r *model.Record) bool { return r.ActiveMixedContentCount > 0 }},
		{"Total páginas HTTPS", model.FieldIsHTTPSPage, func(r *model.Record) bool { return r.IsHTTPSPage }},
	}
}

// BuildSummary computes the executive summary over the whole record set.
// An empty set yields the NoDataMessage marker.
func BuildSummary(records []model.Record, th config.Thresholds) model.Summary {
	total := len(records)
	if total == 0 {
		return model.Summary{Message: NoDataMessage}
	}

	row := func(label string, count int) model.SummaryRow {
		return model.SummaryRow{
			Label:      label,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		}
	}

	summary := model.Summary{Total: total}
	summary.Rows = append(summary.Rows, row(TotalLabel, total))

	for _, sc := range statusDistribution(records) {
		summary.Rows = append(summary.Rows, row(fmt.Sprintf("Status %d", sc.code), sc.count))
	}

	for _, m := range summaryMetrics(th) {
		present, count := false, 0
		for i := range records {
			rec := &records[i]
			if rec.Has(m.field) {
				present = true
			}
			if m.match(rec) {
				count++
			}
		}
		if present && count > 0 {
			summary.Rows = append(summary.Rows, row(m.label, count))
		}
	}
	return summary
}

type statusCount struct {
	code, count int
}

// statusDistribution returns the most frequent status codes, most frequent
// first and lower code first on ties. Records without a status are skipped.
func statusDistribution(records []model.Record) []statusCount {
	counts := make(map[int]int)
	for i := range records {
		if records[i].Has(model.FieldStatusCode) {
			counts[records[i].StatusCode]++
		}
	}

	dist := make([]statusCount, 0, len(counts))
	for code, n := range counts {
		dist = append(dist, statusCount{code: code, count: n})
	}
	slices.SortFunc(dist, func(a, b statusCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.code, b.code)
	})
	if len(dist) > maxStatusRows {
		dist = dist[:maxStatusRows]
	}
	return dist
}
