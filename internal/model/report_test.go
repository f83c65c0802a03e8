package model

import "testing"

// TestIssueRow tests projection of an issue onto a column list.
func TestIssueRow(t *testing.T) {
	t.Parallel()

	issue := NewIssue("https://example.com/", "title", "Sem título", CriticalityCritical).
		With("title_length", 0).
		WithRecommendation("Adicionar título").
		WithPriority(7)

	row := issue.Row([]string{ColumnURL, ColumnProblem, ColumnCriticality, "title_length", ColumnPriority, "missing", ColumnRecommendation})

	expected := []any{"https://example.com/", "Sem título", "CRÍTICO", 0, 7.0, "", "Adicionar título"}
	for i := range expected {
		if row[i] != expected[i] {
			t.Errorf("cell %d: got %v (%T), expected %v (%T)", i, row[i], row[i], expected[i], expected[i])
		}
	}
}

// TestIssueWithDoesNotAlias tests that With never mutates the receiver's evidence.
func TestIssueWithDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := NewIssue("u", "c", "p", CriticalityLow).With("a", 1)
	left := base.With("b", 2)
	right := base.With("b", 3)

	if v, _ := left.Value("b"); v != 2 {
		t.Errorf("got %v, expected 2", v)
	}
	if v, _ := right.Value("b"); v != 3 {
		t.Errorf("got %v, expected 3", v)
	}
	if len(base.Evidence) != 1 {
		t.Errorf("expected base evidence untouched, got %d entries", len(base.Evidence))
	}
}

// TestIssuePriorityOr tests the default priority fallback.
func TestIssuePriorityOr(t *testing.T) {
	t.Parallel()

	if got := NewIssue("u", "c", "p", CriticalityLow).PriorityOr(-1); got != -1 {
		t.Errorf("got %v, expected -1", got)
	}
	if got := NewIssue("u", "c", "p", CriticalityLow).WithPriority(4).PriorityOr(-1); got != 4 {
		t.Errorf("got %v, expected 4", got)
	}
}

// TestAuditResultCounts tests the aggregate counters.
func TestAuditResultCounts(t *testing.T) {
	t.Parallel()

	result := &AuditResult{
		Reports: []Report{
			{
				Category: "title",
				Status:   ReportStatusIssues,
				Issues: []Issue{
					NewIssue("a", "title", "x", CriticalityCritical),
					NewIssue("b", "title", "x", CriticalityHigh),
				},
			},
			{Category: "meta", Status: ReportStatusAllClear, Message: "ok"},
			{Category: "images", Status: ReportStatusFailed, Message: "Erro: boom"},
		},
	}

	if got := result.TotalIssues(); got != 2 {
		t.Errorf("got %d, expected 2", got)
	}
	counts := result.CountByCriticality()
	if counts[CriticalityCritical] != 1 || counts[CriticalityHigh] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if failed := result.FailedReports(); len(failed) != 1 || failed[0].Category != "images" {
		t.Errorf("unexpected failed reports: %v", failed)
	}
	if _, ok := result.Report("meta"); !ok {
		t.Error("expected meta report")
	}
}

// TestSummaryRowPercentageText tests percentage formatting.
func TestSummaryRowPercentageText(t *testing.T) {
	t.Parallel()

	row := SummaryRow{Label: "URLs sem H1", Count: 3, Percentage: 42.857}
	if got := row.PercentageText(); got != "42.9%" {
		t.Errorf("got %q, expected %q", got, "42.9%")
	}
}
