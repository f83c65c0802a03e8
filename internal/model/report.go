package model

import (
	"fmt"
	"time"
)

// ReportStatus tells how a Report should be rendered.
type ReportStatus string

const (
	// ReportStatusIssues means the report carries at least one issue.
	ReportStatusIssues ReportStatus = "issues"

	// ReportStatusAllClear means the category was evaluated and found nothing.
	// Message carries the all-clear marker.
	ReportStatusAllClear ReportStatus = "all_clear"

	// ReportStatusFailed means the category evaluation failed.
	// Message carries the error marker.
	ReportStatusFailed ReportStatus = "failed"
)

// Report is the ordered, deduplicated set of issues of one category.
//
// Design decision: An empty or failed category is still a Report, with a
// status and a marker message, rather than a missing map entry. Exporters
// then render one section per category in a stable order without special
// casing, and a failure in one category stays visible next to the others.
type Report struct {
	// Category is the identifier of the rule pack.
	Category string `json:"category"`

	// Name is the display name, used as sheet or section title.
	Name string `json:"name"`

	// Columns is the declared column list. Rows are limited to it.
	Columns []string `json:"columns"`

	// Issues is the ordered issue list. Empty unless Status is ReportStatusIssues.
	Issues []Issue `json:"issues,omitempty"`

	// Status tells whether the report has issues, is all clear, or failed.
	Status ReportStatus `json:"status"`

	// Message is the all-clear or error marker.
	Message string `json:"message,omitempty"`
}

// Rows projects every issue onto the declared columns.
func (r Report) Rows() [][]any {
	rows := make([][]any, len(r.Issues))
	for i, issue := range r.Issues {
		rows[i] = issue.Row(r.Columns)
	}
	return rows
}

// CountByCriticality counts the issues of the report per label.
func (r Report) CountByCriticality() map[Criticality]int {
	counts := make(map[Criticality]int)
	for _, issue := range r.Issues {
		counts[issue.Criticality]++
	}
	return counts
}

// SummaryRow is one line of the executive summary.
type SummaryRow struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PercentageText renders the percentage with one decimal, e.g. "42.9%".
func (r SummaryRow) PercentageText() string {
	return fmt.Sprintf("%.1f%%", r.Percentage)
}

// Summary is the dataset wide statistics table. It is built over the whole
// record set, independently of the category reports.
type Summary struct {
	// Total is the number of records summarized.
	Total int `json:"total"`

	// Rows is the ordered list of metrics.
	Rows []SummaryRow `json:"rows,omitempty"`

	// Message is the marker shown instead of Rows when there is nothing to summarize.
	Message string `json:"message,omitempty"`
}

// Empty reports whether the summary is the "nothing to summarize" marker.
func (s Summary) Empty() bool {
	return len(s.Rows) == 0
}

// Row returns the row with the given label.
func (s Summary) Row(label string) (SummaryRow, bool) {
	for _, row := range s.Rows {
		if row.Label == label {
			return row, true
		}
	}
	return SummaryRow{}, false
}

// AuditResult is everything one run of the engine produces.
type AuditResult struct {
	// Reports holds one report per enabled category, in registry order.
	Reports []Report `json:"reports"`

	// Summary is the executive summary.
	Summary Summary `json:"summary"`

	// GeneratedAt is when the result was assembled.
	GeneratedAt time.Time `json:"generated_at"`
}

// TotalIssues counts issues across all reports.
func (a *AuditResult) TotalIssues() int {
	total := 0
	for _, r := range a.Reports {
		total += len(r.Issues)
	}
	return total
}

// CountByCriticality counts issues across all reports per label.
func (a *AuditResult) CountByCriticality() map[Criticality]int {
	counts := make(map[Criticality]int)
	for _, r := range a.Reports {
		for c, n := range r.CountByCriticality() {
			counts[c] += n
		}
	}
	return counts
}

// Report returns the report of a category.
func (a *AuditResult) Report(category string) (Report, bool) {
	for _, r := range a.Reports {
		if r.Category == category {
			return r, true
		}
	}
	return Report{}, false
}

// FailedReports returns the categories whose evaluation failed.
func (a *AuditResult) FailedReports() []Report {
	var failed []Report
	for _, r := range a.Reports {
		if r.Status == ReportStatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}
