package model

// Column names shared by every report. Category specific evidence columns
// are declared by each rule pack.
const (
	ColumnURL            = "url"
	ColumnProblem        = "problema"
	ColumnCriticality    = "criticidade"
	ColumnPriority       = "priority_score"
	ColumnRecommendation = "recomendacao"
	ColumnTechnicalFix   = "technical_fix"
)

// Attr is one piece of category specific evidence attached to an Issue.
type Attr struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Issue is one finding about one URL in one category.
type Issue struct {
	// URL is the audited page the finding is about.
	URL string `json:"url"`

	// Category is the identifier of the rule pack that produced the issue.
	Category string `json:"category"`

	// Problem is the human readable label. It may embed a measured value,
	// e.g. "Título muito longo (75 chars)", and together with URL it
	// identifies the issue within a report.
	Problem string `json:"problem"`

	// Criticality is the severity label.
	Criticality Criticality `json:"criticality"`

	// Priority is an optional category specific score.
	Priority *float64 `json:"priority_score,omitempty"`

	// Evidence carries the measured values backing the finding, in display order.
	Evidence []Attr `json:"evidence,omitempty"`

	// Recommendation describes what to change.
	Recommendation string `json:"recommendation,omitempty"`

	// TechnicalFix is a concrete markup or configuration fix, when one exists.
	TechnicalFix string `json:"technical_fix,omitempty"`
}

// NewIssue creates an Issue with the mandatory fields set.
func NewIssue(url, category, problem string, criticality Criticality) Issue {
	return Issue{
		URL:         url,
		Category:    category,
		Problem:     problem,
		Criticality: criticality,
	}
}

// With returns a copy of the issue with an evidence value appended.
func (i Issue) With(key string, value any) Issue {
	evidence := make([]Attr, len(i.Evidence), len(i.Evidence)+1)
	copy(evidence, i.Evidence)
	i.Evidence = append(evidence, Attr{Key: key, Value: value})
	return i
}

// WithPriority returns a copy of the issue with a priority score.
func (i Issue) WithPriority(score float64) Issue {
	i.Priority = &score
	return i
}

// WithRecommendation returns a copy of the issue with a recommendation.
func (i Issue) WithRecommendation(text string) Issue {
	i.Recommendation = text
	return i
}

// WithFix returns a copy of the issue with a technical fix.
func (i Issue) WithFix(text string) Issue {
	i.TechnicalFix = text
	return i
}

// PriorityOr returns the priority score, or def when none is set.
func (i Issue) PriorityOr(def float64) float64 {
	if i.Priority == nil {
		return def
	}
	return *i.Priority
}

// Key identifies the issue within a report.
func (i Issue) Key() string {
	return i.URL + "\x00" + i.Problem
}

// Value looks up a column. Shared columns map to Issue members, anything
// else is searched in the evidence.
func (i Issue) Value(column string) (any, bool) {
	switch column {
	case ColumnURL:
		return i.URL, true
	case ColumnProblem:
		return i.Problem, true
	case ColumnCriticality:
		return string(i.Criticality), true
	case ColumnPriority:
		if i.Priority == nil {
			return nil, false
		}
		return *i.Priority, true
	case ColumnRecommendation:
		return i.Recommendation, i.Recommendation != ""
	case ColumnTechnicalFix:
		return i.TechnicalFix, i.TechnicalFix != ""
	}
	for _, attr := range i.Evidence {
		if attr.Key == column {
			return attr.Value, true
		}
	}
	return nil, false
}

// Row projects the issue onto columns. Missing cells are empty strings.
func (i Issue) Row(columns []string) []any {
	row := make([]any, len(columns))
	for idx, col := range columns {
		if v, ok := i.Value(col); ok {
			row[idx] = v
			continue
		}
		row[idx] = ""
	}
	return row
}
