package history

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/nao1215/seoaudit/internal/model"
)

// IssueRef identifies an issue across runs.
type IssueRef struct {
	Category    string            `json:"category"`
	URL         string            `json:"url"`
	Problem     string            `json:"problem"`
	Criticality model.Criticality `json:"criticality"`
}

func (r IssueRef) key() string {
	return r.Category + "\x00" + r.URL + "\x00" + r.Problem
}

// Trend tells whether a site got better or worse between two runs.
type Trend string

const (
	// TrendImproved means fewer weighted issues in the newer run.
	TrendImproved Trend = "melhorou"

	// TrendDegraded means more weighted issues in the newer run.
	TrendDegraded Trend = "piorou"

	// TrendStable means the same weighted issue count.
	TrendStable Trend = "estável"
)

// Comparison is the difference between two stored runs.
type Comparison struct {
	// From is the older run.
	From RunMetadata `json:"from"`

	// To is the newer run.
	To RunMetadata `json:"to"`

	// New lists issues present in To but not in From.
	New []IssueRef `json:"new"`

	// Resolved lists issues present in From but not in To.
	Resolved []IssueRef `json:"resolved"`

	// Unchanged counts issues present in both runs.
	Unchanged int `json:"unchanged"`

	// Trend is derived from the criticality weighted counts.
	Trend Trend `json:"trend"`
}

// criticalityWeight gives severe issues more weight in the trend.
// Unknown labels weigh as BAIXO.
func criticalityWeight(c model.Criticality) int {
	rank := c.Rank()
	if rank >= len(model.Criticalities) {
		rank = len(model.Criticalities) - 1
	}
	return len(model.Criticalities) - rank
}

// Diff compares two runs. The runs are reordered so that From is always the
// older one. Issues match on category, url and problem.
func (s *Store) Diff(ctx context.Context, idA, idB string) (*Comparison, error) {
	a, err := s.metadata(ctx, idA)
	if err != nil {
		return nil, err
	}
	b, err := s.metadata(ctx, idB)
	if err != nil {
		return nil, err
	}
	if b.CreatedAt.Before(a.CreatedAt) {
		a, b = b, a
	}

	from, err := s.issues(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	to, err := s.issues(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	c := &Comparison{From: a, To: b}
	fromKeys := make(map[string]struct{}, len(from))
	for _, ref := range from {
		fromKeys[ref.key()] = struct{}{}
	}
	toKeys := make(map[string]struct{}, len(to))
	for _, ref := range to {
		toKeys[ref.key()] = struct{}{}
		if _, ok := fromKeys[ref.key()]; ok {
			c.Unchanged++
			continue
		}
		c.New = append(c.New, ref)
	}
	for _, ref := range from {
		if _, ok := toKeys[ref.key()]; !ok {
			c.Resolved = append(c.Resolved, ref)
		}
	}

	sortRefs(c.New)
	sortRefs(c.Resolved)
	c.Trend = trend(c.New, c.Resolved)
	return c, nil
}

func trend(added, resolved []IssueRef) Trend {
	delta := 0
	for _, ref := range added {
		delta += criticalityWeight(ref.Criticality)
	}
	for _, ref := range resolved {
		delta -= criticalityWeight(ref.Criticality)
	}
	switch {
	case delta < 0:
		return TrendImproved
	case delta > 0:
		return TrendDegraded
	default:
		return TrendStable
	}
}

// sortRefs orders by criticality, category and url.
func sortRefs(refs []IssueRef) {
	slices.SortStableFunc(refs, func(x, y IssueRef) int {
		return cmp.Or(
			cmp.Compare(x.Criticality.Rank(), y.Criticality.Rank()),
			cmp.Compare(x.Category, y.Category),
			cmp.Compare(x.URL, y.URL),
			cmp.Compare(x.Problem, y.Problem),
		)
	})
}

func (s *Store) metadata(ctx context.Context, id string) (RunMetadata, error) {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return RunMetadata{}, err
	}
	row := s.db.QueryRowContext(ctx, `
	SELECT id, label, created_at, record_count, issue_count, criticality_summary
	FROM audit_runs
	WHERE id = ?
	`, fullID)
	return scanMetadata(row)
}

func (s *Store) issues(ctx context.Context, runID string) ([]IssueRef, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT category, url, problem, criticality
	FROM audit_issues
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load issues: %w", err)
	}
	defer rows.Close()

	var refs []IssueRef
	for rows.Next() {
		var (
			ref         IssueRef
			criticality string
		)
		if err := rows.Scan(&ref.Category, &ref.URL, &ref.Problem, &criticality); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		ref.Criticality = model.Criticality(criticality)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
