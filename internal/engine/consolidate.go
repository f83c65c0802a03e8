package engine

import (
	"slices"

	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/rules"
)

// Consolidate turns draft issues into the ordered issue list of a report.
//
// Steps, in order:
//  1. Drop issues whose (url, problem) pair was already seen. The first
//     occurrence wins, so rule registration order decides which one stays.
//  2. Sort by criticality rank ascending (unknown labels last), then by the
//     pack's secondary key, then by URL.
//
// The sort is stable, which makes the result a pure function of the drafts.
// The input slice is not modified.
func Consolidate(p *rules.Pack, drafts []model.Issue) []model.Issue {
	seen := make(map[string]struct{}, len(drafts))
	issues := make([]model.Issue, 0, len(drafts))
	for _, draft := range drafts {
		key := draft.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		issues = append(issues, draft)
	}

	slices.SortStableFunc(issues, p.Compare)
	return issues
}
