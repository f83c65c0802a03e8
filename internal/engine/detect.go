package engine

import (
	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/rules"
)

// Detect runs every rule of p against records and returns the draft issues,
// in rule registration order and then record order.
//
// A record that lacks a field required by a rule is not shown to that rule
// (see rules.Rule.Eligible).
// Dataset rules receive the subset of records carrying their required fields.
// Detect never modifies records.
func Detect(p *rules.Pack, records []model.Record, env *rules.Env) []model.Issue {
	return detect(p, records, env, nil)
}

// detect is Detect with an optional pointer that always holds the ID of the
// rule being evaluated, so a recovered panic can name it.
func detect(p *rules.Pack, records []model.Record, env *rules.Env, current *string) []model.Issue {
	if env == nil {
		env = rules.DefaultEnv()
	}

	var drafts []model.Issue
	for _, rule := range p.Rules {
		if current != nil {
			*current = rule.ID
		}

		eligible := make([]*model.Record, 0, len(records))
		for i := range records {
			if rule.Eligible(&records[i]) {
				eligible = append(eligible, &records[i])
			}
		}
		if len(eligible) == 0 {
			continue
		}

		if rule.IsDataset() {
			drafts = append(drafts, rule.Dataset(eligible, env)...)
			continue
		}
		for _, rec := range eligible {
			drafts = append(drafts, rule.Record(rec, env)...)
		}
	}
	return drafts
}
