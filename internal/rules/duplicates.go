package rules

import (
	"strings"

	"github.com/nao1215/seoaudit/internal/model"
)

// groupSizes counts how many records share each non-empty value.
// Values that are empty after trimming whitespace are ignored.
func groupSizes(recs []*model.Record, value func(*model.Record) string) map[string]int {
	sizes := make(map[string]int)
	for _, rec := range recs {
		v := value(rec)
		if strings.TrimSpace(v) == "" {
			continue
		}
		sizes[v]++
	}
	return sizes
}

// duplicates calls emit for every record whose value is shared by at least
// one other record, in record order, passing the size of its group.
func duplicates(recs []*model.Record, value func(*model.Record) string, emit func(rec *model.Record, groupSize int) model.Issue) []model.Issue {
	sizes := groupSizes(recs, value)
	var issues []model.Issue
	for _, rec := range recs {
		v := value(rec)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if n := sizes[v]; n >= 2 {
			issues = append(issues, emit(rec, n))
		}
	}
	return issues
}
