package rules

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/pagetype"
)

// Category identifiers. They are stable and used in configuration files
// (disabled_reports) and in the history store.
const (
	CategoryStatus        = "status"
	CategoryTitle         = "title"
	CategoryMeta          = "meta"
	CategoryHeadings      = "headings"
	CategoryH1H2          = "h1_h2"
	CategoryEmptyHeadings = "empty_headings"
	CategoryImages        = "images"
	CategoryTechnical     = "technical"
	CategoryPerformance   = "performance"
	CategoryMixedContent  = "mixed_content"
)

// ErrUnknownCategory is returned when a category identifier is not registered.
var ErrUnknownCategory = errors.New("unknown report category")

// Env is the read-only context shared by every rule of a run.
type Env struct {
	// Thresholds are the numeric cut-offs.
	Thresholds config.Thresholds

	// Classifier assigns page types to URLs.
	Classifier *pagetype.Classifier
}

// NewEnv creates an Env. A nil classifier is replaced by the default one.
func NewEnv(thresholds config.Thresholds, classifier *pagetype.Classifier) *Env {
	if classifier == nil {
		classifier = pagetype.Default()
	}
	return &Env{Thresholds: thresholds, Classifier: classifier}
}

// DefaultEnv returns an Env with the canonical thresholds and page types.
func DefaultEnv() *Env {
	return NewEnv(config.DefaultThresholds(), pagetype.Default())
}

// RecordFunc inspects one record and returns zero or more draft issues.
type RecordFunc func(rec *model.Record, env *Env) []model.Issue

// DatasetFunc inspects the whole record set at once. It is used by rules
// that need cross-record context, such as duplicate detection.
type DatasetFunc func(recs []*model.Record, env *Env) []model.Issue

// Rule is one detector. Exactly one of Record and Dataset is set.
//
// Design decision: Rule is a tagged variant rather than two interfaces.
// Both kinds live in the same ordered list of a Pack, so registration order
// (which decides which duplicate survives consolidation) stays explicit in
// one place, and the engine handles the two kinds with a single branch.
type Rule struct {
	// ID names the rule in logs and error messages.
	ID string

	// Requires lists the fields a record must carry for the rule to look at it.
	// Records lacking any of them are skipped; this is never an error.
	Requires []model.Field

	// RequiresAny lists fields of which a record must carry at least one.
	// It is used by rules where each measure can trigger the issue alone;
	// the absent ones keep their default.
	RequiresAny []model.Field

	// Record is the single-record detector.
	Record RecordFunc

	// Dataset is the whole-set detector. It receives only the records that
	// are eligible (see Eligible).
	Dataset DatasetFunc
}

// Eligible reports whether rec carries the fields the rule needs: every
// field in Requires and, when RequiresAny is set, at least one of those.
func (r Rule) Eligible(rec *model.Record) bool {
	if !rec.HasAll(r.Requires...) {
		return false
	}
	return len(r.RequiresAny) == 0 || rec.HasAny(r.RequiresAny...)
}

// IsDataset reports whether the rule needs the whole record set.
func (r Rule) IsDataset() bool {
	return r.Dataset != nil
}

// Pack is the ordered rule list of one category together with everything
// needed to turn its draft issues into a report.
type Pack struct {
	// ID is the category identifier, one of the Category constants.
	ID string

	// Name is the report display name.
	Name string

	// Columns is the declared column list of the report.
	Columns []string

	// AllClear is the marker shown when the category has no issues.
	AllClear string

	// Rules is the ordered rule list. Order decides which draft survives
	// when two rules emit the same (url, problem) pair.
	Rules []Rule

	// Secondary orders issues of equal criticality. Nil means URL only.
	Secondary func(a, b model.Issue) int
}

// Compare orders two issues of this pack: criticality rank first, then the
// pack's secondary key, then URL ascending as the universal tiebreak.
func (p *Pack) Compare(a, b model.Issue) int {
	if c := cmp.Compare(a.Criticality.Rank(), b.Criticality.Rank()); c != 0 {
		return c
	}
	if p.Secondary != nil {
		if c := p.Secondary(a, b); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.URL, b.URL)
}

// DefaultPacks returns every category pack in report order.
// Each call returns fresh values, so callers may modify them.
func DefaultPacks() []*Pack {
	return []*Pack{
		StatusPack(),
		TitlePack(),
		MetaPack(),
		HeadingsPack(),
		H1H2Pack(),
		EmptyHeadingsPack(),
		ImagesPack(),
		TechnicalPack(),
		PerformancePack(),
		MixedContentPack(),
	}
}

// Categories lists the identifiers of DefaultPacks in order.
func Categories() []string {
	packs := DefaultPacks()
	ids := make([]string, len(packs))
	for i, p := range packs {
		ids[i] = p.ID
	}
	return ids
}

// Lookup returns the default pack with the given identifier.
func Lookup(id string) (*Pack, error) {
	for _, p := range DefaultPacks() {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, id)
}

// Select returns the default packs minus the disabled categories.
// Unknown identifiers in disabled are reported as ErrUnknownCategory.
func Select(disabled []string) ([]*Pack, error) {
	skip := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		if _, err := Lookup(id); err != nil {
			return nil, err
		}
		skip[id] = true
	}
	var packs []*Pack
	for _, p := range DefaultPacks() {
		if !skip[p.ID] {
			packs = append(packs, p)
		}
	}
	return packs, nil
}

// byPriorityDesc orders issues by descending priority score.
// Issues without a score sort last.
func byPriorityDesc(a, b model.Issue) int {
	return cmp.Compare(b.PriorityOr(-1), a.PriorityOr(-1))
}

// byPriorityAsc orders issues by ascending priority score.
// Issues without a score sort last.
func byPriorityAsc(a, b model.Issue) int {
	const none = 1 << 30
	return cmp.Compare(a.PriorityOr(none), b.PriorityOr(none))
}

// evidenceFloat reads a numeric evidence value, or def.
func evidenceFloat(issue model.Issue, key string, def float64) float64 {
	v, ok := issue.Value(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

// pageType classifies the record URL.
func pageType(rec *model.Record, env *Env) pagetype.PageType {
	return env.Classifier.Classify(rec.URL)
}
