package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/seoaudit/internal/model"
)

// HeadingsPack checks the H1..H6 outline of every page.
func HeadingsPack() *Pack {
	return &Pack{
		ID:   CategoryHeadings,
		Name: "Problemas Headings",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality,
			"h1_count", "h2_count", "heading_structure", "h1_text", model.ColumnRecommendation,
		},
		AllClear: "✅ Estrutura de headings adequada!",
		Rules: []Rule{
			{ID: "h1_missing", Requires: []model.Field{model.FieldH1Count}, Record: headingsNoH1},
			{ID: "h1_multiple", Requires: []model.Field{model.FieldH1Count}, Record: headingsMultipleH1},
			{ID: "h2_missing", Requires: []model.Field{model.FieldH1Count, model.FieldH2Count}, Record: headingsNoH2},
			{ID: "h1_h2_missing", Requires: []model.Field{model.FieldH1Count, model.FieldH2Count}, Record: headingsNoH1NoH2},
			{ID: "hierarchy_broken", Record: headingsHierarchy},
			{ID: "h1_too_long", Requires: []model.Field{model.FieldH1Length}, Record: headingsLongH1},
		},
	}
}

// headingCounts returns the H1..H6 counts indexed from 0.
func headingCounts(rec *model.Record) [6]int {
	return [6]int{rec.H1Count, rec.H2Count, rec.H3Count, rec.H4Count, rec.H5Count, rec.H6Count}
}

// headingStructure renders the non-zero heading counts as "H1:1 | H2:3".
func headingStructure(rec *model.Record) string {
	var parts []string
	for i, n := range headingCounts(rec) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("H%d:%d", i+1, n))
		}
	}
	if len(parts) == 0 {
		return "Sem headings"
	}
	return strings.Join(parts, " | ")
}

func headingsIssue(rec *model.Record, problem string, criticality model.Criticality) model.Issue {
	return model.NewIssue(rec.URL, CategoryHeadings, problem, criticality).
		With("h1_count", rec.H1Count).
		With("h2_count", rec.H2Count).
		With("heading_structure", headingStructure(rec)).
		With("h1_text", rec.H1Text)
}

func headingsNoH1(rec *model.Record, _ *Env) []model.Issue {
	if rec.H1Count != 0 {
		return nil
	}
	return []model.Issue{
		headingsIssue(rec, "Sem H1", model.CriticalityCritical).
			WithRecommendation("Adicionar um H1 único que descreva o conteúdo principal"),
	}
}

func headingsMultipleH1(rec *model.Record, _ *Env) []model.Issue {
	n := rec.H1Count
	if n <= 1 {
		return nil
	}
	return []model.Issue{
		headingsIssue(rec, fmt.Sprintf("Múltiplos H1 (%d H1s)", n), model.CriticalityHigh).
			WithRecommendation(fmt.Sprintf("Manter apenas 1 H1, converter outros %d para H2", n-1)),
	}
}

func headingsNoH2(rec *model.Record, _ *Env) []model.Issue {
	if rec.H1Count == 0 || rec.H2Count != 0 {
		return nil
	}
	return []model.Issue{
		headingsIssue(rec, "Sem H2 (estrutura incompleta)", model.CriticalityMedium).
			WithRecommendation("Dividir o conteúdo em seções com H2"),
	}
}

func headingsNoH1NoH2(rec *model.Record, _ *Env) []model.Issue {
	if rec.H1Count != 0 || rec.H2Count != 0 {
		return nil
	}
	return []model.Issue{
		headingsIssue(rec, "Sem H1 E sem H2", model.CriticalityMaximum).
			WithRecommendation("Criar estrutura completa: H1 principal e H2 por seção"),
	}
}

// headingsHierarchy reports every level from H3 to H6 that is used while the
// level directly above it is not. Absent counts default to zero, so a record
// without heading data never yields a break.
func headingsHierarchy(rec *model.Record, _ *Env) []model.Issue {
	counts := headingCounts(rec)
	var breaks []string
	for level := 3; level <= 6; level++ {
		if counts[level-1] > 0 && counts[level-2] == 0 {
			breaks = append(breaks, fmt.Sprintf("H%d sem H%d", level, level-1))
		}
	}
	if len(breaks) == 0 {
		return nil
	}
	return []model.Issue{
		headingsIssue(rec, "Hierarquia quebrada: "+strings.Join(breaks, ", "), model.CriticalityMedium).
			WithRecommendation("Não pular níveis de heading"),
	}
}

func headingsLongH1(rec *model.Record, env *Env) []model.Issue {
	n := rec.H1Length
	if n <= env.Thresholds.H1MaxLength {
		return nil
	}
	return []model.Issue{
		headingsIssue(rec, fmt.Sprintf("H1 muito longo (%d chars)", n), model.CriticalityLow).
			WithRecommendation(fmt.Sprintf("Reduzir H1 para até %d caracteres", env.Thresholds.H1MaxLength)),
	}
}

// H1H2Pack is the focused view of pages missing their top level headings.
// Its priority scores put the worst structure first: 0 for neither H1 nor
// H2, 1 for no H1, 2 for no H2.
func H1H2Pack() *Pack {
	return &Pack{
		ID:   CategoryH1H2,
		Name: "H1 H2 Ausentes",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality, model.ColumnPriority,
			"h1_count", "h2_count", "page_type", "action_required", model.ColumnTechnicalFix,
		},
		AllClear: "✅ Estrutura de H1/H2 adequada!",
		Rules: []Rule{
			{ID: "h1_missing", Requires: []model.Field{model.FieldH1Count}, Record: h1h2NoH1},
			{ID: "h2_missing", Requires: []model.Field{model.FieldH1Count, model.FieldH2Count}, Record: h1h2NoH2},
			{ID: "h1_h2_missing", Requires: []model.Field{model.FieldH1Count, model.FieldH2Count}, Record: h1h2NoBoth},
		},
		Secondary: byPriorityAsc,
	}
}

func h1h2Issue(rec *model.Record, env *Env, problem string, criticality model.Criticality, priority float64, action string) model.Issue {
	return model.NewIssue(rec.URL, CategoryH1H2, problem, criticality).
		WithPriority(priority).
		With("h1_count", rec.H1Count).
		With("h2_count", rec.H2Count).
		With("page_type", string(pageType(rec, env))).
		With("action_required", action)
}

func h1h2NoH1(rec *model.Record, env *Env) []model.Issue {
	if rec.H1Count != 0 {
		return nil
	}
	return []model.Issue{
		h1h2Issue(rec, env, "Sem H1", model.CriticalityCritical, 1, "URGENTE: Adicionar H1").
			WithFix("<h1>Título Principal da Página</h1>"),
	}
}

func h1h2NoH2(rec *model.Record, env *Env) []model.Issue {
	if rec.H1Count == 0 || rec.H2Count != 0 {
		return nil
	}
	return []model.Issue{
		h1h2Issue(rec, env, "Sem H2", model.CriticalityHigh, 2, "Adicionar H2 para seções").
			WithFix("<h2>Seção Principal</h2> + subsections"),
	}
}

func h1h2NoBoth(rec *model.Record, env *Env) []model.Issue {
	if rec.H1Count != 0 || rec.H2Count != 0 {
		return nil
	}
	return []model.Issue{
		h1h2Issue(rec, env, "Sem H1 E sem H2", model.CriticalityMaximum, 0, "URGENTÍSSIMO: Estrutura de headings completa").
			WithFix("<h1>Título Principal</h1> + <h2>Seções</h2>"),
	}
}

// EmptyHeadingsPack reports headings that are present in the markup but carry
// no text, or are hidden with CSS.
func EmptyHeadingsPack() *Pack {
	return &Pack{
		ID:   CategoryEmptyHeadings,
		Name: "Headings Vazias",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality, model.ColumnPriority,
			"total_vazias", "total_escondidas", "total_problemas", "detalhamento", "metodos_css",
			model.ColumnRecommendation,
		},
		AllClear: "✅ Nenhuma heading vazia ou escondida encontrada!",
		Rules: []Rule{
			{ID: "empty_or_hidden", Record: emptyHeadings},
		},
		Secondary: byPriorityDesc,
	}
}

const unspecifiedLevel = "H? (não especificado)"

// levelTally keeps per-level counts in first-seen order.
type levelTally struct {
	order   []string
	counts  map[string]int
	methods map[string][]string
}

func newLevelTally() *levelTally {
	return &levelTally{counts: map[string]int{}, methods: map[string][]string{}}
}

func (t *levelTally) add(level, method string, n int) {
	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "" {
		level = unspecifiedLevel
	}
	if _, ok := t.counts[level]; !ok {
		t.order = append(t.order, level)
	}
	t.counts[level] += n
	method = strings.TrimSpace(method)
	if method == "" {
		return
	}
	if !slices.Contains(t.methods[level], method) {
		t.methods[level] = append(t.methods[level], method)
	}
}

func (t *levelTally) total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

func (t *levelTally) String() string {
	parts := make([]string, 0, len(t.order))
	for _, level := range t.order {
		part := fmt.Sprintf("%d %s", t.counts[level], level)
		if methods := t.methods[level]; len(methods) > 0 {
			part += " (" + strings.Join(methods, ", ") + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// parseHiddenSummary reads the "H2: display:none; H3: visibility:hidden"
// summary some crawlers emit instead of detail lists.
func parseHiddenSummary(summary string, tally *levelTally) {
	for _, entry := range strings.Split(summary, ";") {
		level, method, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			continue
		}
		tally.add(level, method, 1)
	}
}

func emptyHeadings(rec *model.Record, _ *Env) []model.Issue {
	if rec.EmptyHeadingsCount <= 0 && rec.HiddenHeadingsCount <= 0 {
		return nil
	}

	empty := newLevelTally()
	for _, d := range rec.EmptyHeadingsDetails {
		empty.add(d.Level, "", 1)
	}
	if missing := rec.EmptyHeadingsCount - empty.total(); missing > 0 {
		empty.add("", "", missing)
	}

	hidden := newLevelTally()
	for _, d := range rec.HiddenHeadingsDetails {
		hidden.add(d.Level, d.CSSIssue, 1)
	}
	if len(rec.HiddenHeadingsDetails) == 0 && rec.HiddenHeadingsSummary != "" {
		parseHiddenSummary(rec.HiddenHeadingsSummary, hidden)
	}
	if missing := rec.HiddenHeadingsCount - hidden.total(); missing > 0 {
		hidden.add("", "", missing)
	}

	nEmpty := max(rec.EmptyHeadingsCount, empty.total())
	nHidden := max(rec.HiddenHeadingsCount, hidden.total())
	total := nEmpty + nHidden

	var details, methods []string
	if nEmpty > 0 {
		details = append(details, "Vazias: "+empty.String())
	}
	if nHidden > 0 {
		details = append(details, "Escondidas: "+hidden.String())
		for _, level := range hidden.order {
			for _, m := range hidden.methods[level] {
				if !slices.Contains(methods, m) {
					methods = append(methods, m)
				}
			}
		}
	}

	criticality := model.CriticalityLow
	recommendation := "Remover headings vazias ou preencher com texto descritivo"
	if nHidden > 0 {
		criticality = model.CriticalityMedium
		recommendation = "Remover headings escondidas por CSS; podem ser vistas como manipulação"
	}

	issue := model.NewIssue(rec.URL, CategoryEmptyHeadings,
		fmt.Sprintf("%d headings vazias, %d escondidas", nEmpty, nHidden), criticality).
		WithPriority(float64(total)).
		With("total_vazias", nEmpty).
		With("total_escondidas", nHidden).
		With("total_problemas", total).
		With("detalhamento", strings.Join(details, " | ")).
		With("metodos_css", strings.Join(methods, ", ")).
		WithRecommendation(recommendation)
	return []model.Issue{issue}
}
