package rules

import (
	"fmt"
	"strings"

	"github.com/nao1215/seoaudit/internal/model"
)

// TitlePack checks presence, length and uniqueness of the <title> element.
func TitlePack() *Pack {
	return &Pack{
		ID:   CategoryTitle,
		Name: "Problemas Títulos",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality,
			"title", "title_length", "title_words", model.ColumnRecommendation, "impacto_seo",
		},
		AllClear: "✅ Nenhum problema de título encontrado!",
		Rules: []Rule{
			{ID: "title_missing", Requires: []model.Field{model.FieldTitle}, Record: titleMissing},
			{ID: "title_too_long", Requires: []model.Field{model.FieldTitleLength}, Record: titleTooLong},
			{ID: "title_too_short", Requires: []model.Field{model.FieldTitleLength}, Record: titleTooShort},
			{ID: "title_duplicate", Requires: []model.Field{model.FieldTitle}, Dataset: titleDuplicate},
		},
	}
}

func titleIssue(rec *model.Record, problem string, criticality model.Criticality) model.Issue {
	return model.NewIssue(rec.URL, CategoryTitle, problem, criticality).
		With("title", rec.Title).
		With("title_length", rec.TitleLength).
		With("title_words", rec.TitleWords)
}

func titleMissing(rec *model.Record, _ *Env) []model.Issue {
	if strings.TrimSpace(rec.Title) != "" {
		return nil
	}
	issue := titleIssue(rec, "Sem título", model.CriticalityCritical).
		WithRecommendation("Adicionar título único e descritivo (30-60 chars)").
		With("impacto_seo", "Muito alto - Título é fundamental para SEO")
	return []model.Issue{issue}
}

func titleTooLong(rec *model.Record, env *Env) []model.Issue {
	th := env.Thresholds
	n := rec.TitleLength
	if n <= th.TitleMaxLength {
		return nil
	}
	criticality := model.CriticalityMedium
	if n > th.TitleCriticalLength {
		criticality = model.CriticalityHigh
	}
	issue := titleIssue(rec, fmt.Sprintf("Título muito longo (%d chars)", n), criticality).
		WithRecommendation(fmt.Sprintf("Reduzir em %d caracteres (ideal: %d-%d)", n-th.TitleMaxLength, th.TitleMinLength, th.TitleMaxLength)).
		With("impacto_seo", "Google pode truncar na SERP")
	return []model.Issue{issue}
}

func titleTooShort(rec *model.Record, env *Env) []model.Issue {
	th := env.Thresholds
	n := rec.TitleLength
	if n <= 0 || n >= th.TitleMinLength {
		return nil
	}
	issue := titleIssue(rec, fmt.Sprintf("Título muito curto (%d chars)", n), model.CriticalityMedium).
		WithRecommendation(fmt.Sprintf("Adicionar %d caracteres (ideal: %d-%d)", th.TitleMinLength-n, th.TitleMinLength, th.TitleMaxLength)).
		With("impacto_seo", "Pouco aproveitamento do espaço na SERP")
	return []model.Issue{issue}
}

func titleDuplicate(recs []*model.Record, env *Env) []model.Issue {
	return duplicates(recs, func(r *model.Record) string { return r.Title }, func(rec *model.Record, n int) model.Issue {
		criticality := model.CriticalityMedium
		if n > env.Thresholds.TitleDuplicateHighGroup {
			criticality = model.CriticalityHigh
		}
		return titleIssue(rec, fmt.Sprintf("Título duplicado (%d páginas)", n), criticality).
			WithRecommendation("Criar título único para cada página").
			With("impacto_seo", "Google pode não indexar todas as páginas")
	})
}
