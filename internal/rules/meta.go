package rules

import (
	"fmt"
	"strings"

	"github.com/nao1215/seoaudit/internal/model"
)

// MetaPack checks the meta description.
func MetaPack() *Pack {
	return &Pack{
		ID:   CategoryMeta,
		Name: "Problemas Meta",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality,
			"meta_description", "meta_description_length", model.ColumnRecommendation, "impacto_ctr",
		},
		AllClear: "✅ Nenhum problema de meta description!",
		Rules: []Rule{
			{ID: "meta_missing", Requires: []model.Field{model.FieldMetaDescription}, Record: metaMissing},
			{ID: "meta_too_long", Requires: []model.Field{model.FieldMetaDescriptionLength}, Record: metaTooLong},
			{ID: "meta_too_short", Requires: []model.Field{model.FieldMetaDescriptionLength}, Record: metaTooShort},
			{ID: "meta_duplicate", Requires: []model.Field{model.FieldMetaDescription}, Dataset: metaDuplicate},
		},
	}
}

func metaIssue(rec *model.Record, problem string, criticality model.Criticality) model.Issue {
	return model.NewIssue(rec.URL, CategoryMeta, problem, criticality).
		With("meta_description", rec.MetaDescription).
		With("meta_description_length", rec.MetaDescriptionLength)
}

func metaMissing(rec *model.Record, _ *Env) []model.Issue {
	if strings.TrimSpace(rec.MetaDescription) != "" {
		return nil
	}
	issue := metaIssue(rec, "Sem meta description", model.CriticalityHigh).
		WithRecommendation("Escrever meta description única (120-160 chars)").
		With("impacto_ctr", "Google gera snippet automático, CTR menor")
	return []model.Issue{issue}
}

func metaTooLong(rec *model.Record, env *Env) []model.Issue {
	th := env.Thresholds
	n := rec.MetaDescriptionLength
	if n <= th.MetaMaxLength {
		return nil
	}
	criticality := model.CriticalityMedium
	if n >= th.MetaCriticalLength {
		criticality = model.CriticalityHigh
	}
	issue := metaIssue(rec, fmt.Sprintf("Meta description muito longa (%d chars)", n), criticality).
		WithRecommendation(fmt.Sprintf("Reduzir em %d caracteres", n-th.MetaMaxLength)).
		With("impacto_ctr", "Snippet truncado na SERP")
	return []model.Issue{issue}
}

func metaTooShort(rec *model.Record, env *Env) []model.Issue {
	th := env.Thresholds
	n := rec.MetaDescriptionLength
	if n <= 0 || n >= th.MetaMinLength {
		return nil
	}
	issue := metaIssue(rec, fmt.Sprintf("Meta description muito curta (%d chars)", n), model.CriticalityLow).
		WithRecommendation(fmt.Sprintf("Adicionar %d caracteres", th.MetaMinLength-n)).
		With("impacto_ctr", "Pouco espaço usado para convencer o clique")
	return []model.Issue{issue}
}

func metaDuplicate(recs []*model.Record, env *Env) []model.Issue {
	return duplicates(recs, func(r *model.Record) string { return r.MetaDescription }, func(rec *model.Record, n int) model.Issue {
		criticality := model.CriticalityMedium
		if n > env.Thresholds.MetaDuplicateHighGroup {
			criticality = model.CriticalityHigh
		}
		return metaIssue(rec, fmt.Sprintf("Meta description duplicada (%d páginas)", n), criticality).
			WithRecommendation("Criar meta description única para cada página").
			With("impacto_ctr", "Snippets iguais competem entre si")
	})
}
