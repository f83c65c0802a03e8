package rules

import (
	"strings"

	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/pagetype"
)

// TechnicalPack checks indexing directives and head markup. Every issue
// carries a priority score from 2 (cosmetic) to 9 (page excluded from the
// index), which orders issues of the same criticality.
func TechnicalPack() *Pack {
	return &Pack{
		ID:   CategoryTechnical,
		Name: "Problemas Técnicos",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality, model.ColumnPriority,
			"page_type", "canonical_url", "meta_robots", model.ColumnRecommendation, model.ColumnTechnicalFix,
		},
		AllClear: "✅ Nenhum problema técnico encontrado!",
		Rules: []Rule{
			{ID: "canonical_missing", Requires: []model.Field{model.FieldCanonicalURL}, Record: technicalNoCanonical},
			{ID: "canonical_foreign", Requires: []model.Field{model.FieldCanonicalURL}, Record: technicalForeignCanonical},
			{ID: "viewport_missing", Requires: []model.Field{model.FieldHasViewport}, Record: technicalNoViewport},
			{ID: "charset_missing", Requires: []model.Field{model.FieldHasCharset}, Record: technicalNoCharset},
			{ID: "schema_missing", Requires: []model.Field{model.FieldSchemaTotalCount}, Record: technicalNoSchema},
			{ID: "robots_noindex", Requires: []model.Field{model.FieldMetaRobotsNoindex}, Record: technicalNoindex},
			{ID: "robots_nofollow", Requires: []model.Field{model.FieldMetaRobotsNofollow}, Record: technicalNofollow},
			{ID: "favicon_missing", Requires: []model.Field{model.FieldHasFavicon}, Record: technicalNoFavicon},
			{ID: "open_graph_missing", Requires: []model.Field{model.FieldOGTagsCount}, Record: technicalNoOpenGraph},
		},
		Secondary: byPriorityDesc,
	}
}

func technicalIssue(rec *model.Record, env *Env, problem string, criticality model.Criticality, priority float64) model.Issue {
	return model.NewIssue(rec.URL, CategoryTechnical, problem, criticality).
		WithPriority(priority).
		With("page_type", string(pageType(rec, env))).
		With("canonical_url", rec.CanonicalURL).
		With("meta_robots", rec.MetaRobots)
}

func technicalNoCanonical(rec *model.Record, env *Env) []model.Issue {
	if strings.TrimSpace(rec.CanonicalURL) != "" {
		return nil
	}
	return []model.Issue{
		technicalIssue(rec, env, "Sem canonical URL", model.CriticalityMedium, 6).
			WithRecommendation("Definir canonical para evitar conteúdo duplicado").
			WithFix(`<link rel="canonical" href="` + rec.URL + `">`),
	}
}

func technicalForeignCanonical(rec *model.Record, env *Env) []model.Issue {
	if strings.TrimSpace(rec.CanonicalURL) == "" || rec.CanonicalIsSelf {
		return nil
	}
	return []model.Issue{
		technicalIssue(rec, env, "Canonical aponta para outra URL", model.CriticalityLow, 3).
			WithRecommendation("Confirmar que a página deve ceder a indexação para " + rec.CanonicalURL),
	}
}

func technicalNoViewport(rec *model.Record, env *Env) []model.Issue {
	if rec.HasViewport {
		return nil
	}
	return []model.Issue{
		technicalIssue(rec, env, "Sem meta viewport", model.CriticalityHigh, 8).
			WithRecommendation("Adicionar viewport para compatibilidade mobile").
			WithFix(`<meta name="viewport" content="width=device-width, initial-scale=1">`),
	}
}

func technicalNoCharset(rec *model.Record, env *Env) []model.Issue {
	if rec.HasCharset {
		return nil
	}
	return []model.Issue{
		technicalIssue(rec, env, "Sem charset definido", model.CriticalityMedium, 5).
			WithRecommendation("Declarar codificação de caracteres no <head>").
			WithFix(`<meta charset="UTF-8">`),
	}
}

func technicalNoSchema(rec *model.Record, env *Env) []model.Issue {
	if rec.SchemaTotalCount != 0 {
		return nil
	}
	pt := pageType(rec, env)
	if !pt.In(pagetype.Product, pagetype.BlogArticle, pagetype.Category, pagetype.Institutional) {
		return nil
	}
	criticality, priority := model.CriticalityLow, 4.0
	if pt == pagetype.Product {
		criticality, priority = model.CriticalityMedium, 7
	}
	return []model.Issue{
		technicalIssue(rec, env, "Sem structured data (Schema)", criticality, priority).
			WithRecommendation("Adicionar Schema.org JSON-LD adequado ao tipo " + string(pt)).
			WithFix(schemaFix(pt)),
	}
}

// schemaFix suggests a JSON-LD type for the page type.
func schemaFix(pt pagetype.PageType) string {
	kind := "WebPage"
	switch pt {
	case pagetype.Product:
		kind = "Product"
	case pagetype.BlogArticle:
		kind = "Article"
	case pagetype.Category:
		kind = "CollectionPage"
	case pagetype.Institutional:
		kind = "Organization"
	}
	return `<script type="application/ld+json">{"@context":"https://schema.org","@type":"` + kind + `"}</script>`
}

func technicalNoindex(rec *model.Record, env *Env) []model.Issue {
	if !rec.MetaRobotsNoindex {
		return nil
	}
	return []model.Issue{
		technicalIssue(rec, env, "Meta robots: noindex", model.CriticalityHigh, 9).
			WithRecommendation("Remover noindex se a página deve aparecer no Google"),
	}
}

func technicalNofollow(rec *model.Record, env *Env) []model.Issue {
	if !rec.MetaRobotsNofollow {
		return nil
	}
	return []model.Issue{
		technicalIssue(rec, env, "Meta robots: nofollow", model.CriticalityMedium, 5).
			WithRecommendation("Remover nofollow para permitir que links passem autoridade"),
	}
}

func technicalNoFavicon(rec *model.Record, env *Env) []model.Issue {
	if rec.HasFavicon {
		return nil
	}
	return []model.Issue{
		technicalIssue(rec, env, "Sem favicon", model.CriticalityLow, 2).
			WithRecommendation("Adicionar favicon para reconhecimento da marca").
			WithFix(`<link rel="icon" href="/favicon.ico">`),
	}
}

func technicalNoOpenGraph(rec *model.Record, env *Env) []model.Issue {
	if rec.OGTagsCount != 0 {
		return nil
	}
	pt := pageType(rec, env)
	if !pt.In(pagetype.Product, pagetype.BlogArticle, pagetype.Homepage) {
		return nil
	}
	criticality, priority := model.CriticalityLow, 3.0
	if pt.In(pagetype.Product, pagetype.Homepage) {
		criticality, priority = model.CriticalityMedium, 6
	}
	return []model.Issue{
		technicalIssue(rec, env, "Sem Open Graph tags", criticality, priority).
			WithRecommendation("Adicionar og:title, og:description e og:image para compartilhamento").
			WithFix(`<meta property="og:title" content="...">`),
	}
}
