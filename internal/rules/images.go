package rules

import (
	"fmt"

	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/pagetype"
)

// ImagesPack checks image accessibility, loading and layout stability.
func ImagesPack() *Pack {
	return &Pack{
		ID:   CategoryImages,
		Name: "Problemas Imagens",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality,
			"images_count", "images_without_alt", "images_with_alt", "alt_coverage",
			"page_type", model.ColumnRecommendation,
		},
		AllClear: "✅ Nenhum problema de imagem encontrado!",
		Rules: []Rule{
			{ID: "images_without_alt", Requires: []model.Field{model.FieldImagesWithoutAlt}, Record: imagesWithoutAlt},
			{ID: "images_without_src", Requires: []model.Field{model.FieldImagesWithoutSrc}, Record: imagesWithoutSrc},
			{ID: "images_too_many", Requires: []model.Field{model.FieldImagesCount}, Record: imagesTooMany},
			{ID: "images_none", Requires: []model.Field{model.FieldImagesCount}, Record: imagesNone},
			{ID: "images_without_dimensions", Requires: []model.Field{model.FieldImagesCount, model.FieldImagesWithDimensions}, Record: imagesWithoutDimensions},
		},
	}
}

func imagesIssue(rec *model.Record, env *Env, problem string, criticality model.Criticality) model.Issue {
	withAlt := max(rec.ImagesCount-rec.ImagesWithoutAlt, 0)
	coverage := "N/A"
	if rec.ImagesCount > 0 {
		coverage = fmt.Sprintf("%.1f%%", float64(withAlt)/float64(rec.ImagesCount)*100)
	}
	return model.NewIssue(rec.URL, CategoryImages, problem, criticality).
		With("images_count", rec.ImagesCount).
		With("images_without_alt", rec.ImagesWithoutAlt).
		With("images_with_alt", withAlt).
		With("alt_coverage", coverage).
		With("page_type", string(pageType(rec, env)))
}

func imagesWithoutAlt(rec *model.Record, env *Env) []model.Issue {
	n := rec.ImagesWithoutAlt
	if n <= 0 {
		return nil
	}
	criticality := model.CriticalityHigh
	if n > env.Thresholds.ImagesWithoutAltCritical {
		criticality = model.CriticalityCritical
	}
	return []model.Issue{
		imagesIssue(rec, env, fmt.Sprintf("%d imagens sem ALT", n), criticality).
			WithRecommendation("Adicionar texto ALT descritivo em todas as imagens").
			WithFix(`<img src="..." alt="Descrição da imagem">`),
	}
}

func imagesWithoutSrc(rec *model.Record, env *Env) []model.Issue {
	n := rec.ImagesWithoutSrc
	if n <= 0 {
		return nil
	}
	return []model.Issue{
		imagesIssue(rec, env, fmt.Sprintf("%d imagens sem SRC", n), model.CriticalityCritical).
			WithRecommendation("Corrigir ou remover tags <img> sem atributo src"),
	}
}

func imagesTooMany(rec *model.Record, env *Env) []model.Issue {
	th := env.Thresholds
	n := rec.ImagesCount
	if n <= th.ImageCountWarning {
		return nil
	}
	criticality := model.CriticalityMedium
	if n > th.ImageCountHigh {
		criticality = model.CriticalityHigh
	}
	return []model.Issue{
		imagesIssue(rec, env, fmt.Sprintf("Muitas imagens (%d imagens)", n), criticality).
			WithRecommendation("Aplicar lazy loading e revisar imagens desnecessárias"),
	}
}

// imagesNone flags pages that are expected to be illustrated.
func imagesNone(rec *model.Record, env *Env) []model.Issue {
	if rec.ImagesCount != 0 {
		return nil
	}
	pt := pageType(rec, env)
	if !pt.In(pagetype.Product, pagetype.BlogArticle, pagetype.Category) {
		return nil
	}
	criticality := model.CriticalityLow
	if pt == pagetype.Product {
		criticality = model.CriticalityMedium
	}
	return []model.Issue{
		imagesIssue(rec, env, "Nenhuma imagem encontrada", criticality).
			WithRecommendation(fmt.Sprintf("Adicionar imagens relevantes para página %s", pt)),
	}
}

func imagesWithoutDimensions(rec *model.Record, env *Env) []model.Issue {
	total := rec.ImagesCount
	if total <= 0 {
		return nil
	}
	coverage := float64(rec.ImagesWithDimensions) / float64(total)
	if coverage >= env.Thresholds.ImageDimensionsCoverage {
		return nil
	}
	missing := max(total-rec.ImagesWithDimensions, 0)
	return []model.Issue{
		imagesIssue(rec, env, fmt.Sprintf("%d imagens sem dimensões", missing), model.CriticalityLow).
			WithRecommendation("Definir width e height para evitar layout shift (CLS)").
			WithFix(`<img src="..." width="800" height="600" alt="...">`),
	}
}
