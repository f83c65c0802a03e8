package rules

import (
	"cmp"
	"fmt"
	"math"
	"strings"

	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/model"
)

// PerformancePack checks response time, page weight, resource count and the
// share of visible text in the markup.
func PerformancePack() *Pack {
	return &Pack{
		ID:   CategoryPerformance,
		Name: "Problemas Performance",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality, model.ColumnPriority,
			"categoria", "response_time", "content_length_mb", "page_type",
			"core_web_vitals_impact", "user_experience_impact", "seo_impact",
			"action_required", "technical_recommendations", "business_impact",
		},
		AllClear: "✅ Nenhum problema de performance encontrado!",
		Rules: []Rule{
			{ID: "slow_page", Requires: []model.Field{model.FieldResponseTime}, Record: performanceSlow},
			{ID: "heavy_page", Requires: []model.Field{model.FieldContentLength}, Record: performanceHeavy},
			{ID: "too_many_resources", RequiresAny: []model.Field{model.FieldImagesCount, model.FieldTotalLinksCount}, Record: performanceResources},
			{ID: "low_text_ratio", Requires: []model.Field{model.FieldTextRatio}, Record: performanceTextRatio},
		},
		Secondary: func(a, b model.Issue) int {
			if c := byPriorityDesc(a, b); c != 0 {
				return c
			}
			return cmp.Compare(evidenceFloat(b, "response_time", 0), evidenceFloat(a, "response_time", 0))
		},
	}
}

// megabytes converts a byte count to MB rounded to two decimals.
func megabytes(n int64) float64 {
	return math.Round(float64(n)/float64(config.Megabyte)*100) / 100
}

// performanceImpact is the descriptive evidence block of a performance issue.
type performanceImpact struct {
	category, webVitals, experience, seo, action, technical, business string
}

func performanceIssue(rec *model.Record, env *Env, problem string, criticality model.Criticality, priority float64, impact performanceImpact) model.Issue {
	return model.NewIssue(rec.URL, CategoryPerformance, problem, criticality).
		WithPriority(priority).
		With("categoria", impact.category).
		With("response_time", rec.ResponseTime).
		With("content_length_mb", megabytes(rec.ContentLength)).
		With("page_type", string(pageType(rec, env))).
		With("core_web_vitals_impact", impact.webVitals).
		With("user_experience_impact", impact.experience).
		With("seo_impact", impact.seo).
		With("action_required", impact.action).
		With("technical_recommendations", impact.technical).
		With("business_impact", impact.business).
		WithRecommendation(impact.action)
}

// speedRecommendation picks remediation steps by how slow the page is.
func speedRecommendation(seconds float64) string {
	switch {
	case seconds > 4:
		return "CDN, cache server, otimização DB, minificação"
	case seconds > 3.5:
		return "Cache browser, compressão GZIP, otimização imagens"
	default:
		return "Fine-tuning server, async loading"
	}
}

func performanceSlow(rec *model.Record, env *Env) []model.Issue {
	th := env.Thresholds
	t := rec.ResponseTime
	switch {
	case t > th.VerySlowResponse:
		return []model.Issue{
			performanceIssue(rec, env, fmt.Sprintf("Página muito lenta (%.2fs)", t), model.CriticalityCritical, 10, performanceImpact{
				category:   "Velocidade",
				webVitals:  "LCP muito acima de 2.5s",
				experience: "Maioria dos usuários abandona antes do carregamento",
				seo:        "Penalização direta no ranking",
				action:     fmt.Sprintf("URGENTE: reduzir tempo de resposta para menos de %.0fs", th.SlowResponse),
				technical:  "URGENTE: CDN global, cache avançado, server upgrade, code splitting",
				business:   "Perda significativa de conversões",
			}),
		}
	case t > th.SlowResponse:
		return []model.Issue{
			performanceIssue(rec, env, fmt.Sprintf("Página lenta (%.2fs)", t), model.CriticalityHigh, 8, performanceImpact{
				category:   "Velocidade",
				webVitals:  "LCP acima de 2.5s",
				experience: "Usuários percebem lentidão",
				seo:        "Sinal negativo de page experience",
				action:     fmt.Sprintf("Reduzir tempo de resposta para menos de %.0fs", th.SlowResponse),
				technical:  speedRecommendation(t),
				business:   "Queda de conversão a cada segundo extra",
			}),
		}
	}
	return nil
}

func performanceHeavy(rec *model.Record, env *Env) []model.Issue {
	th := env.Thresholds
	size := rec.ContentLength
	if size <= th.HeavyPageBytes {
		return nil
	}

	impact := performanceImpact{
		category:   "Tamanho",
		webVitals:  "LCP e FCP afetados pelo download",
		experience: "Carregamento lento em conexões móveis",
		seo:        "Consumo maior de crawl budget",
		action:     "Reduzir o peso da página",
		business:   "Custo de banda e abandono em mobile",
	}
	criticality, priority := model.CriticalityMedium, 5.0
	switch {
	case size > th.HeavyPageCriticalBytes:
		criticality, priority = model.CriticalityCritical, 9
		impact.technical = "Compressão agressiva, lazy loading, code splitting, WebP"
		impact.action = "URGENTE: reduzir o peso da página"
	case size > th.HeavyPageHighBytes:
		criticality, priority = model.CriticalityHigh, 7
		impact.technical = "Otimização imagens, minificação, tree shaking"
	default:
		impact.technical = "Compressão GZIP, remoção código unused"
	}

	problem := fmt.Sprintf("Página pesada (%.1f MB)", float64(size)/float64(config.Megabyte))
	return []model.Issue{performanceIssue(rec, env, problem, criticality, priority, impact)}
}

func performanceResources(rec *model.Record, env *Env) []model.Issue {
	th := env.Thresholds
	images, links := rec.ImagesCount, rec.TotalLinksCount
	total := images + links
	if total <= th.ResourceTotal {
		return nil
	}

	var parts []string
	if images > th.ResourceImages {
		parts = append(parts, fmt.Sprintf("%d imagens", images))
	}
	if links > th.ResourceLinks {
		parts = append(parts, fmt.Sprintf("%d links", links))
	}
	if len(parts) == 0 {
		return nil
	}

	criticality := model.CriticalityMedium
	if total > th.ResourceTotalHigh {
		criticality = model.CriticalityHigh
	}
	return []model.Issue{
		performanceIssue(rec, env, "Muitos recursos: "+strings.Join(parts, ", "), criticality, 6, performanceImpact{
			category:   "Recursos",
			webVitals:  "Mais requisições atrasam o LCP",
			experience: "Página carregada e difícil de navegar",
			seo:        "Autoridade diluída entre muitos links",
			action:     "Reduzir número de imagens e links",
			technical:  "Lazy loading, sprites, paginação, revisão de menus",
			business:   "Foco do usuário disperso",
		}),
	}
}

func performanceTextRatio(rec *model.Record, env *Env) []model.Issue {
	ratio := rec.TextRatio
	if ratio >= env.Thresholds.MinTextRatio {
		return nil
	}
	return []model.Issue{
		performanceIssue(rec, env, fmt.Sprintf("Baixa eficiência de conteúdo (%.1f%% texto)", ratio*100), model.CriticalityLow, 3, performanceImpact{
			category:   "Conteúdo",
			webVitals:  "HTML inflado sem conteúdo visível",
			experience: "Pouco conteúdo útil",
			seo:        "Conteúdo raso para o tamanho do documento",
			action:     "Aumentar conteúdo textual ou enxugar o markup",
			technical:  "Remover CSS/JS inline, simplificar DOM",
			business:   "Menor relevância para buscas",
		}),
	}
}
