package rules

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/seoaudit/internal/model"
)

// Risk labels of the mixed content report. They start with a criticality
// label so ParseCriticality can rank them.
const (
	riskActive  = "CRÍTICO - Bloqueado pelo browser"
	riskPassive = "MÉDIO - Cadeado quebrado"
	riskForms   = "MÉDIO - Dados não criptografados"
	riskLinks   = "BAIXO - Não é mixed content"

	// riskUnknown is used when the crawler reports counts without a risk label.
	riskUnknown = "DESCONHECIDO"
)

// MixedContentPack checks HTTPS pages for insecure subresources and any page
// for plain HTTP links and form actions.
func MixedContentPack() *Pack {
	return &Pack{
		ID:   CategoryMixedContent,
		Name: "Mixed Content",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality,
			"tipo_mixed_content", "tipo_recurso", "url_http", "risco", "impacto", "solucao",
		},
		AllClear: "✅ Nenhum problema de Mixed Content encontrado!\n🔒 Todas as páginas HTTPS estão seguras",
		Rules: []Rule{
			{ID: "active_mixed_content", Requires: httpsMixedFields, Record: mixedActive},
			{ID: "passive_mixed_content", Requires: httpsMixedFields, Record: mixedPassive},
			{ID: "mixed_content_summary", Requires: httpsMixedFields, Record: mixedSummary},
			{ID: "http_links", Requires: []model.Field{model.FieldHTTPLinksCount}, Record: mixedHTTPLinks},
			{ID: "http_forms", Requires: []model.Field{model.FieldHTTPFormsCount}, Record: mixedHTTPForms},
		},
	}
}

var httpsMixedFields = []model.Field{model.FieldIsHTTPSPage, model.FieldTotalMixedContentCount}

// hasMixedContent reports whether rec is an HTTPS page loading HTTP resources.
func hasMixedContent(rec *model.Record) bool {
	return rec.IsHTTPSPage && rec.TotalMixedContentCount > 0
}

// resourceType renders the crawler's resource kind for display.
func resourceType(kind string) string {
	if strings.TrimSpace(kind) == "" {
		return "UNKNOWN"
	}
	return cases.Upper(language.Und).String(kind)
}

type mixedEvidence struct {
	kind, resource, target, risk, impact, solution string
}

func mixedIssue(rec *model.Record, problem string, criticality model.Criticality, ev mixedEvidence) model.Issue {
	return model.NewIssue(rec.URL, CategoryMixedContent, problem, criticality).
		With("tipo_mixed_content", ev.kind).
		With("tipo_recurso", ev.resource).
		With("url_http", ev.target).
		With("risco", ev.risk).
		With("impacto", ev.impact).
		With("solucao", ev.solution).
		WithRecommendation(ev.solution)
}

func mixedItems(rec *model.Record, items []model.MixedContentItem, label, kind, risk, impact string, criticality model.Criticality) []model.Issue {
	if !hasMixedContent(rec) {
		return nil
	}
	issues := make([]model.Issue, 0, len(items))
	for _, item := range items {
		res := resourceType(item.Type)
		issues = append(issues, mixedIssue(rec, fmt.Sprintf("%s (%s): %s", label, res, item.URL), criticality, mixedEvidence{
			kind:     kind,
			resource: res,
			target:   item.URL,
			risk:     risk,
			impact:   impact,
			solution: fmt.Sprintf("Alterar %s para HTTPS", item.Type),
		}))
	}
	return issues
}

func mixedActive(rec *model.Record, _ *Env) []model.Issue {
	return mixedItems(rec, rec.ActiveMixedContentDetails, "Mixed content ativo", "ACTIVE (Crítico)",
		riskActive, "Quebra funcionalidade da página", model.CriticalityCritical)
}

func mixedPassive(rec *model.Record, _ *Env) []model.Issue {
	return mixedItems(rec, rec.PassiveMixedContentDetails, "Mixed content passivo", "PASSIVE (Aviso)",
		riskPassive, "Reduz confiança do usuário", model.CriticalityMedium)
}

// mixedSummary covers crawlers that report mixed content counts without the
// per-item lists. The criticality comes from the crawler's own risk label and
// is kept verbatim when it is not one of the known labels.
func mixedSummary(rec *model.Record, _ *Env) []model.Issue {
	if !hasMixedContent(rec) {
		return nil
	}
	active, passive := rec.ActiveMixedContentCount, rec.PassiveMixedContentCount
	activeUndetailed := len(rec.ActiveMixedContentDetails) == 0 && active > 0
	passiveUndetailed := len(rec.PassiveMixedContentDetails) == 0 && passive > 0
	if !activeUndetailed && !passiveUndetailed {
		return nil
	}

	risk := strings.TrimSpace(rec.MixedContentRisk)
	if risk == "" {
		risk = riskUnknown
	}
	criticality, ok := model.ParseCriticality(risk)
	if !ok {
		criticality = model.Criticality(risk)
	}

	return []model.Issue{
		mixedIssue(rec, fmt.Sprintf("Mixed content (%d ativo, %d passivo)", active, passive), criticality, mixedEvidence{
			kind:     "MIXED CONTENT",
			resource: "MÚLTIPLOS",
			target:   fmt.Sprintf("%d active + %d passive", active, passive),
			risk:     risk,
			impact:   "Problemas de segurança HTTPS",
			solution: "Verificar todos os recursos HTTP",
		}),
	}
}

func mixedHTTPLinks(rec *model.Record, _ *Env) []model.Issue {
	n := rec.HTTPLinksCount
	if n <= 0 {
		return nil
	}
	return []model.Issue{
		mixedIssue(rec, fmt.Sprintf("%d links HTTP", n), model.CriticalityLow, mixedEvidence{
			kind:     "HTTP LINKS",
			resource: "LINKS",
			target:   fmt.Sprintf("%d links HTTP", n),
			risk:     riskLinks,
			impact:   "Usuário pode sair do HTTPS",
			solution: "Alterar links para HTTPS quando possível",
		}),
	}
}

func mixedHTTPForms(rec *model.Record, _ *Env) []model.Issue {
	n := rec.HTTPFormsCount
	if n <= 0 {
		return nil
	}
	return []model.Issue{
		mixedIssue(rec, fmt.Sprintf("%d forms HTTP", n), model.CriticalityMedium, mixedEvidence{
			kind:     "HTTP FORMS",
			resource: "FORMS",
			target:   fmt.Sprintf("%d forms HTTP", n),
			risk:     riskForms,
			impact:   "Submissão de dados insegura",
			solution: "URGENTE: Alterar action para HTTPS",
		}),
	}
}
