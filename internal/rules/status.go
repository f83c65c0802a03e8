package rules

import (
	"cmp"
	"fmt"

	"github.com/nao1215/seoaudit/internal/model"
)

// StatusPack flags every URL that did not answer 200 OK.
func StatusPack() *Pack {
	return &Pack{
		ID:   CategoryStatus,
		Name: "Erros HTTP",
		Columns: []string{
			model.ColumnURL, model.ColumnProblem, model.ColumnCriticality,
			"status_code", "final_url", "response_time", model.ColumnRecommendation,
		},
		AllClear: "✅ Nenhum erro HTTP encontrado!",
		Rules: []Rule{
			{ID: "status_not_ok", Requires: []model.Field{model.FieldStatusCode}, Record: statusNotOK},
		},
		Secondary: func(a, b model.Issue) int {
			return cmp.Compare(evidenceFloat(a, "status_code", 0), evidenceFloat(b, "status_code", 0))
		},
	}
}

func statusNotOK(rec *model.Record, _ *Env) []model.Issue {
	code := rec.StatusCode
	if code == 200 {
		return nil
	}

	var (
		problem        string
		criticality    model.Criticality
		recommendation string
	)
	switch {
	case code == 0:
		problem = "Sem resposta HTTP"
		criticality = model.CriticalityCritical
		recommendation = "Verificar disponibilidade do servidor e timeouts"
	case code >= 500:
		problem = fmt.Sprintf("Erro de servidor (%d)", code)
		criticality = model.CriticalityCritical
		recommendation = "Corrigir erro no servidor; páginas 5xx saem do índice"
	case code >= 400:
		problem = fmt.Sprintf("Erro de cliente (%d)", code)
		criticality = model.CriticalityHigh
		recommendation = "Restaurar a página ou redirecionar (301) para conteúdo equivalente"
	case code >= 300:
		problem = fmt.Sprintf("Redirecionamento (%d)", code)
		criticality = model.CriticalityMedium
		recommendation = "Atualizar links internos para apontar direto ao destino final"
	default:
		problem = fmt.Sprintf("Status inesperado (%d)", code)
		criticality = model.CriticalityLow
		recommendation = "Revisar resposta do servidor"
	}

	issue := model.NewIssue(rec.URL, CategoryStatus, problem, criticality).
		With("status_code", code).
		With("final_url", rec.FinalURL).
		With("response_time", rec.ResponseTime).
		WithRecommendation(recommendation)
	return []model.Issue{issue}
}
