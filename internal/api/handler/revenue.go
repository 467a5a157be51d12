package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/revenue-dashboard-api/pkg/apiErrors"
)

// GetRevenueSeries retorna a série mensal de receita de um negócio.
// Query string: mode (cash ou normalized), from e to (AAAA-MM)
func GetRevenueSeries(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetRevenueSeries")

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		query := r.URL.Query()
		mode := query.Get("mode")
		if mode == "" {
			mode = "cash"
		}

		from := query.Get("from")
		to := query.Get("to")
		if from == "" || to == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Parâmetros from e to são obrigatórios (formato AAAA-MM)", nil)
			return
		}

		result, err := service.GetRevenueSeries(businessID, mode, from, to)
		if err != nil {
			handleReportingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetRevenueSummary compara o mês corrente com o anterior nos dois modos de apuração
func GetRevenueSummary(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetRevenueSummary")

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		result, err := service.GetRevenueSummary(businessID)
		if err != nil {
			handleReportingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetAvailableRevenuePeriods retorna os períodos com snapshots materializados
func GetAvailableRevenuePeriods(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetAvailableRevenuePeriods")

		result, err := service.GetAvailablePeriods()
		if err != nil {
			handleReportingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// handleReportingError converte erros do caso de uso em respostas padronizadas
func handleReportingError(w http.ResponseWriter, err error) {
	logrus.Error(err)

	var repErr *reporting.ReportingError
	if errors.As(err, &repErr) {
		apiErrors.WriteError(w, repErr.Code, repErr.Details, map[string]any{
			"business_id": repErr.BusinessID,
		})
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao processar relatório de receita", nil)
}
