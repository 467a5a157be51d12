package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
	"github.com/vfg2006/revenue-dashboard-api/internal/usecases/business"
	"github.com/vfg2006/revenue-dashboard-api/pkg/apiErrors"
)

// BusinessList lista os negócios, com filtro opcional de status via query string
func BusinessList(service business.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - BusinessList")

		availableStatus := make([]domain.BusinessStatus, 0)
		if status := r.URL.Query().Get("status"); status != "" {
			availableStatus = append(availableStatus, domain.BusinessStatus(status))
		}

		businesses, err := service.ListBusinesses(availableStatus)
		if err != nil {
			handleBusinessError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(businesses); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetBusiness retorna um negócio pelo ID
func GetBusiness(service business.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetBusiness")

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		result, err := service.GetBusiness(businessID)
		if err != nil {
			handleBusinessError(w, err)
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

// CreateBusiness cria um novo negócio
func CreateBusiness(service business.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateBusiness")

		var req domain.CreateBusinessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		result, err := service.CreateBusiness(&req)
		if err != nil {
			handleBusinessError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// UpdateBusiness atualiza os dados de um negócio existente
func UpdateBusiness(service business.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateBusiness")

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req domain.UpdateBusinessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		req.ID = businessID

		result, err := service.UpdateBusiness(&req)
		if err != nil {
			handleBusinessError(w, err)
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

// handleBusinessError converte erros do caso de uso em respostas padronizadas
func handleBusinessError(w http.ResponseWriter, err error) {
	logrus.Error(err)

	var bizErr *business.BusinessError
	if errors.As(err, &bizErr) {
		apiErrors.WriteError(w, bizErr.Code, bizErr.Details, map[string]any{
			"business_id": bizErr.BusinessID,
		})
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao processar negócio", nil)
}
