package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
	"github.com/vfg2006/revenue-dashboard-api/internal/usecases/item"
	"github.com/vfg2006/revenue-dashboard-api/pkg/apiErrors"
)

// ItemList lista os itens faturáveis de um negócio
func ItemList(service item.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ItemList")

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		items, err := service.ListItems(businessID)
		if err != nil {
			handleItemError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(items); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetItem retorna um item faturável pelo ID
func GetItem(service item.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetItem")

		itemID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		result, err := service.GetItem(itemID)
		if err != nil {
			handleItemError(w, err)
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

// CreateItem cria um item faturável para um negócio
func CreateItem(service item.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateItem")

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req domain.CreateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		result, err := service.CreateItem(businessID, &req)
		if err != nil {
			handleItemError(w, err)
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

// UpdateItem atualiza um item faturável existente
func UpdateItem(service item.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateItem")

		itemID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req domain.UpdateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		req.ID = itemID

		result, err := service.UpdateItem(&req)
		if err != nil {
			handleItemError(w, err)
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

// DeleteItem remove um item faturável
func DeleteItem(service item.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteItem")

		itemID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.DeleteItem(itemID); err != nil {
			handleItemError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SetMonthlyAmount registra o valor recebido por um item variável em um mês
func SetMonthlyAmount(service item.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - SetMonthlyAmount")

		itemID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req domain.SetMonthlyAmountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		req.ItemID = itemID

		result, err := service.SetMonthlyAmount(&req)
		if err != nil {
			handleItemError(w, err)
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

// handleItemError converte erros do caso de uso em respostas padronizadas
func handleItemError(w http.ResponseWriter, err error) {
	logrus.Error(err)

	var itemErr *item.ItemError
	if errors.As(err, &itemErr) {
		apiErrors.WriteError(w, itemErr.Code, itemErr.Details, map[string]any{
			"item_id": itemErr.ItemID,
		})
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao processar item", nil)
}
