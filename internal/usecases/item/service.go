package item

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
	"github.com/vfg2006/revenue-dashboard-api/internal/revenue"
	"github.com/vfg2006/revenue-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-dashboard-api/pkg/utils"
)

type ItemService interface {
	GetItem(itemID string) (*domain.BillableItem, error)
	ListItems(businessID string) ([]*domain.BillableItem, error)
	CreateItem(businessID string, request *domain.CreateItemRequest) (*domain.BillableItem, error)
	UpdateItem(request *domain.UpdateItemRequest) (*domain.BillableItem, error)
	DeleteItem(itemID string) error
	SetMonthlyAmount(request *domain.SetMonthlyAmountRequest) (*domain.BillableItem, error)
}

type Service struct {
	itemRepository     repository.ItemRepository
	businessRepository repository.BusinessRepository
}

func NewService(
	itemRepository repository.ItemRepository,
	businessRepository repository.BusinessRepository,
) ItemService {
	return &Service{
		itemRepository:     itemRepository,
		businessRepository: businessRepository,
	}
}

func (s *Service) GetItem(itemID string) (*domain.BillableItem, error) {
	if itemID == "" {
		return nil, NewItemError(ErrItemIDRequired, apiErrors.ErrMissingRequiredData, "ID do item é obrigatório")
	}

	item, err := s.itemRepository.GetByID(itemID)
	if err != nil {
		logrus.WithField("error", err).Error("Error getting item from database")
		return nil, NewItemErrorWithID(ErrFetchItems, apiErrors.ErrDatabaseOperation, itemID, "Falha ao consultar item no banco de dados")
	}

	if item == nil {
		return nil, NewItemErrorWithID(ErrItemNotFound, apiErrors.ErrItemNotFound, itemID, "Item não encontrado")
	}

	return item, nil
}

func (s *Service) ListItems(businessID string) ([]*domain.BillableItem, error) {
	if businessID == "" {
		return nil, NewItemError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "ID do negócio é obrigatório")
	}

	business, err := s.businessRepository.GetByID(businessID)
	if err != nil {
		return nil, NewItemError(ErrFetchItems, apiErrors.ErrDatabaseOperation, "Falha ao consultar negócio no banco de dados")
	}

	if business == nil {
		return nil, NewItemError(ErrItemNotFound, apiErrors.ErrBusinessNotFound, "Negócio não encontrado")
	}

	items, err := s.itemRepository.ListByBusiness(businessID)
	if err != nil {
		logrus.WithField("error", err).Error("Error listing items from database")
		return nil, NewItemError(ErrFetchItems, apiErrors.ErrDatabaseOperation, "Falha ao listar itens no banco de dados")
	}

	return items, nil
}

func (s *Service) CreateItem(businessID string, request *domain.CreateItemRequest) (*domain.BillableItem, error) {
	if businessID == "" {
		return nil, NewItemError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "ID do negócio é obrigatório")
	}

	if request == nil || request.Name == "" {
		return nil, NewItemError(ErrNameRequired, apiErrors.ErrMissingRequiredData, "Nome do item é obrigatório")
	}

	business, err := s.businessRepository.GetByID(businessID)
	if err != nil {
		return nil, NewItemError(ErrFetchItems, apiErrors.ErrDatabaseOperation, "Falha ao consultar negócio no banco de dados")
	}

	if business == nil {
		return nil, NewItemError(ErrItemNotFound, apiErrors.ErrBusinessNotFound, "Negócio não encontrado")
	}

	item, err := s.buildItem(businessID, request)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepository.Create(item); err != nil {
		logrus.WithField("error", err).Error("Error creating item on database")
		return nil, NewItemError(ErrCreateItem, apiErrors.ErrDatabaseOperation, "Falha ao criar item no banco de dados")
	}

	return item, nil
}

// buildItem valida o payload de criação e monta o item conforme o tipo de
// cobrança. Cada tipo exige um subconjunto próprio de campos
func (s *Service) buildItem(businessID string, request *domain.CreateItemRequest) (*domain.BillableItem, error) {
	kind := domain.BillingKind(request.Kind)

	if request.Price < 0 {
		return nil, NewItemError(ErrNegativePrice, apiErrors.ErrInvalidRequest, "Preço não pode ser negativo")
	}

	itemID, err := utils.GenerateID()
	if err != nil {
		return nil, NewItemError(ErrGenerateID, apiErrors.ErrInternalServer, "Falha ao gerar identificador único para item")
	}

	item := &domain.BillableItem{
		ID:         itemID,
		BusinessID: businessID,
		Name:       request.Name,
		Kind:       kind,
		Price:      request.Price,
	}

	switch kind {
	case domain.BillingKindRecurring:
		if request.Cadence == nil {
			return nil, NewItemError(ErrCadenceRequired, apiErrors.ErrMissingRequiredData, "Cadência é obrigatória para itens recorrentes")
		}

		cadence := domain.Cadence(*request.Cadence)
		if cadence != domain.CadenceMonthly && cadence != domain.CadenceYearly {
			return nil, NewItemError(ErrInvalidCadence, apiErrors.ErrInvalidRequest, fmt.Sprintf("Cadência desconhecida: %s", *request.Cadence))
		}
		item.Cadence = cadence

		startDate, endDate, err := parseItemDates(request.StartDate, request.EndDate)
		if err != nil {
			return nil, err
		}
		item.StartDate = *startDate
		item.EndDate = endDate

	case domain.BillingKindOneTime:
		startDate, _, err := parseItemDates(request.StartDate, nil)
		if err != nil {
			return nil, err
		}
		item.StartDate = *startDate

	case domain.BillingKindVariable:
		amounts := make(map[string]float64, len(request.Amounts))
		for key, amount := range request.Amounts {
			if _, err := revenue.ParseMonthKey(key); err != nil {
				return nil, NewItemError(ErrInvalidMonthKey, apiErrors.ErrInvalidPeriod, fmt.Sprintf("Mês inválido: %s", key))
			}
			if amount < 0 {
				return nil, NewItemError(ErrNegativeAmount, apiErrors.ErrInvalidRequest, fmt.Sprintf("Valor negativo para o mês %s", key))
			}
			amounts[key] = amount
		}
		item.MonthlyAmounts = amounts
		item.StartDate = time.Now().UTC()

	default:
		return nil, NewItemError(ErrInvalidKind, apiErrors.ErrInvalidRequest, fmt.Sprintf("Tipo de cobrança desconhecido: %s", request.Kind))
	}

	return item, nil
}

func parseItemDates(startDateStr string, endDateStr *string) (*time.Time, *time.Time, error) {
	if startDateStr == "" {
		return nil, nil, NewItemError(ErrInvalidDate, apiErrors.ErrMissingRequiredData, "Data de início é obrigatória")
	}

	startDate, err := utils.ParseDate(startDateStr)
	if err != nil {
		return nil, nil, NewItemError(ErrInvalidDate, apiErrors.ErrInvalidFormat, fmt.Sprintf("Data de início inválida: %s", startDateStr))
	}

	var endDate *time.Time
	if endDateStr != nil && *endDateStr != "" {
		endDate, err = utils.ParseDate(*endDateStr)
		if err != nil {
			return nil, nil, NewItemError(ErrInvalidDate, apiErrors.ErrInvalidFormat, fmt.Sprintf("Data de término inválida: %s", *endDateStr))
		}

		if endDate.Before(*startDate) {
			return nil, nil, NewItemError(ErrEndBeforeStart, apiErrors.ErrInvalidRequest, "Data de término anterior à data de início")
		}
	}

	return startDate, endDate, nil
}

func (s *Service) UpdateItem(request *domain.UpdateItemRequest) (*domain.BillableItem, error) {
	if request == nil || request.ID == "" {
		return nil, NewItemError(ErrItemIDRequired, apiErrors.ErrMissingRequiredData, "ID do item é obrigatório")
	}

	item, err := s.GetItem(request.ID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		if *request.Name == "" {
			return nil, NewItemErrorWithID(ErrNameRequired, apiErrors.ErrInvalidRequest, item.ID, "Nome do item não pode ser vazio")
		}
		item.Name = *request.Name
	}

	if request.Price != nil {
		if *request.Price < 0 {
			return nil, NewItemErrorWithID(ErrNegativePrice, apiErrors.ErrInvalidRequest, item.ID, "Preço não pode ser negativo")
		}
		item.Price = *request.Price
	}

	if request.Cadence != nil {
		if item.Kind != domain.BillingKindRecurring {
			return nil, NewItemErrorWithID(ErrInvalidCadence, apiErrors.ErrInvalidRequest, item.ID, "Cadência só se aplica a itens recorrentes")
		}

		cadence := domain.Cadence(*request.Cadence)
		if cadence != domain.CadenceMonthly && cadence != domain.CadenceYearly {
			return nil, NewItemErrorWithID(ErrInvalidCadence, apiErrors.ErrInvalidRequest, item.ID, fmt.Sprintf("Cadência desconhecida: %s", *request.Cadence))
		}
		item.Cadence = cadence
	}

	if request.StartDate != nil {
		startDate, err := utils.ParseDate(*request.StartDate)
		if err != nil || startDate == nil {
			return nil, NewItemErrorWithID(ErrInvalidDate, apiErrors.ErrInvalidFormat, item.ID, "Data de início inválida")
		}
		item.StartDate = *startDate
	}

	if request.EndDate != nil {
		if *request.EndDate == "" {
			item.EndDate = nil
		} else {
			endDate, err := utils.ParseDate(*request.EndDate)
			if err != nil {
				return nil, NewItemErrorWithID(ErrInvalidDate, apiErrors.ErrInvalidFormat, item.ID, "Data de término inválida")
			}
			item.EndDate = endDate
		}
	}

	if item.EndDate != nil && item.EndDate.Before(item.StartDate) {
		return nil, NewItemErrorWithID(ErrEndBeforeStart, apiErrors.ErrInvalidRequest, item.ID, "Data de término anterior à data de início")
	}

	if err := s.itemRepository.Update(item); err != nil {
		logrus.WithField("error", err).Error("Error updating item on database")
		return nil, NewItemErrorWithID(ErrUpdateItem, apiErrors.ErrDatabaseOperation, item.ID, "Falha ao atualizar item no banco de dados")
	}

	return item, nil
}

func (s *Service) DeleteItem(itemID string) error {
	if itemID == "" {
		return NewItemError(ErrItemIDRequired, apiErrors.ErrMissingRequiredData, "ID do item é obrigatório")
	}

	if _, err := s.GetItem(itemID); err != nil {
		return err
	}

	if err := s.itemRepository.Delete(itemID); err != nil {
		logrus.WithField("error", err).Error("Error deleting item from database")
		return NewItemErrorWithID(ErrDeleteItem, apiErrors.ErrDatabaseOperation, itemID, "Falha ao remover item do banco de dados")
	}

	return nil
}

func (s *Service) SetMonthlyAmount(request *domain.SetMonthlyAmountRequest) (*domain.BillableItem, error) {
	if request == nil || request.ItemID == "" {
		return nil, NewItemError(ErrItemIDRequired, apiErrors.ErrMissingRequiredData, "ID do item é obrigatório")
	}

	if _, err := revenue.ParseMonthKey(request.Month); err != nil {
		return nil, NewItemErrorWithID(ErrInvalidMonthKey, apiErrors.ErrInvalidPeriod, request.ItemID, fmt.Sprintf("Mês inválido: %s", request.Month))
	}

	if request.Amount < 0 {
		return nil, NewItemErrorWithID(ErrNegativeAmount, apiErrors.ErrInvalidRequest, request.ItemID, "Valor não pode ser negativo")
	}

	item, err := s.GetItem(request.ItemID)
	if err != nil {
		return nil, err
	}

	if item.Kind != domain.BillingKindVariable {
		return nil, NewItemErrorWithID(ErrNotVariableItem, apiErrors.ErrInvalidRequest, item.ID, "Apenas itens variáveis aceitam valores mensais")
	}

	if err := s.itemRepository.SetMonthlyAmount(item.ID, request.Month, request.Amount); err != nil {
		logrus.WithField("error", err).Error("Error setting monthly amount on database")
		return nil, NewItemErrorWithID(ErrUpdateItem, apiErrors.ErrDatabaseOperation, item.ID, "Falha ao registrar valor mensal no banco de dados")
	}

	if item.MonthlyAmounts == nil {
		item.MonthlyAmounts = make(map[string]float64)
	}
	item.MonthlyAmounts[request.Month] = request.Amount

	return item, nil
}
