package business

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
	"github.com/vfg2006/revenue-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-dashboard-api/pkg/utils"
)

type BusinessService interface {
	GetBusiness(businessID string) (*domain.Business, error)
	ListBusinesses(availableStatus []domain.BusinessStatus) ([]*domain.Business, error)
	CreateBusiness(request *domain.CreateBusinessRequest) (*domain.Business, error)
	UpdateBusiness(request *domain.UpdateBusinessRequest) (*domain.Business, error)
}

type Service struct {
	businessRepository repository.BusinessRepository
}

func NewService(businessRepository repository.BusinessRepository) BusinessService {
	return &Service{
		businessRepository: businessRepository,
	}
}

func (s *Service) GetBusiness(businessID string) (*domain.Business, error) {
	if businessID == "" {
		return nil, NewBusinessError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "ID do negócio é obrigatório")
	}

	business, err := s.businessRepository.GetByID(businessID)
	if err != nil {
		logrus.WithField("error", err).Error("Error getting business from database")
		return nil, NewBusinessErrorWithID(ErrFetchBusinesses, apiErrors.ErrDatabaseOperation, businessID, "Falha ao consultar negócio no banco de dados")
	}

	if business == nil {
		return nil, NewBusinessErrorWithID(ErrBusinessNotFound, apiErrors.ErrBusinessNotFound, businessID, "Negócio não encontrado")
	}

	return business, nil
}

func (s *Service) ListBusinesses(availableStatus []domain.BusinessStatus) ([]*domain.Business, error) {
	businesses, err := s.businessRepository.List(availableStatus)
	if err != nil {
		return nil, NewBusinessError(ErrFetchBusinesses, apiErrors.ErrDatabaseOperation, "Falha ao listar negócios no banco de dados")
	}

	return businesses, nil
}

func (s *Service) CreateBusiness(request *domain.CreateBusinessRequest) (*domain.Business, error) {
	if request == nil || request.Name == "" {
		return nil, NewBusinessError(ErrNameRequired, apiErrors.ErrMissingRequiredData, "Nome do negócio é obrigatório")
	}

	businessID, err := utils.GenerateID()
	if err != nil {
		return nil, NewBusinessError(ErrGenerateID, apiErrors.ErrInternalServer, "Falha ao gerar identificador único para negócio")
	}

	business := &domain.Business{
		ID:       businessID,
		Name:     request.Name,
		Nickname: request.Nickname,
		Status:   domain.BusinessStatusActive,
	}

	if err := s.businessRepository.Create(business); err != nil {
		logrus.WithField("error", err).Error("Error creating business on database")
		return nil, NewBusinessError(ErrCreateBusiness, apiErrors.ErrDatabaseOperation, "Falha ao criar negócio no banco de dados")
	}

	return business, nil
}

func (s *Service) UpdateBusiness(request *domain.UpdateBusinessRequest) (*domain.Business, error) {
	if request == nil || request.ID == "" {
		return nil, NewBusinessError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "ID do negócio é obrigatório")
	}

	if request.Status != nil {
		status := domain.BusinessStatus(*request.Status)
		if status != domain.BusinessStatusActive && status != domain.BusinessStatusInactive {
			return nil, NewBusinessErrorWithID(ErrInvalidStatus, apiErrors.ErrInvalidRequest, request.ID, "Status deve ser ACTIVE ou INACTIVE")
		}
	}

	existing, err := s.businessRepository.GetByID(request.ID)
	if err != nil {
		return nil, NewBusinessErrorWithID(ErrFetchBusinesses, apiErrors.ErrDatabaseOperation, request.ID, "Falha ao consultar negócio no banco de dados")
	}

	if existing == nil {
		return nil, NewBusinessErrorWithID(ErrBusinessNotFound, apiErrors.ErrBusinessNotFound, request.ID, "Negócio não encontrado")
	}

	if err := s.businessRepository.Update(request); err != nil {
		logrus.WithField("error", err).Error("Error updating business on database")
		return nil, NewBusinessErrorWithID(ErrUpdateBusiness, apiErrors.ErrDatabaseOperation, request.ID, "Falha ao atualizar negócio no banco de dados")
	}

	return s.businessRepository.GetByID(request.ID)
}
