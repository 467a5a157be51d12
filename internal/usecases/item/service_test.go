package item

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string {
	return &s
}

func activeBusiness(id string) *domain.Business {
	return &domain.Business{
		ID:     id,
		Name:   "Estúdio Aurora",
		Status: domain.BusinessStatusActive,
	}
}

func TestCreateItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockItemRepo := mocks.NewMockItemRepository(ctrl)
	mockBusinessRepo := mocks.NewMockBusinessRepository(ctrl)

	service := &Service{
		itemRepository:     mockItemRepo,
		businessRepository: mockBusinessRepo,
	}

	tests := []struct {
		name     string
		request  *domain.CreateItemRequest
		setup    func()
		wantErr  bool
		validate func(t *testing.T, result *domain.BillableItem)
	}{
		{
			name: "Item recorrente mensal criado com sucesso",
			request: &domain.CreateItemRequest{
				Name:      "Mensalidade",
				Kind:      "RECURRING",
				Price:     150,
				Cadence:   stringPtr("MONTHLY"),
				StartDate: "2025-03-10",
			},
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(activeBusiness("BIZ001"), nil)
				mockItemRepo.EXPECT().Create(gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, result *domain.BillableItem) {
				assert.NotEmpty(t, result.ID)
				assert.Equal(t, "BIZ001", result.BusinessID)
				assert.Equal(t, domain.BillingKindRecurring, result.Kind)
				assert.Equal(t, domain.CadenceMonthly, result.Cadence)
				assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), result.StartDate)
				assert.Nil(t, result.EndDate)
			},
		},
		{
			name: "Item variável com valores mensais válidos",
			request: &domain.CreateItemRequest{
				Name: "Projetos avulsos",
				Kind: "VARIABLE",
				Amounts: map[string]float64{
					"2025-01": 310,
					"2025-04": 95,
				},
			},
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(activeBusiness("BIZ001"), nil)
				mockItemRepo.EXPECT().Create(gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, result *domain.BillableItem) {
				assert.Equal(t, domain.BillingKindVariable, result.Kind)
				assert.Equal(t, 310.0, result.MonthlyAmounts["2025-01"])
				assert.Equal(t, 95.0, result.MonthlyAmounts["2025-04"])
			},
		},
		{
			name: "Item recorrente sem cadência é rejeitado",
			request: &domain.CreateItemRequest{
				Name:      "Mensalidade",
				Kind:      "RECURRING",
				Price:     150,
				StartDate: "2025-03-10",
			},
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(activeBusiness("BIZ001"), nil)
			},
			wantErr: true,
		},
		{
			name: "Cadência desconhecida é rejeitada",
			request: &domain.CreateItemRequest{
				Name:      "Mensalidade",
				Kind:      "RECURRING",
				Price:     150,
				Cadence:   stringPtr("WEEKLY"),
				StartDate: "2025-03-10",
			},
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(activeBusiness("BIZ001"), nil)
			},
			wantErr: true,
		},
		{
			name: "Preço negativo é rejeitado",
			request: &domain.CreateItemRequest{
				Name:      "Mensalidade",
				Kind:      "RECURRING",
				Price:     -10,
				Cadence:   stringPtr("MONTHLY"),
				StartDate: "2025-03-10",
			},
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(activeBusiness("BIZ001"), nil)
			},
			wantErr: true,
		},
		{
			name: "Tipo de cobrança desconhecido é rejeitado",
			request: &domain.CreateItemRequest{
				Name:      "Mensalidade",
				Kind:      "SUBSCRIPTION",
				Price:     10,
				StartDate: "2025-03-10",
			},
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(activeBusiness("BIZ001"), nil)
			},
			wantErr: true,
		},
		{
			name: "Item variável com mês mal formado é rejeitado",
			request: &domain.CreateItemRequest{
				Name: "Projetos avulsos",
				Kind: "VARIABLE",
				Amounts: map[string]float64{
					"01/2025": 310,
				},
			},
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(activeBusiness("BIZ001"), nil)
			},
			wantErr: true,
		},
		{
			name: "Data de término anterior ao início é rejeitada",
			request: &domain.CreateItemRequest{
				Name:      "Mensalidade",
				Kind:      "RECURRING",
				Price:     150,
				Cadence:   stringPtr("MONTHLY"),
				StartDate: "2025-03-10",
				EndDate:   stringPtr("2025-01-01"),
			},
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(activeBusiness("BIZ001"), nil)
			},
			wantErr: true,
		},
		{
			name: "Negócio inexistente é rejeitado",
			request: &domain.CreateItemRequest{
				Name:      "Mensalidade",
				Kind:      "RECURRING",
				Price:     150,
				Cadence:   stringPtr("MONTHLY"),
				StartDate: "2025-03-10",
			},
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(nil, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			result, err := service.CreateItem("BIZ001", tt.request)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}

			assert.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestSetMonthlyAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockItemRepo := mocks.NewMockItemRepository(ctrl)

	service := &Service{
		itemRepository: mockItemRepo,
	}

	variableItem := &domain.BillableItem{
		ID:         "ITEM01",
		BusinessID: "BIZ001",
		Name:       "Projetos avulsos",
		Kind:       domain.BillingKindVariable,
	}

	recurringItem := &domain.BillableItem{
		ID:         "ITEM02",
		BusinessID: "BIZ001",
		Name:       "Mensalidade",
		Kind:       domain.BillingKindRecurring,
		Cadence:    domain.CadenceMonthly,
		Price:      150,
	}

	t.Run("Registra valor mensal em item variável", func(t *testing.T) {
		mockItemRepo.EXPECT().GetByID("ITEM01").Return(variableItem, nil)
		mockItemRepo.EXPECT().SetMonthlyAmount("ITEM01", "2025-06", 420.0).Return(nil)

		result, err := service.SetMonthlyAmount(&domain.SetMonthlyAmountRequest{
			ItemID: "ITEM01",
			Month:  "2025-06",
			Amount: 420,
		})

		assert.NoError(t, err)
		assert.Equal(t, 420.0, result.MonthlyAmounts["2025-06"])
	})

	t.Run("Rejeita valor mensal em item recorrente", func(t *testing.T) {
		mockItemRepo.EXPECT().GetByID("ITEM02").Return(recurringItem, nil)

		result, err := service.SetMonthlyAmount(&domain.SetMonthlyAmountRequest{
			ItemID: "ITEM02",
			Month:  "2025-06",
			Amount: 420,
		})

		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("Rejeita mês mal formado", func(t *testing.T) {
		result, err := service.SetMonthlyAmount(&domain.SetMonthlyAmountRequest{
			ItemID: "ITEM01",
			Month:  "junho",
			Amount: 420,
		})

		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("Rejeita valor negativo", func(t *testing.T) {
		result, err := service.SetMonthlyAmount(&domain.SetMonthlyAmountRequest{
			ItemID: "ITEM01",
			Month:  "2025-06",
			Amount: -1,
		})

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
