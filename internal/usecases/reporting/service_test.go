package reporting

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func testBusiness(id string) *domain.Business {
	return &domain.Business{
		ID:     id,
		Name:   "Consultoria Horizonte",
		Status: domain.BusinessStatusActive,
	}
}

func TestGetRevenueSeries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBusinessRepo := mocks.NewMockBusinessRepository(ctrl)
	mockItemRepo := mocks.NewMockItemRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockRevenueSnapshotRepository(ctrl)

	service := &Service{
		businessRepository: mockBusinessRepo,
		itemRepository:     mockItemRepo,
		snapshotRepository: mockSnapshotRepo,
		now:                time.Now,
	}

	items := []*domain.BillableItem{
		{
			ID:         "ITEM01",
			BusinessID: "BIZ001",
			Name:       "Mensalidade",
			Kind:       domain.BillingKindRecurring,
			Price:      100,
			Cadence:    domain.CadenceMonthly,
			StartDate:  time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         "ITEM02",
			BusinessID: "BIZ001",
			Name:       "Setup inicial",
			Kind:       domain.BillingKindOneTime,
			Price:      500,
			StartDate:  time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	tests := []struct {
		name       string
		businessID string
		mode       string
		from       string
		to         string
		setup      func()
		wantErr    bool
		validate   func(t *testing.T, result *RevenueSeriesResponse)
	}{
		{
			name:       "Série de caixa com item recorrente e pagamento único",
			businessID: "BIZ001",
			mode:       "cash",
			from:       "2025-01",
			to:         "2025-03",
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
				mockSnapshotRepo.EXPECT().GetByPeriodRange("BIZ001", "cash", []string{"2025-01", "2025-02", "2025-03"}).Return(nil, nil)
				mockItemRepo.EXPECT().ListByBusiness("BIZ001").Return(items, nil)
			},
			validate: func(t *testing.T, result *RevenueSeriesResponse) {
				assert.Len(t, result.Points, 3)
				assert.Equal(t, "2025-01", result.Points[0].Month)
				assert.Equal(t, 500.0, result.Points[0].Amount)
				assert.Equal(t, 100.0, result.Points[1].Amount)
				assert.Equal(t, 100.0, result.Points[2].Amount)
				assert.Equal(t, 700.0, result.Total)
			},
		},
		{
			name:       "Série normalizada ignora pagamento único",
			businessID: "BIZ001",
			mode:       "normalized",
			from:       "2025-02",
			to:         "2025-03",
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
				mockSnapshotRepo.EXPECT().GetByPeriodRange("BIZ001", "normalized", []string{"2025-02", "2025-03"}).Return(nil, nil)
				mockItemRepo.EXPECT().ListByBusiness("BIZ001").Return(items, nil)
			},
			validate: func(t *testing.T, result *RevenueSeriesResponse) {
				assert.Len(t, result.Points, 2)
				assert.Equal(t, 100.0, result.Points[0].Amount)
				assert.Equal(t, 100.0, result.Points[1].Amount)
				assert.Equal(t, 200.0, result.Total)
			},
		},
		{
			name:       "Período invertido resulta em série vazia",
			businessID: "BIZ001",
			mode:       "cash",
			from:       "2025-06",
			to:         "2025-01",
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
				mockItemRepo.EXPECT().ListByBusiness("BIZ001").Return(items, nil)
			},
			validate: func(t *testing.T, result *RevenueSeriesResponse) {
				assert.Empty(t, result.Points)
				assert.Equal(t, 0.0, result.Total)
			},
		},
		{
			name:       "Modo de apuração desconhecido",
			businessID: "BIZ001",
			mode:       "accrual",
			from:       "2025-01",
			to:         "2025-03",
			setup:      func() {},
			wantErr:    true,
		},
		{
			name:       "Período inicial mal formado",
			businessID: "BIZ001",
			mode:       "cash",
			from:       "janeiro",
			to:         "2025-03",
			setup:      func() {},
			wantErr:    true,
		},
		{
			name:       "Negócio inexistente",
			businessID: "BIZ404",
			mode:       "cash",
			from:       "2025-01",
			to:         "2025-03",
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ404").Return(nil, nil)
			},
			wantErr: true,
		},
		{
			name:       "Falha de banco ao listar itens",
			businessID: "BIZ001",
			mode:       "cash",
			from:       "2025-01",
			to:         "2025-03",
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
				mockSnapshotRepo.EXPECT().GetByPeriodRange("BIZ001", "cash", gomock.Any()).Return(nil, nil)
				mockItemRepo.EXPECT().ListByBusiness("BIZ001").Return(nil, errors.New("connection reset"))
			},
			wantErr: true,
		},
		{
			name:       "Série servida a partir dos snapshots materializados",
			businessID: "BIZ001",
			mode:       "cash",
			from:       "2025-01",
			to:         "2025-02",
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
				mockSnapshotRepo.EXPECT().GetByPeriodRange("BIZ001", "cash", []string{"2025-01", "2025-02"}).Return([]*domain.RevenueSnapshotEntry{
					{BusinessID: "BIZ001", Period: "2025-01", Mode: "cash", Amount: 500},
					{BusinessID: "BIZ001", Period: "2025-02", Mode: "cash", Amount: 100},
				}, nil)
			},
			validate: func(t *testing.T, result *RevenueSeriesResponse) {
				assert.Len(t, result.Points, 2)
				assert.Equal(t, "2025-01", result.Points[0].Month)
				assert.Equal(t, 500.0, result.Points[0].Amount)
				assert.Equal(t, 100.0, result.Points[1].Amount)
				assert.Equal(t, 600.0, result.Total)
			},
		},
		{
			name:       "Cobertura parcial dos snapshots recalcula a partir dos itens",
			businessID: "BIZ001",
			mode:       "cash",
			from:       "2025-01",
			to:         "2025-02",
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
				mockSnapshotRepo.EXPECT().GetByPeriodRange("BIZ001", "cash", []string{"2025-01", "2025-02"}).Return([]*domain.RevenueSnapshotEntry{
					{BusinessID: "BIZ001", Period: "2025-01", Mode: "cash", Amount: 999},
				}, nil)
				mockItemRepo.EXPECT().ListByBusiness("BIZ001").Return(items, nil)
			},
			validate: func(t *testing.T, result *RevenueSeriesResponse) {
				assert.Len(t, result.Points, 2)
				assert.Equal(t, 500.0, result.Points[0].Amount)
				assert.Equal(t, 100.0, result.Points[1].Amount)
				assert.Equal(t, 600.0, result.Total)
			},
		},
		{
			name:       "Falha na consulta de snapshots recalcula a partir dos itens",
			businessID: "BIZ001",
			mode:       "cash",
			from:       "2025-01",
			to:         "2025-02",
			setup: func() {
				mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
				mockSnapshotRepo.EXPECT().GetByPeriodRange("BIZ001", "cash", gomock.Any()).Return(nil, errors.New("connection reset"))
				mockItemRepo.EXPECT().ListByBusiness("BIZ001").Return(items, nil)
			},
			validate: func(t *testing.T, result *RevenueSeriesResponse) {
				assert.Len(t, result.Points, 2)
				assert.Equal(t, 600.0, result.Total)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			result, err := service.GetRevenueSeries(tt.businessID, tt.mode, tt.from, tt.to)

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

func TestGetRevenueSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBusinessRepo := mocks.NewMockBusinessRepository(ctrl)
	mockItemRepo := mocks.NewMockItemRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockRevenueSnapshotRepository(ctrl)

	// Relógio fixo para que os meses corrente e anterior sejam determinísticos
	service := &Service{
		businessRepository: mockBusinessRepo,
		itemRepository:     mockItemRepo,
		snapshotRepository: mockSnapshotRepo,
		now: func() time.Time {
			return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
		},
	}

	items := []*domain.BillableItem{
		{
			ID:         "ITEM01",
			BusinessID: "BIZ001",
			Name:       "Mensalidade",
			Kind:       domain.BillingKindRecurring,
			Price:      250,
			Cadence:    domain.CadenceMonthly,
			StartDate:  time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
	mockItemRepo.EXPECT().ListByBusiness("BIZ001").Return(items, nil)
	mockSnapshotRepo.EXPECT().GetByBusinessAndPeriod("BIZ001", "2025-05", "cash").Return(nil, nil)
	mockSnapshotRepo.EXPECT().GetByBusinessAndPeriod("BIZ001", "2025-05", "normalized").Return(nil, nil)

	result, err := service.GetRevenueSummary("BIZ001")

	assert.NoError(t, err)
	assert.Equal(t, "BIZ001", result.BusinessID)
	assert.Equal(t, "2025-06", result.CurrentMonth)
	assert.Equal(t, "2025-05", result.PreviousMonth)
	assert.Equal(t, 250.0, result.CurrentCash)
	assert.Equal(t, 250.0, result.PreviousCash)
	assert.Equal(t, 250.0, result.CurrentMRR)
	assert.Equal(t, 250.0, result.PreviousMRR)
	if assert.NotNil(t, result.CashVariation) {
		assert.Equal(t, 0.0, *result.CashVariation)
	}
	if assert.NotNil(t, result.MRRVariation) {
		assert.Equal(t, 0.0, *result.MRRVariation)
	}
}

func TestGetRevenueSummaryPrefersClosedMonthSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBusinessRepo := mocks.NewMockBusinessRepository(ctrl)
	mockItemRepo := mocks.NewMockItemRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockRevenueSnapshotRepository(ctrl)

	service := &Service{
		businessRepository: mockBusinessRepo,
		itemRepository:     mockItemRepo,
		snapshotRepository: mockSnapshotRepo,
		now: func() time.Time {
			return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
		},
	}

	items := []*domain.BillableItem{
		{
			ID:         "ITEM01",
			BusinessID: "BIZ001",
			Name:       "Mensalidade",
			Kind:       domain.BillingKindRecurring,
			Price:      250,
			Cadence:    domain.CadenceMonthly,
			StartDate:  time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
	mockItemRepo.EXPECT().ListByBusiness("BIZ001").Return(items, nil)

	// O mês encerrado vale o snapshot, que inclui itens removidos depois do
	// fechamento e por isso difere do recálculo
	mockSnapshotRepo.EXPECT().GetByBusinessAndPeriod("BIZ001", "2025-05", "cash").Return(&domain.RevenueSnapshotEntry{
		BusinessID: "BIZ001", Period: "2025-05", Mode: "cash", Amount: 500,
	}, nil)
	mockSnapshotRepo.EXPECT().GetByBusinessAndPeriod("BIZ001", "2025-05", "normalized").Return(&domain.RevenueSnapshotEntry{
		BusinessID: "BIZ001", Period: "2025-05", Mode: "normalized", Amount: 200,
	}, nil)

	result, err := service.GetRevenueSummary("BIZ001")

	assert.NoError(t, err)
	assert.Equal(t, 250.0, result.CurrentCash)
	assert.Equal(t, 500.0, result.PreviousCash)
	assert.Equal(t, 250.0, result.CurrentMRR)
	assert.Equal(t, 200.0, result.PreviousMRR)
	if assert.NotNil(t, result.CashVariation) {
		assert.Equal(t, -50.0, *result.CashVariation)
	}
	if assert.NotNil(t, result.MRRVariation) {
		assert.Equal(t, 25.0, *result.MRRVariation)
	}
}

func TestGetRevenueSummaryWithoutPreviousRevenue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBusinessRepo := mocks.NewMockBusinessRepository(ctrl)
	mockItemRepo := mocks.NewMockItemRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockRevenueSnapshotRepository(ctrl)

	service := &Service{
		businessRepository: mockBusinessRepo,
		itemRepository:     mockItemRepo,
		snapshotRepository: mockSnapshotRepo,
		now: func() time.Time {
			return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
		},
	}

	mockBusinessRepo.EXPECT().GetByID("BIZ001").Return(testBusiness("BIZ001"), nil)
	mockItemRepo.EXPECT().ListByBusiness("BIZ001").Return(nil, nil)
	mockSnapshotRepo.EXPECT().GetByBusinessAndPeriod("BIZ001", "2025-05", "cash").Return(nil, nil)
	mockSnapshotRepo.EXPECT().GetByBusinessAndPeriod("BIZ001", "2025-05", "normalized").Return(nil, nil)

	result, err := service.GetRevenueSummary("BIZ001")

	assert.NoError(t, err)
	assert.Equal(t, 0.0, result.CurrentCash)
	assert.Equal(t, 0.0, result.PreviousCash)
	// Variação indefinida quando o mês anterior é zero
	assert.Nil(t, result.CashVariation)
	assert.Nil(t, result.MRRVariation)
}

func TestGetAvailablePeriods(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSnapshotRepo := mocks.NewMockRevenueSnapshotRepository(ctrl)

	service := &Service{
		snapshotRepository: mockSnapshotRepo,
	}

	mockSnapshotRepo.EXPECT().GetAllPeriods().Return([]string{
		"2024-11", "2024-12", "2025-01", "2025-02", "2025-11",
	}, nil)

	result, err := service.GetAvailablePeriods()

	assert.NoError(t, err)
	assert.Len(t, result.Periods, 5)
	assert.Equal(t, []string{"2024", "2025"}, result.Years)
	assert.Equal(t, []string{"01", "02", "11", "12"}, result.Months)
}
