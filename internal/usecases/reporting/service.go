package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
	"github.com/vfg2006/revenue-dashboard-api/internal/revenue"
	"github.com/vfg2006/revenue-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-dashboard-api/pkg/utils"
)

// SeriesPointResponse é um ponto da série mensal no formato de resposta da API
type SeriesPointResponse struct {
	Month  string  `json:"month"` // formato AAAA-MM
	Amount float64 `json:"amount"`
}

// RevenueSeriesResponse agrega a série mensal de receita de um negócio
type RevenueSeriesResponse struct {
	BusinessID string                `json:"business_id"`
	Mode       string                `json:"mode"`
	From       string                `json:"from"`
	To         string                `json:"to"`
	Points     []SeriesPointResponse `json:"points"`
	Total      float64               `json:"total"`
}

// RevenueSummaryResponse compara o mês corrente com o anterior nos dois modos
// de apuração
type RevenueSummaryResponse struct {
	BusinessID    string   `json:"business_id"`
	CurrentMonth  string   `json:"current_month"`
	PreviousMonth string   `json:"previous_month"`
	CurrentCash   float64  `json:"current_cash"`
	PreviousCash  float64  `json:"previous_cash"`
	CashVariation *float64 `json:"cash_variation,omitempty"`
	CurrentMRR    float64  `json:"current_mrr"`
	PreviousMRR   float64  `json:"previous_mrr"`
	MRRVariation  *float64 `json:"mrr_variation,omitempty"`
}

type Reporter interface {
	GetRevenueSeries(businessID, mode, from, to string) (*RevenueSeriesResponse, error)
	GetRevenueSummary(businessID string) (*RevenueSummaryResponse, error)
	GetAvailablePeriods() (*domain.AvailablePeriods, error)
}

type Service struct {
	businessRepository repository.BusinessRepository
	itemRepository     repository.ItemRepository
	snapshotRepository repository.RevenueSnapshotRepository
	now                func() time.Time
}

func NewService(
	businessRepository repository.BusinessRepository,
	itemRepository repository.ItemRepository,
	snapshotRepository repository.RevenueSnapshotRepository,
) Reporter {
	return &Service{
		businessRepository: businessRepository,
		itemRepository:     itemRepository,
		snapshotRepository: snapshotRepository,
		now:                time.Now,
	}
}

func (s *Service) GetRevenueSeries(businessID, mode, from, to string) (*RevenueSeriesResponse, error) {
	if businessID == "" {
		return nil, NewReportingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "ID do negócio é obrigatório")
	}

	revenueMode := revenue.Mode(mode)
	if revenueMode != revenue.ModeCash && revenueMode != revenue.ModeNormalized {
		return nil, NewReportingError(ErrInvalidMode, apiErrors.ErrInvalidMode, fmt.Sprintf("Modo de apuração desconhecido: %s", mode))
	}

	fromKey, err := revenue.ParseMonthKey(from)
	if err != nil {
		return nil, NewReportingError(ErrInvalidPeriod, apiErrors.ErrInvalidPeriod, fmt.Sprintf("Período inicial inválido: %s", from))
	}

	toKey, err := revenue.ParseMonthKey(to)
	if err != nil {
		return nil, NewReportingError(ErrInvalidPeriod, apiErrors.ErrInvalidPeriod, fmt.Sprintf("Período final inválido: %s", to))
	}

	business, err := s.businessRepository.GetByID(businessID)
	if err != nil {
		return nil, NewReportingErrorWithID(ErrFetchData, apiErrors.ErrDatabaseOperation, businessID, "Falha ao consultar negócio no banco de dados")
	}

	if business == nil {
		return nil, NewReportingErrorWithID(ErrBusinessNotFound, apiErrors.ErrBusinessNotFound, businessID, "Negócio não encontrado")
	}

	months := revenue.Range(fromKey, toKey)

	response := &RevenueSeriesResponse{
		BusinessID: businessID,
		Mode:       string(revenueMode),
		From:       fromKey.String(),
		To:         toKey.String(),
	}

	// Série materializada pelo sync noturno atende a consulta sem recalcular
	if points, ok := s.seriesFromSnapshots(businessID, string(revenueMode), months); ok {
		response.Points = points
	} else {
		items, err := s.itemRepository.ListByBusiness(businessID)
		if err != nil {
			logrus.WithField("error", err).Error("Error listing items for revenue series")
			return nil, NewReportingErrorWithID(ErrFetchData, apiErrors.ErrDatabaseOperation, businessID, "Falha ao listar itens do negócio")
		}

		points, err := revenue.ComputeSeries(items, revenueMode, months)
		if err != nil {
			logrus.WithField("error", err).Error("Error computing revenue series")
			return nil, NewReportingErrorWithID(ErrComputeSeries, apiErrors.ErrInternalServer, businessID, "Falha ao calcular a série de receita")
		}

		response.Points = make([]SeriesPointResponse, 0, len(points))
		for _, point := range points {
			response.Points = append(response.Points, SeriesPointResponse{
				Month:  point.Month.String(),
				Amount: point.Amount,
			})
		}
	}

	var total float64
	for _, point := range response.Points {
		total += point.Amount
	}
	response.Total = utils.RoundWithTwoDecimalPlace(total)

	return response, nil
}

// seriesFromSnapshots monta a série a partir dos snapshots persistidos. Retorna
// falso quando qualquer mês solicitado ainda não foi materializado, e a série
// volta a ser calculada a partir dos itens
func (s *Service) seriesFromSnapshots(businessID, mode string, months []revenue.MonthKey) ([]SeriesPointResponse, bool) {
	if len(months) == 0 {
		return nil, false
	}

	periods := make([]string, 0, len(months))
	for _, month := range months {
		periods = append(periods, month.String())
	}

	snapshots, err := s.snapshotRepository.GetByPeriodRange(businessID, mode, periods)
	if err != nil {
		logrus.WithField("error", err).Warn("Error fetching revenue snapshots, falling back to live computation")
		return nil, false
	}

	amountByPeriod := make(map[string]float64, len(snapshots))
	for _, snapshot := range snapshots {
		amountByPeriod[snapshot.Period] = snapshot.Amount
	}

	points := make([]SeriesPointResponse, 0, len(periods))
	for _, period := range periods {
		amount, ok := amountByPeriod[period]
		if !ok {
			return nil, false
		}
		points = append(points, SeriesPointResponse{Month: period, Amount: amount})
	}

	return points, true
}

func (s *Service) GetRevenueSummary(businessID string) (*RevenueSummaryResponse, error) {
	if businessID == "" {
		return nil, NewReportingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "ID do negócio é obrigatório")
	}

	business, err := s.businessRepository.GetByID(businessID)
	if err != nil {
		return nil, NewReportingErrorWithID(ErrFetchData, apiErrors.ErrDatabaseOperation, businessID, "Falha ao consultar negócio no banco de dados")
	}

	if business == nil {
		return nil, NewReportingErrorWithID(ErrBusinessNotFound, apiErrors.ErrBusinessNotFound, businessID, "Negócio não encontrado")
	}

	items, err := s.itemRepository.ListByBusiness(businessID)
	if err != nil {
		return nil, NewReportingErrorWithID(ErrFetchData, apiErrors.ErrDatabaseOperation, businessID, "Falha ao listar itens do negócio")
	}

	currentMonth := revenue.MonthKeyOf(s.now().UTC())
	previousMonth := currentMonth.Prev()
	months := []revenue.MonthKey{previousMonth, currentMonth}

	cashPoints, err := revenue.ComputeSeries(items, revenue.ModeCash, months)
	if err != nil {
		return nil, NewReportingErrorWithID(ErrComputeSeries, apiErrors.ErrInternalServer, businessID, "Falha ao calcular receita de caixa")
	}

	mrrPoints, err := revenue.ComputeSeries(items, revenue.ModeNormalized, months)
	if err != nil {
		return nil, NewReportingErrorWithID(ErrComputeSeries, apiErrors.ErrInternalServer, businessID, "Falha ao calcular receita normalizada")
	}

	response := &RevenueSummaryResponse{
		BusinessID:    businessID,
		CurrentMonth:  currentMonth.String(),
		PreviousMonth: previousMonth.String(),
		PreviousCash:  s.closedMonthAmount(businessID, previousMonth, revenue.ModeCash, cashPoints[0].Amount),
		CurrentCash:   cashPoints[1].Amount,
		PreviousMRR:   s.closedMonthAmount(businessID, previousMonth, revenue.ModeNormalized, mrrPoints[0].Amount),
		CurrentMRR:    mrrPoints[1].Amount,
	}

	response.CashVariation = percentVariation(response.PreviousCash, response.CurrentCash)
	response.MRRVariation = percentVariation(response.PreviousMRR, response.CurrentMRR)

	return response, nil
}

// closedMonthAmount prefere o snapshot materializado para meses já encerrados,
// cujo valor é definitivo. Sem snapshot vale o cálculo feito a partir dos itens
func (s *Service) closedMonthAmount(businessID string, month revenue.MonthKey, mode revenue.Mode, computed float64) float64 {
	snapshot, err := s.snapshotRepository.GetByBusinessAndPeriod(businessID, month.String(), string(mode))
	if err != nil {
		logrus.WithField("error", err).Warn("Error fetching revenue snapshot for closed month")
		return computed
	}

	if snapshot == nil {
		return computed
	}

	return snapshot.Amount
}

// percentVariation calcula a variação percentual entre dois meses. Retorna nil
// quando o mês anterior é zero, pois a variação não é definida nesse caso
func percentVariation(previous, current float64) *float64 {
	if previous == 0 {
		return nil
	}

	variation := utils.RoundWithTwoDecimalPlace(((current - previous) / previous) * 100)
	return &variation
}

func (s *Service) GetAvailablePeriods() (*domain.AvailablePeriods, error) {
	periods, err := s.snapshotRepository.GetAllPeriods()
	if err != nil {
		logrus.WithField("error", err).Error("Error fetching available periods")
		return nil, NewReportingError(ErrFetchData, apiErrors.ErrDatabaseOperation, "Falha ao consultar períodos disponíveis")
	}

	yearsSeen := make(map[string]bool)
	monthsSeen := make(map[string]bool)
	years := make([]string, 0)
	months := make([]string, 0)

	for _, period := range periods {
		if len(period) != 7 {
			continue
		}

		year, month := period[:4], period[5:]
		if !yearsSeen[year] {
			yearsSeen[year] = true
			years = append(years, year)
		}
		if !monthsSeen[month] {
			monthsSeen[month] = true
			months = append(months, month)
		}
	}

	sort.Strings(years)
	sort.Strings(months)

	return &domain.AvailablePeriods{
		Periods: periods,
		Years:   years,
		Months:  months,
	}, nil
}
