package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func monthsOfYear(t *testing.T, year string) []MonthKey {
	t.Helper()

	from, err := ParseMonthKey(year + "-01")
	require.NoError(t, err)
	to, err := ParseMonthKey(year + "-12")
	require.NoError(t, err)

	return Range(from, to)
}

func amounts(series []SeriesPoint) []float64 {
	values := make([]float64, 0, len(series))
	for _, point := range series {
		values = append(values, point.Amount)
	}
	return values
}

func recurringMonthly(price float64, start time.Time, end *time.Time) *domain.BillableItem {
	return &domain.BillableItem{
		ID:        "item-monthly",
		Kind:      domain.BillingKindRecurring,
		Cadence:   domain.CadenceMonthly,
		Price:     price,
		StartDate: start,
		EndDate:   end,
	}
}

func recurringYearly(price float64, start time.Time, end *time.Time) *domain.BillableItem {
	return &domain.BillableItem{
		ID:        "item-yearly",
		Kind:      domain.BillingKindRecurring,
		Cadence:   domain.CadenceYearly,
		Price:     price,
		StartDate: start,
		EndDate:   end,
	}
}

func TestIsActiveInMonth(t *testing.T) {
	tests := []struct {
		name     string
		item     *domain.BillableItem
		month    string
		expected bool
	}{
		{
			name:     "Item avulso ativo apenas no mês do pagamento",
			item:     &domain.BillableItem{Kind: domain.BillingKindOneTime, StartDate: date(2025, time.March, 15)},
			month:    "2025-03",
			expected: true,
		},
		{
			name:     "Item avulso inativo fora do mês do pagamento",
			item:     &domain.BillableItem{Kind: domain.BillingKindOneTime, StartDate: date(2025, time.March, 15)},
			month:    "2025-04",
			expected: false,
		},
		{
			name: "Item variável ativo nos meses com valor registrado",
			item: &domain.BillableItem{
				Kind:           domain.BillingKindVariable,
				MonthlyAmounts: map[string]float64{"2025-06": 120},
			},
			month:    "2025-06",
			expected: true,
		},
		{
			name: "Item variável inativo em mês sem chave",
			item: &domain.BillableItem{
				Kind:           domain.BillingKindVariable,
				MonthlyAmounts: map[string]float64{"2025-06": 120},
			},
			month:    "2025-07",
			expected: false,
		},
		{
			name:     "Assinatura que começa no meio do mês conta o mês inteiro",
			item:     recurringMonthly(50, date(2025, time.May, 20), nil),
			month:    "2025-05",
			expected: true,
		},
		{
			name:     "Assinatura inativa antes do início",
			item:     recurringMonthly(50, date(2025, time.May, 20), nil),
			month:    "2025-04",
			expected: false,
		},
		{
			name:     "Assinatura que termina no meio do mês ainda conta o mês final",
			item:     recurringMonthly(50, date(2025, time.January, 1), datePtr(2025, time.August, 10)),
			month:    "2025-08",
			expected: true,
		},
		{
			name:     "Assinatura inativa no mês seguinte ao término",
			item:     recurringMonthly(50, date(2025, time.January, 1), datePtr(2025, time.August, 10)),
			month:    "2025-09",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, err := ParseMonthKey(tt.month)
			require.NoError(t, err)

			active, err := IsActiveInMonth(tt.item, month)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, active)
		})
	}
}

func TestIsActiveInMonthInvalidKind(t *testing.T) {
	item := &domain.BillableItem{Kind: domain.BillingKind("SOMETHING_ELSE")}

	_, err := IsActiveInMonth(item, MonthKey{Year: 2025, Month: time.January})
	assert.ErrorIs(t, err, ErrInvalidItemKind)
}

func TestMonthlyNormalizedAmount(t *testing.T) {
	// Mensal vale o próprio preço
	amount, err := MonthlyNormalizedAmount(recurringMonthly(80, date(2025, time.January, 1), nil))
	assert.NoError(t, err)
	assert.Equal(t, 80.0, amount)

	// Anual é distribuído por 12 meses
	amount, err = MonthlyNormalizedAmount(recurringYearly(900, date(2025, time.February, 21), nil))
	assert.NoError(t, err)
	assert.Equal(t, 75.0, amount)

	// Avulso e variável nunca entram na base recorrente
	amount, err = MonthlyNormalizedAmount(&domain.BillableItem{Kind: domain.BillingKindOneTime, Price: 500})
	assert.NoError(t, err)
	assert.Zero(t, amount)

	amount, err = MonthlyNormalizedAmount(&domain.BillableItem{Kind: domain.BillingKindVariable})
	assert.NoError(t, err)
	assert.Zero(t, amount)

	// Cadência desconhecida é erro, nunca um padrão silencioso
	_, err = MonthlyNormalizedAmount(&domain.BillableItem{
		Kind:    domain.BillingKindRecurring,
		Cadence: domain.Cadence("WEEKLY"),
	})
	assert.ErrorIs(t, err, ErrInvalidItemKind)
}

func TestCashMonthsYearlyAnniversary(t *testing.T) {
	item := recurringYearly(900, date(2024, time.February, 21), nil)

	from, _ := ParseMonthKey("2025-01")
	to, _ := ParseMonthKey("2025-12")

	months, err := CashMonths(item, from, to)
	assert.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, "2025-02", months[0].String())
}

func TestComputeSeriesCash(t *testing.T) {
	tests := []struct {
		name     string
		items    []*domain.BillableItem
		expected []float64
	}{
		{
			name:     "Assinatura mensal ativa de maio em diante",
			items:    []*domain.BillableItem{recurringMonthly(80, date(2025, time.May, 10), nil)},
			expected: []float64{0, 0, 0, 0, 80, 80, 80, 80, 80, 80, 80, 80},
		},
		{
			name:     "Assinatura anual reconhece o valor cheio no mês de aniversário",
			items:    []*domain.BillableItem{recurringYearly(900, date(2025, time.February, 21), nil)},
			expected: []float64{0, 900, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "Pagamento avulso apenas no mês da data",
			items: []*domain.BillableItem{
				{Kind: domain.BillingKindOneTime, Price: 1200, StartDate: date(2025, time.July, 3)},
			},
			expected: []float64{0, 0, 0, 0, 0, 0, 1200, 0, 0, 0, 0, 0},
		},
		{
			name: "Item variável usa o valor registrado em cada mês",
			items: []*domain.BillableItem{
				{
					Kind: domain.BillingKindVariable,
					MonthlyAmounts: map[string]float64{
						"2025-04": 310,
						"2025-09": 95,
					},
				},
			},
			expected: []float64{0, 0, 0, 310, 0, 0, 0, 0, 95, 0, 0, 0},
		},
		{
			name: "Assinatura encerrada zera os meses estritamente após o término",
			items: []*domain.BillableItem{
				recurringMonthly(60, date(2025, time.January, 1), datePtr(2025, time.June, 15)),
			},
			expected: []float64{60, 60, 60, 60, 60, 60, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "Itens combinados somam por mês",
			items: []*domain.BillableItem{
				recurringMonthly(80, date(2025, time.January, 1), nil),
				{Kind: domain.BillingKindOneTime, Price: 100, StartDate: date(2025, time.March, 1)},
			},
			expected: []float64{80, 80, 180, 80, 80, 80, 80, 80, 80, 80, 80, 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months := monthsOfYear(t, "2025")

			series, err := ComputeSeries(tt.items, ModeCash, months)
			assert.NoError(t, err)
			require.Len(t, series, len(months))
			assert.Equal(t, tt.expected, amounts(series))
		})
	}
}

func TestComputeSeriesNormalized(t *testing.T) {
	tests := []struct {
		name     string
		items    []*domain.BillableItem
		expected []float64
	}{
		{
			name:     "Assinatura mensal normalizada é igual à visão caixa",
			items:    []*domain.BillableItem{recurringMonthly(80, date(2025, time.May, 10), nil)},
			expected: []float64{0, 0, 0, 0, 80, 80, 80, 80, 80, 80, 80, 80},
		},
		{
			name:     "Assinatura anual distribui o preço por todos os meses ativos",
			items:    []*domain.BillableItem{recurringYearly(900, date(2025, time.February, 21), nil)},
			expected: []float64{0, 75, 75, 75, 75, 75, 75, 75, 75, 75, 75, 75},
		},
		{
			name: "Pagamento avulso nunca contribui para a receita normalizada",
			items: []*domain.BillableItem{
				{Kind: domain.BillingKindOneTime, Price: 1200, StartDate: date(2025, time.July, 3)},
			},
			expected: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "Item variável nunca contribui para a receita normalizada",
			items: []*domain.BillableItem{
				{Kind: domain.BillingKindVariable, MonthlyAmounts: map[string]float64{"2025-04": 310}},
			},
			expected: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "Assinatura encerrada zera os meses estritamente após o término",
			items: []*domain.BillableItem{
				recurringMonthly(60, date(2025, time.January, 1), datePtr(2025, time.June, 15)),
			},
			expected: []float64{60, 60, 60, 60, 60, 60, 0, 0, 0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months := monthsOfYear(t, "2025")

			series, err := ComputeSeries(tt.items, ModeNormalized, months)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, amounts(series))
		})
	}
}

func TestComputeSeriesAnnualSums(t *testing.T) {
	// Assinatura mensal ativa o ano todo: soma anual de 12xP nos dois modos
	months := monthsOfYear(t, "2025")
	items := []*domain.BillableItem{recurringMonthly(80, date(2024, time.March, 1), nil)}

	for _, mode := range []Mode{ModeCash, ModeNormalized} {
		series, err := ComputeSeries(items, mode, months)
		require.NoError(t, err)

		var total float64
		for _, point := range series {
			total += point.Amount
		}
		assert.Equal(t, 960.0, total, "modo %s", mode)
	}
}

func TestComputeSeriesRoundsSummedTotal(t *testing.T) {
	// Duas contribuições de 0,3 somam 0,6: o arredondamento acontece uma única
	// vez sobre o total do mês (1), não por item (0+0)
	months := monthsOfYear(t, "2025")[:1]
	items := []*domain.BillableItem{
		recurringMonthly(0.3, date(2024, time.January, 1), nil),
		recurringMonthly(0.3, date(2024, time.January, 1), nil),
	}

	series, err := ComputeSeries(items, ModeCash, months)
	require.NoError(t, err)
	assert.Equal(t, 1.0, series[0].Amount)
}

func TestComputeSeriesEdgeCases(t *testing.T) {
	months := monthsOfYear(t, "2025")

	// Lista de meses vazia produz saída vazia
	series, err := ComputeSeries([]*domain.BillableItem{recurringMonthly(80, date(2025, time.January, 1), nil)}, ModeCash, nil)
	assert.NoError(t, err)
	assert.Empty(t, series)

	// Lista de itens vazia produz totais zerados
	series, err = ComputeSeries(nil, ModeCash, months)
	assert.NoError(t, err)
	require.Len(t, series, 12)
	for _, point := range series {
		assert.Zero(t, point.Amount)
	}

	// Modo desconhecido é erro
	_, err = ComputeSeries(nil, Mode("accrual"), months)
	assert.ErrorIs(t, err, ErrInvalidMode)

	// Tipo de cobrança desconhecido é erro, não um padrão silencioso
	_, err = ComputeSeries([]*domain.BillableItem{{Kind: domain.BillingKind("WEIRD")}}, ModeCash, months)
	assert.ErrorIs(t, err, ErrInvalidItemKind)
}

func TestComputeSeriesIsIdempotent(t *testing.T) {
	months := monthsOfYear(t, "2025")
	items := []*domain.BillableItem{
		recurringMonthly(80, date(2025, time.May, 10), nil),
		recurringYearly(900, date(2025, time.February, 21), nil),
		{Kind: domain.BillingKindVariable, MonthlyAmounts: map[string]float64{"2025-04": 310}},
	}

	first, err := ComputeSeries(items, ModeCash, months)
	require.NoError(t, err)
	second, err := ComputeSeries(items, ModeCash, months)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
