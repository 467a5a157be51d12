// Package revenue implementa o motor de agregação de receita mensal: funções
// puras que decidem, para cada item e cada mês do calendário, se e quanto o
// item contribui para o total, sob duas formas de contabilização (caixa e
// receita recorrente normalizada). O pacote não tem estado nem I/O; os itens
// chegam como um snapshot imutável fornecido pelo chamador.
package revenue

import (
	"math"

	"github.com/pkg/errors"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
)

// Mode define a forma de contabilização da receita
type Mode string

const (
	// ModeCash reconhece a receita no mês em que o dinheiro entra
	ModeCash Mode = "cash"
	// ModeNormalized distribui cobranças recorrentes uniformemente pelos
	// meses cobertos pelo ciclo de cobrança (visão MRR)
	ModeNormalized Mode = "normalized"
)

var (
	// ErrInvalidItemKind indica um BillingKind ou Cadence desconhecido chegando
	// ao motor; nunca é tratado silenciosamente com um valor padrão
	ErrInvalidItemKind = errors.New("tipo de cobrança inválido")

	// ErrInvalidMode indica um modo de contabilização desconhecido
	ErrInvalidMode = errors.New("modo de contabilização inválido")
)

// SeriesPoint é um ponto da série mensal de receita
type SeriesPoint struct {
	Month  MonthKey `json:"month"`
	Amount float64  `json:"amount"`
}

// IsActiveInMonth determina se um item conta como ativo no mês informado:
//   - ONE_TIME: ativo apenas no mês exato de StartDate
//   - VARIABLE: ativo apenas nos meses presentes em MonthlyAmounts
//   - RECURRING: ativo quando o mês intercepta [StartDate, EndDate ou +inf).
//     Meses parciais não são rateados: assinatura que começa ou termina no meio
//     do mês conta como ativa pelo mês inteiro.
func IsActiveInMonth(item *domain.BillableItem, month MonthKey) (bool, error) {
	switch item.Kind {
	case domain.BillingKindOneTime:
		return MonthKeyOf(item.StartDate) == month, nil

	case domain.BillingKindVariable:
		_, present := item.MonthlyAmounts[month.String()]
		return present, nil

	case domain.BillingKindRecurring:
		if item.StartDate.After(month.LastDay()) {
			return false, nil
		}
		if item.EndDate != nil && item.EndDate.Before(month.FirstDay()) {
			return false, nil
		}
		return true, nil

	default:
		return false, errors.Wrapf(ErrInvalidItemKind, "billing_kind %q", item.Kind)
	}
}

// CashMonths determina os meses, dentro do intervalo inclusivo [from, to], em
// que um pagamento em caixa é reconhecido para o item:
//   - ONE_TIME: apenas o mês de StartDate, se dentro do intervalo
//   - VARIABLE: todo mês do intervalo com chave em MonthlyAmounts
//   - RECURRING mensal: todo mês ativo do intervalo
//   - RECURRING anual: apenas os meses ativos cujo número de mês coincide com o
//     mês de aniversário de StartDate (um pagamento por ano)
func CashMonths(item *domain.BillableItem, from, to MonthKey) ([]MonthKey, error) {
	if item.Kind == domain.BillingKindRecurring &&
		item.Cadence != domain.CadenceMonthly && item.Cadence != domain.CadenceYearly {
		return nil, errors.Wrapf(ErrInvalidItemKind, "cadence %q", item.Cadence)
	}

	months := make([]MonthKey, 0)

	for _, month := range Range(from, to) {
		active, err := IsActiveInMonth(item, month)
		if err != nil {
			return nil, err
		}

		if !active {
			continue
		}

		if item.Kind == domain.BillingKindRecurring && item.Cadence == domain.CadenceYearly &&
			month.Month != item.StartDate.Month() {
			continue
		}

		months = append(months, month)
	}

	return months, nil
}

// MonthlyNormalizedAmount calcula o valor mensal equivalente de um item na
// contabilização normalizada: itens recorrentes mensais valem o próprio preço,
// anuais valem o preço dividido por 12, e itens avulsos ou variáveis nunca
// contribuem para a base recorrente.
func MonthlyNormalizedAmount(item *domain.BillableItem) (float64, error) {
	switch item.Kind {
	case domain.BillingKindOneTime, domain.BillingKindVariable:
		return 0, nil

	case domain.BillingKindRecurring:
		switch item.Cadence {
		case domain.CadenceMonthly:
			return item.Price, nil
		case domain.CadenceYearly:
			return item.Price / 12, nil
		default:
			return 0, errors.Wrapf(ErrInvalidItemKind, "cadence %q", item.Cadence)
		}

	default:
		return 0, errors.Wrapf(ErrInvalidItemKind, "billing_kind %q", item.Kind)
	}
}

// ComputeSeries produz um total agregado por mês para a lista de itens, sob o
// modo de contabilização informado. A sequência de saída cobre exatamente os
// meses de entrada, na mesma ordem (assumidos ordenados de forma crescente).
// Cada total mensal é arredondado uma única vez, depois de somadas as
// contribuições de todos os itens, para a unidade inteira mais próxima.
func ComputeSeries(items []*domain.BillableItem, mode Mode, months []MonthKey) ([]SeriesPoint, error) {
	series := make([]SeriesPoint, 0, len(months))
	if len(months) == 0 {
		return series, nil
	}

	totals := make(map[MonthKey]float64, len(months))
	requested := make(map[MonthKey]struct{}, len(months))
	for _, month := range months {
		requested[month] = struct{}{}
	}

	switch mode {
	case ModeCash:
		from, to := months[0], months[len(months)-1]

		for _, item := range items {
			cashMonths, err := CashMonths(item, from, to)
			if err != nil {
				return nil, err
			}

			for _, month := range cashMonths {
				if _, ok := requested[month]; !ok {
					continue
				}
				totals[month] += cashAmount(item, month)
			}
		}

	case ModeNormalized:
		for _, item := range items {
			amount, err := MonthlyNormalizedAmount(item)
			if err != nil {
				return nil, err
			}

			if amount == 0 {
				continue
			}

			for _, month := range months {
				active, err := IsActiveInMonth(item, month)
				if err != nil {
					return nil, err
				}

				if active {
					totals[month] += amount
				}
			}
		}

	default:
		return nil, errors.Wrapf(ErrInvalidMode, "mode %q", mode)
	}

	for _, month := range months {
		series = append(series, SeriesPoint{
			Month:  month,
			Amount: math.Round(totals[month]),
		})
	}

	return series, nil
}

// cashAmount retorna o valor em caixa reconhecido para o item em um mês já
// atribuído por CashMonths
func cashAmount(item *domain.BillableItem, month MonthKey) float64 {
	if item.Kind == domain.BillingKindVariable {
		return item.MonthlyAmounts[month.String()]
	}
	return item.Price
}
