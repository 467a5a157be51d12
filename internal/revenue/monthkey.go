package revenue

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const monthKeyLayout = "2006-01"

// MonthKey identifica um mês do calendário no formato AAAA-MM. Todas as datas
// são tratadas como datas de calendário sem fuso horário.
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey converte uma string AAAA-MM em MonthKey
func ParseMonthKey(value string) (MonthKey, error) {
	t, err := time.Parse(monthKeyLayout, value)
	if err != nil {
		return MonthKey{}, errors.Wrapf(err, "período inválido: %q", value)
	}

	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// MonthKeyOf retorna o MonthKey do mês que contém a data informada
func MonthKeyOf(date time.Time) MonthKey {
	return MonthKey{Year: date.Year(), Month: date.Month()}
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m MonthKey) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Compare retorna -1, 0 ou 1 conforme m seja anterior, igual ou posterior a other
func (m MonthKey) Compare(other MonthKey) int {
	switch {
	case m.Year != other.Year:
		if m.Year < other.Year {
			return -1
		}
		return 1
	case m.Month != other.Month:
		if m.Month < other.Month {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (m MonthKey) Before(other MonthKey) bool {
	return m.Compare(other) < 0
}

func (m MonthKey) After(other MonthKey) bool {
	return m.Compare(other) > 0
}

// Next retorna o mês seguinte, avançando o ano quando necessário
func (m MonthKey) Next() MonthKey {
	if m.Month == time.December {
		return MonthKey{Year: m.Year + 1, Month: time.January}
	}
	return MonthKey{Year: m.Year, Month: m.Month + 1}
}

// Prev retorna o mês anterior, recuando o ano quando necessário
func (m MonthKey) Prev() MonthKey {
	if m.Month == time.January {
		return MonthKey{Year: m.Year - 1, Month: time.December}
	}
	return MonthKey{Year: m.Year, Month: m.Month - 1}
}

// FirstDay retorna o primeiro dia do mês como data de calendário
func (m MonthKey) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay retorna o último dia do mês como data de calendário
func (m MonthKey) LastDay() time.Time {
	return m.FirstDay().AddDate(0, 1, -1)
}

func (m MonthKey) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MonthKey) UnmarshalText(text []byte) error {
	parsed, err := ParseMonthKey(string(text))
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// Range gera a sequência de meses de from até to, inclusive, cruzando viradas
// de ano. O contrato é que o chamador garanta from <= to; quando violado, o
// resultado é uma sequência vazia.
func Range(from, to MonthKey) []MonthKey {
	months := make([]MonthKey, 0)

	for current := from; !current.After(to); current = current.Next() {
		months = append(months, current)
	}

	return months
}
