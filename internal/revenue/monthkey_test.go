package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMonthKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected MonthKey
		wantErr  bool
	}{
		{
			name:     "Período válido",
			input:    "2025-05",
			expected: MonthKey{Year: 2025, Month: time.May},
		},
		{
			name:     "Dezembro",
			input:    "2024-12",
			expected: MonthKey{Year: 2024, Month: time.December},
		},
		{
			name:    "Formato inválido",
			input:   "05-2025",
			wantErr: true,
		},
		{
			name:    "Mês fora do intervalo",
			input:   "2025-13",
			wantErr: true,
		},
		{
			name:    "String vazia",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mk, err := ParseMonthKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, mk)
		})
	}
}

func TestMonthKeyString(t *testing.T) {
	assert.Equal(t, "2025-01", MonthKey{Year: 2025, Month: time.January}.String())
	assert.Equal(t, "2025-12", MonthKey{Year: 2025, Month: time.December}.String())
}

func TestMonthKeyNext(t *testing.T) {
	// Avanço simples dentro do mesmo ano
	next := MonthKey{Year: 2025, Month: time.May}.Next()
	assert.Equal(t, MonthKey{Year: 2025, Month: time.June}, next)

	// Virada de ano
	next = MonthKey{Year: 2025, Month: time.December}.Next()
	assert.Equal(t, MonthKey{Year: 2026, Month: time.January}, next)
}

func TestMonthKeyPrev(t *testing.T) {
	// Recuo simples dentro do mesmo ano
	prev := MonthKey{Year: 2025, Month: time.May}.Prev()
	assert.Equal(t, MonthKey{Year: 2025, Month: time.April}, prev)

	// Virada de ano
	prev = MonthKey{Year: 2025, Month: time.January}.Prev()
	assert.Equal(t, MonthKey{Year: 2024, Month: time.December}, prev)
}

func TestMonthKeyCompare(t *testing.T) {
	jan := MonthKey{Year: 2025, Month: time.January}
	feb := MonthKey{Year: 2025, Month: time.February}
	janNextYear := MonthKey{Year: 2026, Month: time.January}

	assert.Equal(t, -1, jan.Compare(feb))
	assert.Equal(t, 1, feb.Compare(jan))
	assert.Equal(t, 0, jan.Compare(jan))
	assert.True(t, jan.Before(janNextYear))
	assert.True(t, janNextYear.After(feb))
}

func TestMonthKeyDayBoundaries(t *testing.T) {
	feb := MonthKey{Year: 2025, Month: time.February}
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), feb.FirstDay())
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), feb.LastDay())

	// Ano bissexto
	febLeap := MonthKey{Year: 2024, Month: time.February}
	assert.Equal(t, 29, febLeap.LastDay().Day())
}

func TestRange(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected []string
	}{
		{
			name:     "Intervalo dentro do mesmo ano",
			from:     "2025-03",
			to:       "2025-06",
			expected: []string{"2025-03", "2025-04", "2025-05", "2025-06"},
		},
		{
			name:     "Intervalo cruzando a virada de ano",
			from:     "2024-11",
			to:       "2025-02",
			expected: []string{"2024-11", "2024-12", "2025-01", "2025-02"},
		},
		{
			name:     "Único mês",
			from:     "2025-07",
			to:       "2025-07",
			expected: []string{"2025-07"},
		},
		{
			name:     "Início após o fim retorna sequência vazia",
			from:     "2025-08",
			to:       "2025-03",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, err := ParseMonthKey(tt.from)
			assert.NoError(t, err)
			to, err := ParseMonthKey(tt.to)
			assert.NoError(t, err)

			months := Range(from, to)

			keys := make([]string, 0, len(months))
			for _, m := range months {
				keys = append(keys, m.String())
			}
			assert.Equal(t, tt.expected, keys)
		})
	}
}

func TestMonthKeyMarshalText(t *testing.T) {
	mk := MonthKey{Year: 2025, Month: time.September}

	text, err := mk.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "2025-09", string(text))

	var parsed MonthKey
	err = parsed.UnmarshalText(text)
	assert.NoError(t, err)
	assert.Equal(t, mk, parsed)

	err = parsed.UnmarshalText([]byte("not-a-month"))
	assert.Error(t, err)
}
