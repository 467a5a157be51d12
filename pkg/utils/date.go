package utils

import "time"

// ParseDate converte uma data no formato AAAA-MM-DD. Retorna nil quando a
// string é vazia, para campos de data opcionais
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
