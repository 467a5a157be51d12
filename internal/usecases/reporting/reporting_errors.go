package reporting

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de relatórios de receita
var (
	ErrBusinessIDRequired = errors.New("business ID is required")
	ErrBusinessNotFound   = errors.New("business not found")
	ErrInvalidMode        = errors.New("invalid revenue mode")
	ErrInvalidPeriod      = errors.New("invalid period")

	ErrFetchData     = errors.New("error fetching data from database")
	ErrComputeSeries = errors.New("error computing revenue series")
)

// ReportingError é um erro com contexto adicional para relatórios
type ReportingError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	BusinessID string // ID do negócio envolvido (quando aplicável)
	Details    string // Detalhes adicionais
}

func (e *ReportingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ReportingError) Unwrap() error {
	return e.Err
}

// NewReportingError cria um novo ReportingError
func NewReportingError(err error, code string, details string) *ReportingError {
	return &ReportingError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewReportingErrorWithID cria um novo ReportingError com ID do negócio
func NewReportingErrorWithID(err error, code string, businessID string, details string) *ReportingError {
	return &ReportingError{
		Err:        err,
		Code:       code,
		BusinessID: businessID,
		Details:    details,
	}
}
