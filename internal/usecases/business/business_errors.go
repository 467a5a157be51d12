package business

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de negócios
var (
	ErrBusinessIDRequired = errors.New("business ID is required")
	ErrBusinessNotFound   = errors.New("business not found")
	ErrNameRequired       = errors.New("business name is required")
	ErrInvalidStatus      = errors.New("invalid business status")

	ErrFetchBusinesses = errors.New("error fetching businesses from database")
	ErrCreateBusiness  = errors.New("error creating business")
	ErrUpdateBusiness  = errors.New("error updating business")

	ErrGenerateID = errors.New("error generating ID")
)

// BusinessError é um erro com contexto adicional para negócios
type BusinessError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	BusinessID string // ID do negócio envolvido (quando aplicável)
	Details    string // Detalhes adicionais
}

func (e *BusinessError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError cria um novo BusinessError
func NewBusinessError(err error, code string, details string) *BusinessError {
	return &BusinessError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewBusinessErrorWithID cria um novo BusinessError com ID do negócio
func NewBusinessErrorWithID(err error, code string, businessID string, details string) *BusinessError {
	return &BusinessError{
		Err:        err,
		Code:       code,
		BusinessID: businessID,
		Details:    details,
	}
}
