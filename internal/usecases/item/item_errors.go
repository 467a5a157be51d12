package item

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de itens faturáveis
var (
	ErrItemIDRequired     = errors.New("item ID is required")
	ErrItemNotFound       = errors.New("billable item not found")
	ErrBusinessIDRequired = errors.New("business ID is required")
	ErrNameRequired       = errors.New("item name is required")
	ErrInvalidKind        = errors.New("invalid billing kind")
	ErrInvalidCadence     = errors.New("invalid cadence")
	ErrCadenceRequired    = errors.New("cadence is required for recurring items")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrNegativeAmount     = errors.New("monthly amount must not be negative")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonthKey    = errors.New("invalid month key")
	ErrEndBeforeStart     = errors.New("end date is before start date")
	ErrNotVariableItem    = errors.New("item does not accept monthly amounts")

	ErrFetchItems = errors.New("error fetching items from database")
	ErrCreateItem = errors.New("error creating item")
	ErrUpdateItem = errors.New("error updating item")
	ErrDeleteItem = errors.New("error deleting item")

	ErrGenerateID = errors.New("error generating ID")
)

// ItemError é um erro com contexto adicional para itens faturáveis
type ItemError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	ItemID  string // ID do item envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

func (e *ItemError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// NewItemError cria um novo ItemError
func NewItemError(err error, code string, details string) *ItemError {
	return &ItemError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewItemErrorWithID cria um novo ItemError com ID do item
func NewItemErrorWithID(err error, code string, itemID string, details string) *ItemError {
	return &ItemError{
		Err:     err,
		Code:    code,
		ItemID:  itemID,
		Details: details,
	}
}
