package domain

import (
	"time"
)

// BillingKind define como um item gera receita
type BillingKind string

const (
	BillingKindRecurring BillingKind = "RECURRING"
	BillingKindOneTime   BillingKind = "ONE_TIME"
	BillingKindVariable  BillingKind = "VARIABLE"
)

// Cadence define a periodicidade de cobrança de um item recorrente
type Cadence string

const (
	CadenceMonthly Cadence = "MONTHLY"
	CadenceYearly  Cadence = "YEARLY"
)

// BillableItem representa uma fonte de receita de um negócio.
// O campo Kind determina quais campos são significativos:
//   - RECURRING: Price, Cadence, StartDate e EndDate (opcional)
//   - ONE_TIME: Price e StartDate (data única do pagamento)
//   - VARIABLE: MonthlyAmounts (chaves no formato AAAA-MM); a ausência de uma
//     chave significa "sem dados no mês", não zero
type BillableItem struct {
	ID             string             `json:"id"`
	BusinessID     string             `json:"business_id"`
	Name           string             `json:"name"`
	Kind           BillingKind        `json:"billing_kind"`
	Price          float64            `json:"price"`
	Cadence        Cadence            `json:"cadence,omitempty"`
	StartDate      time.Time          `json:"start_date"`
	EndDate        *time.Time         `json:"end_date,omitempty"`
	MonthlyAmounts map[string]float64 `json:"monthly_amounts,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type CreateItemRequest struct {
	Name      string             `json:"name"`
	Kind      string             `json:"billing_kind"`
	Price     float64            `json:"price"`
	Cadence   *string            `json:"cadence,omitempty"`
	StartDate string             `json:"start_date"`
	EndDate   *string            `json:"end_date,omitempty"`
	Amounts   map[string]float64 `json:"monthly_amounts,omitempty"`
}

type UpdateItemRequest struct {
	ID        string   `json:"id"`
	Name      *string  `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Cadence   *string  `json:"cadence,omitempty"`
	StartDate *string  `json:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty"`
}

// SetMonthlyAmountRequest registra o valor recebido por um item variável em um mês
type SetMonthlyAmountRequest struct {
	ItemID string  `json:"item_id"`
	Month  string  `json:"month"` // formato AAAA-MM
	Amount float64 `json:"amount"`
}
