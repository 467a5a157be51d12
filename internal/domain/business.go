package domain

import (
	"time"
)

type BusinessStatus string

const (
	BusinessStatusActive   BusinessStatus = "ACTIVE"
	BusinessStatusInactive BusinessStatus = "INACTIVE"
)

// Business representa um negócio dono de itens de receita
type Business struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Nickname  *string        `json:"nickname"`
	Status    BusinessStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type CreateBusinessRequest struct {
	Name     string  `json:"name"`
	Nickname *string `json:"nickname,omitempty"`
}

type UpdateBusinessRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// RevenueSnapshotEntry representa um total mensal materializado no banco pelo
// agendador de snapshots
type RevenueSnapshotEntry struct {
	ID         int64     `json:"id"`
	BusinessID string    `json:"business_id"`
	Period     string    `json:"period"` // formato AAAA-MM
	Mode       string    `json:"mode"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AvailablePeriods representa os períodos mensais disponíveis na tabela de snapshots
type AvailablePeriods struct {
	Periods []string `json:"periods"` // Lista de períodos no formato AAAA-MM
	Years   []string `json:"years"`
	Months  []string `json:"months"`
}
