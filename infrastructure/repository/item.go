package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
)

const (
	itemsTable = "billable_items i"
)

type ItemRepository interface {
	GetByID(itemID string) (*domain.BillableItem, error)
	ListByBusiness(businessID string) ([]*domain.BillableItem, error)
	Create(item *domain.BillableItem) error
	Update(item *domain.BillableItem) error
	Delete(itemID string) error
	SetMonthlyAmount(itemID string, month string, amount float64) error
}

type itemRepository struct {
	conn *postgres.Connection
}

func NewItemRepository(conn *postgres.Connection) ItemRepository {
	return &itemRepository{
		conn: conn,
	}
}

const itemColumns = "i.id, i.business_id, i.name, i.billing_kind, i.price, i.cadence, i.start_date, i.end_date, i.monthly_amounts, i.created_at, i.updated_at"

func (r *itemRepository) GetByID(itemID string) (*domain.BillableItem, error) {
	query, args, err := squirrel.
		Select(itemColumns).
		From(itemsTable).
		Where(squirrel.Eq{"i.id": itemID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	item, err := r.scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear item: %w", err)
	}

	return item, nil
}

func (r *itemRepository) ListByBusiness(businessID string) ([]*domain.BillableItem, error) {
	query, args, err := squirrel.
		Select(itemColumns).
		From(itemsTable).
		Where(squirrel.Eq{"i.business_id": businessID}).
		OrderBy("i.start_date ASC, i.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.BillableItem, 0)
	for rows.Next() {
		item, err := r.scanItemRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear itens: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return items, nil
}

func (r *itemRepository) Create(item *domain.BillableItem) error {
	amountsJSON, err := marshalAmounts(item.MonthlyAmounts)
	if err != nil {
		return err
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("billable_items").
		Columns("id", "business_id", "name", "billing_kind", "price", "cadence", "start_date", "end_date", "monthly_amounts").
		Values(
			item.ID,
			item.BusinessID,
			item.Name,
			item.Kind,
			item.Price,
			nullableCadence(item.Cadence),
			item.StartDate,
			item.EndDate,
			amountsJSON,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *itemRepository) Update(item *domain.BillableItem) error {
	amountsJSON, err := marshalAmounts(item.MonthlyAmounts)
	if err != nil {
		return err
	}

	query, args, err := squirrel.StatementBuilder.
		Update("billable_items").
		Set("name", item.Name).
		Set("price", item.Price).
		Set("cadence", nullableCadence(item.Cadence)).
		Set("start_date", item.StartDate).
		Set("end_date", item.EndDate).
		Set("monthly_amounts", amountsJSON).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": item.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *itemRepository) Delete(itemID string) error {
	query, args, err := squirrel.
		Delete("billable_items").
		Where(squirrel.Eq{"id": itemID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

// SetMonthlyAmount grava o valor de um item variável em um mês específico,
// atualizando apenas a chave correspondente do JSONB
func (r *itemRepository) SetMonthlyAmount(itemID string, month string, amount float64) error {
	query, args, err := squirrel.StatementBuilder.
		Update("billable_items").
		Set("monthly_amounts", squirrel.Expr(
			"jsonb_set(COALESCE(monthly_amounts, '{}'::jsonb), ARRAY[?], to_jsonb(?::numeric))",
			month, amount,
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *itemRepository) scanItem(row *sql.Row) (*domain.BillableItem, error) {
	item := &domain.BillableItem{}
	var cadence sql.NullString
	var amountsJSON []byte

	err := row.Scan(
		&item.ID,
		&item.BusinessID,
		&item.Name,
		&item.Kind,
		&item.Price,
		&cadence,
		&item.StartDate,
		&item.EndDate,
		&amountsJSON,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cadence.Valid {
		item.Cadence = domain.Cadence(cadence.String)
	}

	if err := unmarshalAmounts(amountsJSON, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *itemRepository) scanItemRows(rows *sql.Rows) (*domain.BillableItem, error) {
	item := &domain.BillableItem{}
	var cadence sql.NullString
	var amountsJSON []byte

	err := rows.Scan(
		&item.ID,
		&item.BusinessID,
		&item.Name,
		&item.Kind,
		&item.Price,
		&cadence,
		&item.StartDate,
		&item.EndDate,
		&amountsJSON,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cadence.Valid {
		item.Cadence = domain.Cadence(cadence.String)
	}

	if err := unmarshalAmounts(amountsJSON, item); err != nil {
		return nil, err
	}

	return item, nil
}

func marshalAmounts(amounts map[string]float64) ([]byte, error) {
	if amounts == nil {
		return nil, nil
	}

	data, err := json.Marshal(amounts)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar monthly_amounts para JSON: %w", err)
	}

	return data, nil
}

func unmarshalAmounts(data []byte, item *domain.BillableItem) error {
	if data == nil {
		return nil
	}

	amounts := make(map[string]float64)
	if err := json.Unmarshal(data, &amounts); err != nil {
		return fmt.Errorf("erro ao deserializar JSON de monthly_amounts: %w", err)
	}

	item.MonthlyAmounts = amounts
	return nil
}

func nullableCadence(cadence domain.Cadence) interface{} {
	if cadence == "" {
		return nil
	}
	return string(cadence)
}
