package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
)

const (
	businessesTable = "businesses b"
)

type BusinessRepository interface {
	GetByID(businessID string) (*domain.Business, error)
	List(availableStatus []domain.BusinessStatus) ([]*domain.Business, error)
	Create(business *domain.Business) error
	Update(request *domain.UpdateBusinessRequest) error
}

type businessRepository struct {
	conn *postgres.Connection
}

func NewBusinessRepository(conn *postgres.Connection) BusinessRepository {
	return &businessRepository{
		conn: conn,
	}
}

func (r *businessRepository) GetByID(businessID string) (*domain.Business, error) {
	query, args, err := squirrel.
		Select("b.id, b.name, b.nickname, b.status, b.created_at, b.updated_at").
		From(businessesTable).
		Where(squirrel.Eq{"b.id": businessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	business := &domain.Business{}
	err = row.Scan(
		&business.ID,
		&business.Name,
		&business.Nickname,
		&business.Status,
		&business.CreatedAt,
		&business.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear negócio: %w", err)
	}

	return business, nil
}

func (r *businessRepository) List(availableStatus []domain.BusinessStatus) ([]*domain.Business, error) {
	queryBuilder := squirrel.
		Select("b.id, b.name, b.nickname, b.status, b.created_at, b.updated_at").
		From(businessesTable).
		OrderBy("b.name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(availableStatus) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"b.status": availableStatus})
	}

	query, args, err := queryBuilder.ToSql()
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

	businesses := make([]*domain.Business, 0)
	for rows.Next() {
		business := &domain.Business{}
		err := rows.Scan(
			&business.ID,
			&business.Name,
			&business.Nickname,
			&business.Status,
			&business.CreatedAt,
			&business.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear negócio: %w", err)
		}

		businesses = append(businesses, business)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return businesses, nil
}

func (r *businessRepository) Create(business *domain.Business) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("businesses").
		Columns("id", "name", "nickname", "status").
		Values(business.ID, business.Name, business.Nickname, business.Status).
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

func (r *businessRepository) Update(request *domain.UpdateBusinessRequest) error {
	queryBuilder := squirrel.StatementBuilder.
		Update("businesses").
		Where(squirrel.Eq{"id": request.ID}).
		Set("updated_at", squirrel.Expr("NOW()")).
		PlaceholderFormat(squirrel.Dollar)

	if request.Name != nil {
		queryBuilder = queryBuilder.Set("name", *request.Name)
	}

	if request.Nickname != nil {
		queryBuilder = queryBuilder.Set("nickname", *request.Nickname)
	}

	if request.Status != nil {
		queryBuilder = queryBuilder.Set("status", *request.Status)
	}

	query, args, err := queryBuilder.ToSql()
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
