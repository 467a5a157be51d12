package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
)

const (
	revenueSnapshotsTable = "revenue_snapshots rs"
)

type RevenueSnapshotRepository interface {
	GetByBusinessAndPeriod(businessID, period, mode string) (*domain.RevenueSnapshotEntry, error)
	GetByPeriodRange(businessID, mode string, periods []string) ([]*domain.RevenueSnapshotEntry, error)
	SaveOrUpdate(snapshot *domain.RevenueSnapshotEntry) error
	DeleteOlderThan(months int) (int64, error)
	GetAllPeriods() ([]string, error)
}

type revenueSnapshotRepository struct {
	conn *postgres.Connection
}

func NewRevenueSnapshotRepository(conn *postgres.Connection) RevenueSnapshotRepository {
	return &revenueSnapshotRepository{
		conn: conn,
	}
}

func (r *revenueSnapshotRepository) GetByBusinessAndPeriod(businessID, period, mode string) (*domain.RevenueSnapshotEntry, error) {
	query, args, err := squirrel.
		Select("rs.id, rs.business_id, rs.period, rs.mode, rs.amount, rs.created_at, rs.updated_at").
		From(revenueSnapshotsTable).
		Where(squirrel.Eq{"rs.business_id": businessID, "rs.period": period, "rs.mode": mode}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	snapshot := &domain.RevenueSnapshotEntry{}
	err = row.Scan(
		&snapshot.ID,
		&snapshot.BusinessID,
		&snapshot.Period,
		&snapshot.Mode,
		&snapshot.Amount,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear snapshot de receita: %w", err)
	}

	return snapshot, nil
}

func (r *revenueSnapshotRepository) GetByPeriodRange(businessID, mode string, periods []string) ([]*domain.RevenueSnapshotEntry, error) {
	query, args, err := squirrel.
		Select("rs.id, rs.business_id, rs.period, rs.mode, rs.amount, rs.created_at, rs.updated_at").
		From(revenueSnapshotsTable).
		Where(squirrel.Eq{"rs.business_id": businessID, "rs.mode": mode}).
		Where(squirrel.Eq{"rs.period": periods}).
		OrderBy("rs.period ASC").
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

	snapshots := make([]*domain.RevenueSnapshotEntry, 0)
	for rows.Next() {
		snapshot := &domain.RevenueSnapshotEntry{}
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.BusinessID,
			&snapshot.Period,
			&snapshot.Mode,
			&snapshot.Amount,
			&snapshot.CreatedAt,
			&snapshot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshots de receita: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

func (r *revenueSnapshotRepository) SaveOrUpdate(snapshot *domain.RevenueSnapshotEntry) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("revenue_snapshots").
		Columns("business_id", "period", "mode", "amount").
		Values(
			snapshot.BusinessID,
			snapshot.Period,
			snapshot.Mode,
			snapshot.Amount,
		).
		Suffix(`
			ON CONFLICT (business_id, period, mode) DO UPDATE SET
				amount = EXCLUDED.amount,
				updated_at = NOW()
		`).
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

func (r *revenueSnapshotRepository) DeleteOlderThan(months int) (int64, error) {
	// Períodos AAAA-MM são ordenáveis como string, então a comparação lexicográfica
	// com o período de corte é suficiente
	cutoffTime := time.Now().AddDate(0, -months, 0)
	cutoffPeriod := fmt.Sprintf("%04d-%02d", cutoffTime.Year(), int(cutoffTime.Month()))

	query, args, err := squirrel.
		Delete("revenue_snapshots").
		Where(squirrel.Lt{"period": cutoffPeriod}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

// GetAllPeriods retorna todos os períodos disponíveis no formato AAAA-MM
func (r *revenueSnapshotRepository) GetAllPeriods() ([]string, error) {
	query, args, err := squirrel.
		Select("DISTINCT period").
		From("revenue_snapshots").
		OrderBy("period ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	periods := make([]string, 0)
	for rows.Next() {
		var period string
		if err := rows.Scan(&period); err != nil {
			return nil, fmt.Errorf("erro ao escanear período: %w", err)
		}
		periods = append(periods, period)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return periods, nil
}
