package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusRecord is one license_status row.
type StatusRecord struct {
	ID          int64  `json:"id"`
	Const       string `json:"const"`
	Description string `json:"description"`
}

// StatusRepository reads license statuses.
type StatusRepository interface {
	LoadAll(ctx context.Context) ([]StatusRecord, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository builds the repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) LoadAll(ctx context.Context) ([]StatusRecord, error) {
	const query = `
        SELECT license_status.id, license_status.const, license_status.description
        FROM license_status
        ORDER BY license_status.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, classify("load statuses", err)
	}
	defer rows.Close()

	var result []StatusRecord
	for rows.Next() {
		var status StatusRecord
		if err := rows.Scan(&status.ID, &status.Const, &status.Description); err != nil {
			return nil, classify("load statuses", err)
		}
		result = append(result, status)
	}
	return result, classify("load statuses", rows.Err())
}
