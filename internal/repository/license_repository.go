package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LicenseRecord is one license row. StatusID is resolved to a status by the service.
type LicenseRecord struct {
	ID               int64
	UUID             string
	Const            string
	Description      string
	StatusID         int64
	CreatedTimestamp time.Time
	UpdateTimestamp  time.Time
}

// LicenseFilter captures search parameters. Limit and Offset are applied verbatim.
type LicenseFilter struct {
	Search string
	Limit  int
	Offset int
}

// LicenseRepository encapsulates license persistence.
//
// Lookups and updates that match no row return pgx.ErrNoRows. Statements rejected by the
// database return a *StoreError. Any other error is a transport failure.
type LicenseRepository interface {
	Insert(ctx context.Context, statusID int64, licenseConst, description string) (int64, error)
	LoadByID(ctx context.Context, id int64) (*LicenseRecord, error)
	LoadByUUID(ctx context.Context, key string) (*LicenseRecord, error)
	Update(ctx context.Context, id int64, description string) error
	UpdateStatus(ctx context.Context, key string, statusID int64) error
	Delete(ctx context.Context, key string) (int64, error)
	Search(ctx context.Context, filter LicenseFilter) ([]LicenseRecord, error)
	SearchCount(ctx context.Context, search string) (int64, error)
}

type licenseRepository struct {
	pool *pgxpool.Pool
}

// NewLicenseRepository instantiates repository.
func NewLicenseRepository(pool *pgxpool.Pool) LicenseRepository {
	return &licenseRepository{pool: pool}
}

const licenseColumns = `
        license.id,
        license.uuid::text,
        license.const,
        license.description,
        license.status_id,
        license.created_timestamp,
        license.update_timestamp`

const searchPredicate = `
        WHERE license.const ILIKE $1 OR license.description ILIKE $1`

func (r *licenseRepository) Insert(ctx context.Context, statusID int64, licenseConst, description string) (int64, error) {
	const query = `
        INSERT INTO license (const, description, status_id)
        VALUES ($1, $2, $3)
        RETURNING id`
	var id int64
	if err := r.pool.QueryRow(ctx, query, licenseConst, description, statusID).Scan(&id); err != nil {
		return 0, classify("insert license", err)
	}
	return id, nil
}

func (r *licenseRepository) LoadByID(ctx context.Context, id int64) (*LicenseRecord, error) {
	const query = `SELECT` + licenseColumns + `
        FROM license WHERE license.id = $1`
	return r.fetchSingle(ctx, query, id)
}

func (r *licenseRepository) LoadByUUID(ctx context.Context, key string) (*LicenseRecord, error) {
	const query = `SELECT` + licenseColumns + `
        FROM license WHERE license.uuid = $1`
	parsed, ok := parseKey(key)
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.fetchSingle(ctx, query, parsed)
}

func (r *licenseRepository) Update(ctx context.Context, id int64, description string) error {
	const query = `
        UPDATE license SET description = $1, update_timestamp = NOW()
        WHERE id = $2`
	cmd, err := r.pool.Exec(ctx, query, description, id)
	if err != nil {
		return classify("update license", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *licenseRepository) UpdateStatus(ctx context.Context, key string, statusID int64) error {
	const query = `
        UPDATE license SET status_id = $1, update_timestamp = NOW()
        WHERE uuid = $2`
	parsed, ok := parseKey(key)
	if !ok {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, query, statusID, parsed)
	if err != nil {
		return classify("update license status", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *licenseRepository) Delete(ctx context.Context, key string) (int64, error) {
	const query = `DELETE FROM license WHERE uuid = $1`
	parsed, ok := parseKey(key)
	if !ok {
		return 0, nil
	}
	cmd, err := r.pool.Exec(ctx, query, parsed)
	if err != nil {
		return 0, classify("delete license", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *licenseRepository) Search(ctx context.Context, filter LicenseFilter) ([]LicenseRecord, error) {
	const query = `SELECT` + licenseColumns + `
        FROM license` + searchPredicate + `
        ORDER BY license.const ASC
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, likePattern(filter.Search), filter.Limit, filter.Offset)
	if err != nil {
		return nil, classify("search licenses", err)
	}
	defer rows.Close()

	result := make([]LicenseRecord, 0, filter.Limit)
	for rows.Next() {
		record, err := scanLicense(rows)
		if err != nil {
			return nil, classify("search licenses", err)
		}
		result = append(result, *record)
	}
	return result, classify("search licenses", rows.Err())
}

func (r *licenseRepository) SearchCount(ctx context.Context, search string) (int64, error) {
	const query = `SELECT COUNT(*) FROM license` + searchPredicate
	var count int64
	if err := r.pool.QueryRow(ctx, query, likePattern(search)).Scan(&count); err != nil {
		return 0, classify("count licenses", err)
	}
	return count, nil
}

func (r *licenseRepository) fetchSingle(ctx context.Context, query string, arg any) (*LicenseRecord, error) {
	record, err := scanLicense(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, classify("load license", err)
	}
	return record, nil
}

func scanLicense(row pgx.Row) (*LicenseRecord, error) {
	var record LicenseRecord
	if err := row.Scan(
		&record.ID,
		&record.UUID,
		&record.Const,
		&record.Description,
		&record.StatusID,
		&record.CreatedTimestamp,
		&record.UpdateTimestamp,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into a literal substring pattern. An empty term matches
// every row.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// parseKey normalizes a license key to canonical UUID text. Malformed keys cannot match a row.
func parseKey(key string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(key))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
