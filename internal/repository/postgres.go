package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"factory-matching/internal/common/database"
	"factory-matching/internal/models"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS factories (
    id     TEXT PRIMARY KEY,
    region TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    data   JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS factories_region_idx ON factories (region);
CREATE TABLE IF NOT EXISTS consultations (
    id           TEXT PRIMARY KEY,
    status       TEXT NOT NULL,
    project_type TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    data         JSONB NOT NULL
);`

const (
	queryFactoryList     = `SELECT data FROM factories ORDER BY id`
	queryFactoryByRegion = `SELECT data FROM factories WHERE region = $1 ORDER BY id`
	queryFactoryGet      = `SELECT data FROM factories WHERE id = $1`
	queryFactoryUpsert   = `INSERT INTO factories (id, region, status, data) VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET region = EXCLUDED.region, status = EXCLUDED.status, data = EXCLUDED.data`

	queryConsultationList   = `SELECT data FROM consultations ORDER BY created_at DESC`
	queryConsultationGet    = `SELECT data FROM consultations WHERE id = $1`
	queryConsultationUpsert = `INSERT INTO consultations (id, status, project_type, created_at, data) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, project_type = EXCLUDED.project_type, data = EXCLUDED.data`
	queryConsultationDelete = `DELETE FROM consultations WHERE id = $1`
)

// Migrate creates the tables used by the postgres backend.
func Migrate(ctx context.Context, db *database.PostgresClient) error {
	if _, err := db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

type PostgresFactoryRepository struct {
	db *database.PostgresClient
}

func NewPostgresFactoryRepository(db *database.PostgresClient) *PostgresFactoryRepository {
	return &PostgresFactoryRepository{db: db}
}

func (r *PostgresFactoryRepository) List(ctx context.Context) ([]models.Factory, error) {
	return queryJSON[models.Factory](ctx, r.db, queryFactoryList)
}

func (r *PostgresFactoryRepository) ListByRegion(ctx context.Context, region string) ([]models.Factory, error) {
	if region == "" {
		return r.List(ctx)
	}
	return queryJSON[models.Factory](ctx, r.db, queryFactoryByRegion, region)
}

func (r *PostgresFactoryRepository) Get(ctx context.Context, id string) (*models.Factory, error) {
	var f models.Factory
	if err := queryRowJSON(ctx, r.db, &f, queryFactoryGet, id); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresFactoryRepository) Save(ctx context.Context, f models.Factory) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal factory: %w", err)
	}
	status := f.Status
	if status == "" {
		status = models.FactoryStatusActive
	}
	if _, err := r.db.Exec(ctx, queryFactoryUpsert, f.ID, f.Region, status, data); err != nil {
		return fmt.Errorf("upsert factory %s: %w", f.ID, err)
	}
	return nil
}

type PostgresConsultationRepository struct {
	db *database.PostgresClient
}

func NewPostgresConsultationRepository(db *database.PostgresClient) *PostgresConsultationRepository {
	return &PostgresConsultationRepository{db: db}
}

func (r *PostgresConsultationRepository) List(ctx context.Context) ([]models.Consultation, error) {
	return queryJSON[models.Consultation](ctx, r.db, queryConsultationList)
}

func (r *PostgresConsultationRepository) Get(ctx context.Context, id string) (*models.Consultation, error) {
	var c models.Consultation
	if err := queryRowJSON(ctx, r.db, &c, queryConsultationGet, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresConsultationRepository) Save(ctx context.Context, c models.Consultation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal consultation: %w", err)
	}
	if _, err := r.db.Exec(ctx, queryConsultationUpsert, c.ID, string(c.Status), c.ProjectType, c.CreatedAt, data); err != nil {
		return fmt.Errorf("upsert consultation %s: %w", c.ID, err)
	}
	return nil
}

func (r *PostgresConsultationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, queryConsultationDelete, id)
	if err != nil {
		return fmt.Errorf("delete consultation %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete consultation %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func queryJSON[T any](ctx context.Context, db *database.PostgresClient, query string, args ...interface{}) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func queryRowJSON(ctx context.Context, db *database.PostgresClient, out interface{}, query string, args ...interface{}) error {
	var raw []byte
	err := db.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query row: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}
