package baseline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists baselines in PostgreSQL, one row per patient with
// the full baseline document as JSONB. It satisfies Store and is safe for
// concurrent use; the pool handles connection management.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// InitSchema creates the baselines table if it doesn't exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS baselines (
            patient_id TEXT PRIMARY KEY,
            state      TEXT NOT NULL,
            data       JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        );

        CREATE INDEX IF NOT EXISTS idx_baselines_state ON baselines(state);
    `)
	if err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, patientID string) (*Baseline, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		"SELECT data FROM baselines WHERE patient_id = $1",
		patientID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBaselineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode baseline: %w", err)
	}
	return &b, nil
}

// Put implements Store.
func (s *PostgresStore) Put(ctx context.Context, b *Baseline) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
        INSERT INTO baselines (patient_id, state, data, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (patient_id) DO UPDATE
        SET state = EXCLUDED.state,
            data = EXCLUDED.data,
            updated_at = EXCLUDED.updated_at`,
		b.PatientID, string(b.State), data, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to store baseline: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, patientID string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM baselines WHERE patient_id = $1", patientID)
	if err != nil {
		return fmt.Errorf("failed to delete baseline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBaselineNotFound
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT patient_id FROM baselines ORDER BY patient_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan patient id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
