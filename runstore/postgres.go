// Copyright 2025 The Minions Finance Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL-based implementation of Store with the same
// semantics as SQLiteStore. Requires a valid PostgreSQL connection string.
type PostgresStore struct {
	pool *pgxpool.Pool
}

type PostgresStoreParams struct {
	// ConnString is the PostgreSQL connection string. Required.
	ConnString string
}

// NewPostgresStore connects to the database and creates the schema if
// needed.
func NewPostgresStore(ctx context.Context, params PostgresStoreParams) (*PostgresStore, error) {
	if params.ConnString == "" {
		return nil, errors.New("runstore: ConnString is required")
	}

	pool, err := pgxpool.New(ctx, params.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.initDB(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initDB(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS predictions (
			condition TEXT NOT NULL,
			financebench_id TEXT NOT NULL,
			answer TEXT NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (condition, financebench_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create predictions table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS run_logs (
			financebench_id TEXT PRIMARY KEY,
			log BYTEA NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create run_logs table: %w", err)
	}
	return nil
}

func (s *PostgresStore) SavePrediction(ctx context.Context, condition, exampleID, answer string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO predictions (condition, financebench_id, answer, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (condition, financebench_id)
		DO UPDATE SET answer = EXCLUDED.answer, updated_at = CURRENT_TIMESTAMP
	`, condition, exampleID, answer)
	if err != nil {
		return fmt.Errorf("error saving prediction: %w", err)
	}
	return nil
}

func (s *PostgresStore) Predictions(ctx context.Context, condition string) (_ map[string]string, err error) {
	rows, err := s.pool.Query(ctx, `
		SELECT financebench_id, answer FROM predictions
		WHERE condition = $1
		ORDER BY financebench_id ASC
	`, condition)
	if err != nil {
		return nil, fmt.Errorf("error querying predictions: %w", err)
	}
	defer rows.Close()

	predictions := make(map[string]string)
	for rows.Next() {
		var id, answer string
		if err = rows.Scan(&id, &answer); err != nil {
			return nil, fmt.Errorf("pgx rows scan error: %w", err)
		}
		predictions[id] = answer
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgx rows scan error: %w", err)
	}
	return predictions, nil
}

func (s *PostgresStore) SaveRunLog(ctx context.Context, exampleID string, log []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO run_logs (financebench_id, log, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (financebench_id)
		DO UPDATE SET log = EXCLUDED.log, updated_at = CURRENT_TIMESTAMP
	`, exampleID, log)
	if err != nil {
		return fmt.Errorf("error saving run log: %w", err)
	}
	return nil
}

func (s *PostgresStore) RunLog(ctx context.Context, exampleID string) ([]byte, error) {
	var log []byte
	err := s.pool.QueryRow(ctx, `
		SELECT log FROM run_logs WHERE financebench_id = $1
	`, exampleID).Scan(&log)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying run log: %w", err)
	}
	return log, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
