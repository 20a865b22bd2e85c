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
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a SQLite-based implementation of Store.
//
// By default, uses an in-memory database that is lost when the process ends.
// For persistent storage, provide a file path.
type SQLiteStore struct {
	dbDSN string
	db    *sql.DB
	mu    sync.Mutex
}

type SQLiteStoreParams struct {
	// Optional database data source name.
	// Defaults to "file::memory:?cache=shared" (in-memory database).
	DBDataSourceName string
}

// NewSQLiteStore opens the database and creates the schema if needed.
func NewSQLiteStore(ctx context.Context, params SQLiteStoreParams) (_ *SQLiteStore, err error) {
	s := &SQLiteStore{
		dbDSN: cmp.Or(params.DBDataSourceName, "file::memory:?cache=shared"),
	}

	defer func() {
		if err != nil {
			if e := s.Close(); e != nil {
				err = errors.Join(err, e)
			}
		}
	}()

	s.db, err = sql.Open("sqlite3", s.dbDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite3 database: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `PRAGMA journal_mode=WAL`)
	if err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	err = s.initDB(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initDB(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS predictions (
			condition TEXT NOT NULL,
			financebench_id TEXT NOT NULL,
			answer TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (condition, financebench_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create predictions table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS run_logs (
			financebench_id TEXT PRIMARY KEY,
			log BLOB NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create run_logs table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SavePrediction(ctx context.Context, condition, exampleID, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (condition, financebench_id, answer, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (condition, financebench_id)
		DO UPDATE SET answer = excluded.answer, updated_at = CURRENT_TIMESTAMP
	`, condition, exampleID, answer)
	if err != nil {
		return fmt.Errorf("error saving prediction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Predictions(ctx context.Context, condition string) (_ map[string]string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT financebench_id, answer FROM predictions
		WHERE condition = ?
		ORDER BY financebench_id ASC
	`, condition)
	if err != nil {
		return nil, fmt.Errorf("error querying predictions: %w", err)
	}
	defer func() {
		if e := rows.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("error closing sql.Rows: %w", e))
		}
	}()

	predictions := make(map[string]string)
	for rows.Next() {
		var id, answer string
		if err = rows.Scan(&id, &answer); err != nil {
			return nil, fmt.Errorf("sql rows scan error: %w", err)
		}
		predictions[id] = answer
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sql rows scan error: %w", err)
	}
	return predictions, nil
}

func (s *SQLiteStore) SaveRunLog(ctx context.Context, exampleID string, log []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_logs (financebench_id, log, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (financebench_id)
		DO UPDATE SET log = excluded.log, updated_at = CURRENT_TIMESTAMP
	`, exampleID, log)
	if err != nil {
		return fmt.Errorf("error saving run log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RunLog(ctx context.Context, exampleID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var log []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT log FROM run_logs WHERE financebench_id = ?
	`, exampleID).Scan(&log)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying run log: %w", err)
	}
	return log, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite3 database: %w", err)
	}
	return nil
}
