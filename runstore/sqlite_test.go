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

package runstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivien-cheng/minions-finance/runstore"
)

// A file-backed database keeps parallel tests from sharing the default
// in-memory DSN.
func newStore(t *testing.T) *runstore.SQLiteStore {
	t.Helper()
	store, err := runstore.NewSQLiteStore(t.Context(), runstore.SQLiteStoreParams{
		DBDataSourceName: filepath.Join(t.TempDir(), "runstore.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestSQLiteStorePredictions(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	require.NoError(t, store.SavePrediction(ctx, "condition1", "fb_001", "$1,577 million"))
	require.NoError(t, store.SavePrediction(ctx, "condition1", "fb_002", "Yes"))
	require.NoError(t, store.SavePrediction(ctx, "condition2", "fb_001", "1577"))

	predictions, err := store.Predictions(ctx, "condition1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"fb_001": "$1,577 million",
		"fb_002": "Yes",
	}, predictions)

	predictions, err = store.Predictions(ctx, "condition2")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"fb_001": "1577"}, predictions)
}

func TestSQLiteStorePredictionUpsert(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	require.NoError(t, store.SavePrediction(ctx, "condition1", "fb_001", "first"))
	require.NoError(t, store.SavePrediction(ctx, "condition1", "fb_001", "second"))

	predictions, err := store.Predictions(ctx, "condition1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"fb_001": "second"}, predictions)
}

func TestSQLiteStorePredictionsEmpty(t *testing.T) {
	store := newStore(t)

	predictions, err := store.Predictions(t.Context(), "condition1")
	require.NoError(t, err)
	assert.Empty(t, predictions)
}

func TestSQLiteStoreRunLogs(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	log := []byte(`[{"agent": "RetrieverAgent", "result": {}}]`)
	require.NoError(t, store.SaveRunLog(ctx, "fb_001", log))

	got, err := store.RunLog(ctx, "fb_001")
	require.NoError(t, err)
	assert.Equal(t, log, got)

	// Upsert replaces the stored log.
	updated := []byte(`[]`)
	require.NoError(t, store.SaveRunLog(ctx, "fb_001", updated))
	got, err = store.RunLog(ctx, "fb_001")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestSQLiteStoreRunLogNotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.RunLog(t.Context(), "missing")
	assert.ErrorIs(t, err, runstore.ErrNotFound)
}
