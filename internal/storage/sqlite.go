//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"flusignal/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveAnalyses(ctx context.Context, runID string, analyses []model.MutationAnalysis) error {
	payload, err := EncodeAnalyses(analyses)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "analyses", runID, payload)
}

func (s *SQLiteStore) GetAnalyses(ctx context.Context, runID string) ([]model.MutationAnalysis, bool, error) {
	payload, ok, err := s.getPayload(ctx, "analyses", runID)
	if err != nil || !ok {
		return nil, false, err
	}
	analyses, err := DecodeAnalyses(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode analyses %s: %w", runID, err)
	}
	return analyses, true, nil
}

func (s *SQLiteStore) SaveMatrix(ctx context.Context, runID string, matrix model.FrequencyMatrix) error {
	payload, err := EncodeMatrix(matrix)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "matrices", runID, payload)
}

func (s *SQLiteStore) GetMatrix(ctx context.Context, runID string) (model.FrequencyMatrix, bool, error) {
	payload, ok, err := s.getPayload(ctx, "matrices", runID)
	if err != nil || !ok {
		return model.FrequencyMatrix{}, false, err
	}
	matrix, err := DecodeMatrix(payload)
	if err != nil {
		return model.FrequencyMatrix{}, false, fmt.Errorf("decode matrix %s: %w", runID, err)
	}
	return matrix, true, nil
}

func (s *SQLiteStore) SaveTensor(ctx context.Context, runID string, tensor model.FrequencyTensor) error {
	payload, err := EncodeTensor(tensor)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "tensors", runID, payload)
}

func (s *SQLiteStore) GetTensor(ctx context.Context, runID string) (model.FrequencyTensor, bool, error) {
	payload, ok, err := s.getPayload(ctx, "tensors", runID)
	if err != nil || !ok {
		return model.FrequencyTensor{}, false, err
	}
	tensor, err := DecodeTensor(payload)
	if err != nil {
		return model.FrequencyTensor{}, false, fmt.Errorf("decode tensor %s: %w", runID, err)
	}
	return tensor, true, nil
}

func (s *SQLiteStore) SaveSummary(ctx context.Context, summary model.AggregateSummary) error {
	payload, err := EncodeSummary(summary)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "summaries", summary.RunID, payload)
}

func (s *SQLiteStore) GetSummary(ctx context.Context, runID string) (model.AggregateSummary, bool, error) {
	payload, ok, err := s.getPayload(ctx, "summaries", runID)
	if err != nil || !ok {
		return model.AggregateSummary{}, false, err
	}
	summary, err := DecodeSummary(payload)
	if err != nil {
		return model.AggregateSummary{}, false, fmt.Errorf("decode summary %s: %w", runID, err)
	}
	return summary, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT run_id FROM (
			SELECT run_id FROM analyses
			UNION SELECT run_id FROM matrices
			UNION SELECT run_id FROM tensors
			UNION SELECT run_id FROM summaries
		) ORDER BY run_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var runID string
		if err := rows.Scan(&runID); err != nil {
			return nil, err
		}
		runs = append(runs, runID)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) savePayload(ctx context.Context, table, runID string, payload []byte) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO `+table+` (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) getPayload(ctx context.Context, table, runID string) ([]byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM `+table+` WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS matrices (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS tensors (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS summaries (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
	`)
	return err
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

// DefaultStoreKind is sqlite when the backend is compiled in.
func DefaultStoreKind() string {
	return "sqlite"
}
