package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dmoralesc/actalyzer/internal/analyze"
)

// ErrNotFound is returned when an analysis ID does not exist.
var ErrNotFound = errors.New("analysis not found")

const schema = `
CREATE TABLE IF NOT EXISTS document_analyses (
	id                TEXT PRIMARY KEY,
	filename          TEXT NOT NULL,
	created_at        TIMESTAMP NOT NULL,
	general_summary   TEXT NOT NULL,
	is_financial      INTEGER NOT NULL DEFAULT 0,
	financial_summary TEXT,
	entities          TEXT NOT NULL DEFAULT '[]',
	total_chunks      INTEGER NOT NULL DEFAULT 0,
	financial_chunks  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON document_analyses (created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_is_financial ON document_analyses (is_financial);
`

// Store persists document analysis results in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	// WAL keeps concurrent readers cheap while workers write.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AnalysisRecord is a stored analysis row.
type AnalysisRecord struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	CreatedAt        time.Time `json:"created_at"`
	GeneralSummary   string    `json:"general_summary"`
	IsFinancial      bool      `json:"is_financial"`
	FinancialSummary *string   `json:"financial_summary"`
	Entities         []string  `json:"entities"`
	TotalChunks      int       `json:"total_chunks"`
	FinancialChunks  int       `json:"financial_chunks"`
}

// Create saves an analysis result and returns the assigned ID.
func (s *Store) Create(ctx context.Context, result *analyze.DocumentAnalysisResult) (string, error) {
	entities, err := json.Marshal(result.Entities)
	if err != nil {
		return "", fmt.Errorf("marshal entities: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO document_analyses
			(id, filename, created_at, general_summary, is_financial,
			 financial_summary, entities, total_chunks, financial_chunks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		result.Filename,
		result.CreatedAt,
		result.GeneralSummary,
		result.IsFinancial,
		result.FinancialSummary,
		string(entities),
		result.TotalChunks,
		result.FinancialChunks,
	)
	if err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

// GetByID fetches one stored analysis. Returns ErrNotFound when missing.
func (s *Store) GetByID(ctx context.Context, id string) (*AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, created_at, general_summary, is_financial,
		       financial_summary, entities, total_chunks, financial_chunks
		FROM document_analyses
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns stored analyses newest first, with pagination and an
// optional financial filter.
func (s *Store) List(ctx context.Context, limit, offset int, isFinancial *bool) ([]AnalysisRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, filename, created_at, general_summary, is_financial,
		       financial_summary, entities, total_chunks, financial_chunks
		FROM document_analyses
	`
	args := []any{}
	if isFinancial != nil {
		query += " WHERE is_financial = ?"
		args = append(args, *isFinancial)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	var financialSummary sql.NullString
	var entitiesJSON string

	err := row.Scan(
		&rec.ID,
		&rec.Filename,
		&rec.CreatedAt,
		&rec.GeneralSummary,
		&rec.IsFinancial,
		&financialSummary,
		&entitiesJSON,
		&rec.TotalChunks,
		&rec.FinancialChunks,
	)
	if err != nil {
		return nil, err
	}

	if financialSummary.Valid {
		rec.FinancialSummary = &financialSummary.String
	}
	if err := json.Unmarshal([]byte(entitiesJSON), &rec.Entities); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}
	if rec.Entities == nil {
		rec.Entities = []string{}
	}
	return &rec, nil
}
