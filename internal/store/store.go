package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/edusight/reportgen/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS report_artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		filename TEXT NOT NULL,
		content_type TEXT NOT NULL DEFAULT 'application/pdf',
		data BLOB NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_artifacts_student
		ON report_artifacts(student_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveArtifact persists a generated report. Every generation gets its own
// row keyed by token, so concurrent generations for the same student never
// overwrite each other.
func (s *Store) SaveArtifact(a model.ReportArtifact) (int64, error) {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO report_artifacts (student_id, token, filename, content_type, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.StudentID, a.Token, a.Filename, a.ContentType, a.Data, createdAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LatestArtifact returns the most recently stored report for a student.
// Returns sql.ErrNoRows if the student has none.
func (s *Store) LatestArtifact(studentID string) (*model.ReportArtifact, error) {
	var a model.ReportArtifact
	err := s.db.QueryRow(
		`SELECT id, student_id, token, filename, content_type, data, created_at
		 FROM report_artifacts
		 WHERE student_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, studentID,
	).Scan(&a.ID, &a.StudentID, &a.Token, &a.Filename, &a.ContentType, &a.Data, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ArtifactCount returns the number of stored reports for a student.
func (s *Store) ArtifactCount(studentID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM report_artifacts WHERE student_id = ?`, studentID,
	).Scan(&count)
	return count, err
}
