package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS job_postings (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	skills      TEXT NOT NULL,
	plus        TEXT NOT NULL,
	location    TEXT NOT NULL,
	mode        TEXT NOT NULL,
	salary      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps postings in a local sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, fields chat.FieldSet) (string, error) {
	if !fields.Complete() {
		return "", fmt.Errorf("%w: missing %v", errIncompletePosting, fields.Missing())
	}

	job := models.NewJobPosting(fields)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO job_postings (title, description, skills, plus, location, mode, salary)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.Title, job.Description, job.Skills, job.Plus, job.Location, job.Mode, job.Salary,
	)
	if err != nil {
		return "", fmt.Errorf("insert job posting: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("insert job posting: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
