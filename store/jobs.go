// Package store persists pipeline job status in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// Job statuses.
const (
	StatusRunning   = "RUNNING"
	StatusPublished = "PUBLISHED"
	StatusDraft     = "DRAFT"
	StatusFailed    = "FAILED"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("job not found")

// Job is one agent_jobs row.
type Job struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	Status       string    `json:"status"`
	Logs         string    `json:"logs"`
	CurrentStep  string    `json:"current_step"`
	Result       string    `json:"result"`
	PublishedURL string    `json:"published_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JobStore is the run-status sink backed by database/sql.
type JobStore struct {
	DB  *sql.DB
	now func() time.Time
}

func NewJobStore(dbPath string) (*JobStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One writer at a time; concurrent runs otherwise hit "database is locked".
	db.SetMaxOpenConns(1)

	queries := []string{
		`CREATE TABLE IF NOT EXISTS agent_jobs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'RUNNING',
			logs TEXT NOT NULL DEFAULT '',
			current_step TEXT NOT NULL DEFAULT '',
			result TEXT NOT NULL DEFAULT '',
			published_url TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_agent_jobs_status ON agent_jobs(status);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &JobStore{DB: db, now: time.Now}, nil
}

func (s *JobStore) Close() error {
	return s.DB.Close()
}

// CreateJob inserts a RUNNING job, or resets an existing one with the same id.
func (s *JobStore) CreateJob(ctx context.Context, id, topic string) error {
	now := s.now().Unix()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO agent_jobs (id, topic, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET topic = excluded.topic, status = excluded.status, updated_at = excluded.updated_at`,
		id, topic, StatusRunning, now, now)
	return err
}

// UpdateProgress stores the current log and step label.
func (s *JobStore) UpdateProgress(ctx context.Context, id, logs, currentStep string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE agent_jobs SET logs = ?, current_step = ?, updated_at = ? WHERE id = ?`,
		logs, currentStep, s.now().Unix(), id)
	return err
}

// Finish records the terminal state of a run.
func (s *JobStore) Finish(ctx context.Context, id, status, logs, result, publishedURL string) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE agent_jobs SET status = ?, logs = ?, result = ?, published_url = ?, updated_at = ?
		WHERE id = ?`,
		status, logs, result, publishedURL, s.now().Unix(), id)
	return err
}

func (s *JobStore) Get(ctx context.Context, id string) (Job, error) {
	var j Job
	var created, updated int64
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, topic, status, logs, current_step, result, published_url, created_at, updated_at
		FROM agent_jobs WHERE id = ?`, id).
		Scan(&j.ID, &j.Topic, &j.Status, &j.Logs, &j.CurrentStep, &j.Result, &j.PublishedURL, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, err
	}
	j.CreatedAt = time.Unix(created, 0).UTC()
	j.UpdatedAt = time.Unix(updated, 0).UTC()
	return j, nil
}

// Recent lists the newest jobs first.
func (s *JobStore) Recent(ctx context.Context, limit int) ([]Job, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, topic, status, current_step, published_url, created_at, updated_at
		FROM agent_jobs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		var created, updated int64
		if err := rows.Scan(&j.ID, &j.Topic, &j.Status, &j.CurrentStep, &j.PublishedURL, &created, &updated); err != nil {
			return nil, err
		}
		j.CreatedAt = time.Unix(created, 0).UTC()
		j.UpdatedAt = time.Unix(updated, 0).UTC()
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
