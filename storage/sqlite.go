package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"stuywatch/models"
)

// SQLiteStore holds operational history: one row per check cycle, the
// notifications that went out, and per-run log lines. It is diagnostics
// only; the known set itself lives in the JSON document.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS check_runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		listings_found INTEGER,
		listings_new INTEGER,
		skipped_invalid INTEGER,
		notified INTEGER,
		error TEXT
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		run_id TEXT,
		address TEXT,
		price TEXT,
		channel TEXT,
		ok BOOLEAN,
		sent_at DATETIME,
		FOREIGN KEY (run_id) REFERENCES check_runs(id)
	);

	CREATE TABLE IF NOT EXISTS check_logs (
		id INTEGER PRIMARY KEY,
		run_id TEXT,
		timestamp DATETIME,
		level TEXT,
		message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON check_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_notifications_run ON notifications(run_id);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON check_logs(run_id, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.CheckRun) error {
	_, err := s.db.Exec(`
		INSERT INTO check_runs (id, started_at, status, listings_found, listings_new, skipped_invalid, notified, error)
		VALUES (?, ?, ?, 0, 0, 0, 0, '')`,
		run.ID, run.StartedAt, run.Status)
	return err
}

func (s *SQLiteStore) FinishRun(run *models.CheckRun) error {
	now := time.Now()
	run.FinishedAt = &now
	_, err := s.db.Exec(`
		UPDATE check_runs
		SET finished_at = ?, status = ?, listings_found = ?, listings_new = ?, skipped_invalid = ?, notified = ?, error = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.ListingsFound, run.ListingsNew,
		run.SkippedInvalid, run.Notified, run.Error, run.ID)
	return err
}

func (s *SQLiteStore) GetRun(id string) (*models.CheckRun, error) {
	row := s.db.QueryRow(`
		SELECT id, started_at, finished_at, status, listings_found, listings_new, skipped_invalid, notified, error
		FROM check_runs WHERE id = ?`, id)

	var run models.CheckRun
	var finished sql.NullTime
	err := row.Scan(&run.ID, &run.StartedAt, &finished, &run.Status, &run.ListingsFound,
		&run.ListingsNew, &run.SkippedInvalid, &run.Notified, &run.Error)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return &run, nil
}

func (s *SQLiteStore) GetLastRunTime() (time.Time, error) {
	row := s.db.QueryRow(`SELECT started_at FROM check_runs ORDER BY started_at DESC LIMIT 1`)
	var t time.Time
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	return t, err
}

func (s *SQLiteStore) Log(runID string, level models.LogLevel, message string) error {
	_, err := s.db.Exec(`
		INSERT INTO check_logs (run_id, timestamp, level, message)
		VALUES (?, ?, ?, ?)`,
		runID, time.Now(), level, message)
	return err
}

func (s *SQLiteStore) RecordNotification(id, runID string, apt *models.Apartment, channel string, ok bool) error {
	_, err := s.db.Exec(`
		INSERT INTO notifications (id, run_id, address, price, channel, ok, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, runID, apt.Address, apt.Price, channel, ok, time.Now())
	return err
}

func (s *SQLiteStore) NotificationCount(runID string) (int, error) {
	row := s.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE run_id = ?`, runID)
	var n int
	err := row.Scan(&n)
	return n, err
}
