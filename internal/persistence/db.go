// Package persistence provides SQLite-based run history storage.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/oracle-route/internal/report"
)

// DB wraps a SQLite connection for run history.
type DB struct {
	conn *sqlx.DB
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID             string    `db:"id"`
	CreatedAt      time.Time `db:"created_at"`
	Map            string    `db:"map"`
	Colours        string    `db:"colours"`
	ShrineQuota    int       `db:"shrine_quota"`
	TotalMoves     int       `db:"total_moves"`
	TotalTurns     int       `db:"total_turns"`
	TasksCompleted int       `db:"tasks_completed"`
	ShrinesBuilt   int       `db:"shrines_built"`
	Success        bool      `db:"success"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		map TEXT NOT NULL,
		colours TEXT NOT NULL,
		shrine_quota INTEGER NOT NULL,
		total_moves INTEGER NOT NULL,
		total_turns INTEGER NOT NULL,
		tasks_completed INTEGER NOT NULL,
		shrines_built INTEGER NOT NULL,
		success INTEGER NOT NULL,
		results_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS planner_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun stores a results document, replacing any run with the same id.
func (db *DB) SaveRun(r *report.Results) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", r.RunID, err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO runs
		(id, created_at, map, colours, shrine_quota, total_moves, total_turns,
		 tasks_completed, shrines_built, success, results_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt, r.Input.Map, strings.Join(r.Input.Colours, ","), r.Input.ShrineQuota,
		r.Route.TotalMoves, r.Route.TotalTurns, len(r.Tasks.Completed), len(r.Shrines.Built),
		r.Success, string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO planner_meta (key, value) VALUES (?, ?)",
		"last_run", r.RunID,
	); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("run saved", "run", r.RunID, "moves", r.Route.TotalMoves, "success", r.Success)
	return nil
}

// LoadRun returns the stored results document of a run.
func (db *DB) LoadRun(id string) (*report.Results, error) {
	var raw string
	if err := db.conn.Get(&raw, "SELECT results_json FROM runs WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	var r report.Results
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &r, nil
}

// RecentRuns returns the most recent N runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunSummary, error) {
	var runs []RunSummary
	err := db.conn.Select(&runs,
		`SELECT id, created_at, map, colours, shrine_quota, total_moves, total_turns,
			tasks_completed, shrines_built, success
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	return runs, err
}

// SaveMeta stores a key-value pair in planner metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO planner_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM planner_meta WHERE key = ?", key)
	return value, err
}
