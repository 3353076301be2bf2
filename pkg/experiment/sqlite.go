package experiment

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/npuzzle/pkg/errors"
)

const createResults = `CREATE TABLE IF NOT EXISTS results (
    run_id TEXT NOT NULL,
    instance INTEGER NOT NULL,
    strategy TEXT NOT NULL,
    heuristic TEXT NOT NULL,
    n INTEGER NOT NULL,
    shuffle INTEGER NOT NULL,
    steps INTEGER NOT NULL,
    seconds REAL NOT NULL,
    nodes INTEGER NOT NULL,
    PRIMARY KEY (run_id, strategy, heuristic, instance)
);`

const idxResultsCombo = `CREATE INDEX IF NOT EXISTS idx_results_combo ON results(strategy, heuristic);`

const insertResult = `INSERT OR REPLACE INTO results
    (run_id, instance, strategy, heuristic, n, shuffle, steps, seconds, nodes)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteSink appends rows to a results table. Rows from many runs share
// the table and are told apart by run_id.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, ddl := range []string{createResults, idxResultsCombo} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &SQLiteSink{db: db}, nil
}

// Write inserts rows in a single transaction.
func (s *SQLiteSink) Write(ctx context.Context, rows []Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertResult)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.RunID, r.Instance, r.Strategy, r.Heuristic,
			r.N, r.Shuffle, r.Steps, r.Seconds, r.Nodes); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Rows reads rows back, ordered by strategy, heuristic and instance.
// An empty runID returns the rows of every run.
func (s *SQLiteSink) Rows(ctx context.Context, runID string) ([]Row, error) {
	q := `SELECT run_id, instance, strategy, heuristic, n, shuffle, steps, seconds, nodes FROM results`
	var args []any
	if runID != "" {
		q += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	q += ` ORDER BY strategy, heuristic, instance`

	rs, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var rows []Row
	for rs.Next() {
		var r Row
		if err := rs.Scan(&r.RunID, &r.Instance, &r.Strategy, &r.Heuristic,
			&r.N, &r.Shuffle, &r.Steps, &r.Seconds, &r.Nodes); err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, rs.Err()
}

// RunIDs lists the runs stored in the database.
func (s *SQLiteSink) RunIDs(ctx context.Context) ([]string, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT DISTINCT run_id FROM results ORDER BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var ids []string
	for rs.Next() {
		var id string
		if err := rs.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rs.Err()
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
