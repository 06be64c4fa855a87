// Package journal persists submission outcomes and run summaries to a
// local SQLite database so past activity survives restarts.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vortexlabs/mempool-vortex/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	bundle_id   TEXT NOT NULL,
	relay       TEXT NOT NULL,
	status      TEXT NOT NULL,
	block       INTEGER NOT NULL,
	profit_wei  TEXT NOT NULL,
	recorded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_bundle ON outcomes(bundle_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_recorded ON outcomes(recorded_at);

CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at    INTEGER NOT NULL,
	finished_at   INTEGER NOT NULL,
	processed     INTEGER NOT NULL,
	opportunities INTEGER NOT NULL,
	submitted     INTEGER NOT NULL,
	succeeded     INTEGER NOT NULL
);
`

// retention bounds how far back outcome rows are kept.
const retention = 30 * 24 * time.Hour

// Journal wraps a SQLite handle. A nil *Journal is valid and records nothing,
// which lets callers skip persistence without branching at every call site.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the database at path, applies the schema and prunes
// outcome rows older than the retention window.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	cutoff := time.Now().Add(-retention).Unix()
	if _, err := db.Exec(`DELETE FROM outcomes WHERE recorded_at < ?`, cutoff); err != nil {
		db.Close()
		return nil, fmt.Errorf("prune journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// RecordOutcome stores a single relay submission outcome.
func (j *Journal) RecordOutcome(ctx context.Context, outcome *types.SubmissionOutcome, profit *big.Int) error {
	if j == nil {
		return nil
	}
	if profit == nil {
		profit = new(big.Int)
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO outcomes (bundle_id, relay, status, block, profit_wei, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		outcome.BundleID, outcome.Relay, string(outcome.Status), outcome.BlockNumber, profit.String(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// RecordRun stores the summary counters of one monitor run.
func (j *Journal) RecordRun(ctx context.Context, started, finished time.Time, processed, opportunities, submitted, succeeded int64) error {
	if j == nil {
		return nil
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, processed, opportunities, submitted, succeeded) VALUES (?, ?, ?, ?, ?, ?)`,
		started.Unix(), finished.Unix(), processed, opportunities, submitted, succeeded)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// OutcomeCount reports how many outcomes are stored for a bundle ID.
func (j *Journal) OutcomeCount(ctx context.Context, bundleID string) (int64, error) {
	if j == nil {
		return 0, nil
	}
	var n int64
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outcomes WHERE bundle_id = ?`, bundleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count outcomes: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}
