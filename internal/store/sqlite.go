// Package store archives projection runs in SQLite.
//
// Each row holds one scenario's result together with the headline KPIs so
// runs can be listed without decoding the full ledger. The schema is
// created on New; the database is opened in WAL mode.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/rental-cashflow/internal/forecast"
	_ "github.com/mattn/go-sqlite3"
)

// createdAtLayout has fixed-width fractional seconds so stored timestamps
// sort lexically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one archived scenario projection.
type Run struct {
	ID           string          `json:"id"`
	Scenario     string          `json:"scenario"`
	Fingerprint  string          `json:"fingerprint"`
	NPV          float64         `json:"npv"`
	IRR          *float64        `json:"irr"`
	PaybackMonth *int            `json:"paybackMonth"`
	Result       json.RawMessage `json:"result,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// NewRun builds an unsaved Run from a scenario forecast.
func NewRun(fingerprint string, f forecast.Forecast) (Run, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return Run{}, fmt.Errorf("encoding forecast %s: %w", f.Name, err)
	}
	run := Run{
		Scenario:    f.Name,
		Fingerprint: fingerprint,
		NPV:         f.Result.Valuation.NPV,
		Result:      data,
	}
	if irr := f.Result.Valuation.IRR; irr.Determinable {
		monthly := irr.Monthly
		run.IRR = &monthly
	}
	if payback := f.Result.Valuation.Payback; payback.Recovered {
		month := payback.Month
		run.PaybackMonth = &month
	}
	return run, nil
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens the database at dbPath and creates the schema. Use ":memory:"
// for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		npv REAL NOT NULL,
		irr REAL,
		payback_month INTEGER,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores run, assigning an ID and creation time when unset.
func (s *Store) Save(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var irr sql.NullFloat64
	if run.IRR != nil {
		irr = sql.NullFloat64{Float64: *run.IRR, Valid: true}
	}
	var payback sql.NullInt64
	if run.PaybackMonth != nil {
		payback = sql.NullInt64{Int64: int64(*run.PaybackMonth), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, fingerprint, npv, irr, payback_month, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Scenario, run.Fingerprint, run.NPV, irr, payback,
		string(run.Result), run.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return run, nil
}

// Get retrieves a run, including its full result, by ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, scenario, fingerprint, npv, irr, payback_month, result_json, created_at
		FROM runs WHERE id = ?`, id)

	var resultJSON string
	run, err := scanRun(row, &resultJSON)
	if err == sql.ErrNoRows {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, err
	}
	run.Result = json.RawMessage(resultJSON)
	return run, nil
}

// List returns the most recent runs first, without their full results. A
// limit of zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scenario, fingerprint, npv, irr, payback_month, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows, nil)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner, resultJSON *string) (Run, error) {
	var (
		run       Run
		irr       sql.NullFloat64
		payback   sql.NullInt64
		createdAt string
	)
	dest := []interface{}{&run.ID, &run.Scenario, &run.Fingerprint, &run.NPV, &irr, &payback}
	if resultJSON != nil {
		dest = append(dest, resultJSON)
	}
	dest = append(dest, &createdAt)
	if err := row.Scan(dest...); err != nil {
		return Run{}, err
	}

	if irr.Valid {
		run.IRR = &irr.Float64
	}
	if payback.Valid {
		month := int(payback.Int64)
		run.PaybackMonth = &month
	}
	run.CreatedAt, _ = time.Parse(createdAtLayout, createdAt)
	return run, nil
}
