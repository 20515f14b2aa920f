/*
Package sqlite provides a SQLite-backed implementation of the fixture store.

PURPOSE:
  Persists the data the payroll core consumes: employees with their
  job/compensation history, pay schedules, payroll runs, and the
  per-run compensation snapshots. The core itself never touches this
  package; it is the "data-fetching layer" collaborator that hands the
  calculator already-parsed structures.

KEY TABLES:
  employees:     Employee fixtures (jobs + compensation history as JSON)
  pay_schedules: Pay frequency per schedule
  payroll_runs:  Run lifecycle records (processed, deadline, cancellable)
  payroll_items: Per-run, per-employee compensation snapshots (JSON)

JSON COLUMNS:
  Job/compensation history and run snapshots are stored as the same
  JSON payloads the factory package parses. The store round-trips
  through factory types, so the wire shape and the storage shape can
  never drift apart.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - factory/fixtures.go: JSON payload schema
  - api/handlers.go:     Consumes this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements fixture persistence using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.FixtureFactory
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, factory: factory.NewFixtureFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employee fixtures; jobs and compensation history as JSON payload
	CREATE TABLE IF NOT EXISTS employees (
		uuid TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		fixture_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Pay schedules
	CREATE TABLE IF NOT EXISTS pay_schedules (
		uuid TEXT PRIMARY KEY,
		name TEXT,
		frequency TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Payroll runs
	CREATE TABLE IF NOT EXISTS payroll_runs (
		uuid TEXT PRIMARY KEY,
		pay_schedule_uuid TEXT,
		off_cycle BOOLEAN DEFAULT FALSE,
		processed BOOLEAN DEFAULT FALSE,
		check_date TEXT,
		pay_period_start TEXT,
		pay_period_end TEXT,
		payroll_deadline TEXT,
		cancellable INTEGER,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_schedule
		ON payroll_runs(pay_schedule_uuid);
	CREATE INDEX IF NOT EXISTS idx_runs_check_date
		ON payroll_runs(check_date);

	-- Per-run, per-employee compensation snapshots (hot path for preview)
	CREATE TABLE IF NOT EXISTS payroll_items (
		run_uuid TEXT NOT NULL,
		employee_uuid TEXT NOT NULL,
		snapshot_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (run_uuid, employee_uuid)
	);

	CREATE INDEX IF NOT EXISTS idx_items_run
		ON payroll_items(run_uuid);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or replaces an employee fixture.
func (s *Store) SaveEmployee(ctx context.Context, emp *payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(s.factory.ToJSON(emp))
	if err != nil {
		return fmt.Errorf("failed to serialize employee: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO employees (uuid, first_name, last_name, fixture_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		emp.UUID, emp.FirstName, emp.LastName, string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee returns an employee by UUID, or nil when absent.
func (s *Store) GetEmployee(ctx context.Context, uuid string) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT fixture_json FROM employees WHERE uuid = ?`, uuid).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return s.factory.ParseEmployee(payload)
}

// ListEmployees returns all employees ordered by last name.
func (s *Store) ListEmployees(ctx context.Context) ([]*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT fixture_json FROM employees ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*payroll.Employee
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		emp, err := s.factory.ParseEmployee(payload)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// =============================================================================
// PAY SCHEDULES
// =============================================================================

// SavePaySchedule inserts or replaces a pay schedule.
func (s *Store) SavePaySchedule(ctx context.Context, schedule payroll.PaySchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO pay_schedules (uuid, name, frequency, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		schedule.UUID, schedule.Name, string(schedule.Frequency),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save pay schedule: %w", err)
	}
	return nil
}

// GetPaySchedule returns a pay schedule by UUID, or nil when absent.
func (s *Store) GetPaySchedule(ctx context.Context, uuid string) (*payroll.PaySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var schedule payroll.PaySchedule
	var frequency string
	err := s.db.QueryRowContext(ctx,
		`SELECT uuid, COALESCE(name, ''), frequency FROM pay_schedules WHERE uuid = ?`, uuid).
		Scan(&schedule.UUID, &schedule.Name, &frequency)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pay schedule: %w", err)
	}

	freq, err := factory.ParseFrequency(frequency)
	if err != nil {
		return nil, err
	}
	schedule.Frequency = freq
	return &schedule, nil
}

// =============================================================================
// PAYROLL RUNS
// =============================================================================

// SavePayrollRun inserts or replaces a payroll run.
func (s *Store) SavePayrollRun(ctx context.Context, run payroll.PayrollRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deadline any
	if run.PayrollDeadline != nil {
		deadline = run.PayrollDeadline.UTC().Format(time.RFC3339)
	}
	var cancellable any
	if run.StatusMeta.Cancellable != nil {
		cancellable = *run.StatusMeta.Cancellable
	}

	query := `
		INSERT OR REPLACE INTO payroll_runs
		(uuid, pay_schedule_uuid, off_cycle, processed, check_date,
		 pay_period_start, pay_period_end, payroll_deadline, cancellable, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.UUID,
		run.PayScheduleUUID,
		run.OffCycle,
		run.Processed,
		formatDate(run.CheckDate),
		formatDate(run.PayPeriodStart),
		formatDate(run.PayPeriodEnd),
		deadline,
		cancellable,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save payroll run: %w", err)
	}
	return nil
}

// GetPayrollRun returns a payroll run by UUID, or nil when absent.
func (s *Store) GetPayrollRun(ctx context.Context, uuid string) (*payroll.PayrollRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT uuid, COALESCE(pay_schedule_uuid, ''), off_cycle, processed,
		       COALESCE(check_date, ''), COALESCE(pay_period_start, ''),
		       COALESCE(pay_period_end, ''), payroll_deadline, cancellable
		FROM payroll_runs WHERE uuid = ?`, uuid)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

// ListPayrollRuns returns all runs ordered by check date descending.
func (s *Store) ListPayrollRuns(ctx context.Context) ([]payroll.PayrollRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT uuid, COALESCE(pay_schedule_uuid, ''), off_cycle, processed,
		       COALESCE(check_date, ''), COALESCE(pay_period_start, ''),
		       COALESCE(pay_period_end, ''), payroll_deadline, cancellable
		FROM payroll_runs ORDER BY check_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*payroll.PayrollRun, error) {
	var run payroll.PayrollRun
	var checkDate, periodStart, periodEnd string
	var deadline sql.NullString
	var cancellable sql.NullBool

	err := row.Scan(&run.UUID, &run.PayScheduleUUID, &run.OffCycle, &run.Processed,
		&checkDate, &periodStart, &periodEnd, &deadline, &cancellable)
	if err != nil {
		return nil, err
	}

	run.CheckDate = parseDate(checkDate)
	run.PayPeriodStart = parseDate(periodStart)
	run.PayPeriodEnd = parseDate(periodEnd)
	if deadline.Valid {
		t, err := time.Parse(time.RFC3339, deadline.String)
		if err != nil {
			return nil, fmt.Errorf("invalid payroll_deadline %q: %w", deadline.String, err)
		}
		run.PayrollDeadline = &t
	}
	if cancellable.Valid {
		run.StatusMeta.Cancellable = &cancellable.Bool
	}
	return &run, nil
}

// =============================================================================
// RUN SNAPSHOTS
// =============================================================================

// SaveSnapshot inserts or replaces one employee's snapshot for a run.
func (s *Store) SaveSnapshot(ctx context.Context, runUUID string, snapshot payroll.EmployeeCompensation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(s.factory.SnapshotToJSON(snapshot))
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO payroll_items (run_uuid, employee_uuid, snapshot_json, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		runUUID, snapshot.EmployeeUUID, string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns all employee snapshots for a run.
func (s *Store) ListSnapshots(ctx context.Context, runUUID string) ([]payroll.EmployeeCompensation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT snapshot_json FROM payroll_items WHERE run_uuid = ? ORDER BY employee_uuid`, runUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []payroll.EmployeeCompensation
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		snapshot, err := s.factory.ParseSnapshot(payload)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data. Only used by demo scenarios and tests.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"payroll_items", "payroll_runs", "pay_schedules", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func formatDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format("2006-01-02")
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
