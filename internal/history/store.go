package history

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

	"github.com/nao1215/seoaudit/internal/model"
)

// DBFileName is the name of the database file inside the history directory.
const DBFileName = "seoaudit.db"

// createdAtFormat has a fixed width so that text ordering is chronological.
const createdAtFormat = "2006-01-02T15:04:05.000000000Z"

var (
	// ErrRunNotFound is returned when no stored run matches an id.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID is returned when an id prefix matches several runs.
	ErrAmbiguousRunID = errors.New("run id prefix matches several runs")

	// ErrNotEnoughRuns is returned by Latest when fewer runs are stored than requested.
	ErrNotEnoughRuns = errors.New("not enough stored runs")
)

// Store provides SQLite-based storage for audit runs.
//
// Design decision: A run is stored twice: the complete result as one JSON
// document, which is what GetRun returns, and one row per issue, which is
// what Diff queries. The JSON keeps evidence columns of any shape without a
// schema change, while the issue rows keep comparisons in SQL.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// now stamps new runs.
	now func() time.Time
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool

	// Now stamps new runs. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}
	// Concurrent readers of the same file wait instead of failing with SQLITE_BUSY.
	dsn += "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Store{db: db, dbPath: dbPath, now: now}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createTables() error {
	schema := `
	-- One row per audit run, with the complete result as JSON
	CREATE TABLE IF NOT EXISTS audit_runs (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		created_at TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		issue_count INTEGER NOT NULL,
		result_json TEXT NOT NULL,
		criticality_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_label ON audit_runs(label);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON audit_runs(created_at);

	-- One row per consolidated issue of a run
	CREATE TABLE IF NOT EXISTS audit_issues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		url TEXT NOT NULL,
		problem TEXT NOT NULL,
		criticality TEXT NOT NULL,
		UNIQUE(run_id, category, url, problem)
	);

	CREATE INDEX IF NOT EXISTS idx_issues_run ON audit_issues(run_id);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// RunMetadata contains summary information about a stored run.
// This is used for listing runs without loading the full result.
type RunMetadata struct {
	// ID is the run identifier (a UUID).
	ID string `json:"id"`

	// Label names the audited site.
	Label string `json:"label"`

	// CreatedAt is when the run was stored.
	CreatedAt time.Time `json:"created_at"`

	// RecordCount is the number of audited records.
	RecordCount int `json:"record_count"`

	// IssueCount is the number of issues across all reports.
	IssueCount int `json:"issue_count"`

	// CriticalitySummary counts issues per criticality label.
	CriticalitySummary map[string]int `json:"criticality_summary"`
}

// Run is a stored audit run with its complete result.
type Run struct {
	RunMetadata

	// Result is the audit result as it was produced.
	Result *model.AuditResult `json:"result"`
}

// SaveRun stores an audit result and returns the new run id.
// The run and its issues are written in one transaction.
func (s *Store) SaveRun(ctx context.Context, label string, recordCount int, result *model.AuditResult) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	summary := make(map[string]int)
	for c, n := range result.CountByCriticality() {
		summary[c.String()] = n
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // map[string]int always marshals

	id := uuid.NewString()
	createdAt := s.now().UTC().Format(createdAtFormat)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
	INSERT INTO audit_runs (id, label, created_at, record_count, issue_count, result_json, criticality_summary)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, label, createdAt, recordCount, result.TotalIssues(), string(resultJSON), string(summaryJSON))
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR IGNORE INTO audit_issues (run_id, category, url, problem, criticality)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare issue insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range result.Reports {
		for _, issue := range r.Issues {
			if _, err := stmt.ExecContext(ctx, id, r.Category, issue.URL, issue.Problem, issue.Criticality.String()); err != nil {
				return "", fmt.Errorf("failed to save issue: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns run metadata, newest first. A label filters the runs
// of one site; limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, label string, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, label, created_at, record_count, issue_count, criticality_summary
	FROM audit_runs
	WHERE (? = '' OR label = ?)
	ORDER BY created_at DESC, rowid DESC
	`
	args := []any{label, label}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		meta, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// Latest returns the n most recent runs, newest first.
func (s *Store) Latest(ctx context.Context, label string, n int) ([]RunMetadata, error) {
	runs, err := s.ListRuns(ctx, label, n)
	if err != nil {
		return nil, err
	}
	if len(runs) < n {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrNotEnoughRuns, n, len(runs))
	}
	return runs, nil
}

// GetRun retrieves a run by id. A unique id prefix is accepted too, so the
// short ids printed by the CLI can be passed back.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
	SELECT id, label, created_at, record_count, issue_count, criticality_summary, result_json
	FROM audit_runs
	WHERE id = ?
	`, fullID)

	var (
		run        Run
		createdAt  string
		summary    sql.NullString
		resultJSON string
	)
	err = row.Scan(&run.ID, &run.Label, &createdAt, &run.RecordCount, &run.IssueCount, &summary, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.CreatedAt = parseTimestamp(createdAt)
	run.CriticalitySummary = parseSummary(summary)

	var result model.AuditResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse stored result: %w", err)
	}
	run.Result = &result
	return &run, nil
}

// DeleteRun removes a run and its issues.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM audit_issues WHERE run_id = ?", fullID); err != nil {
		return fmt.Errorf("failed to delete issues: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM audit_runs WHERE id = ?", fullID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return tx.Commit()
}

// resolveID expands an id prefix to the full stored id.
func (s *Store) resolveID(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT id FROM audit_runs
	WHERE id = ? OR substr(id, 1, length(?)) = ?
	LIMIT 2
	`, id, id, id)
	if err != nil {
		return "", fmt.Errorf("failed to look up run: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var found string
		if err := rows.Scan(&found); err != nil {
			return "", fmt.Errorf("failed to scan run id: %w", err)
		}
		if found == id {
			return found, nil
		}
		ids = append(ids, found)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRunID, id)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMetadata(row scanner) (RunMetadata, error) {
	var (
		meta      RunMetadata
		createdAt string
		summary   sql.NullString
	)
	if err := row.Scan(&meta.ID, &meta.Label, &createdAt, &meta.RecordCount, &meta.IssueCount, &summary); err != nil {
		return RunMetadata{}, fmt.Errorf("failed to scan run metadata: %w", err)
	}
	meta.CreatedAt = parseTimestamp(createdAt)
	meta.CriticalitySummary = parseSummary(summary)
	return meta, nil
}

func parseSummary(s sql.NullString) map[string]int {
	summary := make(map[string]int)
	if !s.Valid || s.String == "" {
		return summary
	}
	if err := json.Unmarshal([]byte(s.String), &summary); err != nil {
		return make(map[string]int)
	}
	return summary
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	createdAtFormat,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a stored timestamp, returning the zero time when no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
