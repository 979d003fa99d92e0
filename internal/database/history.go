package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/planetpage/internal/model"
)

// FileName is the name of the history database inside the database directory.
const FileName = "planetpage.db"

// HistoryDB records builds and fetched documents.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	// The history command opens the database without it, so that reading
	// history never creates an empty database.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the options used for recording builds.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ErrNotFound is returned by Open when the database does not exist and
// CreateIfNotExists is false.
var ErrNotFound = errors.New("history database not found")

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	mode := "rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		mode = "rwc"
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		feed_url TEXT NOT NULL,
		landing_url TEXT NOT NULL,
		item_count INTEGER NOT NULL DEFAULT 0,
		output_path TEXT NOT NULL DEFAULT '',
		output_hash TEXT NOT NULL DEFAULT '',
		bytes INTEGER NOT NULL DEFAULT 0,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		steps TEXT NOT NULL DEFAULT '[]',
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);

	-- Last fetch of every document; previous_hash tells whether it changed
	CREATE TABLE IF NOT EXISTS fetches (
		url TEXT PRIMARY KEY,
		fetched_at TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		hash TEXT NOT NULL DEFAULT '',
		previous_hash TEXT NOT NULL DEFAULT '',
		bytes INTEGER NOT NULL DEFAULT 0,
		duration_ns INTEGER NOT NULL DEFAULT 0
	);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveBuild inserts rec and sets its ID.
func (h *HistoryDB) SaveBuild(ctx context.Context, rec *model.BuildRecord) error {
	steps, err := json.Marshal(rec.Steps)
	if err != nil {
		return fmt.Errorf("failed to serialize steps: %w", err)
	}

	startedAt := rec.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	query := `
	INSERT INTO builds (started_at, feed_url, landing_url, item_count, output_path,
		output_hash, bytes, duration_ns, steps, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := h.db.ExecContext(ctx, query,
		formatTimestamp(startedAt),
		rec.FeedURL,
		rec.LandingURL,
		rec.ItemCount,
		rec.OutputPath,
		rec.OutputHash,
		rec.Bytes,
		int64(rec.Duration),
		string(steps),
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save build: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get build id: %w", err)
	}
	rec.ID = id
	return nil
}

const buildColumns = `id, started_at, feed_url, landing_url, item_count, output_path,
	output_hash, bytes, duration_ns, steps, error`

// ListBuilds returns the most recent builds, newest first.
// A limit <= 0 returns every build.
func (h *HistoryDB) ListBuilds(ctx context.Context, limit int) ([]model.BuildRecord, error) {
	query := `SELECT ` + buildColumns + ` FROM builds ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer rows.Close()

	var builds []model.BuildRecord
	for rows.Next() {
		rec, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, *rec)
	}
	return builds, rows.Err()
}

// LatestBuild returns the most recent build, or nil when there is none.
func (h *HistoryDB) LatestBuild(ctx context.Context) (*model.BuildRecord, error) {
	query := `SELECT ` + buildColumns + ` FROM builds ORDER BY started_at DESC, id DESC LIMIT 1`

	rec, err := scanBuild(h.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// LatestSuccessfulBuild returns the most recent build without error, or
// nil when there is none.
func (h *HistoryDB) LatestSuccessfulBuild(ctx context.Context) (*model.BuildRecord, error) {
	query := `SELECT ` + buildColumns + ` FROM builds WHERE error = '' ORDER BY started_at DESC, id DESC LIMIT 1`

	rec, err := scanBuild(h.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row rowScanner) (*model.BuildRecord, error) {
	var (
		rec       model.BuildRecord
		startedAt string
		duration  int64
		steps     string
	)

	err := row.Scan(
		&rec.ID,
		&startedAt,
		&rec.FeedURL,
		&rec.LandingURL,
		&rec.ItemCount,
		&rec.OutputPath,
		&rec.OutputHash,
		&rec.Bytes,
		&duration,
		&steps,
		&rec.Error,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read build: %w", err)
	}

	rec.StartedAt = parseTimestamp(startedAt)
	rec.Duration = time.Duration(duration)
	if steps != "" {
		if err := json.Unmarshal([]byte(steps), &rec.Steps); err != nil {
			return nil, fmt.Errorf("failed to parse steps: %w", err)
		}
	}
	return &rec, nil
}

// FetchRecord is the stored summary of the last fetch of a URL.
type FetchRecord struct {
	URL          string
	FetchedAt    time.Time
	StatusCode   int
	ContentType  string
	Hash         string
	PreviousHash string
	Bytes        int
	Duration     time.Duration
}

// Changed reports whether the document differs from the previous fetch.
// The first fetch of a URL counts as a change.
func (f *FetchRecord) Changed() bool {
	return f.Hash != f.PreviousHash
}

// SaveFetch records res as the latest fetch of its URL and returns the
// stored record. The hash of the replaced row becomes PreviousHash.
func (h *HistoryDB) SaveFetch(ctx context.Context, res *model.Resource) (*FetchRecord, error) {
	fetchedAt := res.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	query := `
	INSERT INTO fetches (url, fetched_at, status_code, content_type, hash, previous_hash, bytes, duration_ns)
	VALUES (?, ?, ?, ?, ?, '', ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		previous_hash = fetches.hash,
		fetched_at = excluded.fetched_at,
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		hash = excluded.hash,
		bytes = excluded.bytes,
		duration_ns = excluded.duration_ns
	`

	_, err := h.db.ExecContext(ctx, query,
		res.URL,
		formatTimestamp(fetchedAt),
		res.StatusCode,
		res.ContentType,
		res.Hash,
		len(res.Body),
		int64(res.Duration),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save fetch: %w", err)
	}

	rec, err := h.GetFetch(ctx, res.URL)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetFetch returns the last fetch of url, or nil when it was never fetched.
func (h *HistoryDB) GetFetch(ctx context.Context, url string) (*FetchRecord, error) {
	query := `
	SELECT url, fetched_at, status_code, content_type, hash, previous_hash, bytes, duration_ns
	FROM fetches
	WHERE url = ?
	`

	var (
		rec       FetchRecord
		fetchedAt string
		duration  int64
	)
	err := h.db.QueryRowContext(ctx, query, url).Scan(
		&rec.URL,
		&fetchedAt,
		&rec.StatusCode,
		&rec.ContentType,
		&rec.Hash,
		&rec.PreviousHash,
		&rec.Bytes,
		&duration,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fetch: %w", err)
	}

	rec.FetchedAt = parseTimestamp(fetchedAt)
	rec.Duration = time.Duration(duration)
	return &rec, nil
}

// storedTimestampFormat sorts lexically in time order, so ORDER BY
// started_at works on the text column.
const storedTimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimestampFormat)
}

// timestampFormats are tried in order by parseTimestamp.
var timestampFormats = []string{
	storedTimestampFormat,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
