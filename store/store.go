// Package store keeps computed knight paths in SQLite so repeated queries and
// the history command can be answered from disk.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/LIAMBB/knights-travails/components"
)

const pageSize = 4096

const schema = `
	CREATE TABLE IF NOT EXISTS searches (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		start_x INTEGER NOT NULL,
		start_y INTEGER NOT NULL,
		finish_x INTEGER NOT NULL,
		finish_y INTEGER NOT NULL,
		moves INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS path_squares (
		search_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		FOREIGN KEY(search_id) REFERENCES searches(id),
		PRIMARY KEY(search_id, step)
	);
	CREATE INDEX IF NOT EXISTS idx_searches_endpoints
	ON searches(start_x, start_y, finish_x, finish_y);
`

type SearchRecord struct {
	ID        string
	Start     components.Coordinates
	Finish    components.Coordinates
	Moves     int
	CreatedAt time.Time
}

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path. maxSizeGB caps the file through
// max_page_count; zero leaves SQLite's default.
func Open(path string, maxSizeGB float64, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// The driver applies DSN pragmas to every connection it opens.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	// temp_store and max_page_count are per connection and have no DSN form, so
	// the pool is held to the one connection they are set on.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	pragmas := "PRAGMA temp_store=MEMORY;\n"
	if maxSizeGB > 0 {
		maxPages := int64(maxSizeGB * 1024 * 1024 * 1024 / pageSize)
		pragmas += fmt.Sprintf("PRAGMA max_page_count=%d;\n", maxPages)
	}
	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting SQLite pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	logger.Debug("path store opened", "path", path, "max_size_gb", maxSizeGB)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSearch records one answered query and returns its id.
func (s *Store) SaveSearch(ctx context.Context, start, finish components.Coordinates, path components.Path) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("refusing to store empty path for %s -> %s", start.Name(), finish.Name())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO searches (id, start_x, start_y, finish_x, finish_y, moves, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, start.X, start.Y, finish.X, finish.Y, path.Moves(), time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("failed to insert search: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO path_squares (search_id, step, x, y)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for step, sq := range path {
		if _, err := stmt.ExecContext(ctx, id, step, sq.X, sq.Y); err != nil {
			return "", fmt.Errorf("failed to insert square %d of search %s: %w", step, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("search stored", "id", id, "start", start.Name(), "finish", finish.Name(), "moves", path.Moves())
	return id, nil
}

// LookupPath returns the most recently stored path between start and finish.
// The bool is false when no search for that pair has been stored.
func (s *Store) LookupPath(ctx context.Context, start, finish components.Coordinates) (components.Path, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM searches
		WHERE start_x = ? AND start_y = ? AND finish_x = ? AND finish_y = ?
		ORDER BY seq DESC
		LIMIT 1`,
		start.X, start.Y, finish.X, finish.Y).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error querying search: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT x, y FROM path_squares
		WHERE search_id = ?
		ORDER BY step`, id)
	if err != nil {
		return nil, false, fmt.Errorf("error querying path squares: %w", err)
	}
	defer rows.Close()

	var path components.Path
	for rows.Next() {
		var sq components.Coordinates
		if err := rows.Scan(&sq.X, &sq.Y); err != nil {
			return nil, false, fmt.Errorf("error scanning path square: %w", err)
		}
		path = append(path, sq)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("error iterating over rows: %w", err)
	}

	s.logger.Debug("stored path found", "id", id, "moves", path.Moves())
	return path, true, nil
}

// ListSearches returns up to limit searches, newest first.
func (s *Store) ListSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_x, start_y, finish_x, finish_y, moves, created_at
		FROM searches
		ORDER BY seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying searches: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var rec SearchRecord
		var created int64
		if err := rows.Scan(&rec.ID, &rec.Start.X, &rec.Start.Y, &rec.Finish.X, &rec.Finish.Y, &rec.Moves, &created); err != nil {
			return nil, fmt.Errorf("error scanning search: %w", err)
		}
		rec.CreatedAt = time.Unix(0, created)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return records, nil
}

// Size reports the main database file size in bytes.
func (s *Store) Size(ctx context.Context) (int64, error) {
	var size int64
	err := s.db.QueryRowContext(ctx,
		"SELECT page_count * page_size FROM pragma_page_count, pragma_page_size").Scan(&size)
	if err != nil {
		return 0, fmt.Errorf("error getting database size: %w", err)
	}
	return size, nil
}
