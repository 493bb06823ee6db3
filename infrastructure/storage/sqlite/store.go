// ABOUTME: SQLite-based roast storage, the default persistence backend
// ABOUTME: Keeps roast records in a single file that survives application restarts

package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
)

const roastColumns = `id, user_id, title, url, page_goal, audience, brand_tone, screenshot_url, created_at, updated_at`

// Store implements RoastStorage using SQLite
type Store struct {
	db *sql.DB
}

// NewStore opens (and creates if needed) the roasts database
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		filePath = "roasts.db"
	}

	db, err := sql.Open("sqlite3", filePath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY and keeps ":memory:" databases on one connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the roasts table if it doesn't exist
func (s *Store) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS roasts (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			title TEXT NOT NULL,
			url TEXT,
			page_goal TEXT NOT NULL DEFAULT '',
			audience TEXT NOT NULL DEFAULT '',
			brand_tone TEXT NOT NULL DEFAULT '',
			screenshot_url TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_roasts_user_created ON roasts(user_id, created_at DESC);
	`

	_, err := s.db.Exec(query)
	return err
}

// Create persists a new roast
func (s *Store) Create(ctx context.Context, roast *domain.Roast) error {
	query := `INSERT INTO roasts (` + roastColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		roast.ID,
		nullString(roast.UserID),
		roast.Title,
		nullString(roast.URL),
		roast.PageGoal,
		roast.Audience,
		roast.BrandTone,
		roast.ScreenshotURL,
		roast.CreatedAt.UnixNano(),
		roast.UpdatedAt.UnixNano(),
	)
	if err != nil {
		if s.exists(ctx, roast.ID) {
			return &errors.ConflictError{Resource: "roast", ID: roast.ID, Reason: "already exists"}
		}
		return fmt.Errorf("failed to insert roast: %w", err)
	}
	return nil
}

// Get retrieves a roast by ID
func (s *Store) Get(ctx context.Context, id string) (*domain.Roast, error) {
	query := `SELECT ` + roastColumns + ` FROM roasts WHERE id = ?`

	roast, err := scanRoast(s.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, &errors.NotFoundError{Resource: "roast", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roast: %w", err)
	}
	return roast, nil
}

// UpdateScreenshotURL sets the screenshot of a roast that has none
func (s *Store) UpdateScreenshotURL(ctx context.Context, id, screenshotURL string) error {
	query := `UPDATE roasts SET screenshot_url = ?, updated_at = ? WHERE id = ? AND screenshot_url = ''`

	res, err := s.db.ExecContext(ctx, query, screenshotURL, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to update screenshot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update screenshot: %w", err)
	}
	if n == 1 {
		return nil
	}

	if !s.exists(ctx, id) {
		return &errors.NotFoundError{Resource: "roast", ID: id}
	}
	return &errors.ConflictError{Resource: "roast", ID: id, Reason: "screenshot already set"}
}

// ListByUser returns a user's roasts, newest first
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Roast, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + roastColumns + ` FROM roasts WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list roasts: %w", err)
	}
	defer rows.Close()

	roasts := make([]*domain.Roast, 0)
	for rows.Next() {
		roast, err := scanRoast(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roast: %w", err)
		}
		roasts = append(roasts, roast)
	}
	return roasts, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) exists(ctx context.Context, id string) bool {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM roasts WHERE id = ?", id).Scan(&one)
	return err == nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRoast(row scanner) (*domain.Roast, error) {
	var (
		roast              domain.Roast
		userID, pageURL    sql.NullString
		createdAt, updated int64
	)
	err := row.Scan(
		&roast.ID,
		&userID,
		&roast.Title,
		&pageURL,
		&roast.PageGoal,
		&roast.Audience,
		&roast.BrandTone,
		&roast.ScreenshotURL,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		roast.UserID = &userID.String
	}
	if pageURL.Valid {
		roast.URL = &pageURL.String
	}
	roast.CreatedAt = time.Unix(0, createdAt).UTC()
	roast.UpdatedAt = time.Unix(0, updated).UTC()
	return &roast, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
