package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tweets (
	tid         INTEGER PRIMARY KEY,
	screen_name TEXT NOT NULL,
	text        TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	tweet_id INTEGER NOT NULL REFERENCES tweets(tid),
	filename TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_images_tweet_id ON images(tweet_id);
`

// SQLite implements Store on an embedded SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and creates, if needed) the database at path, applies the
// schema, and returns the store. The caller should Close it when done.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL lets request handlers read while the poller writes.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// HasPost reports whether a post with the given external id exists.
func (s *SQLite) HasPost(ctx context.Context, externalID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM tweets WHERE tid = ?`, externalID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query post %d: %w", externalID, err)
	}
	return true, nil
}

// SavePost inserts a post, silently skipping duplicates.
func (s *SQLite) SavePost(ctx context.Context, post *Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tweets (tid, screen_name, text, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tid) DO NOTHING`,
		post.ExternalID,
		post.ScreenName,
		post.Text,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post %d: %w", post.ExternalID, err)
	}
	return nil
}

// SaveMediaItem appends a media record and returns the assigned id.
func (s *SQLite) SaveMediaItem(ctx context.Context, postID int64, fileName string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO images (tweet_id, filename) VALUES (?, ?)`,
		postID, fileName,
	)
	if err != nil {
		return 0, fmt.Errorf("insert media for post %d: %w", postID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("media insert id: %w", err)
	}
	return id, nil
}

// ListMedia returns media records newest-first.
func (s *SQLite) ListMedia(ctx context.Context, maxID int64, limit int) ([]MediaRecord, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if maxID >= 0 {
		rows, err = s.db.QueryContext(ctx, `
			SELECT i.id, i.filename, t.tid, t.screen_name, t.text
			FROM images i
			JOIN tweets t ON t.tid = i.tweet_id
			WHERE i.id <= ?
			ORDER BY i.id DESC
			LIMIT ?`,
			maxID, limit,
		)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT i.id, i.filename, t.tid, t.screen_name, t.text
			FROM images i
			JOIN tweets t ON t.tid = i.tweet_id
			ORDER BY i.id DESC
			LIMIT ?`,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("query media (max_id=%d, limit=%d): %w", maxID, limit, err)
	}
	defer rows.Close()

	var records []MediaRecord
	for rows.Next() {
		var r MediaRecord
		if err := rows.Scan(&r.ID, &r.FileName, &r.PostID, &r.ScreenName, &r.Text); err != nil {
			return nil, fmt.Errorf("scan media record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media records: %w", err)
	}

	return records, nil
}
