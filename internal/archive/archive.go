// Package archive records received live comments in a local SQLite file.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/minhduc152001/tik-live-cms/internal/feed"
	_ "modernc.org/sqlite" // CGO-free SQLite
)

// Record is one archived comment.
type Record struct {
	SessionID string
	Target    string
	Event     feed.Event
}

type Archive struct {
	db *sql.DB
}

// Open creates or opens the archive at path.
func Open(path string) (*Archive, error) {
	// WAL + busy timeout so `tikcms history` can read while the console writes.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS comments(
	  id                  INTEGER PRIMARY KEY,
	  session_id          TEXT    NOT NULL,
	  target              TEXT    NOT NULL,
	  room_id             TEXT    NOT NULL DEFAULT '',
	  msg_id              TEXT    NOT NULL DEFAULT '',
	  live_owner_id       TEXT    NOT NULL DEFAULT '',
	  customer_user_id    TEXT    NOT NULL DEFAULT '',
	  customer_tiktok_id  TEXT    NOT NULL DEFAULT '',
	  customer_name       TEXT    NOT NULL DEFAULT '',
	  profile_picture_url TEXT    NOT NULL DEFAULT '',
	  comment             TEXT    NOT NULL DEFAULT '',
	  created_at          INTEGER NOT NULL DEFAULT 0,
	  received_at         INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comments_target   ON comments(target, received_at);
	CREATE INDEX IF NOT EXISTS idx_comments_session  ON comments(session_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create archive tables: %w", err)
	}
	return nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// Insert stores records in one transaction.
func (a *Archive) Insert(records []Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO comments(
		session_id, target, room_id, msg_id, live_owner_id, customer_user_id,
		customer_tiktok_id, customer_name, profile_picture_url, comment, created_at, received_at
	) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		e := r.Event
		if _, err := stmt.Exec(
			r.SessionID, r.Target, e.RoomID, e.MessageID, e.LiveOwnerID, e.SourceUserID,
			e.SourceHandle, e.SourceDisplayName, e.AvatarURL, e.Text,
			unixNano(e.CreatedAt), unixNano(e.ReceivedAt),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert comment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Query returns up to limit comments for target, newest first. An empty
// target matches every target.
func (a *Archive) Query(ctx context.Context, target string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := a.db.QueryContext(ctx, `
	SELECT session_id, target, room_id, msg_id, live_owner_id, customer_user_id,
	       customer_tiktok_id, customer_name, profile_picture_url, comment, created_at, received_at
	FROM comments
	WHERE ? = '' OR target = ?
	ORDER BY received_at DESC, id DESC
	LIMIT ?`, target, target, limit)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var created, received int64
		e := &r.Event
		if err := rows.Scan(
			&r.SessionID, &r.Target, &e.RoomID, &e.MessageID, &e.LiveOwnerID, &e.SourceUserID,
			&e.SourceHandle, &e.SourceDisplayName, &e.AvatarURL, &e.Text, &created, &received,
		); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		e.CreatedAt = fromUnixNano(created)
		e.ReceivedAt = fromUnixNano(received)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of archived comments for target ("" for all).
func (a *Archive) Count(ctx context.Context, target string) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE ? = '' OR target = ?`, target, target).Scan(&n)
	return n, err
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
