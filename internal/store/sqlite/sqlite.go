package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/realscripter/vouch/internal/model"
	"github.com/realscripter/vouch/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by schema_version table.
var migrations = []string{
	// Migration 1: Initial schema
	`
CREATE TABLE IF NOT EXISTS vouches (
	id TEXT PRIMARY KEY,
	ip TEXT NOT NULL,
	username TEXT NOT NULL,
	message TEXT NOT NULL,
	kind TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	session_id TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_vouches_ip ON vouches(ip);
CREATE UNIQUE INDEX IF NOT EXISTS idx_vouches_owner ON vouches(ip, LOWER(username));

CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	vouch_id TEXT NOT NULL,
	ip TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

func (s *Store) FindVouchByOwner(ctx context.Context, ip, username string) (model.Vouch, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, ip, username, message, kind, created_at, session_id
FROM vouches
WHERE ip = ? AND LOWER(username) = LOWER(?)
LIMIT 1
`, ip, username)
	return scanVouch(row)
}

func (s *Store) CreateVouch(ctx context.Context, vouch model.Vouch, session model.Session, rateWindow time.Duration, rateLimit int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var dup int
	row := tx.QueryRowContext(ctx, `
SELECT COUNT(*) FROM vouches WHERE ip = ? AND LOWER(username) = LOWER(?)
`, vouch.IP, vouch.Username)
	if err := row.Scan(&dup); err != nil {
		return err
	}
	if dup > 0 {
		return store.ErrDuplicateVouch
	}

	var recent int
	since := vouch.CreatedAt.Add(-rateWindow).Unix()
	row = tx.QueryRowContext(ctx, `
SELECT COUNT(*) FROM vouches WHERE ip = ? AND created_at >= ?
`, vouch.IP, since)
	if err := row.Scan(&recent); err != nil {
		return err
	}
	if recent >= rateLimit {
		return store.ErrRateLimited
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO vouches (id, ip, username, message, kind, created_at, session_id)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, vouch.ID, vouch.IP, vouch.Username, vouch.Message, vouch.Kind, vouch.CreatedAt.Unix(), vouch.SessionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO sessions (id, vouch_id, ip, expires_at)
VALUES (?, ?, ?, ?)
`, session.ID, session.VouchID, session.IP, session.ExpiresAt.Unix()); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) CountRecent(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM vouches WHERE ip = ? AND created_at >= ?
`, ip, since.Unix())
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ListVouchesByOwner(ctx context.Context, ip, username string) ([]model.Vouch, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, ip, username, message, kind, created_at, session_id
FROM vouches
WHERE ip = ? AND username = ?
ORDER BY rowid
`, ip, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouches []model.Vouch
	for rows.Next() {
		v, err := scanVouch(rows)
		if err != nil {
			return nil, err
		}
		vouches = append(vouches, v)
	}
	return vouches, rows.Err()
}

func (s *Store) GetVouch(ctx context.Context, id string) (model.Vouch, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, ip, username, message, kind, created_at, session_id
FROM vouches
WHERE id = ?
LIMIT 1
`, id)
	return scanVouch(row)
}

func (s *Store) UpdateVouchMessage(ctx context.Context, id, message string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE vouches SET message = ? WHERE id = ?`, message, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) DeleteVouch(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vouches WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]model.UserTally, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT username,
       SUM(kind = 'vouch') AS vouches,
       SUM(kind = 'scam vouch') AS scams
FROM vouches
GROUP BY username
ORDER BY COUNT(*) DESC, MIN(rowid) ASC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tallies []model.UserTally
	for rows.Next() {
		var t model.UserTally
		if err := rows.Scan(&t.Username, &t.Vouches, &t.Scams); err != nil {
			return nil, err
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}

func (s *Store) GetSession(ctx context.Context, id string) (model.Session, error) {
	var sess model.Session
	var expiresAt int64
	row := s.db.QueryRowContext(ctx, `
SELECT id, vouch_id, ip, expires_at FROM sessions WHERE id = ? LIMIT 1
`, id)
	if err := row.Scan(&sess.ID, &sess.VouchID, &sess.IP, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, store.ErrNotFound
		}
		return model.Session{}, err
	}
	sess.ExpiresAt = time.Unix(expiresAt, 0)
	return sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVouch(row rowScanner) (model.Vouch, error) {
	var v model.Vouch
	var createdAt int64
	if err := row.Scan(&v.ID, &v.IP, &v.Username, &v.Message, &v.Kind, &createdAt, &v.SessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Vouch{}, store.ErrNotFound
		}
		return model.Vouch{}, err
	}
	v.CreatedAt = time.Unix(createdAt, 0)
	return v, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
