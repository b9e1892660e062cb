package store

import (
	"context"
	"errors"
	"time"

	"github.com/realscripter/vouch/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateVouch = errors.New("duplicate vouch")
	ErrRateLimited    = errors.New("rate limited")
)

// Store holds all vouches and their edit/delete sessions. Implementations
// must serialize access: two concurrent CreateVouch calls for the same
// (ip, username) pair must not both succeed.
type Store interface {
	VouchStore
	SessionStore
	Close() error
}

type VouchStore interface {
	// FindVouchByOwner matches username case-insensitively.
	FindVouchByOwner(ctx context.Context, ip, username string) (model.Vouch, error)

	// CreateVouch inserts the vouch and its session together. The duplicate
	// invariant and the rolling-window rate limit are both re-checked under
	// the store's own guard, in that order, immediately before inserting.
	CreateVouch(ctx context.Context, vouch model.Vouch, session model.Session, rateWindow time.Duration, rateLimit int) error

	// CountRecent counts vouches from ip created at or after since.
	CountRecent(ctx context.Context, ip string, since time.Time) (int, error)

	// ListVouchesByOwner matches username exactly, case included.
	ListVouchesByOwner(ctx context.Context, ip, username string) ([]model.Vouch, error)

	GetVouch(ctx context.Context, id string) (model.Vouch, error)
	UpdateVouchMessage(ctx context.Context, id, message string) error
	DeleteVouch(ctx context.Context, id string) error

	// Leaderboard groups all vouches by exact username, ordered by total
	// count descending with ties broken by first insertion.
	Leaderboard(ctx context.Context, limit int) ([]model.UserTally, error)
}

type SessionStore interface {
	GetSession(ctx context.Context, id string) (model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}
