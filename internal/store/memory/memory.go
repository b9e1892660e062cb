// Package memory implements store.Store with plain in-process collections.
// This is the default backend: the board's lifecycle is the process
// lifecycle, nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/realscripter/vouch/internal/model"
	"github.com/realscripter/vouch/internal/store"
)

type Store struct {
	mu       sync.Mutex
	vouches  []model.Vouch
	sessions map[string]model.Session
}

func New() *Store {
	return &Store{sessions: make(map[string]model.Session)}
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) FindVouchByOwner(ctx context.Context, ip, username string) (model.Vouch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.findByOwnerLocked(ip, username); ok {
		return v, nil
	}
	return model.Vouch{}, store.ErrNotFound
}

func (s *Store) findByOwnerLocked(ip, username string) (model.Vouch, bool) {
	for _, v := range s.vouches {
		if v.IP == ip && strings.EqualFold(v.Username, username) {
			return v, true
		}
	}
	return model.Vouch{}, false
}

func (s *Store) CreateVouch(ctx context.Context, vouch model.Vouch, session model.Session, rateWindow time.Duration, rateLimit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findByOwnerLocked(vouch.IP, vouch.Username); ok {
		return store.ErrDuplicateVouch
	}
	if s.countRecentLocked(vouch.IP, vouch.CreatedAt.Add(-rateWindow)) >= rateLimit {
		return store.ErrRateLimited
	}

	s.vouches = append(s.vouches, vouch)
	s.sessions[session.ID] = session
	return nil
}

func (s *Store) CountRecent(ctx context.Context, ip string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countRecentLocked(ip, since), nil
}

func (s *Store) countRecentLocked(ip string, since time.Time) int {
	count := 0
	for _, v := range s.vouches {
		if v.IP == ip && !v.CreatedAt.Before(since) {
			count++
		}
	}
	return count
}

func (s *Store) ListVouchesByOwner(ctx context.Context, ip, username string) ([]model.Vouch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Vouch
	for _, v := range s.vouches {
		if v.IP == ip && v.Username == username {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) GetVouch(ctx context.Context, id string) (model.Vouch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vouches {
		if v.ID == id {
			return v, nil
		}
	}
	return model.Vouch{}, store.ErrNotFound
}

func (s *Store) UpdateVouchMessage(ctx context.Context, id, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vouches {
		if s.vouches[i].ID == id {
			s.vouches[i].Message = message
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteVouch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vouches {
		if s.vouches[i].ID == id {
			s.vouches = append(s.vouches[:i], s.vouches[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]model.UserTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int)
	var tallies []model.UserTally
	for _, v := range s.vouches {
		i, ok := index[v.Username]
		if !ok {
			i = len(tallies)
			index[v.Username] = i
			tallies = append(tallies, model.UserTally{Username: v.Username})
		}
		switch v.Kind {
		case model.KindVouch:
			tallies[i].Vouches++
		case model.KindScamVouch:
			tallies[i].Scams++
		}
	}

	// Stable sort keeps first-vouched users ahead on equal totals.
	sort.SliceStable(tallies, func(i, j int) bool {
		return tallies[i].Vouches+tallies[i].Scams > tallies[j].Vouches+tallies[j].Scams
	})
	if len(tallies) > limit {
		tallies = tallies[:limit]
	}
	return tallies, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return model.Session{}, store.ErrNotFound
	}
	return sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}
