// Package vouch implements the vouch lifecycle: moderated submission with
// per-address deduplication and rate limiting, and time-boxed self-service
// edit/delete through opaque session tokens.
package vouch

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/realscripter/vouch/internal/model"
	"github.com/realscripter/vouch/internal/moderation"
	"github.com/realscripter/vouch/internal/store"
)

const leaderboardLimit = 10

type Options struct {
	MaxMessageLen int
	RateLimit     int
	RateWindow    time.Duration
	SessionTTL    time.Duration
}

type Service struct {
	store   store.Store
	gateway moderation.Gateway

	maxMessageLen int
	rateLimit     int
	rateWindow    time.Duration
	sessionTTL    time.Duration

	now func() time.Time
}

func NewService(st store.Store, gateway moderation.Gateway, opts Options) *Service {
	if opts.MaxMessageLen <= 0 {
		opts.MaxMessageLen = 250
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 3
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Hour
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	return &Service{
		store:         st,
		gateway:       gateway,
		maxMessageLen: opts.MaxMessageLen,
		rateLimit:     opts.RateLimit,
		rateWindow:    opts.RateWindow,
		sessionTTL:    opts.SessionTTL,
		now:           time.Now,
	}
}

// Submit runs the submission checks in their fixed order: duplicate,
// moderation, rate limit, length, kind, then the atomic insert. The order is
// part of the API contract (an overlong message is still moderated first).
// The moderation call happens with no store lock held; the insert re-checks
// duplicate and rate-limit state under the store's guard.
func (s *Service) Submit(ctx context.Context, ip, username, message, kind string) (string, error) {
	now := s.now()

	_, err := s.store.FindVouchByOwner(ctx, ip, username)
	if err == nil {
		return "", ErrDuplicate
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	if err := s.moderate(ctx, message); err != nil {
		return "", err
	}

	recent, err := s.store.CountRecent(ctx, ip, now.Add(-s.rateWindow))
	if err != nil {
		return "", err
	}
	if recent >= s.rateLimit {
		return "", ErrRateLimited
	}

	if utf8.RuneCountInString(message) > s.maxMessageLen {
		return "", ErrMessageTooLong
	}
	if !model.ValidKind(kind) {
		return "", ErrInvalidKind
	}

	vouchID := uuid.NewString()
	sessionID := uuid.NewString()
	v := model.Vouch{
		ID:        vouchID,
		IP:        ip,
		Username:  username,
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		SessionID: sessionID,
	}
	sess := model.Session{
		ID:        sessionID,
		VouchID:   vouchID,
		IP:        ip,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.CreateVouch(ctx, v, sess, s.rateWindow, s.rateLimit); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateVouch):
			return "", ErrDuplicate
		case errors.Is(err, store.ErrRateLimited):
			return "", ErrRateLimited
		}
		return "", err
	}
	return sessionID, nil
}

// Summary aggregates the caller's own vouches for a username. The username
// is matched with exact case here, unlike the duplicate check on submit.
func (s *Service) Summary(ctx context.Context, ip, username string) (model.UserSummary, error) {
	vouches, err := s.store.ListVouchesByOwner(ctx, ip, username)
	if err != nil {
		return model.UserSummary{}, err
	}

	cutoff := s.now().Add(-s.rateWindow)
	summary := model.UserSummary{
		RecentVouches:     []string{},
		RecentScamVouches: []string{},
	}
	for _, v := range vouches {
		switch v.Kind {
		case model.KindVouch:
			summary.TotalVouches++
			if !v.CreatedAt.Before(cutoff) {
				summary.RecentVouches = append(summary.RecentVouches, v.Message)
			}
		case model.KindScamVouch:
			summary.TotalScamVouches++
			if !v.CreatedAt.Before(cutoff) {
				summary.RecentScamVouches = append(summary.RecentScamVouches, v.Message)
			}
		}
	}
	return summary, nil
}

// Edit replaces the vouch message after the session check, the length check
// and a fresh moderation pass, in that order.
func (s *Service) Edit(ctx context.Context, sessionID, ip, newMessage string) error {
	sess, err := s.validateSession(ctx, sessionID, ip)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(newMessage) > s.maxMessageLen {
		return ErrMessageTooLong
	}
	if err := s.moderate(ctx, newMessage); err != nil {
		return err
	}
	if err := s.store.UpdateVouchMessage(ctx, sess.VouchID, newMessage); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Delete removes the vouch and consumes the session, making the token
// single-use: a second delete with the same id reports an unknown session.
func (s *Service) Delete(ctx context.Context, sessionID, ip string) error {
	sess, err := s.validateSession(ctx, sessionID, ip)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if err := s.store.DeleteVouch(ctx, sess.VouchID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// TimeLeft reports whole seconds until the session expires. An unknown id
// and an address mismatch both report ErrSessionNotFound, matching the wire
// contract of the check-time endpoint.
func (s *Service) TimeLeft(ctx context.Context, sessionID, ip string) (int, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	if sess.IP != ip {
		return 0, ErrSessionNotFound
	}
	left := int(sess.ExpiresAt.Sub(s.now()).Seconds())
	if left < 0 {
		return 0, ErrSessionExpired
	}
	return left, nil
}

func (s *Service) Leaderboard(ctx context.Context) ([]model.UserTally, error) {
	return s.store.Leaderboard(ctx, leaderboardLimit)
}

// validateSession checks unknown, then address, then expiry. Callers depend
// on this precedence for their error strings.
func (s *Service) validateSession(ctx context.Context, sessionID, ip string) (model.Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, err
	}
	if sess.IP != ip {
		return model.Session{}, ErrSessionForbidden
	}
	if s.now().After(sess.ExpiresAt) {
		return model.Session{}, ErrSessionExpired
	}
	return sess, nil
}

func (s *Service) moderate(ctx context.Context, message string) error {
	decision, err := s.gateway.Evaluate(ctx, message)
	if err != nil {
		// Fail closed: a timeout or malformed reply never approves.
		return ContentRejectedError{Reason: moderation.DefaultReason}
	}
	if !decision.Allowed {
		reason := decision.Reason
		if reason == "" {
			reason = moderation.DefaultReason
		}
		return ContentRejectedError{Reason: reason}
	}
	return nil
}
