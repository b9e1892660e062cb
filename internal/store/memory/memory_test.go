package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/realscripter/vouch/internal/model"
	"github.com/realscripter/vouch/internal/store"
)

func newVouch(id, ip, username, kind string, createdAt time.Time) (model.Vouch, model.Session) {
	sessionID := "sess-" + id
	v := model.Vouch{
		ID:        id,
		IP:        ip,
		Username:  username,
		Message:   "msg " + id,
		Kind:      kind,
		CreatedAt: createdAt,
		SessionID: sessionID,
	}
	s := model.Session{
		ID:        sessionID,
		VouchID:   id,
		IP:        ip,
		ExpiresAt: createdAt.Add(30 * time.Minute),
	}
	return v, s
}

func mustCreate(t *testing.T, st *Store, v model.Vouch, s model.Session) {
	t.Helper()
	if err := st.CreateVouch(context.Background(), v, s, time.Hour, 100); err != nil {
		t.Fatalf("create vouch %s: %v", v.ID, err)
	}
}

func TestDuplicateOwnerCaseInsensitive(t *testing.T) {
	st := New()
	now := time.Now()

	v, s := newVouch("v1", "1.2.3.4", "Steve", model.KindVouch, now)
	mustCreate(t, st, v, s)

	dup, dupSess := newVouch("v2", "1.2.3.4", "sTeVe", model.KindVouch, now)
	if err := st.CreateVouch(context.Background(), dup, dupSess, time.Hour, 100); err != store.ErrDuplicateVouch {
		t.Fatalf("expected ErrDuplicateVouch, got %v", err)
	}

	if _, err := st.FindVouchByOwner(context.Background(), "1.2.3.4", "STEVE"); err != nil {
		t.Fatalf("find by owner: %v", err)
	}

	// Different address is fine.
	other, otherSess := newVouch("v3", "5.6.7.8", "steve", model.KindVouch, now)
	mustCreate(t, st, other, otherSess)
}

func TestCreateVouchRateLimit(t *testing.T) {
	st := New()
	now := time.Now()

	for i := 0; i < 3; i++ {
		v, s := newVouch(fmt.Sprintf("v%d", i), "1.2.3.4", fmt.Sprintf("user%d", i), model.KindVouch, now)
		if err := st.CreateVouch(context.Background(), v, s, time.Hour, 3); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	v, s := newVouch("v4", "1.2.3.4", "user4", model.KindVouch, now)
	if err := st.CreateVouch(context.Background(), v, s, time.Hour, 3); err != store.ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// Other addresses are not affected.
	other, otherSess := newVouch("v5", "9.9.9.9", "user4", model.KindVouch, now)
	if err := st.CreateVouch(context.Background(), other, otherSess, time.Hour, 3); err != nil {
		t.Fatalf("create from other ip: %v", err)
	}
}

func TestCountRecentWindow(t *testing.T) {
	st := New()
	now := time.Now()

	old, oldSess := newVouch("v1", "1.2.3.4", "user1", model.KindVouch, now.Add(-2*time.Hour))
	mustCreate(t, st, old, oldSess)
	recent, recentSess := newVouch("v2", "1.2.3.4", "user2", model.KindVouch, now.Add(-10*time.Minute))
	mustCreate(t, st, recent, recentSess)

	n, err := st.CountRecent(context.Background(), "1.2.3.4", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("count recent: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 recent vouch, got %d", n)
	}
}

func TestListVouchesByOwnerExactCase(t *testing.T) {
	st := New()
	now := time.Now()

	v, s := newVouch("v1", "1.2.3.4", "Steve", model.KindVouch, now)
	mustCreate(t, st, v, s)

	got, err := st.ListVouchesByOwner(context.Background(), "1.2.3.4", "steve")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("exact-case list matched %d vouches for wrong case", len(got))
	}

	got, err = st.ListVouchesByOwner(context.Background(), "1.2.3.4", "Steve")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 vouch, got %d", len(got))
	}
}

func TestEditAndDelete(t *testing.T) {
	st := New()
	now := time.Now()

	v, s := newVouch("v1", "1.2.3.4", "Steve", model.KindVouch, now)
	mustCreate(t, st, v, s)

	if err := st.UpdateVouchMessage(context.Background(), "v1", "updated"); err != nil {
		t.Fatalf("update message: %v", err)
	}
	got, err := st.GetVouch(context.Background(), "v1")
	if err != nil {
		t.Fatalf("get vouch: %v", err)
	}
	if got.Message != "updated" {
		t.Fatalf("unexpected message: %s", got.Message)
	}

	if err := st.DeleteVouch(context.Background(), "v1"); err != nil {
		t.Fatalf("delete vouch: %v", err)
	}
	if err := st.DeleteVouch(context.Background(), "v1"); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := st.UpdateVouchMessage(context.Background(), "v1", "x"); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound on update of deleted vouch, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	st := New()
	now := time.Now()

	v, s := newVouch("v1", "1.2.3.4", "Steve", model.KindVouch, now)
	mustCreate(t, st, v, s)

	sess, err := st.GetSession(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.VouchID != "v1" || sess.IP != "1.2.3.4" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	if err := st.DeleteSession(context.Background(), s.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := st.GetSession(context.Background(), s.ID); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeleteSession(context.Background(), s.ID); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestLeaderboardOrderAndTruncation(t *testing.T) {
	st := New()
	now := time.Now()
	id := 0
	add := func(ip, username, kind string) {
		id++
		v, s := newVouch(fmt.Sprintf("v%d", id), ip, username, kind, now)
		if err := st.CreateVouch(context.Background(), v, s, time.Hour, 1000); err != nil {
			t.Fatalf("create %s for %s: %v", kind, username, err)
		}
	}

	// A gets 5 vouches and 2 scam warnings, B gets 1 vouch.
	for i := 0; i < 5; i++ {
		add(fmt.Sprintf("10.0.0.%d", i), "A", model.KindVouch)
	}
	for i := 5; i < 7; i++ {
		add(fmt.Sprintf("10.0.0.%d", i), "A", model.KindScamVouch)
	}
	add("10.0.1.1", "B", model.KindVouch)

	tallies, err := st.Leaderboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(tallies) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tallies))
	}
	if tallies[0].Username != "A" || tallies[0].Vouches != 5 || tallies[0].Scams != 2 {
		t.Fatalf("unexpected first entry: %+v", tallies[0])
	}
	if tallies[1].Username != "B" {
		t.Fatalf("unexpected second entry: %+v", tallies[1])
	}

	// 12 more single-vouch users; the board must cap at 10.
	for i := 0; i < 12; i++ {
		add(fmt.Sprintf("10.0.2.%d", i), fmt.Sprintf("user%d", i), model.KindVouch)
	}
	tallies, err = st.Leaderboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(tallies) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(tallies))
	}
	if tallies[0].Username != "A" {
		t.Fatalf("expected A on top, got %s", tallies[0].Username)
	}
	// Equal totals keep first-vouched order.
	if tallies[2].Username != "user0" {
		t.Fatalf("expected user0 third, got %s", tallies[2].Username)
	}
}
