package httpapp

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/realscripter/vouch/internal/client"
)

// Round trip through the real HTTP stack with the Go client.
func TestEndToEnd(t *testing.T) {
	srv, _ := newTestServer()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	api := client.New(ts.URL)
	if err := api.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	sessionID, err := api.Submit("Steve", "traded diamonds, no issues", "vouch")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sessionID == "" {
		t.Fatalf("empty session id")
	}

	// The server sees the loopback address the test client dials from.
	const ip = "127.0.0.1"

	left, err := api.TimeLeft(sessionID, ip)
	if err != nil {
		t.Fatalf("time left: %v", err)
	}
	if left <= 0 || left > 1800 {
		t.Fatalf("seconds left out of range: %d", left)
	}

	summary, err := api.Check("Steve")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if summary.TotalVouches != 1 || len(summary.RecentVouches) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.RecentVouches[0].Message != "traded diamonds, no issues" {
		t.Fatalf("unexpected message: %+v", summary.RecentVouches)
	}

	if err := api.Edit(sessionID, ip, "traded diamonds twice, no issues"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	summary, err = api.Check("Steve")
	if err != nil {
		t.Fatalf("check after edit: %v", err)
	}
	if summary.RecentVouches[0].Message != "traded diamonds twice, no issues" {
		t.Fatalf("edit did not take: %+v", summary.RecentVouches)
	}

	tallies, err := api.Leaderboard()
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(tallies) != 1 || tallies[0].Username != "Steve" || tallies[0].Vouches != 1 {
		t.Fatalf("unexpected leaderboard: %+v", tallies)
	}

	if err := api.Delete(sessionID, ip); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The session died with the vouch.
	err = api.Delete(sessionID, ip)
	if err == nil || !strings.Contains(err.Error(), "invalid") {
		t.Fatalf("expected invalid after replay, got %v", err)
	}

	summary, err = api.Check("Steve")
	if err != nil {
		t.Fatalf("check after delete: %v", err)
	}
	if summary.TotalVouches != 0 {
		t.Fatalf("vouch survived delete: %+v", summary)
	}
}

func TestEndToEndDuplicateAndRateLimit(t *testing.T) {
	srv, _ := newTestServer()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	api := client.New(ts.URL)

	if _, err := api.Submit("Steve", "hi", "vouch"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err := api.Submit("STEVE", "hi again", "vouch")
	if err == nil || err.Error() != "You have already vouched for this user from this IP" {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	if _, err := api.Submit("user2", "hi", "vouch"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := api.Submit("user3", "hi", "vouch"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err = api.Submit("user4", "hi", "vouch")
	if err == nil || err.Error() != "Rate limited" {
		t.Fatalf("expected rate limit, got %v", err)
	}
}
