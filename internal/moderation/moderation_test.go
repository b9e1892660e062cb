package moderation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		content string
		allowed bool
		reason  string
		wantErr bool
	}{
		{name: "ok", content: "OK", allowed: true},
		{name: "ok lowercase", content: "ok", allowed: true},
		{name: "ok padded", content: "  OK \n", allowed: true},
		{name: "bad with reason", content: "BAD: contains harassment", reason: "contains harassment"},
		{name: "bad lowercase", content: "bad: spam", reason: "spam"},
		{name: "bad without reason", content: "BAD:", reason: DefaultReason},
		{name: "bad bare", content: "BAD", reason: DefaultReason},
		{name: "garbage", content: "sure, that message seems fine!", wantErr: true},
		{name: "empty", content: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseVerdict(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", d)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse verdict: %v", err)
			}
			if d.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v", d.Allowed, tt.allowed)
			}
			if d.Reason != tt.reason {
				t.Fatalf("reason = %q, want %q", d.Reason, tt.reason)
			}
		})
	}
}

func verdictServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[0].Content, "Minecraft Server Rules") {
			t.Errorf("prompt does not embed the rules")
		}
		writeChatResponse(w, content)
	}))
}

func writeChatResponse(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
}

func TestClientEvaluateAllowed(t *testing.T) {
	ts := verdictServer(t, "OK")
	defer ts.Close()

	c := NewClient(ts.URL, "test-key", "test-model", Rules, time.Second)
	d, err := c.Evaluate(context.Background(), "nice trader")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expected allowed, got %+v", d)
	}
}

func TestClientEvaluateRejected(t *testing.T) {
	ts := verdictServer(t, "BAD: advertising")
	defer ts.Close()

	c := NewClient(ts.URL, "test-key", "test-model", Rules, time.Second)
	d, err := c.Evaluate(context.Background(), "join my server at example.com")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Allowed {
		t.Fatalf("expected rejection")
	}
	if d.Reason != "advertising" {
		t.Fatalf("unexpected reason: %q", d.Reason)
	}
}

func TestClientEvaluateMalformed(t *testing.T) {
	ts := verdictServer(t, "I think this message is acceptable")
	defer ts.Close()

	c := NewClient(ts.URL, "test-key", "test-model", Rules, time.Second)
	if _, err := c.Evaluate(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error for malformed verdict")
	}
}

func TestClientEvaluateServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "test-key", "test-model", Rules, time.Second)
	if _, err := c.Evaluate(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestClientEvaluateTimeout(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		ts.Close()
	}()

	c := NewClient(ts.URL, "test-key", "test-model", Rules, 50*time.Millisecond)
	start := time.Now()
	if _, err := c.Evaluate(context.Background(), "hello"); err == nil {
		t.Fatalf("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
}
