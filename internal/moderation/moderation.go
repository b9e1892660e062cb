// Package moderation decides whether free text is acceptable under the
// community ruleset by asking a remote chat-completions service.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultReason is used whenever the service rejects without a usable
// explanation, and by callers when the call itself fails.
const DefaultReason = "Message violates rules"

type Decision struct {
	Allowed bool
	Reason  string
}

// Gateway evaluates a candidate message. A non-nil error means the decision
// could not be obtained; callers must treat that as a rejection, never as
// an approval.
type Gateway interface {
	Evaluate(ctx context.Context, message string) (Decision, error)
}

type Client struct {
	url        string
	apiKey     string
	model      string
	rules      string
	httpClient *http.Client
}

func NewClient(url, apiKey, model, rules string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		apiKey:     apiKey,
		model:      model,
		rules:      rules,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Evaluate(ctx context.Context, message string) (Decision, error) {
	prompt := fmt.Sprintf("Check if this message clearly violates any rules or contains swearing. If it is mostly fine, allow it. Reply 'OK' if allowed, or 'BAD: <short reason>' if not.\nRules:\n%s\nMessage: %s", c.rules, message)

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Decision{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Decision{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Decision{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Decision{}, fmt.Errorf("moderation call failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Decision{}, err
	}
	if len(result.Choices) == 0 {
		return Decision{}, errors.New("moderation response has no choices")
	}

	return ParseVerdict(result.Choices[0].Message.Content)
}

// ParseVerdict applies the reply contract: exactly "OK" (any case) allows,
// a "BAD" prefix rejects with the trailing text as reason, anything else is
// a malformed reply and therefore an error.
func ParseVerdict(content string) (Decision, error) {
	content = strings.TrimSpace(content)
	if strings.EqualFold(content, "OK") {
		return Decision{Allowed: true}, nil
	}
	upper := strings.ToUpper(content)
	if strings.HasPrefix(upper, "BAD") {
		reason := strings.TrimSpace(strings.TrimLeft(content[3:], ": "))
		if reason == "" {
			reason = DefaultReason
		}
		return Decision{Allowed: false, Reason: reason}, nil
	}
	return Decision{}, fmt.Errorf("unexpected moderation verdict: %q", content)
}
