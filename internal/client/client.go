// Package client provides a Go client for the vouch board API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a vouch board API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a new vouch board client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Summary mirrors the /checkvouch response.
type Summary struct {
	TotalVouches      int       `json:"total_vouches"`
	TotalScamVouches  int       `json:"total_scam_vouches"`
	RecentVouches     []Message `json:"recent_vouches"`
	RecentScamVouches []Message `json:"recent_scam_vouches"`
}

type Message struct {
	Message string `json:"message"`
}

// Tally is one leaderboard row.
type Tally struct {
	Username string `json:"username"`
	Vouches  int    `json:"vouch"`
	Scams    int    `json:"scam"`
}

type envelope struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	SessionID   string `json:"session_id"`
	SecondsLeft int    `json:"seconds_left"`
}

// Ping checks server liveness.
func (c *Client) Ping() error {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/ping")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Pong bool `json:"pong"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if !result.Pong {
		return errors.New("unexpected ping response")
	}
	return nil
}

// Submit posts a vouch for username and returns the edit/delete session id.
func (c *Client) Submit(username, message, kind string) (string, error) {
	body, _ := json.Marshal(map[string]string{"message": message, "type": kind})

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/vouch", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("username", username)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp)
	if err != nil {
		return "", err
	}
	return env.SessionID, nil
}

// Check returns the caller's vouch summary for username.
func (c *Client) Check(username string) (Summary, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/checkvouch", nil)
	if err != nil {
		return Summary{}, err
	}
	req.Header.Set("username", username)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Summary{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Summary{}, fmt.Errorf("checkvouch failed (%d): %s", resp.StatusCode, string(respBody))
	}
	var summary Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Edit replaces the message of the vouch tied to the session.
func (c *Client) Edit(sessionID, ip, newMessage string) error {
	_, err := c.postSession("/editvouch", map[string]string{
		"sessionid":   sessionID,
		"ip":          ip,
		"new_message": newMessage,
	})
	return err
}

// Delete removes the vouch tied to the session and consumes the session.
func (c *Client) Delete(sessionID, ip string) error {
	_, err := c.postSession("/deletevouch", map[string]string{
		"sessionid": sessionID,
		"ip":        ip,
	})
	return err
}

// TimeLeft reports the whole seconds until the session expires.
func (c *Client) TimeLeft(sessionID, ip string) (int, error) {
	env, err := c.postSession("/checkvouchtime", map[string]string{
		"sessionid": sessionID,
		"ip":        ip,
	})
	if err != nil {
		return 0, err
	}
	return env.SecondsLeft, nil
}

// Leaderboard returns the top vouched usernames.
func (c *Client) Leaderboard() ([]Tally, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/mostvouches")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mostvouches failed (%d): %s", resp.StatusCode, string(respBody))
	}
	var tallies []Tally
	if err := json.NewDecoder(resp.Body).Decode(&tallies); err != nil {
		return nil, err
	}
	return tallies, nil
}

func (c *Client) postSession(path string, payload map[string]string) (envelope, error) {
	body, _ := json.Marshal(payload)
	resp, err := c.HTTPClient.Post(c.BaseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()
	return decodeEnvelope(resp)
}

func decodeEnvelope(resp *http.Response) (envelope, error) {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, err
	}
	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return envelope{}, fmt.Errorf("bad response (%d): %s", resp.StatusCode, string(respBody))
	}
	if !env.Success {
		if env.Error == "" {
			return envelope{}, fmt.Errorf("request failed (%d)", resp.StatusCode)
		}
		return envelope{}, errors.New(env.Error)
	}
	return env, nil
}
