// Package slackclient is a minimal Slack Web API client covering the calls
// the monitor needs: auth.test, conversations.history, conversations.replies
// and chat.postMessage.
package slackclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://slack.com/api"

type Client struct {
	http     *http.Client
	baseURL  string
	botToken string
}

func New(httpClient *http.Client, baseURL, botToken string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL = strings.TrimSpace(strings.TrimRight(baseURL, "/"))
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		botToken: strings.TrimSpace(botToken),
	}
}

// Message is the subset of a Slack message the monitor cares about.
type Message struct {
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts,omitempty"`
	User     string `json:"user,omitempty"`
	BotID    string `json:"bot_id,omitempty"`
	Text     string `json:"text,omitempty"`
}

type AuthIdentity struct {
	TeamID string
	UserID string
	BotID  string
	Team   string
	User   string
	URL    string
}

type authTestResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	TeamID string `json:"team_id,omitempty"`
	UserID string `json:"user_id,omitempty"`
	BotID  string `json:"bot_id,omitempty"`
	Team   string `json:"team,omitempty"`
	User   string `json:"user,omitempty"`
	URL    string `json:"url,omitempty"`
}

// AuthTest validates the bot token and returns the bot's identity.
func (c *Client) AuthTest(ctx context.Context) (AuthIdentity, error) {
	raw, err := c.postJSON(ctx, "/auth.test", nil)
	if err != nil {
		return AuthIdentity{}, err
	}
	var out authTestResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return AuthIdentity{}, err
	}
	if !out.OK {
		return AuthIdentity{}, apiError("auth.test", out.Error)
	}
	return AuthIdentity{
		TeamID: strings.TrimSpace(out.TeamID),
		UserID: strings.TrimSpace(out.UserID),
		BotID:  strings.TrimSpace(out.BotID),
		Team:   strings.TrimSpace(out.Team),
		User:   strings.TrimSpace(out.User),
		URL:    strings.TrimSpace(out.URL),
	}, nil
}

type messageListResponse struct {
	OK       bool      `json:"ok"`
	Error    string    `json:"error,omitempty"`
	Messages []Message `json:"messages"`
}

// ConversationsHistory returns the channel's messages with ts >= oldest.
// With inclusive set, Slack may return the boundary message itself; the
// caller is expected to deduplicate against its own watermark.
func (c *Client) ConversationsHistory(ctx context.Context, channelID, oldest string, inclusive bool) ([]Message, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, fmt.Errorf("channel_id is required")
	}
	q := url.Values{}
	q.Set("channel", channelID)
	if oldest = strings.TrimSpace(oldest); oldest != "" {
		q.Set("oldest", oldest)
	}
	q.Set("inclusive", strconv.FormatBool(inclusive))

	raw, err := c.getJSON(ctx, "/conversations.history", q)
	if err != nil {
		return nil, err
	}
	var out messageListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, apiError("conversations.history", out.Error)
	}
	return out.Messages, nil
}

// ConversationsReplies returns every message of the thread rooted at ts, in
// chronological order.
func (c *Client) ConversationsReplies(ctx context.Context, channelID, ts string) ([]Message, error) {
	channelID = strings.TrimSpace(channelID)
	ts = strings.TrimSpace(ts)
	if channelID == "" {
		return nil, fmt.Errorf("channel_id is required")
	}
	if ts == "" {
		return nil, fmt.Errorf("ts is required")
	}
	q := url.Values{}
	q.Set("channel", channelID)
	q.Set("ts", ts)

	raw, err := c.getJSON(ctx, "/conversations.replies", q)
	if err != nil {
		return nil, err
	}
	var out messageListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, apiError("conversations.replies", out.Error)
	}
	return out.Messages, nil
}

func apiError(method, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		code = "unknown_error"
	}
	return fmt.Errorf("slack %s failed: %s", method, code)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("slack client is not initialized")
	}
	token := strings.TrimSpace(c.botToken)
	if token == "" {
		return nil, fmt.Errorf("slack token is required")
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("slack %s http %d", strings.TrimPrefix(path, "/"), resp.StatusCode)
	}
	return raw, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("slack client is not initialized")
	}
	token := strings.TrimSpace(c.botToken)
	if token == "" {
		return nil, fmt.Errorf("slack token is required")
	}
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("slack %s http %d", strings.TrimPrefix(path, "/"), resp.StatusCode)
	}
	return raw, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
