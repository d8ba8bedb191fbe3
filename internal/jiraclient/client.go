// Package jiraclient is a thin Jira REST v2 client covering issue creation,
// JQL search, retrieval, updates, comments and workflow transitions.
package jiraclient

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

const apiPrefix = "/rest/api/2"

type Client struct {
	http     *http.Client
	baseURL  string
	username string
	password string
	token    string
}

// New builds a client for the Jira instance at baseURL. Authentication is
// either a bearer token or basic username/password; the token wins when both
// are configured.
func New(httpClient *http.Client, baseURL, username, password, token string) (*Client, error) {
	baseURL = strings.TrimSpace(strings.TrimRight(baseURL, "/"))
	if baseURL == "" {
		return nil, fmt.Errorf("jira url is required")
	}
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	token = strings.TrimSpace(token)
	if token == "" && (username == "" || password == "") {
		return nil, fmt.Errorf("jira credentials are required: set a token, or both username and password")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		username: username,
		password: password,
		token:    token,
	}, nil
}

type NamedField struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type UserField struct {
	Name        string `json:"name,omitempty"`
	AccountID   string `json:"accountId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type IssueFields struct {
	Summary     string      `json:"summary,omitempty"`
	Description string      `json:"description,omitempty"`
	IssueType   *NamedField `json:"issuetype,omitempty"`
	Project     *struct {
		Key string `json:"key,omitempty"`
	} `json:"project,omitempty"`
	Status   *NamedField `json:"status,omitempty"`
	Priority *NamedField `json:"priority,omitempty"`
	Assignee *UserField  `json:"assignee,omitempty"`
	Labels   []string    `json:"labels,omitempty"`
}

type Issue struct {
	ID     string      `json:"id,omitempty"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type CreateIssueRequest struct {
	ProjectKey  string
	IssueType   string
	Summary     string
	Description string
	Assignee    string
	Priority    string
	Labels      []string
}

type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// CreateIssue creates a new issue and returns its key. An assignee
// containing "@" is treated as an account id, anything else as a username,
// matching the original automation's convention.
func (c *Client) CreateIssue(ctx context.Context, req CreateIssueRequest) (CreatedIssue, error) {
	if strings.TrimSpace(req.ProjectKey) == "" {
		return CreatedIssue{}, fmt.Errorf("project key is required")
	}
	if strings.TrimSpace(req.IssueType) == "" {
		return CreatedIssue{}, fmt.Errorf("issue type is required")
	}
	if strings.TrimSpace(req.Summary) == "" {
		return CreatedIssue{}, fmt.Errorf("summary is required")
	}

	fields := map[string]any{
		"project":   map[string]string{"key": req.ProjectKey},
		"issuetype": map[string]string{"name": req.IssueType},
		"summary":   req.Summary,
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if assignee := strings.TrimSpace(req.Assignee); assignee != "" {
		if strings.Contains(assignee, "@") {
			fields["assignee"] = map[string]string{"accountId": assignee}
		} else {
			fields["assignee"] = map[string]string{"name": assignee}
		}
	}
	if req.Priority != "" {
		fields["priority"] = map[string]string{"name": req.Priority}
	}
	if len(req.Labels) > 0 {
		fields["labels"] = req.Labels
	}

	var out CreatedIssue
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/issue", nil, map[string]any{"fields": fields}, &out); err != nil {
		return CreatedIssue{}, err
	}
	return out, nil
}

type searchResponse struct {
	Issues []Issue `json:"issues"`
	Total  int     `json:"total"`
}

// Search runs a JQL query and returns up to maxResults issues.
func (c *Client) Search(ctx context.Context, jql string, maxResults int, fields []string) ([]Issue, error) {
	if strings.TrimSpace(jql) == "" {
		return nil, fmt.Errorf("jql query is required")
	}
	if maxResults <= 0 {
		maxResults = 50
	}
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", strconv.Itoa(maxResults))
	if len(fields) > 0 {
		q.Set("fields", strings.Join(fields, ","))
	}
	var out searchResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/search", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Issues, nil
}

func (c *Client) GetIssue(ctx context.Context, key string, fields []string) (Issue, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Issue{}, fmt.Errorf("issue key is required")
	}
	var q url.Values
	if len(fields) > 0 {
		q = url.Values{}
		q.Set("fields", strings.Join(fields, ","))
	}
	var out Issue
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/issue/"+url.PathEscape(key), q, nil, &out); err != nil {
		return Issue{}, err
	}
	return out, nil
}

// UpdateIssue sets arbitrary field values on an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("issue key is required")
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}
	return c.do(ctx, http.MethodPut, apiPrefix+"/issue/"+url.PathEscape(key), nil, map[string]any{"fields": fields}, nil)
}

func (c *Client) AddComment(ctx context.Context, key, body string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("issue key is required")
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body is required")
	}
	return c.do(ctx, http.MethodPost, apiPrefix+"/issue/"+url.PathEscape(key)+"/comment", nil, map[string]string{"body": body}, nil)
}

type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type transitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

func (c *Client) Transitions(ctx context.Context, key string) ([]Transition, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("issue key is required")
	}
	var out transitionsResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/issue/"+url.PathEscape(key)+"/transitions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Transitions, nil
}

// TransitionIssue moves an issue to the named status. The name is resolved
// case-insensitively against the issue's currently available transitions.
func (c *Client) TransitionIssue(ctx context.Context, key, status string) error {
	transitions, err := c.Transitions(ctx, key)
	if err != nil {
		return err
	}
	var target string
	for _, tr := range transitions {
		if strings.EqualFold(tr.Name, status) {
			target = tr.ID
			break
		}
	}
	if target == "" {
		names := make([]string, 0, len(transitions))
		for _, tr := range transitions {
			names = append(names, tr.Name)
		}
		return fmt.Errorf("transition %q not found for %s; available: %s", status, key, strings.Join(names, ", "))
	}
	payload := map[string]any{"transition": map[string]string{"id": target}}
	return c.do(ctx, http.MethodPost, apiPrefix+"/issue/"+url.PathEscape(key)+"/transitions", nil, payload, nil)
}

type errorResponse struct {
	ErrorMessages []string          `json:"errorMessages,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	if c == nil || c.http == nil {
		return fmt.Errorf("jira client is not initialized")
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal jira payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.SetBasicAuth(c.username, c.password)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(method, path, resp.StatusCode, raw)
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode jira response: %w", err)
		}
	}
	return nil
}

func statusError(method, path string, status int, raw []byte) error {
	var out errorResponse
	if err := json.Unmarshal(raw, &out); err == nil {
		var parts []string
		parts = append(parts, out.ErrorMessages...)
		for field, msg := range out.Errors {
			parts = append(parts, field+": "+msg)
		}
		if len(parts) > 0 {
			return fmt.Errorf("jira %s %s http %d: %s", method, path, status, strings.Join(parts, "; "))
		}
	}
	return fmt.Errorf("jira %s %s http %d", method, path, status)
}
