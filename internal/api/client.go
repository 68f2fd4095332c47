// Package api is the HTTP client for the assistant backend: task CRUD,
// range queries, chat, and profile. Everything takes a context and goes
// through one *http.Client with a timeout.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FanchonSora/V-Assistant/internal/model"
	"github.com/FanchonSora/V-Assistant/internal/session"
)

var (
	// ErrSessionExpired marks a 401 from the backend. Callers clear the
	// stored token and drop to the auth screen; it must never be folded
	// into generic transport errors.
	ErrSessionExpired = errors.New("api: session expired")

	ErrNotFound = errors.New("api: not found")
)

// StatusError is a non-2xx response that is neither 401 nor 404.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: unexpected status %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL string
	tokens  session.TokenSource
	http    *http.Client
}

func NewClient(baseURL string, tokens session.TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
	}
}

// TaskPatch is a partial update; nil fields are omitted from the body.
type TaskPatch struct {
	Title    *string       `json:"title,omitempty"`
	TaskDate *string       `json:"task_date,omitempty"`
	TaskTime *string       `json:"task_time,omitempty"`
	Status   *model.Status `json:"status,omitempty"`
}

// TaskDraft creates a new task.
type TaskDraft struct {
	Title    string `json:"title"`
	TaskDate string `json:"task_date,omitempty"`
	TaskTime string `json:"task_time,omitempty"`
	RRule    string `json:"rrule,omitempty"`
}

type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ListTasks fetches the tasks of a single date.
func (c *Client) ListTasks(ctx context.Context, date string) ([]model.Task, error) {
	query := url.Values{"date": {date}}
	var records []taskRecord
	if err := c.do(ctx, http.MethodGet, "/tasks/?"+query.Encode(), nil, &records); err != nil {
		return nil, err
	}
	return normalizeAll(records)
}

// ListTasksRange fetches tasks with start <= task_date <= end.
func (c *Client) ListTasksRange(ctx context.Context, start, end string) ([]model.Task, error) {
	query := url.Values{"start_date": {start}, "end_date": {end}}
	var records []taskRecord
	if err := c.do(ctx, http.MethodGet, "/tasks/range?"+query.Encode(), nil, &records); err != nil {
		return nil, err
	}
	return normalizeAll(records)
}

// CreateTask posts a new task and returns the server's record.
func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (model.Task, error) {
	var record taskRecord
	if err := c.do(ctx, http.MethodPost, "/tasks/", draft, &record); err != nil {
		return model.Task{}, err
	}
	return normalize(record)
}

// UpdateTask patches a task and returns the updated record.
func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	var record taskRecord
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), patch, &record); err != nil {
		return model.Task{}, err
	}
	return normalize(record)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// SendChat posts a chat message and returns the assistant's reply.
func (c *Client) SendChat(ctx context.Context, text string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	in := struct {
		Text string `json:"text"`
	}{Text: text}
	if err := c.do(ctx, http.MethodPost, "/chat", in, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// Me fetches the authenticated profile; a 401 here is the session
// expiry trigger.
func (c *Client) Me(ctx context.Context) (Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	in := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/token", in, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// An absent token means no Authorization header; the server decides
	// whether to reject.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrSessionExpired
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}
