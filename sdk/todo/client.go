// Package todo is a thin typed client for the Todo API. Each call is one
// request/response round trip; errors are returned to the caller unchanged,
// with no retry, backoff or interpretation of error bodies.
package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Todo mirrors the wire representation of one task.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    *string   `json:"priority"`
	Category    *string   `json:"category"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateInput is the body of a create request. Priority and category may be
// left nil; the server defaults them to medium/general.
type CreateInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// UpdateInput is the body of an update. The server overwrites all five
// fields, so every field to be preserved must be resent.
type UpdateInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Category    *string `json:"category,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("todo api: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	base string
	http *http.Client
}

// New returns a client for the API at baseURL (e.g. "http://localhost:8080").
// If httpClient is nil, http.DefaultClient is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// List fetches every todo.
func (c *Client) List(ctx context.Context) ([]Todo, error) {
	body, err := c.do(ctx, http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, err
	}
	var list []Todo
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return list, nil
}

// Get fetches one todo. A missing id is not an error: the server answers an
// empty body, returned here as nil.
func (c *Client) Get(ctx context.Context, id int64) (*Todo, error) {
	body, err := c.do(ctx, http.MethodGet, "/todos/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var t Todo
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("decode todo: %w", err)
	}
	return &t, nil
}

// Create inserts a new todo and returns the stored record, generated id and
// created_at included.
func (c *Client) Create(ctx context.Context, in CreateInput) (Todo, error) {
	body, err := c.do(ctx, http.MethodPost, "/todos", in)
	if err != nil {
		return Todo{}, err
	}
	var t Todo
	if err := json.Unmarshal(body, &t); err != nil {
		return Todo{}, fmt.Errorf("decode todo: %w", err)
	}
	return t, nil
}

// Update overwrites the todo with the given id. Succeeds even when no row
// matches.
func (c *Client) Update(ctx context.Context, id int64, in UpdateInput) error {
	_, err := c.do(ctx, http.MethodPut, "/todos/"+strconv.FormatInt(id, 10), in)
	return err
}

// Delete removes the todo with the given id. Succeeds even when no row
// matches.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/todos/"+strconv.FormatInt(id, 10), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, in interface{}) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
