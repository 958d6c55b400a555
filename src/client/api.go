// Package client is the Go consumer side of the todo API: a typed HTTP
// client, a query cache keyed by the full filter combination, and
// mutation intents driving an optimistic snapshot/rollback protocol.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"todo-app/src/domain"
)

// APIError represents a failed API call: the HTTP status plus the
// envelope's human-readable message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// TodoFilters is the client-side filter set. Status and
// Priority use "all" to mean no predicate; the server never sees an
// "all" value, only an absent parameter.
type TodoFilters struct {
	Status    string // all / active / completed
	Priority  string // all / low / medium / high
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// QueryString renders the canonical query-string form of the filters.
// This form doubles as the cache key, so two equal filter combinations
// always share one cache entry.
func (f TodoFilters) QueryString() string {
	params := url.Values{}

	if f.Status != "" && f.Status != "all" {
		completed := "false"
		if f.Status == "completed" {
			completed = "true"
		}
		params.Set("completed", completed)
	}
	if f.Priority != "" && f.Priority != "all" {
		params.Set("priority", f.Priority)
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}

	params.Set("sortBy", f.SortBy)
	params.Set("order", f.SortOrder)
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("limit", strconv.Itoa(f.Limit))

	return params.Encode()
}

// CreateTodoInput carries the user-settable fields of a new todo
type CreateTodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// UpdateTodoInput carries a partial update; nil fields are omitted
type UpdateTodoInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// ListResult is one page of todos plus its pagination metadata
type ListResult struct {
	Todos      []domain.Todo
	Pagination domain.Pagination
}

// envelope mirrors the server's uniform response wrapper
type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Message    string             `json:"message"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

// Client is a typed HTTP client for the todo API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client. baseURL includes the /api prefix,
// e.g. "http://localhost:5000/api".
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// List fetches one page of todos for the given filters
func (c *Client) List(ctx context.Context, filters TodoFilters) (*ListResult, error) {
	env, err := c.do(ctx, http.MethodGet, "/todos?"+filters.QueryString(), nil)
	if err != nil {
		return nil, err
	}

	var todos []domain.Todo
	if err := json.Unmarshal(env.Data, &todos); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}

	result := &ListResult{Todos: todos}
	if env.Pagination != nil {
		result.Pagination = *env.Pagination
	}
	return result, nil
}

// Get fetches a single todo by id
func (c *Client) Get(ctx context.Context, id string) (*domain.Todo, error) {
	env, err := c.do(ctx, http.MethodGet, "/todos/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeTodo(env.Data)
}

// Create creates a todo and returns the server-confirmed record
func (c *Client) Create(ctx context.Context, input CreateTodoInput) (*domain.Todo, error) {
	env, err := c.do(ctx, http.MethodPost, "/todos", input)
	if err != nil {
		return nil, err
	}
	return decodeTodo(env.Data)
}

// Update applies a partial update and returns the updated record
func (c *Client) Update(ctx context.Context, id string, input UpdateTodoInput) (*domain.Todo, error) {
	env, err := c.do(ctx, http.MethodPatch, "/todos/"+id, input)
	if err != nil {
		return nil, err
	}
	return decodeTodo(env.Data)
}

// Delete removes a todo
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/todos/"+id, nil)
	return err
}

// do executes one request and decodes the response envelope. A
// non-success envelope or status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "An unexpected error occurred"}
	}

	if resp.StatusCode >= 400 || !env.Success {
		message := env.Message
		if message == "" {
			message = "An unexpected error occurred"
		}
		return nil, &APIError{Status: resp.StatusCode, Message: message}
	}

	return &env, nil
}

func decodeTodo(data json.RawMessage) (*domain.Todo, error) {
	var todo domain.Todo
	if err := json.Unmarshal(data, &todo); err != nil {
		return nil, fmt.Errorf("failed to decode todo: %w", err)
	}
	return &todo, nil
}
