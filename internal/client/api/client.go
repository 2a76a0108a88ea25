// Package api is a thin client for the taskkeeper REST API.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/netx"
)

// Task is a task as returned by the server.
type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskInput carries the client-editable fields of a task.
type TaskInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// TaskPage is one page of the caller's task list.
type TaskPage struct {
	Tasks      []Task `json:"tasks"`
	TotalItems int    `json:"totalItems"`
}

// Session is the result of a successful login.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type envelope struct {
	Message    string              `json:"message"`
	Data       []common.FieldError `json:"data,omitempty"`
	UserID     string              `json:"userId,omitempty"`
	Token      string              `json:"token,omitempty"`
	Task       *Task               `json:"task,omitempty"`
	Tasks      []Task              `json:"tasks,omitempty"`
	TotalItems int                 `json:"totalItems,omitempty"`
}

// Client talks to a single taskkeeper server. Token is sent with every
// request once set.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken replaces the session token; an empty value logs the client out.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current session token.
func (c *Client) Token() string { return c.token }

func (c *Client) call(ctx context.Context, method, path string, in any, want int) (*envelope, error) {
	var out envelope
	status, err := netx.DoJSON(ctx, c.http, method, c.baseURL+path, c.token, in, &out)
	if err != nil {
		if status == 0 {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if status != want {
			return nil, &Error{Status: status}
		}
		return nil, err
	}
	if status != want {
		return nil, &Error{Status: status, Message: out.Message, Fields: out.Data}
	}
	return &out, nil
}

// Health reports whether the server and its database are up.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodGet, "/health", nil, http.StatusOK)
	return err
}

// Signup registers an account and returns the new user id.
func (c *Client) Signup(ctx context.Context, email, name, password string) (string, error) {
	in := map[string]string{"email": email, "name": name, "password": password}
	out, err := c.call(ctx, http.MethodPut, "/auth/signup", in, http.StatusCreated)
	if err != nil {
		return "", err
	}
	return out.UserID, nil
}

// Login authenticates and stores the issued token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	in := map[string]string{"email": email, "password": password}
	out, err := c.call(ctx, http.MethodPost, "/auth/login", in, http.StatusOK)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &Session{Token: out.Token, UserID: out.UserID}, nil
}

// ListTasks fetches one page of the caller's tasks. Pages start at 1.
func (c *Client) ListTasks(ctx context.Context, page int) (*TaskPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	path := "/todo/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	out, err := c.call(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	tasks := out.Tasks
	if tasks == nil {
		tasks = []Task{}
	}
	return &TaskPage{Tasks: tasks, TotalItems: out.TotalItems}, nil
}

// CreateTask creates a task owned by the caller.
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*Task, error) {
	out, err := c.call(ctx, http.MethodPost, "/todo/task", in, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return out.Task, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	out, err := c.call(ctx, http.MethodGet, taskPath(id), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return out.Task, nil
}

// UpdateTask overwrites the editable fields of a task the caller owns.
func (c *Client) UpdateTask(ctx context.Context, id string, in TaskInput) (*Task, error) {
	out, err := c.call(ctx, http.MethodPut, taskPath(id), in, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return out.Task, nil
}

// DeleteTask removes a task the caller owns.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodDelete, taskPath(id), nil, http.StatusOK)
	return err
}

func taskPath(id string) string {
	return "/todo/task/" + url.PathEscape(id)
}
