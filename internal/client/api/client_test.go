package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_LoginStoresToken(t *testing.T) {
	var seenAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			assert.Equal(t, http.MethodPost, r.Method)
			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "a@b.c", in["email"])
			writeJSON(w, http.StatusOK, map[string]string{"message": "Logged in.", "token": "tok", "userId": "u1"})
		case "/todo/tasks":
			seenAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "tasks": []any{}, "totalItems": 0})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	sess, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "tok", c.Token())

	page, err := c.ListTasks(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", seenAuth)
	assert.NotNil(t, page.Tasks)
	assert.Empty(t, page.Tasks)
}

func TestClient_ListTasksPageQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "Fetched tasks successfully.",
			"tasks":      []map[string]string{{"id": "t5", "name": "fifth"}},
			"totalItems": 5,
		})
	})

	page, err := c.ListTasks(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "t5", page.Tasks[0].ID)
	assert.Equal(t, 5, page.TotalItems)
}

func TestClient_TaskCRUD(t *testing.T) {
	task := map[string]string{"id": "t1", "name": "Write", "description": "the report", "status": "open", "creator": "u1"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/todo/task":
			writeJSON(w, http.StatusCreated, map[string]any{"message": "Task created successfully!", "task": task})
		case r.Method == http.MethodGet && r.URL.Path == "/todo/task/t1":
			writeJSON(w, http.StatusOK, map[string]any{"message": "Task fetched.", "task": task})
		case r.Method == http.MethodPut && r.URL.Path == "/todo/task/t1":
			var in TaskInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			updated := map[string]string{"id": "t1", "name": in.Name, "description": in.Description, "status": in.Status}
			writeJSON(w, http.StatusOK, map[string]any{"message": "Task updated!", "task": updated})
		case r.Method == http.MethodDelete && r.URL.Path == "/todo/task/t1":
			writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted task."})
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()

	created, err := c.CreateTask(ctx, TaskInput{Name: "Write", Description: "the report", Status: "open"})
	require.NoError(t, err)
	assert.Equal(t, "t1", created.ID)
	assert.Equal(t, "u1", created.Creator)

	got, err := c.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Write", got.Name)

	updated, err := c.UpdateTask(ctx, "t1", TaskInput{Name: "Rewrite", Description: "the report", Status: "done"})
	require.NoError(t, err)
	assert.Equal(t, "Rewrite", updated.Name)
	assert.Equal(t, "done", updated.Status)

	require.NoError(t, c.DeleteTask(ctx, "t1"))
}

func TestClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, common.ErrorUnauthorized},
		{"forbidden", http.StatusForbidden, common.ErrorForbidden},
		{"not found", http.StatusNotFound, common.ErrorNotFound},
		{"conflict", http.StatusConflict, common.ErrorConflict},
		{"validation", http.StatusUnprocessableEntity, common.ErrorValidation},
		{"internal", http.StatusInternalServerError, common.ErrorInternal},
		{"unavailable", http.StatusServiceUnavailable, common.ErrorInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]any{
					"message": "nope",
					"data":    []map[string]string{{"field": "name", "message": "too short"}},
				})
			})

			_, err := c.GetTask(context.Background(), "t1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "nope", apiErr.Message)
			require.Len(t, apiErr.Fields, 1)
			assert.Equal(t, "name", apiErr.Fields[0].Field)
		})
	}
}

func TestClient_PlainTextErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Cannot GET /nowhere", http.StatusNotFound)
	})

	_, err := c.GetTask(context.Background(), "t1")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClient_SignupReturnsUserID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/signup", r.URL.Path)
		writeJSON(w, http.StatusCreated, map[string]string{"message": "User created!", "userId": "u9"})
	})

	id, err := c.Signup(context.Background(), "a@b.c", "Ann", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u9", id)
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	err := c.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "server returned 418", (&Error{Status: 418}).Error())
	assert.Equal(t, "Not authorized! (403)", (&Error{Status: 403, Message: "Not authorized!"}).Error())
	assert.Nil(t, (&Error{Status: 418}).Unwrap())
}
