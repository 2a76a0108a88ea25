package rest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	server *Server
	tokens *auth.TokenService
	store  *memory.Store
}

// newTestEnv wires the server over the in-memory store. The sqlite handle
// only provides real transaction boundaries.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := memory.NewStore()
	tokens := auth.NewTokenService("v1", []byte("test-secret"))
	us := services.NewUserService(db, store, auth.NewPasswordHasher(bcrypt.MinCost), tokens, time.Hour)
	ts := services.NewTaskService(db, store, 2)

	return &testEnv{
		server: NewServer(":0", logging.Nop(), us, ts, auth.NewGate(tokens), db),
		tokens: tokens,
		store:  store,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

// signupAndLogin registers a user and returns its id and session token.
func (e *testEnv) signupAndLogin(t *testing.T, email, name string) (string, string) {
	t.Helper()

	code, body := e.do(t, http.MethodPut, "/auth/signup", "", map[string]string{
		"email": email, "name": name, "password": "secret",
	})
	require.Equal(t, http.StatusCreated, code, "signup: %v", body)

	code, body = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "secret",
	})
	require.Equal(t, http.StatusOK, code, "login: %v", body)

	return body["userId"].(string), body["token"].(string)
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return io.ErrUnexpectedEOF }
