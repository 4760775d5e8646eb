package handler_test

// End-to-end handler tests: requests travel through the real router
// and middleware stack (JWT auth, pass-through limiter) into the
// handlers, backed by the in-memory stores.

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/notekeep/notekeep-server/internal/config"
	"github.com/notekeep/notekeep-server/internal/handler"
	"github.com/notekeep/notekeep-server/internal/middleware"
	"github.com/notekeep/notekeep-server/internal/router"
)

const testSecret = "test-secret"

type testEnv struct {
	e      *echo.Echo
	users  *fakeUserStore
	notes  *fakeNoteStore
	shareH *handler.ShareHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		Env:             "test",
		JWTSecret:       testSecret,
		SessionTTLHours: 24,
		BcryptCost:      4,
		FrontendURL:     "http://localhost:3000",
	}
	users := newFakeUserStore()
	notes := newFakeNoteStore(users)

	authH := handler.NewAuthHandler(cfg, users)
	noteH := handler.NewNoteHandler(notes)
	shareH := handler.NewShareHandler(cfg, notes)
	shareH.Publish = nil // individual tests install a capture hook

	// Disabled limiter config exercises the pass-through path.
	limiter := middleware.NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterNotes(e, noteH, cfg.JWTSecret)
	router.RegisterShare(e, shareH, cfg.JWTSecret, limiter)

	return &testEnv{e: e, users: users, notes: notes, shareH: shareH}
}

// do runs one request against the test server. A non-empty token goes
// into the Authorization header; a non-nil body is sent as JSON.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the API and returns its session token.
func (env *testEnv) register(t *testing.T, name, email string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/v1/auth/register", "", echo.Map{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// createNote creates a note through the API and returns its id.
func (env *testEnv) createNote(t *testing.T, token string, fields echo.Map) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/v1/notes", token, fields)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Note struct {
			ID string `json:"id"`
		} `json:"note"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Note.ID)
	return resp.Note.ID
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}
