package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/infrastructure/config"
	"github.com/studyforge/studyforge/internal/infrastructure/database"
	"github.com/studyforge/studyforge/internal/infrastructure/migration"
	sharedConfig "github.com/studyforge/studyforge/internal/shared/config"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type string `json:"type"`
	} `json:"error"`
}

func newProvider(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Cells are the **basic unit** of life."}]}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) (*Container, *gorm.DB) {
	t.Helper()

	dbCfg := sharedConfig.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "app.db")}
	db, err := database.Open(&dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	m, err := migration.NewManager("sqlite", logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, m.Up(db))

	cfg := &config.Config{
		Database: dbCfg,
		Auth: sharedConfig.AuthConfig{
			Password: sharedConfig.PasswordConfig{BcryptCost: 4},
			JWT:      sharedConfig.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessExpMinutes: 15},
		},
		Generator: sharedConfig.GeneratorConfig{
			Provider:       "gemini",
			BaseURL:        newProvider(t).URL,
			APIKey:         "test-key",
			Model:          "test-model",
			TimeoutSeconds: 5,
		},
		Plans:        sharedConfig.PlansConfig{FreeRequests: 2},
		Subscription: sharedConfig.SubscriptionConfig{PeriodDays: 30},
	}

	c, err := NewContainer(db, cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)
	c.SetupRoutes()
	return c, db
}

func do(t *testing.T, c *Container, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func register(t *testing.T, c *Container, email string) (string, string) {
	t.Helper()
	w, env := do(t, c, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"name":     "Student",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var session struct {
		Account struct {
			ID string `json:"id"`
		} `json:"account"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	return session.Account.ID, session.AccessToken
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	c, _ := newTestServer(t)

	w, _ := do(t, c, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, c, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "studyforge_http_requests_total")
}

func TestRouter_PlansArePublic(t *testing.T) {
	c, _ := newTestServer(t)

	w, _ := do(t, c, http.MethodGet, "/api/plans", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, c, http.MethodGet, "/api/plans/free", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"requests_allowed":2`)

	w, env := do(t, c, http.MethodGet, "/api/plans/gold", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Type)
}

func TestRouter_FreeQuotaThenUpgrade(t *testing.T) {
	c, _ := newTestServer(t)
	_, token := register(t, c, "learner@example.com")

	for i := 0; i < 2; i++ {
		w, _ := do(t, c, http.MethodPost, "/api/chat", token, map[string]string{"prompt": "what is a cell"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, env := do(t, c, http.MethodPost, "/api/chat", token, map[string]string{"prompt": "what is a cell"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "quota_exceeded", env.Error.Type)

	w, _ = do(t, c, http.MethodGet, "/api/account/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"requests_used":2`)
	assert.Contains(t, w.Body.String(), `"can_request":false`)

	w, _ = do(t, c, http.MethodPost, "/api/subscription/upgrade", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"tier":"premium"`)

	w, _ = do(t, c, http.MethodPost, "/api/chat", token, map[string]string{"prompt": "what is a cell"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = do(t, c, http.MethodGet, "/api/account/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
}

func TestRouter_AnonymousChat(t *testing.T) {
	c, _ := newTestServer(t)

	w, env := do(t, c, http.MethodPost, "/api/chat", "", map[string]string{"prompt": "hello"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), "basic unit")

	w, _ = do(t, c, http.MethodGet, "/api/artifacts?kind=chat", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestRouter_AccountRoutesRequireToken(t *testing.T) {
	c, _ := newTestServer(t)

	w, _ := do(t, c, http.MethodGet, "/api/account/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, c, http.MethodGet, "/api/account/status", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdminRoutesEnforcePolicy(t *testing.T) {
	c, db := newTestServer(t)
	accountID, userToken := register(t, c, "user@example.com")

	w, _ := do(t, c, http.MethodPost, "/api/admin/accounts/"+accountID+"/reset-usage", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminID, _ := register(t, c, "admin@example.com")
	require.NoError(t, db.Exec("UPDATE accounts SET role = ? WHERE sid = ?", "admin", adminID).Error)

	// The role travels in the token, so log in again after promotion.
	w, env := do(t, c, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))

	w, _ = do(t, c, http.MethodPost, "/api/admin/accounts/"+accountID+"/reset-usage", session.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
