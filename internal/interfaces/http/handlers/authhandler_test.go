package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountapp "github.com/studyforge/studyforge/internal/application/account"
	"github.com/studyforge/studyforge/internal/application/common"
	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/studyforge/studyforge/internal/shared/errors"
)

func testSession() *accountapp.SessionDTO {
	return &accountapp.SessionDTO{
		Account:     accountapp.AccountDTO{ID: "acc_abc", Email: "ana@example.com", Name: "Ana", Role: "user", Tier: "free"},
		AccessToken: "token",
		TokenType:   "Bearer",
		ExpiresIn:   3600,
	}
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &mockAuthService{session: testSession()}
	h := NewAuthHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/register", RegisterRequest{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "correct-horse",
	})
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ana@example.com", svc.register.Email)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, string(resp.Data), `"access_token":"token"`)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "nope", Name: "Ana", Password: "correct-horse"}},
		{"short password", RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: "short"}},
		{"missing name", RegisterRequest{Email: "ana@example.com", Password: "correct-horse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{}, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/register", tt.req)
			h.Register(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	svc := &mockAuthService{err: common.ToAppError(account.ErrEmailTaken)}
	h := NewAuthHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/register", RegisterRequest{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "correct-horse",
	})
	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{session: testSession()}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	svc := &mockAuthService{err: apperrors.NewUnauthorizedError("Invalid email or password")}
	h := NewAuthHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
