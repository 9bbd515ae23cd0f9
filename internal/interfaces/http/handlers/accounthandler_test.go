package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountapp "github.com/studyforge/studyforge/internal/application/account"
	"github.com/studyforge/studyforge/internal/application/common"
	"github.com/studyforge/studyforge/internal/application/generation"
	"github.com/studyforge/studyforge/internal/application/subscription"
	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/artifact"
	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/interfaces/http/handlers/testutil"
)

const testAccountID = "acc_2b7c9d1e3f4a5b6c"

func freeStatus() *accountapp.StatusDTO {
	return &accountapp.StatusDTO{
		AccountID:          testAccountID,
		Tier:               "free",
		RequestsUsed:       2,
		Ceiling:            5,
		Remaining:          3,
		CanRequest:         true,
		SubscriptionStatus: "inactive",
	}
}

func TestAccountHandler_Status(t *testing.T) {
	accounts := &mockAccountService{status: freeStatus()}
	h := NewAccountHandler(accounts, &mockGenerationService{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/account/status", nil)
	testutil.SetAuthContext(c, testAccountID, "user", "free")
	h.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testAccountID, accounts.accountID)
	assert.Contains(t, w.Body.String(), `"remaining":3`)
}

func TestAccountHandler_Status_Unauthenticated(t *testing.T) {
	accounts := &mockAccountService{status: freeStatus()}
	h := NewAccountHandler(accounts, &mockGenerationService{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/account/status", nil)
	h.Status(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, accounts.accountID)
}

func TestAccountHandler_Status_AccountGone(t *testing.T) {
	accounts := &mockAccountService{err: common.ToAppError(account.ErrAccountNotFound)}
	h := NewAccountHandler(accounts, &mockGenerationService{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/account/status", nil)
	testutil.SetAuthContext(c, testAccountID, "user", "free")
	h.Status(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountHandler_Stats(t *testing.T) {
	a, err := artifact.New("cells", "raw", artifact.ChatReply{Text: "cells"}, nil)
	require.NoError(t, err)

	gens := &mockGenerationService{stats: &generation.Stats{
		Status: &subscription.Status{
			AccountID: testAccountID,
			Tier:      plan.TierFree,
			Ceiling:   5,
			Remaining: 5,
		},
		Counts: map[artifact.Kind]int64{artifact.KindChat: 1, artifact.KindQuiz: 0},
		Recent: map[artifact.Kind][]*artifact.Artifact{artifact.KindChat: {a}},
		Total:  1,
	}}
	h := NewAccountHandler(&mockAccountService{}, gens, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/account/stats", nil)
	testutil.SetAuthContext(c, testAccountID, "user", "free")
	h.Stats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var stats struct {
		Counts map[string]int64         `json:"counts"`
		Recent map[string][]ArtifactDTO `json:"recent"`
		Total  int64                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Counts["chat"])
	require.Len(t, stats.Recent["chat"], 1)
	assert.Equal(t, a.SID(), stats.Recent["chat"][0].ID)
}

func TestAccountHandler_Upgrade_WithoutBody(t *testing.T) {
	accounts := &mockAccountService{status: freeStatus()}
	h := NewAccountHandler(accounts, &mockGenerationService{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/subscription/upgrade", nil)
	testutil.SetAuthContext(c, testAccountID, "user", "free")
	h.Upgrade(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testAccountID, accounts.accountID)
	assert.Nil(t, accounts.billingRef)
}

func TestAccountHandler_Upgrade_WithBillingRef(t *testing.T) {
	accounts := &mockAccountService{status: freeStatus()}
	h := NewAccountHandler(accounts, &mockGenerationService{}, testutil.NewMockLogger())

	body, _ := json.Marshal(map[string]string{"billing_ref": "inv_42"})
	c, w := testutil.NewTestContext(http.MethodPost, "/api/subscription/upgrade", nil)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/subscription/upgrade", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	testutil.SetAuthContext(c, testAccountID, "user", "free")
	h.Upgrade(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, accounts.billingRef)
	assert.Equal(t, "inv_42", *accounts.billingRef)
}

func TestAccountHandler_Downgrade(t *testing.T) {
	accounts := &mockAccountService{status: freeStatus()}
	h := NewAccountHandler(accounts, &mockGenerationService{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/subscription/downgrade", nil)
	testutil.SetAuthContext(c, testAccountID, "user", "premium")
	h.Downgrade(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testAccountID, accounts.accountID)
}
