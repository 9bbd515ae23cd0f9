package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/interfaces/http/handlers/testutil"
)

func TestPlanHandler_ListPlans(t *testing.T) {
	h := NewPlanHandler(plan.DefaultCatalog(), testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/plans", nil)
	h.ListPlans(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var list struct {
		Items []plan.Definition `json:"items"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Equal(t, 2, list.Total)
	assert.Equal(t, plan.TierFree, list.Items[0].Tier)
	assert.Equal(t, plan.DefaultFreeRequests, list.Items[0].RequestsAllowed)
	assert.Equal(t, plan.TierPremium, list.Items[1].Tier)
	assert.Equal(t, plan.Unlimited, list.Items[1].RequestsAllowed)
}

func TestPlanHandler_GetPlan(t *testing.T) {
	h := NewPlanHandler(plan.DefaultCatalog(), testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/plans/premium", nil)
	testutil.SetURLParam(c, "tier", "premium")
	h.GetPlan(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var def plan.Definition
	require.NoError(t, json.Unmarshal(resp.Data, &def))
	assert.Contains(t, def.Features, plan.FeaturePrioritySupport)
}

func TestPlanHandler_GetPlan_UnknownTier(t *testing.T) {
	h := NewPlanHandler(plan.DefaultCatalog(), testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/plans/gold", nil)
	testutil.SetURLParam(c, "tier", "gold")
	h.GetPlan(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_found", resp.Error.Type)
}
