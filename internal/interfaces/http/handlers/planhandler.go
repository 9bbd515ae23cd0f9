package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/shared/errors"
	"github.com/studyforge/studyforge/internal/shared/logger"
	"github.com/studyforge/studyforge/internal/shared/utils"
)

type PlanHandler struct {
	catalog planCatalog
	logger  logger.Interface
}

func NewPlanHandler(catalog planCatalog, logger logger.Interface) *PlanHandler {
	return &PlanHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListPlans handles GET /api/plans. Plans are returned in ascending order
// of tier name so the response is stable.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans := h.catalog.AllPlans()

	tiers := make([]plan.Tier, 0, len(plans))
	for tier := range plans {
		tiers = append(tiers, tier)
	}
	slices.Sort(tiers)

	items := make([]plan.Definition, 0, len(tiers))
	for _, tier := range tiers {
		items = append(items, plans[tier])
	}

	utils.ListSuccessResponse(c, items, len(items))
}

// GetPlan handles GET /api/plans/:tier.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	tier, err := plan.ParseTier(c.Param("tier"))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("Unknown plan tier", c.Param("tier")).WithCause(err))
		return
	}

	def, err := h.catalog.LimitsFor(tier)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("Unknown plan tier", tier.String()).WithCause(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", def)
}
