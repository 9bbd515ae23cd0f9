package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/internal/interfaces/http/middleware"
	"github.com/studyforge/studyforge/internal/shared/errors"
	"github.com/studyforge/studyforge/internal/shared/logger"
	"github.com/studyforge/studyforge/internal/shared/utils"
)

// AccountHandler serves the authenticated account's own status, stats and
// subscription changes.
type AccountHandler struct {
	accounts    accountService
	generations generationService
	logger      logger.Interface
}

func NewAccountHandler(accounts accountService, generations generationService, logger logger.Interface) *AccountHandler {
	return &AccountHandler{
		accounts:    accounts,
		generations: generations,
		logger:      logger,
	}
}

type UpgradeRequest struct {
	BillingRef *string `json:"billing_ref" binding:"omitempty,max=255"`
}

// Status handles GET /api/account/status.
func (h *AccountHandler) Status(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	status, err := h.accounts.Status(c.Request.Context(), accountID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", status)
}

// Stats handles GET /api/account/stats.
func (h *AccountHandler) Stats(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	stats, err := h.generations.Stats(c.Request.Context(), accountID)
	if err != nil {
		h.logger.Errorw("failed to load account stats", "account_id", accountID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toStatsDTO(stats))
}

// Upgrade handles POST /api/subscription/upgrade. The body is optional.
func (h *AccountHandler) Upgrade(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	var req UpgradeRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	status, err := h.accounts.Upgrade(c.Request.Context(), accountID, req.BillingRef)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription upgraded", status)
}

// Downgrade handles POST /api/subscription/downgrade.
func (h *AccountHandler) Downgrade(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	status, err := h.accounts.Downgrade(c.Request.Context(), accountID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription downgraded", status)
}

func requireAccount(c *gin.Context) (string, bool) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("Authentication required"))
		return "", false
	}
	return accountID, true
}
