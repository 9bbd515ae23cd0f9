package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/internal/shared/id"
	"github.com/studyforge/studyforge/internal/shared/logger"
	"github.com/studyforge/studyforge/internal/shared/utils"
)

// AdminHandler exposes operator actions on arbitrary accounts. Access is
// enforced by the permission middleware.
type AdminHandler struct {
	accounts accountService
	logger   logger.Interface
}

func NewAdminHandler(accounts accountService, logger logger.Interface) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// ResetUsage handles POST /api/admin/accounts/:id/reset-usage.
func (h *AdminHandler) ResetUsage(c *gin.Context) {
	accountID, err := utils.ParseSIDParam(c, "id", id.PrefixAccount, "account")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status, err := h.accounts.ResetUsage(c.Request.Context(), accountID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("usage reset by admin", "account_id", accountID)
	utils.SuccessResponse(c, http.StatusOK, "Usage reset", status)
}

// Upgrade handles POST /api/admin/accounts/:id/upgrade. It stands in for a
// billing provider webhook confirming payment.
func (h *AdminHandler) Upgrade(c *gin.Context) {
	accountID, err := utils.ParseSIDParam(c, "id", id.PrefixAccount, "account")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
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

	h.logger.Infow("subscription upgraded by admin", "account_id", accountID)
	utils.SuccessResponse(c, http.StatusOK, "Subscription upgraded", status)
}
