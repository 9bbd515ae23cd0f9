package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountapp "github.com/studyforge/studyforge/internal/application/account"
	"github.com/studyforge/studyforge/internal/shared/logger"
	"github.com/studyforge/studyforge/internal/shared/utils"
)

type AuthHandler struct {
	service authService
	logger  logger.Interface
}

func NewAuthHandler(service authService, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.service.Register(c.Request.Context(), accountapp.RegisterCommand{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, session, "Account created")
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), accountapp.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", session)
}
