package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/internal/application/generation"
	"github.com/studyforge/studyforge/internal/domain/artifact"
	"github.com/studyforge/studyforge/internal/interfaces/http/middleware"
	"github.com/studyforge/studyforge/internal/shared/errors"
	"github.com/studyforge/studyforge/internal/shared/logger"
	"github.com/studyforge/studyforge/internal/shared/utils"
)

type GenerationHandler struct {
	service generationService
	logger  logger.Interface
}

func NewGenerationHandler(service generationService, logger logger.Interface) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		logger:  logger,
	}
}

type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required,max=4000"`
}

type TopicRequest struct {
	Topic string `json:"topic" binding:"required,max=500"`
}

type EvaluationRequest struct {
	Question string `json:"question" binding:"required,max=4000"`
	Answer   string `json:"answer" binding:"required,max=4000"`
}

// Chat handles POST /api/chat.
func (h *GenerationHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.service.GenerateChat(c.Request.Context(), req.Prompt, optionalAccount(c))
	h.respond(c, a, err)
}

// Quiz handles POST /api/chat/quiz.
func (h *GenerationHandler) Quiz(c *gin.Context) {
	var req TopicRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.service.GenerateQuiz(c.Request.Context(), req.Topic, optionalAccount(c))
	h.respond(c, a, err)
}

// Evaluate handles POST /api/chat/evaluation and its legacy alias.
func (h *GenerationHandler) Evaluate(c *gin.Context) {
	var req EvaluationRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.service.EvaluateAnswer(c.Request.Context(), req.Question, req.Answer, optionalAccount(c))
	h.respond(c, a, err)
}

// MindMap handles POST /api/chat/mindmap.
func (h *GenerationHandler) MindMap(c *gin.Context) {
	var req TopicRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.service.GenerateMindMap(c.Request.Context(), req.Topic, optionalAccount(c))
	h.respond(c, a, err)
}

// ListArtifacts handles GET /api/artifacts?kind=&limit=. Anonymous callers
// only see anonymous artifacts.
func (h *GenerationHandler) ListArtifacts(c *gin.Context) {
	var kind *artifact.Kind
	if raw := c.Query("kind"); raw != "" {
		k, err := artifact.ParseKind(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid artifact kind", raw))
			return
		}
		kind = &k
	}

	limit := generation.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > generation.MaxListLimit {
			utils.ErrorResponseWithError(c, errors.NewValidationError(
				"Invalid limit", "limit must be between 1 and "+strconv.Itoa(generation.MaxListLimit)))
			return
		}
		limit = n
	}

	items, err := h.service.ListArtifacts(c.Request.Context(), kind, optionalAccount(c), limit)
	if err != nil {
		h.logger.Errorw("failed to list artifacts", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	dtos := toArtifactDTOs(items)
	utils.ListSuccessResponse(c, dtos, len(dtos))
}

func (h *GenerationHandler) respond(c *gin.Context, a *artifact.Artifact, err error) {
	if err != nil {
		h.logger.Warnw("generation failed", "error", err, "path", c.FullPath())
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, toArtifactDTO(a), "Artifact generated")
}

func optionalAccount(c *gin.Context) *string {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return nil
	}
	return &accountID
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", utils.DescribeValidationError(err)))
		return false
	}
	return true
}
