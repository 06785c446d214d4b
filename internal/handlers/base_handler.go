package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matnas-digital/questionnaire-service/internal/services"
	"github.com/matnas-digital/questionnaire-service/internal/utils"
	"github.com/matnas-digital/questionnaire-service/internal/validator"
)

// BaseHandler carries shared helpers for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps a payload with a message.
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

// LogError logs a handler failure with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c, h.logger).Error(msg, args...)
}

// handleServiceError maps service errors to HTTP responses. Anything
// unmapped becomes a 500 without leaking internals.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	var incomplete *services.IncompleteError
	if errors.As(err, &incomplete) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Questionnaire is not fully answered",
			Details: gin.H{
				"answered":   incomplete.Answered,
				"total":      incomplete.Total,
				"percentage": incomplete.Percentage,
			},
		})
		return
	}

	var duplicate *services.DuplicateInvitationError
	if errors.As(err, &duplicate) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: duplicate.Error(),
			Details: gin.H{
				"existing_invitation_id": duplicate.Existing.ID,
				"email":                  duplicate.Existing.Email,
				"expires_at":             duplicate.Existing.ExpiresAt,
			},
		})
		return
	}

	if services.IsPermissionError(err) {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Permission denied"})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrQuestionnaireNotFound),
		errors.Is(err, services.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrUserAlreadyExists),
		errors.Is(err, services.ErrInvitationAlreadyExists),
		errors.Is(err, services.ErrInvitationNotPending):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrInvitationExpired),
		errors.Is(err, services.ErrInvitationEmailMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	default:
		h.LogError(c, err, "unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

// bindJSON binds the request body and writes a 400 on failure. Returns
// false when the request was already answered.
func (h *BaseHandler) bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}
