package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/services"
	"github.com/matnas-digital/questionnaire-service/internal/utils"
)

type InvitationHandler struct {
	BaseHandler
	invitationService services.InvitationService
}

func NewInvitationHandler(invitationService services.InvitationService, logger utils.Logger) *InvitationHandler {
	return &InvitationHandler{
		BaseHandler:       NewBaseHandler(logger),
		invitationService: invitationService,
	}
}

// CreateInvitation creates a pending invitation for a manager
// @Summary Create invitation
// @Description Invite a manager by email; at most one pending invitation per address
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body services.CreateInvitationRequest true "Invitation request"
// @Success 201 {object} services.InvitationResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 409 {object} ErrorResponse "Pending invitation or user already exists"
// @Router /invitations [post]
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.CreateInvitationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating invitation", "invited_by", userID)

	resp, err := h.invitationService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListInvitations lists invitations with optional filtering
// @Summary List invitations
// @Description Get a paginated list of invitations
// @Tags invitations
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param status query string false "Filter by status (pending, accepted, expired, revoked)"
// @Param email query string false "Filter by email"
// @Success 200 {object} services.InvitationListResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /invitations [get]
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	h.LogRequest(c, "Listing invitations")

	req := &services.ListInvitationsRequest{
		Email: c.Query("email"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.InvitationStatus(statusStr)
		req.Status = &status
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			req.Page = p
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			req.Size = s
		}
	}

	resp, err := h.invitationService.List(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RevokeInvitation cancels a pending invitation
// @Summary Revoke invitation
// @Description Revoke a pending invitation so its token can no longer be redeemed
// @Tags invitations
// @Produce json
// @Param id path string true "Invitation ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Invitation is not pending"
// @Router /invitations/{id} [delete]
func (h *InvitationHandler) RevokeInvitation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invitation ID is required"})
		return
	}

	h.LogRequest(c, "Revoking invitation", "invitation_id", id)

	if err := h.invitationService.Revoke(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Invitation revoked"})
}

// GetInvitationByToken looks up an invitation for the registration page
// @Summary Get invitation by token
// @Description Look up an invitation by its token so registration can prefill the email
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} services.InvitationResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /invitations/token/{token} [get]
func (h *InvitationHandler) GetInvitationByToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invitation token is required"})
		return
	}

	resp, err := h.invitationService.GetByToken(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
