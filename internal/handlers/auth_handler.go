package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matnas-digital/questionnaire-service/internal/services"
	"github.com/matnas-digital/questionnaire-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService       services.AuthService
	invitationService services.InvitationService
}

func NewAuthHandler(authService services.AuthService, invitationService services.InvitationService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:       NewBaseHandler(logger),
		authService:       authService,
		invitationService: invitationService,
	}
}

// Login authenticates a user for the requested role
// @Summary Log in
// @Description Authenticate with email, password and role, returning a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login request"
// @Success 200 {object} services.AuthResult
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Login attempt", "user_type", req.Role)

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Register redeems an invitation token into a manager account
// @Summary Register via invitation
// @Description Redeem an invitation token, create the manager account and log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration request"
// @Success 201 {object} services.AuthResult
// @Failure 400 {object} ErrorResponse "Bad request or expired invitation"
// @Failure 404 {object} ErrorResponse "Invitation not found"
// @Failure 409 {object} ErrorResponse "Already redeemed or user exists"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Registration attempt")

	result, err := h.invitationService.Redeem(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
