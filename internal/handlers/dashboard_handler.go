package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matnas-digital/questionnaire-service/internal/services"
	"github.com/matnas-digital/questionnaire-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetAdminDashboard returns aggregate stats and recent activity
// @Summary Get admin dashboard
// @Description Get aggregate counts plus the most recent invitations and completions
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.AdminDashboard
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	h.LogRequest(c, "Getting admin dashboard")

	overview, err := h.service.AdminOverview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetManagerDashboard returns the caller's questionnaire overview
// @Summary Get manager dashboard
// @Description Get every active questionnaire with the caller's progress for the current year
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.ManagerDashboard
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /dashboard/manager [get]
func (h *DashboardHandler) GetManagerDashboard(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Getting manager dashboard", "user_id", userID)

	overview, err := h.service.ManagerOverview(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
