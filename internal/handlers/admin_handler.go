package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matnas-digital/questionnaire-service/internal/services"
	"github.com/matnas-digital/questionnaire-service/internal/utils"
)

// AdminHandler serves the admin review endpoints.
type AdminHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewAdminHandler(dashboardService services.DashboardService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetCompletedQuestionnaires returns all completions grouped by category
// @Summary List completed questionnaires
// @Description Get every completed questionnaire grouped by category, with monthly totals
// @Tags admin
// @Produce json
// @Success 200 {object} services.CompletedQuestionnairesReport
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/completed-questionnaires [get]
func (h *AdminHandler) GetCompletedQuestionnaires(c *gin.Context) {
	h.LogRequest(c, "Listing completed questionnaires")

	report, err := h.dashboardService.CompletedQuestionnaires(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetQuestionnaireResponses returns one user's answers for review
// @Summary Review a user's responses
// @Description Get one user's answers joined with question metadata for a questionnaire
// @Tags admin
// @Produce json
// @Param user_id path string true "User ID"
// @Param questionnaire_id path string true "Questionnaire ID"
// @Success 200 {object} services.QuestionnaireResponsesDetail
// @Failure 404 {object} ErrorResponse "User or questionnaire not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/responses/{user_id}/{questionnaire_id} [get]
func (h *AdminHandler) GetQuestionnaireResponses(c *gin.Context) {
	userID := c.Param("user_id")
	questionnaireID := c.Param("questionnaire_id")
	if userID == "" || questionnaireID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "User ID and questionnaire ID are required"})
		return
	}

	h.LogRequest(c, "Reviewing questionnaire responses", "target_user_id", userID, "questionnaire_id", questionnaireID)

	detail, err := h.dashboardService.QuestionnaireResponses(c.Request.Context(), userID, questionnaireID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
