package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matnas-digital/questionnaire-service/internal/services"
	"github.com/matnas-digital/questionnaire-service/internal/utils"
)

type QuestionnaireHandler struct {
	BaseHandler
	catalogService  services.CatalogService
	responseService services.ResponseService
}

func NewQuestionnaireHandler(catalogService services.CatalogService, responseService services.ResponseService, logger utils.Logger) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		BaseHandler:     NewBaseHandler(logger),
		catalogService:  catalogService,
		responseService: responseService,
	}
}

// ListQuestionnaires lists active questionnaires with the caller's progress
// @Summary List questionnaires
// @Description Get every active questionnaire annotated with the caller's progress for the current year
// @Tags questionnaires
// @Produce json
// @Success 200 {array} services.QuestionnaireOverview
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /questionnaires [get]
func (h *QuestionnaireHandler) ListQuestionnaires(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Listing questionnaires", "user_id", userID)

	overviews, err := h.catalogService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questionnaires": overviews})
}

// GetQuestionnaire returns the active questionnaire for a category
// @Summary Get questionnaire by category
// @Description Get the active questionnaire for a category with its questions in order, each carrying the caller's saved answer
// @Tags questionnaires
// @Produce json
// @Param category path string true "Category slug"
// @Success 200 {object} services.QuestionnaireUserView
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /questionnaires/{category} [get]
func (h *QuestionnaireHandler) GetQuestionnaire(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	category := c.Param("category")
	h.LogRequest(c, "Getting questionnaire", "user_id", userID, "category", category)

	view, err := h.catalogService.GetForUser(c.Request.Context(), userID, category)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetAnswers returns the caller's saved answers for a questionnaire
// @Summary Get saved answers
// @Description Get the caller's saved answers and progress for a questionnaire
// @Tags questionnaires
// @Produce json
// @Param category path string true "Category slug"
// @Success 200 {object} services.AnswersResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /questionnaires/{category}/answers [get]
func (h *QuestionnaireHandler) GetAnswers(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	category := c.Param("category")
	h.LogRequest(c, "Getting answers", "user_id", userID, "category", category)

	resp, err := h.responseService.GetAnswers(c.Request.Context(), userID, category)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SaveAnswer saves a single answer and returns updated progress
// @Summary Save answer
// @Description Upsert one answer; repeated saves for the same question overwrite
// @Tags questionnaires
// @Accept json
// @Produce json
// @Param category path string true "Category slug"
// @Param request body services.SaveAnswerRequest true "Answer"
// @Success 200 {object} services.SaveAnswerResult
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Questionnaire or question not found"
// @Router /questionnaires/{category}/answers [post]
func (h *QuestionnaireHandler) SaveAnswer(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	category := c.Param("category")

	var req services.SaveAnswerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Saving answer", "user_id", userID, "category", category, "question_id", req.QuestionID)

	result, err := h.responseService.SaveAnswer(c.Request.Context(), userID, category, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompleteQuestionnaire finalizes the questionnaire for the current year
// @Summary Complete questionnaire
// @Description Mark the questionnaire completed; fails while questions remain unanswered
// @Tags questionnaires
// @Produce json
// @Param category path string true "Category slug"
// @Success 200 {object} services.CompletionResult
// @Failure 400 {object} ErrorResponse "Questionnaire not fully answered"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /questionnaires/{category}/complete [post]
func (h *QuestionnaireHandler) CompleteQuestionnaire(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	category := c.Param("category")
	h.LogRequest(c, "Completing questionnaire", "user_id", userID, "category", category)

	result, err := h.responseService.Complete(c.Request.Context(), userID, category)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
