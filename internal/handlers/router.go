package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/matnas-digital/questionnaire-service/internal/auth"
	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
	"github.com/matnas-digital/questionnaire-service/internal/services"
	"github.com/matnas-digital/questionnaire-service/internal/utils"
)

type HandlerManager struct {
	authHandler          *AuthHandler
	invitationHandler    *InvitationHandler
	questionnaireHandler *QuestionnaireHandler
	dashboardHandler     *DashboardHandler
	adminHandler         *AdminHandler
	userHandler          *UserHandler
	authMiddleware       *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	tokens *auth.TokenManager,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(tokens, userRepo)

	return &HandlerManager{
		authHandler:          NewAuthHandler(serviceManager.Auth(), serviceManager.Invitation(), logger),
		invitationHandler:    NewInvitationHandler(serviceManager.Invitation(), logger),
		questionnaireHandler: NewQuestionnaireHandler(serviceManager.Catalog(), serviceManager.Response(), logger),
		dashboardHandler:     NewDashboardHandler(serviceManager.Dashboard(), logger),
		adminHandler:         NewAdminHandler(serviceManager.Dashboard(), logger),
		userHandler:          NewUserHandler(userRepo, logger),
		authMiddleware:       authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public routes: login, invitation-based registration, and the
		// invitation lookup the registration page uses.
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/login", hm.authHandler.Login)
			authRoutes.POST("/register", hm.authHandler.Register)
		}
		v1.GET("/invitations/token/:token", hm.invitationHandler.GetInvitationByToken)

		// Invitation management - Admins only
		invitations := v1.Group("/invitations")
		invitations.Use(hm.authMiddleware.AuthMiddleware())
		invitations.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			invitations.POST("", hm.invitationHandler.CreateInvitation)
			invitations.GET("", hm.invitationHandler.ListInvitations)
			invitations.DELETE("/:id", hm.invitationHandler.RevokeInvitation)
		}

		// Questionnaire routes - all authenticated users
		questionnaires := v1.Group("/questionnaires")
		questionnaires.Use(hm.authMiddleware.AuthMiddleware())
		{
			questionnaires.GET("", hm.questionnaireHandler.ListQuestionnaires)
			questionnaires.GET("/:category", hm.questionnaireHandler.GetQuestionnaire)
			questionnaires.GET("/:category/answers", hm.questionnaireHandler.GetAnswers)
			questionnaires.POST("/:category/answers", hm.questionnaireHandler.SaveAnswer)
			questionnaires.POST("/:category/complete", hm.questionnaireHandler.CompleteQuestionnaire)
		}

		// Dashboard routes
		dashboard := v1.Group("/dashboard")
		dashboard.Use(hm.authMiddleware.AuthMiddleware())
		{
			dashboard.GET("/admin", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.dashboardHandler.GetAdminDashboard)
			dashboard.GET("/manager", hm.dashboardHandler.GetManagerDashboard)
		}

		// Admin review routes - Admins only
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.AuthMiddleware())
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/completed-questionnaires", hm.adminHandler.GetCompletedQuestionnaires)
			admin.GET("/responses/:user_id/:questionnaire_id", hm.adminHandler.GetQuestionnaireResponses)
			admin.GET("/managers", hm.userHandler.ListManagers)
			admin.GET("/users/:id", hm.userHandler.GetUser)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "questionnaire-service",
		})
	})
}
