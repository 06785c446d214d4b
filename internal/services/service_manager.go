package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/auth"
	"github.com/matnas-digital/questionnaire-service/internal/events"
	"github.com/matnas-digital/questionnaire-service/internal/repositories"
	"github.com/matnas-digital/questionnaire-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Logging configuration
	EnableDebugLogging bool
	LogLevel           slog.Level

	// Global settings
	DefaultTimeout time.Duration

	// Invitation flow
	InvitationTTL       time.Duration
	RegistrationBaseURL string

	// Event publishing
	EventTopic string
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	publisher events.EventPublisher
	config    ServiceManagerConfig

	// Service instances
	authService       AuthService
	invitationService InvitationService
	responseService   ResponseService
	catalogService    CatalogService
	dashboardService  DashboardService
	eventService      NotificationEventService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(
	db *gorm.DB,
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	tokens *auth.TokenManager,
	publisher events.EventPublisher,
	config ServiceManagerConfig,
) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		publisher: publisher,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(
	db *gorm.DB,
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	tokens *auth.TokenManager,
	publisher events.EventPublisher,
) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,

		DefaultTimeout: 30 * time.Second,

		InvitationTTL:       30 * 24 * time.Hour,
		RegistrationBaseURL: "http://localhost:3000",

		EventTopic: DefaultEventTopic,
	}

	return NewServiceManager(db, repo, logger, validator, tokens, publisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.initializeServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices(ctx context.Context) error {
	// The event service is built first since other services publish
	// through it.
	sm.eventService = NewNotificationEventService(sm.repo, sm.publisher, sm.logger, sm.validator, sm.config.EventTopic)
	sm.logger.Info("Notification event service initialized")

	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.tokens)
	sm.logger.Info("Auth service initialized")

	sm.invitationService = NewInvitationService(sm.repo, sm.db, sm.logger, sm.validator, sm.tokens, sm.eventService, InvitationConfig{
		DefaultTTL:          sm.config.InvitationTTL,
		RegistrationBaseURL: sm.config.RegistrationBaseURL,
	})
	sm.logger.Info("Invitation service initialized")

	sm.responseService = NewResponseService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventService)
	sm.logger.Info("Response service initialized")

	sm.catalogService = NewCatalogService(sm.repo, sm.db, sm.logger)
	sm.logger.Info("Catalog service initialized")

	sm.dashboardService = NewDashboardService(sm.repo, sm.db, sm.logger, sm.catalogService)
	sm.logger.Info("Dashboard service initialized")

	return nil
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.authService != nil {
		return sm.authService
	}

	panic("auth service not initialized")
}

func (sm *serviceManager) Invitation() InvitationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.invitationService != nil {
		return sm.invitationService
	}

	panic("invitation service not initialized")
}

func (sm *serviceManager) Response() ResponseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.responseService != nil {
		return sm.responseService
	}

	panic("response service not initialized")
}

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.catalogService != nil {
		return sm.catalogService
	}

	panic("catalog service not initialized")
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.dashboardService != nil {
		return sm.dashboardService
	}

	panic("dashboard service not initialized")
}

func (sm *serviceManager) NotificationEvent() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.eventService != nil {
		return sm.eventService
	}

	panic("notification event service not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if repoManager, ok := sm.repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
