// Package dependency provides dependency injection for the application.
package dependency

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/divvy/backend/config"
	"github.com/divvy/backend/internal/application/usecase/auth"
	"github.com/divvy/backend/internal/application/usecase/bill"
	"github.com/divvy/backend/internal/application/usecase/event"
	"github.com/divvy/backend/internal/infra/server/router"
	"github.com/divvy/backend/internal/integration/adapters"
	"github.com/divvy/backend/internal/integration/cache"
	"github.com/divvy/backend/internal/integration/email"
	"github.com/divvy/backend/internal/integration/email/templates"
	"github.com/divvy/backend/internal/integration/entrypoint/controller"
	"github.com/divvy/backend/internal/integration/entrypoint/middleware"
	"github.com/divvy/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Router      *router.Router
	EmailWorker *email.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Injector, error) {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	eventRepo := persistence.NewEventRepository(db)
	billRepo := persistence.NewBillRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, tokenRepo)
	receiptExtractor := adapters.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	balanceCache := cache.NewBalanceCache(redisClient)
	emailService := email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create event use cases
	createEventUseCase := event.NewCreateEventUseCase(eventRepo, userRepo, emailService)
	getEventUseCase := event.NewGetEventUseCase(eventRepo)
	listEventsUseCase := event.NewListEventsUseCase(eventRepo)
	updateEventUseCase := event.NewUpdateEventUseCase(eventRepo)
	deleteEventUseCase := event.NewDeleteEventUseCase(eventRepo)
	addParticipantsUseCase := event.NewAddParticipantsUseCase(eventRepo, userRepo, emailService)

	// Create bill use cases
	createBillUseCase := bill.NewCreateBillUseCase(eventRepo, billRepo)
	getBillUseCase := bill.NewGetBillUseCase(billRepo, eventRepo)
	listBillsUseCase := bill.NewListBillsUseCase(billRepo, eventRepo)
	updateBillUseCase := bill.NewUpdateBillUseCase(billRepo)
	deleteBillUseCase := bill.NewDeleteBillUseCase(billRepo, balanceCache)
	getBalancesUseCase := bill.NewGetBalancesUseCase(billRepo, eventRepo, balanceCache)
	extractItemsUseCase := bill.NewExtractItemsUseCase(receiptExtractor)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)

	eventController := controller.NewEventController(
		createEventUseCase,
		getEventUseCase,
		listEventsUseCase,
		updateEventUseCase,
		deleteEventUseCase,
		addParticipantsUseCase,
	)

	billController := controller.NewBillController(
		createBillUseCase,
		getBillUseCase,
		listBillsUseCase,
		updateBillUseCase,
		deleteBillUseCase,
		getBalancesUseCase,
		extractItemsUseCase,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(healthController, authController, eventController, billController, loginRateLimiter, authMiddleware)

	// Create the email worker; main decides whether to start it.
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	emailSender := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	emailWorker := email.NewWorker(emailQueueRepo, emailSender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	})

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Router:      r,
		EmailWorker: emailWorker,
	}, nil
}
