package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sg44_backend/database"
	"sg44_backend/internal/auth"
	"sg44_backend/internal/config"
	"sg44_backend/internal/email"
	"sg44_backend/internal/handlers"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/metrics"
	"sg44_backend/internal/middleware"
	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/routes"
	"sg44_backend/internal/services"
	"sg44_backend/internal/validator"
	"sg44_backend/pkg/apperrors"
)

// App is the assembled HTTP application.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Router   *gin.Engine
	Services *services.ServiceContainer
	Metrics  *metrics.Metrics
	Mail     email.Provider
}

// Run connects, migrates, seeds and serves until SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("Database connected")

	if err := seedFirstAdmin(db, cfg); err != nil {
		return fmt.Errorf("seed first admin: %w", err)
	}

	application, err := New(cfg, db, nil)
	if err != nil {
		return err
	}
	defer application.Mail.Close()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// New builds the router and services on an already migrated database. A nil
// provider selects SMTP when configured and the in-memory provider otherwise.
func New(cfg *config.Config, db *gorm.DB, provider email.Provider) (*App, error) {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	apperrors.SetDebug(cfg.IsDevelopment())

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	if err != nil {
		return nil, err
	}

	if provider == nil {
		provider, err = newEmailProvider(cfg)
		if err != nil {
			return nil, err
		}
	}

	m := metrics.New()
	serviceContainer := services.NewServiceContainer(tokens, provider, m, cfg.PublicBaseURL)
	appHandlers := initializeHandlers(serviceContainer, db)

	router := initializeGinRouter(db, cfg, m)
	routes.RegisterRoutes(router, appHandlers, middleware.AuthMiddleware(tokens, storedRole(db)), m)

	return &App{
		Config:   cfg,
		DB:       db,
		Router:   router,
		Services: serviceContainer,
		Metrics:  m,
		Mail:     provider,
	}, nil
}

func newEmailProvider(cfg *config.Config) (email.Provider, error) {
	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	if !cfg.SMTPEnabled() {
		logger.Warn("SMTP host not configured; outgoing mail is logged only")
		return email.NewMemoryProvider(templates), nil
	}

	provider := email.NewGomailProvider(email.ConfigFromApp(cfg), templates)
	if err := provider.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smtp config: %w", err)
	}
	logger.Info("SMTP email provider configured", "host", cfg.Email.SMTPHost)
	return provider, nil
}

func initializeHandlers(svc *services.ServiceContainer, db *gorm.DB) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:              handlers.NewAuthHandler(baseHandler, svc.AuthService),
		UserHandler:              handlers.NewUserHandler(baseHandler, svc.UserService),
		RegistrationHandler:      handlers.NewRegistrationHandler(baseHandler, svc.RegistrationService),
		AdminRegistrationHandler: handlers.NewAdminRegistrationHandler(baseHandler, svc.ReconciliationService),
		NewsHandler:              handlers.NewNewsHandler(baseHandler, svc.NewsService),
		SubmissionHandler:        handlers.NewSubmissionHandler(baseHandler, svc.SubmissionService),
		HealthHandler:            handlers.NewHealthHandler(db),
	}
}

func initializeGinRouter(db *gorm.DB, cfg *config.Config, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(m.Middleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// storedRole resolves the caller's role from the users table.
func storedRole(db *gorm.DB) middleware.RoleLookup {
	users := repositories.NewUserRepository()
	return func(ctx context.Context, userID string) (models.UserRole, error) {
		user, err := users.FindByID(db.WithContext(ctx), userID)
		if err != nil {
			return "", err
		}
		return user.Role, nil
	}
}

// seedFirstAdmin creates the configured administrator once. An existing
// account with that email is promoted instead.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdmin.Email))
	adminPassword := cfg.FirstAdmin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", adminEmail).First(&existing).Error
		if err == nil {
			if existing.Role == models.UserRoleAdmin {
				logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
				return nil
			}
			logger.Warn("Promoting existing user to admin", "email", adminEmail)
			return tx.Model(&existing).Update("role", models.UserRoleAdmin).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", err)
		}

		hashed, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := &models.User{
			Name:         cfg.FirstAdmin.Name,
			Email:        adminEmail,
			PasswordHash: hashed,
			Role:         models.UserRoleAdmin,
			IsVerified:   true,
		}
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("Created first admin user", "email", adminEmail)
		return nil
	})
}
