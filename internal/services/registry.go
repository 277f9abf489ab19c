package services

import (
	"sg44_backend/internal/auth"
	"sg44_backend/internal/email"
	"sg44_backend/internal/metrics"
	"sg44_backend/internal/repositories"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService           AuthService
	UserService           UserService
	RegistrationService   RegistrationService
	ReconciliationService ReconciliationService
	NewsService           NewsService
	SubmissionService     SubmissionService
	EmailService          *EmailService
}

// NewServiceContainer wires repositories and collaborators into services.
func NewServiceContainer(
	tokens *auth.TokenManager,
	provider email.Provider,
	m *metrics.Metrics,
	publicBaseURL string,
) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	regRepo := repositories.NewRegistrationRepository()
	newsRepo := repositories.NewNewsRepository()
	subRepo := repositories.NewSubmissionRepository()

	emails := NewEmailService(provider, m, publicBaseURL)
	reconciliation := NewReconciliationService(regRepo, emails, m)

	return &ServiceContainer{
		AuthService:           NewAuthService(userRepo, refreshTokenRepo, tokens, emails),
		UserService:           NewUserService(userRepo, refreshTokenRepo),
		RegistrationService:   NewRegistrationService(regRepo, userRepo, reconciliation, emails, m),
		ReconciliationService: reconciliation,
		NewsService:           NewNewsService(newsRepo),
		SubmissionService:     NewSubmissionService(subRepo, userRepo),
		EmailService:          emails,
	}
}
