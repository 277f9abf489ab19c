package services

import (
	"context"
	"net/url"
	"strings"

	"sg44_backend/internal/email"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/metrics"
	"sg44_backend/internal/models"
	"sg44_backend/internal/registration"
)

// EmailService sends the transactional emails. Delivery failures are logged
// and counted but never fail the request that triggered them.
type EmailService struct {
	provider      email.Provider
	metrics       *metrics.Metrics
	publicBaseURL string
}

func NewEmailService(provider email.Provider, m *metrics.Metrics, publicBaseURL string) *EmailService {
	return &EmailService{
		provider:      provider,
		metrics:       m,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// link joins path onto the public base URL with an optional token query.
func (s *EmailService) link(path, token string) string {
	u := s.publicBaseURL + path
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return u
}

func (s *EmailService) SendVerification(ctx context.Context, user *models.User) {
	s.send(ctx, email.TemplateVerification, user.Email, "請驗證您的電子郵件 / Verify your email", email.TemplateData{
		"Name": user.Name,
		"Link": s.link("/verify", user.VerificationToken),
	})
}

func (s *EmailService) SendPasswordReset(ctx context.Context, user *models.User) {
	s.send(ctx, email.TemplatePasswordReset, user.Email, "重設密碼 / Reset your password", email.TemplateData{
		"Name": user.Name,
		"Link": s.link("/reset-password", user.ResetToken),
	})
}

func (s *EmailService) SendRegistrationReceived(ctx context.Context, user *models.User, reg *models.Registration) {
	s.send(ctx, email.TemplateRegistrationReceived, user.Email, "SG44 報名資料已收到 / Registration received", email.TemplateData{
		"Name":        user.Name,
		"Ticket":      registration.TicketTitle(reg.TicketType),
		"Amount":      reg.Amount,
		"Last5":       reg.PaymentAccountLast5,
		"PaymentDate": reg.PaymentDateString(),
		"Link":        s.link("/dashboard/my-registrations", ""),
	})
}

var statusLabels = map[models.PaymentStatus]string{
	models.PaymentStatusPending: "待確認",
	models.PaymentStatusPaid:    "已付款",
	models.PaymentStatusFailed:  "付款失敗",
}

func (s *EmailService) SendPaymentStatusChanged(ctx context.Context, user *models.User, reg *models.Registration) {
	s.send(ctx, email.TemplatePaymentStatusChanged, user.Email, "SG44 付款狀態更新 / Payment status updated", email.TemplateData{
		"Name":        user.Name,
		"Status":      string(reg.PaymentStatus),
		"StatusLabel": statusLabels[reg.PaymentStatus],
		"Link":        s.link("/dashboard/my-registrations", ""),
	})
}

func (s *EmailService) send(ctx context.Context, template, to, subject string, data email.TemplateData) {
	if s == nil || s.provider == nil || to == "" {
		return
	}

	err := s.provider.SendWithTemplate(template, data, &email.Email{
		To:      []string{to},
		Subject: subject,
	})
	s.metrics.EmailSent(template, err)

	if err != nil {
		logger.CtxWithError(ctx, "failed to send email", err, "kind", template, "to", to)
		return
	}
	logger.CtxInfo(ctx, "email sent", "kind", template, "to", to)
}
