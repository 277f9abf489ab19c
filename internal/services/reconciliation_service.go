package services

import (
	"errors"
	"io"

	"gorm.io/gorm"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/export"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/metrics"
	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/services/dto"
	"sg44_backend/pkg/apperrors"
)

// ReconciliationService is the administrator side of the payment workflow:
// manual status transitions, dashboard counters and the CSV export.
type ReconciliationService interface {
	UpdatePaymentStatus(db *gorm.DB, actor auth.Actor, id string, status models.PaymentStatus) (*dto.RegistrationResponse, error)
	List(db *gorm.DB, actor auth.Actor, query *dto.RegistrationListQuery) (*dto.ListResponse[dto.RegistrationResponse], error)
	Stats(db *gorm.DB, actor auth.Actor) (*dto.RegistrationStats, error)
	ExportCSV(db *gorm.DB, actor auth.Actor, w io.Writer) error
}

type ReconciliationServiceImpl struct {
	regRepo repositories.RegistrationRepository
	emails  *EmailService
	metrics *metrics.Metrics
}

func NewReconciliationService(
	regRepo repositories.RegistrationRepository,
	emails *EmailService,
	m *metrics.Metrics,
) ReconciliationService {
	return &ReconciliationServiceImpl{
		regRepo: regRepo,
		emails:  emails,
		metrics: m,
	}
}

// UpdatePaymentStatus moves a registration to any of the three states,
// including back to pending. Only the status column is written.
func (s *ReconciliationServiceImpl) UpdatePaymentStatus(db *gorm.DB, actor auth.Actor, id string, status models.PaymentStatus) (*dto.RegistrationResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidPaymentStatus
	}

	before, err := s.regRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.regRepo.UpdatePaymentStatus(db, id, status); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	after, err := s.regRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if before.PaymentStatus != status {
		s.metrics.PaymentStatusChanged(string(before.PaymentStatus), string(status))
		logger.CtxInfo(ctxOf(db), "payment status changed",
			"registration_id", id,
			"from", before.PaymentStatus,
			"to", status,
			"admin_id", actor.UserID,
		)
		if after.User != nil {
			s.emails.SendPaymentStatusChanged(ctxOf(db), after.User, after)
		}
	}

	return toResponse(after), nil
}

func (s *ReconciliationServiceImpl) List(db *gorm.DB, actor auth.Actor, query *dto.RegistrationListQuery) (*dto.ListResponse[dto.RegistrationResponse], error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	regs, total, err := s.regRepo.List(db, repositories.RegistrationFilter{
		PaymentStatus: models.PaymentStatus(query.Status),
		Page:          query.Page,
		PageSize:      query.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		items = append(items, *toResponse(&regs[i]))
	}
	page, pageSize := pageOrDefault(query.Page, query.PageSize)
	return &dto.ListResponse[dto.RegistrationResponse]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Stats scans up to repositories.ExportLimit records.
func (s *ReconciliationServiceImpl) Stats(db *gorm.DB, actor auth.Actor) (*dto.RegistrationStats, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	regs, err := s.regRepo.ListAll(db, repositories.ExportLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	stats := ComputeStats(regs)
	return &stats, nil
}

// ComputeStats aggregates the dashboard counters. Meal and banquet counts
// include every registration regardless of payment status.
func ComputeStats(regs []models.Registration) dto.RegistrationStats {
	var st dto.RegistrationStats
	st.Total = len(regs)
	for i := range regs {
		r := &regs[i]
		switch r.PaymentStatus {
		case models.PaymentStatusPaid:
			st.TotalPaid++
			st.PaidAmount += r.Amount
		case models.PaymentStatusFailed:
			st.Failed++
		default:
			st.Pending++
		}
		if r.MealDay1 == models.Yes {
			st.Day1Meals++
		}
		if r.MealDay2 == models.Yes {
			st.Day2Meals++
		}
		if r.Banquet == models.Yes {
			st.BanquetAttendance++
		}
	}
	return st
}

func (s *ReconciliationServiceImpl) ExportCSV(db *gorm.DB, actor auth.Actor, w io.Writer) error {
	if !actor.IsAdmin() {
		return apperrors.ErrInsufficientPermissions
	}

	regs, err := s.regRepo.ListAll(db, repositories.ExportLimit)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := export.WriteCSV(w, regs); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctxOf(db), "registrations exported", "rows", len(regs), "admin_id", actor.UserID)
	return nil
}
