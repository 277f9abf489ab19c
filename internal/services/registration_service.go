package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/metrics"
	"sg44_backend/internal/models"
	"sg44_backend/internal/registration"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/services/dto"
	"sg44_backend/pkg/apperrors"
)

type RegistrationService interface {
	Tickets() []registration.Ticket
	Prefill(db *gorm.DB, actor auth.Actor) (*dto.PrefillResponse, error)
	Create(db *gorm.DB, actor auth.Actor, req *dto.RegistrationRequest) (*dto.RegistrationResponse, error)
	Upsert(db *gorm.DB, actor auth.Actor, req *dto.RegistrationRequest) (*dto.RegistrationResult, error)
	Patch(db *gorm.DB, actor auth.Actor, id string, patch *dto.RegistrationPatch) (*dto.RegistrationResponse, error)
	GetMine(db *gorm.DB, actor auth.Actor) (*dto.RegistrationResponse, error)
	GetByID(db *gorm.DB, actor auth.Actor, id string) (*dto.RegistrationResponse, error)
}

type RegistrationServiceImpl struct {
	regRepo        repositories.RegistrationRepository
	userRepo       repositories.UserRepository
	reconciliation ReconciliationService
	emails         *EmailService
	metrics        *metrics.Metrics
}

func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	userRepo repositories.UserRepository,
	reconciliation ReconciliationService,
	emails *EmailService,
	m *metrics.Metrics,
) RegistrationService {
	return &RegistrationServiceImpl{
		regRepo:        regRepo,
		userRepo:       userRepo,
		reconciliation: reconciliation,
		emails:         emails,
		metrics:        m,
	}
}

func toResponse(reg *models.Registration) *dto.RegistrationResponse {
	out := dto.NewRegistrationResponse(reg, registration.TicketTitle(reg.TicketType))
	return &out
}

// registrationExists builds the 409 that points the client at the record it
// should edit instead.
func registrationExists(id string) error {
	return apperrors.ErrRegistrationExists.WithDetails(map[string]string{"registration_id": id})
}

func (s *RegistrationServiceImpl) Tickets() []registration.Ticket {
	return registration.Tickets()
}

func (s *RegistrationServiceImpl) Prefill(db *gorm.DB, actor auth.Actor) (*dto.PrefillResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	user, err := s.userRepo.FindByID(db, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return &dto.PrefillResponse{
		Name:         user.Name,
		Email:        user.Email,
		Organization: user.Organization,
		JobTitle:     user.JobTitle,
		Phone:        user.Phone,
	}, nil
}

// Create stores a new registration for the caller. A caller who already has
// one gets REGISTRATION_EXISTS with the id to edit, and nothing is written.
func (s *RegistrationServiceImpl) Create(db *gorm.DB, actor auth.Actor, req *dto.RegistrationRequest) (*dto.RegistrationResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	if err := checkRequestFields(actor, actor.UserID, req); err != nil {
		return nil, err
	}

	existing, err := s.regRepo.FindByUserID(db, actor.UserID)
	if err == nil {
		return nil, registrationExists(existing.ID)
	}
	if !errors.Is(err, repositories.ErrRegistrationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	reg := &models.Registration{UserID: actor.UserID, PaymentStatus: models.PaymentStatusPending}
	if err := s.fillAndPrepare(reg, req); err != nil {
		return nil, err
	}

	if err := s.regRepo.Create(db, reg); err != nil {
		if errors.Is(err, repositories.ErrRegistrationExists) {
			// lost a race with a concurrent create from the same user
			if existing, findErr := s.regRepo.FindByUserID(db, actor.UserID); findErr == nil {
				return nil, registrationExists(existing.ID)
			}
			return nil, apperrors.ErrRegistrationExists
		}
		return nil, apperrors.InternalError(err)
	}

	s.metrics.RegistrationWritten("create", string(reg.TicketType))
	logger.CtxInfo(ctxOf(db), "registration created", "registration_id", reg.ID, "ticket_type", reg.TicketType, "amount", reg.Amount)

	created, err := s.regRepo.FindByID(db, reg.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if created.User != nil {
		s.emails.SendRegistrationReceived(ctxOf(db), created.User, created)
	}
	return toResponse(created), nil
}

// Upsert is the explicit edit mode: it replaces the caller's registration in
// place, or creates it when there is none. Repeating the same request leaves
// exactly one record.
func (s *RegistrationServiceImpl) Upsert(db *gorm.DB, actor auth.Actor, req *dto.RegistrationRequest) (*dto.RegistrationResult, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	if err := checkRequestFields(actor, actor.UserID, req); err != nil {
		return nil, err
	}

	existing, err := s.regRepo.FindByUserID(db, actor.UserID)
	if errors.Is(err, repositories.ErrRegistrationNotFound) {
		created, err := s.Create(db, actor, req)
		if err != nil {
			return nil, err
		}
		return &dto.RegistrationResult{Registration: *created, Created: true}, nil
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	merged := *existing
	merged.User = nil
	prevStatus := existing.PaymentStatus
	if err := s.fillAndPrepare(&merged, req); err != nil {
		return nil, err
	}

	if err := s.regRepo.Save(db, &merged); err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.metrics.RegistrationWritten("update", string(merged.TicketType))
	logger.CtxInfo(ctxOf(db), "registration updated", "registration_id", merged.ID)

	updated, err := s.afterUpdate(db, merged.ID, prevStatus)
	if err != nil {
		return nil, err
	}
	return &dto.RegistrationResult{Registration: *updated, Created: false}, nil
}

// Patch applies only the fields present in the request. The merged record is
// normalised, re-priced and validated as a whole, so conditional rules are
// checked against the persisted sibling values too.
func (s *RegistrationServiceImpl) Patch(db *gorm.DB, actor auth.Actor, id string, patch *dto.RegistrationPatch) (*dto.RegistrationResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}

	existing, err := s.findAuthorized(db, actor, id)
	if err != nil {
		return nil, err
	}

	fields := patchFields(patch)
	if denied := registration.CheckWrite(actor, existing.UserID, fields); len(denied) > 0 {
		return nil, apperrors.ErrFieldNotWritable(denied)
	}

	if patch.Present.Has(registration.FieldPaymentStatus) && patch.PaymentStatus == nil {
		return nil, apperrors.ValidationError(map[string]string{registration.FieldPaymentStatus: "This field is required"})
	}

	// an admin toggling the status through the generic route takes the
	// single-column path
	if onlyField(fields, registration.FieldPaymentStatus) {
		return s.reconciliation.UpdatePaymentStatus(db, actor, id, models.PaymentStatus(*patch.PaymentStatus))
	}

	merged := *existing
	merged.User = nil
	prevStatus := existing.PaymentStatus
	if err := applyPatch(&merged, patch); err != nil {
		return nil, err
	}
	if errs := registration.Prepare(&merged); errs != nil {
		return nil, apperrors.ValidationError(errs)
	}

	if err := s.regRepo.Save(db, &merged); err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.metrics.RegistrationWritten("update", string(merged.TicketType))
	logger.CtxInfo(ctxOf(db), "registration patched", "registration_id", merged.ID, "fields", fields)

	return s.afterUpdate(db, merged.ID, prevStatus)
}

func (s *RegistrationServiceImpl) GetMine(db *gorm.DB, actor auth.Actor) (*dto.RegistrationResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	reg, err := s.regRepo.FindByUserID(db, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return toResponse(reg), nil
}

func (s *RegistrationServiceImpl) GetByID(db *gorm.DB, actor auth.Actor, id string) (*dto.RegistrationResponse, error) {
	reg, err := s.findAuthorized(db, actor, id)
	if err != nil {
		return nil, err
	}
	return toResponse(reg), nil
}

// findAuthorized loads a registration the actor may see: their own, or any
// when the actor is an admin.
func (s *RegistrationServiceImpl) findAuthorized(db *gorm.DB, actor auth.Actor, id string) (*models.Registration, error) {
	reg, err := s.regRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if !actor.Owns(reg.UserID) && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return reg, nil
}

// afterUpdate reloads the record and notifies the owner when an admin-only
// status write changed it.
func (s *RegistrationServiceImpl) afterUpdate(db *gorm.DB, id string, prevStatus models.PaymentStatus) (*dto.RegistrationResponse, error) {
	updated, err := s.regRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if updated.PaymentStatus != prevStatus {
		s.metrics.PaymentStatusChanged(string(prevStatus), string(updated.PaymentStatus))
		if updated.User != nil {
			s.emails.SendPaymentStatusChanged(ctxOf(db), updated.User, updated)
		}
	}
	return toResponse(updated), nil
}

func (s *RegistrationServiceImpl) fillAndPrepare(reg *models.Registration, req *dto.RegistrationRequest) error {
	if err := applyRequest(reg, req); err != nil {
		return err
	}
	if errs := registration.Prepare(reg); errs != nil {
		return apperrors.ValidationError(errs)
	}
	return nil
}

// checkRequestFields applies the write policy to a full-form request. Only
// payment_status can be denied to the owner on their own record.
func checkRequestFields(actor auth.Actor, ownerID string, req *dto.RegistrationRequest) error {
	fields := req.Present.Keys()
	if req.Present == nil && req.PaymentStatus != nil {
		fields = append(fields, registration.FieldPaymentStatus)
	}
	if denied := registration.CheckWrite(actor, ownerID, fields); len(denied) > 0 {
		return apperrors.ErrFieldNotWritable(denied)
	}
	return nil
}

// applyRequest copies a full form onto reg. Identity, amount and (unless
// sent by an admin) the payment status are left untouched.
func applyRequest(reg *models.Registration, req *dto.RegistrationRequest) error {
	date, err := parseDate(req.PaymentDate)
	if err != nil {
		return apperrors.ValidationError(map[string]string{registration.FieldPaymentDate: "Must be a date in YYYY-MM-DD format"})
	}

	reg.TicketType = models.TicketType(strings.TrimSpace(req.TicketType))
	reg.ContactAddress = req.ContactAddress
	reg.ParticipantRole = models.ParticipantRole(req.ParticipantRole)
	reg.ParticipantRoleOther = req.ParticipantRoleOther
	reg.PresentationType = models.PresentationType(req.PresentationType)
	reg.PaymentAccountLast5 = req.PaymentAccountLast5
	reg.PaymentDate = date
	reg.PaymentTime = req.PaymentTime
	reg.MealDay1 = models.YesNo(req.MealDay1)
	reg.MealDay2 = models.YesNo(req.MealDay2)
	reg.Banquet = models.YesNo(req.Banquet)
	reg.DietaryPreference = dietPtr(req.DietaryPreference)
	reg.DietaryOther = req.DietaryOther
	reg.Remarks = req.Remarks
	if req.PaymentStatus != nil {
		reg.PaymentStatus = models.PaymentStatus(*req.PaymentStatus)
	}
	return nil
}

// patchFields lists the keys the client sent. Explicit nulls count.
func patchFields(p *dto.RegistrationPatch) []string {
	set := dto.FieldSet{}
	for k := range p.Present {
		set[k] = true
	}
	for key, present := range map[string]bool{
		registration.FieldTicketType:           p.TicketType != nil,
		registration.FieldAmount:               p.Amount != nil,
		registration.FieldContactAddress:       p.ContactAddress != nil,
		registration.FieldParticipantRole:      p.ParticipantRole != nil,
		registration.FieldParticipantRoleOther: p.ParticipantRoleOther != nil,
		registration.FieldPresentationType:     p.PresentationType != nil,
		registration.FieldPaymentAccountLast5:  p.PaymentAccountLast5 != nil,
		registration.FieldPaymentDate:          p.PaymentDate != nil,
		registration.FieldPaymentTime:          p.PaymentTime != nil,
		registration.FieldMealDay1:             p.MealDay1 != nil,
		registration.FieldMealDay2:             p.MealDay2 != nil,
		registration.FieldBanquet:              p.Banquet != nil,
		registration.FieldDietaryPreference:    p.DietaryPreference != nil,
		registration.FieldDietaryOther:         p.DietaryOther != nil,
		registration.FieldRemarks:              p.Remarks != nil,
		registration.FieldPaymentStatus:        p.PaymentStatus != nil,
	} {
		if present {
			set[key] = true
		}
	}
	return set.Keys()
}

// applyPatch merges the present fields into reg. A null on a required field
// becomes its zero value and is reported by validation.
func applyPatch(reg *models.Registration, p *dto.RegistrationPatch) error {
	has := func(key string, ptrSet bool) bool { return ptrSet || p.Present.Has(key) }

	if has(registration.FieldTicketType, p.TicketType != nil) {
		reg.TicketType = models.TicketType(deref(p.TicketType))
	}
	if has(registration.FieldContactAddress, p.ContactAddress != nil) {
		reg.ContactAddress = deref(p.ContactAddress)
	}
	if has(registration.FieldParticipantRole, p.ParticipantRole != nil) {
		reg.ParticipantRole = models.ParticipantRole(deref(p.ParticipantRole))
	}
	if has(registration.FieldParticipantRoleOther, p.ParticipantRoleOther != nil) {
		reg.ParticipantRoleOther = p.ParticipantRoleOther
	}
	if has(registration.FieldPresentationType, p.PresentationType != nil) {
		reg.PresentationType = models.PresentationType(deref(p.PresentationType))
	}
	if has(registration.FieldPaymentAccountLast5, p.PaymentAccountLast5 != nil) {
		reg.PaymentAccountLast5 = deref(p.PaymentAccountLast5)
	}
	if has(registration.FieldPaymentDate, p.PaymentDate != nil) {
		if p.PaymentDate == nil {
			return apperrors.ValidationError(map[string]string{registration.FieldPaymentDate: "This field is required"})
		}
		date, err := parseDate(*p.PaymentDate)
		if err != nil {
			return apperrors.ValidationError(map[string]string{registration.FieldPaymentDate: "Must be a date in YYYY-MM-DD format"})
		}
		reg.PaymentDate = date
	}
	if has(registration.FieldPaymentTime, p.PaymentTime != nil) {
		reg.PaymentTime = p.PaymentTime
	}
	if has(registration.FieldMealDay1, p.MealDay1 != nil) {
		reg.MealDay1 = models.YesNo(deref(p.MealDay1))
	}
	if has(registration.FieldMealDay2, p.MealDay2 != nil) {
		reg.MealDay2 = models.YesNo(deref(p.MealDay2))
	}
	if has(registration.FieldBanquet, p.Banquet != nil) {
		reg.Banquet = models.YesNo(deref(p.Banquet))
	}
	if has(registration.FieldDietaryPreference, p.DietaryPreference != nil) {
		reg.DietaryPreference = dietPtr(p.DietaryPreference)
	}
	if has(registration.FieldDietaryOther, p.DietaryOther != nil) {
		reg.DietaryOther = p.DietaryOther
	}
	if has(registration.FieldRemarks, p.Remarks != nil) {
		reg.Remarks = deref(p.Remarks)
	}
	if p.PaymentStatus != nil {
		reg.PaymentStatus = models.PaymentStatus(*p.PaymentStatus)
	}
	return nil
}

func onlyField(fields []string, want string) bool {
	return len(fields) == 1 && fields[0] == want
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dietPtr(s *string) *models.DietaryPreference {
	if s == nil {
		return nil
	}
	d := models.DietaryPreference(*s)
	return &d
}
