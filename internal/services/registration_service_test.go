package services_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/email"
	"sg44_backend/internal/export"
	"sg44_backend/internal/metrics"
	"sg44_backend/internal/models"
	"sg44_backend/internal/services"
	"sg44_backend/internal/services/dto"
	"sg44_backend/internal/testutil"
	"sg44_backend/pkg/apperrors"
)

type harness struct {
	db       *gorm.DB
	svc      *services.ServiceContainer
	mail     *email.MemoryProvider
	owner    *models.User
	admin    *models.User
	ownerAct auth.Actor
	adminAct auth.Actor
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewTestDB(t)
	tm, err := email.NewDefaultTemplateManager()
	require.NoError(t, err)
	mail := email.NewMemoryProvider(tm)

	tokens, err := auth.NewTokenManager("test-secret", 0)
	require.NoError(t, err)

	owner := testutil.CreateUser(t, db, &models.User{Name: "Lin Mei", Email: "mei@example.com"})
	admin := testutil.CreateUser(t, db, &models.User{Name: "Admin", Email: "admin@example.com", Role: models.UserRoleAdmin})

	return &harness{
		db:       db,
		svc:      services.NewServiceContainer(tokens, mail, metrics.New(), "https://sg44.example.com"),
		mail:     mail,
		owner:    owner,
		admin:    admin,
		ownerAct: auth.Actor{UserID: owner.ID, Role: owner.Role},
		adminAct: auth.Actor{UserID: admin.ID, Role: admin.Role},
	}
}

func strPtr(s string) *string { return &s }

func validRequest() *dto.RegistrationRequest {
	return &dto.RegistrationRequest{
		TicketType:          string(models.TicketEarlyBirdStudent),
		ContactAddress:      "  No. 1, Roosevelt Rd, Taipei  ",
		ParticipantRole:     string(models.ParticipantAttendee),
		PaymentAccountLast5: "54321",
		PaymentDate:         "2026-05-02",
		MealDay1:            "no",
		MealDay2:            "no",
		Banquet:             "no",
	}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func countRegistrations(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Registration{}).Count(&n).Error)
	return n
}

func TestRegistrationService_CreatePricesFromTicketTable(t *testing.T) {
	h := newHarness(t)

	req := validRequest()
	bogus := 1
	req.Amount = &bogus

	out, err := h.svc.RegistrationService.Create(h.db, h.ownerAct, req)
	require.NoError(t, err)

	assert.Equal(t, 1500, out.Amount)
	assert.Equal(t, "pending", out.PaymentStatus)
	assert.Equal(t, "No. 1, Roosevelt Rd, Taipei", out.ContactAddress)
	assert.Equal(t, "2026-05-02", out.PaymentDate)
	assert.Equal(t, "none", out.PresentationType)
	require.NotNil(t, out.User)
	assert.Equal(t, h.owner.Email, out.User.Email)

	msg, ok := h.mail.Last(h.owner.Email)
	require.True(t, ok, "registration email should be sent")
	assert.Contains(t, msg.HTMLBody, "1500")
}

func TestRegistrationService_CreateTwiceReturnsExistingID(t *testing.T) {
	h := newHarness(t)

	first, err := h.svc.RegistrationService.Create(h.db, h.ownerAct, validRequest())
	require.NoError(t, err)

	_, err = h.svc.RegistrationService.Create(h.db, h.ownerAct, validRequest())
	appErr := requireCode(t, err, apperrors.CodeRegistrationExists)
	assert.Equal(t, 409, appErr.HTTPCode)
	assert.Equal(t, map[string]string{"registration_id": first.ID}, appErr.Details)

	assert.EqualValues(t, 1, countRegistrations(t, h.db))
}

func TestRegistrationService_UpsertIsIdempotent(t *testing.T) {
	h := newHarness(t)

	req := validRequest()
	first, err := h.svc.RegistrationService.Upsert(h.db, h.ownerAct, req)
	require.NoError(t, err)
	assert.True(t, first.Created)

	req.TicketType = string(models.TicketStandardRegular)
	second, err := h.svc.RegistrationService.Upsert(h.db, h.ownerAct, req)
	require.NoError(t, err)
	assert.False(t, second.Created)

	assert.Equal(t, first.Registration.ID, second.Registration.ID)
	assert.Equal(t, 2700, second.Registration.Amount)
	assert.EqualValues(t, 1, countRegistrations(t, h.db))
}

func TestRegistrationService_OwnerCannotSetPaymentStatus(t *testing.T) {
	h := newHarness(t)

	req := validRequest()
	req.PaymentStatus = strPtr("paid")
	_, err := h.svc.RegistrationService.Create(h.db, h.ownerAct, req)
	appErr := requireCode(t, err, apperrors.CodeFieldNotWritable)
	assert.Equal(t, 403, appErr.HTTPCode)
	assert.EqualValues(t, 0, countRegistrations(t, h.db))

	reg := testutil.CreateRegistration(t, h.db, testutil.NewRegistration(h.owner.ID))
	_, err = h.svc.RegistrationService.Patch(h.db, h.ownerAct, reg.ID, &dto.RegistrationPatch{
		PaymentStatus: strPtr("paid"),
		Present:       dto.FieldSet{"payment_status": true},
	})
	requireCode(t, err, apperrors.CodeFieldNotWritable)
}

func TestRegistrationService_AdminMarksPaidWithoutTouchingOtherFields(t *testing.T) {
	h := newHarness(t)

	base := testutil.NewRegistration(h.owner.ID)
	base.Remarks = "please invoice my department"
	reg := testutil.CreateRegistration(t, h.db, base)

	out, err := h.svc.RegistrationService.Patch(h.db, h.adminAct, reg.ID, &dto.RegistrationPatch{
		PaymentStatus: strPtr("paid"),
		Present:       dto.FieldSet{"payment_status": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", out.PaymentStatus)

	var stored models.Registration
	require.NoError(t, h.db.First(&stored, "id = ?", reg.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, "please invoice my department", stored.Remarks)
	assert.Equal(t, reg.Amount, stored.Amount)
	assert.Equal(t, reg.PaymentAccountLast5, stored.PaymentAccountLast5)

	msg, ok := h.mail.Last(h.owner.Email)
	require.True(t, ok, "owner should be told about the status change")
	assert.Contains(t, msg.Subject, "Payment status")
}

func TestRegistrationService_AdminCannotEditOwnerFields(t *testing.T) {
	h := newHarness(t)
	reg := testutil.CreateRegistration(t, h.db, testutil.NewRegistration(h.owner.ID))

	_, err := h.svc.RegistrationService.Patch(h.db, h.adminAct, reg.ID, &dto.RegistrationPatch{
		Remarks: strPtr("edited by admin"),
		Present: dto.FieldSet{"remarks": true},
	})
	appErr := requireCode(t, err, apperrors.CodeFieldNotWritable)
	assert.Equal(t, map[string]interface{}{"fields": []string{"remarks"}}, appErr.Details)
}

func TestRegistrationService_PatchMealsRequiresDietaryPreference(t *testing.T) {
	h := newHarness(t)
	reg := testutil.CreateRegistration(t, h.db, testutil.NewRegistration(h.owner.ID))

	_, err := h.svc.RegistrationService.Patch(h.db, h.ownerAct, reg.ID, &dto.RegistrationPatch{
		MealDay1: strPtr("yes"),
		Present:  dto.FieldSet{"meal_day1": true},
	})
	appErr := requireCode(t, err, apperrors.CodeValidationFailed)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "dietary_preference")

	out, err := h.svc.RegistrationService.Patch(h.db, h.ownerAct, reg.ID, &dto.RegistrationPatch{
		MealDay1:          strPtr("yes"),
		Banquet:           strPtr("yes"),
		DietaryPreference: strPtr("vegan"),
		Present:           dto.FieldSet{"meal_day1": true, "banquet": true, "dietary_preference": true},
	})
	require.NoError(t, err)
	require.NotNil(t, out.DietaryPreference)
	assert.Equal(t, "vegan", *out.DietaryPreference)
	assert.Equal(t, "yes", out.MealDay1)
	assert.Equal(t, "no", out.MealDay2)
}

func TestRegistrationService_TurningMealsOffClearsDiet(t *testing.T) {
	h := newHarness(t)

	base := testutil.NewRegistration(h.owner.ID)
	base.MealDay2 = models.Yes
	other := models.DietOther
	base.DietaryPreference = &other
	base.DietaryOther = strPtr("no peanuts")
	reg := testutil.CreateRegistration(t, h.db, base)

	out, err := h.svc.RegistrationService.Patch(h.db, h.ownerAct, reg.ID, &dto.RegistrationPatch{
		MealDay2: strPtr("no"),
		Present:  dto.FieldSet{"meal_day2": true},
	})
	require.NoError(t, err)
	assert.Nil(t, out.DietaryPreference)
	assert.Nil(t, out.DietaryOther)

	var stored models.Registration
	require.NoError(t, h.db.First(&stored, "id = ?", reg.ID).Error)
	assert.Nil(t, stored.DietaryPreference)
	assert.Nil(t, stored.DietaryOther)
}

func TestRegistrationService_PatchRepricesOnTicketChange(t *testing.T) {
	h := newHarness(t)
	reg := testutil.CreateRegistration(t, h.db, testutil.NewRegistration(h.owner.ID))

	out, err := h.svc.RegistrationService.Patch(h.db, h.ownerAct, reg.ID, &dto.RegistrationPatch{
		TicketType: strPtr(string(models.TicketEarlyBirdRegular)),
		Amount:     new(int),
		Present:    dto.FieldSet{"ticket_type": true, "amount": true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2000, out.Amount)
}

func TestRegistrationService_OtherUsersRegistrationIsHidden(t *testing.T) {
	h := newHarness(t)
	reg := testutil.CreateRegistration(t, h.db, testutil.NewRegistration(h.owner.ID))

	stranger := testutil.CreateUser(t, h.db, &models.User{Email: "stranger@example.com"})
	actor := auth.Actor{UserID: stranger.ID, Role: stranger.Role}

	_, err := h.svc.RegistrationService.GetByID(h.db, actor, reg.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = h.svc.RegistrationService.GetMine(h.db, actor)
	requireCode(t, err, apperrors.CodeRegistrationNotFound)

	got, err := h.svc.RegistrationService.GetByID(h.db, h.adminAct, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, got.ID)
}

func TestRegistrationService_PrefillUsesProfile(t *testing.T) {
	h := newHarness(t)

	out, err := h.svc.RegistrationService.Prefill(h.db, h.ownerAct)
	require.NoError(t, err)
	assert.Equal(t, "Lin Mei", out.Name)
	assert.Equal(t, "mei@example.com", out.Email)

	_, err = h.svc.RegistrationService.Prefill(h.db, auth.Anonymous)
	requireCode(t, err, apperrors.CodeUnauthorized)
}

func TestReconciliationService_StatusTransitions(t *testing.T) {
	h := newHarness(t)
	reg := testutil.CreateRegistration(t, h.db, testutil.NewRegistration(h.owner.ID))

	_, err := h.svc.ReconciliationService.UpdatePaymentStatus(h.db, h.ownerAct, reg.ID, models.PaymentStatusPaid)
	requireCode(t, err, apperrors.CodeForbidden)

	for _, status := range []models.PaymentStatus{models.PaymentStatusPaid, models.PaymentStatusFailed, models.PaymentStatusPending} {
		out, err := h.svc.ReconciliationService.UpdatePaymentStatus(h.db, h.adminAct, reg.ID, status)
		require.NoError(t, err)
		assert.Equal(t, string(status), out.PaymentStatus)
	}

	_, err = h.svc.ReconciliationService.UpdatePaymentStatus(h.db, h.adminAct, reg.ID, "refunded")
	require.Error(t, err)

	_, err = h.svc.ReconciliationService.UpdatePaymentStatus(h.db, h.adminAct, "missing", models.PaymentStatusPaid)
	requireCode(t, err, apperrors.CodeRegistrationNotFound)
}

func TestReconciliationService_Stats(t *testing.T) {
	h := newHarness(t)

	paid := testutil.NewRegistration(h.owner.ID)
	paid.PaymentStatus = models.PaymentStatusPaid
	paid.MealDay1 = models.Yes
	paid.Banquet = models.Yes
	testutil.CreateRegistration(t, h.db, paid)

	u2 := testutil.CreateUser(t, h.db, &models.User{Email: "u2@example.com"})
	failed := testutil.NewRegistration(u2.ID)
	failed.PaymentStatus = models.PaymentStatusFailed
	failed.MealDay1 = models.Yes
	failed.MealDay2 = models.Yes
	testutil.CreateRegistration(t, h.db, failed)

	u3 := testutil.CreateUser(t, h.db, &models.User{Email: "u3@example.com"})
	testutil.CreateRegistration(t, h.db, testutil.NewRegistration(u3.ID))

	st, err := h.svc.ReconciliationService.Stats(h.db, h.adminAct)
	require.NoError(t, err)
	assert.Equal(t, dto.RegistrationStats{
		Total:             3,
		TotalPaid:         1,
		Pending:           1,
		Failed:            1,
		Day1Meals:         2,
		Day2Meals:         1,
		BanquetAttendance: 1,
		PaidAmount:        2700,
	}, *st)

	_, err = h.svc.ReconciliationService.Stats(h.db, h.ownerAct)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestReconciliationService_ListFiltersByStatus(t *testing.T) {
	h := newHarness(t)

	paid := testutil.NewRegistration(h.owner.ID)
	paid.PaymentStatus = models.PaymentStatusPaid
	testutil.CreateRegistration(t, h.db, paid)
	u2 := testutil.CreateUser(t, h.db, &models.User{Email: "u2@example.com"})
	testutil.CreateRegistration(t, h.db, testutil.NewRegistration(u2.ID))

	out, err := h.svc.ReconciliationService.List(h.db, h.adminAct, &dto.RegistrationListQuery{Status: "paid"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, paid.ID, out.Items[0].ID)
}

func TestReconciliationService_ExportCSV(t *testing.T) {
	h := newHarness(t)

	reg := testutil.NewRegistration(h.owner.ID)
	reg.Remarks = "line one\nline two"
	testutil.CreateRegistration(t, h.db, reg)

	var buf bytes.Buffer
	require.NoError(t, h.svc.ReconciliationService.ExportCSV(h.db, h.adminAct, &buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, export.BOM))
	lines := strings.Split(strings.TrimPrefix(out, export.BOM), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"line one line two"`)
	assert.Contains(t, lines[1], `"mei@example.com"`)

	buf.Reset()
	err := h.svc.ReconciliationService.ExportCSV(h.db, h.ownerAct, &buf)
	requireCode(t, err, apperrors.CodeForbidden)
	assert.Zero(t, buf.Len())
}

func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, dto.RegistrationStats{}, services.ComputeStats(nil))
}
