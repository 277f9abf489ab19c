package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/models"
	"sg44_backend/internal/services/dto"
	"sg44_backend/internal/testutil"
	"sg44_backend/pkg/apperrors"
)

func TestAuthService_RegisterVerifyLogin(t *testing.T) {
	h := newHarness(t)

	user, err := h.svc.AuthService.Register(h.db, &dto.RegisterRequest{
		Name:     "Chen Wei",
		Email:    "Wei@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "wei@example.com", user.Email)
	assert.Equal(t, models.UserRoleUser, user.Role)
	assert.False(t, user.IsVerified)

	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: "wei@example.com", Password: "correct-horse"})
	requireCode(t, err, apperrors.CodeUserNotVerified)

	msg, ok := h.mail.Last("wei@example.com")
	require.True(t, ok, "verification email should be captured")
	assert.Contains(t, msg.HTMLBody, "https://sg44.example.com/verify?token=")

	var stored models.User
	require.NoError(t, h.db.First(&stored, "email = ?", "wei@example.com").Error)
	require.NotEmpty(t, stored.VerificationToken)
	require.NoError(t, h.svc.AuthService.VerifyEmail(h.db, stored.VerificationToken))

	resp, err := h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: "wei@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int(time.Hour.Seconds()), resp.ExpiresIn)

	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: "wei@example.com", Password: "wrong-password"})
	requireCode(t, err, apperrors.CodeInvalidCredentials)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.AuthService.Register(h.db, &dto.RegisterRequest{
		Name:     "Someone",
		Email:    h.owner.Email,
		Password: "password123",
	})
	appErr := requireCode(t, err, apperrors.CodeAlreadyExists)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	h := newHarness(t)

	resp, err := h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: h.owner.Email, Password: "password123"})
	require.NoError(t, err)

	next, err := h.svc.AuthService.RefreshToken(h.db, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, next.RefreshToken)

	_, err = h.svc.AuthService.RefreshToken(h.db, resp.RefreshToken)
	requireCode(t, err, apperrors.CodeInvalidToken)

	require.NoError(t, h.svc.AuthService.Logout(h.db, next.RefreshToken))
	_, err = h.svc.AuthService.RefreshToken(h.db, next.RefreshToken)
	requireCode(t, err, apperrors.CodeInvalidToken)
}

func TestAuthService_PasswordReset(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.svc.AuthService.RequestPasswordReset(h.db, "nobody@example.com"))
	require.NoError(t, h.svc.AuthService.RequestPasswordReset(h.db, h.owner.Email))

	var stored models.User
	require.NoError(t, h.db.First(&stored, "id = ?", h.owner.ID).Error)
	require.NotEmpty(t, stored.ResetToken)

	msg, ok := h.mail.Last(h.owner.Email)
	require.True(t, ok)
	assert.Contains(t, msg.HTMLBody, "/reset-password?token="+stored.ResetToken)

	err := h.svc.AuthService.ResetPassword(h.db, stored.ResetToken, "short")
	requireCode(t, err, apperrors.CodeValidationFailed)

	require.NoError(t, h.svc.AuthService.ResetPassword(h.db, stored.ResetToken, "brand-new-pass"))

	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: h.owner.Email, Password: "brand-new-pass"})
	require.NoError(t, err)

	err = h.svc.AuthService.ResetPassword(h.db, stored.ResetToken, "another-pass")
	requireCode(t, err, apperrors.CodeInvalidToken)
}

func TestUserService_UpdateMe(t *testing.T) {
	h := newHarness(t)

	out, err := h.svc.UserService.UpdateMe(h.db, h.ownerAct, &dto.UpdateProfileRequest{
		Organization: strPtr("  Academia Sinica "),
		Birthday:     strPtr("1990-04-12"),
		Present:      dto.FieldSet{"organization": true, "birthday": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Academia Sinica", out.Organization)
	require.NotNil(t, out.Birthday)
	assert.Equal(t, "1990-04-12", *out.Birthday)

	_, err = h.svc.UserService.UpdateMe(h.db, h.ownerAct, &dto.UpdateProfileRequest{
		Role:    strPtr("admin"),
		Present: dto.FieldSet{"role": true},
	})
	requireCode(t, err, apperrors.CodeFieldNotWritable)
}

func TestUserService_UpdateRole(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.UserService.UpdateRole(h.db, h.ownerAct, h.admin.ID, models.UserRoleUser)
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = h.svc.UserService.UpdateRole(h.db, h.adminAct, h.admin.ID, models.UserRoleUser)
	require.Error(t, err)

	out, err := h.svc.UserService.UpdateRole(h.db, h.adminAct, h.owner.ID, models.UserRoleReviewer)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleReviewer, out.Role)

	list, err := h.svc.UserService.ListUsers(h.db, h.adminAct, &dto.UserListQuery{Role: "reviewer"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
}

func TestUserService_UpdateRoleRevokesRefreshTokens(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.db.Create(&models.RefreshToken{
		UserID:    h.owner.ID,
		Token:     "owner-refresh",
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	_, err := h.svc.UserService.UpdateRole(h.db, h.adminAct, h.owner.ID, models.UserRoleReviewer)
	require.NoError(t, err)

	var remaining int64
	require.NoError(t, h.db.Model(&models.RefreshToken{}).Where("user_id = ?", h.owner.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	_, err = h.svc.AuthService.RefreshToken(h.db, "owner-refresh")
	require.Error(t, err)
}

func TestNewsService_AdminOnlyWrites(t *testing.T) {
	h := newHarness(t)

	req := &dto.NewsRequest{Slug: "keynote-announced", Title: "Keynote announced", Category: "program"}
	_, err := h.svc.NewsService.Create(h.db, h.ownerAct, req)
	requireCode(t, err, apperrors.CodeForbidden)

	created, err := h.svc.NewsService.Create(h.db, h.adminAct, req)
	require.NoError(t, err)
	assert.False(t, created.PublishedAt.IsZero())

	_, err = h.svc.NewsService.Create(h.db, h.adminAct, req)
	require.Error(t, err)

	got, err := h.svc.NewsService.Get(h.db, "keynote-announced")
	require.NoError(t, err)
	assert.Equal(t, "Keynote announced", got.Title)

	list, err := h.svc.NewsService.List(h.db, "program", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	require.NoError(t, h.svc.NewsService.Delete(h.db, h.adminAct, "keynote-announced"))
	_, err = h.svc.NewsService.Get(h.db, "keynote-announced")
	require.Error(t, err)
}

func TestSubmissionService_ReviewFlow(t *testing.T) {
	h := newHarness(t)

	sub, err := h.svc.SubmissionService.Create(h.db, h.ownerAct, &dto.CreateSubmissionRequest{
		Title:    "Tone sandhi in Hakka",
		Abstract: "We study ...",
	})
	require.NoError(t, err)
	assert.Equal(t, "processing", sub.Status)

	_, err = h.svc.SubmissionService.Patch(h.db, h.ownerAct, sub.ID, &dto.SubmissionPatch{
		Status:  strPtr("accepted"),
		Present: dto.FieldSet{"status": true},
	})
	requireCode(t, err, apperrors.CodeFieldNotWritable)

	_, err = h.svc.SubmissionService.Patch(h.db, h.adminAct, sub.ID, &dto.SubmissionPatch{
		AssignedReviewerID: strPtr(h.owner.ID),
		Present:            dto.FieldSet{"assigned_reviewer_id": true},
	})
	require.Error(t, err, "assignee must hold the reviewer role")

	reviewer := createReviewer(t, h)
	revAct := auth.Actor{UserID: reviewer.ID, Role: reviewer.Role}

	_, err = h.svc.SubmissionService.Patch(h.db, h.adminAct, sub.ID, &dto.SubmissionPatch{
		AssignedReviewerID: strPtr(reviewer.ID),
		Present:            dto.FieldSet{"assigned_reviewer_id": true},
	})
	require.NoError(t, err)

	reviewed, err := h.svc.SubmissionService.Patch(h.db, revAct, sub.ID, &dto.SubmissionPatch{
		Status:         strPtr("accepted"),
		ReviewComments: strPtr("Clear and well scoped."),
		Present:        dto.FieldSet{"status": true, "review_comments": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "accepted", reviewed.Status)
	assert.Equal(t, "Tone sandhi in Hakka", reviewed.Title)

	other := createUser(t, h, "author2@example.com")
	_, err = h.svc.SubmissionService.Create(h.db, auth.Actor{UserID: other.ID, Role: other.Role}, &dto.CreateSubmissionRequest{
		Title:    "Vowel harmony",
		Abstract: "Another abstract",
	})
	require.NoError(t, err)

	all, err := h.svc.SubmissionService.List(h.db, revAct, &dto.SubmissionListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	mine, err := h.svc.SubmissionService.List(h.db, revAct, &dto.SubmissionListQuery{AssignedToMe: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Total)

	own, err := h.svc.SubmissionService.List(h.db, h.ownerAct, &dto.SubmissionListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, own.Total)

	stranger := auth.Actor{UserID: "someone-else", Role: models.UserRoleUser}
	_, err = h.svc.SubmissionService.Get(h.db, stranger, sub.ID)
	require.Error(t, err)
}

func createReviewer(t *testing.T, h *harness) *models.User {
	t.Helper()
	return testutil.CreateUser(t, h.db, &models.User{Name: "Reviewer", Email: "reviewer@example.com", Role: models.UserRoleReviewer})
}

func createUser(t *testing.T, h *harness, email string) *models.User {
	t.Helper()
	return testutil.CreateUser(t, h.db, &models.User{Email: email})
}
