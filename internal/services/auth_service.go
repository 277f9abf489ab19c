package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/services/dto"
	"sg44_backend/pkg/apperrors"
)

const (
	RefreshTokenTTL  = 7 * 24 * time.Hour
	PasswordResetTTL = time.Hour
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserDTO, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(db *gorm.DB, refreshToken string) error
	VerifyEmail(db *gorm.DB, token string) error
	RequestPasswordReset(db *gorm.DB, email string) error
	ResetPassword(db *gorm.DB, token, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tokens           *auth.TokenManager
	emails           *EmailService
	now              func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tokens *auth.TokenManager,
	emails *EmailService,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokens:           tokens,
		emails:           emails,
		now:              time.Now,
	}
}

func generateRandomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Register creates an unverified account with the user role and emails a
// verification link.
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserDTO, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:              strings.TrimSpace(req.Name),
		Email:             req.Email,
		PasswordHash:      hashed,
		Organization:      strings.TrimSpace(req.Organization),
		JobTitle:          strings.TrimSpace(req.JobTitle),
		Phone:             strings.TrimSpace(req.Phone),
		Role:              models.UserRoleUser,
		IsVerified:        false,
		VerificationToken: generateRandomToken(),
	}
	if req.Birthday != nil {
		d, err := parseDate(*req.Birthday)
		if err != nil {
			return nil, apperrors.ValidationError(map[string]string{"birthday": "Must be a date in YYYY-MM-DD format"})
		}
		user.Birthday = &d
	}
	if req.Gender != nil {
		g := models.Gender(*req.Gender)
		user.Gender = &g
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctxOf(db), "user registered", "user_id", user.ID)
	s.emails.SendVerification(ctxOf(db), user)

	out := dto.NewUserDTO(user)
	return &out, nil
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, apperrors.ErrUserNotVerified
	}

	return s.issueTokens(db, user)
}

// RefreshToken rotates the refresh token: the presented one is deleted and a
// new pair is issued.
func (s *AuthServiceImpl) RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	var resp *dto.AuthResponse

	err := db.Transaction(func(tx *gorm.DB) error {
		stored, err := s.refreshTokenRepo.FindByToken(tx, refreshToken)
		if err != nil {
			if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
				return apperrors.ErrInvalidToken
			}
			return apperrors.InternalError(err)
		}

		if err := s.refreshTokenRepo.DeleteByToken(tx, refreshToken); err != nil {
			return apperrors.InternalError(err)
		}
		if stored.Expired(s.now()) {
			return apperrors.ErrInvalidToken
		}

		user, err := s.userRepo.FindByID(tx, stored.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.ErrInvalidToken
			}
			return apperrors.InternalError(err)
		}

		resp, err = s.issueTokens(tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *AuthServiceImpl) Logout(db *gorm.DB, refreshToken string) error {
	err := s.refreshTokenRepo.DeleteByToken(db, refreshToken)
	if err != nil && !errors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) VerifyEmail(db *gorm.DB, token string) error {
	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctxOf(db), "email verified", "user_id", user.ID)
	return nil
}

// RequestPasswordReset always succeeds from the caller's point of view so
// that the endpoint cannot be used to probe for accounts.
func (s *AuthServiceImpl) RequestPasswordReset(db *gorm.DB, email string) error {
	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	exp := s.now().Add(PasswordResetTTL)
	user.ResetToken = generateRandomToken()
	user.ResetTokenExp = &exp
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	s.emails.SendPasswordReset(ctxOf(db), user)
	return nil
}

// ResetPassword sets a new password and revokes every refresh token.
func (s *AuthServiceImpl) ResetPassword(db *gorm.DB, token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByResetToken(tx, token)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.ErrInvalidToken
			}
			return apperrors.InternalError(err)
		}
		if user.ResetTokenExp == nil || s.now().After(*user.ResetTokenExp) {
			return apperrors.ErrInvalidToken
		}

		hashed, err := auth.HashPassword(newPassword)
		if err != nil {
			return apperrors.InternalError(err)
		}

		user.PasswordHash = hashed
		user.ResetToken = ""
		user.ResetTokenExp = nil
		// the emailed link proves ownership of the address
		user.IsVerified = true
		if err := s.userRepo.Update(tx, user); err != nil {
			return apperrors.InternalError(err)
		}

		if err := s.refreshTokenRepo.DeleteByUserID(tx, user.ID); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
}

func (s *AuthServiceImpl) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     generateRandomToken(),
		ExpiresAt: s.now().Add(RefreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(db, refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		ExpiresIn:    int(s.tokens.TTL().Seconds()),
		User:         dto.NewUserDTO(user),
	}, nil
}

func parseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}
