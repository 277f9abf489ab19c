package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/services/dto"
	"sg44_backend/pkg/apperrors"
)

// profileWritePolicy governs PATCH /users/me. Email changes are not supported.
var profileWritePolicy = auth.FieldPolicy{
	"name":         auth.OwnerOnly,
	"organization": auth.OwnerOnly,
	"job_title":    auth.OwnerOnly,
	"phone":        auth.OwnerOnly,
	"birthday":     auth.OwnerOnly,
	"gender":       auth.OwnerOnly,
	"role":         auth.AdminOnly,
}

type UserService interface {
	GetMe(db *gorm.DB, actor auth.Actor) (*dto.UserDTO, error)
	UpdateMe(db *gorm.DB, actor auth.Actor, req *dto.UpdateProfileRequest) (*dto.UserDTO, error)
	ListUsers(db *gorm.DB, actor auth.Actor, query *dto.UserListQuery) (*dto.ListResponse[dto.UserDTO], error)
	UpdateRole(db *gorm.DB, actor auth.Actor, userID string, role models.UserRole) (*dto.UserDTO, error)
}

type UserServiceImpl struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

func NewUserService(userRepo repositories.UserRepository, refreshTokenRepo repositories.RefreshTokenRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo, refreshTokenRepo: refreshTokenRepo}
}

func (s *UserServiceImpl) load(db *gorm.DB, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) GetMe(db *gorm.DB, actor auth.Actor) (*dto.UserDTO, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	user, err := s.load(db, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := dto.NewUserDTO(user)
	return &out, nil
}

func (s *UserServiceImpl) UpdateMe(db *gorm.DB, actor auth.Actor, req *dto.UpdateProfileRequest) (*dto.UserDTO, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}

	fields := req.Present.Keys()
	if req.Present == nil && req.Role != nil {
		fields = append(fields, "role")
	}
	if denied := profileWritePolicy.Denied(actor, actor.UserID, fields); len(denied) > 0 {
		return nil, apperrors.ErrFieldNotWritable(denied)
	}
	if req.Role != nil && models.UserRole(*req.Role) != actor.Role {
		// admins change roles through the admin endpoint, never their own
		return nil, apperrors.ErrCannotModifySelf
	}

	user, err := s.load(db, actor.UserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Organization != nil {
		user.Organization = strings.TrimSpace(*req.Organization)
	}
	if req.JobTitle != nil {
		user.JobTitle = strings.TrimSpace(*req.JobTitle)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Birthday != nil {
		d, err := parseDate(*req.Birthday)
		if err != nil {
			return nil, apperrors.ValidationError(map[string]string{"birthday": "Must be a date in YYYY-MM-DD format"})
		}
		user.Birthday = &d
	} else if req.Present.Has("birthday") {
		user.Birthday = nil
	}
	if req.Gender != nil {
		g := models.Gender(*req.Gender)
		user.Gender = &g
	} else if req.Present.Has("gender") {
		user.Gender = nil
	}

	if user.Name == "" {
		return nil, apperrors.ValidationError(map[string]string{"name": "This field is required"})
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := dto.NewUserDTO(user)
	return &out, nil
}

func (s *UserServiceImpl) ListUsers(db *gorm.DB, actor auth.Actor, query *dto.UserListQuery) (*dto.ListResponse[dto.UserDTO], error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	users, total, err := s.userRepo.FindWithFilter(db, repositories.UserFilter{
		Role:     models.UserRole(query.Role),
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserDTO(&users[i]))
	}
	page, pageSize := pageOrDefault(query.Page, query.PageSize)
	return &dto.ListResponse[dto.UserDTO]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *UserServiceImpl) UpdateRole(db *gorm.DB, actor auth.Actor, userID string, role models.UserRole) (*dto.UserDTO, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if !role.IsValid() {
		return nil, apperrors.ErrInvalidUserRole
	}
	if actor.UserID == userID {
		return nil, apperrors.ErrCannotModifySelf
	}

	// the old role must not outlive the change through a refresh
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdateRole(tx, userID, role); err != nil {
			return err
		}
		return s.refreshTokenRepo.DeleteByUserID(tx, userID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctxOf(db), "user role changed", "target_user_id", userID, "role", role)
	return s.GetMe(db, auth.Actor{UserID: userID})
}

func pageOrDefault(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = repositories.DefaultPageSize
	}
	if pageSize > repositories.MaxPageSize {
		pageSize = repositories.MaxPageSize
	}
	return page, pageSize
}
