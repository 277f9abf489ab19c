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

// submissionWritePolicy: authors edit their abstract, reviewers and admins
// record the decision, and only admins assign reviewers.
var submissionWritePolicy = auth.FieldPolicy{
	"title":                auth.OwnerOnly,
	"abstract":             auth.OwnerOnly,
	"topic":                auth.OwnerOnly,
	"status":               auth.AdminOrReviewer,
	"review_comments":      auth.AdminOrReviewer,
	"assigned_reviewer_id": auth.AdminOnly,
}

type SubmissionService interface {
	Create(db *gorm.DB, actor auth.Actor, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error)
	List(db *gorm.DB, actor auth.Actor, query *dto.SubmissionListQuery) (*dto.ListResponse[dto.SubmissionResponse], error)
	Get(db *gorm.DB, actor auth.Actor, id string) (*dto.SubmissionResponse, error)
	Patch(db *gorm.DB, actor auth.Actor, id string, patch *dto.SubmissionPatch) (*dto.SubmissionResponse, error)
}

type SubmissionServiceImpl struct {
	subRepo  repositories.SubmissionRepository
	userRepo repositories.UserRepository
}

func NewSubmissionService(subRepo repositories.SubmissionRepository, userRepo repositories.UserRepository) SubmissionService {
	return &SubmissionServiceImpl{subRepo: subRepo, userRepo: userRepo}
}

func (s *SubmissionServiceImpl) Create(db *gorm.DB, actor auth.Actor, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}

	sub := &models.Submission{
		OwnerID:  actor.UserID,
		Title:    strings.TrimSpace(req.Title),
		Abstract: strings.TrimSpace(req.Abstract),
		Topic:    strings.TrimSpace(req.Topic),
		Status:   models.SubmissionStatusProcessing,
	}
	if err := s.subRepo.Create(db, sub); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctxOf(db), "submission created", "submission_id", sub.ID)

	out := dto.NewSubmissionResponse(sub)
	return &out, nil
}

// List shows authors their own submissions. Admins and reviewers see all of
// them; a reviewer can narrow to their assignments with AssignedToMe.
func (s *SubmissionServiceImpl) List(db *gorm.DB, actor auth.Actor, query *dto.SubmissionListQuery) (*dto.ListResponse[dto.SubmissionResponse], error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}

	filter := repositories.SubmissionFilter{
		Status:   models.SubmissionStatus(query.Status),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	switch {
	case actor.HasAnyRole(models.UserRoleAdmin, models.UserRoleReviewer):
		if query.AssignedToMe {
			filter.ReviewerID = actor.UserID
		}
	default:
		filter.OwnerID = actor.UserID
	}

	subs, total, err := s.subRepo.List(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.SubmissionResponse, 0, len(subs))
	for i := range subs {
		items = append(items, dto.NewSubmissionResponse(&subs[i]))
	}
	page, pageSize := pageOrDefault(query.Page, query.PageSize)
	return &dto.ListResponse[dto.SubmissionResponse]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *SubmissionServiceImpl) Get(db *gorm.DB, actor auth.Actor, id string) (*dto.SubmissionResponse, error) {
	sub, err := s.findVisible(db, actor, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewSubmissionResponse(sub)
	return &out, nil
}

func (s *SubmissionServiceImpl) Patch(db *gorm.DB, actor auth.Actor, id string, patch *dto.SubmissionPatch) (*dto.SubmissionResponse, error) {
	sub, err := s.findVisible(db, actor, id)
	if err != nil {
		return nil, err
	}

	fields := patch.Present.Keys()
	if patch.Present == nil {
		fields = submissionPatchFields(patch)
	}
	if denied := submissionWritePolicy.Denied(actor, sub.OwnerID, fields); len(denied) > 0 {
		return nil, apperrors.ErrFieldNotWritable(denied)
	}

	if patch.Title != nil {
		sub.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Abstract != nil {
		sub.Abstract = strings.TrimSpace(*patch.Abstract)
	}
	if patch.Topic != nil {
		sub.Topic = strings.TrimSpace(*patch.Topic)
	}
	if patch.Status != nil {
		sub.Status = models.SubmissionStatus(*patch.Status)
	}
	if patch.ReviewComments != nil {
		sub.ReviewComments = *patch.ReviewComments
	}
	if patch.AssignedReviewerID != nil || patch.Present.Has("assigned_reviewer_id") {
		if err := s.assignReviewer(db, sub, patch.AssignedReviewerID); err != nil {
			return nil, err
		}
	}

	if sub.Title == "" || sub.Abstract == "" {
		return nil, apperrors.ValidationError(map[string]string{"title": "Title and abstract are required"})
	}

	sub.Owner = nil
	if err := s.subRepo.Save(db, sub); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctxOf(db), "submission updated", "submission_id", sub.ID, "fields", fields)

	out := dto.NewSubmissionResponse(sub)
	return &out, nil
}

func (s *SubmissionServiceImpl) assignReviewer(db *gorm.DB, sub *models.Submission, reviewerID *string) error {
	if reviewerID == nil || *reviewerID == "" {
		sub.AssignedReviewerID = nil
		return nil
	}

	reviewer, err := s.userRepo.FindByID(db, *reviewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrReviewerRequired
		}
		return apperrors.InternalError(err)
	}
	if reviewer.Role != models.UserRoleReviewer {
		return apperrors.ErrReviewerRequired
	}
	sub.AssignedReviewerID = &reviewer.ID
	return nil
}

// findVisible loads a submission the actor may see.
func (s *SubmissionServiceImpl) findVisible(db *gorm.DB, actor auth.Actor, id string) (*models.Submission, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}

	sub, err := s.subRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	staff := actor.HasAnyRole(models.UserRoleAdmin, models.UserRoleReviewer)
	if !staff && !actor.Owns(sub.OwnerID) {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return sub, nil
}

func submissionPatchFields(p *dto.SubmissionPatch) []string {
	var fields []string
	add := func(key string, set bool) {
		if set {
			fields = append(fields, key)
		}
	}
	add("title", p.Title != nil)
	add("abstract", p.Abstract != nil)
	add("topic", p.Topic != nil)
	add("status", p.Status != nil)
	add("review_comments", p.ReviewComments != nil)
	add("assigned_reviewer_id", p.AssignedReviewerID != nil)
	return fields
}
