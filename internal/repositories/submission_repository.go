package repositories

import (
	"errors"

	"gorm.io/gorm"

	"sg44_backend/internal/models"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	Create(db *gorm.DB, sub *models.Submission) error
	Save(db *gorm.DB, sub *models.Submission) error
	FindByID(db *gorm.DB, id string) (*models.Submission, error)
	List(db *gorm.DB, filter SubmissionFilter) ([]models.Submission, int64, error)
}

// SubmissionFilter narrows List. Empty fields do not filter.
type SubmissionFilter struct {
	OwnerID    string
	ReviewerID string
	Status     models.SubmissionStatus
	Page       int
	PageSize   int
}

type submissionRepository struct{}

func NewSubmissionRepository() SubmissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) Create(db *gorm.DB, sub *models.Submission) error {
	return db.Omit("Owner").Create(sub).Error
}

func (r *submissionRepository) Save(db *gorm.DB, sub *models.Submission) error {
	return db.Omit("Owner").Save(sub).Error
}

func (r *submissionRepository) FindByID(db *gorm.DB, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := db.Preload("Owner").Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) List(db *gorm.DB, filter SubmissionFilter) ([]models.Submission, int64, error) {
	var subs []models.Submission
	var total int64

	query := db.Model(&models.Submission{})
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.ReviewerID != "" {
		query = query.Where("assigned_reviewer_id = ?", filter.ReviewerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Preload("Owner").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&subs).Error
	return subs, total, err
}
