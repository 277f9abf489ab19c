package repositories

import (
	"errors"

	"gorm.io/gorm"

	"sg44_backend/database"
	"sg44_backend/internal/models"
)

var (
	ErrNewsNotFound  = errors.New("news post not found")
	ErrNewsSlugTaken = errors.New("news slug already exists")
)

type NewsRepository interface {
	Create(db *gorm.DB, post *models.NewsPost) error
	Save(db *gorm.DB, post *models.NewsPost) error
	FindBySlug(db *gorm.DB, slug string) (*models.NewsPost, error)
	List(db *gorm.DB, category string, page, pageSize int) ([]models.NewsPost, int64, error)
	DeleteBySlug(db *gorm.DB, slug string) error
}

type newsRepository struct{}

func NewNewsRepository() NewsRepository {
	return &newsRepository{}
}

func (r *newsRepository) Create(db *gorm.DB, post *models.NewsPost) error {
	if err := db.Create(post).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return ErrNewsSlugTaken
		}
		return err
	}
	return nil
}

func (r *newsRepository) Save(db *gorm.DB, post *models.NewsPost) error {
	if err := db.Save(post).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return ErrNewsSlugTaken
		}
		return err
	}
	return nil
}

func (r *newsRepository) FindBySlug(db *gorm.DB, slug string) (*models.NewsPost, error) {
	var post models.NewsPost
	if err := db.Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *newsRepository) List(db *gorm.DB, category string, page, pageSize int) ([]models.NewsPost, int64, error) {
	var posts []models.NewsPost
	var total int64

	query := db.Model(&models.NewsPost{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	err := query.Order("published_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts).Error
	return posts, total, err
}

func (r *newsRepository) DeleteBySlug(db *gorm.DB, slug string) error {
	result := db.Where("slug = ?", slug).Delete(&models.NewsPost{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNewsNotFound
	}
	return nil
}
