package repositories

import (
	"errors"

	"gorm.io/gorm"

	"sg44_backend/database"
	"sg44_backend/internal/models"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationExists   = errors.New("registration already exists for user")
)

// ExportLimit bounds the full-collection scans used by stats and CSV export.
const ExportLimit = 5000

type RegistrationRepository interface {
	Create(db *gorm.DB, reg *models.Registration) error
	Save(db *gorm.DB, reg *models.Registration) error
	FindByID(db *gorm.DB, id string) (*models.Registration, error)
	FindByUserID(db *gorm.DB, userID string) (*models.Registration, error)
	UpdatePaymentStatus(db *gorm.DB, id string, status models.PaymentStatus) error
	List(db *gorm.DB, filter RegistrationFilter) ([]models.Registration, int64, error)
	ListAll(db *gorm.DB, limit int) ([]models.Registration, error)
}

type RegistrationFilter struct {
	PaymentStatus models.PaymentStatus
	Page          int
	PageSize      int
}

type registrationRepository struct{}

func NewRegistrationRepository() RegistrationRepository {
	return &registrationRepository{}
}

// Create inserts reg. The unique index on user_id turns a concurrent duplicate
// into ErrRegistrationExists.
func (r *registrationRepository) Create(db *gorm.DB, reg *models.Registration) error {
	if err := db.Omit("User").Create(reg).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return ErrRegistrationExists
		}
		return err
	}
	return nil
}

// Save writes every column of an existing record, including NULLs for the
// conditional fields cleared by normalisation.
func (r *registrationRepository) Save(db *gorm.DB, reg *models.Registration) error {
	result := db.Omit("User").Save(reg)
	if result.Error != nil {
		if database.IsDuplicateKey(result.Error) {
			return ErrRegistrationExists
		}
		return result.Error
	}
	return nil
}

func (r *registrationRepository) FindByID(db *gorm.DB, id string) (*models.Registration, error) {
	return r.findOne(db, "registrations.id = ?", id)
}

func (r *registrationRepository) FindByUserID(db *gorm.DB, userID string) (*models.Registration, error) {
	return r.findOne(db, "registrations.user_id = ?", userID)
}

func (r *registrationRepository) findOne(db *gorm.DB, query string, arg interface{}) (*models.Registration, error) {
	var reg models.Registration
	if err := db.Preload("User").Where(query, arg).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// UpdatePaymentStatus touches only the status column (and updated_at).
func (r *registrationRepository) UpdatePaymentStatus(db *gorm.DB, id string, status models.PaymentStatus) error {
	result := db.Model(&models.Registration{}).Where("id = ?", id).Update("payment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *registrationRepository) List(db *gorm.DB, filter RegistrationFilter) ([]models.Registration, int64, error) {
	var regs []models.Registration
	var total int64

	query := db.Model(&models.Registration{})
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&regs).Error

	return regs, total, err
}

// ListAll returns up to limit records, oldest first.
func (r *registrationRepository) ListAll(db *gorm.DB, limit int) ([]models.Registration, error) {
	if limit <= 0 || limit > ExportLimit {
		limit = ExportLimit
	}
	var regs []models.Registration
	err := db.Preload("User").
		Order("created_at ASC").
		Limit(limit).
		Find(&regs).Error
	return regs, err
}
