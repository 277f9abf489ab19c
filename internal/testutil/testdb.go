// Package testutil provides fixtures shared by package tests: an in-memory
// database with the full schema and builders for common records.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sg44_backend/database"
	"sg44_backend/internal/models"
)

var dbSeq atomic.Int64

// NewTestDB opens a private in-memory SQLite database and migrates it.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "open test database")
	require.NoError(t, database.AutoMigrate(db), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a verified user. A PasswordHash that is not already a
// bcrypt hash is treated as the raw password and hashed.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	t.Helper()

	if user.PasswordHash == "" {
		user.PasswordHash = "password123"
	}
	if !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.MinCost)
		require.NoError(t, err)
		user.PasswordHash = string(hashed)
	}
	if user.Role == "" {
		user.Role = models.UserRoleUser
	}
	if user.Name == "" {
		user.Name = "Test User"
	}
	user.Email = strings.ToLower(user.Email)
	user.IsVerified = true

	require.NoError(t, db.Create(user).Error, "create user %s", user.Email)
	return user
}

// NewRegistration returns a valid, unsaved registration for userID with no
// meals selected.
func NewRegistration(userID string) *models.Registration {
	return &models.Registration{
		UserID:              userID,
		TicketType:          models.TicketStandardRegular,
		Amount:              2700,
		ContactAddress:      "No. 1, Roosevelt Rd, Taipei",
		ParticipantRole:     models.ParticipantAttendee,
		PresentationType:    models.PresentationNone,
		PaymentAccountLast5: "12345",
		PaymentDate:         datatypes.Date(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
		MealDay1:            models.No,
		MealDay2:            models.No,
		Banquet:             models.No,
		PaymentStatus:       models.PaymentStatusPending,
	}
}

// CreateRegistration inserts reg as-is.
func CreateRegistration(t *testing.T, db *gorm.DB, reg *models.Registration) *models.Registration {
	t.Helper()
	require.NoError(t, db.Omit("User").Create(reg).Error)
	return reg
}
