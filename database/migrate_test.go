package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sg44_backend/internal/models"
)

func TestAutoMigrate_RegistrationUserIsUnique(t *testing.T) {
	db, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	user := &models.User{Name: "A", Email: "a@example.com", PasswordHash: "x", Role: models.UserRoleUser}
	require.NoError(t, db.Create(user).Error)

	newReg := func() *models.Registration {
		return &models.Registration{
			UserID:              user.ID,
			TicketType:          models.TicketEarlyBirdStudent,
			Amount:              1500,
			ContactAddress:      "addr",
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

	require.NoError(t, db.Create(newReg()).Error)

	err = db.Create(newReg()).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err), "got %v", err)

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.Error(t, err)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: registrations.user_id")))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
	assert.False(t, IsDuplicateKey(nil))
}
