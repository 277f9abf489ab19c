package app

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/config"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/models"
	"sg44_backend/internal/testutil"
)

func seedConfig() *config.Config {
	cfg := &config.Config{}
	cfg.FirstAdmin.Email = " Organizer@Example.com "
	cfg.FirstAdmin.Password = "admin-password"
	cfg.FirstAdmin.Name = "Organizer"
	return cfg
}

func findByEmail(t *testing.T, db *gorm.DB, addr string) []models.User {
	t.Helper()
	var users []models.User
	require.NoError(t, db.Where("email = ?", addr).Find(&users).Error)
	return users
}

func TestSeedFirstAdmin_CreatesVerifiedAdminOnce(t *testing.T) {
	logger.InitWithWriter("test", io.Discard)
	db := testutil.NewTestDB(t)
	cfg := seedConfig()

	require.NoError(t, seedFirstAdmin(db, cfg))

	users := findByEmail(t, db, "organizer@example.com")
	require.Len(t, users, 1)
	admin := users[0]
	assert.Equal(t, models.UserRoleAdmin, admin.Role)
	assert.True(t, admin.IsVerified)
	assert.Equal(t, "Organizer", admin.Name)
	assert.True(t, auth.CheckPasswordHash("admin-password", admin.PasswordHash))

	require.NoError(t, seedFirstAdmin(db, cfg))

	again := findByEmail(t, db, "organizer@example.com")
	require.Len(t, again, 1)
	assert.Equal(t, admin.ID, again[0].ID)
	assert.Equal(t, admin.PasswordHash, again[0].PasswordHash)
}

func TestSeedFirstAdmin_PromotesExistingUser(t *testing.T) {
	logger.InitWithWriter("test", io.Discard)
	db := testutil.NewTestDB(t)
	existing := testutil.CreateUser(t, db, &models.User{Name: "Organizer", Email: "organizer@example.com"})
	require.Equal(t, models.UserRoleUser, existing.Role)

	require.NoError(t, seedFirstAdmin(db, seedConfig()))

	users := findByEmail(t, db, "organizer@example.com")
	require.Len(t, users, 1)
	assert.Equal(t, existing.ID, users[0].ID)
	assert.Equal(t, models.UserRoleAdmin, users[0].Role)
	// the account keeps its own password
	assert.True(t, auth.CheckPasswordHash("password123", users[0].PasswordHash))
}

func TestSeedFirstAdmin_SkipsWithoutCredentials(t *testing.T) {
	logger.InitWithWriter("test", io.Discard)
	db := testutil.NewTestDB(t)

	cfg := seedConfig()
	cfg.FirstAdmin.Password = ""
	require.NoError(t, seedFirstAdmin(db, cfg))

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}
