package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/testutil"
)

func TestTokenCleanupWorker_RunOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, &models.User{Email: "tokens@example.com"})

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	require.NoError(t, db.Create(&models.RefreshToken{UserID: user.ID, Token: "old", ExpiresAt: past}).Error)
	require.NoError(t, db.Create(&models.RefreshToken{UserID: user.ID, Token: "fresh", ExpiresAt: now.Add(time.Hour)}).Error)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{"reset_token": "stale", "reset_token_exp": past}).Error)

	w := NewTokenCleanupWorker(db, repositories.NewRefreshTokenRepository())
	w.now = func() time.Time { return now }
	require.NoError(t, w.RunOnce(context.Background()))

	var tokens []models.RefreshToken
	require.NoError(t, db.Find(&tokens).Error)
	require.Len(t, tokens, 1)
	assert.Equal(t, "fresh", tokens[0].Token)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Empty(t, stored.ResetToken)
	assert.Nil(t, stored.ResetTokenExp)
}
