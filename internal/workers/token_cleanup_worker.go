package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sg44_backend/internal/logger"
	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
)

// TokenCleanupWorker removes expired refresh tokens and clears stale password
// reset tokens. It is run on demand by the cleanup-tokens command.
type TokenCleanupWorker struct {
	db     *gorm.DB
	tokens repositories.RefreshTokenRepository
	now    func() time.Time
}

func NewTokenCleanupWorker(db *gorm.DB, tokens repositories.RefreshTokenRepository) *TokenCleanupWorker {
	return &TokenCleanupWorker{db: db, tokens: tokens, now: time.Now}
}

// RunOnce performs a single cleanup pass.
func (w *TokenCleanupWorker) RunOnce(ctx context.Context) error {
	db := w.db.WithContext(ctx)
	now := w.now()

	if err := w.tokens.CleanExpired(db, now); err != nil {
		return err
	}

	result := db.Model(&models.User{}).
		Where("reset_token <> '' AND reset_token_exp < ?", now).
		Updates(map[string]interface{}{"reset_token": "", "reset_token_exp": nil})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.CtxInfo(ctx, "cleared expired password reset tokens", "count", result.RowsAffected)
	}
	return nil
}
