package services

import (
	"context"

	"gorm.io/gorm"
)

// ctxOf returns the request context bound to db, for logging.
func ctxOf(db *gorm.DB) context.Context {
	if db != nil && db.Statement != nil && db.Statement.Context != nil {
		return db.Statement.Context
	}
	return context.Background()
}
