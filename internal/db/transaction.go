package db

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/diymedia/internal/logger"
	"gorm.io/gorm"
)

// WithTransaction runs fn in a transaction named op. A nil return commits;
// an error or panic rolls back and the error is returned wrapped with op.
func (db *DB) WithTransaction(ctx context.Context, op string, fn func(*gorm.DB) error) error {
	err := db.DB.WithContext(ctx).Transaction(fn)
	if err != nil {
		logger.Log.Debug().
			Err(err).
			Str("op", op).
			Msg("Transaction rolled back")
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
