package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by read-mostly repositories that only need a
// context-bound handle.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx yields the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx returns a Base that issues statements on tx.
func (b Base) WithTx(tx *gorm.DB) Base {
	return Base{db: tx}
}
