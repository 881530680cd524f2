// Package repo holds the persistence plumbing shared by domain repositories.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the GORM handle shared by domain repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx so deadlines and cancellation
// propagate into queries.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Transaction runs fn inside a context-bound transaction, rolling back when
// fn returns an error.
func (b Base) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}
