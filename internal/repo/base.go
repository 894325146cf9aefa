package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is what every farm repository embeds: it owns the gorm handle and
// the context plumbing so the domain repositories only write queries.
type Base struct {
	db *gorm.DB
}

// NewBase wraps a gorm handle for embedding in a domain repository.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds the handle to ctx so cancellation propagates into the query.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
