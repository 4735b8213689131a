package repo

import (
	"context"

	"github.com/angelmondragon/inventory/pkg/db"
	"gorm.io/gorm"
)

// Base provides a shared foundation for gorm-backed stores.
type Base struct {
	client *db.Client
}

// NewBase constructs a Base bound to the provided client.
func NewBase(client *db.Client) Base {
	return Base{client: client}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.client.DB()
	}
	return b.client.DB().WithContext(ctx)
}

// Tx runs fn in a transaction; fn must use the tx handle for every statement.
func (b Base) Tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.client.WithTx(ctx, fn)
}

// Ping reports whether the underlying database answers.
func (b Base) Ping(ctx context.Context) error {
	return b.client.Ping(ctx)
}
