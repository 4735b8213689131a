package inventory

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports that an id does not resolve to a stored record.
	ErrNotFound = errors.New("inventory: record not found")
	// ErrInvalidReference reports a category reference the backend cannot store.
	ErrInvalidReference = errors.New("inventory: invalid category reference")
)

// Store is the document store the workflows run against. Implementations
// assign ids on insert and return ErrNotFound for ids that do not resolve,
// including ids that are not well formed for the backend.
type Store interface {
	// ListCategories returns every category ordered by name.
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	InsertCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, id string) error
	CountCategories(ctx context.Context) (int64, error)

	// ListItems returns every item ordered by name with ID, Name, Description,
	// CategoryIDs and the resolved Categories loaded.
	ListItems(ctx context.Context) ([]Item, error)
	// GetItem returns the full item with Categories resolved.
	GetItem(ctx context.Context, id string) (*Item, error)
	// ItemsByCategory returns the items whose category list contains
	// categoryID, loading only ID, Name and Description.
	ItemsByCategory(ctx context.Context, categoryID string) ([]Item, error)
	InsertItem(ctx context.Context, item *Item) error
	// ReplaceItem overwrites every field of the item stored at item.ID.
	ReplaceItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id string) error
	CountItems(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
}
