package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/inventory/pkg/logger"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store down")

// flakyStore fails the named operations and delegates the rest.
type flakyStore struct {
	*MemoryStore
	failing map[string]bool
	inserts int
}

func newFlakyStore(ops ...string) *flakyStore {
	failing := map[string]bool{}
	for _, op := range ops {
		failing[op] = true
	}
	return &flakyStore{MemoryStore: NewMemoryStore(), failing: failing}
}

func (f *flakyStore) ListCategories(ctx context.Context) ([]Category, error) {
	if f.failing["ListCategories"] {
		return nil, errStoreDown
	}
	return f.MemoryStore.ListCategories(ctx)
}

func (f *flakyStore) ItemsByCategory(ctx context.Context, id string) ([]Item, error) {
	if f.failing["ItemsByCategory"] {
		return nil, errStoreDown
	}
	return f.MemoryStore.ItemsByCategory(ctx, id)
}

func (f *flakyStore) CountItems(ctx context.Context) (int64, error) {
	if f.failing["CountItems"] {
		return 0, errStoreDown
	}
	return f.MemoryStore.CountItems(ctx)
}

func (f *flakyStore) InsertCategory(ctx context.Context, c *Category) error {
	f.inserts++
	return f.MemoryStore.InsertCategory(ctx, c)
}

func (f *flakyStore) InsertItem(ctx context.Context, it *Item) error {
	f.inserts++
	if f.failing["InsertItem"] {
		return errStoreDown
	}
	return f.MemoryStore.InsertItem(ctx, it)
}

func newServices(t *testing.T, store Store) (CategoryService, ItemService) {
	t.Helper()
	logg := logger.Nop()
	categories, err := NewCategoryService(store, logg)
	if err != nil {
		t.Fatalf("category service: %v", err)
	}
	items, err := NewItemService(store, logg)
	if err != nil {
		t.Fatalf("item service: %v", err)
	}
	return categories, items
}

func mustInsertCategory(t *testing.T, store Store, name string) Category {
	t.Helper()
	c := Category{Name: name, Description: name + " things"}
	if err := store.InsertCategory(context.Background(), &c); err != nil {
		t.Fatalf("insert category: %v", err)
	}
	return c
}

func mustInsertItem(t *testing.T, store Store, name string, categoryIDs ...string) Item {
	t.Helper()
	it := Item{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString("19.99"),
		Stock:       4,
		CategoryIDs: categoryIDs,
	}
	if err := store.InsertItem(context.Background(), &it); err != nil {
		t.Fatalf("insert item: %v", err)
	}
	return it
}
