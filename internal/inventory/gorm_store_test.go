package inventory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/inventory/pkg/config"
	"github.com/angelmondragon/inventory/pkg/db"
	"github.com/angelmondragon/inventory/pkg/migrate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	client, err := db.New(ctx, config.DBConfig{
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		Driver:       config.StoreBackendSQLite,
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	require.NoError(t, migrate.Run(ctx, sqlDB, "sqlite3", migrate.DefaultDir, "up"))

	store, err := NewGormStore(client)
	require.NoError(t, err)
	return store
}

func TestGormStoreCategories(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	shoes := Category{Name: "Shoes", Description: "Feet"}
	hats := Category{Name: "Hats"}
	require.NoError(t, store.InsertCategory(ctx, &shoes))
	require.NoError(t, store.InsertCategory(ctx, &hats))
	require.NoError(t, uuid.Validate(shoes.ID))

	list, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Hats", list[0].Name)
	assert.Equal(t, "Shoes", list[1].Name)

	got, err := store.GetCategory(ctx, shoes.ID)
	require.NoError(t, err)
	assert.Equal(t, shoes, *got)

	n, err := store.CountCategories(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, store.DeleteCategory(ctx, hats.ID))
	_, err = store.GetCategory(ctx, hats.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteCategory(ctx, hats.ID), ErrNotFound)
}

func TestGormStoreUnknownIDs(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", uuid.NewString()} {
		_, err := store.GetCategory(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, id)
		_, err = store.GetItem(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, id)
		assert.ErrorIs(t, store.DeleteItem(ctx, id), ErrNotFound, id)
		assert.ErrorIs(t, store.ReplaceItem(ctx, &Item{ID: id, Name: "x"}), ErrNotFound, id)
	}
}

func TestGormStoreItemsKeepCategoryOrder(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	men := Category{Name: "Men's Fashion"}
	women := Category{Name: "Women's Fashion"}
	require.NoError(t, store.InsertCategory(ctx, &men))
	require.NoError(t, store.InsertCategory(ctx, &women))

	jacket := Item{
		Name:        "Striped Jacket",
		Description: "Comfortable",
		Price:       decimal.RequireFromString("99"),
		Stock:       6,
		CategoryIDs: []string{women.ID, men.ID},
	}
	require.NoError(t, store.InsertItem(ctx, &jacket))

	scarf := Item{Name: "Scarf", Price: decimal.RequireFromString("29.99"), Stock: 60}
	require.NoError(t, store.InsertItem(ctx, &scarf))

	got, err := store.GetItem(ctx, jacket.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{women.ID, men.ID}, got.CategoryIDs)
	require.Len(t, got.Categories, 2)
	assert.Equal(t, "Women's Fashion", got.Categories[0].Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("99")))
	assert.Equal(t, 6, got.Stock)

	bare, err := store.GetItem(ctx, scarf.ID)
	require.NoError(t, err)
	assert.NotNil(t, bare.CategoryIDs)
	assert.Empty(t, bare.CategoryIDs)
	assert.True(t, bare.Price.Equal(decimal.RequireFromString("29.99")))

	list, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Scarf", list[0].Name)
	assert.Equal(t, "Striped Jacket", list[1].Name)
	assert.Len(t, list[1].Categories, 2)

	dependents, err := store.ItemsByCategory(ctx, men.ID)
	require.NoError(t, err)
	require.Len(t, dependents, 1)
	assert.Equal(t, jacket.ID, dependents[0].ID)

	n, err := store.CountItems(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestGormStoreUnresolvedReferencesAreDropped(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	item := Item{Name: "Orphan", Price: decimal.Zero, CategoryIDs: []string{"legacy-ref", uuid.NewString()}}
	require.NoError(t, store.InsertItem(ctx, &item))

	got, err := store.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, got.CategoryIDs, 2)
	assert.Empty(t, got.Categories)
}

func TestGormStoreReplaceAndDeleteItem(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	hats := Category{Name: "Hats"}
	require.NoError(t, store.InsertCategory(ctx, &hats))
	item := Item{Name: "Fedora", Price: decimal.RequireFromString("10"), Stock: 1, CategoryIDs: []string{hats.ID}}
	require.NoError(t, store.InsertItem(ctx, &item))

	replaced := Item{ID: item.ID, Name: "Trilby", Description: "Narrow brim", Price: decimal.RequireFromString("12.5"), Stock: 3, CategoryIDs: []string{}}
	require.NoError(t, store.ReplaceItem(ctx, &replaced))

	got, err := store.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, "Trilby", got.Name)
	assert.Equal(t, 3, got.Stock)
	assert.Empty(t, got.CategoryIDs)

	dependents, err := store.ItemsByCategory(ctx, hats.ID)
	require.NoError(t, err)
	assert.Empty(t, dependents)

	require.NoError(t, store.DeleteItem(ctx, item.ID))
	_, err = store.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Ping(ctx))
}

func TestGormStoreDrivesWorkflows(t *testing.T) {
	store := newGormStore(t)
	categories, items := newServices(t, store)
	ctx := context.Background()

	out, err := categories.CreateCategory(ctx, CategoryInput{Name: "Hats"})
	require.NoError(t, err)
	require.Equal(t, OutcomeRedirect, out.Kind)
	hatsID := strings.TrimPrefix(out.RedirectTo, "/category/")

	out, err = items.CreateItem(ctx, ItemInput{Name: "Fedora", Price: "10", Stock: "1", Category: ScalarSelection(hatsID)})
	require.NoError(t, err)
	require.Equal(t, OutcomeRedirect, out.Kind)

	out, err = categories.DeleteCategory(ctx, hatsID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeReferentialConflict, out.Kind)
}
