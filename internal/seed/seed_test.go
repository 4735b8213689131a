package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/inventory/internal/inventory"
	"github.com/angelmondragon/inventory/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFixture(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	assert.Len(t, f.Categories, 2)
	assert.Len(t, f.Items, 3)
	assert.Equal(t, "29.99", f.Items[2].Price)
}

func TestRunPopulatesStore(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	store := inventory.NewMemoryStore()
	ctx := context.Background()
	res, err := Run(ctx, store, f, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 2, Items: 3}, res)

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Men&#x27;s Fashion", categories[0].Name)

	mens, err := store.ItemsByCategory(ctx, categories[0].ID)
	require.NoError(t, err)
	require.Len(t, mens, 2)
	assert.Equal(t, "Pineapple dream t-shirt", mens[0].Name)
	assert.Equal(t, "Striped Jacket", mens[1].Name)
}

func TestParseRejectsUnknownCategoryKey(t *testing.T) {
	_, err := Parse([]byte(`
categories:
  - key: a
    name: A
items:
  - name: X
    price: "1"
    stock: "1"
    categories: [b]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown category key "b"`)
}

func TestParseRejectsDuplicateKeys(t *testing.T) {
	_, err := Parse([]byte("categories:\n  - key: a\n    name: A\n  - key: a\n    name: B\n"))
	assert.Error(t, err)
}

func TestRunStopsOnInvalidRecord(t *testing.T) {
	store := inventory.NewMemoryStore()
	f := Fixture{Items: []ItemFixture{{Name: "Broken", Price: "free", Stock: "1"}}}

	_, err := Run(context.Background(), store, f, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Price must be a number.")

	n, err := store.CountItems(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - key: a\n    name: A\n"), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Categories, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
