package backend

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/angelmondragon/inventory/internal/inventory"
	"github.com/angelmondragon/inventory/pkg/config"
	"github.com/angelmondragon/inventory/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreBackendMemory}}

	b, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &inventory.MemoryStore{}, b.Store)
	assert.NoError(t, b.Close())
}

func TestOpenSQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		App:   config.AppConfig{Env: config.AppEnvProd},
		Store: config.StoreConfig{Backend: config.StoreBackendSQLite},
		DB: config.DBConfig{
			DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
			Driver:       config.StoreBackendSQLite,
			MaxOpenConns: 1,
		},
	}

	b, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx := context.Background()
	c := inventory.Category{Name: "Hats"}
	require.NoError(t, b.Store.InsertCategory(ctx, &c))
	n, err := b.Store.CountCategories(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Backend: "dynamo"}}, nil)
	assert.Error(t, err)

	_, err = Open(context.Background(), nil, nil)
	assert.Error(t, err)
}

type closeRecorder struct {
	order *[]string
	name  string
	err   error
}

func (c closeRecorder) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestCloseReleasesInReverseAndCombinesErrors(t *testing.T) {
	var order []string
	b := &Backend{closers: []io.Closer{
		closeRecorder{order: &order, name: "first", err: fmt.Errorf("first failed")},
		closeRecorder{order: &order, name: "second", err: fmt.Errorf("second failed")},
	}}

	err := b.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first failed")
	assert.Contains(t, err.Error(), "second failed")
	assert.Equal(t, []string{"second", "first"}, order)
	assert.NoError(t, b.Close())
}
