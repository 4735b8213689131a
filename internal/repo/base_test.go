package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/inventory/pkg/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type row struct {
	ID   int
	Name string
}

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:repo_base?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&row{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db.Wrap(conn)
}

func TestBaseDB_BindsContext(t *testing.T) {
	client := newTestClient(t)
	base := NewBase(client)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)

	if withCtx == nil {
		t.Fatalf("expected non-nil DB when context provided")
	}
	if withCtx.Statement == nil {
		t.Fatalf("expected statement created after WithContext")
	}
	if withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", withCtx.Statement.Context)
	}

	withoutCtx := base.DB(nil)
	if withoutCtx != client.DB() {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseTx_RollsBackOnError(t *testing.T) {
	base := NewBase(newTestClient(t))
	ctx := context.Background()

	err := base.Tx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&row{Name: "discarded"}).Error; err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected Tx to surface fn error")
	}

	var count int64
	if err := base.DB(ctx).Model(&row{}).Where("name = ?", "discarded").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}
	if err := base.Ping(ctx); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}
