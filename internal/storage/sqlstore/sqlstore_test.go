package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jravahfoods/storefront/internal/storage"
	"github.com/jravahfoods/storefront/pkg/migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "carts.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Run(context.Background(), sqlDB, migrate.Dialect("sqlite"), "up"))
	return conn
}

func TestUpsertAndRead(t *testing.T) {
	ctx := context.Background()
	store, err := New(newTestDB(t))
	require.NoError(t, err)

	_, err = store.Read(ctx, "cart:s1")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Write(ctx, "cart:s1", []byte(`[{"productId":1}]`)))
	require.NoError(t, store.Write(ctx, "cart:s1", []byte(`[]`)))

	got, err := store.Read(ctx, "cart:s1")
	require.NoError(t, err)
	require.Equal(t, "[]", string(got))

	var count int64
	require.NoError(t, store.db.Table("cart_documents").Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.NoError(t, store.Ping(ctx))
}

func TestNewRequiresDB(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
