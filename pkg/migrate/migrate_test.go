package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateEmbedded())
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	bad := fstest.MapFS{
		"20250101000000_ok.sql":  {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20250101000000_dup.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	require.Error(t, ValidateFS(bad))

	missingDown := fstest.MapFS{
		"20250101000000_ok.sql": {Data: []byte("-- +goose Up\n")},
	}
	require.Error(t, ValidateFS(missingDown))

	badName := fstest.MapFS{"create carts.sql": {Data: []byte("")}}
	require.Error(t, ValidateFS(badName))
}

func TestRunUpCreatesCartDocuments(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "carts.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Run(context.Background(), sqlDB, Dialect("sqlite"), "up"))
	require.True(t, conn.Migrator().HasTable("cart_documents"))

	require.NoError(t, MigrateToVersion(context.Background(), sqlDB, "sqlite3", "0"))
	require.False(t, conn.Migrator().HasTable("cart_documents"))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Cart Index")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_cart_index.sql"))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(body), "-- +goose Up")
	require.Contains(t, string(body), "SELECT 'down: add_cart_index';")
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "  !!  ")
	require.Error(t, err)
	_, err = CreateSQLMigration("", "cart index")
	require.Error(t, err)
}

func TestCreateRefusesExistingVersion(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC)
	path, err := createAt(dir, "cart ttl", at)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20261014083000_cart_ttl.sql"), path)

	_, err = createAt(dir, "Cart-TTL", at)
	require.ErrorContains(t, err, "already exists")
}

func TestMigrationSlug(t *testing.T) {
	tests := map[string]string{
		"Add Cart Index":     "add_cart_index",
		"  cart--documents ": "cart_documents",
		"v2 Body JSON":       "v2_body_json",
		"???":                "",
	}
	for in, want := range tests {
		require.Equal(t, want, MigrationSlug(in), in)
	}
}

func TestDialect(t *testing.T) {
	require.Equal(t, "sqlite3", Dialect("sqlite"))
	require.Equal(t, "postgres", Dialect("postgres"))
	require.Equal(t, "postgres", Dialect(""))
}
