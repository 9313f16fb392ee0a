package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/coronelbarros/storefront/pkg/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db.NewFromGorm(conn, db.DialectSQLite)
}

func TestRunUpCreatesTablesOnSQLite(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.SQL()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}

	if err := Run(context.Background(), sqlDB, client.Dialect(), "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}

	for _, table := range []string{"products", "profiles", "hero_slides"} {
		if !client.DB().Migrator().HasTable(table) {
			t.Fatalf("expected table %s after migration", table)
		}
	}

	if err := Run(context.Background(), sqlDB, client.Dialect(), "down"); err != nil {
		t.Fatalf("goose down: %v", err)
	}
	if client.DB().Migrator().HasTable("hero_slides") {
		t.Fatal("expected last migration to be rolled back")
	}
}

func TestRunRequiresDB(t *testing.T) {
	if err := Run(context.Background(), nil, "sqlite3", "up"); err == nil {
		t.Fatal("expected nil db to fail")
	}
}

func TestMigrateToVersionRejectsGarbage(t *testing.T) {
	client := openSQLite(t)
	sqlDB, _ := client.SQL()
	if err := MigrateToVersion(context.Background(), sqlDB, client.Dialect(), "latest"); err == nil {
		t.Fatal("expected non-numeric version to fail")
	}
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	if err := ValidateDir(EmbeddedDir); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Hero Slide CTA!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(filepath.Base(path), "_add_hero_slide_cta.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "-- +goose Up") {
		t.Fatalf("missing goose header in %s", body)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestCreateRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	path, err := createAt(dir, "seed slides", at)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20250502090000_seed_slides.sql" {
		t.Fatalf("unexpected filename %s", path)
	}
	if _, err := createAt(dir, "seed slides", at); err == nil {
		t.Fatal("expected second create with same version to fail")
	}
	if _, err := createAt(dir, "!!!", at); err == nil {
		t.Fatal("expected unusable name to fail")
	}
}

func TestValidateRejectsBrokenFiles(t *testing.T) {
	cases := map[string]string{
		"20250101000000_x.sql":  "-- +goose Up\nCREATE TABLE a (id TEXT);\n",
		"bad-name.sql":          "-- +goose Up\n-- +goose Down\n",
		"20250101000001_y.sql":  "-- +goose Up\n-- +goose StatementBegin\n-- +goose Down\n",
		"20250101000002_z.sql":  "-- +goose Up\nCREATE TABLE a (doc JSONB);\n-- +goose Down\n",
		"20250101000003_id.sql": "-- +goose Up\nCREATE TABLE a (id SERIAL);\n-- +goose Down\n",
	}
	for name, body := range cases {
		fsys := fstest.MapFS{name: {Data: []byte(body)}}
		if err := validateFS(fsys); err == nil {
			t.Fatalf("%s: expected validation failure", name)
		}
	}

	ok := fstest.MapFS{
		"20250101000000_a.sql": {Data: []byte("-- +goose Up\n-- jsonb is fine in a comment\nCREATE TABLE a (id TEXT);\n-- +goose Down\nDROP TABLE a;\n")},
		"README.md":            {Data: []byte("ignored")},
	}
	if err := validateFS(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := fstest.MapFS{
		"20250101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20250101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	if err := validateFS(dup); err == nil {
		t.Fatal("expected duplicate version to fail")
	}
}
