package migrations_test

import (
	"context"
	"database/sql"
	"io/fs"
	"sort"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-gameprofile/migrations"
)

func TestMigrationsApplyToSQLite(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	for _, fsys := range migrations.Filesystems() {
		if err := applyFilesystem(ctx, db, fsys); err != nil {
			t.Fatalf("failed to apply migrations: %v", err)
		}
	}

	var tableName string
	if err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='profiles'").Scan(&tableName); err != nil {
		t.Fatalf("failed to verify profiles table: %v", err)
	}
	if tableName != "profiles" {
		t.Fatalf("expected profiles table, got %q", tableName)
	}
}

func TestEnsureProfileSchema_CreatesTable(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	if err := migrations.EnsureProfileSchema(ctx, db, "sqlite"); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := migrations.EnsureProfileSchema(ctx, db, "sqlite"); err != nil {
		t.Fatalf("second run must be a no-op: %v", err)
	}

	if _, err := db.ExecContext(ctx, "INSERT INTO profiles (id, owner_id, skip_merge_prompt) VALUES ('a', 100, TRUE)"); err != nil {
		t.Fatalf("table missing expected columns: %v", err)
	}
}

func TestEnsureProfileSchema_AddsColumnsToLegacyTable(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	legacy := `CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		owner_id BIGINT NOT NULL UNIQUE,
		external_id BIGINT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.ExecContext(ctx, legacy); err != nil {
		t.Fatalf("failed to seed legacy table: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO profiles (id, owner_id, external_id) VALUES ('a', 100, 555)"); err != nil {
		t.Fatalf("failed to seed legacy row: %v", err)
	}

	if err := migrations.EnsureProfileSchema(ctx, db, "sqlite"); err != nil {
		t.Fatalf("schema repair failed: %v", err)
	}

	var skip bool
	var note string
	row := db.QueryRowContext(ctx, "SELECT skip_merge_prompt, recurring_note FROM profiles WHERE owner_id = 100")
	if err := row.Scan(&skip, &note); err != nil {
		t.Fatalf("repaired columns missing: %v", err)
	}
	if skip {
		t.Fatal("skip_merge_prompt must default to false for existing rows")
	}
	if note != "" {
		t.Fatalf("recurring_note must default empty, got %q", note)
	}

	var externalID int64
	if err := db.QueryRowContext(ctx, "SELECT external_id FROM profiles WHERE owner_id = 100").Scan(&externalID); err != nil {
		t.Fatalf("existing data lost: %v", err)
	}
	if externalID != 555 {
		t.Fatalf("expected external_id 555, got %d", externalID)
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func applyFilesystem(ctx context.Context, db *sql.DB, filesystem fs.FS) error {
	entries, err := fs.Glob(filesystem, "sqlite/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(entries)
	for _, entry := range entries {
		sqlBytes, err := fs.ReadFile(filesystem, entry)
		if err != nil {
			return err
		}
		for _, stmt := range splitStatements(string(sqlBytes)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitStatements(script string) []string {
	parts := strings.Split(script, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
