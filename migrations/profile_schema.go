package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	gameprofile "github.com/goliatone/go-gameprofile"
)

// additiveProfileColumns arrived after the first deployments; existing tables
// are patched in place so older installs keep their data.
var additiveProfileColumns = []struct {
	Name string
	DDL  string
}{
	{Name: "external_id", DDL: "external_id BIGINT"},
	{Name: "location_x", DDL: "location_x INTEGER"},
	{Name: "location_y", DDL: "location_y INTEGER"},
	{Name: "recurring_note", DDL: "recurring_note TEXT NOT NULL DEFAULT ''"},
	{Name: "avatar_url", DDL: "avatar_url TEXT NOT NULL DEFAULT ''"},
	{Name: "skip_merge_prompt", DDL: "skip_merge_prompt BOOLEAN NOT NULL DEFAULT FALSE"},
}

// EnsureProfileSchema creates the profiles table when missing and adds any
// columns introduced after the table was first deployed. The operation is
// idempotent and safe to run at every startup.
func EnsureProfileSchema(ctx context.Context, db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("migrations: db required")
	}
	normalized, err := normalizeDialect(dialect)
	if err != nil {
		return err
	}

	cols, err := fetchColumns(ctx, db, normalized, "profiles")
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return createProfilesTable(ctx, db, normalized)
	}
	for _, col := range additiveProfileColumns {
		if cols[col.Name] {
			continue
		}
		stmt := "ALTER TABLE profiles ADD COLUMN " + col.DDL
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrations: adding column %s: %w", col.Name, err)
		}
	}
	return nil
}

func normalizeDialect(dialect string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}

func createProfilesTable(ctx context.Context, db *sql.DB, dialect string) error {
	path := "data/sql/migrations/00001_profiles.up.sql"
	if dialect == "sqlite" {
		path = "data/sql/migrations/sqlite/00001_profiles.up.sql"
	}
	ddl, err := gameprofile.GetMigrationsFS().ReadFile(path)
	if err != nil {
		return fmt.Errorf("migrations: reading profile DDL: %w", err)
	}
	for _, stmt := range splitStatements(string(ddl)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrations: creating profiles table: %w", err)
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

func fetchColumns(ctx context.Context, db *sql.DB, dialect, table string) (map[string]bool, error) {
	switch dialect {
	case "postgres":
		return fetchColumnsPostgres(ctx, db, table)
	case "sqlite":
		return fetchColumnsSQLite(ctx, db, table)
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}

func fetchColumnsPostgres(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
	`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}

func fetchColumnsSQLite(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultV   sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultV, &primaryKey); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}
