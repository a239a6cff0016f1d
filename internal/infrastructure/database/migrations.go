package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MigrationsFS should be set by the migrations package to embed migration
// files. This lets the schema ship inside the binary.
//
//	//go:embed *.sql
//	var migrationsFS embed.FS
//
//	func init() {
//	    database.MigrationsFS = migrationsFS
//	}
var MigrationsFS embed.FS

// MigrationsDir is the directory within MigrationsFS containing migration
// files. "." when files sit at the root of the embedded filesystem.
var MigrationsDir = "."

// Migration represents a single database migration.
type Migration struct {
	// Version is extracted from the filename: YYYYMMDD_HHMMSS.
	Version string

	// Name is the human-readable migration name.
	Name string

	// UpSQL contains the SQL to apply this migration.
	UpSQL string

	// DownSQL contains the SQL to roll this migration back.
	DownSQL string
}

// Migrate applies all pending migrations to the database, oldest first.
//
// Each migration runs in its own transaction: if migration N fails, 1..N-1
// stay committed, N is rolled back, and N+1 onwards are not attempted.
// Re-running Migrate after fixing the issue continues from N.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	if len(migrations) == 0 {
		return nil
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("getting applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration %s (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist.
func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

// appliedVersions returns the set of migration versions already applied.
func (db *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := db.DB.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("querying migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scanning migration row: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating migrations: %w", err)
	}
	return applied, nil
}

// applyMigration applies a single migration within a transaction.
func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil {
		return fmt.Errorf("executing SQL: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		m.Version,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}

// loadMigrations loads all migration files from the embedded filesystem.
func loadMigrations() ([]Migration, error) {
	var empty embed.FS
	if MigrationsFS == empty {
		return nil, nil // No embedded migrations registered
	}

	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		return nil, nil
	}

	upFiles := make(map[string]string)
	downFiles := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, isUp, ok := parseMigrationFilename(entry.Name())
		if !ok {
			continue
		}
		if isUp {
			upFiles[version] = entry.Name()
		} else {
			downFiles[version] = entry.Name()
		}
	}

	var migrations []Migration
	for version, upFile := range upFiles {
		m, err := buildMigration(version, upFile, downFiles[version])
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// parseMigrationFilename extracts version and direction from a migration
// filename of the form YYYYMMDD_HHMMSS_description.up.sql (or .down.sql).
func parseMigrationFilename(name string) (version string, isUp bool, ok bool) {
	if !strings.HasSuffix(name, ".sql") {
		return "", false, false
	}

	base := strings.TrimSuffix(name, ".sql")

	switch {
	case strings.HasSuffix(base, ".up"):
		isUp = true
		base = strings.TrimSuffix(base, ".up")
	case strings.HasSuffix(base, ".down"):
		isUp = false
		base = strings.TrimSuffix(base, ".down")
	default:
		return "", false, false
	}

	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 2 {
		return "", false, false
	}

	return parts[0] + "_" + parts[1], isUp, true
}

// buildMigration creates a single Migration from its files.
func buildMigration(version, upFile, downFile string) (Migration, error) {
	upSQL, err := fs.ReadFile(MigrationsFS, filepath.Join(MigrationsDir, upFile))
	if err != nil {
		return Migration{}, fmt.Errorf("reading %s: %w", upFile, err)
	}

	m := Migration{
		Version: version,
		Name:    extractMigrationName(upFile),
		UpSQL:   string(upSQL),
	}

	if downFile != "" {
		downSQL, err := fs.ReadFile(MigrationsFS, filepath.Join(MigrationsDir, downFile))
		if err != nil {
			return Migration{}, fmt.Errorf("reading %s: %w", downFile, err)
		}
		m.DownSQL = string(downSQL)
	}

	return m, nil
}

// extractMigrationName extracts a human-readable name from the filename.
// Example: "20260815_100000_create_users.up.sql" -> "create_users"
func extractMigrationName(filename string) string {
	base := strings.TrimSuffix(filename, ".sql")
	base = strings.TrimSuffix(base, ".up")
	base = strings.TrimSuffix(base, ".down")

	parts := strings.SplitN(base, "_", 3)
	if len(parts) == 3 {
		return parts[2]
	}
	return base
}
