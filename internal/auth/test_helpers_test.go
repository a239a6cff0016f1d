package auth

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates an in-memory SQLite database with the users schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE UNIQUE INDEX idx_users_username ON users(username);
		CREATE UNIQUE INDEX idx_users_email ON users(email);
		CREATE INDEX idx_users_created_at ON users(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("applying users schema: %v", err)
	}

	return db
}

// seedTestUser inserts a credential record and returns it.
func seedTestUser(t *testing.T, repo UserRepository, username, email string) *User {
	t.Helper()

	hash, err := HashPassword("test-password")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &User{
		Username:     username,
		Email:        email,
		FullName:     username + " Test",
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user %s: %v", username, err)
	}
	return user
}
