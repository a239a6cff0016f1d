package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	created := seedTestUser(t, repo, "alice", "alice@example.com")
	if created.ID == "" {
		t.Fatal("Create() should assign an ID")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("Create() should set the creation timestamp")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("GetByID() = %+v, want alice/alice@example.com", got)
	}
	if !got.IsActive {
		t.Error("IsActive should round-trip as true")
	}
	if got.PasswordHash != created.PasswordHash {
		t.Error("password hash should round-trip unchanged")
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("GetByEmail() ID = %q, want %q", byEmail.ID, created.ID)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "no-such-id"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() error = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_DuplicateUser(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	seedTestUser(t, repo, "alice", "alice@example.com")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same email", "bob", "alice@example.com"},
		{"same username", "alice", "bob@example.com"},
		{"both same", "alice", "alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dup := &User{
				Username:     tt.username,
				Email:        tt.email,
				FullName:     "Duplicate",
				PasswordHash: "x",
				IsActive:     true,
			}
			if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicateUser) {
				t.Errorf("Create() error = %v, want ErrDuplicateUser", err)
			}
		})
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 after rejected duplicates", count)
	}
}

func TestUserRepository_FindByEmailOrUsername(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	alice := seedTestUser(t, repo, "alice", "alice@example.com")

	got, err := repo.FindByEmailOrUsername(ctx, "alice@example.com", "someone-else")
	if err != nil {
		t.Fatalf("FindByEmailOrUsername() by email error = %v", err)
	}
	if got.ID != alice.ID {
		t.Errorf("match by email: ID = %q, want %q", got.ID, alice.ID)
	}

	got, err = repo.FindByEmailOrUsername(ctx, "other@example.com", "alice")
	if err != nil {
		t.Fatalf("FindByEmailOrUsername() by username error = %v", err)
	}
	if got.ID != alice.ID {
		t.Errorf("match by username: ID = %q, want %q", got.ID, alice.ID)
	}

	if _, err := repo.FindByEmailOrUsername(ctx, "other@example.com", "other"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("no match: error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	// Insert with explicit timestamps so the newest-first order is
	// deterministic regardless of clock resolution.
	rows := []struct {
		id, username, email, createdAt string
	}{
		{"id-1", "alice", "alice@example.com", "2026-01-01T10:00:00Z"},
		{"id-2", "bob", "bob@example.com", "2026-01-02T10:00:00Z"},
		{"id-3", "carol", "carol@example.com", "2026-01-03T10:00:00Z"},
	}
	for _, r := range rows {
		_, err := db.Exec(
			`INSERT INTO users (id, username, email, full_name, password_hash, is_active, created_at)
			 VALUES (?, ?, ?, ?, ?, 1, ?)`,
			r.id, r.username, r.email, r.username+" Test", "hash", r.createdAt)
		if err != nil {
			t.Fatalf("inserting %s: %v", r.username, err)
		}
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("List() returned %d users, want 3", len(users))
	}

	want := []string{"carol", "bob", "alice"}
	for i, username := range want {
		if users[i].Username != username {
			t.Errorf("users[%d].Username = %q, want %q (newest first)", i, users[i].Username, username)
		}
	}
}

func TestUserRepository_ListEmpty(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if users == nil {
		t.Fatal("List() should return an empty slice, not nil")
	}
	if len(users) != 0 {
		t.Errorf("List() returned %d users, want 0", len(users))
	}
}

func TestUserRepository_Count(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}

	seedTestUser(t, repo, "alice", "alice@example.com")
	seedTestUser(t, repo, "bob", "bob@example.com")

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"alice.bob", true},
		{"alice_bob-99", true},
		{"", false},
		{"has space", false},
		{"has@sign", false},
		{"semi;colon", false},
		{strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		if got := IsValidUsername(tt.username); got != tt.want {
			t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}
