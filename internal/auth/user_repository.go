package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for credential record persistence.
// Registration creates records; nothing in scope updates or deletes them.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteUserRepository implements UserRepository using SQLite.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed user repository.
func NewUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

const userColumns = "id, username, email, full_name, password_hash, is_active, created_at"

// Create inserts a new credential record. The ID is generated if empty and
// the creation timestamp is set to now. A UNIQUE violation on username or
// email is reported as ErrDuplicateUser, which also covers the second
// insert of a registration race.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	now := time.Now().UTC().Truncate(time.Second)
	user.CreatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, full_name, password_hash, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.FullName,
		user.PasswordHash, boolToInt(user.IsActive), now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their unique ID.
func (r *SQLiteUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetByEmail retrieves a user by their email address.
func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

// FindByEmailOrUsername retrieves any user matching the email or the
// username. Registration uses this combined lookup to enforce uniqueness
// across both fields before inserting.
func (r *SQLiteUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error) {
	return r.getUser(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? OR username = ? LIMIT 1",
		email, username)
}

// List returns all users ordered by creation date, newest first.
func (r *SQLiteUserRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	if users == nil {
		users = []User{}
	}
	return users, nil
}

// Count returns the total number of credential records.
func (r *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// getUser executes a query and scans a single user result.
func (r *SQLiteUserRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}

// scanner is the shared Scan method of sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser scans a user row from either a sql.Row or sql.Rows.
func scanUser(s scanner) (*User, error) {
	var u User
	var isActive int
	var createdAt string

	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.FullName,
		&u.PasswordHash, &isActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.IsActive = isActive != 0
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled

	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
