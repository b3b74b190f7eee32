package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yanizio/agrocms/internal/database"
)

// ErrNoAdmin is returned when no admin row matches.
var ErrNoAdmin = errors.New("auth: admin not found")

// ErrEmailTaken is returned when creating an admin with an existing email.
var ErrEmailTaken = errors.New("auth: email already registered")

// Admin mirrors one row of `admin`.  PasswordHash never leaves the process.
type Admin struct {
	ID           uint64     `db:"id"            json:"id"`
	Email        string     `db:"email"         json:"email"`
	Name         string     `db:"name"          json:"name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role"          json:"role"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updated_at"`
}

// Principal returns the token-facing view of a.
func (a *Admin) Principal() *Principal {
	return &Principal{ID: a.ID, Email: a.Email, Role: a.Role}
}

const adminCols = `id, email, name, password_hash, role, last_login_at, created_at, updated_at`

// Store reads and writes the admin table.
type Store struct {
	pool *database.Pool
}

// NewStore returns a Store on pool.
func NewStore(pool *database.Pool) *Store { return &Store{pool: pool} }

// ByEmail returns the admin with email or ErrNoAdmin.
func (s *Store) ByEmail(ctx context.Context, email string) (*Admin, error) {
	db, err := s.pool.DB(ctx)
	if err != nil {
		return nil, err
	}
	var a Admin
	if err := db.GetContext(ctx, &a, `SELECT `+adminCols+` FROM admin WHERE email = ?`, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoAdmin
		}
		return nil, fmt.Errorf("admin by email: %w", err)
	}
	return &a, nil
}

// ByID returns the admin with id or ErrNoAdmin.
func (s *Store) ByID(ctx context.Context, id uint64) (*Admin, error) {
	db, err := s.pool.DB(ctx)
	if err != nil {
		return nil, err
	}
	var a Admin
	if err := db.GetContext(ctx, &a, `SELECT `+adminCols+` FROM admin WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoAdmin
		}
		return nil, fmt.Errorf("admin by id: %w", err)
	}
	return &a, nil
}

// Create inserts an admin with an already-hashed password.
func (s *Store) Create(ctx context.Context, email, name, role, hash string) (uint64, error) {
	db, err := s.pool.DB(ctx)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO admin (email, name, password_hash, role)
        VALUES (?, ?, ?, ?)`, email, name, hash, role)
	if err != nil {
		if database.IsDuplicate(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("insert admin: %w", err)
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// SetPassword replaces the hash for email.
func (s *Store) SetPassword(ctx context.Context, email, hash string) error {
	db, err := s.pool.DB(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `UPDATE admin SET password_hash = ? WHERE email = ?`, hash, email)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoAdmin
	}
	return nil
}

// TouchLogin stamps last_login_at.
func (s *Store) TouchLogin(ctx context.Context, id uint64, at time.Time) error {
	db, err := s.pool.DB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `UPDATE admin SET last_login_at = ? WHERE id = ?`, at, id); err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}
