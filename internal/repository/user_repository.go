package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/a10interiors/a10-backend/internal/models"
)

type UserRepository interface {
	// UpsertByUID creates the user on first sight of an identity subject
	// and refreshes name/phone on subsequent logins.
	UpsertByUID(ctx context.Context, uid string, name, phone *string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) UpsertByUID(ctx context.Context, uid string, name, phone *string) (*models.User, error) {
	query := `
		INSERT INTO users (uid, name, phone)
		VALUES (?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			name = COALESCE(excluded.name, users.name),
			phone = COALESCE(excluded.phone, users.phone)
	`
	if _, err := r.db.ExecContext(ctx, query, uid, name, phone); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT id, uid, name, phone, email, created_at FROM users WHERE uid = ?", uid)
	return scanUser(row)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, uid, name, phone, email, created_at FROM users WHERE id = ?", id)
	return scanUser(row)
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.UID, &u.Name, &u.Phone, &u.Email, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
