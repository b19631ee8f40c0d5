package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/a10interiors/a10-backend/internal/models"
)

type AdminRepository interface {
	List(ctx context.Context) ([]*models.Admin, error)
	GetByPhone(ctx context.Context, phone string) (*models.Admin, error)
	// UpsertByPhone grants admin access, updating the name when the phone
	// is already listed.
	UpsertByPhone(ctx context.Context, phone string, name *string) (*models.Admin, error)
	Update(ctx context.Context, id int64, phone, name *string) (*models.Admin, error)
	Delete(ctx context.Context, id int64) error
}

type adminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, phone, created_at FROM admin ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []*models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.Name, &a.Phone, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, &a)
	}
	return admins, rows.Err()
}

func (r *adminRepository) GetByPhone(ctx context.Context, phone string) (*models.Admin, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, phone, created_at FROM admin WHERE phone = ?", phone)
	return scanAdmin(row)
}

func (r *adminRepository) UpsertByPhone(ctx context.Context, phone string, name *string) (*models.Admin, error) {
	query := `
		INSERT INTO admin (phone, name)
		VALUES (?, ?)
		ON CONFLICT(phone) DO UPDATE SET
			name = excluded.name
	`
	if _, err := r.db.ExecContext(ctx, query, phone, name); err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	return r.GetByPhone(ctx, phone)
}

func (r *adminRepository) Update(ctx context.Context, id int64, phone, name *string) (*models.Admin, error) {
	var sets []string
	var params []any
	if phone != nil {
		sets = append(sets, "phone = ?")
		params = append(params, *phone)
	}
	if name != nil {
		sets = append(sets, "name = ?")
		params = append(params, *name)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("nothing to update")
	}
	params = append(params, id)

	query := "UPDATE admin SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, params...)
	if err != nil {
		// unique constraint on phone surfaces here
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, phone, created_at FROM admin WHERE id = ?", id)
	return scanAdmin(row)
}

func (r *adminRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM admin WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanAdmin(row rowScanner) (*models.Admin, error) {
	var a models.Admin
	if err := row.Scan(&a.ID, &a.Name, &a.Phone, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
