package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/a10interiors/a10-backend/internal/models"
)

type TestimonialFilter struct {
	ServiceType string
	Rating      *int64
	Page        int
	Limit       int
}

type TestimonialRepository interface {
	List(ctx context.Context, filter TestimonialFilter) ([]*models.Testimonial, error)
	GetByID(ctx context.Context, id int64) (*models.Testimonial, error)
	Create(ctx context.Context, t *models.Testimonial) (int64, error)
	Update(ctx context.Context, id int64, t *models.Testimonial) error
	Delete(ctx context.Context, id int64) error
}

type testimonialRepository struct {
	db *sql.DB
}

func NewTestimonialRepository(db *sql.DB) TestimonialRepository {
	return &testimonialRepository{db: db}
}

const testimonialColumns = `id, name, review, customer_type, customer_image,
	customer_phone, rating, service_type, is_home, page, created_at`

func (r *testimonialRepository) List(ctx context.Context, filter TestimonialFilter) ([]*models.Testimonial, error) {
	query := "SELECT " + testimonialColumns + " FROM testimonials"

	var where []string
	var params []any
	if filter.ServiceType != "" {
		where = append(where, "service_type = ?")
		params = append(params, filter.ServiceType)
	}
	if filter.Rating != nil {
		where = append(where, "rating = ?")
		params = append(params, *filter.Rating)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	params = append(params, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var items []*models.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *testimonialRepository) GetByID(ctx context.Context, id int64) (*models.Testimonial, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+testimonialColumns+" FROM testimonials WHERE id = ?", id)
	return scanTestimonial(row)
}

func (r *testimonialRepository) Create(ctx context.Context, t *models.Testimonial) (int64, error) {
	query := `
		INSERT INTO testimonials
			(name, review, customer_type, customer_image, customer_phone, rating, service_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, t.Name, t.Review, t.CustomerType,
		t.CustomerImage, t.CustomerPhone, t.Rating, t.ServiceType)
	if err != nil {
		return 0, fmt.Errorf("insert testimonial: %w", err)
	}
	return res.LastInsertId()
}

func (r *testimonialRepository) Update(ctx context.Context, id int64, t *models.Testimonial) error {
	query := `
		UPDATE testimonials SET
			name = ?, review = ?, customer_type = ?, customer_image = ?,
			customer_phone = ?, rating = ?, service_type = ?, is_home = ?, page = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, t.Name, t.Review, t.CustomerType,
		t.CustomerImage, t.CustomerPhone, t.Rating, t.ServiceType,
		boolToInt(t.IsHome), t.Page, id)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
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

func (r *testimonialRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM testimonials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
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

func scanTestimonial(row rowScanner) (*models.Testimonial, error) {
	var t models.Testimonial
	var isHome int64
	err := row.Scan(&t.ID, &t.Name, &t.Review, &t.CustomerType, &t.CustomerImage,
		&t.CustomerPhone, &t.Rating, &t.ServiceType, &isHome, &t.Page, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.IsHome = isHome != 0
	return &t, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
