package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/a10interiors/a10-backend/internal/db/migrations"
	"github.com/a10interiors/a10-backend/internal/models"
)

// ProjectFilter carries the list-endpoint query parameters. Page is 1-based.
type ProjectFilter struct {
	Query         string
	City          string
	PropertyType  string
	LocationArea  string
	Configuration string
	Page          int
	Limit         int
}

type ProjectRepository interface {
	List(ctx context.Context, filter ProjectFilter) ([]*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) (int64, error)
	Update(ctx context.Context, id int64, project *models.Project) error
	Delete(ctx context.Context, id int64) error
	// EnsureImportColumns adds columns introduced after initial deployment
	// (currently videos) so imports against older databases don't fail.
	EnsureImportColumns(ctx context.Context) error
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, slug, title, location_area, city, address, rera, status,
	property_type, configurations, blocks, units, floors, land_area, description,
	videos, developer_name, developer_logo, developer_description, highlights,
	amenities, gallery, thumbnail, brochure_url, contact_phone, contact_email,
	price_info, created_at, updated_at`

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]*models.Project, error) {
	query := "SELECT " + projectColumns + " FROM projects"

	var where []string
	var params []any

	if filter.City != "" {
		where = append(where, "LOWER(city) = LOWER(?)")
		params = append(params, filter.City)
	}
	if filter.PropertyType != "" {
		where = append(where, "LOWER(property_type) = LOWER(?)")
		params = append(params, filter.PropertyType)
	}
	if filter.LocationArea != "" {
		where = append(where, "LOWER(location_area) = LOWER(?)")
		params = append(params, filter.LocationArea)
	}
	if filter.Query != "" {
		where = append(where, "(title LIKE ? OR address LIKE ? OR rera LIKE ?)")
		like := "%" + filter.Query + "%"
		params = append(params, like, like, like)
	}
	if filter.Configuration != "" {
		// configurations is serialized JSON text; substring match is the
		// supported filter.
		where = append(where, "configurations LIKE ?")
		params = append(params, "%"+filter.Configuration+"%")
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
		limit = 24
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	params = append(params, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	return scanProject(row)
}

func (r *projectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE slug = ?", slug)
	return scanProject(row)
}

func (r *projectRepository) Create(ctx context.Context, p *models.Project) (int64, error) {
	query := `INSERT INTO projects
		(slug, title, location_area, city, address, rera, status, property_type,
		 configurations, blocks, units, floors, land_area, description, videos,
		 developer_name, developer_logo, developer_description, highlights,
		 amenities, gallery, thumbnail, brochure_url, contact_phone, contact_email,
		 price_info, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))`

	res, err := r.db.ExecContext(ctx, query,
		p.Slug, p.Title, p.LocationArea, p.City, p.Address, p.Rera, p.Status,
		p.PropertyType, marshalRaw(p.Configurations, "[]"), p.Blocks, p.Units,
		p.Floors, p.LandArea, p.Description, marshalList(p.Videos),
		p.DeveloperName, p.DeveloperLogo, p.DeveloperDescription,
		marshalList(p.Highlights), marshalList(p.Amenities), marshalList(p.Gallery),
		p.Thumbnail, p.BrochureURL, p.ContactPhone, p.ContactEmail,
		marshalRaw(p.PriceInfo, "null"),
	)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert project id: %w", err)
	}
	return id, nil
}

func (r *projectRepository) Update(ctx context.Context, id int64, p *models.Project) error {
	query := `UPDATE projects SET
		slug = ?, title = ?, location_area = ?, city = ?, address = ?, rera = ?,
		status = ?, property_type = ?, configurations = ?, blocks = ?, units = ?,
		floors = ?, land_area = ?, description = ?, videos = ?, developer_name = ?,
		developer_logo = ?, developer_description = ?, highlights = ?, amenities = ?,
		gallery = ?, thumbnail = ?, brochure_url = ?, contact_phone = ?,
		contact_email = ?, price_info = ?, updated_at = datetime('now')
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		p.Slug, p.Title, p.LocationArea, p.City, p.Address, p.Rera, p.Status,
		p.PropertyType, marshalRaw(p.Configurations, "[]"), p.Blocks, p.Units,
		p.Floors, p.LandArea, p.Description, marshalList(p.Videos),
		p.DeveloperName, p.DeveloperLogo, p.DeveloperDescription,
		marshalList(p.Highlights), marshalList(p.Amenities), marshalList(p.Gallery),
		p.Thumbnail, p.BrochureURL, p.ContactPhone, p.ContactEmail,
		marshalRaw(p.PriceInfo, "null"), id,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
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

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
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

func (r *projectRepository) EnsureImportColumns(ctx context.Context) error {
	return migrations.EnsureColumn(r.db, "projects", "videos", "TEXT")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var configurations, highlights, amenities, gallery, videos, priceInfo sql.NullString
	var locationArea, address sql.NullString

	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &locationArea, &p.City, &address, &p.Rera,
		&p.Status, &p.PropertyType, &configurations, &p.Blocks, &p.Units,
		&p.Floors, &p.LandArea, &p.Description, &videos, &p.DeveloperName,
		&p.DeveloperLogo, &p.DeveloperDescription, &highlights, &amenities,
		&gallery, &p.Thumbnail, &p.BrochureURL, &p.ContactPhone, &p.ContactEmail,
		&priceInfo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.LocationArea = locationArea.String
	p.Address = address.String
	p.Configurations = safeParseRaw(configurations, json.RawMessage("[]"))
	p.Highlights = safeParseList(highlights)
	p.Amenities = safeParseList(amenities)
	p.Gallery = safeParseList(gallery)
	p.Videos = safeParseList(videos)
	p.PriceInfo = safeParseRaw(priceInfo, json.RawMessage("null"))
	return &p, nil
}

func marshalList(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func marshalRaw(raw json.RawMessage, fallback string) string {
	if len(raw) == 0 || !json.Valid(raw) {
		return fallback
	}
	return string(raw)
}

// safeParseList tolerates malformed stored JSON, degrading to an empty list.
func safeParseList(v sql.NullString) []string {
	if !v.Valid || v.String == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(v.String), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func safeParseRaw(v sql.NullString, fallback json.RawMessage) json.RawMessage {
	if !v.Valid || v.String == "" || !json.Valid([]byte(v.String)) {
		return fallback
	}
	return json.RawMessage(v.String)
}
