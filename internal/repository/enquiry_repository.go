package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/a10interiors/a10-backend/internal/models"
)

// enquiryTable describes one logical enquiry kind. The map doubles as the
// allow-list for the {table} path segment: anything not listed here is
// rejected before any SQL is built.
type enquiryTable struct {
	name     string
	cols     []string
	editable map[string]bool
}

var enquiryTables = map[string]enquiryTable{
	"home": {
		name: "home_enquiries",
		cols: []string{
			"e.id AS enquiry_id", "e.user_id", "u.name", "u.phone AS user_phone",
			"e.email", "e.city", "e.bhk_type", "e.bathroom_number",
			"e.kitchen_type", "e.material", "e.area", "e.theme", "e.created_at",
		},
		editable: set("user_id", "email", "city", "bhk_type", "bathroom_number",
			"kitchen_type", "material", "area", "theme"),
	},
	"custom": {
		name: "custom_enquiries",
		cols: []string{
			"e.id AS enquiry_id", "e.user_id", "u.name", "u.phone AS user_phone",
			"e.email", "e.type", "e.city", "e.area", "e.message", "e.created_at",
		},
		editable: set("user_id", "email", "type", "city", "area", "message"),
	},
	"kb": {
		name: "kb_enquiries",
		cols: []string{
			"e.id AS enquiry_id", "e.user_id", "u.name", "u.phone AS user_phone",
			"e.email", "e.type", "e.city", "e.area", "e.bathroom_type",
			"e.kitchen_type", "e.kitchen_theme", "e.created_at",
		},
		editable: set("user_id", "email", "type", "city", "area",
			"bathroom_type", "kitchen_type", "kitchen_theme"),
	},
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// IsEnquiryTable reports whether key names one of the allow-listed logical
// enquiry tables (home|custom|kb).
func IsEnquiryTable(key string) bool {
	_, ok := enquiryTables[key]
	return ok
}

// EnquiryRow is one joined enquiry record; columns vary per table so rows are
// returned as maps annotated with their source table.
type EnquiryRow map[string]any

type EnquiryRepository interface {
	CreateHome(ctx context.Context, req *models.HomeEnquiryRequest) (int64, error)
	CreateKB(ctx context.Context, req *models.KBEnquiryRequest) (int64, error)
	CreateCustom(ctx context.Context, req *models.CustomEnquiryRequest) (int64, error)
	ListByTable(ctx context.Context, table string) ([]EnquiryRow, error)
	// Related returns enquiries across all three tables matching the given
	// identifier (user id, normalized phone digits, or lowercased email),
	// deduplicated by table+id.
	Related(ctx context.Context, userID, phone, email string) ([]EnquiryRow, error)
	Update(ctx context.Context, table string, id int64, fields map[string]any) (EnquiryRow, error)
	Delete(ctx context.Context, table string, id int64) error
}

type enquiryRepository struct {
	db *sql.DB
}

func NewEnquiryRepository(db *sql.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) CreateHome(ctx context.Context, req *models.HomeEnquiryRequest) (int64, error) {
	query := `
		INSERT INTO home_enquiries
			(user_id, email, city, bhk_type, bathroom_number, kitchen_type, material, area, theme)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, req.UserID, req.Email, req.City,
		req.BhkType, req.BathroomNumber, req.KitchenType, req.Material, req.Area, req.Theme)
	if err != nil {
		return 0, fmt.Errorf("insert home enquiry: %w", err)
	}
	return res.LastInsertId()
}

func (r *enquiryRepository) CreateKB(ctx context.Context, req *models.KBEnquiryRequest) (int64, error) {
	query := `
		INSERT INTO kb_enquiries
			(user_id, type, email, city, area, bathroom_type, kitchen_type, kitchen_theme, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	`
	res, err := r.db.ExecContext(ctx, query, req.UserID, req.Type, req.Email,
		req.City, req.Area, req.BathroomType, req.KitchenType, req.KitchenTheme)
	if err != nil {
		return 0, fmt.Errorf("insert kb enquiry: %w", err)
	}
	return res.LastInsertId()
}

func (r *enquiryRepository) CreateCustom(ctx context.Context, req *models.CustomEnquiryRequest) (int64, error) {
	query := `
		INSERT INTO custom_enquiries (user_id, type, email, city, area, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
	`
	res, err := r.db.ExecContext(ctx, query, req.UserID, req.Type, req.Email,
		req.City, req.Area, req.Text())
	if err != nil {
		return 0, fmt.Errorf("insert custom enquiry: %w", err)
	}
	return res.LastInsertId()
}

func (r *enquiryRepository) ListByTable(ctx context.Context, table string) ([]EnquiryRow, error) {
	meta, ok := enquiryTables[table]
	if !ok {
		return nil, fmt.Errorf("unknown enquiry table %q", table)
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s e
		LEFT JOIN users u ON e.user_id = u.id
		ORDER BY e.created_at DESC
	`, strings.Join(meta.cols, ", "), meta.name)

	return r.queryRows(ctx, table, query)
}

// sanitizedPhoneExpr strips formatting characters from the stored phone so a
// digits-only comparison works regardless of how the number was entered.
const sanitizedPhoneExpr = "REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(IFNULL(u.phone,''), '+', ''), ' ', ''), '-', ''), '(', ''), ')', '')"

func (r *enquiryRepository) Related(ctx context.Context, userID, phone, email string) ([]EnquiryRow, error) {
	normPhone := digitsOnly(phone)
	normEmail := strings.ToLower(strings.TrimSpace(email))

	seen := make(map[string]bool)
	var combined []EnquiryRow

	for _, key := range []string{"home", "custom", "kb"} {
		meta := enquiryTables[key]

		var where []string
		var params []any
		if userID != "" {
			where = append(where, "e.user_id = ?")
			params = append(params, userID)
		} else {
			if normPhone != "" {
				where = append(where, sanitizedPhoneExpr+" = ?")
				params = append(params, normPhone)
			}
			if normEmail != "" {
				where = append(where, "LOWER(IFNULL(u.email,'')) = ? OR LOWER(IFNULL(e.email,'')) = ?")
				params = append(params, normEmail, normEmail)
			}
		}

		whereClause := ""
		if len(where) > 0 {
			whereClause = "WHERE (" + strings.Join(where, " OR ") + ")"
		}
		query := fmt.Sprintf(`
			SELECT %s
			FROM %s e
			LEFT JOIN users u ON e.user_id = u.id
			%s
			ORDER BY e.created_at DESC
		`, strings.Join(meta.cols, ", "), meta.name, whereClause)

		rows, err := r.queryRowsParams(ctx, key, query, params...)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			dedupe := fmt.Sprintf("%s-%v", key, row["enquiry_id"])
			if seen[dedupe] {
				continue
			}
			seen[dedupe] = true
			combined = append(combined, row)
		}
	}
	return combined, nil
}

func (r *enquiryRepository) Update(ctx context.Context, table string, id int64, fields map[string]any) (EnquiryRow, error) {
	meta, ok := enquiryTables[table]
	if !ok {
		return nil, fmt.Errorf("unknown enquiry table %q", table)
	}

	var sets []string
	var params []any
	// iterate the declared editable order so generated SQL is deterministic
	for _, col := range editableOrder(meta) {
		if v, present := fields[col]; present {
			sets = append(sets, col+" = ?")
			params = append(params, v)
		}
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("no editable fields provided")
	}
	params = append(params, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", meta.name, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("update enquiry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}

	selectQuery := fmt.Sprintf(`
		SELECT e.*, u.name, u.phone AS user_phone
		FROM %s e
		LEFT JOIN users u ON e.user_id = u.id
		WHERE e.id = ?
	`, meta.name)
	rows, err := r.queryRowsParams(ctx, table, selectQuery, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return rows[0], nil
}

func (r *enquiryRepository) Delete(ctx context.Context, table string, id int64) error {
	meta, ok := enquiryTables[table]
	if !ok {
		return fmt.Errorf("unknown enquiry table %q", table)
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", meta.name), id)
	if err != nil {
		return fmt.Errorf("delete enquiry: %w", err)
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

// IsEditableEnquiryField reports whether col may be updated on the given
// table.
func IsEditableEnquiryField(table, col string) bool {
	meta, ok := enquiryTables[table]
	return ok && meta.editable[col]
}

func editableOrder(meta enquiryTable) []string {
	var cols []string
	for _, c := range meta.cols {
		// strip the "e." prefix and any alias
		c = strings.TrimPrefix(c, "e.")
		if i := strings.Index(c, " "); i > 0 {
			c = c[:i]
		}
		if meta.editable[c] {
			cols = append(cols, c)
		}
	}
	return cols
}

func (r *enquiryRepository) queryRows(ctx context.Context, table, query string) ([]EnquiryRow, error) {
	return r.queryRowsParams(ctx, table, query)
}

func (r *enquiryRepository) queryRowsParams(ctx context.Context, table, query string, params ...any) ([]EnquiryRow, error) {
	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query %s enquiries: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []EnquiryRow
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan enquiry: %w", err)
		}
		row := make(EnquiryRow, len(cols)+1)
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		row["table"] = table
		out = append(out, row)
	}
	return out, rows.Err()
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
