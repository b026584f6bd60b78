// Package sqldb backs a goadmin descriptor with a database/sql table. It
// works with any driver; the demo and the tests use mattn/go-sqlite3.
//
// Column names coming from requests (filters, sort fields) are checked
// against the configured column list before they reach SQL text, so a
// hostile query string cannot inject identifiers.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goadmin/goadmin"
)

// ModelAdmin implements goadmin.ModelAdmin over one table.
type ModelAdmin struct {
	goadmin.BaseModelAdmin

	// DB is the open database handle.
	DB *sql.DB
	// Table is the table name. It comes from the host program, never from
	// a request.
	Table string
	// IDColumn is the primary key column; "id" when empty.
	IDColumn string
	// Columns are the selectable columns, in presentation order.
	Columns []string
}

func (m *ModelAdmin) idColumn() string {
	if m.IDColumn == "" {
		return "id"
	}
	return m.IDColumn
}

func (m *ModelAdmin) hasColumn(name string) bool {
	for _, col := range m.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// List implements goadmin.ModelAdmin.
func (m *ModelAdmin) List(ctx context.Context, q goadmin.Query) ([]goadmin.Row, int, error) {
	where, args := m.buildWhere(q)

	var total int
	countQuery := "SELECT COUNT(*) FROM " + m.Table + where
	if err := m.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqldb count %s: %w", m.Table, err)
	}

	order := ""
	if q.SortBy != "" {
		field, dir := q.SortBy, "ASC"
		if strings.HasPrefix(field, "-") {
			field, dir = field[1:], "DESC"
		}
		if m.hasColumn(field) {
			order = " ORDER BY " + field + " " + dir
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 25
	}
	query := "SELECT " + strings.Join(m.Columns, ", ") + " FROM " + m.Table +
		where + order + " LIMIT ? OFFSET ?"
	args = append(args, limit, q.Offset)

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqldb list %s: %w", m.Table, err)
	}
	defer rows.Close()

	out := []goadmin.Row{}
	for rows.Next() {
		row, err := scanRow(rows, m.Columns)
		if err != nil {
			return nil, 0, fmt.Errorf("sqldb list %s: %w", m.Table, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqldb list %s: %w", m.Table, err)
	}
	return out, total, nil
}

// Get implements goadmin.ModelAdmin.
func (m *ModelAdmin) Get(ctx context.Context, id string) (goadmin.Row, error) {
	query := "SELECT " + strings.Join(m.Columns, ", ") + " FROM " + m.Table +
		" WHERE " + m.idColumn() + " = ?"
	rows, err := m.DB.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("sqldb get %s: %w", m.Table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("sqldb get %s: %w", m.Table, err)
		}
		return nil, goadmin.ErrNotFound
	}
	return scanRow(rows, m.Columns)
}

// Save implements goadmin.ModelAdmin. Unknown fields in the payload are
// dropped rather than erroring, matching how the panel sends whole forms.
func (m *ModelAdmin) Save(ctx context.Context, id string, fields goadmin.Row) (goadmin.Row, error) {
	cols, args := []string{}, []interface{}{}
	for _, col := range m.Columns {
		if col == m.idColumn() {
			continue
		}
		if v, ok := fields[col]; ok {
			cols = append(cols, col)
			args = append(args, v)
		}
	}

	if id == "" {
		if len(cols) == 0 {
			return nil, errors.New("sqldb save: no recognized fields in payload")
		}
		query := "INSERT INTO " + m.Table + " (" + strings.Join(cols, ", ") + ") VALUES (" +
			strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
		res, err := m.DB.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("sqldb insert %s: %w", m.Table, err)
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("sqldb insert %s: %w", m.Table, err)
		}
		return m.Get(ctx, fmt.Sprint(newID))
	}

	if len(cols) > 0 {
		sets := make([]string, len(cols))
		for i, col := range cols {
			sets[i] = col + " = ?"
		}
		query := "UPDATE " + m.Table + " SET " + strings.Join(sets, ", ") +
			" WHERE " + m.idColumn() + " = ?"
		res, err := m.DB.ExecContext(ctx, query, append(args, id)...)
		if err != nil {
			return nil, fmt.Errorf("sqldb update %s: %w", m.Table, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			if _, err := m.Get(ctx, id); err != nil {
				return nil, err
			}
		}
	}
	return m.Get(ctx, id)
}

// Delete implements goadmin.ModelAdmin.
func (m *ModelAdmin) Delete(ctx context.Context, id string) error {
	res, err := m.DB.ExecContext(ctx, "DELETE FROM "+m.Table+" WHERE "+m.idColumn()+" = ?", id)
	if err != nil {
		return fmt.Errorf("sqldb delete %s: %w", m.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqldb delete %s: %w", m.Table, err)
	}
	if n == 0 {
		return goadmin.ErrNotFound
	}
	return nil
}

// buildWhere turns a Query's filters and search into a WHERE clause. Fields
// that are not known columns are ignored.
func (m *ModelAdmin) buildWhere(q goadmin.Query) (string, []interface{}) {
	var terms []string
	var args []interface{}

	fields := make([]string, 0, len(q.Filters))
	for field := range q.Filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if !m.hasColumn(field) {
			continue
		}
		terms = append(terms, field+" = ?")
		args = append(args, q.Filters[field])
	}

	cfg := m.Config()
	if q.Search != "" && len(cfg.SearchFields) > 0 {
		var searches []string
		for _, field := range cfg.SearchFields {
			if !m.hasColumn(field) {
				continue
			}
			searches = append(searches, field+" LIKE ?")
			args = append(args, "%"+q.Search+"%")
		}
		if len(searches) > 0 {
			terms = append(terms, "("+strings.Join(searches, " OR ")+")")
		}
	}

	if len(terms) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

// scanRow reads the current result row into a Row, mapping []byte values to
// strings so they serialize as text rather than base64.
func scanRow(rows *sql.Rows, columns []string) (goadmin.Row, error) {
	values := make([]interface{}, len(columns))
	targets := make([]interface{}, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}
	row := make(goadmin.Row, len(columns))
	for i, col := range columns {
		if b, ok := values[i].([]byte); ok {
			row[col] = string(b)
		} else {
			row[col] = values[i]
		}
	}
	return row, nil
}
