package sqldb

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goadmin/goadmin"
)

func newTestAdmin(t *testing.T) *ModelAdmin {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE fruits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			price REAL NOT NULL DEFAULT 0
		);
		INSERT INTO fruits (name, color, price) VALUES
			('apple', 'red', 1.2),
			('banana', 'yellow', 0.5),
			('cherry', 'red', 3.4);`)
	require.NoError(t, err)

	return &ModelAdmin{
		BaseModelAdmin: goadmin.BaseModelAdmin{
			Name:         "Fruit",
			SearchFields: []string{"name"},
		},
		DB:      db,
		Table:   "fruits",
		Columns: []string{"id", "name", "color", "price"},
	}
}

func TestList(t *testing.T) {
	m := newTestAdmin(t)
	ctx := context.Background()

	rows, total, err := m.List(ctx, goadmin.Query{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, rows, 3)
	assert.Equal(t, "apple", rows[0]["name"])
}

func TestListPaging(t *testing.T) {
	m := newTestAdmin(t)

	rows, total, err := m.List(context.Background(), goadmin.Query{Offset: 1, Limit: 1, SortBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, 3, total, "total counts past the page")
	require.Len(t, rows, 1)
	assert.Equal(t, "banana", rows[0]["name"])
}

func TestListFilterSearchSort(t *testing.T) {
	m := newTestAdmin(t)
	ctx := context.Background()

	rows, total, err := m.List(ctx, goadmin.Query{
		Limit:   10,
		Filters: map[string]string{"color": "red"},
		SortBy:  "-name",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "cherry", rows[0]["name"])

	rows, total, err = m.List(ctx, goadmin.Query{Limit: 10, Search: "err"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "cherry", rows[0]["name"])

	// Unknown filter and sort columns are ignored, not injected.
	rows, _, err = m.List(ctx, goadmin.Query{
		Limit:   10,
		Filters: map[string]string{"name; DROP TABLE fruits": "x"},
		SortBy:  "price; DROP TABLE fruits",
	})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestGet(t *testing.T) {
	m := newTestAdmin(t)
	ctx := context.Background()

	row, err := m.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "banana", row["name"])

	_, err = m.Get(ctx, "99")
	assert.ErrorIs(t, err, goadmin.ErrNotFound)
}

func TestSaveInsert(t *testing.T) {
	m := newTestAdmin(t)

	row, err := m.Save(context.Background(), "", goadmin.Row{
		"name":  "date",
		"color": "brown",
		"price": 7.5,
		"bogus": "dropped silently",
		"id":    "ignored on insert",
	})
	require.NoError(t, err)
	assert.Equal(t, "date", row["name"])
	assert.NotNil(t, row["id"])
	assert.NotContains(t, row, "bogus")
}

func TestSaveUpdate(t *testing.T) {
	m := newTestAdmin(t)
	ctx := context.Background()

	row, err := m.Save(ctx, "1", goadmin.Row{"color": "green"})
	require.NoError(t, err)
	assert.Equal(t, "green", row["color"])
	assert.Equal(t, "apple", row["name"], "partial updates leave other columns alone")

	_, err = m.Save(ctx, "99", goadmin.Row{"color": "green"})
	assert.ErrorIs(t, err, goadmin.ErrNotFound)
}

func TestDelete(t *testing.T) {
	m := newTestAdmin(t)
	ctx := context.Background()

	require.NoError(t, m.Delete(ctx, "1"))
	assert.ErrorIs(t, m.Delete(ctx, "1"), goadmin.ErrNotFound)

	_, total, err := m.List(ctx, goadmin.Query{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
