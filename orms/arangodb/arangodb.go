// Package arangodb backs a goadmin descriptor with an ArangoDB collection.
//
// Embed ModelAdmin, point it at a database and collection, and the panel's
// list, retrieve, save and delete operations become AQL queries. Documents
// are exposed as rows keyed by their fields, with the document key doubling
// as the row id.
package arangodb

import (
	"context"
	"fmt"
	"strings"

	driver "github.com/arangodb/go-driver"

	"github.com/goadmin/goadmin"
)

type obj = map[string]interface{}

// ModelAdmin implements goadmin.ModelAdmin over one collection.
type ModelAdmin struct {
	goadmin.BaseModelAdmin

	// DB is the database holding the collection.
	DB driver.Database
	// Collection is the collection name.
	Collection string
}

// List implements goadmin.ModelAdmin. Filters become equality terms, the
// search string is matched case-insensitively against the search fields, and
// sorting and paging happen in the query.
func (m *ModelAdmin) List(ctx context.Context, q goadmin.Query) ([]goadmin.Row, int, error) {
	filter, vars := m.buildFilter(q)
	vars["@col"] = m.Collection

	var sortClause string
	if q.SortBy != "" {
		field, dir := q.SortBy, "ASC"
		if strings.HasPrefix(field, "-") {
			field, dir = field[1:], "DESC"
		}
		vars["sortField"] = field
		sortClause = " SORT d[@sortField] " + dir
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 25
	}
	vars["offset"] = q.Offset
	vars["limit"] = limit

	query := "FOR d IN @@col" + filter + sortClause + " LIMIT @offset, @limit RETURN MERGE(d, {id: d._key})"

	qctx := driver.WithQueryFullCount(driver.WithQueryCount(ctx))
	cursor, err := m.DB.Query(qctx, query, vars)
	if err != nil {
		return nil, 0, fmt.Errorf("arangodb list %s: %w", m.Collection, err)
	}
	defer cursor.Close()

	rows := []goadmin.Row{}
	for {
		var doc goadmin.Row
		if _, err := cursor.ReadDocument(qctx, &doc); driver.IsNoMoreDocuments(err) {
			break
		} else if err != nil {
			return nil, 0, fmt.Errorf("arangodb list %s: %w", m.Collection, err)
		}
		rows = append(rows, doc)
	}

	total := len(rows)
	if stats := cursor.Statistics(); stats != nil {
		total = int(stats.FullCount())
	}
	return rows, total, nil
}

// Get implements goadmin.ModelAdmin.
func (m *ModelAdmin) Get(ctx context.Context, id string) (goadmin.Row, error) {
	var doc goadmin.Row
	err := m.queryOne(ctx,
		"FOR d IN @@col FILTER d._key == @key RETURN MERGE(d, {id: d._key})",
		obj{"@col": m.Collection, "key": id}, &doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save implements goadmin.ModelAdmin. An empty id inserts; otherwise the
// matching document is patched, dropping fields set to null.
func (m *ModelAdmin) Save(ctx context.Context, id string, fields goadmin.Row) (goadmin.Row, error) {
	delete(fields, "id")
	var doc goadmin.Row
	var err error
	if id == "" {
		err = m.queryOne(ctx,
			"INSERT @fields INTO @@col OPTIONS {waitForSync: true} RETURN MERGE(NEW, {id: NEW._key})",
			obj{"@col": m.Collection, "fields": fields}, &doc)
	} else {
		err = m.queryOne(ctx,
			`FOR d IN @@col FILTER d._key == @key
				UPDATE d WITH @fields IN @@col OPTIONS {keepNull: false, waitForSync: true}
				RETURN MERGE(NEW, {id: NEW._key})`,
			obj{"@col": m.Collection, "key": id, "fields": fields}, &doc)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete implements goadmin.ModelAdmin.
func (m *ModelAdmin) Delete(ctx context.Context, id string) error {
	var removed goadmin.Row
	return m.queryOne(ctx,
		"FOR d IN @@col FILTER d._key == @key REMOVE d IN @@col OPTIONS {waitForSync: true} RETURN OLD",
		obj{"@col": m.Collection, "key": id}, &removed)
}

// buildFilter assembles the FILTER clause from a Query's filters and search.
// Field names only ever travel as bind vars, never as query text.
func (m *ModelAdmin) buildFilter(q goadmin.Query) (string, obj) {
	vars := obj{}
	var terms []string

	i := 0
	for field, value := range q.Filters {
		fv, vv := fmt.Sprintf("ff%d", i), fmt.Sprintf("fv%d", i)
		terms = append(terms, fmt.Sprintf("d[@%s] == @%s", fv, vv))
		vars[fv], vars[vv] = field, value
		i++
	}

	cfg := m.Config()
	if q.Search != "" && len(cfg.SearchFields) > 0 {
		var searches []string
		for j, field := range cfg.SearchFields {
			sf := fmt.Sprintf("sf%d", j)
			searches = append(searches, fmt.Sprintf("CONTAINS(LOWER(TO_STRING(d[@%s])), LOWER(@search))", sf))
			vars[sf] = field
		}
		vars["search"] = q.Search
		terms = append(terms, "("+strings.Join(searches, " || ")+")")
	}

	if len(terms) == 0 {
		return "", vars
	}
	return " FILTER " + strings.Join(terms, " && "), vars
}

// queryOne runs an AQL query expected to yield exactly one document.
func (m *ModelAdmin) queryOne(ctx context.Context, query string, vars obj, result interface{}) error {
	qctx := driver.WithQueryCount(ctx)
	cursor, err := m.DB.Query(qctx, query, vars)
	if err != nil {
		return fmt.Errorf("arangodb query %s: %w", m.Collection, err)
	}
	defer cursor.Close()
	if _, err := cursor.ReadDocument(qctx, result); err != nil {
		if driver.IsNoMoreDocuments(err) {
			return goadmin.ErrNotFound
		}
		return fmt.Errorf("arangodb query %s: %w", m.Collection, err)
	}
	return nil
}
