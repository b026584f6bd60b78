package arangodb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goadmin/goadmin"
)

func TestBuildFilterEmpty(t *testing.T) {
	m := &ModelAdmin{Collection: "things"}

	filter, vars := m.buildFilter(goadmin.Query{})
	assert.Empty(t, filter)
	assert.Empty(t, vars)
}

func TestBuildFilterTerms(t *testing.T) {
	m := &ModelAdmin{
		BaseModelAdmin: goadmin.BaseModelAdmin{
			Name:         "Thing",
			SearchFields: []string{"name", "label"},
		},
		Collection: "things",
	}

	filter, vars := m.buildFilter(goadmin.Query{
		Filters: map[string]string{"color": "red"},
		Search:  "anvil",
	})

	require.True(t, strings.HasPrefix(filter, " FILTER "))
	assert.Contains(t, filter, "d[@ff0] == @fv0")
	assert.Contains(t, filter, "CONTAINS(LOWER(TO_STRING(d[@sf0])), LOWER(@search))")
	assert.Contains(t, filter, "||")

	// Field names travel as bind vars only; the query text never embeds them.
	assert.NotContains(t, filter, "color")
	assert.NotContains(t, filter, "name")
	assert.Equal(t, "color", vars["ff0"])
	assert.Equal(t, "red", vars["fv0"])
	assert.Equal(t, "name", vars["sf0"])
	assert.Equal(t, "label", vars["sf1"])
	assert.Equal(t, "anvil", vars["search"])
}
