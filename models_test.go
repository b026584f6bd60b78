package goadmin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseModelAdminConfig(t *testing.T) {
	base := &BaseModelAdmin{
		Name:          "Widget",
		ListFields:    []string{"id", "name"},
		DisableDelete: true,
	}

	cfg := base.Config()
	assert.Equal(t, 25, cfg.PerPage, "per-page defaults to 25")
	assert.True(t, cfg.Permissions.Add)
	assert.True(t, cfg.Permissions.Change)
	assert.False(t, cfg.Permissions.Delete)
	assert.True(t, cfg.Permissions.Export)
}

func TestBaseModelAdminIsBoilerplate(t *testing.T) {
	base := &BaseModelAdmin{Name: "Widget"}
	ctx := context.Background()

	_, _, err := base.List(ctx, Query{})
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = base.Get(ctx, "1")
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = base.Save(ctx, "1", Row{})
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.ErrorIs(t, base.Delete(ctx, "1"), ErrNotImplemented)
}

func TestExtendableModelAdminDelegates(t *testing.T) {
	ctx := context.Background()
	m := &ExtendableModelAdmin{
		GetFunc: func(_ context.Context, id string) (Row, error) {
			return Row{"id": id}, nil
		},
	}

	row, err := m.Get(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", row["id"])

	// Unset funcs fall back to the base behavior.
	_, _, err = m.List(ctx, Query{})
	assert.ErrorIs(t, err, ErrNotImplemented)

	// Authentication fails closed rather than falling back.
	_, err = m.Authenticate(ctx, "admin", "password")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestStripExcluded(t *testing.T) {
	row := Row{"id": "1", "name": "a", "password_hash": "secret"}
	cfg := ModelConfig{Exclude: []string{"password_hash"}}

	out := stripExcluded(row, cfg)
	assert.NotContains(t, out, "password_hash")
	assert.Equal(t, "a", out["name"])
	assert.Contains(t, row, "password_hash", "the input row is left alone")

	assert.Nil(t, stripExcluded(nil, cfg))
}

func TestRenderMarkdown(t *testing.T) {
	out := string(renderMarkdown([]byte("**hi** <script>alert(1)</script>")))
	assert.Contains(t, out, "<strong>hi</strong>")
	assert.NotContains(t, out, "<script>")
}
