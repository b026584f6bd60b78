package goadmin

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaults(t *testing.T) {
	s := Settings{}.withDefaults()
	def := DefaultSettings()

	assert.Equal(t, def.SiteName, s.SiteName)
	assert.Equal(t, def.CookieName, s.CookieName)
	assert.Equal(t, def.SessionTTL, s.SessionTTL)
	assert.Empty(t, s.UserModel, "UserModel has no sensible default")
	assert.Empty(t, s.Prefix)
}

func TestWithDefaultsKeepsOverrides(t *testing.T) {
	s := Settings{
		SiteName:   "My Admin",
		CookieName: "sid",
		SessionTTL: time.Minute,
		UserModel:  "Account",
	}.withDefaults()

	assert.Equal(t, "My Admin", s.SiteName)
	assert.Equal(t, "sid", s.CookieName)
	assert.Equal(t, time.Minute, s.SessionTTL)
	assert.Equal(t, "Account", s.UserModel)
	assert.Equal(t, DefaultSettings().PrimaryColor, s.PrimaryColor)
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"site_name": "Ops Panel",
		"user_model": "Operator",
		"session": {"cookie": "ops_session", "ttl": 3600},
		"signin_rate_limit": 2.5
	}`), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "Ops Panel", s.SiteName)
	assert.Equal(t, "Operator", s.UserModel)
	assert.Equal(t, "ops_session", s.CookieName)
	assert.Equal(t, time.Hour, s.SessionTTL)
	assert.Equal(t, 2.5, s.SignInRate)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultSettings().PrimaryColor, s.PrimaryColor)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
