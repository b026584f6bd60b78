package goadmin

import (
	"os"
	"time"

	"github.com/tidwall/gjson"
)

// Settings holds everything an admin App needs to know about its host
// application. A zero value is usable: New fills in the defaults below.
// Settings are copied at construction and never mutated afterwards, so a
// single value may be shared between apps.
type Settings struct {
	// SiteName is shown in the browser title and the sign-in screen.
	SiteName string
	// SignInLogo, HeaderLogo and Favicon are URLs, usually under /static.
	SignInLogo string
	HeaderLogo string
	Favicon    string
	// PrimaryColor is the accent color handed to the frontend.
	PrimaryColor string
	// Prefix is the path the host mounts the admin app under ("" when the
	// app is served standalone). It is only used to build asset URLs.
	Prefix string

	// UserModel names the registered model whose descriptor authenticates
	// administrators. Sign-in is refused while it is unset or unregistered.
	UserModel string
	// UsernameField is the row field holding the login name.
	UsernameField string

	// CookieName is the session cookie's name.
	CookieName string
	// SessionTTL is how long an issued session stays valid.
	SessionTTL time.Duration

	// Date and time formats handed to the frontend verbatim.
	DateFormat     string
	DatetimeFormat string
	TimeFormat     string

	// SignInRate limits sign-in attempts per second and client IP.
	// Zero disables throttling (useful in tests).
	SignInRate float64
}

// DefaultSettings returns the settings an App runs with when the host
// overrides nothing.
func DefaultSettings() Settings {
	return Settings{
		SiteName:       "GoAdmin",
		SignInLogo:     "/static/images/sign-in-logo.svg",
		HeaderLogo:     "/static/images/header-logo.svg",
		Favicon:        "/static/images/favicon.svg",
		PrimaryColor:   "#009485",
		UsernameField:  "username",
		CookieName:     "admin_session_id",
		SessionTTL:     40 * time.Hour,
		DateFormat:     "YYYY-MM-DD",
		DatetimeFormat: "YYYY-MM-DD HH:mm",
		TimeFormat:     "HH:mm:ss",
		SignInRate:     4,
	}
}

// withDefaults fills the zero fields of s from DefaultSettings. UserModel,
// Prefix and SignInRate are left alone: empty and zero are meaningful there.
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.SiteName == "" {
		s.SiteName = def.SiteName
	}
	if s.SignInLogo == "" {
		s.SignInLogo = def.SignInLogo
	}
	if s.HeaderLogo == "" {
		s.HeaderLogo = def.HeaderLogo
	}
	if s.Favicon == "" {
		s.Favicon = def.Favicon
	}
	if s.PrimaryColor == "" {
		s.PrimaryColor = def.PrimaryColor
	}
	if s.UsernameField == "" {
		s.UsernameField = def.UsernameField
	}
	if s.CookieName == "" {
		s.CookieName = def.CookieName
	}
	if s.SessionTTL <= 0 {
		s.SessionTTL = def.SessionTTL
	}
	if s.DateFormat == "" {
		s.DateFormat = def.DateFormat
	}
	if s.DatetimeFormat == "" {
		s.DatetimeFormat = def.DatetimeFormat
	}
	if s.TimeFormat == "" {
		s.TimeFormat = def.TimeFormat
	}
	return s
}

// LoadSettings reads a JSON settings file. Missing keys keep their defaults,
// so a config file only has to mention what it changes.
func LoadSettings(location string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(location)
	if err != nil {
		return s, err
	}
	conf := gjson.ParseBytes(data)

	if v := conf.Get("site_name"); v.Exists() {
		s.SiteName = v.String()
	}
	if v := conf.Get("sign_in_logo"); v.Exists() {
		s.SignInLogo = v.String()
	}
	if v := conf.Get("header_logo"); v.Exists() {
		s.HeaderLogo = v.String()
	}
	if v := conf.Get("favicon"); v.Exists() {
		s.Favicon = v.String()
	}
	if v := conf.Get("primary_color"); v.Exists() {
		s.PrimaryColor = v.String()
	}
	if v := conf.Get("prefix"); v.Exists() {
		s.Prefix = v.String()
	}
	if v := conf.Get("user_model"); v.Exists() {
		s.UserModel = v.String()
	}
	if v := conf.Get("username_field"); v.Exists() {
		s.UsernameField = v.String()
	}
	if v := conf.Get("session.cookie"); v.Exists() {
		s.CookieName = v.String()
	}
	if v := conf.Get("session.ttl"); v.Exists() {
		s.SessionTTL = time.Duration(v.Int()) * time.Second
	}
	if v := conf.Get("date_format"); v.Exists() {
		s.DateFormat = v.String()
	}
	if v := conf.Get("datetime_format"); v.Exists() {
		s.DatetimeFormat = v.String()
	}
	if v := conf.Get("time_format"); v.Exists() {
		s.TimeFormat = v.String()
	}
	if v := conf.Get("signin_rate_limit"); v.Exists() {
		s.SignInRate = v.Float()
	}
	return s, nil
}
