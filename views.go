package goadmin

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// indexView serves the single-page UI shell. Every non-API, non-static path
// gets the same document; the frontend routes from there.
func (a *App) indexView(c ctx) error {
	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/static/") {
		return echo.ErrNotFound
	}

	s := a.settings
	buf := new(strings.Builder)
	err := a.indexTmpl.Execute(buf, obj{
		"SiteName":     s.SiteName,
		"Favicon":      s.Favicon,
		"PrimaryColor": s.PrimaryColor,
		"Prefix":       s.Prefix,
	})
	if err != nil {
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not render the page")
	}
	return c.HTML(http.StatusOK, buf.String())
}
