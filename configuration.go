package goadmin

import (
	"net/http"

	"github.com/Machiel/slugify"
)

// configuration hands the frontend everything it needs to draw itself. The
// branding block is public (the sign-in screen uses it); the model list only
// appears for authenticated requests.
func (a *App) configuration(c ctx) error {
	models := []obj{}
	if _, err := a.credentialCheck(c); err == nil {
		for _, name := range a.registry.Names() {
			admin, ok := a.registry.Get(name)
			if !ok {
				continue
			}
			cfg := admin.Config()
			model := obj{
				"name":        name,
				"slug":        slugify.Slugify(name),
				"config":      cfg,
				"description": string(renderMarkdown([]byte(cfg.Description))),
			}
			if performer, ok := admin.(ActionPerformer); ok {
				model["actions"] = performer.Actions()
			}
			models = append(models, model)
		}
	}

	s := a.settings
	return c.JSON(http.StatusOK, obj{
		"site_name":       s.SiteName,
		"sign_in_logo":    s.SignInLogo,
		"header_logo":     s.HeaderLogo,
		"favicon":         s.Favicon,
		"primary_color":   s.PrimaryColor,
		"prefix":          s.Prefix,
		"username_field":  s.UsernameField,
		"date_format":     s.DateFormat,
		"datetime_format": s.DatetimeFormat,
		"time_format":     s.TimeFormat,
		"models":          models,
	})
}
