// Package goadmin is an auto-generated admin panel for Go web applications.
//
// A host application describes each model it wants managed with a ModelAdmin
// descriptor, registers the descriptors in a Registry, and mounts the App,
// an http.Handler, wherever it likes. The App serves the admin single-page
// UI, its static assets, and a JSON API for authentication and model CRUD.
// Administrators authenticate against the descriptor named by
// Settings.UserModel; sessions ride an opaque cookie and stay valid only
// while that model remains registered.
package goadmin

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type obj = map[string]interface{}
type ctx = echo.Context

//go:embed static
var staticFS embed.FS

//go:embed templates
var templateFS embed.FS

// App is one mounted admin panel: an echo instance wired to a registry, a
// session store and settings. Create it with New, then either Start it
// standalone or mount it as an http.Handler.
type App struct {
	echo      *echo.Echo
	registry  *Registry
	settings  Settings
	sessions  SessionStore
	indexTmpl *template.Template
}

// New builds an admin App over the given registry using an in-memory session
// store. Zero settings fields fall back to DefaultSettings.
func New(settings Settings, registry *Registry) *App {
	return NewWithSessions(settings, registry, nil)
}

// NewWithSessions is New with a custom session store, for hosts that keep
// sessions in external storage. A nil store selects the in-memory default.
func NewWithSessions(settings Settings, registry *Registry, sessions SessionStore) *App {
	settings = settings.withDefaults()
	if registry == nil {
		registry = NewRegistry()
	}
	if sessions == nil {
		sessions = NewMemorySessionStore(settings.SessionTTL)
	}

	a := &App{
		echo:      echo.New(),
		registry:  registry,
		settings:  settings,
		sessions:  sessions,
		indexTmpl: template.Must(template.ParseFS(templateFS, "templates/index.gohtml")),
	}

	// Removing a model must revoke the sessions it issued.
	registry.OnUnregister(sessions.DeleteModel)

	e := a.echo
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.INFO)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${method}::${status} ${host}${uri}  \tlag=${latency_human}\n",
	}))

	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))

	api := e.Group("/api")
	api.POST("/sign-in", a.signIn, rateLimit(settings.SignInRate))
	api.GET("/me", a.requireSession(a.me))
	api.POST("/sign-out", a.requireSession(a.signOut))
	api.GET("/configuration", a.configuration)

	api.GET("/list/:model", a.requireSession(a.list))
	api.GET("/retrieve/:model/:id", a.requireSession(a.retrieve))
	api.POST("/add/:model", a.requireSession(a.add))
	api.PATCH("/change/:model/:id", a.requireSession(a.change))
	api.DELETE("/delete/:model/:id", a.requireSession(a.deleteRow))
	api.POST("/export/:model", a.requireSession(a.export))
	api.POST("/action/:model/:action", a.requireSession(a.action))
	api.PATCH("/change-password/:id", a.requireSession(a.changePassword))

	e.GET("/", a.indexView)
	// The frontend routes client-side; unknown paths get the same shell.
	e.RouteNotFound("/*", a.indexView)

	return a
}

// ServeHTTP implements http.Handler so hosts can mount the panel under any
// prefix, e.g. http.Handle("/admin/", http.StripPrefix("/admin", app)).
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.echo.ServeHTTP(w, r)
}

// Start serves the panel standalone on addr and blocks.
func (a *App) Start(addr string) error {
	return a.echo.Start(addr)
}

// Echo exposes the underlying echo instance, for hosts that want to add
// middleware or routes of their own.
func (a *App) Echo() *echo.Echo {
	return a.echo
}

// Registry returns the registry this App serves from.
func (a *App) Registry() *Registry {
	return a.registry
}

// Settings returns a copy of the effective settings.
func (a *App) Settings() Settings {
	return a.settings
}

// httpErrorHandler keeps router-level errors (404, 405) in the same JSON
// shape the handlers use.
func (a *App) httpErrorHandler(err error, c ctx) {
	code := http.StatusInternalServerError
	msg := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	} else {
		a.echo.Logger.Error(err)
	}
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = JSONErr(c, code, msg)
}
