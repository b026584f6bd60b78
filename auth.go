package goadmin

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var (
	// ErrUnauthorized what ever happened it was not authorized
	ErrUnauthorized = errors.New("unauthorized request")
	// ErrNotRegistered the model has no registry entry
	ErrNotRegistered = errors.New("model is not registered")

	unauthorizedError = sendError(http.StatusUnauthorized, "unauthorized request, cannot proceed")
	badRequestError   = sendError(http.StatusBadRequest, "bad request, check details and try again")
)

func sendError(code int, errorStr string) func(c ctx) error {
	return func(c ctx) error {
		return JSONErr(c, code, errorStr)
	}
}

// credentialCheck gets the live session behind a request's cookie. A session
// only counts while its owning model is still registered; a stale one is
// dropped from the store on sight.
func (a *App) credentialCheck(c ctx) (*Session, error) {
	cookie, err := c.Cookie(a.settings.CookieName)
	if err != nil || cookie == nil || cookie.Value == "" {
		return nil, ErrUnauthorized
	}

	sess, ok := a.sessions.Get(cookie.Value)
	if !ok {
		return nil, ErrUnauthorized
	}

	if _, ok := a.registry.Get(sess.Model); !ok {
		a.sessions.Delete(sess.ID)
		a.echo.Logger.Debugf("dropping session of unregistered model %q", sess.Model)
		return nil, ErrNotRegistered
	}

	return sess, nil
}

// requireSession wraps a handler so it only runs for authenticated requests.
func (a *App) requireSession(handle func(ctx, *Session) error) echo.HandlerFunc {
	return func(c ctx) error {
		sess, err := a.credentialCheck(c)
		if err != nil || sess == nil {
			return unauthorizedError(c)
		}
		return handle(c, sess)
	}
}

func (a *App) setSessionCookie(c ctx, sess *Session) {
	c.SetCookie(&http.Cookie{
		Name:     a.settings.CookieName,
		Value:    sess.ID,
		Expires:  sess.Expires,
		MaxAge:   int(time.Until(sess.Expires) / time.Second),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *App) expireSessionCookie(c ctx) {
	c.SetCookie(&http.Cookie{
		Name:     a.settings.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// userAdmin returns the descriptor that authenticates administrators, i.e.
// the one registered under Settings.UserModel, provided it implements
// UserModelAdmin.
func (a *App) userAdmin() (UserModelAdmin, bool) {
	if a.settings.UserModel == "" {
		return nil, false
	}
	admin, ok := a.registry.Get(a.settings.UserModel)
	if !ok {
		return nil, false
	}
	user, ok := admin.(UserModelAdmin)
	return user, ok
}
