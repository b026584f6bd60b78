package goadmin

import (
	"errors"
	"net/http"
)

func (a *App) signIn(c ctx) error {
	body, err := JSONbody(c)
	if err != nil {
		return badRequestError(c)
	}

	username := body.Get("username").String()
	if !validUsername(username) {
		return unauthorizedError(c)
	}
	password := body.Get("password").String()

	admin, ok := a.userAdmin()
	if !ok {
		a.echo.Logger.Debugf("sign-in refused: no usable user model %q", a.settings.UserModel)
		return unauthorizedError(c)
	}

	userID, err := admin.Authenticate(c.Request().Context(), username, password)
	if err != nil || userID == "" {
		a.echo.Logger.Debugf("sign-in failed for %q: %v", username, err)
		return unauthorizedError(c)
	}

	sess, err := a.sessions.Create(admin.ModelName(), userID, username)
	if err != nil {
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not create a session")
	}
	a.setSessionCookie(c, sess)

	return c.JSON(http.StatusOK, obj{"ok": true})
}

func (a *App) me(c ctx, sess *Session) error {
	// credentialCheck already proved the model is registered.
	admin, _ := a.registry.Get(sess.Model)

	row, err := admin.Get(c.Request().Context(), sess.UserID)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, stripExcluded(row, admin.Config()))
	case errors.Is(err, ErrNotFound):
		// The account behind the session is gone; so is the session.
		a.sessions.Delete(sess.ID)
		return unauthorizedError(c)
	case errors.Is(err, ErrNotImplemented):
		return c.JSON(http.StatusOK, obj{
			"id":                     sess.UserID,
			a.settings.UsernameField: sess.Username,
		})
	default:
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not load your account")
	}
}

func (a *App) signOut(c ctx, sess *Session) error {
	a.sessions.Delete(sess.ID)
	a.expireSessionCookie(c)
	return c.JSON(http.StatusOK, obj{"ok": true})
}
