package goadmin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	notFoundError  = sendError(http.StatusNotFound, "no such record or model")
	forbiddenError = sendError(http.StatusForbidden, "this operation is disabled for the model")
)

// modelAdmin resolves the :model route param to its descriptor.
func (a *App) modelAdmin(c ctx) (ModelAdmin, error) {
	admin, ok := a.registry.Get(c.Param("model"))
	if !ok {
		return nil, ErrNotRegistered
	}
	return admin, nil
}

// parseQuery reads the list parameters off the request. Unparsable numbers
// fall back to the defaults rather than erroring; sloppy frontends abound.
func parseQuery(c ctx, cfg ModelConfig) Query {
	q := Query{Limit: cfg.PerPage, Filters: map[string]string{}}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		q.Offset = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		q.Limit = v
	}
	q.SortBy = c.QueryParam("sort_by")
	q.Search = c.QueryParam("search")
	for key, vals := range c.QueryParams() {
		if field, ok := strings.CutPrefix(key, "filter."); ok && field != "" && len(vals) > 0 {
			q.Filters[field] = vals[0]
		}
	}
	return q
}

func (a *App) list(c ctx, _ *Session) error {
	admin, err := a.modelAdmin(c)
	if err != nil {
		return notFoundError(c)
	}
	cfg := admin.Config()

	rows, total, err := admin.List(c.Request().Context(), parseQuery(c, cfg))
	if err != nil {
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not list records")
	}

	results := make([]Row, 0, len(rows))
	for _, row := range rows {
		results = append(results, stripExcluded(row, cfg))
	}
	return c.JSON(http.StatusOK, obj{"total": total, "results": results})
}

func (a *App) retrieve(c ctx, _ *Session) error {
	admin, err := a.modelAdmin(c)
	if err != nil {
		return notFoundError(c)
	}

	row, err := admin.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundError(c)
		}
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not load the record")
	}
	return c.JSON(http.StatusOK, stripExcluded(row, admin.Config()))
}

func (a *App) add(c ctx, _ *Session) error {
	admin, err := a.modelAdmin(c)
	if err != nil {
		return notFoundError(c)
	}
	if !admin.Config().Permissions.Add {
		return forbiddenError(c)
	}

	fields, err := rowBody(c)
	if err != nil {
		return badRequestError(c)
	}

	row, err := admin.Save(c.Request().Context(), "", fields)
	if err != nil {
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not create the record")
	}
	return c.JSON(http.StatusOK, stripExcluded(row, admin.Config()))
}

func (a *App) change(c ctx, _ *Session) error {
	admin, err := a.modelAdmin(c)
	if err != nil {
		return notFoundError(c)
	}
	if !admin.Config().Permissions.Change {
		return forbiddenError(c)
	}

	fields, err := rowBody(c)
	if err != nil {
		return badRequestError(c)
	}

	row, err := admin.Save(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundError(c)
		}
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not update the record")
	}
	return c.JSON(http.StatusOK, stripExcluded(row, admin.Config()))
}

func (a *App) deleteRow(c ctx, _ *Session) error {
	admin, err := a.modelAdmin(c)
	if err != nil {
		return notFoundError(c)
	}
	if !admin.Config().Permissions.Delete {
		return forbiddenError(c)
	}

	id := c.Param("id")
	if err := admin.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundError(c)
		}
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not delete the record")
	}
	return c.JSON(http.StatusOK, obj{"id": id, "ok": true})
}

func (a *App) action(c ctx, _ *Session) error {
	admin, err := a.modelAdmin(c)
	if err != nil {
		return notFoundError(c)
	}
	performer, ok := admin.(ActionPerformer)
	if !ok {
		return notFoundError(c)
	}

	name := c.Param("action")
	known := false
	for _, offered := range performer.Actions() {
		if offered == name {
			known = true
			break
		}
	}
	if !known {
		return notFoundError(c)
	}

	body, err := JSONbody(c)
	if err != nil {
		return badRequestError(c)
	}
	var ids []string
	for _, v := range body.Get("ids").Array() {
		ids = append(ids, v.String())
	}

	if err := performer.PerformAction(c.Request().Context(), name, ids); err != nil {
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "the action failed")
	}
	return c.JSON(http.StatusOK, obj{"ok": true})
}

func (a *App) changePassword(c ctx, _ *Session) error {
	admin, ok := a.userAdmin()
	if !ok {
		return notFoundError(c)
	}
	changer, ok := admin.(PasswordChanger)
	if !ok {
		return notFoundError(c)
	}

	body, err := JSONbody(c)
	if err != nil {
		return badRequestError(c)
	}
	password := body.Get("password").String()
	if password == "" {
		return badRequestError(c)
	}

	if err := changer.ChangePassword(c.Request().Context(), c.Param("id"), password); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotImplemented) {
			return notFoundError(c)
		}
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not change the password")
	}
	return c.JSON(http.StatusOK, obj{"ok": true})
}

// rowBody decodes the request body into a Row, rejecting anything that is not
// a JSON object.
func rowBody(c ctx) (Row, error) {
	body, err := JSONbody(c)
	if err != nil {
		return nil, err
	}
	if !body.IsObject() {
		return nil, echo.ErrBadRequest
	}
	fields := Row{}
	for key, val := range body.Map() {
		fields[key] = val.Value()
	}
	return fields, nil
}
