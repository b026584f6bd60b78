package goadmin

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Machiel/slugify"
	"github.com/labstack/echo/v4"
)

// export streams one page of a model's rows as a CSV or JSON attachment.
func (a *App) export(c ctx, _ *Session) error {
	admin, err := a.modelAdmin(c)
	if err != nil {
		return notFoundError(c)
	}
	cfg := admin.Config()
	if !cfg.Permissions.Export {
		return forbiddenError(c)
	}

	body, err := JSONbody(c)
	if err != nil {
		return badRequestError(c)
	}
	format := body.Get("format").String()
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		return badRequestError(c)
	}

	q := Query{Limit: cfg.PerPage}
	if v := body.Get("offset"); v.Exists() && v.Int() >= 0 {
		q.Offset = int(v.Int())
	}
	if v := body.Get("limit"); v.Exists() && v.Int() > 0 {
		q.Limit = int(v.Int())
	}

	rows, _, err := admin.List(c.Request().Context(), q)
	if err != nil {
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not export records")
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, stripExcluded(row, cfg))
	}

	filename := fmt.Sprintf("%s-%s.%s",
		slugify.Slugify(admin.ModelName()), time.Now().Format("2006-01-02"), format)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	if format == "json" {
		return c.JSON(http.StatusOK, out)
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, out, cfg); err != nil {
		a.echo.Logger.Error(err)
		return JSONErr(c, http.StatusInternalServerError, "could not export records")
	}
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// writeCSV renders rows with a header line. Column order follows the
// descriptor's list fields; without them the columns of the first row are
// used, sorted for stable output.
func writeCSV(buf *bytes.Buffer, rows []Row, cfg ModelConfig) error {
	columns := cfg.ListFields
	if len(columns) == 0 && len(rows) > 0 {
		for field := range rows[0] {
			columns = append(columns, field)
		}
		sort.Strings(columns)
	}

	w := csv.NewWriter(buf)
	if err := w.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = csvValue(row[col])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		// Matches what the JSON export would show for the same value.
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
