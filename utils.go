package goadmin

import (
	"io"

	"github.com/asaskevich/govalidator"
	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"
)

func validUsername(username string) bool {
	return govalidator.Matches(username, `^[a-zA-Z0-9@._-]{1,150}$`)
}

// JSONErr helper to send a simple {"err": msg} json with an arbitrary code
func JSONErr(c ctx, code int, err string) error {
	return c.JSON(code, obj{"err": err, "ok": false})
}

// JSONbody get echo.Context's body as a gjson.Result
func JSONbody(c ctx) (gjson.Result, error) {
	var res gjson.Result
	reqbody := c.Request().Body
	if reqbody == nil {
		return res, echo.ErrUnsupportedMediaType
	}
	body, err := io.ReadAll(reqbody)
	if err != nil {
		return res, err
	}
	if !gjson.ValidBytes(body) {
		return res, echo.ErrBadRequest
	}
	res = gjson.ParseBytes(body)
	return res, nil
}

var bmPolicy = bluemonday.UGCPolicy()

func renderMarkdown(input []byte) []byte {
	return bmPolicy.SanitizeBytes(blackfriday.Run(input))
}

// HashPassword turns a plain password into a bcrypt hash for storage.
// Descriptor implementations and seeds use this together with CheckPassword.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches a stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
