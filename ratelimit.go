package goadmin

import (
	"github.com/didip/tollbooth/v7"
	"github.com/labstack/echo/v4"
)

// rateLimit builds a per-IP rate limiting middleware for abuse-prone routes,
// currently just sign-in. perSecond <= 0 disables limiting.
func rateLimit(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	lmt := tollbooth.NewLimiter(perSecond, nil)
	// Trust the socket address over client-supplied forwarding headers.
	lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c ctx) error {
			if httpError := tollbooth.LimitByRequest(lmt, c.Response(), c.Request()); httpError != nil {
				return JSONErr(c, httpError.StatusCode, httpError.Message)
			}
			return next(c)
		}
	}
}
