package middleware

import (
	"net/http"

	"github.com/Skotchmaster/cafe_pos/pkg/tokens"
	"github.com/labstack/echo/v4"
)

type SessionMiddleware struct {
	Secret       []byte
	CookieSecure bool
}

func NewSessionMiddleware(secret []byte, secure bool) *SessionMiddleware {
	return &SessionMiddleware{Secret: secret, CookieSecure: secure}
}

// RequireAdmin guards the admin screens. A broken or forged cookie is
// cleared so the client falls back to the login form.
func (m *SessionMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ck, err := c.Cookie(tokens.SessionCookie)
		if err != nil || ck.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
		}

		claims, err := tokens.SessionClaimsFromToken(ck.Value, m.Secret)
		if err != nil {
			c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/", m.CookieSecure))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}

		c.Set("username", claims.Username)
		return next(c)
	}
}

func Username(c echo.Context) string {
	s, _ := c.Get("username").(string)
	return s
}
