package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// ContextKey holds the verified token on the echo context.
const ContextKey = "csrf_token"

type Config struct {
	CookieName string
	HeaderName string
	Secure     bool
	MaxAge     time.Duration

	// EnforceSameOrigin rejects writes whose Origin (or Referer) is not
	// the host serving the admin screens.
	EnforceSameOrigin bool
}

func DefaultConfig() Config {
	return Config{
		CookieName:        "XSRF-TOKEN",
		HeaderName:        "X-CSRF-Token",
		MaxAge:            12 * time.Hour,
		EnforceSameOrigin: true,
	}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = def.HeaderName
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = def.MaxAge
	}
	return cfg
}

// Middleware issues a readable token cookie on every response and makes
// writes echo it back in the header.
func Middleware(cfg Config) echo.MiddlewareFunc {
	cfg = cfg.withDefaults()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token, err := cfg.ensureToken(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "csrf token unavailable")
			}

			if safeMethod(req.Method) {
				c.Response().Header().Set(cfg.HeaderName, token)
				return next(c)
			}

			if cfg.EnforceSameOrigin && !sameOrigin(req) {
				return echo.NewHTTPError(http.StatusForbidden, "invalid origin")
			}
			sent := req.Header.Get(cfg.HeaderName)
			if sent == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sent)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
			}

			c.Set(ContextKey, token)
			return next(c)
		}
	}
}

func (cfg Config) ensureToken(c echo.Context) (string, error) {
	if ck, err := c.Cookie(cfg.CookieName); err == nil && ck.Value != "" {
		cfg.writeCookie(c, ck.Value)
		return ck.Value, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	cfg.writeCookie(c, token)
	return token, nil
}

func (cfg Config) writeCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Secure:   cfg.Secure,
		MaxAge:   int(cfg.MaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
	})
}

func safeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}

func sameOrigin(r *http.Request) bool {
	src := r.Header.Get("Origin")
	if src == "" {
		src = r.Header.Get("Referer")
	}
	u, err := url.Parse(src)
	if src == "" || err != nil {
		return false
	}
	scheme := "http"
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	} else if r.TLS != nil {
		scheme = "https"
	}
	return strings.EqualFold(u.Scheme, scheme) && strings.EqualFold(u.Host, r.Host)
}
