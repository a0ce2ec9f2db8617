package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Skotchmaster/cafe_pos/pkg/tokens"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func runGuarded(t *testing.T, ck *http.Cookie) (*httptest.ResponseRecorder, string, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if ck != nil {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	mw := NewSessionMiddleware([]byte("secret"), false)
	err := mw.RequireAdmin(func(c echo.Context) error {
		seen = Username(c)
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, seen, err
}

func TestRequireAdminAllowsValidSession(t *testing.T) {
	tok, err := tokens.CreateSessionToken("admin", []byte("secret"), time.Now())
	require.NoError(t, err)

	rec, seen, err := runGuarded(t, &http.Cookie{Name: tokens.SessionCookie, Value: tok})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "admin", seen)
}

func TestRequireAdminRejects(t *testing.T) {
	_, _, err := runGuarded(t, nil)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)

	rec, _, err := runGuarded(t, &http.Cookie{Name: tokens.SessionCookie, Value: "garbage"})
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.Contains(t, rec.Header().Get("Set-Cookie"), tokens.SessionCookie+"=")
}
