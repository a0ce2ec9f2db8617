package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cafe_pos/internal/service"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
	"github.com/Skotchmaster/cafe_pos/pkg/tokens"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login answers {ok:false,error} on bad credentials so the login screen
// can show the message as is.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_error", "invalid body", err)
	}

	tok, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			l.Warn("login_failed", "status", http.StatusUnauthorized, "username", req.Username)
			return c.JSON(http.StatusUnauthorized, echo.Map{"ok": false, "error": service.LoginFailed})
		}
		return fail(l, "login_error", err)
	}

	c.SetCookie(tokens.CreateCookie(tokens.SessionCookie, tok, "/", time.Time{}, h.CookieSecure))
	l.Info("login_successful", "username", req.Username)
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "username": req.Username})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")
	c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/", h.CookieSecure))
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Me reports the session marker, if any. It never fails: a missing or
// broken cookie just means nobody is logged in.
func (h *AuthHTTP) Me(c echo.Context) error {
	ck, err := c.Cookie(tokens.SessionCookie)
	if err != nil || ck.Value == "" {
		return c.JSON(http.StatusOK, echo.Map{"logged_in": false})
	}
	claims, err := tokens.SessionClaimsFromToken(ck.Value, h.Svc.Secret)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"logged_in": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"logged_in": true, "username": claims.Username})
}
