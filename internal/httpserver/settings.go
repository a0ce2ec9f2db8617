package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cafe_pos/internal/service"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
)

type SettingsHTTP struct {
	Svc *service.SettingsService
}

type themeBody struct {
	Theme string `json:"theme"`
}

func (h *SettingsHTTP) GetTheme(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.get_theme")

	theme, err := h.Svc.Theme(ctx)
	if err != nil {
		return fail(l, "get_theme_error", err)
	}
	return c.JSON(http.StatusOK, themeBody{Theme: theme})
}

func (h *SettingsHTTP) PutTheme(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.put_theme")

	var req themeBody
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "put_theme_error", "invalid body", err)
	}
	theme, err := h.Svc.SetTheme(ctx, req.Theme)
	if err != nil {
		return fail(l, "put_theme_error", err)
	}
	return c.JSON(http.StatusOK, themeBody{Theme: theme})
}
