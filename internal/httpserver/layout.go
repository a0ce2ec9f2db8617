package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cafe_pos/internal/service"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
)

type LayoutHTTP struct {
	Svc *service.LayoutService
}

type tableRequest struct {
	Name string `json:"name"`
}

type positionRequest struct {
	XPct *float64 `json:"xpct"`
	YPct *float64 `json:"ypct"`
}

func (h *LayoutHTTP) Map(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "layout.map")

	tables, err := h.Svc.Tables(ctx)
	if err != nil {
		return fail(l, "table_map_error", err)
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *LayoutHTTP) CreateTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "layout.create_table")

	var req tableRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_table_error", "invalid body", err)
	}
	t, err := h.Svc.CreateTable(ctx, req.Name)
	if err != nil {
		return fail(l, "create_table_error", err)
	}
	l.Info("create_table_success", "id", t.ID)
	return c.JSON(http.StatusCreated, t)
}

func (h *LayoutHTTP) RenameTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "layout.rename_table")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "rename_table_error", err.Error(), err)
	}
	var req tableRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "rename_table_error", "invalid body", err)
	}
	t, err := h.Svc.RenameTable(ctx, id, req.Name)
	if err != nil {
		return fail(l, "rename_table_error", err)
	}
	return c.JSON(http.StatusOK, t)
}

// PlaceTable is called on every drag or click in the editor.
func (h *LayoutHTTP) PlaceTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "layout.place_table")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "place_table_error", err.Error(), err)
	}
	var req positionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "place_table_error", "invalid body", err)
	}
	if req.XPct == nil || req.YPct == nil {
		return badRequest(l, "place_table_error", "xpct and ypct are required", nil)
	}
	t, err := h.Svc.PlaceTable(ctx, id, *req.XPct, *req.YPct)
	if err != nil {
		return fail(l, "place_table_error", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *LayoutHTTP) DeleteTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "layout.delete_table")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_table_error", err.Error(), err)
	}
	if err := h.Svc.DeleteTable(ctx, id); err != nil {
		return fail(l, "delete_table_error", err)
	}
	l.Info("delete_table_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}
