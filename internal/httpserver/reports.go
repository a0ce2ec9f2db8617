package httpserver

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cafe_pos/internal/service"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
	"github.com/Skotchmaster/cafe_pos/pkg/util"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHTTP struct {
	Svc     *service.ReportService
	Printer service.Printer
}

// Days serves the daily (n=1) and weekly (n=7) views; n=0 returns every
// business day on record.
func (h *ReportHTTP) Days(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reports.days")

	rep, err := h.Svc.Days(ctx, util.ParseIntDefault(c.QueryParam("n"), 7))
	if err != nil {
		return fail(l, "report_days_error", err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHTTP) DaysXLSX(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reports.days_xlsx")

	n := util.ParseIntDefault(c.QueryParam("n"), 7)
	var buf bytes.Buffer
	if err := h.Svc.ExportDays(ctx, &buf, n); err != nil {
		return fail(l, "report_export_error", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("promet-%d.xlsx", n)))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (h *ReportHTTP) Open(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reports.open")

	tot, err := h.Svc.OpenTotals(ctx)
	if err != nil {
		return fail(l, "report_open_error", err)
	}
	return c.JSON(http.StatusOK, tot)
}

func (h *ReportHTTP) Shift(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reports.shift")

	rep, err := h.Svc.PendingShift(ctx)
	if err != nil {
		return fail(l, "report_shift_error", err)
	}
	return c.JSON(http.StatusOK, rep)
}

// CloseShift records the close and answers with the printable summary.
func (h *ReportHTTP) CloseShift(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reports.close_shift")

	rep, err := h.Svc.CloseShift(ctx)
	if err != nil {
		return fail(l, "close_shift_error", err)
	}
	l.Info("close_shift_success", "total", rep.Total.StringFixed(2), "count", rep.Count)

	html, err := h.Printer.Shift(rep)
	if err != nil {
		return fail(l, "close_shift_error", err)
	}
	return c.HTML(http.StatusOK, html)
}

func (h *ReportHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reports.history")

	hist, err := h.Svc.History(ctx)
	if err != nil {
		return fail(l, "shift_history_error", err)
	}
	return c.JSON(http.StatusOK, hist)
}
