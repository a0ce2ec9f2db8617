package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cafe_pos/internal/service"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
	authmw "github.com/Skotchmaster/cafe_pos/pkg/middleware/auth"
	"github.com/Skotchmaster/cafe_pos/pkg/util"
)

type ReceiptHTTP struct {
	Svc     *service.ReceiptService
	Printer service.Printer
}

func optionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List is the archive view: ?from&to (days), ?table, ?q, ?min&max, ?page&size.
func (h *ReceiptHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "receipts.list")

	table, err := optionalID(c.QueryParam("table"))
	if err != nil {
		return badRequest(l, "list_receipts_error", "table is not an id", err)
	}
	minTotal, err := optionalDecimal(c.QueryParam("min"))
	if err != nil {
		return badRequest(l, "list_receipts_error", "min is not a number", err)
	}
	maxTotal, err := optionalDecimal(c.QueryParam("max"))
	if err != nil {
		return badRequest(l, "list_receipts_error", "max is not a number", err)
	}

	page, err := h.Svc.List(ctx, service.ReceiptFilter{
		From:     c.QueryParam("from"),
		To:       c.QueryParam("to"),
		TableID:  table,
		Query:    c.QueryParam("q"),
		MinTotal: minTotal,
		MaxTotal: maxTotal,
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		Size:     util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	})
	if err != nil {
		return fail(l, "list_receipts_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReceiptHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "receipts.get")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_receipt_error", err.Error(), err)
	}
	o, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_receipt_error", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *ReceiptHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "receipts.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_receipt_error", err.Error(), err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_receipt_error", err)
	}
	l.Info("delete_receipt_success", "id", id, "by", authmw.Username(c))
	return c.NoContent(http.StatusNoContent)
}

// PrintHTML reprints an archived receipt.
func (h *ReceiptHTTP) PrintHTML(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "receipts.print")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "print_receipt_error", err.Error(), err)
	}
	o, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "print_receipt_error", err)
	}
	html, err := h.Printer.HTML(o)
	if err != nil {
		return fail(l, "print_receipt_error", err)
	}
	return c.HTML(http.StatusOK, html)
}

func (h *ReceiptHTTP) PDF(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "receipts.pdf")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "receipt_pdf_error", err.Error(), err)
	}
	o, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "receipt_pdf_error", err)
	}
	doc, err := h.Printer.PDF(o)
	if err != nil {
		return fail(l, "receipt_pdf_error", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", "racun-"+o.ReceiptNo.String()+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", doc)
}
