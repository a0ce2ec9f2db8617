package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cafe_pos/internal/models"
	"github.com/Skotchmaster/cafe_pos/internal/service"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
	"github.com/Skotchmaster/cafe_pos/pkg/util"
)

const receiptIDHeader = "X-Receipt-Id"

type OrderHTTP struct {
	Svc     *service.OrderService
	Printer service.Printer
}

type addItemRequest struct {
	ProductID uint `json:"product_id"`
	Guest     int  `json:"guest"`
}

// patchItemRequest carries either a quantity delta or a new guest.
type patchItemRequest struct {
	Delta *int `json:"delta"`
	Guest *int `json:"guest"`
}

type printRequest struct {
	Guest int `json:"guest"`
}

type splitLine struct {
	ItemID uint `json:"item_id"`
	Qty    int  `json:"qty"`
}

type splitRequest struct {
	Lines []splitLine `json:"lines"`
}

type quickRequest struct {
	Lines []service.QuickLine `json:"lines"`
}

func (h *OrderHTTP) OpenTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.open_table")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "open_table_error", err.Error(), err)
	}
	o, err := h.Svc.OpenTable(ctx, id)
	if err != nil {
		return fail(l, "open_table_error", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get_order")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_order_error", err.Error(), err)
	}
	guest := util.ParseIntDefault(c.QueryParam("guest"), 0)
	o, err := h.Svc.GuestView(ctx, id, guest)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.add_item")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "add_item_error", err.Error(), err)
	}
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_item_error", "invalid body", err)
	}
	o, err := h.Svc.AddItem(ctx, id, req.ProductID, req.Guest)
	if err != nil {
		return fail(l, "add_item_error", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) PatchItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.patch_item")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "patch_item_error", err.Error(), err)
	}
	itemID, err := parseID(c, "itemID")
	if err != nil {
		return badRequest(l, "patch_item_error", err.Error(), err)
	}
	var req patchItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_item_error", "invalid body", err)
	}

	var o *service.OrderView
	switch {
	case req.Delta != nil:
		o, err = h.Svc.ChangeQty(ctx, id, itemID, *req.Delta)
	case req.Guest != nil:
		o, err = h.Svc.SetGuest(ctx, id, itemID, *req.Guest)
	default:
		return badRequest(l, "patch_item_error", "delta or guest is required", nil)
	}
	if err != nil {
		return fail(l, "patch_item_error", err)
	}
	return c.JSON(http.StatusOK, o)
}

// Print archives the order (or one guest's part of it) and answers with
// the printable receipt.
func (h *OrderHTTP) Print(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.print")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "print_order_error", err.Error(), err)
	}
	var req printRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "print_order_error", "invalid body", err)
	}
	arch, err := h.Svc.Print(ctx, id, req.Guest)
	if err != nil {
		return fail(l, "print_order_error", err)
	}
	l.Info("print_order_success", "order_id", id, "receipt_id", arch.ID, "total", arch.Total.StringFixed(2))
	return h.receipt(c, arch)
}

func (h *OrderHTTP) Split(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.split")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "split_order_error", err.Error(), err)
	}
	var req splitRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "split_order_error", "invalid body", err)
	}
	take := make(map[uint]int, len(req.Lines))
	for _, ln := range req.Lines {
		take[ln.ItemID] += ln.Qty
	}
	arch, err := h.Svc.PrintSplit(ctx, id, take)
	if err != nil {
		return fail(l, "split_order_error", err)
	}
	l.Info("split_order_success", "order_id", id, "receipt_id", arch.ID, "total", arch.Total.StringFixed(2))
	return h.receipt(c, arch)
}

func (h *OrderHTTP) Quick(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.quick")

	var req quickRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "quick_print_error", "invalid body", err)
	}
	arch, err := h.Svc.PrintQuick(ctx, req.Lines)
	if err != nil {
		return fail(l, "quick_print_error", err)
	}
	l.Info("quick_print_success", "receipt_id", arch.ID, "total", arch.Total.StringFixed(2))
	return h.receipt(c, arch)
}

// The archive is already committed here; a render failure does not undo
// it and the receipt can be reprinted from the archive.
func (h *OrderHTTP) receipt(c echo.Context, arch *models.ArchivedOrder) error {
	l := logging.FromContext(c.Request().Context())
	c.Response().Header().Set(receiptIDHeader, strconv.FormatUint(uint64(arch.ID), 10))
	html, err := h.Printer.HTML(arch)
	if err != nil {
		return fail(l, "render_receipt_error", err)
	}
	return c.HTML(http.StatusCreated, html)
}
