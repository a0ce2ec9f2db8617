package httpserver

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cafe_pos/internal/icons"
	"github.com/Skotchmaster/cafe_pos/internal/service"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
)

const maxImportBytes = 8 << 20

type CatalogHTTP struct {
	Svc *service.CatalogService
}

type iconView struct {
	Tag   icons.Icon `json:"tag"`
	Glyph string     `json:"glyph"`
}

func (h *CatalogHTTP) Icons(c echo.Context) error {
	all := icons.All()
	out := make([]iconView, 0, len(all))
	for _, i := range all {
		out = append(out, iconView{Tag: i, Glyph: i.Glyph()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req service.CategoryInput
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_category_error", "invalid body", err)
	}
	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return fail(l, "create_category_error", err)
	}
	l.Info("create_category_success", "id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_category")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "patch_category_error", err.Error(), err)
	}
	var req service.CategoryPatch
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_category_error", "invalid body", err)
	}
	cat, err := h.Svc.PatchCategory(ctx, id, req)
	if err != nil {
		return fail(l, "patch_category_error", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_category")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_category_error", err.Error(), err)
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "delete_category_error", err)
	}
	l.Info("delete_category_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

// ListProducts serves the POS product grid: ?category=<id> and ?q=<text>.
func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_products")

	cat, err := optionalID(c.QueryParam("category"))
	if err != nil {
		return badRequest(l, "list_products_error", "category is not an id", err)
	}
	prods, err := h.Svc.ListProducts(ctx, cat, c.QueryParam("q"))
	if err != nil {
		return fail(l, "list_products_error", err)
	}
	return c.JSON(http.StatusOK, prods)
}

func (h *CatalogHTTP) TopProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.top_products")

	prods, err := h.Svc.TopProducts(ctx)
	if err != nil {
		return fail(l, "top_products_error", err)
	}
	return c.JSON(http.StatusOK, prods)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_product_error", err.Error(), err)
	}
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}
	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}
	l.Info("create_product_success", "id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "patch_product_error", err.Error(), err)
	}
	var req service.ProductPatch
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_product_error", "invalid body", err)
	}
	p, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return fail(l, "patch_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_product_error", err.Error(), err)
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product_error", err)
	}
	l.Info("delete_product_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

// Import takes the price list either as a multipart "file" field or as the
// raw request body. CSV and XLSX are told apart by content.
func (h *CatalogHTTP) Import(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.import")

	var src io.Reader = c.Request().Body
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return badRequest(l, "import_error", "cannot read upload", err)
		}
		defer f.Close()
		src = f
	}

	data, err := io.ReadAll(io.LimitReader(src, maxImportBytes))
	if err != nil {
		return badRequest(l, "import_error", "cannot read upload", err)
	}
	res, err := h.Svc.ImportMenu(ctx, data)
	if err != nil {
		return fail(l, "import_error", err)
	}
	l.Info("import_success", "categories", res.Categories, "products", res.Products)
	return c.JSON(http.StatusOK, res)
}
