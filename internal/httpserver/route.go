package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cafe_pos/internal/repo"
	authmw "github.com/Skotchmaster/cafe_pos/pkg/middleware/auth"
	"github.com/Skotchmaster/cafe_pos/pkg/middleware/csrf"
)

type Deps struct {
	Repo     *repo.GormRepo
	Auth     *AuthHTTP
	Catalog  *CatalogHTTP
	Layout   *LayoutHTTP
	Orders   *OrderHTTP
	Receipts *ReceiptHTTP
	Reports  *ReportHTTP
	Settings *SettingsHTTP
	Session  *authmw.SessionMiddleware
	CSRF     csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := d.Repo.Ping(c.Request().Context()); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me)

	api.GET("/settings/theme", d.Settings.GetTheme)
	api.PUT("/settings/theme", d.Settings.PutTheme)

	api.GET("/tables/map", d.Layout.Map)
	api.GET("/icons", d.Catalog.Icons)
	api.GET("/categories", d.Catalog.ListCategories)
	api.GET("/products", d.Catalog.ListProducts)
	api.GET("/products/top", d.Catalog.TopProducts)
	api.GET("/products/:id", d.Catalog.GetProduct)

	api.POST("/tables/:id/order", d.Orders.OpenTable)
	api.GET("/orders/:id", d.Orders.GetOrder)
	api.POST("/orders/:id/items", d.Orders.AddItem)
	api.PATCH("/orders/:id/items/:itemID", d.Orders.PatchItem)
	api.POST("/orders/:id/print", d.Orders.Print)
	api.POST("/orders/:id/split", d.Orders.Split)
	api.POST("/quick/print", d.Orders.Quick)

	reports := api.Group("/reports")
	reports.GET("/days", d.Reports.Days)
	reports.GET("/days.xlsx", d.Reports.DaysXLSX)
	reports.GET("/open", d.Reports.Open)
	reports.GET("/shift", d.Reports.Shift)
	reports.POST("/shift/close", d.Reports.CloseShift)
	reports.GET("/shift/history", d.Reports.History)

	admin := api.Group("/admin", d.Session.RequireAdmin, csrf.Middleware(d.CSRF))
	admin.POST("/categories", d.Catalog.CreateCategory)
	admin.PATCH("/categories/:id", d.Catalog.PatchCategory)
	admin.DELETE("/categories/:id", d.Catalog.DeleteCategory)
	admin.POST("/products", d.Catalog.CreateProduct)
	admin.PATCH("/products/:id", d.Catalog.PatchProduct)
	admin.DELETE("/products/:id", d.Catalog.DeleteProduct)
	admin.POST("/catalog/import", d.Catalog.Import)

	admin.POST("/tables", d.Layout.CreateTable)
	admin.PATCH("/tables/:id", d.Layout.RenameTable)
	admin.PUT("/tables/:id/position", d.Layout.PlaceTable)
	admin.DELETE("/tables/:id", d.Layout.DeleteTable)

	admin.GET("/receipts", d.Receipts.List)
	admin.GET("/receipts/:id", d.Receipts.Get)
	admin.DELETE("/receipts/:id", d.Receipts.Delete)
	admin.GET("/receipts/:id/print", d.Receipts.PrintHTML)
	admin.GET("/receipts/:id/pdf", d.Receipts.PDF)
}
