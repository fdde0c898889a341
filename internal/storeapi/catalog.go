package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pskitchenware/storefront/internal/cart"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/webserver"
)

// productView adds the price shown before a size is picked
type productView struct {
	domain.Product
	DisplayPrice *float64 `json:"displayPrice,omitempty"`
}

func viewOf(p domain.Product) productView {
	return productView{Product: p, DisplayPrice: cart.DisplayPrice(p)}
}

func viewsOf(products []domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, viewOf(p))
	}
	return views
}

func registerCatalogRoutes() {
	webserver.StoreGET("/content", getContent)
	webserver.StoreGET("/hero", getHero)
	webserver.StoreGET("/categories/:slug", getCategory)
	webserver.StoreGET("/products/:id", getProduct)
	webserver.StoreGET("/search", search)
}

func getContent(c echo.Context) error {
	ctx := c.Request().Context()
	svc := appContext(c).Catalog()
	content := svc.Load(ctx)
	return ok(c, map[string]interface{}{
		"heroProducts": viewsOf(svc.HeroProducts(ctx)),
		"categories":   content.Categories,
	})
}

func getHero(c echo.Context) error {
	return ok(c, viewsOf(appContext(c).Catalog().HeroProducts(c.Request().Context())))
}

func getCategory(c echo.Context) error {
	cat, products, err := appContext(c).Catalog().CategoryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	}
	return ok(c, map[string]interface{}{
		"category": cat,
		"products": viewsOf(products),
	})
}

func getProduct(c echo.Context) error {
	p, err := appContext(c).Catalog().Product(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}
	return ok(c, viewOf(*p))
}

func search(c echo.Context) error {
	q := c.QueryParam("q")
	results := appContext(c).Catalog().Search(c.Request().Context(), q)
	return ok(c, map[string]interface{}{
		"query":   q,
		"results": viewsOf(results),
	})
}
