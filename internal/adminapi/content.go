package adminapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/catalog"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/webserver"
	"github.com/pskitchenware/storefront/pkg/common"
)

type categoryPayload struct {
	Name      string `json:"name" validate:"required,max=200"`
	ImageURL  string `json:"imageUrl"`
	ImageHint string `json:"imageHint" validate:"max=200"`
}

type subcategoryPayload struct {
	Name      string               `json:"name" validate:"required,max=200"`
	Tagline   string               `json:"tagline" validate:"max=500"`
	ImageURL  string               `json:"imageUrl"`
	ImageHint string               `json:"imageHint" validate:"max=200"`
	Price     *float64             `json:"price" validate:"omitempty,gte=0"`
	Sizes     []domain.ProductSize `json:"sizes" validate:"dive"`
}

func registerContentRoutes() {
	webserver.ApiGET("/content", getContent)
	webserver.ApiPUT("/content", replaceContent)
	webserver.ApiPUT("/content/hero", updateHeroProducts)
	webserver.ApiPOST("/content/categories", createCategory)
	webserver.ApiPUT("/content/categories/:id", updateCategory)
	webserver.ApiDELETE("/content/categories/:id", deleteCategory)
	webserver.ApiPOST("/content/categories/:id/subcategories", createSubcategory)
	webserver.ApiPUT("/content/categories/:id/subcategories/:sid", updateSubcategory)
	webserver.ApiDELETE("/content/categories/:id/subcategories/:sid", deleteSubcategory)
}

func getContent(c echo.Context) error {
	return ok(c, GetAppContext(c).Catalog().Load(c.Request().Context()))
}

func saveFailed(c echo.Context, err error) error {
	if errors.Is(err, catalog.ErrInvalidContent) {
		return fail(c, http.StatusBadRequest, "INVALID_CONTENT", "Site content is invalid", err.Error())
	}
	zap.L().Error("save site content error", zap.Error(err), zap.String("namespace", "catalog"))
	return fail(c, http.StatusInternalServerError, "SAVE_FAILED", "Failed to save site content", err.Error())
}

// replaceContent accepts the whole document; prices may be numeric strings
func replaceContent(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 32<<20))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read content", err.Error())
	}
	content, err := catalog.Decode(body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CONTENT", "Unable to parse content", err.Error())
	}
	if err := GetAppContext(c).Catalog().Save(c.Request().Context(), content); err != nil {
		return saveFailed(c, err)
	}
	return ok(c, content)
}

// editContent loads the document, applies fn and saves the result
func editContent(c echo.Context, fn func(content *domain.SiteContent) (interface{}, error)) error {
	svc := GetAppContext(c).Catalog()
	ctx := c.Request().Context()
	content := svc.Load(ctx)
	result, err := fn(content)
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Catalog entry not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}
	if err := svc.Save(ctx, content); err != nil {
		return saveFailed(c, err)
	}
	return ok(c, result)
}

func updateHeroProducts(c echo.Context) error {
	var heroes []domain.HeroProduct
	if err := c.Bind(&heroes); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse hero products", err.Error())
	}
	return editContent(c, func(content *domain.SiteContent) (interface{}, error) {
		if heroes == nil {
			heroes = []domain.HeroProduct{}
		}
		content.HeroProducts = heroes
		return content.HeroProducts, nil
	})
}

func findCategory(content *domain.SiteContent, id string) (*domain.Category, error) {
	for i := range content.Categories {
		if content.Categories[i].ID == id {
			return &content.Categories[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

// refreshHrefs derives category and subcategory links from their names
func refreshHrefs(cat *domain.Category) {
	cat.Href = catalog.CategoryHref(cat.Name)
	for i := range cat.Subcategories {
		cat.Subcategories[i].Href = catalog.SubCategoryHref(cat.Href, cat.Subcategories[i].Name)
	}
}

// dropHeroRefs removes hero entries that point at deleted products
func dropHeroRefs(content *domain.SiteContent, ids map[string]bool) {
	kept := content.HeroProducts[:0]
	for _, h := range content.HeroProducts {
		if !ids[h.ProductID] {
			kept = append(kept, h)
		}
	}
	content.HeroProducts = kept
}

func bindCategory(c echo.Context) (*categoryPayload, error) {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if err := validate.Struct(payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid category", err.Error())
	}
	return &payload, nil
}

func createCategory(c echo.Context) error {
	payload, err := bindCategory(c)
	if payload == nil {
		return err
	}
	return editContent(c, func(content *domain.SiteContent) (interface{}, error) {
		cat := domain.Category{
			ID:            "cat-" + common.UUIDString(),
			Name:          payload.Name,
			ImageURL:      payload.ImageURL,
			ImageHint:     payload.ImageHint,
			Subcategories: []domain.SubCategory{},
		}
		refreshHrefs(&cat)
		content.Categories = append(content.Categories, cat)
		return &content.Categories[len(content.Categories)-1], nil
	})
}

func updateCategory(c echo.Context) error {
	payload, err := bindCategory(c)
	if payload == nil {
		return err
	}
	return editContent(c, func(content *domain.SiteContent) (interface{}, error) {
		cat, err := findCategory(content, c.Param("id"))
		if err != nil {
			return nil, err
		}
		cat.Name = payload.Name
		cat.ImageHint = payload.ImageHint
		if payload.ImageURL != "" {
			cat.ImageURL = payload.ImageURL
		}
		refreshHrefs(cat)
		return cat, nil
	})
}

func deleteCategory(c echo.Context) error {
	return editContent(c, func(content *domain.SiteContent) (interface{}, error) {
		id := c.Param("id")
		for i, cat := range content.Categories {
			if cat.ID != id {
				continue
			}
			removed := make(map[string]bool)
			for _, sub := range cat.Subcategories {
				removed[sub.ID] = true
			}
			content.Categories = append(content.Categories[:i], content.Categories[i+1:]...)
			dropHeroRefs(content, removed)
			return map[string]string{"id": id}, nil
		}
		return nil, catalog.ErrNotFound
	})
}

func bindSubcategory(c echo.Context) (*subcategoryPayload, error) {
	var payload subcategoryPayload
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if err := validate.Struct(payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid product", err.Error())
	}
	return &payload, nil
}

func (p *subcategoryPayload) apply(sub *domain.SubCategory, categoryHref string) {
	sub.Name = p.Name
	sub.Href = catalog.SubCategoryHref(categoryHref, p.Name)
	sub.Tagline = p.Tagline
	sub.ImageHint = p.ImageHint
	if p.ImageURL != "" {
		sub.ImageURL = p.ImageURL
	}
	sub.Price = p.Price
	sub.Sizes = p.Sizes
}

func createSubcategory(c echo.Context) error {
	payload, err := bindSubcategory(c)
	if payload == nil {
		return err
	}
	return editContent(c, func(content *domain.SiteContent) (interface{}, error) {
		cat, err := findCategory(content, c.Param("id"))
		if err != nil {
			return nil, err
		}
		sub := domain.SubCategory{ID: "subcat-" + common.UUIDString()}
		payload.apply(&sub, cat.Href)
		cat.Subcategories = append(cat.Subcategories, sub)
		return &cat.Subcategories[len(cat.Subcategories)-1], nil
	})
}

func updateSubcategory(c echo.Context) error {
	payload, err := bindSubcategory(c)
	if payload == nil {
		return err
	}
	return editContent(c, func(content *domain.SiteContent) (interface{}, error) {
		cat, err := findCategory(content, c.Param("id"))
		if err != nil {
			return nil, err
		}
		for i := range cat.Subcategories {
			if cat.Subcategories[i].ID == c.Param("sid") {
				payload.apply(&cat.Subcategories[i], cat.Href)
				return &cat.Subcategories[i], nil
			}
		}
		return nil, catalog.ErrNotFound
	})
}

func deleteSubcategory(c echo.Context) error {
	return editContent(c, func(content *domain.SiteContent) (interface{}, error) {
		cat, err := findCategory(content, c.Param("id"))
		if err != nil {
			return nil, err
		}
		sid := c.Param("sid")
		for i := range cat.Subcategories {
			if cat.Subcategories[i].ID == sid {
				cat.Subcategories = append(cat.Subcategories[:i], cat.Subcategories[i+1:]...)
				dropHeroRefs(content, map[string]bool{sid: true})
				return map[string]string{"id": sid}, nil
			}
		}
		return nil, catalog.ErrNotFound
	})
}
