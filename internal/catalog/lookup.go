package catalog

import (
	"strings"

	"github.com/pskitchenware/storefront/internal/domain"
)

// FindProduct returns the subcategory with the given id as a Product
func FindProduct(content *domain.SiteContent, id string) (*domain.Product, *domain.Category, bool) {
	for i := range content.Categories {
		cat := &content.Categories[i]
		for _, sub := range cat.Subcategories {
			if sub.ID == id {
				p := sub.AsProduct(cat)
				return &p, cat, true
			}
		}
	}
	return nil, nil, false
}

// FindCategoryBySlug matches the category whose href is /category/{slug}
func FindCategoryBySlug(content *domain.SiteContent, slug string) (*domain.Category, bool) {
	href := "/category/" + strings.Trim(slug, "/")
	for i := range content.Categories {
		if content.Categories[i].Href == href {
			return &content.Categories[i], true
		}
	}
	return nil, false
}

// CategoryProducts lists the purchasable products of a category
func CategoryProducts(cat *domain.Category) []domain.Product {
	products := make([]domain.Product, 0, len(cat.Subcategories))
	for _, sub := range cat.Subcategories {
		products = append(products, sub.AsProduct(cat))
	}
	return products
}

// SearchContent matches category and subcategory names case-insensitively.
// A matching category is returned as an entry of its own; results are unique
// by id and subcategories fall back to the category image.
func SearchContent(content *domain.SiteContent, query string) []domain.Product {
	results := make([]domain.Product, 0)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return results
	}
	seen := make(map[string]bool)
	add := func(p domain.Product) {
		if !seen[p.ID] {
			seen[p.ID] = true
			results = append(results, p)
		}
	}
	for i := range content.Categories {
		cat := &content.Categories[i]
		if strings.Contains(strings.ToLower(cat.Name), q) {
			add(domain.Product{
				ID:        cat.ID,
				Name:      cat.Name,
				ImageURL:  cat.ImageURL,
				ImageHint: cat.ImageHint,
			})
		}
		for _, sub := range cat.Subcategories {
			if strings.Contains(strings.ToLower(sub.Name), q) {
				add(sub.AsProduct(cat))
			}
		}
	}
	return results
}

// ResolveHeroProducts applies the hero overrides; references to missing
// products are skipped.
func ResolveHeroProducts(content *domain.SiteContent) []domain.Product {
	products := make([]domain.Product, 0, len(content.HeroProducts))
	for _, hero := range content.HeroProducts {
		p, _, ok := FindProduct(content, hero.ProductID)
		if !ok {
			continue
		}
		if hero.Tagline != "" {
			p.Tagline = hero.Tagline
		}
		if hero.ImageURL != "" {
			p.ImageURL = hero.ImageURL
		}
		if hero.ImageHint != "" {
			p.ImageHint = hero.ImageHint
		}
		products = append(products, *p)
	}
	return products
}
