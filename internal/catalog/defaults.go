package catalog

import (
	"fmt"

	"github.com/pskitchenware/storefront/internal/domain"
)

var defaultCategories = []struct {
	id, name, slug, hint string
}{
	{"cat-laddles", "Laddles and Palta’s", "laddles", "laddles kitchen"},
	{"cat-doyas", "Doya’s", "doyas", "serving spoon"},
	{"cat-jaras", "Jara’s", "jaras", "slotted spoon"},
	{"cat-steamers", "Steamer and Washer", "steamers", "steamer pot"},
	{"cat-vati", "Vati and Plates", "vati-plates", "bowls plates"},
	{"cat-glasses", "Glasses", "glasses", "drinking glasses"},
	{"cat-others", "Others", "others", "kitchenware various"},
}

// DefaultContent is written on first run when the store holds no document
func DefaultContent() *domain.SiteContent {
	content := &domain.SiteContent{
		HeroProducts: []domain.HeroProduct{},
		Categories:   make([]domain.Category, 0, len(defaultCategories)),
	}
	for _, c := range defaultCategories {
		content.Categories = append(content.Categories, domain.Category{
			ID:            c.id,
			Name:          c.name,
			Href:          "/category/" + c.slug,
			ImageURL:      fmt.Sprintf("https://picsum.photos/seed/%s/600/400", c.id),
			ImageHint:     c.hint,
			Subcategories: []domain.SubCategory{},
		})
	}
	return content
}
