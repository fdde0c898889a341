package domain

// ProductSize is a named size option with its own price
type ProductSize struct {
	Name  string   `json:"name" mapstructure:"name"`
	Price *float64 `json:"price,omitempty" mapstructure:"price"`
}

// Product is the catalog-facing view of a purchasable item
type Product struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Tagline   string        `json:"tagline,omitempty"`
	ImageURL  string        `json:"imageUrl"`
	ImageHint string        `json:"imageHint,omitempty"`
	Price     *float64      `json:"price,omitempty"`
	Sizes     []ProductSize `json:"sizes,omitempty"`
}

// HasSizes reports whether price selection is driven by sizes
func (p Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

// SubCategory is the purchasable product inside a category
type SubCategory struct {
	ID        string        `json:"id" mapstructure:"id"`
	Name      string        `json:"name" mapstructure:"name"`
	Href      string        `json:"href" mapstructure:"href"`
	Tagline   string        `json:"tagline,omitempty" mapstructure:"tagline"`
	ImageURL  string        `json:"imageUrl,omitempty" mapstructure:"imageUrl"`
	ImageHint string        `json:"imageHint,omitempty" mapstructure:"imageHint"`
	Price     *float64      `json:"price,omitempty" mapstructure:"price"`
	Sizes     []ProductSize `json:"sizes,omitempty" mapstructure:"sizes"`
}

type Category struct {
	ID            string        `json:"id" mapstructure:"id"`
	Name          string        `json:"name" mapstructure:"name"`
	ImageURL      string        `json:"imageUrl" mapstructure:"imageUrl"`
	ImageHint     string        `json:"imageHint,omitempty" mapstructure:"imageHint"`
	Href          string        `json:"href" mapstructure:"href"`
	Subcategories []SubCategory `json:"subcategories" mapstructure:"subcategories"`
}

// HeroProduct references a subcategory by id and may override its display fields
type HeroProduct struct {
	ProductID string `json:"productId" mapstructure:"productId"`
	Tagline   string `json:"tagline,omitempty" mapstructure:"tagline"`
	ImageURL  string `json:"imageUrl,omitempty" mapstructure:"imageUrl"`
	ImageHint string `json:"imageHint,omitempty" mapstructure:"imageHint"`
}

// SiteContent is the whole catalog document
type SiteContent struct {
	HeroProducts []HeroProduct `json:"heroProducts" mapstructure:"heroProducts"`
	Categories   []Category    `json:"categories" mapstructure:"categories"`
}

// AsProduct converts a subcategory to a Product, falling back to the
// category image when the subcategory has none.
func (s SubCategory) AsProduct(parent *Category) Product {
	p := Product{
		ID:        s.ID,
		Name:      s.Name,
		Tagline:   s.Tagline,
		ImageURL:  s.ImageURL,
		ImageHint: s.ImageHint,
		Price:     s.Price,
		Sizes:     s.Sizes,
	}
	if parent != nil {
		if p.ImageURL == "" {
			p.ImageURL = parent.ImageURL
		}
		if p.ImageHint == "" {
			p.ImageHint = parent.ImageHint
		}
	}
	return p
}

// SiteContentDocument stores the catalog as one JSON document row
type SiteContentDocument struct {
	ID        string `gorm:"primaryKey;size:32"`
	Data      string `gorm:"type:text"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"`
}

func (SiteContentDocument) TableName() string {
	return "site_content"
}

// Float returns a pointer to v, handy for optional prices
func Float(v float64) *float64 {
	return &v
}
