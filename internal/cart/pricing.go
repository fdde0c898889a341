package cart

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/pskitchenware/storefront/internal/domain"
)

// MaxSelectableQuantity is the largest quantity the product selection accepts
const MaxSelectableQuantity = 300

var (
	ErrSizeRequired    = errors.New("please select a size")
	ErrUnknownSize     = errors.New("unknown size")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 300")
)

// SelectSize resolves the size a shopper picked. Products with sizes require
// one; products without sizes accept none.
func SelectSize(product domain.Product, sizeName string) (*domain.ProductSize, error) {
	sizeName = strings.TrimSpace(sizeName)
	if !product.HasSizes() {
		if sizeName != "" {
			return nil, errors.Wrapf(ErrUnknownSize, "%s has no size %q", product.Name, sizeName)
		}
		return nil, nil
	}
	if sizeName == "" {
		return nil, ErrSizeRequired
	}
	for i := range product.Sizes {
		if product.Sizes[i].Name == sizeName {
			size := product.Sizes[i]
			return &size, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownSize, "%s has no size %q", product.Name, sizeName)
}

// ValidateQuantity checks the quantity a shopper picked
func ValidateQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxSelectableQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

// ResolvePrice is the size price, else the flat price, else 0
func ResolvePrice(product domain.Product, size *domain.ProductSize) float64 {
	if size != nil && size.Price != nil {
		return *size.Price
	}
	if product.Price != nil {
		return *product.Price
	}
	return 0
}

// DisplayPrice is the price to show before a size is chosen; nil means
// "select a size".
func DisplayPrice(product domain.Product) *float64 {
	if product.HasSizes() {
		return nil
	}
	return product.Price
}
