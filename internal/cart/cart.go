package cart

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/domain"
)

// LineItem is one row of the cart. Price is frozen at the moment the item is
// first added and never follows later catalog changes.
type LineItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Tagline   string  `json:"tagline,omitempty"`
	ImageURL  string  `json:"imageUrl"`
	ImageHint string  `json:"imageHint,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
}

// Subtotal is price times quantity
func (i LineItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineItemID is the cart identity key of a product/size pair
func LineItemID(productID, size string) string {
	if size != "" {
		return productID + "-" + size
	}
	return productID
}

// Storage keeps the serialized cart on the client side of a session
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Cart is the session cart. It is not safe for concurrent use; each request
// builds its own Cart from the session storage.
type Cart struct {
	items   []LineItem
	storage Storage
	saveErr error
}

// New restores the cart from storage. Anything unreadable yields an empty cart.
func New(storage Storage) *Cart {
	c := &Cart{items: []LineItem{}, storage: storage}
	if storage == nil {
		return c
	}
	data, err := storage.Load()
	if err != nil {
		zap.L().Debug("cart storage load failed, starting empty",
			zap.String("namespace", "cart"), zap.Error(err))
		return c
	}
	if len(data) == 0 {
		return c
	}
	items, err := Unmarshal(data)
	if err != nil {
		zap.L().Warn("discarding unreadable cart",
			zap.String("namespace", "cart"), zap.Error(err))
		return c
	}
	c.items = items
	return c
}

// Items returns a copy of the line items in insertion order
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Err reports the failure of the most recent save, nil once a save succeeds.
// Mutations never fail on their own; callers that must know whether the
// cart was kept check Err afterwards.
func (c *Cart) Err() error {
	return c.saveErr
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Get(lineItemID string) (LineItem, bool) {
	if idx := c.indexOf(lineItemID); idx >= 0 {
		return c.items[idx], true
	}
	return LineItem{}, false
}

// Total is the sum of frozen price times quantity over all line items
func (c *Cart) Total() decimal.Decimal {
	return Total(c.items)
}

// Count is the total number of units in the cart
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Add puts quantity units of product into the cart. The price comes from the
// chosen size, then the product's flat price, then 0. Adding an existing
// product/size pair only increases its quantity and keeps the first price.
// Non-positive quantities leave the cart untouched and report false.
func (c *Cart) Add(product domain.Product, quantity int, size *domain.ProductSize) (LineItem, bool) {
	if quantity < 1 {
		return LineItem{}, false
	}
	sizeName := ""
	if size != nil {
		sizeName = size.Name
	}
	id := LineItemID(product.ID, sizeName)

	if idx := c.indexOf(id); idx >= 0 {
		c.items[idx].Quantity += quantity
		c.persist()
		return c.items[idx], true
	}

	item := LineItem{
		ID:        id,
		ProductID: product.ID,
		Name:      product.Name,
		Tagline:   product.Tagline,
		ImageURL:  product.ImageURL,
		ImageHint: product.ImageHint,
		Price:     ResolvePrice(product, size),
		Quantity:  quantity,
		Size:      sizeName,
	}
	c.items = append(c.items, item)
	c.persist()
	return item, true
}

// UpdateQuantity sets the quantity of a line item, clamped at 0. A resulting
// quantity of 0 removes the line item.
func (c *Cart) UpdateQuantity(lineItemID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	idx := c.indexOf(lineItemID)
	if idx < 0 {
		return
	}
	if quantity == 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	} else {
		c.items[idx].Quantity = quantity
	}
	c.persist()
}

// Remove drops a line item; unknown ids are ignored
func (c *Cart) Remove(lineItemID string) {
	idx := c.indexOf(lineItemID)
	if idx < 0 {
		return
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.persist()
}

func (c *Cart) Clear() {
	c.items = []LineItem{}
	c.persist()
}

func (c *Cart) indexOf(lineItemID string) int {
	for i := range c.items {
		if c.items[i].ID == lineItemID {
			return i
		}
	}
	return -1
}

func (c *Cart) persist() {
	if c.storage == nil {
		return
	}
	data, err := Marshal(c.items)
	if err == nil {
		err = c.storage.Save(data)
	}
	c.saveErr = err
	if err != nil {
		zap.L().Error("cart storage save failed", zap.String("namespace", "cart"), zap.Error(err))
	}
}

// Total sums price times quantity of items
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
