package domain

import "time"

// OrderInput is what the checkout hands to the order store; id and date are
// assigned by the store.
type OrderInput struct {
	ProductName string   `json:"productName"`
	Quantity    int      `json:"quantity"`
	ImageURL    string   `json:"imageUrl"`
	Size        string   `json:"size,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	CheckoutID  string   `json:"checkoutId,omitempty"`
	UserID      string   `json:"userId,omitempty"`
}

// Order is one persisted line of a checkout
type Order struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	ProductName string    `gorm:"index;size:255" json:"productName"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `gorm:"size:1024" json:"imageUrl"`
	Size        string    `gorm:"size:64" json:"size,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	CheckoutID  string    `gorm:"index;size:64" json:"checkoutId,omitempty"`
	UserID      string    `gorm:"index;size:64" json:"userId,omitempty"`
	Date        time.Time `gorm:"index" json:"date"`
}

func (Order) TableName() string {
	return "orders"
}

// LineTotal is price (0 when absent) times quantity
func (o Order) LineTotal() float64 {
	if o.Price == nil {
		return 0
	}
	return *o.Price * float64(o.Quantity)
}
