package domain

import "time"

// Address is the delivery contact captured at checkout
type Address struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"required,len=10,numeric"`
	Address string `json:"address" validate:"required,min=10,max=1000"`
	Pincode string `json:"pincode,omitempty" validate:"omitempty,numeric,max=10"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

// User is a returning customer keyed by email
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Name      string    `gorm:"size:200" json:"name"`
	Phone     string    `gorm:"size:32" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// SavedAddress is a reusable delivery address of a user
type SavedAddress struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"index;size:64" json:"user_id"`
	Name      string    `gorm:"size:200" json:"name"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Address   string    `gorm:"size:1000" json:"address"`
	Pincode   string    `gorm:"size:16" json:"pincode"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func (SavedAddress) TableName() string {
	return "addresses"
}

// Enquiry is a contact form submission
type Enquiry struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"required,len=10,numeric"`
	Query string `json:"query" validate:"required,max=5000"`
}
