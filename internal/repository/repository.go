package repository

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pskitchenware/storefront/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// SiteContentKey is the key of the single catalog document
const SiteContentKey = "main"

// CatalogRepository stores the catalog as one whole JSON document. Save
// overwrites; the last writer wins.
type CatalogRepository interface {
	// LoadDocument returns the raw document or ErrNotFound on first run
	LoadDocument(ctx context.Context) ([]byte, error)

	// SaveDocument replaces the document
	SaveDocument(ctx context.Context, data []byte) error
}

// OrderRepository is the append-only order log
type OrderRepository interface {
	// Append assigns id and date at write time
	Append(ctx context.Context, input domain.OrderInput) (*domain.Order, error)

	// List returns every order, newest first
	List(ctx context.Context) ([]domain.Order, error)

	// Page returns one page of orders, newest first, and the total count
	Page(ctx context.Context, page, pageSize int) ([]domain.Order, int64, error)
}

// UserRepository keeps returning customers and their addresses
type UserRepository interface {
	FindOrCreateUser(ctx context.Context, email, name, phone string) (*domain.User, error)
	FindOrCreateAddress(ctx context.Context, userID string, addr domain.Address) (*domain.SavedAddress, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListAddresses(ctx context.Context, userID string) ([]domain.SavedAddress, error)
	SetDefaultAddress(ctx context.Context, userID, addressID string) error
}

// NormalizePage applies the admin API paging defaults
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}
