package checkout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pskitchenware/storefront/internal/cart"
	"github.com/pskitchenware/storefront/internal/domain"
)

// ValidationError is raised before any order is written
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid checkout: " + strings.Join(parts, ", ")
}

// PartialError reports an append failure part way through a checkout.
// Written holds the orders persisted before the failure; they are not
// rolled back.
type PartialError struct {
	CheckoutID string
	Written    []domain.Order
	Failed     cart.LineItem
	Err        error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("checkout %s: order for %s failed after %d written: %v",
		e.CheckoutID, e.Failed.Name, len(e.Written), e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
