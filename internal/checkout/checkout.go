// Package checkout turns a cart snapshot and a delivery address into order
// rows and one owner notification.
package checkout

import (
	"context"
	"net/url"
	"reflect"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/cart"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/notify"
	"github.com/pskitchenware/storefront/internal/repository"
)

// TopicCompleted is published after the order rows are written
const TopicCompleted = "checkout:completed"

// CompletedEvent is the payload of TopicCompleted
type CompletedEvent struct {
	CheckoutID string
	Orders     []domain.Order
	Total      decimal.Decimal
	Notified   bool
}

type Receipt struct {
	CheckoutID string          `json:"checkoutId"`
	Orders     []domain.Order  `json:"orders"`
	Total      decimal.Decimal `json:"total"`
	Notified   bool            `json:"notified"`
	Warning    string          `json:"warning,omitempty"`
}

type Composer struct {
	orders     repository.OrderRepository
	users      repository.UserRepository
	notifier   notify.Notifier
	bus        EventBus.Bus
	publicHost string
	validate   *validator.Validate
}

// NewComposer builds a composer; users and bus may be nil
func NewComposer(orders repository.OrderRepository, users repository.UserRepository,
	notifier notify.Notifier, bus EventBus.Bus, publicHost string) *Composer {
	return &Composer{
		orders:     orders,
		users:      users,
		notifier:   notifier,
		bus:        bus,
		publicHost: publicHost,
		validate:   NewValidator(),
	}
}

// NewValidator reports field errors under their json names
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors converts a validator error into field messages
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return fields
	}
	if err != nil {
		fields["_"] = err.Error()
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return "must be " + fe.Param() + " characters"
	case "numeric":
		return "must contain digits only"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}

// ResolveImageURL makes a catalog image path absolute against the public host
func ResolveImageURL(publicHost, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("image url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(err, "parse image url")
	}
	if !u.IsAbs() {
		base, err := url.Parse(publicHost)
		if err != nil || !base.IsAbs() {
			return "", errors.Errorf("public host %q is not an absolute url", publicHost)
		}
		u = base.ResolveReference(u)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.Errorf("image url %q is not an absolute http url", raw)
	}
	return u.String(), nil
}

// Checkout writes one order per line item, in cart order, then sends one
// notification for the whole cart. An empty cart is a successful no-op.
func (c *Composer) Checkout(ctx context.Context, items []cart.LineItem, addr domain.Address) (*Receipt, error) {
	if len(items) == 0 {
		return &Receipt{Orders: []domain.Order{}, Total: decimal.Zero, Notified: false}, nil
	}

	if err := c.validate.Struct(addr); err != nil {
		return nil, &ValidationError{Fields: FieldErrors(err)}
	}
	images := make([]string, len(items))
	for i, item := range items {
		img, err := ResolveImageURL(c.publicHost, item.ImageURL)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"items." + item.ID + ".imageUrl": err.Error()}}
		}
		images[i] = img
	}

	checkoutID := uuid.New().String()
	userID := c.linkUser(ctx, addr)
	log := zap.L().With(zap.String("checkout_id", checkoutID), zap.String("namespace", "checkout"))

	written := make([]domain.Order, 0, len(items))
	for i, item := range items {
		price := item.Price
		order, err := c.orders.Append(ctx, domain.OrderInput{
			ProductName: item.Name,
			Quantity:    item.Quantity,
			ImageURL:    images[i],
			Size:        item.Size,
			Price:       &price,
			CheckoutID:  checkoutID,
			UserID:      userID,
		})
		if err != nil {
			log.Error("append order error", zap.String("item", item.ID), zap.Int("written", len(written)), zap.Error(err))
			return nil, &PartialError{CheckoutID: checkoutID, Written: written, Failed: item, Err: err}
		}
		written = append(written, *order)
	}

	total := cart.Total(items)
	receipt := &Receipt{CheckoutID: checkoutID, Orders: written, Total: total}

	result := c.notify(ctx, checkoutID, items, images, total, addr)
	receipt.Notified = result.Success
	if !result.Success {
		receipt.Warning = "Your order was placed, but we could not send the confirmation: " + result.Message
		log.Warn("order notification failed", zap.String("message", result.Message))
	}

	if c.bus != nil {
		c.bus.Publish(TopicCompleted, CompletedEvent{
			CheckoutID: checkoutID,
			Orders:     written,
			Total:      total,
			Notified:   receipt.Notified,
		})
	}
	log.Info("checkout completed", zap.Int("orders", len(written)), zap.String("total", total.StringFixed(2)))
	return receipt, nil
}

func (c *Composer) notify(ctx context.Context, checkoutID string, items []cart.LineItem, images []string,
	total decimal.Decimal, addr domain.Address) notify.Result {
	if c.notifier == nil {
		return notify.Result{Success: false, Message: "Email service is not configured."}
	}
	lines := make([]notify.OrderLine, 0, len(items))
	for i, item := range items {
		lines = append(lines, notify.OrderLine{
			ProductName: item.Name,
			ImageURL:    images[i],
			Size:        item.Size,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return c.notifier.SendOrder(ctx, notify.OrderMail{
		CheckoutID: checkoutID,
		Lines:      lines,
		Total:      total,
		Address:    addr,
	})
}

// linkUser finds or creates the customer when an email was given. Failures
// are logged and leave the orders unlinked.
func (c *Composer) linkUser(ctx context.Context, addr domain.Address) string {
	if c.users == nil || strings.TrimSpace(addr.Email) == "" {
		return ""
	}
	user, err := c.users.FindOrCreateUser(ctx, addr.Email, addr.Name, addr.Phone)
	if err != nil {
		zap.L().Warn("link user error", zap.Error(err), zap.String("namespace", "checkout"))
		return ""
	}
	if _, err := c.users.FindOrCreateAddress(ctx, user.ID, addr); err != nil {
		zap.L().Warn("link address error", zap.Error(err), zap.String("namespace", "checkout"))
	}
	return user.ID
}
