package checkout

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pskitchenware/storefront/internal/cart"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/notify"
)

type fakeOrders struct {
	appended []domain.OrderInput
	failAt   int // 1-based append that fails; 0 never
}

func (f *fakeOrders) Append(_ context.Context, in domain.OrderInput) (*domain.Order, error) {
	if f.failAt > 0 && len(f.appended)+1 == f.failAt {
		return nil, errors.New("database is down")
	}
	f.appended = append(f.appended, in)
	return &domain.Order{
		ID:          strconv.Itoa(len(f.appended)),
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		ImageURL:    in.ImageURL,
		Size:        in.Size,
		Price:       in.Price,
		CheckoutID:  in.CheckoutID,
		Date:        time.Now().UTC(),
	}, nil
}

func (f *fakeOrders) List(context.Context) ([]domain.Order, error) { return nil, nil }

func (f *fakeOrders) Page(context.Context, int, int) ([]domain.Order, int64, error) {
	return nil, 0, nil
}

type fakeNotifier struct {
	orders []notify.OrderMail
	result notify.Result
}

func (f *fakeNotifier) SendOrder(_ context.Context, m notify.OrderMail) notify.Result {
	f.orders = append(f.orders, m)
	return f.result
}

func (f *fakeNotifier) SendEnquiry(context.Context, domain.Enquiry) notify.Result {
	return f.result
}

func (f *fakeNotifier) SendDigest(context.Context, notify.DigestMail) notify.Result {
	return f.result
}

func validAddress() domain.Address {
	return domain.Address{Name: "Asha", Phone: "9876543210", Address: "12 Market Road, Pune", Pincode: "411001"}
}

func twoItems() []cart.LineItem {
	return []cart.LineItem{
		{ID: "A", ProductID: "A", Name: "Steel Laddle", ImageURL: "/uploads/a.png", Price: 10, Quantity: 2},
		{ID: "B-L", ProductID: "B", Name: "Brass Doya", ImageURL: "https://cdn.example.com/b.png", Price: 25, Quantity: 1, Size: "L"},
	}
}

func newComposer(orders *fakeOrders, n *fakeNotifier, bus EventBus.Bus) *Composer {
	return NewComposer(orders, nil, n, bus, "https://shop.example.com")
}

func TestCheckoutWritesOneOrderPerLineAndNotifiesOnce(t *testing.T) {
	orders := &fakeOrders{}
	n := &fakeNotifier{result: notify.Result{Success: true}}

	receipt, err := newComposer(orders, n, nil).Checkout(context.Background(), twoItems(), validAddress())
	require.NoError(t, err)

	require.Len(t, orders.appended, 2)
	require.Len(t, n.orders, 1)
	assert.Equal(t, "45", receipt.Total.String())
	assert.Equal(t, "45", n.orders[0].Total.String())
	assert.True(t, receipt.Notified)
	assert.Empty(t, receipt.Warning)

	first := orders.appended[0]
	assert.Equal(t, "Steel Laddle", first.ProductName)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, "https://shop.example.com/uploads/a.png", first.ImageURL)
	require.NotNil(t, first.Price)
	assert.Equal(t, 10.0, *first.Price)
	assert.Equal(t, "L", orders.appended[1].Size)
	assert.Equal(t, receipt.CheckoutID, first.CheckoutID)
	assert.Equal(t, first.CheckoutID, orders.appended[1].CheckoutID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	orders := &fakeOrders{}
	n := &fakeNotifier{}

	receipt, err := newComposer(orders, n, nil).Checkout(context.Background(), nil, domain.Address{})
	require.NoError(t, err)
	assert.Empty(t, receipt.Orders)
	assert.True(t, receipt.Total.IsZero())
	assert.Empty(t, orders.appended)
	assert.Empty(t, n.orders)
}

func TestCheckoutInvalidAddressWritesNothing(t *testing.T) {
	orders := &fakeOrders{}
	n := &fakeNotifier{}
	addr := validAddress()
	addr.Phone = "12345"
	addr.Address = "short"

	_, err := newComposer(orders, n, nil).Checkout(context.Background(), twoItems(), addr)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "phone")
	assert.Contains(t, verr.Fields, "address")
	assert.Empty(t, orders.appended)
	assert.Empty(t, n.orders)
}

func TestCheckoutBadImageIsValidationError(t *testing.T) {
	orders := &fakeOrders{}
	items := twoItems()
	items[1].ImageURL = ""

	_, err := newComposer(orders, &fakeNotifier{}, nil).Checkout(context.Background(), items, validAddress())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, orders.appended)
}

func TestCheckoutPartialFailureKeepsWrittenRows(t *testing.T) {
	orders := &fakeOrders{failAt: 2}
	n := &fakeNotifier{result: notify.Result{Success: true}}

	_, err := newComposer(orders, n, nil).Checkout(context.Background(), twoItems(), validAddress())
	var perr *PartialError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, perr.Written, 1)
	assert.Equal(t, "B-L", perr.Failed.ID)
	assert.Len(t, orders.appended, 1)
	assert.Empty(t, n.orders)
}

func TestCheckoutNotificationFailureIsSoft(t *testing.T) {
	orders := &fakeOrders{}
	n := &fakeNotifier{result: notify.Result{Success: false, Message: "Email service is not configured."}}

	receipt, err := newComposer(orders, n, nil).Checkout(context.Background(), twoItems(), validAddress())
	require.NoError(t, err)
	assert.False(t, receipt.Notified)
	assert.Contains(t, receipt.Warning, "not configured")
	assert.Len(t, orders.appended, 2)
}

func TestCheckoutPublishesCompletedEvent(t *testing.T) {
	bus := EventBus.New()
	var got []CompletedEvent
	require.NoError(t, bus.Subscribe(TopicCompleted, func(e CompletedEvent) {
		got = append(got, e)
	}))

	receipt, err := newComposer(&fakeOrders{}, &fakeNotifier{result: notify.Result{Success: true}}, bus).
		Checkout(context.Background(), twoItems(), validAddress())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, receipt.CheckoutID, got[0].CheckoutID)
	assert.Len(t, got[0].Orders, 2)
}

func TestResolveImageURL(t *testing.T) {
	u, err := ResolveImageURL("http://localhost:9002", "/uploads/x.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9002/uploads/x.png", u)

	u, err = ResolveImageURL("http://localhost:9002", "https://picsum.photos/seed/a/600/400")
	require.NoError(t, err)
	assert.Equal(t, "https://picsum.photos/seed/a/600/400", u)

	_, err = ResolveImageURL("not a host", "/uploads/x.png")
	assert.Error(t, err)

	_, err = ResolveImageURL("http://localhost:9002", "ftp://files/x.png")
	assert.Error(t, err)
}
