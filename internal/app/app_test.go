package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pskitchenware/storefront/config"
	"github.com/pskitchenware/storefront/internal/cart"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/notify"
	"github.com/pskitchenware/storefront/pkg/metrics"
)

type recordingNotifier struct {
	digests []notify.DigestMail
	orders  int
}

func (r *recordingNotifier) SendOrder(context.Context, notify.OrderMail) notify.Result {
	r.orders++
	return notify.Result{Success: true}
}

func (r *recordingNotifier) SendEnquiry(context.Context, domain.Enquiry) notify.Result {
	return notify.Result{Success: true}
}

func (r *recordingNotifier) SendDigest(_ context.Context, d notify.DigestMail) notify.Result {
	r.digests = append(r.digests, d)
	return notify.Result{Success: true}
}

func testConfig(t *testing.T) *config.AppConfig {
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.System.Location = "UTC"
	return &cfg
}

func TestMemoryApplicationWiring(t *testing.T) {
	a, err := NewMemoryApplication(testConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, a.DB())
	assert.NotNil(t, a.Catalog())
	assert.NotNil(t, a.Checkout())
	assert.NotNil(t, a.Users())
	assert.NotNil(t, a.Bus())
	assert.Equal(t, time.UTC, a.Location())

	content := a.Catalog().Load(context.Background())
	assert.Len(t, content.Categories, 7)
}

func TestCheckoutEventFeedsMetrics(t *testing.T) {
	require.NoError(t, metrics.InitMetrics(""))
	t.Cleanup(func() { _ = metrics.Close() })

	a, err := NewMemoryApplication(testConfig(t))
	require.NoError(t, err)
	n := &recordingNotifier{}
	a.OverrideNotifier(n)

	items := []cart.LineItem{{ID: "A", Name: "Jara", ImageURL: "/a.png", Price: 10, Quantity: 2}}
	addr := domain.Address{Name: "Asha", Phone: "9876543210", Address: "12 Market Road, Pune", Email: "asha@example.com"}
	_, err = a.Checkout().Checkout(context.Background(), items, addr)
	require.NoError(t, err)
	assert.Equal(t, 1, n.orders)

	from, to := time.Now().Add(-time.Minute), time.Now().Add(time.Minute)
	total, err := metrics.Query(metrics.MetricsCheckoutTotal, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1.0, metrics.Sum(total))
	revenue, err := metrics.Query(metrics.MetricsCheckoutRevenue, from, to)
	require.NoError(t, err)
	assert.Equal(t, 20.0, metrics.Sum(revenue))

	orders, err := a.Orders().List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.NotEmpty(t, orders[0].UserID)
}

func TestRunDigest(t *testing.T) {
	a, err := NewMemoryApplication(testConfig(t))
	require.NoError(t, err)
	n := &recordingNotifier{}
	a.OverrideNotifier(n)

	ctx := context.Background()
	_, err = a.Orders().Append(ctx, domain.OrderInput{ProductName: "Jara", Quantity: 3, Price: domain.Float(10), ImageURL: "http://x/a.png"})
	require.NoError(t, err)

	res := a.RunDigest(ctx, time.Now().UTC())
	assert.True(t, res.Success)
	require.Len(t, n.digests, 1)
	assert.Equal(t, 1, n.digests[0].TotalOrders)
	assert.Equal(t, 30.0, n.digests[0].Revenue)
	assert.Equal(t, []notify.DigestProduct{{Name: "Jara", Quantity: 3}}, n.digests[0].TopProducts)
}
