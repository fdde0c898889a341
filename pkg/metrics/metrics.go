package metrics

import (
	"path"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

const (
	MetricsCheckoutTotal      = "storefront_checkout_total"
	MetricsOrderRows          = "storefront_order_rows"
	MetricsCheckoutFailed     = "storefront_checkout_failed"
	MetricsNotifyFailed       = "storefront_notify_failed"
	MetricsCheckoutRevenue    = "storefront_checkout_revenue"
	MetricsEnquiryTotal       = "storefront_enquiry_total"
	defaultPartitionDuration  = time.Hour * 24
	defaultRetentionDuration  = time.Hour * 24 * 90
	defaultWritesTimeout      = time.Second * 5
	defaultMetricsDataSubPath = "data/metrics"
)

// Point is one sample returned by Query
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

var (
	store tstorage.Storage
	mu    sync.RWMutex
)

// InitMetrics opens the time-series storage under workdir. An empty workdir
// keeps everything in memory.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if store != nil {
		_ = store.Close()
		store = nil
	}
	opts := []tstorage.Option{
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(defaultPartitionDuration),
		tstorage.WithRetention(defaultRetentionDuration),
		tstorage.WithWriteTimeout(defaultWritesTimeout),
	}
	if workdir != "" {
		opts = append(opts, tstorage.WithDataPath(path.Join(workdir, defaultMetricsDataSubPath)))
	}
	s, err := tstorage.NewStorage(opts...)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	store = s
	return nil
}

func insert(name string, value float64) {
	mu.RLock()
	defer mu.RUnlock()
	if store == nil {
		return
	}
	_ = store.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
	}})
}

// Incr records a counter increment; Sum of the queried points gives the total
func Incr(name string, delta float64) {
	insert(name, delta)
}

// Query returns the samples of name within [from, to]
func Query(name string, from, to time.Time) ([]Point, error) {
	mu.RLock()
	defer mu.RUnlock()
	if store == nil {
		return []Point{}, nil
	}
	points, err := store.Select(name, nil, from.Unix(), to.Unix()+1)
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return []Point{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select metric %s", name)
	}
	result := make([]Point, 0, len(points))
	for _, p := range points {
		result = append(result, Point{Timestamp: p.Timestamp, Value: p.Value})
	}
	return result, nil
}

// Sum adds up the values of points
func Sum(points []Point) float64 {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	return total
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}
