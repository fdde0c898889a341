// Package analytics derives the admin dashboard from the order log and the
// catalog. Compute is pure: it reads nothing but its input.
package analytics

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/pskitchenware/storefront/internal/domain"
)

const (
	DefaultRangeDays = 30
	ChartSize        = 10
	RecentSize       = 10
	OthersCategory   = "Others"
	dayLayout        = "2006-01-02"
)

type Input struct {
	Orders     []domain.Order
	Categories []domain.Category
	// From and To are calendar days; zero values select the last 30 days
	// ending at Now.
	From     time.Time
	To       time.Time
	Now      time.Time
	Location *time.Location
}

type ProductQuantity struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type DayCount struct {
	Date   string `json:"date"`
	Label  string `json:"label"`
	Orders int    `json:"orders"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Dashboard struct {
	From                 string            `json:"from"`
	To                   string            `json:"to"`
	TotalOrders          int               `json:"totalOrders"`
	TodaysRevenue        float64           `json:"todaysRevenue"`
	TopProduct           *ProductQuantity  `json:"topProduct"`
	ProductChart         []ProductQuantity `json:"productChart"`
	DailyOrders          []DayCount        `json:"dailyOrders"`
	AverageOrdersPerDay  float64           `json:"averageOrdersPerDay"`
	CategoryDistribution []CategoryCount   `json:"categoryDistribution"`
	RecentOrders         []domain.Order    `json:"recentOrders"`
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Range resolves the inclusive calendar-day range of the input
func Range(in Input) (time.Time, time.Time) {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	to := in.To
	if to.IsZero() {
		to = now
	}
	from := in.From
	if from.IsZero() {
		from = startOfDay(to, loc).AddDate(0, 0, -(DefaultRangeDays - 1))
	}
	from, to = startOfDay(from, loc), startOfDay(to, loc)
	if to.Before(from) {
		from, to = to, from
	}
	return from, to
}

func Compute(in Input) Dashboard {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	from, to := Range(in)
	end := to.AddDate(0, 0, 1)

	orders := make([]domain.Order, len(in.Orders))
	copy(orders, in.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})

	filtered := make([]domain.Order, 0)
	for _, o := range orders {
		d := o.Date.In(loc)
		if !d.Before(from) && d.Before(end) {
			filtered = append(filtered, o)
		}
	}

	dash := Dashboard{
		From:                 from.Format(dayLayout),
		To:                   to.Format(dayLayout),
		TotalOrders:          len(filtered),
		TodaysRevenue:        todaysRevenue(orders, now, loc),
		ProductChart:         []ProductQuantity{},
		CategoryDistribution: categoryDistribution(filtered, in.Categories),
	}

	products := productQuantities(filtered)
	if len(products) > 0 {
		top := products[0]
		dash.TopProduct = &top
		if len(products) > ChartSize {
			products = products[:ChartSize]
		}
		dash.ProductChart = products
	}

	perDay := make(map[string]int)
	for _, o := range filtered {
		perDay[o.Date.In(loc).Format(dayLayout)]++
	}
	for day := from; day.Before(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		dash.DailyOrders = append(dash.DailyOrders, DayCount{Date: key, Label: day.Format("Jan 02"), Orders: perDay[key]})
	}

	counts := make(stats.Float64Data, 0, len(perDay))
	for _, n := range perDay {
		counts = append(counts, float64(n))
	}
	if mean, err := stats.Mean(counts); err == nil {
		dash.AverageOrdersPerDay = mean
	}

	if len(filtered) > RecentSize {
		dash.RecentOrders = filtered[:RecentSize]
	} else {
		dash.RecentOrders = filtered
	}
	return dash
}

// productQuantities sums quantity per product name, largest first; ties keep
// first-encountered order.
func productQuantities(orders []domain.Order) []ProductQuantity {
	index := make(map[string]int)
	products := make([]ProductQuantity, 0)
	for _, o := range orders {
		i, ok := index[o.ProductName]
		if !ok {
			i = len(products)
			index[o.ProductName] = i
			products = append(products, ProductQuantity{Name: o.ProductName})
		}
		products[i].Quantity += o.Quantity
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Quantity > products[j].Quantity
	})
	return products
}

func todaysRevenue(orders []domain.Order, now time.Time, loc *time.Location) float64 {
	today := startOfDay(now, loc)
	tomorrow := today.AddDate(0, 0, 1)
	sum := decimal.Zero
	for _, o := range orders {
		d := o.Date.In(loc)
		if d.Before(today) || !d.Before(tomorrow) || o.Price == nil {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(*o.Price).Mul(decimal.NewFromInt(int64(o.Quantity))))
	}
	f, _ := sum.Float64()
	return f
}

// categoryDistribution counts orders per category. Product names resolve
// through subcategory names; category names map to themselves.
func categoryDistribution(orders []domain.Order, categories []domain.Category) []CategoryCount {
	lookup := make(map[string]string)
	for _, cat := range categories {
		for _, sub := range cat.Subcategories {
			lookup[sub.Name] = cat.Name
		}
		lookup[cat.Name] = cat.Name
	}
	index := make(map[string]int)
	dist := make([]CategoryCount, 0)
	for _, o := range orders {
		name, ok := lookup[o.ProductName]
		if !ok {
			name = OthersCategory
		}
		i, seen := index[name]
		if !seen {
			i = len(dist)
			index[name] = i
			dist = append(dist, CategoryCount{Name: name})
		}
		dist[i].Value++
	}
	return dist
}
