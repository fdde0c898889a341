package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pskitchenware/storefront/internal/domain"
)

var kolkata = time.FixedZone("IST", 5*3600+1800)

func order(name string, qty int, price *float64, date time.Time) domain.Order {
	return domain.Order{ID: name + date.String(), ProductName: name, Quantity: qty, Price: price, Date: date.UTC()}
}

func day(d, h int) time.Time {
	return time.Date(2024, 3, d, h, 0, 0, 0, kolkata)
}

func TestComputeEmpty(t *testing.T) {
	dash := Compute(Input{Now: day(10, 12), Location: kolkata})

	assert.Equal(t, 0, dash.TotalOrders)
	assert.Nil(t, dash.TopProduct)
	assert.Equal(t, 0.0, dash.AverageOrdersPerDay)
	assert.Equal(t, 0.0, dash.TodaysRevenue)
	assert.Empty(t, dash.ProductChart)
	assert.Empty(t, dash.RecentOrders)
	assert.Len(t, dash.DailyOrders, DefaultRangeDays)
	assert.Equal(t, "2024-02-10", dash.From)
	assert.Equal(t, "2024-03-10", dash.To)
}

func TestDailyOrdersAreDense(t *testing.T) {
	orders := []domain.Order{
		order("Jara", 1, nil, day(2, 9)),
		order("Jara", 1, nil, day(2, 18)),
		order("Doya", 3, nil, day(2, 23)),
	}
	dash := Compute(Input{Orders: orders, From: day(1, 0), To: day(3, 0), Now: day(3, 10), Location: kolkata})

	require.Len(t, dash.DailyOrders, 3)
	counts := []int{dash.DailyOrders[0].Orders, dash.DailyOrders[1].Orders, dash.DailyOrders[2].Orders}
	assert.Equal(t, []int{0, 3, 0}, counts)
	assert.Equal(t, "2024-03-02", dash.DailyOrders[1].Date)
	assert.Equal(t, "Mar 02", dash.DailyOrders[1].Label)
	assert.Equal(t, 3.0, dash.AverageOrdersPerDay)
}

func TestRangeIsInclusiveInLocation(t *testing.T) {
	orders := []domain.Order{
		order("In", 1, nil, day(5, 0).Add(time.Minute)), // 18:31 UTC on the 4th
		order("Late", 1, nil, day(7, 23)),
		order("Out", 1, nil, day(8, 0).Add(time.Minute)),
	}
	dash := Compute(Input{Orders: orders, From: day(5, 0), To: day(7, 0), Now: day(9, 0), Location: kolkata})
	assert.Equal(t, 2, dash.TotalOrders)
}

func TestTopProductAndTies(t *testing.T) {
	orders := []domain.Order{
		order("Jara", 2, nil, day(3, 12)),
		order("Doya", 2, nil, day(3, 11)),
		order("Vati", 1, nil, day(3, 10)),
	}
	dash := Compute(Input{Orders: orders, From: day(1, 0), To: day(3, 0), Now: day(3, 13), Location: kolkata})

	require.NotNil(t, dash.TopProduct)
	assert.Equal(t, "Jara", dash.TopProduct.Name)
	assert.Equal(t, []ProductQuantity{{"Jara", 2}, {"Doya", 2}, {"Vati", 1}}, dash.ProductChart)
}

func TestProductChartCappedAtTen(t *testing.T) {
	var orders []domain.Order
	for i := 0; i < 12; i++ {
		orders = append(orders, order(string(rune('A'+i)), i+1, nil, day(3, 1).Add(time.Duration(i)*time.Minute)))
	}
	dash := Compute(Input{Orders: orders, From: day(3, 0), To: day(3, 0), Now: day(3, 23), Location: kolkata})
	assert.Len(t, dash.ProductChart, ChartSize)
	assert.Equal(t, "L", dash.ProductChart[0].Name)
	assert.Len(t, dash.RecentOrders, RecentSize)
	assert.Equal(t, "L", dash.RecentOrders[0].ProductName)
}

func TestTodaysRevenueIgnoresRange(t *testing.T) {
	orders := []domain.Order{
		order("Jara", 2, domain.Float(10), day(10, 9)),
		order("Doya", 1, domain.Float(25), day(10, 1)),
		order("Vati", 5, nil, day(10, 2)),
		order("Glass", 1, domain.Float(99), day(9, 23)),
	}
	dash := Compute(Input{Orders: orders, From: day(1, 0), To: day(2, 0), Now: day(10, 20), Location: kolkata})
	assert.Equal(t, 0, dash.TotalOrders)
	assert.Equal(t, 45.0, dash.TodaysRevenue)
}

func TestCategoryDistribution(t *testing.T) {
	cats := []domain.Category{
		{Name: "Jara’s", Subcategories: []domain.SubCategory{{Name: "Big Jara"}, {Name: "Small Jara"}}},
		{Name: "Glasses"},
	}
	orders := []domain.Order{
		order("Unknown Teapot", 1, nil, day(3, 12)),
		order("Big Jara", 1, nil, day(3, 11)),
		order("Glasses", 1, nil, day(3, 10)),
		order("Small Jara", 4, nil, day(3, 9)),
	}
	dash := Compute(Input{Orders: orders, Categories: cats, From: day(3, 0), To: day(3, 0), Now: day(3, 23), Location: kolkata})
	assert.Equal(t, []CategoryCount{
		{Name: "Others", Value: 1},
		{Name: "Jara’s", Value: 2},
		{Name: "Glasses", Value: 1},
	}, dash.CategoryDistribution)
}

func TestRangeSwapsReversedBounds(t *testing.T) {
	from, to := Range(Input{From: day(9, 5), To: day(3, 5), Location: kolkata})
	assert.Equal(t, day(3, 0), from)
	assert.Equal(t, day(9, 0), to)
}

func TestComputeLeavesInputUntouched(t *testing.T) {
	cats := []domain.Category{{Name: "Kadai", Subcategories: []domain.SubCategory{{Name: "Steel Kadai"}}}}
	orders := []domain.Order{
		order("Steel Kadai", 2, domain.Float(499), day(3, 9)),
		order("Brass Doya", 1, domain.Float(120), day(1, 18)),
		order("Steel Kadai", 1, domain.Float(499), day(10, 8)),
		order("Glass Jar", 3, nil, day(2, 7)),
	}
	before := make([]domain.Order, len(orders))
	copy(before, orders)
	in := Input{Orders: orders, Categories: cats, From: day(1, 0), To: day(10, 0), Now: day(10, 12), Location: kolkata}

	first := Compute(in)
	second := Compute(in)
	assert.Equal(t, first, second)
	assert.Equal(t, before, in.Orders)
	assert.Equal(t, 4, first.TotalOrders)
}
