package analytics

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ordersFor builds n orders for a customer, one per day from start.
func ordersFor(customer string, n int, start time.Time) []Order {
	out := make([]Order, n)
	for i := range out {
		out[i] = Order{
			ID:          fmt.Sprintf("%s-O%d", customer, i),
			CustomerID:  customer,
			Date:        start.AddDate(0, 0, i),
			TotalAmount: 10,
		}
	}
	return out
}

func TestLifetimeValue(t *testing.T) {
	ds := &Dataset{
		Orders: []Order{
			{ID: "O1", CustomerID: "C1"},
			{ID: "O2", CustomerID: "C1"},
			{ID: "O3", CustomerID: "C2"},
		},
		Items: []OrderItem{
			{ID: "I1", OrderID: "O1", Quantity: 2, UnitPrice: 10},
			{ID: "I2", OrderID: "O2", Quantity: 1, UnitPrice: 5},
			{ID: "I3", OrderID: "O3", Quantity: 3, UnitPrice: 1.5},
		},
	}

	got := LifetimeValue(ds)
	require.Len(t, got, 2)
	assert.Equal(t, CustomerValue{CustomerID: "C1", LifetimeValue: 25.00}, got[0])
	assert.Equal(t, CustomerValue{CustomerID: "C2", LifetimeValue: 4.50}, got[1])
}

func TestRepeatPurchaseRate(t *testing.T) {
	start := day(2024, time.January, 1)
	var orders []Order
	for i, n := range []int{1, 4, 5, 2} {
		orders = append(orders, ordersFor(fmt.Sprintf("C%d", i), n, start)...)
	}
	ds := &Dataset{Orders: orders}

	got := RepeatPurchaseRate(ds, 3)
	assert.True(t, got.Defined)
	assert.Equal(t, 50.00, got.Value)
}

func TestRepeatPurchaseRate_NoOrders(t *testing.T) {
	got := RepeatPurchaseRate(&Dataset{}, 3)
	assert.False(t, got.Defined)
}

func TestInterPurchaseGap(t *testing.T) {
	ds := &Dataset{Orders: []Order{
		{ID: "O3", CustomerID: "C1", Date: day(2024, time.January, 31)},
		{ID: "O1", CustomerID: "C1", Date: day(2024, time.January, 1)},
		{ID: "O2", CustomerID: "C1", Date: day(2024, time.January, 11)},
		{ID: "O4", CustomerID: "C2", Date: day(2024, time.February, 1)},
		{ID: "O5", CustomerID: "C3"},
		{ID: "O6", CustomerID: "C3", Date: day(2024, time.March, 1)},
	}}

	got := InterPurchaseGap(ds)
	require.Len(t, got, 1, "only customers with two dated orders qualify")
	assert.Equal(t, "C1", got[0].CustomerID)
	assert.Equal(t, 3, got[0].Orders)
	assert.Equal(t, 15.0, got[0].AvgDaysBetween)
}

func TestChurnCount(t *testing.T) {
	now := day(2024, time.June, 30)
	ds := &Dataset{Orders: []Order{
		{ID: "O1", CustomerID: "C1", Date: day(2024, time.January, 5)},
		{ID: "O2", CustomerID: "C1", Date: day(2024, time.June, 1)},
		{ID: "O3", CustomerID: "C2", Date: day(2024, time.February, 10)},
		{ID: "O4", CustomerID: "C3", Date: day(2024, time.March, 31)},
	}}

	assert.Equal(t, 1, ChurnCount(ds, 3, now))
	assert.Equal(t, 2, ChurnCount(ds, 2, now))
}

func TestChurnCount_MonthEnd(t *testing.T) {
	ds := &Dataset{Orders: []Order{
		{ID: "O1", CustomerID: "C1", Date: day(2024, time.March, 1)},
		{ID: "O2", CustomerID: "C2", Date: day(2024, time.February, 28)},
	}}

	// 31 May minus 3 months is 29 Feb, so only C2 is inactive.
	assert.Equal(t, 1, ChurnCount(ds, 3, day(2024, time.May, 31)))
}

func TestMonthsBefore(t *testing.T) {
	tests := []struct {
		from   time.Time
		months int
		want   time.Time
	}{
		{day(2024, time.May, 31), 3, day(2024, time.February, 29)},
		{day(2023, time.May, 31), 3, day(2023, time.February, 28)},
		{day(2024, time.March, 31), 1, day(2024, time.February, 29)},
		{day(2024, time.June, 30), 3, day(2024, time.March, 30)},
		{day(2024, time.January, 15), 2, day(2023, time.November, 15)},
		{day(2024, time.December, 31), 12, day(2023, time.December, 31)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MonthsBefore(tt.from, tt.months), "%s - %d months", tt.from.Format("2006-01-02"), tt.months)
	}
}

func TestMonthlyRevenue(t *testing.T) {
	ds := &Dataset{
		Orders: []Order{
			{ID: "O1", CustomerID: "C1", Date: day(2024, time.February, 3)},
			{ID: "O2", CustomerID: "C1", Date: day(2024, time.January, 20)},
			{ID: "O3", CustomerID: "C2", Date: day(2024, time.February, 28)},
			{ID: "O4", CustomerID: "C2"},
		},
		Items: []OrderItem{
			{OrderID: "O1", Quantity: 1, UnitPrice: 10},
			{OrderID: "O2", Quantity: 2, UnitPrice: 7.5},
			{OrderID: "O3", Quantity: 1, UnitPrice: 0.25},
			{OrderID: "O4", Quantity: 1, UnitPrice: 100},
		},
	}

	assert.Equal(t, []MonthRevenue{
		{Month: "2024-01", Revenue: 15},
		{Month: "2024-02", Revenue: 10.25},
	}, MonthlyRevenue(ds))
}

func TestCategoryAOV(t *testing.T) {
	ds := &Dataset{
		Products: []Product{
			{ID: "P1", Category: "Books"},
			{ID: "P2", Category: "Books"},
			{ID: "P3"},
		},
		Items: []OrderItem{
			{OrderID: "O1", ProductID: "P1", Quantity: 1, UnitPrice: 10},
			{OrderID: "O1", ProductID: "P2", Quantity: 1, UnitPrice: 20},
			{OrderID: "O2", ProductID: "P1", Quantity: 1, UnitPrice: 10},
			{OrderID: "O3", ProductID: "P3", Quantity: 2, UnitPrice: 50},
		},
	}

	got := CategoryAOV(ds)
	require.Len(t, got, 2)
	assert.Equal(t, UnknownCategory, got[0].Category)
	assert.Equal(t, 100.0, got[0].AvgOrderValue.Value)
	assert.Equal(t, "Books", got[1].Category)
	assert.Equal(t, 2, got[1].Orders)
	assert.Equal(t, 20.0, got[1].AvgOrderValue.Value)
}

func TestSummaryStatistics(t *testing.T) {
	ds := &Dataset{Orders: []Order{
		{ID: "O1", CustomerID: "C1", TotalAmount: 10},
		{ID: "O2", CustomerID: "C1", TotalAmount: 20},
		{ID: "O3", CustomerID: "C2", TotalAmount: 20},
		{ID: "O4", CustomerID: "C3", TotalAmount: 30},
		{ID: "O5", CustomerID: "C3", TotalAmount: 10},
	}}

	s := SummaryStatistics(ds)
	assert.Equal(t, 5, s.TotalOrders)
	assert.Equal(t, 3, s.DistinctCustomers)
	assert.Equal(t, 30.0, s.Max.Value)
	assert.Equal(t, 10.0, s.Min.Value)
	assert.Equal(t, 18.0, s.Mean.Value)
	assert.Equal(t, 20.0, s.Median.Value)
	assert.Equal(t, 10.0, s.Mode.Value, "ties resolve to the smallest value")
	assert.Equal(t, 8.37, s.StdDev.Value)
	assert.Equal(t, 46.48, s.CV.Value)
}

func TestSummaryStatistics_ZeroMean(t *testing.T) {
	ds := &Dataset{Orders: []Order{
		{ID: "O1", CustomerID: "C1"},
		{ID: "O2", CustomerID: "C2"},
	}}

	s := SummaryStatistics(ds)
	assert.True(t, s.StdDev.Defined)
	assert.False(t, s.CV.Defined)
}

func TestSummaryStatistics_Empty(t *testing.T) {
	s := SummaryStatistics(&Dataset{})
	assert.Zero(t, s.TotalOrders)
	for _, m := range []Metric{s.Max, s.Min, s.Mean, s.Median, s.Mode, s.StdDev, s.CV} {
		assert.False(t, m.Defined)
	}
}

func TestNTile(t *testing.T) {
	tests := []struct {
		n, k int
		want []int
	}{
		{10, 5, []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}},
		{7, 5, []int{1, 1, 2, 2, 3, 4, 5}},
		{3, 5, []int{1, 2, 3}},
		{1, 5, []int{1}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_into_%d", tt.n, tt.k), func(t *testing.T) {
			got := make([]int, tt.n)
			for i := range got {
				got[i] = NTile(i, tt.n, tt.k)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRFM_MonetaryBuckets(t *testing.T) {
	today := day(2024, time.June, 30)
	var orders []Order
	for i := 0; i < 10; i++ {
		orders = append(orders, Order{
			ID:          fmt.Sprintf("O%d", i),
			CustomerID:  fmt.Sprintf("C%02d", i),
			Date:        day(2024, time.June, 1),
			TotalAmount: float64((10 - i) * 100),
		})
	}

	scores := RFM(&Dataset{Orders: orders}, 5, today)
	require.Len(t, scores, 10)

	buckets := map[int]int{}
	for _, s := range scores {
		buckets[s.M]++
	}
	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2, 4: 2, 5: 2}, buckets)

	// C00 has the largest total, C09 the smallest.
	assert.Equal(t, 5, scores[0].M)
	assert.Equal(t, 1, scores[9].M)
	for i := 1; i < len(scores); i++ {
		assert.LessOrEqual(t, scores[i].M, scores[i-1].M, "m_score must follow monetary")
	}
	assert.Equal(t, 29, scores[0].RecencyDays)
}

func TestRFM_RecencyAndFrequency(t *testing.T) {
	today := day(2024, time.June, 30)
	ds := &Dataset{Orders: append(append(
		ordersFor("RECENT", 1, day(2024, time.June, 29)),
		ordersFor("OLD", 1, day(2023, time.June, 1))...),
		ordersFor("LOYAL", 3, day(2024, time.March, 1))...),
	}

	scores := RFM(ds, 3, today)
	byID := map[string]RFMScore{}
	for _, s := range scores {
		byID[s.CustomerID] = s
	}

	assert.Equal(t, 3, byID["RECENT"].R)
	assert.Equal(t, 1, byID["OLD"].R)
	assert.Equal(t, 3, byID["LOYAL"].F)
	assert.Equal(t, 1, byID["RECENT"].RecencyDays)
	assert.Equal(t, "233", byID["LOYAL"].Cell())
}

func TestPareto_CompetitionRank(t *testing.T) {
	ds := &Dataset{
		Orders: []Order{
			{ID: "O1", CustomerID: "A"},
			{ID: "O2", CustomerID: "B"},
			{ID: "O3", CustomerID: "C"},
		},
		Items: []OrderItem{
			{OrderID: "O1", Quantity: 1, UnitPrice: 100},
			{OrderID: "O2", Quantity: 1, UnitPrice: 100},
			{OrderID: "O3", Quantity: 1, UnitPrice: 50},
		},
	}

	got := Pareto(ds, 0)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 1, 3}, []int{got[0].Rank, got[1].Rank, got[2].Rank})
	assert.Equal(t, 40.0, got[0].CumulativeShare.Value)
	assert.Equal(t, 80.0, got[1].CumulativeShare.Value)
	assert.Equal(t, 100.0, got[2].CumulativeShare.Value)

	top := Pareto(ds, 2)
	assert.Len(t, top, 2, "rank 3 is cut by topN=2")
}

func TestPareto_TiesOnCents(t *testing.T) {
	// 0.1 + 0.2 sums to 0.30000000000000004 in float64; it still ties with 0.30.
	ds := &Dataset{
		Orders: []Order{
			{ID: "O1", CustomerID: "A"},
			{ID: "O2", CustomerID: "B"},
		},
		Items: []OrderItem{
			{OrderID: "O1", Quantity: 1, UnitPrice: 0.1},
			{OrderID: "O1", Quantity: 1, UnitPrice: 0.2},
			{OrderID: "O2", Quantity: 1, UnitPrice: 0.3},
		},
	}

	got := Pareto(ds, 0)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 1, got[1].Rank)
	assert.Equal(t, "A", got[0].CustomerID)
}

func TestTopProducts(t *testing.T) {
	ds := &Dataset{
		Products: []Product{
			{ID: "P1", Name: "Pen", Category: "Office"},
			{ID: "P2", Name: "Lamp"},
			{ID: "P3", Name: "Desk", Category: "Office"},
		},
		Orders: []Order{
			{ID: "O1", CustomerID: "C1"},
			{ID: "O2", CustomerID: "C2"},
		},
		Items: []OrderItem{
			{OrderID: "O1", ProductID: "P1", Quantity: 10, UnitPrice: 1},
			{OrderID: "O2", ProductID: "P1", Quantity: 5, UnitPrice: 1},
			{OrderID: "O2", ProductID: "P2", Quantity: 1, UnitPrice: 40},
			{OrderID: "O1", ProductID: "P3", Quantity: 1, UnitPrice: 200},
		},
	}

	got := TopProducts(ds, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "P3", got[0].ProductID)
	assert.Equal(t, "P2", got[1].ProductID)
	assert.Equal(t, UnknownCategory, got[1].Category)

	all := TopProducts(ds, 0)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[2].Customers)
	assert.Equal(t, 15, all[2].QuantitySold)
	assert.Equal(t, 7.5, all[2].AvgRevenuePerOrder.Value)
}

func TestCohorts(t *testing.T) {
	var customers []Customer
	for i := 0; i < 5; i++ {
		customers = append(customers, Customer{ID: fmt.Sprintf("C%d", i), SignupDate: day(2024, time.January, 5+i)})
	}
	customers = append(customers, Customer{ID: "NOSIGNUP"})

	ds := &Dataset{
		Customers: customers,
		Orders: []Order{
			{ID: "O1", CustomerID: "C0", Date: day(2024, time.January, 20)},
			{ID: "O2", CustomerID: "C0", Date: day(2024, time.January, 25)},
			{ID: "O3", CustomerID: "C1", Date: day(2024, time.January, 31)},
			{ID: "O4", CustomerID: "C2", Date: day(2024, time.February, 1)},
			{ID: "O5", CustomerID: "NOSIGNUP", Date: day(2024, time.January, 2)},
		},
	}

	got := Cohorts(ds)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01", got[0].Cohort)
	assert.Equal(t, 5, got[0].CohortSize)
	assert.Equal(t, 2, got[0].Retained)
	assert.Equal(t, 40.00, got[0].RetentionRate.Value)

	matrix := CohortMatrix(ds, 2)
	require.Len(t, matrix, 1)
	assert.Equal(t, []int{2, 1}, matrix[0].Active)
}

func TestMonthNumber(t *testing.T) {
	signup := day(2023, time.December, 31)
	assert.Equal(t, 1, MonthNumber(signup, day(2023, time.December, 31)))
	assert.Equal(t, 2, MonthNumber(signup, day(2024, time.January, 1)))
	assert.Equal(t, 0, MonthNumber(signup, day(2023, time.November, 30)))
}

func TestMetric_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]Metric{"a": DefinedMetric(12.346), "b": Undefined()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12.35,"b":null}`, string(b))

	var m Metric
	require.NoError(t, json.Unmarshal([]byte("null"), &m))
	assert.False(t, m.Defined)
	assert.Equal(t, "undefined", m.String())
}

func TestBuild_UsesClock(t *testing.T) {
	now := day(2024, time.June, 30)
	ds := &Dataset{Orders: ordersFor("C1", 1, day(2024, time.January, 1))}

	r := Build(ds, Config{Now: func() time.Time { return now }})
	assert.Equal(t, 1, r.ChurnedCustomers)
	require.Len(t, r.RFM, 1)
	assert.Equal(t, 181, r.RFM[0].RecencyDays)
	assert.Equal(t, DefinedMetric(0), r.RepeatPurchaseRate)
}

func TestViews_Registry(t *testing.T) {
	views := Views()
	assert.Len(t, views, 11)
	for i := 1; i < len(views); i++ {
		assert.Less(t, views[i-1].Name, views[i].Name)
	}

	v, ok := Lookup("repeat_purchase_rate")
	require.True(t, ok)
	out := v.Run(&Dataset{}, Config{})
	assert.Equal(t, map[string]Metric{"repeat_purchase_rate": Undefined()}, out)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestView_RunThresholdDefaults(t *testing.T) {
	ds := &Dataset{Orders: []Order{
		{ID: "O1", CustomerID: "C1"},
		{ID: "O2", CustomerID: "C2"},
		{ID: "O3", CustomerID: "C2"},
		{ID: "O4", CustomerID: "C2"},
		{ID: "O5", CustomerID: "C2"},
	}}
	v, ok := Lookup("repeat_purchase_rate")
	require.True(t, ok)

	// Zero is a real threshold: every ordering customer exceeds it.
	assert.Equal(t, map[string]Metric{"repeat_purchase_rate": DefinedMetric(100)}, v.Run(ds, Config{RepeatThreshold: 0}))
	// Negative falls back to the default of 3.
	assert.Equal(t, map[string]Metric{"repeat_purchase_rate": DefinedMetric(50)}, v.Run(ds, Config{RepeatThreshold: -1}))
}
