package analytics

import (
	"sort"
	"time"
)

// CustomerValue is a customer's lifetime revenue.
type CustomerValue struct {
	CustomerID    string  `json:"customer_id"`
	LifetimeValue float64 `json:"lifetime_value"`
}

// LifetimeValue sums item revenue per customer over all of their orders.
// Customers without order items are omitted. Sorted by value descending.
func LifetimeValue(ds *Dataset) []CustomerValue {
	rev := ds.itemRevenueByCustomer()
	out := make([]CustomerValue, 0, len(rev))
	for id, v := range rev {
		out = append(out, CustomerValue{CustomerID: id, LifetimeValue: round2(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LifetimeValue != out[j].LifetimeValue {
			return out[i].LifetimeValue > out[j].LifetimeValue
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

// orderCounts returns the number of distinct orders per customer.
func orderCounts(ds *Dataset) map[string]int {
	seen := make(map[string]struct{}, len(ds.Orders))
	counts := make(map[string]int)
	for _, o := range ds.Orders {
		if _, ok := seen[o.ID]; ok {
			continue
		}
		seen[o.ID] = struct{}{}
		counts[o.CustomerID]++
	}
	return counts
}

// RepeatPurchaseRate is the percentage of ordering customers with more than
// threshold orders. Undefined when nobody has ordered.
func RepeatPurchaseRate(ds *Dataset, threshold int) Metric {
	counts := orderCounts(ds)
	repeat := 0
	for _, n := range counts {
		if n > threshold {
			repeat++
		}
	}
	return Percent(float64(repeat), float64(len(counts)))
}

// CustomerGap is the mean number of days between a customer's consecutive orders.
type CustomerGap struct {
	CustomerID     string  `json:"customer_id"`
	Orders         int     `json:"orders"`
	AvgDaysBetween float64 `json:"avg_days_between_orders"`
}

// datedOrders groups orders with a known date by customer, each list sorted
// by date then order ID.
func datedOrders(ds *Dataset) map[string][]Order {
	by := make(map[string][]Order)
	for _, o := range ds.Orders {
		if o.Date.IsZero() {
			continue
		}
		by[o.CustomerID] = append(by[o.CustomerID], o)
	}
	for _, list := range by {
		sort.Slice(list, func(i, j int) bool {
			if !list[i].Date.Equal(list[j].Date) {
				return list[i].Date.Before(list[j].Date)
			}
			return list[i].ID < list[j].ID
		})
	}
	return by
}

// InterPurchaseGap reports the average gap for customers with at least two
// dated orders, sorted by customer ID.
func InterPurchaseGap(ds *Dataset) []CustomerGap {
	var out []CustomerGap
	for id, list := range datedOrders(ds) {
		if len(list) < 2 {
			continue
		}
		span := daysBetween(list[0].Date, list[len(list)-1].Date)
		out = append(out, CustomerGap{
			CustomerID:     id,
			Orders:         len(list),
			AvgDaysBetween: round2(float64(span) / float64(len(list)-1)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}

// ChurnCount counts customers whose most recent dated order is older than
// months before now.
func ChurnCount(ds *Dataset, months int, now time.Time) int {
	cutoff := MonthsBefore(now, months)
	churned := 0
	for _, list := range datedOrders(ds) {
		if list[len(list)-1].Date.Before(cutoff) {
			churned++
		}
	}
	return churned
}

// MonthsBefore steps t back n calendar months. A day past the end of the
// target month is clamped to its last day, so 31 May minus 3 months is
// 29 February, matching PostgreSQL interval subtraction.
func MonthsBefore(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	d := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
