package analytics

import (
	"math"
	"sort"
)

// MonthRevenue is item revenue for one calendar month (YYYY-MM).
type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// MonthlyRevenue sums item revenue by the month of the order date, ascending.
// Items on undated orders are skipped.
func MonthlyRevenue(ds *Dataset) []MonthRevenue {
	orders := ds.ordersByID()
	byMonth := make(map[string]float64)
	for _, it := range ds.Items {
		o, ok := orders[it.OrderID]
		if !ok || o.Date.IsZero() {
			continue
		}
		byMonth[o.Date.Format("2006-01")] += it.Revenue()
	}

	out := make([]MonthRevenue, 0, len(byMonth))
	for m, v := range byMonth {
		out = append(out, MonthRevenue{Month: m, Revenue: round2(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// UnknownCategory labels products without a category.
const UnknownCategory = "Unknown"

// CategoryValue is the average order value within one product category.
type CategoryValue struct {
	Category      string  `json:"category"`
	Revenue       float64 `json:"revenue"`
	Orders        int     `json:"orders"`
	AvgOrderValue Metric  `json:"avg_order_value"`
}

// CategoryAOV divides each category's item revenue by the number of distinct
// orders containing it. Sorted by AOV descending.
func CategoryAOV(ds *Dataset) []CategoryValue {
	products := ds.productsByID()
	revenue := make(map[string]float64)
	orders := make(map[string]map[string]struct{})

	for _, it := range ds.Items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		cat := p.Category
		if cat == "" {
			cat = UnknownCategory
		}
		revenue[cat] += it.Revenue()
		if orders[cat] == nil {
			orders[cat] = make(map[string]struct{})
		}
		orders[cat][it.OrderID] = struct{}{}
	}

	out := make([]CategoryValue, 0, len(revenue))
	for cat, rev := range revenue {
		n := len(orders[cat])
		out = append(out, CategoryValue{
			Category:      cat,
			Revenue:       round2(rev),
			Orders:        n,
			AvgOrderValue: Ratio(rev, float64(n)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgOrderValue.Value != out[j].AvgOrderValue.Value {
			return out[i].AvgOrderValue.Value > out[j].AvgOrderValue.Value
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Summary describes the distribution of order totals.
type Summary struct {
	TotalOrders       int    `json:"total_orders"`
	DistinctCustomers int    `json:"distinct_customers"`
	Max               Metric `json:"max_order_amount"`
	Min               Metric `json:"min_order_amount"`
	Mean              Metric `json:"mean_order_amount"`
	Median            Metric `json:"median_order_amount"`
	Mode              Metric `json:"mode_order_amount"`
	StdDev            Metric `json:"stddev_order_amount"`
	CV                Metric `json:"coefficient_of_variation"`
}

// SummaryStatistics computes descriptive statistics over order total_amount.
// StdDev is the sample deviation; CV is StdDev/Mean as a percentage.
func SummaryStatistics(ds *Dataset) Summary {
	customers := make(map[string]struct{})
	values := make([]float64, 0, len(ds.Orders))
	for _, o := range ds.Orders {
		values = append(values, o.TotalAmount)
		customers[o.CustomerID] = struct{}{}
	}

	s := Summary{TotalOrders: len(values), DistinctCustomers: len(customers)}
	if len(values) == 0 {
		return s
	}

	sort.Float64s(values)
	n := float64(len(values))

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	s.Min = DefinedMetric(values[0])
	s.Max = DefinedMetric(values[len(values)-1])
	s.Mean = DefinedMetric(mean)
	s.Median = DefinedMetric(median(values))
	s.Mode = DefinedMetric(mode(values))

	if len(values) < 2 {
		return s
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	sd := math.Sqrt(sq / (n - 1))
	s.StdDev = DefinedMetric(sd)
	s.CV = Percent(sd, mean)
	return s
}

// median expects sorted input.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// mode expects sorted input; ties resolve to the smallest value.
func mode(sorted []float64) float64 {
	best, bestN := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestN {
			best, bestN = sorted[i], j-i
		}
		i = j
	}
	return best
}
