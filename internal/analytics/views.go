package analytics

import "sort"

// View is a named aggregate exposed by the report command and the API.
type View struct {
	Name        string
	Description string
	Compute     func(ds *Dataset, cfg Config) any
}

var registry = map[string]View{}

func register(v View) {
	if _, exists := registry[v.Name]; exists {
		panic("duplicate view: " + v.Name)
	}
	registry[v.Name] = v
}

func init() {
	register(View{"customer_lifetime_value", "Item revenue per customer", func(ds *Dataset, _ Config) any {
		return LifetimeValue(ds)
	}})
	register(View{"repeat_purchase_rate", "Share of ordering customers above the repeat threshold", func(ds *Dataset, cfg Config) any {
		return map[string]Metric{"repeat_purchase_rate": RepeatPurchaseRate(ds, cfg.RepeatThreshold)}
	}})
	register(View{"inter_purchase_gap", "Average days between consecutive orders", func(ds *Dataset, _ Config) any {
		return InterPurchaseGap(ds)
	}})
	register(View{"churn_count", "Customers inactive for the churn window", func(ds *Dataset, cfg Config) any {
		return map[string]int{"churned_customers": ChurnCount(ds, cfg.ChurnMonths, cfg.today())}
	}})
	register(View{"monthly_revenue", "Item revenue by order month", func(ds *Dataset, _ Config) any {
		return MonthlyRevenue(ds)
	}})
	register(View{"category_aov", "Average order value per product category", func(ds *Dataset, _ Config) any {
		return CategoryAOV(ds)
	}})
	register(View{"order_summary", "Descriptive statistics of order totals", func(ds *Dataset, _ Config) any {
		return SummaryStatistics(ds)
	}})
	register(View{"rfm_scores", "Recency, frequency and monetary buckets", func(ds *Dataset, cfg Config) any {
		return RFM(ds, cfg.Quintiles, cfg.today())
	}})
	register(View{"pareto", "Customers ranked by spend with cumulative revenue share", func(ds *Dataset, cfg Config) any {
		return Pareto(ds, cfg.TopN)
	}})
	register(View{"product_performance", "Top products by revenue", func(ds *Dataset, cfg Config) any {
		return TopProducts(ds, cfg.TopN)
	}})
	register(View{"cohort_retention", "Signup cohorts ordering in their signup month", func(ds *Dataset, _ Config) any {
		return Cohorts(ds)
	}})
}

// Lookup returns the view registered under name.
func Lookup(name string) (View, bool) {
	v, ok := registry[name]
	return v, ok
}

// Views returns every registered view sorted by name.
func Views() []View {
	out := make([]View, 0, len(registry))
	for _, v := range registry {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report holds every aggregate computed from one snapshot.
type Report struct {
	LifetimeValue      []CustomerValue      `json:"customer_lifetime_value"`
	RepeatPurchaseRate Metric               `json:"repeat_purchase_rate"`
	InterPurchaseGap   []CustomerGap        `json:"inter_purchase_gap"`
	ChurnedCustomers   int                  `json:"churned_customers"`
	MonthlyRevenue     []MonthRevenue       `json:"monthly_revenue"`
	CategoryAOV        []CategoryValue      `json:"category_aov"`
	Summary            Summary              `json:"order_summary"`
	RFM                []RFMScore           `json:"rfm_scores"`
	Pareto             []ParetoRow          `json:"pareto"`
	Products           []ProductPerformance `json:"product_performance"`
	Cohorts            []CohortRetention    `json:"cohort_retention"`
}

// Build computes every aggregate over ds.
func Build(ds *Dataset, cfg Config) Report {
	cfg = cfg.withDefaults()
	today := cfg.today()
	return Report{
		LifetimeValue:      LifetimeValue(ds),
		RepeatPurchaseRate: RepeatPurchaseRate(ds, cfg.RepeatThreshold),
		InterPurchaseGap:   InterPurchaseGap(ds),
		ChurnedCustomers:   ChurnCount(ds, cfg.ChurnMonths, today),
		MonthlyRevenue:     MonthlyRevenue(ds),
		CategoryAOV:        CategoryAOV(ds),
		Summary:            SummaryStatistics(ds),
		RFM:                RFM(ds, cfg.Quintiles, today),
		Pareto:             Pareto(ds, cfg.TopN),
		Products:           TopProducts(ds, cfg.TopN),
		Cohorts:            Cohorts(ds),
	}
}

// Run computes the view. Non-positive ChurnMonths, Quintiles and TopN, and a
// negative RepeatThreshold, are replaced by defaults; a RepeatThreshold of 0
// is kept and counts every customer with an order.
func (v View) Run(ds *Dataset, cfg Config) any {
	return v.Compute(ds, cfg.withDefaults())
}
