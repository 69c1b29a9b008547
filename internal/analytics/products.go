package analytics

import "sort"

// ProductPerformance summarizes sales of one product.
type ProductPerformance struct {
	ProductID          string  `json:"product_id"`
	ProductName        string  `json:"product_name"`
	Category           string  `json:"category"`
	Customers          int     `json:"customers"`
	QuantitySold       int     `json:"quantity_sold"`
	Revenue            float64 `json:"revenue"`
	AvgRevenuePerOrder Metric  `json:"avg_revenue_per_order"`
}

// TopProducts returns the topN products by item revenue.
func TopProducts(ds *Dataset, topN int) []ProductPerformance {
	products := ds.productsByID()
	orders := ds.ordersByID()

	type acc struct {
		customers map[string]struct{}
		orders    map[string]struct{}
		qty       int
		revenue   float64
	}
	byProduct := make(map[string]*acc)

	for _, it := range ds.Items {
		if _, ok := products[it.ProductID]; !ok {
			continue
		}
		o, ok := orders[it.OrderID]
		if !ok {
			continue
		}
		a := byProduct[it.ProductID]
		if a == nil {
			a = &acc{customers: map[string]struct{}{}, orders: map[string]struct{}{}}
			byProduct[it.ProductID] = a
		}
		a.customers[o.CustomerID] = struct{}{}
		a.orders[o.ID] = struct{}{}
		a.qty += it.Quantity
		a.revenue += it.Revenue()
	}

	out := make([]ProductPerformance, 0, len(byProduct))
	for id, a := range byProduct {
		p := products[id]
		cat := p.Category
		if cat == "" {
			cat = UnknownCategory
		}
		out = append(out, ProductPerformance{
			ProductID:          id,
			ProductName:        p.Name,
			Category:           cat,
			Customers:          len(a.customers),
			QuantitySold:       a.qty,
			Revenue:            round2(a.revenue),
			AvgRevenuePerOrder: Ratio(a.revenue, float64(len(a.orders))),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].ProductID < out[j].ProductID
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
