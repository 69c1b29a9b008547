package analytics

import "sort"

// ParetoRow is a customer's rank by total spend and the cumulative share of
// revenue held by customers up to and including this one.
type ParetoRow struct {
	CustomerID      string  `json:"customer_id"`
	TotalSpend      float64 `json:"total_spend"`
	Rank            int     `json:"spend_rank"`
	CumulativeShare Metric  `json:"cumulative_share"`
}

// Pareto ranks customers by item revenue, rounded to cents, descending with
// competition ranking (equal spend shares a rank, the next rank skips). Only rows with rank <= topN
// are returned; topN <= 0 returns every customer.
func Pareto(ds *Dataset, topN int) []ParetoRow {
	spend := ds.itemRevenueByCustomer()
	rows := make([]ParetoRow, 0, len(spend))
	var total float64
	for id, v := range spend {
		rows = append(rows, ParetoRow{CustomerID: id, TotalSpend: round2(v)})
		total += v
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalSpend != rows[j].TotalSpend {
			return rows[i].TotalSpend > rows[j].TotalSpend
		}
		return rows[i].CustomerID < rows[j].CustomerID
	})

	var running float64
	for i := range rows {
		if i == 0 || rows[i].TotalSpend != rows[i-1].TotalSpend {
			rows[i].Rank = i + 1
		} else {
			rows[i].Rank = rows[i-1].Rank
		}
		running += spend[rows[i].CustomerID]
		rows[i].CumulativeShare = Percent(running, total)
	}

	if topN <= 0 {
		return rows
	}
	cut := len(rows)
	for i, r := range rows {
		if r.Rank > topN {
			cut = i
			break
		}
	}
	return rows[:cut]
}
