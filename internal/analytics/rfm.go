package analytics

import (
	"sort"
	"strconv"
	"time"
)

// RFMScore is a customer's recency, frequency and monetary scores.
// Higher scores are better on every dimension.
type RFMScore struct {
	CustomerID  string  `json:"customer_id"`
	RecencyDays int     `json:"recency_days"`
	Frequency   int     `json:"frequency"`
	Monetary    float64 `json:"monetary"`
	R           int     `json:"r_score"`
	F           int     `json:"f_score"`
	M           int     `json:"m_score"`
}

// Cell returns the concatenated score, e.g. "545".
func (s RFMScore) Cell() string {
	return strconv.Itoa(s.R) + strconv.Itoa(s.F) + strconv.Itoa(s.M)
}

// RFM scores every customer with at least one dated order into k buckets
// per dimension. Recency is days since the last order relative to today,
// frequency is the distinct order count and monetary is the sum of order
// total_amount. Results are sorted by customer ID.
func RFM(ds *Dataset, k int, today time.Time) []RFMScore {
	if k <= 0 {
		k = DefaultConfig().Quintiles
	}
	dated := datedOrders(ds)
	counts := orderCounts(ds)

	monetary := make(map[string]float64)
	for _, o := range ds.Orders {
		monetary[o.CustomerID] += o.TotalAmount
	}

	scores := make([]RFMScore, 0, len(dated))
	for id, list := range dated {
		scores = append(scores, RFMScore{
			CustomerID:  id,
			RecencyDays: daysBetween(list[len(list)-1].Date, today),
			Frequency:   counts[id],
			Monetary:    round2(monetary[id]),
		})
	}

	// Most recent customers land in the top bucket.
	assignNTile(scores, k, func(a, b RFMScore) bool {
		return a.RecencyDays > b.RecencyDays
	}, func(s *RFMScore, b int) { s.R = b })
	assignNTile(scores, k, func(a, b RFMScore) bool {
		return a.Frequency < b.Frequency
	}, func(s *RFMScore, b int) { s.F = b })
	assignNTile(scores, k, func(a, b RFMScore) bool {
		return a.Monetary < b.Monetary
	}, func(s *RFMScore, b int) { s.M = b })

	sort.Slice(scores, func(i, j int) bool { return scores[i].CustomerID < scores[j].CustomerID })
	return scores
}

// assignNTile sorts rows by less (ties on customer ID) and deals them into k
// buckets numbered 1..k. Bucket sizes differ by at most one, larger buckets first.
func assignNTile(rows []RFMScore, k int, less func(a, b RFMScore) bool, set func(*RFMScore, int)) {
	sort.Slice(rows, func(i, j int) bool {
		if less(rows[i], rows[j]) {
			return true
		}
		if less(rows[j], rows[i]) {
			return false
		}
		return rows[i].CustomerID < rows[j].CustomerID
	})
	for i := range rows {
		set(&rows[i], NTile(i, len(rows), k))
	}
}

// NTile returns the 1-based bucket of the 0-based position i among n rows
// split into k buckets. The first n%k buckets hold one extra row.
func NTile(i, n, k int) int {
	if n <= 0 || k <= 0 {
		return 0
	}
	size, extra := n/k, n%k
	big := extra * (size + 1)
	if i < big {
		return i/(size+1) + 1
	}
	if size == 0 {
		return extra
	}
	return extra + (i-big)/size + 1
}
