package analytics

import (
	"sort"
	"time"
)

// CohortRetention is the share of a signup-month cohort that ordered in
// their signup month.
type CohortRetention struct {
	Cohort        string `json:"cohort"`
	CohortSize    int    `json:"cohort_size"`
	Retained      int    `json:"retained"`
	RetentionRate Metric `json:"retention_rate"`
}

// CohortRow counts active customers of one cohort per month offset.
// Active[0] is month 1, the signup month.
type CohortRow struct {
	Cohort string
	Size   int
	Active []int
}

// MonthNumber returns the 1-based month offset of t from the cohort month of signup.
func MonthNumber(signup, t time.Time) int {
	return (t.Year()*12 + int(t.Month())) - (signup.Year()*12 + int(signup.Month())) + 1
}

// CohortMatrix groups customers by signup month and counts distinct active
// customers for month offsets 1..months. Orders before signup are ignored.
func CohortMatrix(ds *Dataset, months int) []CohortRow {
	if months <= 0 {
		months = 1
	}
	signup := make(map[string]time.Time)
	rows := make(map[string]*CohortRow)
	for _, c := range ds.Customers {
		if c.SignupDate.IsZero() {
			continue
		}
		signup[c.ID] = c.SignupDate
		key := c.SignupDate.Format("2006-01")
		r := rows[key]
		if r == nil {
			r = &CohortRow{Cohort: key, Active: make([]int, months)}
			rows[key] = r
		}
		r.Size++
	}

	type slot struct {
		customer string
		month    int
	}
	seen := make(map[slot]struct{})
	for _, o := range ds.Orders {
		s, ok := signup[o.CustomerID]
		if !ok || o.Date.IsZero() {
			continue
		}
		m := MonthNumber(s, o.Date)
		if m < 1 || m > months {
			continue
		}
		k := slot{o.CustomerID, m}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		rows[s.Format("2006-01")].Active[m-1]++
	}

	out := make([]CohortRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cohort < out[j].Cohort })
	return out
}

// Cohorts reports month-1 retention per signup cohort, ascending.
func Cohorts(ds *Dataset) []CohortRetention {
	matrix := CohortMatrix(ds, 1)
	out := make([]CohortRetention, 0, len(matrix))
	for _, r := range matrix {
		out = append(out, CohortRetention{
			Cohort:        r.Cohort,
			CohortSize:    r.Size,
			Retained:      r.Active[0],
			RetentionRate: Percent(float64(r.Active[0]), float64(r.Size)),
		})
	}
	return out
}
