// Package report renders pipeline results and analytics for humans: a load
// summary, rejected-row CSV exports and an xlsx workbook of every aggregate.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/retailetl/internal/analytics"
)

// sheet is one worksheet: a header row followed by data rows.
type sheet struct {
	name   string
	header []string
	rows   [][]any
}

// Sheet names in workbook order.
const (
	SheetLifetimeValue = "Lifetime Value"
	SheetRepeatRate    = "Repeat Purchase"
	SheetGap           = "Inter-Purchase Gap"
	SheetChurn         = "Churn"
	SheetMonthly       = "Monthly Revenue"
	SheetCategory      = "Category AOV"
	SheetSummary       = "Order Summary"
	SheetRFM           = "RFM"
	SheetPareto        = "Pareto"
	SheetProducts      = "Top Products"
	SheetCohorts       = "Cohort Retention"
)

// metricCell leaves undefined metrics blank.
func metricCell(m analytics.Metric) any {
	if !m.Defined {
		return nil
	}
	return m.Value
}

func sheets(rep analytics.Report) []sheet {
	ltv := sheet{name: SheetLifetimeValue, header: []string{"customer_id", "lifetime_value"}}
	for _, r := range rep.LifetimeValue {
		ltv.rows = append(ltv.rows, []any{r.CustomerID, r.LifetimeValue})
	}

	gap := sheet{name: SheetGap, header: []string{"customer_id", "orders", "avg_days_between_orders"}}
	for _, r := range rep.InterPurchaseGap {
		gap.rows = append(gap.rows, []any{r.CustomerID, r.Orders, r.AvgDaysBetween})
	}

	monthly := sheet{name: SheetMonthly, header: []string{"month", "revenue"}}
	for _, r := range rep.MonthlyRevenue {
		monthly.rows = append(monthly.rows, []any{r.Month, r.Revenue})
	}

	cat := sheet{name: SheetCategory, header: []string{"category", "revenue", "orders", "avg_order_value"}}
	for _, r := range rep.CategoryAOV {
		cat.rows = append(cat.rows, []any{r.Category, r.Revenue, r.Orders, metricCell(r.AvgOrderValue)})
	}

	s := rep.Summary
	summary := sheet{name: SheetSummary, header: []string{"statistic", "value"}, rows: [][]any{
		{"total_orders", s.TotalOrders},
		{"distinct_customers", s.DistinctCustomers},
		{"max_order_amount", metricCell(s.Max)},
		{"min_order_amount", metricCell(s.Min)},
		{"mean_order_amount", metricCell(s.Mean)},
		{"median_order_amount", metricCell(s.Median)},
		{"mode_order_amount", metricCell(s.Mode)},
		{"stddev_order_amount", metricCell(s.StdDev)},
		{"coefficient_of_variation", metricCell(s.CV)},
	}}

	rfm := sheet{name: SheetRFM, header: []string{"customer_id", "recency_days", "frequency", "monetary", "r_score", "f_score", "m_score", "rfm_cell"}}
	for _, r := range rep.RFM {
		rfm.rows = append(rfm.rows, []any{r.CustomerID, r.RecencyDays, r.Frequency, r.Monetary, r.R, r.F, r.M, r.Cell()})
	}

	pareto := sheet{name: SheetPareto, header: []string{"customer_id", "total_spend", "spend_rank", "cumulative_share"}}
	for _, r := range rep.Pareto {
		pareto.rows = append(pareto.rows, []any{r.CustomerID, r.TotalSpend, r.Rank, metricCell(r.CumulativeShare)})
	}

	products := sheet{name: SheetProducts, header: []string{"product_id", "product_name", "category", "customers", "quantity_sold", "revenue", "avg_revenue_per_order"}}
	for _, r := range rep.Products {
		products.rows = append(products.rows, []any{r.ProductID, r.ProductName, r.Category, r.Customers, r.QuantitySold, r.Revenue, metricCell(r.AvgRevenuePerOrder)})
	}

	cohorts := sheet{name: SheetCohorts, header: []string{"cohort", "cohort_size", "retained", "retention_rate"}}
	for _, r := range rep.Cohorts {
		cohorts.rows = append(cohorts.rows, []any{r.Cohort, r.CohortSize, r.Retained, metricCell(r.RetentionRate)})
	}

	return []sheet{
		ltv,
		{name: SheetRepeatRate, header: []string{"repeat_purchase_rate"}, rows: [][]any{{metricCell(rep.RepeatPurchaseRate)}}},
		gap,
		{name: SheetChurn, header: []string{"churned_customers"}, rows: [][]any{{rep.ChurnedCustomers}}},
		monthly,
		cat,
		summary,
		rfm,
		pareto,
		products,
		cohorts,
	}
}

// Workbook builds an xlsx file with one sheet per aggregate.
// The caller owns the returned file and must Close it.
func Workbook(rep analytics.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, sh := range sheets(rep) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	header := make([]any, len(sh.header))
	for i, h := range sh.header {
		header[i] = h
	}
	if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sh.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sh.name, err)
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sh.name, i+2, err)
		}
	}
	return nil
}

// WriteWorkbook renders rep as xlsx into w.
func WriteWorkbook(w io.Writer, rep analytics.Report) error {
	f, err := Workbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook renders rep as xlsx at path.
func SaveWorkbook(path string, rep analytics.Report) error {
	f, err := Workbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
