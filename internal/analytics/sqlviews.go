package analytics

import (
	"context"
	"database/sql"
	"fmt"
)

// ViewDDL is the SQL definition of one dashboard view.
type ViewDDL struct {
	Name string
	SQL  string
}

// ViewDDLs renders the dashboard views with cfg's thresholds inlined.
// Views are ordered so that none depends on a later one.
func ViewDDLs(cfg Config) []ViewDDL {
	cfg = cfg.withDefaults()
	return []ViewDDL{
		{"v_customer_lifetime_value", `
SELECT o.customer_id,
       ROUND(SUM(oi.unit_price * oi.quantity), 2) AS lifetime_value
FROM orders o
JOIN order_items oi ON oi.order_id = o.order_id
GROUP BY o.customer_id
ORDER BY lifetime_value DESC, o.customer_id`},

		{"v_repeat_purchase_rate", fmt.Sprintf(`
WITH counts AS (
    SELECT customer_id, COUNT(DISTINCT order_id) AS n
    FROM orders
    GROUP BY customer_id
)
SELECT ROUND(100.0 * COUNT(*) FILTER (WHERE n > %d) / NULLIF(COUNT(*), 0), 2) AS repeat_purchase_rate
FROM counts`, cfg.RepeatThreshold)},

		{"v_inter_purchase_gap", `
WITH dated AS (
    SELECT customer_id,
           order_date - LAG(order_date) OVER (PARTITION BY customer_id ORDER BY order_date, order_id) AS gap
    FROM orders
    WHERE order_date IS NOT NULL
)
SELECT customer_id,
       COUNT(*) AS orders,
       ROUND(AVG(gap)::numeric, 2) AS avg_days_between_orders
FROM dated
GROUP BY customer_id
HAVING COUNT(*) >= 2
ORDER BY customer_id`},

		{"v_churn_count", fmt.Sprintf(`
SELECT COUNT(*) AS churned_customers
FROM (
    SELECT customer_id, MAX(order_date) AS last_order
    FROM orders
    WHERE order_date IS NOT NULL
    GROUP BY customer_id
) t
WHERE last_order < CURRENT_DATE - INTERVAL '%d months'`, cfg.ChurnMonths)},

		{"v_monthly_revenue", `
SELECT TO_CHAR(DATE_TRUNC('month', o.order_date), 'YYYY-MM') AS month,
       ROUND(SUM(oi.unit_price * oi.quantity), 2) AS revenue
FROM orders o
JOIN order_items oi ON oi.order_id = o.order_id
WHERE o.order_date IS NOT NULL
GROUP BY 1
ORDER BY 1`},

		{"v_category_aov", `
SELECT COALESCE(p.category, 'Unknown') AS category,
       ROUND(SUM(oi.unit_price * oi.quantity), 2) AS revenue,
       COUNT(DISTINCT oi.order_id) AS orders,
       ROUND(SUM(oi.unit_price * oi.quantity) / NULLIF(COUNT(DISTINCT oi.order_id), 0), 2) AS avg_order_value
FROM order_items oi
JOIN products p ON p.product_id = oi.product_id
GROUP BY 1
ORDER BY avg_order_value DESC, category`},

		{"v_order_summary", `
WITH stats AS (
    SELECT COUNT(*) AS n,
           COUNT(DISTINCT customer_id) AS customers,
           MAX(total_amount) AS mx,
           MIN(total_amount) AS mn,
           AVG(total_amount) AS mean,
           PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY total_amount) AS median,
           MODE() WITHIN GROUP (ORDER BY total_amount) AS mode,
           STDDEV_SAMP(total_amount) AS sd
    FROM orders
)
SELECT n AS total_orders,
       customers AS distinct_customers,
       ROUND(mx, 2) AS max_order_amount,
       ROUND(mn, 2) AS min_order_amount,
       ROUND(mean, 2) AS mean_order_amount,
       ROUND(median::numeric, 2) AS median_order_amount,
       ROUND(mode, 2) AS mode_order_amount,
       ROUND(sd, 2) AS stddev_order_amount,
       ROUND(sd / NULLIF(mean, 0) * 100, 2) AS coefficient_of_variation
FROM stats`},

		{"v_rfm_scores", fmt.Sprintf(`
WITH base AS (
    SELECT customer_id,
           CURRENT_DATE - MAX(order_date) AS recency_days,
           COUNT(DISTINCT order_id) AS frequency,
           SUM(total_amount) AS monetary
    FROM orders
    GROUP BY customer_id
    HAVING MAX(order_date) IS NOT NULL
)
SELECT customer_id,
       recency_days,
       frequency,
       ROUND(monetary, 2) AS monetary,
       NTILE(%[1]d) OVER (ORDER BY recency_days DESC, customer_id) AS r_score,
       NTILE(%[1]d) OVER (ORDER BY frequency, customer_id) AS f_score,
       NTILE(%[1]d) OVER (ORDER BY monetary, customer_id) AS m_score
FROM base
ORDER BY customer_id`, cfg.Quintiles)},

		{"v_pareto", fmt.Sprintf(`
WITH spend AS (
    SELECT o.customer_id,
           SUM(oi.unit_price * oi.quantity) AS total_spend,
           ROUND(SUM(oi.unit_price * oi.quantity), 2) AS spend_cents
    FROM orders o
    JOIN order_items oi ON oi.order_id = o.order_id
    GROUP BY o.customer_id
), ranked AS (
    SELECT customer_id,
           spend_cents,
           RANK() OVER (ORDER BY spend_cents DESC) AS spend_rank,
           SUM(total_spend) OVER (ORDER BY spend_cents DESC, customer_id ROWS UNBOUNDED PRECEDING) AS running,
           SUM(total_spend) OVER () AS grand_total
    FROM spend
)
SELECT customer_id,
       spend_cents AS total_spend,
       spend_rank,
       ROUND(100 * running / NULLIF(grand_total, 0), 2) AS cumulative_share
FROM ranked
WHERE spend_rank <= %d
ORDER BY spend_rank, customer_id`, cfg.TopN)},

		{"v_product_performance", fmt.Sprintf(`
SELECT p.product_id,
       p.product_name,
       COALESCE(p.category, 'Unknown') AS category,
       COUNT(DISTINCT o.customer_id) AS customers,
       SUM(oi.quantity) AS quantity_sold,
       ROUND(SUM(oi.unit_price * oi.quantity), 2) AS revenue,
       ROUND(SUM(oi.unit_price * oi.quantity) / NULLIF(COUNT(DISTINCT oi.order_id), 0), 2) AS avg_revenue_per_order
FROM order_items oi
JOIN orders o ON o.order_id = oi.order_id
JOIN products p ON p.product_id = oi.product_id
GROUP BY p.product_id, p.product_name, p.category
ORDER BY revenue DESC, p.product_id
LIMIT %d`, cfg.TopN)},

		{"v_cohort_retention", `
WITH cohorts AS (
    SELECT customer_id, DATE_TRUNC('month', signup_date)::date AS cohort
    FROM customers
    WHERE signup_date IS NOT NULL
), activity AS (
    SELECT DISTINCT c.customer_id,
           c.cohort,
           (EXTRACT(YEAR FROM o.order_date)::int * 12 + EXTRACT(MONTH FROM o.order_date)::int)
             - (EXTRACT(YEAR FROM c.cohort)::int * 12 + EXTRACT(MONTH FROM c.cohort)::int) + 1 AS month_number
    FROM cohorts c
    JOIN orders o ON o.customer_id = c.customer_id
    WHERE o.order_date IS NOT NULL
), sizes AS (
    SELECT cohort, COUNT(*) AS cohort_size
    FROM cohorts
    GROUP BY cohort
)
SELECT TO_CHAR(s.cohort, 'YYYY-MM') AS cohort,
       s.cohort_size,
       COUNT(DISTINCT a.customer_id) FILTER (WHERE a.month_number = 1) AS retained,
       ROUND(100.0 * COUNT(DISTINCT a.customer_id) FILTER (WHERE a.month_number = 1) / s.cohort_size, 2) AS retention_rate
FROM sizes s
LEFT JOIN activity a ON a.cohort = s.cohort
GROUP BY s.cohort, s.cohort_size
ORDER BY s.cohort`},
	}
}

// InstallViews creates or replaces every dashboard view in one transaction.
func InstallViews(ctx context.Context, db *sql.DB, cfg Config) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, v := range ViewDDLs(cfg) {
		stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS%s", v.Name, v.SQL)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create view %s: %w", v.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DropViews removes every dashboard view, in reverse creation order.
func DropViews(ctx context.Context, db *sql.DB) error {
	ddls := ViewDDLs(Config{})
	for i := len(ddls) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "DROP VIEW IF EXISTS "+ddls[i].Name); err != nil {
			return fmt.Errorf("drop view %s: %w", ddls[i].Name, err)
		}
	}
	return nil
}
