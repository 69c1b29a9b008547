package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertReview = `-- name: InsertReview :exec
INSERT INTO reviews (review_id, order_id, customer_id, product_id, rating, review_text, review_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type InsertReviewParams struct {
	ReviewID   string
	OrderID    string
	CustomerID string
	ProductID  pgtype.Text
	Rating     pgtype.Int4
	ReviewText pgtype.Text
	ReviewDate pgtype.Date
}

func (q *Queries) InsertReview(ctx context.Context, arg InsertReviewParams) error {
	_, err := q.db.Exec(ctx, insertReview,
		arg.ReviewID,
		arg.OrderID,
		arg.CustomerID,
		arg.ProductID,
		arg.Rating,
		arg.ReviewText,
		arg.ReviewDate,
	)
	return err
}

const upsertReview = `-- name: UpsertReview :exec
INSERT INTO reviews (review_id, order_id, customer_id, product_id, rating, review_text, review_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (review_id) DO UPDATE SET
    order_id = EXCLUDED.order_id,
    customer_id = EXCLUDED.customer_id,
    product_id = EXCLUDED.product_id,
    rating = EXCLUDED.rating,
    review_text = EXCLUDED.review_text,
    review_date = EXCLUDED.review_date
`

func (q *Queries) UpsertReview(ctx context.Context, arg InsertReviewParams) error {
	_, err := q.db.Exec(ctx, upsertReview,
		arg.ReviewID,
		arg.OrderID,
		arg.CustomerID,
		arg.ProductID,
		arg.Rating,
		arg.ReviewText,
		arg.ReviewDate,
	)
	return err
}

const listReviews = `-- name: ListReviews :many
SELECT review_id, order_id, customer_id, product_id, rating, review_text, review_date
FROM reviews
ORDER BY review_id
`

func (q *Queries) ListReviews(ctx context.Context) ([]Review, error) {
	rows, err := q.db.Query(ctx, listReviews)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Review
	for rows.Next() {
		var i Review
		if err := rows.Scan(
			&i.ReviewID,
			&i.OrderID,
			&i.CustomerID,
			&i.ProductID,
			&i.Rating,
			&i.ReviewText,
			&i.ReviewDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const resetReviews = `-- name: ResetReviews :exec
DELETE FROM reviews
`

func (q *Queries) ResetReviews(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetReviews)
	return err
}
