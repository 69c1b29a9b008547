package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrder = `-- name: InsertOrder :exec
INSERT INTO orders (order_id, order_date, customer_id, total_amount, payment_method, order_status)
VALUES ($1, $2, $3, $4, $5, $6)
`

type InsertOrderParams struct {
	OrderID       string
	OrderDate     pgtype.Date
	CustomerID    string
	TotalAmount   pgtype.Numeric
	PaymentMethod pgtype.Text
	OrderStatus   string
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) error {
	_, err := q.db.Exec(ctx, insertOrder,
		arg.OrderID,
		arg.OrderDate,
		arg.CustomerID,
		arg.TotalAmount,
		arg.PaymentMethod,
		arg.OrderStatus,
	)
	return err
}

const upsertOrder = `-- name: UpsertOrder :exec
INSERT INTO orders (order_id, order_date, customer_id, total_amount, payment_method, order_status)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (order_id) DO UPDATE SET
    order_date = EXCLUDED.order_date,
    customer_id = EXCLUDED.customer_id,
    total_amount = EXCLUDED.total_amount,
    payment_method = EXCLUDED.payment_method,
    order_status = EXCLUDED.order_status
`

func (q *Queries) UpsertOrder(ctx context.Context, arg InsertOrderParams) error {
	_, err := q.db.Exec(ctx, upsertOrder,
		arg.OrderID,
		arg.OrderDate,
		arg.CustomerID,
		arg.TotalAmount,
		arg.PaymentMethod,
		arg.OrderStatus,
	)
	return err
}

const listOrders = `-- name: ListOrders :many
SELECT order_id, order_date, customer_id, total_amount, payment_method, order_status
FROM orders
ORDER BY order_id
`

func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		var i Order
		if err := rows.Scan(
			&i.OrderID,
			&i.OrderDate,
			&i.CustomerID,
			&i.TotalAmount,
			&i.PaymentMethod,
			&i.OrderStatus,
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

const resetOrders = `-- name: ResetOrders :exec
DELETE FROM orders
`

func (q *Queries) ResetOrders(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetOrders)
	return err
}
