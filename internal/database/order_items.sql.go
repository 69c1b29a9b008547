package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrderItem = `-- name: InsertOrderItem :exec
INSERT INTO order_items (order_item_id, order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5)
`

type InsertOrderItemParams struct {
	OrderItemID string
	OrderID     string
	ProductID   string
	Quantity    int32
	UnitPrice   pgtype.Numeric
}

func (q *Queries) InsertOrderItem(ctx context.Context, arg InsertOrderItemParams) error {
	_, err := q.db.Exec(ctx, insertOrderItem,
		arg.OrderItemID,
		arg.OrderID,
		arg.ProductID,
		arg.Quantity,
		arg.UnitPrice,
	)
	return err
}

const upsertOrderItem = `-- name: UpsertOrderItem :exec
INSERT INTO order_items (order_item_id, order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (order_item_id) DO UPDATE SET
    order_id = EXCLUDED.order_id,
    product_id = EXCLUDED.product_id,
    quantity = EXCLUDED.quantity,
    unit_price = EXCLUDED.unit_price
`

func (q *Queries) UpsertOrderItem(ctx context.Context, arg InsertOrderItemParams) error {
	_, err := q.db.Exec(ctx, upsertOrderItem,
		arg.OrderItemID,
		arg.OrderID,
		arg.ProductID,
		arg.Quantity,
		arg.UnitPrice,
	)
	return err
}

const listOrderItems = `-- name: ListOrderItems :many
SELECT order_item_id, order_id, product_id, quantity, unit_price
FROM order_items
ORDER BY order_item_id
`

func (q *Queries) ListOrderItems(ctx context.Context) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.OrderItemID,
			&i.OrderID,
			&i.ProductID,
			&i.Quantity,
			&i.UnitPrice,
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

const resetOrderItems = `-- name: ResetOrderItems :exec
DELETE FROM order_items
`

func (q *Queries) ResetOrderItems(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetOrderItems)
	return err
}
