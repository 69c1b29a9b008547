package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertProduct = `-- name: InsertProduct :exec
INSERT INTO products (product_id, product_name, category, price, cost)
VALUES ($1, $2, $3, $4, $5)
`

type InsertProductParams struct {
	ProductID   string
	ProductName pgtype.Text
	Category    pgtype.Text
	Price       pgtype.Numeric
	Cost        pgtype.Numeric
}

func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) error {
	_, err := q.db.Exec(ctx, insertProduct,
		arg.ProductID,
		arg.ProductName,
		arg.Category,
		arg.Price,
		arg.Cost,
	)
	return err
}

const upsertProduct = `-- name: UpsertProduct :exec
INSERT INTO products (product_id, product_name, category, price, cost)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (product_id) DO UPDATE SET
    product_name = EXCLUDED.product_name,
    category = EXCLUDED.category,
    price = EXCLUDED.price,
    cost = EXCLUDED.cost
`

func (q *Queries) UpsertProduct(ctx context.Context, arg InsertProductParams) error {
	_, err := q.db.Exec(ctx, upsertProduct,
		arg.ProductID,
		arg.ProductName,
		arg.Category,
		arg.Price,
		arg.Cost,
	)
	return err
}

const listProducts = `-- name: ListProducts :many
SELECT product_id, product_name, category, price, cost
FROM products
ORDER BY product_id
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ProductID,
			&i.ProductName,
			&i.Category,
			&i.Price,
			&i.Cost,
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

const resetProducts = `-- name: ResetProducts :exec
DELETE FROM products
`

func (q *Queries) ResetProducts(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetProducts)
	return err
}
