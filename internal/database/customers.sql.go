package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertCustomer = `-- name: InsertCustomer :exec
INSERT INTO customers (customer_id, name, email, signup_date, city, state, country, dob, gender)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type InsertCustomerParams struct {
	CustomerID string
	Name       pgtype.Text
	Email      pgtype.Text
	SignupDate pgtype.Date
	City       pgtype.Text
	State      pgtype.Text
	Country    pgtype.Text
	Dob        pgtype.Date
	Gender     pgtype.Text
}

func (q *Queries) InsertCustomer(ctx context.Context, arg InsertCustomerParams) error {
	_, err := q.db.Exec(ctx, insertCustomer,
		arg.CustomerID,
		arg.Name,
		arg.Email,
		arg.SignupDate,
		arg.City,
		arg.State,
		arg.Country,
		arg.Dob,
		arg.Gender,
	)
	return err
}

const upsertCustomer = `-- name: UpsertCustomer :exec
INSERT INTO customers (customer_id, name, email, signup_date, city, state, country, dob, gender)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (customer_id) DO UPDATE SET
    name = EXCLUDED.name,
    email = EXCLUDED.email,
    signup_date = EXCLUDED.signup_date,
    city = EXCLUDED.city,
    state = EXCLUDED.state,
    country = EXCLUDED.country,
    dob = EXCLUDED.dob,
    gender = EXCLUDED.gender
`

func (q *Queries) UpsertCustomer(ctx context.Context, arg InsertCustomerParams) error {
	_, err := q.db.Exec(ctx, upsertCustomer,
		arg.CustomerID,
		arg.Name,
		arg.Email,
		arg.SignupDate,
		arg.City,
		arg.State,
		arg.Country,
		arg.Dob,
		arg.Gender,
	)
	return err
}

const listCustomers = `-- name: ListCustomers :many
SELECT customer_id, name, email, signup_date, city, state, country, dob, gender
FROM customers
ORDER BY customer_id
`

func (q *Queries) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Customer
	for rows.Next() {
		var i Customer
		if err := rows.Scan(
			&i.CustomerID,
			&i.Name,
			&i.Email,
			&i.SignupDate,
			&i.City,
			&i.State,
			&i.Country,
			&i.Dob,
			&i.Gender,
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

const resetCustomers = `-- name: ResetCustomers :exec
DELETE FROM customers
`

func (q *Queries) ResetCustomers(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetCustomers)
	return err
}
