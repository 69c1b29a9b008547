package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Customer struct {
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

type Product struct {
	ProductID   string
	ProductName pgtype.Text
	Category    pgtype.Text
	Price       pgtype.Numeric
	Cost        pgtype.Numeric
}

type Order struct {
	OrderID       string
	OrderDate     pgtype.Date
	CustomerID    string
	TotalAmount   pgtype.Numeric
	PaymentMethod pgtype.Text
	OrderStatus   string
}

type OrderItem struct {
	OrderItemID string
	OrderID     string
	ProductID   string
	Quantity    int32
	UnitPrice   pgtype.Numeric
}

type Review struct {
	ReviewID   string
	OrderID    string
	CustomerID string
	ProductID  pgtype.Text
	Rating     pgtype.Int4
	ReviewText pgtype.Text
	ReviewDate pgtype.Date
}
