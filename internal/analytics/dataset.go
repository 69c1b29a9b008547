// Package analytics computes the read-only aggregates reported over the
// loaded retail tables.
//
// Every aggregate exists twice: as a pure Go function over a Dataset
// snapshot (used by the report command and the HTTP API) and as a SQL view
// installed for the BI dashboard. Both follow the same rules: revenue is
// unit price times quantity, ties break on the entity ID, and a ratio whose
// divisor is zero is reported as an undefined Metric.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/JonMunkholm/retailetl/internal/database"
)

// Customer is the part of a customer row the aggregates read.
// A zero SignupDate means the signup date is missing.
type Customer struct {
	ID         string
	SignupDate time.Time
}

// Product is the part of a product row the aggregates read.
type Product struct {
	ID       string
	Name     string
	Category string
}

// Order is the part of an order row the aggregates read.
// A zero Date means the order date is missing.
type Order struct {
	ID          string
	CustomerID  string
	Date        time.Time
	TotalAmount float64
}

// OrderItem is one order line.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice float64
}

// Revenue returns unit price times quantity.
func (i OrderItem) Revenue() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Dataset is an in-memory snapshot of the tables.
type Dataset struct {
	Customers []Customer
	Products  []Product
	Orders    []Order
	Items     []OrderItem
}

// LoadDataset reads a snapshot of every table through q.
func LoadDataset(ctx context.Context, q *db.Queries) (*Dataset, error) {
	customers, err := q.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	products, err := q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	orders, err := q.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	items, err := q.ListOrderItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	ds := &Dataset{
		Customers: make([]Customer, 0, len(customers)),
		Products:  make([]Product, 0, len(products)),
		Orders:    make([]Order, 0, len(orders)),
		Items:     make([]OrderItem, 0, len(items)),
	}
	for _, c := range customers {
		ds.Customers = append(ds.Customers, Customer{ID: c.CustomerID, SignupDate: dateOf(c.SignupDate)})
	}
	for _, p := range products {
		ds.Products = append(ds.Products, Product{ID: p.ProductID, Name: p.ProductName.String, Category: p.Category.String})
	}
	for _, o := range orders {
		ds.Orders = append(ds.Orders, Order{
			ID:          o.OrderID,
			CustomerID:  o.CustomerID,
			Date:        dateOf(o.OrderDate),
			TotalAmount: floatOf(o.TotalAmount),
		})
	}
	for _, i := range items {
		ds.Items = append(ds.Items, OrderItem{
			ID:        i.OrderItemID,
			OrderID:   i.OrderID,
			ProductID: i.ProductID,
			Quantity:  int(i.Quantity),
			UnitPrice: floatOf(i.UnitPrice),
		})
	}
	return ds, nil
}

func dateOf(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return d.Time
}

func floatOf(n pgtype.Numeric) float64 {
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0
	}
	return f.Float64
}

// ordersByID indexes orders by ID.
func (ds *Dataset) ordersByID() map[string]Order {
	m := make(map[string]Order, len(ds.Orders))
	for _, o := range ds.Orders {
		m[o.ID] = o
	}
	return m
}

// productsByID indexes products by ID.
func (ds *Dataset) productsByID() map[string]Product {
	m := make(map[string]Product, len(ds.Products))
	for _, p := range ds.Products {
		m[p.ID] = p
	}
	return m
}

// itemRevenueByCustomer sums item revenue per customer over items whose order exists.
func (ds *Dataset) itemRevenueByCustomer() map[string]float64 {
	orders := ds.ordersByID()
	out := make(map[string]float64)
	for _, it := range ds.Items {
		o, ok := orders[it.OrderID]
		if !ok {
			continue
		}
		out[o.CustomerID] += it.Revenue()
	}
	return out
}
