package tables

import (
	"context"

	"github.com/JonMunkholm/retailetl/internal/core"
	db "github.com/JonMunkholm/retailetl/internal/database"
)

func init() {
	registerOrders()
}

type orderRow struct {
	OrderID     string `csv:"order_id" validate:"required,max=50"`
	CustomerID  string `csv:"customer_id" validate:"required,max=50"`
	OrderStatus string `csv:"order_status" validate:"required,orderstatus"`
}

func registerOrders() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      core.EntityOrders,
			Label:    "Orders",
			FileName: "orders.csv",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "order_id", Type: core.FieldID, Required: true},
			{Name: "order_date", Type: core.FieldDate},
			{Name: "customer_id", Type: core.FieldID, Required: true},
			{Name: "total_amount", Type: core.FieldNumeric},
			{Name: "payment_method", Type: core.FieldText},
			{Name: "order_status", Type: core.FieldEnum, EnumValues: core.OrderStatuses},
		},
		BuildParams: func(rec core.Record) (any, error) {
			row := orderRow{
				OrderID:     rec.Text("order_id"),
				CustomerID:  rec.Text("customer_id"),
				OrderStatus: rec.Text("order_status"),
			}
			if err := core.ValidateStruct(row); err != nil {
				return nil, err
			}
			total, err := requireNumeric(rec, "total_amount")
			if err != nil {
				return nil, err
			}
			return db.InsertOrderParams{
				OrderID:       row.OrderID,
				OrderDate:     rec.Get("order_date").PgDate(),
				CustomerID:    row.CustomerID,
				TotalAmount:   total.PgNumeric(),
				PaymentMethod: rec.Get("payment_method").PgText(),
				OrderStatus:   row.OrderStatus,
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any, upsert bool) error {
			p := params.(db.InsertOrderParams)
			if upsert {
				return db.New(dbtx).UpsertOrder(ctx, p)
			}
			return db.New(dbtx).InsertOrder(ctx, p)
		},
		Reset: func(ctx context.Context, dbtx core.DBTX) error {
			return db.New(dbtx).ResetOrders(ctx)
		},
	})
}
