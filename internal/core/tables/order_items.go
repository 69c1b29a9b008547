package tables

import (
	"context"

	"github.com/JonMunkholm/retailetl/internal/core"
	db "github.com/JonMunkholm/retailetl/internal/database"
)

func init() {
	registerOrderItems()
}

type orderItemRow struct {
	OrderItemID string  `csv:"order_item_id" validate:"required,max=50"`
	OrderID     string  `csv:"order_id" validate:"required,max=50"`
	ProductID   string  `csv:"product_id" validate:"required,max=50"`
	Quantity    int     `csv:"quantity" validate:"gt=0"`
	UnitPrice   float64 `csv:"unit_price" validate:"gte=0"`
}

func registerOrderItems() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      core.EntityOrderItems,
			Label:    "Order Items",
			FileName: "order_items.csv",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "order_item_id", Type: core.FieldID, Required: true},
			{Name: "order_id", Type: core.FieldID, Required: true},
			{Name: "product_id", Type: core.FieldID, Required: true},
			{Name: "quantity", Type: core.FieldNumeric},
			{Name: "unit_price", Type: core.FieldNumeric},
		},
		BuildParams: func(rec core.Record) (any, error) {
			qty, err := requireWhole(rec, "quantity")
			if err != nil {
				return nil, err
			}
			price, err := requireNumeric(rec, "unit_price")
			if err != nil {
				return nil, err
			}
			row := orderItemRow{
				OrderItemID: rec.Text("order_item_id"),
				OrderID:     rec.Text("order_id"),
				ProductID:   rec.Text("product_id"),
				Quantity:    qty,
				UnitPrice:   price.Num,
			}
			if err := core.ValidateStruct(row); err != nil {
				return nil, err
			}
			return db.InsertOrderItemParams{
				OrderItemID: row.OrderItemID,
				OrderID:     row.OrderID,
				ProductID:   row.ProductID,
				Quantity:    int32(row.Quantity),
				UnitPrice:   price.PgNumeric(),
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any, upsert bool) error {
			p := params.(db.InsertOrderItemParams)
			if upsert {
				return db.New(dbtx).UpsertOrderItem(ctx, p)
			}
			return db.New(dbtx).InsertOrderItem(ctx, p)
		},
		Reset: func(ctx context.Context, dbtx core.DBTX) error {
			return db.New(dbtx).ResetOrderItems(ctx)
		},
	})
}
