package tables

import (
	"context"

	"github.com/JonMunkholm/retailetl/internal/core"
	db "github.com/JonMunkholm/retailetl/internal/database"
)

func init() {
	registerProducts()
}

type productRow struct {
	ProductID string  `csv:"product_id" validate:"required,max=50"`
	Price     float64 `csv:"price" validate:"gte=0"`
	Cost      float64 `csv:"cost" validate:"gte=0"`
}

func registerProducts() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      core.EntityProducts,
			Label:    "Products",
			FileName: "products.csv",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "product_id", Type: core.FieldID, Required: true},
			{Name: "product_name", Type: core.FieldText},
			{Name: "category", Type: core.FieldText},
			{Name: "price", Type: core.FieldNumeric},
			{Name: "cost", Type: core.FieldNumeric},
		},
		BuildParams: func(rec core.Record) (any, error) {
			row := productRow{
				ProductID: rec.Text("product_id"),
				Price:     numeric(rec, "price"),
				Cost:      numeric(rec, "cost"),
			}
			if err := core.ValidateStruct(row); err != nil {
				return nil, err
			}
			return db.InsertProductParams{
				ProductID:   row.ProductID,
				ProductName: rec.Get("product_name").PgText(),
				Category:    rec.Get("category").PgText(),
				Price:       rec.Get("price").PgNumeric(),
				Cost:        rec.Get("cost").PgNumeric(),
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any, upsert bool) error {
			p := params.(db.InsertProductParams)
			if upsert {
				return db.New(dbtx).UpsertProduct(ctx, p)
			}
			return db.New(dbtx).InsertProduct(ctx, p)
		},
		Reset: func(ctx context.Context, dbtx core.DBTX) error {
			return db.New(dbtx).ResetProducts(ctx)
		},
	})
}
