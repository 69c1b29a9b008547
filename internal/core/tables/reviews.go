package tables

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/retailetl/internal/core"
	db "github.com/JonMunkholm/retailetl/internal/database"
)

func init() {
	registerReviews()
}

type reviewRow struct {
	ReviewID   string `csv:"review_id" validate:"required,max=50"`
	OrderID    string `csv:"order_id" validate:"required,max=50"`
	CustomerID string `csv:"customer_id" validate:"required,max=50"`
	Rating     *int   `csv:"rating"`
}

func registerReviews() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      core.EntityReviews,
			Label:    "Reviews",
			FileName: "reviews.csv",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "review_id", Type: core.FieldID, Required: true},
			{Name: "order_id", Type: core.FieldID, Required: true},
			{Name: "customer_id", Type: core.FieldID, Required: true},
			{Name: "product_id", Type: core.FieldID},
			// Coerced to the rating scale by the rules engine.
			{Name: "rating", Type: core.FieldText},
			{Name: "review_text", Type: core.FieldText},
			{Name: "review_date", Type: core.FieldDate},
		},
		BuildParams: func(rec core.Record) (any, error) {
			row := reviewRow{
				ReviewID:   rec.Text("review_id"),
				OrderID:    rec.Text("order_id"),
				CustomerID: rec.Text("customer_id"),
				Rating:     optionalInt(rec, "rating"),
			}
			if err := core.ValidateStruct(row); err != nil {
				return nil, err
			}
			rating := pgtype.Int4{}
			if row.Rating != nil {
				rating = pgtype.Int4{Int32: int32(*row.Rating), Valid: true}
			}
			return db.InsertReviewParams{
				ReviewID:   row.ReviewID,
				OrderID:    row.OrderID,
				CustomerID: row.CustomerID,
				ProductID:  rec.Get("product_id").PgText(),
				Rating:     rating,
				ReviewText: rec.Get("review_text").PgText(),
				ReviewDate: rec.Get("review_date").PgDate(),
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any, upsert bool) error {
			p := params.(db.InsertReviewParams)
			if upsert {
				return db.New(dbtx).UpsertReview(ctx, p)
			}
			return db.New(dbtx).InsertReview(ctx, p)
		},
		Reset: func(ctx context.Context, dbtx core.DBTX) error {
			return db.New(dbtx).ResetReviews(ctx)
		},
	})
}
