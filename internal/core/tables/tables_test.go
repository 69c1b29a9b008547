package tables

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/retailetl/internal/core"
	db "github.com/JonMunkholm/retailetl/internal/database"
)

// clean runs a raw row through the normalizer and rules the way the pipeline does.
func clean(t *testing.T, entity core.Entity, rules core.RulesConfig, raw core.RawRecord) (core.TableDefinition, core.Record) {
	t.Helper()
	def, ok := core.Get(entity)
	require.True(t, ok, "table %s not registered", entity)
	rec := core.NewNormalizer(nil, true).Normalize(def.FieldSpecs, raw)
	return def, core.NewRules(rules).Apply(entity, rec)
}

func TestReviews_ConfiguredRatingScale(t *testing.T) {
	rules := core.RulesConfig{RatingMin: 1, RatingMax: 10}

	tests := []struct {
		name   string
		rating string
		want   pgtype.Int4
	}{
		{name: "inside ten point scale", rating: "7", want: pgtype.Int4{Int32: 7, Valid: true}},
		{name: "top of scale", rating: "10", want: pgtype.Int4{Int32: 10, Valid: true}},
		{name: "above scale is missing", rating: "11", want: pgtype.Int4{}},
		{name: "fraction is missing", rating: "6.5", want: pgtype.Int4{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, rec := clean(t, core.EntityReviews, rules, core.RawRecord{
				"review_id":   "R1",
				"order_id":    "O1",
				"customer_id": "C1",
				"rating":      tt.rating,
			})

			params, err := def.BuildParams(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, params.(db.InsertReviewParams).Rating)
		})
	}
}

func TestReviews_TextKeptVerbatim(t *testing.T) {
	def, rec := clean(t, core.EntityReviews, core.DefaultRulesConfig(), core.RawRecord{
		"review_id":   ` ="R-001" `,
		"order_id":    `'O1'`,
		"customer_id": "C1",
		"rating":      "5",
		"review_text": `  He said "wow"  `,
	})

	params, err := def.BuildParams(rec)
	require.NoError(t, err)
	p := params.(db.InsertReviewParams)
	assert.Equal(t, "R-001", p.ReviewID)
	assert.Equal(t, "O1", p.OrderID)
	assert.Equal(t, pgtype.Text{String: `He said "wow"`, Valid: true}, p.ReviewText)
}

func TestCustomers_StateFollowsCountry(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		country string
		want    string
	}{
		{name: "us customer", state: "Georgia", country: "USA", want: "GA"},
		{name: "customer in georgia the country", state: "Georgia", country: "Georgia", want: "Georgia"},
		{name: "canadian province", state: "ontario", country: "Canada", want: "ontario"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, rec := clean(t, core.EntityCustomers, core.DefaultRulesConfig(), core.RawRecord{
				"customer_id": "C1",
				"name":        "O'Brien",
				"state":       tt.state,
				"country":     tt.country,
				"gender":      "f",
			})

			params, err := def.BuildParams(rec)
			require.NoError(t, err)
			p := params.(db.InsertCustomerParams)
			assert.Equal(t, pgtype.Text{String: tt.want, Valid: true}, p.State)
			assert.Equal(t, pgtype.Text{String: "O'Brien", Valid: true}, p.Name)
			assert.Equal(t, pgtype.Text{String: core.GenderFemale, Valid: true}, p.Gender)
		})
	}
}

func TestOrders_StatusEnumCanonicalized(t *testing.T) {
	def, rec := clean(t, core.EntityOrders, core.DefaultRulesConfig(), core.RawRecord{
		"order_id":     "O1",
		"customer_id":  "C1",
		"order_date":   "2024-03-01",
		"total_amount": "10",
		"order_status": "delivered",
	})

	params, err := def.BuildParams(rec)
	require.NoError(t, err)
	assert.Equal(t, core.StatusDelivered, params.(db.InsertOrderParams).OrderStatus)
}
