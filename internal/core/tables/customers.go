package tables

import (
	"context"

	"github.com/JonMunkholm/retailetl/internal/core"
	db "github.com/JonMunkholm/retailetl/internal/database"
)

func init() {
	registerCustomers()
}

type customerRow struct {
	CustomerID string `csv:"customer_id" validate:"required,max=50"`
	Gender     string `csv:"gender" validate:"omitempty,oneof=M F Other Unknown"`
}

func registerCustomers() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      core.EntityCustomers,
			Label:    "Customers",
			FileName: "customers.csv",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "customer_id", Type: core.FieldID, Required: true},
			{Name: "name", Type: core.FieldText},
			{Name: "email", Type: core.FieldText},
			{Name: "signup_date", Type: core.FieldDate},
			{Name: "city", Type: core.FieldText},
			{Name: "state", Type: core.FieldText},
			{Name: "country", Type: core.FieldText},
			{Name: "dob", Type: core.FieldDate},
			{Name: "gender", Type: core.FieldEnum, EnumValues: []string{core.GenderMale, core.GenderFemale, core.GenderOther, core.GenderUnknown}},
		},
		BuildParams: func(rec core.Record) (any, error) {
			row := customerRow{
				CustomerID: rec.Text("customer_id"),
				Gender:     rec.Text("gender"),
			}
			if err := core.ValidateStruct(row); err != nil {
				return nil, err
			}
			return db.InsertCustomerParams{
				CustomerID: row.CustomerID,
				Name:       rec.Get("name").PgText(),
				Email:      rec.Get("email").PgText(),
				SignupDate: rec.Get("signup_date").PgDate(),
				City:       rec.Get("city").PgText(),
				State:      rec.Get("state").PgText(),
				Country:    rec.Get("country").PgText(),
				Dob:        rec.Get("dob").PgDate(),
				Gender:     rec.Get("gender").PgText(),
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any, upsert bool) error {
			p := params.(db.InsertCustomerParams)
			if upsert {
				return db.New(dbtx).UpsertCustomer(ctx, p)
			}
			return db.New(dbtx).InsertCustomer(ctx, p)
		},
		Reset: func(ctx context.Context, dbtx core.DBTX) error {
			return db.New(dbtx).ResetCustomers(ctx)
		},
	})
}
