package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func registerPipelineTables(t *testing.T) {
	t.Helper()
	Clear()
	t.Cleanup(Clear)

	Register(TableDefinition{
		Info: TableInfo{Key: EntityCustomers, FileName: "customers.csv"},
		FieldSpecs: []FieldSpec{
			{Name: "customer_id", Type: FieldText, Required: true},
			{Name: "name", Type: FieldText},
			{Name: "email", Type: FieldText},
			{Name: "gender", Type: FieldText},
		},
		BuildParams: func(rec Record) (any, error) {
			if !rec.Has("customer_id") {
				return nil, ValidationError{Field: "customer_id", Message: "required field is empty"}
			}
			return rec, nil
		},
		Insert: func(context.Context, DBTX, any, bool) error { return nil },
	})
	Register(TableDefinition{
		Info: TableInfo{Key: EntityOrders, FileName: "orders.csv"},
		FieldSpecs: []FieldSpec{
			{Name: "order_id", Type: FieldText, Required: true},
			{Name: "payment_method", Type: FieldText},
			{Name: "order_status", Type: FieldText},
		},
		BuildParams: func(rec Record) (any, error) { return rec, nil },
		Insert:      func(context.Context, DBTX, any, bool) error { return nil },
	})
}

func TestPipeline_Clean(t *testing.T) {
	registerPipelineTables(t)
	def, _ := Get(EntityCustomers)

	p := NewPipeline(&fakeBeginner{}, PipelineConfig{DayFirst: true, Rules: DefaultRulesConfig()})
	rows := p.Clean(def, []SourceRow{{
		LineNumber: 2,
		Raw:        RawRecord{"customer_id": " 7 ", "name": " ", "email": " Bob@Shop.io ", "gender": "MALE"},
	}})

	rec := rows[0].Record
	if rec.Text("customer_id") != "7" {
		t.Errorf("customer_id = %q", rec.Text("customer_id"))
	}
	if rec.Text("name") != "bob" {
		t.Errorf("name = %q, want derived from email", rec.Text("name"))
	}
	if rec.Text("gender") != "M" {
		t.Errorf("gender = %q", rec.Text("gender"))
	}
	if rows[0].LineNumber != 2 {
		t.Errorf("line = %d", rows[0].LineNumber)
	}
}

func TestPipeline_Run(t *testing.T) {
	registerPipelineTables(t)
	db := &fakeBeginner{}
	p := NewPipeline(db, PipelineConfig{Rules: DefaultRulesConfig()})

	result := p.Run(context.Background(), []Source{
		{Entity: EntityOrders, FileName: "orders.csv", Rows: []SourceRow{
			{LineNumber: 2, Raw: RawRecord{"order_id": "O1", "payment_method": "COD"}},
		}},
		{Entity: EntityCustomers, FileName: "customers.csv", Err: errors.New("open customers.csv: no such file or directory")},
		{Entity: EntityProducts, FileName: "products.csv"},
	})

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if len(result.Tables) != 3 {
		t.Fatalf("Tables = %d, want 3", len(result.Tables))
	}
	// Load order: customers, products, orders.
	if result.Tables[0].Entity != EntityCustomers || result.Tables[0].Error == "" {
		t.Errorf("customers result = %+v, want read error", result.Tables[0])
	}
	if result.Tables[1].Entity != EntityProducts || result.Tables[1].Error == "" {
		t.Errorf("products result = %+v, want unknown table error", result.Tables[1])
	}
	if result.Tables[2].Entity != EntityOrders || result.Tables[2].Inserted != 1 {
		t.Errorf("orders result = %+v, want 1 inserted", result.Tables[2])
	}
	if result.Inserted() != 1 {
		t.Errorf("Inserted() = %d, want 1", result.Inserted())
	}
}

func TestPipeline_RunDir(t *testing.T) {
	registerPipelineTables(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "customers.csv"),
		[]byte("customer_id,name,email,gender\nC1,Ann,ann@x.io,F\n,NoID,,\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(&fakeBeginner{}, PipelineConfig{Rules: DefaultRulesConfig()})
	result := p.RunDir(context.Background(), dir)

	if len(result.Tables) != 2 {
		t.Fatalf("Tables = %d, want 2", len(result.Tables))
	}
	customers := result.Tables[0]
	if customers.Inserted != 1 || len(customers.FailedRows) != 1 {
		t.Errorf("customers = inserted %d, failed %d; want 1, 1", customers.Inserted, len(customers.FailedRows))
	}
	if customers.FailedRows[0].LineNumber != 3 {
		t.Errorf("failed line = %d, want 3", customers.FailedRows[0].LineNumber)
	}
	if orders := result.Tables[1]; MapError(errors.New(orders.Error)).Code != "FILE001" {
		t.Errorf("orders error = %q, want missing file", orders.Error)
	}
	if got := len(result.Rejected()); got != 1 {
		t.Errorf("Rejected() = %d, want 1", got)
	}
}

func TestReset_ChildrenFirst(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	var order []Entity
	for _, e := range LoadOrder {
		e := e
		Register(TableDefinition{
			Info: TableInfo{Key: e},
			Reset: func(context.Context, DBTX) error {
				order = append(order, e)
				return nil
			},
		})
	}

	if err := Reset(context.Background(), nil); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	want := []Entity{EntityReviews, EntityOrderItems, EntityOrders, EntityProducts, EntityCustomers}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("reset order = %v, want %v", order, want)
		}
	}
}
