package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText    FieldType = iota // Free text, trimmed only
	FieldID                       // Identifier; spreadsheet quoting stripped
	FieldEnum                     // Fixed vocabulary, canonical case
	FieldDate
	FieldNumeric
)

// FieldSpec defines normalization rules for a single CSV column.
type FieldSpec struct {
	Name       string              // Column header name (matched case-insensitively)
	Type       FieldType           // Expected data type
	Required   bool                // Column must exist in CSV header
	EnumValues []string            // Valid values for FieldEnum type
	Normalizer func(string) string // Optional transformation applied to present values
}

// Entity identifies one of the five source tables.
type Entity string

const (
	EntityCustomers  Entity = "customers"
	EntityProducts   Entity = "products"
	EntityOrders     Entity = "orders"
	EntityOrderItems Entity = "order_items"
	EntityReviews    Entity = "reviews"
)

// LoadOrder lists entities so that every foreign key target is loaded first.
var LoadOrder = []Entity{
	EntityCustomers,
	EntityProducts,
	EntityOrders,
	EntityOrderItems,
	EntityReviews,
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key      Entity   // Table name and registry key
	Label    string   // Display name: "Order Items"
	FileName string   // Source file in the input directory: "order_items.csv"
	Columns  []string // Header column names
	Position int      // Position in LoadOrder
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// BuildParamsFunc builds typed insert parameters from a cleaned record.
type BuildParamsFunc func(rec Record) (any, error)

// InsertFunc inserts a row into the database. When upsert is true an existing
// row with the same primary key is overwritten instead of rejected.
type InsertFunc func(ctx context.Context, db DBTX, params any, upsert bool) error

// ResetFunc deletes all data from a table.
type ResetFunc func(ctx context.Context, db DBTX) error

// TableDefinition contains everything needed to process a table.
type TableDefinition struct {
	Info        TableInfo
	FieldSpecs  []FieldSpec
	BuildParams BuildParamsFunc
	Insert      InsertFunc
	Reset       ResetFunc
}

// RawRecord is one source row keyed by lowercase column name.
// A column that is absent from the map is treated as missing.
type RawRecord map[string]string

// SourceRow is a raw record together with where it came from.
type SourceRow struct {
	LineNumber int
	Raw        RawRecord
	Data       []string
}

// FailureKind classifies why a record was rejected.
type FailureKind string

const (
	FailureValidation  FailureKind = "validation"
	FailureReferential FailureKind = "referential"
	FailureDuplicate   FailureKind = "duplicate"
	FailureConstraint  FailureKind = "constraint"
	FailureStore       FailureKind = "store"
)

// FailedRow contains information about a row that failed to load.
type FailedRow struct {
	Entity     Entity
	FileName   string
	LineNumber int
	Kind       FailureKind
	Reason     string
	Code       string
	Data       []string
}

// TableResult is the outcome of loading one entity batch.
type TableResult struct {
	Entity     Entity
	FileName   string
	TotalRows  int
	Inserted   int
	Skipped    int
	FailedRows []FailedRow
	Duration   time.Duration
	Error      string // Non-empty if the batch could not run at all
}

// LoadResult is the outcome of a full pipeline run.
type LoadResult struct {
	RunID    string
	Tables   []TableResult
	Duration time.Duration
}

// Inserted returns the number of rows inserted across all tables.
func (r LoadResult) Inserted() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Inserted
	}
	return n
}

// Rejected returns all failed rows across all tables, in load order.
func (r LoadResult) Rejected() []FailedRow {
	var out []FailedRow
	for _, t := range r.Tables {
		out = append(out, t.FailedRows...)
	}
	return out
}
