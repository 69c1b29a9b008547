// Package core provides the cleaning and loading pipeline for the retail
// extracts.
//
// This package has no transport dependencies. The CLI, the web server and
// tests all drive it the same way.
//
// # Table Registry
//
// Each of the five entities is registered at init time using [Register]. A
// [TableDefinition] carries the field specs, the row builder and the
// insert/reset statements for one table:
//
//	core.Register(TableDefinition{
//	    Info: TableInfo{Key: EntityOrders, Label: "Orders", FileName: "orders.csv"},
//	    FieldSpecs: []FieldSpec{
//	        {Name: "order_id", Required: true, Type: FieldText},
//	        {Name: "total_amount", Type: FieldNumeric},
//	    },
//	    BuildParams: buildOrderParams,
//	    Insert:      insertOrder,
//	})
//
// # Pipeline
//
// A [Pipeline] run moves every source through four stages:
//
//  1. [ReadCSVFile] strips a BOM, sanitizes UTF-8 and locates the header row.
//  2. [Normalizer] turns each cell into a typed [Value]; bad dates and
//     numbers become missing instead of failing the row.
//  3. [Rules] derive business fields (order status, payment method, rating
//     bounds, gender buckets).
//  4. [Loader] inserts entities in [LoadOrder], one transaction per table
//     and one savepoint per row, so a rejected row never aborts its batch.
//
// # Error Handling
//
// Rejected rows are reported as [FailedRow] values classified by
// [FailureKind]. Technical errors map to user-facing messages with
// [MapError]:
//
//   - DB001-DB008: Database errors (duplicates, constraints, connections)
//   - REQ001-REQ005: Request errors (cancelled, timeout, unknown names)
//   - VAL001-VAL006: Validation errors (formats, required fields, ranges)
//   - FILE001-FILE005: File errors (missing, encoding, header)
package core
