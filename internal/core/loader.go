package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ContextCheckInterval is how often (in rows) the loader checks for cancellation.
var ContextCheckInterval = 100

// Postgres SQLSTATE codes the loader classifies per row.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// CleanRow is a record that has passed normalization and rules.
type CleanRow struct {
	LineNumber int
	Record     Record
	Data       []string
}

// CleanBatch is every cleaned row of one entity.
type CleanBatch struct {
	Entity   Entity
	FileName string
	Rows     []CleanRow
}

// Recorder receives per-row load outcomes. Implemented by the metrics package.
type Recorder interface {
	RowsRead(entity Entity, n int)
	RowLoaded(entity Entity)
	RowRejected(entity Entity, kind FailureKind)
}

type nopRecorder struct{}

func (nopRecorder) RowsRead(Entity, int)            {}
func (nopRecorder) RowLoaded(Entity)                {}
func (nopRecorder) RowRejected(Entity, FailureKind) {}

// Loader persists cleaned batches. Each entity batch runs in one transaction
// with a savepoint per row so a failing row is rolled back and reported
// without aborting the rest of the batch.
type Loader struct {
	db       TxBeginner
	upsert   bool
	recorder Recorder
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithUpsert overwrites rows with an existing primary key instead of rejecting them.
func WithUpsert(upsert bool) LoaderOption {
	return func(l *Loader) { l.upsert = upsert }
}

// WithRecorder reports row outcomes to r.
func WithRecorder(r Recorder) LoaderOption {
	return func(l *Loader) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader writing through db.
func NewLoader(db TxBeginner, opts ...LoaderOption) *Loader {
	l := &Loader{
		db:       db,
		recorder: nopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load inserts every batch in foreign-key order (customers and products,
// then orders, then order items and reviews). Batches for unregistered
// entities are reported as errors and skipped.
func (l *Loader) Load(ctx context.Context, batches []CleanBatch) []TableResult {
	byEntity := make(map[Entity]CleanBatch, len(batches))
	for _, b := range batches {
		byEntity[b.Entity] = b
	}

	var results []TableResult
	for _, entity := range LoadOrder {
		batch, ok := byEntity[entity]
		if !ok {
			continue
		}
		def, ok := Get(entity)
		if !ok {
			results = append(results, TableResult{
				Entity:   entity,
				FileName: batch.FileName,
				Error:    fmt.Sprintf("unknown table: %s", entity),
			})
			continue
		}
		results = append(results, l.LoadTable(ctx, def, batch))
	}
	return results
}

// LoadTable inserts one entity batch.
func (l *Loader) LoadTable(ctx context.Context, def TableDefinition, batch CleanBatch) TableResult {
	start := time.Now()
	logger := l.logger.With("table", string(def.Info.Key), "file", batch.FileName)

	result := TableResult{
		Entity:    def.Info.Key,
		FileName:  batch.FileName,
		TotalRows: len(batch.Rows),
	}

	fail := func(format string, args ...any) TableResult {
		result.Error = fmt.Sprintf(format, args...)
		result.Inserted = 0
		result.Duration = time.Since(start)
		logger.Error("table load aborted", "error", result.Error)
		return result
	}

	if len(batch.Rows) == 0 {
		result.Duration = time.Since(start)
		return result
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fail("begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reject := func(row CleanRow, err error) {
		kind := ClassifyError(err)
		result.FailedRows = append(result.FailedRows, FailedRow{
			Entity:     def.Info.Key,
			FileName:   batch.FileName,
			LineNumber: row.LineNumber,
			Kind:       kind,
			Reason:     err.Error(),
			Code:       MapError(err).Code,
			Data:       row.Data,
		})
		l.recorder.RowRejected(def.Info.Key, kind)
		logger.Debug("row rejected", "line", row.LineNumber, "kind", kind, "error", err)
	}

	for i, row := range batch.Rows {
		if i%ContextCheckInterval == 0 && ctx.Err() != nil {
			return fail("cancelled: %v", ctx.Err())
		}

		params, err := def.BuildParams(row.Record)
		if err != nil {
			reject(row, err)
			continue
		}

		savepoint := fmt.Sprintf("sp_%d", i)
		if _, err := tx.Exec(ctx, "SAVEPOINT "+savepoint); err != nil {
			return fail("create savepoint: %v", err)
		}

		if err := def.Insert(ctx, tx, params, l.upsert); err != nil {
			if _, rbErr := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rbErr != nil {
				return fail("rollback savepoint: %v", rbErr)
			}
			reject(row, err)
			continue
		}

		if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
			return fail("release savepoint: %v", err)
		}

		result.Inserted++
		l.recorder.RowLoaded(def.Info.Key)
	}

	if err := tx.Commit(ctx); err != nil {
		return fail("commit: %v", err)
	}

	result.Skipped = len(result.FailedRows)
	result.Duration = time.Since(start)
	logger.Info("table loaded",
		"rows", result.TotalRows,
		"inserted", result.Inserted,
		"rejected", result.Skipped,
	)
	return result
}

// ClassifyError maps a row error onto a FailureKind.
func ClassifyError(err error) FailureKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return FailureReferential
		case pgUniqueViolation:
			return FailureDuplicate
		case pgCheckViolation, pgNotNullViolation:
			return FailureConstraint
		}
		// Class 22: data exceptions (bad numeric, value too long)
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "22" {
			return FailureConstraint
		}
		return FailureStore
	}

	var ve ValidationError
	var ves ValidationErrors
	if errors.As(err, &ve) || errors.As(err, &ves) {
		return FailureValidation
	}
	return FailureStore
}
