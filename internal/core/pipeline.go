package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// PipelineConfig holds the settings of every pipeline stage.
type PipelineConfig struct {
	NullSentinels []string // nil uses DefaultNullSentinels
	DayFirst      bool
	Rules         RulesConfig
	CSV           CSVOptions
	Upsert        bool
}

// Source is the raw rows read from one entity's file.
type Source struct {
	Entity   Entity
	FileName string
	Rows     []SourceRow
	Err      error // Set when the file could not be read
}

// Pipeline runs read, normalize, rules and load in sequence.
type Pipeline struct {
	normalizer *Normalizer
	rules      *Rules
	loader     *Loader
	csv        CSVOptions
	recorder   Recorder
	logger     *slog.Logger
}

// NewPipeline wires the stages together. Loader options (recorder, logger)
// apply to the whole pipeline.
func NewPipeline(db TxBeginner, cfg PipelineConfig, opts ...LoaderOption) *Pipeline {
	loader := NewLoader(db, append([]LoaderOption{WithUpsert(cfg.Upsert)}, opts...)...)
	return &Pipeline{
		normalizer: NewNormalizer(cfg.NullSentinels, cfg.DayFirst),
		rules:      NewRules(cfg.Rules),
		loader:     loader,
		csv:        cfg.CSV,
		recorder:   loader.recorder,
		logger:     loader.logger,
	}
}

// Clean normalizes each row and applies the entity's rules.
func (p *Pipeline) Clean(def TableDefinition, rows []SourceRow) []CleanRow {
	out := make([]CleanRow, len(rows))
	for i, row := range rows {
		rec := p.normalizer.Normalize(def.FieldSpecs, row.Raw)
		out[i] = CleanRow{
			LineNumber: row.LineNumber,
			Record:     p.rules.Apply(def.Info.Key, rec),
			Data:       row.Data,
		}
	}
	p.recorder.RowsRead(def.Info.Key, len(rows))
	return out
}

// ReadDir reads every registered table's file from dir.
// A missing or unreadable file is reported on its Source, not returned.
func (p *Pipeline) ReadDir(dir string) []Source {
	defs := All()
	sources := make([]Source, 0, len(defs))
	for _, def := range defs {
		rows, err := ReadCSVFile(filepath.Join(dir, def.Info.FileName), def, p.csv)
		sources = append(sources, Source{
			Entity:   def.Info.Key,
			FileName: def.Info.FileName,
			Rows:     rows,
			Err:      err,
		})
	}
	return sources
}

// Run cleans and loads the given sources and returns a report.
func (p *Pipeline) Run(ctx context.Context, sources []Source) LoadResult {
	start := time.Now()
	runID := uuid.New().String()
	logger := p.logger.With("run_id", runID)
	logger.Info("pipeline started", "sources", len(sources))

	result := LoadResult{RunID: runID}
	var batches []CleanBatch
	failed := make(map[Entity]TableResult)

	for _, src := range sources {
		def, ok := Get(src.Entity)
		switch {
		case !ok:
			failed[src.Entity] = TableResult{Entity: src.Entity, FileName: src.FileName, Error: "unknown table: " + string(src.Entity)}
		case src.Err != nil:
			failed[src.Entity] = TableResult{Entity: src.Entity, FileName: src.FileName, Error: src.Err.Error()}
			logger.Warn("source skipped", "table", src.Entity, "error", src.Err)
		default:
			batches = append(batches, CleanBatch{
				Entity:   src.Entity,
				FileName: src.FileName,
				Rows:     p.Clean(def, src.Rows),
			})
		}
	}

	loader := *p.loader
	loader.logger = logger
	loaded := loader.Load(ctx, batches)

	// Merge in load order so the report reads top-down like the schema.
	byEntity := make(map[Entity]TableResult, len(loaded)+len(failed))
	for _, r := range loaded {
		byEntity[r.Entity] = r
	}
	for e, r := range failed {
		byEntity[e] = r
	}
	for _, e := range LoadOrder {
		if r, ok := byEntity[e]; ok {
			result.Tables = append(result.Tables, r)
		}
	}

	result.Duration = time.Since(start)
	logger.Info("pipeline finished",
		"inserted", result.Inserted(),
		"rejected", len(result.Rejected()),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result
}

// RunDir reads dir and runs the pipeline over it.
func (p *Pipeline) RunDir(ctx context.Context, dir string) LoadResult {
	return p.Run(ctx, p.ReadDir(dir))
}

// Reset deletes every row from every registered table, children first.
func Reset(ctx context.Context, db DBTX) error {
	defs := All()
	for i := len(defs) - 1; i >= 0; i-- {
		if defs[i].Reset == nil {
			continue
		}
		if err := defs[i].Reset(ctx, db); err != nil {
			return fmt.Errorf("reset %s: %w", defs[i].Info.Key, err)
		}
	}
	return nil
}
