// Package generate drives a language model to synthesize supplement-store
// tables one batch at a time.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	supplegen "github.com/Paranoid-AF/supplegen"
)

// ErrEmptyPool is reported when a dependent table has no identifiers to
// reference.
var ErrEmptyPool = errors.New("empty candidate pool")

// Stats summarizes the generation of one table.
type Stats struct {
	Kind          supplegen.Kind
	Requested     int
	Batches       int
	FailedBatches int
	Records       int
	// Dropped counts records rejected by the candidate-set filter.
	Dropped int
	// Skipped counts array elements that were not JSON objects.
	Skipped int
	// Duplicates counts identifiers already emitted earlier in the run.
	Duplicates  int
	Interrupted bool
	Elapsed     time.Duration
}

// Result is a generated table and how it was produced.
type Result struct {
	Table *supplegen.Table
	Stats Stats
}

// Engine issues batched generation requests and accumulates the parsed rows.
type Engine struct {
	completer  Completer
	prompts    *Prompts
	sampler    *Sampler
	tracker    *IDTracker
	batchSize  int
	generation supplegen.GenerationConfig
}

// NewEngine creates an engine that sends prompts through completer.
func NewEngine(completer Completer, cfg *supplegen.Config) *Engine {
	return &Engine{
		completer:  completer,
		prompts:    LoadPrompts(supplegen.PromptDir(cfg)),
		sampler:    NewSampler(cfg.Run.Seed),
		tracker:    NewIDTracker(cfg.Run.TrackCapacity),
		batchSize:  cfg.Run.BatchSize,
		generation: cfg.Generation,
	}
}

// GenerateUsers requests n users.
func (e *Engine) GenerateUsers(ctx context.Context, n int) *Result {
	return e.run(ctx, supplegen.KindUsers, n, func(b Batch) (PromptData, recordFilter) {
		return PromptData{Count: b.Size, Next: b.Next()}, nil
	})
}

// GenerateProducts requests n products.
func (e *Engine) GenerateProducts(ctx context.Context, n int) *Result {
	return e.run(ctx, supplegen.KindProducts, n, func(b Batch) (PromptData, recordFilter) {
		return PromptData{Count: b.Size, Next: b.Next(), MaxIngredients: supplegen.MaxIngredients}, nil
	})
}

// GenerateTransactions requests n transactions between the given users and
// products. Each batch is offered a fresh sample of at most batch-size user
// and product identifiers, and only records referencing that sample are kept.
func (e *Engine) GenerateTransactions(ctx context.Context, users, products *supplegen.Table, n int) *Result {
	userPool := users.IDs(supplegen.FieldUserID)
	productPool := products.IDs(supplegen.FieldProductID)
	if n > 0 && (len(userPool) == 0 || len(productPool) == 0) {
		slog.Warn("skipping transactions",
			"error", ErrEmptyPool,
			"users", len(userPool),
			"products", len(productPool),
		)
		return &Result{
			Table: supplegen.NewTable(supplegen.KindTransactions),
			Stats: Stats{Kind: supplegen.KindTransactions, Requested: n},
		}
	}

	return e.run(ctx, supplegen.KindTransactions, n, func(b Batch) (PromptData, recordFilter) {
		sampleUsers := e.sampler.Sample(userPool, e.batchSize)
		sampleProducts := e.sampler.Sample(productPool, e.batchSize)
		data := PromptData{
			Count:      b.Size,
			Next:       b.Next(),
			UserIDs:    sampleUsers,
			ProductIDs: sampleProducts,
		}
		return data, candidateFilter(sampleUsers, sampleProducts)
	})
}

// recordFilter reports whether a parsed record is kept.
type recordFilter func(supplegen.Record) bool

// candidateFilter keeps records whose user_id and product_id are both in
// the offered candidate sets.
func candidateFilter(userIDs, productIDs []string) recordFilter {
	users := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		users[id] = true
	}
	products := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		products[id] = true
	}
	return func(r supplegen.Record) bool {
		userID, ok := r.String(supplegen.FieldUserID)
		if !ok || !users[userID] {
			return false
		}
		productID, ok := r.String(supplegen.FieldProductID)
		return ok && products[productID]
	}
}

// idFields names the identifier field checked for repeats per kind.
var idFields = map[supplegen.Kind]string{
	supplegen.KindUsers:    supplegen.FieldUserID,
	supplegen.KindProducts: supplegen.FieldProductID,
}

// run generates total records of kind in sequential batches. prepare builds
// each batch's prompt data and optional filter.
func (e *Engine) run(ctx context.Context, kind supplegen.Kind, total int, prepare func(Batch) (PromptData, recordFilter)) *Result {
	start := time.Now()
	res := &Result{
		Table: supplegen.NewTable(kind),
		Stats: Stats{Kind: kind, Requested: total},
	}

	for _, b := range PlanBatches(total, e.batchSize) {
		if ctx.Err() != nil {
			slog.Warn("generation interrupted", "kind", kind, "batch", b.Number(), "error", ctx.Err())
			res.Stats.Interrupted = true
			break
		}

		data, keep := prepare(b)
		res.Stats.Batches++

		ext, err := e.generateBatch(ctx, kind, data)
		if err != nil {
			res.Stats.FailedBatches++
			slog.Error("batch failed", "kind", kind, "batch", b.Number(), "error", err)
			continue
		}

		accepted := ext.Records
		if keep != nil {
			accepted = make([]supplegen.Record, 0, len(ext.Records))
			for _, rec := range ext.Records {
				if keep(rec) {
					accepted = append(accepted, rec)
				}
			}
		}
		dropped := len(ext.Records) - len(accepted)

		res.Stats.Dropped += dropped
		res.Stats.Skipped += ext.Skipped
		res.Stats.Duplicates += e.observe(kind, accepted)
		res.Table.Append(accepted...)

		slog.Info("generated batch",
			"kind", kind,
			"batch", b.Number(),
			"records", len(accepted),
			"dropped", dropped,
			"strategy", ext.Strategy,
		)
	}

	res.Stats.Records = res.Table.Len()
	res.Stats.Elapsed = time.Since(start)
	return res
}

// generateBatch sends one prompt and parses the reply.
func (e *Engine) generateBatch(ctx context.Context, kind supplegen.Kind, data PromptData) (*Extraction, error) {
	prompt, err := e.prompts.Render(kind, data)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	slog.Debug("prompt", "kind", kind, "prompt", prompt)

	output, err := e.completer.Complete(ctx, prompt, Options{
		MaxTokens:   e.generation.MaxTokensFor(kind),
		Temperature: e.generation.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}

	ext, err := ExtractRecords(output)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return ext, nil
}

// observe feeds record identifiers to the tracker and returns the number of
// repeats. Repeats are kept in the table.
func (e *Engine) observe(kind supplegen.Kind, records []supplegen.Record) int {
	field, ok := idFields[kind]
	if !ok {
		return 0
	}
	dups := 0
	for _, rec := range records {
		id, ok := rec.String(field)
		if !ok {
			continue
		}
		if e.tracker.Observe(string(kind), id) {
			dups++
			slog.Debug("duplicate identifier", "kind", kind, "id", id)
		}
	}
	return dups
}
