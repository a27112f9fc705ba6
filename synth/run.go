package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	supplegen "github.com/Paranoid-AF/supplegen"
	"github.com/Paranoid-AF/supplegen/export"
	"github.com/Paranoid-AF/supplegen/generate"
)

// run generates all three tables in order, then writes them and the run
// report to the output directory. Only output errors are returned; failed
// batches just shorten the tables.
func run(ctx context.Context, runID string, cfg *supplegen.Config, completer generate.Completer) (*export.Report, error) {
	report := &export.Report{
		RunID:     runID,
		Model:     cfg.Generation.Model,
		BaseURL:   cfg.Generation.BaseURL,
		BatchSize: cfg.Run.BatchSize,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}

	engine := generate.NewEngine(completer, cfg)

	users := engine.GenerateUsers(ctx, cfg.Run.Users)
	products := engine.GenerateProducts(ctx, cfg.Run.Products)
	transactions := engine.GenerateTransactions(ctx, users.Table, products.Table, cfg.Run.Transactions)

	results := []*generate.Result{users, products, transactions}
	tables := make([]*supplegen.Table, len(results))
	for i, res := range results {
		tables[i] = res.Table
		report.Tables = append(report.Tables, export.NewTableReport(res.Stats))
	}

	if _, err := export.WriteTables(cfg.Run.OutputDir, tables...); err != nil {
		return nil, err
	}

	report.FinishedAt = time.Now().UTC().Truncate(time.Second)
	if err := export.WriteReport(filepath.Join(cfg.Run.OutputDir, export.ReportFile), report); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return report, nil
}
