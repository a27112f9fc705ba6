// Command synth generates users, products and purchase transactions for a
// fictitious supplement store by prompting an OpenAI-compatible endpoint,
// then writes the tables as CSV into the configured output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	supplegen "github.com/Paranoid-AF/supplegen"
	"github.com/Paranoid-AF/supplegen/generate"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("verbose", false, "log prompts and per-record diagnostics")
	flag.Parse()

	if *showVersion {
		fmt.Println("synth", Version)
		os.Exit(0)
	}

	runID := uuid.NewString()
	slog.SetDefault(supplegen.NewLogger(os.Stderr, *verbose).With("run_id", runID))

	cfg, err := supplegen.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "path", supplegen.ConfigPath(), "error", err)
		os.Exit(1)
	}
	for _, w := range supplegen.ValidateConfig(cfg) {
		slog.Warn("config warning", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := generate.NewClientFromConfig(cfg.Generation)

	slog.Info("starting",
		"base_url", client.BaseURL(),
		"model", client.Model(),
		"users", cfg.Run.Users,
		"products", cfg.Run.Products,
		"transactions", cfg.Run.Transactions,
	)

	report, err := run(ctx, runID, cfg, client)
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	for _, t := range report.Tables {
		slog.Info("wrote table", "kind", t.Kind, "records", t.Records, "requested", t.Requested, "failed_batches", t.FailedBatches)
	}
	if ctx.Err() != nil {
		slog.Warn("run interrupted; tables are partial")
		os.Exit(130)
	}
}
