// Command ping checks connectivity to the configured inference endpoint by
// sending a single greeting and printing the reply.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	supplegen "github.com/Paranoid-AF/supplegen"
	"github.com/Paranoid-AF/supplegen/generate"
)

const greeting = "Hello, how are you?"

func main() {
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	slog.SetDefault(supplegen.NewLogger(os.Stderr, *verbose))

	cfg, err := supplegen.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "path", supplegen.ConfigPath(), "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := generate.NewClientFromConfig(cfg.Generation)
	fmt.Println(client.BaseURL())

	reply, err := ping(ctx, client)
	if err != nil {
		slog.Error("endpoint unreachable", "base_url", client.BaseURL(), "error", err)
		os.Exit(1)
	}
	fmt.Println(reply)
}

// ping sends the greeting with endpoint-default sampling settings.
func ping(ctx context.Context, c generate.Completer) (string, error) {
	return c.Complete(ctx, greeting, generate.Options{})
}
