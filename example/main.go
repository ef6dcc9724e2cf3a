package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formbucket/formbucket"
	"github.com/formbucket/formbucket/model"
)

func main() {
	// start mock API (see mock_server.go)
	go StartMockAPI(":9999")
	time.Sleep(100 * time.Millisecond)

	app, err := formbucket.New(
		formbucket.WithBaseURL("http://localhost:9999"),
		formbucket.WithDevtools(8090),
		formbucket.WithNavigator(func(path string) {
			fmt.Println("  -> navigate", path)
		}),
		formbucket.WithAlerter(func(message string) {
			fmt.Println("  !! alert:", message)
		}),
	)
	if err != nil {
		slog.Error("failed to create app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.StartDevtools(ctx); err != nil {
		slog.Error("failed to start devtools", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  FormBucket demo")
	fmt.Println()
	fmt.Println("  State inspector: http://localhost:8090")
	fmt.Println("  Submissions arrive every 5-15 seconds.")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	if err := app.LoadBuckets(ctx); err != nil {
		slog.Error("failed to load buckets", "error", err)
		os.Exit(1)
	}
	contact := app.State().Buckets[0]

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		params := model.SubmissionParams{BucketID: contact.ID, Limit: 20}
		if err := app.LoadSubmissions(ctx, params); err == nil {
			s := app.State()
			fmt.Printf("  %s: %d in inbox, %d spam\n", contact.Name, *s.Total, *s.TotalSpam)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
