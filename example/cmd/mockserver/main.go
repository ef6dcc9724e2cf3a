// Standalone fake FormBucket API for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/formbucket buckets list -c example/formbucket.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/formbucket/formbucket/internal/apitest"
	"github.com/formbucket/formbucket/model"
)

func main() {
	addr := flag.String("addr", ":9999", "listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fake := apitest.New(logger)
	fake.RequireToken("demo-token")

	contact := fake.AddBucket(model.Bucket{ID: "contact", Name: "Contact", Enabled: true})
	fake.AddBucket(model.Bucket{ID: "newsletter", Name: "Newsletter", Enabled: true})
	for i, msg := range []string{"Hello!", "Please call me back.", "CHEAP PILLS"} {
		fake.AddSubmission(model.Submission{
			BucketID: contact.ID,
			Spam:     i == 2,
			Data:     map[string]any{"email": fmt.Sprintf("visitor%d@example.com", i+1), "message": msg},
		})
	}
	fake.AddLog(model.LogEntry{BucketID: contact.ID, Type: "webhook", Message: "delivered"})
	fake.AddNotification(model.Notification{BucketID: contact.ID, MailID: "m1", To: []string{"owner@example.com"}, Subject: "New submission", Status: "sent"})

	fmt.Printf("Mock FormBucket API listening on %s (token: demo-token)\n", *addr)
	fmt.Println("Press Ctrl+C to stop")

	if err := http.ListenAndServe(*addr, fake.Handler()); err != nil {
		logger.Error("mock api stopped", "error", err)
		os.Exit(1)
	}
}
