package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/formbucket/formbucket/internal/apitest"
	"github.com/formbucket/formbucket/model"
)

var demoMessages = []string{
	"Hi, I'd like a quote.",
	"Is the form working?",
	"CHEAP PILLS click here",
	"Please call me back.",
}

// StartMockAPI serves a fake FormBucket API with two buckets. A new
// submission arrives every 5-15 seconds; roughly one in four is spam.
// Call this in a goroutine before creating the App.
func StartMockAPI(addr string) {
	fake := apitest.New(slog.Default())
	contact := fake.AddBucket(model.Bucket{Name: "Contact", Enabled: true, EmailTo: []string{"owner@example.com"}, EmailNotifications: true})
	fake.AddBucket(model.Bucket{Name: "Newsletter", Enabled: true})

	go func() {
		for i := 1; ; i++ {
			time.Sleep(time.Duration(5+rand.Intn(11)) * time.Second)
			msg := demoMessages[rand.Intn(len(demoMessages))]
			sub := fake.AddSubmission(model.Submission{
				BucketID: contact.ID,
				Spam:     msg == demoMessages[2],
				Data: map[string]any{
					"email":   fmt.Sprintf("visitor%d@example.com", i),
					"message": msg,
				},
			})
			fake.AddLog(model.LogEntry{BucketID: contact.ID, Type: "submission", Message: "received " + sub.ID})
			slog.Info("submission received", "bucket_id", contact.ID, "submission_id", sub.ID, "spam", sub.Spam)
		}
	}()

	if err := http.ListenAndServe(addr, fake.Handler()); err != nil {
		slog.Error("mock api stopped", "error", err)
	}
}
