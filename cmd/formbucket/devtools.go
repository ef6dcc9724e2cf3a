package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/formbucket/formbucket"
)

const shutdownTimeout = 10 * time.Second

// devtoolsCmd serves the state inspector over a live App.
var devtoolsCmd = &cobra.Command{
	Use:   "devtools",
	Short: "Serve the state inspector",
	Long: `Start an App, load your profile and buckets, and serve the state inspector.

The inspector shows the current state at /api/state and streams every change
at /api/sse. With --refresh, buckets are reloaded periodically so changes made
elsewhere show up.

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  formbucket devtools -c formbucket.yaml --port 8090 --refresh 30s`,
	Args: cobra.NoArgs,
	RunE: runDevtools,
}

func init() {
	rootCmd.AddCommand(devtoolsCmd)

	devtoolsCmd.Flags().Int("port", 0, "inspector port (defaults to devtools.port from config)")
	devtoolsCmd.Flags().Duration("refresh", 0, "reload buckets at this interval (0 disables)")
}

func runDevtools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.Devtools.Port
	}
	refresh, _ := cmd.Flags().GetDuration("refresh")

	app, err := newApp(cmd, formbucket.WithDevtools(port))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := newLogger(cmd)

	if err := app.StartDevtools(ctx); err != nil {
		app.Close()
		return err
	}

	app.Go(ctx, "load profile", app.LoadProfile)
	app.Go(ctx, "load buckets", app.LoadBuckets)

	if refresh > 0 {
		ticker := time.NewTicker(refresh)
		defer ticker.Stop()
	loop:
		for {
			select {
			case <-ticker.C:
				app.Go(ctx, "load buckets", app.LoadBuckets)
			case <-ctx.Done():
				break loop
			}
		}
	} else {
		<-ctx.Done()
	}

	// wait for in-flight actions, bounded so a hung request cannot block exit
	done := make(chan struct{})
	go func() {
		app.Close()
		close(done)
	}()
	select {
	case <-done:
		logger.Info("shutdown complete")
	case <-time.After(shutdownTimeout):
		logger.Warn("shutdown timed out",
			"timeout", shutdownTimeout.String(),
			"action", "forcing exit",
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "devtools stopped")
	return nil
}
