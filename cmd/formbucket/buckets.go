package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/formbucket/formbucket"
	"github.com/formbucket/formbucket/model"
)

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Manage buckets",
}

var bucketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your buckets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *formbucket.App) error {
			if err := app.LoadBuckets(cmd.Context()); err != nil {
				return err
			}
			return printOutput(cmd, app.State().Buckets)
		})
	},
}

var bucketsShowCmd = &cobra.Command{
	Use:   "show <bucket-id>",
	Short: "Show one bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *formbucket.App) error {
			if err := app.LoadBucket(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printOutput(cmd, app.State().SavedBucket)
		})
	},
}

var bucketsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a bucket",
	Long: `Create a bucket and print it with its new id.

Example:
  formbucket buckets create --name Contact --email-to me@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		emailTo, _ := flags.GetStringSlice("email-to")
		redirect, _ := flags.GetString("redirect-url")
		webhook, _ := flags.GetString("webhook-url")
		required, _ := flags.GetStringSlice("required")
		disabled, _ := flags.GetBool("disabled")

		bucket := model.Bucket{
			Name:               name,
			Enabled:            !disabled,
			EmailTo:            emailTo,
			EmailNotifications: len(emailTo) > 0,
			RedirectURL:        redirect,
			WebhookURL:         webhook,
			RequiredFields:     required,
		}

		return withApp(cmd, func(app *formbucket.App) error {
			created, err := app.CreateBucket(cmd.Context(), bucket)
			if err != nil {
				return err
			}
			return printOutput(cmd, created)
		})
	},
}

var bucketsUpdateCmd = &cobra.Command{
	Use:   "update <bucket-id>",
	Short: "Change bucket settings",
	Long: `Load a bucket, apply the given changes and save it.

Only flags that are passed change the bucket.

Example:
  formbucket buckets update abc123 --name "Contact form" --enabled=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes := bucketChangesFromFlags(cmd)

		return withApp(cmd, func(app *formbucket.App) error {
			ctx := cmd.Context()
			if err := app.LoadBucket(ctx, args[0]); err != nil {
				return err
			}
			app.ChangeBucket(changes)
			if err := app.SaveBucket(ctx); err != nil {
				return err
			}
			return printOutput(cmd, app.State().SavedBucket)
		})
	},
}

var bucketsDeleteCmd = &cobra.Command{
	Use:   "delete <bucket-id>",
	Short: "Delete a bucket and all its submissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *formbucket.App) error {
			ctx := cmd.Context()
			if err := app.LoadBucket(ctx, args[0]); err != nil {
				return err
			}
			if err := app.DeleteBucket(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted bucket %s\n", args[0])
			return nil
		})
	},
}

var bucketsExportCmd = &cobra.Command{
	Use:   "export <bucket-id>",
	Short: "Export a bucket's submissions",
	Long: `Export a bucket's submissions as CSV or JSON.

The file is written to --out, or to stdout when --out is "-".

Example:
  formbucket buckets export abc123 --format csv --out submissions.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		if format != "csv" && format != "json" {
			return fmt.Errorf("format must be csv or json, got %q", format)
		}

		return withApp(cmd, func(app *formbucket.App) error {
			bucket := model.Bucket{ID: args[0]}
			if outPath == "-" {
				return app.ExportBucket(cmd.Context(), bucket, format, cmd.OutOrStdout())
			}
			return writeFileAtomic(outPath, func(w io.Writer) error {
				return app.ExportBucket(cmd.Context(), bucket, format, w)
			})
		})
	},
}

// bucketChangesFromFlags maps the flags the user actually set onto changes.
func bucketChangesFromFlags(cmd *cobra.Command) model.BucketChanges {
	flags := cmd.Flags()
	var changes model.BucketChanges
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		changes.Name = &v
	}
	if flags.Changed("enabled") {
		v, _ := flags.GetBool("enabled")
		changes.Enabled = &v
	}
	if flags.Changed("email-to") {
		v, _ := flags.GetStringSlice("email-to")
		changes.EmailTo = &v
	}
	if flags.Changed("email-notifications") {
		v, _ := flags.GetBool("email-notifications")
		changes.EmailNotifications = &v
	}
	if flags.Changed("redirect-url") {
		v, _ := flags.GetString("redirect-url")
		changes.RedirectURL = &v
	}
	if flags.Changed("webhook-url") {
		v, _ := flags.GetString("webhook-url")
		changes.WebhookURL = &v
	}
	if flags.Changed("required") {
		v, _ := flags.GetStringSlice("required")
		changes.RequiredFields = &v
	}
	return changes
}

// writeFileAtomic runs write against a temp file next to path and renames it
// into place only on success. On failure path is left untouched.
func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = write(f); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// withApp builds an App for cmd, runs fn and closes the App.
func withApp(cmd *cobra.Command, fn func(app *formbucket.App) error) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func init() {
	rootCmd.AddCommand(bucketsCmd)
	bucketsCmd.AddCommand(bucketsListCmd, bucketsShowCmd, bucketsCreateCmd, bucketsUpdateCmd, bucketsDeleteCmd, bucketsExportCmd)

	bucketsCreateCmd.Flags().String("name", "", "bucket name (required)")
	bucketsCreateCmd.Flags().StringSlice("email-to", nil, "notification recipients")
	bucketsCreateCmd.Flags().String("redirect-url", "", "page to redirect to after a submission")
	bucketsCreateCmd.Flags().String("webhook-url", "", "URL notified of each submission")
	bucketsCreateCmd.Flags().StringSlice("required", nil, "required form fields")
	bucketsCreateCmd.Flags().Bool("disabled", false, "create the bucket disabled")
	_ = bucketsCreateCmd.MarkFlagRequired("name")

	bucketsUpdateCmd.Flags().String("name", "", "bucket name")
	bucketsUpdateCmd.Flags().Bool("enabled", true, "accept submissions")
	bucketsUpdateCmd.Flags().StringSlice("email-to", nil, "notification recipients")
	bucketsUpdateCmd.Flags().Bool("email-notifications", false, "email each submission")
	bucketsUpdateCmd.Flags().String("redirect-url", "", "page to redirect to after a submission")
	bucketsUpdateCmd.Flags().String("webhook-url", "", "URL notified of each submission")
	bucketsUpdateCmd.Flags().StringSlice("required", nil, "required form fields")

	bucketsExportCmd.Flags().String("format", "csv", "export format: csv or json")
	bucketsExportCmd.Flags().String("out", "-", `output file ("-" for stdout)`)
}
