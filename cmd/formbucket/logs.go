package main

import (
	"github.com/spf13/cobra"

	"github.com/formbucket/formbucket"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Browse activity logs",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of activity logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		offset, _ := flags.GetInt("offset")
		limit, _ := flags.GetInt("limit")
		bucketID, _ := flags.GetString("bucket")

		return withApp(cmd, func(app *formbucket.App) error {
			if err := app.LoadLogs(cmd.Context(), offset, limit, bucketID); err != nil {
				return err
			}
			return printOutput(cmd, app.State().Logs)
		})
	},
}

var logsShowCmd = &cobra.Command{
	Use:   "show <log-id>",
	Short: "Show one log entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *formbucket.App) error {
			if err := app.LoadLog(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printOutput(cmd, app.State().Log)
		})
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Browse the email notification queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		offset, _ := flags.GetInt("offset")
		limit, _ := flags.GetInt("limit")
		bucketID, _ := flags.GetString("bucket")
		mailID, _ := flags.GetString("mail")

		return withApp(cmd, func(app *formbucket.App) error {
			if err := app.LoadNotifications(cmd.Context(), offset, limit, bucketID, mailID); err != nil {
				return err
			}
			return printOutput(cmd, app.State().Notifications)
		})
	},
}

func init() {
	rootCmd.AddCommand(logsCmd, notificationsCmd)
	logsCmd.AddCommand(logsListCmd, logsShowCmd)

	logsListCmd.Flags().Int("offset", 0, "index of the first entry")
	logsListCmd.Flags().Int("limit", 100, "page size")
	logsListCmd.Flags().String("bucket", "", "only entries for this bucket")

	notificationsCmd.Flags().Int("offset", 0, "index of the first notification")
	notificationsCmd.Flags().Int("limit", 100, "page size")
	notificationsCmd.Flags().String("bucket", "", "only notifications for this bucket")
	notificationsCmd.Flags().String("mail", "", "only this mail id")
}
