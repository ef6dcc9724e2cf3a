package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formbucket/formbucket"
	"github.com/formbucket/formbucket/model"
)

var submissionsCmd = &cobra.Command{
	Use:     "submissions",
	Aliases: []string{"subs"},
	Short:   "List and triage a bucket's submissions",
}

// submissionList is the printed result of "submissions list".
type submissionList struct {
	Total        *int               `json:"total"`
	TotalSpam    *int               `json:"totalSpam"`
	TotalDeleted *int               `json:"totalDeleted"`
	Items        []model.Submission `json:"items"`
}

var submissionsListCmd = &cobra.Command{
	Use:   "list <bucket-id>",
	Short: "List one page of submissions",
	Long: `List one page of a bucket's submissions with inbox, spam and trash counts.

Example:
  formbucket submissions list abc123 --type spam --limit 20
  formbucket submissions list abc123 --select email,message --q hello`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		offset, _ := flags.GetInt("offset")
		limit, _ := flags.GetInt("limit")
		sel, _ := flags.GetString("select")
		query, _ := flags.GetString("q")
		typ, _ := flags.GetString("type")

		switch model.SubmissionType(typ) {
		case model.SubmissionsInbox, model.SubmissionsSpam, model.SubmissionsDeleted:
		default:
			return fmt.Errorf("type must be %s, %s or %s, got %q",
				model.SubmissionsInbox, model.SubmissionsSpam, model.SubmissionsDeleted, typ)
		}

		params := model.SubmissionParams{
			BucketID: args[0],
			Offset:   offset,
			Limit:    limit,
			Select:   sel,
			Query:    query,
			Type:     model.SubmissionType(typ),
		}

		return withApp(cmd, func(app *formbucket.App) error {
			if err := app.LoadSubmissions(cmd.Context(), params); err != nil {
				return err
			}
			s := app.State()
			return printOutput(cmd, submissionList{
				Total:        s.Total,
				TotalSpam:    s.TotalSpam,
				TotalDeleted: s.TotalDeleted,
				Items:        s.Submissions,
			})
		})
	},
}

// newFlagCmd builds a command that sets spam/deleted flags on submissions.
func newFlagCmd(use, short string, flags model.SubmissionFlags) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <bucket-id> <submission-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucketID, ids := args[0], args[1:]
			return withApp(cmd, func(app *formbucket.App) error {
				if err := app.UpdateSubmissionsIn(cmd.Context(), bucketID, ids, flags); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %d submission(s)\n", len(ids))
				return nil
			})
		},
	}
}

var submissionsDestroyCmd = &cobra.Command{
	Use:   "destroy <bucket-id> <submission-id>...",
	Short: "Permanently delete submissions",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucketID, ids := args[0], args[1:]
		return withApp(cmd, func(app *formbucket.App) error {
			if err := app.DestroySubmissionsIn(cmd.Context(), bucketID, ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "destroyed %d submission(s)\n", len(ids))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(submissionsCmd)
	submissionsCmd.AddCommand(
		submissionsListCmd,
		newFlagCmd("spam", "Mark submissions as spam", model.SubmissionFlags{Spam: true}),
		newFlagCmd("ham", "Mark submissions as not spam", model.SubmissionFlags{}),
		newFlagCmd("trash", "Move submissions to the trash", model.SubmissionFlags{Deleted: true}),
		newFlagCmd("restore", "Move submissions back to the inbox", model.SubmissionFlags{}),
		submissionsDestroyCmd,
	)

	f := submissionsListCmd.Flags()
	f.Int("offset", 0, "index of the first submission")
	f.Int("limit", 50, "page size")
	f.String("select", "", "comma-separated fields to return")
	f.String("q", "", "full-text search")
	f.String("type", string(model.SubmissionsInbox), "inbox, spam or deleted")
}
