package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formbucket/formbucket"
	"github.com/formbucket/formbucket/config"
	"github.com/formbucket/formbucket/model"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *formbucket.App) error {
			if err := app.LoadProfile(cmd.Context()); err != nil {
				return err
			}
			return printOutput(cmd, publicUser(app.State().User))
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your name, email or password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var updates model.UserUpdates
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			updates.Name = &v
		}
		if flags.Changed("email") {
			v, _ := flags.GetString("email")
			updates.Email = &v
		}
		if flags.Changed("password") {
			v, _ := flags.GetString("password")
			updates.Password = &v
		}
		if updates == (model.UserUpdates{}) {
			return errors.New("nothing to update: pass --name, --email or --password")
		}

		return withApp(cmd, func(app *formbucket.App) error {
			user, err := app.UpdateUser(cmd.Context(), updates)
			if err != nil {
				return err
			}
			return printOutput(cmd, publicUser(user))
		})
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Start a paid plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		account, _ := flags.GetString("account")
		paymentToken, _ := flags.GetString("payment-token")
		plan, _ := flags.GetString("plan")

		return withApp(cmd, func(app *formbucket.App) error {
			if err := app.Subscribe(cmd.Context(), account, paymentToken, plan); err != nil {
				return err
			}
			return printOutput(cmd, publicUser(app.State().User))
		})
	},
}

var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe",
	Short: "Cancel your plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		account, _ := cmd.Flags().GetString("account")

		return withApp(cmd, func(app *formbucket.App) error {
			ctx := cmd.Context()
			// load the profile first so the canceled status applies to it
			if err := app.LoadProfile(ctx); err != nil {
				return err
			}
			if account == "" {
				account = app.State().User.AccountID
			}
			if account == "" {
				return errors.New("no account id: pass --account")
			}
			if err := app.CancelSubscription(ctx, account); err != nil {
				return err
			}
			return printOutput(cmd, publicUser(app.State().User))
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <token>",
	Short: "Store a bearer token in the configured token file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.TokenFile == "" {
			return errors.New("token_file is not configured")
		}
		if err := config.WriteToken(cfg.TokenFile, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "token saved to %s\n", cfg.TokenFile)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.TokenFile == "" {
			return errors.New("token_file is not configured")
		}
		if err := config.WriteToken(cfg.TokenFile, ""); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "signed out")
		return nil
	},
}

// publicUser strips the token before printing.
func publicUser(u model.User) model.User {
	u.Token = ""
	return u
}

func init() {
	rootCmd.AddCommand(profileCmd, subscribeCmd, unsubscribeCmd, loginCmd, logoutCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	profileUpdateCmd.Flags().String("name", "", "display name")
	profileUpdateCmd.Flags().String("email", "", "email address")
	profileUpdateCmd.Flags().String("password", "", "new password")

	subscribeCmd.Flags().String("account", "", "account id (required)")
	subscribeCmd.Flags().String("payment-token", "", "token from the payment provider (required)")
	subscribeCmd.Flags().String("plan", "", "plan name (required)")
	_ = subscribeCmd.MarkFlagRequired("account")
	_ = subscribeCmd.MarkFlagRequired("payment-token")
	_ = subscribeCmd.MarkFlagRequired("plan")

	unsubscribeCmd.Flags().String("account", "", "account id (defaults to the profile's)")
}
