package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/zenith/internal/theme"
)

func newSignupCmd(rt *runtime) *cobra.Command {
	var name, email, avatar string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			user, err := rt.app.Tracker.Directory.SignUp(ctx, name, email, avatar)
			if err != nil {
				return err
			}
			if _, err := rt.app.Sessions.SignIn(ctx, user); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render("Welcome, "+user.Name))
			fmt.Fprintln(out(cmd), theme.HelpStyle.Render("id "+user.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL or data URI")
	return cmd
}

func newLoginCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in as a registered user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := rt.app.Tracker.Directory.Lookup(ctx, args[0])
			if err != nil {
				return fmt.Errorf("no account for %s: %w", args[0], err)
			}
			if _, err := rt.app.Sessions.SignIn(ctx, *user); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render("Signed in as "+user.Name))
			return nil
		},
	}
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.app.Sessions.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := rt.app.Sessions.Current(cmd.Context())
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Fprintln(out(cmd), "Not signed in.")
				return nil
			}
			fmt.Fprintf(out(cmd), "%s <%s>\n", sess.User.Name, sess.User.Email)
			if !sess.IssuedAt.IsZero() {
				fmt.Fprintln(out(cmd), theme.HelpStyle.Render(
					"session issued "+sess.IssuedAt.Local().Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

func newUsersCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the user directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := rt.app.Tracker.Directory.Users(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), theme.HeaderStyle.Render(fmt.Sprintf("Users (%d)", len(users))))
			for _, u := range users {
				fmt.Fprintf(out(cmd), "  %-20s %-28s %s\n", u.Name, u.Email, theme.HelpStyle.Render(u.ID))
			}
			return nil
		},
	}
}

func newProfileCmd(rt *runtime) *cobra.Command {
	var name, email, avatar string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the signed-in user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := rt.session(ctx)
			if err != nil {
				return err
			}

			user := sess.User
			if cmd.Flags().Changed("name") {
				user.Name = name
			}
			if cmd.Flags().Changed("email") {
				user.Email = email
			}
			if cmd.Flags().Changed("avatar") {
				user.Avatar = avatar
			}
			if err := rt.app.Tracker.Directory.Update(ctx, user); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render("Profile updated."))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL or data URI")
	return cmd
}

func newSyncCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Write the session user back into the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			synced, err := rt.app.Sessions.SyncDirectory(cmd.Context())
			if err != nil {
				return err
			}
			if !synced {
				fmt.Fprintln(out(cmd), "Nothing to sync.")
				return nil
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render("Directory updated."))
			return nil
		},
	}
}
