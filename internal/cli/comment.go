package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/theme"
)

const timeLayout = "2006-01-02 15:04"

func newCommentCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Read and write task comments",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <task-id>",
			Short: "Show the comment thread of a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				comments, err := rt.app.Tracker.Logs.Comments(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				w := out(cmd)
				if len(comments) == 0 {
					fmt.Fprintln(w, theme.HelpStyle.Render("No comments."))
					return nil
				}
				for _, c := range comments {
					fmt.Fprintf(w, "%s %s\n  %s\n",
						theme.HeaderStyle.Render(c.UserName),
						theme.HelpStyle.Render(c.CreatedAt.Local().Format(timeLayout)),
						c.Text)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <task-id> <text>...",
			Short: "Comment on a task",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				sess, err := rt.session(ctx)
				if err != nil {
					return err
				}
				_, err = rt.app.Tracker.Logs.AddComment(ctx, model.Comment{
					TaskID:   args[0],
					UserID:   sess.User.ID,
					UserName: sess.User.Name,
					Text:     strings.Join(args[1:], " "),
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), theme.SuccessStyle.Render("Comment added."))
				return nil
			},
		},
	)
	return cmd
}

func newActivityCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "activity <project-id>",
		Short: "Show the recent activity of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := rt.app.Tracker.Logs.Activities(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := out(cmd)
			if len(feed) == 0 {
				fmt.Fprintln(w, theme.HelpStyle.Render("No activity yet."))
				return nil
			}
			for _, a := range feed {
				fmt.Fprintf(w, "%s  %s %s %q\n",
					theme.HelpStyle.Render(a.CreatedAt.Local().Format(timeLayout)),
					a.UserName, a.Action, a.TargetName)
			}
			return nil
		},
	}
}
