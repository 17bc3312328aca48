package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/zenith/internal/credential"
	"github.com/nhle/zenith/internal/theme"
)

func newAICmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Ask the AI coordinator for help",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "subtasks <task-id>",
			Short: "Suggest subtasks for a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				task, err := rt.app.Tracker.Tasks.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), theme.HeaderStyle.Render("Subtasks for "+task.Title))
				fmt.Fprintln(out(cmd), theme.PanelStyle.Render(rt.app.Coordinator.SuggestSubtasks(ctx, task.Title, task.Description)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "health <project-id>",
			Short: "Get a one-sentence health read of a project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				project, err := rt.app.Tracker.Projects.Get(ctx, args[0])
				if err != nil {
					return err
				}
				tasks, err := rt.app.Tracker.Tasks.List(ctx, project.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), theme.PanelStyle.Render(rt.app.Coordinator.AnalyzeProjectHealth(ctx, project.Name, tasks)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "chat <project-id> <question>...",
			Short: "Ask a question about a project",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				project, err := rt.app.Tracker.Projects.Get(ctx, args[0])
				if err != nil {
					return err
				}
				tasks, err := rt.app.Tracker.Tasks.List(ctx, project.ID)
				if err != nil {
					return err
				}
				users, err := rt.app.Tracker.Directory.Users(ctx)
				if err != nil {
					return err
				}
				answer := rt.app.Coordinator.Chat(ctx, *project, tasks, users, strings.Join(args[1:], " "))
				fmt.Fprintln(out(cmd), theme.PanelStyle.Render(answer))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-key <api-key>",
			Short: "Store the Anthropic API key in the system keyring",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := rt.app.Vault.Set(credential.KeyAnthropicAPI, strings.TrimSpace(args[0])); err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), theme.SuccessStyle.Render("API key saved."))
				return nil
			},
		},
	)
	return cmd
}
