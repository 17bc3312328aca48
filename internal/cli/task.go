package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/theme"
	"github.com/nhle/zenith/internal/tracker"
)

func newTaskCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(
		newTaskListCmd(rt),
		newTaskSaveCmd(rt),
		newTaskMoveCmd(rt),
		newTaskDeleteCmd(rt),
		newTaskBulkCmd(rt),
	)
	return cmd
}

func newTaskListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "Show a project board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tasks, err := rt.app.Tracker.Tasks.List(ctx, args[0])
			if err != nil {
				return err
			}
			users, err := rt.app.Tracker.Directory.Users(ctx)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(users))
			for _, u := range users {
				names[u.ID] = u.Name
			}

			w := out(cmd)
			for _, status := range model.Statuses {
				var column []model.Task
				for _, t := range tasks {
					if t.Status == status {
						column = append(column, t)
					}
				}
				fmt.Fprintln(w, theme.StatusStyle(status).Render(fmt.Sprintf("%s (%d)", status, len(column))))
				for _, t := range column {
					fmt.Fprintln(w, "  "+formatTask(t, names))
				}
			}
			return nil
		},
	}
}

func formatTask(t model.Task, names map[string]string) string {
	var b strings.Builder
	b.WriteString(theme.PriorityStyle(t.Priority).Render(fmt.Sprintf("[%-6s]", t.Priority)))
	b.WriteString(" " + t.Title)
	if t.AssigneeID != nil {
		name := names[*t.AssigneeID]
		if name == "" {
			name = *t.AssigneeID
		}
		b.WriteString(" @" + name)
	}
	if !t.DueDate.IsZero() {
		b.WriteString(" due " + t.DueDate.String())
	}
	if t.Blocked() {
		b.WriteString(" " + theme.WarningStyle.Render("BLOCKED"))
	}
	if len(t.Tags) > 0 {
		b.WriteString(" #" + strings.Join(t.Tags, " #"))
	}
	b.WriteString(" " + theme.HelpStyle.Render(t.ID))
	return b.String()
}

func newTaskSaveCmd(rt *runtime) *cobra.Command {
	var (
		projectID, id, title, description string
		status, priority, assignee, due   string
		tags                              []string
		blocked                           bool
		complexity                        int
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a task, or update one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := rt.session(ctx)
			if err != nil {
				return err
			}

			task := model.Task{
				ID:        model.TempIDPrefix + "cli",
				ProjectID: projectID,
				Status:    model.StatusTodo,
				Priority:  model.PriorityMedium,
			}
			if id != "" {
				existing, err := rt.app.Tracker.Tasks.Get(ctx, id)
				if err != nil {
					return err
				}
				task = *existing
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				task.Title = title
			}
			if flags.Changed("description") {
				task.Description = description
			}
			if flags.Changed("status") {
				s, err := model.ParseStatus(status)
				if err != nil {
					return err
				}
				task.Status = s
			}
			if flags.Changed("priority") {
				task.Priority = model.Priority(strings.ToLower(priority))
			}
			if flags.Changed("assignee") {
				task.AssigneeID, err = rt.resolveAssignee(cmd, assignee)
				if err != nil {
					return err
				}
			}
			if flags.Changed("due") {
				d, err := model.ParseDate(due)
				if err != nil {
					return err
				}
				task.DueDate = d
			}
			if flags.Changed("tag") {
				task.Tags = tags
			}
			if flags.Changed("blocked") {
				task.IsBlocked = &blocked
			}
			if flags.Changed("complexity") {
				task.Complexity = &complexity
			}

			saved, err := rt.app.Tracker.Tasks.Save(ctx, task, sess.Actor())
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render("Saved task "+saved.Title))
			fmt.Fprintln(out(cmd), theme.HelpStyle.Render("id "+saved.ID))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&projectID, "project", "", "Project id for a new task")
	f.StringVar(&id, "id", "", "Existing task id")
	f.StringVar(&title, "title", "", "Task title")
	f.StringVar(&description, "description", "", "Task description")
	f.StringVar(&status, "status", "", "Status (todo, in-progress, done)")
	f.StringVar(&priority, "priority", "", "Priority (low, medium, high)")
	f.StringVar(&assignee, "assignee", "", "Assignee id or email; empty to clear")
	f.StringVar(&due, "due", "", "Due date YYYY-MM-DD; empty to clear")
	f.StringSliceVar(&tags, "tag", nil, "Tags (replaces the list)")
	f.BoolVar(&blocked, "blocked", false, "Flag the task as blocked")
	f.IntVar(&complexity, "complexity", 0, "Effort estimate 1-10")
	return cmd
}

// resolveAssignee maps an id or email to a user id. An empty value clears
// the assignee.
func (rt *runtime) resolveAssignee(cmd *cobra.Command, value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if strings.Contains(value, "@") {
		u, err := rt.app.Tracker.Directory.Lookup(cmd.Context(), value)
		if err != nil {
			return nil, fmt.Errorf("assignee %s: %w", value, err)
		}
		return &u.ID, nil
	}
	return &value, nil
}

func newTaskMoveCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := rt.session(ctx)
			if err != nil {
				return err
			}
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}
			moved, err := rt.app.Tracker.Tasks.Move(ctx, args[0], status, sess.Actor())
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s -> %s\n", moved.Title, theme.StatusStyle(moved.Status).Render(string(moved.Status)))
			return nil
		},
	}
}

func newTaskDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>...",
		Short: "Delete one or more tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := rt.session(ctx); err != nil {
				return err
			}
			if err := rt.app.Tracker.Tasks.BulkDelete(ctx, args); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render(fmt.Sprintf("Deleted %d task(s).", len(args))))
			return nil
		},
	}
}

func newTaskBulkCmd(rt *runtime) *cobra.Command {
	var (
		status, priority, assignee string
		blocked                    bool
	)

	cmd := &cobra.Command{
		Use:   "bulk <task-id>...",
		Short: "Apply the same change to several tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := rt.session(ctx)
			if err != nil {
				return err
			}

			var patch tracker.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("status") {
				s, err := model.ParseStatus(status)
				if err != nil {
					return err
				}
				patch.Status = &s
			}
			if flags.Changed("priority") {
				p := model.Priority(strings.ToLower(priority))
				patch.Priority = &p
			}
			if flags.Changed("assignee") {
				id, err := rt.resolveAssignee(cmd, assignee)
				if err != nil {
					return err
				}
				cleared := ""
				if id == nil {
					id = &cleared
				}
				patch.AssigneeID = id
			}
			if flags.Changed("blocked") {
				patch.IsBlocked = &blocked
			}

			updated, err := rt.app.Tracker.Tasks.BulkUpdate(ctx, args, patch, sess.Actor())
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render(fmt.Sprintf("Updated %d task(s).", len(updated))))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "Status (todo, in-progress, done)")
	f.StringVar(&priority, "priority", "", "Priority (low, medium, high)")
	f.StringVar(&assignee, "assignee", "", "Assignee id or email; empty to clear")
	f.BoolVar(&blocked, "blocked", false, "Flag the tasks as blocked")
	return cmd
}
