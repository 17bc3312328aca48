package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/stats"
	"github.com/nhle/zenith/internal/theme"
)

func newProjectCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		newProjectListCmd(rt),
		newProjectSaveCmd(rt),
		newProjectDeleteCmd(rt),
		newProjectInviteCmd(rt),
		newProjectStatsCmd(rt),
		newProjectTeamCmd(rt),
	)
	return cmd
}

func newProjectListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects visible to the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := rt.session(ctx)
			if err != nil {
				return err
			}
			projects, err := rt.app.Tracker.Projects.List(ctx, sess.User.ID)
			if err != nil {
				return err
			}

			w := out(cmd)
			fmt.Fprintln(w, theme.HeaderStyle.Render(fmt.Sprintf("Projects (%d)", len(projects))))
			if len(projects) == 0 {
				fmt.Fprintln(w, theme.HelpStyle.Render("  No projects yet. Create one with `zenith project save --name ...`"))
				return nil
			}
			for _, p := range projects {
				tasks, err := rt.app.Tracker.Tasks.List(ctx, p.ID)
				if err != nil {
					return err
				}
				lead := ""
				if p.IsOwner(sess.User.ID) {
					lead = " (lead)"
				}
				risk := ""
				if p.RiskLevel != "" {
					risk = " " + theme.RiskStyle(p.RiskLevel).Render(string(p.RiskLevel))
				}
				fmt.Fprintf(w, "  %-24s %3d%%  %d tasks%s%s\n", p.Name, stats.Progress(tasks), len(tasks), lead, risk)
				fmt.Fprintln(w, theme.HelpStyle.Render("    "+p.ID))
			}
			return nil
		},
	}
}

func newProjectSaveCmd(rt *runtime) *cobra.Command {
	var (
		id, name, description, color, risk string
		members                            []string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a project, or update one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := rt.session(ctx)
			if err != nil {
				return err
			}

			project := model.Project{OwnerID: sess.User.ID}
			if id != "" {
				existing, err := rt.app.Tracker.Projects.Get(ctx, id)
				if err != nil {
					return err
				}
				project = *existing
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				project.Name = name
			}
			if flags.Changed("description") {
				project.Description = description
			}
			if flags.Changed("color") {
				project.Color = color
			}
			if flags.Changed("risk") {
				project.RiskLevel = model.RiskLevel(risk)
			}
			if flags.Changed("member") {
				project.Members = members
			}

			saved, err := rt.app.Tracker.Projects.Save(ctx, project)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render("Saved project "+saved.Name))
			fmt.Fprintln(out(cmd), theme.HelpStyle.Render("id "+saved.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Existing project id")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&color, "color", "", "Accent color")
	cmd.Flags().StringVar(&risk, "risk", "", "Risk level (stable, elevated, critical)")
	cmd.Flags().StringSliceVar(&members, "member", nil, "Member user ids (replaces the list)")
	return cmd
}

func newProjectDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its tasks (lead only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := rt.session(ctx)
			if err != nil {
				return err
			}
			removed, err := rt.app.Tracker.Projects.Delete(ctx, args[0], sess.User.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render(
				fmt.Sprintf("Deleted project and %d task(s).", removed)))
			return nil
		},
	}
}

func newProjectInviteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "invite <project-id> <email>",
		Short: "Add a user to a project, registering them if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := rt.session(ctx); err != nil {
				return err
			}
			user, created, err := rt.app.Tracker.Directory.Invite(ctx, args[1])
			if err != nil {
				return err
			}
			if _, err := rt.app.Tracker.Projects.AddMember(ctx, args[0], user.ID); err != nil {
				return err
			}
			msg := "Added " + user.Name
			if created {
				msg = "Registered and added " + user.Name
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render(msg))
			return nil
		},
	}
}

func newProjectStatsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <project-id>",
		Short: "Show the project dashboard",
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
			users, err := rt.app.Tracker.Directory.Users(ctx)
			if err != nil {
				return err
			}

			s := stats.Dashboard(tasks)
			w := out(cmd)
			fmt.Fprintln(w, theme.HeaderStyle.Render(project.Name))
			fmt.Fprintf(w, "  Total        %d\n", s.Total)
			fmt.Fprintf(w, "  %s %d\n", theme.StatusStyle(model.StatusTodo).Render(fmt.Sprintf("%-12s", model.StatusTodo)), s.Todo)
			fmt.Fprintf(w, "  %s %d\n", theme.StatusStyle(model.StatusInProgress).Render(fmt.Sprintf("%-12s", model.StatusInProgress)), s.InProgress)
			fmt.Fprintf(w, "  %s %d\n", theme.StatusStyle(model.StatusDone).Render(fmt.Sprintf("%-12s", model.StatusDone)), s.Done)
			fmt.Fprintf(w, "  High         %d\n", s.HighPriority)
			fmt.Fprintf(w, "  Blocked      %d\n", s.Blocked)
			fmt.Fprintf(w, "  Completion   %d%%\n", s.Completion)

			shares := stats.Workload(tasks, users)
			if len(shares) > 0 {
				fmt.Fprintln(w, theme.HeaderStyle.Render("Workload"))
				for _, sh := range shares {
					if sh.Assigned == 0 {
						continue
					}
					fmt.Fprintf(w, "  %-20s %3d  %5.1f%%\n", sh.User.Name, sh.Assigned, sh.Percent)
				}
			}
			return nil
		},
	}
}

func newProjectTeamCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "team <project-id>",
		Short: "Show member load for a project",
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
			users, err := rt.app.Tracker.Directory.Users(ctx)
			if err != nil {
				return err
			}

			w := out(cmd)
			fmt.Fprintln(w, theme.HeaderStyle.Render(project.Name+" team"))
			for _, m := range stats.Team(*project, tasks, users) {
				role := "member"
				if m.Lead {
					role = "lead"
				}
				load := theme.SaturationStyle(m.Saturation).Render(fmt.Sprintf("%3.0f%%", m.Saturation))
				fmt.Fprintf(w, "  %-20s %-6s active %d  done %d/%d  load %s\n",
					m.User.Name, role, m.Active, m.Done, m.Total, load)
			}
			return nil
		},
	}
}
