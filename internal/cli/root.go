// Package cli implements the zenith command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/zenith/internal/app"
	"github.com/nhle/zenith/internal/logging"
	"github.com/nhle/zenith/internal/model"
)

// errNotSignedIn is returned by commands that need an active session.
var errNotSignedIn = errors.New("not signed in: run `zenith login <email>` or `zenith signup` first")

// Opener builds the application for a command run.
type Opener func(ctx context.Context, configPath string) (*app.App, error)

type runtime struct {
	open       Opener
	configPath string
	app        *app.App
}

func (rt *runtime) close() error {
	if rt.app == nil {
		return nil
	}
	defer rt.app.Logger.Sync() //nolint:errcheck
	return rt.app.Close()
}

// session returns the active session or errNotSignedIn.
func (rt *runtime) session(ctx context.Context) (*model.Session, error) {
	sess, err := rt.app.Sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errNotSignedIn
	}
	return sess, nil
}

func defaultOpener(ctx context.Context, configPath string) (*app.App, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return app.Open(ctx, cfg, logger)
}

func newRootCommand(open Opener) (*cobra.Command, *runtime) {
	rt := &runtime{open: open}

	root := &cobra.Command{
		Use:   "zenith",
		Short: "Zenith - local-first project tracker",
		Long: `Zenith keeps projects, tasks, comments and an activity feed in a local
database, with an optional AI coordinator for planning help.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.app != nil {
				return nil
			}
			a, err := rt.open(cmd.Context(), rt.configPath)
			if err != nil {
				return err
			}
			rt.app = a
			return nil
		},
	}
	root.PersistentFlags().StringVar(&rt.configPath, "config", model.DefaultConfigPath(), "Path to the config file")

	root.AddCommand(
		newSignupCmd(rt),
		newLoginCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newUsersCmd(rt),
		newProfileCmd(rt),
		newSyncCmd(rt),
		newProjectCmd(rt),
		newTaskCmd(rt),
		newCommentCmd(rt),
		newActivityCmd(rt),
		newAICmd(rt),
		newSnapshotCmd(rt),
	)
	return root, rt
}

// Execute runs the root command against the configured application.
func Execute(version string) error {
	root, rt := newRootCommand(defaultOpener)
	root.Version = version

	err := root.ExecuteContext(context.Background())
	if cerr := rt.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
