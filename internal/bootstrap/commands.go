package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/app"
	"github.com/chmouel/lazystage/internal/app/services"
	"github.com/chmouel/lazystage/internal/buildinfo"
	"github.com/chmouel/lazystage/internal/cli"
	"github.com/chmouel/lazystage/internal/log"
	urfavecli "github.com/urfave/cli/v3"
)

const appName = "lazystage"

// NewCommand builds the root command.
func NewCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  appName,
		Usage:                 "Stage and unstage git changes from the terminal",
		Version:               buildinfo.Version(),
		EnableShellCompletion: true,
		Flags:                 globalFlags(),
		Commands: []*urfavecli.Command{
			statusCommand(),
			transitionCommand(cli.ActionStage),
			transitionCommand(cli.ActionUnstage),
			watchCommand(),
			versionCommand(),
		},
		Action: runTUI,
		// exit codes are handled by Run's caller
		ExitErrHandler: func(context.Context, *urfavecli.Command, error) {},
		After: func(ctx context.Context, _ *urfavecli.Command) error {
			return log.Close()
		},
	}
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	err := NewCommand().Run(ctx, args)
	if err == nil {
		return 0
	}
	var exitErr urfavecli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// runTUI is the default action that launches the TUI when no subcommand is given.
func runTUI(ctx context.Context, cmd *urfavecli.Command) error {
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	model := app.NewModel(s.cfg, filepath.Base(s.service.Dir()), s.backend.Enumerator, s.backend.Commands)
	if s.cfg.AutoRefresh {
		if watcher, err := startWatcher(ctx, s); err == nil {
			model.SetWatcher(watcher)
		} else {
			log.Printf("watcher disabled: %v", err)
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	model.Close()
	if err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

func startWatcher(ctx context.Context, s *session) (*services.WatchService, error) {
	gitDir, err := s.service.GitDir(ctx)
	if err != nil {
		return nil, err
	}
	watcher := services.NewWatchService(log.Printf)
	if err := watcher.Start(s.service.Dir(), gitDir); err != nil {
		return nil, err
	}
	return watcher, nil
}

func statusCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "status",
		Usage: "Print the change-set, staged first",
		Flags: statusFlags(),
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			s, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}

			if cmd.IsSet("check") {
				ok, err := cli.Check(ctx, s.backend, cmd.String("check"))
				if err != nil {
					return err
				}
				if !ok {
					return urfavecli.Exit("", 1)
				}
				return nil
			}

			w := cmd.Root().Writer
			return cli.PrintStatus(ctx, w, s.backend, statusOptions(s, w, cmd.Bool("no-color"), cmd.Bool("icons")))
		},
	}
}

func transitionCommand(action cli.Action) *urfavecli.Command {
	usage := "Stage paths (git add)"
	if action == cli.ActionUnstage {
		usage = "Unstage paths (git reset)"
	}
	return &urfavecli.Command{
		Name:      action.String(),
		Usage:     usage,
		ArgsUsage: "[PATH...]",
		Flags:     transitionFlags(),
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			s, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			paths, err := cli.ResolvePaths(s.service.Dir(), s.cwd, cmd.Args().Slice())
			if err != nil {
				return err
			}
			return cli.Transition(ctx, cmd.Root().Writer, s.backend, action, cli.TransitionOptions{
				Paths:       paths,
				All:         cmd.Bool("all"),
				Interactive: cmd.Bool("interactive"),
			})
		},
	}
}

func watchCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "watch",
		Usage: "Print the change-set again whenever the working tree changes",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{Name: "no-color", Usage: "Disable coloured output"},
			&urfavecli.BoolFlag{Name: "icons", Usage: "Prefix paths with file icons"},
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			s, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			watcher, err := startWatcher(ctx, s)
			if err != nil {
				return err
			}
			defer watcher.Stop()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.Root().Writer
			return cli.Watch(ctx, w, s.backend, watcher.Events(), statusOptions(s, w, cmd.Bool("no-color"), cmd.Bool("icons")))
		},
	}
}

func versionCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(_ context.Context, cmd *urfavecli.Command) error {
			_, err := fmt.Fprint(cmd.Root().Writer, buildinfo.Summary(appName))
			return err
		},
	}
}
