package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/checklist/internal/checklist"
	"github.com/idilsaglam/checklist/internal/cli"
	"github.com/idilsaglam/checklist/internal/config"
	"github.com/idilsaglam/checklist/internal/logging"
	"github.com/idilsaglam/checklist/internal/tui"
	"github.com/idilsaglam/checklist/internal/ui"
)

var version = "dev"

type rootFlags struct {
	config string
	theme  string
	debug  bool
}

// session is everything a front end needs; built once per invocation.
type session struct {
	cfg    *config.Config
	log    *logrus.Logger
	closer io.Closer
	ctrl   *checklist.Controller
}

func newRootCommand() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "A single-window checklist for the terminal",
		Long: `checklist keeps a list of short tasks in memory while it runs.

Add tasks, select them, mark them done or delete them, or clear the whole
list. Nothing is saved when the program exits; use the shell's export
command for a report.`,
		Version:      version,
		SilenceUsage: true,
		Args:         usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(f, cmd.Flags().Changed("theme"))
			if err != nil {
				return err
			}
			defer s.closer.Close()
			s.log.Info("starting tui")
			return tui.Run(s.ctrl, s.cfg, s.log)
		},
	}

	cmd.PersistentFlags().StringVar(&f.config, "config", "", "path to a config file (default: nearest "+config.FileName+")")
	cmd.PersistentFlags().StringVar(&f.theme, "theme", config.DefaultTheme, "colour theme: classic, neon or mono")
	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "enable debug logging")

	// subcommands inherit this through their parent
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &configError{err}
	})

	cmd.AddCommand(newShellCommand(&f))
	return cmd
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &configError{err}
		}
		return nil
	}
}

func newShellCommand(f *rootFlags) *cobra.Command {
	var opt cli.Options

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Line-oriented checklist (reads commands from stdin)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*f, cmd.Flags().Changed("theme"))
			if err != nil {
				return err
			}
			defer s.closer.Close()
			s.log.Info("starting shell")
			sh := cli.NewShell(s.ctrl, s.cfg, cmd.InOrStdin(), cmd.OutOrStdout(), nil, s.log, opt)
			return sh.Run()
		},
	}
	cmd.Flags().BoolVar(&opt.Group, "group", false, "group `ls` output by pending/done")
	return cmd
}

func openSession(f rootFlags, themeSet bool) (*session, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, &configError{err}
	}
	cfg, err := config.Load(f.config, wd)
	if err != nil {
		return nil, &configError{err}
	}
	if themeSet {
		cfg.Theme = f.theme
		if err := cfg.Validate(); err != nil {
			return nil, &configError{err}
		}
	}
	ui.SetTheme(cfg.Theme)

	log, closer, err := logging.New(cfg.Log.Level, cfg.Log.File, f.debug)
	if err != nil {
		return nil, &configError{err}
	}
	log.WithFields(logrus.Fields{"theme": cfg.Theme, "max_length": cfg.MaxLength}).Debug("config loaded")

	ctrl := checklist.New(
		checklist.WithLogger(log),
		checklist.WithMaxLength(cfg.MaxLength),
	)
	return &session{cfg: cfg, log: log, closer: closer, ctrl: ctrl}, nil
}
