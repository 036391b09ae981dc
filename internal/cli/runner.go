package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/checklist/internal/checklist"
	"github.com/idilsaglam/checklist/internal/config"
	"github.com/idilsaglam/checklist/internal/export"
	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/prompt"
	"github.com/idilsaglam/checklist/internal/ui"
)

// Exit codes returned by Exec.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done
}

// Shell is a line-oriented front end for a checklist. Each command runs to
// completion before the next line is read.
type Shell struct {
	ctrl    *checklist.Controller
	cfg     *config.Config
	opt     Options
	scanner *bufio.Scanner
	out     io.Writer
	confirm prompt.Confirmer
	log     logrus.FieldLogger
}

// NewShell wires a shell reading commands from in. confirm may be nil, in
// which case answers are read from the same input.
func NewShell(ctrl *checklist.Controller, cfg *config.Config, in io.Reader, out io.Writer, confirm prompt.Confirmer, log logrus.FieldLogger, opt Options) *Shell {
	s := bufio.NewScanner(in)
	if confirm == nil {
		confirm = prompt.New(in, out, s)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Shell{
		ctrl:    ctrl,
		cfg:     cfg,
		opt:     opt,
		scanner: s,
		out:     out,
		confirm: confirm,
		log:     log,
	}
}

// Run reads commands until EOF or quit.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, ui.C(ui.Current().Title, s.cfg.Title)+ui.Dim("  (type `help` for commands)"))
	for {
		fmt.Fprint(s.out, ui.C(ui.Current().Accent, "> "))
		if !s.scanner.Scan() {
			fmt.Fprintln(s.out)
			if err := s.scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		code := s.Exec(line)
		s.log.WithFields(logrus.Fields{"command": strings.Fields(line)[0], "code": code}).Debug("command executed")
	}
}

// Exec dispatches one command line and returns an exit code (0 ok, 1 error, 2 usage).
func (s *Shell) Exec(line string) int {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ExitOK
	}
	cmd, a := fields[0], fields[1:]

	switch cmd {
	case "help", "-h", "--help", "?":
		PrintHelp(s.out)
		return ExitOK

	case "ls":
		group := s.opt.Group
		for _, f := range a {
			if f == "--group" || f == "-g" {
				group = true
			}
		}
		s.doList(group)
		return ExitOK

	case "add":
		if len(a) == 0 {
			ui.Fail(s.out, "usage: add <text...>")
			return ExitUsage
		}
		return s.doAdd(strings.TrimSpace(strings.TrimPrefix(line, cmd)))

	case "toggle", "t":
		if len(a) == 0 {
			ui.Fail(s.out, "usage: toggle <index...>")
			return ExitUsage
		}
		idx := make([]int, 0, len(a))
		for _, v := range a {
			n, err := strconv.Atoi(v)
			if err != nil {
				ui.Fail(s.out, "toggle: not a number: "+v)
				return ExitUsage
			}
			idx = append(idx, n)
		}
		return s.doToggle(idx)

	case "select-all":
		n := s.ctrl.SelectAllPending()
		ui.OK(s.out, fmt.Sprintf("selected %d", n))
		return ExitOK

	case "done":
		n, err := s.ctrl.MarkSelectedDone(nil)
		if err != nil {
			return s.report(err)
		}
		ui.OK(s.out, fmt.Sprintf("marked %d done", n))
		return ExitOK

	case "rm":
		n, err := s.ctrl.DeleteSelected()
		if err != nil {
			return s.report(err)
		}
		ui.OK(s.out, fmt.Sprintf("removed %d", n))
		return ExitOK

	case "clear":
		return s.doClear()

	case "export":
		if len(a) == 0 || len(a) > 2 {
			ui.Fail(s.out, "usage: export <"+strings.Join(export.Formats, "|")+"> [path]")
			return ExitUsage
		}
		path := ""
		if len(a) == 2 {
			path = a[1]
		}
		return s.doExport(a[0], path)
	}

	ui.Fail(s.out, "unknown command: "+cmd)
	ui.Hint(s.out, "run `help` to see commands")
	return ExitUsage
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `Commands:
  add <text...>        Add a task (text can be multiple words)
  ls [--group]         List tasks
  toggle <index...>    Toggle selection of tasks at 1-based indexes
  select-all           Select every pending task
  done                 Mark selected tasks done
  rm                   Delete selected tasks
  clear                Delete all tasks (asks first)
  export <format> [p]  Write a report (%s)
  help                 Show this help
  quit                 Leave (tasks are not kept)

Examples:
  add Buy milk
  toggle 1 3
  done
`, strings.Join(export.Formats, ", "))
}

// -------------- command impls ----------------

// report prints a reported error and maps it to an exit code.
func (s *Shell) report(err error) int {
	if _, msg, ok := model.Dialog(err); ok {
		ui.Fail(s.out, msg)
		return ExitError
	}
	ui.Fail(s.out, err.Error())
	return ExitError
}

func (s *Shell) doAdd(text string) int {
	if _, err := s.ctrl.AddTask(text); err != nil {
		return s.report(err)
	}
	ui.OK(s.out, "added")
	return ExitOK
}

func (s *Shell) doToggle(userIndexes []int) int {
	n := s.ctrl.Len()
	for _, pos := range userIndexes {
		if pos < 1 || pos > n {
			ui.Fail(s.out, fmt.Sprintf("index out of range: have %d, got %d", n, pos))
			ui.Hint(s.out, "run `ls` to see valid indexes")
			return ExitUsage
		}
	}
	for _, pos := range userIndexes {
		id, _ := s.ctrl.IDAt(pos - 1)
		if err := s.ctrl.ToggleSelection(id); err != nil {
			return s.report(err)
		}
	}
	ui.OK(s.out, "toggled")
	return ExitOK
}

func (s *Shell) doClear() int {
	if s.ctrl.Len() == 0 {
		_, err := s.ctrl.ClearAll(false)
		return s.report(err)
	}
	confirmed, err := s.confirm.Confirm("Are you sure you want to delete all tasks?")
	if err != nil {
		ui.Fail(s.out, err.Error())
		return ExitError
	}
	n, err := s.ctrl.ClearAll(confirmed)
	if err != nil {
		return s.report(err)
	}
	if !confirmed {
		ui.OK(s.out, "kept all tasks")
		return ExitOK
	}
	ui.OK(s.out, fmt.Sprintf("cleared %d", n))
	return ExitOK
}

func (s *Shell) doExport(format, path string) int {
	ext, err := export.Ext(format)
	if err != nil {
		ui.Fail(s.out, err.Error())
		return ExitUsage
	}
	if path == "" {
		path = filepath.Join(s.cfg.Export.Dir, "checklist."+ext)
	}
	opt := export.Options{Title: s.cfg.Title, TimeFormat: s.cfg.TimeFormat, FontFile: s.cfg.Export.FontFile}
	if err := export.WriteFile(path, format, s.ctrl.Tasks(), opt); err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			ui.Fail(s.out, err.Error())
			return ExitUsage
		}
		ui.Fail(s.out, "export: "+err.Error())
		return ExitError
	}
	s.log.WithFields(logrus.Fields{"format": format, "path": path}).Info("checklist exported")
	ui.OK(s.out, "exported to "+path)
	return ExitOK
}

func (s *Shell) doList(group bool) {
	tasks := s.ctrl.Tasks()
	st := s.ctrl.Stats()
	t := ui.Current()

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, s.cfg.Title),
		ui.C(t.Success, t.SymDone), st.Done,
		ui.C(t.Pending, t.SymUnchecked), st.Pending,
		ui.C(t.Accent, "Total"), st.Total,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(st.Done, st.Total, 28)))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(tasks, s.cfg.TimeFormat)...)
	} else {
		lines = append(lines, flatLines(tasks, 1, s.cfg.TimeFormat)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: select with `toggle 1`, then `done` or `rm`"))
	ui.Panel(s.out, lines)
}

// -------------- rendering helpers --------------

const maxTextWidth = 40

func flatLines(tasks []model.Task, first int, timeFormat string) []string {
	if len(tasks) == 0 {
		return []string{ui.C(ui.Current().Muted, "no tasks")}
	}
	t := ui.Current()
	out := make([]string, 0, len(tasks))
	for i, it := range tasks {
		idx := fmt.Sprintf("%2d.", first+i)
		box := t.BoxUnchecked
		if it.Selected {
			box = t.BoxChecked
		}
		status := ui.C(t.Pending, t.StatusPending)
		if it.Done {
			status = ui.C(t.Success, t.StatusDone)
			if it.CompletedAt != nil {
				status += " " + ui.C(t.Muted, it.CompletedAt.Format(timeFormat))
			}
		}
		text := ui.Truncate(it.Text, maxTextWidth)
		if pad := maxTextWidth - ui.Width(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		if it.Done {
			text = ui.C(t.Muted, text)
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s", ui.Dim(idx), box, text, status))
	}
	return out
}

// groupLines keeps each task's list position so indexes still work with toggle.
func groupLines(tasks []model.Task, timeFormat string) []string {
	t := ui.Current()
	var lines []string
	section := func(title string, done bool) {
		lines = append(lines, ui.C(t.Accent, title))
		n := 0
		for i, it := range tasks {
			if it.Done != done {
				continue
			}
			lines = append(lines, flatLines([]model.Task{it}, i+1, timeFormat)...)
			n++
		}
		if n == 0 {
			lines = append(lines, ui.C(t.Muted, "(none)"))
		}
	}
	section("Pending", false)
	lines = append(lines, "")
	section("Done", true)
	return lines
}
