// Package prompt asks the user yes/no questions outside the TUI.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

//go:generate mockgen -source=confirm.go -destination=mock_confirmer.go -package=prompt

// Confirmer obtains a yes/no answer out of band.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// New returns a huh-backed Confirmer when in is a terminal, and otherwise a
// line reader sharing s with the caller so no buffered input is lost.
func New(in io.Reader, out io.Writer, s *bufio.Scanner) Confirmer {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &Form{In: in, Out: out}
	}
	return &Line{Scanner: s, Out: out}
}

// Form shows a huh confirm dialog.
type Form struct {
	In  io.Reader
	Out io.Writer
}

func (f *Form) Confirm(question string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithInput(f.In).WithOutput(f.Out).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirm: %w", err)
	}
	return confirmed, nil
}

// Line reads "y"/"yes" from the next input line. Anything else, including
// EOF, is a no.
type Line struct {
	Scanner *bufio.Scanner
	Out     io.Writer
}

func (l *Line) Confirm(question string) (bool, error) {
	fmt.Fprintf(l.Out, "%s [y/N]: ", question)
	if !l.Scanner.Scan() {
		fmt.Fprintln(l.Out)
		if err := l.Scanner.Err(); err != nil {
			return false, fmt.Errorf("confirm: %w", err)
		}
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(l.Scanner.Text())) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
