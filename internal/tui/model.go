// Package tui is the full-screen front end. The model keeps only task IDs
// and rebuilds its rows from the controller after every command.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/idilsaglam/checklist/internal/checklist"
	"github.com/idilsaglam/checklist/internal/config"
	"github.com/idilsaglam/checklist/internal/model"
)

// listItem adapts a task snapshot to bubbles/list.Item
type listItem struct {
	task model.Task
}

func (i listItem) Title() string       { return i.task.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Text }

type keyMap struct {
	Add, Toggle, SelectAll, Done, Delete, Clear, Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Add:       key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "add")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "select")),
		SelectAll: key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "select all")),
		Done:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark done")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Clear:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.SelectAll, k.Done, k.Delete, k.Clear}
}

type dialog struct {
	title, msg string
}

// Model implements tea.Model over a checklist.Controller.
type Model struct {
	ctrl *checklist.Controller
	cfg  *config.Config
	log  logrus.FieldLogger
	st   styles
	keys keyMap

	list   list.Model
	width  int
	height int

	// Inline add
	adding bool
	ti     textinput.Model

	// Clear-all confirmation
	confirming bool

	dialog *dialog
	status string // last success message
}

// Custom delegate to control how items render (single line)
type itemDelegate struct {
	st         styles
	timeFormat string
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := it.task

	box := d.st.muted.Render(d.st.boxUnchecked)
	if t.Selected {
		box = d.st.accent.Render(d.st.boxChecked)
	}
	status := d.st.pending.Render(d.st.statusPending)
	if t.Done {
		status = d.st.success.Render(d.st.statusDone)
		if t.CompletedAt != nil {
			status += " " + d.st.muted.Render(t.CompletedAt.Format(d.timeFormat))
		}
	}

	// leave room for prefix, box and status
	room := m.Width() - 4 - lipgloss.Width(box) - lipgloss.Width(status)
	if room < 8 {
		room = 8
	}
	text := runewidth.Truncate(t.Text, room, "...")
	text = runewidth.FillRight(text, room)
	if t.Done {
		text = d.st.done.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = d.st.cursor.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text+" "+status)
}

// New builds the model. Call Run to start the program.
func New(ctrl *checklist.Controller, cfg *config.Config, log logrus.FieldLogger) Model {
	if log == nil {
		log = logrus.StandardLogger()
	}
	st := newStyles(cfg.Theme)
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{st: st, timeFormat: cfg.TimeFormat}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = st.title
	l.Styles.HelpStyle = st.help
	l.Styles.PaginationStyle = st.help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.SetShowTitle(false)
	// quit is handled here so it can be ignored while typing
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task description..."
	ti.CharLimit = cfg.MaxLength

	w, h := widthHeight()
	m := Model{
		ctrl:   ctrl,
		cfg:    cfg,
		log:    log,
		st:     st,
		keys:   keys,
		list:   l,
		ti:     ti,
		width:  w,
		height: h,
	}
	m.resize()
	m.refresh()
	return m
}

// Run starts the Bubble Tea program on the alternate screen.
func Run(ctrl *checklist.Controller, cfg *config.Config, log logrus.FieldLogger) error {
	p := tea.NewProgram(New(ctrl, cfg, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// refresh rebuilds list rows from controller state.
func (m *Model) refresh() tea.Cmd {
	tasks := m.ctrl.Tasks()
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, listItem{task: t})
	}
	cmd := m.list.SetItems(items)
	if i := m.list.Index(); i >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
	return cmd
}

// current returns the ID under the cursor.
func (m Model) current() (model.ID, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return 0, false
	}
	return it.task.ID, true
}

// fail shows a reported error as a dialog.
func (m *Model) fail(err error) {
	title, msg, ok := model.Dialog(err)
	if !ok {
		title, msg = "Error", err.Error()
	}
	m.dialog = &dialog{title: title, msg: msg}
	m.status = ""
	m.log.WithError(err).Debug("reported to user")
}

// Update and View implement Bubble Tea's Model on Model
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}
	if x, ok := msg.(tea.KeyMsg); ok && x.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// dialog: any key dismisses
	if m.dialog != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.dialog = nil
		}
		return m, nil
	}

	// clear-all confirmation
	if m.confirming {
		x, ok := msg.(tea.KeyMsg)
		if !ok {
			return m, nil
		}
		m.confirming = false
		confirmed := x.String() == "y" || x.String() == "Y"
		n, err := m.ctrl.ClearAll(confirmed)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		if confirmed {
			m.status = fmt.Sprintf("cleared %d", n)
		} else {
			m.status = "kept all tasks"
		}
		return m, m.refresh()
	}

	// add mode
	if m.adding {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch x.String() {
			case "enter":
				id, err := m.ctrl.AddTask(m.ti.Value())
				if err != nil {
					m.fail(err)
					return m, nil
				}
				m.ti.SetValue("")
				m.ti.Blur()
				m.adding = false
				m.status = "added"
				// an applied filter could hide the new task and leave the
				// cursor past the visible rows
				m.list.ResetFilter()
				cmd = m.refresh()
				m.list.Select(m.ctrl.Index(id))
				return m, cmd
			case "esc":
				m.adding = false
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// the filter input owns the keyboard while typing
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if x, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(x, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(x, m.keys.Add):
			m.adding = true
			m.ti.SetValue("")
			return m, m.ti.Focus()

		case key.Matches(x, m.keys.Toggle):
			if id, ok := m.current(); ok {
				if err := m.ctrl.ToggleSelection(id); err != nil {
					m.fail(err)
					return m, nil
				}
			}
			return m, m.refresh()

		case key.Matches(x, m.keys.SelectAll):
			n := m.ctrl.SelectAllPending()
			m.status = fmt.Sprintf("selected %d", n)
			return m, m.refresh()

		case key.Matches(x, m.keys.Done):
			n, err := m.ctrl.MarkSelectedDone(nil)
			if err != nil {
				m.fail(err)
				return m, nil
			}
			m.status = fmt.Sprintf("marked %d done", n)
			return m, m.refresh()

		case key.Matches(x, m.keys.Delete):
			n, err := m.ctrl.DeleteSelected()
			if err != nil {
				m.fail(err)
				return m, nil
			}
			m.status = fmt.Sprintf("deleted %d", n)
			return m, m.refresh()

		case key.Matches(x, m.keys.Clear):
			if m.ctrl.Len() == 0 {
				_, err := m.ctrl.ClearAll(false)
				m.fail(err)
				return m, nil
			}
			m.confirming = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// resize fits the list between the header and the add bar.
func (m *Model) resize() {
	listHeight := m.height - 7
	if m.adding {
		listHeight -= 3
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)
}

func (m Model) View() string {
	w, h := m.width, m.height
	m.resize()

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.list.View())

	if m.adding {
		bar := m.st.panel.Width(w - 8)
		b.WriteString("\n" + bar.Render("Add new task\n"+m.ti.View()))
	}
	if m.status != "" {
		b.WriteString("\n" + m.st.success.Render("✔ "+m.status))
	}

	content := m.st.panel.Render(b.String())
	switch {
	case m.dialog != nil:
		box := m.st.dialog.Render(m.st.err.Render(m.dialog.title) + "\n\n" + m.dialog.msg + "\n\n" + m.st.help.Render("press any key"))
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
	case m.confirming:
		box := m.st.dialog.Render(m.st.title.Render("Confirm Clear") + "\n\n" +
			"Are you sure you want to delete all tasks?\n\n" + m.st.help.Render("y = yes, any other key = no"))
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
	}
	return content
}

// header shows the title with live counts and a progress bar.
func (m Model) header() string {
	s := m.ctrl.Stats()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d\n%s",
		m.st.title.Render(m.cfg.Title),
		m.st.success.Render("✔"), s.Done,
		m.st.pending.Render("•"), s.Pending,
		m.st.accent.Render("Total"), s.Total,
		m.st.muted.Render(m.st.progressBar(s.Done, s.Total, 28)),
	)
}

func widthHeight() (int, int) {
	w, h := 80, 24
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	return w, h
}
