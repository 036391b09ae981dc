package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/checklist/internal/checklist"
	"github.com/idilsaglam/checklist/internal/config"
)

var fixedNow = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func newTestModel(t *testing.T, texts ...string) (Model, *checklist.Controller) {
	t.Helper()
	ctrl := checklist.New(checklist.WithClock(func() time.Time { return fixedNow }))
	for _, s := range texts {
		_, err := ctrl.AddTask(s)
		require.NoError(t, err)
	}
	cfg := config.New()
	cfg.Theme = "mono"
	m := New(ctrl, cfg, nil)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, ctrl
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestModelAddTask(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = send(t, m, runes("a"))
	require.True(t, m.adding)

	m = send(t, m, runes("Buy milk"), enter)
	assert.False(t, m.adding)
	assert.Empty(t, m.ti.Value())
	require.Equal(t, 1, ctrl.Len())
	assert.Equal(t, "Buy milk", ctrl.Tasks()[0].Text)
	assert.Len(t, m.list.Items(), 1)
}

func TestModelAddBlankShowsDialog(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = send(t, m, runes("a"), runes("   "), enter)
	require.NotNil(t, m.dialog)
	assert.Equal(t, "Input Required", m.dialog.title)
	assert.Zero(t, ctrl.Len())
	assert.Contains(t, m.View(), "Please enter a task description!")

	// any key closes the dialog and keeps the input open
	m = send(t, m, runes("z"))
	assert.Nil(t, m.dialog)
	assert.True(t, m.adding)
}

func TestModelAddEscCancels(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = send(t, m, runes("a"), runes("draft"), esc)
	assert.False(t, m.adding)
	assert.Zero(t, ctrl.Len())
}

func TestModelToggleAndMarkDone(t *testing.T) {
	m, ctrl := newTestModel(t, "A", "B")

	m = send(t, m, space, runes("m"))
	tasks := ctrl.Tasks()
	assert.True(t, tasks[0].Done)
	assert.Equal(t, fixedNow, *tasks[0].CompletedAt)
	assert.False(t, tasks[1].Done)
	assert.Equal(t, "marked 1 done", m.status)

	// toggling a done task does nothing
	m = send(t, m, space)
	assert.False(t, ctrl.Tasks()[0].Selected)

	m = send(t, m, runes("m"))
	require.NotNil(t, m.dialog)
	assert.Equal(t, "No Selection", m.dialog.title)
	assert.Equal(t, "Please select tasks to mark as done!", m.dialog.msg)
}

func TestModelDeleteSelected(t *testing.T) {
	m, ctrl := newTestModel(t, "A", "B", "C")

	m = send(t, m, down, space, runes("d"))
	assert.Equal(t, []string{"A", "C"}, []string{ctrl.Tasks()[0].Text, ctrl.Tasks()[1].Text})
	assert.Len(t, m.list.Items(), 2)

	m = send(t, m, runes("d"))
	require.NotNil(t, m.dialog)
	assert.Equal(t, "Please select tasks to delete!", m.dialog.msg)
}

func TestModelSelectAll(t *testing.T) {
	m, ctrl := newTestModel(t, "A", "B")

	m = send(t, m, runes("*"), runes("d"))
	assert.Zero(t, ctrl.Len())
	assert.Empty(t, m.list.Items())
}

func TestModelClearAll(t *testing.T) {
	m, ctrl := newTestModel(t, "A", "B")

	m = send(t, m, runes("C"))
	require.True(t, m.confirming)
	assert.Contains(t, m.View(), "Are you sure you want to delete all tasks?")

	m = send(t, m, runes("n"))
	assert.False(t, m.confirming)
	assert.Equal(t, 2, ctrl.Len())

	m = send(t, m, runes("C"), runes("y"))
	assert.Zero(t, ctrl.Len())
	assert.Equal(t, "cleared 2", m.status)

	m = send(t, m, runes("C"))
	assert.False(t, m.confirming)
	require.NotNil(t, m.dialog)
	assert.Equal(t, "Empty List", m.dialog.title)
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, "A")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelQuitKeyTypesWhileAdding(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = send(t, m, runes("a"), runes("q"), enter)
	require.Equal(t, 1, ctrl.Len())
	assert.Equal(t, "q", ctrl.Tasks()[0].Text)
}

func TestViewShowsRows(t *testing.T) {
	m, _ := newTestModel(t, "Buy milk", "Walk dog")
	m = send(t, m, space, runes("m"))

	v := m.View()
	assert.Contains(t, v, "My Checklist")
	assert.Contains(t, v, "Buy milk")
	assert.Contains(t, v, "done 2024-03-09 14:30")
	assert.Contains(t, v, "pending")
	assert.Contains(t, v, "[#")
}

func TestCurrentTracksCursor(t *testing.T) {
	m, ctrl := newTestModel(t, "A", "B")
	m = send(t, m, down)

	id, ok := m.current()
	require.True(t, ok)
	want, _ := ctrl.IDAt(1)
	assert.Equal(t, want, id)

	empty, _ := newTestModel(t)
	_, ok = empty.current()
	assert.False(t, ok)
}

func TestModelAddUnderFilterKeepsCursorOnNewTask(t *testing.T) {
	m, ctrl := newTestModel(t, "apple", "banana", "avocado")

	m.list.SetFilterText("ban")
	require.Equal(t, list.FilterApplied, m.list.FilterState())
	require.Len(t, m.list.VisibleItems(), 1)

	m = send(t, m, space)
	assert.True(t, ctrl.Tasks()[1].Selected)

	m = send(t, m, runes("a"), runes("cherry"), enter)
	require.Equal(t, 4, ctrl.Len())
	assert.Equal(t, list.Unfiltered, m.list.FilterState())
	assert.Len(t, m.list.VisibleItems(), 4)

	id, ok := m.current()
	require.True(t, ok)
	want, _ := ctrl.IDAt(3)
	assert.Equal(t, want, id)

	m = send(t, m, space)
	assert.True(t, ctrl.Tasks()[3].Selected)
}
