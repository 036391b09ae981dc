// Package checklist owns the in-memory task list. Presentation layers hold
// only task IDs and re-render from the controller after every command.
package checklist

import (
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/idilsaglam/checklist/internal/model"
)

// Controller is the task arena. It is not safe for concurrent use; every
// operation runs to completion for one user action before the next.
type Controller struct {
	tasks  map[model.ID]*model.Task
	order  []model.ID
	nextID model.ID

	now    func() time.Time
	log    logrus.FieldLogger
	maxLen int
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used when MarkSelectedDone is given no clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMaxLength limits task text to n runes. Zero means no limit.
func WithMaxLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxLen = n
		}
	}
}

func New(opts ...Option) *Controller {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Controller{
		tasks:  make(map[model.ID]*model.Task),
		nextID: 1,
		now:    time.Now,
		log:    discard,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func reject(op string, err error) error {
	return &model.TaskError{Op: op, Err: err}
}

// a task is a single line; breaks become spaces
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// AddTask appends a pending task and returns its ID.
func (c *Controller) AddTask(text string) (model.ID, error) {
	text = norm.NFC.String(strings.TrimSpace(lineBreaks.Replace(text)))
	if text == "" {
		return 0, reject(model.OpAdd, model.ErrEmptyInput)
	}
	if c.maxLen > 0 && utf8.RuneCountInString(text) > c.maxLen {
		return 0, reject(model.OpAdd, model.ErrTooLong)
	}

	id := c.nextID
	c.nextID++
	c.tasks[id] = &model.Task{ID: id, Text: text}
	c.order = append(c.order, id)

	c.log.WithFields(logrus.Fields{"id": id, "total": len(c.order)}).Debug("task added")
	return id, nil
}

// ToggleSelection flips the selection of a pending task. Done tasks are
// locked: toggling them changes nothing.
func (c *Controller) ToggleSelection(id model.ID) error {
	t, ok := c.tasks[id]
	if !ok {
		return reject(model.OpToggle, model.ErrUnknownTask)
	}
	if t.Done {
		return nil
	}
	t.Selected = !t.Selected
	c.log.WithFields(logrus.Fields{"id": id, "selected": t.Selected}).Debug("selection toggled")
	return nil
}

// SetSelected is ToggleSelection with an explicit target state.
func (c *Controller) SetSelected(id model.ID, selected bool) error {
	t, ok := c.tasks[id]
	if !ok {
		return reject(model.OpSelect, model.ErrUnknownTask)
	}
	if t.Done || t.Selected == selected {
		return nil
	}
	t.Selected = selected
	c.log.WithFields(logrus.Fields{"id": id, "selected": selected}).Debug("selection set")
	return nil
}

// SelectAllPending selects every task that is not done and returns how many
// tasks changed.
func (c *Controller) SelectAllPending() int {
	n := 0
	for _, id := range c.order {
		if t := c.tasks[id]; !t.Done && !t.Selected {
			t.Selected = true
			n++
		}
	}
	if n > 0 {
		c.log.WithField("count", n).Debug("pending tasks selected")
	}
	return n
}

func (c *Controller) ClearSelection() {
	for _, t := range c.tasks {
		t.Selected = false
	}
}

// MarkSelectedDone completes every selected pending task, stamping each with
// now() (the controller clock when now is nil), and returns the count.
func (c *Controller) MarkSelectedDone(now func() time.Time) (int, error) {
	if now == nil {
		now = c.now
	}

	var stamp *time.Time
	n := 0
	for _, id := range c.order {
		t := c.tasks[id]
		if !t.Selected || t.Done {
			continue
		}
		if stamp == nil {
			ts := now()
			stamp = &ts
		}
		completed := *stamp
		t.Done = true
		t.CompletedAt = &completed
		t.Selected = false
		n++
	}
	if n == 0 {
		return 0, reject(model.OpMarkDone, model.ErrNoSelection)
	}

	c.log.WithFields(logrus.Fields{"count": n, "at": *stamp}).Debug("tasks marked done")
	return n, nil
}

// DeleteSelected removes every selected task and returns the count.
func (c *Controller) DeleteSelected() (int, error) {
	kept := c.order[:0]
	n := 0
	for _, id := range c.order {
		if c.tasks[id].Selected {
			delete(c.tasks, id)
			n++
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	if n == 0 {
		return 0, reject(model.OpDelete, model.ErrNoSelection)
	}

	c.log.WithFields(logrus.Fields{"count": n, "total": len(c.order)}).Debug("selected tasks deleted")
	return n, nil
}

// ClearAll removes every task once the caller has confirmed. An unconfirmed
// clear leaves the list alone and returns 0 without error.
func (c *Controller) ClearAll(confirmed bool) (int, error) {
	if len(c.order) == 0 {
		return 0, reject(model.OpClear, model.ErrEmptyList)
	}
	if !confirmed {
		c.log.Debug("clear all cancelled")
		return 0, nil
	}

	n := len(c.order)
	c.tasks = make(map[model.ID]*model.Task)
	c.order = nil
	c.log.WithField("count", n).Debug("checklist cleared")
	return n, nil
}

// ------------- read side -------------

// Tasks returns copies of all tasks in creation order.
func (c *Controller) Tasks() []model.Task {
	out := make([]model.Task, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, copyTask(c.tasks[id]))
	}
	return out
}

func (c *Controller) Task(id model.ID) (model.Task, bool) {
	t, ok := c.tasks[id]
	if !ok {
		return model.Task{}, false
	}
	return copyTask(t), true
}

// Index returns the 0-based position of id, or -1.
func (c *Controller) Index(id model.ID) int {
	for i, v := range c.order {
		if v == id {
			return i
		}
	}
	return -1
}

// IDAt returns the ID at a 0-based position.
func (c *Controller) IDAt(i int) (model.ID, bool) {
	if i < 0 || i >= len(c.order) {
		return 0, false
	}
	return c.order[i], true
}

func (c *Controller) Len() int { return len(c.order) }

func (c *Controller) Stats() model.Stats {
	var s model.Stats
	for _, t := range c.tasks {
		if t.Done {
			s.Done++
		} else {
			s.Pending++
		}
		if t.Selected {
			s.Selected++
		}
	}
	s.Total = len(c.order)
	return s
}

func copyTask(t *model.Task) model.Task {
	out := *t
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		out.CompletedAt = &ts
	}
	return out
}
