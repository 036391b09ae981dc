package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/checklist/internal/model"
)

func sample() []model.Task {
	at := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	return []model.Task{
		{ID: 1, Text: "Buy milk", Done: true, CompletedAt: &at},
		{ID: 2, Text: "Walk *dog*", Selected: true},
	}
}

var opts = Options{Title: "My Checklist", TimeFormat: "2006-01-02 15:04"}

func TestMarkdown(t *testing.T) {
	want := "# My Checklist\n\n" +
		"- [x] Buy milk (completed 2024-03-09 14:30)\n" +
		"- [ ] Walk \\*dog\\*\n"
	assert.Equal(t, want, Markdown(sample(), opts))
}

func TestMarkdownEmpty(t *testing.T) {
	assert.Equal(t, "# My Checklist\n\n_No tasks._\n", Markdown(nil, opts))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", sample(), opts))

	var got jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "My Checklist", got.Title)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, jsonTask{Text: "Buy milk", Status: "done", CompletedAt: "2024-03-09 14:30"}, got.Tasks[0])
	assert.Equal(t, jsonTask{Text: "Walk *dog*", Status: "pending"}, got.Tasks[1])
	assert.NotContains(t, buf.String(), "selected")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "HTML", sample(), Options{Title: "A & B"}))

	out := buf.String()
	assert.Contains(t, out, "<title>A &amp; B</title>")
	assert.Contains(t, out, `type="checkbox"`)
	assert.Contains(t, out, `checked=""`)
	assert.Contains(t, out, "Walk *dog*")
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "pdf", sample(), opts))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFTextOutsideCoreFont(t *testing.T) {
	assert.Equal(t, "Caf\u00e9 ? list ?", latin("Caf\u00e9 \U0001F6D2 list \u65e5"))
	assert.Equal(t, "[x] Ship it \u20ac  (completed 2024-03-09 14:30)",
		pdfLine(model.Task{Text: "Ship it \u20ac", Done: true, CompletedAt: sample()[0].CompletedAt}, opts.TimeFormat))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "pdf", []model.Task{{Text: "\U0001F6D2 groceries"}}, opts))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDFMissingFont(t *testing.T) {
	o := opts
	o.FontFile = filepath.Join(t.TempDir(), "missing.ttf")
	err := Write(&bytes.Buffer{}, "pdf", sample(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load font")
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "docx", sample(), opts)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Ext("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExt(t *testing.T) {
	for format, want := range map[string]string{"json": "json", "markdown": "md", "md": "md", "html": "html", "PDF": "pdf"} {
		got, err := Ext(format)
		require.NoError(t, err)
		assert.Equal(t, want, got, format)
	}
}

func TestWriteFileCreatesDirs(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "checklist.md")
	require.NoError(t, WriteFile(p, "markdown", sample(), opts))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "- [x] Buy milk")
}
