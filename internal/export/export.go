// Package export writes one-way reports of the checklist. Reports are never
// read back; the checklist itself only lives in memory.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/encoding/charmap"

	"github.com/idilsaglam/checklist/internal/model"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the accepted format names.
var Formats = []string{"json", "markdown", "html", "pdf"}

// Options shape every report.
type Options struct {
	Title      string
	TimeFormat string
	// FontFile is a TrueType font used for PDF reports. Without it the core
	// Arial font is used and runes outside Windows-1252 print as '?'.
	FontFile string
}

// Ext returns the file extension used for format.
func Ext(format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return "json", nil
	case "markdown", "md":
		return "md", nil
	case "html":
		return "html", nil
	case "pdf":
		return "pdf", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Write renders tasks in format to w.
func Write(w io.Writer, format string, tasks []model.Task, opt Options) error {
	if opt.TimeFormat == "" {
		opt.TimeFormat = "2006-01-02 15:04"
	}
	switch strings.ToLower(format) {
	case "json":
		return writeJSON(w, tasks, opt)
	case "markdown", "md":
		_, err := io.WriteString(w, Markdown(tasks, opt))
		return err
	case "html":
		return writeHTML(w, tasks, opt)
	case "pdf":
		return writePDF(w, tasks, opt)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteFile writes the report to path, creating parent directories.
func WriteFile(path, format string, tasks []model.Task, opt Options) error {
	var buf bytes.Buffer
	if err := Write(&buf, format, tasks, opt); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

type jsonTask struct {
	Text        string `json:"text"`
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type jsonReport struct {
	Title string     `json:"title"`
	Tasks []jsonTask `json:"tasks"`
}

func writeJSON(w io.Writer, tasks []model.Task, opt Options) error {
	r := jsonReport{Title: opt.Title, Tasks: make([]jsonTask, 0, len(tasks))}
	for _, t := range tasks {
		r.Tasks = append(r.Tasks, jsonTask{
			Text:        t.Text,
			Status:      t.Status(),
			CompletedAt: stamp(t.CompletedAt, opt.TimeFormat),
		})
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Markdown renders a GFM task list.
func Markdown(tasks []model.Task, opt Options) string {
	var b strings.Builder
	if opt.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", opt.Title)
	}
	if len(tasks) == 0 {
		b.WriteString("_No tasks._\n")
		return b.String()
	}
	for _, t := range tasks {
		box := " "
		if t.Done {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", box, escapeMarkdown(t.Text))
		if s := stamp(t.CompletedAt, opt.TimeFormat); s != "" {
			fmt.Fprintf(&b, " (completed %s)", s)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeHTML(w io.Writer, tasks []model.Task, opt Options) error {
	md := goldmark.New(goldmark.WithExtensions(extension.TaskList))
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(tasks, opt)), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(opt.Title), body.String())
	return err
}

func writePDF(w io.Writer, tasks []model.Task, opt Options) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Arial"
	var tr func(string) string
	if opt.FontFile != "" {
		ttf, err := os.ReadFile(opt.FontFile)
		if err != nil {
			return fmt.Errorf("load font: %w", err)
		}
		family = "body"
		pdf.AddUTF8FontFromBytes(family, "", ttf)
		pdf.AddUTF8FontFromBytes(family, "B", ttf)
		tr = func(s string) string { return s }
	} else {
		cp := pdf.UnicodeTranslatorFromDescriptor("")
		tr = func(s string) string { return cp(latin(s)) }
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	pdf.AddPage()
	pdf.SetFont(family, "B", 16)
	pdf.Cell(40, 10, tr(opt.Title))
	pdf.Ln(12)
	pdf.SetFont(family, "", 11)
	if len(tasks) == 0 {
		pdf.Cell(40, 8, "No tasks.")
	}
	for _, t := range tasks {
		pdf.MultiCell(0, 7, tr(pdfLine(t, opt.TimeFormat)), "0", "L", false)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func pdfLine(t model.Task, layout string) string {
	box := "[ ]"
	if t.Done {
		box = "[x]"
	}
	line := box + " " + t.Text
	if s := stamp(t.CompletedAt, layout); s != "" {
		line += "  (completed " + s + ")"
	}
	return line
}

// latin replaces runes the core PDF fonts cannot encode.
func latin(s string) string {
	return strings.Map(func(r rune) rune {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return '?'
		}
		return r
	}, s)
}

func stamp(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", `\<`, "#", `\#`,
)

func escapeMarkdown(s string) string { return mdEscaper.Replace(s) }
