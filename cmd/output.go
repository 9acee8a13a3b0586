package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vrcfetch/internal"
	"vrcfetch/utils"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// stdout is where results go when --output is not set
var stdout io.Writer = os.Stdout

// field is one labelled value of a text card
type field struct {
	label string
	value string
}

// styles renders text output for one destination
type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	muted lipgloss.Style
	box   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		label: r.NewStyle().Foreground(lipgloss.Color("245")),
		muted: r.NewStyle().Faint(true),
		box:   r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// card renders a titled box of label/value rows. Empty values are skipped.
func (s styles) card(title string, fields []field) string {
	width := 0
	for _, f := range fields {
		if f.value != "" && len(f.label) > width {
			width = len(f.label)
		}
	}

	lines := []string{s.title.Render(title)}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		label := s.label.Render(fmt.Sprintf("%-*s", width, f.label))
		lines = append(lines, label+"  "+f.value)
	}
	return s.box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// table renders rows as aligned columns under a title
func (s styles) table(title string, header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	pad := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	lines := []string{s.title.Render(title), s.label.Render(pad(header))}
	for _, row := range rows {
		lines = append(lines, pad(row))
	}
	if len(rows) == 0 {
		lines = append(lines, s.muted.Render("(none)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// emit writes v as JSON, or the text rendering, to stdout or --output
func emit(v any, text func(styles) string) error {
	var buf bytes.Buffer

	switch format {
	case formatJSON:
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
	case formatText:
		var target io.Writer = &buf
		if outputPath == "" {
			target = stdout
		}
		buf.WriteString(text(newStyles(target)))
		buf.WriteByte('\n')
	default:
		return internal.NewValidationErrorWithValue("format", "unknown output format", format).
			WithSuggestion("Use json or text")
	}

	if outputPath != "" {
		if err := utils.NewFileOperations().WriteFileAtomic(outputPath, buf.Bytes(), 0o644); err != nil {
			return err
		}
		internal.LogInfo("Wrote %d bytes to %s", buf.Len(), outputPath)
		return nil
	}

	_, err := stdout.Write(buf.Bytes())
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
