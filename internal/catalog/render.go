package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mitchellh/go-wordwrap"
)

// nameFieldWidth is the column the task name is right-aligned into.
const nameFieldWidth = 19

// gutterWidth separates the name column from the description column.
const gutterWidth = 2

// RenderOptions controls terminal-dependent formatting.
type RenderOptions struct {
	// Width is the terminal width in columns. Values too narrow to be
	// useful are clamped.
	Width int

	// Color highlights task names. Callers disable it when stdout is not
	// a terminal or the terminal reports no color support.
	Color bool
}

// Render writes the formatted listing. Each entry occupies one line, or a
// wrapped block whose continuation lines are indented to align under the
// description column.
func Render(w io.Writer, entries []Entry, opts RenderOptions) error {
	if opts.Width < nameFieldWidth+gutterWidth+20 {
		opts.Width = 80
	}
	descWidth := opts.Width - nameFieldWidth - gutterWidth
	indent := strings.Repeat(" ", nameFieldWidth+gutterWidth)

	if _, err := fmt.Fprintln(w, "Available tasks:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for _, entry := range entries {
		name := fmt.Sprintf("%*s", nameFieldWidth, entry.Name)
		if opts.Color {
			name = color.Cyan.Render(name)
		}

		wrapped := wordwrap.WrapString(entry.Description, uint(descWidth))
		lines := strings.Split(wrapped, "\n")

		if _, err := fmt.Fprintf(w, "%s%s%s\n", name, strings.Repeat(" ", gutterWidth), lines[0]); err != nil {
			return err
		}
		for _, line := range lines[1:] {
			if _, err := fmt.Fprintf(w, "%s%s\n", indent, line); err != nil {
				return err
			}
		}
	}
	return nil
}
