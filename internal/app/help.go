package app

import (
	"os"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/harel-coffee/tspipe-auto/internal/catalog"
)

// renderHelp prints the sorted, column-aligned task listing to the app's
// output writer.
func (a *App) renderHelp() error {
	entries := catalog.Extract(a.model.Tasks)
	opts := a.renderOptions()
	a.logger.Debug("Rendering help catalog.", "entries", len(entries), "width", opts.Width, "color", opts.Color)
	return catalog.Render(a.outW, entries, opts)
}

// renderOptions resolves terminal width and color capability. Anything
// that is not a real terminal (test buffers, pipes) degrades to a plain
// 80-column listing, the same way tput-based scripts degrade when the
// terminal cannot be queried.
func (a *App) renderOptions() catalog.RenderOptions {
	opts := catalog.RenderOptions{Width: 80}

	f, ok := a.outW.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return opts
	}

	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		opts.Width = w
	}
	opts.Color = !a.config.NoColor && color.IsSupportColor()
	return opts
}
