package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Mode selects when a terminal feature is enabled.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// Valid reports whether m is a known mode. The empty mode counts as auto.
func (m Mode) Valid() bool {
	switch m {
	case "", ModeAuto, ModeAlways, ModeNever:
		return true
	}
	return false
}

// enabled resolves the mode for a writer.
func (m Mode) enabled(w io.Writer) bool {
	switch m {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		return isTerminal(w)
	}
}

// TerminalOptions configures a Terminal.
type TerminalOptions struct {
	Color      Mode
	Hyperlinks Mode

	// Links renders hyperlink URLs. DefaultLinkTemplate is used when nil.
	Links *LinkTemplate
}

// Terminal is a Surface that writes to a text stream. Navigable regions are
// emitted as OSC 8 hyperlinks when enabled.
type Terminal struct {
	w          io.Writer
	links      *LinkTemplate
	hyperlinks bool

	errText *color.Color
	sysText *color.Color
	link    *color.Color
}

// NewTerminal creates a Terminal writing to w.
func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	links := opts.Links
	if links == nil {
		links, _ = ParseLinkTemplate(DefaultLinkTemplate)
	}

	t := &Terminal{
		w:          w,
		links:      links,
		hyperlinks: opts.Hyperlinks.enabled(w),
		errText:    color.New(color.FgRed),
		sysText:    color.New(color.FgYellow, color.Bold),
		link:       color.New(color.FgCyan, color.Underline),
	}

	useColor := opts.Color.enabled(w)
	if opts.Color != ModeAlways && os.Getenv("NO_COLOR") != "" {
		useColor = false
	}
	for _, c := range []*color.Color{t.errText, t.sysText, t.link} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// Clear is a no-op; terminal output is append-only.
func (t *Terminal) Clear() {}

// Show is a no-op.
func (t *Terminal) Show(bool) {}

// Hide is a no-op.
func (t *Terminal) Hide() {}

// Print writes text in the style of kind.
func (t *Terminal) Print(text string, kind Kind) {
	if text == "\n" {
		_, _ = io.WriteString(t.w, text)
		return
	}

	switch kind {
	case Error:
		_, _ = t.errText.Fprint(t.w, text)
	case System:
		_, _ = t.sysText.Fprint(t.w, text)
	default:
		_, _ = io.WriteString(t.w, text)
	}
}

// PrintLink writes text as a hyperlink to target.
func (t *Terminal) PrintLink(text string, target Target) {
	styled := t.link.Sprint(text)
	if !t.hyperlinks {
		_, _ = io.WriteString(t.w, styled)
		return
	}
	_, _ = fmt.Fprintf(t.w, "\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", t.links.Render(target), styled)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
