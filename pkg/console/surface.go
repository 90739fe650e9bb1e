// Package console routes the output of a build process to a presentation
// surface, turning error lines that name source locations into navigable
// regions.
package console

import "github.com/ccollicutt/errlink/pkg/location"

// Kind is the content type of printed text.
type Kind int

const (
	// Normal is regular process output.
	Normal Kind = iota
	// Error is error output of the process.
	Error
	// System is text produced by errlink itself.
	System
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Error:
		return "error"
	case System:
		return "system"
	default:
		return "unknown"
	}
}

// Target is the destination of a navigable region.
type Target struct {
	// Path is the resolved file path.
	Path string

	// Line is the zero-based line.
	Line int

	// Column is the zero-based column, if known.
	Column location.Column
}

// Surface is where console output is presented. Implementations need not be
// safe for concurrent use; Console serializes all calls.
type Surface interface {
	// Clear removes previous output.
	Clear()

	// Show makes the surface visible, optionally taking focus.
	Show(focus bool)

	// Hide makes the surface invisible.
	Hide()

	// Print appends text of the given kind.
	Print(text string, kind Kind)

	// PrintLink appends text that navigates to target when activated.
	PrintLink(text string, target Target)
}
