// Package location extracts source file locations from build tool output lines.
//
// A line such as
//
//	error: src/Foo.kt:42:7: unexpected token
//
// carries an optional lead ("error: "), a location span ("src/Foo.kt:42:7")
// and a message ("unexpected token"). Parse splits the line so a consumer can
// render [lead][span][": "][message] and get the original line back.
package location

import (
	"regexp"
	"strconv"
	"strings"
)

// Separator sits between the location span and the message.
const Separator = ": "

// filePosition matches "[<lead>: ]<path>:<line>:[<column>:] <message>".
// Groups: 1 lead, 2 path, 3 line, 4 column, 5 message.
var filePosition = regexp.MustCompile(`(.*: )?(.+?):(\d+):(?:(\d+):)? (.*)$`)

// Column is a zero-based column that may be absent from the source text.
type Column struct {
	index   int
	present bool
}

// NoColumn is the column of a location whose text carried no column number.
var NoColumn = Column{}

// At returns a present column with the given zero-based index.
func At(index int) Column {
	return Column{index: index, present: true}
}

// Index returns the zero-based column and whether it is present.
func (c Column) Index() (int, bool) {
	return c.index, c.present
}

// Present reports whether the column was given in the text.
func (c Column) Present() bool {
	return c.present
}

// String returns the 1-based column, or "-" when absent.
func (c Column) String() string {
	if !c.present {
		return "-"
	}
	return strconv.Itoa(c.index + 1)
}

// Location is a source location found in one output line.
type Location struct {
	// Lead is the text before the span including its trailing ": ", or
	// empty when the line has no leading label.
	Lead string

	// Path is the file path exactly as it appeared in the line.
	Path string

	// Line is the zero-based line number.
	Line int

	// Column is the zero-based column, if any.
	Column Column

	// Message is everything after the span separator.
	Message string

	// Span is the substring between the lead and the separator before the
	// message. It is the text a consumer renders as a navigable region.
	Span string
}

// HasPrefix reports whether the line carried a leading label.
func (l Location) HasPrefix() bool {
	return l.Lead != ""
}

// Prefix returns the leading label without its ": " separator.
func (l Location) Prefix() string {
	return strings.TrimSuffix(l.Lead, Separator)
}

// Text reassembles the matched portion of the line.
func (l Location) Text() string {
	return l.Lead + l.Span + Separator + l.Message
}

// String formats the location as path:line[:column] with 1-based numbers.
func (l Location) String() string {
	s := l.Path + ":" + strconv.Itoa(l.Line+1)
	if l.Column.present {
		s += ":" + strconv.Itoa(l.Column.index+1)
	}
	return s
}

// Parse finds a source location in line. It returns false when the line
// carries none, including lines whose line number is zero or too large to
// represent. A column of zero is reported as absent.
//
// Parse is a pure function and is safe for concurrent use.
func Parse(line string) (Location, bool) {
	m := filePosition.FindStringSubmatchIndex(line)
	if m == nil {
		return Location{}, false
	}

	lineNo, ok := oneBased(line[m[6]:m[7]])
	if !ok {
		return Location{}, false
	}

	loc := Location{
		Path:    line[m[4]:m[5]],
		Line:    lineNo - 1,
		Message: line[m[10]:m[11]],
	}

	spanStart := m[0]
	if m[2] >= 0 {
		loc.Lead = line[m[2]:m[3]]
		spanStart = m[3]
	}

	if m[8] >= 0 {
		if col, ok := oneBased(line[m[8]:m[9]]); ok {
			loc.Column = At(col - 1)
		}
	}

	loc.Span = line[spanStart : m[10]-len(Separator)]
	return loc, true
}

// oneBased parses a 1-based decimal number.
func oneBased(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
