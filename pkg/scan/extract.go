package scan

import (
	"strings"
	"unicode"

	"github.com/reviewdog/errorformat"

	"github.com/ccollicutt/errlink/pkg/location"
)

// Extractor finds diagnostics in the lines of one log file.
type Extractor interface {
	// Name identifies the extractor in reports.
	Name() string

	// Extract returns the diagnostics found in lines. All lines share the
	// same Source and are in file order.
	Extract(lines []Line) []Diagnostic
}

// LocationExtractor recognizes "[lead: ]path:line:[col:] message" lines.
type LocationExtractor struct{}

// Name returns "location".
func (LocationExtractor) Name() string {
	return "location"
}

// Extract parses each line on its own.
func (LocationExtractor) Extract(lines []Line) []Diagnostic {
	var diags []Diagnostic
	for _, line := range lines {
		loc, ok := location.Parse(line.Content)
		if !ok {
			continue
		}
		d := Diagnostic{
			Path:     loc.Path,
			Line:     loc.Line + 1,
			Severity: severityOf(loc.Prefix(), loc.Message),
			Message:  loc.Message,
			Source:   line.Source,
			LogLine:  line.LineNum,
		}
		if col, ok := loc.Column.Index(); ok {
			d.Column = col + 1
		}
		diags = append(diags, d)
	}
	return diags
}

// severityOf normalizes a leading label such as "e", "w" or "error". When
// the line has none, a gcc style "warning: " at the start of the message is
// used. Anything else counts as an error.
func severityOf(prefix, message string) string {
	if s, ok := severityWord(lastWord(prefix)); ok {
		return s
	}
	if i := strings.Index(message, location.Separator); i > 0 {
		if s, ok := severityWord(message[:i]); ok {
			return s
		}
	}
	return SeverityError
}

func lastWord(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func severityWord(word string) (string, bool) {
	switch strings.ToLower(word) {
	case "e", "error", "fatal error", "fatal":
		return SeverityError, true
	case "w", "warning", "warn":
		return SeverityWarning, true
	case "i", "info":
		return SeverityInfo, true
	case "n", "note":
		return SeverityNote, true
	}
	return "", false
}

// ErrorformatExtractor recognizes lines with vim errorformat definitions.
type ErrorformatExtractor struct {
	efm *errorformat.Errorformat
}

// NewErrorformatExtractor compiles the given errorformat lines.
func NewErrorformatExtractor(efms []string) (*ErrorformatExtractor, error) {
	efm, err := errorformat.NewErrorformat(efms)
	if err != nil {
		return nil, err
	}
	return &ErrorformatExtractor{efm: efm}, nil
}

// ErrorformatExtractorFor wraps an already compiled errorformat.
func ErrorformatExtractorFor(efm *errorformat.Errorformat) *ErrorformatExtractor {
	return &ErrorformatExtractor{efm: efm}
}

// Name returns "errorformat".
func (e *ErrorformatExtractor) Name() string {
	return "errorformat"
}

// Extract runs the errorformat scanner over lines. Multi-line entries are
// attributed to the log line where they start.
func (e *ErrorformatExtractor) Extract(lines []Line) []Diagnostic {
	if len(lines) == 0 {
		return nil
	}

	text := make([]string, len(lines))
	for i, line := range lines {
		text[i] = line.Content
	}

	var diags []Diagnostic
	cursor := 0
	s := e.efm.NewScanner(strings.NewReader(strings.Join(text, "\n")))
	for s.Scan() {
		entry := s.Entry()
		if !entry.Valid || entry.Filename == "" {
			continue
		}

		logLine := 0
		if len(entry.Lines) > 0 {
			for i := cursor; i < len(text); i++ {
				if text[i] == entry.Lines[0] {
					logLine = lines[i].LineNum
					cursor = i + 1
					break
				}
			}
		}

		diags = append(diags, Diagnostic{
			Path:     entry.Filename,
			Line:     entry.Lnum,
			Column:   entry.Col,
			Severity: severityOfType(entry.Type),
			Message:  entry.Text,
			Source:   lines[0].Source,
			LogLine:  logLine,
		})
	}
	return diags
}

func severityOfType(t rune) string {
	switch unicode.ToUpper(t) {
	case 'W':
		return SeverityWarning
	case 'I':
		return SeverityInfo
	case 'N':
		return SeverityNote
	}
	return SeverityError
}
