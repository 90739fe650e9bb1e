package console

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/valyala/fasttemplate"
)

// DefaultLinkTemplate opens the file with the system handler.
const DefaultLinkTemplate = "file://{path}"

// Link template tags. Numbers are 1-based; an absent column renders as 1.
const (
	TagPath    = "path"
	TagRawPath = "raw_path"
	TagLine    = "line"
	TagColumn  = "column"
)

// LinkTemplate renders the URL of a navigable region, for example
// "vscode://file{path}:{line}:{column}".
type LinkTemplate struct {
	raw string
	tpl *fasttemplate.Template
}

// ParseLinkTemplate compiles a link template and checks its tags.
func ParseLinkTemplate(s string) (*LinkTemplate, error) {
	if s == "" {
		s = DefaultLinkTemplate
	}

	tpl, err := fasttemplate.NewTemplate(s, "{", "}")
	if err != nil {
		return nil, fmt.Errorf("invalid link template %q: %w", s, err)
	}

	_, err = tpl.ExecuteFunc(io.Discard, func(_ io.Writer, tag string) (int, error) {
		switch tag {
		case TagPath, TagRawPath, TagLine, TagColumn:
			return 0, nil
		default:
			return 0, fmt.Errorf("unknown tag {%s}", tag)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid link template %q: %w", s, err)
	}

	return &LinkTemplate{raw: s, tpl: tpl}, nil
}

// String returns the template source.
func (t *LinkTemplate) String() string {
	return t.raw
}

// Render returns the URL for target.
func (t *LinkTemplate) Render(target Target) string {
	return t.tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		switch tag {
		case TagPath:
			u := url.URL{Path: filepath.ToSlash(target.Path)}
			return io.WriteString(w, u.EscapedPath())
		case TagRawPath:
			return io.WriteString(w, target.Path)
		case TagLine:
			return io.WriteString(w, strconv.Itoa(target.Line+1))
		case TagColumn:
			col, ok := target.Column.Index()
			if !ok {
				col = 0
			}
			return io.WriteString(w, strconv.Itoa(col+1))
		}
		return 0, nil
	})
}
