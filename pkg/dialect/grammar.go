package dialect

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// buildLexer tokenizes one line of tool output. Rules are tried in order, so
// Path comes before Word and Number, and Punct catches everything else.
var buildLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "URI", Pattern: `file://`},
	{Name: "Arrow", Pattern: `-->`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Path", Pattern: `(?:[A-Za-z]:)?[\\/]?(?:[\w.\-]+[\\/])*[\w\-]+(?:\.[\w\-]+)+`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Word", Pattern: `[A-Za-z_]\w*`},
	{Name: "Punct", Pattern: `.`},
})

var parserOptions = []participle.Option{
	participle.Lexer(buildLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
}

// Position is the source location a grammar pulled out of a line.
type Position struct {
	Path   string
	Line   int
	Column int
}

type located interface {
	position() (Position, bool)
}

// compile builds a participle parser for grammar G and returns a matcher
// reporting the position of lines that parse.
func compile[G any, P interface {
	*G
	located
}]() func(string) (Position, bool) {
	parser := participle.MustBuild[G](parserOptions...)
	return func(line string) (Position, bool) {
		g, err := parser.ParseString("", line)
		if err != nil {
			return Position{}, false
		}
		return P(g).position()
	}
}

// src/main.c:3:10: error: expected ';'
type gnuLine struct {
	Path     string   `@Path ":"`
	Line     int      `@Number ":"`
	Column   int      `@Number ":"`
	Severity string   `@("error" | "warning" | "note" | "fatal")`
	Rest     []string `( @Word | @Number | @Path | @String | @URI | @Arrow | @Punct )*`
}

func (g *gnuLine) position() (Position, bool) {
	return Position{Path: g.Path, Line: g.Line, Column: g.Column}, true
}

// Foo.java:12: error: cannot find symbol
type javacLine struct {
	Path     string   `@Path ":"`
	Line     int      `@Number ":"`
	Severity string   `@("error" | "warning")`
	Rest     []string `( @Word | @Number | @Path | @String | @URI | @Arrow | @Punct )*`
}

func (g *javacLine) position() (Position, bool) {
	if !strings.HasSuffix(g.Path, ".java") {
		return Position{}, false
	}
	return Position{Path: g.Path, Line: g.Line}, true
}

// e: file:///p/Foo.kt:(12, 5): unresolved reference
type kotlincLine struct {
	Severity string   `@("e" | "w") ":"`
	Path     string   `URI @Path ":"`
	Line     int      `"(" @Number ","`
	Column   int      `@Number ")" ":"`
	Rest     []string `( @Word | @Number | @Path | @String | @URI | @Arrow | @Punct )*`
}

func (g *kotlincLine) position() (Position, bool) {
	return Position{Path: g.Path, Line: g.Line, Column: g.Column}, true
}

// e: /p/Foo.kt: (12, 5): unresolved reference
type gradleKotlinLine struct {
	Severity string   `@("e" | "w") ":"`
	Path     string   `@Path ":"`
	Line     int      `"(" @Number ","`
	Column   int      `@Number ")" ":"`
	Rest     []string `( @Word | @Number | @Path | @String | @URI | @Arrow | @Punct )*`
}

func (g *gradleKotlinLine) position() (Position, bool) {
	return Position{Path: g.Path, Line: g.Line, Column: g.Column}, true
}

//	--> src/main.rs:5:5
type rustArrowLine struct {
	Path   string   `Arrow @Path ":"`
	Line   int      `@Number ":"`
	Column int      `@Number`
	Rest   []string `( @Word | @Number | @Path | @String | @URI | @Arrow | @Punct )*`
}

func (g *rustArrowLine) position() (Position, bool) {
	return Position{Path: g.Path, Line: g.Line, Column: g.Column}, true
}

//	File "app/main.py", line 3, in <module>
type pythonLine struct {
	Path string   `"File" @String ","`
	Line int      `"line" @Number`
	Rest []string `( @Word | @Number | @Path | @String | @URI | @Arrow | @Punct )*`
}

func (g *pythonLine) position() (Position, bool) {
	return Position{Path: strings.Trim(g.Path, `"`), Line: g.Line}, true
}
