package dialect

// Dialect is a well-known shape of build tool diagnostics.
type Dialect struct {
	// Name identifies the dialect on the command line and in reports.
	Name string

	// Description names the tools that print this shape.
	Description string

	// Example is a representative line.
	Example string

	// Linkable is true when the built-in location parser recognizes the
	// dialect, so run and filter can link it without configuration.
	Linkable bool

	// Errorformat is a suggested errorformat definition for scan when the
	// dialect is not linkable.
	Errorformat []string

	match func(string) (Position, bool)
}

// Match reports whether line has the dialect's shape and where it points.
func (d *Dialect) Match(line string) (Position, bool) {
	return d.match(line)
}

// DefaultDialects returns the built-in dialects, most specific first.
func DefaultDialects() []*Dialect {
	return []*Dialect{
		{
			Name:        "gnu",
			Description: "gcc, clang, go, ld and other GNU style tools",
			Example:     "src/main.c:3:10: error: expected ';'",
			Linkable:    true,
			match:       compile[gnuLine](),
		},
		{
			Name:        "javac",
			Description: "javac and the Gradle/Maven java compilers",
			Example:     "src/Foo.java:12: error: cannot find symbol",
			Linkable:    true,
			match:       compile[javacLine](),
		},
		{
			Name:        "kotlinc",
			Description: "kotlinc with file URI locations",
			Example:     "e: file:///p/Foo.kt:(12, 5): unresolved reference",
			Errorformat: []string{`%t: file://%f:(%l, %c): %m`},
			match:       compile[kotlincLine](),
		},
		{
			Name:        "gradle-kotlin",
			Description: "Gradle Kotlin plugin",
			Example:     "e: /p/Foo.kt: (12, 5): unresolved reference",
			Errorformat: []string{`%t: %f: (%l, %c): %m`},
			match:       compile[gradleKotlinLine](),
		},
		{
			Name:        "rustc-arrow",
			Description: "rustc and cargo location lines",
			Example:     "  --> src/main.rs:5:5",
			Errorformat: []string{`%.%#--> %f:%l:%c`},
			match:       compile[rustArrowLine](),
		},
		{
			Name:        "python",
			Description: "Python tracebacks",
			Example:     `  File "app/main.py", line 3, in <module>`,
			Errorformat: []string{`%.%#File "%f", line %l%.%#`},
			match:       compile[pythonLine](),
		},
	}
}
