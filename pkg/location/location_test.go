package location

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var allowColumn = cmp.AllowUnexported(Column{})

func TestParse_Matches(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Location
	}{
		{
			name: "no prefix no column",
			line: "a.txt:10: boom",
			want: Location{Path: "a.txt", Line: 9, Column: NoColumn, Message: "boom", Span: "a.txt:10"},
		},
		{
			name: "prefix and column",
			line: "error: src/Foo.kt:42:7: unexpected token",
			want: Location{
				Lead:    "error: ",
				Path:    "src/Foo.kt",
				Line:    41,
				Column:  At(6),
				Message: "unexpected token",
				Span:    "src/Foo.kt:42:7",
			},
		},
		{
			name: "gcc severity stays in message",
			line: "src/main.c:3:10: error: expected ';'",
			want: Location{Path: "src/main.c", Line: 2, Column: At(9), Message: "error: expected ';'", Span: "src/main.c:3:10"},
		},
		{
			name: "windows drive letter",
			line: `C:\src\main.c:12:5: warning: unused`,
			want: Location{Path: `C:\src\main.c`, Line: 11, Column: At(4), Message: "warning: unused", Span: `C:\src\main.c:12:5`},
		},
		{
			name: "longest lead wins",
			line: "FAILED: ninja: out/x.cpp:5: oops",
			want: Location{Lead: "FAILED: ninja: ", Path: "out/x.cpp", Line: 4, Column: NoColumn, Message: "oops", Span: "out/x.cpp:5"},
		},
		{
			name: "message with separators",
			line: "a.go:1:2: x: y: z",
			want: Location{Path: "a.go", Line: 0, Column: At(1), Message: "x: y: z", Span: "a.go:1:2"},
		},
		{
			name: "empty message",
			line: "a.go:1: ",
			want: Location{Path: "a.go", Line: 0, Column: NoColumn, Message: "", Span: "a.go:1"},
		},
		{
			name: "column zero is absent",
			line: "f.c:3:0: m",
			want: Location{Path: "f.c", Line: 2, Column: NoColumn, Message: "m", Span: "f.c:3:0"},
		},
		{
			name: "path containing numbers between colons",
			line: "dir:7:file.c:3:4: m",
			want: Location{Path: "dir:7:file.c", Line: 2, Column: At(3), Message: "m", Span: "dir:7:file.c:3:4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.line)
			if !ok {
				t.Fatalf("Parse(%q) found no location", tt.line)
			}
			if diff := cmp.Diff(tt.want, got, allowColumn); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestParse_NoMatch(t *testing.T) {
	lines := []string{
		"Building project...",
		"",
		"x.c:0: boom",
		"x.c:abc: boom",
		"a.txt:10:20 boom",
		"f.c:99999999999999999999: m",
		"e: /p/Foo.kt: (12, 5): Unresolved reference",
		"BUILD SUCCESSFUL in 3s",
	}

	for _, line := range lines {
		if loc, ok := Parse(line); ok {
			t.Errorf("Parse(%q) = %+v, want no match", line, loc)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	lines := []string{
		"a.txt:10: boom",
		"error: src/Foo.kt:42:7: unexpected token",
		"FAILED: ninja: out/x.cpp:5: oops",
		"w: build.gradle:1:1: deprecated: use plugins {}",
		"./main.go:4:2: undefined: fmt",
		"a.go:1: ",
	}

	for _, line := range lines {
		loc, ok := Parse(line)
		if !ok {
			t.Fatalf("Parse(%q) found no location", line)
		}
		if got := loc.Lead + loc.Span + Separator + loc.Message; got != line {
			t.Errorf("reassembled %q, want %q", got, line)
		}
		if loc.Text() != line {
			t.Errorf("Text() = %q, want %q", loc.Text(), line)
		}
	}
}

func TestParse_LineIsZeroBased(t *testing.T) {
	for _, n := range []string{"1", "2", "42", "1000"} {
		loc, ok := Parse("f.go:" + n + ": m")
		if !ok {
			t.Fatalf("Parse with line %s found no location", n)
		}
		if got := loc.String(); got != "f.go:"+n {
			t.Errorf("String() = %q, want %q", got, "f.go:"+n)
		}
	}
}

func TestLocation_Prefix(t *testing.T) {
	loc, _ := Parse("error: src/Foo.kt:42:7: unexpected token")
	if !loc.HasPrefix() {
		t.Fatal("HasPrefix() = false, want true")
	}
	if loc.Prefix() != "error" {
		t.Errorf("Prefix() = %q, want %q", loc.Prefix(), "error")
	}

	loc, _ = Parse("a.txt:10: boom")
	if loc.HasPrefix() {
		t.Error("HasPrefix() = true for line without a label")
	}
	if loc.Prefix() != "" {
		t.Errorf("Prefix() = %q, want empty", loc.Prefix())
	}
}

func TestColumn(t *testing.T) {
	if _, ok := NoColumn.Index(); ok {
		t.Error("NoColumn.Index() reported present")
	}
	if NoColumn.String() != "-" {
		t.Errorf("NoColumn.String() = %q, want -", NoColumn.String())
	}

	c := At(6)
	idx, ok := c.Index()
	if !ok || idx != 6 {
		t.Errorf("At(6).Index() = %d, %v; want 6, true", idx, ok)
	}
	if c.String() != "7" {
		t.Errorf("At(6).String() = %q, want 7", c.String())
	}
}

func TestLocation_String(t *testing.T) {
	loc, _ := Parse("error: src/Foo.kt:42:7: unexpected token")
	if got := loc.String(); got != "src/Foo.kt:42:7" {
		t.Errorf("String() = %q, want src/Foo.kt:42:7", got)
	}
}
