package diag

import (
	"fmt"
	"io"
	"strings"
)

// Diagnostic is one structured scan error: where it was detected and what
// went wrong. Line is 1-based; Column is the 1-based column of the offending
// character and Len the number of characters to underline.
type Diagnostic struct {
	FileIndex int
	Line      int
	Column    int
	Len       int
	Message   string
}

// Reporter receives diagnostics as the lexer produces them. The lexer never
// stops on an error; whether to accumulate, print, or bail belongs to the
// implementation behind this interface.
type Reporter interface {
	Report(d Diagnostic)
}

// Collector is the default Reporter: it appends every diagnostic in order.
type Collector struct {
	diags []Diagnostic
}

func (c *Collector) Report(d Diagnostic) { c.diags = append(c.diags, d) }

func (c *Collector) HasErrors() bool { return len(c.diags) > 0 }

func (c *Collector) Diagnostics() []Diagnostic { return c.diags }

// Reset drops accumulated diagnostics so the collector can service another
// scan, e.g. between REPL lines.
func (c *Collector) Reset() { c.diags = c.diags[:0] }

// SourceFile pairs a display name with the content a lexer scanned, so a
// diagnostic's FileIndex can be resolved back to a name and a source line.
type SourceFile struct {
	Name    string
	Content []rune
}

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

// Fprint renders one diagnostic as `file:line:col: error: msg` followed by
// the offending source line with a caret underneath.
func Fprint(w io.Writer, files []SourceFile, d Diagnostic, color bool) {
	name := "unknown"
	if d.FileIndex >= 0 && d.FileIndex < len(files) {
		name = files[d.FileIndex].Name
	}
	if color {
		fmt.Fprintf(w, "%s:%d:%d: %serror:%s %s\n", name, d.Line, d.Column, colorRed, colorReset, d.Message)
	} else {
		fmt.Fprintf(w, "%s:%d:%d: error: %s\n", name, d.Line, d.Column, d.Message)
	}
	printSourceLine(w, files, d, color)
}

// FprintAll renders every collected diagnostic in report order.
func FprintAll(w io.Writer, files []SourceFile, diags []Diagnostic, color bool) {
	for _, d := range diags {
		Fprint(w, files, d, color)
	}
}

func printSourceLine(w io.Writer, files []SourceFile, d Diagnostic, color bool) {
	if d.FileIndex < 0 || d.FileIndex >= len(files) || d.Line == 0 || d.Column == 0 {
		return
	}

	content := files[d.FileIndex].Content
	lineNum := d.Line
	lineStart := 0
	for i, r := range content {
		if lineNum <= 1 {
			break
		}
		if r == '\n' {
			lineNum--
			lineStart = i + 1
		}
	}

	lineEnd := len(content)
	for i := lineStart; i < len(content); i++ {
		if content[i] == '\n' {
			lineEnd = i
			break
		}
	}

	fmt.Fprintf(w, "  %s\n", string(content[lineStart:lineEnd]))

	caret := "^"
	if d.Len > 1 {
		caret += strings.Repeat("~", d.Len-1)
	}
	pad := strings.Repeat(" ", d.Column-1)
	if color {
		fmt.Fprintf(w, "  %s%s%s%s\n", pad, colorGreen, caret, colorReset)
	} else {
		fmt.Fprintf(w, "  %s%s\n", pad, caret)
	}
}
