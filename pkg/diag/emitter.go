package diag

import (
	"fmt"
	"io"
	"strings"
)

const (
	cRed   = "\033[31m"
	cGreen = "\033[32m"
	cNone  = "\033[0m"
)

// Emitter renders diagnostics for people: the report line, optionally
// followed by the source line and a caret under the offending column.
type Emitter struct {
	w      io.Writer
	source []rune
	Color  bool
	Caret  bool
}

func NewEmitter(w io.Writer, source string) *Emitter {
	return &Emitter{w: w, source: []rune(source)}
}

func (e *Emitter) Emit(d Diagnostic) {
	errWord := "error"
	if e.Color {
		errWord = cRed + "error" + cNone
	}
	fmt.Fprintf(e.w, "%s %s at line %d, column %d: %s\n", d.Stage, errWord, d.Line, d.Column, d.Message)
	if e.Caret {
		e.printSourceLine(d.Line, d.Column)
	}
}

func (e *Emitter) EmitAll(c *Collector) {
	for _, d := range c.diags {
		e.Emit(d)
	}
	if n := c.Dropped(); n > 0 {
		fmt.Fprintf(e.w, "(%d further diagnostic(s) dropped)\n", n)
	}
}

// printSourceLine prints the source line and a caret indicating the position
func (e *Emitter) printSourceLine(line, col int) {
	if line < 1 || col < 1 || len(e.source) == 0 {
		return
	}

	lineStart := 0
	for i, r := range e.source {
		if line <= 1 {
			break
		}
		if r == '\n' {
			line--
			lineStart = i + 1
		}
	}
	if line > 1 {
		return
	}

	lineEnd := len(e.source)
	for i := lineStart; i < len(e.source); i++ {
		if e.source[i] == '\n' {
			lineEnd = i
			break
		}
	}

	text := strings.TrimSuffix(string(e.source[lineStart:lineEnd]), "\r")
	text = strings.ReplaceAll(text, "\t", " ")
	fmt.Fprintf(e.w, "  %s\n", text)
	if e.Color {
		fmt.Fprintf(e.w, "  %s%s^%s\n", strings.Repeat(" ", col-1), cGreen, cNone)
	} else {
		fmt.Fprintf(e.w, "  %s^\n", strings.Repeat(" ", col-1))
	}
}
