package diag

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	DefaultCapacity = 20
	// MaxMessageLength bounds a stored message, in bytes.
	MaxMessageLength = 255
)

// Stage identifies the compiler phase that raised a diagnostic.
type Stage int

const (
	Lexer Stage = iota
	Parser
	Codegen
	stageCount
)

func (s Stage) Valid() bool { return s >= 0 && s < stageCount }

func (s Stage) String() string {
	switch s {
	case Lexer:
		return "LEXER"
	case Parser:
		return "PARSER"
	case Codegen:
		return "CODEGEN"
	default:
		return "UNKNOWN"
	}
}

type Diagnostic struct {
	Line    int
	Column  int
	Stage   Stage
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s error at line %d, column %d: %s", d.Stage, d.Line, d.Column, d.Message)
}

// Collector accumulates the diagnostics of a single compilation run in
// detection order. It is owned by that run and not safe for concurrent use.
type Collector struct {
	diags   []Diagnostic
	limit   int
	dropped int
}

func New() *Collector {
	return NewWithLimits(DefaultCapacity, 0)
}

// NewWithLimits reserves capacity slots. A positive limit caps the number of
// diagnostics kept; anything past it is counted by Dropped and discarded.
func NewWithLimits(capacity, limit int) *Collector {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if limit > 0 && capacity > limit {
		capacity = limit
	}
	return &Collector{diags: make([]Diagnostic, 0, capacity), limit: limit}
}

// Add records a diagnostic and reports whether it was stored. Negative
// positions, empty messages and unknown stages are ignored.
func (c *Collector) Add(line, column int, stage Stage, message string) bool {
	if c == nil || line < 0 || column < 0 || message == "" || !stage.Valid() {
		return false
	}
	if len(c.diags) == cap(c.diags) && !c.grow() {
		c.dropped++
		return false
	}
	c.diags = append(c.diags, Diagnostic{
		Line: line, Column: column, Stage: stage, Message: truncate(message),
	})
	return true
}

func (c *Collector) Errorf(line, column int, stage Stage, format string, args ...any) bool {
	return c.Add(line, column, stage, fmt.Sprintf(format, args...))
}

func (c *Collector) grow() bool {
	newCap := cap(c.diags) * 2
	if newCap == 0 {
		newCap = DefaultCapacity
	}
	if c.limit > 0 {
		if len(c.diags) >= c.limit {
			return false
		}
		newCap = min(newCap, c.limit)
	}
	grown := make([]Diagnostic, len(c.diags), newCap)
	copy(grown, c.diags)
	c.diags = grown
	return true
}

// truncate cuts msg to MaxMessageLength bytes without splitting a rune.
func truncate(msg string) string {
	if len(msg) <= MaxMessageLength {
		return strings.ToValidUTF8(msg, "")
	}
	cut := MaxMessageLength
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return strings.ToValidUTF8(msg[:cut], "")
}

func (c *Collector) Len() int       { return len(c.diags) }
func (c *Collector) HasErrors() bool { return len(c.diags) > 0 }
func (c *Collector) Dropped() int   { return c.dropped }

// Diagnostics returns a copy of the recorded diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Report writes every diagnostic, one per line, in insertion order.
func (c *Collector) Report(w io.Writer) error {
	for _, d := range c.diags {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) String() string {
	var sb strings.Builder
	_ = c.Report(&sb)
	return sb.String()
}

func (c *Collector) Release() {
	c.diags = nil
	c.dropped = 0
}
