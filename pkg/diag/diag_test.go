package diag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestStageNames(t *testing.T) {
	cases := map[Stage]string{Lexer: "LEXER", Parser: "PARSER", Codegen: "CODEGEN", Stage(7): "UNKNOWN"}
	for stage, want := range cases {
		if got := stage.String(); got != want {
			t.Errorf("Stage(%d).String() = %q, want %q", int(stage), got, want)
		}
	}
}

func TestAddAndReportInOrder(t *testing.T) {
	c := New()
	c.Add(1, 3, Lexer, "unrecognized or invalid token '@'")
	c.Add(2, 1, Parser, "Unexpected token 'x' of type 'IDENTIFIER'.")
	c.Errorf(0, 0, Codegen, "no %s", "output")

	want := "LEXER error at line 1, column 3: unrecognized or invalid token '@'\n" +
		"PARSER error at line 2, column 1: Unexpected token 'x' of type 'IDENTIFIER'.\n" +
		"CODEGEN error at line 0, column 0: no output\n"

	var sb strings.Builder
	if err := c.Report(&sb); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
	// Reporting is a pure read.
	if diff := cmp.Diff(want, c.String()); diff != "" {
		t.Errorf("second report differs (-want +got):\n%s", diff)
	}
	if c.Len() != 3 || !c.HasErrors() {
		t.Errorf("Len() = %d, HasErrors() = %v", c.Len(), c.HasErrors())
	}
}

func TestAddRejectsMisuse(t *testing.T) {
	c := New()
	rejected := []struct {
		name    string
		line    int
		col     int
		stage   Stage
		message string
	}{
		{"negative line", -1, 1, Lexer, "m"},
		{"negative column", 1, -1, Lexer, "m"},
		{"empty message", 1, 1, Lexer, ""},
		{"stage below range", 1, 1, Stage(-1), "m"},
		{"stage above range", 1, 1, stageCount, "m"},
	}
	for _, r := range rejected {
		if c.Add(r.line, r.col, r.stage, r.message) {
			t.Errorf("%s: Add accepted the diagnostic", r.name)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after rejected adds", c.Len())
	}

	var nilCollector *Collector
	if nilCollector.Add(1, 1, Lexer, "m") {
		t.Error("Add on nil collector reported success")
	}
}

func TestMessageTruncation(t *testing.T) {
	c := New()
	c.Add(1, 1, Lexer, strings.Repeat("a", 400))
	if got := len(c.Diagnostics()[0].Message); got != MaxMessageLength {
		t.Errorf("message length = %d, want %d", got, MaxMessageLength)
	}

	// A multi-byte rune straddling the limit is dropped whole.
	msg := strings.Repeat("a", MaxMessageLength-1) + "é"
	c.Add(1, 1, Lexer, msg)
	got := c.Diagnostics()[1].Message
	if !utf8.ValidString(got) {
		t.Fatalf("truncated message is not valid UTF-8: %q", got)
	}
	if len(got) != MaxMessageLength-1 {
		t.Errorf("message length = %d, want %d", len(got), MaxMessageLength-1)
	}
}

func TestCollectorGrowsAndHonoursLimit(t *testing.T) {
	c := NewWithLimits(2, 0)
	for i := 0; i < 50; i++ {
		if !c.Add(1, i, Lexer, "m") {
			t.Fatalf("Add #%d failed on an unbounded collector", i)
		}
	}
	if c.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", c.Len())
	}

	limited := NewWithLimits(2, 3)
	for i := 0; i < 5; i++ {
		limited.Add(1, i+1, Lexer, "m")
	}
	if limited.Len() != 3 || limited.Dropped() != 2 {
		t.Errorf("Len() = %d, Dropped() = %d; want 3 and 2", limited.Len(), limited.Dropped())
	}
	if last := limited.Diagnostics()[2]; last.Column != 3 {
		t.Errorf("kept diagnostics out of order: last column %d", last.Column)
	}
}

func TestDiagnosticsReturnsCopy(t *testing.T) {
	c := New()
	c.Add(1, 1, Lexer, "original")
	ds := c.Diagnostics()
	ds[0].Message = "changed"
	if c.Diagnostics()[0].Message != "original" {
		t.Error("Diagnostics() exposed internal storage")
	}
}

func TestRelease(t *testing.T) {
	c := NewWithLimits(1, 1)
	c.Add(1, 1, Lexer, "a")
	c.Add(1, 2, Lexer, "b")
	c.Release()
	if c.Len() != 0 || c.Dropped() != 0 || c.String() != "" {
		t.Errorf("collector not empty after Release: %d kept, %d dropped", c.Len(), c.Dropped())
	}
	c.Release()
}
