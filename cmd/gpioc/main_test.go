package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xplshn/gpioc/pkg/config"
)

func TestScanUnitTextDump(t *testing.T) {
	cfg := config.NewConfig()
	var out, errOut strings.Builder
	ok := scanUnit(sourceUnit{Name: "decl", Content: "int x = 5 ;"}, cfg, "text", &out, &errOut)
	if !ok {
		t.Fatalf("clean unit reported failure: %s", errOut.String())
	}
	want := `INT "int" [line: 1, column: 1]
IDENTIFIER "x" [line: 1, column: 5]
ASSIGN "=" [line: 1, column: 7]
NUMBER "5" [line: 1, column: 9]
SEMICOLON ";" [line: 1, column: 11]
EOF "EOF" [line: 1, column: 12]
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("dump (-want +got):\n%s", diff)
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr: %q", errOut.String())
	}
}

func TestScanUnitReportsDiagnostics(t *testing.T) {
	cfg := config.NewConfig()
	cfg.SetFeature(config.FeatEOF, false)
	var out, errOut strings.Builder
	if scanUnit(sourceUnit{Name: "bad.gpio", Content: "1 @ 2"}, cfg, "text", &out, &errOut) {
		t.Fatal("unit with diagnostics reported success")
	}
	if strings.Contains(out.String(), "EOF") {
		t.Errorf("EOF printed with -Fno-eof: %q", out.String())
	}
	want := "bad.gpio:\n" +
		"LEXER error at line 1, column 3: unrecognized or invalid token '@'\n" +
		"  1 @ 2\n" +
		"    ^\n"
	if diff := cmp.Diff(want, errOut.String()); diff != "" {
		t.Errorf("stderr (-want +got):\n%s", diff)
	}
}

func TestScanUnitBlankInput(t *testing.T) {
	cfg := config.NewConfig()
	var out, errOut strings.Builder
	if scanUnit(sourceUnit{Name: "blank", Content: "\n\n"}, cfg, "text", &out, &errOut) {
		t.Fatal("blank unit reported success")
	}
	if out.Len() != 0 {
		t.Errorf("blank unit printed tokens: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "input contains no valid tokens") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestScanUnitJSON(t *testing.T) {
	cfg := config.NewConfig()
	var out, errOut strings.Builder
	scanUnit(sourceUnit{Name: "j", Content: "HIGH"}, cfg, "json", &out, &errOut)
	for _, want := range []string{`"kind": "HIGH"`, `"lexeme": "HIGH"`, `"kind": "EOF"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("json dump lacks %s:\n%s", want, out.String())
		}
	}
}

func TestBraceDepth(t *testing.T) {
	cases := map[string]int{
		"int x = 1;":                0,
		"while (true) {":            1,
		"if (a) { if (b) {":         2,
		"if (a) { if (b) { } }":     0,
		"   ":                       0,
		"while (x) { SET_PIN(1, @)": 1,
	}
	for src, want := range cases {
		if got := braceDepth(src); got != want {
			t.Errorf("braceDepth(%q) = %d, want %d", src, got, want)
		}
	}
}

func TestHandleCommand(t *testing.T) {
	cfg := config.NewConfig()
	var sb strings.Builder
	if handleCommand(cfg, ":set -Fno-caret", &sb) {
		t.Fatal(":set quit the session")
	}
	if cfg.IsFeatureEnabled(config.FeatCaret) {
		t.Error(":set did not disable caret")
	}
	handleCommand(cfg, ":set -Fwhatever", &sb)
	if !strings.Contains(sb.String(), "unknown feature 'whatever'") {
		t.Errorf("output = %q", sb.String())
	}
	sb.Reset()
	handleCommand(cfg, ":features", &sb)
	if !strings.Contains(sb.String(), "caret") || !strings.Contains(sb.String(), "false") {
		t.Errorf(":features output = %q", sb.String())
	}
	if !handleCommand(cfg, ":quit", &sb) {
		t.Error(":quit did not quit")
	}
}
