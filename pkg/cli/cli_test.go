package cli

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestApp() (*App, *string, *bool, *int, *[]string) {
	app := NewApp("gpioc")
	app.Synopsis = "[options] <input.gpio> ..."
	var (
		out     string
		verbose bool
		maxLen  int
		extra   []string
	)
	app.FlagSet.String(&out, "output", "o", "-", "Write output to <file>.", "file")
	app.FlagSet.Bool(&verbose, "verbose", "v", false, "Print progress.")
	app.FlagSet.Int(&maxLen, "max-token-len", "", 64, "Longest token.", "n")
	app.FlagSet.List(&extra, "extra", "x", nil, "Extra values.", "value")
	return app, &out, &verbose, &maxLen, &extra
}

func TestParseForms(t *testing.T) {
	app, out, verbose, maxLen, extra := newTestApp()
	fs := app.FlagSet
	args := []string{"a.gpio", "-o", "tokens.txt", "--verbose", "--max-token-len=12", "-xone", "-x", "two", "b.gpio", "--", "-c.gpio"}
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	if *out != "tokens.txt" || !*verbose || *maxLen != 12 {
		t.Errorf("out=%q verbose=%v maxLen=%d", *out, *verbose, *maxLen)
	}
	if diff := cmp.Diff([]string{"one", "two"}, *extra); diff != "" {
		t.Errorf("list flag (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.gpio", "b.gpio", "-c.gpio"}, fs.Args()); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
}

func TestParseSingleDashLongName(t *testing.T) {
	app, out, verbose, _, _ := newTestApp()
	if err := app.FlagSet.Parse([]string{"-output=x.txt", "-verbose=false"}); err != nil {
		t.Fatal(err)
	}
	if *out != "x.txt" || *verbose {
		t.Errorf("out=%q verbose=%v", *out, *verbose)
	}
}

func TestParseErrors(t *testing.T) {
	cases := [][]string{
		{"--nope"},
		{"-q"},
		{"--output"},
		{"--max-token-len=abc"},
		{"--verbose=maybe"},
		{"--=x"},
	}
	for _, args := range cases {
		app, _, _, _, _ := newTestApp()
		if err := app.FlagSet.Parse(args); err == nil {
			t.Errorf("Parse(%q) succeeded", args)
		}
	}
}

func TestFlagGroup(t *testing.T) {
	fs := NewFlagSet("t")
	on, off := false, false
	fs.AddFlagGroup("Features", "", "feature", "Available Features:", []FlagGroupEntry{
		{Name: "caret", Prefix: "F", Usage: "Show carets.", Enabled: &on, Disabled: &off, Default: true},
	})
	if err := fs.Parse([]string{"-Fno-caret"}); err != nil {
		t.Fatal(err)
	}
	if on || !off {
		t.Errorf("enabled=%v disabled=%v", on, off)
	}
}

func TestRunHelpAndAction(t *testing.T) {
	app, _, _, _, _ := newTestApp()
	app.Description = "Scans GPIO programs."
	var stdout, stderr strings.Builder
	app.Stdout, app.Stderr = &stdout, &stderr
	called := false
	app.Action = func([]string) error { called = true; return nil }

	if err := app.Run([]string{"--help"}); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("action ran although --help was given")
	}
	help := stdout.String()
	for _, want := range []string{"Synopsis", "Description", "--output <file>", "|-|", "--max-token-len <n>"} {
		if !strings.Contains(help, want) {
			t.Errorf("help page lacks %q:\n%s", want, help)
		}
	}
}

func TestRunReportsParseErrors(t *testing.T) {
	app, _, _, _, _ := newTestApp()
	var stderr strings.Builder
	app.Stderr = &stderr
	if err := app.Run([]string{"--bogus"}); err == nil {
		t.Fatal("Run accepted an unknown flag")
	}
	if !strings.Contains(stderr.String(), "unknown flag: --bogus") || !strings.Contains(stderr.String(), "Usage: gpioc") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("scan the whole input into tokens", 10)
	want := []string{"scan the", "whole", "input into", "tokens"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrapText (-want +got):\n%s", diff)
	}
	if wrapText("   ", 10) != nil {
		t.Error("blank text should wrap to nothing")
	}
}
