package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/xplshn/gpioc/pkg/config"
	"github.com/xplshn/gpioc/pkg/diag"
	"github.com/xplshn/gpioc/pkg/lexer"
	"github.com/xplshn/gpioc/pkg/token"
)

const (
	promptMain  = "gpio> "
	promptCont  = "....> "
	historyFile = ".gpioc_history"
	replHelp    = `Enter source text to see its tokens. Input continues while braces are open.
  :set <flags>  toggle features, e.g. ":set -Fno-caret -Feof"
  :features     list features and their state
  :help         show this message
  :quit         leave the session`
)

func runREPL(cfg *config.Config) error {
	fmt.Printf("%s interactive scanner. Type :help for commands.\n", appName)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for n := 1; ; {
		src, ok := readUnit(ln)
		if !ok {
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := handleCommand(cfg, trimmed, os.Stdout); quit {
				break
			}
			continue
		}

		scanUnit(sourceUnit{Name: fmt.Sprintf("<input %d>", n), Content: src}, cfg, "text", os.Stdout, os.Stdout)
		n++
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

// readUnit reads lines until every opened brace has been closed.
func readUnit(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || braceDepth(src) <= 0 {
			return src, true
		}
	}
}

// braceDepth scans src on its own and returns the number of unclosed braces.
func braceDepth(src string) int {
	stream, err := lexer.New(src, nil, diag.New()).Scan()
	if err != nil {
		return 0
	}
	defer stream.Release()
	depth := 0
	for _, tok := range stream.Tokens() {
		switch tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
	}
	return depth
}

func handleCommand(cfg *config.Config, line string, w io.Writer) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(w, replHelp)
	case ":features":
		for i := config.Feature(0); i < config.FeatCount; i++ {
			info := cfg.Features[i]
			fmt.Fprintf(w, "  - %-8s: %v (%s)\n", info.Name, info.Enabled, info.Description)
		}
	case ":set":
		if err := cfg.ProcessFlagString(strings.Join(fields[1:], " ")); err != nil {
			fmt.Fprintf(w, "%s: error: %v\n", appName, err)
		}
	default:
		fmt.Fprintf(w, "unknown command '%s', try :help\n", fields[0])
	}
	return false
}
