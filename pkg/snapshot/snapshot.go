// Package snapshot captures the observable result of scanning one source
// unit so it can be stored as a golden file and compared on later runs.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/xplshn/gpioc/pkg/config"
	"github.com/xplshn/gpioc/pkg/lexer"
	"github.com/xplshn/gpioc/pkg/token"
)

type Token struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type Snapshot struct {
	Source      string   `json:"source"`
	Hash        string   `json:"hash"`
	Failed      bool     `json:"failed"`
	Error       string   `json:"error,omitempty"`
	Tokens      []Token  `json:"tokens,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Hash returns the hex xxhash of a source unit.
func Hash(src []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(src))
}

// HashFile computes the xxhash of a file's content
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// Take scans src with its own collector and records everything the run
// produced.
func Take(name string, src []byte, cfg *config.Config) *Snapshot {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	diags := cfg.NewCollector()
	stream, err := lexer.New(string(src), cfg, diags).Scan()

	snap := &Snapshot{Source: name, Hash: Hash(src)}
	if err != nil {
		snap.Failed = true
		snap.Error = err.Error()
	}
	if stream != nil {
		snap.Tokens = FromStream(stream)
		stream.Release()
	}
	for _, d := range diags.Diagnostics() {
		snap.Diagnostics = append(snap.Diagnostics, d.String())
	}
	return snap
}

func FromStream(stream *token.Stream) []Token {
	out := make([]Token, 0, stream.Len())
	for _, tok := range stream.Tokens() {
		out = append(out, Token{Kind: tok.Kind.String(), Lexeme: tok.Lexeme, Line: tok.Line, Column: tok.Column})
	}
	return out
}

// Diff returns a human-readable difference between two snapshots, or an
// empty string when they agree. Source names are not compared.
func Diff(want, got *Snapshot) string {
	return cmp.Diff(want, got,
		cmpopts.IgnoreFields(Snapshot{}, "Source"),
		cmpopts.EquateEmpty(),
	)
}

// Stale reports whether a golden snapshot was recorded for other content.
func Stale(golden *Snapshot, src []byte) bool {
	return golden.Hash != Hash(src)
}

func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("could not parse golden file %s: %w", path, err)
	}
	return &snap, nil
}

func Save(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// GoldenPath returns where the golden file for sourceFile lives: next to it,
// or inside dir when one is given.
func GoldenPath(sourceFile, dir string) string {
	name := "." + filepath.Base(sourceFile) + ".json"
	if dir != "" {
		return filepath.Join(dir, name)
	}
	return filepath.Join(filepath.Dir(sourceFile), name)
}

var ErrNoGolden = errors.New("no golden file")

// LoadGolden loads the golden snapshot recorded for sourceFile.
func LoadGolden(sourceFile, dir string) (*Snapshot, error) {
	path := GoldenPath(sourceFile, dir)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w for %s", ErrNoGolden, sourceFile)
	}
	return Load(path)
}
