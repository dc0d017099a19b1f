package lexer

import (
	"errors"
	"fmt"

	"github.com/xplshn/gpioc/pkg/config"
	"github.com/xplshn/gpioc/pkg/diag"
	"github.com/xplshn/gpioc/pkg/token"
)

var (
	// ErrNoTokens is returned for input that is empty or only whitespace.
	ErrNoTokens    = errors.New("input contains no valid tokens")
	ErrScannerUsed = errors.New("scanner has already run")
)

// Scanner holds the state of one pass over one source unit. It must not be
// shared between goroutines or reused for another unit.
type Scanner struct {
	source []rune
	pos    int
	line   int
	column int
	cfg    *config.Config
	diags  *diag.Collector
	stream *token.Stream
	done   bool
}

func New(source string, cfg *config.Config, diags *diag.Collector) *Scanner {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Scanner{
		source: []rune(source), line: 1, column: 1, cfg: cfg, diags: diags,
	}
}

// Scan tokenizes source with the default configuration.
func Scan(source string, diags *diag.Collector) (*token.Stream, error) {
	return New(source, nil, diags).Scan()
}

// Scan runs the scanner to the end of its input. Problems in the source are
// recorded as diagnostics and scanning carries on past them; a non-nil
// error means no stream was produced.
func (s *Scanner) Scan() (*token.Stream, error) {
	if s.done {
		return nil, ErrScannerUsed
	}
	s.done = true

	if s.onlyWhitespace() {
		s.diags.Add(0, 0, diag.Lexer, ErrNoTokens.Error())
		return nil, ErrNoTokens
	}

	s.stream = s.cfg.NewStream()
	for !s.isAtEnd() {
		if err := s.next(); err != nil {
			s.stream.Release()
			s.stream = nil
			return nil, fmt.Errorf("scan aborted at line %d, column %d: %w", s.line, s.column, err)
		}
	}
	if err := s.stream.Append(token.EOF, token.EOFLexeme, s.line, s.column); err != nil {
		s.stream.Release()
		s.stream = nil
		return nil, fmt.Errorf("scan aborted at end of input: %w", err)
	}

	stream := s.stream
	s.stream = nil
	return stream, nil
}

func (s *Scanner) next() error {
	ch := s.peek()
	startCol, startLine := s.column, s.line

	switch {
	case isSpace(ch):
		s.advance()
		return nil
	case isPunct(ch):
		s.advance()
		return s.emit(token.Punctuation[ch], string(ch), startLine, startCol)
	case isOperatorStart(ch):
		return s.operator(startLine, startCol)
	case isWordChar(ch):
		return s.word(startLine, startCol)
	}

	s.advance()
	s.errorf(startLine, startCol, "unrecognized or invalid token '%c'", ch)
	return nil
}

func (s *Scanner) operator(startLine, startCol int) error {
	if s.pos+1 < len(s.source) {
		pair := string(s.source[s.pos : s.pos+2])
		if kind, ok := token.Operators[pair]; ok {
			s.advance()
			s.advance()
			return s.emit(kind, pair, startLine, startCol)
		}
	}

	ch := s.advance()
	if kind, ok := token.Operators[string(ch)]; ok {
		return s.emit(kind, string(ch), startLine, startCol)
	}
	s.errorf(startLine, startCol, "invalid operator '%c'", ch)
	return nil
}

// word consumes a run of letters, digits and underscores and classifies it
// as a keyword, identifier or number.
func (s *Scanner) word(startLine, startCol int) error {
	startPos := s.pos
	maxLen := s.cfg.MaxTokenLength

	for isWordChar(s.peek()) {
		if s.pos-startPos == maxLen {
			s.errorf(startLine, startCol, "token exceeds maximum length of %d characters", maxLen)
			for isWordChar(s.peek()) {
				s.advance()
			}
			return nil
		}
		s.advance()
	}

	run := string(s.source[startPos:s.pos])
	if kind, ok := token.KeywordMap[run]; ok {
		return s.emit(kind, run, startLine, startCol)
	}

	first := s.source[startPos]
	switch {
	case isDigit(first):
		if !allDigits(s.source[startPos:s.pos]) {
			s.errorf(startLine, startCol, "invalid token '%s'", run)
			return nil
		}
		return s.emit(token.Number, run, startLine, startCol)
	case isLetter(first):
		return s.emit(token.Ident, run, startLine, startCol)
	}
	s.errorf(startLine, startCol, "invalid token '%s'", run)
	return nil
}

func (s *Scanner) emit(kind token.Kind, lexeme string, line, col int) error {
	return s.stream.Append(kind, lexeme, line, col)
}

func (s *Scanner) errorf(line, col int, format string, args ...any) {
	s.diags.Errorf(line, col, diag.Lexer, format, args...)
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *Scanner) advance() rune {
	if s.isAtEnd() {
		return 0
	}
	ch := s.source[s.pos]
	if ch == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.pos++
	return ch
}

func (s *Scanner) isAtEnd() bool { return s.pos >= len(s.source) }

func (s *Scanner) onlyWhitespace() bool {
	for _, r := range s.source {
		if !isSpace(r) {
			return false
		}
	}
	return true
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isPunct(r rune) bool {
	_, ok := token.Punctuation[r]
	return ok
}

func isOperatorStart(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '=', '<', '>', '!', '&', '|':
		return true
	}
	return false
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

func isWordChar(r rune) bool { return isLetter(r) || isDigit(r) || r == '_' }

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !isDigit(r) {
			return false
		}
	}
	return true
}
