package token

import (
	"errors"
	"fmt"
	"strings"
)

const DefaultStreamCapacity = 128

var (
	ErrInvalidKind     = errors.New("invalid token kind")
	ErrInvalidPosition = errors.New("invalid token position")
	ErrEmptyLexeme     = errors.New("empty lexeme")
	ErrStreamFull      = errors.New("token stream cannot grow")
)

// Stream is the ordered sequence of tokens produced for one source unit.
// It has a single owner at a time and is not safe for concurrent use.
type Stream struct {
	tokens []Token
	limit  int
}

func NewStream() *Stream {
	return NewStreamWithLimits(DefaultStreamCapacity, 0)
}

// NewStreamWithLimits reserves capacity slots up front. A positive limit
// caps how far the stream may grow; zero leaves it unbounded.
func NewStreamWithLimits(capacity, limit int) *Stream {
	if capacity < 1 {
		capacity = DefaultStreamCapacity
	}
	if limit > 0 && capacity > limit {
		capacity = limit
	}
	return &Stream{tokens: make([]Token, 0, capacity), limit: limit}
}

// Append copies a new token onto the end of the stream. On failure the
// stream is left exactly as it was.
func (s *Stream) Append(kind Kind, lexeme string, line, column int) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidKind, int(kind))
	}
	if line < 0 || column < 0 {
		return fmt.Errorf("%w: line %d, column %d", ErrInvalidPosition, line, column)
	}
	if lexeme == "" {
		return ErrEmptyLexeme
	}
	if len(s.tokens) == cap(s.tokens) {
		if err := s.grow(); err != nil {
			return err
		}
	}
	s.tokens = append(s.tokens, Token{
		Kind: kind, Lexeme: strings.Clone(lexeme), Line: line, Column: column,
	})
	return nil
}

func (s *Stream) grow() error {
	newCap := cap(s.tokens) * 2
	if newCap == 0 {
		newCap = DefaultStreamCapacity
	}
	if s.limit > 0 {
		if len(s.tokens) >= s.limit {
			return fmt.Errorf("%w: limit of %d tokens reached", ErrStreamFull, s.limit)
		}
		newCap = min(newCap, s.limit)
	}
	grown := make([]Token, len(s.tokens), newCap)
	copy(grown, s.tokens)
	s.tokens = grown
	return nil
}

func (s *Stream) Len() int { return len(s.tokens) }
func (s *Stream) Cap() int { return cap(s.tokens) }

func (s *Stream) At(i int) Token { return s.tokens[i] }

// Tokens returns a read-only view of the stream; callers must not modify it.
func (s *Stream) Tokens() []Token { return s.tokens[:len(s.tokens):len(s.tokens)] }

func (s *Stream) Last() (Token, bool) {
	if len(s.tokens) == 0 {
		return Token{}, false
	}
	return s.tokens[len(s.tokens)-1], true
}

// Release drops every token together with the backing storage.
func (s *Stream) Release() {
	s.tokens = nil
}
