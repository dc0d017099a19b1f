package parser

import (
	"errors"

	"github.com/xplshn/gpioc/pkg/diag"
	"github.com/xplshn/gpioc/pkg/token"
)

var ErrInvalidStream = errors.New("invalid token stream")

// Cursor walks a completed token stream on behalf of the grammar-level
// parser. Once past the last token it keeps returning the EOF token.
type Cursor struct {
	tokens []token.Token
	pos    int
	diags  *diag.Collector
}

// Accept takes over a stream handed off by the scanner. The stream must be
// non-empty, free of error tokens and end in its only EOF token.
func Accept(stream *token.Stream, diags *diag.Collector) (*Cursor, error) {
	if stream == nil || stream.Len() == 0 {
		diags.Add(0, 0, diag.Parser, "Invalid token stream passed")
		return nil, ErrInvalidStream
	}

	toks := stream.Tokens()
	for i, tok := range toks {
		switch {
		case tok.Kind == token.Error:
			diags.Errorf(tok.Line, tok.Column, diag.Parser, "Token stream contains an error token at position %d", i)
			return nil, ErrInvalidStream
		case tok.Kind == token.EOF && i != len(toks)-1:
			diags.Errorf(tok.Line, tok.Column, diag.Parser, "End of input found before the last token")
			return nil, ErrInvalidStream
		}
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		diags.Errorf(last.Line, last.Column, diag.Parser, "Token stream is not terminated by EOF")
		return nil, ErrInvalidStream
	}

	return &Cursor{tokens: toks, diags: diags}, nil
}

func (c *Cursor) Peek() token.Token { return c.tokens[c.pos] }

func (c *Cursor) Next() token.Token {
	tok := c.tokens[c.pos]
	if c.pos < len(c.tokens)-1 {
		c.pos++
	}
	return tok
}

// Match consumes the next token and records a diagnostic when it is not
// of the expected kind.
func (c *Cursor) Match(expected token.Kind) bool {
	tok := c.Next()
	if tok.Kind == expected {
		return true
	}
	c.diags.Errorf(tok.Line, tok.Column, diag.Parser, "Unexpected token '%s' of type '%s'.", tok.Lexeme, tok.Kind)
	return false
}

func (c *Cursor) Done() bool { return c.tokens[c.pos].Kind == token.EOF }
