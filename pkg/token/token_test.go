package token

import "testing"

func TestKindNamesAreUniqueAndComplete(t *testing.T) {
	seen := make(map[string]Kind)
	for k := Kind(0); k < kindCount; k++ {
		name := k.String()
		if name == "" || name == "UNKNOWN" {
			t.Fatalf("kind %d has no name", int(k))
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("kinds %d and %d share the name %q", int(prev), int(k), name)
		}
		seen[name] = k
	}
	if EOF.String() != "EOF" || Error.String() != "ERROR" {
		t.Errorf("special kinds named %q and %q", EOF, Error)
	}
}

func TestInvalidKinds(t *testing.T) {
	for _, k := range []Kind{-1, kindCount, kindCount + 10} {
		if k.Valid() {
			t.Errorf("Kind(%d).Valid() = true", int(k))
		}
		if got := k.String(); got != "UNKNOWN" {
			t.Errorf("Kind(%d).String() = %q, want UNKNOWN", int(k), got)
		}
	}
}

func TestSpellingCoversFixedKinds(t *testing.T) {
	for k := Kind(0); k < kindCount; k++ {
		s, ok := Spelling(k)
		fixed := k.IsKeyword() || k.IsOperator() || k.IsPunctuation()
		if ok != fixed {
			t.Errorf("Spelling(%s) ok = %v, want %v", k, ok, fixed)
			continue
		}
		if !fixed {
			continue
		}
		switch {
		case k.IsKeyword():
			if KeywordMap[s] != k {
				t.Errorf("keyword %q maps to %s, want %s", s, KeywordMap[s], k)
			}
		case k.IsOperator():
			if Operators[s] != k {
				t.Errorf("operator %q maps to %s, want %s", s, Operators[s], k)
			}
		default:
			if len(s) != 1 || Punctuation[rune(s[0])] != k {
				t.Errorf("punctuation %q does not map back to %s", s, k)
			}
		}
	}
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	for _, word := range []string{"INT", "While", "set_pin", "high"} {
		if _, ok := KeywordMap[word]; ok {
			t.Errorf("%q should not be a keyword", word)
		}
	}
}

func TestTokenLen(t *testing.T) {
	cases := []struct {
		tok  Token
		want int
	}{
		{Token{Kind: Ident, Lexeme: "led"}, 3},
		{Token{Kind: Lte, Lexeme: "<="}, 2},
		{Token{Kind: EOF, Lexeme: EOFLexeme}, 0},
	}
	for _, c := range cases {
		if got := c.tok.Len(); got != c.want {
			t.Errorf("%s %q: Len() = %d, want %d", c.tok.Kind, c.tok.Lexeme, got, c.want)
		}
	}
}
