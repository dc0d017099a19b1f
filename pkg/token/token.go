package token

import "unicode/utf8"

type Kind int

const (
	Int Kind = iota
	Bool
	True
	False
	If
	Else
	While
	SetPin
	ReadPin
	High
	Low
	Ident
	Number
	Plus
	Minus
	Star
	Slash
	Assign
	EqEq
	Neq
	Lt
	Gt
	Lte
	Gte
	AndAnd
	OrOr
	Not
	Semi
	Comma
	LParen
	RParen
	LBrace
	RBrace
	EOF
	Error
	kindCount
)

// EOFLexeme is the fixed lexeme carried by the end-of-input token.
const EOFLexeme = "EOF"

var kindNames = [kindCount]string{
	Int:     "INT",
	Bool:    "BOOL",
	True:    "TRUE",
	False:   "FALSE",
	If:      "IF",
	Else:    "ELSE",
	While:   "WHILE",
	SetPin:  "SET_PIN",
	ReadPin: "READ_PIN",
	High:    "HIGH",
	Low:     "LOW",
	Ident:   "IDENTIFIER",
	Number:  "NUMBER",
	Plus:    "PLUS",
	Minus:   "MINUS",
	Star:    "STAR",
	Slash:   "SLASH",
	Assign:  "ASSIGN",
	EqEq:    "EQ",
	Neq:     "NEQ",
	Lt:      "LT",
	Gt:      "GT",
	Lte:     "LTE",
	Gte:     "GTE",
	AndAnd:  "AND",
	OrOr:    "OR",
	Not:     "NOT",
	Semi:    "SEMICOLON",
	Comma:   "COMMA",
	LParen:  "LPAREN",
	RParen:  "RPAREN",
	LBrace:  "LBRACE",
	RBrace:  "RBRACE",
	EOF:     "EOF",
	Error:   "ERROR",
}

var KeywordMap = map[string]Kind{
	"int":      Int,
	"bool":     Bool,
	"true":     True,
	"false":    False,
	"if":       If,
	"else":     Else,
	"while":    While,
	"SET_PIN":  SetPin,
	"READ_PIN": ReadPin,
	"HIGH":     High,
	"LOW":      Low,
}

// Operators maps every operator spelling, one or two characters, to its kind.
var Operators = map[string]Kind{
	"+":  Plus,
	"-":  Minus,
	"*":  Star,
	"/":  Slash,
	"=":  Assign,
	"==": EqEq,
	"!=": Neq,
	"<":  Lt,
	">":  Gt,
	"<=": Lte,
	">=": Gte,
	"&&": AndAnd,
	"||": OrOr,
	"!":  Not,
}

var Punctuation = map[rune]Kind{
	';': Semi,
	',': Comma,
	'(': LParen,
	')': RParen,
	'{': LBrace,
	'}': RBrace,
}

// Reverse mapping from Kind to its fixed source spelling
var spellings = make(map[Kind]string)

func init() {
	for str, k := range KeywordMap {
		spellings[k] = str
	}
	for str, k := range Operators {
		spellings[k] = str
	}
	for r, k := range Punctuation {
		spellings[k] = string(r)
	}
}

// Valid reports whether k belongs to the closed set of kinds.
func (k Kind) Valid() bool { return k >= 0 && k < kindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return "UNKNOWN"
	}
	return kindNames[k]
}

func (k Kind) IsKeyword() bool { return k >= Int && k <= Low }
func (k Kind) IsOperator() bool { return k >= Plus && k <= Not }
func (k Kind) IsPunctuation() bool { return k >= Semi && k <= RBrace }

// Spelling returns the exact source text of a keyword, operator or
// punctuation kind. Identifiers, numbers and the special kinds have none.
func Spelling(k Kind) (string, bool) {
	s, ok := spellings[k]
	return s, ok
}

type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

// Len is the width of the token in source characters.
func (t Token) Len() int {
	if t.Kind == EOF {
		return 0
	}
	return utf8.RuneCountInString(t.Lexeme)
}
