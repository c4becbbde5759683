package token

import "strconv"

type TokenKind int

const (
	INTEGER_CONSTANT TokenKind = iota
	STRING_CONSTANT
	IDENTIFIER
	EOF

	KEYWORD_BEGIN
	CLASS
	CONSTRUCTOR
	FUNCTION
	METHOD
	FIELD
	STATIC
	VAR
	INT
	CHAR
	BOOLEAN
	VOID
	TRUE
	FALSE
	NULL
	THIS
	LET
	DO
	IF
	ELSE
	WHILE
	RETURN
	KEYWORD_END

	SYMBOL_BEGIN
	LEFT_BRACE
	RIGHT_BRACE
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACKET
	RIGHT_BRACKET
	DOT
	COMMA
	SEMICOLON

	binaryop_begin
	PLUS
	MINUS
	STAR
	SLASH
	AND
	OR
	LESSER
	GREATER
	EQUAL
	binaryop_end

	TILDE
	SYMBOL_END
)

func (t TokenKind) IsKeyword() bool {
	return t > KEYWORD_BEGIN && t < KEYWORD_END
}

func (t TokenKind) IsSymbol() bool {
	return t > SYMBOL_BEGIN && t < SYMBOL_END
}

func (t TokenKind) IsBinaryOperator() bool {
	return t > binaryop_begin && t < binaryop_end
}

// '-' doubles as a binary and a unary operator.
func (t TokenKind) IsUnaryOperator() bool {
	return t == MINUS || t == TILDE
}

func (t TokenKind) IsKeywordConstant() bool {
	return t == TRUE || t == FALSE || t == NULL || t == THIS
}

// Category names the lexical class of a token kind the way the analyzer's
// XML output spells it.
func (t TokenKind) Category() string {
	switch {
	case t == INTEGER_CONSTANT:
		return "integerConstant"
	case t == STRING_CONSTANT:
		return "stringConstant"
	case t == IDENTIFIER:
		return "identifier"
	case t.IsKeyword():
		return "keyword"
	case t.IsSymbol():
		return "symbol"
	}
	return "eof"
}

func (t TokenKind) String() string {
	switch {
	case t == INTEGER_CONSTANT:
		return "integer constant"
	case t == STRING_CONSTANT:
		return "string constant"
	case t == IDENTIFIER:
		return "identifier"
	case t == EOF:
		return "end of file"
	case t.IsKeyword():
		return Keywords[t-KEYWORD_BEGIN-1]
	case t.IsSymbol():
		for c, k := range Symbols {
			if k == t {
				return string(c)
			}
		}
	}
	return "TokenKind(" + strconv.Itoa(int(t)) + ")"
}

type Token struct {
	Lexeme string
	Kind   TokenKind
	Pos    Marker
}

// String returns the token the way it would be written in source.
func (t Token) String() string {
	switch t.Kind {
	case STRING_CONSTANT:
		return `"` + t.Lexeme + `"`
	case EOF:
		return ""
	}
	return t.Lexeme
}

// Marker locates a token in its source. Line and Column are 1-based.
type Marker struct {
	Offset int
	Line   int
	Column int
}

func (m Marker) String() string {
	return strconv.Itoa(m.Line) + ":" + strconv.Itoa(m.Column)
}

// Keywords is ordered like the keyword block of TokenKind.
var Keywords = [...]string{
	"class",
	"constructor",
	"function",
	"method",
	"field",
	"static",
	"var",
	"int",
	"char",
	"boolean",
	"void",
	"true",
	"false",
	"null",
	"this",
	"let",
	"do",
	"if",
	"else",
	"while",
	"return",
}

var keywordKinds = func() map[string]TokenKind {
	m := make(map[string]TokenKind, len(Keywords))
	for i, kw := range Keywords {
		m[kw] = TokenKind(int(KEYWORD_BEGIN) + i + 1)
	}
	return m
}()

// LookupIdent reclassifies an identifier-shaped word as a keyword when it is
// reserved.
func LookupIdent(word string) TokenKind {
	if kind, ok := keywordKinds[word]; ok {
		return kind
	}
	return IDENTIFIER
}

var Symbols = map[byte]TokenKind{
	'{': LEFT_BRACE,
	'}': RIGHT_BRACE,
	'(': LEFT_PAREN,
	')': RIGHT_PAREN,
	'[': LEFT_BRACKET,
	']': RIGHT_BRACKET,
	'.': DOT,
	',': COMMA,
	';': SEMICOLON,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'&': AND,
	'|': OR,
	'<': LESSER,
	'>': GREATER,
	'=': EQUAL,
	'~': TILDE,
}
