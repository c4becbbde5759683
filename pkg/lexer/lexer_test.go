package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartiknair/jackc/pkg/ast"
	"github.com/kartiknair/jackc/pkg/diag"
	"github.com/kartiknair/jackc/pkg/token"
)

const squareGame = `
/** Implements the Square game. */
class SquareGame {
   field Square square; // the square of this game
   field int direction; /* 0=none, 1=up */

   constructor SquareGame new() {
      let square = Square.new(0, 0, 30);
      let direction = 0;
      return this;
   }

   method void moveSquare() {
      if (direction = 1) { do square.moveUp(); }
      do Sys.wait(5);  // delays the next movement
      return;
   }
}
`

type lexed struct {
	Kind   token.TokenKind
	Lexeme string
}

func kindsAndLexemes(tokens []token.Token) []lexed {
	out := make([]lexed, len(tokens))
	for i, t := range tokens {
		out[i] = lexed{t.Kind, t.Lexeme}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []lexed
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []lexed{{token.EOF, ""}},
		},
		{
			name:  "Symbols",
			input: "{}()[].,;+-*/&|<>=~",
			expected: []lexed{
				{token.LEFT_BRACE, "{"}, {token.RIGHT_BRACE, "}"},
				{token.LEFT_PAREN, "("}, {token.RIGHT_PAREN, ")"},
				{token.LEFT_BRACKET, "["}, {token.RIGHT_BRACKET, "]"},
				{token.DOT, "."}, {token.COMMA, ","}, {token.SEMICOLON, ";"},
				{token.PLUS, "+"}, {token.MINUS, "-"}, {token.STAR, "*"}, {token.SLASH, "/"},
				{token.AND, "&"}, {token.OR, "|"}, {token.LESSER, "<"}, {token.GREATER, ">"},
				{token.EQUAL, "="}, {token.TILDE, "~"},
				{token.EOF, ""},
			},
		},
		{
			name:  "Keywords and identifiers",
			input: "class Main _x x1 classy while",
			expected: []lexed{
				{token.CLASS, "class"}, {token.IDENTIFIER, "Main"}, {token.IDENTIFIER, "_x"},
				{token.IDENTIFIER, "x1"}, {token.IDENTIFIER, "classy"}, {token.WHILE, "while"},
				{token.EOF, ""},
			},
		},
		{
			name:  "Integers",
			input: "0 7 007 32767",
			expected: []lexed{
				{token.INTEGER_CONSTANT, "0"}, {token.INTEGER_CONSTANT, "7"},
				{token.INTEGER_CONSTANT, "7"}, {token.INTEGER_CONSTANT, "32767"},
				{token.EOF, ""},
			},
		},
		{
			name:  "Strings keep their body verbatim",
			input: `"hello, world" "" "a // not a comment" "/* nor this */"`,
			expected: []lexed{
				{token.STRING_CONSTANT, "hello, world"}, {token.STRING_CONSTANT, ""},
				{token.STRING_CONSTANT, "a // not a comment"}, {token.STRING_CONSTANT, "/* nor this */"},
				{token.EOF, ""},
			},
		},
		{
			name:  "Comments",
			input: "let // line\n x /* block\n spanning */ = /** doc */ 1;",
			expected: []lexed{
				{token.LET, "let"}, {token.IDENTIFIER, "x"}, {token.EQUAL, "="},
				{token.INTEGER_CONSTANT, "1"}, {token.SEMICOLON, ";"},
				{token.EOF, ""},
			},
		},
		{
			name:  "Adjacent tokens",
			input: "a[i]=x.f(1,2);",
			expected: []lexed{
				{token.IDENTIFIER, "a"}, {token.LEFT_BRACKET, "["}, {token.IDENTIFIER, "i"},
				{token.RIGHT_BRACKET, "]"}, {token.EQUAL, "="}, {token.IDENTIFIER, "x"},
				{token.DOT, "."}, {token.IDENTIFIER, "f"}, {token.LEFT_PAREN, "("},
				{token.INTEGER_CONSTANT, "1"}, {token.COMMA, ","}, {token.INTEGER_CONSTANT, "2"},
				{token.RIGHT_PAREN, ")"}, {token.SEMICOLON, ";"},
				{token.EOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kindsAndLexemes(tokens))
		})
	}
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("class A {\n\t/* two\nlines */ field int x;\n}")
	require.NoError(t, err)

	positions := map[string]token.Marker{}
	for _, tok := range tokens {
		positions[tok.Lexeme] = tok.Pos
	}

	assert.Equal(t, token.Marker{Offset: 0, Line: 1, Column: 1}, positions["class"])
	assert.Equal(t, token.Marker{Offset: 6, Line: 1, Column: 7}, positions["A"])
	assert.Equal(t, 3, positions["field"].Line)
	assert.Equal(t, 10, positions["field"].Column)
	assert.Equal(t, 4, positions["}"].Line)
	assert.Equal(t, 1, positions["}"].Column)
}

func TestStripCommentsKeepsLayout(t *testing.T) {
	source := "a /* é\n */ b // c\n\"// d\""
	stripped := StripComments(source)
	assert.Equal(t, len(source), len(stripped))
	assert.Equal(t, strings.Count(source, "\n"), strings.Count(stripped, "\n"))
	expected := "a " + strings.Repeat(" ", 5) + "\n" +
		strings.Repeat(" ", 3) + " b " + strings.Repeat(" ", 4) + "\n" +
		`"// d"`
	assert.Equal(t, expected, stripped)
}

func TestNextIsIdempotentAtEnd(t *testing.T) {
	l := New("x")

	first, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, token.IDENTIFIER, first.Kind)

	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		require.NoError(t, err)
		assert.Equal(t, token.EOF, tok.Kind)
	}
}

func TestReset(t *testing.T) {
	l := New("let x")
	_, err := l.Next()
	require.NoError(t, err)
	_, err = l.Next()
	require.NoError(t, err)

	l.Reset()
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, token.LET, tok.Kind)
	assert.Equal(t, token.Marker{Offset: 0, Line: 1, Column: 1}, tok.Pos)
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		column  int
		message string
	}{
		{"Unknown character", "let x = 1 # 2;", 1, 11, "unexpected character: '#'"},
		{"Unknown unicode", "\n  λ", 2, 3, "unexpected character: 'λ'"},
		{"Overflow", "32768", 1, 1, "integer constant 32768 is out of range (0..32767)"},
		{"Huge", "99999999999999999999999", 1, 1, "integer constant 99999999999999999999999 is out of range (0..32767)"},
		{"Unterminated string", `x = "abc`, 1, 5, "unterminated string literal"},
		{"Multi-line string", "\"ab\ncd\"", 1, 1, "strings must be on a single line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			require.Error(t, err)
			d, ok := diag.As(err)
			require.True(t, ok)
			assert.Equal(t, diag.LexError, d.Kind)
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, tt.line, d.Pos.Line)
			assert.Equal(t, tt.column, d.Pos.Column)
		})
	}
}

func TestLexContinuesAfterError(t *testing.T) {
	l := New("# x")
	_, err := l.Next()
	require.Error(t, err)

	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", tok.Lexeme)
}

// Re-lexing the tokens joined by single spaces yields the same tokens.
func TestRoundTrip(t *testing.T) {
	tokens, err := Tokenize(squareGame)
	require.NoError(t, err)

	var words []string
	for _, tok := range tokens {
		if tok.Kind != token.EOF {
			words = append(words, tok.String())
		}
	}

	again, err := Tokenize(strings.Join(words, " "))
	require.NoError(t, err)
	assert.Equal(t, kindsAndLexemes(tokens), kindsAndLexemes(again))
}

func TestLexUnit(t *testing.T) {
	u := &ast.Unit{Source: squareGame}
	require.NoError(t, Lex(u))
	require.NotEmpty(t, u.Tokens)
	assert.Equal(t, token.CLASS, u.Tokens[0].Kind)
	assert.Equal(t, 3, u.Tokens[0].Pos.Line)
	assert.Equal(t, token.EOF, u.Tokens[len(u.Tokens)-1].Kind)
}
