package lexer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kartiknair/jackc/pkg/ast"
	"github.com/kartiknair/jackc/pkg/diag"
	"github.com/kartiknair/jackc/pkg/token"
)

// MaxInteger is the largest integer constant the VM can push.
const MaxInteger = 32767

// Literals are matched first so comment markers inside them survive.
var commentPattern = regexp.MustCompile(`("[^"\n]*"|'[^'\n]*')|//.*|/\*(?s:.*?)\*/`)

// StripComments blanks out line and block comments. Every byte of a comment
// other than a newline becomes a space, so offsets, lines and columns of the
// remaining text are unchanged.
func StripComments(source string) string {
	return commentPattern.ReplaceAllStringFunc(source, func(match string) string {
		if match[0] == '"' || match[0] == '\'' {
			return match
		}
		return blank(match)
	})
}

// blank replaces every byte of s except newlines with a space.
func blank(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == '\n' {
			b.WriteByte('\n')
		} else {
			b.WriteString(strings.Repeat(" ", size))
		}
		s = s[size:]
	}
	return b.String()
}

type Lexer struct {
	source    string
	start     int
	current   int
	line      int
	lineBegin int
}

func New(source string) *Lexer {
	l := &Lexer{source: StripComments(source)}
	l.Reset()
	return l
}

// Reset rewinds the lexer to the beginning of its source.
func (l *Lexer) Reset() {
	l.start = 0
	l.current = 0
	l.line = 1
	l.lineBegin = 0
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() byte {
	l.current++
	return l.source[l.current-1]
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) marker() token.Marker {
	return token.Marker{
		Offset: l.start,
		Line:   l.line,
		Column: l.start - l.lineBegin + 1,
	}
}

func (l *Lexer) makeToken(kind token.TokenKind, lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, Kind: kind, Pos: l.marker()}
}

func (l *Lexer) lexError(format string, args ...interface{}) *diag.Error {
	return diag.Errorf(diag.LexError, l.marker(), format, args...)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func isAlphaNumeric(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		case '\n':
			l.advance()
			l.line++
			l.lineBegin = l.current
		default:
			return
		}
	}
}

func (l *Lexer) lexIdent() token.Token {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]
	return l.makeToken(token.LookupIdent(text), text)
}

func (l *Lexer) lexNumber() (token.Token, error) {
	for isDigit(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]
	value, err := strconv.Atoi(text)
	if err != nil || value > MaxInteger {
		return token.Token{}, l.lexError("integer constant %s is out of range (0..%d)", text, MaxInteger)
	}

	return l.makeToken(token.INTEGER_CONSTANT, strconv.Itoa(value)), nil
}

func (l *Lexer) lexString() (token.Token, error) {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			return token.Token{}, l.lexError("strings must be on a single line")
		}
		l.advance()
	}

	if l.isAtEnd() {
		return token.Token{}, l.lexError("unterminated string literal")
	}

	l.advance() // the closing quote

	value := l.source[l.start+1 : l.current-1]
	return l.makeToken(token.STRING_CONSTANT, value), nil
}

// Next scans the next token. Once the source is exhausted every call returns
// an EOF token.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	l.start = l.current

	if l.isAtEnd() {
		return l.makeToken(token.EOF, ""), nil
	}

	c := l.advance()
	switch {
	case isAlpha(c):
		return l.lexIdent(), nil
	case isDigit(c):
		return l.lexNumber()
	case c == '"':
		return l.lexString()
	}

	if kind, ok := token.Symbols[c]; ok {
		return l.makeToken(kind, string(c)), nil
	}

	r, size := utf8.DecodeRuneInString(l.source[l.start:])
	l.current = l.start + size
	return token.Token{}, l.lexError("unexpected character: %q", r)
}

// Tokenize lexes the whole source. The returned slice always ends with a
// single EOF token.
func Tokenize(source string) ([]token.Token, error) {
	l := New(source)
	var tokens []token.Token

	for {
		t, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
		if t.Kind == token.EOF {
			return tokens, nil
		}
	}
}

func Lex(u *ast.Unit) error {
	tokens, err := Tokenize(u.Source)
	if err != nil {
		return err
	}
	u.Tokens = tokens
	return nil
}
