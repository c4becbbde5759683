// Package diag defines the fatal diagnostics raised while compiling a class.
package diag

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/kartiknair/jackc/pkg/token"
)

// Kind identifies the compilation phase that failed.
type Kind int

const (
	LexError Kind = iota
	SyntaxError
	CodeGenError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex-error"
	case SyntaxError:
		return "syntax-error"
	case CodeGenError:
		return "codegen-error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a diagnostic anchored at a source position.
type Error struct {
	Kind    Kind
	Pos     token.Marker
	Message string

	// Trace holds the last few tokens consumed before a syntax error.
	Trace []token.Token
}

func Errorf(kind Kind, pos token.Marker, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %d:%d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
	if len(e.Trace) > 0 {
		words := make([]string, len(e.Trace))
		for i, t := range e.Trace {
			words[i] = t.String()
		}
		msg += fmt.Sprintf(" (after: %s)", strings.Join(words, " "))
	}
	return msg
}

// As extracts a diagnostic from anywhere in err's cause chain.
func As(err error) (*Error, bool) {
	var d *Error
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// Is reports whether err carries a diagnostic of the given kind.
func Is(err error, kind Kind) bool {
	d, ok := As(err)
	return ok && d.Kind == kind
}
