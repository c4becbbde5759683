// Package symbols implements the class and subroutine scopes identifiers are
// resolved through.
package symbols

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

type Kind int

const (
	Static Kind = iota
	Field
	Argument
	Local
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Field:
		return "field"
	case Argument:
		return "argument"
	case Local:
		return "local"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Symbol struct {
	Name     string
	Type     string
	Kind     Kind
	Position int
}

// Scope maps names to symbols. Positions are handed out densely per kind in
// declaration order, starting at 0. Lookups fall through to the enclosing
// scope, so an inner declaration shadows an outer one.
type Scope struct {
	symbols   map[string]Symbol
	counts    map[Kind]int
	enclosing *Scope
}

func NewScope() *Scope {
	return NewScopeFromEnclosing(nil)
}

func NewScopeFromEnclosing(enclosing *Scope) *Scope {
	return &Scope{
		symbols:   make(map[string]Symbol),
		counts:    make(map[Kind]int),
		enclosing: enclosing,
	}
}

// Define declares name in this scope. Declaring a name twice in the same
// scope is an error; shadowing a name of the enclosing scope is not.
func (s *Scope) Define(name, typ string, kind Kind) (Symbol, error) {
	if existing, ok := s.symbols[name]; ok {
		return existing, errors.Errorf("redeclaration of %s variable %q", existing.Kind, name)
	}

	sym := Symbol{Name: name, Type: typ, Kind: kind, Position: s.counts[kind]}
	s.symbols[name] = sym
	s.counts[kind]++
	return sym, nil
}

func (s *Scope) Lookup(name string) (Symbol, bool) {
	for scope := s; scope != nil; scope = scope.enclosing {
		if sym, ok := scope.symbols[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Count is the number of symbols of kind declared in this scope alone.
func (s *Scope) Count(kind Kind) int {
	return s.counts[kind]
}

func (s *Scope) Len() int {
	return len(s.symbols)
}

// Symbols lists this scope's own symbols ordered by kind, then position.
func (s *Scope) Symbols() []Symbol {
	out := make([]Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Position < out[j].Position
	})
	return out
}

// Reset empties the scope, keeping its enclosing scope.
func (s *Scope) Reset() {
	s.symbols = make(map[string]Symbol)
	s.counts = make(map[Kind]int)
}
