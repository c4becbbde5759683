package ast

import (
	"fmt"
	"strings"

	"github.com/kartiknair/jackc/pkg/token"
)

// Unit is one source file moving through the pipeline.
type Unit struct {
	Path   string
	Source string
	Tokens []token.Token
	Class  *Class
}

// SourceContext renders the lines around pos with a caret under its column.
func (u *Unit) SourceContext(pos token.Marker) string {
	source := strings.ReplaceAll(u.Source, "\r\n", "\n")
	sourceLines := strings.Split(source, "\n")

	if pos.Line < 1 || pos.Line > len(sourceLines) {
		return ""
	}

	line := sourceLines[pos.Line-1]
	column := pos.Column
	if column < 1 {
		column = 1
	}
	if column > len(line)+1 {
		column = len(line) + 1
	}

	offsetHighlight := make([]byte, column)
	for i := 0; i < column-1; i++ {
		if line[i] == '\t' {
			offsetHighlight[i] = '\t'
		} else {
			offsetHighlight[i] = ' '
		}
	}
	offsetHighlight[column-1] = '^'

	var b strings.Builder
	if pos.Line > 1 {
		fmt.Fprintf(&b, "\n%4d | %s", pos.Line-1, sourceLines[pos.Line-2])
	}
	fmt.Fprintf(&b, "\n%4d | %s", pos.Line, line)
	fmt.Fprintf(&b, "\n     | %s", string(offsetHighlight))
	if pos.Line < len(sourceLines) {
		fmt.Fprintf(&b, "\n%4d | %s", pos.Line+1, sourceLines[pos.Line])
	}
	return b.String()
}

type Class struct {
	Name        token.Token
	Vars        []*ClassVarDec
	Subroutines []*SubroutineDec
}

// ClassVarDec declares one or more static or field variables sharing a type.
type ClassVarDec struct {
	Kind  token.Token // `static` or `field`
	Type  token.Token
	Names []token.Token
}

type SubroutineDec struct {
	Kind       token.Token // `constructor`, `function` or `method`
	ReturnType token.Token // `void` or a type
	Name       token.Token
	Parameters []Parameter
	Body       SubroutineBody
}

func (s *SubroutineDec) IsVoid() bool {
	return s.ReturnType.Kind == token.VOID
}

type Parameter struct {
	Type token.Token
	Name token.Token
}

type SubroutineBody struct {
	Vars       []*VarDec
	Statements []Statement
}

type VarDec struct {
	Type  token.Token
	Names []token.Token
}

type Statement interface {
	isStatement()
}

type LetStatement struct {
	Name  token.Token
	Index *Expression // nil unless the target is an array element
	Value *Expression

	LetToken token.Token
}

type IfStatement struct {
	Condition *Expression
	Then      []Statement
	Else      []Statement
	HasElse   bool

	IfToken token.Token
}

type WhileStatement struct {
	Condition *Expression
	Body      []Statement

	WhileToken token.Token
}

type DoStatement struct {
	Call *SubroutineCall

	DoToken token.Token
}

type ReturnStatement struct {
	Value *Expression // nil for a bare `return;`

	ReturnToken token.Token
}

func (*LetStatement) isStatement()    {}
func (*IfStatement) isStatement()     {}
func (*WhileStatement) isStatement()  {}
func (*DoStatement) isStatement()     {}
func (*ReturnStatement) isStatement() {}

// Expression is a flat chain of terms joined by binary operators. Operators
// have no precedence; the chain is evaluated left to right.
type Expression struct {
	First Term
	Rest  []OpTerm
}

type OpTerm struct {
	Operator token.Token
	Term     Term
}

type Term interface {
	isTerm()
	ErrorToken() token.Token
}

type IntegerConstant struct {
	Token token.Token
}

type StringConstant struct {
	Token token.Token
}

// KeywordConstant is one of `true`, `false`, `null` or `this`.
type KeywordConstant struct {
	Token token.Token
}

type VariableTerm struct {
	Name token.Token
}

type IndexTerm struct {
	Name  token.Token
	Index *Expression
}

// SubroutineCall is `name(args)` when Receiver is nil and
// `receiver.name(args)` otherwise. The receiver is either a variable or a
// class name; only the code generator can tell which.
type SubroutineCall struct {
	Receiver  *token.Token
	Name      token.Token
	Arguments []*Expression
}

type ParenTerm struct {
	Expression *Expression

	LeftParenToken token.Token
}

type UnaryTerm struct {
	Operator token.Token
	Operand  Term
}

func (*IntegerConstant) isTerm() {}
func (*StringConstant) isTerm()  {}
func (*KeywordConstant) isTerm() {}
func (*VariableTerm) isTerm()    {}
func (*IndexTerm) isTerm()       {}
func (*SubroutineCall) isTerm()  {}
func (*ParenTerm) isTerm()       {}
func (*UnaryTerm) isTerm()       {}

func (i *IntegerConstant) ErrorToken() token.Token {
	return i.Token
}

func (s *StringConstant) ErrorToken() token.Token {
	return s.Token
}

func (k *KeywordConstant) ErrorToken() token.Token {
	return k.Token
}

func (v *VariableTerm) ErrorToken() token.Token {
	return v.Name
}

func (i *IndexTerm) ErrorToken() token.Token {
	return i.Name
}

func (s *SubroutineCall) ErrorToken() token.Token {
	if s.Receiver != nil {
		return *s.Receiver
	}
	return s.Name
}

func (p *ParenTerm) ErrorToken() token.Token {
	return p.LeftParenToken
}

func (u *UnaryTerm) ErrorToken() token.Token {
	return u.Operator
}
