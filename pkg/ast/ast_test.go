package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartiknair/jackc/pkg/token"
)

func tok(kind token.TokenKind, lexeme string) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme}
}

func ident(name string) token.Token {
	return tok(token.IDENTIFIER, name)
}

func TestSourceContext(t *testing.T) {
	u := &Unit{Source: "class Main {\n\tfield int x;\n}\n"}

	got := u.SourceContext(token.Marker{Line: 2, Column: 8})
	assert.Equal(t, "\n   1 | class Main {\n   2 | \tfield int x;\n     | \t      ^\n   3 | }", got)

	got = u.SourceContext(token.Marker{Line: 1, Column: 1})
	assert.Equal(t, "\n   1 | class Main {\n     | ^\n   2 | \tfield int x;", got)

	assert.Equal(t, "", u.SourceContext(token.Marker{Line: 9, Column: 1}))
}

func TestSubroutineIsVoid(t *testing.T) {
	assert.True(t, (&SubroutineDec{ReturnType: tok(token.VOID, "void")}).IsVoid())
	assert.False(t, (&SubroutineDec{ReturnType: tok(token.INT, "int")}).IsVoid())
}

func TestCallErrorToken(t *testing.T) {
	recv := ident("obj")
	assert.Equal(t, "obj", (&SubroutineCall{Receiver: &recv, Name: ident("run")}).ErrorToken().Lexeme)
	assert.Equal(t, "run", (&SubroutineCall{Name: ident("run")}).ErrorToken().Lexeme)
}

// kinds flattens a tree into "kind:text" strings in preorder.
func kinds(n *Node) []string {
	out := []string{n.Kind + ":" + n.Text}
	for _, c := range n.Children {
		out = append(out, kinds(c)...)
	}
	return out
}

func TestTree(t *testing.T) {
	// class Main { field int a, b; method void run(int n) { let a[n] = -b; return; } }
	class := &Class{
		Name: ident("Main"),
		Vars: []*ClassVarDec{{
			Kind:  tok(token.FIELD, "field"),
			Type:  tok(token.INT, "int"),
			Names: []token.Token{ident("a"), ident("b")},
		}},
		Subroutines: []*SubroutineDec{{
			Kind:       tok(token.METHOD, "method"),
			ReturnType: tok(token.VOID, "void"),
			Name:       ident("run"),
			Parameters: []Parameter{{Type: tok(token.INT, "int"), Name: ident("n")}},
			Body: SubroutineBody{
				Statements: []Statement{
					&LetStatement{
						Name:  ident("a"),
						Index: &Expression{First: &VariableTerm{Name: ident("n")}},
						Value: &Expression{First: &UnaryTerm{
							Operator: tok(token.MINUS, "-"),
							Operand:  &VariableTerm{Name: ident("b")},
						}},
					},
					&ReturnStatement{},
				},
			},
		}},
	}

	tree := Tree(class)
	require.Equal(t, "class", tree.Kind)

	assert.Equal(t, []string{
		"class:", "keyword:class", "identifier:Main", "symbol:{",
		"classVarDec:", "keyword:field", "keyword:int", "identifier:a", "symbol:,", "identifier:b", "symbol:;",
		"subroutineDec:", "keyword:method", "keyword:void", "identifier:run", "symbol:(",
		"parameterList:", "keyword:int", "identifier:n",
		"symbol:)",
		"subroutineBody:", "symbol:{",
		"statements:",
		"letStatement:", "keyword:let", "identifier:a", "symbol:[",
		"expression:", "term:", "identifier:n",
		"symbol:]", "symbol:=",
		"expression:", "term:", "symbol:-", "term:", "identifier:b",
		"symbol:;",
		"returnStatement:", "keyword:return", "symbol:;",
		"symbol:}",
		"symbol:}",
	}, kinds(tree))
}

func TestTreeEmptyRulesStayInner(t *testing.T) {
	class := &Class{
		Name: ident("Empty"),
		Subroutines: []*SubroutineDec{{
			Kind:       tok(token.FUNCTION, "function"),
			ReturnType: tok(token.VOID, "void"),
			Name:       ident("f"),
		}},
	}

	sub := Tree(class).Children[3]
	require.Equal(t, "subroutineDec", sub.Kind)

	params := sub.Children[4]
	assert.Equal(t, "parameterList", params.Kind)
	assert.False(t, params.IsLeaf())
	assert.Empty(t, params.Children)

	statements := sub.Children[6].Children[1]
	assert.Equal(t, "statements", statements.Kind)
	assert.False(t, statements.IsLeaf())
}

func TestTreeQualifiedCall(t *testing.T) {
	recv := ident("Output")
	call := &SubroutineCall{
		Receiver: &recv,
		Name:     ident("printInt"),
		Arguments: []*Expression{
			{First: &IntegerConstant{Token: tok(token.INTEGER_CONSTANT, "1")}},
			{First: &KeywordConstant{Token: tok(token.TRUE, "true")}},
		},
	}

	got := kinds(statementTree(&DoStatement{Call: call}))
	assert.Equal(t, []string{
		"doStatement:", "keyword:do", "identifier:Output", "symbol:.", "identifier:printInt", "symbol:(",
		"expressionList:",
		"expression:", "term:", "integerConstant:1",
		"symbol:,",
		"expression:", "term:", "keyword:true",
		"symbol:)", "symbol:;",
	}, got)
}
