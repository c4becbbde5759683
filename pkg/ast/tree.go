package ast

import "github.com/kartiknair/jackc/pkg/token"

// Node is the untyped view of a syntax tree: a leaf carries the text of a
// single token, an inner node carries its children in source order. Kinds are
// the grammar's rule names ("class", "letStatement", "term", ...) for inner
// nodes and token categories ("keyword", "symbol", ...) for leaves.
type Node struct {
	Kind     string
	Text     string
	Children []*Node
}

func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

func leaf(t token.Token) *Node {
	return &Node{Kind: t.Kind.Category(), Text: t.Lexeme}
}

func symbol(kind token.TokenKind) *Node {
	return &Node{Kind: "symbol", Text: kind.String()}
}

func keyword(kind token.TokenKind) *Node {
	return &Node{Kind: "keyword", Text: kind.String()}
}

// inner always has a non-nil child slice so empty rules stay inner nodes.
func inner(kind string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Kind: kind, Children: children}
}

func names(nodes []*Node, names []token.Token) []*Node {
	for i, name := range names {
		if i > 0 {
			nodes = append(nodes, symbol(token.COMMA))
		}
		nodes = append(nodes, leaf(name))
	}
	return nodes
}

// Tree converts a class into its labeled tree, restoring every keyword and
// symbol the grammar requires.
func Tree(c *Class) *Node {
	children := []*Node{keyword(token.CLASS), leaf(c.Name), symbol(token.LEFT_BRACE)}
	for _, v := range c.Vars {
		children = append(children, classVarDecTree(v))
	}
	for _, s := range c.Subroutines {
		children = append(children, subroutineDecTree(s))
	}
	children = append(children, symbol(token.RIGHT_BRACE))
	return inner("class", children...)
}

func classVarDecTree(v *ClassVarDec) *Node {
	children := names([]*Node{leaf(v.Kind), leaf(v.Type)}, v.Names)
	children = append(children, symbol(token.SEMICOLON))
	return inner("classVarDec", children...)
}

func subroutineDecTree(s *SubroutineDec) *Node {
	var params []*Node
	for i, p := range s.Parameters {
		if i > 0 {
			params = append(params, symbol(token.COMMA))
		}
		params = append(params, leaf(p.Type), leaf(p.Name))
	}

	body := []*Node{symbol(token.LEFT_BRACE)}
	for _, v := range s.Body.Vars {
		decl := names([]*Node{keyword(token.VAR), leaf(v.Type)}, v.Names)
		decl = append(decl, symbol(token.SEMICOLON))
		body = append(body, inner("varDec", decl...))
	}
	body = append(body, statementsTree(s.Body.Statements), symbol(token.RIGHT_BRACE))

	return inner("subroutineDec",
		leaf(s.Kind),
		leaf(s.ReturnType),
		leaf(s.Name),
		symbol(token.LEFT_PAREN),
		inner("parameterList", params...),
		symbol(token.RIGHT_PAREN),
		inner("subroutineBody", body...),
	)
}

func statementsTree(statements []Statement) *Node {
	var children []*Node
	for _, s := range statements {
		children = append(children, statementTree(s))
	}
	return inner("statements", children...)
}

func statementTree(s Statement) *Node {
	switch s := s.(type) {
	case *LetStatement:
		children := []*Node{keyword(token.LET), leaf(s.Name)}
		if s.Index != nil {
			children = append(children,
				symbol(token.LEFT_BRACKET), expressionTree(s.Index), symbol(token.RIGHT_BRACKET))
		}
		children = append(children, symbol(token.EQUAL), expressionTree(s.Value), symbol(token.SEMICOLON))
		return inner("letStatement", children...)
	case *IfStatement:
		children := []*Node{
			keyword(token.IF),
			symbol(token.LEFT_PAREN), expressionTree(s.Condition), symbol(token.RIGHT_PAREN),
			symbol(token.LEFT_BRACE), statementsTree(s.Then), symbol(token.RIGHT_BRACE),
		}
		if s.HasElse {
			children = append(children,
				keyword(token.ELSE),
				symbol(token.LEFT_BRACE), statementsTree(s.Else), symbol(token.RIGHT_BRACE))
		}
		return inner("ifStatement", children...)
	case *WhileStatement:
		return inner("whileStatement",
			keyword(token.WHILE),
			symbol(token.LEFT_PAREN), expressionTree(s.Condition), symbol(token.RIGHT_PAREN),
			symbol(token.LEFT_BRACE), statementsTree(s.Body), symbol(token.RIGHT_BRACE),
		)
	case *DoStatement:
		children := append([]*Node{keyword(token.DO)}, callTree(s.Call)...)
		children = append(children, symbol(token.SEMICOLON))
		return inner("doStatement", children...)
	case *ReturnStatement:
		children := []*Node{keyword(token.RETURN)}
		if s.Value != nil {
			children = append(children, expressionTree(s.Value))
		}
		children = append(children, symbol(token.SEMICOLON))
		return inner("returnStatement", children...)
	}

	panic("Statement node has invalid static type.")
}

func expressionTree(e *Expression) *Node {
	children := []*Node{termTree(e.First)}
	for _, rest := range e.Rest {
		children = append(children, leaf(rest.Operator), termTree(rest.Term))
	}
	return inner("expression", children...)
}

// callTree returns the call's nodes unwrapped; the grammar has no
// subroutineCall rule of its own.
func callTree(c *SubroutineCall) []*Node {
	var nodes []*Node
	if c.Receiver != nil {
		nodes = append(nodes, leaf(*c.Receiver), symbol(token.DOT))
	}

	var args []*Node
	for i, arg := range c.Arguments {
		if i > 0 {
			args = append(args, symbol(token.COMMA))
		}
		args = append(args, expressionTree(arg))
	}

	return append(nodes,
		leaf(c.Name),
		symbol(token.LEFT_PAREN),
		inner("expressionList", args...),
		symbol(token.RIGHT_PAREN),
	)
}

func termTree(t Term) *Node {
	switch t := t.(type) {
	case *IntegerConstant:
		return inner("term", leaf(t.Token))
	case *StringConstant:
		return inner("term", leaf(t.Token))
	case *KeywordConstant:
		return inner("term", leaf(t.Token))
	case *VariableTerm:
		return inner("term", leaf(t.Name))
	case *IndexTerm:
		return inner("term",
			leaf(t.Name), symbol(token.LEFT_BRACKET), expressionTree(t.Index), symbol(token.RIGHT_BRACKET))
	case *SubroutineCall:
		return inner("term", callTree(t)...)
	case *ParenTerm:
		return inner("term",
			symbol(token.LEFT_PAREN), expressionTree(t.Expression), symbol(token.RIGHT_PAREN))
	case *UnaryTerm:
		return inner("term", leaf(t.Operator), termTree(t.Operand))
	}

	panic("Term node has invalid static type.")
}
