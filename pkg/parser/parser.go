package parser

import (
	"github.com/kartiknair/jackc/pkg/ast"
	"github.com/kartiknair/jackc/pkg/diag"
	"github.com/kartiknair/jackc/pkg/token"
)

// traceLength is how many already consumed tokens a syntax error reports.
const traceLength = 5

type Parser struct {
	tokens  []token.Token
	current int
}

// bailout carries a syntax error up to the recover in ParseClass.
type bailout struct {
	err *diag.Error
}

func (p *Parser) parseError(t token.Token, message string) {
	start := p.current - traceLength
	if start < 0 {
		start = 0
	}
	trace := append([]token.Token(nil), p.tokens[start:p.current]...)

	panic(bailout{&diag.Error{
		Kind:    diag.SyntaxError,
		Pos:     t.Pos,
		Message: message,
		Trace:   trace,
	}})
}

// peek returns a token relative to the cursor without moving it. Reads past
// the end yield the trailing EOF token.
func (p *Parser) peek(distance int) token.Token {
	i := p.current + distance
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// advance consumes the current token and returns it.
func (p *Parser) advance() token.Token {
	t := p.peek(0)
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return t
}

// retreat un-consumes the last token.
func (p *Parser) retreat() {
	if p.current > 0 {
		p.current--
	}
}

func (p *Parser) check(kinds ...token.TokenKind) bool {
	current := p.peek(0).Kind
	for _, kind := range kinds {
		if current == kind {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.TokenKind, message string) token.Token {
	if p.peek(0).Kind != kind {
		p.parseError(p.peek(0), message)
	}
	return p.advance()
}

// commaSeparated parses `item (',' item)*`.
func (p *Parser) commaSeparated(item func()) {
	item()
	for p.check(token.COMMA) {
		p.advance()
		item()
	}
}

func (p *Parser) parseType(message string) token.Token {
	if !p.check(token.INT, token.CHAR, token.BOOLEAN, token.IDENTIFIER) {
		p.parseError(p.peek(0), message)
	}
	return p.advance()
}

func (p *Parser) parseClass() *ast.Class {
	p.expect(token.CLASS, "Expect `class` at the start of the file.")
	class := &ast.Class{
		Name: p.expect(token.IDENTIFIER, "Expect class name after `class`."),
	}
	p.expect(token.LEFT_BRACE, "Expect `{` after class name.")

	p.parseClassMembers(class)

	p.expect(token.RIGHT_BRACE, "Expect `}` at the end of the class.")
	p.expect(token.EOF, "Unexpected tokens after the end of the class.")
	return class
}

// parseClassMembers alternates between runs of variable declarations and
// runs of subroutine declarations until the class body ends.
func (p *Parser) parseClassMembers(class *ast.Class) {
	for {
		switch p.peek(0).Kind {
		case token.STATIC, token.FIELD:
			for p.check(token.STATIC, token.FIELD) {
				class.Vars = append(class.Vars, p.parseClassVarDec())
			}
		case token.CONSTRUCTOR, token.FUNCTION, token.METHOD:
			for p.check(token.CONSTRUCTOR, token.FUNCTION, token.METHOD) {
				class.Subroutines = append(class.Subroutines, p.parseSubroutineDec())
			}
		case token.RIGHT_BRACE, token.EOF:
			return
		default:
			p.parseError(p.peek(0), "Expect class variable or subroutine declaration.")
		}
	}
}

func (p *Parser) parseClassVarDec() *ast.ClassVarDec {
	decl := &ast.ClassVarDec{Kind: p.advance()}
	decl.Type = p.parseType("Expect type in class variable declaration.")
	p.commaSeparated(func() {
		decl.Names = append(decl.Names, p.expect(token.IDENTIFIER, "Expect variable name."))
	})
	p.expect(token.SEMICOLON, "Expect `;` after class variable declaration.")
	return decl
}

func (p *Parser) parseSubroutineDec() *ast.SubroutineDec {
	sub := &ast.SubroutineDec{Kind: p.advance()}

	if p.check(token.VOID) {
		sub.ReturnType = p.advance()
	} else {
		sub.ReturnType = p.parseType("Expect `void` or a return type.")
	}

	sub.Name = p.expect(token.IDENTIFIER, "Expect subroutine name.")
	p.expect(token.LEFT_PAREN, "Expect `(` after subroutine name.")
	if !p.check(token.RIGHT_PAREN) {
		p.commaSeparated(func() {
			param := ast.Parameter{Type: p.parseType("Expect parameter type.")}
			param.Name = p.expect(token.IDENTIFIER, "Expect parameter name.")
			sub.Parameters = append(sub.Parameters, param)
		})
	}
	p.expect(token.RIGHT_PAREN, "Missing closing `)` after parameter list.")

	p.expect(token.LEFT_BRACE, "Expect `{` before subroutine body.")
	for p.check(token.VAR) {
		sub.Body.Vars = append(sub.Body.Vars, p.parseVarDec())
	}
	sub.Body.Statements = p.parseStatements()
	p.expect(token.RIGHT_BRACE, "Expect `}` after subroutine body.")

	return sub
}

func (p *Parser) parseVarDec() *ast.VarDec {
	p.advance() // skip the `var`
	decl := &ast.VarDec{Type: p.parseType("Expect type after `var`.")}
	p.commaSeparated(func() {
		decl.Names = append(decl.Names, p.expect(token.IDENTIFIER, "Expect variable name."))
	})
	p.expect(token.SEMICOLON, "Expect `;` after variable declaration.")
	return decl
}

// parseStatements stops at the closing `}` of the enclosing block, which it
// leaves for the caller.
func (p *Parser) parseStatements() []ast.Statement {
	statements := []ast.Statement{}
	for {
		switch p.peek(0).Kind {
		case token.LET:
			statements = append(statements, p.parseLet())
		case token.IF:
			statements = append(statements, p.parseIf())
		case token.WHILE:
			statements = append(statements, p.parseWhile())
		case token.DO:
			statements = append(statements, p.parseDo())
		case token.RETURN:
			statements = append(statements, p.parseReturn())
		case token.RIGHT_BRACE:
			return statements
		case token.EOF:
			p.parseError(p.peek(0), "Unclosed block.")
		default:
			p.parseError(p.peek(0), "Expect statement.")
		}
	}
}

func (p *Parser) parseBlock(after string) []ast.Statement {
	p.expect(token.LEFT_BRACE, "Expect `{` after "+after+".")
	statements := p.parseStatements()
	p.expect(token.RIGHT_BRACE, "Expect `}` to close block.")
	return statements
}

func (p *Parser) parseCondition(keyword string) *ast.Expression {
	p.expect(token.LEFT_PAREN, "Expect `(` after `"+keyword+"`.")
	condition := p.parseExpression()
	p.expect(token.RIGHT_PAREN, "Expect `)` after "+keyword+" condition.")
	return condition
}

func (p *Parser) parseLet() *ast.LetStatement {
	stmt := &ast.LetStatement{LetToken: p.advance()}
	stmt.Name = p.expect(token.IDENTIFIER, "Expect variable name after `let`.")

	if p.check(token.LEFT_BRACKET) {
		p.advance()
		stmt.Index = p.parseExpression()
		p.expect(token.RIGHT_BRACKET, "Missing close bracket in index expression.")
	}

	p.expect(token.EQUAL, "Expect `=` in let statement.")
	stmt.Value = p.parseExpression()
	p.expect(token.SEMICOLON, "Expect `;` after let statement.")
	return stmt
}

func (p *Parser) parseIf() *ast.IfStatement {
	stmt := &ast.IfStatement{IfToken: p.advance()}
	stmt.Condition = p.parseCondition("if")
	stmt.Then = p.parseBlock("if condition")

	// One token past the consequent's `}` decides whether an else follows.
	if p.check(token.ELSE) {
		p.advance()
		stmt.HasElse = true
		stmt.Else = p.parseBlock("`else`")
	}
	return stmt
}

func (p *Parser) parseWhile() *ast.WhileStatement {
	stmt := &ast.WhileStatement{WhileToken: p.advance()}
	stmt.Condition = p.parseCondition("while")
	stmt.Body = p.parseBlock("while condition")
	return stmt
}

func (p *Parser) parseDo() *ast.DoStatement {
	stmt := &ast.DoStatement{DoToken: p.advance()}
	stmt.Call = p.parseSubroutineCall()
	p.expect(token.SEMICOLON, "Expect `;` after do statement.")
	return stmt
}

func (p *Parser) parseReturn() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{ReturnToken: p.advance()}
	if !p.check(token.SEMICOLON) {
		stmt.Value = p.parseExpression()
	}
	p.expect(token.SEMICOLON, "Expect `;` after return statement.")
	return stmt
}

func (p *Parser) parseExpression() *ast.Expression {
	expr := &ast.Expression{First: p.parseTerm()}
	for p.peek(0).Kind.IsBinaryOperator() {
		op := p.advance()
		expr.Rest = append(expr.Rest, ast.OpTerm{Operator: op, Term: p.parseTerm()})
	}
	return expr
}

func (p *Parser) parseTerm() ast.Term {
	t := p.peek(0)

	switch {
	case t.Kind == token.INTEGER_CONSTANT:
		return &ast.IntegerConstant{Token: p.advance()}
	case t.Kind == token.STRING_CONSTANT:
		return &ast.StringConstant{Token: p.advance()}
	case t.Kind.IsKeywordConstant():
		return &ast.KeywordConstant{Token: p.advance()}
	case t.Kind == token.LEFT_PAREN:
		p.advance()
		inner := p.parseExpression()
		p.expect(token.RIGHT_PAREN, "Missing closing parenthesis in grouping.")
		return &ast.ParenTerm{Expression: inner, LeftParenToken: t}
	case t.Kind.IsUnaryOperator():
		p.advance()
		return &ast.UnaryTerm{Operator: t, Operand: p.parseTerm()}
	case t.Kind == token.IDENTIFIER:
		name := p.advance()

		// The token after the identifier separates `a`, `a[i]`, `a(...)`
		// and `a.b(...)`.
		switch p.peek(0).Kind {
		case token.LEFT_BRACKET:
			p.advance()
			index := p.parseExpression()
			p.expect(token.RIGHT_BRACKET, "Missing close bracket in index expression.")
			return &ast.IndexTerm{Name: name, Index: index}
		case token.LEFT_PAREN, token.DOT:
			// Give the identifier back; the call rule starts with it.
			p.retreat()
			return p.parseSubroutineCall()
		}
		return &ast.VariableTerm{Name: name}
	}

	p.parseError(t, "Expected expression.")
	return nil
}

func (p *Parser) parseSubroutineCall() *ast.SubroutineCall {
	call := &ast.SubroutineCall{}
	name := p.expect(token.IDENTIFIER, "Expect subroutine name.")

	if p.check(token.DOT) {
		p.advance()
		call.Receiver = &name
		name = p.expect(token.IDENTIFIER, "Expect subroutine name after `.`.")
	}
	call.Name = name

	p.expect(token.LEFT_PAREN, "Expect `(` after subroutine name.")
	if !p.check(token.RIGHT_PAREN) {
		p.commaSeparated(func() {
			call.Arguments = append(call.Arguments, p.parseExpression())
		})
	}
	p.expect(token.RIGHT_PAREN, "Missing closing parenthesis in subroutine call.")
	return call
}

// ParseClass builds the syntax tree of the single class in tokens. The slice
// must end with an EOF token, as produced by the lexer.
func ParseClass(tokens []token.Token) (class *ast.Class, err error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(append([]token.Token(nil), tokens...), token.Token{Kind: token.EOF})
	}

	p := Parser{tokens: tokens}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			class, err = nil, b.err
		}
	}()

	return p.parseClass(), nil
}

func Parse(u *ast.Unit) error {
	class, err := ParseClass(u.Tokens)
	if err != nil {
		return err
	}
	u.Class = class
	return nil
}
