// Package vmgen compiles a class syntax tree into stack-VM instructions.
package vmgen

import (
	"strconv"

	"github.com/kartiknair/jackc/pkg/ast"
	"github.com/kartiknair/jackc/pkg/diag"
	"github.com/kartiknair/jackc/pkg/symbols"
	"github.com/kartiknair/jackc/pkg/token"
)

// Generator holds the state of one class compilation. It must not be reused
// for another class.
type Generator struct {
	class      *ast.Class
	classScope *symbols.Scope

	subroutine *ast.SubroutineDec
	scope      *symbols.Scope

	// Label counters, reset for every subroutine.
	ifCount    int
	whileCount int

	w Writer
}

func (g *Generator) genError(t token.Token, format string, args ...interface{}) *diag.Error {
	return diag.Errorf(diag.CodeGenError, t.Pos, format, args...)
}

var segments = map[symbols.Kind]Segment{
	symbols.Static:   Static,
	symbols.Field:    This,
	symbols.Argument: Argument,
	symbols.Local:    Local,
}

var binaryOperations = map[token.TokenKind]Operation{
	token.PLUS:    Add,
	token.MINUS:   Sub,
	token.AND:     And,
	token.OR:      Or,
	token.EQUAL:   Eq,
	token.LESSER:  Lt,
	token.GREATER: Gt,
}

// The VM has no multiply or divide instruction.
var runtimeOperations = map[token.TokenKind]string{
	token.STAR:  "Math.multiply",
	token.SLASH: "Math.divide",
}

func (g *Generator) className() string {
	return g.class.Name.Lexeme
}

func (g *Generator) declareNames(scope *symbols.Scope, typ token.Token, names []token.Token, kind symbols.Kind) error {
	for _, name := range names {
		if _, err := scope.Define(name.Lexeme, typ.Lexeme, kind); err != nil {
			return g.genError(name, "%s", err.Error())
		}
	}
	return nil
}

func (g *Generator) declareClass() error {
	g.classScope = symbols.NewScope()

	for _, v := range g.class.Vars {
		kind := symbols.Field
		if v.Kind.Kind == token.STATIC {
			kind = symbols.Static
		}
		if err := g.declareNames(g.classScope, v.Type, v.Names, kind); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) declareSubroutine(sub *ast.SubroutineDec) error {
	g.scope.Reset()

	// A method's receiver arrives as argument 0.
	if sub.Kind.Kind == token.METHOD {
		if _, err := g.scope.Define("this", g.className(), symbols.Argument); err != nil {
			return g.genError(sub.Name, "%s", err.Error())
		}
	}

	for _, param := range sub.Parameters {
		if err := g.declareNames(g.scope, param.Type, []token.Token{param.Name}, symbols.Argument); err != nil {
			return err
		}
	}

	for _, v := range sub.Body.Vars {
		if err := g.declareNames(g.scope, v.Type, v.Names, symbols.Local); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) resolve(name token.Token) (symbols.Symbol, error) {
	sym, ok := g.scope.Lookup(name.Lexeme)
	if !ok {
		return sym, g.genError(name, "undefined variable %q", name.Lexeme)
	}
	return sym, nil
}

func (g *Generator) push(sym symbols.Symbol) {
	g.w.WritePush(segments[sym.Kind], sym.Position)
}

func (g *Generator) pop(sym symbols.Symbol) {
	g.w.WritePop(segments[sym.Kind], sym.Position)
}

func (g *Generator) genSubroutine(sub *ast.SubroutineDec) error {
	g.subroutine = sub
	g.ifCount = 0
	g.whileCount = 0

	if err := g.declareSubroutine(sub); err != nil {
		return err
	}

	g.w.WriteFunction(g.className()+"."+sub.Name.Lexeme, g.scope.Count(symbols.Local))

	switch sub.Kind.Kind {
	case token.CONSTRUCTOR:
		g.w.WritePush(Constant, g.classScope.Count(symbols.Field))
		g.w.WriteCall("Memory.alloc", 1)
		g.w.WritePop(Pointer, 0)
	case token.METHOD:
		g.w.WritePush(Argument, 0)
		g.w.WritePop(Pointer, 0)
	}

	return g.genStatements(sub.Body.Statements)
}

func (g *Generator) genStatements(statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := g.genStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genStatement(stmt ast.Statement) error {
	switch stmt := stmt.(type) {
	case *ast.LetStatement:
		return g.genLet(stmt)
	case *ast.IfStatement:
		return g.genIf(stmt)
	case *ast.WhileStatement:
		return g.genWhile(stmt)
	case *ast.DoStatement:
		if err := g.genCall(stmt.Call); err != nil {
			return err
		}
		g.w.WritePop(Temp, 0)
		return nil
	case *ast.ReturnStatement:
		return g.genReturn(stmt)
	}

	return g.genError(g.subroutine.Name, "unrecognized statement %T", stmt)
}

func (g *Generator) genLet(stmt *ast.LetStatement) error {
	target, err := g.resolve(stmt.Name)
	if err != nil {
		return err
	}

	if stmt.Index == nil {
		if err := g.genExpression(stmt.Value); err != nil {
			return err
		}
		g.pop(target)
		return nil
	}

	// The element address is computed first and parked while the right-hand
	// side runs, since that may set `that` itself.
	if err := g.genExpression(stmt.Index); err != nil {
		return err
	}
	g.push(target)
	g.w.WriteArithmetic(Add)

	if err := g.genExpression(stmt.Value); err != nil {
		return err
	}
	g.w.WritePop(Temp, 0)
	g.w.WritePop(Pointer, 1)
	g.w.WritePush(Temp, 0)
	g.w.WritePop(That, 0)
	return nil
}

func (g *Generator) genIf(stmt *ast.IfStatement) error {
	n := strconv.Itoa(g.ifCount)
	g.ifCount++

	if err := g.genExpression(stmt.Condition); err != nil {
		return err
	}
	g.w.WriteIf("IF_TRUE" + n)
	g.w.WriteGoto("IF_FALSE" + n)
	g.w.WriteLabel("IF_TRUE" + n)

	if err := g.genStatements(stmt.Then); err != nil {
		return err
	}

	if !stmt.HasElse {
		g.w.WriteLabel("IF_FALSE" + n)
		return nil
	}

	g.w.WriteGoto("IF_END" + n)
	g.w.WriteLabel("IF_FALSE" + n)
	if err := g.genStatements(stmt.Else); err != nil {
		return err
	}
	g.w.WriteLabel("IF_END" + n)
	return nil
}

func (g *Generator) genWhile(stmt *ast.WhileStatement) error {
	n := strconv.Itoa(g.whileCount)
	g.whileCount++

	g.w.WriteLabel("WHILE_EXP" + n)
	if err := g.genExpression(stmt.Condition); err != nil {
		return err
	}
	g.w.WriteArithmetic(Not)
	g.w.WriteIf("WHILE_END" + n)

	if err := g.genStatements(stmt.Body); err != nil {
		return err
	}
	g.w.WriteGoto("WHILE_EXP" + n)
	g.w.WriteLabel("WHILE_END" + n)
	return nil
}

// genReturn always leaves a value for the caller. Void subroutines return 0
// and any expression written after their `return` is not compiled.
func (g *Generator) genReturn(stmt *ast.ReturnStatement) error {
	switch {
	case g.subroutine.IsVoid(), stmt.Value == nil:
		g.w.WritePush(Constant, 0)
	default:
		if err := g.genExpression(stmt.Value); err != nil {
			return err
		}
	}

	g.w.WriteReturn()
	return nil
}

// genExpression evaluates the chain strictly left to right: both operands are
// on the stack before their operator is applied.
func (g *Generator) genExpression(expr *ast.Expression) error {
	if expr == nil || expr.First == nil {
		return g.genError(g.subroutine.Name, "malformed expression in %s", g.subroutine.Name.Lexeme)
	}

	if err := g.genTerm(expr.First); err != nil {
		return err
	}

	for _, rest := range expr.Rest {
		if err := g.genTerm(rest.Term); err != nil {
			return err
		}
		if err := g.genOperator(rest.Operator); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genOperator(op token.Token) error {
	if operation, ok := binaryOperations[op.Kind]; ok {
		g.w.WriteArithmetic(operation)
		return nil
	}
	if fn, ok := runtimeOperations[op.Kind]; ok {
		g.w.WriteCall(fn, 2)
		return nil
	}
	return g.genError(op, "unknown binary operator %q", op.Lexeme)
}

func (g *Generator) genTerm(term ast.Term) error {
	if term == nil {
		return g.genError(g.subroutine.Name, "malformed expression in %s", g.subroutine.Name.Lexeme)
	}
	at := term.ErrorToken()

	switch term := term.(type) {
	case *ast.IntegerConstant:
		value, err := strconv.Atoi(term.Token.Lexeme)
		if err != nil {
			return g.genError(at, "invalid integer constant %q", term.Token.Lexeme)
		}
		g.w.WritePush(Constant, value)
	case *ast.StringConstant:
		g.genString(term.Token.Lexeme)
	case *ast.KeywordConstant:
		return g.genKeyword(term.Token)
	case *ast.VariableTerm:
		sym, err := g.resolve(term.Name)
		if err != nil {
			return err
		}
		g.push(sym)
	case *ast.IndexTerm:
		base, err := g.resolve(term.Name)
		if err != nil {
			return err
		}
		if err := g.genExpression(term.Index); err != nil {
			return err
		}
		g.push(base)
		g.w.WriteArithmetic(Add)
		g.w.WritePop(Pointer, 1)
		g.w.WritePush(That, 0)
	case *ast.SubroutineCall:
		return g.genCall(term)
	case *ast.ParenTerm:
		return g.genExpression(term.Expression)
	case *ast.UnaryTerm:
		if err := g.genTerm(term.Operand); err != nil {
			return err
		}
		switch term.Operator.Kind {
		case token.MINUS:
			g.w.WriteArithmetic(Neg)
		case token.TILDE:
			g.w.WriteArithmetic(Not)
		default:
			return g.genError(at, "unknown unary operator %q", term.Operator.Lexeme)
		}
	default:
		return g.genError(at, "unrecognized term %T", term)
	}
	return nil
}

// Strings are built at run time, one appendChar per character.
func (g *Generator) genString(s string) {
	runes := []rune(s)
	g.w.WritePush(Constant, len(runes))
	g.w.WriteCall("String.new", 1)
	for _, r := range runes {
		g.w.WritePush(Constant, int(r))
		g.w.WriteCall("String.appendChar", 2)
	}
}

func (g *Generator) genKeyword(t token.Token) error {
	switch t.Kind {
	case token.TRUE:
		g.w.WritePush(Constant, 0)
		g.w.WriteArithmetic(Not)
	case token.FALSE, token.NULL:
		g.w.WritePush(Constant, 0)
	case token.THIS:
		g.w.WritePush(Pointer, 0)
	default:
		return g.genError(t, "unknown keyword constant %q", t.Lexeme)
	}
	return nil
}

func (g *Generator) genArguments(args []*ast.Expression) error {
	for _, arg := range args {
		if err := g.genExpression(arg); err != nil {
			return err
		}
	}
	return nil
}

// genCall handles the three call shapes. An unqualified call is a method call
// on the current object. A call qualified by a variable is a method call on
// the object it holds, dispatched on the variable's declared type. Anything
// else qualified by a name is a function or constructor of that class.
func (g *Generator) genCall(call *ast.SubroutineCall) error {
	nArgs := len(call.Arguments)

	if call.Receiver == nil {
		g.w.WritePush(Pointer, 0)
		if err := g.genArguments(call.Arguments); err != nil {
			return err
		}
		g.w.WriteCall(g.className()+"."+call.Name.Lexeme, nArgs+1)
		return nil
	}

	if err := g.genArguments(call.Arguments); err != nil {
		return err
	}

	if receiver, ok := g.scope.Lookup(call.Receiver.Lexeme); ok {
		g.push(receiver)
		g.w.WritePop(Pointer, 0)
		g.w.WriteCall(receiver.Type+"."+call.Name.Lexeme, nArgs+1)
		return nil
	}

	g.w.WriteCall(call.Receiver.Lexeme+"."+call.Name.Lexeme, nArgs)
	return nil
}

// Gen compiles one class. The listing is only returned when the whole class
// compiled.
func Gen(class *ast.Class) (string, error) {
	g := &Generator{class: class}

	if err := g.declareClass(); err != nil {
		return "", err
	}
	g.scope = symbols.NewScopeFromEnclosing(g.classScope)

	for _, sub := range class.Subroutines {
		if err := g.genSubroutine(sub); err != nil {
			return "", err
		}
	}

	return g.w.String(), nil
}
