package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// --- Code Printer (Output looks like Java source) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"||": 3,
	"&&": 4,
	"==": 5,
	"!=": 5,
	"<":  6,
	">":  6,
	"<=": 6,
	">=": 6,
	"+":  7,
	"-":  7,
	"*":  8,
	"/":  8,
	"%":  8,
}

const (
	precAssign  = 1
	precTernary = 2
	precPrefix  = 9
	precPostfix = 10
)

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return precPrefix - 1
}

// CodePrinter renders declarations, statements and expressions as Java
// source. Parsing the output yields the same tree.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Unit renders every type of u as Java source.
func Unit(u *ast.CompilationUnit) string {
	p := NewCodePrinter()
	u.Accept(p)
	return p.String()
}

// Expression renders a single expression.
func Expression(e ast.Expression) string {
	p := NewCodePrinter()
	p.printExpr(e, 0, false)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteByte('\n')
}

func (p *CodePrinter) writeType(t typesystem.Type) {
	p.write(Type(t))
}

func (p *CodePrinter) writeTypeArgs(args []typesystem.Type) {
	if len(args) == 0 {
		return
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Type(a)
	}
	p.write("<" + strings.Join(parts, ", ") + ">")
}

func (p *CodePrinter) writeModifiers(m ast.Modifiers) {
	if m != 0 {
		p.write(m.String() + " ")
	}
}

// exprPrecedence is how tightly e binds.
func exprPrecedence(e ast.Expression) int {
	switch ex := e.(type) {
	case *ast.AssignExpression, *ast.Lambda:
		return precAssign
	case *ast.ConditionalExpression:
		return precTernary
	case *ast.InfixExpression:
		return getPrecedence(ex.Operator)
	case *ast.PrefixExpression, *ast.CastExpression:
		return precPrefix
	}
	return precPostfix
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	prec := exprPrecedence(expr)
	needParens := prec < parentPrec
	// Binary operators are left-associative; assignment and ?: are not.
	if prec == parentPrec {
		if _, ok := expr.(*ast.InfixExpression); ok && isRight {
			needParens = true
		}
		if prec <= precTernary && !isRight {
			needParens = true
		}
	}
	if needParens {
		p.write("(")
	}
	expr.Accept(p)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) printArgs(args []ast.Expression) {
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(a, 0, false)
	}
	p.write(")")
}

var _ ast.Visitor = (*CodePrinter)(nil)

// --- Declarations ---

func (p *CodePrinter) VisitCompilationUnit(n *ast.CompilationUnit) {
	first := true
	for _, td := range n.Types {
		if td.Outer != "" {
			continue
		}
		if !first {
			p.writeln()
		}
		first = false
		p.printTypeDecl(td, n.Types)
	}
}

func (p *CodePrinter) VisitTypeDecl(n *ast.TypeDecl) {
	p.printTypeDecl(n, nil)
}

// printTypeDecl prints n with the member types found among all.
func (p *CodePrinter) printTypeDecl(n *ast.TypeDecl, all []*ast.TypeDecl) {
	p.writeIndent()
	p.writeModifiers(n.Modifiers)
	p.write(n.Kind.String() + " " + n.Name)
	if len(n.TypeParams) > 0 {
		p.write(TypeParams(n.TypeParams))
	}
	if n.Super != nil {
		p.write(" extends ")
		p.writeType(n.Super)
	}
	if len(n.Interfaces) > 0 {
		if n.Kind == ast.InterfaceKind {
			p.write(" extends ")
		} else {
			p.write(" implements ")
		}
		p.write(Types(n.Interfaces))
	}
	p.write(" {")
	p.writeln()
	p.indent++
	for _, f := range n.Fields {
		f.Accept(p)
	}
	for _, m := range n.Methods {
		m.Accept(p)
	}
	for _, inner := range all {
		if inner.Outer == n.Name && inner != n {
			p.printTypeDecl(inner, all)
		}
	}
	p.indent--
	p.writeIndent()
	p.write("}")
	p.writeln()
}

func (p *CodePrinter) VisitFieldDecl(n *ast.FieldDecl) {
	p.writeIndent()
	p.writeModifiers(n.Modifiers)
	p.writeType(n.Type)
	p.write(" " + n.Name)
	if n.Init != nil {
		p.write(" = ")
		p.printExpr(n.Init, 0, true)
	}
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) VisitMethodDecl(n *ast.MethodDecl) {
	p.writeIndent()
	p.writeModifiers(n.Modifiers)
	if len(n.TypeParams) > 0 {
		p.write(TypeParams(n.TypeParams) + " ")
	}
	if !n.IsConstructor {
		p.writeType(n.Return)
		p.write(" ")
	}
	p.write(n.Name + "(")
	for i, param := range n.Params {
		if i > 0 {
			p.write(", ")
		}
		if arr, ok := param.Type.(typesystem.TArray); ok && n.Variadic && i == len(n.Params)-1 {
			p.writeType(arr.Elem)
			p.write("...")
		} else {
			p.writeType(param.Type)
		}
		p.write(" " + param.Name)
	}
	p.write(")")
	if len(n.Throws) > 0 {
		p.write(" throws " + Types(n.Throws))
	}
	if n.Body == nil {
		p.write(";")
		p.writeln()
		return
	}
	p.write(" ")
	n.Body.Accept(p)
	p.writeln()
}

// --- Statements ---

func (p *CodePrinter) printStatement(s ast.Statement) {
	if b, ok := s.(*ast.Block); ok {
		p.writeIndent()
		b.Accept(p)
		p.writeln()
		return
	}
	s.Accept(p)
}

// VisitBlock prints the braces without leading indentation or a trailing
// newline so that blocks can follow a header on the same line.
func (p *CodePrinter) VisitBlock(n *ast.Block) {
	if len(n.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent++
	for _, s := range n.Statements {
		p.printStatement(s)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	p.writeIndent()
	p.write("return")
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, 0, false)
	}
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) VisitThrowStatement(n *ast.ThrowStatement) {
	p.writeIndent()
	p.write("throw ")
	p.printExpr(n.Value, 0, false)
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.writeIndent()
	p.printExpr(n.Expression, 0, false)
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) VisitLocalVarStatement(n *ast.LocalVarStatement) {
	p.writeIndent()
	p.writeType(n.Type)
	p.write(" " + n.Name)
	if n.Init != nil {
		p.write(" = ")
		p.printExpr(n.Init, 0, true)
	}
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.writeIndent()
	p.printIf(n)
}

func (p *CodePrinter) printIf(n *ast.IfStatement) {
	p.write("if (")
	p.printExpr(n.Condition, 0, false)
	p.write(") ")
	p.printBranch(n.Then)
	if n.Else == nil {
		p.writeln()
		return
	}
	p.write(" else ")
	if elif, ok := n.Else.(*ast.IfStatement); ok {
		p.printIf(elif)
		return
	}
	p.printBranch(n.Else)
	p.writeln()
}

// printBranch prints an if branch as a block.
func (p *CodePrinter) printBranch(s ast.Statement) {
	if b, ok := s.(*ast.Block); ok {
		b.Accept(p)
		return
	}
	p.write("{")
	p.writeln()
	p.indent++
	p.printStatement(s)
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitTryStatement(n *ast.TryStatement) {
	p.writeIndent()
	p.write("try ")
	n.Body.Accept(p)
	for _, c := range n.Catches {
		p.write(" catch (")
		parts := make([]string, len(c.Types))
		for i, t := range c.Types {
			parts[i] = Type(t)
		}
		p.write(strings.Join(parts, " | ") + " " + c.Name + ") ")
		c.Body.Accept(p)
	}
	if n.Finally != nil {
		p.write(" finally ")
		n.Finally.Accept(p)
	}
	p.writeln()
}

// --- Expressions ---

func (p *CodePrinter) VisitLiteral(n *ast.Literal) {
	p.write(n.Token.Lexeme)
}

func (p *CodePrinter) VisitNullLiteral(n *ast.NullLiteral) {
	p.write("null")
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitThisExpression(n *ast.ThisExpression) {
	p.write("this")
}

func (p *CodePrinter) VisitFieldAccess(n *ast.FieldAccess) {
	p.printExpr(n.Receiver, precPostfix, false)
	p.write("." + n.Name)
}

func (p *CodePrinter) VisitMethodCall(n *ast.MethodCall) {
	switch {
	case n.Super:
		p.write("super.")
	case n.Receiver != nil:
		p.printExpr(n.Receiver, precPostfix, false)
		p.write(".")
	}
	p.writeTypeArgs(n.TypeArgs)
	p.write(n.Name)
	p.printArgs(n.Args)
}

func (p *CodePrinter) VisitNewExpression(n *ast.NewExpression) {
	p.write("new ")
	p.writeType(n.Type)
	if n.Diamond {
		p.write("<>")
	}
	p.printArgs(n.Args)
}

func (p *CodePrinter) VisitNewArrayExpression(n *ast.NewArrayExpression) {
	p.write("new ")
	p.writeType(n.Type.Elem)
	p.write("[")
	p.printExpr(n.Size, 0, false)
	p.write("]")
}

func (p *CodePrinter) VisitLambda(n *ast.Lambda) {
	switch {
	case len(n.Params) == 1 && !n.Explicit:
		p.write(n.Params[0].Name)
	default:
		p.write("(")
		for i, param := range n.Params {
			if i > 0 {
				p.write(", ")
			}
			if n.Explicit {
				p.writeType(param.Type)
				p.write(" ")
			}
			p.write(param.Name)
		}
		p.write(")")
	}
	p.write(" -> ")
	switch body := n.Body.(type) {
	case *ast.Block:
		body.Accept(p)
	case ast.Expression:
		p.printExpr(body, precAssign, true)
	}
}

func (p *CodePrinter) VisitMethodReference(n *ast.MethodReference) {
	switch {
	case n.Super:
		p.write("super")
	case n.Type != nil:
		p.writeType(n.Type)
	default:
		p.printExpr(n.Receiver, precPostfix, false)
	}
	p.write("::")
	p.writeTypeArgs(n.TypeArgs)
	p.write(n.Name)
}

func (p *CodePrinter) VisitConditionalExpression(n *ast.ConditionalExpression) {
	p.printExpr(n.Condition, precTernary+1, false)
	p.write(" ? ")
	p.printExpr(n.Then, precTernary, true)
	p.write(" : ")
	p.printExpr(n.Else, precTernary, true)
}

func (p *CodePrinter) VisitCastExpression(n *ast.CastExpression) {
	p.write("(")
	p.writeType(n.Type)
	p.write(") ")
	if l, ok := n.Expr.(*ast.Lambda); ok {
		l.Accept(p)
		return
	}
	p.printExpr(n.Expr, precPrefix, true)
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	prec := getPrecedence(n.Operator)
	p.printExpr(n.Left, prec, false)
	p.write(" " + n.Operator + " ")
	p.printExpr(n.Right, prec, true)
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.write(n.Operator)
	p.printExpr(n.Right, precPrefix, true)
}

func (p *CodePrinter) VisitAssignExpression(n *ast.AssignExpression) {
	p.printExpr(n.Target, precAssign+1, false)
	p.write(" = ")
	p.printExpr(n.Value, precAssign, true)
}
