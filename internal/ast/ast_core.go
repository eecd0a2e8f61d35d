package ast

import (
	"strings"

	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Modifiers is a set of declaration modifiers.
type Modifiers uint16

const (
	ModPublic Modifiers = 1 << iota
	ModProtected
	ModPrivate
	ModStatic
	ModAbstract
	ModDefault
	ModFinal
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModStatic, "static"},
	{ModAbstract, "abstract"},
	{ModDefault, "default"},
	{ModFinal, "final"},
}

// Has reports whether all of mods are set.
func (m Modifiers) Has(mods Modifiers) bool { return m&mods == mods }

func (m Modifiers) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m.Has(mn.mod) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// ModifierByName maps a keyword to its modifier bit.
func ModifierByName(name string) (Modifiers, bool) {
	for _, mn := range modifierNames {
		if mn.name == name {
			return mn.mod, true
		}
	}
	return 0, false
}

// TypeKind distinguishes classes from interfaces.
type TypeKind int

const (
	ClassKind TypeKind = iota
	InterfaceKind
)

func (k TypeKind) String() string {
	if k == InterfaceKind {
		return "interface"
	}
	return "class"
}

// CompilationUnit is one bound source unit: a package and its type declarations.
type CompilationUnit struct {
	File    string
	Package string
	Types   []*TypeDecl
}

func (cu *CompilationUnit) Accept(v Visitor) { v.VisitCompilationUnit(cu) }
func (cu *CompilationUnit) TokenLiteral() string {
	if len(cu.Types) > 0 {
		return cu.Types[0].TokenLiteral()
	}
	return ""
}
func (cu *CompilationUnit) GetToken() token.Token {
	if cu == nil || len(cu.Types) == 0 {
		return token.Token{File: cu.fileName()}
	}
	return cu.Types[0].Token
}

func (cu *CompilationUnit) fileName() string {
	if cu == nil {
		return ""
	}
	return cu.File
}

// TypeDecl declares a class or interface.
// class AA<T extends Number> extends Base<T> implements I<T> { ... }
type TypeDecl struct {
	Token      token.Token // the type name token
	Kind       TypeKind
	Name       string
	Modifiers  Modifiers
	TypeParams []typesystem.TVar
	Super      typesystem.Type   // nil when not declared
	Interfaces []typesystem.Type // implements (class) or extends (interface)
	Outer      string            // enclosing type name for member types
	Fields     []*FieldDecl
	Methods    []*MethodDecl
}

func (td *TypeDecl) Accept(v Visitor)     { v.VisitTypeDecl(td) }
func (td *TypeDecl) TokenLiteral() string { return td.Token.Lexeme }
func (td *TypeDecl) GetToken() token.Token {
	if td == nil {
		return token.Token{}
	}
	return td.Token
}

// SelfType returns the type of "this" inside the declaration: the generic
// type applied to its own parameters, or the plain class type.
func (td *TypeDecl) SelfType() typesystem.Type {
	if len(td.TypeParams) == 0 {
		return typesystem.TCon{Name: td.Name}
	}
	args := make([]typesystem.Type, len(td.TypeParams))
	for i, tp := range td.TypeParams {
		args[i] = tp
	}
	return typesystem.TApp{Constructor: typesystem.TCon{Name: td.Name}, Args: args}
}

// FieldDecl declares a field with an optional initializer.
type FieldDecl struct {
	Token     token.Token // the field name token
	Name      string
	Type      typesystem.Type
	Modifiers Modifiers
	Init      Expression
	Index     int // position among the declaring type's fields
}

func (fd *FieldDecl) Accept(v Visitor)     { v.VisitFieldDecl(fd) }
func (fd *FieldDecl) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FieldDecl) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// Param is a formal parameter of a method or an explicitly typed lambda.
type Param struct {
	Token token.Token
	Name  string
	Type  typesystem.Type // nil for implicitly typed lambda parameters
}

// MethodDecl declares a method or constructor. Constructors have Name equal
// to the declaring type's name and a nil Return.
type MethodDecl struct {
	Token         token.Token // the method name token
	Name          string
	Modifiers     Modifiers
	TypeParams    []typesystem.TVar
	Params        []*Param
	Variadic      bool
	Return        typesystem.Type
	Throws        []typesystem.Type
	Body          *Block // nil when abstract
	IsConstructor bool
	Index         int // position among the declaring type's methods
}

func (md *MethodDecl) Accept(v Visitor)     { v.VisitMethodDecl(md) }
func (md *MethodDecl) TokenLiteral() string { return md.Token.Lexeme }
func (md *MethodDecl) GetToken() token.Token {
	if md == nil {
		return token.Token{}
	}
	return md.Token
}

// ParamTypes returns the declared parameter types in order.
func (md *MethodDecl) ParamTypes() []typesystem.Type {
	out := make([]typesystem.Type, len(md.Params))
	for i, p := range md.Params {
		out[i] = p.Type
	}
	return out
}
