// Package ast defines the syntax tree produced by a GML parser adapter.
//
// The tree is deliberately small: the indexer only needs declarations,
// identifier references, and lexical nesting, so expression kinds that do not
// bind or reference names are collapsed into the generic forms below. Every
// identifier node carries a byte-accurate source range so downstream rename
// planning can emit exact text replacements.
package ast

// Position is a location in a source file. Offset is a 0-based byte offset;
// Line and Col are 1-based.
type Position struct {
	Offset int
	Line   int
	Col    int
}

// Range is a half-open [Start, End) span in a single file.
type Range struct {
	Start Position
	End   Position
}

// Node is implemented by all syntax tree nodes.
type Node interface {
	Span() Range
}

// File is the root of one parsed GML source file.
type File struct {
	// Path is the file path as given to the parser (relative to the project
	// root by convention).
	Path string

	// Stmts are the top-level statements.
	Stmts []Stmt

	// Comments are all comments in the file, in source order.
	Comments []Comment
}

func (f *File) Span() Range {
	if len(f.Stmts) == 0 {
		return Range{}
	}
	return Range{Start: f.Stmts[0].Span().Start, End: f.Stmts[len(f.Stmts)-1].Span().End}
}

// Comment is a single line or block comment.
type Comment struct {
	Text  string
	Where Range
}

func (c Comment) Span() Range { return c.Where }

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Ident is a single identifier occurrence.
type Ident struct {
	Name  string
	Where Range
}

func (x *Ident) Span() Range { return x.Where }
func (x *Ident) exprNode()   {}

// VarDecl is a `var a = 1, b;` declaration. Names and Values are parallel;
// Values entries are nil for names without initializers.
type VarDecl struct {
	Names  []*Ident
	Values []Expr
	Where  Range
}

func (s *VarDecl) Span() Range { return s.Where }
func (s *VarDecl) stmtNode()   {}

// GlobalVarDecl is a legacy `globalvar a, b;` declaration.
type GlobalVarDecl struct {
	Names []*Ident
	Where Range
}

func (s *GlobalVarDecl) Span() Range { return s.Where }
func (s *GlobalVarDecl) stmtNode()   {}

// MacroDecl is a `#macro NAME value` definition. Value is the raw replacement
// text up to end of line.
type MacroDecl struct {
	Name  *Ident
	Value string
	Where Range
}

func (s *MacroDecl) Span() Range { return s.Where }
func (s *MacroDecl) stmtNode()   {}

// EnumDecl is an `enum Name { A, B = 2 }` declaration. Member initializer
// expressions are kept for reference collection.
type EnumDecl struct {
	Name    *Ident
	Members []EnumMember
	Where   Range
}

// EnumMember is one member of an enum declaration.
type EnumMember struct {
	Name  *Ident
	Value Expr // nil when no explicit value
}

func (s *EnumDecl) Span() Range { return s.Where }
func (s *EnumDecl) stmtNode()   {}

// Param is a single function parameter, optionally with a default value.
type Param struct {
	Name    *Ident
	Default Expr // nil when no default
}

// FuncDecl is a named `function f(a, b) { ... }` declaration, optionally a
// constructor. Anonymous function literals appear as FuncLit expressions.
type FuncDecl struct {
	Name        *Ident
	Params      []Param
	Body        *Block
	Constructor bool
	Where       Range
}

func (s *FuncDecl) Span() Range { return s.Where }
func (s *FuncDecl) stmtNode()   {}

// FuncLit is an anonymous function expression.
type FuncLit struct {
	Params      []Param
	Body        *Block
	Constructor bool
	Where       Range
}

func (x *FuncLit) Span() Range { return x.Where }
func (x *FuncLit) exprNode()   {}

// Block is a `{ ... }` statement list.
type Block struct {
	Stmts []Stmt
	Where Range
}

func (s *Block) Span() Range { return s.Where }
func (s *Block) stmtNode()   {}

// AssignStmt is an assignment or compound assignment (`x = y`, `x += y`).
// Target may be an Ident, SelectorExpr, or IndexExpr.
type AssignStmt struct {
	Target Expr
	Op     string
	Value  Expr
	Where  Range
}

func (s *AssignStmt) Span() Range { return s.Where }
func (s *AssignStmt) stmtNode()   {}

// ExprStmt is an expression used as a statement (usually a call).
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Span() Range { return s.X.Span() }
func (s *ExprStmt) stmtNode()   {}

// IfStmt is an if/else statement. Else is nil, a *Block, or another *IfStmt.
type IfStmt struct {
	Cond  Expr
	Then  *Block
	Else  Stmt
	Where Range
}

func (s *IfStmt) Span() Range { return s.Where }
func (s *IfStmt) stmtNode()   {}

// LoopKind distinguishes the GML loop statements.
type LoopKind string

const (
	LoopWhile  LoopKind = "while"
	LoopRepeat LoopKind = "repeat"
	LoopDo     LoopKind = "do"
	LoopFor    LoopKind = "for"
	LoopWith   LoopKind = "with"
)

// LoopStmt is a while/repeat/do-until/for/with statement. Init and Post are
// only set for `for`; Cond is the loop condition, repeat count, until
// condition, or with target.
type LoopStmt struct {
	Kind  LoopKind
	Init  Stmt // for only
	Cond  Expr
	Post  Stmt // for only
	Body  *Block
	Where Range
}

func (s *LoopStmt) Span() Range { return s.Where }
func (s *LoopStmt) stmtNode()   {}

// SwitchStmt is a switch with its case clauses.
type SwitchStmt struct {
	Tag   Expr
	Cases []CaseClause
	Where Range
}

// CaseClause is one `case expr:` (or `default:` when Value is nil) and its
// statements.
type CaseClause struct {
	Value Expr // nil for default
	Body  []Stmt
}

func (s *SwitchStmt) Span() Range { return s.Where }
func (s *SwitchStmt) stmtNode()   {}

// ReturnStmt is a `return [expr]` statement.
type ReturnStmt struct {
	Value Expr // nil for bare return
	Where Range
}

func (s *ReturnStmt) Span() Range { return s.Where }
func (s *ReturnStmt) stmtNode()   {}

// BranchStmt is break, continue, or exit.
type BranchStmt struct {
	Tok   string
	Where Range
}

func (s *BranchStmt) Span() Range { return s.Where }
func (s *BranchStmt) stmtNode()   {}

// SelectorExpr is a dotted access `x.sel`. `global.name` appears as a
// SelectorExpr whose X is the Ident "global".
type SelectorExpr struct {
	X   Expr
	Sel *Ident
}

func (x *SelectorExpr) Span() Range {
	return Range{Start: x.X.Span().Start, End: x.Sel.Span().End}
}
func (x *SelectorExpr) exprNode() {}

// IndexExpr is `x[i]` (including the GML accessor forms `x[| i]`, `x[? k]`,
// `x[# i, j]`, `x[$ k]`).
type IndexExpr struct {
	X       Expr
	Indices []Expr
	Where   Range
}

func (x *IndexExpr) Span() Range { return x.Where }
func (x *IndexExpr) exprNode()   {}

// CallExpr is a function call.
type CallExpr struct {
	Fun   Expr
	Args  []Expr
	Where Range
}

func (x *CallExpr) Span() Range { return x.Where }
func (x *CallExpr) exprNode()   {}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	X  Expr
	Op string
	Y  Expr
}

func (x *BinaryExpr) Span() Range {
	return Range{Start: x.X.Span().Start, End: x.Y.Span().End}
}
func (x *BinaryExpr) exprNode() {}

// UnaryExpr is a prefix operation (`-x`, `!x`, `~x`, `++x`, `new C()`).
type UnaryExpr struct {
	Op    string
	X     Expr
	Where Range
}

func (x *UnaryExpr) Span() Range { return x.Where }
func (x *UnaryExpr) exprNode()   {}

// TernaryExpr is `cond ? a : b`.
type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (x *TernaryExpr) Span() Range {
	return Range{Start: x.Cond.Span().Start, End: x.Else.Span().End}
}
func (x *TernaryExpr) exprNode() {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	X     Expr
	Where Range
}

func (x *ParenExpr) Span() Range { return x.Where }
func (x *ParenExpr) exprNode()   {}

// LiteralKind distinguishes literal tokens.
type LiteralKind string

const (
	LitNumber LiteralKind = "number"
	LitString LiteralKind = "string"
	LitBool   LiteralKind = "bool"
	LitOther  LiteralKind = "other" // undefined, noone, self, all, ...
)

// Literal is a literal token.
type Literal struct {
	Kind  LiteralKind
	Value string
	Where Range
}

func (x *Literal) Span() Range { return x.Where }
func (x *Literal) exprNode()   {}

// ArrayLit is `[a, b, c]`.
type ArrayLit struct {
	Elems []Expr
	Where Range
}

func (x *ArrayLit) Span() Range { return x.Where }
func (x *ArrayLit) exprNode()   {}

// StructLit is `{ key: value, ... }`. Keys are not identifier occurrences for
// rename purposes (they name struct fields, not bindings), but are kept so
// value expressions can be walked.
type StructLit struct {
	Keys   []string
	Values []Expr
	Where  Range
}

func (x *StructLit) Span() Range { return x.Where }
func (x *StructLit) exprNode()   {}
