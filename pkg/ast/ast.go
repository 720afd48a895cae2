// Package ast defines the Acacia abstract syntax tree: expression,
// statement, port, and definition node variants (spec.md §3.3).
package ast

import "github.com/CBerJun/acacia/pkg/source"

// Node is implemented by every AST element; it carries the source range the
// element covers.
type Node interface {
	Range() source.Range
}

// base is embedded by every concrete node to provide Range() and avoid
// repeating the same field and method on each variant.
type base struct {
	rng source.Range
}

func (b base) Range() source.Range { return b.rng }

// NewBase constructs the embeddable base used by parser code when building
// a node.
func NewBase(rng source.Range) base { return base{rng: rng} }

// Binding is what a resolved Symbol points to; the resolver and generator
// attach concrete binding kinds (local slot, function, module, template,
// ...) behind this interface so pkg/ast does not depend on pkg/resolver or
// pkg/expr.
type Binding interface {
	BindingKind() string
}

// Symbol is implemented by every node that can be the target of a name
// resolution: currently only *Identifier (a use site). Definitions are
// introduced exclusively through IdentifierDef (spec.md §3.3).
type Symbol interface {
	Node
	Name() string
	IsResolved() bool
	Binding() Binding
	Resolve(Binding)
}

// IdentifierDef is the sole symbol-introducing node: the name appearing on
// the left of a definition (a def's own name, a parameter, a for-loop
// variable, an import alias, a struct/entity field, ...).
type IdentifierDef struct {
	base
	Text    string
	binding Binding
}

func NewIdentifierDef(rng source.Range, text string) *IdentifierDef {
	return &IdentifierDef{base: NewBase(rng), Text: text}
}

func (d *IdentifierDef) Name() string      { return d.Text }
func (d *IdentifierDef) IsResolved() bool  { return d.binding != nil }
func (d *IdentifierDef) Binding() Binding  { return d.binding }
func (d *IdentifierDef) Resolve(b Binding) { d.binding = b }

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

type exprBase struct{ base }

func (exprBase) exprNode() {}

// Identifier is a use-site reference to a name; it is resolved by the
// post-AST resolver into a Binding (spec.md §3.3, §4.4).
type Identifier struct {
	exprBase
	Text    string
	binding Binding
}

func NewIdentifier(rng source.Range, text string) *Identifier {
	return &Identifier{exprBase: exprBase{NewBase(rng)}, Text: text}
}

func (i *Identifier) Name() string      { return i.Text }
func (i *Identifier) IsResolved() bool  { return i.binding != nil }
func (i *Identifier) Binding() Binding  { return i.binding }
func (i *Identifier) Resolve(b Binding) { i.binding = b }

// IntLiteral is a decimal/based integer literal token's parsed value.
type IntLiteral struct {
	exprBase
	Value int64
}

func NewIntLiteral(rng source.Range, v int64) *IntLiteral {
	return &IntLiteral{exprBase: exprBase{NewBase(rng)}, Value: v}
}

// FloatLiteral is a float literal token's parsed value.
type FloatLiteral struct {
	exprBase
	Value float64
}

func NewFloatLiteral(rng source.Range, v float64) *FloatLiteral {
	return &FloatLiteral{exprBase: exprBase{NewBase(rng)}, Value: v}
}

// BoolLiteral is `True` or `False`.
type BoolLiteral struct {
	exprBase
	Value bool
}

func NewBoolLiteral(rng source.Range, v bool) *BoolLiteral {
	return &BoolLiteral{exprBase: exprBase{NewBase(rng)}, Value: v}
}

// NoneLiteral is `None`.
type NoneLiteral struct{ exprBase }

func NewNoneLiteral(rng source.Range) *NoneLiteral {
	return &NoneLiteral{exprBase{NewBase(rng)}}
}

// SelfExpr is the `self` keyword, only meaningful inside a method body.
type SelfExpr struct{ exprBase }

func NewSelfExpr(rng source.Range) *SelfExpr { return &SelfExpr{exprBase{NewBase(rng)}} }

// StringPart is one element of a string or command literal's body: either a
// literal text run or an interpolated `${expr}`.
type StringPart interface {
	stringPart()
}

type TextPart struct{ Text string }

func (TextPart) stringPart() {}

type InterpPart struct{ Expr Expr }

func (InterpPart) stringPart() {}

// StringLiteral is a `"..."` literal, exploded into a TextPart/InterpPart
// sequence by the parser as it consumes the STRING_BEGIN...STRING_END
// subtoken run (spec.md §3.2, §4.3).
type StringLiteral struct {
	exprBase
	Parts []StringPart
}

func NewStringLiteral(rng source.Range, parts []StringPart) *StringLiteral {
	return &StringLiteral{exprBase: exprBase{NewBase(rng)}, Parts: parts}
}

// CommandMode distinguishes a short `/cmd` from a long `/* cmd */` literal.
type CommandMode int

const (
	CommandShort CommandMode = iota
	CommandLong
)

// CommandLiteral is a `/...` or `/*...*/` command literal, structurally the
// same interpolated-text shape as a StringLiteral.
type CommandLiteral struct {
	exprBase
	Mode  CommandMode
	Parts []StringPart
}

func NewCommandLiteral(rng source.Range, mode CommandMode, parts []StringPart) *CommandLiteral {
	return &CommandLiteral{exprBase: exprBase{NewBase(rng)}, Mode: mode, Parts: parts}
}

// ListLiteral is `[e1, e2, ...]`.
type ListLiteral struct {
	exprBase
	Elems []Expr
}

func NewListLiteral(rng source.Range, elems []Expr) *ListLiteral {
	return &ListLiteral{exprBase: exprBase{NewBase(rng)}, Elems: elems}
}

// MapEntry is one `key: value` pair of a MapLiteral.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLiteral is `{k1: v1, k2: v2, ...}`.
type MapLiteral struct {
	exprBase
	Entries []MapEntry
}

func NewMapLiteral(rng source.Range, entries []MapEntry) *MapLiteral {
	return &MapLiteral{exprBase: exprBase{NewBase(rng)}, Entries: entries}
}

// BinOpKind enumerates binary arithmetic operators.
type BinOpKind int

const (
	BinAdd BinOpKind = iota
	BinSub
	BinMul
	BinDiv
	BinMod
)

// BinOp is `lhs OP rhs` for `+ - * / %`.
type BinOp struct {
	exprBase
	Op       BinOpKind
	LHS, RHS Expr
}

func NewBinOp(rng source.Range, op BinOpKind, lhs, rhs Expr) *BinOp {
	return &BinOp{exprBase: exprBase{NewBase(rng)}, Op: op, LHS: lhs, RHS: rhs}
}

// UnaryOpKind enumerates unary operators.
type UnaryOpKind int

const (
	UnaryNeg UnaryOpKind = iota
	UnaryPos
	UnaryNot
)

// UnaryOp is `OP operand` for unary `- + not`.
type UnaryOp struct {
	exprBase
	Op      UnaryOpKind
	Operand Expr
}

func NewUnaryOp(rng source.Range, op UnaryOpKind, operand Expr) *UnaryOp {
	return &UnaryOp{exprBase: exprBase{NewBase(rng)}, Op: op, Operand: operand}
}

// CompareOpKind enumerates comparison operators usable in a chain.
type CompareOpKind int

const (
	CmpLT CompareOpKind = iota
	CmpGT
	CmpLE
	CmpGE
	CmpEQ
	CmpNE
)

// CompareChain is a flattened Python-style comparison chain: `a < b < c`
// becomes one node with Operands = [a, b, c] and Ops = [LT, LT] (spec.md
// §4.3).
type CompareChain struct {
	exprBase
	Operands []Expr
	Ops      []CompareOpKind
}

func NewCompareChain(rng source.Range, operands []Expr, ops []CompareOpKind) *CompareChain {
	return &CompareChain{exprBase: exprBase{NewBase(rng)}, Operands: operands, Ops: ops}
}

// BoolOpKind distinguishes `and` from `or`.
type BoolOpKind int

const (
	BoolAnd BoolOpKind = iota
	BoolOr
)

// BoolOp is a flattened `and`/`or` chain of two or more operands.
type BoolOp struct {
	exprBase
	Op       BoolOpKind
	Operands []Expr
}

func NewBoolOp(rng source.Range, op BoolOpKind, operands []Expr) *BoolOp {
	return &BoolOp{exprBase: exprBase{NewBase(rng)}, Op: op, Operands: operands}
}

// Attribute is `obj.name`.
type Attribute struct {
	exprBase
	Object Expr
	Name   string
}

func NewAttribute(rng source.Range, object Expr, name string) *Attribute {
	return &Attribute{exprBase: exprBase{NewBase(rng)}, Object: object, Name: name}
}

// Arg is one call argument: positional (Name == "") or keyword.
type Arg struct {
	Name  string
	Value Expr
}

// Call is `callee(args...)`.
type Call struct {
	exprBase
	Callee Expr
	Args   []Arg
}

func NewCall(rng source.Range, callee Expr, args []Arg) *Call {
	return &Call{exprBase: exprBase{NewBase(rng)}, Callee: callee, Args: args}
}

// Subscript is `obj[index]`.
type Subscript struct {
	exprBase
	Object Expr
	Index  Expr
}

func NewSubscript(rng source.Range, object, index Expr) *Subscript {
	return &Subscript{exprBase: exprBase{NewBase(rng)}, Object: object, Index: index}
}

// NewExpr is `new(args...)` or `T.new(args...)`; Template is nil for the
// bare `new(...)` form used inside a template's own body.
type NewExpr struct {
	exprBase
	Template Expr
	Args     []Arg
}

func NewNewExpr(rng source.Range, template Expr, args []Arg) *NewExpr {
	return &NewExpr{exprBase: exprBase{NewBase(rng)}, Template: template, Args: args}
}

// ---------------------------------------------------------------------
// Ports (parameter / return passing mode, spec.md §3.3, §4.5)
// ---------------------------------------------------------------------

// PassMode is how a parameter or return value is passed.
type PassMode int

const (
	PassByValue PassMode = iota
	PassByReference
	PassConst
)

// Port describes one function parameter: its name, optional declared type,
// optional default expression, and passing mode.
type Port struct {
	base
	Name    *IdentifierDef
	Type    Expr // nil if unannotated
	Default Expr // nil if required
	Mode    PassMode
}

func NewPort(rng source.Range, name *IdentifierDef, typ, def Expr, mode PassMode) *Port {
	return &Port{base: NewBase(rng), Name: name, Type: typ, Default: def, Mode: mode}
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

type stmtBase struct{ base }

func (stmtBase) stmtNode() {}

// Block is a sequence of statements introduced by an indented suite.
type Block struct {
	base
	Stmts []Stmt
}

func NewBlock(rng source.Range, stmts []Stmt) *Block {
	return &Block{base: NewBase(rng), Stmts: stmts}
}

// PassStmt is `pass`.
type PassStmt struct{ stmtBase }

func NewPassStmt(rng source.Range) *PassStmt { return &PassStmt{stmtBase{NewBase(rng)}} }

// ExprStmt is a bare expression used as a statement (a command literal or a
// discarded call result).
type ExprStmt struct {
	stmtBase
	Expr Expr
}

func NewExprStmt(rng source.Range, e Expr) *ExprStmt {
	return &ExprStmt{stmtBase: stmtBase{NewBase(rng)}, Expr: e}
}

// AssignKind distinguishes the three assignment forms the parser produces.
type AssignKind int

const (
	// AssignPlain is `name = expr` or `name: T = expr` (Type may be nil).
	AssignPlain AssignKind = iota
	// AssignWalrus is `name := expr`.
	AssignWalrus
	// AssignReference is `&name := expr` (reference definition).
	AssignReference
)

// Assign covers all non-augmented assignment forms.
type Assign struct {
	stmtBase
	Kind   AssignKind
	Target *IdentifierDef
	Type   Expr // declared type, AssignPlain only, may be nil
	Value  Expr
}

func NewAssign(rng source.Range, kind AssignKind, target *IdentifierDef, typ, value Expr) *Assign {
	return &Assign{stmtBase: stmtBase{NewBase(rng)}, Kind: kind, Target: target, Type: typ, Value: value}
}

// AugAssignOp enumerates augmented-assignment operators.
type AugAssignOp int

const (
	AugAdd AugAssignOp = iota
	AugSub
	AugMul
	AugDiv
	AugMod
)

// AugAssign is `target OP= expr`.
type AugAssign struct {
	stmtBase
	Op     AugAssignOp
	Target Expr
	Value  Expr
}

func NewAugAssign(rng source.Range, op AugAssignOp, target, value Expr) *AugAssign {
	return &AugAssign{stmtBase: stmtBase{NewBase(rng)}, Op: op, Target: target, Value: value}
}

// ElifClause is one `elif cond: body` arm of an IfStmt.
type ElifClause struct {
	Cond Expr
	Body *Block
}

// IfStmt is `if cond: body (elif cond: body)* (else: body)?`.
type IfStmt struct {
	stmtBase
	Cond  Expr
	Body  *Block
	Elifs []ElifClause
	Else  *Block // nil if absent
}

func NewIfStmt(rng source.Range, cond Expr, body *Block, elifs []ElifClause, els *Block) *IfStmt {
	return &IfStmt{stmtBase: stmtBase{NewBase(rng)}, Cond: cond, Body: body, Elifs: elifs, Else: els}
}

// WhileStmt is `while cond: body`.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *Block
}

func NewWhileStmt(rng source.Range, cond Expr, body *Block) *WhileStmt {
	return &WhileStmt{stmtBase: stmtBase{NewBase(rng)}, Cond: cond, Body: body}
}

// ForStmt is `for name in iter: body`.
type ForStmt struct {
	stmtBase
	Var  *IdentifierDef
	Iter Expr
	Body *Block
}

func NewForStmt(rng source.Range, v *IdentifierDef, iter Expr, body *Block) *ForStmt {
	return &ForStmt{stmtBase: stmtBase{NewBase(rng)}, Var: v, Iter: iter, Body: body}
}

// FuncKind distinguishes the three function-definition forms.
type FuncKind int

const (
	FuncRegular FuncKind = iota
	FuncInline
	FuncConst
)

// FuncQualifier marks entity-template methods.
type FuncQualifier int

const (
	QualNone FuncQualifier = iota
	QualVirtual
	QualOverride
	QualStatic
)

// FuncDef is `def` / `inline def` / `const def`, including entity-template
// methods (which additionally carry a Qualifier).
type FuncDef struct {
	stmtBase
	Kind       FuncKind
	Qualifier  FuncQualifier
	Name       *IdentifierDef
	Params     []*Port
	ReturnType Expr // nil if unannotated
	Body       *Block
}

func NewFuncDef(rng source.Range, kind FuncKind, qual FuncQualifier, name *IdentifierDef, params []*Port, ret Expr, body *Block) *FuncDef {
	return &FuncDef{stmtBase: stmtBase{NewBase(rng)}, Kind: kind, Qualifier: qual, Name: name, Params: params, ReturnType: ret, Body: body}
}

// InterfaceDef is `interface <path>: body`.
type InterfaceDef struct {
	stmtBase
	Path string
	Body *Block
}

func NewInterfaceDef(rng source.Range, path string, body *Block) *InterfaceDef {
	return &InterfaceDef{stmtBase: stmtBase{NewBase(rng)}, Path: path, Body: body}
}

// FieldDecl is one `name: Type` field declaration inside an entity or
// struct template body.
type FieldDecl struct {
	base
	Name *IdentifierDef
	Type Expr
}

func NewFieldDecl(rng source.Range, name *IdentifierDef, typ Expr) *FieldDecl {
	return &FieldDecl{base: NewBase(rng), Name: name, Type: typ}
}

// EntityDef is `entity Name(parents...): body`, where body is restricted by
// the parser to FieldDecl and FuncDef(qualified) members.
type EntityDef struct {
	stmtBase
	Name    *IdentifierDef
	Parents []Expr
	Fields  []*FieldDecl
	Methods []*FuncDef
}

func NewEntityDef(rng source.Range, name *IdentifierDef, parents []Expr, fields []*FieldDecl, methods []*FuncDef) *EntityDef {
	return &EntityDef{stmtBase: stmtBase{NewBase(rng)}, Name: name, Parents: parents, Fields: fields, Methods: methods}
}

// StructDef is `struct Name: body`, body restricted to FieldDecl members.
type StructDef struct {
	stmtBase
	Name   *IdentifierDef
	Fields []*FieldDecl
}

func NewStructDef(rng source.Range, name *IdentifierDef, fields []*FieldDecl) *StructDef {
	return &StructDef{stmtBase: stmtBase{NewBase(rng)}, Name: name, Fields: fields}
}

// ImportAlias is one dotted module path with an optional `as` rename.
type ImportAlias struct {
	Path  []string
	Alias *IdentifierDef // nil if no "as" clause; binds Path's last segment
}

// ImportStmt is `import a.b.c (as x)?(, ...)*`.
type ImportStmt struct {
	stmtBase
	Names []ImportAlias
}

func NewImportStmt(rng source.Range, names []ImportAlias) *ImportStmt {
	return &ImportStmt{stmtBase: stmtBase{NewBase(rng)}, Names: names}
}

// ImportFromStmt is `from a.b import x, y as z` or `from a.b import *`.
type ImportFromStmt struct {
	stmtBase
	Module   []string
	Wildcard bool
	Names    []ImportAlias // ignored when Wildcard
}

func NewImportFromStmt(rng source.Range, module []string, wildcard bool, names []ImportAlias) *ImportFromStmt {
	return &ImportFromStmt{stmtBase: stmtBase{NewBase(rng)}, Module: module, Wildcard: wildcard, Names: names}
}

// ConstStmt is `const name := expr` (or `const name: T = expr`), a
// compile-time binding evaluated by the compile-time executer.
type ConstStmt struct {
	stmtBase
	Name  *IdentifierDef
	Type  Expr // nil if unannotated
	Value Expr
}

func NewConstStmt(rng source.Range, name *IdentifierDef, typ, value Expr) *ConstStmt {
	return &ConstStmt{stmtBase: stmtBase{NewBase(rng)}, Name: name, Type: typ, Value: value}
}

// ResultStmt is `result expr`, valid only inside a function body.
type ResultStmt struct {
	stmtBase
	Value Expr
}

func NewResultStmt(rng source.Range, value Expr) *ResultStmt {
	return &ResultStmt{stmtBase: stmtBase{NewBase(rng)}, Value: value}
}

// ---------------------------------------------------------------------
// Module root
// ---------------------------------------------------------------------

// Module is the root of one source file's AST.
type Module struct {
	base
	Stmts []Stmt
}

func NewModule(rng source.Range, stmts []Stmt) *Module {
	return &Module{base: NewBase(rng), Stmts: stmts}
}
