package generator

import (
	"fmt"
	"strings"

	"github.com/CBerJun/acacia/pkg/ast"
	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/modules"
)

// lowerExpr lowers one AST expression into an expr.Expr, emitting any
// commands the lowering needs (temporaries, range fusion materializations,
// ...) into c's current file as it goes (spec.md §4.5).
func (g *Generator) lowerExpr(c *ctx, e ast.Expr) (expr.Expr, error) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return &expr.IntLiteral{Value: int32(n.Value)}, nil
	case *ast.BoolLiteral:
		return &expr.BoolLiteral{Value: n.Value}, nil
	case *ast.ListLiteral:
		items := make([]expr.Expr, len(n.Elems))
		for i, el := range n.Elems {
			v, err := g.lowerExpr(c, el)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &expr.AcaciaList{Items: items}, nil
	case *ast.Identifier:
		v, ok := c.scope.lookupExpr(n.Text)
		if !ok {
			return nil, fmt.Errorf("generator: undeclared name %q", n.Text)
		}
		return v, nil
	case *ast.BinOp:
		return g.lowerBinOp(c, n)
	case *ast.UnaryOp:
		return g.lowerUnaryOp(c, n)
	case *ast.CompareChain:
		return g.lowerCompareChain(c, n)
	case *ast.BoolOp:
		return g.lowerBoolOp(c, n)
	case *ast.Call:
		return g.lowerCall(c, n)
	case *ast.Attribute:
		return g.lowerAttribute(c, n)
	case *ast.NoneLiteral:
		return &expr.NoneLiteral{}, nil
	case *ast.SelfExpr:
		if c.self == nil {
			return nil, fmt.Errorf("generator: `self` is only valid inside an entity method")
		}
		return c.self, nil
	case *ast.StringLiteral:
		return g.lowerStringParts(c, n.Parts)
	case *ast.CommandLiteral:
		return g.lowerCommandLiteral(c, n)
	case *ast.MapLiteral:
		m := expr.NewAcaciaMap()
		for _, entry := range n.Entries {
			k, err := g.lowerExpr(c, entry.Key)
			if err != nil {
				return nil, err
			}
			v, err := g.lowerExpr(c, entry.Value)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case *ast.Subscript:
		return g.lowerSubscript(c, n)
	case *ast.NewExpr:
		return g.lowerNewExpr(c, n)
	default:
		return nil, fmt.Errorf("generator: expression form not yet supported: %T", e)
	}
}

// lowerStringParts folds a string literal's TextPart/InterpPart run into a
// single expr.StringLiteral (spec.md §4.2, §4.5): every interpolated
// `${...}` must itself lower to a compile-time constant, since expr has no
// runtime string type to splice a non-constant value into.
func (g *Generator) lowerStringParts(c *ctx, parts []ast.StringPart) (expr.Expr, error) {
	var b strings.Builder
	for _, p := range parts {
		if err := g.appendStringPart(c, &b, p); err != nil {
			return nil, err
		}
	}
	return &expr.StringLiteral{Value: b.String()}, nil
}

// lowerCommandLiteral folds a `/...`/`/*...*/` command literal's
// TextPart/InterpPart run into the literal command text it emits (spec.md
// §4.2, §4.5, §8 S1-S6): `${...}` interpolation is compile-time-constant
// text substitution, the same fold lowerStringParts performs, emitted
// directly as a cmds.Raw rather than producing an expr.Expr value (a
// command literal is a statement, not something assignable).
func (g *Generator) lowerCommandLiteral(c *ctx, n *ast.CommandLiteral) (expr.Expr, error) {
	var b strings.Builder
	for _, p := range n.Parts {
		if err := g.appendStringPart(c, &b, p); err != nil {
			return nil, err
		}
	}
	c.emit(&cmds.Raw{Text: b.String()})
	return &expr.NoneLiteral{}, nil
}

// appendStringPart renders one TextPart/InterpPart into b; an interpolated
// expression must lower to one of the constant value kinds below, since
// command/string literals are folded at compile time, not spliced at run
// time (spec.md §4.2).
func (g *Generator) appendStringPart(c *ctx, b *strings.Builder, p ast.StringPart) error {
	switch part := p.(type) {
	case ast.TextPart:
		b.WriteString(part.Text)
		return nil
	case ast.InterpPart:
		v, err := g.lowerExpr(c, part.Expr)
		if err != nil {
			return err
		}
		s, err := stringizeConst(v)
		if err != nil {
			return err
		}
		b.WriteString(s)
		return nil
	default:
		return fmt.Errorf("generator: unknown string part %T", p)
	}
}

// stringizeConst renders a compile-time-constant expr.Expr for
// interpolation into a string/command literal.
func stringizeConst(v expr.Expr) (string, error) {
	switch e := v.(type) {
	case *expr.IntLiteral:
		return fmt.Sprintf("%d", e.Value), nil
	case *expr.BoolLiteral:
		if e.Value {
			return "True", nil
		}
		return "False", nil
	case *expr.FloatLiteral:
		return fmt.Sprintf("%g", e.Value), nil
	case *expr.StringLiteral:
		return e.Value, nil
	case *expr.NoneLiteral:
		return "None", nil
	default:
		return "", fmt.Errorf("generator: %s cannot be interpolated into a string/command literal", v.DataType())
	}
}

// lowerSubscript lowers `obj[index]` (spec.md §4.5): both AcaciaList and
// AcaciaMap are fully compile-time-known containers, so the index must
// itself lower to a constant (an int for a list, any hashable constant for
// a map).
func (g *Generator) lowerSubscript(c *ctx, n *ast.Subscript) (expr.Expr, error) {
	obj, err := g.lowerExpr(c, n.Object)
	if err != nil {
		return nil, err
	}
	idx, err := g.lowerExpr(c, n.Index)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *expr.AcaciaList:
		i, ok := idx.(*expr.IntLiteral)
		if !ok {
			return nil, fmt.Errorf("generator: list index must be a constant int, got %s", idx.DataType())
		}
		length := int32(len(o.Items))
		at := i.Value
		if at < 0 {
			at += length
		}
		if at < 0 || at >= length {
			return nil, fmt.Errorf("generator: list index %d out of range (length %d)", i.Value, length)
		}
		return o.Items[at], nil
	case *expr.AcaciaMap:
		v, ok := o.Get(idx)
		if !ok {
			return nil, fmt.Errorf("generator: map has no entry for the given key")
		}
		return v, nil
	default:
		return nil, fmt.Errorf("generator: %s is not subscriptable", obj.DataType())
	}
}

func (g *Generator) lowerBoolExpr(c *ctx, e ast.Expr) (expr.BoolExpr, error) {
	v, err := g.lowerExpr(c, e)
	if err != nil {
		return nil, err
	}
	be, ok := v.(expr.BoolExpr)
	if !ok {
		return nil, fmt.Errorf("generator: expected a bool expression, got %s", v.DataType())
	}
	return be, nil
}

// lowerBinOp dispatches `lhs OP rhs` to lhs's matching capability interface
// (Adder/Suber/...), the idiomatic substitute for the Python source's
// duck-typed `__add__`-style lookup (spec.md §9).
func (g *Generator) lowerBinOp(c *ctx, n *ast.BinOp) (expr.Expr, error) {
	lhs, err := g.lowerExpr(c, n.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := g.lowerExpr(c, n.RHS)
	if err != nil {
		return nil, err
	}
	var (
		result expr.Expr
		setup  []cmds.Command
	)
	switch n.Op {
	case ast.BinAdd:
		a, ok := lhs.(expr.Adder)
		if !ok {
			return nil, &binOpError{expr.OpAdd, lhs, rhs}
		}
		result, setup, err = a.Add(rhs, g.Mgr)
	case ast.BinSub:
		a, ok := lhs.(expr.Suber)
		if !ok {
			return nil, &binOpError{expr.OpSub, lhs, rhs}
		}
		result, setup, err = a.Sub(rhs, g.Mgr)
	case ast.BinMul:
		a, ok := lhs.(expr.Muler)
		if !ok {
			return nil, &binOpError{expr.OpMul, lhs, rhs}
		}
		result, setup, err = a.Mul(rhs, g.Mgr)
	case ast.BinDiv:
		a, ok := lhs.(expr.Diver)
		if !ok {
			return nil, &binOpError{expr.OpDiv, lhs, rhs}
		}
		result, setup, err = a.Div(rhs, g.Mgr)
	case ast.BinMod:
		a, ok := lhs.(expr.Moder)
		if !ok {
			return nil, &binOpError{expr.OpMod, lhs, rhs}
		}
		result, setup, err = a.Mod(rhs, g.Mgr)
	default:
		return nil, fmt.Errorf("generator: unknown binary operator %v", n.Op)
	}
	if err != nil {
		return nil, err
	}
	c.emit(setup...)
	return result, nil
}

func (g *Generator) lowerUnaryOp(c *ctx, n *ast.UnaryOp) (expr.Expr, error) {
	operand, err := g.lowerExpr(c, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.UnaryPos:
		return operand, nil
	case ast.UnaryNeg:
		neg, ok := operand.(expr.Negater)
		if !ok {
			return nil, &binOpError{expr.OpNeg, operand, nil}
		}
		return neg.Neg()
	case ast.UnaryNot:
		be, ok := operand.(expr.BoolExpr)
		if !ok {
			return nil, fmt.Errorf("generator: `not` requires a bool operand, got %s", operand.DataType())
		}
		return expr.Not(be)
	default:
		return nil, fmt.Errorf("generator: unknown unary operator %v", n.Op)
	}
}

// astCompareToOp maps one AST comparison operator to expr.OpKind.
func astCompareToOp(op ast.CompareOpKind) expr.OpKind {
	switch op {
	case ast.CmpLT:
		return expr.OpLT
	case ast.CmpGT:
		return expr.OpGT
	case ast.CmpLE:
		return expr.OpLE
	case ast.CmpGE:
		return expr.OpGE
	case ast.CmpEQ:
		return expr.OpEQ
	default:
		return expr.OpNE
	}
}

// lowerCompareChain lowers Python-style chained comparisons (`a < b < c`) by
// pairwise-comparing adjacent operands and AND-combining the results
// (spec.md §4.3, §4.5): `a < b < c` becomes `(a < b) and (b < c)`.
func (g *Generator) lowerCompareChain(c *ctx, n *ast.CompareChain) (expr.Expr, error) {
	operands := make([]expr.Expr, len(n.Operands))
	for i, o := range n.Operands {
		v, err := g.lowerExpr(c, o)
		if err != nil {
			return nil, err
		}
		operands[i] = v
	}
	parts := make([]expr.BoolExpr, len(n.Ops))
	for i, op := range n.Ops {
		lhs, rhs := operands[i], operands[i+1]
		cmp, ok := lhs.(expr.Comparer)
		if !ok {
			return nil, &binOpError{astCompareToOp(op), lhs, rhs}
		}
		be, setup, err := cmp.Compare(astCompareToOp(op), rhs, g.Mgr)
		if err != nil {
			return nil, err
		}
		c.emit(setup...)
		parts[i] = be
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	result, setup, err := expr.NewAndGroup(parts, g.Mgr)
	if err != nil {
		return nil, err
	}
	c.emit(setup...)
	return result, nil
}

// lowerCall lowers `name(args...)` / `obj.name(args...)` (spec.md §4.5,
// §9): an Attribute callee is either a built-in module function
// (lowerModuleCall), an entity method (lowerEntityMethodCall), or a
// Position/Rotation/Engroup/Enfilter builder-chain method
// (lowerMethodCall); a bare Identifier callee is either a reserved
// value-constructor name (Pos/Offset/Rot/Engroup), a `const def`
// (lowerConstCall), an `inline def` (lowerInlineCall), or an ordinary
// top-level `def`, exported into the callee's fixed parameter slots (the
// calling convention genFuncDef sets up) before the function is invoked,
// with the call's own value read back from the callee's fixed return
// slot. Keyword arguments to a plain top-level function are not yet
// supported; that needs the fuller binding pkg/modules/axe gives binary
// modules, which user-defined functions don't have access to yet.
func (g *Generator) lowerCall(c *ctx, n *ast.Call) (expr.Expr, error) {
	if attr, ok := n.Callee.(*ast.Attribute); ok {
		if id, ok := attr.Object.(*ast.Identifier); ok {
			if _, ok := g.importedModules[id.Text]; ok {
				return g.lowerModuleCall(c, attr, n)
			}
		}
		obj, err := g.lowerExpr(c, attr.Object)
		if err != nil {
			return nil, err
		}
		if ev, ok := obj.(*expr.EntityVal); ok {
			return g.lowerEntityMethodCall(c, ev, attr.Name, n)
		}
		return g.lowerMethodCall(c, obj, attr.Name, n)
	}
	id, ok := n.Callee.(*ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("generator: call target must be a plain function name, got %T", n.Callee)
	}
	if ctor, ok := posConstructors[id.Text]; ok {
		return ctor(g, c, n)
	}
	if cf, ok := g.constFuncs[id.Text]; ok {
		return g.lowerConstCall(n, cf, id.Text)
	}
	fi, ok := g.funcs[id.Text]
	if !ok {
		return nil, fmt.Errorf("generator: call to undefined function %q", id.Text)
	}
	if fi.inlineDef != nil {
		return g.lowerInlineCall(c, fi.inlineDef, n)
	}
	if len(n.Args) != len(fi.params) {
		return nil, fmt.Errorf("generator: %q takes %d argument(s), got %d", id.Text, len(fi.params), len(n.Args))
	}
	for i, a := range n.Args {
		if a.Name != "" {
			return nil, fmt.Errorf("generator: keyword arguments to user-defined functions are not yet supported")
		}
		val, err := g.lowerExpr(c, a.Value)
		if err != nil {
			return nil, err
		}
		c.emit(val.Export(fi.params[i], g.Mgr)...)
	}
	c.emit(&cmds.InvokeFunction{File: fi.file})
	if fi.ret == nil {
		return &expr.NoneLiteral{}, nil
	}
	return fi.ret, nil
}

// lowerInlineCall expands an `inline def` at its call site (spec.md
// §4.5): rather than compiling the body once into a shared library file
// like a plain def, each call re-walks def.Body fresh in its own scope,
// with every parameter bound read-only via declareConst directly to its
// lowered argument (the same read-only-alias convention genFor's loop
// variable uses), and emits straight into the caller's own c.file — no
// new file, no `function` command hop.
func (g *Generator) lowerInlineCall(c *ctx, def *ast.FuncDef, n *ast.Call) (expr.Expr, error) {
	if len(n.Args) != len(def.Params) {
		return nil, fmt.Errorf("generator: %q takes %d argument(s), got %d", def.Name.Text, len(def.Params), len(n.Args))
	}
	bodyScope := newScope(nil)
	for i, p := range def.Params {
		a := n.Args[i]
		if a.Name != "" {
			return nil, fmt.Errorf("generator: keyword arguments to inline functions are not yet supported")
		}
		val, err := g.lowerExpr(c, a.Value)
		if err != nil {
			return nil, err
		}
		bodyScope.declareConst(p.Name.Text, val)
	}
	var ret expr.Storable
	if def.ReturnType != nil {
		dt, err := g.funcDataType(def.ReturnType)
		if err != nil {
			return nil, err
		}
		ret, err = g.allocFor(dt)
		if err != nil {
			return nil, err
		}
	}
	bodyCtx := &ctx{file: c.file, scope: bodyScope, retSlot: ret, self: c.self}
	if err := g.genStmts(bodyCtx, def.Body.Stmts); err != nil {
		return nil, err
	}
	if ret == nil {
		return &expr.NoneLiteral{}, nil
	}
	return ret, nil
}

// lowerAttribute lowers `object.name` (spec.md §4.5): a module alias names
// a built-in module's member directly (modules.Module is never a
// first-class expr.Expr, so it is resolved against g.importedModules
// rather than by lowering n.Object first); anything else is lowered as an
// ordinary expression and its field looked up through AttrHolder, which
// EntityVal and StructVal both implement.
func (g *Generator) lowerAttribute(c *ctx, n *ast.Attribute) (expr.Expr, error) {
	if id, ok := n.Object.(*ast.Identifier); ok {
		if mod, ok := g.importedModules[id.Text]; ok {
			v, ok := mod.Attrs[n.Name]
			if !ok {
				return nil, fmt.Errorf("generator: %s has no attribute %q", id.Text, n.Name)
			}
			e, ok := v.(expr.Expr)
			if !ok {
				return nil, fmt.Errorf("generator: %s.%s is callable; it must be used as a call, not a bare value", id.Text, n.Name)
			}
			return e, nil
		}
	}
	obj, err := g.lowerExpr(c, n.Object)
	if err != nil {
		return nil, err
	}
	holder, ok := obj.(expr.AttrHolder)
	if !ok {
		return nil, fmt.Errorf("generator: %s has no attribute %q", obj.DataType(), n.Name)
	}
	v, ok := holder.AttrTable()[n.Name]
	if !ok {
		return nil, fmt.Errorf("generator: %s has no attribute %q", obj.DataType(), n.Name)
	}
	e, ok := v.(expr.Expr)
	if !ok {
		return nil, fmt.Errorf("generator: %s.%s is not a value", obj.DataType(), n.Name)
	}
	return e, nil
}

// lowerModuleCall lowers `moduleAlias.attr(args...)` against a built-in
// module's BinaryFunc: positional and keyword arguments are split and
// lowered, matched and converted by the function's own axe.Chopper (which
// reports any argument error straight to g.Sink, per pkg/modules/axe's own
// contract), and the Func itself runs with the converted argument map,
// emitting any setup commands into c's current file (spec.md §6.5).
func (g *Generator) lowerModuleCall(c *ctx, attr *ast.Attribute, n *ast.Call) (expr.Expr, error) {
	id, ok := attr.Object.(*ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("generator: call target must be an imported built-in module's attribute, got %T", attr.Object)
	}
	mod, ok := g.importedModules[id.Text]
	if !ok {
		return nil, fmt.Errorf("generator: %q is not an imported built-in module", id.Text)
	}
	v, ok := mod.Attrs[attr.Name]
	if !ok {
		return nil, fmt.Errorf("generator: %s has no attribute %q", id.Text, attr.Name)
	}
	bf, ok := v.(*modules.BinaryFunc)
	if !ok {
		return nil, fmt.Errorf("generator: %s.%s is not callable", id.Text, attr.Name)
	}
	var posArgs []expr.Expr
	kwargs := map[string]expr.Expr{}
	for _, a := range n.Args {
		val, err := g.lowerExpr(c, a.Value)
		if err != nil {
			return nil, err
		}
		if a.Name == "" {
			posArgs = append(posArgs, val)
		} else {
			kwargs[a.Name] = val
		}
	}
	argMap, ok := bf.Chopper.Call(g.Sink, n.Range(), posArgs, kwargs)
	if !ok {
		return nil, fmt.Errorf("generator: call to %s.%s failed argument matching", id.Text, attr.Name)
	}
	result, setup, ok := bf.Call(&modules.Context{M: g.Mgr, Sink: g.Sink}, n.Range(), argMap)
	if !ok {
		return nil, fmt.Errorf("generator: call to %s.%s reported an error", id.Text, attr.Name)
	}
	c.emit(setup...)
	return result, nil
}

func (g *Generator) lowerBoolOp(c *ctx, n *ast.BoolOp) (expr.Expr, error) {
	operands := make([]expr.BoolExpr, len(n.Operands))
	for i, o := range n.Operands {
		be, err := g.lowerBoolExpr(c, o)
		if err != nil {
			return nil, err
		}
		operands[i] = be
	}
	var (
		result expr.Expr
		setup  []cmds.Command
		err    error
	)
	switch n.Op {
	case ast.BoolAnd:
		result, setup, err = expr.NewAndGroup(operands, g.Mgr)
	case ast.BoolOr:
		result, setup, err = expr.NewOrGroup(operands, g.Mgr)
	default:
		return nil, fmt.Errorf("generator: unknown bool operator %v", n.Op)
	}
	if err != nil {
		return nil, err
	}
	c.emit(setup...)
	return result, nil
}
