package ctexec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CBerJun/acacia/pkg/ast"
)

// Evaluator walks an AST subtree directly, without lowering it into the
// Command IR (spec.md §4.7). It holds no mutable state of its own; every
// binding lives in the Scope threaded through each call.
type Evaluator struct{}

// New constructs an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval evaluates one compile-time expression.
func (e *Evaluator) Eval(scope *Scope, expr ast.Expr) (CTObj, error) {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return &CTInt{Value: n.Value}, nil
	case *ast.FloatLiteral:
		return &CTFloat{Value: n.Value}, nil
	case *ast.BoolLiteral:
		return &CTBool{Value: n.Value}, nil
	case *ast.NoneLiteral:
		return None, nil
	case *ast.StringLiteral:
		return e.evalStringParts(scope, n.Parts)
	case *ast.ListLiteral:
		return e.evalList(scope, n)
	case *ast.MapLiteral:
		return e.evalMap(scope, n)
	case *ast.Identifier:
		ptr, ok := scope.Lookup(n.Text)
		if !ok {
			return nil, fmt.Errorf("ctexec: %q is not a compile-time name", n.Text)
		}
		return ptr.Get(), nil
	case *ast.Attribute:
		return e.evalAttribute(scope, n)
	case *ast.Subscript:
		return e.evalSubscript(scope, n)
	case *ast.BinOp:
		return e.evalBinOp(scope, n)
	case *ast.UnaryOp:
		return e.evalUnaryOp(scope, n)
	case *ast.CompareChain:
		return e.evalCompareChain(scope, n)
	case *ast.BoolOp:
		return e.evalBoolOp(scope, n)
	case *ast.Call:
		return e.evalCall(scope, n)
	default:
		return nil, fmt.Errorf("ctexec: %T cannot appear in a compile-time expression", expr)
	}
}

func (e *Evaluator) evalStringParts(scope *Scope, parts []ast.StringPart) (CTObj, error) {
	var b strings.Builder
	for _, p := range parts {
		switch part := p.(type) {
		case ast.TextPart:
			b.WriteString(part.Text)
		case ast.InterpPart:
			v, err := e.Eval(scope, part.Expr)
			if err != nil {
				return nil, err
			}
			s, err := ctStr(v)
			if err != nil {
				return nil, err
			}
			b.WriteString(s)
		default:
			return nil, fmt.Errorf("ctexec: unknown string part %T", p)
		}
	}
	return &CTString{Value: b.String()}, nil
}

// ctStr renders v the way `${v}` string interpolation would, mirroring
// Python's str().
func ctStr(v CTObj) (string, error) {
	switch o := v.(type) {
	case *CTInt:
		return strconv.FormatInt(o.Value, 10), nil
	case *CTFloat:
		return strconv.FormatFloat(o.Value, 'g', -1, 64), nil
	case *CTBool:
		if o.Value {
			return "True", nil
		}
		return "False", nil
	case *CTString:
		return o.Value, nil
	case *CTNone:
		return "None", nil
	default:
		return "", fmt.Errorf("ctexec: %s has no string representation", v.CTTypeName())
	}
}

func (e *Evaluator) evalList(scope *Scope, n *ast.ListLiteral) (CTObj, error) {
	elems := make([]CTObj, len(n.Elems))
	for i, el := range n.Elems {
		v, err := e.Eval(scope, el)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return &CTList{Elems: elems}, nil
}

func (e *Evaluator) evalMap(scope *Scope, n *ast.MapLiteral) (CTObj, error) {
	m := NewCTMap()
	for _, entry := range n.Entries {
		k, err := e.Eval(scope, entry.Key)
		if err != nil {
			return nil, err
		}
		v, err := e.Eval(scope, entry.Value)
		if err != nil {
			return nil, err
		}
		if err := m.Set(k, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (e *Evaluator) evalAttribute(scope *Scope, n *ast.Attribute) (CTObj, error) {
	obj, err := e.Eval(scope, n.Object)
	if err != nil {
		return nil, err
	}
	getter, ok := obj.(CTAttrGetter)
	if !ok {
		return nil, fmt.Errorf("ctexec: %s has no attributes", obj.CTTypeName())
	}
	v, ok := getter.CTGetAttr(n.Name)
	if !ok {
		return nil, fmt.Errorf("ctexec: %s has no attribute %q", obj.CTTypeName(), n.Name)
	}
	return v, nil
}

func (e *Evaluator) evalSubscript(scope *Scope, n *ast.Subscript) (CTObj, error) {
	obj, err := e.Eval(scope, n.Object)
	if err != nil {
		return nil, err
	}
	idx, err := e.Eval(scope, n.Index)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *CTList:
		i, ok := idx.(*CTInt)
		if !ok {
			return nil, fmt.Errorf("ctexec: list index must be an int, got %s", idx.CTTypeName())
		}
		pos := i.Value
		if pos < 0 {
			pos += int64(len(o.Elems))
		}
		if pos < 0 || pos >= int64(len(o.Elems)) {
			return nil, fmt.Errorf("ctexec: list index %d out of range", i.Value)
		}
		return o.Elems[pos], nil
	case *CTMap:
		v, ok, err := o.Get(idx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("ctexec: key not found in map")
		}
		return v, nil
	default:
		return nil, fmt.Errorf("ctexec: %s is not subscriptable", obj.CTTypeName())
	}
}

func (e *Evaluator) evalBinOp(scope *Scope, n *ast.BinOp) (CTObj, error) {
	lhs, err := e.Eval(scope, n.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := e.Eval(scope, n.RHS)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.BinAdd:
		a, ok := lhs.(CTAdder)
		if !ok {
			return nil, unsupportedBinOp("+", lhs, rhs)
		}
		return a.Cadd(rhs)
	case ast.BinSub:
		a, ok := lhs.(CTSuber)
		if !ok {
			return nil, unsupportedBinOp("-", lhs, rhs)
		}
		return a.Csub(rhs)
	case ast.BinMul:
		a, ok := lhs.(CTMuler)
		if !ok {
			return nil, unsupportedBinOp("*", lhs, rhs)
		}
		return a.Cmul(rhs)
	case ast.BinDiv:
		a, ok := lhs.(CTDiver)
		if !ok {
			return nil, unsupportedBinOp("/", lhs, rhs)
		}
		return a.Cdiv(rhs)
	case ast.BinMod:
		a, ok := lhs.(CTModer)
		if !ok {
			return nil, unsupportedBinOp("%", lhs, rhs)
		}
		return a.Cmod(rhs)
	default:
		return nil, fmt.Errorf("ctexec: unknown binary operator %v", n.Op)
	}
}

func (e *Evaluator) evalUnaryOp(scope *Scope, n *ast.UnaryOp) (CTObj, error) {
	operand, err := e.Eval(scope, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.UnaryPos:
		return operand, nil
	case ast.UnaryNeg:
		neg, ok := operand.(CTNegater)
		if !ok {
			return nil, fmt.Errorf("ctexec: unsupported unary - on %s", operand.CTTypeName())
		}
		return neg.Cneg()
	case ast.UnaryNot:
		b, ok := operand.(*CTBool)
		if !ok {
			return nil, fmt.Errorf("ctexec: `not` requires a bool, got %s", operand.CTTypeName())
		}
		return &CTBool{Value: !b.Value}, nil
	default:
		return nil, fmt.Errorf("ctexec: unknown unary operator %v", n.Op)
	}
}

func astCompareOp(op ast.CompareOpKind) CompareOp {
	switch op {
	case ast.CmpLT:
		return CmpLT
	case ast.CmpGT:
		return CmpGT
	case ast.CmpLE:
		return CmpLE
	case ast.CmpGE:
		return CmpGE
	case ast.CmpEQ:
		return CmpEQ
	default:
		return CmpNE
	}
}

func (e *Evaluator) evalCompareChain(scope *Scope, n *ast.CompareChain) (CTObj, error) {
	operands := make([]CTObj, len(n.Operands))
	for i, o := range n.Operands {
		v, err := e.Eval(scope, o)
		if err != nil {
			return nil, err
		}
		operands[i] = v
	}
	for i, op := range n.Ops {
		lhs, rhs := operands[i], operands[i+1]
		cmp, ok := lhs.(CTComparer)
		if !ok {
			return nil, unsupportedCompare(lhs, rhs)
		}
		b, err := cmp.Ccompare(astCompareOp(op), rhs)
		if err != nil {
			return nil, err
		}
		if !b.Value {
			return &CTBool{Value: false}, nil
		}
	}
	return &CTBool{Value: true}, nil
}

func (e *Evaluator) evalBoolOp(scope *Scope, n *ast.BoolOp) (CTObj, error) {
	var last CTObj = &CTBool{Value: n.Op == ast.BoolAnd}
	for _, o := range n.Operands {
		v, err := e.Eval(scope, o)
		if err != nil {
			return nil, err
		}
		b, ok := v.(*CTBool)
		if !ok {
			return nil, fmt.Errorf("ctexec: `and`/`or` requires bool operands, got %s", v.CTTypeName())
		}
		last = b
		if n.Op == ast.BoolAnd && !b.Value {
			return b, nil
		}
		if n.Op == ast.BoolOr && b.Value {
			return b, nil
		}
	}
	return last, nil
}

func (e *Evaluator) evalCall(scope *Scope, n *ast.Call) (CTObj, error) {
	callee, err := e.Eval(scope, n.Callee)
	if err != nil {
		return nil, err
	}
	callable, ok := callee.(CTCallable)
	if !ok {
		return nil, fmt.Errorf("ctexec: %s is not callable in a compile-time context", callee.CTTypeName())
	}
	args := make([]CallArg, len(n.Args))
	for i, a := range n.Args {
		v, err := e.Eval(scope, a.Value)
		if err != nil {
			return nil, err
		}
		args[i] = CallArg{Name: a.Name, Value: v}
	}
	return callable.Ccall(args, Frame{Range: n.Range(), Name: calleeName(n.Callee)})
}

func calleeName(callee ast.Expr) string {
	if id, ok := callee.(*ast.Identifier); ok {
		return id.Text
	}
	return "<expr>"
}
