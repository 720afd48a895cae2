package generator

import (
	"fmt"
	"math"

	"github.com/CBerJun/acacia/pkg/ast"
	"github.com/CBerJun/acacia/pkg/ctexec"
	"github.com/CBerJun/acacia/pkg/expr"
)

// ctFuncImpl is a `const def`'s compile-time callable (spec.md §4.7).
// Its Ccall takes the Generator explicitly rather than closing over one,
// so g.constFuncs can store these directly without per-Generator
// wrapper allocation at lookup time; ctCallableObj below adapts one of
// these plus its owning Generator into a plain ctexec.CTCallable for
// g.ctScope. Unlike a runtime funcInfo, it owns no Command-IR file: every
// call re-walks def.Body fresh, since the whole point of a const
// function is that it never emits a command itself.
type ctFuncImpl struct {
	def *ast.FuncDef
}

func (*ctFuncImpl) CTTypeName() string { return "const function" }

// Ccall binds args to def's parameters positionally in a fresh scope
// nested under the module's compile-time scope (not the caller's runtime
// scope: a const function's body can only ever see compile-time names)
// and re-runs its body through the shared Evaluator.
func (f *ctFuncImpl) Ccall(g *Generator, args []ctexec.CallArg, frame ctexec.Frame) (ctexec.CTObj, error) {
	if len(args) != len(f.def.Params) {
		return nil, fmt.Errorf("generator: %s takes %d argument(s), got %d", frame.Name, len(f.def.Params), len(args))
	}
	callScope := ctexec.NewScope(g.ctScope)
	for i, p := range f.def.Params {
		a := args[i]
		if a.Name != "" && a.Name != p.Name.Text {
			return nil, fmt.Errorf("generator: %s: argument %d named %q, expected %q", frame.Name, i+1, a.Name, p.Name.Text)
		}
		callScope.Declare(p.Name.Text, a.Value)
	}
	res, err := g.ctEval.ExecBlock(callScope, f.def.Body.Stmts)
	if err != nil {
		return nil, err
	}
	if res.Returned {
		return res.Value, nil
	}
	return ctexec.None, nil
}

// genConstFuncDef records a `const def` for later compile-time calls
// (spec.md §4.7): it is registered both under g.constFuncs, for ordinary
// runtime call sites (lowerConstCall), and into g.ctScope itself, so
// another compile-time expression (e.g. the value of a later `const`) can
// reference it by name the same way ctexec.Eval resolves any other
// identifier.
func (g *Generator) genConstFuncDef(n *ast.FuncDef) error {
	impl := &ctFuncImpl{def: n}
	g.constFuncs[n.Name.Text] = impl
	g.ctScope.Declare(n.Name.Text, &ctCallableObj{g: g, impl: impl, name: n.Name.Text})
	return nil
}

// ctCallableObj adapts a ctFuncImpl plus the Generator it was compiled
// against into a plain ctexec.CTCallable, so ctexec.Eval's generic Call
// handling (which only knows about ctexec.CTCallable, not this package's
// Generator) can invoke it without this package needing to change
// pkg/ctexec's Call-lowering code.
type ctCallableObj struct {
	g    *Generator
	impl *ctFuncImpl
	name string
}

func (*ctCallableObj) CTTypeName() string { return "const function" }

func (c *ctCallableObj) Ccall(args []ctexec.CallArg, frame ctexec.Frame) (ctexec.CTObj, error) {
	return c.impl.Ccall(c.g, args, frame)
}

// lowerConstCall evaluates a call to a `const def` from ordinary runtime
// code (spec.md §4.7): every argument must itself be compile-time-known,
// so each is evaluated directly through g.ctEval rather than through
// lowerExpr/expr.Expr, and the result is folded back into a runtime
// constant via ctObjToExpr.
func (g *Generator) lowerConstCall(n *ast.Call, fn *ctFuncImpl, name string) (expr.Expr, error) {
	args := make([]ctexec.CallArg, len(n.Args))
	for i, a := range n.Args {
		v, err := g.ctEval.Eval(g.ctScope, a.Value)
		if err != nil {
			return nil, err
		}
		args[i] = ctexec.CallArg{Name: a.Name, Value: v}
	}
	res, err := fn.Ccall(g, args, ctexec.Frame{Range: n.Range(), Name: name})
	if err != nil {
		return nil, err
	}
	return ctObjToExpr(res)
}

// ctObjToExpr folds a compile-time value back into a runtime constant
// expression (spec.md §4.7), the inverse of evaluating an AST node through
// g.ctEval: this is what lets a `const` binding's value, or a `const
// def`'s return value, flow into ordinary runtime expressions.
func ctObjToExpr(o ctexec.CTObj) (expr.Expr, error) {
	switch v := o.(type) {
	case *ctexec.CTInt:
		if v.Value > math.MaxInt32 || v.Value < math.MinInt32 {
			return nil, fmt.Errorf("generator: compile-time int %d overflows a 32-bit scoreboard value", v.Value)
		}
		return &expr.IntLiteral{Value: int32(v.Value)}, nil
	case *ctexec.CTBool:
		return &expr.BoolLiteral{Value: v.Value}, nil
	case *ctexec.CTFloat:
		return &expr.FloatLiteral{Value: v.Value}, nil
	case *ctexec.CTString:
		return &expr.StringLiteral{Value: v.Value}, nil
	case *ctexec.CTNone:
		return &expr.NoneLiteral{}, nil
	case *ctexec.CTList:
		items := make([]expr.Expr, len(v.Elems))
		for i, e := range v.Elems {
			ev, err := ctObjToExpr(e)
			if err != nil {
				return nil, err
			}
			items[i] = ev
		}
		return &expr.AcaciaList{Items: items}, nil
	case *ctexec.CTMap:
		keys, err := v.CTIterate()
		if err != nil {
			return nil, err
		}
		m := expr.NewAcaciaMap()
		for _, k := range keys {
			val, _, err := v.Get(k)
			if err != nil {
				return nil, err
			}
			ek, err := ctObjToExpr(k)
			if err != nil {
				return nil, err
			}
			ev, err := ctObjToExpr(val)
			if err != nil {
				return nil, err
			}
			m.Set(ek, ev)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("generator: compile-time value of type %s cannot be used at run time", o.CTTypeName())
	}
}
