package generator

import (
	"fmt"

	"github.com/CBerJun/acacia/pkg/ast"
	"github.com/CBerJun/acacia/pkg/expr"
)

// posConstructors maps the reserved bare names `Pos`/`Offset`/`Rot`/
// `Engroup` to the builder-chain value they construct (spec.md §3.5,
// §4.5). None of these has a dedicated AST literal node, so construction
// is modeled as an ordinary-looking call to a reserved name — an Open
// Question decision recorded in DESIGN.md, matching the teacher's own
// precedent of dispatching value construction through function calls.
// The table is filled in by init: the constructors reach lowerCall, which
// reads this table, so a static initializer would form a cycle.
var posConstructors map[string]func(*Generator, *ctx, *ast.Call) (expr.Expr, error)

func init() {
	posConstructors = map[string]func(*Generator, *ctx, *ast.Call) (expr.Expr, error){
		"Pos":     (*Generator).lowerPosConstructor,
		"Offset":  (*Generator).lowerOffsetConstructor,
		"Rot":     (*Generator).lowerRotConstructor,
		"Engroup": (*Generator).lowerEngroupConstructor,
	}
}

// floatArg requires e to lower to a compile-time-known number.
func (g *Generator) floatArg(c *ctx, e ast.Expr) (float64, error) {
	v, err := g.lowerExpr(c, e)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case *expr.IntLiteral:
		return float64(n.Value), nil
	case *expr.FloatLiteral:
		return n.Value, nil
	default:
		return 0, fmt.Errorf("generator: expected a constant number, got %s", v.DataType())
	}
}

// lowerFloatArgs requires exactly count positional numeric arguments.
func (g *Generator) lowerFloatArgs(c *ctx, n *ast.Call, count int) ([]float64, error) {
	if len(n.Args) != count {
		return nil, fmt.Errorf("generator: expected %d numeric argument(s), got %d", count, len(n.Args))
	}
	out := make([]float64, count)
	for i, a := range n.Args {
		if a.Name != "" {
			return nil, fmt.Errorf("generator: keyword arguments are not supported here")
		}
		v, err := g.floatArg(c, a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// lowerOneStringArg requires a single positional constant-string argument.
func (g *Generator) lowerOneStringArg(c *ctx, n *ast.Call) (string, error) {
	if len(n.Args) != 1 || n.Args[0].Name != "" {
		return "", fmt.Errorf("generator: expected a single string argument")
	}
	v, err := g.lowerExpr(c, n.Args[0].Value)
	if err != nil {
		return "", err
	}
	s, ok := v.(*expr.StringLiteral)
	if !ok {
		return "", fmt.Errorf("generator: expected a constant string, got %s", v.DataType())
	}
	return s.Value, nil
}

func (g *Generator) lowerPosConstructor(c *ctx, n *ast.Call) (expr.Expr, error) {
	vals, err := g.lowerFloatArgs(c, n, 3)
	if err != nil {
		return nil, err
	}
	return (&expr.PosVal{}).Abs(vals[0], vals[1], vals[2]), nil
}

func (g *Generator) lowerOffsetConstructor(c *ctx, n *ast.Call) (expr.Expr, error) {
	vals, err := g.lowerFloatArgs(c, n, 3)
	if err != nil {
		return nil, err
	}
	return &expr.OffsetVal{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func (g *Generator) lowerRotConstructor(c *ctx, n *ast.Call) (expr.Expr, error) {
	vals, err := g.lowerFloatArgs(c, n, 2)
	if err != nil {
		return nil, err
	}
	return (&expr.RotVal{}).Abs(vals[0], vals[1]), nil
}

// lowerEngroupConstructor builds `Engroup(TemplateName)`, the group of
// every entity tagged with that template's own runtime_tag.
func (g *Generator) lowerEngroupConstructor(c *ctx, n *ast.Call) (expr.Expr, error) {
	if len(n.Args) != 1 || n.Args[0].Name != "" {
		return nil, fmt.Errorf("generator: Engroup takes a single template name argument")
	}
	id, ok := n.Args[0].Value.(*ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("generator: Engroup argument must be an entity template name")
	}
	tmpl, ok := g.entityTemplates[id.Text]
	if !ok {
		return nil, fmt.Errorf("generator: undefined entity template %q", id.Text)
	}
	return &expr.EngroupVal{
		Template: tmpl,
		GroupTag: tmpl.RuntimeTag,
		Sel:      expr.NewSelector("e").Tag(tmpl.RuntimeTag),
	}, nil
}

// lowerMethodCall dispatches a builder-chain method call on a
// Position/Rotation/Engroup/Enfilter value (spec.md §4.5).
func (g *Generator) lowerMethodCall(c *ctx, obj expr.Expr, name string, n *ast.Call) (expr.Expr, error) {
	switch o := obj.(type) {
	case *expr.PosVal:
		return g.lowerPosMethod(c, o, name, n)
	case *expr.RotVal:
		return g.lowerRotMethod(c, o, name, n)
	case *expr.EngroupVal:
		return g.lowerEngroupMethod(c, o, name, n)
	case *expr.EnfilterVal:
		return g.lowerEnfilterMethod(c, o, name, n)
	default:
		return nil, fmt.Errorf("generator: %s has no method %q", obj.DataType(), name)
	}
}

func (g *Generator) lowerPosMethod(c *ctx, p *expr.PosVal, name string, n *ast.Call) (expr.Expr, error) {
	switch name {
	case "dim":
		s, err := g.lowerOneStringArg(c, n)
		if err != nil {
			return nil, err
		}
		return p.Dim(s), nil
	case "abs":
		vals, err := g.lowerFloatArgs(c, n, 3)
		if err != nil {
			return nil, err
		}
		return p.Abs(vals[0], vals[1], vals[2]), nil
	case "local":
		vals, err := g.lowerFloatArgs(c, n, 3)
		if err != nil {
			return nil, err
		}
		return p.Local(vals[0], vals[1], vals[2]), nil
	case "align":
		s, err := g.lowerOneStringArg(c, n)
		if err != nil {
			return nil, err
		}
		return p.Align(s), nil
	case "offset":
		if len(n.Args) != 1 || n.Args[0].Name != "" {
			return nil, fmt.Errorf("generator: Pos.offset takes a single Offset argument")
		}
		v, err := g.lowerExpr(c, n.Args[0].Value)
		if err != nil {
			return nil, err
		}
		off, ok := v.(*expr.OffsetVal)
		if !ok {
			return nil, fmt.Errorf("generator: Pos.offset expects an Offset value, got %s", v.DataType())
		}
		return p.Offset(off), nil
	case "apply":
		if len(n.Args) != 1 || n.Args[0].Name != "" {
			return nil, fmt.Errorf("generator: Pos.apply takes a single Rot argument")
		}
		v, err := g.lowerExpr(c, n.Args[0].Value)
		if err != nil {
			return nil, err
		}
		rot, ok := v.(*expr.RotVal)
		if !ok {
			return nil, fmt.Errorf("generator: Pos.apply expects a Rot value, got %s", v.DataType())
		}
		return p.Apply(rot), nil
	case "face_entity":
		if len(n.Args) != 2 {
			return nil, fmt.Errorf("generator: Pos.face_entity takes (selector, anchor)")
		}
		sel, err := g.lowerOneStringArgAt(c, n, 0)
		if err != nil {
			return nil, err
		}
		anchor, err := g.lowerOneStringArgAt(c, n, 1)
		if err != nil {
			return nil, err
		}
		_ = p.FaceEntity(sel, anchor)
		return &expr.NoneLiteral{}, nil
	default:
		return nil, fmt.Errorf("generator: Pos has no method %q", name)
	}
}

// lowerOneStringArgAt requires argument i of n to lower to a constant
// string, without requiring n to have exactly one argument overall.
func (g *Generator) lowerOneStringArgAt(c *ctx, n *ast.Call, i int) (string, error) {
	if n.Args[i].Name != "" {
		return "", fmt.Errorf("generator: keyword arguments are not supported here")
	}
	v, err := g.lowerExpr(c, n.Args[i].Value)
	if err != nil {
		return "", err
	}
	s, ok := v.(*expr.StringLiteral)
	if !ok {
		return "", fmt.Errorf("generator: expected a constant string, got %s", v.DataType())
	}
	return s.Value, nil
}

func (g *Generator) lowerRotMethod(c *ctx, r *expr.RotVal, name string, n *ast.Call) (expr.Expr, error) {
	switch name {
	case "abs":
		vals, err := g.lowerFloatArgs(c, n, 2)
		if err != nil {
			return nil, err
		}
		return r.Abs(vals[0], vals[1]), nil
	case "offset":
		vals, err := g.lowerFloatArgs(c, n, 2)
		if err != nil {
			return nil, err
		}
		return r.Offset(vals[0], vals[1]), nil
	default:
		return nil, fmt.Errorf("generator: Rot has no method %q", name)
	}
}

func (g *Generator) lowerEngroupMethod(c *ctx, group *expr.EngroupVal, name string, n *ast.Call) (expr.Expr, error) {
	if name != "select" {
		return nil, fmt.Errorf("generator: Engroup has no method %q", name)
	}
	if len(n.Args) != 0 {
		return nil, fmt.Errorf("generator: Engroup.select takes no arguments")
	}
	return group.Filter(), nil
}

func (g *Generator) lowerEnfilterMethod(c *ctx, f *expr.EnfilterVal, name string, n *ast.Call) (expr.Expr, error) {
	switch name {
	case "tag":
		s, err := g.lowerOneStringArg(c, n)
		if err != nil {
			return nil, err
		}
		return f.Tag(s), nil
	case "tag_n":
		s, err := g.lowerOneStringArg(c, n)
		if err != nil {
			return nil, err
		}
		return f.TagNot(s), nil
	case "limit":
		if len(n.Args) != 1 || n.Args[0].Name != "" {
			return nil, fmt.Errorf("generator: Enfilter.limit takes a single int argument")
		}
		v, err := g.lowerExpr(c, n.Args[0].Value)
		if err != nil {
			return nil, err
		}
		i, ok := v.(*expr.IntLiteral)
		if !ok {
			return nil, fmt.Errorf("generator: Enfilter.limit expects a constant int, got %s", v.DataType())
		}
		return f.Limit(int(i.Value)), nil
	case "distance":
		if len(n.Args) != 2 {
			return nil, fmt.Errorf("generator: Enfilter.distance takes (lo, hi)")
		}
		lo, err := g.lowerOneStringArgAt(c, n, 0)
		if err != nil {
			return nil, err
		}
		hi, err := g.lowerOneStringArgAt(c, n, 1)
		if err != nil {
			return nil, err
		}
		return f.Distance(lo, hi), nil
	default:
		return nil, fmt.Errorf("generator: Enfilter has no method %q", name)
	}
}
