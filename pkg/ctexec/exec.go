package ctexec

import (
	"fmt"

	"github.com/CBerJun/acacia/pkg/ast"
)

// ExecResult communicates how a statement sequence ended: either a
// `result` value bubbling out of the innermost call, or plain completion.
type ExecResult struct {
	Returned bool
	Value    CTObj
}

// ExecBlock runs stmts in sequence under scope, short-circuiting as soon
// as one of them produces a `result`.
func (e *Evaluator) ExecBlock(scope *Scope, stmts []ast.Stmt) (ExecResult, error) {
	for _, s := range stmts {
		res, err := e.execStmt(scope, s)
		if err != nil {
			return ExecResult{}, err
		}
		if res.Returned {
			return res, nil
		}
	}
	return ExecResult{}, nil
}

func (e *Evaluator) execStmt(scope *Scope, s ast.Stmt) (ExecResult, error) {
	switch n := s.(type) {
	case *ast.PassStmt:
		return ExecResult{}, nil
	case *ast.ExprStmt:
		_, err := e.Eval(scope, n.Expr)
		return ExecResult{}, err
	case *ast.ConstStmt:
		return ExecResult{}, e.execConst(scope, n)
	case *ast.Assign:
		return ExecResult{}, e.execAssign(scope, n)
	case *ast.AugAssign:
		return ExecResult{}, e.execAugAssign(scope, n)
	case *ast.IfStmt:
		return e.execIf(scope, n)
	case *ast.WhileStmt:
		return e.execWhile(scope, n)
	case *ast.ForStmt:
		return e.execFor(scope, n)
	case *ast.ResultStmt:
		v, err := e.Eval(scope, n.Value)
		if err != nil {
			return ExecResult{}, err
		}
		return ExecResult{Returned: true, Value: v}, nil
	default:
		return ExecResult{}, refusedStmt(s)
	}
}

// refusedStmt reports the side-effecting constructs the compile-time
// executer must never run (spec.md §4.7): assignment to a runtime
// variable never reaches here since this package is only ever invoked on
// a const/compile-time AST subtree, but imports and definitions can
// appear lexically anywhere and must be rejected explicitly.
func refusedStmt(s ast.Stmt) error {
	switch s.(type) {
	case *ast.ImportStmt, *ast.ImportFromStmt:
		return fmt.Errorf("ctexec: import statements are not permitted in a compile-time context")
	case *ast.FuncDef, *ast.EntityDef, *ast.StructDef, *ast.InterfaceDef:
		return fmt.Errorf("ctexec: definitions are not permitted in a compile-time context")
	default:
		return fmt.Errorf("ctexec: %T is not permitted in a compile-time context", s)
	}
}

// execConst binds a fresh compile-time name (`const name := expr`).
func (e *Evaluator) execConst(scope *Scope, n *ast.ConstStmt) error {
	v, err := e.Eval(scope, n.Value)
	if err != nil {
		return err
	}
	scope.Declare(n.Name.Text, v)
	return nil
}

// execAssign handles the three assignment kinds a compile-time block can
// see: `name := expr` declares a fresh cell, `name = expr` rebinds an
// existing one (walking outward to find it, as Python's own assignment
// does for a name already bound in an enclosing scope), and `&name :=
// expr` aliases an existing cell rather than copying its value (spec.md
// §4.7's CTObjPtr reference semantics).
func (e *Evaluator) execAssign(scope *Scope, n *ast.Assign) error {
	if n.Kind == ast.AssignReference {
		id, ok := n.Value.(*ast.Identifier)
		if !ok {
			return fmt.Errorf("ctexec: a reference definition's right-hand side must be a name")
		}
		ptr, ok := scope.Lookup(id.Text)
		if !ok {
			return fmt.Errorf("ctexec: %q is not a compile-time name", id.Text)
		}
		scope.DeclareRef(n.Target.Text, ptr)
		return nil
	}
	v, err := e.Eval(scope, n.Value)
	if err != nil {
		return err
	}
	if n.Kind == ast.AssignPlain {
		if ptr, ok := scope.Lookup(n.Target.Text); ok {
			ptr.Set(v)
			return nil
		}
		return fmt.Errorf("ctexec: assignment to undeclared compile-time name %q", n.Target.Text)
	}
	scope.Declare(n.Target.Text, v)
	return nil
}

func (e *Evaluator) execAugAssign(scope *Scope, n *ast.AugAssign) error {
	id, ok := n.Target.(*ast.Identifier)
	if !ok {
		return fmt.Errorf("ctexec: augmented-assignment target must be a name, got %T", n.Target)
	}
	ptr, ok := scope.Lookup(id.Text)
	if !ok {
		return fmt.Errorf("ctexec: augmented assignment to undeclared compile-time name %q", id.Text)
	}
	rhs, err := e.Eval(scope, n.Value)
	if err != nil {
		return err
	}
	lhs := ptr.Get()
	var result CTObj
	switch n.Op {
	case ast.AugAdd:
		a, ok := lhs.(CTAdder)
		if !ok {
			return unsupportedBinOp("+=", lhs, rhs)
		}
		result, err = a.Cadd(rhs)
	case ast.AugSub:
		a, ok := lhs.(CTSuber)
		if !ok {
			return unsupportedBinOp("-=", lhs, rhs)
		}
		result, err = a.Csub(rhs)
	case ast.AugMul:
		a, ok := lhs.(CTMuler)
		if !ok {
			return unsupportedBinOp("*=", lhs, rhs)
		}
		result, err = a.Cmul(rhs)
	case ast.AugDiv:
		a, ok := lhs.(CTDiver)
		if !ok {
			return unsupportedBinOp("/=", lhs, rhs)
		}
		result, err = a.Cdiv(rhs)
	case ast.AugMod:
		a, ok := lhs.(CTModer)
		if !ok {
			return unsupportedBinOp("%=", lhs, rhs)
		}
		result, err = a.Cmod(rhs)
	}
	if err != nil {
		return err
	}
	ptr.Set(result)
	return nil
}

func (e *Evaluator) execIf(scope *Scope, n *ast.IfStmt) (ExecResult, error) {
	cond, err := e.Eval(scope, n.Cond)
	if err != nil {
		return ExecResult{}, err
	}
	if taken, err := asCondition(cond); err != nil {
		return ExecResult{}, err
	} else if taken {
		return e.ExecBlock(NewScope(scope), n.Body.Stmts)
	}
	for _, elif := range n.Elifs {
		cond, err := e.Eval(scope, elif.Cond)
		if err != nil {
			return ExecResult{}, err
		}
		taken, err := asCondition(cond)
		if err != nil {
			return ExecResult{}, err
		}
		if taken {
			return e.ExecBlock(NewScope(scope), elif.Body.Stmts)
		}
	}
	if n.Else != nil {
		return e.ExecBlock(NewScope(scope), n.Else.Stmts)
	}
	return ExecResult{}, nil
}

func asCondition(v CTObj) (bool, error) {
	b, ok := v.(*CTBool)
	if !ok {
		return false, fmt.Errorf("ctexec: condition must be a bool, got %s", v.CTTypeName())
	}
	return b.Value, nil
}

func (e *Evaluator) execWhile(scope *Scope, n *ast.WhileStmt) (ExecResult, error) {
	for {
		cond, err := e.Eval(scope, n.Cond)
		if err != nil {
			return ExecResult{}, err
		}
		taken, err := asCondition(cond)
		if err != nil {
			return ExecResult{}, err
		}
		if !taken {
			return ExecResult{}, nil
		}
		res, err := e.ExecBlock(NewScope(scope), n.Body.Stmts)
		if err != nil {
			return ExecResult{}, err
		}
		if res.Returned {
			return res, nil
		}
	}
}

func (e *Evaluator) execFor(scope *Scope, n *ast.ForStmt) (ExecResult, error) {
	iterVal, err := e.Eval(scope, n.Iter)
	if err != nil {
		return ExecResult{}, err
	}
	iterable, ok := iterVal.(CTIterable)
	if !ok {
		return ExecResult{}, fmt.Errorf("ctexec: %s is not iterable in a compile-time context", iterVal.CTTypeName())
	}
	elems, err := iterable.CTIterate()
	if err != nil {
		return ExecResult{}, err
	}
	for _, elem := range elems {
		iterScope := NewScope(scope)
		iterScope.Declare(n.Var.Text, elem)
		res, err := e.ExecBlock(iterScope, n.Body.Stmts)
		if err != nil {
			return ExecResult{}, err
		}
		if res.Returned {
			return res, nil
		}
	}
	return ExecResult{}, nil
}
