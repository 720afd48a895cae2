package generator

import (
	"fmt"

	"github.com/CBerJun/acacia/pkg/expr"
)

// binOpError reports that lhs's concrete type does not implement the
// capability interface a binary/unary operator needs (spec.md §9's
// OpError, surfaced at the generator's call site rather than inside
// pkg/expr since the generator is what performed the failed type
// assertion). rhs is nil for a unary operator.
type binOpError struct {
	op       expr.OpKind
	lhs, rhs expr.Expr
}

func (e *binOpError) Error() string {
	if e.rhs == nil {
		return fmt.Sprintf("unsupported unary operator on %s", e.lhs.DataType())
	}
	return fmt.Sprintf("unsupported operator between %s and %s", e.lhs.DataType(), e.rhs.DataType())
}
