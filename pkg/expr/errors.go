package expr

import "fmt"

// ConstArithmeticError reports that a literal-only arithmetic fold
// overflowed Acacia's 32-bit integer range (spec.md §4.5, diagnostic id
// "const-arithmetic").
type ConstArithmeticError struct {
	Op          OpKind
	LHS, RHS    int32
}

func (e *ConstArithmeticError) Error() string {
	return fmt.Sprintf("constant arithmetic overflow: %d op(%d) %d", e.LHS, e.Op, e.RHS)
}

// DivisionByZeroError reports `/0` or `%0` against a literal zero divisor.
type DivisionByZeroError struct{ Op OpKind }

func (e *DivisionByZeroError) Error() string { return "division by zero in constant expression" }
