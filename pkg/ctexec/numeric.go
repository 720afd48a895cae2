package ctexec

import (
	"fmt"
	"strings"
)

// asFloat reports o's numeric value promoted to float64, for mixed
// int/float arithmetic (Python's own int/float promotion rule).
func asFloat(o CTObj) (float64, bool) {
	switch v := o.(type) {
	case *CTInt:
		return float64(v.Value), true
	case *CTFloat:
		return v.Value, true
	default:
		return 0, false
	}
}

func (l *CTInt) Cadd(rhs CTObj) (CTObj, error) {
	if r, ok := rhs.(*CTInt); ok {
		return &CTInt{Value: l.Value + r.Value}, nil
	}
	if f, ok := asFloat(rhs); ok {
		return &CTFloat{Value: float64(l.Value) + f}, nil
	}
	return nil, unsupportedBinOp("+", l, rhs)
}

func (l *CTInt) Csub(rhs CTObj) (CTObj, error) {
	if r, ok := rhs.(*CTInt); ok {
		return &CTInt{Value: l.Value - r.Value}, nil
	}
	if f, ok := asFloat(rhs); ok {
		return &CTFloat{Value: float64(l.Value) - f}, nil
	}
	return nil, unsupportedBinOp("-", l, rhs)
}

func (l *CTInt) Cmul(rhs CTObj) (CTObj, error) {
	if r, ok := rhs.(*CTInt); ok {
		return &CTInt{Value: l.Value * r.Value}, nil
	}
	if f, ok := asFloat(rhs); ok {
		return &CTFloat{Value: float64(l.Value) * f}, nil
	}
	if s, ok := rhs.(*CTString); ok {
		return repeatString(s.Value, l.Value)
	}
	if list, ok := rhs.(*CTList); ok {
		return repeatList(list, l.Value)
	}
	return nil, unsupportedBinOp("*", l, rhs)
}

func (l *CTInt) Cdiv(rhs CTObj) (CTObj, error) {
	if r, ok := rhs.(*CTInt); ok {
		if r.Value == 0 {
			return nil, fmt.Errorf("ctexec: division by zero")
		}
		return &CTInt{Value: l.Value / r.Value}, nil
	}
	if f, ok := asFloat(rhs); ok {
		if f == 0 {
			return nil, fmt.Errorf("ctexec: division by zero")
		}
		return &CTFloat{Value: float64(l.Value) / f}, nil
	}
	return nil, unsupportedBinOp("/", l, rhs)
}

func (l *CTInt) Cmod(rhs CTObj) (CTObj, error) {
	r, ok := rhs.(*CTInt)
	if !ok {
		return nil, unsupportedBinOp("%", l, rhs)
	}
	if r.Value == 0 {
		return nil, fmt.Errorf("ctexec: modulo by zero")
	}
	return &CTInt{Value: l.Value % r.Value}, nil
}

func (l *CTInt) Cneg() (CTObj, error) { return &CTInt{Value: -l.Value}, nil }

func (l *CTInt) Ccompare(op CompareOp, rhs CTObj) (*CTBool, error) {
	f, ok := asFloat(rhs)
	if !ok {
		return nil, unsupportedCompare(l, rhs)
	}
	return compareFloats(float64(l.Value), f, op), nil
}

func (l *CTFloat) Cadd(rhs CTObj) (CTObj, error) {
	if f, ok := asFloat(rhs); ok {
		return &CTFloat{Value: l.Value + f}, nil
	}
	return nil, unsupportedBinOp("+", l, rhs)
}

func (l *CTFloat) Csub(rhs CTObj) (CTObj, error) {
	if f, ok := asFloat(rhs); ok {
		return &CTFloat{Value: l.Value - f}, nil
	}
	return nil, unsupportedBinOp("-", l, rhs)
}

func (l *CTFloat) Cmul(rhs CTObj) (CTObj, error) {
	if f, ok := asFloat(rhs); ok {
		return &CTFloat{Value: l.Value * f}, nil
	}
	return nil, unsupportedBinOp("*", l, rhs)
}

func (l *CTFloat) Cdiv(rhs CTObj) (CTObj, error) {
	f, ok := asFloat(rhs)
	if !ok {
		return nil, unsupportedBinOp("/", l, rhs)
	}
	if f == 0 {
		return nil, fmt.Errorf("ctexec: division by zero")
	}
	return &CTFloat{Value: l.Value / f}, nil
}

func (l *CTFloat) Cneg() (CTObj, error) { return &CTFloat{Value: -l.Value}, nil }

func (l *CTFloat) Ccompare(op CompareOp, rhs CTObj) (*CTBool, error) {
	f, ok := asFloat(rhs)
	if !ok {
		return nil, unsupportedCompare(l, rhs)
	}
	return compareFloats(l.Value, f, op), nil
}

func compareFloats(a, b float64, op CompareOp) *CTBool {
	var v bool
	switch op {
	case CmpLT:
		v = a < b
	case CmpGT:
		v = a > b
	case CmpLE:
		v = a <= b
	case CmpGE:
		v = a >= b
	case CmpEQ:
		v = a == b
	default:
		v = a != b
	}
	return &CTBool{Value: v}
}

func (l *CTString) Cadd(rhs CTObj) (CTObj, error) {
	r, ok := rhs.(*CTString)
	if !ok {
		return nil, unsupportedBinOp("+", l, rhs)
	}
	return &CTString{Value: l.Value + r.Value}, nil
}

func (l *CTString) Cmul(rhs CTObj) (CTObj, error) {
	r, ok := rhs.(*CTInt)
	if !ok {
		return nil, unsupportedBinOp("*", l, rhs)
	}
	return repeatString(l.Value, r.Value)
}

func repeatString(s string, n int64) (CTObj, error) {
	if n < 0 {
		n = 0
	}
	return &CTString{Value: strings.Repeat(s, int(n))}, nil
}

func (l *CTString) Ccompare(op CompareOp, rhs CTObj) (*CTBool, error) {
	r, ok := rhs.(*CTString)
	if !ok {
		return nil, unsupportedCompare(l, rhs)
	}
	var v bool
	switch op {
	case CmpLT:
		v = l.Value < r.Value
	case CmpGT:
		v = l.Value > r.Value
	case CmpLE:
		v = l.Value <= r.Value
	case CmpGE:
		v = l.Value >= r.Value
	case CmpEQ:
		v = l.Value == r.Value
	default:
		v = l.Value != r.Value
	}
	return &CTBool{Value: v}, nil
}

func (l *CTBool) Ccompare(op CompareOp, rhs CTObj) (*CTBool, error) {
	r, ok := rhs.(*CTBool)
	if !ok || (op != CmpEQ && op != CmpNE) {
		return nil, unsupportedCompare(l, rhs)
	}
	eq := l.Value == r.Value
	if op == CmpNE {
		eq = !eq
	}
	return &CTBool{Value: eq}, nil
}

func (l *CTNone) Ccompare(op CompareOp, rhs CTObj) (*CTBool, error) {
	_, isNone := rhs.(*CTNone)
	if op != CmpEQ && op != CmpNE {
		return nil, unsupportedCompare(l, rhs)
	}
	if op == CmpEQ {
		return &CTBool{Value: isNone}, nil
	}
	return &CTBool{Value: !isNone}, nil
}

func (l *CTList) Cadd(rhs CTObj) (CTObj, error) {
	r, ok := rhs.(*CTList)
	if !ok {
		return nil, unsupportedBinOp("+", l, rhs)
	}
	out := make([]CTObj, 0, len(l.Elems)+len(r.Elems))
	out = append(out, l.Elems...)
	out = append(out, r.Elems...)
	return &CTList{Elems: out}, nil
}

func (l *CTList) Cmul(rhs CTObj) (CTObj, error) {
	r, ok := rhs.(*CTInt)
	if !ok {
		return nil, unsupportedBinOp("*", l, rhs)
	}
	return repeatList(l, r.Value)
}

func repeatList(l *CTList, n int64) (CTObj, error) {
	if n < 0 {
		n = 0
	}
	out := make([]CTObj, 0, len(l.Elems)*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, l.Elems...)
	}
	return &CTList{Elems: out}, nil
}

func unsupportedBinOp(op string, lhs, rhs CTObj) error {
	return fmt.Errorf("ctexec: unsupported operand types for %s: %s and %s", op, lhs.CTTypeName(), rhs.CTTypeName())
}

func unsupportedCompare(lhs, rhs CTObj) error {
	return fmt.Errorf("ctexec: %s and %s cannot be compared this way", lhs.CTTypeName(), rhs.CTTypeName())
}
