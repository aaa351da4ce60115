package fakir

import (
	"fmt"
	"math"
	"reflect"
)

// Op is a binary operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpXor
	OpIndex
)

var opNames = map[Op]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
	OpEq:       "==",
	OpNe:       "!=",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpAnd:      "&",
	OpOr:       "|",
	OpXor:      "^",
	OpIndex:    "[]",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(o))
}

func (o Op) IsComparison() bool {
	return o >= OpEq && o <= OpGe
}

// UnaryOp is an operator with a single operand.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpAbs
	OpNot
)

var unaryNames = map[UnaryOp]string{
	OpNeg: "-",
	OpAbs: "abs",
	OpNot: "!",
}

func (o UnaryOp) String() string {
	if s, ok := unaryNames[o]; ok {
		return s
	}
	return fmt.Sprintf("unary(%d)", int(o))
}

////////////////////////////////////////////////////////////////////////////////

type class int

const (
	classOther class = iota
	classInt
	classUint
	classFloat
	classString
	classBool
)

func classOf(t reflect.Type) class {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return classInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return classUint
	case reflect.Float32, reflect.Float64:
		return classFloat
	case reflect.String:
		return classString
	case reflect.Bool:
		return classBool
	default:
		return classOther
	}
}

func (c class) numeric() bool {
	return c == classInt || c == classUint || c == classFloat
}

var boolType = reflectType[bool]()

// ResultType determines the value type of the operator applied to operands
// of the given types. A nil type denotes a type only known at evaluation
// time. Incompatible operand types yield ErrTypeMismatch.
func (o Op) ResultType(l, r reflect.Type) (reflect.Type, error) {
	if o == OpIndex {
		return indexType(l, r)
	}
	if l == nil || r == nil {
		if o.IsComparison() {
			return boolType, nil
		}
		return nil, nil
	}
	if l != r {
		return nil, typeMismatch("operator %s applied to %s and %s", o, l, r)
	}
	c := classOf(l)
	ok := false
	switch o {
	case OpAdd:
		ok = c.numeric() || c == classString
	case OpSub, OpMul, OpDiv, OpFloorDiv, OpMod, OpPow:
		ok = c.numeric()
	case OpEq, OpNe:
		if l.Comparable() {
			return boolType, nil
		}
	case OpLt, OpLe, OpGt, OpGe:
		if c.numeric() || c == classString {
			return boolType, nil
		}
	case OpAnd, OpOr, OpXor:
		ok = c == classBool || c == classInt || c == classUint
	}
	if !ok {
		return nil, typeMismatch("operator %s not applicable to %s", o, l)
	}
	return l, nil
}

func indexType(l, r reflect.Type) (reflect.Type, error) {
	if l == nil {
		return nil, nil
	}
	switch l.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		if r != nil && classOf(r) != classInt && classOf(r) != classUint {
			return nil, typeMismatch("index of type %s for %s", r, l)
		}
		if l.Kind() == reflect.String {
			return l, nil
		}
		return staticElem(l.Elem()), nil
	case reflect.Map:
		if r != nil && !r.AssignableTo(l.Key()) {
			return nil, typeMismatch("key of type %s for %s", r, l)
		}
		return staticElem(l.Elem()), nil
	default:
		return nil, typeMismatch("%s cannot be indexed", l)
	}
}

func staticElem(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Interface {
		return nil
	}
	return t
}

// Apply evaluates the operator for the given operand values.
func (o Op) Apply(a, b any) (any, error) {
	lt, rt := reflect.TypeOf(a), reflect.TypeOf(b)
	if lt == nil || rt == nil {
		switch o {
		case OpEq:
			return a == b, nil
		case OpNe:
			return a != b, nil
		}
		return nil, typeMismatch("operator %s applied to nil value", o)
	}
	if _, err := o.ResultType(lt, rt); err != nil {
		return nil, err
	}

	lv, rv := reflect.ValueOf(a), reflect.ValueOf(b)
	switch o {
	case OpIndex:
		return index(lv, rv)
	case OpEq:
		eq, err := equal(a, b)
		if err != nil {
			return nil, err
		}
		return eq, nil
	case OpNe:
		eq, err := equal(a, b)
		if err != nil {
			return nil, err
		}
		return !eq, nil
	}

	switch classOf(lt) {
	case classInt:
		return intOp(o, lt, lv.Int(), rv.Int())
	case classUint:
		return uintOp(o, lt, lv.Uint(), rv.Uint())
	case classFloat:
		return floatOp(o, lt, lv.Float(), rv.Float())
	case classString:
		return stringOp(o, lt, lv.String(), rv.String())
	case classBool:
		return boolOp(o, lt, lv.Bool(), rv.Bool())
	}
	return nil, typeMismatch("operator %s not applicable to %s", o, lt)
}

// equal compares two values of a comparable type. Such types
// may still hold uncomparable values in interface fields.
func equal(a, b any) (eq bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			eq, err = false, typeMismatch("values of type %T are not comparable: %v", a, r)
		}
	}()
	return a == b, nil
}

func converted(v any, t reflect.Type) any {
	return reflect.ValueOf(v).Convert(t).Interface()
}

func divisionByZero(o Op) error {
	return fmt.Errorf("%w: integer division by zero (%s)", ErrArithmetic, o)
}

func intOp(o Op, t reflect.Type, x, y int64) (any, error) {
	var r int64
	switch o {
	case OpAdd:
		r = x + y
	case OpSub:
		r = x - y
	case OpMul:
		r = x * y
	case OpDiv, OpFloorDiv, OpMod:
		if y == 0 {
			return nil, divisionByZero(o)
		}
		switch o {
		case OpMod:
			r = x % y
		case OpDiv:
			r = x / y
		default:
			r = x / y
			if x%y != 0 && (x < 0) != (y < 0) {
				r--
			}
		}
	case OpPow:
		if y < 0 {
			return nil, fmt.Errorf("%w: negative integer exponent %d", ErrArithmetic, y)
		}
		r = 1
		for b := x; y > 0; y >>= 1 {
			if y&1 == 1 {
				r *= b
			}
			b *= b
		}
	case OpAnd:
		r = x & y
	case OpOr:
		r = x | y
	case OpXor:
		r = x ^ y
	case OpLt:
		return x < y, nil
	case OpLe:
		return x <= y, nil
	case OpGt:
		return x > y, nil
	case OpGe:
		return x >= y, nil
	default:
		return nil, typeMismatch("operator %s not applicable to %s", o, t)
	}
	return converted(r, t), nil
}

func uintOp(o Op, t reflect.Type, x, y uint64) (any, error) {
	var r uint64
	switch o {
	case OpAdd:
		r = x + y
	case OpSub:
		r = x - y
	case OpMul:
		r = x * y
	case OpDiv, OpFloorDiv, OpMod:
		if y == 0 {
			return nil, divisionByZero(o)
		}
		if o == OpMod {
			r = x % y
		} else {
			r = x / y
		}
	case OpPow:
		r = 1
		for b := x; y > 0; y >>= 1 {
			if y&1 == 1 {
				r *= b
			}
			b *= b
		}
	case OpAnd:
		r = x & y
	case OpOr:
		r = x | y
	case OpXor:
		r = x ^ y
	case OpLt:
		return x < y, nil
	case OpLe:
		return x <= y, nil
	case OpGt:
		return x > y, nil
	case OpGe:
		return x >= y, nil
	default:
		return nil, typeMismatch("operator %s not applicable to %s", o, t)
	}
	return converted(r, t), nil
}

func floatOp(o Op, t reflect.Type, x, y float64) (any, error) {
	var r float64
	switch o {
	case OpAdd:
		r = x + y
	case OpSub:
		r = x - y
	case OpMul:
		r = x * y
	case OpDiv:
		r = x / y
	case OpFloorDiv:
		r = math.Floor(x / y)
	case OpMod:
		r = math.Mod(x, y)
	case OpPow:
		r = math.Pow(x, y)
	case OpLt:
		return x < y, nil
	case OpLe:
		return x <= y, nil
	case OpGt:
		return x > y, nil
	case OpGe:
		return x >= y, nil
	default:
		return nil, typeMismatch("operator %s not applicable to %s", o, t)
	}
	return converted(r, t), nil
}

func stringOp(o Op, t reflect.Type, x, y string) (any, error) {
	switch o {
	case OpAdd:
		return converted(x+y, t), nil
	case OpLt:
		return x < y, nil
	case OpLe:
		return x <= y, nil
	case OpGt:
		return x > y, nil
	case OpGe:
		return x >= y, nil
	default:
		return nil, typeMismatch("operator %s not applicable to %s", o, t)
	}
}

func boolOp(o Op, t reflect.Type, x, y bool) (any, error) {
	var r bool
	switch o {
	case OpAnd:
		r = x && y
	case OpOr:
		r = x || y
	case OpXor:
		r = x != y
	default:
		return nil, typeMismatch("operator %s not applicable to %s", o, t)
	}
	return converted(r, t), nil
}

func index(l, i reflect.Value) (any, error) {
	if l.Kind() == reflect.Map {
		v := l.MapIndex(i.Convert(l.Type().Key()))
		if !v.IsValid() {
			return nil, fmt.Errorf("%w: key %v not found", ErrOutOfRange, i.Interface())
		}
		return v.Interface(), nil
	}

	var n int64
	if classOf(i.Type()) == classUint {
		if i.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("%w: index %d", ErrOutOfRange, i.Uint())
		}
		n = int64(i.Uint())
	} else {
		n = i.Int()
	}
	if n < 0 || n >= int64(l.Len()) {
		return nil, fmt.Errorf("%w: index %d for length %d", ErrOutOfRange, n, l.Len())
	}
	if l.Kind() == reflect.String {
		return converted(l.String()[n:n+1], l.Type()), nil
	}
	return l.Index(int(n)).Interface(), nil
}

////////////////////////////////////////////////////////////////////////////////

// ResultType determines the value type of the operator applied to an
// operand of the given type.
func (o UnaryOp) ResultType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, nil
	}
	c := classOf(t)
	switch o {
	case OpNeg, OpAbs:
		if c == classInt || c == classFloat {
			return t, nil
		}
	case OpNot:
		if c == classBool {
			return t, nil
		}
	}
	return nil, typeMismatch("operator %s not applicable to %s", o, t)
}

// Apply evaluates the operator for the given operand value.
func (o UnaryOp) Apply(a any) (any, error) {
	t := reflect.TypeOf(a)
	if t == nil {
		return nil, typeMismatch("operator %s applied to nil value", o)
	}
	if _, err := o.ResultType(t); err != nil {
		return nil, err
	}
	v := reflect.ValueOf(a)
	switch classOf(t) {
	case classInt:
		x := v.Int()
		if o == OpNeg || x < 0 {
			x = -x
		}
		return converted(x, t), nil
	case classFloat:
		x := v.Float()
		if o == OpNeg {
			x = -x
		} else {
			x = math.Abs(x)
		}
		return converted(x, t), nil
	default:
		return converted(!v.Bool(), t), nil
	}
}
