package fakir

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
)

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Number interface {
	Integer | ~float32 | ~float64
}

type Addable interface {
	Number | ~string
}

func describe(e expr) string {
	if e == nil {
		return "<invalid>"
	}
	return e.String()
}

func expression(n Expr) expr {
	if n == nil {
		return nil
	}
	return n.expr()
}

////////////////////////////////////////////////////////////////////////////////

type binaryOp struct {
	op          Op
	left, right expr
	typ         reflect.Type
}

func (n *binaryOp) compute(c *call) (any, error) {
	l, err := c.eval(n.left)
	if err != nil {
		return nil, err
	}
	r, err := c.eval(n.right)
	if err != nil {
		return nil, err
	}
	return n.op.Apply(l, r)
}

func (n *binaryOp) valueType() reflect.Type {
	return n.typ
}

func (n *binaryOp) String() string {
	if n.op == OpIndex {
		return fmt.Sprintf("%s[%s]", describe(n.left), describe(n.right))
	}
	return fmt.Sprintf("(%s %s %s)", describe(n.left), n.op, describe(n.right))
}

func binary[R any](op Op, l, r Expr) Node[R] {
	return newNode[R](&binaryOp{op: op, left: expression(l), right: expression(r), typ: staticType[R]()})
}

// Apply combines two nodes of arbitrary value types with an operator.
// If both value types are statically known, they are checked
// immediately, otherwise the check happens during the evaluation.
func Apply(op Op, left, right Expr) (Node[any], error) {
	l, r := expression(left), expression(right)
	if l == nil || r == nil {
		return Node[any]{}, invalidParameter("uninitialized operand for operator %s", op)
	}
	if _, ok := opNames[op]; !ok {
		return Node[any]{}, invalidParameter("unknown operator %s", op)
	}
	t, err := op.ResultType(l.valueType(), r.valueType())
	if err != nil {
		return Node[any]{}, fmt.Errorf("%s %s %s: %w", l, op, r, err)
	}
	return newNode[any](&binaryOp{op: op, left: l, right: r, typ: t}), nil
}

func Add[T Addable](a, b Node[T]) Node[T] {
	return binary[T](OpAdd, a, b)
}

func Sub[T Number](a, b Node[T]) Node[T] {
	return binary[T](OpSub, a, b)
}

func Mul[T Number](a, b Node[T]) Node[T] {
	return binary[T](OpMul, a, b)
}

// Div divides two numbers. Integer division truncates and fails
// for a zero divisor.
func Div[T Number](a, b Node[T]) Node[T] {
	return binary[T](OpDiv, a, b)
}

// FloorDiv divides two numbers rounding towards negative infinity.
func FloorDiv[T Number](a, b Node[T]) Node[T] {
	return binary[T](OpFloorDiv, a, b)
}

func Mod[T Number](a, b Node[T]) Node[T] {
	return binary[T](OpMod, a, b)
}

func Pow[T Number](a, b Node[T]) Node[T] {
	return binary[T](OpPow, a, b)
}

func Eq[T comparable](a, b Node[T]) Node[bool] {
	return binary[bool](OpEq, a, b)
}

func Ne[T comparable](a, b Node[T]) Node[bool] {
	return binary[bool](OpNe, a, b)
}

func Lt[T cmp.Ordered](a, b Node[T]) Node[bool] {
	return binary[bool](OpLt, a, b)
}

func Le[T cmp.Ordered](a, b Node[T]) Node[bool] {
	return binary[bool](OpLe, a, b)
}

func Gt[T cmp.Ordered](a, b Node[T]) Node[bool] {
	return binary[bool](OpGt, a, b)
}

func Ge[T cmp.Ordered](a, b Node[T]) Node[bool] {
	return binary[bool](OpGe, a, b)
}

// And is the logical conjunction. Both operands are always evaluated.
func And(a, b Node[bool]) Node[bool] {
	return binary[bool](OpAnd, a, b)
}

// Or is the logical disjunction. Both operands are always evaluated.
func Or(a, b Node[bool]) Node[bool] {
	return binary[bool](OpOr, a, b)
}

func Xor(a, b Node[bool]) Node[bool] {
	return binary[bool](OpXor, a, b)
}

func Index[E any](list Node[[]E], i Node[int]) Node[E] {
	return binary[E](OpIndex, list, i)
}

////////////////////////////////////////////////////////////////////////////////

type unaryOp struct {
	op      UnaryOp
	operand expr
	typ     reflect.Type
}

func (n *unaryOp) compute(c *call) (any, error) {
	v, err := c.eval(n.operand)
	if err != nil {
		return nil, err
	}
	return n.op.Apply(v)
}

func (n *unaryOp) valueType() reflect.Type {
	return n.typ
}

func (n *unaryOp) String() string {
	if n.op == OpAbs {
		return fmt.Sprintf("abs(%s)", describe(n.operand))
	}
	return fmt.Sprintf("%s%s", n.op, describe(n.operand))
}

func unary[T any](op UnaryOp, n Expr) Node[T] {
	return newNode[T](&unaryOp{op: op, operand: expression(n), typ: staticType[T]()})
}

// ApplyUnary applies an operator to a node of arbitrary value type.
func ApplyUnary(op UnaryOp, operand Expr) (Node[any], error) {
	e := expression(operand)
	if e == nil {
		return Node[any]{}, invalidParameter("uninitialized operand for operator %s", op)
	}
	if _, ok := unaryNames[op]; !ok {
		return Node[any]{}, invalidParameter("unknown operator %s", op)
	}
	t, err := op.ResultType(e.valueType())
	if err != nil {
		return Node[any]{}, fmt.Errorf("%s%s: %w", op, e, err)
	}
	return newNode[any](&unaryOp{op: op, operand: e, typ: t}), nil
}

func Neg[T Signed](n Node[T]) Node[T] {
	return unary[T](OpNeg, n)
}

func Abs[T Signed](n Node[T]) Node[T] {
	return unary[T](OpAbs, n)
}

func Not(n Node[bool]) Node[bool] {
	return unary[bool](OpNot, n)
}

////////////////////////////////////////////////////////////////////////////////

type conditional struct {
	cond, then, otherwise expr
}

// IfElse provides the value of then if cond is true, and the value
// of otherwise if not. Only the selected branch is evaluated.
func IfElse[T any](cond Node[bool], then, otherwise Node[T]) Node[T] {
	return newNode[T](&conditional{cond: cond.e, then: then.e, otherwise: otherwise.e})
}

func (n *conditional) compute(c *call) (any, error) {
	v, err := c.eval(n.cond)
	if err != nil {
		return nil, err
	}
	b := reflect.ValueOf(v)
	if b.Kind() != reflect.Bool {
		return nil, typeMismatch("condition %s provides %T instead of bool", n.cond, v)
	}
	if b.Bool() {
		return c.eval(n.then)
	}
	return c.eval(n.otherwise)
}

func (n *conditional) valueType() reflect.Type {
	if n.then == nil || n.otherwise == nil {
		return nil
	}
	t := n.then.valueType()
	if t != n.otherwise.valueType() {
		return nil
	}
	return t
}

func (n *conditional) String() string {
	return fmt.Sprintf("ifelse(%s, %s, %s)", describe(n.cond), describe(n.then), describe(n.otherwise))
}

////////////////////////////////////////////////////////////////////////////////

type tuple struct {
	elems []expr
}

// Tupled provides the values of all given nodes evaluated
// in the given order.
func Tupled(nodes ...Expr) Node[Tuple] {
	elems := make([]expr, len(nodes))
	for i, n := range nodes {
		elems[i] = expression(n)
	}
	return newNode[Tuple](&tuple{elems: elems})
}

func (n *tuple) compute(c *call) (any, error) {
	r := make(Tuple, len(n.elems))
	for i, e := range n.elems {
		v, err := c.eval(e)
		if err != nil {
			return nil, err
		}
		r[i] = v
	}
	return r, nil
}

func (n *tuple) valueType() reflect.Type {
	return reflectType[Tuple]()
}

func (n *tuple) String() string {
	return fmt.Sprintf("(%s)", describeAll(n.elems))
}

func describeAll(list []expr) string {
	s := make([]string, len(list))
	for i, e := range list {
		s[i] = describe(e)
	}
	return strings.Join(s, ", ")
}

////////////////////////////////////////////////////////////////////////////////

type list[T any] struct {
	elems []expr
}

// Listed provides the values of all given nodes as slice.
func Listed[T any](nodes ...Node[T]) Node[[]T] {
	elems := make([]expr, len(nodes))
	for i, n := range nodes {
		elems[i] = n.e
	}
	return newNode[[]T](&list[T]{elems: elems})
}

func (n *list[T]) compute(c *call) (any, error) {
	r := make([]T, len(n.elems))
	for i, e := range n.elems {
		v, err := c.eval(e)
		if err != nil {
			return nil, err
		}
		r[i], err = cast[T](v)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (n *list[T]) valueType() reflect.Type {
	return reflectType[[]T]()
}

func (n *list[T]) String() string {
	return fmt.Sprintf("[%s]", describeAll(n.elems))
}

////////////////////////////////////////////////////////////////////////////////

type mapped[T, U any] struct {
	in expr
	f  func(T) (U, error)
}

// Map provides the result of a function applied to the value of a node.
func Map[T, U any](n Node[T], f func(T) U) Node[U] {
	return TryMap(n, func(v T) (U, error) { return f(v), nil })
}

// TryMap provides the result of a function applied to the value of a node.
// Errors of the function abort the evaluation.
func TryMap[T, U any](n Node[T], f func(T) (U, error)) Node[U] {
	return newNode[U](&mapped[T, U]{in: n.e, f: f})
}

func (n *mapped[T, U]) compute(c *call) (any, error) {
	v, err := c.eval(n.in)
	if err != nil {
		return nil, err
	}
	t, err := cast[T](v)
	if err != nil {
		return nil, err
	}
	return n.f(t)
}

func (n *mapped[T, U]) valueType() reflect.Type {
	return staticType[U]()
}

func (n *mapped[T, U]) String() string {
	return fmt.Sprintf("map(%s)", describe(n.in))
}

type mapped2[A, B, R any] struct {
	a, b expr
	f    func(A, B) R
}

// Map2 provides the result of a function applied to the values
// of two nodes.
func Map2[A, B, R any](a Node[A], b Node[B], f func(A, B) R) Node[R] {
	return newNode[R](&mapped2[A, B, R]{a: a.e, b: b.e, f: f})
}

func (n *mapped2[A, B, R]) compute(c *call) (any, error) {
	va, err := c.eval(n.a)
	if err != nil {
		return nil, err
	}
	vb, err := c.eval(n.b)
	if err != nil {
		return nil, err
	}
	a, err := cast[A](va)
	if err != nil {
		return nil, err
	}
	b, err := cast[B](vb)
	if err != nil {
		return nil, err
	}
	return n.f(a, b), nil
}

func (n *mapped2[A, B, R]) valueType() reflect.Type {
	return staticType[R]()
}

func (n *mapped2[A, B, R]) String() string {
	return fmt.Sprintf("map(%s, %s)", describe(n.a), describe(n.b))
}

////////////////////////////////////////////////////////////////////////////////

type bound[T, U any] struct {
	in expr
	f  func(T) (Node[U], error)
}

// Bind provides a node whose value is the value of the node
// created by f for the value of n. The created node is evaluated
// in the same evaluation, so it shares values with the rest of
// the graph.
func Bind[T, U any](n Node[T], f func(T) (Node[U], error)) Node[U] {
	return newNode[U](&bound[T, U]{in: n.e, f: f})
}

func (n *bound[T, U]) compute(c *call) (any, error) {
	v, err := c.eval(n.in)
	if err != nil {
		return nil, err
	}
	t, err := cast[T](v)
	if err != nil {
		return nil, err
	}
	next, err := n.f(t)
	if err != nil {
		return nil, err
	}
	return c.eval(next.e)
}

func (n *bound[T, U]) valueType() reflect.Type {
	return staticType[U]()
}

func (n *bound[T, U]) String() string {
	return fmt.Sprintf("bind(%s)", describe(n.in))
}

////////////////////////////////////////////////////////////////////////////////

// MaxCount limits the number of values drawn by Repeat and Bootstrap.
const MaxCount = 1 << 24

type repeated[T any] struct {
	in    expr
	count int
}

// Repeat provides count independent realizations of a node.
func Repeat[T any](n Node[T], count int) (Node[[]T], error) {
	if count < 0 || count > MaxCount {
		return Node[[]T]{}, invalidParameter("repetition count %d must be in [0, %d]", count, MaxCount)
	}
	return newNode[[]T](&repeated[T]{in: n.e, count: count}), nil
}

func (n *repeated[T]) compute(c *call) (any, error) {
	r := make([]T, n.count)
	for i := range r {
		v, err := c.scope().eval(n.in)
		if err != nil {
			return nil, err
		}
		r[i], err = cast[T](v)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (n *repeated[T]) valueType() reflect.Type {
	return reflectType[[]T]()
}

func (n *repeated[T]) String() string {
	return fmt.Sprintf("repeat(%s, %d)", describe(n.in), n.count)
}
