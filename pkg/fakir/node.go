package fakir

import (
	"reflect"

	"github.com/mandelsoft/fakir/pkg/random"
)

// Tuple is the value of a node built by Tupled.
type Tuple = []any

// expr is the implementation of a graph node. All implementations
// are pointer types, their identity is the identity of the node.
type expr interface {
	// compute realizes the node. Child nodes must be
	// evaluated via the given call.
	compute(c *call) (any, error)
	// valueType returns the statically known value type or nil.
	valueType() reflect.Type
	String() string
}

// Expr is implemented by all nodes, regardless of their value type.
type Expr interface {
	expr() expr
	String() string
}

// Node is a lazy computation of a value of type T from
// a random source. Copies of a Node refer to the same node.
type Node[T any] struct {
	e expr
}

var _ Expr = Node[any]{}

func newNode[T any](e expr) Node[T] {
	return Node[T]{e: e}
}

func (n Node[T]) expr() expr {
	return n.e
}

func (n Node[T]) String() string {
	if n.e == nil {
		return "<invalid>"
	}
	return n.e.String()
}

// IsValid reports whether the node has been created by a constructor.
func (n Node[T]) IsValid() bool {
	return n.e != nil
}

// Any returns the same node with its value type erased.
func (n Node[T]) Any() Node[any] {
	return Node[any]{e: n.e}
}

// IID returns a node providing an independent realization of n
// on every reference.
func (n Node[T]) IID() Node[T] {
	return newNode[T](&decorrelated{inner: n.e})
}

// Generate realizes the node for a single row.
func (n Node[T]) Generate(src random.Source) (T, error) {
	var _nil T

	v, err := newCall(src).eval(n.e)
	if err != nil {
		return _nil, err
	}
	return cast[T](v)
}

// As provides the given node typed as Node[T]. The result is the same
// node. If the value type of the node is statically known, it must be
// assignable to T.
func As[T any](n Expr) (Node[T], error) {
	e := expression(n)
	if e == nil {
		return Node[T]{}, invalidParameter("uninitialized node")
	}
	if t := e.valueType(); t != nil && !t.AssignableTo(reflectType[T]()) {
		return Node[T]{}, typeMismatch("%s provides %s, but %s required", e, t, reflectType[T]())
	}
	return newNode[T](e), nil
}

// Must returns the node or panics if err is not nil.
// It is intended for graph construction with literal parameters.
func Must[T any](n Node[T], err error) Node[T] {
	if err != nil {
		panic(err)
	}
	return n
}

// TypeOf returns the statically known value type of a node or nil.
func TypeOf(n Expr) reflect.Type {
	e := expression(n)
	if e == nil {
		return nil
	}
	return e.valueType()
}

////////////////////////////////////////////////////////////////////////////////

func reflectType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// staticType returns the type of T or nil for interface types,
// whose dynamic type is only known when a value is drawn.
func staticType[T any]() reflect.Type {
	t := reflectType[T]()
	if t.Kind() == reflect.Interface {
		return nil
	}
	return t
}

func cast[T any](v any) (T, error) {
	var _nil T
	if v == nil {
		if reflectType[T]().Kind() == reflect.Interface {
			return _nil, nil
		}
		return _nil, typeMismatch("nil value for %s", reflectType[T]())
	}
	t, ok := v.(T)
	if !ok {
		return _nil, typeMismatch("value %v of type %T is no %s", v, v, reflectType[T]())
	}
	return t, nil
}
