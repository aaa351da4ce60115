package expression

import (
	"fmt"

	"github.com/mandelsoft/fakir/pkg/fakir"
)

var ErrUnknown = fmt.Errorf("unknown identifier")

// Scope resolves the variables used in an expression.
type Scope interface {
	Lookup(name string) (fakir.Node[any], bool)
}

// Variables is a Scope based on a map.
type Variables map[string]fakir.Node[any]

var _ Scope = Variables{}

func (v Variables) Lookup(name string) (fakir.Node[any], bool) {
	n, ok := v[name]
	return n, ok
}

var operators = map[string]fakir.Op{
	"+":  fakir.OpAdd,
	"-":  fakir.OpSub,
	"*":  fakir.OpMul,
	"/":  fakir.OpDiv,
	"//": fakir.OpFloorDiv,
	"%":  fakir.OpMod,
	"**": fakir.OpPow,
	"==": fakir.OpEq,
	"!=": fakir.OpNe,
	"<":  fakir.OpLt,
	"<=": fakir.OpLe,
	">":  fakir.OpGt,
	">=": fakir.OpGe,
	"&&": fakir.OpAnd,
	"||": fakir.OpOr,
	"[]": fakir.OpIndex,
}

var unaryOperators = map[string]fakir.UnaryOp{
	"-": fakir.OpNeg,
	"!": fakir.OpNot,
}

type compiler struct {
	scope Scope
}

// Compile builds the node graph for a parsed expression.
// Variables are resolved to the nodes provided by the scope,
// so all references to a variable share its value.
// Every literal provides a new constant node.
func Compile(n *Node, scope Scope) (fakir.Node[any], error) {
	if scope == nil {
		scope = Variables{}
	}
	c := &compiler{scope: scope}
	return c.compile(n)
}

// CompileString parses and compiles an expression.
func CompileString(in string, scope Scope) (fakir.Node[any], error) {
	n, err := Parse(in)
	if err != nil {
		return fakir.Node[any]{}, err
	}
	return Compile(n, scope)
}

func (c *compiler) compile(n *Node) (fakir.Node[any], error) {
	switch n.Kind {
	case Literal:
		return fakir.Fixed[any](n.Value), nil
	case Variable:
		v, ok := c.scope.Lookup(n.Name)
		if !ok {
			return fakir.Node[any]{}, fmt.Errorf("%w: variable %q", ErrUnknown, n.Name)
		}
		return v, nil
	case Operator:
		return c.compileOperator(n)
	case Call:
		return c.compileCall(n)
	}
	return fakir.Node[any]{}, fmt.Errorf("%w: invalid node kind %d", ErrSyntax, n.Kind)
}

func (c *compiler) compileAll(list []*Node) ([]fakir.Node[any], error) {
	r := make([]fakir.Node[any], len(list))
	for i, p := range list {
		e, err := c.compile(p)
		if err != nil {
			return nil, err
		}
		r[i] = e
	}
	return r, nil
}

func (c *compiler) compileOperator(n *Node) (fakir.Node[any], error) {
	if len(n.Parents) == 1 {
		op, ok := unaryOperators[n.Name]
		if !ok {
			return fakir.Node[any]{}, fmt.Errorf("%w: unknown unary operator %q", ErrSyntax, n.Name)
		}
		if v, ok := constant(n); ok {
			return fakir.Fixed[any](v), nil
		}
		a, err := c.compile(n.Parents[0])
		if err != nil {
			return fakir.Node[any]{}, err
		}
		r, err := fakir.ApplyUnary(op, a)
		return r, wrap(n, err)
	}

	op, ok := operators[n.Name]
	if !ok || len(n.Parents) != 2 {
		return fakir.Node[any]{}, fmt.Errorf("%w: unknown operator %q", ErrSyntax, n.Name)
	}
	a, err := c.compile(n.Parents[0])
	if err != nil {
		return fakir.Node[any]{}, err
	}
	var b fakir.Node[any]
	if op == fakir.OpIndex {
		b, err = c.compileIndex(n.Parents[1])
	} else {
		b, err = c.compile(n.Parents[1])
	}
	if err != nil {
		return fakir.Node[any]{}, err
	}
	r, err := fakir.Apply(op, a, b)
	return r, wrap(n, err)
}

// compileIndex maps integral numbers to int, because
// number literals are always floats.
func (c *compiler) compileIndex(n *Node) (fakir.Node[any], error) {
	if v, ok := constant(n); ok {
		if i, err := integral(v); err == nil {
			return fakir.Fixed[any](i), nil
		}
		return fakir.Fixed[any](v), nil
	}
	i, err := c.compile(n)
	if err != nil {
		return fakir.Node[any]{}, err
	}
	return fakir.Map(i, func(v any) any {
		if f, ok := v.(float64); ok {
			if i, err := integral(f); err == nil {
				return i
			}
		}
		return v
	}), nil
}

func (c *compiler) compileCall(n *Node) (fakir.Node[any], error) {
	f, ok := functions[n.Name]
	if !ok {
		return fakir.Node[any]{}, fmt.Errorf("%w: function %q", ErrUnknown, n.Name)
	}
	if len(n.Parents) < f.min || (f.max >= 0 && len(n.Parents) > f.max) {
		return fakir.Node[any]{}, fmt.Errorf("%w: %s: %s", fakir.ErrInvalidParameter, n, f.arity())
	}
	return f.compile(c, n)
}

// wrap adds the failing expression to construction errors.
func wrap(n *Node, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", n, err)
	}
	return nil
}

// constant provides the value of literals and negated number literals.
func constant(n *Node) (any, bool) {
	switch {
	case n.Kind == Literal:
		return n.Value, true
	case n.Kind == Operator && n.Name == "-" && len(n.Parents) == 1:
		if v, ok := constant(n.Parents[0]); ok {
			if f, ok := v.(float64); ok {
				return -f, true
			}
		}
	}
	return nil, false
}

func constants(list []*Node) ([]any, bool) {
	r := make([]any, len(list))
	for i, p := range list {
		v, ok := constant(p)
		if !ok {
			return nil, false
		}
		r[i] = v
	}
	return r, true
}
