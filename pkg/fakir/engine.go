package fakir

import (
	"fmt"
	"reflect"

	"github.com/mandelsoft/fakir/pkg/random"
)

// call is the state of a single evaluation. It caches the
// value of every node realized in its scope.
type call struct {
	src   random.Source
	cache map[expr]any
}

func newCall(src random.Source) *call {
	return &call{
		src:   src,
		cache: map[expr]any{},
	}
}

// scope provides a nested evaluation with an empty cache
// drawing from the same source.
func (c *call) scope() *call {
	return newCall(c.src)
}

func (c *call) eval(e expr) (any, error) {
	if e == nil {
		return nil, invalidParameter("uninitialized node")
	}
	if d, ok := e.(*decorrelated); ok {
		return c.scope().eval(d.inner)
	}
	if v, ok := c.cache[e]; ok {
		return v, nil
	}
	v, err := e.compute(c)
	if err != nil {
		return nil, err
	}
	c.cache[e] = v
	return v, nil
}

////////////////////////////////////////////////////////////////////////////////

// decorrelated is never cached. Its inner node is realized in a fresh
// scope, so neither the inner node nor any of its descendants reuse or
// update values of the enclosing evaluation.
type decorrelated struct {
	inner expr
}

func (d *decorrelated) compute(c *call) (any, error) {
	return c.scope().eval(d.inner)
}

func (d *decorrelated) valueType() reflect.Type {
	if d.inner == nil {
		return nil
	}
	return d.inner.valueType()
}

func (d *decorrelated) String() string {
	return fmt.Sprintf("iid(%s)", describe(d.inner))
}
