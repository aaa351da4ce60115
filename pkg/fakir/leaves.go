package fakir

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/mandelsoft/fakir/pkg/random"
)

type constant struct {
	value any
	typ   reflect.Type
}

// Fixed provides a node always returning the given value.
// It never draws from the source.
func Fixed[T any](value T) Node[T] {
	t := staticType[T]()
	if t == nil && any(value) != nil {
		t = reflect.TypeOf(value)
	}
	return newNode[T](&constant{value: value, typ: t})
}

func (n *constant) compute(c *call) (any, error) {
	return n.value, nil
}

func (n *constant) valueType() reflect.Type {
	return n.typ
}

func (n *constant) String() string {
	return literal(n.value)
}

////////////////////////////////////////////////////////////////////////////////

type rawDraw struct {
	fn  func(src random.Source) (any, error)
	typ reflect.Type
}

// RngFn provides a node drawing its value with the given function.
// Errors returned by the function are passed through unmodified.
func RngFn[T any](fn func(src random.Source) (T, error)) Node[T] {
	return newNode[T](&rawDraw{
		fn: func(src random.Source) (any, error) {
			return fn(src)
		},
		typ: staticType[T](),
	})
}

func (n *rawDraw) compute(c *call) (any, error) {
	return n.fn(c.src)
}

func (n *rawDraw) valueType() reflect.Type {
	return n.typ
}

func (n *rawDraw) String() string {
	if n.typ == nil {
		return "rng_fn()"
	}
	return fmt.Sprintf("rng_fn() %s", n.typ)
}

////////////////////////////////////////////////////////////////////////////////

var float64Type = reflectType[float64]()

type uniform struct {
	lo, hi float64
}

// Uniform provides a node drawing a float in [lo, hi).
func Uniform(lo, hi float64) (Node[float64], error) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return Node[float64]{}, invalidParameter("uniform bounds must be numbers")
	}
	if lo > hi {
		return Node[float64]{}, invalidParameter("uniform lower bound %v greater than upper bound %v", lo, hi)
	}
	return newNode[float64](&uniform{lo: lo, hi: hi}), nil
}

func (n *uniform) compute(c *call) (any, error) {
	return c.src.Uniform(n.lo, n.hi), nil
}

func (n *uniform) valueType() reflect.Type {
	return float64Type
}

func (n *uniform) String() string {
	return fmt.Sprintf("uniform(%v, %v)", n.lo, n.hi)
}

////////////////////////////////////////////////////////////////////////////////

type normal struct {
	mean, stddev float64
	log          bool
}

// Normal provides a node drawing from a gaussian distribution.
func Normal(mean, stddev float64) (Node[float64], error) {
	if err := checkDeviation("normal", mean, stddev); err != nil {
		return Node[float64]{}, err
	}
	return newNode[float64](&normal{mean: mean, stddev: stddev}), nil
}

// LogNormal provides a node drawing from a log-normal distribution.
// mu and sigma describe the underlying normal distribution.
func LogNormal(mu, sigma float64) (Node[float64], error) {
	if err := checkDeviation("lognormal", mu, sigma); err != nil {
		return Node[float64]{}, err
	}
	return newNode[float64](&normal{mean: mu, stddev: sigma, log: true}), nil
}

func checkDeviation(kind string, mean, stddev float64) error {
	if math.IsNaN(mean) || math.IsNaN(stddev) {
		return invalidParameter("%s parameters must be numbers", kind)
	}
	if stddev < 0 {
		return invalidParameter("%s standard deviation %v must not be negative", kind, stddev)
	}
	return nil
}

func (n *normal) compute(c *call) (any, error) {
	v := c.src.Normal(n.mean, n.stddev)
	if n.log {
		v = math.Exp(v)
	}
	return v, nil
}

func (n *normal) valueType() reflect.Type {
	return float64Type
}

func (n *normal) String() string {
	if n.log {
		return fmt.Sprintf("lognormal(%v, %v)", n.mean, n.stddev)
	}
	return fmt.Sprintf("normal(%v, %v)", n.mean, n.stddev)
}

////////////////////////////////////////////////////////////////////////////////

type choice[T any] struct {
	options []T
}

// Choice provides a node drawing one of the given options
// with equal probability.
func Choice[T any](options []T) (Node[T], error) {
	if len(options) == 0 {
		return Node[T]{}, invalidParameter("choice requires at least one option")
	}
	return newNode[T](&choice[T]{options: append([]T(nil), options...)}), nil
}

func (n *choice[T]) compute(c *call) (any, error) {
	return n.options[c.src.Index(len(n.options))], nil
}

func (n *choice[T]) valueType() reflect.Type {
	return sliceElemType(n.options)
}

func (n *choice[T]) String() string {
	return fmt.Sprintf("choice(%s)", literals(n.options))
}

////////////////////////////////////////////////////////////////////////////////

type bootstrap[T any] struct {
	options []T
	count   int
}

// Bootstrap provides a node drawing count options with replacement.
func Bootstrap[T any](options []T, count int) (Node[[]T], error) {
	if count < 0 || count > MaxCount {
		return Node[[]T]{}, invalidParameter("bootstrap count %d must be in [0, %d]", count, MaxCount)
	}
	if count > 0 && len(options) == 0 {
		return Node[[]T]{}, invalidParameter("bootstrap requires at least one option")
	}
	return newNode[[]T](&bootstrap[T]{options: append([]T(nil), options...), count: count}), nil
}

func (n *bootstrap[T]) compute(c *call) (any, error) {
	r := make([]T, n.count)
	for i := range r {
		r[i] = n.options[c.src.Index(len(n.options))]
	}
	return r, nil
}

func (n *bootstrap[T]) valueType() reflect.Type {
	return reflectType[[]T]()
}

func (n *bootstrap[T]) String() string {
	return fmt.Sprintf("bootstrap(%d, %s)", n.count, literals(n.options))
}

////////////////////////////////////////////////////////////////////////////////

type permute[T any] struct {
	options []T
	k       int
}

// Permute provides a node drawing k options without replacement.
func Permute[T any](options []T, k int) (Node[[]T], error) {
	if k < 0 || k > len(options) {
		return Node[[]T]{}, invalidParameter("permutation size %d must be in [0, %d]", k, len(options))
	}
	return newNode[[]T](&permute[T]{options: append([]T(nil), options...), k: k}), nil
}

// Shuffle provides a node drawing a permutation of all options.
func Shuffle[T any](options []T) Node[[]T] {
	return newNode[[]T](&permute[T]{options: append([]T(nil), options...), k: len(options)})
}

func (n *permute[T]) compute(c *call) (any, error) {
	pool := append([]T(nil), n.options...)
	for i := 0; i < n.k; i++ {
		j := i + c.src.Index(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n.k], nil
}

func (n *permute[T]) valueType() reflect.Type {
	return reflectType[[]T]()
}

func (n *permute[T]) String() string {
	return fmt.Sprintf("permute(%d, %s)", n.k, literals(n.options))
}

////////////////////////////////////////////////////////////////////////////////

// sliceElemType determines the element type of a slice. For
// interface element types the common dynamic type of all
// elements is used, if there is one.
func sliceElemType[T any](list []T) reflect.Type {
	if t := staticType[T](); t != nil {
		return t
	}
	var t reflect.Type
	for _, e := range list {
		et := reflect.TypeOf(e)
		if et == nil || (t != nil && t != et) {
			return nil
		}
		t = et
	}
	return t
}

func literal(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

func literals[T any](list []T) string {
	s := make([]string, len(list))
	for i, e := range list {
		s[i] = literal(e)
	}
	return strings.Join(s, ", ")
}
