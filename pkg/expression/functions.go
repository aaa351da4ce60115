package expression

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mandelsoft/fakir/pkg/fakes"
	"github.com/mandelsoft/fakir/pkg/fakir"
	"github.com/mandelsoft/fakir/pkg/random"
)

type builder func(c *compiler, n *Node) (fakir.Node[any], error)

type function struct {
	min     int
	max     int // negative for any number of arguments
	compile builder
}

func (f function) arity() string {
	switch {
	case f.min == f.max:
		return fmt.Sprintf("%d argument(s) expected", f.min)
	case f.max < 0:
		return fmt.Sprintf("at least %d argument(s) expected", f.min)
	default:
		return fmt.Sprintf("%d to %d arguments expected", f.min, f.max)
	}
}

var functions map[string]function

func init() {
	functions = map[string]function{
		"fixed":     {1, 1, fixedValue},
		"uniform":   {2, 2, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.Uniform(p[0], p[1]) })},
		"normal":    {2, 2, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.Normal(p[0], p[1]) })},
		"lognormal": {2, 2, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.LogNormal(p[0], p[1]) })},

		"truncated_normal": {2, 4, distribution(truncatedNormal)},
		"exponential":      {1, 1, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.Exponential(p[0]) })},
		"triangular":       {3, 3, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.Triangular(p[0], p[1], p[2]) })},
		"uniform1":         {0, 0, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.Uniform1(), nil })},
		"weibull":          {2, 2, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.Weibull(p[0], p[1]) })},
		"pareto":           {1, 1, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.Pareto(p[0]) })},
		"gamma":            {2, 2, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.Gamma(p[0], p[1]) })},
		"beta":             {2, 2, distribution(func(p []float64) (fakir.Node[float64], error) { return fakir.Beta(p[0], p[1]) })},

		"choice":    {1, -1, choice},
		"bootstrap": {2, -1, sampling(fakir.Bootstrap[any])},
		"sample":    {2, -1, sampling(fakir.Permute[any])},
		"ifelse":    {3, 3, ifelse},
		"iid":       {1, 1, iid},
		"tuple":     {0, -1, tuple},
		"repeat":    {2, 2, repeat},
		"name":      {0, 0, fake(fakes.Name)},
		"uuid":      {0, 0, fake(fakes.UUID)},
		"int":       {1, 1, convert(toInt)},
		"float":     {1, 1, convert(toFloat)},
		"str":       {1, 1, convert(toString)},
		"abs":       {1, 1, abs},
	}
}

func fixedValue(c *compiler, n *Node) (fakir.Node[any], error) {
	if v, ok := constant(n.Parents[0]); ok {
		return fakir.Fixed[any](v), nil
	}
	return c.compile(n.Parents[0])
}

// distribution validates literal parameters when compiling. Otherwise
// the distribution is created for every draw from the actual parameter
// values.
func distribution(create func(p []float64) (fakir.Node[float64], error)) builder {
	return func(c *compiler, n *Node) (fakir.Node[any], error) {
		if values, ok := constants(n.Parents); ok {
			params, err := numbers(n.Name, values)
			if err != nil {
				return fakir.Node[any]{}, wrap(n, err)
			}
			d, err := create(params)
			return d.Any(), wrap(n, err)
		}
		args, err := c.compileAll(n.Parents)
		if err != nil {
			return fakir.Node[any]{}, err
		}
		return fakir.Bind(fakir.Tupled(exprs(args)...), func(t fakir.Tuple) (fakir.Node[float64], error) {
			params, err := numbers(n.Name, t)
			if err != nil {
				return fakir.Node[float64]{}, err
			}
			return create(params)
		}).Any(), nil
	}
}

// truncatedNormal leaves omitted bounds open.
func truncatedNormal(p []float64) (fakir.Node[float64], error) {
	lo, hi := math.Inf(-1), math.Inf(1)
	if len(p) > 2 {
		lo = p[2]
	}
	if len(p) > 3 {
		hi = p[3]
	}
	return fakir.TruncatedNormal(p[0], p[1], lo, hi)
}

// choice draws among literal options, or evaluates only
// the chosen option expression.
func choice(c *compiler, n *Node) (fakir.Node[any], error) {
	if options, ok := constants(n.Parents); ok {
		r, err := fakir.Choice(options)
		return r, wrap(n, err)
	}
	args, err := c.compileAll(n.Parents)
	if err != nil {
		return fakir.Node[any]{}, err
	}
	count := len(args)
	index := fakir.RngFn(func(src random.Source) (int, error) {
		return src.Index(count), nil
	})
	return fakir.Bind(index, func(i int) (fakir.Node[any], error) {
		return args[i], nil
	}), nil
}

func sampling(create func(options []any, count int) (fakir.Node[[]any], error)) builder {
	return func(c *compiler, n *Node) (fakir.Node[any], error) {
		count, err := literalCount(n, n.Parents[0])
		if err != nil {
			return fakir.Node[any]{}, err
		}
		if options, ok := constants(n.Parents[1:]); ok {
			r, err := create(options, count)
			return r.Any(), wrap(n, err)
		}
		args, err := c.compileAll(n.Parents[1:])
		if err != nil {
			return fakir.Node[any]{}, err
		}
		return fakir.Bind(fakir.Tupled(exprs(args)...), func(t fakir.Tuple) (fakir.Node[[]any], error) {
			return create(t, count)
		}).Any(), nil
	}
}

func ifelse(c *compiler, n *Node) (fakir.Node[any], error) {
	args, err := c.compileAll(n.Parents)
	if err != nil {
		return fakir.Node[any]{}, err
	}
	cond, err := fakir.As[bool](args[0])
	if err != nil {
		return fakir.Node[any]{}, wrap(n, err)
	}
	return fakir.IfElse(cond, args[1], args[2]), nil
}

func iid(c *compiler, n *Node) (fakir.Node[any], error) {
	a, err := c.compile(n.Parents[0])
	if err != nil {
		return fakir.Node[any]{}, err
	}
	return a.IID(), nil
}

func tuple(c *compiler, n *Node) (fakir.Node[any], error) {
	args, err := c.compileAll(n.Parents)
	if err != nil {
		return fakir.Node[any]{}, err
	}
	return fakir.Tupled(exprs(args)...).Any(), nil
}

func repeat(c *compiler, n *Node) (fakir.Node[any], error) {
	count, err := literalCount(n, n.Parents[1])
	if err != nil {
		return fakir.Node[any]{}, err
	}
	a, err := c.compile(n.Parents[0])
	if err != nil {
		return fakir.Node[any]{}, err
	}
	r, err := fakir.Repeat(a, count)
	return r.Any(), wrap(n, err)
}

func fake(create func() fakir.Node[string]) builder {
	return func(c *compiler, n *Node) (fakir.Node[any], error) {
		return create().Any(), nil
	}
}

func convert[T any](f func(any) (T, error)) builder {
	return func(c *compiler, n *Node) (fakir.Node[any], error) {
		a, err := c.compile(n.Parents[0])
		if err != nil {
			return fakir.Node[any]{}, err
		}
		return fakir.TryMap(a, f).Any(), nil
	}
}

func abs(c *compiler, n *Node) (fakir.Node[any], error) {
	a, err := c.compile(n.Parents[0])
	if err != nil {
		return fakir.Node[any]{}, err
	}
	r, err := fakir.ApplyUnary(fakir.OpAbs, a)
	return r, wrap(n, err)
}

////////////////////////////////////////////////////////////////////////////////

func exprs(list []fakir.Node[any]) []fakir.Expr {
	r := make([]fakir.Expr, len(list))
	for i, e := range list {
		r[i] = e
	}
	return r
}

func literalCount(call, n *Node) (int, error) {
	v, ok := constant(n)
	if !ok {
		return 0, fmt.Errorf("%w: %s: count must be a number literal", fakir.ErrInvalidParameter, call)
	}
	count, err := integral(v)
	return count, wrap(call, err)
}

func integral(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("%w: %v is no integer", fakir.ErrInvalidParameter, x)
		}
		if x < math.MinInt || x >= math.MaxInt {
			return 0, fmt.Errorf("%w: %v exceeds the integer range", fakir.ErrInvalidParameter, x)
		}
		return int(x), nil
	}
	return 0, fmt.Errorf("%w: %v (%T) is no integer", fakir.ErrTypeMismatch, v, v)
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func numbers(name string, values []any) ([]float64, error) {
	r := make([]float64, len(values))
	for i, v := range values {
		f, ok := number(v)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %d of %s must be a number, found %v (%T)", fakir.ErrTypeMismatch, i+1, name, v, v)
		}
		r[i] = f
	}
	return r, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cannot convert %q to a number", fakir.ErrTypeMismatch, x)
		}
		return f, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	if f, ok := number(v); ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: cannot convert %v (%T) to a number", fakir.ErrTypeMismatch, v, v)
}

// toInt truncates towards zero.
func toInt(v any) (int, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("%w: cannot convert %v to an integer", fakir.ErrArithmetic, f)
	}
	return int(f), nil
}

func toString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}
