package fakir

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mandelsoft/fakir/pkg/random"
)

// maxRejections limits the draws of rejection sampling.
const maxRejections = 1 << 16

type variate struct {
	name   string
	params []float64
	draw   func(src random.Source) (float64, error)
}

func newVariate(name string, draw func(src random.Source) (float64, error), params ...float64) Node[float64] {
	return newNode[float64](&variate{name: name, params: params, draw: draw})
}

func (n *variate) compute(c *call) (any, error) {
	return n.draw(c.src)
}

func (n *variate) valueType() reflect.Type {
	return float64Type
}

func (n *variate) String() string {
	return fmt.Sprintf("%s(%s)", n.name, literals(n.params))
}

func positive(kind string, names []string, values ...float64) error {
	for i, v := range values {
		if !(v > 0) {
			return invalidParameter("%s %s %v must be positive", kind, names[i], v)
		}
	}
	return nil
}

func checkNumbers(kind string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) {
			return invalidParameter("%s parameters must be numbers", kind)
		}
	}
	return nil
}

func rejected(kind string) error {
	return fmt.Errorf("%w: %s: no value accepted after %d draws", ErrOutOfRange, kind, maxRejections)
}

// unit draws a float in [0, 1).
func unit(src random.Source) float64 {
	return src.Uniform(0, 1)
}

////////////////////////////////////////////////////////////////////////////////

// Uniform1 provides a node drawing a float in [0, 1).
func Uniform1() Node[float64] {
	return newVariate("uniform1", func(src random.Source) (float64, error) {
		return unit(src), nil
	})
}

// TruncatedNormal provides a node drawing from a gaussian distribution
// restricted to [lo, hi]. Infinite bounds leave a side open.
// Values outside the bounds are rejected and drawn again.
func TruncatedNormal(mean, stddev, lo, hi float64) (Node[float64], error) {
	if err := checkNumbers("truncated_normal", mean, stddev, lo, hi); err != nil {
		return Node[float64]{}, err
	}
	if stddev < 0 {
		return Node[float64]{}, invalidParameter("truncated_normal standard deviation %v must not be negative", stddev)
	}
	if lo > hi {
		return Node[float64]{}, invalidParameter("truncated_normal lower bound %v greater than upper bound %v", lo, hi)
	}
	if stddev == 0 && (mean < lo || mean > hi) {
		return Node[float64]{}, invalidParameter("truncated_normal mean %v outside of [%v, %v]", mean, lo, hi)
	}
	return newVariate("truncated_normal", func(src random.Source) (float64, error) {
		for i := 0; i < maxRejections; i++ {
			v := src.Normal(mean, stddev)
			if v >= lo && v <= hi {
				return v, nil
			}
		}
		return 0, rejected("truncated_normal")
	}, mean, stddev, lo, hi), nil
}

// Triangular provides a node drawing from a triangular distribution
// on [lo, hi] with the given mode.
func Triangular(lo, hi, mode float64) (Node[float64], error) {
	if err := checkNumbers("triangular", lo, hi, mode); err != nil {
		return Node[float64]{}, err
	}
	if lo > hi {
		return Node[float64]{}, invalidParameter("triangular lower bound %v greater than upper bound %v", lo, hi)
	}
	if mode < lo || mode > hi {
		return Node[float64]{}, invalidParameter("triangular mode %v outside of [%v, %v]", mode, lo, hi)
	}
	return newVariate("triangular", func(src random.Source) (float64, error) {
		u := unit(src)
		if hi == lo {
			return lo, nil
		}
		if u < (mode-lo)/(hi-lo) {
			return lo + math.Sqrt(u*(hi-lo)*(mode-lo)), nil
		}
		return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode)), nil
	}, lo, hi, mode), nil
}

// Exponential provides a node drawing from an exponential
// distribution with rate lambda.
func Exponential(lambda float64) (Node[float64], error) {
	if err := positive("exponential", []string{"rate"}, lambda); err != nil {
		return Node[float64]{}, err
	}
	return newVariate("exponential", func(src random.Source) (float64, error) {
		return -math.Log(1-unit(src)) / lambda, nil
	}, lambda), nil
}

// Pareto provides a node drawing from a Pareto distribution
// with shape alpha and minimum 1.
func Pareto(alpha float64) (Node[float64], error) {
	if err := positive("pareto", []string{"shape"}, alpha); err != nil {
		return Node[float64]{}, err
	}
	return newVariate("pareto", func(src random.Source) (float64, error) {
		return math.Pow(1-unit(src), -1/alpha), nil
	}, alpha), nil
}

// Weibull provides a node drawing from a Weibull distribution
// with scale alpha and shape beta.
func Weibull(alpha, beta float64) (Node[float64], error) {
	if err := positive("weibull", []string{"scale", "shape"}, alpha, beta); err != nil {
		return Node[float64]{}, err
	}
	return newVariate("weibull", func(src random.Source) (float64, error) {
		return alpha * math.Pow(-math.Log(1-unit(src)), 1/beta), nil
	}, alpha, beta), nil
}

// Gamma provides a node drawing from a gamma distribution
// with shape alpha and scale beta.
func Gamma(alpha, beta float64) (Node[float64], error) {
	if err := positive("gamma", []string{"shape", "scale"}, alpha, beta); err != nil {
		return Node[float64]{}, err
	}
	return newVariate("gamma", func(src random.Source) (float64, error) {
		v, err := standardGamma(src, alpha)
		return v * beta, err
	}, alpha, beta), nil
}

// Beta provides a node drawing from a beta distribution.
func Beta(alpha, beta float64) (Node[float64], error) {
	if err := positive("beta", []string{"alpha", "beta"}, alpha, beta); err != nil {
		return Node[float64]{}, err
	}
	return newVariate("beta", func(src random.Source) (float64, error) {
		x, err := standardGamma(src, alpha)
		if err != nil {
			return 0, err
		}
		y, err := standardGamma(src, beta)
		if err != nil {
			return 0, err
		}
		if x+y == 0 {
			return 0, nil
		}
		return x / (x + y), nil
	}, alpha, beta), nil
}

// standardGamma draws with the method of Marsaglia and Tsang.
// Shapes below one are boosted by one and scaled down again.
func standardGamma(src random.Source, alpha float64) (float64, error) {
	if alpha < 1 {
		g, err := standardGamma(src, alpha+1)
		if err != nil {
			return 0, err
		}
		return g * math.Pow(unit(src), 1/alpha), nil
	}
	d := alpha - 1.0/3
	c := 1 / math.Sqrt(9*d)
	for i := 0; i < maxRejections; i++ {
		x := src.Normal(0, 1)
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := unit(src)
		if u < 1-0.0331*x*x*x*x || math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v, nil
		}
	}
	return 0, rejected("gamma")
}
