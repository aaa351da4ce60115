package fakir_test

import (
	"math"

	. "github.com/mandelsoft/fakir/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	me "github.com/mandelsoft/fakir/pkg/fakir"
	"github.com/mandelsoft/fakir/pkg/random"
)

func mean(n me.Node[float64], count int) float64 {
	src := random.New(4711)
	sum := 0.0
	for i := 0; i < count; i++ {
		v := Must(n.Generate(src))
		ExpectWithOffset(1, v).To(BeNumerically(">=", 0))
		sum += v
	}
	return sum / float64(count)
}

var _ = Describe("distributions", func() {
	DescribeTable("invalid parameters",
		func(create func() (me.Node[float64], error)) {
			_, err := create()
			Expect(err).To(MatchError(me.ErrInvalidParameter))
		},
		Entry("truncated normal NaN", func() (me.Node[float64], error) { return me.TruncatedNormal(math.NaN(), 1, 0, 1) }),
		Entry("truncated normal deviation", func() (me.Node[float64], error) { return me.TruncatedNormal(0, -1, 0, 1) }),
		Entry("truncated normal bounds", func() (me.Node[float64], error) { return me.TruncatedNormal(0, 1, 2, 1) }),
		Entry("truncated normal unreachable", func() (me.Node[float64], error) { return me.TruncatedNormal(0, 0, 1, 2) }),
		Entry("triangular bounds", func() (me.Node[float64], error) { return me.Triangular(10, 0, 5) }),
		Entry("triangular mode", func() (me.Node[float64], error) { return me.Triangular(0, 10, 11) }),
		Entry("triangular NaN", func() (me.Node[float64], error) { return me.Triangular(0, 10, math.NaN()) }),
		Entry("exponential zero", func() (me.Node[float64], error) { return me.Exponential(0) }),
		Entry("exponential negative", func() (me.Node[float64], error) { return me.Exponential(-1) }),
		Entry("exponential NaN", func() (me.Node[float64], error) { return me.Exponential(math.NaN()) }),
		Entry("pareto", func() (me.Node[float64], error) { return me.Pareto(0) }),
		Entry("weibull scale", func() (me.Node[float64], error) { return me.Weibull(0, 1) }),
		Entry("weibull shape", func() (me.Node[float64], error) { return me.Weibull(1, -1) }),
		Entry("gamma shape", func() (me.Node[float64], error) { return me.Gamma(0, 1) }),
		Entry("gamma scale", func() (me.Node[float64], error) { return me.Gamma(1, 0) }),
		Entry("beta alpha", func() (me.Node[float64], error) { return me.Beta(-1, 1) }),
		Entry("beta NaN", func() (me.Node[float64], error) { return me.Beta(1, math.NaN()) }),
	)

	It("names the parameter", func() {
		_, err := me.Weibull(1, -1)
		MustFailWithMessage(err, "invalid parameter: weibull shape -1 must be positive")
	})

	Context("inverse transforms", func() {
		It("draws unit values", func() {
			Expect(me.Uniform1().Generate(Script(0.25))).To(Equal(0.25))
		})

		It("draws triangular values", func() {
			n := Must(me.Triangular(0, 10, 5))
			Expect(n.Generate(Script(0.5))).To(Equal(5.0))
			Expect(n.Generate(Script(0.125))).To(BeNumerically("~", 2.5, 1e-12))
			Expect(Must(me.Triangular(3, 3, 3)).Generate(Script(0.5))).To(Equal(3.0))
		})

		It("draws exponential values", func() {
			Expect(Must(me.Exponential(2)).Generate(Script(0.5))).To(BeNumerically("~", math.Ln2/2, 1e-12))
		})

		It("draws pareto values", func() {
			Expect(Must(me.Pareto(1)).Generate(Script(0.5))).To(BeNumerically("~", 2.0, 1e-12))
			Expect(Must(me.Pareto(3)).Generate(Script(0.0))).To(Equal(1.0))
		})

		It("draws weibull values", func() {
			Expect(Must(me.Weibull(2, 1)).Generate(Script(0.5))).To(BeNumerically("~", 2*math.Ln2, 1e-12))
		})
	})

	Context("truncated normal", func() {
		It("rejects values out of bounds", func() {
			n := Must(me.TruncatedNormal(0, 1, 0.5, math.Inf(1)))
			src := random.NewCounter(Script(0.1, 0.7))
			Expect(n.Generate(src)).To(Equal(0.7))
			Expect(src.Draws()).To(Equal(2))
		})

		It("stays within bounds", func() {
			n := Must(me.TruncatedNormal(0, 1, -0.5, 0.5))
			src := random.New(1)
			for i := 0; i < 1000; i++ {
				Expect(n.Generate(src)).To(And(BeNumerically(">=", -0.5), BeNumerically("<=", 0.5)))
			}
		})

		It("gives up eventually", func() {
			n := Must(me.TruncatedNormal(0, 1, 0.5, 1))
			_, err := n.Generate(Script(0.1))
			Expect(err).To(MatchError(me.ErrOutOfRange))
		})
	})

	Context("gamma based", func() {
		It("draws gamma values", func() {
			Expect(mean(Must(me.Gamma(2, 3)), 20000)).To(BeNumerically("~", 6.0, 0.2))
			Expect(mean(Must(me.Gamma(0.5, 2)), 20000)).To(BeNumerically("~", 1.0, 0.1))
		})

		It("draws beta values", func() {
			n := Must(me.Beta(2, 5))
			src := random.New(1)
			for i := 0; i < 1000; i++ {
				Expect(n.Generate(src)).To(And(BeNumerically(">=", 0.0), BeNumerically("<=", 1.0)))
			}
			Expect(mean(n, 20000)).To(BeNumerically("~", 2.0/7, 0.01))
		})

		It("draws exponential means", func() {
			Expect(mean(Must(me.Exponential(2)), 20000)).To(BeNumerically("~", 0.5, 0.02))
		})
	})

	It("describes distributions", func() {
		Expect(me.Uniform1().String()).To(Equal("uniform1()"))
		Expect(Must(me.Triangular(0, 10, 5)).String()).To(Equal("triangular(0, 10, 5)"))
		Expect(Must(me.TruncatedNormal(0, 1, math.Inf(-1), 2)).String()).To(Equal("truncated_normal(0, 1, -Inf, 2)"))
		Expect(Must(me.Gamma(2, 0.5)).String()).To(Equal("gamma(2, 0.5)"))
	})
})
