package fakir_test

import (
	"math"
	"reflect"

	. "github.com/mandelsoft/fakir/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	me "github.com/mandelsoft/fakir/pkg/fakir"
	"github.com/mandelsoft/fakir/pkg/random"
)

var _ = Describe("leaves", func() {
	Context("validation", func() {
		It("rejects inverted uniform bounds", func() {
			_, err := me.Uniform(10, 5)
			Expect(err).To(MatchError(me.ErrInvalidParameter))
			MustFailWithMessage(err, "invalid parameter: uniform lower bound 10 greater than upper bound 5")
		})

		It("rejects NaN bounds", func() {
			_, err := me.Uniform(math.NaN(), 5)
			Expect(err).To(MatchError(me.ErrInvalidParameter))
		})

		It("accepts empty uniform intervals", func() {
			n := Must(me.Uniform(5, 5))
			Expect(n.Generate(random.New(1))).To(Equal(5.0))
		})

		It("rejects negative deviations", func() {
			_, err := me.Normal(0, -1)
			Expect(err).To(MatchError(me.ErrInvalidParameter))
			_, err = me.LogNormal(0, -1)
			Expect(err).To(MatchError(me.ErrInvalidParameter))
		})

		It("rejects empty choices", func() {
			_, err := me.Choice([]string{})
			Expect(err).To(MatchError(me.ErrInvalidParameter))
		})

		It("validates bootstrap and permutation sizes", func() {
			_, err := me.Bootstrap([]int{1}, -1)
			Expect(err).To(MatchError(me.ErrInvalidParameter))
			_, err = me.Bootstrap([]int{1}, me.MaxCount+1)
			Expect(err).To(MatchError(me.ErrInvalidParameter))
			_, err = me.Bootstrap([]int{}, 1)
			Expect(err).To(MatchError(me.ErrInvalidParameter))
			_, err = me.Permute([]int{1, 2}, 3)
			Expect(err).To(MatchError(me.ErrInvalidParameter))
			_, err = me.Permute([]int{1, 2}, -1)
			Expect(err).To(MatchError(me.ErrInvalidParameter))
			Expect(Must(me.Bootstrap([]int{}, 0)).Generate(random.New(1))).To(BeEmpty())
		})

		It("panics in Must", func() {
			Expect(func() { me.Must(me.Uniform(1, 0)) }).To(Panic())
		})
	})

	Context("draws", func() {
		It("draws uniform values", func() {
			n := Must(me.Uniform(10, 20))
			Expect(n.Generate(Script(0.5))).To(Equal(15.0))
		})

		It("draws normal values", func() {
			n := Must(me.Normal(40, 10))
			Expect(n.Generate(Script(0.5))).To(Equal(45.0))
		})

		It("draws log-normal values", func() {
			n := Must(me.LogNormal(0, 1))
			Expect(n.Generate(Script(0.5))).To(BeNumerically("~", math.Exp(0.5), 1e-12))
		})

		It("draws choices", func() {
			n := Must(me.Choice([]string{"Wolf", "Eagle", "Cheetah"}))
			Expect(n.Generate(Script(0.0))).To(Equal("Wolf"))
			Expect(n.Generate(Script(0.5))).To(Equal("Eagle"))
			Expect(n.Generate(Script(0.9))).To(Equal("Cheetah"))
		})

		It("copies choice options", func() {
			opts := []string{"a"}
			n := Must(me.Choice(opts))
			opts[0] = "b"
			Expect(n.Generate(random.New(1))).To(Equal("a"))
		})

		It("bootstraps with replacement", func() {
			n := Must(me.Bootstrap([]string{"a", "b"}, 4))
			src := random.NewCounter(Script(0.0, 0.0, 0.9, 0.0))
			Expect(n.Generate(src)).To(Equal([]string{"a", "a", "b", "a"}))
			Expect(src.Draws()).To(Equal(4))
		})

		It("permutes without replacement", func() {
			n := Must(me.Permute([]int{1, 2, 3, 4}, 3))
			for i := 0; i < 20; i++ {
				v := Must(n.Generate(random.New(int64(i))))
				Expect(v).To(HaveLen(3))
				Expect([]int{1, 2, 3, 4}).To(ContainElements(v))
				Expect(v[0]).NotTo(Equal(v[1]))
				Expect(v[1]).NotTo(Equal(v[2]))
				Expect(v[0]).NotTo(Equal(v[2]))
			}
		})

		It("shuffles all options", func() {
			n := me.Shuffle([]string{"a", "b", "c"})
			v := Must(n.Generate(Script(0.9, 0.0)))
			Expect(v).To(Equal([]string{"c", "b", "a"}))
		})

		It("calls user functions", func() {
			n := me.RngFn(func(src random.Source) (int, error) { return src.Index(10) * 2, nil })
			Expect(n.Generate(Script(0.5))).To(Equal(10))
		})
	})

	Context("types", func() {
		It("knows static value types", func() {
			Expect(me.TypeOf(Must(me.Uniform(0, 1)))).To(Equal(reflect.TypeOf(0.0)))
			Expect(me.TypeOf(me.Fixed[any]("a"))).To(Equal(reflect.TypeOf("")))
			Expect(me.TypeOf(me.Fixed[any](nil))).To(BeNil())
			Expect(me.TypeOf(Must(me.Choice([]any{"a", "b"})))).To(Equal(reflect.TypeOf("")))
			Expect(me.TypeOf(Must(me.Choice([]any{"a", 1})))).To(BeNil())
			Expect(me.TypeOf(me.RngFn(func(random.Source) (any, error) { return nil, nil }))).To(BeNil())
		})

		It("describes leaves", func() {
			Expect(Must(me.Normal(40, 10)).String()).To(Equal("normal(40, 10)"))
			Expect(Must(me.LogNormal(1, 0.5)).String()).To(Equal("lognormal(1, 0.5)"))
			Expect(Must(me.Choice([]string{"Oil", "Gas"})).String()).To(Equal(`choice("Oil", "Gas")`))
			Expect(me.Fixed(1.5).String()).To(Equal("1.5"))
			Expect(me.Fixed("x").String()).To(Equal(`"x"`))
		})
	})
})
