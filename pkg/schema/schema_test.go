package schema_test

import (
	"strings"

	"github.com/go-test/deep"
	. "github.com/mandelsoft/fakir/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/fakir/pkg/expression"
	"github.com/mandelsoft/fakir/pkg/fakir"
	"github.com/mandelsoft/fakir/pkg/random"
	me "github.com/mandelsoft/fakir/pkg/schema"
)

const reservoir = `
seed: 12345
rows: 100
columns:
- name: animal
  expr: choice('Wolf', 'Eagle', 'Cheetah')
  hidden: true
- name: geo
  expr: choice('Outcrop', 'Karst', 'Tundra')
  hidden: true
- name: formation
  expr: animal + ' ' + geo
- name: area
  expr: normal(40, 10)
- name: height
  expr: uniform(10, 100)
- name: volume
  expr: area * height
- name: phase
  expr: choice('Oil', 'Gas')
- name: price
  expr: ifelse(phase == 'Oil', uniform(30, 60), uniform(1.5, 4.5))
- name: area_iid
  expr: area.iid()
- name: price_iid
  expr: price.iid()
`

func parse(data string) (*me.Schema, error) {
	return me.ParseWith([]byte(data), func(string) string { return "" })
}

var _ = Describe("schema", func() {
	Context("parsing", func() {
		It("parses schemas", func() {
			s := Must(parse(reservoir))
			Expect(*s.Seed).To(Equal(int64(12345)))
			Expect(*s.Rows).To(Equal(100))
			Expect(s.Columns).To(HaveLen(10))
			Expect(s.Columns[0]).To(Equal(me.Column{Name: "animal", Expr: "choice('Wolf', 'Eagle', 'Cheetah')", Hidden: true}))
		})

		It("substitutes variables", func() {
			s := Must(me.ParseWith([]byte("rows: ${ROWS}\ncolumns:\n- name: a\n  expr: uniform(0, ${MAX:=10})\n"), func(n string) string {
				return map[string]string{"ROWS": "5"}[n]
			}))
			Expect(*s.Rows).To(Equal(5))
			Expect(s.Columns[0].Expr).To(Equal("uniform(0, 10)"))
			Expect(s.Seed).To(BeNil())
		})

		It("keeps plain scalars as names and expressions", func() {
			s := Must(parse("columns:\n- name: y\n  expr: uniform(0, 1)\n- name: n\n  expr: y * 2\n- name: on\n  expr: n\n- name: off\n  expr: 1\n  hidden: yes\n"))
			Expect(s.Columns).To(Equal([]me.Column{
				{Name: "y", Expr: "uniform(0, 1)"},
				{Name: "n", Expr: "y * 2"},
				{Name: "on", Expr: "n"},
				{Name: "off", Expr: "1", Hidden: true},
			}))

			m := Must(s.Compile())
			Expect(m.Dependencies("on")).To(Equal([]string{"n"}))
			Expect(m.Generate(Script(0.25))).To(Equal(fakir.Tuple{0.25, 0.5, 0.5}))
		})

		It("accepts empty documents", func() {
			s := Must(parse(""))
			Expect(s.Columns).To(BeEmpty())
			Expect(s.Validate()).To(MatchError(me.ErrInvalidSchema))
		})

		It("rejects unknown fields", func() {
			_, err := parse("columns:\n- name: a\n  expression: uniform(0, 1)\n")
			Expect(err).To(MatchError(me.ErrInvalidSchema))
		})

		It("loads schema files", func() {
			fs := Must(TestFileSystem(map[string]string{"/schemas/reservoir.yaml": reservoir}))
			s := Must(me.Load(fs, "/schemas/reservoir.yaml"))
			Expect(s.Columns).To(HaveLen(10))

			_, err := me.Load(fs, "/schemas/missing.yaml")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("validation", func() {
		DescribeTable("invalid schemas",
			func(data string, msg string) {
				s := Must(parse(data))
				_, err := s.Compile()
				Expect(err).To(MatchError(me.ErrInvalidSchema))
				Expect(err.Error()).To(ContainSubstring(msg))
			},
			Entry("no columns", "rows: 1\n", "no columns"),
			Entry("negative rows", "rows: -1\ncolumns:\n- name: a\n  expr: '1'\n", "must not be negative"),
			Entry("missing name", "columns:\n- expr: '1'\n", "column 1 has no name"),
			Entry("invalid name", "columns:\n- name: a-b\n  expr: '1'\n", `invalid column name "a-b"`),
			Entry("reserved name", "columns:\n- name: 'true'\n  expr: '1'\n", `invalid column name "true"`),
			Entry("duplicate name", "columns:\n- name: a\n  expr: '1'\n- name: a\n  expr: '2'\n", `duplicate column "a"`),
			Entry("missing expression", "columns:\n- name: a\n", `column "a" has no expression`),
			Entry("forward reference", "columns:\n- name: a\n  expr: b + 1\n- name: b\n  expr: '1'\n", `column "a" refers to column "b" declared later`),
			Entry("self reference", "columns:\n- name: a\n  expr: a + 1\n", `column "a" refers to column "a" declared later`),
			Entry("unknown reference", "columns:\n- name: a\n  expr: c + 1\n", `column "a" refers to unknown column "c"`),
			Entry("syntax error", "columns:\n- name: a\n  expr: 1 +\n", `column "a": syntax error`),
			Entry("invalid parameter", "columns:\n- name: a\n  expr: uniform(2, 1)\n", `column "a": uniform(2, 1): invalid parameter`),
		)

		It("keeps the cause of compilation errors", func() {
			s := Must(parse("columns:\n- name: a\n  expr: \"'a' + 1\"\n"))
			_, err := s.Compile()
			Expect(err).To(MatchError(me.ErrInvalidSchema))
			Expect(err).To(MatchError(fakir.ErrTypeMismatch))

			s = Must(parse("columns:\n- name: a\n  expr: 1 +\n"))
			_, err = s.Compile()
			Expect(err).To(MatchError(expression.ErrSyntax))
		})
	})

	Context("model", func() {
		var m *me.Model

		BeforeEach(func() {
			m = Must(Must(parse(reservoir)).Compile())
		})

		It("lists visible columns", func() {
			Expect(m.Columns()).To(Equal([]string{"formation", "area", "height", "volume", "phase", "price", "area_iid", "price_iid"}))
			Expect(m.AllColumns()).To(HaveLen(10))
			Expect(m.IsHidden("animal")).To(BeTrue())
			Expect(m.IsHidden("area")).To(BeFalse())
		})

		It("provides dependencies", func() {
			Expect(m.Dependencies("formation")).To(Equal([]string{"animal", "geo"}))
			Expect(m.Dependencies("price")).To(Equal([]string{"phase"}))
			Expect(m.Dependencies("area")).To(BeNil())
			Expect(m.Dependencies("unknown")).To(BeNil())
		})

		It("provides compiled nodes", func() {
			n, ok := m.Node("volume")
			Expect(ok).To(BeTrue())
			Expect(n.String()).To(Equal("(normal(40, 10) * uniform(10, 100))"))
			_, ok = m.Node("unknown")
			Expect(ok).To(BeFalse())
		})

		It("provides defaults", func() {
			Expect(*m.Seed()).To(Equal(int64(12345)))
			Expect(*m.Rows()).To(Equal(100))
		})

		It("generates correlated rows", func() {
			src := random.New(12345)
			for i := 0; i < 100; i++ {
				row := Must(m.Generate(src))
				Expect(row).To(HaveLen(8))

				parts := strings.Split(row[0].(string), " ")
				Expect(parts).To(HaveLen(2))
				Expect([]string{"Wolf", "Eagle", "Cheetah"}).To(ContainElement(parts[0]))
				Expect([]string{"Outcrop", "Karst", "Tundra"}).To(ContainElement(parts[1]))

				Expect(row[3]).To(Equal(row[1].(float64) * row[2].(float64)))
				Expect(row[2]).To(And(BeNumerically(">=", 10.0), BeNumerically("<", 100.0)))
				if row[4] == "Oil" {
					Expect(row[5]).To(And(BeNumerically(">=", 30.0), BeNumerically("<", 60.0)))
				} else {
					Expect(row[5]).To(And(BeNumerically(">=", 1.5), BeNumerically("<", 4.5)))
				}
				Expect(row[7]).To(BeNumerically(">=", 1.5))
			}
		})

		It("draws hidden columns in declaration order", func() {
			src := random.NewCounter(random.New(1))
			Must(m.Generate(src))
			// animal, geo, area, height, phase, one price branch,
			// iid area, iid price: phase and one branch
			Expect(src.Draws()).To(Equal(9))
		})

		It("reproduces rows", func() {
			gen := func() []fakir.Tuple {
				src := random.New(12345)
				var rows []fakir.Tuple
				for i := 0; i < 20; i++ {
					rows = append(rows, Must(m.Generate(src)))
				}
				return rows
			}
			Expect(deep.Equal(gen(), gen())).To(BeNil())
		})
	})
})
