package app_test

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	. "github.com/mandelsoft/fakir/pkg/testutils"
	"github.com/mandelsoft/vfs/pkg/vfs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/fakir/cmds/fakir/app"
	"github.com/mandelsoft/fakir/pkg/random"
	"github.com/mandelsoft/fakir/pkg/render"
	"github.com/mandelsoft/fakir/pkg/schema"
	"github.com/mandelsoft/fakir/pkg/utils"
)

const small = `
seed: 1
rows: 3
columns:
- name: x
  expr: uniform(0, 100)
- name: y
  expr: x * 2
- name: label
  expr: "'A'"
`

const broken = `
columns:
- name: x
  expr: y + 1
`

func setenv(key, value string) {
	old, ok := os.LookupEnv(key)
	MustBeSuccessful(os.Setenv(key, value))
	DeferCleanup(func() {
		if ok {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

var _ = Describe("fakir command", func() {
	var fs vfs.FileSystem
	var buf *bytes.Buffer

	run := func(args ...string) (string, error) {
		buf.Reset()
		cmd := app.New(fs)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return buf.String(), err
	}

	BeforeEach(func() {
		fs = Must(TestFileSystem(map[string]string{
			"/schemas/small.yaml":      small,
			"/schemas/broken.yaml":     broken,
			"/home/test/.config/.keep": "",
		}))
		buf = &bytes.Buffer{}
		for _, k := range []string{"FAKIR_SEED", "FAKIR_ROWS", "FAKIR_FORMAT"} {
			setenv(k, "")
		}
		setenv("HOME", "/home/test")
		setenv("XDG_CONFIG_HOME", "/home/test/.config")
	})

	Context("generate", func() {
		It("generates correlated csv rows", func() {
			out := Must(run("generate", "-f", "/schemas/small.yaml", "-o", "csv"))
			l := lines(out)
			Expect(l).To(HaveLen(4))
			Expect(l[0]).To(Equal("x,y,label"))
			for _, line := range l[1:] {
				f := strings.Split(line, ",")
				Expect(f).To(HaveLen(3))
				x := Must(strconv.ParseFloat(f[0], 64))
				Expect(strconv.ParseFloat(f[1], 64)).To(Equal(2 * x))
				Expect(f[2]).To(Equal("A"))
			}
		})

		It("renders tuples by default", func() {
			out := Must(run("generate", "-f", "/schemas/small.yaml"))
			for _, line := range lines(out) {
				Expect(line).To(MatchRegexp(`^\(\d+(\.\d+)?(e[-+]\d+)?, \d+(\.\d+)?(e[-+]\d+)?, 'A'\)$`))
			}
		})

		It("reproduces rows", func() {
			a := Must(run("generate", "-f", "/schemas/small.yaml"))
			b := Must(run("generate", "-f", "/schemas/small.yaml", "--seed", "1"))
			c := Must(run("generate", "-f", "/schemas/small.yaml", "--seed", "2"))
			Expect(a).To(Equal(b))
			Expect(a).NotTo(Equal(c))
		})

		It("prints the digest of all rows", func() {
			out := Must(run("generate", "-f", "/schemas/small.yaml", "--digest"))

			m := Must(Must(schema.Load(fs, "/schemas/small.yaml")).Compile())
			src := random.New(1)
			var records []map[string]any
			for i := 0; i < 3; i++ {
				records = append(records, Must(render.Record(m.Columns(), Must(m.Generate(src)))))
			}
			Expect(out).To(Equal(Must(utils.HashData(records)) + "\n"))
			Expect(out).To(HaveLen(65))
		})

		Context("settings", func() {
			It("uses the schema defaults", func() {
				Expect(lines(Must(run("generate", "-f", "/schemas/small.yaml")))).To(HaveLen(3))
			})

			It("prefers the config file", func() {
				MustBeSuccessful(vfs.WriteFile(fs, "/home/test/.fakir", []byte("rows: 2\nformat: json\n"), 0o600))
				l := lines(Must(run("generate", "-f", "/schemas/small.yaml")))
				Expect(l).To(HaveLen(2))
				Expect(l[0]).To(HavePrefix(`{"label":"A","x":`))
			})

			It("prefers the environment", func() {
				MustBeSuccessful(vfs.WriteFile(fs, "/home/test/.fakir", []byte("rows: 2\n"), 0o600))
				setenv("FAKIR_ROWS", "5")
				setenv("FAKIR_FORMAT", "csv")
				Expect(lines(Must(run("generate", "-f", "/schemas/small.yaml")))).To(HaveLen(6))
			})

			It("prefers flags", func() {
				setenv("FAKIR_ROWS", "5")
				Expect(lines(Must(run("generate", "-f", "/schemas/small.yaml", "-n", "1")))).To(HaveLen(1))
				Expect(Must(run("generate", "-f", "/schemas/small.yaml", "-n", "0"))).To(Equal(""))
			})

			It("uses the seed of the environment", func() {
				a := Must(run("generate", "-f", "/schemas/small.yaml", "-s", "7"))
				setenv("FAKIR_SEED", "7")
				Expect(run("generate", "-f", "/schemas/small.yaml")).To(Equal(a))
			})
		})

		Context("errors", func() {
			It("requires a schema file", func() {
				_, err := run("generate")
				MustFailWithMessage(err, "schema file required (option -f)")
			})

			It("reports invalid schemas", func() {
				_, err := run("generate", "-f", "/schemas/broken.yaml")
				Expect(err).To(MatchError(schema.ErrInvalidSchema))
			})

			It("reports unknown formats", func() {
				_, err := run("generate", "-f", "/schemas/small.yaml", "-o", "xml")
				Expect(err).To(MatchError(render.ErrUnknownFormat))
			})

			It("rejects negative row counts", func() {
				_, err := run("generate", "-f", "/schemas/small.yaml", "-n", "-1")
				Expect(err).To(HaveOccurred())
			})

			It("rejects invalid environment settings", func() {
				setenv("FAKIR_SEED", "none")
				_, err := run("generate", "-f", "/schemas/small.yaml")
				Expect(err).To(HaveOccurred())
			})

			It("rejects invalid log levels", func() {
				_, err := run("--log-level", "chatty", "generate", "-f", "/schemas/small.yaml")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Context("check", func() {
		It("lists columns", func() {
			l := lines(Must(run("check", "-f", "/schemas/small.yaml")))
			Expect(l).To(HaveLen(4))
			Expect(l[0]).To(MatchRegexp(`^COLUMN\s+HIDDEN\s+DEPENDENCIES\s+EXPRESSION$`))
			Expect(l[1]).To(MatchRegexp(`^x\s+uniform\(0, 100\)$`))
			Expect(l[2]).To(MatchRegexp(`^y\s+x\s+\(uniform\(0, 100\) \* 2\)$`))
			Expect(l[3]).To(MatchRegexp(`^label\s+"A"$`))
		})

		It("reports invalid schemas", func() {
			_, err := run("check", "-f", "/schemas/broken.yaml")
			Expect(err).To(MatchError(schema.ErrInvalidSchema))
			Expect(err.Error()).To(ContainSubstring(`column "x" refers to unknown column "y"`))
		})
	})
})
