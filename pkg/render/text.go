package render

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mandelsoft/fakir/pkg/fakir"
)

type text struct {
	w       io.Writer
	columns []string
}

func newText(w io.Writer, columns []string) Writer {
	return &text{w: w, columns: columns}
}

func (t *text) Write(row fakir.Tuple) error {
	if err := check(t.columns, row); err != nil {
		return err
	}
	_, err := fmt.Fprintf(t.w, "%s\n", Tuple(row))
	return err
}

func (t *text) Flush() error {
	return nil
}

// Tuple renders a row as tuple, e.g. ('Wolf Karst', 40.1).
func Tuple(row fakir.Tuple) string {
	s := make([]string, len(row))
	for i, v := range row {
		s[i] = literal(v)
	}
	if len(s) == 1 {
		return "(" + s[0] + ",)"
	}
	return "(" + strings.Join(s, ", ") + ")"
}

func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`).Replace(x) + "'"
	case float64:
		return float(x)
	case float32:
		return float(float64(x))
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		s := make([]string, rv.Len())
		for i := range s {
			s[i] = literal(rv.Index(i).Interface())
		}
		return "[" + strings.Join(s, ", ") + "]"
	}
	return fmt.Sprint(v)
}

func float(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

////////////////////////////////////////////////////////////////////////////////

// table buffers all rows to align the columns.
type table struct {
	w       io.Writer
	columns []string
	rows    [][]string
}

func newTable(w io.Writer, columns []string) Writer {
	return &table{w: w, columns: columns}
}

func (t *table) Write(row fakir.Tuple) error {
	if err := check(t.columns, row); err != nil {
		return err
	}
	cols := make([]string, len(row))
	for i, v := range row {
		cols[i] = cell(v)
	}
	t.rows = append(t.rows, cols)
	return nil
}

func (t *table) Flush() error {
	header := make([]string, len(t.columns))
	max := make([]int, len(t.columns))
	for i, s := range t.columns {
		header[i] = strings.ToUpper(s)
		max[i] = len(s)
	}
	for _, cols := range t.rows {
		for i, s := range cols {
			if max[i] < len(s) {
				max[i] = len(s)
			}
		}
	}

	f := formatString(max)
	err := printLine(t.w, header, f)
	for _, cols := range t.rows {
		if err != nil {
			break
		}
		err = printLine(t.w, cols, f)
	}
	t.rows = nil
	return err
}

func printLine(w io.Writer, cols []string, msg string) error {
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = c
	}
	_, err := fmt.Fprintf(w, "%s\n", strings.TrimRight(fmt.Sprintf(msg, args...), " "))
	return err
}

func formatString(max []int) string {
	msg := ""
	for _, l := range max {
		msg += fmt.Sprintf("%%-%ds ", l)
	}
	if msg == "" {
		return ""
	}
	return msg[:len(msg)-1]
}
