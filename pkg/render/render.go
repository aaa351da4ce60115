package render

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/mandelsoft/fakir/pkg/fakir"
)

var ErrUnknownFormat = fmt.Errorf("unknown output format")

// Writer writes generated rows. Some formats buffer rows
// until Flush is called.
type Writer interface {
	Write(row fakir.Tuple) error
	Flush() error
}

type factory func(w io.Writer, columns []string) Writer

var formats = map[string]factory{
	"text":  newText,
	"table": newTable,
	"csv":   newCSV,
	"json":  newJSON,
	"yaml":  newYAML,
}

// Formats lists the supported output formats.
func Formats() []string {
	var r []string
	for n := range formats {
		r = append(r, n)
	}
	slices.Sort(r)
	return r
}

// New provides a row writer for the given format and column names.
func New(format string, w io.Writer, columns []string) (Writer, error) {
	f := formats[strings.ToLower(strings.TrimSpace(format))]
	if f == nil {
		return nil, fmt.Errorf("%w %q (use one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
	return f(w, slices.Clone(columns)), nil
}

// Record maps the values of a row to their column names.
func Record(columns []string, row fakir.Tuple) (map[string]any, error) {
	if err := check(columns, row); err != nil {
		return nil, err
	}
	r := map[string]any{}
	for i, c := range columns {
		r[c] = row[i]
	}
	return r, nil
}

func check(columns []string, row fakir.Tuple) error {
	if len(row) != len(columns) {
		return fmt.Errorf("row with %d values for %d columns", len(row), len(columns))
	}
	return nil
}

// cell formats a value for column oriented formats.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}
