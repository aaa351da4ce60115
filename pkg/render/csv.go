package render

import (
	"encoding/csv"
	"io"

	"github.com/mandelsoft/fakir/pkg/fakir"
)

type csvWriter struct {
	w       *csv.Writer
	columns []string
	header  bool
}

func newCSV(w io.Writer, columns []string) Writer {
	return &csvWriter{w: csv.NewWriter(w), columns: columns}
}

func (c *csvWriter) writeHeader() error {
	if c.header {
		return nil
	}
	c.header = true
	return c.w.Write(c.columns)
}

func (c *csvWriter) Write(row fakir.Tuple) error {
	if err := check(c.columns, row); err != nil {
		return err
	}
	if err := c.writeHeader(); err != nil {
		return err
	}
	cols := make([]string, len(row))
	for i, v := range row {
		cols[i] = cell(v)
	}
	return c.w.Write(cols)
}

// Flush writes the header line, also if there are no rows.
func (c *csvWriter) Flush() error {
	if err := c.writeHeader(); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}
