package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gowebpki/jcs"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/fakir/pkg/fakir"
)

// jsonWriter writes one canonical JSON object per row.
type jsonWriter struct {
	w       io.Writer
	columns []string
}

func newJSON(w io.Writer, columns []string) Writer {
	return &jsonWriter{w: w, columns: columns}
}

func (j *jsonWriter) Write(row fakir.Tuple) error {
	data, err := Canonical(j.columns, row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(j.w, "%s\n", string(data))
	return err
}

func (j *jsonWriter) Flush() error {
	return nil
}

// Canonical provides the RFC 8785 JSON representation of a row.
func Canonical(columns []string, row fakir.Tuple) ([]byte, error) {
	r, err := Record(columns, row)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(data)
}

////////////////////////////////////////////////////////////////////////////////

// yamlWriter writes a list of all rows on Flush.
type yamlWriter struct {
	w       io.Writer
	columns []string
	rows    []map[string]any
}

func newYAML(w io.Writer, columns []string) Writer {
	return &yamlWriter{w: w, columns: columns}
}

func (y *yamlWriter) Write(row fakir.Tuple) error {
	r, err := Record(y.columns, row)
	if err != nil {
		return err
	}
	y.rows = append(y.rows, r)
	return nil
}

func (y *yamlWriter) Flush() error {
	rows := y.rows
	if rows == nil {
		rows = []map[string]any{}
	}
	data, err := yaml.Marshal(rows)
	if err != nil {
		return err
	}
	y.rows = nil
	_, err = y.w.Write(data)
	return err
}
