package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/drone/envsubst"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSchema = fmt.Errorf("invalid schema")

// Column describes a named column computed by an expression.
// Hidden columns can be used by later columns, but are not
// part of generated rows.
type Column struct {
	Name   string `json:"name" yaml:"name"`
	Expr   string `json:"expr" yaml:"expr"`
	Hidden bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Schema describes the rows to generate.
type Schema struct {
	Seed    *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	Rows    *int     `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns []Column `json:"columns" yaml:"columns"`
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse parses a YAML schema. Environment variable references
// are substituted before parsing.
func Parse(data []byte) (*Schema, error) {
	return ParseWith(data, os.Getenv)
}

// ParseWith parses a YAML schema using the given
// mapping for variable substitution.
// Column names and expressions are always taken literally,
// a column named y or off is not a boolean.
func ParseWith(data []byte, mapping func(string) string) (*Schema, error) {
	s, err := envsubst.Eval(string(data), mapping)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	var schema Schema
	dec := yaml.NewDecoder(bytes.NewBufferString(s))
	dec.KnownFields(true)
	err = dec.Decode(&schema)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return &schema, nil
}

// Load reads a schema file. If no filesystem is given,
// the os filesystem is used.
func Load(fs vfs.FileSystem, path string) (*Schema, error) {
	if fs == nil {
		fs = osfs.OsFs
	}
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks the structure of the schema
// without compiling the expressions.
func (s *Schema) Validate() error {
	if s.Rows != nil && *s.Rows < 0 {
		return fmt.Errorf("%w: row count %d must not be negative", ErrInvalidSchema, *s.Rows)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}
	names := map[string]bool{}
	for i, c := range s.Columns {
		switch {
		case c.Name == "":
			return fmt.Errorf("%w: column %d has no name", ErrInvalidSchema, i+1)
		case !namePattern.MatchString(c.Name) || c.Name == "true" || c.Name == "false":
			return fmt.Errorf("%w: invalid column name %q", ErrInvalidSchema, c.Name)
		case names[c.Name]:
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, c.Name)
		case c.Expr == "":
			return fmt.Errorf("%w: column %q has no expression", ErrInvalidSchema, c.Name)
		}
		names[c.Name] = true
	}
	return nil
}
