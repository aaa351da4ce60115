package schema

import (
	"fmt"
	"slices"

	"github.com/mandelsoft/fakir/pkg/expression"
	"github.com/mandelsoft/fakir/pkg/fakir"
	"github.com/mandelsoft/fakir/pkg/random"
)

type column struct {
	name   string
	hidden bool
	deps   []string
	node   fakir.Node[any]
}

// Model is a compiled schema. The row node includes the
// hidden columns, so every column is drawn in declaration order.
type Model struct {
	seed    *int64
	rows    *int
	columns []*column
	index   map[string]*column
	visible []int
	row     fakir.Node[fakir.Tuple]
}

// Compile compiles the column expressions in declaration order.
// An expression can only refer to columns declared before, so
// all references to a column share its value within a row.
func (s *Schema) Compile() (*Model, error) {
	err := s.Validate()
	if err != nil {
		return nil, err
	}

	m := &Model{
		seed:  s.Seed,
		rows:  s.Rows,
		index: map[string]*column{},
	}
	scope := expression.Variables{}
	var nodes []fakir.Expr
	for i, c := range s.Columns {
		ast, err := expression.Parse(c.Expr)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %w", ErrInvalidSchema, c.Name, err)
		}
		deps := ast.Operands()
		for _, d := range deps {
			if _, ok := scope[d]; ok {
				continue
			}
			if slices.ContainsFunc(s.Columns[i:], func(o Column) bool { return o.Name == d }) {
				return nil, fmt.Errorf("%w: column %q refers to column %q declared later", ErrInvalidSchema, c.Name, d)
			}
			return nil, fmt.Errorf("%w: column %q refers to unknown column %q", ErrInvalidSchema, c.Name, d)
		}
		n, err := expression.Compile(ast, scope)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %w", ErrInvalidSchema, c.Name, err)
		}
		log.Debug("compiled column {{column}}: {{expr}}", "column", c.Name, "expr", n.String())

		col := &column{
			name:   c.Name,
			hidden: c.Hidden,
			deps:   deps,
			node:   n,
		}
		scope[c.Name] = n
		m.index[c.Name] = col
		m.columns = append(m.columns, col)
		if !c.Hidden {
			m.visible = append(m.visible, i)
		}
		nodes = append(nodes, n)
	}
	m.row = fakir.Tupled(nodes...)
	return m, nil
}

// Seed returns the default seed of the schema or nil.
func (m *Model) Seed() *int64 {
	return m.seed
}

// Rows returns the default row count of the schema or nil.
func (m *Model) Rows() *int {
	return m.rows
}

// Columns returns the names of the visible columns.
func (m *Model) Columns() []string {
	r := make([]string, len(m.visible))
	for i, c := range m.visible {
		r[i] = m.columns[c].name
	}
	return r
}

// AllColumns returns the names of all columns, including hidden ones.
func (m *Model) AllColumns() []string {
	r := make([]string, len(m.columns))
	for i, c := range m.columns {
		r[i] = c.name
	}
	return r
}

// Dependencies returns the columns directly referenced by a column.
func (m *Model) Dependencies(name string) []string {
	c := m.index[name]
	if c == nil {
		return nil
	}
	return slices.Clone(c.deps)
}

// IsHidden reports whether a column is excluded from generated rows.
func (m *Model) IsHidden(name string) bool {
	c := m.index[name]
	return c != nil && c.hidden
}

// Node provides the compiled node of a column.
func (m *Model) Node(name string) (fakir.Node[any], bool) {
	c := m.index[name]
	if c == nil {
		return fakir.Node[any]{}, false
	}
	return c.node, true
}

// Generate draws a row and returns the values of the
// visible columns.
func (m *Model) Generate(src random.Source) (fakir.Tuple, error) {
	row, err := m.row.Generate(src)
	if err != nil {
		return nil, err
	}
	r := make(fakir.Tuple, len(m.visible))
	for i, c := range m.visible {
		r[i] = row[c]
	}
	return r, nil
}
