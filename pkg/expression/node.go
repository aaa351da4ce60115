package expression

import (
	"fmt"
	"slices"
	"strings"
)

type Kind int

const (
	Literal Kind = iota
	Variable
	Operator
	Call
)

// Node is a node of a parsed expression.
// Literals carry their value, variables their name,
// operators and calls their name and operands as parents.
type Node struct {
	Kind    Kind
	Name    string
	Parents []*Node
	Value   any
}

func (n *Node) String() string {
	switch n.Kind {
	case Literal:
		if s, ok := n.Value.(string); ok {
			return fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf("%v", n.Value)
	case Operator:
		switch {
		case n.Name == "[]":
			return fmt.Sprintf("%s[%s]", n.Parents[0], n.Parents[1])
		case len(n.Parents) == 1:
			return fmt.Sprintf("(%s%s)", n.Name, n.Parents[0])
		}
		s := ""
		sep := ""
		for _, p := range n.Parents {
			s = fmt.Sprintf("%s%s%s", s, sep, p)
			sep = n.Name
		}
		return fmt.Sprintf("(%s)", s)
	case Call:
		args := make([]string, len(n.Parents))
		for i, p := range n.Parents {
			args[i] = p.String()
		}
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
	}
	return n.Name
}

func NewValueNode(v any) *Node {
	return &Node{
		Kind:  Literal,
		Value: v,
	}
}

func NewOperandNode(n string) *Node {
	return &Node{
		Kind: Variable,
		Name: n,
	}
}

func NewOperatorNode(op string, ops ...*Node) *Node {
	return &Node{
		Kind:    Operator,
		Name:    op,
		Parents: ops,
	}
}

func NewCallNode(f string, args ...*Node) *Node {
	return &Node{
		Kind:    Call,
		Name:    f,
		Parents: args,
	}
}

// Operands lists the referenced variables in the order
// of their first occurrence.
func (n *Node) Operands() []string {
	switch n.Kind {
	case Literal:
		return nil
	case Variable:
		return []string{n.Name}
	}
	var result []string
	for _, p := range n.Parents {
		for _, o := range p.Operands() {
			if !slices.Contains(result, o) {
				result = append(result, o)
			}
		}
	}
	return result
}
