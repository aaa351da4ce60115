package expression

import (
	"unicode"

	"github.com/mandelsoft/fakir/pkg/scanner"
)

var ErrSyntax = scanner.ErrSyntax

type parser struct {
	scanner.Scanner
}

// Parse parses a textual expression into its syntax tree.
func Parse(in string) (*Node, error) {
	p := &parser{scanner.NewScanner(in)}

	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.SkipBlanks() != 0 {
		return nil, p.Errorf("unexpected character %q", string(p.Current()))
	}
	return n, nil
}

func (p *parser) parseOr() (*Node, error) {
	n, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.SkipBlanks()
		if !p.Accept("||") {
			return n, nil
		}
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		n = NewOperatorNode("||", n, r)
	}
}

func (p *parser) parseAnd() (*Node, error) {
	n, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	for {
		p.SkipBlanks()
		if !p.Accept("&&") {
			return n, nil
		}
		r, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		n = NewOperatorNode("&&", n, r)
	}
}

func (p *parser) parseCompare() (*Node, error) {
	n, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	var op string
	switch p.SkipBlanks() {
	case '=':
		if !p.Accept("==") {
			return nil, p.Errorf("'==' expected")
		}
		op = "=="
	case '!':
		if !p.Accept("!=") {
			return nil, p.Errorf("'!=' expected")
		}
		op = "!="
	case '<', '>':
		for _, o := range []string{"<=", ">=", "<", ">"} {
			if p.Accept(o) {
				op = o
				break
			}
		}
	default:
		return n, nil
	}

	r, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return NewOperatorNode(op, n, r), nil
}

func (p *parser) parseSum() (*Node, error) {
	n, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		c := p.SkipBlanks()
		if c != '+' && c != '-' {
			return n, nil
		}
		p.Next()
		r, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		n = NewOperatorNode(string(c), n, r)
	}
}

func (p *parser) parseProduct() (*Node, error) {
	n, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.SkipBlanks() {
		case '/':
			op = "/"
			if p.Accept("//") {
				op = "//"
			} else {
				p.Next()
			}
		case '*', '%':
			op = string(p.Current())
			p.Next()
		default:
			return n, nil
		}
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n = NewOperatorNode(op, n, r)
	}
}

func (p *parser) parseUnary() (*Node, error) {
	c := p.SkipBlanks()
	if c == '-' || c == '!' {
		p.Next()
		n, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewOperatorNode(string(c), n), nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (*Node, error) {
	n, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	p.SkipBlanks()
	if !p.Accept("**") {
		return n, nil
	}
	r, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return NewOperatorNode("**", n, r), nil
}

func (p *parser) parsePostfix() (*Node, error) {
	n, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for {
		switch p.SkipBlanks() {
		case '[':
			p.Next()
			i, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			p.SkipBlanks()
			if err := p.ConsumeRune(']'); err != nil {
				return nil, err
			}
			n = NewOperatorNode("[]", n, i)
		case '.':
			p.Next()
			m := p.Identifier()
			if m != "iid" {
				return nil, p.Errorf("unknown method %q", m)
			}
			p.SkipBlanks()
			if err := p.ConsumeRune('('); err != nil {
				return nil, err
			}
			p.SkipBlanks()
			if err := p.ConsumeRune(')'); err != nil {
				return nil, err
			}
			n = NewCallNode("iid", n)
		default:
			return n, nil
		}
	}
}

func (p *parser) parseOperand() (*Node, error) {
	c := p.SkipBlanks()
	switch {
	case c == '(':
		p.Next()
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.SkipBlanks()
		if err := p.ConsumeRune(')'); err != nil {
			return nil, err
		}
		return n, nil
	case c == '"' || c == '\'':
		v, err := p.Quoted()
		if err != nil {
			return nil, err
		}
		return NewValueNode(v), nil
	case unicode.IsDigit(c) || c == '.':
		v, err := p.Number()
		if err != nil {
			return nil, err
		}
		return NewValueNode(v), nil
	case unicode.IsLetter(c) || c == '_':
		name := p.Identifier()
		switch name {
		case "true":
			return NewValueNode(true), nil
		case "false":
			return NewValueNode(false), nil
		}
		if p.SkipBlanks() == '(' {
			return p.parseCall(name)
		}
		return NewOperandNode(name), nil
	case c == 0:
		return nil, p.Errorf("unexpected end of expression")
	}
	return nil, p.Errorf("unexpected character %q", string(c))
}

func (p *parser) parseCall(name string) (*Node, error) {
	p.Next()
	var args []*Node
	if p.SkipBlanks() == ')' {
		p.Next()
		return NewCallNode(name, args...), nil
	}
	for {
		a, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		switch p.SkipBlanks() {
		case ',':
			p.Next()
		case ')':
			p.Next()
			return NewCallNode(name, args...), nil
		default:
			return nil, p.Errorf("',' or ')' expected")
		}
	}
}
