package scanner

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrSyntax is wrapped by all errors reported by a Scanner.
var ErrSyntax = fmt.Errorf("syntax error")

// Scanner provides rune-wise access to an expression text
// and scans the lexical elements of the expression language.
type Scanner interface {
	Next() rune
	Current() rune
	Position() int
	SkipBlanks() rune

	// Accept consumes the given text if it follows.
	Accept(text string) bool
	ConsumeRune(r rune) error

	Identifier() string
	Number() (float64, error)
	Quoted() (string, error)

	Errorf(msg string, args ...interface{}) error
}

type scanner struct {
	in      []byte
	start   int
	offset  int
	no      int
	current rune
}

func NewScanner(in string) Scanner {
	s := &scanner{
		in: []byte(in),
	}
	s.Next()
	return s
}

func (s *scanner) Next() rune {
	s.start = s.offset
	if s.offset >= len(s.in) {
		s.current = 0
		return 0
	}
	r, size := utf8.DecodeRune(s.in[s.offset:])
	s.current = r
	if r == utf8.RuneError {
		return r
	}
	s.offset += size
	s.no++
	return r
}

func (s *scanner) Current() rune {
	return s.current
}

func (s *scanner) Position() int {
	return s.no
}

func (s *scanner) SkipBlanks() rune {
	n := s.Current()
	for unicode.IsSpace(n) {
		n = s.Next()
	}
	return n
}

func (s *scanner) Accept(text string) bool {
	if s.current == 0 || !bytes.HasPrefix(s.in[s.start:], []byte(text)) {
		return false
	}
	for range text {
		s.Next()
	}
	return true
}

func (s *scanner) ConsumeRune(r rune) error {
	if s.Current() != r {
		return s.Errorf("%q expected", string(r))
	}
	s.Next()
	return nil
}

func (s *scanner) scanWhile(b *strings.Builder, f func(r rune) bool) rune {
	c := s.Current()
	for c != 0 && f(c) {
		b.WriteRune(c)
		c = s.Next()
	}
	return c
}

func isIdentifier(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Identifier scans a name. It is empty if the current
// rune cannot start a name.
func (s *scanner) Identifier() string {
	if c := s.Current(); !unicode.IsLetter(c) && c != '_' {
		return ""
	}
	var b strings.Builder
	s.scanWhile(&b, isIdentifier)
	return b.String()
}

// Number scans a decimal float with an optional exponent.
func (s *scanner) Number() (float64, error) {
	var b strings.Builder
	c := s.scanWhile(&b, func(r rune) bool { return unicode.IsDigit(r) || r == '.' })
	if c == 'e' || c == 'E' {
		b.WriteRune(c)
		c = s.Next()
		if c == '+' || c == '-' {
			b.WriteRune(c)
			s.Next()
		}
		s.scanWhile(&b, unicode.IsDigit)
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, s.Errorf("invalid number %q", b.String())
	}
	return v, nil
}

// Quoted scans a string enclosed in the current rune.
// A backslash escapes the following rune, \n and \t
// denote a newline and a tab.
func (s *scanner) Quoted() (string, error) {
	quote := s.Current()
	var b strings.Builder
	c := s.Next()
	for c != quote {
		switch c {
		case 0:
			return "", s.Errorf("unterminated string")
		case '\\':
			c = s.Next()
			switch c {
			case 'n':
				c = '\n'
			case 't':
				c = '\t'
			case 0:
				return "", s.Errorf("unterminated string")
			}
		}
		b.WriteRune(c)
		c = s.Next()
	}
	s.Next()
	return b.String(), nil
}

func (s *scanner) Errorf(msg string, args ...interface{}) error {
	return fmt.Errorf("%w: %q %d: %s", ErrSyntax, string(s.in), s.Position(), fmt.Sprintf(msg, args...))
}
