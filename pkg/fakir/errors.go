package fakir

import (
	"fmt"
)

var (
	ErrInvalidParameter = fmt.Errorf("invalid parameter")
	ErrTypeMismatch     = fmt.Errorf("type mismatch")
	ErrArithmetic       = fmt.Errorf("arithmetic error")
	ErrOutOfRange       = fmt.Errorf("out of range")
)

func invalidParameter(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(msg, args...))
}

func typeMismatch(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(msg, args...))
}
