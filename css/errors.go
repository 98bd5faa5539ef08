package css

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax          = errors.New("unsupported selector")
	ErrUnknownFunction = errors.New("unknown function")

	errNth = errors.New("invalid An+B expression")
)

type SyntaxError struct {
	Selector string
	Cause    string
	Offset   int
}

func syntaxError(selector, cause string, offset int) error {
	return SyntaxError{
		Selector: selector,
		Cause:    cause,
		Offset:   offset,
	}
}

func (e SyntaxError) Error() string {
	if e.Cause == "" {
		return fmt.Sprintf("%s: %s (at %d)", e.Selector, ErrSyntax, e.Offset)
	}
	return fmt.Sprintf("%s: %s: %s (at %d)", e.Selector, ErrSyntax, e.Cause, e.Offset)
}

func (e SyntaxError) Unwrap() error {
	return ErrSyntax
}

type UnknownFunctionError struct {
	Name string
}

func (e UnknownFunctionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, ErrUnknownFunction)
}

func (e UnknownFunctionError) Unwrap() error {
	return ErrUnknownFunction
}
