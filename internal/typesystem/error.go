package typesystem

import "fmt"

// UnknownTypeError indicates a type name that is not in the catalog.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s cannot be resolved to a type", e.Name)
}

func NewUnknownTypeError(name string) *UnknownTypeError {
	return &UnknownTypeError{Name: name}
}

// ArityError indicates a parameterized type with the wrong number of
// type arguments.
type ArityError struct {
	Type     string
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	if e.Expected == 0 {
		return fmt.Sprintf("The type %s is not generic; it cannot be parameterized with arguments", e.Type)
	}
	return fmt.Sprintf("Incorrect number of arguments for type %s; it cannot be parameterized with %d arguments", e.Type, e.Got)
}
