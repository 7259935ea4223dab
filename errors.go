// FILE: lixenwraith/dataobject/errors.go
package dataobject

import "errors"

var (
	// ErrInvalidShape is returned when constructor input is list-shaped at the top level
	ErrInvalidShape = errors.New("dataobject should be associative")

	// ErrPathNotFound is returned by typed getters when a path does not resolve,
	// or resolves to a blank value in Soft mode
	ErrPathNotFound = errors.New("path not found")

	// ErrNotScalar is returned by typed getters when a path holds a record,
	// a sequence or a nested object
	ErrNotScalar = errors.New("value is not a scalar")

	// ErrUnknownFormat is returned when a serialization format cannot be determined
	ErrUnknownFormat = errors.New("unknown data format")
)
