package cookbook

import (
	"errors"
	"fmt"
)

// Kind classifies the ways an admission or resolution can fail
type Kind int

const (
	// InvalidName indicates a missing, non-string, or empty entry name
	InvalidName Kind = iota
	// InvalidType indicates a missing or unrecognized entry type
	InvalidType
	// InvalidIngredient indicates a malformed ingredient record
	InvalidIngredient
	// InvalidRecipe indicates a malformed recipe record
	InvalidRecipe
	// DuplicateName indicates an entry name already present in the registry
	DuplicateName
	// NotFound indicates a name with no registry entry
	NotFound
	// NotARecipe indicates a summary query for an ingredient name
	NotARecipe
	// CyclicReference indicates a recipe that reaches itself during resolution
	CyclicReference
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case InvalidName:
		return "invalid name"
	case InvalidType:
		return "invalid type"
	case InvalidIngredient:
		return "invalid ingredient"
	case InvalidRecipe:
		return "invalid recipe"
	case DuplicateName:
		return "duplicate name"
	case NotFound:
		return "not found"
	case NotARecipe:
		return "not a recipe"
	case CyclicReference:
		return "cyclic reference"
	default:
		return "unknown"
	}
}

// Code returns a stable machine-readable code for API responses
func (k Kind) Code() string {
	switch k {
	case InvalidName:
		return "invalid_name"
	case InvalidType:
		return "invalid_type"
	case InvalidIngredient:
		return "invalid_ingredient"
	case InvalidRecipe:
		return "invalid_recipe"
	case DuplicateName:
		return "duplicate_name"
	case NotFound:
		return "not_found"
	case NotARecipe:
		return "not_a_recipe"
	case CyclicReference:
		return "cyclic_reference"
	default:
		return "error"
	}
}

// Error is a classified cookbook failure with a human-readable reason
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// NewError creates a classified error with a formatted message
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf extracts the failure kind from an error, if it carries one
func KindOf(err error) (Kind, bool) {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind, true
	}
	return 0, false
}
