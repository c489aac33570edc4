package indexing

import (
	"errors"
	"fmt"
)

// KeyError represents a failure detected while canonicalizing a key.
//
// Key errors include:
//   - Malformed input: a value advertises a length but positional access
//     is missing or fails
//   - Recursion limit: flattening performed more splice operations than
//     allowed, which in practice means a cyclic or self-referential key
//
// KeyError includes structured fields for diagnostics.
type KeyError struct {
	// Code identifies the error category.
	Code KeyErrorCode

	// Message is a human-readable description.
	Message string

	// Pos is the position in the working tuple where the failure occurred,
	// or -1 when no position applies.
	Pos int

	// TypeName names the offending value's type, when known.
	TypeName string

	// Err is the underlying error (optional).
	Err error
}

// KeyErrorCode categorizes key errors.
type KeyErrorCode string

const (
	// ErrCodeMalformedInput indicates a value with a partial sequence
	// protocol: it reports a length but indexed access is absent or fails.
	ErrCodeMalformedInput KeyErrorCode = "MALFORMED_INPUT"

	// ErrCodeRecursionLimit indicates the splice budget was exhausted,
	// almost always because the key references itself.
	ErrCodeRecursionLimit KeyErrorCode = "RECURSION_LIMIT"
)

// Error implements the error interface.
func (e *KeyError) Error() string {
	if e.Pos >= 0 && e.TypeName != "" {
		return fmt.Sprintf("%s: %s (pos=%d, type=%s)", e.Code, e.Message, e.Pos, e.TypeName)
	}
	if e.TypeName != "" {
		return fmt.Sprintf("%s: %s (type=%s)", e.Code, e.Message, e.TypeName)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *KeyError) Unwrap() error {
	return e.Err
}

// IsMalformedInput returns true if the error is a malformed input error.
// Uses errors.As to handle wrapped errors.
func IsMalformedInput(err error) bool {
	var ke *KeyError
	if errors.As(err, &ke) {
		return ke.Code == ErrCodeMalformedInput
	}
	return false
}

// IsRecursionLimit returns true if the error is a recursion limit error.
// Uses errors.As to handle wrapped errors.
func IsRecursionLimit(err error) bool {
	var ke *KeyError
	if errors.As(err, &ke) {
		return ke.Code == ErrCodeRecursionLimit
	}
	return false
}

func newMalformedError(pos int, typeName, message string, err error) *KeyError {
	return &KeyError{
		Code:     ErrCodeMalformedInput,
		Message:  message,
		Pos:      pos,
		TypeName: typeName,
		Err:      err,
	}
}

func newRecursionError(pos int, ops int) *KeyError {
	return &KeyError{
		Code:    ErrCodeRecursionLimit,
		Message: fmt.Sprintf("flattening exceeded %d splice operations; key is likely cyclic", ops),
		Pos:     pos,
	}
}
