package errtranslator

import (
	"errors"
	"fmt"
)

// ErrDuplicatedKey a unique constraint was violated
var ErrDuplicatedKey = errors.New("duplicated key not allowed")

// ErrTranslator translates vendor driver errors to peregrine errors
type ErrTranslator interface {
	Translate(err error) error
}

// DuplicatedKeyError carries the vendor code of a unique constraint violation
type DuplicatedKeyError struct {
	Code    interface{}
	Message string
	Err     error
}

func (e *DuplicatedKeyError) Error() string {
	return fmt.Sprintf("%v, code: %v, message: %s", ErrDuplicatedKey, e.Code, e.Message)
}

// Is allows errors.Is(err, ErrDuplicatedKey)
func (e *DuplicatedKeyError) Is(err error) bool {
	return err == ErrDuplicatedKey
}

// Unwrap returns the driver error
func (e *DuplicatedKeyError) Unwrap() error {
	return e.Err
}
