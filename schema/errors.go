package schema

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnsupportedModel unsupported model, models must be structs
	ErrUnsupportedModel = errors.New("unsupported model")
	// ErrUnmappableType the scalar type of a property has no database type
	ErrUnmappableType = errors.New("unmappable type")
	// ErrInvalidConditions a conditions property does not match exactly one column
	ErrInvalidConditions = errors.New("invalid conditions")
)

// UnmappableTypeError is returned when a property's underlying type has no DbType
type UnmappableTypeError struct {
	Type     reflect.Type
	Property string
}

func (e *UnmappableTypeError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("%v: %v has no database type mapping", ErrUnmappableType, e.Type)
	}
	return fmt.Sprintf("%v: property %s of type %v has no database type mapping", ErrUnmappableType, e.Property, e.Type)
}

// Is allows errors.Is(err, ErrUnmappableType)
func (e *UnmappableTypeError) Is(err error) bool {
	return err == ErrUnmappableType
}

// ConditionsError is returned when a property of a conditions type matches zero,
// or more than one, column of the target table
type ConditionsError struct {
	ConditionsType reflect.Type
	EntityType     reflect.Type
	Property       string
	Matches        int
}

func (e *ConditionsError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("%v: %v.%s does not match any column of %v", ErrInvalidConditions, e.ConditionsType, e.Property, e.EntityType)
	}
	return fmt.Sprintf("%v: %v.%s matches %d columns of %v", ErrInvalidConditions, e.ConditionsType, e.Property, e.Matches, e.EntityType)
}

// Is allows errors.Is(err, ErrInvalidConditions)
func (e *ConditionsError) Is(err error) bool {
	return err == ErrInvalidConditions
}
