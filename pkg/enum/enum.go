package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[string]any{}

type enum[T comparable] struct {
	toEnum map[string]T
	values []T
}

// New registers a value as a member of its enum type and returns it
// unchanged, so it can be used directly in a var declaration.
func New[T comparable](value T) T {
	v := reflect.ValueOf(value)
	t := v.Type()
	e, ok := enumManager[t.Name()]
	if !ok {
		e = &enum[T]{toEnum: make(map[string]T)}
		enumManager[t.Name()] = e
	}

	typedEnum := e.(*enum[T])
	if _, ok := typedEnum.toEnum[v.String()]; !ok {
		typedEnum.toEnum[v.String()] = value
		typedEnum.values = append(typedEnum.values, value)
	}

	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).Name()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(*enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// List returns every registered member of the enum type, in registration
// order.
func List[T comparable]() []T {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).Name()]
	if !ok {
		return nil
	}

	return e.(*enum[T]).values
}
