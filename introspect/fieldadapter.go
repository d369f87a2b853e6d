package introspect

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// FieldNames identifies the host's internal table fields by name: States on
// the loader object, Subscriptions and Owners on the bus object.
type FieldNames struct {
	States        string
	Subscriptions string
	Owners        string
}

// DefaultFieldNames matches the field names used by the reference host.
var DefaultFieldNames = FieldNames{
	States:        "modStates",
	Subscriptions: "listeners",
	Owners:        "listenerOwners",
}

// FieldAdapter reaches the host's tables through reflection on unexported
// struct fields. It is the escape hatch for hosts that expose no API at all:
// given pointers to the host's loader and bus objects, it locates the named
// fields, bypasses export restrictions via unsafe addressing, and verifies
// each table has the expected shape before handing it out.
//
// The adapter never mutates host state; it only captures references.
type FieldAdapter struct {
	loader any
	bus    any
	names  FieldNames
}

// NewFieldAdapter builds an adapter over the host's loader and bus objects.
// Both must be pointers to structs. Zero-value names fall back to
// DefaultFieldNames per field.
func NewFieldAdapter(loader, bus any, names FieldNames) *FieldAdapter {
	if names.States == "" {
		names.States = DefaultFieldNames.States
	}
	if names.Subscriptions == "" {
		names.Subscriptions = DefaultFieldNames.Subscriptions
	}
	if names.Owners == "" {
		names.Owners = DefaultFieldNames.Owners
	}
	return &FieldAdapter{loader: loader, bus: bus, names: names}
}

// Acquire locates and type-checks the three tables.
func (a *FieldAdapter) Acquire() (*Tables, error) {
	raw, err := fieldValue(a.loader, a.names.States)
	if err != nil {
		return nil, fmt.Errorf("loader field %q: %w", a.names.States, err)
	}
	states, err := asStateTable(raw)
	if err != nil {
		return nil, fmt.Errorf("loader field %q: %w", a.names.States, err)
	}

	subs, err := mapField(a.bus, a.names.Subscriptions)
	if err != nil {
		return nil, fmt.Errorf("bus field %q: %w", a.names.Subscriptions, err)
	}
	owners, err := mapField(a.bus, a.names.Owners)
	if err != nil {
		return nil, fmt.Errorf("bus field %q: %w", a.names.Owners, err)
	}

	return &Tables{States: states, Subscriptions: subs, Owners: owners}, nil
}

func asStateTable(raw any) (StateTable, error) {
	switch t := raw.(type) {
	case StateTable:
		return t, nil
	case map[string][]State:
		return StateTable(t), nil
	default:
		return nil, fmt.Errorf("%w: have %T, want %T", ErrShapeMismatch, raw, StateTable(nil))
	}
}

func mapField(target any, name string) (*sync.Map, error) {
	raw, err := fieldValue(target, name)
	if err != nil {
		return nil, err
	}
	m, ok := raw.(*sync.Map)
	if !ok {
		return nil, fmt.Errorf("%w: have %T, want *sync.Map", ErrShapeMismatch, raw)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: table is nil", ErrShapeMismatch)
	}
	return m, nil
}

// fieldValue reads the named struct field from target, which must be a
// non-nil pointer to a struct. Unexported fields are read through
// reflect.NewAt on the field's address.
func fieldValue(target any, name string) (any, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: target is nil", ErrShapeMismatch)
	}
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: target %T is not a pointer to struct", ErrShapeMismatch, target)
	}
	f := v.Elem().FieldByName(name)
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: no such field", ErrShapeMismatch)
	}
	if !f.CanInterface() {
		f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
	}
	return f.Interface(), nil
}
