package introspect

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader and fakeBus mirror the reference host's internals: the tables
// hide behind unexported fields and are only reachable by reflection.
type fakeLoader struct {
	modStates map[string][]State
}

type fakeBus struct {
	listeners      *sync.Map
	listenerOwners *sync.Map
}

func TestFieldAdapterDefaultNames(t *testing.T) {
	loader := &fakeLoader{modStates: map[string][]State{
		"alpha": {"constructed", StateAvailable},
	}}
	bus := &fakeBus{listeners: &sync.Map{}, listenerOwners: &sync.Map{}}

	tables, err := NewFieldAdapter(loader, bus, FieldNames{}).Acquire()
	require.NoError(t, err)
	assert.Equal(t, []State{"constructed", StateAvailable}, tables.States["alpha"])
	assert.Same(t, bus.listeners, tables.Subscriptions)
	assert.Same(t, bus.listenerOwners, tables.Owners)
}

func TestFieldAdapterCapturesLiveReference(t *testing.T) {
	loader := &fakeLoader{modStates: map[string][]State{}}
	bus := &fakeBus{listeners: &sync.Map{}, listenerOwners: &sync.Map{}}

	tables, err := NewFieldAdapter(loader, bus, FieldNames{}).Acquire()
	require.NoError(t, err)

	// A host-side mutation after acquisition must be visible: the adapter
	// captures references, not copies.
	loader.modStates["beta"] = []State{StateDisabled}
	assert.Equal(t, []State{StateDisabled}, tables.States["beta"])
}

func TestFieldAdapterMissingField(t *testing.T) {
	loader := &fakeLoader{modStates: map[string][]State{}}
	bus := &fakeBus{listeners: &sync.Map{}, listenerOwners: &sync.Map{}}

	_, err := NewFieldAdapter(loader, bus, FieldNames{States: "renamed"}).Acquire()
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.ErrorContains(t, err, "renamed")
}

func TestFieldAdapterWrongFieldType(t *testing.T) {
	type oddLoader struct {
		modStates []string
	}
	bus := &fakeBus{listeners: &sync.Map{}, listenerOwners: &sync.Map{}}

	_, err := NewFieldAdapter(&oddLoader{}, bus, FieldNames{}).Acquire()
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFieldAdapterNilMapTable(t *testing.T) {
	loader := &fakeLoader{modStates: map[string][]State{}}
	bus := &fakeBus{listenerOwners: &sync.Map{}} // listeners left nil

	_, err := NewFieldAdapter(loader, bus, FieldNames{}).Acquire()
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFieldAdapterRejectsNonStructTargets(t *testing.T) {
	bus := &fakeBus{listeners: &sync.Map{}, listenerOwners: &sync.Map{}}

	_, err := NewFieldAdapter(nil, bus, FieldNames{}).Acquire()
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewFieldAdapter("not a struct", bus, FieldNames{}).Acquire()
	require.ErrorIs(t, err, ErrShapeMismatch)

	var nilLoader *fakeLoader
	_, err = NewFieldAdapter(nilLoader, bus, FieldNames{}).Acquire()
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFieldAdapterStateTableType(t *testing.T) {
	// Hosts may declare the field with the named StateTable type directly.
	type typedLoader struct {
		modStates StateTable
	}
	loader := &typedLoader{modStates: StateTable{"alpha": {StateAvailable}}}
	bus := &fakeBus{listeners: &sync.Map{}, listenerOwners: &sync.Map{}}

	tables, err := NewFieldAdapter(loader, bus, FieldNames{}).Acquire()
	require.NoError(t, err)
	assert.Equal(t, []State{StateAvailable}, tables.States["alpha"])
}
