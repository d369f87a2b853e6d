// Package introspect is the boundary between the control plane and the host
// process's private bookkeeping. The host keeps a per-module lifecycle history
// and two bus-owned subscription tables; none of them are part of a public
// API, so they have to be reached through reflection (or handed over directly
// by a host that cooperates). Everything above this package depends only on
// the Adapter interface and the typed Tables it yields.
package introspect

import "sync"

// State is a single lifecycle phase recorded by the host for a module.
// The host appends phases as it loads, constructs and initializes modules;
// the control plane only ever appends the two terminal operational states.
type State string

const (
	// StateAvailable marks a module as enabled and operational.
	StateAvailable State = "available"

	// StateDisabled marks a module as disabled by the control plane.
	StateDisabled State = "disabled"
)

// Handle is an opaque subscription-handle identity on the host's bus.
// Handles are compared by identity, not by value: hosts are expected to use
// pointers (or otherwise unique comparable values) as handles.
type Handle = any

// Binding is one event binding carried by a subscription handle. The control
// plane never inspects bindings; it only moves whole handles around.
type Binding = any

// Module is the host's record for one loaded module.
type Module interface {
	// ID returns the module's unique, case-sensitive identifier.
	ID() string
}

// StateTable is the host's module-state history: module id to the ordered,
// append-only sequence of lifecycle states. The last element is the current
// state. A present-but-empty sequence is an internal-consistency fault.
type StateTable map[string][]State

// Tables bundles the live references captured from the host. All three are
// owned and mutated by the host; the control plane reads them, appends
// terminal states, and removes or re-adds subscription entries through the
// host's bus, but never owns their lifetime.
type Tables struct {
	// States is the per-module lifecycle history.
	States StateTable

	// Subscriptions maps Handle -> []Binding for every live subscription.
	Subscriptions *sync.Map

	// Owners maps Handle -> Module, attributing each live subscription to
	// the module that registered it.
	Owners *sync.Map
}

// Adapter locates the host's internal tables. Implementations are per host
// platform: FieldAdapter reaches unexported struct fields via reflection, a
// cooperating host can implement Adapter directly.
type Adapter interface {
	// Acquire returns live references to the host's tables, or an error
	// wrapping ErrShapeMismatch when the host's internals do not have the
	// expected shape (typically a host version mismatch).
	Acquire() (*Tables, error)
}
