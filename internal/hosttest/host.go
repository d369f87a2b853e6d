// Package hosttest provides an in-memory stand-in for a host process: a
// module index, an append-only module-state history, and a subscription bus
// whose bookkeeping lives in unexported fields, so it can be introspected the
// same way a real host would be. Used by tests across the repository.
package hosttest

import (
	"sync"

	"github.com/google/uuid"

	"github.com/MeGysssTaa/rfmc/introspect"
)

// Module is a loaded-module record.
type Module struct {
	id string
}

// ID returns the module identifier.
func (m *Module) ID() string { return m.id }

// Subscriber is a subscription handle. Identity is the pointer; the Tag is a
// unique marker so handles stay distinguishable in test output.
type Subscriber struct {
	Tag  string
	Name string
}

// NewSubscriber creates a handle with a fresh unique tag.
func NewSubscriber(name string) *Subscriber {
	return &Subscriber{Tag: uuid.NewString(), Name: name}
}

// Host simulates the host process. The three introspectable tables live in
// unexported fields (states, subs, owners) mirroring the layout a
// FieldAdapter expects to find on a real host.
type Host struct {
	mu      sync.RWMutex
	modules map[string]*Module
	caller  introspect.Module

	states introspect.StateTable
	subs   *sync.Map // Handle -> []Binding
	owners *sync.Map // Handle -> introspect.Module

	// archive remembers each handle's bindings so a re-registration can
	// restore them, the way a real bus re-derives bindings from the handle.
	archive map[introspect.Handle][]introspect.Binding
}

// New creates an empty host. The initial caller identity is a synthetic
// "operator" module that is not part of the module index.
func New() *Host {
	return &Host{
		modules: make(map[string]*Module),
		caller:  &Module{id: "operator"},
		states:  make(introspect.StateTable),
		subs:    &sync.Map{},
		owners:  &sync.Map{},
		archive: make(map[introspect.Handle][]introspect.Binding),
	}
}

// Adapter returns a reflection adapter targeting this host's unexported
// tables, exercising the same extraction path a real host would.
func (h *Host) Adapter() *introspect.FieldAdapter {
	return introspect.NewFieldAdapter(h, h, introspect.FieldNames{
		States:        "states",
		Subscriptions: "subs",
		Owners:        "owners",
	})
}

// AddModule loads a module with the given lifecycle history. Calling it with
// no phases produces the present-but-empty history that the control plane
// must report as corrupt.
func (h *Host) AddModule(id string, phases ...introspect.State) *Module {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := &Module{id: id}
	h.modules[id] = m
	h.states[id] = append([]introspect.State{}, phases...)
	return m
}

// DropModule removes a module from the index while leaving its state history
// behind, simulating a host whose bookkeeping has diverged.
func (h *Host) DropModule(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.modules, id)
}

// ModuleByID looks up a loaded module.
func (h *Host) ModuleByID(id string) (introspect.Module, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m, ok := h.modules[id]
	return m, ok
}

// SetCaller switches the identity the bus attributes future registrations to.
func (h *Host) SetCaller(m introspect.Module) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.caller = m
}

// Subscribe registers a fresh handle on the bus attributed to owner, the way
// the host does during module bootstrap.
func (h *Host) Subscribe(owner *Module, name string, bindings ...introspect.Binding) *Subscriber {
	sub := NewSubscriber(name)
	h.mu.Lock()
	h.archive[sub] = bindings
	h.mu.Unlock()
	h.subs.Store(sub, bindings)
	h.owners.Store(sub, introspect.Module(owner))
	return sub
}

// Register puts a previously known handle back on the bus. Ownership is
// attributed to the current caller identity, not the handle's original owner.
func (h *Host) Register(handle introspect.Handle) {
	h.mu.RLock()
	bindings := h.archive[handle]
	caller := h.caller
	h.mu.RUnlock()
	h.subs.Store(handle, bindings)
	h.owners.Store(handle, caller)
}

// Unregister removes a handle from the bus. Unknown handles are a no-op.
func (h *Host) Unregister(handle introspect.Handle) {
	h.subs.Delete(handle)
	h.owners.Delete(handle)
}

// Registered reports whether a handle is currently live on the bus.
func (h *Host) Registered(handle introspect.Handle) bool {
	_, ok := h.subs.Load(handle)
	return ok
}

// Owner returns the module a live handle is currently attributed to.
func (h *Host) Owner(handle introspect.Handle) (introspect.Module, bool) {
	v, ok := h.owners.Load(handle)
	if !ok {
		return nil, false
	}
	return v.(introspect.Module), true
}

// States returns a copy of a module's lifecycle history.
func (h *Host) States(id string) []introspect.State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]introspect.State{}, h.states[id]...)
}

// LiveHandles counts handles currently registered on the bus.
func (h *Host) LiveHandles() int {
	n := 0
	h.subs.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
