package rfmc

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/MeGysssTaa/rfmc/introspect"
)

// ControlPlane owns the retention ledger and the controller registry, and
// drives module state through the host's introspected tables.
//
// Enable and Disable are multi-step sequences over independently mutable
// tables, not atomic transactions. Concurrent calls for the same module id
// may interleave; callers needing per-module atomicity must serialize
// externally. The ledger and registry maps themselves are safe for concurrent
// use.
type ControlPlane struct {
	cache *introspect.Cache
	host  Host
	log   *zap.Logger

	mu          sync.RWMutex
	ledger      map[string][]introspect.Handle
	controllers map[string]Controller
}

// Warm eagerly acquires the host's tables. Optional: the first operation
// acquires them anyway. Useful to surface a host shape mismatch at
// initialization time instead of on first use.
func (p *ControlPlane) Warm() error {
	_, err := p.cache.Tables()
	return err
}

// CurrentState returns the last recorded lifecycle state for a module.
func (p *ControlPlane) CurrentState(id string) (introspect.State, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	tables, err := p.cache.Tables()
	if err != nil {
		return "", err
	}
	states, ok := tables.States[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownModule, id)
	}
	if len(states) == 0 {
		return "", fmt.Errorf("%w: %s", ErrCorruptState, id)
	}
	return states[len(states)-1], nil
}

// IsEnabled reports whether the module's current state is available.
func (p *ControlPlane) IsEnabled(id string) (bool, error) {
	state, err := p.CurrentState(id)
	if err != nil {
		return false, err
	}
	return state == introspect.StateAvailable, nil
}

// IsDisabled reports whether the module's current state is disabled.
func (p *ControlPlane) IsDisabled(id string) (bool, error) {
	state, err := p.CurrentState(id)
	if err != nil {
		return false, err
	}
	return state == introspect.StateDisabled, nil
}

// Enable re-enables a previously disabled module: runs its controller hook if
// one is bound, appends the available state, and re-registers every handle
// retained at the module's first disable. Returns the number of renewed
// handles.
//
// Re-registration runs under the caller's bus identity, so ownership of the
// renewed handles transfers to the calling context. The retention ledger
// entry is left untouched, which is what keeps later disables able to find
// these handles again.
func (p *ControlPlane) Enable(id string) (int, error) {
	enabled, err := p.IsEnabled(id)
	if err != nil {
		return 0, err
	}
	if enabled {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyEnabled, id)
	}

	if ctrl, ok := p.Controller(id); ok {
		if err := ctrl.EnableModule(); err != nil {
			return 0, fmt.Errorf("controller enable for %s: %w", id, err)
		}
	}

	tables, err := p.cache.Tables()
	if err != nil {
		return 0, err
	}
	tables.States[id] = append(tables.States[id], introspect.StateAvailable)

	if _, ok := p.host.ModuleByID(id); !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownModule, id)
	}

	p.mu.RLock()
	retained, ok := p.ledger[id]
	p.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInconsistentRetention, id)
	}

	for _, handle := range retained {
		p.host.Register(handle)
		p.log.Debug("renewed subscription handle",
			zap.String("module", id),
			zap.Any("handle", handle))
	}

	p.log.Info("silently enabled module",
		zap.String("module", id),
		zap.Int("renewed_handles", len(retained)))
	return len(retained), nil
}

// Disable disables a module: runs its controller hook if one is bound,
// appends the disabled state, and unregisters every subscription handle the
// bus currently attributes to the module. Returns the total number of
// unregistered handles.
//
// On the first disable the freshly collected handles become the module's
// permanent retention ledger entry. On later disables the entry is read but
// never replaced: handles from the old entry are unregistered as well, since
// a previous enable re-attributed them to a different owner and the ownership
// scan alone can no longer find them.
func (p *ControlPlane) Disable(id string) (int, error) {
	disabled, err := p.IsDisabled(id)
	if err != nil {
		return 0, err
	}
	if disabled {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyDisabled, id)
	}

	if ctrl, ok := p.Controller(id); ok {
		if err := ctrl.DisableModule(); err != nil {
			return 0, fmt.Errorf("controller disable for %s: %w", id, err)
		}
	}

	tables, err := p.cache.Tables()
	if err != nil {
		return 0, err
	}
	tables.States[id] = append(tables.States[id], introspect.StateDisabled)

	mod, ok := p.host.ModuleByID(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownModule, id)
	}

	var fresh []introspect.Handle
	tables.Subscriptions.Range(func(handle, _ any) bool {
		owner, ok := tables.Owners.Load(handle)
		if !ok || owner != mod {
			return true
		}
		p.host.Unregister(handle)
		fresh = append(fresh, handle)
		p.log.Debug("unregistered subscription handle",
			zap.String("module", id),
			zap.Any("handle", handle))
		return true
	})

	p.mu.Lock()
	retained, tracked := p.ledger[id]
	if !tracked {
		p.ledger[id] = fresh
	}
	p.mu.Unlock()

	if tracked {
		// Handles renewed by a previous Enable now belong to whoever
		// called it; the ownership scan above cannot see them. The
		// original ledger entry can.
		for _, handle := range retained {
			p.host.Unregister(handle)
			p.log.Debug("unregistered retained subscription handle",
				zap.String("module", id),
				zap.Any("handle", handle))
		}
	}

	total := len(fresh) + len(retained)
	p.log.Info("silently disabled module",
		zap.String("module", id),
		zap.Int("unregistered_handles", total))
	return total, nil
}

// Retained returns a copy of the module's retention ledger entry, if one
// exists. The entry itself is append-once and read-only.
func (p *ControlPlane) Retained(id string) ([]introspect.Handle, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	retained, ok := p.ledger[id]
	if !ok {
		return nil, false
	}
	return append([]introspect.Handle{}, retained...), true
}
