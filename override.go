package rfmc

import "fmt"

// RegisterController binds a per-module controller to a module id. At most
// one controller may be bound per id; a second registration is a conflict and
// leaves the first binding in place.
func (p *ControlPlane) RegisterController(id string, ctrl Controller) error {
	if err := validateID(id); err != nil {
		return err
	}
	if ctrl == nil {
		return ErrNilController
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.controllers[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOverride, id)
	}
	p.controllers[id] = ctrl
	return nil
}

// Controller returns the controller bound to a module id, if any.
func (p *ControlPlane) Controller(id string) (Controller, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ctrl, ok := p.controllers[id]
	return ctrl, ok
}

// Overrides returns a snapshot of all bound controllers keyed by module id.
func (p *ControlPlane) Overrides() map[string]Controller {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Controller, len(p.controllers))
	for id, ctrl := range p.controllers {
		out[id] = ctrl
	}
	return out
}
