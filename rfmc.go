// Package rfmc is a runtime module-control plane: it enables and disables
// independently loaded extension modules inside a long-running host process,
// without restarting the process and without any cooperation from a public
// host API. The host's private bookkeeping (per-module state history plus the
// event bus's subscription and ownership tables) is captured once through the
// introspect package and used thereafter to flip module state and to move
// subscription handles off and back onto the bus.
//
// The control plane keeps a permanent retention ledger of each module's
// subscription handles as of its first disable. The ledger is append-once and
// never cleared: re-registering a handle attributes it to the caller, so the
// original ownership record is the only durable way to find a module's
// handles on later disables.
package rfmc

import (
	"strings"

	"go.uber.org/zap"

	"github.com/MeGysssTaa/rfmc/introspect"
)

// Module is the host's record for one loaded module.
type Module = introspect.Module

// ModuleIndex is the host's public module lookup.
type ModuleIndex interface {
	// ModuleByID returns the module record for an id, if loaded.
	ModuleByID(id string) (Module, bool)
}

// Bus is the host's event bus surface the control plane mutates. Register
// attributes the handle to the calling context's identity, whatever the host
// considers that to be.
type Bus interface {
	Register(handle introspect.Handle)
	Unregister(handle introspect.Handle)
}

// Host combines the collaborator surfaces the control plane consumes.
type Host interface {
	ModuleIndex
	Bus
}

// Controller is a per-module override hook. When bound to a module id, its
// matching method runs strictly before the generic enable or disable
// mechanism; a failure aborts the operation before any state is touched.
type Controller interface {
	EnableModule() error
	DisableModule() error
}

// Option configures a ControlPlane.
type Option func(*ControlPlane)

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *ControlPlane) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a control plane over the given introspection adapter and host.
// Table acquisition is lazy; call Warm to front-load it. The caller owns the
// control plane's lifetime; there is no global instance.
func New(adapter introspect.Adapter, host Host, opts ...Option) *ControlPlane {
	p := &ControlPlane{
		cache:       introspect.NewCache(adapter),
		host:        host,
		log:         zap.NewNop(),
		ledger:      make(map[string][]introspect.Handle),
		controllers: make(map[string]Controller),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrBlankModuleID
	}
	return nil
}
