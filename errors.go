package rfmc

import "errors"

// Control plane errors. All conditions are reported synchronously and
// distinctly; none are retried, since every operation is local and
// deterministic. Match with errors.Is.
var (
	// ErrBlankModuleID is returned for empty or whitespace-only ids.
	ErrBlankModuleID = errors.New("module id cannot be blank")

	// ErrUnknownModule is returned when an id is not present in the host's
	// module table.
	ErrUnknownModule = errors.New("unknown module")

	// ErrCorruptState is returned when a module's state history is present
	// but empty, which indicates an internal-consistency fault in the host.
	ErrCorruptState = errors.New("module state history is empty")

	// ErrAlreadyEnabled is returned by Enable when the module's current
	// state is already available.
	ErrAlreadyEnabled = errors.New("module already enabled")

	// ErrAlreadyDisabled is returned by Disable when the module's current
	// state is already disabled.
	ErrAlreadyDisabled = errors.New("module already disabled")

	// ErrInconsistentRetention is returned by Enable when no retention
	// record exists for the module: only a module this control plane has
	// tracked through a disable can be enabled.
	ErrInconsistentRetention = errors.New("no retained subscriptions for module")

	// ErrDuplicateOverride is returned when a second controller is bound
	// to an id that already has one. The first binding wins.
	ErrDuplicateOverride = errors.New("controller already bound to module")

	// ErrNilController is returned when a nil controller is registered.
	ErrNilController = errors.New("controller cannot be nil")
)
