package hosttest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeGysssTaa/rfmc/introspect"
)

func TestSubscribeAttribution(t *testing.T) {
	host := New()
	alpha := host.AddModule("alpha", introspect.StateAvailable)
	sub := host.Subscribe(alpha, "alpha-sub", "binding-1", "binding-2")

	require.True(t, host.Registered(sub))
	owner, ok := host.Owner(sub)
	require.True(t, ok)
	assert.Equal(t, "alpha", owner.ID())
	assert.NotEmpty(t, sub.Tag)
}

func TestRegisterUsesCallerIdentity(t *testing.T) {
	host := New()
	alpha := host.AddModule("alpha", introspect.StateAvailable)
	other := host.AddModule("other", introspect.StateAvailable)
	sub := host.Subscribe(alpha, "alpha-sub")

	host.Unregister(sub)
	require.False(t, host.Registered(sub))

	host.SetCaller(other)
	host.Register(sub)

	owner, ok := host.Owner(sub)
	require.True(t, ok)
	assert.Equal(t, "other", owner.ID(), "re-registration attributes to the caller")
}

func TestUnregisterUnknownHandle(t *testing.T) {
	host := New()
	host.Unregister(NewSubscriber("never-registered")) // must not panic
	assert.Equal(t, 0, host.LiveHandles())
}

func TestAdapterMatchesOwnShape(t *testing.T) {
	host := New()
	host.AddModule("alpha", introspect.StateAvailable)

	tables, err := host.Adapter().Acquire()
	require.NoError(t, err)
	assert.Equal(t, []introspect.State{introspect.StateAvailable}, tables.States["alpha"])
}

func TestStatesReturnsCopy(t *testing.T) {
	host := New()
	host.AddModule("alpha", introspect.StateAvailable)

	states := host.States("alpha")
	states[0] = "mutated"
	assert.Equal(t, []introspect.State{introspect.StateAvailable}, host.States("alpha"))
}
