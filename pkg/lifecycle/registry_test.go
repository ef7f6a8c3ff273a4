package lifecycle

import (
	"testing"

	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksForReturnsFalseWhenUnregistered(t *testing.T) {
	r := NewRegistry()
	_, ok := r.HooksFor(ids.NewNumeric(1, 10))
	assert.False(t, ok)
}

func TestRegisterAndHooksForRoundTrip(t *testing.T) {
	r := NewRegistry()
	typeId := ids.NewNumeric(1, 10)
	called := false

	r.Register(typeId, Hooks{
		Constructor: func(instanceId ids.NodeId) (any, error) {
			called = true
			return "handle", nil
		},
	})

	hooks, ok := r.HooksFor(typeId)
	require.True(t, ok)
	require.NotNil(t, hooks.Constructor)

	handle, err := hooks.Constructor(ids.NewNumeric(1, 11))
	require.NoError(t, err)
	assert.Equal(t, "handle", handle)
	assert.True(t, called)
	assert.Nil(t, hooks.Destructor)
}

func TestUnregisterRemovesHooks(t *testing.T) {
	r := NewRegistry()
	typeId := ids.NewNumeric(1, 10)
	r.Register(typeId, Hooks{Constructor: func(ids.NodeId) (any, error) { return nil, nil }})

	r.Unregister(typeId)

	_, ok := r.HooksFor(typeId)
	assert.False(t, ok)
}

func TestHandleRoundTrip(t *testing.T) {
	r := NewRegistry()
	instanceId := ids.NewNumeric(1, 42)
	typeId := ids.NewNumeric(1, 10)

	_, _, ok := r.TakeHandle(instanceId)
	assert.False(t, ok, "no handle stored yet")

	r.PutHandle(instanceId, typeId, 7)
	handle, gotType, ok := r.TakeHandle(instanceId)
	require.True(t, ok)
	assert.Equal(t, 7, handle)
	assert.Equal(t, typeId, gotType)

	_, _, ok = r.TakeHandle(instanceId)
	assert.False(t, ok, "TakeHandle must remove the entry")
}
