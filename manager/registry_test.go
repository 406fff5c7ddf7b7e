package manager_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/manager"
	"github.com/srlehn/framewm/wm"
)

func TestRegistry(t *testing.T) {
	r := manager.NewRegistry()
	require.NoError(t, r.Add(0x30, 0x31))
	require.NoError(t, r.Add(0x10, 0x11))
	assert.Equal(t, 2, r.Len())

	frame, ok := r.Frame(0x10)
	assert.True(t, ok)
	assert.Equal(t, wm.Window(0x11), frame)
	client, ok := r.Client(0x31)
	assert.True(t, ok)
	assert.Equal(t, wm.Window(0x30), client)

	_, ok = r.Frame(0x11)
	assert.False(t, ok, `frames are not clients`)
	_, ok = r.Client(0x10)
	assert.False(t, ok, `clients are not frames`)

	assert.Equal(t, []manager.Client{
		{Window: 0x10, Frame: 0x11},
		{Window: 0x30, Frame: 0x31},
	}, r.Clients())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := manager.NewRegistry()
	require.NoError(t, r.Add(0x10, 0x11))

	assert.ErrorIs(t, r.Add(0x10, 0x21), consts.ErrClientTracked)
	assert.ErrorIs(t, r.Add(0x20, 0x11), consts.ErrFrameTracked)
	assert.ErrorIs(t, r.Add(wm.WindowNone, 0x21), consts.ErrNilParam)
	assert.ErrorIs(t, r.Add(0x20, wm.WindowNone), consts.ErrNilParam)

	// failed adds leave no trace
	assert.Equal(t, 1, r.Len())
	_, ok := r.Client(0x21)
	assert.False(t, ok)
	_, ok = r.Frame(0x20)
	assert.False(t, ok)
}

func TestRegistryRemove(t *testing.T) {
	r := manager.NewRegistry()
	require.NoError(t, r.Add(0x10, 0x11))

	frame, ok := r.Remove(0x10)
	assert.True(t, ok)
	assert.Equal(t, wm.Window(0x11), frame)
	assert.Zero(t, r.Len())
	_, ok = r.Client(0x11)
	assert.False(t, ok)

	_, ok = r.Remove(0x10)
	assert.False(t, ok)

	// both windows can be reused
	require.NoError(t, r.Add(0x11, 0x10))
}

func TestRegistryNil(t *testing.T) {
	var r *manager.Registry
	assert.Error(t, r.Add(1, 2))
	_, ok := r.Frame(1)
	assert.False(t, ok)
	_, ok = r.Client(2)
	assert.False(t, ok)
	_, ok = r.Remove(1)
	assert.False(t, ok)
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Clients())
}
