package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/dummydisplay"
	"github.com/srlehn/framewm/wm"
)

func TestUnframeRegistryOutOfSync(t *testing.T) {
	d := dummydisplay.New()
	client := d.AddWindow(wm.Attributes{Geometry: wm.Geometry{Width: 10, Height: 10}})
	m, err := New(d)
	require.NoError(t, err)
	frame, err := m.Frame(client, false)
	require.NoError(t, err)

	// frame claims to contain a different window
	m.clients.clients[frame] = client + 100
	d.ResetRequests()

	err = m.Unframe(client)
	assert.ErrorIs(t, err, consts.ErrRegistryInvariant)
	assert.Empty(t, d.Ops())
	_, ok := m.clients.Frame(client)
	assert.False(t, ok)
}
