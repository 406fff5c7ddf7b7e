package x11_test

import (
	"errors"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/srlehn/framewm/wm"
	"github.com/srlehn/framewm/wm/x11"
)

func TestDecodeEvent(t *testing.T) {
	tests := map[string]struct {
		in   xgb.Event
		want wm.Event
	}{
		`map_request`: {
			in:   xproto.MapRequestEvent{Parent: 0x100, Window: 0x200},
			want: wm.MapRequestEvent{Parent: 0x100, Window: 0x200},
		},
		`configure_request`: {
			in: xproto.ConfigureRequestEvent{
				StackMode: xproto.StackModeBelow, Parent: 0x100, Window: 0x200, Sibling: 0x300,
				X: -5, Y: 7, Width: 640, Height: 480, BorderWidth: 2,
				ValueMask: xproto.ConfigWindowX | xproto.ConfigWindowWidth,
			},
			want: wm.ConfigureRequestEvent{
				Parent: 0x100, Window: 0x200, Sibling: 0x300,
				X: -5, Y: 7, Width: 640, Height: 480, BorderWidth: 2,
				StackMode: wm.StackModeBelow,
				ValueMask: wm.ConfigX | wm.ConfigWidth,
			},
		},
		`unmap_notify`: {
			in:   xproto.UnmapNotifyEvent{Event: 0x201, Window: 0x200, FromConfigure: true},
			want: wm.UnmapNotifyEvent{Event: 0x201, Window: 0x200, FromConfigure: true},
		},
		`create_notify`: {
			in: xproto.CreateNotifyEvent{Parent: 0x100, Window: 0x200, X: 1, Y: 2, Width: 3, Height: 4, BorderWidth: 5},
			want: wm.CreateNotifyEvent{
				Parent: 0x100, Window: 0x200,
				Geometry:    wm.Geometry{X: 1, Y: 2, Width: 3, Height: 4},
				BorderWidth: 5,
			},
		},
		`reparent_notify`: {
			in:   xproto.ReparentNotifyEvent{Event: 0x100, Window: 0x200, Parent: 0x201, X: -1, Y: 1},
			want: wm.ReparentNotifyEvent{Event: 0x100, Window: 0x200, Parent: 0x201, X: -1, Y: 1},
		},
		`destroy_notify`: {
			in:   xproto.DestroyNotifyEvent{Event: 0x100, Window: 0x200},
			want: wm.DestroyNotifyEvent{Event: 0x100, Window: 0x200},
		},
		`key_press`: {
			in:   xproto.KeyPressEvent{Detail: 38},
			want: wm.UnknownEvent{Name: `KeyPress`},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, x11.DecodeEvent(tc.in))
		})
	}
	assert.Equal(t, wm.UnknownEvent{}, x11.DecodeEvent(nil))
}

func TestConfigureRequestChanges(t *testing.T) {
	ev := x11.DecodeEvent(xproto.ConfigureRequestEvent{
		Window: 0x200, X: 10, Y: 20, Width: 30, Height: 40,
		ValueMask: xproto.ConfigWindowWidth | xproto.ConfigWindowHeight,
	})
	req, ok := ev.(wm.ConfigureRequestEvent)
	if !assert.True(t, ok) {
		return
	}
	mask, changes := req.Changes()
	assert.Equal(t, wm.ConfigWidth|wm.ConfigHeight, mask)
	valueMask, values := x11.ConfigureValues(mask, changes)
	assert.Equal(t, uint16(xproto.ConfigWindowWidth|xproto.ConfigWindowHeight), valueMask)
	assert.Equal(t, []uint32{30, 40}, values)
}

func TestDecodeError(t *testing.T) {
	access := x11.DecodeError(xproto.AccessError{Sequence: 9, NiceName: `Access`, BadValue: 0x100, MajorOpcode: 2})
	assert.Equal(t, wm.ErrorEvent{
		Code:        wm.ErrorCodeBadAccess,
		Sequence:    9,
		BadValue:    0x100,
		MajorOpcode: 2,
		Message:     `Access`,
	}, access)

	window := x11.DecodeError(xproto.WindowError{Sequence: 3, BadValue: 0x42, NiceName: `Window`})
	assert.Equal(t, wm.ErrorCodeBadWindow, window.Code)
	assert.Equal(t, uint32(0x42), window.BadValue)
	assert.Equal(t, uint16(3), window.Sequence)

	assert.Equal(t, wm.ErrorCodeBadMatch, x11.DecodeError(xproto.MatchError{}).Code)
	assert.Equal(t, wm.ErrorEvent{}, x11.DecodeError(nil))

	other := x11.DecodeError(errors.New(`connection reset`))
	assert.Equal(t, wm.ErrorCodeUnknown, other.Code)
	assert.Equal(t, `connection reset`, other.Message)
}

func TestConfigureValuesOrder(t *testing.T) {
	changes := wm.WindowChanges{
		X: -10, Y: 20, Width: 300, Height: 200, BorderWidth: 1,
		Sibling: 0x77, StackMode: wm.StackModeOpposite,
	}
	valueMask, values := x11.ConfigureValues(wm.ConfigAll, changes)
	assert.Equal(t, uint16(0x7f), valueMask)
	assert.Equal(t, []uint32{0xfffffff6, 20, 300, 200, 1, 0x77, uint32(xproto.StackModeOpposite)}, values)

	valueMask, values = x11.ConfigureValues(wm.ConfigY|wm.ConfigStackMode, changes)
	assert.Equal(t, uint16(xproto.ConfigWindowY|xproto.ConfigWindowStackMode), valueMask)
	assert.Equal(t, []uint32{20, uint32(wm.StackModeOpposite)}, values)

	valueMask, values = x11.ConfigureValues(0, changes)
	assert.Zero(t, valueMask)
	assert.Empty(t, values)
}

func TestMapState(t *testing.T) {
	assert.Equal(t, wm.MapStateUnmapped, x11.MapState(xproto.MapStateUnmapped))
	assert.Equal(t, wm.MapStateUnviewable, x11.MapState(xproto.MapStateUnviewable))
	assert.Equal(t, wm.MapStateViewable, x11.MapState(xproto.MapStateViewable))
}
