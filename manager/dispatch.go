package manager

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/internal/logx"
	"github.com/srlehn/framewm/wm"
)

// Serve processes events one at a time in delivery order until ctx is done
// or the display is closed. A failing event never ends the loop.
func (m *Manager) Serve(ctx context.Context) error {
	if m == nil || m.display == nil {
		return errors.NilReceiver()
	}
	if s := m.State(); s != StateRunning {
		return errors.Errorf(`%w: %s`, consts.ErrWrongState, s)
	}
	for {
		ev, err := m.display.NextEvent(ctx)
		if err != nil {
			return err
		}
		m.HandleEvent(ev)
	}
}

// HandleEvent reacts to a single event.
func (m *Manager) HandleEvent(ev wm.Event) {
	if m == nil || ev == nil {
		return
	}
	defer m.recoverEvent(ev)

	switch e := ev.(type) {
	case wm.MapRequestEvent:
		m.onMapRequest(e)
	case wm.ConfigureRequestEvent:
		m.onConfigureRequest(e)
	case wm.UnmapNotifyEvent:
		m.onUnmapNotify(e)
	case wm.CreateNotifyEvent, wm.ConfigureNotifyEvent, wm.MapNotifyEvent,
		wm.DestroyNotifyEvent, wm.ReparentNotifyEvent:
		logx.Trace(`notification`, m, `event`, ev.EventName())
	default:
		logx.Debug(`ignored event`, m, `event`, ev.EventName())
	}
}

// The frame is created and mapped before the client's own map request is
// passed on.
func (m *Manager) onMapRequest(e wm.MapRequestEvent) {
	if _, tracked := m.clients.Frame(e.Window); !tracked {
		if _, err := m.Frame(e.Window, false); err != nil {
			logx.IsErr(err, m, slog.LevelWarn, `client`, e.Window)
		}
	}
	logx.IsErr(m.display.MapWindow(e.Window), m, slog.LevelWarn, `client`, e.Window)
}

// Configure requests are granted as requested; the frame of a managed
// client receives the same change-set first.
func (m *Manager) onConfigureRequest(e wm.ConfigureRequestEvent) {
	mask, changes := e.Changes()
	if frame, tracked := m.clients.Frame(e.Window); tracked {
		logx.IsErr(m.display.ConfigureWindow(frame, mask, changes), m, slog.LevelWarn, `frame`, frame)
	}
	logx.IsErr(m.display.ConfigureWindow(e.Window, mask, changes), m, slog.LevelWarn, `client`, e.Window)
	logx.Trace(`configured`, m, `window`, e.Window, `mask`, fmt.Sprintf(`%07b`, uint16(mask)))
}

func (m *Manager) onUnmapNotify(e wm.UnmapNotifyEvent) {
	if _, tracked := m.clients.Frame(e.Window); !tracked {
		// frames and unmanaged windows, including our own unmap of a frame
		logx.Debug(`ignoring unmap of unmanaged window`, m, `window`, e.Window)
		return
	}
	if e.Event == m.root {
		// reparenting a mapped pre-existing window into its frame unmaps it,
		// reported to the old parent
		logx.Debug(`ignoring unmap caused by reparenting`, m, `client`, e.Window)
		return
	}
	logx.IsErr(m.Unframe(e.Window), m, slog.LevelWarn, `client`, e.Window)
}

func (m *Manager) recoverEvent(ev wm.Event) {
	r := recover()
	if r == nil {
		return
	}
	logx.Error(`panic while handling event`, m, `event`, ev.EventName(), `panic`, fmt.Sprint(r), `stack`, string(debug.Stack()))
}
