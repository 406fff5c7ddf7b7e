package manager

import (
	"log/slog"

	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/internal/logx"
	"github.com/srlehn/framewm/wm"
)

// Frame reparents client into a newly created frame window and records the
// pair. With adopted set (window existed before the manager started),
// override-redirect and unmapped windows are skipped.
//
// Requests are optimistic: the server reports rejections asynchronously.
// Only a local failure aborts, in which case the partial frame is torn down
// and nothing is recorded.
//
// Frame must be called from the goroutine running the manager.
func (m *Manager) Frame(client wm.Window, adopted bool) (wm.Window, error) {
	if m == nil || m.display == nil {
		return wm.WindowNone, errors.NilReceiver()
	}
	if frame, ok := m.clients.Frame(client); ok {
		return frame, errors.New(consts.ErrClientTracked)
	}
	attrs, err := m.display.WindowAttributes(client)
	if err != nil {
		// the client might be gone already
		return wm.WindowNone, err
	}
	if adopted {
		if attrs.OverrideRedirect {
			return wm.WindowNone, errors.New(consts.ErrSkipOverrideRedirect)
		}
		if attrs.MapState != wm.MapStateViewable {
			return wm.WindowNone, errors.New(consts.ErrSkipNotViewable)
		}
	}

	frame, err := m.display.CreateFrame(m.root, attrs.Geometry, m.borderWidth, m.borderColor, m.background)
	if err != nil {
		return wm.WindowNone, err
	}
	var inSaveSet, reparented bool
	abort := func(err error) (wm.Window, error) {
		if reparented {
			logx.IsErr(m.display.ReparentWindow(client, m.root, attrs.X, attrs.Y), m, slog.LevelWarn, `client`, client)
		}
		if inSaveSet {
			logx.IsErr(m.display.RemoveFromSaveSet(client), m, slog.LevelWarn, `client`, client)
		}
		logx.IsErr(m.display.DestroyWindow(frame), m, slog.LevelWarn, `frame`, frame)
		return wm.WindowNone, err
	}

	if err := m.display.SelectInput(frame, wm.ManagerEventMask); err != nil {
		return abort(err)
	}
	if err := m.display.AddToSaveSet(client); err != nil {
		return abort(err)
	}
	inSaveSet = true
	if err := m.display.ReparentWindow(client, frame, 0, 0); err != nil {
		return abort(err)
	}
	reparented = true
	if err := m.display.MapWindow(frame); err != nil {
		return abort(err)
	}
	if err := m.clients.Add(client, frame); err != nil {
		return abort(err)
	}

	logx.Info(`framed client`, m, append([]any{`client`, client, `frame`, frame, `adopted`, adopted}, m.clientLogArgs(client)...)...)
	return frame, nil
}

// Unframe undoes Frame: the client is moved back to the root window and
// the frame is destroyed. The registry entry is removed last.
//
// Unframe must be called from the goroutine running the manager.
func (m *Manager) Unframe(client wm.Window) error {
	if m == nil || m.display == nil {
		return errors.NilReceiver()
	}
	frame, ok := m.clients.Frame(client)
	if !ok {
		return errors.New(consts.ErrClientNotFound)
	}
	if !m.clients.consistent(client) {
		err := errors.New(consts.ErrRegistryInvariant)
		logx.Error(`registry out of sync`, m, `client`, client, `frame`, frame, `stack`, string(err.Stack()))
		m.clients.Remove(client)
		return err
	}

	errs := []error{
		m.display.UnmapWindow(frame),
		m.display.ReparentWindow(client, m.root, 0, 0),
		m.display.RemoveFromSaveSet(client),
		m.display.DestroyWindow(frame),
	}
	m.clients.Remove(client)

	logx.Info(`unframed client`, m, `client`, client, `frame`, frame)
	return errors.Join(errs...)
}

// clientLogArgs returns slog args describing client, best effort.
func (m *Manager) clientLogArgs(client wm.Window) []any {
	info, err := m.display.ClientInfo(client)
	if err != nil {
		logx.Trace(`incomplete client info`, m, `client`, client, `error`, err.Error())
	}
	if info == nil {
		return nil
	}
	var args []any
	if len(info.Name) > 0 {
		args = append(args, `name`, info.Name)
	}
	if len(info.Class) > 0 {
		args = append(args, `class`, info.Class)
	}
	if info.PID > 0 {
		args = append(args, `pid`, info.PID)
	}
	if len(info.Process) > 0 {
		args = append(args, `process`, info.Process)
	}
	return args
}
