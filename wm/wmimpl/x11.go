//go:build unix && !noX11 && !android && !darwin && !js

// based on xgbutil examples

package wmimpl

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jezek/xgb/res"
	"github.com/jezek/xgb/xproto"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/srlehn/xgbutil"
	"github.com/srlehn/xgbutil/ewmh"
	"github.com/srlehn/xgbutil/icccm"
	"github.com/srlehn/xgbutil/xwindow"

	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/wm"
	"github.com/srlehn/framewm/wm/x11"
)

const implName = `x11`

var (
	_ wm.Display   = (*displayX11)(nil)
	_ wm.Announcer = (*displayX11)(nil)
)

// displayX11 ...
type displayX11 struct {
	*xgbutil.XUtil

	handlerMu sync.Mutex
	handler   wm.ErrorHandler

	// events read by Sync before the pump goroutine runs;
	// only touched by the goroutine calling Sync and NextEvent
	pending []wm.Event

	pumpOnce sync.Once
	pumping  atomic.Bool
	events   chan wm.Event
	quit     chan struct{}
	quitOnce sync.Once
}

func openDisplay(displayName string) (wm.Display, error) {
	d, err := newDisplay(displayName)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func newDisplay(displayName string) (*displayX11, error) {
	// empty displayName: DISPLAY environment variable
	conn, err := xgbutil.NewConnDisplay(displayName)
	if err != nil {
		return nil, errors.New(err)
	}
	return &displayX11{
		XUtil:  conn,
		events: make(chan wm.Event),
		quit:   make(chan struct{}),
	}, nil
}

func (d *displayX11) Root() wm.Window {
	if d == nil || d.XUtil == nil {
		return wm.WindowNone
	}
	return wm.Window(d.RootWin())
}

func (d *displayX11) SelectInput(w wm.Window, mask wm.EventMask) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	xproto.ChangeWindowAttributes(d.Conn(), xproto.Window(w), xproto.CwEventMask,
		[]uint32{x11.EventMaskValue(mask)})
	return nil
}

// Sync does a round trip. Errors of earlier unchecked requests are queued
// before the reply, so they can be drained afterwards as long as the event
// pump is not running yet.
func (d *displayX11) Sync(discard bool) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	if _, err := xproto.GetInputFocus(d.Conn()).Reply(); err != nil {
		return errors.New(err)
	}
	if d.pumping.Load() {
		// the pump reports errors itself
		return nil
	}
	for {
		ev, xerr := d.Conn().PollForEvent()
		if ev == nil && xerr == nil {
			break
		}
		if xerr != nil {
			d.reportError(xerr)
			continue
		}
		if !discard {
			d.pending = append(d.pending, x11.DecodeEvent(ev))
		}
	}
	if discard {
		d.pending = nil
	}
	return nil
}

func (d *displayX11) NextEvent(ctx context.Context) (wm.Event, error) {
	if d == nil || d.XUtil == nil {
		return nil, errors.NilReceiver()
	}
	if len(d.pending) > 0 {
		ev := d.pending[0]
		d.pending = d.pending[1:]
		return ev, nil
	}
	d.pumpOnce.Do(func() {
		d.pumping.Store(true)
		go d.pump()
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-d.events:
		if !ok {
			return nil, errors.New(consts.ErrDisplayClosed)
		}
		return ev, nil
	}
}

// pump is the only reader of the connection once the event loop started.
func (d *displayX11) pump() {
	defer close(d.events)
	for {
		ev, xerr := d.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			// connection closed
			return
		}
		if xerr != nil {
			d.reportError(xerr)
			continue
		}
		select {
		case d.events <- x11.DecodeEvent(ev):
		case <-d.quit:
			return
		}
	}
}

func (d *displayX11) SetErrorHandler(h wm.ErrorHandler) wm.ErrorHandler {
	if d == nil {
		return nil
	}
	d.handlerMu.Lock()
	defer d.handlerMu.Unlock()
	prev := d.handler
	d.handler = h
	return prev
}

func (d *displayX11) reportError(err error) {
	d.handlerMu.Lock()
	h := d.handler
	d.handlerMu.Unlock()
	if h != nil {
		h(x11.DecodeError(err))
	}
}

func (d *displayX11) QueryTree(w wm.Window) (*wm.Tree, error) {
	if d == nil || d.XUtil == nil {
		return nil, errors.NilReceiver()
	}
	repl, err := xproto.QueryTree(d.Conn(), xproto.Window(w)).Reply()
	if err != nil {
		return nil, errors.New(err)
	}
	if repl == nil {
		return nil, errors.New(`nil QueryTree reply`)
	}
	tree := &wm.Tree{
		Root:     wm.Window(repl.Root),
		Parent:   wm.Window(repl.Parent),
		Children: make([]wm.Window, 0, len(repl.Children)),
	}
	for _, child := range repl.Children {
		tree.Children = append(tree.Children, wm.Window(child))
	}
	return tree, nil
}

func (d *displayX11) WindowAttributes(w wm.Window) (*wm.Attributes, error) {
	if d == nil || d.XUtil == nil {
		return nil, errors.NilReceiver()
	}
	attrCookie := xproto.GetWindowAttributes(d.Conn(), xproto.Window(w))
	geomCookie := xproto.GetGeometry(d.Conn(), xproto.Drawable(w))
	attrRepl, errAttr := attrCookie.Reply()
	geomRepl, errGeom := geomCookie.Reply()
	if err := errors.Join(errAttr, errGeom); err != nil {
		return nil, err
	}
	if attrRepl == nil || geomRepl == nil {
		return nil, errors.New(`nil window attributes reply`)
	}
	return &wm.Attributes{
		Geometry: wm.Geometry{
			X:      int(geomRepl.X),
			Y:      int(geomRepl.Y),
			Width:  int(geomRepl.Width),
			Height: int(geomRepl.Height),
		},
		BorderWidth:      int(geomRepl.BorderWidth),
		OverrideRedirect: attrRepl.OverrideRedirect,
		MapState:         x11.MapState(attrRepl.MapState),
	}, nil
}

func (d *displayX11) CreateFrame(parent wm.Window, geom wm.Geometry, borderWidth int, borderColor, background uint32) (wm.Window, error) {
	if d == nil || d.XUtil == nil {
		return wm.WindowNone, errors.NilReceiver()
	}
	frame, err := x11.CreateFrame(d.XUtil, xproto.Window(parent), geom, borderWidth, borderColor, background)
	if err != nil {
		return wm.WindowNone, err
	}
	return wm.Window(frame), nil
}

func (d *displayX11) MapWindow(w wm.Window) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	xwindow.New(d.XUtil, xproto.Window(w)).Map()
	return nil
}

func (d *displayX11) UnmapWindow(w wm.Window) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	xwindow.New(d.XUtil, xproto.Window(w)).Unmap()
	return nil
}

func (d *displayX11) DestroyWindow(w wm.Window) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	xproto.DestroyWindow(d.Conn(), xproto.Window(w))
	return nil
}

func (d *displayX11) ReparentWindow(w, parent wm.Window, x, y int) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	xproto.ReparentWindow(d.Conn(), xproto.Window(w), xproto.Window(parent), int16(x), int16(y))
	return nil
}

func (d *displayX11) AddToSaveSet(w wm.Window) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	xproto.ChangeSaveSet(d.Conn(), xproto.SetModeInsert, xproto.Window(w))
	return nil
}

func (d *displayX11) RemoveFromSaveSet(w wm.Window) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	xproto.ChangeSaveSet(d.Conn(), xproto.SetModeDelete, xproto.Window(w))
	return nil
}

func (d *displayX11) ConfigureWindow(w wm.Window, mask wm.ConfigMask, changes wm.WindowChanges) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	valueMask, values := x11.ConfigureValues(mask, changes)
	if valueMask == 0 {
		return nil
	}
	xproto.ConfigureWindow(d.Conn(), xproto.Window(w), valueMask, values)
	return nil
}

func (d *displayX11) GrabServer() error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	xproto.GrabServer(d.Conn())
	return nil
}

func (d *displayX11) UngrabServer() error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	xproto.UngrabServer(d.Conn())
	return nil
}

func (d *displayX11) Announce(name string) error {
	if d == nil || d.XUtil == nil {
		return errors.NilReceiver()
	}
	_, err := x11.Announce(d.XUtil, name)
	return err
}

func (d *displayX11) Close() error {
	if d == nil || d.XUtil == nil {
		return nil
	}
	d.quitOnce.Do(func() {
		close(d.quit)
		if conn := d.Conn(); conn != nil {
			conn.Close()
		}
	})
	return nil
}

// ClientInfo collects name, class and owning process of a client.
// Fields that cannot be determined stay empty.
func (d *displayX11) ClientInfo(w wm.Window) (*wm.ClientInfo, error) {
	if d == nil || d.XUtil == nil {
		return nil, errors.NilReceiver()
	}
	xw := xproto.Window(w)
	info := &wm.ClientInfo{}
	var errs []error
	name, err := d.getWindowName(xw)
	if err != nil {
		errs = append(errs, err)
	}
	info.Name = name
	class, instance, err := d.getWindowClass(xw)
	if err != nil {
		errs = append(errs, err)
	}
	info.Class, info.Instance = class, instance
	pid, err := d.getWindowPID(xw)
	if err != nil {
		errs = append(errs, err)
	} else {
		info.PID = pid
		procName, err := processName(pid)
		if err != nil {
			errs = append(errs, err)
		}
		info.Process = procName
	}
	return info, errors.Join(errs...)
}

// getWindowName ...
func (d *displayX11) getWindowName(w xproto.Window) (string, error) {
	name, errE := ewmh.WmNameGet(d.XUtil, w)
	if errE == nil && len(name) > 0 {
		return name, nil
	}

	// If there was a problem getting _NET_WM_NAME or if its empty,
	// try the old-school version.
	name, errI := icccm.WmNameGet(d.XUtil, w)
	if errI == nil {
		return name, nil
	}

	return ``, errors.Join(errE, errI)
}

// getWindowClass ...
func (d *displayX11) getWindowClass(w xproto.Window) (class, instance string, _ error) {
	cl, err := icccm.WmClassGet(d.XUtil, w)
	if err != nil {
		return ``, ``, errors.New(err)
	}
	if cl == nil {
		return ``, ``, errors.New(`nil icccm.WmClassGet() client`)
	}
	return cl.Class, cl.Instance, nil
}

// getWindowPID asks the X-Resource extension first, the client set
// _NET_WM_PID is the unreliable fallback.
func (d *displayX11) getWindowPID(w xproto.Window) (uint64, error) {
	pid, errQCI := d.getWindowPIDQueryClientIDs(w)
	if errQCI == nil && pid > 0 {
		return pid, nil
	}
	pid, errNWP := d.getWindowPIDNetWMPID(w)
	if errNWP == nil {
		return pid, nil
	}
	return 0, errors.Join(errQCI, errNWP)
}

func (d *displayX11) getWindowPIDQueryClientIDs(w xproto.Window) (uint64, error) {
	if err := res.Init(d.Conn()); err != nil {
		return 0, errors.New(err)
	}
	clientIDSpecs := []res.ClientIdSpec{{
		Client: uint32(w),
		Mask:   res.ClientIdMaskLocalClientPID,
	}}
	repl, err := res.QueryClientIds(d.Conn(), uint32(len(clientIDSpecs)), clientIDSpecs).Reply()
	if err != nil {
		return 0, errors.New(err)
	}
	if repl == nil {
		return 0, errors.New(`nil QueryClientIds reply`)
	}
	for _, id := range repl.Ids {
		if len(id.Value) != 1 || id.Spec.Client != uint32(w) {
			continue
		}
		return uint64(id.Value[0]), nil
	}
	return 0, nil
}

func (d *displayX11) getWindowPIDNetWMPID(w xproto.Window) (uint64, error) {
	pid, err := ewmh.WmPidGet(d.XUtil, w)
	if err != nil {
		return 0, errors.New(err)
	}
	return uint64(pid), nil
}

func processName(pid uint64) (string, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return ``, errors.New(err)
	}
	name, err := proc.Name()
	if err != nil {
		return ``, errors.New(err)
	}
	return name, nil
}
