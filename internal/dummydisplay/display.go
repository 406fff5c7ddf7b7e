// Package dummydisplay is an in-memory wm.Display for tests. It keeps a
// window tree, records every request and replays scripted events.
package dummydisplay

import (
	"context"
	"sort"

	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/wm"
)

type Op string

const (
	OpSelectInput       Op = `SelectInput`
	OpSync              Op = `Sync`
	OpQueryTree         Op = `QueryTree`
	OpWindowAttributes  Op = `WindowAttributes`
	OpCreateFrame       Op = `CreateFrame`
	OpMapWindow         Op = `MapWindow`
	OpUnmapWindow       Op = `UnmapWindow`
	OpDestroyWindow     Op = `DestroyWindow`
	OpReparentWindow    Op = `ReparentWindow`
	OpAddToSaveSet      Op = `AddToSaveSet`
	OpRemoveFromSaveSet Op = `RemoveFromSaveSet`
	OpConfigureWindow   Op = `ConfigureWindow`
	OpGrabServer        Op = `GrabServer`
	OpUngrabServer      Op = `UngrabServer`
	OpClientInfo        Op = `ClientInfo`
	OpAnnounce          Op = `Announce`
)

// Request is one recorded call.
type Request struct {
	Op        Op
	Window    wm.Window
	Parent    wm.Window
	EventMask wm.EventMask
	Mask      wm.ConfigMask
	Changes   wm.WindowChanges
	Geometry  wm.Geometry
}

// Window is the simulated server side state of a window.
type Window struct {
	wm.Attributes
	ID        wm.Window
	Parent    wm.Window
	EventMask wm.EventMask
	InSaveSet bool
	// frame decoration values passed to CreateFrame
	BorderColor uint32
	Background  uint32
	Info        wm.ClientInfo
}

var (
	_ wm.Display   = (*Display)(nil)
	_ wm.Announcer = (*Display)(nil)
)

type Display struct {
	root    wm.Window
	nextID  wm.Window
	windows map[wm.Window]*Window
	// redirectOwner holds SubstructureRedirect on the root when another
	// manager is simulated
	redirectOwner bool

	requests  []Request
	events    []wm.Event
	errors    []wm.ErrorEvent
	handler   wm.ErrorHandler
	failOps   map[Op]error
	grabbed   bool
	closed    bool
	announced string
}

const rootID wm.Window = 0x100

func New() *Display {
	d := &Display{
		root:    rootID,
		nextID:  rootID + 1,
		windows: make(map[wm.Window]*Window),
		failOps: make(map[Op]error),
	}
	d.windows[rootID] = &Window{
		ID: rootID,
		Attributes: wm.Attributes{
			Geometry: wm.Geometry{Width: 1920, Height: 1080},
			MapState: wm.MapStateViewable,
		},
	}
	return d
}

// AddWindow creates a top-level window as an application would.
func (d *Display) AddWindow(attrs wm.Attributes) wm.Window {
	id := d.newID()
	d.windows[id] = &Window{ID: id, Parent: d.root, Attributes: attrs}
	return id
}

// SetClientInfo sets the metadata returned by ClientInfo.
func (d *Display) SetClientInfo(w wm.Window, info wm.ClientInfo) {
	if win, ok := d.windows[w]; ok {
		win.Info = info
	}
}

// SetOtherManager simulates another client holding SubstructureRedirect on
// the root window.
func (d *Display) SetOtherManager(running bool) { d.redirectOwner = running }

// FailOn makes every call of op return err without changing state.
// A nil err clears the failure.
func (d *Display) FailOn(op Op, err error) {
	if err == nil {
		delete(d.failOps, op)
		return
	}
	d.failOps[op] = err
}

// QueueEvents appends events returned by NextEvent in order.
func (d *Display) QueueEvents(evs ...wm.Event) { d.events = append(d.events, evs...) }

// QueueError schedules a protocol error for the next Sync or NextEvent.
func (d *Display) QueueError(e wm.ErrorEvent) { d.errors = append(d.errors, e) }

// Window returns a copy of the state of w.
func (d *Display) Window(w wm.Window) (Window, bool) {
	win, ok := d.windows[w]
	if !ok {
		return Window{}, false
	}
	return *win, true
}

func (d *Display) Exists(w wm.Window) bool {
	_, ok := d.windows[w]
	return ok
}

// Children returns the children of w ordered by id.
func (d *Display) Children(w wm.Window) []wm.Window {
	var children []wm.Window
	for id, win := range d.windows {
		if win.Parent == w && id != d.root {
			children = append(children, id)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	return children
}

func (d *Display) Requests() []Request { return append([]Request(nil), d.requests...) }

// Ops lists the recorded operations, optionally filtered to window w.
func (d *Display) Ops(w ...wm.Window) []Op {
	var ops []Op
	for _, r := range d.requests {
		if len(w) > 0 && r.Window != w[0] {
			continue
		}
		ops = append(ops, r.Op)
	}
	return ops
}

func (d *Display) ResetRequests() { d.requests = nil }

func (d *Display) Grabbed() bool     { return d.grabbed }
func (d *Display) Closed() bool      { return d.closed }
func (d *Display) Announced() string { return d.announced }

func (d *Display) newID() wm.Window {
	id := d.nextID
	d.nextID++
	return id
}

func (d *Display) record(r Request) error {
	d.requests = append(d.requests, r)
	if d.closed {
		return errors.New(consts.ErrDisplayClosed)
	}
	if err, ok := d.failOps[r.Op]; ok {
		return errors.New(err)
	}
	return nil
}

// lookup queues a BadWindow error like the server does for unchecked
// requests on destroyed windows.
func (d *Display) lookup(w wm.Window) (*Window, bool) {
	win, ok := d.windows[w]
	if !ok {
		d.errors = append(d.errors, wm.ErrorEvent{Code: wm.ErrorCodeBadWindow, BadValue: uint32(w)})
	}
	return win, ok
}

func (d *Display) deliverErrors() {
	errs := d.errors
	d.errors = nil
	if d.handler == nil {
		return
	}
	for _, e := range errs {
		d.handler(e)
	}
}

func (d *Display) Root() wm.Window { return d.root }

func (d *Display) SelectInput(w wm.Window, mask wm.EventMask) error {
	if err := d.record(Request{Op: OpSelectInput, Window: w, EventMask: mask}); err != nil {
		return err
	}
	win, ok := d.lookup(w)
	if !ok {
		return nil
	}
	if w == d.root && d.redirectOwner && mask&wm.EventMaskSubstructureRedirect != 0 {
		d.errors = append(d.errors, wm.ErrorEvent{
			Code:        wm.ErrorCodeBadAccess,
			BadValue:    uint32(w),
			MajorOpcode: 2, // ChangeWindowAttributes
			Message:     `Access`,
		})
		return nil
	}
	win.EventMask = mask
	return nil
}

func (d *Display) Sync(discard bool) error {
	if err := d.record(Request{Op: OpSync}); err != nil {
		return err
	}
	d.deliverErrors()
	if discard {
		d.events = nil
	}
	return nil
}

// NextEvent returns the queued events in order and consts.ErrDisplayClosed
// once the script is exhausted.
func (d *Display) NextEvent(ctx context.Context) (wm.Event, error) {
	d.deliverErrors()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.closed || len(d.events) == 0 {
		return nil, errors.New(consts.ErrDisplayClosed)
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

func (d *Display) QueryTree(w wm.Window) (*wm.Tree, error) {
	if err := d.record(Request{Op: OpQueryTree, Window: w}); err != nil {
		return nil, err
	}
	win, ok := d.windows[w]
	if !ok {
		return nil, errors.New(wm.ErrorEvent{Code: wm.ErrorCodeBadWindow, BadValue: uint32(w)})
	}
	return &wm.Tree{Root: d.root, Parent: win.Parent, Children: d.Children(w)}, nil
}

func (d *Display) WindowAttributes(w wm.Window) (*wm.Attributes, error) {
	if err := d.record(Request{Op: OpWindowAttributes, Window: w}); err != nil {
		return nil, err
	}
	win, ok := d.windows[w]
	if !ok {
		return nil, errors.New(wm.ErrorEvent{Code: wm.ErrorCodeBadWindow, BadValue: uint32(w)})
	}
	attrs := win.Attributes
	return &attrs, nil
}

func (d *Display) CreateFrame(parent wm.Window, geom wm.Geometry, borderWidth int, borderColor, background uint32) (wm.Window, error) {
	if err := d.record(Request{Op: OpCreateFrame, Parent: parent, Geometry: geom}); err != nil {
		return wm.WindowNone, err
	}
	id := d.newID()
	d.requests[len(d.requests)-1].Window = id
	d.windows[id] = &Window{
		ID:     id,
		Parent: parent,
		Attributes: wm.Attributes{
			Geometry:    geom,
			BorderWidth: borderWidth,
			MapState:    wm.MapStateUnmapped,
		},
		BorderColor: borderColor,
		Background:  background,
	}
	return id, nil
}

func (d *Display) MapWindow(w wm.Window) error {
	if err := d.record(Request{Op: OpMapWindow, Window: w}); err != nil {
		return err
	}
	if win, ok := d.lookup(w); ok {
		win.MapState = wm.MapStateViewable
	}
	return nil
}

func (d *Display) UnmapWindow(w wm.Window) error {
	if err := d.record(Request{Op: OpUnmapWindow, Window: w}); err != nil {
		return err
	}
	if win, ok := d.lookup(w); ok {
		win.MapState = wm.MapStateUnmapped
	}
	return nil
}

// DestroyWindow destroys w and its whole subtree.
func (d *Display) DestroyWindow(w wm.Window) error {
	if err := d.record(Request{Op: OpDestroyWindow, Window: w}); err != nil {
		return err
	}
	if _, ok := d.lookup(w); ok {
		d.destroy(w)
	}
	return nil
}

func (d *Display) destroy(w wm.Window) {
	for _, child := range d.Children(w) {
		d.destroy(child)
	}
	delete(d.windows, w)
}

func (d *Display) ReparentWindow(w, parent wm.Window, x, y int) error {
	if err := d.record(Request{Op: OpReparentWindow, Window: w, Parent: parent, Geometry: wm.Geometry{X: x, Y: y}}); err != nil {
		return err
	}
	win, ok := d.lookup(w)
	if !ok {
		return nil
	}
	if _, ok := d.lookup(parent); !ok {
		return nil
	}
	win.Parent = parent
	win.X, win.Y = x, y
	return nil
}

func (d *Display) AddToSaveSet(w wm.Window) error {
	if err := d.record(Request{Op: OpAddToSaveSet, Window: w}); err != nil {
		return err
	}
	if win, ok := d.lookup(w); ok {
		win.InSaveSet = true
	}
	return nil
}

func (d *Display) RemoveFromSaveSet(w wm.Window) error {
	if err := d.record(Request{Op: OpRemoveFromSaveSet, Window: w}); err != nil {
		return err
	}
	if win, ok := d.lookup(w); ok {
		win.InSaveSet = false
	}
	return nil
}

func (d *Display) ConfigureWindow(w wm.Window, mask wm.ConfigMask, changes wm.WindowChanges) error {
	if err := d.record(Request{Op: OpConfigureWindow, Window: w, Mask: mask, Changes: changes}); err != nil {
		return err
	}
	if win, ok := d.lookup(w); ok {
		changes.Apply(mask, &win.Attributes)
	}
	return nil
}

func (d *Display) SetErrorHandler(h wm.ErrorHandler) wm.ErrorHandler {
	prev := d.handler
	d.handler = h
	return prev
}

func (d *Display) GrabServer() error {
	if err := d.record(Request{Op: OpGrabServer}); err != nil {
		return err
	}
	d.grabbed = true
	return nil
}

func (d *Display) UngrabServer() error {
	if err := d.record(Request{Op: OpUngrabServer}); err != nil {
		return err
	}
	d.grabbed = false
	return nil
}

func (d *Display) ClientInfo(w wm.Window) (*wm.ClientInfo, error) {
	if err := d.record(Request{Op: OpClientInfo, Window: w}); err != nil {
		return nil, err
	}
	win, ok := d.windows[w]
	if !ok {
		return nil, errors.New(wm.ErrorEvent{Code: wm.ErrorCodeBadWindow, BadValue: uint32(w)})
	}
	info := win.Info
	return &info, nil
}

func (d *Display) Announce(name string) error {
	if err := d.record(Request{Op: OpAnnounce}); err != nil {
		return err
	}
	d.announced = name
	return nil
}

func (d *Display) Close() error {
	d.closed = true
	return nil
}
