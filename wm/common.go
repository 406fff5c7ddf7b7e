package wm

import (
	"context"
	"fmt"

	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/errors"
)

// Display is the connection to the display server as seen by the manager.
//
// Requests are fire-and-forget: a nil error only means the request was
// queued. Protocol errors are delivered to the installed ErrorHandler.
type Display interface {
	Root() Window
	SelectInput(w Window, mask EventMask) error
	// Sync blocks until all queued requests were processed by the server.
	// Protocol errors caused by them are passed to the ErrorHandler before
	// Sync returns. With discard set, pending events are dropped.
	Sync(discard bool) error
	// NextEvent blocks until the next event arrives or ctx is done.
	NextEvent(ctx context.Context) (Event, error)
	QueryTree(w Window) (*Tree, error)
	WindowAttributes(w Window) (*Attributes, error)
	CreateFrame(parent Window, geom Geometry, borderWidth int, borderColor, background uint32) (Window, error)
	MapWindow(w Window) error
	UnmapWindow(w Window) error
	DestroyWindow(w Window) error
	ReparentWindow(w, parent Window, x, y int) error
	AddToSaveSet(w Window) error
	RemoveFromSaveSet(w Window) error
	ConfigureWindow(w Window, mask ConfigMask, changes WindowChanges) error
	// SetErrorHandler installs h and returns the previously installed handler.
	SetErrorHandler(h ErrorHandler) ErrorHandler
	GrabServer() error
	UngrabServer() error
	ClientInfo(w Window) (*ClientInfo, error)
	Close() error
}

// Announcer is implemented by displays that can advertise the running
// window manager to clients (_NET_SUPPORTING_WM_CHECK).
type Announcer interface {
	Announce(name string) error
}

// ErrorHandler receives asynchronous protocol errors. It may be called from
// another goroutine than the one reading events.
type ErrorHandler func(ErrorEvent)

type Window uint32

const WindowNone Window = 0

func (w Window) String() string { return fmt.Sprintf(`0x%x`, uint32(w)) }

type MapState uint8

const (
	MapStateUnmapped MapState = iota
	MapStateUnviewable
	MapStateViewable
)

func (s MapState) String() string {
	switch s {
	case MapStateUnmapped:
		return `unmapped`
	case MapStateUnviewable:
		return `unviewable`
	case MapStateViewable:
		return `viewable`
	default:
		return fmt.Sprintf(`map-state(%d)`, uint8(s))
	}
}

type Geometry struct {
	X, Y          int
	Width, Height int
}

type Attributes struct {
	Geometry
	BorderWidth      int
	OverrideRedirect bool
	MapState         MapState
}

// Tree is the result of a tree query. Children are in stacking order,
// bottom-most first, and owned by the caller.
type Tree struct {
	Root     Window
	Parent   Window
	Children []Window
}

// ClientInfo is best-effort metadata about a client window, used for logging.
type ClientInfo struct {
	Name     string
	Class    string
	Instance string
	PID      uint64
	Process  string
}

type EventMask uint32

// core X11 event mask bits
const (
	EventMaskNoEvent              EventMask = 0
	EventMaskStructureNotify      EventMask = 1 << 17
	EventMaskSubstructureNotify   EventMask = 1 << 19
	EventMaskSubstructureRedirect EventMask = 1 << 20
)

// ManagerEventMask can only be held by one client per window.
const ManagerEventMask = EventMaskSubstructureRedirect | EventMaskSubstructureNotify

type ConfigMask uint16

const (
	ConfigX ConfigMask = 1 << iota
	ConfigY
	ConfigWidth
	ConfigHeight
	ConfigBorderWidth
	ConfigSibling
	ConfigStackMode
)

const ConfigAll = ConfigX | ConfigY | ConfigWidth | ConfigHeight | ConfigBorderWidth | ConfigSibling | ConfigStackMode

func (m ConfigMask) Has(f ConfigMask) bool { return m&f == f }

type StackMode uint8

const (
	StackModeAbove StackMode = iota
	StackModeBelow
	StackModeTopIf
	StackModeBottomIf
	StackModeOpposite
)

// WindowChanges holds the values of a configure request. Only the fields
// selected by the accompanying ConfigMask are meaningful.
type WindowChanges struct {
	X, Y          int
	Width, Height int
	BorderWidth   int
	Sibling       Window
	StackMode     StackMode
}

// Apply writes the fields selected by mask into attrs.
func (c WindowChanges) Apply(mask ConfigMask, attrs *Attributes) {
	if attrs == nil {
		return
	}
	if mask.Has(ConfigX) {
		attrs.X = c.X
	}
	if mask.Has(ConfigY) {
		attrs.Y = c.Y
	}
	if mask.Has(ConfigWidth) {
		attrs.Width = c.Width
	}
	if mask.Has(ConfigHeight) {
		attrs.Height = c.Height
	}
	if mask.Has(ConfigBorderWidth) {
		attrs.BorderWidth = c.BorderWidth
	}
}

type ErrorCode uint8

// core X11 error codes
const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodeBadRequest
	ErrorCodeBadValue
	ErrorCodeBadWindow
	ErrorCodeBadPixmap
	ErrorCodeBadAtom
	ErrorCodeBadCursor
	ErrorCodeBadFont
	ErrorCodeBadMatch
	ErrorCodeBadDrawable
	ErrorCodeBadAccess
	ErrorCodeBadAlloc
	ErrorCodeBadColormap
	ErrorCodeBadGContext
	ErrorCodeBadIDChoice
	ErrorCodeBadName
	ErrorCodeBadLength
	ErrorCodeBadImplementation
)

var errorCodeNames = [...]string{
	`Unknown`, `BadRequest`, `BadValue`, `BadWindow`, `BadPixmap`, `BadAtom`,
	`BadCursor`, `BadFont`, `BadMatch`, `BadDrawable`, `BadAccess`, `BadAlloc`,
	`BadColormap`, `BadGContext`, `BadIDChoice`, `BadName`, `BadLength`,
	`BadImplementation`,
}

func (c ErrorCode) String() string {
	if int(c) < len(errorCodeNames) {
		return errorCodeNames[c]
	}
	return fmt.Sprintf(`error-code(%d)`, uint8(c))
}

// ErrorEvent is an asynchronous protocol error reported by the server.
type ErrorEvent struct {
	Code        ErrorCode
	Sequence    uint16
	BadValue    uint32
	MajorOpcode uint8
	MinorOpcode uint16
	Message     string
}

var _ error = ErrorEvent{}

func (e ErrorEvent) Error() string {
	s := fmt.Sprintf(`%s (seq %d, bad value 0x%x, opcode %d.%d)`,
		e.Code, e.Sequence, e.BadValue, e.MajorOpcode, e.MinorOpcode)
	if len(e.Message) > 0 {
		s += `: ` + e.Message
	}
	return s
}

type Implementation interface {
	Name() string
	// Open connects to the display. An empty name means $DISPLAY.
	Open(displayName string) (Display, error)
}

var implem Implementation

func SetImpl(impl Implementation) {
	if impl != nil {
		implem = impl
	}
}

func Open(displayName string) (Display, error) {
	if implem == nil {
		return nil, errors.New(`no wm.Implementation set`)
	}
	d, err := implem.Open(displayName)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errors.New(consts.ErrNilParam)
	}
	return d, nil
}
