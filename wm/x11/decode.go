package x11

import (
	"fmt"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/srlehn/framewm/wm"
)

// DecodeEvent converts an xgb event into its wm.Event variant.
// Kinds the manager does not distinguish become wm.UnknownEvent.
func DecodeEvent(ev xgb.Event) wm.Event {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		return wm.MapRequestEvent{
			Parent: wm.Window(e.Parent),
			Window: wm.Window(e.Window),
		}
	case xproto.ConfigureRequestEvent:
		return wm.ConfigureRequestEvent{
			Parent:      wm.Window(e.Parent),
			Window:      wm.Window(e.Window),
			Sibling:     wm.Window(e.Sibling),
			X:           int(e.X),
			Y:           int(e.Y),
			Width:       int(e.Width),
			Height:      int(e.Height),
			BorderWidth: int(e.BorderWidth),
			StackMode:   wm.StackMode(e.StackMode),
			ValueMask:   wm.ConfigMask(e.ValueMask),
		}
	case xproto.UnmapNotifyEvent:
		return wm.UnmapNotifyEvent{
			Event:         wm.Window(e.Event),
			Window:        wm.Window(e.Window),
			FromConfigure: e.FromConfigure,
		}
	case xproto.CreateNotifyEvent:
		return wm.CreateNotifyEvent{
			Parent:           wm.Window(e.Parent),
			Window:           wm.Window(e.Window),
			Geometry:         geometry(e.X, e.Y, e.Width, e.Height),
			BorderWidth:      int(e.BorderWidth),
			OverrideRedirect: e.OverrideRedirect,
		}
	case xproto.ConfigureNotifyEvent:
		return wm.ConfigureNotifyEvent{
			Event:            wm.Window(e.Event),
			Window:           wm.Window(e.Window),
			AboveSibling:     wm.Window(e.AboveSibling),
			Geometry:         geometry(e.X, e.Y, e.Width, e.Height),
			BorderWidth:      int(e.BorderWidth),
			OverrideRedirect: e.OverrideRedirect,
		}
	case xproto.MapNotifyEvent:
		return wm.MapNotifyEvent{
			Event:            wm.Window(e.Event),
			Window:           wm.Window(e.Window),
			OverrideRedirect: e.OverrideRedirect,
		}
	case xproto.DestroyNotifyEvent:
		return wm.DestroyNotifyEvent{
			Event:  wm.Window(e.Event),
			Window: wm.Window(e.Window),
		}
	case xproto.ReparentNotifyEvent:
		return wm.ReparentNotifyEvent{
			Event:            wm.Window(e.Event),
			Window:           wm.Window(e.Window),
			Parent:           wm.Window(e.Parent),
			X:                int(e.X),
			Y:                int(e.Y),
			OverrideRedirect: e.OverrideRedirect,
		}
	case nil:
		return wm.UnknownEvent{}
	default:
		return wm.UnknownEvent{Name: eventName(ev)}
	}
}

func geometry(x, y int16, width, height uint16) wm.Geometry {
	return wm.Geometry{X: int(x), Y: int(y), Width: int(width), Height: int(height)}
}

// eventName turns xproto.KeyPressEvent into "KeyPress"
func eventName(ev xgb.Event) string {
	name := fmt.Sprintf(`%T`, ev)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, `Event`)
}

// DecodeError converts an xgb protocol error into a wm.ErrorEvent.
// Errors that are not core protocol errors keep their message only.
func DecodeError(err error) wm.ErrorEvent {
	switch e := err.(type) {
	case xproto.RequestError:
		return fromRequestError(wm.ErrorCodeBadRequest, e)
	case xproto.ValueError:
		return fromValueError(wm.ErrorCodeBadValue, e)
	case xproto.WindowError:
		return fromValueError(wm.ErrorCodeBadWindow, xproto.ValueError(e))
	case xproto.PixmapError:
		return fromValueError(wm.ErrorCodeBadPixmap, xproto.ValueError(e))
	case xproto.AtomError:
		return fromValueError(wm.ErrorCodeBadAtom, xproto.ValueError(e))
	case xproto.CursorError:
		return fromValueError(wm.ErrorCodeBadCursor, xproto.ValueError(e))
	case xproto.FontError:
		return fromValueError(wm.ErrorCodeBadFont, xproto.ValueError(e))
	case xproto.MatchError:
		return fromRequestError(wm.ErrorCodeBadMatch, xproto.RequestError(e))
	case xproto.DrawableError:
		return fromValueError(wm.ErrorCodeBadDrawable, xproto.ValueError(e))
	case xproto.AccessError:
		return fromRequestError(wm.ErrorCodeBadAccess, xproto.RequestError(e))
	case xproto.AllocError:
		return fromRequestError(wm.ErrorCodeBadAlloc, xproto.RequestError(e))
	case xproto.ColormapError:
		return fromValueError(wm.ErrorCodeBadColormap, xproto.ValueError(e))
	case xproto.GContextError:
		return fromValueError(wm.ErrorCodeBadGContext, xproto.ValueError(e))
	case xproto.IDChoiceError:
		return fromValueError(wm.ErrorCodeBadIDChoice, xproto.ValueError(e))
	case xproto.NameError:
		return fromRequestError(wm.ErrorCodeBadName, xproto.RequestError(e))
	case xproto.LengthError:
		return fromRequestError(wm.ErrorCodeBadLength, xproto.RequestError(e))
	case xproto.ImplementationError:
		return fromRequestError(wm.ErrorCodeBadImplementation, xproto.RequestError(e))
	case xgb.Error:
		return wm.ErrorEvent{
			Sequence: e.SequenceId(),
			BadValue: e.BadId(),
			Message:  e.Error(),
		}
	case nil:
		return wm.ErrorEvent{}
	default:
		return wm.ErrorEvent{Message: err.Error()}
	}
}

func fromRequestError(code wm.ErrorCode, e xproto.RequestError) wm.ErrorEvent {
	return wm.ErrorEvent{
		Code:        code,
		Sequence:    e.Sequence,
		BadValue:    e.BadValue,
		MajorOpcode: e.MajorOpcode,
		MinorOpcode: e.MinorOpcode,
		Message:     e.NiceName,
	}
}

func fromValueError(code wm.ErrorCode, e xproto.ValueError) wm.ErrorEvent {
	return wm.ErrorEvent{
		Code:        code,
		Sequence:    e.Sequence,
		BadValue:    e.BadValue,
		MajorOpcode: e.MajorOpcode,
		MinorOpcode: e.MinorOpcode,
		Message:     e.NiceName,
	}
}

// ConfigureValues builds the value mask and value list of a ConfigureWindow
// request. Values are ordered by mask bit as the protocol requires.
func ConfigureValues(mask wm.ConfigMask, c wm.WindowChanges) (uint16, []uint32) {
	var (
		valueMask uint16
		values    []uint32
	)
	if mask.Has(wm.ConfigX) {
		valueMask |= xproto.ConfigWindowX
		values = append(values, uint32(int32(c.X)))
	}
	if mask.Has(wm.ConfigY) {
		valueMask |= xproto.ConfigWindowY
		values = append(values, uint32(int32(c.Y)))
	}
	if mask.Has(wm.ConfigWidth) {
		valueMask |= xproto.ConfigWindowWidth
		values = append(values, uint32(c.Width))
	}
	if mask.Has(wm.ConfigHeight) {
		valueMask |= xproto.ConfigWindowHeight
		values = append(values, uint32(c.Height))
	}
	if mask.Has(wm.ConfigBorderWidth) {
		valueMask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(c.BorderWidth))
	}
	if mask.Has(wm.ConfigSibling) {
		valueMask |= xproto.ConfigWindowSibling
		values = append(values, uint32(c.Sibling))
	}
	if mask.Has(wm.ConfigStackMode) {
		valueMask |= xproto.ConfigWindowStackMode
		values = append(values, uint32(c.StackMode))
	}
	return valueMask, values
}

func EventMaskValue(m wm.EventMask) uint32 { return uint32(m) }

func MapState(s byte) wm.MapState {
	switch s {
	case xproto.MapStateUnmapped:
		return wm.MapStateUnmapped
	case xproto.MapStateUnviewable:
		return wm.MapStateUnviewable
	case xproto.MapStateViewable:
		return wm.MapStateViewable
	default:
		return wm.MapState(s)
	}
}
