package x11

import (
	"github.com/jezek/xgb/xproto"
	"github.com/srlehn/xgbutil"
	"github.com/srlehn/xgbutil/ewmh"
	"github.com/srlehn/xgbutil/xwindow"

	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/wm"
)

// CreateFrame creates an unmapped InputOutput window with the given border
// and background pixel values. The request is not checked.
func CreateFrame(conn *xgbutil.XUtil, parent xproto.Window, geom wm.Geometry, borderWidth int, borderColor, background uint32) (xproto.Window, error) {
	if conn == nil {
		return 0, errors.NilParam()
	}
	w, err := xwindow.Generate(conn)
	if err != nil {
		return 0, errors.New(err)
	}
	screen := xproto.Setup(conn.Conn()).DefaultScreen(conn.Conn())
	// zero sized windows are a BadValue
	width, height := max(geom.Width, 1), max(geom.Height, 1)
	xproto.CreateWindow(conn.Conn(), screen.RootDepth, w.Id, parent,
		int16(geom.X), int16(geom.Y), uint16(width), uint16(height), uint16(max(borderWidth, 0)),
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwBorderPixel, []uint32{background, borderColor})
	return w.Id, nil
}

// Announce creates the _NET_SUPPORTING_WM_CHECK child window and names it.
// The window is override-redirect and never mapped.
func Announce(conn *xgbutil.XUtil, name string) (xproto.Window, error) {
	if conn == nil {
		return 0, errors.NilParam()
	}
	w, err := xwindow.Generate(conn)
	if err != nil {
		return 0, errors.New(err)
	}
	if err := w.CreateChecked(conn.RootWin(), -1, -1, 1, 1, xproto.CwOverrideRedirect, 1); err != nil {
		return 0, errors.New(err)
	}
	if err := ewmh.SupportingWmCheckSet(conn, conn.RootWin(), w.Id); err != nil {
		return 0, errors.New(err)
	}
	if err := ewmh.SupportingWmCheckSet(conn, w.Id, w.Id); err != nil {
		return 0, errors.New(err)
	}
	if err := ewmh.WmNameSet(conn, w.Id, name); err != nil {
		return 0, errors.New(err)
	}
	return w.Id, nil
}
