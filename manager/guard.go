package manager

import (
	"github.com/srlehn/framewm/internal/logx"
	"github.com/srlehn/framewm/wm"
)

// detectExistingManager selects SubstructureRedirect on the root window.
// Only one client can hold it, so a BadAccess error in response means
// another window manager is running. The check is racy against a manager
// starting at the same time.
func detectExistingManager(d wm.Display, loggerProv logx.LoggerProvider) (bool, error) {
	var detected bool
	prev := d.SetErrorHandler(func(e wm.ErrorEvent) {
		if e.Code == wm.ErrorCodeBadAccess {
			detected = true
			return
		}
		logx.Debug(`protocol error during detection`, loggerProv, `error`, e.Error())
	})
	defer d.SetErrorHandler(prev)

	if err := d.SelectInput(d.Root(), wm.ManagerEventMask); err != nil {
		return false, err
	}
	if err := d.Sync(false); err != nil {
		return false, err
	}
	return detected, nil
}
