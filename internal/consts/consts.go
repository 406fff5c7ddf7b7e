package consts

import (
	"errors"
)

var (
	ErrNotImplemented       = errors.New(`not implemented`)
	ErrNilReceiver          = errors.New(`nil receiver`)
	ErrNilParam             = errors.New(`nil parameter`)
	ErrPlatformNotSupported = errors.New(`platform not supported`)

	ErrDisplayClosed = errors.New(`display connection closed`)
	ErrOtherManager  = errors.New(`another window manager is already running`)
	ErrWrongState    = errors.New(`operation not allowed in current manager state`)

	ErrClientNotFound    = errors.New(`client is not managed`)
	ErrClientTracked     = errors.New(`client is already managed`)
	ErrFrameTracked      = errors.New(`frame already belongs to another client`)
	ErrRegistryInvariant = errors.New(`client registry invariant violated`)

	ErrSkipOverrideRedirect = errors.New(`override-redirect window is not managed`)
	ErrSkipNotViewable      = errors.New(`unmapped window is not adopted`)
)

const (
	LibraryName = `framewm`

	DefaultBorderWidth = 3
	DefaultBorderColor = 0xff82d3
	DefaultBackground  = 0x333333
)
