//go:build !unix || noX11 || android || darwin || js

// not supported platforms

package wmimpl

import (
	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/wm"
)

const implName = `unsupported`

func openDisplay(displayName string) (wm.Display, error) {
	return nil, errors.New(consts.ErrPlatformNotSupported)
}
