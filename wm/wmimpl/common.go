// actual implementation (X11)
package wmimpl

import (
	"github.com/srlehn/framewm/wm"
)

var _ wm.Implementation = (*implementation)(nil)

type implementation struct{}

func Impl() wm.Implementation { return &implementation{} }

func (i *implementation) Name() string { return implName }

func (i *implementation) Open(displayName string) (wm.Display, error) {
	return openDisplay(displayName)
}
