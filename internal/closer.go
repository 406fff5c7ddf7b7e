package internal

import (
	"sync"

	"github.com/srlehn/framewm/internal/errors"
)

type Closer interface {
	Close() error
	OnClose(onClose func() error)
	AddClosers(closers ...interface{ Close() error })
}

var _ Closer = (*lifoCloser)(nil)

// lifoCloser runs the registered funcs in reverse order of registration,
// at most once.
type lifoCloser struct {
	mu           sync.Mutex
	closed       bool
	onCloseFuncs []func() error
}

func NewCloser() Closer { return &lifoCloser{} }

func (c *lifoCloser) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	funcs := c.onCloseFuncs
	c.onCloseFuncs = nil
	c.mu.Unlock()

	var errs []error
	for i := len(funcs) - 1; i > -1; i-- {
		if onCloseFunc := funcs[i]; onCloseFunc != nil {
			if err := onCloseFunc(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (c *lifoCloser) OnClose(onClose func() error) {
	if c == nil || onClose == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.onCloseFuncs = append(c.onCloseFuncs, onClose)
}

func (c *lifoCloser) AddClosers(closers ...interface{ Close() error }) {
	for _, cl := range closers {
		if cl == nil {
			continue
		}
		cl := cl
		c.OnClose(func() error { return errors.Join(cl.Close()) })
	}
}
