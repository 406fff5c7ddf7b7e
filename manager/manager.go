// Package manager implements the client state machine of a reparenting
// window manager: detection of another running manager, framing of client
// windows and the event loop.
package manager

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/srlehn/framewm/internal"
	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/internal/logx"
	"github.com/srlehn/framewm/wm"
)

var _ logx.LoggerProvider = (*Manager)(nil)

// Manager owns the display connection and the client registry.
// Apart from State and ProtocolErrors, its methods must be called from a
// single goroutine.
type Manager struct {
	display wm.Display
	root    wm.Window
	clients *Registry
	closer  internal.Closer
	logger  *slog.Logger

	name        string
	borderWidth int
	borderColor uint32
	background  uint32

	state     atomic.Uint32
	errsCount atomic.Uint64
}

func New(display wm.Display, opts ...Option) (*Manager, error) {
	if display == nil {
		return nil, errors.NilParam()
	}
	m := &Manager{
		display:     display,
		root:        display.Root(),
		clients:     NewRegistry(),
		closer:      internal.NewCloser(),
		name:        consts.LibraryName,
		borderWidth: consts.DefaultBorderWidth,
		borderColor: consts.DefaultBorderColor,
		background:  consts.DefaultBackground,
	}
	if err := m.SetOptions(opts...); err != nil {
		return nil, err
	}
	m.closer.AddClosers(display)
	return m, nil
}

func (m *Manager) Logger() *slog.Logger {
	if m == nil {
		return nil
	}
	return m.logger
}

func (m *Manager) State() State {
	if m == nil {
		return StateTerminated
	}
	return State(m.state.Load())
}

func (m *Manager) setState(s State) {
	prev := State(m.state.Swap(uint32(s)))
	if prev != s {
		logx.Debug(`state change`, m, `from`, prev.String(), `to`, s.String())
	}
}

// Clients returns the managed clients ordered by window id.
func (m *Manager) Clients() []Client {
	if m == nil {
		return nil
	}
	return m.clients.Clients()
}

// FrameOf returns the frame of a managed client.
func (m *Manager) FrameOf(client wm.Window) (wm.Window, bool) {
	if m == nil {
		return wm.WindowNone, false
	}
	return m.clients.Frame(client)
}

// ProtocolErrors is the number of protocol errors reported since Start.
func (m *Manager) ProtocolErrors() uint64 {
	if m == nil {
		return 0
	}
	return m.errsCount.Load()
}

// Run starts the manager and serves events until ctx is done, then restores
// all clients to the root window. It returns nil after such a shutdown.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Start(); err != nil {
		return err
	}
	err := m.Serve(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		logx.Info(`shutting down`, m, `reason`, ctxErr.Error())
		shutdownErr := m.Shutdown()
		logx.IsErr(shutdownErr, m, slog.LevelWarn)
		return nil
	}
	m.setState(StateTerminated)
	return err
}

// Start performs the detection handshake, installs the permanent error
// handler and adopts the already existing top-level windows.
func (m *Manager) Start() error {
	if m == nil || m.display == nil {
		return errors.NilReceiver()
	}
	if !m.state.CompareAndSwap(uint32(StateUninitialized), uint32(StateDetecting)) {
		return errors.Errorf(`%w: %s`, consts.ErrWrongState, m.State())
	}
	logx.Debug(`state change`, m, `from`, StateUninitialized.String(), `to`, StateDetecting.String())

	detected, err := detectExistingManager(m.display, m)
	if err != nil {
		m.setState(StateTerminated)
		return err
	}
	if detected {
		m.setState(StateTerminated)
		logx.Error(consts.ErrOtherManager.Error(), m)
		return errors.New(consts.ErrOtherManager)
	}
	m.display.SetErrorHandler(m.onProtocolError)

	if announcer, ok := m.display.(wm.Announcer); ok && len(m.name) > 0 {
		logx.IsErr(announcer.Announce(m.name), m, slog.LevelWarn)
	}

	if err := logx.TimeIt(m.adopt, `adopted existing windows`, m); err != nil {
		m.setState(StateTerminated)
		return err
	}
	m.setState(StateRunning)
	logx.Info(`managing display`, m, `root`, m.root, `clients`, m.clients.Len())
	return nil
}

// adopt frames the viewable children of the root window. The server is
// grabbed so the tree cannot change while it is walked.
func (m *Manager) adopt() (err error) {
	if err := m.display.GrabServer(); err != nil {
		return err
	}
	defer func() {
		if errUngrab := m.display.UngrabServer(); errUngrab != nil && err == nil {
			err = errUngrab
		}
	}()
	tree, err := m.display.QueryTree(m.root)
	if err != nil {
		return err
	}
	if tree.Root != m.root {
		logx.Warn(`tree query returned foreign root`, m, `root`, tree.Root, `expected`, m.root)
	}
	for _, child := range tree.Children {
		_, err := m.Frame(child, true)
		switch {
		case err == nil:
		case errors.Is(err, consts.ErrSkipOverrideRedirect),
			errors.Is(err, consts.ErrSkipNotViewable):
			logx.Trace(`not adopting window`, m, `window`, child, `reason`, err.Error())
		default:
			logx.IsErr(err, m, slog.LevelWarn, `window`, child)
		}
	}
	return nil
}

// onProtocolError is the error handler while running. It may run on the
// display's reader goroutine and must not touch the registry.
func (m *Manager) onProtocolError(e wm.ErrorEvent) {
	m.errsCount.Add(1)
	logx.Warn(`protocol error`, m,
		`code`, e.Code.String(),
		`bad_value`, e.BadValue,
		`sequence`, e.Sequence,
		`major_opcode`, e.MajorOpcode,
		`minor_opcode`, e.MinorOpcode,
	)
}

// Shutdown unframes every client so the session survives without a window
// manager, then waits for the server to process the requests.
func (m *Manager) Shutdown() error {
	if m == nil || m.display == nil {
		return errors.NilReceiver()
	}
	var errs []error
	clients := m.clients.Clients()
	for i := len(clients) - 1; i >= 0; i-- {
		if err := m.Unframe(clients[i].Window); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, m.display.Sync(true))
	m.setState(StateTerminated)
	return errors.Join(errs...)
}

// Close releases the display connection.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.setState(StateTerminated)
	return m.closer.Close()
}
