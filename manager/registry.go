package manager

import (
	"github.com/google/btree"

	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/wm"
)

// Client is a managed client window and the frame containing it.
type Client struct {
	Window wm.Window
	Frame  wm.Window
}

// Registry is the bidirectional client <-> frame table.
// No client and no frame appears twice. It is not safe for concurrent use.
type Registry struct {
	frames  *btree.BTreeG[Client]   // ordered by client window
	clients map[wm.Window]wm.Window // frame -> client
}

func NewRegistry() *Registry {
	return &Registry{
		frames:  btree.NewG(8, func(a, b Client) bool { return a.Window < b.Window }),
		clients: make(map[wm.Window]wm.Window),
	}
}

// Add records that frame contains client. Neither may be tracked already.
func (r *Registry) Add(client, frame wm.Window) error {
	if r == nil {
		return errors.NilReceiver()
	}
	if client == wm.WindowNone || frame == wm.WindowNone {
		return errors.New(consts.ErrNilParam)
	}
	if r.frames.Has(Client{Window: client}) {
		return errors.New(consts.ErrClientTracked)
	}
	if _, ok := r.clients[frame]; ok {
		return errors.New(consts.ErrFrameTracked)
	}
	r.frames.ReplaceOrInsert(Client{Window: client, Frame: frame})
	r.clients[frame] = client
	return nil
}

// Frame returns the frame of client.
func (r *Registry) Frame(client wm.Window) (wm.Window, bool) {
	if r == nil {
		return wm.WindowNone, false
	}
	c, ok := r.frames.Get(Client{Window: client})
	return c.Frame, ok
}

// Client returns the client contained in frame.
func (r *Registry) Client(frame wm.Window) (wm.Window, bool) {
	if r == nil {
		return wm.WindowNone, false
	}
	client, ok := r.clients[frame]
	return client, ok
}

// Remove drops the entry of client and returns its former frame.
func (r *Registry) Remove(client wm.Window) (wm.Window, bool) {
	if r == nil {
		return wm.WindowNone, false
	}
	removed, ok := r.frames.Delete(Client{Window: client})
	if !ok {
		return wm.WindowNone, false
	}
	if c, okC := r.clients[removed.Frame]; okC && c == client {
		delete(r.clients, removed.Frame)
	}
	return removed.Frame, true
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.frames.Len()
}

// Clients returns a snapshot ordered by client window id.
func (r *Registry) Clients() []Client {
	if r == nil {
		return nil
	}
	clients := make([]Client, 0, r.frames.Len())
	r.frames.Ascend(func(c Client) bool {
		clients = append(clients, c)
		return true
	})
	return clients
}

// consistent reports whether client and frame point at each other.
func (r *Registry) consistent(client wm.Window) bool {
	frame, ok := r.Frame(client)
	if !ok {
		return false
	}
	c, ok := r.Client(frame)
	return ok && c == client
}
