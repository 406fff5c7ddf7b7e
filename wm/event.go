package wm

// Event is one decoded display server event. The concrete types below are
// the only implementations.
type Event interface {
	EventName() string
	event()
}

var (
	_ Event = MapRequestEvent{}
	_ Event = ConfigureRequestEvent{}
	_ Event = UnmapNotifyEvent{}
	_ Event = CreateNotifyEvent{}
	_ Event = ConfigureNotifyEvent{}
	_ Event = MapNotifyEvent{}
	_ Event = DestroyNotifyEvent{}
	_ Event = ReparentNotifyEvent{}
	_ Event = UnknownEvent{}
)

// MapRequestEvent: a child of a redirected window asks to be mapped.
type MapRequestEvent struct {
	Parent Window
	Window Window
}

// ConfigureRequestEvent: a child of a redirected window asks for new
// geometry or stacking. ValueMask selects the requested fields.
type ConfigureRequestEvent struct {
	Parent      Window
	Window      Window
	Sibling     Window
	X, Y        int
	Width       int
	Height      int
	BorderWidth int
	StackMode   StackMode
	ValueMask   ConfigMask
}

// Changes returns the requested change-set and the mask of fields the
// request actually specifies.
func (e ConfigureRequestEvent) Changes() (ConfigMask, WindowChanges) {
	return e.ValueMask & ConfigAll, WindowChanges{
		X:           e.X,
		Y:           e.Y,
		Width:       e.Width,
		Height:      e.Height,
		BorderWidth: e.BorderWidth,
		Sibling:     e.Sibling,
		StackMode:   e.StackMode,
	}
}

// UnmapNotifyEvent: Window was unmapped. Event is the window the
// notification was selected on (the parent for substructure notifications).
type UnmapNotifyEvent struct {
	Event         Window
	Window        Window
	FromConfigure bool
}

type CreateNotifyEvent struct {
	Parent Window
	Window Window
	Geometry
	BorderWidth      int
	OverrideRedirect bool
}

type ConfigureNotifyEvent struct {
	Event        Window
	Window       Window
	AboveSibling Window
	Geometry
	BorderWidth      int
	OverrideRedirect bool
}

type MapNotifyEvent struct {
	Event            Window
	Window           Window
	OverrideRedirect bool
}

type DestroyNotifyEvent struct {
	Event  Window
	Window Window
}

type ReparentNotifyEvent struct {
	Event            Window
	Window           Window
	Parent           Window
	X, Y             int
	OverrideRedirect bool
}

// UnknownEvent is any event kind the manager does not react to.
type UnknownEvent struct {
	Name string
}

func (MapRequestEvent) EventName() string       { return `MapRequest` }
func (ConfigureRequestEvent) EventName() string { return `ConfigureRequest` }
func (UnmapNotifyEvent) EventName() string      { return `UnmapNotify` }
func (CreateNotifyEvent) EventName() string     { return `CreateNotify` }
func (ConfigureNotifyEvent) EventName() string  { return `ConfigureNotify` }
func (MapNotifyEvent) EventName() string        { return `MapNotify` }
func (DestroyNotifyEvent) EventName() string    { return `DestroyNotify` }
func (ReparentNotifyEvent) EventName() string   { return `ReparentNotify` }
func (e UnknownEvent) EventName() string {
	if len(e.Name) == 0 {
		return `Unknown`
	}
	return e.Name
}

func (MapRequestEvent) event()       {}
func (ConfigureRequestEvent) event() {}
func (UnmapNotifyEvent) event()      {}
func (CreateNotifyEvent) event()     {}
func (ConfigureNotifyEvent) event()  {}
func (MapNotifyEvent) event()        {}
func (DestroyNotifyEvent) event()    {}
func (ReparentNotifyEvent) event()   {}
func (UnknownEvent) event()          {}
