package manager

import "fmt"

// State is the lifecycle stage of a Manager.
type State uint32

const (
	StateUninitialized State = iota
	StateDetecting
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return `uninitialized`
	case StateDetecting:
		return `detecting`
	case StateRunning:
		return `running`
	case StateTerminated:
		return `terminated`
	default:
		return fmt.Sprintf(`state(%d)`, uint32(s))
	}
}
