package game

import (
	"fmt"
	"sync"

	"github.com/pixil98/go-errors"
)

type DoorState int

const (
	DoorOpen DoorState = iota
	DoorClosed
	// DoorLocked is reserved; nothing in the world can lock a door yet.
	DoorLocked
)

func (s DoorState) String() string {
	switch s {
	case DoorOpen:
		return "open"
	case DoorClosed:
		return "closed"
	case DoorLocked:
		return "locked"
	}
	return fmt.Sprintf("doorstate(%d)", int(s))
}

type DoorAction int

const (
	OpenDoor DoorAction = iota
	CloseDoor
)

func ParseDoorAction(s string) (DoorAction, error) {
	switch s {
	case "open":
		return OpenDoor, nil
	case "close":
		return CloseDoor, nil
	}
	return 0, fmt.Errorf("unknown door action: %q", s)
}

func (a DoorAction) String() string {
	if a == OpenDoor {
		return "open"
	}
	return "close"
}

// Door defines a barrier between exactly two rooms.
type Door struct {
	// Name is the display label (e.g., "iron gate").
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Rooms are the two room ids this door sits between.
	Rooms [2]string `json:"rooms"`

	// Closed is whether the door starts closed.
	Closed bool `json:"closed,omitempty"`
}

func (d *Door) Validate() error {
	el := errors.NewErrorList()

	if d.Name == "" {
		el.Add(fmt.Errorf("door name is required"))
	}
	if d.Rooms[0] == "" || d.Rooms[1] == "" {
		el.Add(fmt.Errorf("door must connect two rooms"))
	} else if d.Rooms[0] == d.Rooms[1] {
		el.Add(fmt.Errorf("door cannot connect a room to itself"))
	}

	return el.Err()
}

// DoorInstance is the single runtime door shared by both of its rooms.
type DoorInstance struct {
	Id   string
	Door *Door

	mu    sync.RWMutex
	state DoorState
}

func NewDoorInstance(id string, d *Door) *DoorInstance {
	di := &DoorInstance{Id: id, Door: d, state: DoorOpen}
	if d.Closed {
		di.state = DoorClosed
	}
	return di
}

func (d *DoorInstance) State() DoorState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *DoorInstance) IsOpen() bool {
	return d.State() == DoorOpen
}

// Connects reports whether the door touches roomId.
func (d *DoorInstance) Connects(roomId string) bool {
	return d.Door.Rooms[0] == roomId || d.Door.Rooms[1] == roomId
}

// Apply moves the door toward the requested state. Requesting the state the
// door is already in succeeds without change.
func (d *DoorInstance) Apply(action DoorAction) (changed bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch action {
	case OpenDoor:
		switch d.state {
		case DoorOpen:
			return false, nil
		case DoorLocked:
			return false, NewActionError(KindPrecondition, fmt.Sprintf("The %s is locked.", d.Door.Name))
		}
		d.state = DoorOpen
	case CloseDoor:
		if d.state != DoorOpen {
			return false, nil
		}
		d.state = DoorClosed
	default:
		return false, NewActionError(KindValidation, "Unknown door action.")
	}
	return true, nil
}
