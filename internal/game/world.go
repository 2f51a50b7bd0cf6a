package game

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-errors"
)

const DefaultRespawnDelay = 60 * time.Second

// World is the room graph: every room and door instance indexed by id.
// The tables themselves are immutable after NewWorld; room and door contents
// are guarded by their own locks.
type World struct {
	dict   *Dictionary
	roller dice.Roller

	rooms  map[string]*RoomInstance
	doors  map[string]*DoorInstance
	coords map[[2]int]string
	start  string

	respawnDelay time.Duration
	seq          atomic.Uint64
}

type WorldOpt func(*World)

// WithStartRoom overrides the room flagged as the start room.
func WithStartRoom(id string) WorldOpt {
	return func(w *World) {
		w.start = id
	}
}

func WithRoller(r dice.Roller) WorldOpt {
	return func(w *World) {
		w.roller = r
	}
}

func WithRespawnDelay(d time.Duration) WorldOpt {
	return func(w *World) {
		w.respawnDelay = d
	}
}

// NewWorld builds and validates the room graph and spawns initial mobs.
func NewWorld(dict *Dictionary, opts ...WorldOpt) (*World, error) {
	w := &World{
		dict:         dict,
		roller:       dice.RandomRoller{},
		rooms:        map[string]*RoomInstance{},
		doors:        map[string]*DoorInstance{},
		coords:       map[[2]int]string{},
		respawnDelay: DefaultRespawnDelay,
	}
	for _, opt := range opts {
		opt(w)
	}

	for id, d := range dict.Doors.GetAll() {
		w.doors[id] = NewDoorInstance(id, d)
	}
	for id, r := range dict.Rooms.GetAll() {
		w.rooms[id] = NewRoomInstance(id, r)
		if w.start == "" && r.Start {
			w.start = id
		}
	}

	if err := w.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	for _, ri := range w.rooms {
		ri.Lock()
		ri.Respawn(now, 0, w.roller, w.NewMobId)
		ri.Unlock()
	}

	return w, nil
}

func (w *World) validate() error {
	el := errors.NewErrorList()

	if w.start == "" {
		el.Add(fmt.Errorf("no start room defined"))
	} else if _, ok := w.rooms[w.start]; !ok {
		el.Add(fmt.Errorf("start room %q not found", w.start))
	}

	for _, id := range w.RoomIds() {
		room := w.rooms[id].Room

		pos := [2]int{room.X, room.Y}
		if other, ok := w.coords[pos]; ok {
			el.Add(fmt.Errorf("rooms %s and %s share coordinates (%d,%d)", other, id, room.X, room.Y))
		} else {
			w.coords[pos] = id
		}

		for dir, exit := range room.Exits {
			el.Add(w.validateExit(id, dir, exit))
		}

		if room.Warp != nil {
			if _, ok := w.rooms[room.Warp.Destination]; !ok {
				el.Add(fmt.Errorf("room %s: warp destination %q not found", id, room.Warp.Destination))
			}
		}
	}

	for id, d := range w.doors {
		for _, rid := range d.Door.Rooms {
			if _, ok := w.rooms[rid]; !ok {
				el.Add(fmt.Errorf("door %s: room %q not found", id, rid))
			}
		}
	}

	return el.Err()
}

func (w *World) validateExit(id string, dir Direction, exit Exit) error {
	target, ok := w.rooms[exit.RoomId]
	if !ok {
		return fmt.Errorf("room %s: exit %s leads to unknown room %q", id, dir, exit.RoomId)
	}

	back, ok := target.Room.Exits[dir.Opposite()]
	if !ok || back.RoomId != id {
		return fmt.Errorf("room %s: exit %s to %s has no matching %s exit", id, dir, exit.RoomId, dir.Opposite())
	}
	if back.DoorId != exit.DoorId {
		return fmt.Errorf("room %s: exit %s and its return exit disagree on door", id, dir)
	}

	if exit.DoorId != "" {
		door, ok := w.doors[exit.DoorId]
		if !ok {
			return fmt.Errorf("room %s: exit %s references unknown door %q", id, dir, exit.DoorId)
		}
		if !door.Connects(id) || !door.Connects(exit.RoomId) {
			return fmt.Errorf("room %s: door %s does not connect %s and %s", id, exit.DoorId, id, exit.RoomId)
		}
	}

	return nil
}

// Room returns the room instance, or nil if unknown.
func (w *World) Room(id string) *RoomInstance {
	return w.rooms[id]
}

// RoomAt returns the id of the room at (x, y).
func (w *World) RoomAt(x, y int) (string, bool) {
	id, ok := w.coords[[2]int{x, y}]
	return id, ok
}

// RoomIds returns all room ids, sorted.
func (w *World) RoomIds() []string {
	ids := make([]string, 0, len(w.rooms))
	for id := range w.rooms {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (w *World) Door(id string) *DoorInstance {
	return w.doors[id]
}

func (w *World) StartRoom() string {
	return w.start
}

func (w *World) Dictionary() *Dictionary {
	return w.dict
}

// NewMobId returns a unique instance id such as "goblin-3".
func (w *World) NewMobId(template string) string {
	return fmt.Sprintf("%s-%d", template, w.seq.Add(1))
}

// NewLootId returns a unique loot id such as "loot-7".
func (w *World) NewLootId() string {
	return fmt.Sprintf("loot-%d", w.seq.Add(1))
}

// ExitVerdict says whether an exit can be taken right now.
type ExitVerdict struct {
	Available   bool
	Reason      string
	Destination string
	Door        *DoorInstance
}

// CanMove reports whether a character in roomId can move toward dir.
func (w *World) CanMove(roomId string, dir Direction) ExitVerdict {
	ri := w.rooms[roomId]
	if ri == nil {
		return ExitVerdict{Reason: "You are nowhere."}
	}

	exit, ok := ri.Room.Exits[dir]
	if !ok {
		return ExitVerdict{Reason: "There is no exit that way."}
	}

	v := ExitVerdict{Available: true, Destination: exit.RoomId}
	if exit.DoorId != "" {
		v.Door = w.doors[exit.DoorId]
		if v.Door != nil && !v.Door.IsOpen() {
			v.Available = false
			v.Reason = fmt.Sprintf("The %s is %s.", v.Door.Door.Name, v.Door.State())
		}
	}
	return v
}

// Exits returns a verdict for every exit of roomId.
func (w *World) Exits(roomId string) map[Direction]ExitVerdict {
	ri := w.rooms[roomId]
	if ri == nil {
		return nil
	}
	out := make(map[Direction]ExitVerdict, len(ri.Room.Exits))
	for dir := range ri.Room.Exits {
		out[dir] = w.CanMove(roomId, dir)
	}
	return out
}

// ResolveMove relocates c through dir. The caller must hold c's lock.
func (w *World) ResolveMove(c *Character, dir Direction) (from, to string, err error) {
	v := w.CanMove(c.Room, dir)
	if !v.Available {
		return "", "", Reject(ErrMovementBlocked, "%s", v.Reason)
	}
	from = c.Room
	c.Room = v.Destination
	return from, v.Destination, nil
}

// RoomDoor is a door as seen from one of its rooms.
type RoomDoor struct {
	Direction Direction
	Door      *DoorInstance
}

// DoorsOf returns the doors in roomId's exits, in direction order.
func (w *World) DoorsOf(roomId string) []RoomDoor {
	ri := w.rooms[roomId]
	if ri == nil {
		return nil
	}
	var out []RoomDoor
	for _, dir := range Directions {
		exit, ok := ri.Room.Exits[dir]
		if !ok || exit.DoorId == "" {
			continue
		}
		if d := w.doors[exit.DoorId]; d != nil {
			out = append(out, RoomDoor{Direction: dir, Door: d})
		}
	}
	return out
}

// FindDoor resolves ref (door id, door name, or direction) among the doors of roomId.
func (w *World) FindDoor(roomId, ref string) (*DoorInstance, error) {
	ref = strings.TrimSpace(ref)
	for _, rd := range w.DoorsOf(roomId) {
		if strings.EqualFold(rd.Door.Id, ref) || strings.EqualFold(rd.Door.Door.Name, ref) || strings.EqualFold(rd.Direction.String(), ref) {
			return rd.Door, nil
		}
	}
	return nil, ErrDoorNotFound
}

// DoorAction opens or closes a door touching roomId. The change is visible
// from both rooms at once since they share the instance.
func (w *World) DoorAction(roomId, ref string, action DoorAction) (*DoorInstance, bool, error) {
	d, err := w.FindDoor(roomId, ref)
	if err != nil {
		return nil, false, err
	}
	changed, err := d.Apply(action)
	if err != nil {
		return nil, false, err
	}
	return d, changed, nil
}

// Respawn refills empty spawn slots and returns the ids of rooms that changed.
func (w *World) Respawn(_ context.Context, now time.Time) []string {
	var changed []string
	for _, id := range w.RoomIds() {
		ri := w.rooms[id]
		ri.Lock()
		spawned := ri.Respawn(now, w.respawnDelay, w.roller, w.NewMobId)
		ri.Unlock()
		if len(spawned) > 0 {
			changed = append(changed, id)
		}
	}
	return changed
}
