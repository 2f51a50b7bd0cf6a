package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-dungeon/internal/storage"
	"github.com/pixil98/go-errors"
)

// Exit defines a destination for movement from a room.
type Exit struct {
	RoomId string `json:"room_id"`
	// DoorId optionally names the door standing in this exit.
	DoorId string `json:"door_id,omitempty"`
}

// WarpStone teleports anyone who activates it to Destination.
type WarpStone struct {
	Description string `json:"description"`
	Destination string `json:"destination"`
}

// Room represents a location in the dungeon.
type Room struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	X           int                `json:"x"`
	Y           int                `json:"y"`
	Exits       map[Direction]Exit `json:"exits"`
	Warp        *WarpStone         `json:"warp_stone,omitempty"`

	// Start marks the room new characters enter.
	Start bool `json:"start,omitempty"`

	// Spawns lists mobile ids to keep populated; list duplicates for multiple.
	Spawns []storage.SmartIdentifier[*Mobile] `json:"spawns,omitempty"`
}

func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	for dir, exit := range r.Exits {
		if exit.RoomId == "" {
			el.Add(fmt.Errorf("exit %s: room_id is required", dir))
		}
	}
	if r.Warp != nil && r.Warp.Destination == "" {
		el.Add(fmt.Errorf("warp_stone: destination is required"))
	}
	for _, s := range r.Spawns {
		el.Add(s.Validate())
	}

	return el.Err()
}

// Resolve resolves spawn references from the dictionary.
func (r *Room) Resolve(dict *Dictionary) error {
	el := errors.NewErrorList()
	for i := range r.Spawns {
		el.Add(r.Spawns[i].Resolve(dict.Mobiles))
	}
	return el.Err()
}

type spawnSlot struct {
	mobile     storage.SmartIdentifier[*Mobile]
	instanceId string
	emptiedAt  time.Time
}

// RoomInstance holds the mutable contents of a room. Every method requires
// the caller to hold the room lock.
type RoomInstance struct {
	Id   string
	Room *Room

	mu    sync.Mutex
	mobs  []*MobileInstance
	loot  []*Loot
	slots []*spawnSlot
}

func NewRoomInstance(id string, r *Room) *RoomInstance {
	ri := &RoomInstance{Id: id, Room: r}
	for _, s := range r.Spawns {
		ri.slots = append(ri.slots, &spawnSlot{mobile: s})
	}
	return ri
}

func (ri *RoomInstance) Lock()   { ri.mu.Lock() }
func (ri *RoomInstance) Unlock() { ri.mu.Unlock() }

// Mobs returns the mobs present, in spawn order.
func (ri *RoomInstance) Mobs() []*MobileInstance {
	out := make([]*MobileInstance, len(ri.mobs))
	copy(out, ri.mobs)
	return out
}

// FindMob returns the first mob matching ref by id or name.
func (ri *RoomInstance) FindMob(ref string) *MobileInstance {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	for _, mi := range ri.mobs {
		if strings.EqualFold(mi.Id, ref) {
			return mi
		}
	}
	for _, mi := range ri.mobs {
		if mi.Mobile.MatchName(ref) {
			return mi
		}
	}
	return nil
}

func (ri *RoomInstance) AddMob(mi *MobileInstance) {
	ri.mobs = append(ri.mobs, mi)
}

// RemoveMob removes a mob and frees its spawn slot, if any.
func (ri *RoomInstance) RemoveMob(id string, now time.Time) *MobileInstance {
	for i, mi := range ri.mobs {
		if mi.Id != id {
			continue
		}
		ri.mobs = append(ri.mobs[:i], ri.mobs[i+1:]...)
		for _, s := range ri.slots {
			if s.instanceId == id {
				s.instanceId = ""
				s.emptiedAt = now
			}
		}
		return mi
	}
	return nil
}

// Loot returns the loot lying in the room, oldest first.
func (ri *RoomInstance) Loot() []*Loot {
	out := make([]*Loot, len(ri.loot))
	copy(out, ri.loot)
	return out
}

func (ri *RoomInstance) AddLoot(l ...*Loot) {
	ri.loot = append(ri.loot, l...)
}

// TakeLoot removes and returns the loot with the given id (case-insensitive).
func (ri *RoomInstance) TakeLoot(id string) (*Loot, bool) {
	for i, l := range ri.loot {
		if strings.EqualFold(l.Id, strings.TrimSpace(id)) {
			ri.loot = append(ri.loot[:i], ri.loot[i+1:]...)
			return l, true
		}
	}
	return nil, false
}

// Respawn fills every spawn slot that has been empty for at least delay.
// It returns the newly spawned mobs.
func (ri *RoomInstance) Respawn(now time.Time, delay time.Duration, r dice.Roller, newId func(template string) string) []*MobileInstance {
	var spawned []*MobileInstance
	for _, s := range ri.slots {
		if s.instanceId != "" || s.mobile.Value() == nil {
			continue
		}
		if !s.emptiedAt.IsZero() && now.Sub(s.emptiedAt) < delay {
			continue
		}
		mi := SpawnMobile(newId(s.mobile.Key()), s.mobile.Key(), s.mobile.Value(), r)
		s.instanceId = mi.Id
		ri.mobs = append(ri.mobs, mi)
		spawned = append(spawned, mi)
	}
	return spawned
}
