// Package action validates and applies player actions against the world.
//
// Every action validates fully before it mutates anything. When an action
// needs both a room and a character it locks the room first.
package action

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/presence"
)

// Roster looks up online characters by id.
type Roster interface {
	Character(id string) *game.Character
}

type Resolver struct {
	world    *game.World
	presence *presence.Directory
	roster   Roster
	roller   dice.Roller
}

type ResolverOpt func(*Resolver)

func WithRoller(r dice.Roller) ResolverOpt {
	return func(res *Resolver) {
		res.roller = r
	}
}

func NewResolver(world *game.World, dir *presence.Directory, roster Roster, opts ...ResolverOpt) *Resolver {
	r := &Resolver{
		world:    world,
		presence: dir,
		roster:   roster,
		roller:   dice.RandomRoller{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// roomOf reads the character's room under its lock. Only the character's own
// session and a defeat in combat move it.
func roomOf(c *game.Character) string {
	c.Lock()
	defer c.Unlock()
	return c.Room
}

// Move walks c through an exit.
func (r *Resolver) Move(c *game.Character, dir game.Direction) (*Result, error) {
	c.Lock()
	from, to, err := r.world.ResolveMove(c, dir)
	c.Unlock()
	if err != nil {
		return nil, err
	}

	r.presence.Move(c.Id, to)

	res := &Result{}
	res.touch(from, to)
	res.toRoomExcept(from, c.Id, fmt.Sprintf("%s has left the room.", c.Name))
	res.toRoomExcept(to, c.Id, fmt.Sprintf("%s has entered the room.", c.Name))
	return res, nil
}

// ActivateWarp teleports c to the destination of the warp stone in its room.
func (r *Resolver) ActivateWarp(c *game.Character) (*Result, error) {
	from := roomOf(c)
	ri := r.world.Room(from)
	if ri == nil || ri.Room.Warp == nil {
		return nil, game.ErrNoWarpHere
	}
	to := ri.Room.Warp.Destination

	c.Lock()
	c.Room = to
	c.Unlock()
	r.presence.Move(c.Id, to)

	res := &Result{}
	res.touch(from, to)
	res.toRoomExcept(from, c.Id, fmt.Sprintf("%s touches the warp stone and vanishes in a flash of light.", c.Name))
	res.toRoomExcept(to, c.Id, fmt.Sprintf("%s appears in a flash of light.", c.Name))
	res.toCharacter(c.Id, "The warp stone pulls you through the weave.")
	return res, nil
}

// DoorAction opens or closes a door in c's room. Asking for the state the
// door is already in succeeds without telling anyone else.
func (r *Resolver) DoorAction(c *game.Character, ref string, action game.DoorAction) (*Result, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, game.NewActionError(game.KindValidation, "Which door?")
	}

	room := roomOf(c)
	d, changed, err := r.world.DoorAction(room, ref, action)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if !changed {
		res.toCharacter(c.Id, fmt.Sprintf("The %s is already %s.", d.Door.Name, d.State()))
		return res, nil
	}

	verb := "opens"
	if action == game.CloseDoor {
		verb = "closes"
	}
	res.touch(d.Door.Rooms[0], d.Door.Rooms[1])
	res.toRoom(room, fmt.Sprintf("%s %s the %s.", c.Name, verb, d.Door.Name))
	for _, other := range d.Door.Rooms {
		if other != room {
			res.toRoom(other, fmt.Sprintf("The %s %s from the other side.", d.Door.Name, verb))
		}
	}
	return res, nil
}

// EquipWeapon makes the named weapon c's only equipped weapon.
func (r *Resolver) EquipWeapon(c *game.Character, ref string) (*Result, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, game.NewActionError(game.KindValidation, "Choose a weapon to equip.")
	}

	room := roomOf(c)
	c.Lock()
	w, err := c.Equip(ref)
	c.Unlock()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	res.touch(room)
	res.toRoom(room, fmt.Sprintf("%s equips %s.", c.Name, w.Name))
	return res, nil
}

// findPlayer resolves ref to an online character in room by id or name.
func (r *Resolver) findPlayer(room, ref string) *game.Character {
	for _, id := range r.presence.Occupants(room) {
		ch := r.roster.Character(id)
		if ch == nil {
			continue
		}
		if strings.EqualFold(id, ref) || ch.MatchName(ref) {
			return ch
		}
	}
	return nil
}
