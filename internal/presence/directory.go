// Package presence tracks which characters occupy which room.
package presence

import (
	"slices"
	"sync"
)

// Directory is a bidirectional index of room occupancy. It is safe for
// concurrent use.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
	chars map[string]string
}

func NewDirectory() *Directory {
	return &Directory{
		rooms: map[string]map[string]struct{}{},
		chars: map[string]string{},
	}
}

// Place puts charId in roomId, removing it from any previous room.
func (d *Directory) Place(charId, roomId string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.remove(charId)
	d.add(charId, roomId)
}

// Move relocates an online character and returns the room it left.
// It reports false when the character is not present.
func (d *Directory) Move(charId, roomId string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	from, ok := d.chars[charId]
	if !ok {
		return "", false
	}
	d.remove(charId)
	d.add(charId, roomId)
	return from, true
}

// Remove takes charId offline and returns the room it was in.
func (d *Directory) Remove(charId string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.chars[charId]
	if ok {
		d.remove(charId)
	}
	return room, ok
}

// RoomOf returns the room charId occupies.
func (d *Directory) RoomOf(charId string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.chars[charId]
	return room, ok
}

// Occupants returns the ids of characters in roomId, sorted.
func (d *Directory) Occupants(roomId string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	set := d.rooms[roomId]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Online returns the ids of every present character, sorted.
func (d *Directory) Online() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.chars))
	for id := range d.chars {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Count returns the number of characters in roomId.
func (d *Directory) Count(roomId string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.rooms[roomId])
}

func (d *Directory) add(charId, roomId string) {
	set, ok := d.rooms[roomId]
	if !ok {
		set = map[string]struct{}{}
		d.rooms[roomId] = set
	}
	set[charId] = struct{}{}
	d.chars[charId] = roomId
}

func (d *Directory) remove(charId string) {
	room, ok := d.chars[charId]
	if !ok {
		return
	}
	delete(d.chars, charId)
	delete(d.rooms[room], charId)
	if len(d.rooms[room]) == 0 {
		delete(d.rooms, room)
	}
}
