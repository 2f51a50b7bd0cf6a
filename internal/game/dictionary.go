package game

import (
	"fmt"

	"github.com/pixil98/go-dungeon/internal/storage"
)

// Dictionary holds all game definition stores. It provides a single
// reference that can be passed to resolution methods so they all
// share the same signature.
type Dictionary struct {
	Weapons storage.Storer[*Weapon]
	Items   storage.Storer[*Item]
	Spells  storage.Storer[*Spell]
	Races   storage.Storer[*Race]
	Classes storage.Storer[*Class]
	Mobiles storage.Storer[*Mobile]
	Rooms   storage.Storer[*Room]
	Doors   storage.Storer[*Door]
}

// Resolve resolves all foreign key references on definition assets.
// Characters are resolved when they are loaded instead.
func (d *Dictionary) Resolve() error {
	for id, class := range d.Classes.GetAll() {
		if err := class.Resolve(d); err != nil {
			return fmt.Errorf("class %s: %w", id, err)
		}
	}

	for id, mob := range d.Mobiles.GetAll() {
		if err := mob.Resolve(d); err != nil {
			return fmt.Errorf("mobile %s: %w", id, err)
		}
	}

	for id, room := range d.Rooms.GetAll() {
		if err := room.Resolve(d); err != nil {
			return fmt.Errorf("room %s: %w", id, err)
		}
	}

	return nil
}
