package action

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-dungeon/internal/game"
)

// PickupLoot moves a loot entry from c's room into c's inventory. Removal and
// grant happen under the room lock, so a second claim on the same id fails.
func (r *Resolver) PickupLoot(c *game.Character, lootId string) (*Result, error) {
	lootId = strings.TrimSpace(lootId)
	if lootId == "" {
		return nil, game.NewActionError(game.KindValidation, "Specify which loot to take.")
	}

	room := roomOf(c)
	ri := r.world.Room(room)
	if ri == nil {
		return nil, game.ErrRoomNotFound
	}

	ri.Lock()
	defer ri.Unlock()

	l, ok := ri.TakeLoot(lootId)
	if !ok {
		return nil, game.Reject(game.ErrLootNotFound, "No such loot lies here.")
	}

	dict := r.world.Dictionary()

	c.Lock()
	var msg string
	switch l.Kind {
	case game.LootGold:
		c.Gold += l.Amount
		msg = fmt.Sprintf("%s scoops up %d gold coins.", c.Name, l.Amount)
	case game.LootWeapon:
		if w := dict.Weapons.Get(l.Key); w != nil {
			c.AddWeapon(l.Key, w)
		}
		msg = fmt.Sprintf("%s claims %s.", c.Name, l.Name)
	default:
		c.AddItem(l.Key, dict.Items.Get(l.Key))
		msg = fmt.Sprintf("%s picks up %s.", c.Name, l.Name)
	}
	c.Unlock()

	res := &Result{}
	res.touch(room)
	res.toRoom(room, msg)
	return res, nil
}
