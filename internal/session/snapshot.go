package session

import (
	"math"
	"time"

	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/protocol"
)

// snapshot builds the room state c sees. It takes the room lock, then
// character locks one at a time.
func (co *Coordinator) snapshot(c *game.Character) *protocol.RoomState {
	roomId := roomOf(c)
	ri := co.world.Room(roomId)
	if ri == nil {
		return nil
	}

	st := &protocol.RoomState{
		RoomId:      roomId,
		RoomName:    ri.Room.Name,
		Description: ri.Room.Description,
		X:           ri.Room.X,
		Y:           ri.Room.Y,
		Exits:       map[string]protocol.ExitState{},
		Players:     []protocol.PlayerView{},
		Mobs:        []protocol.MobView{},
		Loot:        []protocol.LootView{},
		Doors:       []protocol.DoorView{},
	}

	for dir, v := range co.world.Exits(roomId) {
		st.Exits[dir.String()] = protocol.ExitState{Available: v.Available, Reason: v.Reason}
	}

	for _, rd := range co.world.DoorsOf(roomId) {
		state := rd.Door.State()
		st.Doors = append(st.Doors, protocol.DoorView{
			Id:          rd.Door.Id,
			Name:        rd.Door.Door.Name,
			Direction:   rd.Direction.String(),
			IsOpen:      state == game.DoorOpen,
			State:       state.String(),
			Description: rd.Door.Door.Description,
		})
	}

	if w := ri.Room.Warp; w != nil {
		dest := w.Destination
		if di := co.world.Room(dest); di != nil {
			dest = di.Room.Name
		}
		st.WarpStone = &protocol.WarpStoneView{Description: w.Description, Destination: dest}
	}

	ri.Lock()
	for _, m := range ri.Mobs() {
		st.Mobs = append(st.Mobs, protocol.MobView{
			Id:    m.Id,
			Name:  m.Mobile.Name,
			HP:    m.HP,
			MaxHP: m.MaxHP,
			AC:    m.Mobile.AC,
		})
	}
	for _, l := range ri.Loot() {
		st.Loot = append(st.Loot, protocol.LootView{
			Id:          l.Id,
			Name:        l.Name,
			Type:        l.Kind.String(),
			Amount:      l.Amount,
			Description: l.Description,
		})
	}
	ri.Unlock()

	for _, id := range co.presence.Occupants(roomId) {
		other := co.Character(id)
		if other == nil {
			continue
		}
		other.Lock()
		st.Players = append(st.Players, protocol.PlayerView{
			Id:    id,
			Name:  other.Name,
			Level: other.Level,
			Race:  raceName(other.Race.Value()),
			Class: className(other.Class.Value()),
		})
		other.Unlock()
	}

	c.Lock()
	st.Character = characterView(c)
	c.Unlock()

	return st
}

// characterView renders c's own stats. The caller must hold c's lock.
func characterView(c *game.Character) protocol.CharacterView {
	v := protocol.CharacterView{
		Id:               c.Id,
		Name:             c.Name,
		Race:             raceName(c.Race.Value()),
		Class:            className(c.Class.Value()),
		Level:            c.Level,
		XP:               c.XP,
		XPToNext:         game.ExpToNextLevel(c.Level, c.XP),
		HP:               c.HP,
		MaxHP:            c.MaxHP,
		AC:               c.AC(),
		ProficiencyBonus: c.ProficiencyBonus(),
		Gold:             c.Gold,
		Abilities:        map[string]int{},
		AbilityMods:      map[string]int{},
		AttackBonus:      c.AttackBonus(),
		AttackAbility:    c.AttackAbility().String(),
		WeaponInventory:  []protocol.WeaponView{},
		Spells:           []protocol.SpellView{},
		Effects:          []protocol.EffectView{},
		Items:            []protocol.ItemView{},
	}

	for _, a := range game.Abilities {
		v.Abilities[a.String()] = c.Abilities[a]
		v.AbilityMods[a.String()] = c.Modifier(a)
	}

	for _, ow := range c.Weapons {
		w := ow.Weapon.Value()
		if w == nil {
			continue
		}
		v.WeaponInventory = append(v.WeaponInventory, protocol.WeaponView{
			Key:        ow.Weapon.Key(),
			Name:       w.Name,
			Dice:       w.Dice.String(),
			DamageType: w.DamageType,
			Equipped:   ow.Equipped,
		})
	}

	for _, s := range c.Spells {
		sp := s.Value()
		if sp == nil {
			continue
		}
		v.Spells = append(v.Spells, protocol.SpellView{
			Key:               s.Key(),
			Name:              sp.Name,
			Type:              sp.Kind.String(),
			Description:       sp.Description,
			Target:            sp.Target.String(),
			Cooldown:          sp.CooldownSeconds,
			CooldownRemaining: seconds(c.CooldownRemaining(s.Key())),
		})
	}

	for _, e := range c.Effects {
		v.Effects = append(v.Effects, protocol.EffectView{
			Name:        e.Name,
			Description: e.Description,
			Remaining:   seconds(e.Remaining),
		})
	}

	for _, it := range c.Items {
		item := it.Value()
		if item == nil {
			continue
		}
		v.Items = append(v.Items, protocol.ItemView{Key: it.Key(), Name: item.Name, Description: item.Description})
	}

	return v
}

func raceName(r *game.Race) string {
	if r == nil {
		return ""
	}
	return r.Name
}

func className(c *game.Class) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func seconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
