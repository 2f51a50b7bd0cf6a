package action

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pixil98/go-dungeon/internal/combat"
	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-dungeon/internal/game"
)

// Attack swings c's equipped weapon at a mob or another player in its room.
// Mobs are matched before players.
func (r *Resolver) Attack(c *game.Character, ref string) (*Result, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, game.Reject(game.ErrInvalidTarget, "Choose a target to attack.")
	}

	room := roomOf(c)
	ri := r.world.Room(room)
	if ri == nil {
		return nil, game.ErrRoomNotFound
	}

	ri.Lock()
	mob := ri.FindMob(ref)
	if mob == nil {
		ri.Unlock()
		return r.attackPlayer(c, room, ref)
	}
	defer ri.Unlock()

	w, err := readyWeapon(c)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	res.touch(room)

	roll := combat.ResolveAttack(r.roller, w.bonus, w.extra, mob.Mobile.AC)
	if !roll.Hit {
		res.toRoom(room, fmt.Sprintf("%s strikes at %s but misses (%s).", c.Name, mob.Mobile.Name, roll.Detail()))
		return res, nil
	}

	dmg := combat.RollDamage(r.roller, w.weapon.Dice, roll.Crit, w.dmgBonus)
	dealt, slain := mob.ApplyDamage(c.Id, dmg)
	res.toRoom(room, fmt.Sprintf("%s %s %s with %s for %d damage (%s).",
		c.Name, combat.DamageVerb(dealt), mob.Mobile.Name, w.weapon.Name, dealt, roll.Detail()))

	if slain {
		r.defeat(ri, mob, res)
	}
	return res, nil
}

// attackPlayer swings c's weapon at another character in room. The caller
// must hold no locks.
func (r *Resolver) attackPlayer(c *game.Character, room, ref string) (*Result, error) {
	target := r.findPlayer(room, ref)
	if target == nil {
		return nil, game.Reject(game.ErrTargetNotFound, "You don't see '%s' here.", ref)
	}
	if target == c {
		return nil, game.Reject(game.ErrInvalidTarget, "You cannot attack yourself.")
	}

	w, err := readyWeapon(c)
	if err != nil {
		return nil, err
	}

	target.Lock()
	ac := target.AC()
	target.Unlock()

	res := &Result{}
	res.touch(room)

	roll := combat.ResolveAttack(r.roller, w.bonus, w.extra, ac)
	if !roll.Hit {
		res.toRoom(room, fmt.Sprintf("%s attacks %s but misses (%s).", c.Name, target.Name, roll.Detail()))
		return res, nil
	}

	dmg := combat.RollDamage(r.roller, w.weapon.Dice, roll.Crit, w.dmgBonus)
	dealt, defeated, ok := r.wound(target, room, dmg)
	if !ok {
		return nil, game.Reject(game.ErrTargetNotFound, "You don't see '%s' here.", ref)
	}
	hit := fmt.Sprintf("%s %s %s with %s for %d damage (%s).",
		c.Name, combat.DamageVerb(dealt), target.Name, w.weapon.Name, dealt, roll.Detail())
	res.toRoom(room, hit)

	if defeated {
		// The target has left room by the time messages go out.
		res.toCharacter(target.Id, hit)
		res.toRoom(room, fmt.Sprintf("%s collapses from their wounds!", target.Name))
		r.respawn(target, room, res)
	}
	return res, nil
}

type weaponReadiness struct {
	weapon   *game.Weapon
	bonus    int
	extra    []dice.Expr
	dmgBonus int
}

// readyWeapon reads c's attack numbers under its lock.
func readyWeapon(c *game.Character) (weaponReadiness, error) {
	c.Lock()
	defer c.Unlock()

	ow := c.Equipped()
	if ow == nil || ow.Weapon.Value() == nil {
		return weaponReadiness{}, game.Reject(game.ErrItemNotOwned, "You have nothing to attack with.")
	}
	return weaponReadiness{
		weapon:   ow.Weapon.Value(),
		bonus:    c.AttackBonus(),
		extra:    c.AttackDice(),
		dmgBonus: c.DamageBonus(),
	}, nil
}

// wound deals dmg to target if it is still standing in room. A blow that
// drops it to 0 hp revives it in the start room under the same lock, so only
// one attacker ever defeats it. ok is false when the target has moved on.
func (r *Resolver) wound(target *game.Character, room string, dmg int) (dealt int, defeated, ok bool) {
	target.Lock()
	defer target.Unlock()

	if target.Room != room || target.HP == 0 {
		return 0, false, false
	}
	dealt, defeated = target.TakeDamage(dmg)
	if defeated {
		target.Revive(r.world.StartRoom())
	}
	return dealt, defeated, true
}

// respawn moves a revived character's presence from the room it fell in to
// the start room and tells everyone involved.
func (r *Resolver) respawn(target *game.Character, from string, res *Result) {
	to := r.world.StartRoom()
	r.presence.Move(target.Id, to)

	name := to
	if ri := r.world.Room(to); ri != nil {
		name = ri.Room.Name
	}

	res.touch(from, to)
	res.toRoomExcept(from, target.Id, fmt.Sprintf("%s vanishes in a swirl of grey mist.", target.Name))
	res.toRoomExcept(to, target.Id, fmt.Sprintf("%s staggers into the area, looking dazed.", target.Name))
	res.toCharacter(target.Id, fmt.Sprintf("You have been defeated. You wake in %s with your wounds closed.", name))
}

// defeat removes a slain mob, shares out its experience, and drops its loot.
// The caller must hold the room lock and no character locks.
func (r *Resolver) defeat(ri *game.RoomInstance, mob *game.MobileInstance, res *Result) {
	res.toRoom(ri.Id, fmt.Sprintf("%s is slain!", mob.Mobile.Name))

	for _, award := range combat.DistributeXP(mob.Mobile.XP, mob.Contributions()) {
		ch := r.roster.Character(award.CharacterId)
		if ch == nil {
			slog.Info("experience forfeited by offline character", "character", award.CharacterId, "xp", award.XP)
			continue
		}

		ch.Lock()
		levels := ch.GainXP(award.XP)
		level := ch.Level
		ch.Unlock()

		res.toCharacter(ch.Id, fmt.Sprintf("You gain %d XP.", award.XP))
		if levels > 0 {
			res.toRoom(ri.Id, fmt.Sprintf("%s has reached level %d!", ch.Name, level))
		}
	}

	drops := mob.Mobile.RollLoot(r.world.Dictionary(), r.roller, r.world.NewLootId)
	if len(drops) > 0 {
		ri.AddLoot(drops...)
		names := make([]string, len(drops))
		for i, d := range drops {
			names[i] = d.Name
		}
		res.toRoom(ri.Id, fmt.Sprintf("Treasure spills onto the ground: %s.", strings.Join(names, ", ")))
	}

	ri.RemoveMob(mob.Id, time.Now())
}
