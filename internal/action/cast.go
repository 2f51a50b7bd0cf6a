package action

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pixil98/go-dungeon/internal/game"
)

// CastSpell casts one of c's spells or abilities. target may be empty.
func (r *Resolver) CastSpell(c *game.Character, ref, target string) (*Result, error) {
	ref = strings.TrimSpace(ref)
	target = strings.TrimSpace(target)
	if ref == "" {
		return nil, game.Reject(game.ErrSpellNotFound, "Choose a spell or ability to use.")
	}

	c.Lock()
	key, spell := c.FindSpell(ref)
	remaining := c.CooldownRemaining(key)
	c.Unlock()

	if spell == nil {
		return nil, game.Reject(game.ErrSpellNotFound, "You don't know '%s'.", ref)
	}
	if remaining > 0 {
		return nil, game.Reject(game.ErrOnCooldown, "%s will be ready in %d seconds.", spell.Name, seconds(remaining))
	}

	switch spell.Target {
	case game.TargetSelf, game.TargetNone:
		if target != "" {
			return nil, game.Reject(game.ErrInvalidTarget, "%s cannot be aimed at anyone.", spell.Name)
		}
	case game.TargetEnemy:
		if target == "" {
			return nil, game.Reject(game.ErrInvalidTarget, "Choose a target for %s.", spell.Name)
		}
	}

	switch spell.Kind {
	case game.SpellAttack:
		return r.castAttack(c, key, spell, target)
	case game.SpellHeal, game.SpellBuff:
		return r.castSupport(c, key, spell, target)
	default:
		return r.castUtility(c, key, spell)
	}
}

func (r *Resolver) castAttack(c *game.Character, key string, spell *game.Spell, target string) (*Result, error) {
	if target == "" {
		return nil, game.Reject(game.ErrInvalidTarget, "Choose a target for %s.", spell.Name)
	}

	room := roomOf(c)
	ri := r.world.Room(room)
	if ri == nil {
		return nil, game.ErrRoomNotFound
	}

	ri.Lock()
	mob := ri.FindMob(target)
	if mob == nil {
		ri.Unlock()
		return r.castAtPlayer(c, key, spell, room, target)
	}
	defer ri.Unlock()

	dmg := r.spellDamage(c, key, spell)
	dealt, slain := mob.ApplyDamage(c.Id, dmg)

	res := &Result{}
	res.touch(room)
	res.toRoom(room, fmt.Sprintf("%s casts %s at %s, dealing %d%s!", c.Name, spell.Name, mob.Mobile.Name, dealt, damageSuffix(spell.DamageType)))
	if slain {
		r.defeat(ri, mob, res)
	}
	return res, nil
}

// castAtPlayer aims an attack spell at another character in room. The caller
// must hold no locks.
func (r *Resolver) castAtPlayer(c *game.Character, key string, spell *game.Spell, room, ref string) (*Result, error) {
	victim := r.findPlayer(room, ref)
	if victim == nil {
		return nil, game.Reject(game.ErrInvalidTarget, "There is no '%s' here to target.", ref)
	}
	if victim == c {
		return nil, game.Reject(game.ErrInvalidTarget, "You cannot aim %s at yourself.", spell.Name)
	}

	dmg := r.spellDamage(c, key, spell)
	dealt, defeated, ok := r.wound(victim, room, dmg)
	if !ok {
		return nil, game.Reject(game.ErrInvalidTarget, "There is no '%s' here to target.", ref)
	}

	res := &Result{}
	res.touch(room)
	hit := fmt.Sprintf("%s casts %s at %s, dealing %d%s!", c.Name, spell.Name, victim.Name, dealt, damageSuffix(spell.DamageType))
	res.toRoom(room, hit)
	if defeated {
		res.toCharacter(victim.Id, hit)
		res.toRoom(room, fmt.Sprintf("%s collapses under the assault!", victim.Name))
		r.respawn(victim, room, res)
	}
	return res, nil
}

// spellDamage rolls an attack spell's damage and starts its cooldown.
func (r *Resolver) spellDamage(c *game.Character, key string, spell *game.Spell) int {
	c.Lock()
	defer c.Unlock()
	c.StartCooldown(key, spell.Cooldown())
	return max(spell.Dice.Roll(r.roller)+spellModifier(c, spell), 1)
}

// castSupport handles heals and buffs, which land on the caster unless an
// ally in the same room is named.
func (r *Resolver) castSupport(c *game.Character, key string, spell *game.Spell, target string) (*Result, error) {
	room := roomOf(c)

	recipient := c
	if target != "" && spell.Target != game.TargetSelf {
		recipient = r.findPlayer(room, target)
		if recipient == nil {
			return nil, game.Reject(game.ErrInvalidTarget, "%s is not here.", target)
		}
	}

	c.Lock()
	amount := 0
	if spell.Kind == game.SpellHeal {
		amount = spell.Dice.Roll(r.roller) + spellModifier(c, spell)
		if spell.AddLevel {
			amount += c.Level
		}
		amount = max(amount, 1)
	}
	c.StartCooldown(key, spell.Cooldown())
	c.Unlock()

	res := &Result{}
	res.touch(room)

	recipient.Lock()
	defer recipient.Unlock()

	if spell.Kind == game.SpellHeal {
		restored := recipient.Heal(amount)
		if restored == 0 {
			res.toRoom(room, fmt.Sprintf("%s has no effect on %s.", spell.Name, recipient.Name))
		} else {
			res.toRoom(room, fmt.Sprintf("%s casts %s and restores %d HP to %s.", c.Name, spell.Name, restored, recipient.Name))
		}
		return res, nil
	}

	recipient.ApplyEffect(spell.Effect.Instantiate(key))
	msg := fmt.Sprintf("%s casts %s on %s.", c.Name, spell.Name, recipient.Name)
	if recipient == c {
		msg = fmt.Sprintf("%s is wreathed in %s.", c.Name, spell.Name)
	}
	if spell.Effect.Description != "" {
		msg += fmt.Sprintf(" (%s)", spell.Effect.Description)
	}
	res.toRoom(room, msg)
	return res, nil
}

func (r *Resolver) castUtility(c *game.Character, key string, spell *game.Spell) (*Result, error) {
	room := roomOf(c)

	c.Lock()
	c.StartCooldown(key, spell.Cooldown())
	c.Unlock()

	res := &Result{}
	res.touch(room)

	if !spell.Scout {
		res.toRoom(room, fmt.Sprintf("%s invokes %s, but its effect is subtle.", c.Name, spell.Name))
		return res, nil
	}

	res.toRoomExcept(room, c.Id, fmt.Sprintf("%s narrows their eyes, surveying the surrounding paths.", c.Name))
	res.toCharacter(c.Id, r.scout(room))
	return res, nil
}

// scout reports who stands in each room adjacent to room.
func (r *Resolver) scout(room string) string {
	ri := r.world.Room(room)
	if ri == nil {
		return "You sense nothing nearby."
	}

	var lines []string
	for _, dir := range game.Directions {
		exit, ok := ri.Room.Exits[dir]
		if !ok {
			continue
		}
		next := r.world.Room(exit.RoomId)
		if next == nil {
			continue
		}

		var names []string
		for _, id := range r.presence.Occupants(exit.RoomId) {
			if ch := r.roster.Character(id); ch != nil {
				names = append(names, ch.Name)
			}
		}

		who := "No one in sight."
		if len(names) > 0 {
			who = strings.Join(names, ", ")
		}
		label := dir.String()
		lines = append(lines, fmt.Sprintf("%s%s (%s): %s", strings.ToUpper(label[:1]), label[1:], next.Room.Name, who))
	}

	if len(lines) == 0 {
		return "You sense nothing nearby."
	}
	return "Nearby presences:\n" + strings.Join(lines, "\n")
}

// Spells lists c's spells and abilities with their readiness.
func (r *Resolver) Spells(c *game.Character) *Result {
	c.Lock()
	defer c.Unlock()

	res := &Result{}
	if len(c.Spells) == 0 {
		res.toCharacter(c.Id, "You know no spells or abilities.")
		return res
	}

	lines := []string{"Spells & abilities:"}
	for _, s := range c.Spells {
		sp := s.Value()
		if sp == nil {
			continue
		}
		status := "ready"
		if rem := c.CooldownRemaining(s.Key()); rem > 0 {
			status = fmt.Sprintf("%ds", seconds(rem))
		}
		lines = append(lines, fmt.Sprintf("  %s [%s, %s] - %s", sp.Name, sp.Kind, sp.Target, status))
	}
	res.toCharacter(c.Id, strings.Join(lines, "\n"))
	return res
}

// spellModifier is the caster's modifier for the spell's ability, if it has one.
// The caller must hold the caster's lock.
func spellModifier(c *game.Character, spell *game.Spell) int {
	if spell.Ability == nil {
		return 0
	}
	return c.Modifier(*spell.Ability)
}

func damageSuffix(damageType string) string {
	if damageType == "" {
		return " damage"
	}
	return fmt.Sprintf(" %s damage", damageType)
}

func seconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
