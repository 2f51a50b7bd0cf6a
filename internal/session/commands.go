package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-dungeon/internal/action"
	"github.com/pixil98/go-dungeon/internal/game"
)

// command runs a slash command typed into chat, without its leading slash.
func (co *Coordinator) command(_ context.Context, c *game.Character, line string) (*action.Result, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)

	usage := func(u string) error {
		return game.NewActionError(game.KindValidation, "Usage: "+u)
	}

	switch name {
	case "attack", "fight":
		if args == "" {
			return nil, usage("/attack <target>")
		}
		return co.resolver.Attack(c, args)

	case "equip", "wield":
		if args == "" {
			return nil, usage("/equip <weapon>")
		}
		return co.resolver.EquipWeapon(c, args)

	case "cast":
		if args == "" {
			return nil, usage("/cast <spell> [target]")
		}
		spell, target := splitSpell(c, args)
		return co.resolver.CastSpell(c, spell, target)

	case "spells", "abilities":
		return co.resolver.Spells(c), nil

	case "loot", "take", "pickup":
		if args == "" {
			return nil, usage("/loot <loot-id>")
		}
		return co.resolver.PickupLoot(c, args)

	case "open", "close":
		if args == "" {
			return nil, usage(fmt.Sprintf("/%s <door>", name))
		}
		act, _ := game.ParseDoorAction(name)
		return co.resolver.DoorAction(c, args, act)

	case "warp":
		return co.resolver.ActivateWarp(c)

	case "look":
		co.sendSnapshot(c.Id)
		return nil, nil
	}

	return nil, game.NewActionError(game.KindValidation, fmt.Sprintf("Unknown command: %s", name))
}

// splitSpell separates a spell reference from its target. Known spell keys
// and names are matched first, longest wins, so multi-word names work;
// otherwise the first word is the spell.
func splitSpell(c *game.Character, text string) (spell, target string) {
	matched := 0

	c.Lock()
	for _, s := range c.Spells {
		if s.Value() == nil {
			continue
		}
		for _, cand := range []string{s.Key(), s.Value().Name} {
			if len(cand) > matched && hasWordPrefix(text, cand) {
				spell, matched = s.Key(), len(cand)
			}
		}
	}
	c.Unlock()

	if matched > 0 {
		return spell, strings.TrimSpace(text[matched:])
	}
	spell, target, _ = strings.Cut(text, " ")
	return spell, strings.TrimSpace(target)
}

// hasWordPrefix reports whether text is prefix, ignoring case, or starts with
// it followed by a space.
func hasWordPrefix(text, prefix string) bool {
	if len(text) < len(prefix) || !strings.EqualFold(text[:len(prefix)], prefix) {
		return false
	}
	return len(text) == len(prefix) || text[len(prefix)] == ' '
}
