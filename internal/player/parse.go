package player

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/protocol"
)

const helpText = `Commands:
  north, south, east, west (n, s, e, w)   walk
  look                                    look around
  say <text>                              talk to the room
  attack <target>                         attack a creature
  cast <spell> [target]                   cast a spell or ability
  spells                                  list your spells
  wield <weapon>                          equip a weapon
  get <loot>                              pick up loot
  open <door>, close <door>               work a door
  warp                                    use a warp stone
  quit                                    leave the dungeon
Anything starting with / is sent as a slash command.`

var errUnknownCommand = errors.New("Huh? Type 'help' for a list of commands.")

// Intent is one parsed line of console input.
type Intent struct {
	Event   protocol.Event
	Payload any

	// Reply is answered locally without involving the server.
	Reply string
	Quit  bool
}

// ParseLine maps a line typed at the console onto an event. An empty line
// parses to a zero Intent.
func ParseLine(line string) (Intent, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Intent{}, nil
	}
	if strings.HasPrefix(line, "/") {
		return chat(line), nil
	}

	verb, args, _ := strings.Cut(line, " ")
	verb = strings.ToLower(verb)
	args = strings.TrimSpace(args)

	if _, err := game.ParseDirection(verb); err == nil {
		return Intent{Event: protocol.EventMove, Payload: protocol.Move{Direction: verb}}, nil
	}

	required := func(usage string) error {
		if args == "" {
			return fmt.Errorf("Usage: %s", usage)
		}
		return nil
	}

	switch verb {
	case "quit", "exit":
		return Intent{Quit: true}, nil

	case "help", "?":
		return Intent{Reply: helpText}, nil

	case "look", "l":
		return Intent{Event: protocol.EventJoinGame}, nil

	case "go", "move", "walk":
		if err := required(verb + " <direction>"); err != nil {
			return Intent{}, err
		}
		return Intent{Event: protocol.EventMove, Payload: protocol.Move{Direction: args}}, nil

	case "say", "'":
		if err := required("say <text>"); err != nil {
			return Intent{}, err
		}
		return chat(args), nil

	case "attack", "kill", "fight", "k":
		if err := required("attack <target>"); err != nil {
			return Intent{}, err
		}
		return Intent{Event: protocol.EventAttack, Payload: protocol.Attack{Target: args}}, nil

	case "wield", "equip":
		if err := required(verb + " <weapon>"); err != nil {
			return Intent{}, err
		}
		return Intent{Event: protocol.EventEquipWeapon, Payload: protocol.EquipWeapon{Weapon: args}}, nil

	case "cast", "c":
		// Multi-word spell names are split on the server.
		if err := required("cast <spell> [target]"); err != nil {
			return Intent{}, err
		}
		return chat("/cast " + args), nil

	case "spells", "abilities":
		return chat("/spells"), nil

	case "get", "take", "loot":
		if err := required(verb + " <loot>"); err != nil {
			return Intent{}, err
		}
		return Intent{Event: protocol.EventPickupLoot, Payload: protocol.PickupLoot{LootId: args}}, nil

	case "open", "close":
		if err := required(verb + " <door>"); err != nil {
			return Intent{}, err
		}
		return Intent{Event: protocol.EventDoorAction, Payload: protocol.DoorAction{DoorId: args, Action: verb}}, nil

	case "warp":
		return Intent{Event: protocol.EventActivateWarp}, nil
	}

	return Intent{}, errUnknownCommand
}

func chat(text string) Intent {
	return Intent{Event: protocol.EventChat, Payload: protocol.Chat{Text: text}}
}
