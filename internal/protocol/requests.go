package protocol

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-errors"
)

// Empty is the body of events that carry no data.
type Empty struct{}

func (Empty) Validate() error { return nil }

type Move struct {
	Direction string `json:"direction"`

	// Dir is set by Validate.
	Dir game.Direction `json:"-"`
}

func (m *Move) Validate() error {
	d, err := game.ParseDirection(m.Direction)
	if err != nil {
		return err
	}
	m.Dir = d
	return nil
}

// MaxChatLength bounds a single chat line.
const MaxChatLength = 500

type Chat struct {
	Text string `json:"text"`
}

func (c *Chat) Validate() error {
	c.Text = strings.TrimSpace(c.Text)
	el := errors.NewErrorList()
	if c.Text == "" {
		el.Add(fmt.Errorf("text is required"))
	}
	if len(c.Text) > MaxChatLength {
		el.Add(fmt.Errorf("text must be at most %d characters", MaxChatLength))
	}
	return el.Err()
}

type Attack struct {
	Target string `json:"target"`
}

func (a *Attack) Validate() error {
	if strings.TrimSpace(a.Target) == "" {
		return fmt.Errorf("target is required")
	}
	return nil
}

type EquipWeapon struct {
	Weapon string `json:"weapon"`
}

func (e *EquipWeapon) Validate() error {
	if strings.TrimSpace(e.Weapon) == "" {
		return fmt.Errorf("weapon is required")
	}
	return nil
}

type CastSpell struct {
	Spell  string `json:"spell"`
	Target string `json:"target,omitempty"`
}

func (c *CastSpell) Validate() error {
	if strings.TrimSpace(c.Spell) == "" {
		return fmt.Errorf("spell is required")
	}
	return nil
}

type PickupLoot struct {
	LootId string `json:"loot_id"`
}

func (p *PickupLoot) Validate() error {
	if strings.TrimSpace(p.LootId) == "" {
		return fmt.Errorf("loot_id is required")
	}
	return nil
}

type DoorAction struct {
	DoorId string `json:"door_id"`
	Action string `json:"action"`

	// Parsed is set by Validate.
	Parsed game.DoorAction `json:"-"`
}

func (d *DoorAction) Validate() error {
	el := errors.NewErrorList()
	if strings.TrimSpace(d.DoorId) == "" {
		el.Add(fmt.Errorf("door_id is required"))
	}
	a, err := game.ParseDoorAction(d.Action)
	el.Add(err)
	d.Parsed = a
	return el.Err()
}
