// Package protocol defines the named events exchanged with clients and their
// JSON payloads. Every frame is an Envelope: {"event": "...", "data": {...}}.
package protocol

import (
	"encoding/json"
	"fmt"
)

type Event string

// Client to server.
const (
	EventJoinGame     Event = "join_game"
	EventMove         Event = "move"
	EventChat         Event = "chat"
	EventAttack       Event = "attack"
	EventEquipWeapon  Event = "equip_weapon"
	EventCastSpell    Event = "cast_spell"
	EventPickupLoot   Event = "pickup_loot"
	EventDoorAction   Event = "door_action"
	EventActivateWarp Event = "activate_warp"
)

// Server to client.
const (
	EventConnected     Event = "connected"
	EventRoomState     Event = "room_state"
	EventSystemMessage Event = "system_message"
	EventChatMessage   Event = "chat_message"
)

type Envelope struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Payload is an inbound event body that can check itself.
type Payload interface {
	Validate() error
}

// Encode wraps payload in an envelope for event. A nil payload sends no data.
func Encode(event Event, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", event, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// Decode parses a raw frame into an envelope.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("envelope has no event")
	}
	return env, nil
}

// Bind unmarshals the envelope data into p and validates it. Missing data is
// treated as an empty object.
func (e Envelope) Bind(p Payload) error {
	data := e.Data
	if len(data) == 0 || string(data) == "null" {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("malformed %s payload: %w", e.Event, err)
	}
	return p.Validate()
}
