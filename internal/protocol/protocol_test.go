package protocol

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-testutil"
)

func TestDecode(t *testing.T) {
	tests := map[string]struct {
		raw      string
		expEvent Event
		expErr   string
	}{
		"move":          {raw: `{"event":"move","data":{"direction":"north"}}`, expEvent: EventMove},
		"no data":       {raw: `{"event":"join_game"}`, expEvent: EventJoinGame},
		"missing event": {raw: `{"data":{}}`, expErr: "no event"},
		"not json":      {raw: `move north`, expErr: "decoding envelope"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env, err := Decode([]byte(tt.raw))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "event", env.Event, tt.expEvent)
		})
	}
}

func TestEnvelope_Bind(t *testing.T) {
	tests := map[string]struct {
		event   Event
		data    string
		payload Payload
		expErr  string
	}{
		"move":                {event: EventMove, data: `{"direction":"e"}`, payload: &Move{}},
		"move bad direction":  {event: EventMove, data: `{"direction":"up"}`, payload: &Move{}, expErr: "unknown direction"},
		"move missing data":   {event: EventMove, payload: &Move{}, expErr: "unknown direction"},
		"chat":                {event: EventChat, data: `{"text":" hello "}`, payload: &Chat{}},
		"chat blank":          {event: EventChat, data: `{"text":"   "}`, payload: &Chat{}, expErr: "text is required"},
		"chat wrong type":     {event: EventChat, data: `{"text":5}`, payload: &Chat{}, expErr: "malformed chat payload"},
		"cast with target":    {event: EventCastSpell, data: `{"spell":"bless","target":"bob"}`, payload: &CastSpell{}},
		"cast without spell":  {event: EventCastSpell, data: `{"target":"bob"}`, payload: &CastSpell{}, expErr: "spell is required"},
		"equip":               {event: EventEquipWeapon, data: `{"weapon":"dagger"}`, payload: &EquipWeapon{}},
		"equip missing":       {event: EventEquipWeapon, data: `{}`, payload: &EquipWeapon{}, expErr: "weapon is required"},
		"pickup":              {event: EventPickupLoot, data: `{"loot_id":"loot-1"}`, payload: &PickupLoot{}},
		"pickup missing":      {event: EventPickupLoot, data: `null`, payload: &PickupLoot{}, expErr: "loot_id is required"},
		"door":                {event: EventDoorAction, data: `{"door_id":"oak-door","action":"close"}`, payload: &DoorAction{}},
		"door bad action":     {event: EventDoorAction, data: `{"door_id":"oak-door","action":"lock"}`, payload: &DoorAction{}, expErr: "unknown door action"},
		"door missing fields": {event: EventDoorAction, data: `{}`, payload: &DoorAction{}, expErr: "door_id is required"},
		"attack":              {event: EventAttack, data: `{"target":"goblin-1"}`, payload: &Attack{}},
		"attack missing":      {event: EventAttack, data: `{}`, payload: &Attack{}, expErr: "target is required"},
		"warp":                {event: EventActivateWarp, payload: &Empty{}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := Envelope{Event: tt.event, Data: json.RawMessage(tt.data)}
			err := env.Bind(tt.payload)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEnvelope_BindParses(t *testing.T) {
	env := Envelope{Event: EventMove, Data: json.RawMessage(`{"direction":"West"}`)}
	var m Move
	if err := env.Bind(&m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "direction", m.Dir, game.West)

	env = Envelope{Event: EventDoorAction, Data: json.RawMessage(`{"door_id":"d","action":"close"}`)}
	var d DoorAction
	if err := env.Bind(&d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "action", d.Parsed, game.CloseDoor)

	env = Envelope{Event: EventChat, Data: json.RawMessage(`{"text":"  hi there "}`)}
	var c Chat
	if err := env.Bind(&c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "trimmed", c.Text, "hi there")
}

func TestEncode(t *testing.T) {
	raw, err := Encode(EventChatMessage, ChatMessage{From: "Aria", Text: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "frame", string(raw), `{"event":"chat_message","data":{"from":"Aria","text":"hello"}}`)

	raw, err = Encode(EventConnected, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "no data", string(raw), `{"event":"connected"}`)
}

func TestRoomState_WarpStoneOmitted(t *testing.T) {
	raw, err := json.Marshal(RoomState{RoomId: "hall"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, ok := out["warp_stone"]
	testutil.AssertEqual(t, "warp_stone present", ok, false)
	_, ok = out["exits"]
	testutil.AssertEqual(t, "exits present", ok, true)
}
