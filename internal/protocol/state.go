package protocol

type Connected struct {
	Message string `json:"message,omitempty"`
}

type SystemMessage struct {
	Text string `json:"text"`
}

type ChatMessage struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// RoomState is the full snapshot of a room as seen by one character.
type RoomState struct {
	RoomId      string               `json:"room_id"`
	RoomName    string               `json:"room_name"`
	Description string               `json:"description"`
	X           int                  `json:"x"`
	Y           int                  `json:"y"`
	Exits       map[string]ExitState `json:"exits"`
	Players     []PlayerView         `json:"players"`
	Character   CharacterView        `json:"character"`
	Mobs        []MobView            `json:"mobs"`
	Loot        []LootView           `json:"loot"`
	Doors       []DoorView           `json:"doors"`
	WarpStone   *WarpStoneView       `json:"warp_stone,omitempty"`
}

type ExitState struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type PlayerView struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
	Race  string `json:"race"`
	Class string `json:"class"`
}

type CharacterView struct {
	Id               string         `json:"id"`
	Name             string         `json:"name"`
	Race             string         `json:"race"`
	Class            string         `json:"class"`
	Level            int            `json:"level"`
	XP               int            `json:"xp"`
	XPToNext         int            `json:"xp_to_next"`
	HP               int            `json:"hp"`
	MaxHP            int            `json:"max_hp"`
	AC               int            `json:"ac"`
	ProficiencyBonus int            `json:"proficiency_bonus"`
	Gold             int            `json:"gold"`
	Abilities        map[string]int `json:"abilities"`
	AbilityMods      map[string]int `json:"ability_mods"`
	AttackBonus      int            `json:"attack_bonus"`
	AttackAbility    string         `json:"attack_ability"`
	WeaponInventory  []WeaponView   `json:"weapon_inventory"`
	Spells           []SpellView    `json:"spells"`
	Effects          []EffectView   `json:"effects"`
	Items            []ItemView     `json:"items"`
}

type WeaponView struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Dice       string `json:"dice"`
	DamageType string `json:"damage_type"`
	Equipped   bool   `json:"equipped"`
}

type SpellView struct {
	Key               string `json:"key"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Description       string `json:"description,omitempty"`
	Target            string `json:"target"`
	Cooldown          int    `json:"cooldown"`
	CooldownRemaining int    `json:"cooldown_remaining"`
}

type EffectView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Remaining   int    `json:"remaining"`
}

type ItemView struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type MobView struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
	AC    int    `json:"ac"`
}

type LootView struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Amount      int    `json:"amount"`
	Description string `json:"description,omitempty"`
}

type DoorView struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Direction   string `json:"direction"`
	IsOpen      bool   `json:"is_open"`
	State       string `json:"state"`
	Description string `json:"description,omitempty"`
}

type WarpStoneView struct {
	Description string `json:"description"`
	Destination string `json:"destination"`
}
