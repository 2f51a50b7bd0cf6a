package game

import "fmt"

type LootKind int

const (
	LootGold LootKind = iota
	LootItem
	LootWeapon
)

var lootKindNames = [...]string{"gold", "item", "weapon"}

func (k LootKind) String() string {
	if k < 0 || int(k) >= len(lootKindNames) {
		return fmt.Sprintf("lootkind(%d)", int(k))
	}
	return lootKindNames[k]
}

func (k LootKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *LootKind) UnmarshalText(text []byte) error {
	for i, n := range lootKindNames {
		if string(text) == n {
			*k = LootKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown loot kind: %q", text)
}

// Loot is a takeable drop lying in a room.
type Loot struct {
	Id          string
	Kind        LootKind
	Key         string
	Name        string
	Amount      int
	Description string
}

func NewGoldLoot(id string, amount int) *Loot {
	return &Loot{
		Id:          id,
		Kind:        LootGold,
		Name:        fmt.Sprintf("%d gold coins", amount),
		Amount:      amount,
		Description: fmt.Sprintf("A pile of %d gold coins.", amount),
	}
}

func NewItemLoot(id, key string, it *Item) *Loot {
	return &Loot{
		Id:          id,
		Kind:        LootItem,
		Key:         key,
		Name:        it.Name,
		Amount:      1,
		Description: it.Description,
	}
}

func NewWeaponLoot(id, key string, w *Weapon) *Loot {
	return &Loot{
		Id:          id,
		Kind:        LootWeapon,
		Key:         key,
		Name:        w.Name,
		Amount:      1,
		Description: fmt.Sprintf("%s (%s %s)", w.Name, w.Dice.Dice(), w.DamageType),
	}
}
