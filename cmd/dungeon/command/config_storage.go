package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/storage"
	"github.com/pixil98/go-errors"
	"github.com/redis/go-redis/v9"
)

type StorageConfig struct {
	Weapons AssetConfig[*game.Weapon] `json:"weapons"`
	Items   AssetConfig[*game.Item]   `json:"items"`
	Spells  AssetConfig[*game.Spell]  `json:"spells"`
	Races   AssetConfig[*game.Race]   `json:"races"`
	Classes AssetConfig[*game.Class]  `json:"classes"`
	Mobiles AssetConfig[*game.Mobile] `json:"mobiles"`
	Rooms   AssetConfig[*game.Room]   `json:"rooms"`
	Doors   AssetConfig[*game.Door]   `json:"doors"`

	Characters CharacterStoreConfig `json:"characters"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Weapons.validate("weapons"))
	el.Add(c.Items.validate("items"))
	el.Add(c.Spells.validate("spells"))
	el.Add(c.Races.validate("races"))
	el.Add(c.Classes.validate("classes"))
	el.Add(c.Mobiles.validate("mobiles"))
	el.Add(c.Rooms.validate("rooms"))
	el.Add(c.Doors.validate("doors"))
	el.Add(c.Characters.validate())
	return el.Err()
}

func (c *StorageConfig) BuildDictionary() (*game.Dictionary, error) {
	weapons, err := c.Weapons.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating weapon store: %w", err)
	}
	items, err := c.Items.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	spells, err := c.Spells.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating spell store: %w", err)
	}
	races, err := c.Races.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating race store: %w", err)
	}
	classes, err := c.Classes.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating class store: %w", err)
	}
	mobiles, err := c.Mobiles.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating mobile store: %w", err)
	}
	rooms, err := c.Rooms.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	doors, err := c.Doors.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating door store: %w", err)
	}

	dict := &game.Dictionary{
		Weapons: weapons,
		Items:   items,
		Spells:  spells,
		Races:   races,
		Classes: classes,
		Mobiles: mobiles,
		Rooms:   rooms,
		Doors:   doors,
	}

	if err := dict.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving references: %w", err)
	}

	return dict, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) buildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}

type CharacterBackend string

const (
	BackendFile  CharacterBackend = "file"
	BackendRedis CharacterBackend = "redis"
)

// CharacterStoreConfig picks where characters are saved between sessions.
type CharacterStoreConfig struct {
	Backend CharacterBackend `json:"backend"`
	Path    string           `json:"path,omitempty"`
	Redis   RedisConfig      `json:"redis"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
}

func (c *CharacterStoreConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Backend {
	case BackendFile, "":
		el.Add((&AssetConfig[*game.Character]{Path: c.Path}).validate("characters"))
	case BackendRedis:
		if c.Redis.Addr == "" {
			el.Add(fmt.Errorf("characters: redis.addr is required"))
		}
	default:
		el.Add(fmt.Errorf("characters: unknown backend %q", c.Backend))
	}

	return el.Err()
}

func (c *CharacterStoreConfig) buildRepository() (storage.Repository[*game.Character], error) {
	if c.Backend == BackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})

		var opts []storage.RedisStoreOpt[*game.Character]
		if c.Redis.Prefix != "" {
			opts = append(opts, storage.WithPrefix[*game.Character](c.Redis.Prefix))
		}
		return storage.NewRedisStore(client, "character", opts...), nil
	}

	st, err := storage.NewFileStore[*game.Character](c.Path)
	if err != nil {
		return nil, fmt.Errorf("creating character store: %w", err)
	}
	return st, nil
}
