// Package session binds connections to characters, routes their events to
// the action resolver, and fans results out to everyone affected.
package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-dungeon/internal/action"
	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/messaging"
	"github.com/pixil98/go-dungeon/internal/metrics"
	"github.com/pixil98/go-dungeon/internal/presence"
	"github.com/pixil98/go-dungeon/internal/protocol"
	"github.com/pixil98/go-dungeon/internal/storage"
)

const DefaultBufferSize = 64

// Identity is who is connecting, as established by the transport.
type Identity struct {
	PlayerId string
	// Name, Race, and Class are used only when creating a new character.
	Name  string
	Race  string
	Class string
}

type Coordinator struct {
	world     *game.World
	presence  *presence.Directory
	resolver  *action.Resolver
	publisher *messaging.Publisher
	chars     storage.Repository[*game.Character]
	metrics   *metrics.Metrics
	roller    dice.Roller
	now       func() time.Time

	bufferSize   int
	defaultRace  string
	defaultClass string

	mu       sync.RWMutex
	sessions map[string]*Session
	online   map[string]*game.Character
}

type CoordinatorOpt func(*Coordinator)

// WithBufferSize sets how many outbound frames a session may queue.
func WithBufferSize(n int) CoordinatorOpt {
	return func(c *Coordinator) {
		c.bufferSize = n
	}
}

func WithMetrics(m *metrics.Metrics) CoordinatorOpt {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithRoller sets the dice used for new characters and for actions.
func WithRoller(r dice.Roller) CoordinatorOpt {
	return func(c *Coordinator) {
		c.roller = r
	}
}

// WithDefaults sets the race and class given to new characters that do not
// ask for one.
func WithDefaults(race, class string) CoordinatorOpt {
	return func(c *Coordinator) {
		c.defaultRace = race
		c.defaultClass = class
	}
}

func WithNow(now func() time.Time) CoordinatorOpt {
	return func(c *Coordinator) {
		c.now = now
	}
}

func NewCoordinator(world *game.World, dir *presence.Directory, bus messaging.Bus, chars storage.Repository[*game.Character], opts ...CoordinatorOpt) *Coordinator {
	co := &Coordinator{
		world:      world,
		presence:   dir,
		publisher:  messaging.NewPublisher(bus),
		chars:      chars,
		roller:     dice.RandomRoller{},
		now:        time.Now,
		bufferSize: DefaultBufferSize,
		sessions:   map[string]*Session{},
		online:     map[string]*game.Character{},
	}

	for _, opt := range opts {
		opt(co)
	}

	co.resolver = action.NewResolver(world, dir, co, action.WithRoller(co.roller))
	return co
}

// Character returns the online character with the given id, or nil.
func (co *Coordinator) Character(id string) *game.Character {
	co.mu.RLock()
	defer co.mu.RUnlock()
	return co.online[id]
}

// Characters returns every online character.
func (co *Coordinator) Characters() []*game.Character {
	co.mu.RLock()
	defer co.mu.RUnlock()

	out := make([]*game.Character, 0, len(co.online))
	for _, c := range co.online {
		out = append(out, c)
	}
	return out
}

// Start blocks until ctx is cancelled, then saves and disconnects everyone.
func (co *Coordinator) Start(ctx context.Context) error {
	<-ctx.Done()

	co.mu.RLock()
	sessions := make([]*Session, 0, len(co.sessions))
	for _, s := range co.sessions {
		sessions = append(sessions, s)
	}
	co.mu.RUnlock()

	for _, s := range sessions {
		co.kick(s, "The dungeon is closing. Farewell.")
		if err := co.Leave(context.WithoutCancel(ctx), s); err != nil {
			slog.ErrorContext(ctx, "saving character at shutdown", "player", s.PlayerId, "error", err)
		}
	}
	return nil
}

// Join binds a new connection to the player's character. A player who is
// already connected keeps their character and the older connection is closed.
func (co *Coordinator) Join(ctx context.Context, id Identity) (*Session, error) {
	if !storage.ValidId(id.PlayerId) {
		return nil, fmt.Errorf("invalid player id %q", id.PlayerId)
	}
	pid := id.PlayerId

	char := co.Character(pid)
	if char == nil {
		loaded, err := co.loadCharacter(ctx, id)
		if err != nil {
			return nil, err
		}
		char = loaded
	}

	s := newSession(pid, co.bufferSize, co.now())
	unsub, err := co.publisher.Subscribe(pid, func(data []byte) {
		if !s.deliver(data) {
			co.metrics.Dropped()
			slog.Warn("dropping outbound event", "player", pid, "session", s.Id)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing %s: %w", pid, err)
	}
	s.unsub = unsub

	co.mu.Lock()
	old := co.sessions[pid]
	if existing := co.online[pid]; existing != nil {
		char = existing
	}
	co.sessions[pid] = s
	co.online[pid] = char
	co.mu.Unlock()

	if old != nil {
		co.kick(old, "You have connected from elsewhere.")
	}

	co.metrics.Joined(old != nil)
	slog.InfoContext(ctx, "player joined", "player", pid, "session", s.Id, "resumed", old != nil)

	co.sendTo(pid, protocol.EventConnected, protocol.Connected{Message: fmt.Sprintf("Welcome, %s.", char.Name)})

	if old != nil {
		co.sendSnapshot(pid)
		return s, nil
	}

	room := roomOf(char)
	co.presence.Place(pid, room)
	co.sendSystem(co.presence.Occupants(room), pid, fmt.Sprintf("%s has entered the room.", char.Name))
	co.RefreshRoom(ctx, room)
	return s, nil
}

// Leave ends a session, saving the character and removing it from the world.
// Leaving a session that was already replaced only closes it.
func (co *Coordinator) Leave(ctx context.Context, s *Session) error {
	defer s.close()

	if !co.current(s) {
		return nil
	}
	char := co.Character(s.PlayerId)

	char.Lock()
	snap := char.Snapshot()
	char.Unlock()
	err := co.chars.Store(ctx, s.PlayerId, snap)

	co.mu.Lock()
	if co.sessions[s.PlayerId] != s {
		co.mu.Unlock()
		return err
	}
	delete(co.sessions, s.PlayerId)
	delete(co.online, s.PlayerId)
	room, ok := co.presence.Remove(s.PlayerId)
	co.mu.Unlock()

	co.metrics.Left()
	slog.InfoContext(ctx, "player left", "player", s.PlayerId, "session", s.Id)

	if ok {
		co.sendSystem(co.presence.Occupants(room), "", fmt.Sprintf("%s has disconnected.", char.Name))
		co.RefreshRoom(ctx, room)
	}

	if err != nil {
		return fmt.Errorf("saving character %s: %w", s.PlayerId, err)
	}
	return nil
}

// Handle processes one inbound frame from s.
func (co *Coordinator) Handle(ctx context.Context, s *Session, raw []byte) {
	if !co.current(s) {
		return
	}
	s.touch(co.now())

	char := co.Character(s.PlayerId)
	if char == nil {
		return
	}

	env, err := protocol.Decode(raw)
	if err != nil {
		co.metrics.Action("unknown", metrics.OutcomeInvalid)
		co.tell(s.PlayerId, "Invalid request.")
		return
	}

	res, err := co.dispatch(ctx, char, env)
	co.finish(ctx, char, string(env.Event), res, err)
}

func (co *Coordinator) dispatch(ctx context.Context, c *game.Character, env protocol.Envelope) (*action.Result, error) {
	switch env.Event {
	case protocol.EventJoinGame:
		co.sendSnapshot(c.Id)
		return nil, nil

	case protocol.EventMove:
		var p protocol.Move
		if err := bind(env, &p); err != nil {
			return nil, err
		}
		return co.resolver.Move(c, p.Dir)

	case protocol.EventChat:
		var p protocol.Chat
		if err := bind(env, &p); err != nil {
			return nil, err
		}
		if cmd, ok := strings.CutPrefix(p.Text, "/"); ok {
			return co.command(ctx, c, cmd)
		}
		co.chat(c, p.Text)
		return nil, nil

	case protocol.EventAttack:
		var p protocol.Attack
		if err := bind(env, &p); err != nil {
			return nil, err
		}
		return co.resolver.Attack(c, p.Target)

	case protocol.EventEquipWeapon:
		var p protocol.EquipWeapon
		if err := bind(env, &p); err != nil {
			return nil, err
		}
		return co.resolver.EquipWeapon(c, p.Weapon)

	case protocol.EventCastSpell:
		var p protocol.CastSpell
		if err := bind(env, &p); err != nil {
			return nil, err
		}
		return co.resolver.CastSpell(c, p.Spell, p.Target)

	case protocol.EventPickupLoot:
		var p protocol.PickupLoot
		if err := bind(env, &p); err != nil {
			return nil, err
		}
		return co.resolver.PickupLoot(c, p.LootId)

	case protocol.EventDoorAction:
		var p protocol.DoorAction
		if err := bind(env, &p); err != nil {
			return nil, err
		}
		return co.resolver.DoorAction(c, p.DoorId, p.Parsed)

	case protocol.EventActivateWarp:
		return co.resolver.ActivateWarp(c)
	}

	return nil, game.NewActionError(game.KindValidation, fmt.Sprintf("Unknown event: %s", env.Event))
}

// bind decodes the payload, turning any problem into a validation error for
// the player.
func bind(env protocol.Envelope, p protocol.Payload) error {
	if err := env.Bind(p); err != nil {
		return game.NewActionError(game.KindValidation, fmt.Sprintf("Invalid %s request: %v", env.Event, err))
	}
	return nil
}

func (co *Coordinator) finish(ctx context.Context, c *game.Character, event string, res *action.Result, err error) {
	var ae *game.ActionError
	switch {
	case err == nil:
		co.metrics.Action(event, metrics.OutcomeSuccess)
		co.apply(ctx, res)
	case errors.As(err, &ae):
		outcome := metrics.OutcomeRejected
		if ae.Kind == game.KindValidation {
			outcome = metrics.OutcomeInvalid
		}
		co.metrics.Action(event, outcome)
		co.tell(c.Id, ae.Message)
	default:
		co.metrics.Action(event, metrics.OutcomeError)
		slog.ErrorContext(ctx, "handling event", "player", c.Id, "event", event, "error", err)
		co.tell(c.Id, "Something went wrong. Please try again.")
	}
}

// apply delivers an action's messages, then fresh snapshots of every room it
// touched.
func (co *Coordinator) apply(ctx context.Context, res *action.Result) {
	if res == nil {
		return
	}
	for _, m := range res.Messages {
		if m.To != "" {
			co.tell(m.To, m.Text)
			continue
		}
		co.sendSystem(co.presence.Occupants(m.Room), m.Exclude, m.Text)
	}
	for _, room := range res.Rooms {
		co.RefreshRoom(ctx, room)
	}
}

func (co *Coordinator) chat(c *game.Character, text string) {
	co.send(co.presence.Occupants(roomOf(c)), "", protocol.EventChatMessage, protocol.ChatMessage{From: c.Name, Text: text})
}

// RefreshRoom pushes a fresh snapshot to every occupant of roomId.
func (co *Coordinator) RefreshRoom(_ context.Context, roomId string) {
	for _, id := range co.presence.Occupants(roomId) {
		co.sendSnapshot(id)
	}
}

func (co *Coordinator) sendSnapshot(charId string) {
	c := co.Character(charId)
	if c == nil {
		return
	}
	st := co.snapshot(c)
	if st == nil {
		return
	}
	co.sendTo(charId, protocol.EventRoomState, st)
}

// kick tells a session why it is closing and closes it. The message skips
// the bus so it is queued before Done fires.
func (co *Coordinator) kick(s *Session, reason string) {
	if data, err := protocol.Encode(protocol.EventSystemMessage, protocol.SystemMessage{Text: reason}); err == nil {
		s.deliver(data)
	}
	s.close()
}

func (co *Coordinator) current(s *Session) bool {
	co.mu.RLock()
	defer co.mu.RUnlock()
	return co.sessions[s.PlayerId] == s
}

func (co *Coordinator) tell(charId, text string) {
	co.sendTo(charId, protocol.EventSystemMessage, protocol.SystemMessage{Text: text})
}

func (co *Coordinator) sendSystem(targets []string, exclude, text string) {
	co.send(targets, exclude, protocol.EventSystemMessage, protocol.SystemMessage{Text: text})
}

func (co *Coordinator) sendTo(charId string, event protocol.Event, payload any) {
	co.send([]string{charId}, "", event, payload)
}

func (co *Coordinator) send(targets []string, exclude string, event protocol.Event, payload any) {
	data, err := protocol.Encode(event, payload)
	if err != nil {
		slog.Error("encoding outbound event", "event", event, "error", err)
		return
	}
	if err := co.publisher.Publish(targets, exclude, data); err != nil {
		slog.Warn("publishing outbound event", "event", event, "error", err)
	}

	n := len(targets)
	if exclude != "" && n > 0 {
		n--
	}
	co.metrics.Delivered(n)
}

func (co *Coordinator) loadCharacter(ctx context.Context, id Identity) (*game.Character, error) {
	c, err := co.chars.Load(ctx, id.PlayerId)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return co.newCharacter(ctx, id)
	case err != nil:
		return nil, fmt.Errorf("loading character %s: %w", id.PlayerId, err)
	}

	c.Id = id.PlayerId
	if err := c.Resolve(co.world.Dictionary()); err != nil {
		return nil, fmt.Errorf("resolving character %s: %w", id.PlayerId, err)
	}
	if co.world.Room(c.Room) == nil {
		c.Room = co.world.StartRoom()
	}
	return c, nil
}

func (co *Coordinator) newCharacter(ctx context.Context, id Identity) (*game.Character, error) {
	dict := co.world.Dictionary()

	race := storage.NewSmartIdentifier[*game.Race](cmp.Or(id.Race, co.defaultRace))
	if err := race.Resolve(dict.Races); err != nil {
		return nil, game.NewActionError(game.KindValidation, fmt.Sprintf("Unknown race %q.", race.Key()))
	}
	class := storage.NewSmartIdentifier[*game.Class](cmp.Or(id.Class, co.defaultClass))
	if err := class.Resolve(dict.Classes); err != nil {
		return nil, game.NewActionError(game.KindValidation, fmt.Sprintf("Unknown class %q.", class.Key()))
	}

	c, err := game.NewCharacter(id.PlayerId, cmp.Or(strings.TrimSpace(id.Name), id.PlayerId), race, class, co.roller)
	if err != nil {
		return nil, fmt.Errorf("creating character %s: %w", id.PlayerId, err)
	}
	c.Room = co.world.StartRoom()

	if err := co.chars.Store(ctx, id.PlayerId, c); err != nil {
		slog.ErrorContext(ctx, "saving new character", "player", id.PlayerId, "error", err)
	}
	slog.InfoContext(ctx, "character created", "player", id.PlayerId, "race", race.Key(), "class", class.Key())
	return c, nil
}

func roomOf(c *game.Character) string {
	c.Lock()
	defer c.Unlock()
	return c.Room
}
