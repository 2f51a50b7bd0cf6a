// Package player runs text-console sessions for telnet and SSH connections.
package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/pixil98/go-dungeon/internal"
	"github.com/pixil98/go-dungeon/internal/display"
	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/protocol"
	"github.com/pixil98/go-dungeon/internal/session"
	"github.com/pixil98/go-dungeon/internal/storage"
)

const maxNameLength = 20

// Coordinator is the part of session.Coordinator a console drives.
type Coordinator interface {
	Join(ctx context.Context, id session.Identity) (*session.Session, error)
	Handle(ctx context.Context, s *session.Session, raw []byte)
	Leave(ctx context.Context, s *session.Session) error
}

type Console struct {
	co      Coordinator
	chars   storage.Repository[*game.Character]
	races   *storage.SelectableStorer[*game.Race]
	classes *storage.SelectableStorer[*game.Class]
	width   int
}

type ConsoleOpt func(*Console)

// WithWrapWidth sets the column width messages are wrapped to.
func WithWrapWidth(n int) ConsoleOpt {
	return func(c *Console) {
		c.width = n
	}
}

func NewConsole(co Coordinator, chars storage.Repository[*game.Character], races *storage.SelectableStorer[*game.Race], classes *storage.SelectableStorer[*game.Class], opts ...ConsoleOpt) *Console {
	c := &Console{
		co:      co,
		chars:   chars,
		races:   races,
		classes: classes,
		width:   display.DefaultWidth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunSession logs a player in over rw and plays until they quit, the
// connection drops, or the session is closed from the server side.
func (c *Console) RunSession(ctx context.Context, rw io.ReadWriter) error {
	id, err := c.login(ctx, rw)
	if err != nil {
		return err
	}

	s, err := c.co.Join(ctx, id)
	if err != nil {
		var ae *game.ActionError
		if errors.As(err, &ae) {
			_, _ = io.WriteString(rw, ae.Message+"\n")
		}
		return fmt.Errorf("joining %s: %w", id.PlayerId, err)
	}
	defer func() {
		if err := c.co.Leave(context.WithoutCancel(ctx), s); err != nil {
			slog.ErrorContext(ctx, "leaving session", "player", s.PlayerId, "error", err)
		}
	}()

	return c.play(ctx, rw, s)
}

func (c *Console) login(ctx context.Context, rw io.ReadWriter) (session.Identity, error) {
	if _, err := io.WriteString(rw, "Welcome to the dungeon!\n"); err != nil {
		return session.Identity{}, err
	}

	for {
		name, err := internal.Prompt(rw, "By what name do you wish to be known? ", internal.WithValidator(validName))
		if err != nil {
			return session.Identity{}, err
		}
		name = display.Capitalize(strings.ToLower(name))
		id := session.Identity{PlayerId: strings.ToLower(name), Name: name}

		_, err = c.chars.Load(ctx, id.PlayerId)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return session.Identity{}, fmt.Errorf("looking up %s: %w", id.PlayerId, err)
		}

		ok, err := internal.PromptYN(rw, fmt.Sprintf("Did I get that right, %s (Y/N)? ", name))
		if err != nil {
			return session.Identity{}, err
		}
		if !ok {
			continue
		}

		id.Race, err = c.races.Prompt(rw, "What is your race?")
		if err != nil {
			return session.Identity{}, fmt.Errorf("selecting race: %w", err)
		}
		id.Class, err = c.classes.Prompt(rw, "What is your class?")
		if err != nil {
			return session.Identity{}, fmt.Errorf("selecting class: %w", err)
		}
		return id, nil
	}
}

func validName(str string) (bool, string) {
	if str == "" || len(str) > maxNameLength {
		return false, "Invalid name, please try another.\n"
	}
	for _, r := range str {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false, "Invalid name, please try another.\n"
		}
	}
	return true, ""
}

func (c *Console) play(ctx context.Context, rw io.ReadWriter, s *session.Session) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(rw)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-s.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var status *protocol.CharacterView
	show := func(raw []byte) error {
		env, err := protocol.Decode(raw)
		if err != nil {
			return err
		}
		text, st, err := display.Render(env)
		if err != nil {
			return err
		}
		if st != nil {
			status = &st.Character
		}
		return c.writeLine(rw, text)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-s.Done():
			// The reason for the close is already queued.
			for {
				select {
				case raw := <-s.Outbound():
					if err := show(raw); err != nil {
						return err
					}
				default:
					return nil
				}
			}

		case raw := <-s.Outbound():
			if err := show(raw); err != nil {
				slog.WarnContext(ctx, "rendering outbound event", "player", s.PlayerId, "error", err)
				continue
			}
			if _, err := io.WriteString(rw, display.Prompt(status)); err != nil {
				return err
			}

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}

			in, err := ParseLine(line)
			switch {
			case err != nil:
				err = c.writeLine(rw, err.Error())
			case in.Quit:
				return c.writeLine(rw, "Goodbye!")
			case in.Reply != "":
				err = c.writeLine(rw, in.Reply)
			case in.Event != "":
				raw, encErr := protocol.Encode(in.Event, in.Payload)
				if encErr != nil {
					return fmt.Errorf("encoding %s: %w", in.Event, encErr)
				}
				c.co.Handle(ctx, s, raw)
				continue
			}
			if err != nil {
				return err
			}
			if _, err := io.WriteString(rw, display.Prompt(status)); err != nil {
				return err
			}
		}
	}
}

func (c *Console) writeLine(w io.Writer, msg string) error {
	_, err := io.WriteString(w, "\n"+display.Wrap(msg, c.width)+"\n")
	return err
}
