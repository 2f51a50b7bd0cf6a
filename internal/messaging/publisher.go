package messaging

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Bus is a subject-based pub/sub transport. NatsServer is the production Bus.
type Bus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// PlayerSubject is the subject a character's connection listens on.
func PlayerSubject(charId string) string {
	return fmt.Sprintf("player-%s", charId)
}

// Publisher publishes messages to individual player channels.
type Publisher struct {
	bus Bus
}

func NewPublisher(bus Bus) *Publisher {
	return &Publisher{bus: bus}
}

// Publish sends data to every target except exclude. It keeps going after a
// failed publish and reports all failures together.
func (p *Publisher) Publish(targets []string, exclude string, data []byte) error {
	el := errors.NewErrorList()
	for _, charId := range targets {
		if charId == exclude {
			continue
		}
		el.Add(p.PublishTo(charId, data))
	}
	return el.Err()
}

func (p *Publisher) PublishTo(charId string, data []byte) error {
	if err := p.bus.Publish(PlayerSubject(charId), data); err != nil {
		return fmt.Errorf("publishing to %s: %w", charId, err)
	}
	return nil
}

// Subscribe delivers everything published to charId to handler.
func (p *Publisher) Subscribe(charId string, handler func(data []byte)) (func(), error) {
	return p.bus.Subscribe(PlayerSubject(charId), handler)
}
