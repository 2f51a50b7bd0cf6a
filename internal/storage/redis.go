package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "dungeon"

// RedisStore keeps records as JSON assets under "<prefix>:<kind>:<id>".
type RedisStore[T ValidatingSpec] struct {
	client redis.UniversalClient
	prefix string
	kind   string
}

type RedisStoreOpt[T ValidatingSpec] func(*RedisStore[T])

func WithPrefix[T ValidatingSpec](prefix string) RedisStoreOpt[T] {
	return func(s *RedisStore[T]) {
		s.prefix = prefix
	}
}

func NewRedisStore[T ValidatingSpec](client redis.UniversalClient, kind string, opts ...RedisStoreOpt[T]) *RedisStore[T] {
	s := &RedisStore[T]{
		client: client,
		prefix: defaultRedisPrefix,
		kind:   kind,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RedisStore[T]) Load(ctx context.Context, id string) (T, error) {
	var zero T

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("getting %s %s: %w", s.kind, id, err)
	}

	asset := &Asset[T]{}
	if err := json.Unmarshal(data, asset); err != nil {
		return zero, fmt.Errorf("unmarshalling %s %s: %w", s.kind, id, err)
	}
	if err := asset.Validate(); err != nil {
		return zero, fmt.Errorf("validating %s %s: %w", s.kind, id, err)
	}

	return asset.Spec, nil
}

func (s *RedisStore[T]) Store(ctx context.Context, id string, v T) error {
	if !ValidId(id) {
		return fmt.Errorf("invalid id %q", id)
	}

	data, err := json.Marshal(&Asset[T]{Version: 1, Id: id, Spec: v})
	if err != nil {
		return fmt.Errorf("marshalling %s %s: %w", s.kind, id, err)
	}

	if err := s.client.Set(ctx, s.key(id), data, 0).Err(); err != nil {
		return fmt.Errorf("setting %s %s: %w", s.kind, id, err)
	}

	return nil
}

func (s *RedisStore[T]) key(id string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, s.kind, id)
}
