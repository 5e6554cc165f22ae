// Package redis keeps run status records in Redis so they survive restarts
// and are visible to every replica.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

const DefaultPrefix = "onboarding:run:"

type RunStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*RunStore)

// WithTTL expires records ttl after their last update. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *RunStore) { s.ttl = ttl }
}

func WithPrefix(prefix string) Option {
	return func(s *RunStore) { s.prefix = prefix }
}

func NewRunStore(client *backend.Client, opts ...Option) *RunStore {
	s := &RunStore{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewClient builds a client and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*backend.Client, error) {
	client := backend.NewClient(&backend.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RunStore) key(id string) string {
	return s.prefix + id
}

func (s *RunStore) Save(ctx context.Context, run *domain.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := s.client.Set(ctx, s.key(run.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save run to redis: %w", err)
	}
	return nil
}

func (s *RunStore) Get(ctx context.Context, id string) (*domain.Run, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run from redis: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal(val, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}
