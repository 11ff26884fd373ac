package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/escalopa/quran-hifz/internal/domain"
)

const (
	stateKeyPrefix   = "fsm:state:"
	dataKeyPrefix    = "fsm:data:"
	sessionKeyPrefix = "session:"
	defaultTTL       = 24 * time.Hour
)

// Store keeps the conversation FSM and the practice sessions of every user
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(uri string) (*Store, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis URI: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Store{client: client, ttl: defaultTTL}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func stateKey(userID string) string {
	return stateKeyPrefix + userID
}

func dataKey(userID, key string) string {
	return fmt.Sprintf("%s%s:%s", dataKeyPrefix, userID, key)
}

// SetState sets the current state for a user
func (s *Store) SetState(ctx context.Context, userID string, state domain.State) error {
	return s.client.Set(ctx, stateKey(userID), string(state), s.ttl).Err()
}

// GetState gets the current state for a user
func (s *Store) GetState(ctx context.Context, userID string) (domain.State, error) {
	val, err := s.client.Get(ctx, stateKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.StateStart, nil
	}
	if err != nil {
		return "", fmt.Errorf("get state: %w", err)
	}
	return domain.State(val), nil
}

// DeleteState deletes the state for a user
func (s *Store) DeleteState(ctx context.Context, userID string) error {
	return s.client.Del(ctx, stateKey(userID)).Err()
}

// SetData sets temporary data for a user's current session
func (s *Store) SetData(ctx context.Context, userID, key, value string) error {
	return s.client.Set(ctx, dataKey(userID, key), value, s.ttl).Err()
}

// GetData gets temporary data for a user's current session
func (s *Store) GetData(ctx context.Context, userID, key string) (string, error) {
	val, err := s.client.Get(ctx, dataKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("data %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("get data: %w", err)
	}
	return val, nil
}

// DeleteData deletes temporary data for a user
func (s *Store) DeleteData(ctx context.Context, userID, key string) error {
	return s.client.Del(ctx, dataKey(userID, key)).Err()
}
