package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/escalopa/quran-hifz/internal/domain"
)

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

// SaveSession stores the snapshot as JSON, refreshing its TTL
func (s *Store) SaveSession(ctx context.Context, userID string, snapshot *domain.SessionSnapshot) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns domain.ErrNoSession when nothing is stored
func (s *Store) LoadSession(ctx context.Context, userID string) (*domain.SessionSnapshot, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decodeSnapshot(data)
}

func (s *Store) DeleteSession(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}

func encodeSnapshot(snapshot *domain.SessionSnapshot) ([]byte, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("encode session: nil snapshot")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*domain.SessionSnapshot, error) {
	var snapshot domain.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &snapshot, nil
}
