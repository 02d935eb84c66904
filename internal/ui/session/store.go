package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rkarimov/smart-traffic/internal/common/constants"
	"github.com/rkarimov/smart-traffic/internal/common/crypto"
)

// ErrNotFound means the session id is unknown or has expired.
var ErrNotFound = errors.New("session not found")

// Store keeps access tokens in Redis keyed by an opaque session id. The
// browser only ever sees the session id; the bearer token stays server-side.
type Store struct {
	rdb *redis.Client
	ids crypto.IDGenerator
}

func NewStore(addr, password string, ids crypto.IDGenerator) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ids: ids,
	}
}

func (s *Store) Create(ctx context.Context, accessToken string) (string, error) {
	sessionID, err := s.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	if err := s.rdb.Set(ctx, key(sessionID), accessToken, constants.UISessionTTL).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}

func (s *Store) Token(ctx context.Context, sessionID string) (string, error) {
	token, err := s.rdb.Get(ctx, key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return token, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func key(sessionID string) string {
	return "ui:session:" + sessionID
}
