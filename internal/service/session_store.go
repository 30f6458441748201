package service

import (
	"context"
	"fmt"
	"time"

	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
)

// KeyValue is the string store behind chat sessions and cached blobs.
// A zero ttl keeps the value until it is deleted.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SessionStore maps a user's chat modes to backend session ids.
type SessionStore struct {
	kv         KeyValue
	telegramID int64
}

func NewSessionStore(kv KeyValue, telegramID int64) *SessionStore {
	return &SessionStore{kv: kv, telegramID: telegramID}
}

func (s *SessionStore) key(mode domain.ChatMode) string {
	return fmt.Sprintf("%d:%s", s.telegramID, mode.SessionKey())
}

// Get returns the stored session id for mode, or "" when there is none.
func (s *SessionStore) Get(ctx context.Context, mode domain.ChatMode) (string, error) {
	id, ok, err := s.kv.Get(ctx, s.key(mode))
	if err != nil {
		return "", fmt.Errorf("get session id: %w", err)
	}
	if !ok {
		return "", nil
	}
	return id, nil
}

func (s *SessionStore) Set(ctx context.Context, mode domain.ChatMode, id string) error {
	if err := s.kv.Set(ctx, s.key(mode), id, config.ChatSessionTTL); err != nil {
		return fmt.Errorf("set session id: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, mode domain.ChatMode) error {
	if err := s.kv.Delete(ctx, s.key(mode)); err != nil {
		return fmt.Errorf("clear session id: %w", err)
	}
	return nil
}
