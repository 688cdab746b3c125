// File: database/repository/session/session_redis.go
package sessionRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinicbooking/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	sessionKeyPrefix = "wizard:session:"
	lockKeyPrefix    = "wizard:submit-lock:"

	// ClosedChannel receives the ID of every session the host closes.
	ClosedChannel = "wizard:closed"
)

// releaseLockScript deletes the lock only when it still holds the caller's token.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func sessionKey(id string) string { return sessionKeyPrefix + id }

func lockKey(id string) string { return lockKeyPrefix + id }

type redisSessionStore struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisSessionStore returns a SessionStore that keeps each session as a JSON
// string with a sliding ttl. lockTTL bounds how long a crashed submission can
// hold the submit lock.
func NewRedisSessionStore(client *redis.Client, ttl, lockTTL time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl, lockTTL: lockTTL}
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (*models.WizardState, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session %s: %w", sessionID, err)
	}

	var state models.WizardState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse booking session %s: %w", sessionID, err)
	}
	return &state, nil
}

func (s *redisSessionStore) Save(ctx context.Context, state *models.WizardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(state.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking session %s: %w", state.SessionID, err)
	}
	return nil
}

func (s *redisSessionStore) CompareAndSave(ctx context.Context, state *models.WizardState) error {
	key := sessionKey(state.SessionID)
	next := *state
	next.Version = state.Version + 1
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		var current models.WizardState
		if err := json.Unmarshal(raw, &current); err != nil {
			return err
		}
		if current.Version != state.Version {
			return ErrVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		state.Version = next.Version
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return ErrVersionConflict
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrVersionConflict):
		return err
	default:
		return fmt.Errorf("failed to store booking session %s: %w", state.SessionID, err)
	}
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session %s: %w", sessionID, err)
	}
	return nil
}

func (s *redisSessionStore) AcquireSubmitLock(ctx context.Context, sessionID string) (string, bool, error) {
	token := uuid.New().String()
	ok, err := s.client.SetNX(ctx, lockKey(sessionID), token, s.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire submit lock for %s: %w", sessionID, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (s *redisSessionStore) ReleaseSubmitLock(ctx context.Context, sessionID, token string) error {
	if err := releaseLockScript.Run(ctx, s.client, []string{lockKey(sessionID)}, token).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock for %s: %w", sessionID, err)
	}
	return nil
}

func (s *redisSessionStore) SubmitInFlight(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, lockKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check submit lock for %s: %w", sessionID, err)
	}
	return n == 1, nil
}

func (s *redisSessionStore) PublishClosed(ctx context.Context, sessionID string) error {
	return s.client.Publish(ctx, ClosedChannel, sessionID).Err()
}
