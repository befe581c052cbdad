package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/squadup/squadup/internal/models"
)

const (
	// Key prefixes for Redis
	sessionKeyPrefix  = "lfg:session:"
	activeSessionsKey = "lfg:active_sessions"
	userPointerPrefix = "lfg:user_session:"
)

// ErrSessionNotFound is returned when a session record is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrUserPointerNotFound is returned when a user has no session pointer
var ErrUserPointerNotFound = errors.New("user pointer not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// UpsertSession persists a session record to Redis and flags it active
func (r *redisRepository) UpsertSession(ctx context.Context, input *UpsertSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	record := &Record{
		Session: input.Session,
		Active:  true,
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	// Write the record and the active index in one round trip
	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.Session.ID)
	pipe.Set(ctx, sessionKey, recordJSON, 0)
	pipe.SAdd(ctx, activeSessionsKey, input.Session.ID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	return nil
}

// GetSession retrieves a session record by ID from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*Record, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	recordJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session record: %w", err)
	}

	return &record, nil
}

// MarkInactive soft-deletes a session record in Redis. The record is kept
// with Active=false; only the active index entry is removed.
func (r *redisRepository) MarkInactive(ctx context.Context, input *MarkInactiveInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	record, err := r.GetSession(ctx, &GetSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return err
	}

	record.Active = false
	if record.Session != nil {
		record.Session.Status = models.SessionStatusEnded
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	pipe.Set(ctx, sessionKey, recordJSON, 0)
	pipe.SRem(ctx, activeSessionsKey, input.SessionID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark session inactive: %w", err)
	}

	return nil
}

// ListActive retrieves all session records still flagged active from Redis
func (r *redisRepository) ListActive(ctx context.Context, input *ListActiveInput) (*ListActiveOutput, error) {
	sessionIDs, err := r.client.SMembers(ctx, activeSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active session IDs: %w", err)
	}

	if len(sessionIDs) == 0 {
		return &ListActiveOutput{
			Records: []*Record{},
		}, nil
	}

	// Fetch all records in one round trip
	pipe := r.client.Pipeline()
	recordCommands := make(map[string]*redis.StringCmd)

	for _, sessionID := range sessionIDs {
		sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
		recordCommands[sessionID] = pipe.Get(ctx, sessionKey)
	}

	_, err = pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get active sessions: %w", err)
	}

	records := make([]*Record, 0, len(sessionIDs))
	for sessionID, cmd := range recordCommands {
		recordJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Record was deleted between getting the IDs and fetching it
				continue
			}
			return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
		}

		var record Record
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
		}

		// The index can briefly disagree with the record after a crash
		// between pipeline writes; the record wins.
		if !record.Active {
			continue
		}

		records = append(records, &record)
	}

	return &ListActiveOutput{
		Records: records,
	}, nil
}

// SetUserPointer records which session a user currently owns
func (r *redisRepository) SetUserPointer(ctx context.Context, input *SetUserPointerInput) error {
	if input == nil || input.UserID == "" || input.SessionID == "" {
		return errors.New("input, user ID and session ID cannot be empty")
	}

	pointerKey := fmt.Sprintf("%s%s", userPointerPrefix, input.UserID)
	if err := r.client.Set(ctx, pointerKey, input.SessionID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set user pointer: %w", err)
	}

	return nil
}

// GetUserPointer retrieves the session a user currently owns
func (r *redisRepository) GetUserPointer(ctx context.Context, input *GetUserPointerInput) (string, error) {
	if input == nil || input.UserID == "" {
		return "", errors.New("input and user ID cannot be empty")
	}

	pointerKey := fmt.Sprintf("%s%s", userPointerPrefix, input.UserID)
	sessionID, err := r.client.Get(ctx, pointerKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrUserPointerNotFound
		}
		return "", fmt.Errorf("failed to get user pointer: %w", err)
	}

	return sessionID, nil
}

// ClearUserPointer removes a user's session pointer
func (r *redisRepository) ClearUserPointer(ctx context.Context, input *ClearUserPointerInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	pointerKey := fmt.Sprintf("%s%s", userPointerPrefix, input.UserID)
	if err := r.client.Del(ctx, pointerKey).Err(); err != nil {
		return fmt.Errorf("failed to clear user pointer: %w", err)
	}

	return nil
}
