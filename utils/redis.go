package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"internmatch/models"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 5 * time.Second

var ErrSessionNotFound = errors.New("session not found")

// hsetIfExists writes one hash field only while the key is alive, so an
// update racing with expiry never recreates the hash without a TTL.
const hsetIfExists = `
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
end
return 0
`

// OpenRedisPool initializes a Redis connection pool
func OpenRedisPool(ctx context.Context, dsn string) (*redis.Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 100
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func sessionKey(token string) string      { return "session:" + token }
func flashKey(token string) string        { return "flash:" + token }
func userSessionsKey(userID string) string { return "user_sessions:" + userID }

// SessionStore keeps sessions as redis hashes and their pending flash
// messages as redis lists, both expiring with the session.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewSessionStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{client: client, ttl: ttl, logger: logger}
}

// StoreSession saves a session in Redis
func (s *SessionStore) StoreSession(ctx context.Context, session models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	sessionMap := map[string]any{
		"user_id":       session.UserID,
		"created_at":    session.CreatedAt,
		"expires_at":    session.ExpiresAt,
		"last_activity": session.LastActivity,
		"user_agent":    session.UserAgent,
		"ip_address":    session.IPAddress,
	}

	key := sessionKey(session.SessionToken)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, sessionMap)
		pipe.Expire(ctx, key, s.ttl)
		if session.UserID != "" {
			pipe.SAdd(ctx, userSessionsKey(session.UserID), key)
			pipe.Expire(ctx, userSessionsKey(session.UserID), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetSession retrieves session details from Redis. Missing and expired
// sessions both yield ErrSessionNotFound.
func (s *SessionStore) GetSession(ctx context.Context, sessionToken string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	data, err := s.client.HGetAll(ctx, sessionKey(sessionToken)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrSessionNotFound
	}

	if expiresAt, err := time.Parse(time.RFC3339, data["expires_at"]); err != nil || !time.Now().Before(expiresAt) {
		return nil, ErrSessionNotFound
	}

	return &models.Session{
		SessionToken: sessionToken,
		UserID:       data["user_id"],
		CreatedAt:    data["created_at"],
		ExpiresAt:    data["expires_at"],
		LastActivity: data["last_activity"],
		UserAgent:    data["user_agent"],
		IPAddress:    data["ip_address"],
	}, nil
}

// DeleteSession removes a session, its flashes and its reference in the user index.
func (s *SessionStore) DeleteSession(ctx context.Context, sessionToken string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	key := sessionKey(sessionToken)
	userID, err := s.client.HGet(ctx, key, "user_id").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if userID != "" {
			pipe.SRem(ctx, userSessionsKey(userID), key)
		}
		pipe.Del(ctx, key, flashKey(sessionToken))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ClearSessionUser logs the session out while keeping it alive for flashes.
// Clearing an anonymous session is a no-op.
func (s *SessionStore) ClearSessionUser(ctx context.Context, sessionToken string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	key := sessionKey(sessionToken)
	userID, err := s.client.HGet(ctx, key, "user_id").Result()
	if errors.Is(err, redis.Nil) || (err == nil && userID == "") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clear session user: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Eval(ctx, hsetIfExists, []string{key}, "user_id", "")
		pipe.SRem(ctx, userSessionsKey(userID), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear session user: %w", err)
	}
	return nil
}

// UpdateLastActivity updates the last activity timestamp of a session
func (s *SessionStore) UpdateLastActivity(ctx context.Context, sessionToken string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	err := s.client.Eval(ctx, hsetIfExists, []string{sessionKey(sessionToken)},
		"last_activity", time.Now().Format(time.RFC3339)).Err()
	if err != nil {
		return fmt.Errorf("update last activity: %w", err)
	}
	return nil
}

// PushFlash appends messages to the session's flash queue.
func (s *SessionStore) PushFlash(ctx context.Context, sessionToken string, flashes ...models.Flash) error {
	if len(flashes) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	values := make([]any, 0, len(flashes))
	for _, f := range flashes {
		b, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encode flash: %w", err)
		}
		values = append(values, b)
	}

	key := flashKey(sessionToken)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	return nil
}

// DrainFlashes returns the queued messages in order and empties the queue.
func (s *SessionStore) DrainFlashes(ctx context.Context, sessionToken string) ([]models.Flash, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	key := flashKey(sessionToken)
	var queued *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		queued = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drain flashes: %w", err)
	}

	flashes := make([]models.Flash, 0, len(queued.Val()))
	for _, raw := range queued.Val() {
		var f models.Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			s.logger.Debug("dropping undecodable flash", "err", err)
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
