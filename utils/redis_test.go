package utils_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"internmatch/models"
	"internmatch/utils"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestRedis connects to TEST_REDIS_URL and flushes its database.
// Tests are skipped when the variable is unset.
func openTestRedis(t *testing.T) (*redis.Client, *utils.SessionStore) {
	t.Helper()
	dsn := os.Getenv("TEST_REDIS_URL")
	if dsn == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := utils.OpenRedisPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.FlushDB(ctx).Err())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return client, utils.NewSessionStore(client, time.Hour, logger)
}

func newSession(token, userID string, expires time.Time) models.Session {
	now := time.Now()
	return models.Session{
		SessionToken: token,
		UserID:       userID,
		CreatedAt:    now.Format(time.RFC3339),
		ExpiresAt:    expires.Format(time.RFC3339),
		LastActivity: now.Format(time.RFC3339),
		UserAgent:    "test",
		IPAddress:    "127.0.0.1",
	}
}

func TestSessionStore_StoreAndGet(t *testing.T) {
	client, sessions := openTestRedis(t)
	ctx := context.Background()

	s := newSession("tok", "7", time.Now().Add(time.Hour))
	require.NoError(t, sessions.StoreSession(ctx, s))

	got, err := sessions.GetSession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, s, *got)

	assert.Positive(t, client.TTL(ctx, "session:tok").Val())
	assert.True(t, client.SIsMember(ctx, "user_sessions:7", "session:tok").Val())
}

func TestSessionStore_AnonymousIsNotIndexed(t *testing.T) {
	client, sessions := openTestRedis(t)
	ctx := context.Background()

	require.NoError(t, sessions.StoreSession(ctx, newSession("anon", "", time.Now().Add(time.Hour))))

	got, err := sessions.GetSession(ctx, "anon")
	require.NoError(t, err)
	assert.False(t, got.Authenticated())
	assert.Zero(t, client.Exists(ctx, "user_sessions:").Val())
}

func TestSessionStore_GetSessionNotFound(t *testing.T) {
	_, sessions := openTestRedis(t)
	ctx := context.Background()

	require.NoError(t, sessions.StoreSession(ctx, newSession("old", "7", time.Now().Add(-time.Minute))))

	tests := []struct {
		name  string
		token string
	}{
		{"unknown token", "missing"},
		{"past expires_at", "old"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sessions.GetSession(ctx, tt.token)
			assert.True(t, errors.Is(err, utils.ErrSessionNotFound), "got %v", err)
		})
	}
}

func TestSessionStore_FlashesAreOrderedAndDrainedOnce(t *testing.T) {
	client, sessions := openTestRedis(t)
	ctx := context.Background()

	first := models.Flash{Category: models.FlashSuccess, Message: "one"}
	second := models.Flash{Category: models.FlashWarning, Message: "two"}
	third := models.Flash{Category: models.FlashDanger, Message: "three"}

	require.NoError(t, sessions.PushFlash(ctx, "tok", first, second))
	require.NoError(t, client.RPush(ctx, "flash:tok", "not json").Err())
	require.NoError(t, sessions.PushFlash(ctx, "tok", third))
	assert.Positive(t, client.TTL(ctx, "flash:tok").Val())

	got, err := sessions.DrainFlashes(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, []models.Flash{first, second, third}, got)

	got, err = sessions.DrainFlashes(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, client.Exists(ctx, "flash:tok").Val())
}

func TestSessionStore_ClearSessionUser(t *testing.T) {
	client, sessions := openTestRedis(t)
	ctx := context.Background()

	require.NoError(t, sessions.StoreSession(ctx, newSession("tok", "7", time.Now().Add(time.Hour))))
	require.NoError(t, sessions.ClearSessionUser(ctx, "tok"))

	got, err := sessions.GetSession(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, got.Authenticated())
	assert.False(t, client.SIsMember(ctx, "user_sessions:7", "session:tok").Val())
	assert.Positive(t, client.TTL(ctx, "session:tok").Val())

	// again on the now anonymous session, then on one that never existed
	require.NoError(t, sessions.ClearSessionUser(ctx, "tok"))
	require.NoError(t, sessions.ClearSessionUser(ctx, "missing"))
	assert.Zero(t, client.Exists(ctx, "session:missing").Val())
}

func TestSessionStore_UpdateLastActivity(t *testing.T) {
	client, sessions := openTestRedis(t)
	ctx := context.Background()

	s := newSession("tok", "7", time.Now().Add(time.Hour))
	s.LastActivity = "2000-01-01T00:00:00Z"
	require.NoError(t, sessions.StoreSession(ctx, s))

	require.NoError(t, sessions.UpdateLastActivity(ctx, "tok"))
	assert.NotEqual(t, s.LastActivity, client.HGet(ctx, "session:tok", "last_activity").Val())
	assert.Positive(t, client.TTL(ctx, "session:tok").Val())

	// an expired session must not come back without a TTL
	require.NoError(t, sessions.UpdateLastActivity(ctx, "gone"))
	assert.Zero(t, client.Exists(ctx, "session:gone").Val())
}

func TestSessionStore_DeleteSession(t *testing.T) {
	client, sessions := openTestRedis(t)
	ctx := context.Background()

	require.NoError(t, sessions.StoreSession(ctx, newSession("a", "7", time.Now().Add(time.Hour))))
	require.NoError(t, sessions.StoreSession(ctx, newSession("b", "7", time.Now().Add(time.Hour))))
	require.NoError(t, sessions.PushFlash(ctx, "a", models.Flash{Category: models.FlashInfo, Message: "hi"}))

	require.NoError(t, sessions.DeleteSession(ctx, "a"))

	_, err := sessions.GetSession(ctx, "a")
	assert.True(t, errors.Is(err, utils.ErrSessionNotFound))
	assert.Zero(t, client.Exists(ctx, "flash:a").Val())
	assert.Equal(t, []string{"session:b"}, client.SMembers(ctx, "user_sessions:7").Val())

	require.NoError(t, sessions.DeleteSession(ctx, "never-existed"))
}
