package store_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"internmatch/models"
	"internmatch/store"
	"internmatch/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL, creates the schema and empties
// both tables. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := utils.OpenDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, utils.MigrateSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE "user", opportunity RESTART IDENTITY`)
	require.NoError(t, err)
	return pool
}

func TestUserRepository(t *testing.T) {
	pool := openTestDB(t)
	repo := store.NewUserRepository(pool)
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "a@x.com", Password: "hash"}
	require.NoError(t, repo.Insert(ctx, alice))
	assert.NotZero(t, alice.ID)

	got, err := repo.FindBy(ctx, store.UserByEmail, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "alice", got.Username)

	got, err = repo.FindBy(ctx, store.UserByUsername, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = repo.FindBy(ctx, store.UserByEmail, "nobody@x.com")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	_, err = repo.FindBy(ctx, store.UserField("password"), "hash")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound))
}

func TestUserRepository_UniqueViolation(t *testing.T) {
	pool := openTestDB(t)
	repo := store.NewUserRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.User{Username: "alice", Email: "a@x.com", Password: "h"}))

	tests := []struct {
		name string
		user *models.User
	}{
		{"same username", &models.User{Username: "alice", Email: "other@x.com", Password: "h"}},
		{"same email", &models.User{Username: "bob", Email: "a@x.com", Password: "h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Insert(ctx, tt.user)
			assert.True(t, errors.Is(err, store.ErrAlreadyExists), "got %v", err)
		})
	}

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM "user"`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpportunityRepository(t *testing.T) {
	pool := openTestDB(t)
	repo := store.NewOpportunityRepository(pool)
	ctx := context.Background()

	empty, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	posted := time.Now().UTC().Truncate(time.Microsecond)
	first := &models.Opportunity{Title: "Intern", Description: "d", SkillsRequired: "Python", PostedDate: posted}
	second := &models.Opportunity{Title: "Analyst", Description: "d2", SkillsRequired: "SQL", PostedDate: posted.Add(time.Minute)}
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Analyst", all[0].Title)
	assert.Equal(t, "Intern", all[1].Title)
	assert.True(t, posted.Equal(all[1].PostedDate))
}
