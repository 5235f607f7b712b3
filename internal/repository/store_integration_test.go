//go:build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Jonatndm/API-Authenticate/internal/database"
	"github.com/Jonatndm/API-Authenticate/internal/model"
)

type credentialStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, email string, passwordHash string, name string) (model.User, error)
	Save(ctx context.Context, user model.User) error
	SetRole(ctx context.Context, id string, role model.Role) error
	RecordFailedLogin(ctx context.Context, id string, maxAttempts int) (model.User, error)
	ResetLoginAttempts(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.User, error)
}

func newMongoStore(t *testing.T) credentialStore {
	t.Helper()

	uri := strings.TrimSpace(os.Getenv("TEST_MONGO_URI"))
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("auth_api_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", ""))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	repo := NewMongoUserRepository(db)
	require.NoError(t, repo.EnsureIndexes(context.Background()))
	return repo
}

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE users, revoked_tokens`)
	require.NoError(t, err)
	return pool
}

func newPostgresStore(t *testing.T) credentialStore {
	t.Helper()
	return NewUserRepository(newTestPool(t))
}

func TestCredentialStores(t *testing.T) {
	stores := map[string]func(*testing.T) credentialStore{
		"mongo":    newMongoStore,
		"postgres": newPostgresStore,
	}

	for name, build := range stores {
		t.Run(name, func(t *testing.T) {
			store := build(t)
			ctx := context.Background()

			user, err := store.Create(ctx, " Store@X.com", "hash", "Store")
			require.NoError(t, err)
			require.Equal(t, "store@x.com", user.Email)
			require.Equal(t, model.RoleUser, user.Role)

			_, err = store.Create(ctx, "store@x.com", "hash", "Again")
			require.ErrorIs(t, err, model.ErrDuplicateEmail)

			found, err := store.FindByEmail(ctx, "STORE@x.com")
			require.NoError(t, err)
			require.Equal(t, user.ID, found.ID)

			_, err = store.FindByID(ctx, "not-an-id")
			require.ErrorIs(t, err, model.ErrUserNotFound)

			for i := 1; i <= 3; i++ {
				updated, err := store.RecordFailedLogin(ctx, user.ID, 3)
				require.NoError(t, err)
				require.Equal(t, i, updated.LoginAttempts)
				require.Equal(t, i == 3, updated.Locked)
			}

			again, err := store.RecordFailedLogin(ctx, user.ID, 3)
			require.NoError(t, err)
			require.Equal(t, 3, again.LoginAttempts)
			require.True(t, again.Locked)

			require.ErrorIs(t, store.ResetLoginAttempts(ctx, user.ID), model.ErrAccountLocked)

			found, err = store.FindByID(ctx, user.ID)
			require.NoError(t, err)
			require.Equal(t, 3, found.LoginAttempts)
			require.True(t, found.Locked)

			require.NoError(t, store.SetRole(ctx, user.ID, model.RoleAdmin))
			require.ErrorIs(t, store.SetRole(ctx, "not-an-id", model.RoleAdmin), model.ErrUserNotFound)

			users, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, users, 1)
			require.Equal(t, model.RoleAdmin, users[0].Role)
			require.Equal(t, 3, users[0].LoginAttempts)
			require.True(t, users[0].Locked)

			found = users[0]
			found.Name = "Renamed"
			require.NoError(t, store.Save(ctx, found))
			found, err = store.FindByID(ctx, user.ID)
			require.NoError(t, err)
			require.Equal(t, "Renamed", found.Name)
		})
	}
}

func TestTokenRepository(t *testing.T) {
	repo := NewTokenRepository(newTestPool(t))
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "live-token")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "live-token", time.Now().Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "live-token", time.Now().Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "stale-token", time.Now().Add(-time.Minute)))

	revoked, err = repo.IsRevoked(ctx, "live-token")
	require.NoError(t, err)
	require.True(t, revoked)

	removed, err := repo.CleanExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	revoked, err = repo.IsRevoked(ctx, "stale-token")
	require.NoError(t, err)
	require.False(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "live-token")
	require.NoError(t, err)
	require.True(t, revoked)
}
