package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickgeorgouses/note-app/internal/common/crypto"
	"github.com/nickgeorgouses/note-app/internal/common/db"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	"github.com/nickgeorgouses/note-app/internal/user/domain"
)

func connectedRepositories(t *testing.T) map[string]Repository {
	t.Helper()

	log, err := logger.New("", "test", "error")
	require.NoError(t, err)

	repos := map[string]Repository{}
	for name, env := range map[string]string{"mongo": "TEST_MONGODB_URI", "postgres": "TEST_POSTGRES_URL"} {
		url := os.Getenv(env)
		if url == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		gateway, err := db.Connect(ctx, log, db.Config{URL: url, DatabaseName: "noteapp_test"})
		cancel()
		require.NoError(t, err)
		t.Cleanup(func() { _ = gateway.Close(context.Background()) })

		repos[name] = New(gateway, crypto.NewUUIDGenerator())
	}
	if len(repos) == 0 {
		t.Skip("TEST_MONGODB_URI and TEST_POSTGRES_URL not set")
	}
	return repos
}

func TestRepository_CreateFindDelete(t *testing.T) {
	for name, repo := range connectedRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			suffix := fmt.Sprintf("%d", time.Now().UnixNano())
			user := domain.User{
				Username:     "alice" + suffix,
				Email:        "alice" + suffix + "@example.com",
				PasswordHash: "hash",
				CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
			}

			id, err := repo.Create(ctx, user)
			require.NoError(t, err)
			require.NotEmpty(t, id)
			t.Cleanup(func() { _ = repo.Delete(context.Background(), id) })

			byEmail, err := repo.FindByEmail(ctx, user.Email)
			require.NoError(t, err)
			assert.Equal(t, id, byEmail.ID)
			assert.Equal(t, user.Username, byEmail.Username)
			assert.Equal(t, "hash", byEmail.PasswordHash)

			byName, err := repo.FindByUsername(ctx, user.Username)
			require.NoError(t, err)
			assert.Equal(t, id, byName.ID)

			require.NoError(t, repo.Delete(ctx, id))
			_, err = repo.FindByEmail(ctx, user.Email)
			assert.ErrorIs(t, err, ErrUserNotFound)
		})
	}
}

func TestRepository_DuplicateIsConflict(t *testing.T) {
	for name, repo := range connectedRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			suffix := fmt.Sprintf("%d", time.Now().UnixNano())
			user := domain.User{
				Username:     "bob" + suffix,
				Email:        "bob" + suffix + "@example.com",
				PasswordHash: "hash",
				CreatedAt:    time.Now().UTC(),
			}

			id, err := repo.Create(ctx, user)
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Delete(context.Background(), id) })

			sameEmail := user
			sameEmail.Username = "other" + suffix
			_, err = repo.Create(ctx, sameEmail)
			assert.ErrorIs(t, err, ErrUserAlreadyExists)

			sameName := user
			sameName.Email = "other" + suffix + "@example.com"
			_, err = repo.Create(ctx, sameName)
			assert.ErrorIs(t, err, ErrUserAlreadyExists)
		})
	}
}
