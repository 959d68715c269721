package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nickgeorgouses/note-app/internal/auth/service"
	"github.com/nickgeorgouses/note-app/internal/common/clock"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	notedomain "github.com/nickgeorgouses/note-app/internal/note/domain"
	userdomain "github.com/nickgeorgouses/note-app/internal/user/domain"
	userrepo "github.com/nickgeorgouses/note-app/internal/user/repository"
)

var testSecret = strings.Repeat("k", 32)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user userdomain.User) (userdomain.ID, error)
	findByEmailFunc    func(ctx context.Context, email string) (userdomain.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
	deleteFunc         func(ctx context.Context, id userdomain.ID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.ID, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return "user-1", nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) Delete(ctx context.Context, id userdomain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockNoteWriter struct {
	createFunc func(ctx context.Context, note notedomain.Note) (notedomain.ID, error)
	created    []notedomain.Note
}

func (m *mockNoteWriter) Create(ctx context.Context, note notedomain.Note) (notedomain.ID, error) {
	m.created = append(m.created, note)
	if m.createFunc != nil {
		return m.createFunc(ctx, note)
	}
	return "note-1", nil
}

type mockHasher struct {
	hashFunc     func(password string) (string, error)
	compareFunc  func(hash, password string) error
	compareCalls int
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	m.compareCalls++
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed_"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type mockIDGenerator struct{}

func (mockIDGenerator) NewID() (string, error) {
	return "jti-1", nil
}

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockNoteWriter, *mockHasher, *service.TokenIssuer) {
	t.Helper()

	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	users := &mockUserRepo{}
	notes := &mockNoteWriter{}
	hasher := &mockHasher{}
	mockClock := clock.NewMockClock(time.Now())
	tokens := service.NewTokenIssuer(testSecret, mockIDGenerator{}, 7*24*time.Hour, mockClock)

	return service.NewAuthService(users, notes, hasher, tokens, mockClock, log), users, notes, hasher, tokens
}
