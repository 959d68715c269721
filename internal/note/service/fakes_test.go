package service_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nickgeorgouses/note-app/internal/common/clock"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	"github.com/nickgeorgouses/note-app/internal/note/domain"
	noterepo "github.com/nickgeorgouses/note-app/internal/note/repository"
	"github.com/nickgeorgouses/note-app/internal/note/service"
	userdomain "github.com/nickgeorgouses/note-app/internal/user/domain"
	userrepo "github.com/nickgeorgouses/note-app/internal/user/repository"
)

// memoryNotes mimics the store semantics the service relies on: ids it did not issue are
// malformed, and every lookup is scoped by owner.
type memoryNotes struct {
	mu      sync.Mutex
	notes   map[domain.ID]domain.Note
	next    int
	failAll error
}

func newMemoryNotes() *memoryNotes {
	return &memoryNotes{notes: map[domain.ID]domain.Note{}}
}

func (m *memoryNotes) valid(id domain.ID) bool {
	return strings.HasPrefix(string(id), "n-")
}

func (m *memoryNotes) Create(ctx context.Context, note domain.Note) (domain.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return "", m.failAll
	}
	m.next++
	note.ID = domain.ID(fmt.Sprintf("n-%d", m.next))
	m.notes[note.ID] = note
	return note.ID, nil
}

func (m *memoryNotes) FindOwned(ctx context.Context, id domain.ID, ownerID string) (domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return domain.Note{}, m.failAll
	}
	if !m.valid(id) {
		return domain.Note{}, noterepo.ErrInvalidID
	}
	n, ok := m.notes[id]
	if !ok || n.UserID != ownerID {
		return domain.Note{}, noterepo.ErrNoteNotFound
	}
	return n, nil
}

func (m *memoryNotes) ListByOwner(ctx context.Context, ownerID string, filter domain.Filter) ([]domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	var out []domain.Note
	for _, n := range m.notes {
		if n.UserID == ownerID && filter.Matches(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryNotes) UpdateOwned(ctx context.Context, id domain.ID, ownerID string, title, content string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if !m.valid(id) {
		return noterepo.ErrInvalidID
	}
	n, ok := m.notes[id]
	if !ok || n.UserID != ownerID {
		return noterepo.ErrNoteNotFound
	}
	n.Title, n.Content, n.UpdatedAt = title, content, &updatedAt
	m.notes[id] = n
	return nil
}

func (m *memoryNotes) DeleteOwned(ctx context.Context, id domain.ID, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if !m.valid(id) {
		return noterepo.ErrInvalidID
	}
	n, ok := m.notes[id]
	if !ok || n.UserID != ownerID {
		return noterepo.ErrNoteNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *memoryNotes) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return 0, m.failAll
	}
	var n int64
	for id, note := range m.notes {
		if note.UserID == ownerID {
			delete(m.notes, id)
			n++
		}
	}
	return n, nil
}

type memoryUsers map[string]userdomain.User

func (m memoryUsers) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	u, ok := m[username]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return u, nil
}

var (
	alice = service.Caller{UserID: "u-alice", Username: "alice"}
	bob   = service.Caller{UserID: "u-bob", Username: "bob"}
)

func setupNoteService(t *testing.T) (*service.NoteService, *memoryNotes, *clock.MockClock) {
	t.Helper()

	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	notes := newMemoryNotes()
	users := memoryUsers{
		"alice": {ID: userdomain.ID(alice.UserID), Username: alice.Username},
		"bob":   {ID: userdomain.ID(bob.UserID), Username: bob.Username},
	}
	mockClock := clock.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	return service.NewNoteService(notes, users, mockClock, log), notes, mockClock
}
