package inmemory

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Icerzack/keyrace/internal/models"
)

func TestStorage_RejectsDuplicateUsername(t *testing.T) {
	s := NewStorage(zaptest.NewLogger(t))
	first := &models.User{Username: "carol"}

	if err := s.Add("carol", first); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("carol", &models.User{Username: "carol"}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}

	got, err := s.Get("carol")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != first {
		t.Error("expected the first registration to be kept")
	}
}

func TestStorage_DeleteIsIdempotent(t *testing.T) {
	s := NewStorage(zaptest.NewLogger(t))
	_ = s.Add("alice", &models.User{Username: "alice"})

	for i := 0; i < 2; i++ {
		if err := s.Delete("alice"); err != nil {
			t.Fatalf("Delete #%d: %v", i+1, err)
		}
	}
	if _, err := s.Get("alice"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if err := s.Add("alice", &models.User{Username: "alice"}); err != nil {
		t.Errorf("expected the name to be free again, got %v", err)
	}
}

func TestStorage_List(t *testing.T) {
	s := NewStorage(zaptest.NewLogger(t))
	for _, name := range []string{"carol", "alice", "bob"} {
		_ = s.Add(name, &models.User{Username: name})
	}

	users, _ := s.List()
	want := []string{"alice", "bob", "carol"}
	if len(users) != len(want) {
		t.Fatalf("expected %d users, got %d", len(want), len(users))
	}
	for i, u := range users {
		if u.Username != want[i] {
			t.Errorf("users[%d] = %s, want %s", i, u.Username, want[i])
		}
	}
}
