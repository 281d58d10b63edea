package directory

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Icerzack/keyrace/internal/room"
	"github.com/Icerzack/keyrace/internal/storage/room/inmemory"
)

func newTestDirectory(t *testing.T, maxUsers int) *Directory {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewDirectory(inmemory.NewStorage(logger), maxUsers, logger)
}

func TestDirectory_CreateRoom(t *testing.T) {
	d := newTestDirectory(t, 5)

	r, err := d.CreateRoom("A")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if r.NumberOfUsers() != 0 {
		t.Errorf("expected a new room to be empty, got %d users", r.NumberOfUsers())
	}

	if _, err := d.CreateRoom("A"); !errors.Is(err, ErrRoomNameTaken) {
		t.Errorf("expected ErrRoomNameTaken, got %v", err)
	}
	if _, err := d.CreateRoom("  "); !errors.Is(err, ErrEmptyRoomName) {
		t.Errorf("expected ErrEmptyRoomName, got %v", err)
	}

	// the name is free again once the room is gone
	d.JoinRoom(r.ID, "alice")
	d.LeaveRoom(r.ID, "alice")
	if _, err := d.CreateRoom("A"); err != nil {
		t.Errorf("expected name to be reusable, got %v", err)
	}
}

func TestDirectory_JoinLeaveRoundTrip(t *testing.T) {
	d := newTestDirectory(t, 5)
	r, _ := d.CreateRoom("A")

	steps := []struct {
		name   string
		join   bool
		user   string
		exists bool
		count  int
	}{
		{"alice joins", true, "alice", true, 1},
		{"bob joins", true, "bob", true, 2},
		{"alice joins again", true, "alice", true, 2},
		{"alice leaves", false, "alice", true, 1},
		{"bob leaves last", false, "bob", false, 0},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if step.join {
				if _, err := d.JoinRoom(r.ID, step.user); err != nil {
					t.Fatalf("JoinRoom: %v", err)
				}
			} else if exists := d.LeaveRoom(r.ID, step.user); exists != step.exists {
				t.Fatalf("LeaveRoom reported exists=%v, want %v", exists, step.exists)
			}

			snap := r.Snapshot()
			if snap.NumberOfUsers != len(snap.Users) || snap.NumberOfUsers != step.count {
				t.Errorf("expected %d users, snapshot has %d/%d", step.count, snap.NumberOfUsers, len(snap.Users))
			}
			_, err := d.Get(r.ID)
			if (err == nil) != step.exists {
				t.Errorf("room presence = %v, want %v", err == nil, step.exists)
			}
		})
	}

	if _, ok := d.FindRoomOf("bob"); ok {
		t.Error("expected bob to be in no room")
	}
	if len(d.Rooms()) != 0 {
		t.Errorf("expected no rooms, got %d", len(d.Rooms()))
	}
}

func TestDirectory_JoinRoomErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		d := newTestDirectory(t, 2)
		if _, err := d.JoinRoom("missing", "alice"); !errors.Is(err, ErrRoomNotFound) {
			t.Errorf("expected ErrRoomNotFound, got %v", err)
		}
	})

	t.Run("full at the inclusive maximum", func(t *testing.T) {
		d := newTestDirectory(t, 2)
		r, _ := d.CreateRoom("A")
		d.JoinRoom(r.ID, "alice")
		d.JoinRoom(r.ID, "bob")

		if _, err := d.JoinRoom(r.ID, "carol"); !errors.Is(err, ErrRoomFull) {
			t.Errorf("expected ErrRoomFull, got %v", err)
		}
		if r.NumberOfUsers() != 2 {
			t.Errorf("expected 2 users, got %d", r.NumberOfUsers())
		}
	})

	t.Run("game in progress", func(t *testing.T) {
		d := newTestDirectory(t, 5)
		r, _ := d.CreateRoom("A")
		d.JoinRoom(r.ID, "alice")
		r.SetReady("alice", true)
		r.StartCountdown(0)

		if _, err := d.JoinRoom(r.ID, "bob"); !errors.Is(err, ErrGameInProgress) {
			t.Errorf("expected ErrGameInProgress, got %v", err)
		}
	})

	t.Run("already in another room", func(t *testing.T) {
		d := newTestDirectory(t, 5)
		a, _ := d.CreateRoom("A")
		b, _ := d.CreateRoom("B")
		d.JoinRoom(a.ID, "alice")

		if _, err := d.JoinRoom(b.ID, "alice"); !errors.Is(err, ErrAlreadyInRoom) {
			t.Errorf("expected ErrAlreadyInRoom, got %v", err)
		}
	})
}

func TestDirectory_Transfer(t *testing.T) {
	d := newTestDirectory(t, 1)
	a, _ := d.CreateRoom("A")
	b, _ := d.CreateRoom("B")
	d.JoinRoom(a.ID, "alice")

	res, err := d.Transfer(a.ID, "alice")
	if err != nil || !res.Unchanged {
		t.Fatalf("expected unchanged transfer, got %+v, %v", res, err)
	}

	res, err = d.Transfer(b.ID, "alice")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if res.Previous != a || res.PreviousExists {
		t.Errorf("expected previous room A to be deleted, got %+v", res)
	}
	if current, _ := d.FindRoomOf("alice"); current != b {
		t.Errorf("expected alice in B, got %v", current)
	}
	if _, err := d.Get(a.ID); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected room A to be gone, got %v", err)
	}

	// a rejected transfer keeps the user where it was
	c, _ := d.CreateRoom("C")
	d.JoinRoom(c.ID, "bob")
	if _, err := d.Transfer(c.ID, "alice"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	if current, _ := d.FindRoomOf("alice"); current != b {
		t.Errorf("expected alice to stay in B, got %v", current)
	}
}

func TestDirectory_LobbyRoomsHidesRaces(t *testing.T) {
	d := newTestDirectory(t, 5)
	a, _ := d.CreateRoom("A")
	b, _ := d.CreateRoom("B")
	c, _ := d.CreateRoom("C")
	for _, r := range []*room.Room{a, b, c} {
		d.JoinRoom(r.ID, "owner-"+r.Name)
	}

	b.SetReady("owner-B", true)
	b.StartCountdown(0)
	b.StartRace()

	lobby := d.LobbyRooms()
	if len(lobby) != 2 || lobby[0].Name != "A" || lobby[1].Name != "C" {
		t.Errorf("expected lobby [A C], got %+v", lobby)
	}
	if len(d.Rooms()) != 3 {
		t.Errorf("expected 3 rooms in total, got %d", len(d.Rooms()))
	}
}
