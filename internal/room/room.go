package room

import (
	"sync"

	"github.com/google/uuid"
)

// Player is a member of a room.
type Player struct {
	Username string

	Ready bool

	// Progress is the percentage of the race text typed, nil until the first race starts.
	Progress *int
}

type Room struct {
	// ID is the unique identifier of the room
	ID string

	// Name is the name shown in the lobby, unique among existing rooms
	Name string

	// users are kept in join order
	users []*Player

	stage          Stage
	gameInProgress bool

	// textID is the race text drawn for the current countdown
	textID int

	// round is incremented on every countdown start, timers carry it to detect staleness
	round int

	mtx *sync.RWMutex
}

// Snapshot is the transport view of a room.
type Snapshot struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	NumberOfUsers  int            `json:"numberOfUsers"`
	Users          []UserSnapshot `json:"users"`
	GameInProgress bool           `json:"gameInProgress"`
}

type UserSnapshot struct {
	Username string `json:"username"`
	Ready    bool   `json:"ready"`
	Progress *int   `json:"progress,omitempty"`
}

// NewRoom creates an empty room in the lobby stage.
func NewRoom(name string) *Room {
	return &Room{
		ID:    uuid.NewString(),
		Name:  name,
		users: make([]*Player, 0),
		stage: Lobby,
		mtx:   &sync.RWMutex{},
	}
}

// AddUser appends a not-ready player. It reports false if the user is already a member.
func (r *Room) AddUser(username string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.findLocked(username) != nil {
		return false
	}
	r.users = append(r.users, &Player{Username: username})
	return true
}

// RemoveUser reports whether the user was a member.
func (r *Room) RemoveUser(username string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	for i, u := range r.users {
		if u.Username == username {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) HasUser(username string) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.findLocked(username) != nil
}

func (r *Room) NumberOfUsers() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.users)
}

// Usernames returns the members in join order.
func (r *Room) Usernames() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	names := make([]string, 0, len(r.users))
	for _, u := range r.users {
		names = append(names, u.Username)
	}
	return names
}

func (r *Room) Stage() Stage {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.stage
}

func (r *Room) GameInProgress() bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.gameInProgress
}

func (r *Room) TextID() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.textID
}

func (r *Room) Round() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.round
}

// Snapshot copies the room so it can be serialized without holding the lock.
func (r *Room) Snapshot() Snapshot {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() Snapshot {
	users := make([]UserSnapshot, 0, len(r.users))
	for _, u := range r.users {
		s := UserSnapshot{Username: u.Username, Ready: u.Ready}
		if u.Progress != nil {
			p := *u.Progress
			s.Progress = &p
		}
		users = append(users, s)
	}
	return Snapshot{
		ID:             r.ID,
		Name:           r.Name,
		NumberOfUsers:  len(users),
		Users:          users,
		GameInProgress: r.gameInProgress,
	}
}

func (r *Room) findLocked(username string) *Player {
	for _, u := range r.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
