package directory

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/room"
	rStorage "github.com/Icerzack/keyrace/internal/storage/room"
)

var (
	ErrRoomNameTaken  = errors.New("room with the same name already exists")
	ErrEmptyRoomName  = errors.New("room name is empty")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("the room has reached the limit of the number of maximally connected users")
	ErrGameInProgress = errors.New("the game in the room has already started")
	ErrAlreadyInRoom  = errors.New("user is already in another room")
)

// Directory owns every room in the process and remembers which room each user is in.
type Directory struct {
	// rooms is the storage of the existing rooms
	rooms rStorage.Storage

	// maxUsers is the inclusive occupancy limit of a room
	maxUsers int

	// members maps a username to the ID of its room
	members map[string]string
	mtx     *sync.RWMutex

	logger *zap.Logger
}

// TransferResult describes a move of a user into a room.
type TransferResult struct {
	// Room is the room the user is in afterwards.
	Room *room.Room

	// Unchanged is set when the user was already in Room.
	Unchanged bool

	// Previous is the room the user left, if any.
	Previous *room.Room

	// PreviousExists is false when leaving emptied and deleted Previous.
	PreviousExists bool
}

func NewDirectory(rooms rStorage.Storage, maxUsers int, logger *zap.Logger) *Directory {
	return &Directory{
		rooms:    rooms,
		maxUsers: maxUsers,
		members:  make(map[string]string),
		mtx:      &sync.RWMutex{},
		logger:   logger,
	}
}

// CreateRoom adds an empty room. Nobody joins it yet.
func (d *Directory) CreateRoom(name string) (*room.Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyRoomName
	}
	if _, err := d.rooms.GetWhere(func(r *room.Room) bool { return r.Name == name }); err == nil {
		return nil, fmt.Errorf("room with name %s already exists: %w", name, ErrRoomNameTaken)
	}

	newRoom := room.NewRoom(name)
	if err := d.rooms.Set(newRoom.ID, newRoom); err != nil {
		return nil, fmt.Errorf("failed to store room: %w", err)
	}
	d.logger.Info("Room created", zap.String("roomID", newRoom.ID), zap.String("name", name))
	return newRoom, nil
}

// Rooms returns every room in creation order.
func (d *Directory) Rooms() []*room.Room {
	rooms, err := d.rooms.List()
	if err != nil {
		d.logger.Error("Failed to list rooms", zap.Error(err))
		return nil
	}
	return rooms
}

// LobbyRooms returns snapshots of the rooms that are not racing, in creation order.
func (d *Directory) LobbyRooms() []room.Snapshot {
	snapshots := make([]room.Snapshot, 0)
	for _, r := range d.Rooms() {
		s := r.Snapshot()
		if s.GameInProgress {
			continue
		}
		snapshots = append(snapshots, s)
	}
	return snapshots
}

func (d *Directory) Get(id string) (*room.Room, error) {
	r, err := d.rooms.Get(id)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", id, ErrRoomNotFound)
	}
	return r, nil
}

// FindRoomOf returns the room the user belongs to.
func (d *Directory) FindRoomOf(username string) (*room.Room, bool) {
	d.mtx.RLock()
	id, ok := d.members[username]
	d.mtx.RUnlock()
	if !ok {
		return nil, false
	}
	r, err := d.rooms.Get(id)
	if err != nil {
		return nil, false
	}
	return r, true
}

// JoinRoom appends the user to the room. Joining the room the user is already
// in changes nothing.
func (d *Directory) JoinRoom(id, username string) (*room.Room, error) {
	r, err := d.Get(id)
	if err != nil {
		return nil, err
	}
	if current, ok := d.FindRoomOf(username); ok {
		if current.ID == id {
			return r, nil
		}
		return nil, ErrAlreadyInRoom
	}
	if err := d.checkJoinable(r); err != nil {
		return nil, err
	}

	r.AddUser(username)
	d.mtx.Lock()
	d.members[username] = r.ID
	d.mtx.Unlock()

	d.logger.Info("User joined room",
		zap.String("username", username),
		zap.String("roomID", r.ID),
		zap.Int("numberOfUsers", r.NumberOfUsers()),
	)
	return r, nil
}

// LeaveRoom removes the user and deletes the room once it is empty.
// It reports whether the room still exists.
func (d *Directory) LeaveRoom(id, username string) bool {
	r, err := d.rooms.Get(id)
	if err != nil {
		return false
	}

	r.RemoveUser(username)
	d.mtx.Lock()
	if d.members[username] == id {
		delete(d.members, username)
	}
	d.mtx.Unlock()

	if r.NumberOfUsers() == 0 {
		_ = d.rooms.Delete(id)
		d.logger.Info("Room deleted", zap.String("roomID", id))
		return false
	}

	d.logger.Info("User left room", zap.String("username", username), zap.String("roomID", id))
	return true
}

// Transfer moves the user into the room, leaving the previous room only when
// the target accepts the user.
func (d *Directory) Transfer(id, username string) (TransferResult, error) {
	target, err := d.Get(id)
	if err != nil {
		return TransferResult{}, err
	}

	prev, hasPrev := d.FindRoomOf(username)
	if hasPrev && prev.ID == id {
		return TransferResult{Room: target, Unchanged: true}, nil
	}
	if err := d.checkJoinable(target); err != nil {
		return TransferResult{}, err
	}

	result := TransferResult{Room: target}
	if hasPrev {
		result.Previous = prev
		result.PreviousExists = d.LeaveRoom(prev.ID, username)
	}
	if _, err := d.JoinRoom(id, username); err != nil {
		return result, err
	}
	return result, nil
}

func (d *Directory) checkJoinable(r *room.Room) error {
	if r.Stage() != room.Lobby {
		return ErrGameInProgress
	}
	if r.NumberOfUsers() >= d.maxUsers {
		return ErrRoomFull
	}
	return nil
}
