package room

import (
	gameroom "github.com/Icerzack/keyrace/internal/room"
)

const (
	InMemoryStorageType = "in-memory"
)

// Storage keeps rooms by ID. List and GetWhere walk rooms in insertion order.
type Storage interface {
	Set(key string, value *gameroom.Room) error
	Get(key string) (*gameroom.Room, error)
	Delete(key string) error
	List() ([]*gameroom.Room, error)
	GetWhere(predicate func(*gameroom.Room) bool) (*gameroom.Room, error)
}
