package inmemory

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	gameroom "github.com/Icerzack/keyrace/internal/room"
)

var ErrRoomNotFound = errors.New("room not found")

type Storage struct {
	data   map[string]*gameroom.Room
	order  []string
	logger *zap.Logger

	mtx *sync.Mutex
}

func NewStorage(logger *zap.Logger) *Storage {
	return &Storage{
		data:   make(map[string]*gameroom.Room),
		order:  make([]string, 0),
		logger: logger,
		mtx:    &sync.Mutex{},
	}
}

func (s *Storage) Set(key string, value *gameroom.Room) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if _, ok := s.data[key]; !ok {
		s.order = append(s.order, key)
	}
	s.data[key] = value
	s.logger.Debug("room added to storage", zap.String("key", key))
	return nil
}

func (s *Storage) Get(key string) (*gameroom.Room, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	v, ok := s.data[key]
	if !ok {
		s.logger.Debug("room not found in storage", zap.String("key", key))
		return nil, ErrRoomNotFound
	}
	return v, nil
}

func (s *Storage) Delete(key string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Debug("room deleted from storage", zap.String("key", key))
	return nil
}

func (s *Storage) List() ([]*gameroom.Room, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	rooms := make([]*gameroom.Room, 0, len(s.order))
	for _, k := range s.order {
		rooms = append(rooms, s.data[k])
	}
	return rooms, nil
}

func (s *Storage) GetWhere(predicate func(*gameroom.Room) bool) (*gameroom.Room, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for _, k := range s.order {
		if v := s.data[k]; predicate(v) {
			return v, nil
		}
	}
	return nil, ErrRoomNotFound
}
