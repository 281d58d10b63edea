package inmemory

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with the same name already connected")
)

type Storage struct {
	data   map[string]*models.User
	logger *zap.Logger

	mtx *sync.Mutex
}

func NewStorage(logger *zap.Logger) *Storage {
	return &Storage{
		data:   make(map[string]*models.User),
		logger: logger,
		mtx:    &sync.Mutex{},
	}
}

func (s *Storage) Add(key string, value *models.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if _, ok := s.data[key]; ok {
		s.logger.Info("user already in storage", zap.String("key", key))
		return ErrUserAlreadyExists
	}
	s.data[key] = value
	s.logger.Info("user added to storage", zap.String("key", key))
	return nil
}

func (s *Storage) Get(key string) (*models.User, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrUserNotFound
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
	s.logger.Info("user deleted from storage", zap.String("key", key))
	return nil
}

// List returns the users sorted by username.
func (s *Storage) List() ([]*models.User, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	users := make([]*models.User, 0, len(s.data))
	for _, v := range s.data {
		users = append(users, v)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}
