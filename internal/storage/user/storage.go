package user

import "github.com/Icerzack/keyrace/internal/models"

const (
	InMemoryStorageType = "in-memory"
)

// Storage is the registry of connected users keyed by username.
type Storage interface {
	// Add fails if the username is already registered.
	Add(key string, value *models.User) error
	Get(key string) (*models.User, error)
	Delete(key string) error
	List() ([]*models.User, error)
}
