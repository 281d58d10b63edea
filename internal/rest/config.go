package rest

import (
	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/results"
	"github.com/Icerzack/keyrace/internal/rest/ws"
	"github.com/Icerzack/keyrace/internal/room"
)

type Config struct {
	// Port is the port where the server will listen
	Port int

	// AllowedOrigins is the CORS allow-list of the HTTP endpoints
	AllowedOrigins []string

	// UsersStorageType and RoomsStorageType select the storage backends
	UsersStorageType string
	RoomsStorageType string

	// MaxUsersPerRoom is the inclusive occupancy limit of a room
	MaxUsersPerRoom int

	SecondsBeforeStart int
	SecondsForGame     int
	StandingsOrder     room.StandingsOrder

	// TextsPath is a YAML file with the race texts, the built-in texts are used when empty
	TextsPath string

	// ResultsType selects where finished races are published
	ResultsType string
	NATS        results.NATSConfig

	Connection ws.ConnectionConfig

	Logger *zap.Logger
}
