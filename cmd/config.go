package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Icerzack/keyrace/internal/rest"
	"github.com/Icerzack/keyrace/internal/rest/ws"
	"github.com/Icerzack/keyrace/internal/results"
	"github.com/Icerzack/keyrace/internal/room"
	rStorage "github.com/Icerzack/keyrace/internal/storage/room"
	uStorage "github.com/Icerzack/keyrace/internal/storage/user"
)

const (
	EnvPort     = "KEYRACE_PORT"
	EnvLogLevel = "KEYRACE_LOG_LEVEL"
	EnvNATSURL  = "KEYRACE_NATS_URL"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Apps struct {
		LogLevel   string `yaml:"log_level"`
		LogToFiles bool   `yaml:"log_to_files"`
		Rest       struct {
			Port           int      `yaml:"port"`
			AllowedOrigins []string `yaml:"allowed_origins"`
		} `yaml:"rest"`
	} `yaml:"apps"`
	Game struct {
		MaximumUsersForOneRoom      int    `yaml:"maximum_users_for_one_room"`
		SecondsTimerBeforeStartGame int    `yaml:"seconds_timer_before_start_game"`
		SecondsForGame              int    `yaml:"seconds_for_game"`
		StandingsOrder              string `yaml:"standings_order"`
	} `yaml:"game"`
	Texts struct {
		Path string `yaml:"path"`
	} `yaml:"texts"`
	Results struct {
		Type    string `yaml:"type"`
		NATSURL string `yaml:"nats_url"`
		Subject string `yaml:"subject"`
	} `yaml:"results"`
}

// ParseConfig reads the YAML file, fills in defaults, applies the environment
// overrides and validates the result.
func ParseConfig(path string, logger *zap.Logger) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		logger.Error("Failed to open config file", zap.Error(err))
		return nil, fmt.Errorf("error opening file %w", err)
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		logger.Error("Failed to decode config file", zap.Error(err))
		return nil, fmt.Errorf("error decoding file %w", err)
	}

	config.applyDefaults()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		logger.Error("Invalid config", zap.Error(err))
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Apps.LogLevel == "" {
		c.Apps.LogLevel = "info"
	}
	if c.Apps.Rest.Port == 0 {
		c.Apps.Rest.Port = 3001
	}
	if len(c.Apps.Rest.AllowedOrigins) == 0 {
		c.Apps.Rest.AllowedOrigins = []string{"*"}
	}
	if c.Game.MaximumUsersForOneRoom == 0 {
		c.Game.MaximumUsersForOneRoom = 5
	}
	if c.Game.SecondsTimerBeforeStartGame == 0 {
		c.Game.SecondsTimerBeforeStartGame = 10
	}
	if c.Game.SecondsForGame == 0 {
		c.Game.SecondsForGame = 60
	}
	if c.Game.StandingsOrder == "" {
		c.Game.StandingsOrder = string(room.OrderAscending)
	}
	if c.Results.Type == "" {
		c.Results.Type = results.LogPublisherType
	}
	nats := results.DefaultNATSConfig()
	if c.Results.NATSURL == "" {
		c.Results.NATSURL = nats.URL
	}
	if c.Results.Subject == "" {
		c.Results.Subject = nats.Subject
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvPort, v, ErrInvalidConfig)
		}
		c.Apps.Rest.Port = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Apps.LogLevel = v
	}
	if v := os.Getenv(EnvNATSURL); v != "" {
		c.Results.NATSURL = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Apps.Rest.Port <= 0 || c.Apps.Rest.Port > 65535 {
		return fmt.Errorf("port %d: %w", c.Apps.Rest.Port, ErrInvalidConfig)
	}
	if c.Game.MaximumUsersForOneRoom <= 0 {
		return fmt.Errorf("maximum_users_for_one_room must be positive: %w", ErrInvalidConfig)
	}
	if c.Game.SecondsTimerBeforeStartGame <= 0 {
		return fmt.Errorf("seconds_timer_before_start_game must be positive: %w", ErrInvalidConfig)
	}
	if c.Game.SecondsForGame <= 0 {
		return fmt.Errorf("seconds_for_game must be positive: %w", ErrInvalidConfig)
	}
	if _, err := room.ParseStandingsOrder(c.Game.StandingsOrder); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.Results.Type {
	case results.LogPublisherType, results.NATSPublisherType:
	default:
		return fmt.Errorf("results type %q: %w", c.Results.Type, ErrInvalidConfig)
	}
	return nil
}

// RestConfig maps the file onto the settings of the rest app.
func (c *Config) RestConfig(logger *zap.Logger) *rest.Config {
	order, _ := room.ParseStandingsOrder(c.Game.StandingsOrder)

	nats := results.DefaultNATSConfig()
	nats.URL = c.Results.NATSURL
	nats.Subject = c.Results.Subject

	return &rest.Config{
		Port:               c.Apps.Rest.Port,
		AllowedOrigins:     c.Apps.Rest.AllowedOrigins,
		UsersStorageType:   uStorage.InMemoryStorageType,
		RoomsStorageType:   rStorage.InMemoryStorageType,
		MaxUsersPerRoom:    c.Game.MaximumUsersForOneRoom,
		SecondsBeforeStart: c.Game.SecondsTimerBeforeStartGame,
		SecondsForGame:     c.Game.SecondsForGame,
		StandingsOrder:     order,
		TextsPath:          c.Texts.Path,
		ResultsType:        c.Results.Type,
		NATS:               nats,
		Connection:         ws.DefaultConnectionConfig(),
		Logger:             logger,
	}
}
