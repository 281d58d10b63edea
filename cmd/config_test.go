package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Icerzack/keyrace/internal/results"
	"github.com/Icerzack/keyrace/internal/room"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestParseConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "apps:\n  log_level: debug\n")

	config, err := ParseConfig(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if config.Apps.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", config.Apps.LogLevel)
	}
	if config.Apps.Rest.Port != 3001 {
		t.Errorf("expected port 3001, got %d", config.Apps.Rest.Port)
	}
	if config.Game.MaximumUsersForOneRoom != 5 || config.Game.SecondsTimerBeforeStartGame != 10 || config.Game.SecondsForGame != 60 {
		t.Errorf("unexpected game defaults %+v", config.Game)
	}
	if config.Results.Type != results.LogPublisherType {
		t.Errorf("expected log results, got %s", config.Results.Type)
	}

	rc := config.RestConfig(zaptest.NewLogger(t))
	if rc.StandingsOrder != room.OrderAscending || rc.MaxUsersPerRoom != 5 || rc.NATS.Subject != "keyrace.results" {
		t.Errorf("unexpected rest config %+v", rc)
	}
}

func TestParseConfig_File(t *testing.T) {
	path := writeConfig(t, `
apps:
  rest:
    port: 8080
    allowed_origins: ["http://localhost:3000"]
game:
  maximum_users_for_one_room: 3
  seconds_timer_before_start_game: 5
  seconds_for_game: 90
  standings_order: descending
texts:
  path: texts.yaml
results:
  type: nats
  nats_url: nats://nats:4222
  subject: races
`)

	config, err := ParseConfig(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	rc := config.RestConfig(zaptest.NewLogger(t))
	if rc.Port != 8080 || len(rc.AllowedOrigins) != 1 || rc.MaxUsersPerRoom != 3 {
		t.Errorf("unexpected rest config %+v", rc)
	}
	if rc.SecondsBeforeStart != 5 || rc.SecondsForGame != 90 || rc.StandingsOrder != room.OrderDescending {
		t.Errorf("unexpected game settings %+v", rc)
	}
	if rc.TextsPath != "texts.yaml" || rc.ResultsType != results.NATSPublisherType {
		t.Errorf("unexpected texts or results settings %+v", rc)
	}
	if rc.NATS.URL != "nats://nats:4222" || rc.NATS.Subject != "races" {
		t.Errorf("unexpected nats settings %+v", rc.NATS)
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "apps:\n  rest:\n    port: 8080\n")
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvNATSURL, "nats://other:4222")

	config, err := ParseConfig(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if config.Apps.Rest.Port != 9090 || config.Apps.LogLevel != "warn" || config.Results.NATSURL != "nats://other:4222" {
		t.Errorf("expected environment overrides, got %+v", config)
	}

	t.Setenv(EnvPort, "abc")
	if _, err := ParseConfig(path, zaptest.NewLogger(t)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative room size", "game:\n  maximum_users_for_one_room: -1\n"},
		{"negative countdown", "game:\n  seconds_timer_before_start_game: -1\n"},
		{"negative race", "game:\n  seconds_for_game: -5\n"},
		{"unknown order", "game:\n  standings_order: sideways\n"},
		{"unknown results", "results:\n  type: kafka\n"},
		{"port out of range", "apps:\n  rest:\n    port: 70000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(writeConfig(t, tt.content), zaptest.NewLogger(t))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParseConfig_MissingFile(t *testing.T) {
	if _, err := ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"), zaptest.NewLogger(t)); err == nil {
		t.Error("expected an error for a missing file")
	}
}
