package results

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/room"
)

const (
	LogPublisherType  = "log"
	NATSPublisherType = "nats"
)

// Reason tells why a race finished.
type Reason string

const (
	ReasonCompleted Reason = "completed"
	ReasonTimeout   Reason = "timeout"
)

// RaceResult is the record of one finished race.
type RaceResult struct {
	RoomID     string              `json:"roomId"`
	RoomName   string              `json:"roomName"`
	TextID     int                 `json:"textId"`
	Reason     Reason              `json:"reason"`
	Standings  []room.UserSnapshot `json:"standings"`
	FinishedAt time.Time           `json:"finishedAt"`
}

// Publisher hands finished races to whoever keeps score outside the process.
type Publisher interface {
	Publish(ctx context.Context, result RaceResult) error
	Close() error
}

// LogPublisher writes results to the log.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, result RaceResult) error {
	usernames := make([]string, 0, len(result.Standings))
	for _, u := range result.Standings {
		usernames = append(usernames, u.Username)
	}
	p.logger.Info("Race finished",
		zap.String("roomID", result.RoomID),
		zap.String("roomName", result.RoomName),
		zap.Int("textID", result.TextID),
		zap.String("reason", string(result.Reason)),
		zap.Strings("standings", usernames),
		zap.Time("finishedAt", result.FinishedAt),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
