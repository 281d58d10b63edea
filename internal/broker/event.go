package broker

import "github.com/Icerzack/keyrace/internal/models"

type EventType int8

const (
	EventConnect EventType = iota + 1
	EventCreateRoom
	EventJoinRoom
	EventLeaveRoom
	EventUpdateReady
	EventInitGame
	EventUpdateProgress
	EventGameTimeout
	EventDisconnect

	// EventCountdownElapsed and EventRaceTimerElapsed are injected by room timers.
	EventCountdownElapsed
	EventRaceTimerElapsed
)

func (e EventType) String() string {
	switch e {
	case EventConnect:
		return "connect"
	case EventCreateRoom:
		return "create-room"
	case EventJoinRoom:
		return "join-room"
	case EventLeaveRoom:
		return "leave-room"
	case EventUpdateReady:
		return "update-ready"
	case EventInitGame:
		return "init-game"
	case EventUpdateProgress:
		return "update-progress"
	case EventGameTimeout:
		return "game-timeout"
	case EventDisconnect:
		return "disconnect"
	case EventCountdownElapsed:
		return "countdown-elapsed"
	case EventRaceTimerElapsed:
		return "race-timer-elapsed"
	default:
		return "unknown"
	}
}

// Event is a unit of work for the broker loop. Client events carry the
// username and connection they arrived on, timer events carry the room and
// the round they were scheduled for.
type Event struct {
	Type     EventType
	Username string
	Conn     models.Connection

	RoomID   string
	RoomName string
	Ready    bool
	Progress int
	Round    int
}
