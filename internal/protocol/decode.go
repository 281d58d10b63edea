package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidMessage = errors.New("invalid message")
	ErrUnknownEvent   = errors.New("unknown event")
)

// Decode parses an inbound frame into one of the *Request types.
func Decode(msg []byte) (interface{}, error) {
	var message Message
	if err := json.Unmarshal(msg, &message); err != nil {
		return nil, ErrInvalidMessage
	}

	var target interface{}
	switch message.Event {
	case EventCreateRoom:
		target = &CreateRoomRequest{}
	case EventJoinRoom:
		target = &JoinRoomRequest{}
	case EventLeaveRoom:
		target = &LeaveRoomRequest{}
	case EventUpdateReady:
		target = &UpdateReadyRequest{}
	case EventInitGame:
		target = &InitGameRequest{}
	case EventUpdateProgress:
		target = &UpdateProgressRequest{}
	case EventGameTimeout:
		target = &GameTimeoutRequest{}
	default:
		return nil, fmt.Errorf("%q: %w", message.Event, ErrUnknownEvent)
	}

	if err := json.Unmarshal(msg, target); err != nil {
		return nil, fmt.Errorf("error unmarshaling %s: %w", message.Event, ErrInvalidMessage)
	}
	return target, nil
}
