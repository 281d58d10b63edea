package protocol

import (
	"github.com/Icerzack/keyrace/internal/room"
)

type Message struct {
	Event string `json:"event"`
}

type CreateRoomRequest struct {
	Message
	RoomName string `json:"roomName"`
}

type JoinRoomRequest struct {
	Message
	RoomID string `json:"roomId"`
}

type LeaveRoomRequest struct {
	Message
}

type UpdateReadyRequest struct {
	Message
	Ready bool `json:"ready"`
}

type InitGameRequest struct {
	Message
}

type UpdateProgressRequest struct {
	Message
	Progress int `json:"progress"`
}

type GameTimeoutRequest struct {
	Message
}

// NoticeResponse carries a human readable rejection to a single client.
type NoticeResponse struct {
	Message
	Text string `json:"message"`
}

type RoomsResponse struct {
	Message
	Rooms []room.Snapshot `json:"rooms"`
}

// RoomResponse is sent as JOIN_ROOM_DONE and UPDATE_CURRENT_ROOM.
type RoomResponse struct {
	Message
	Room room.Snapshot `json:"room"`
}

type StartTimerResponse struct {
	Message
	Seconds int           `json:"seconds"`
	Room    room.Snapshot `json:"room"`
	TextID  int           `json:"textId"`
}

type StartGameResponse struct {
	Message
	Seconds int `json:"seconds"`
}

type FinishGameResponse struct {
	Message
	Room   room.Snapshot `json:"room"`
	Reason string        `json:"reason"`
}

func NewNotice(event, text string) NoticeResponse {
	return NoticeResponse{Message: Message{Event: event}, Text: text}
}

func NewRooms(rooms []room.Snapshot) RoomsResponse {
	if rooms == nil {
		rooms = []room.Snapshot{}
	}
	return RoomsResponse{Message: Message{Event: EventUpdateRooms}, Rooms: rooms}
}

func NewJoinRoomDone(r room.Snapshot) RoomResponse {
	return RoomResponse{Message: Message{Event: EventJoinRoomDone}, Room: r}
}

func NewUpdateCurrentRoom(r room.Snapshot) RoomResponse {
	return RoomResponse{Message: Message{Event: EventUpdateCurrentRoom}, Room: r}
}

func NewStartTimer(seconds int, r room.Snapshot, textID int) StartTimerResponse {
	return StartTimerResponse{Message: Message{Event: EventStartTimer}, Seconds: seconds, Room: r, TextID: textID}
}

func NewStartGame(seconds int) StartGameResponse {
	return StartGameResponse{Message: Message{Event: EventStartGame}, Seconds: seconds}
}

func NewFinishGame(r room.Snapshot, reason string) FinishGameResponse {
	return FinishGameResponse{Message: Message{Event: EventFinishGame}, Room: r, Reason: reason}
}
