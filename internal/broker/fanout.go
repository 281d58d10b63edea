package broker

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/models"
	"github.com/Icerzack/keyrace/internal/protocol"
	"github.com/Icerzack/keyrace/internal/room"
)

// LobbyRooms is the room list shown to browsing users.
func (b *Broker) LobbyRooms() []room.Snapshot {
	return b.rooms.LobbyRooms()
}

func (b *Broker) broadcastLobby() {
	b.broadcastAll(protocol.NewRooms(b.rooms.LobbyRooms()))
}

// broadcastAll sends the message to every connected user.
func (b *Broker) broadcastAll(message interface{}) {
	payload, ok := b.encode(message)
	if !ok {
		return
	}
	users, err := b.users.List()
	if err != nil {
		b.logger.Error("Failed to list users", zap.Error(err))
		return
	}
	for _, u := range users {
		b.deliver(u, payload)
	}
}

// broadcastToRoom sends the message to the connected members of the room.
func (b *Broker) broadcastToRoom(r *room.Room, message interface{}) {
	payload, ok := b.encode(message)
	if !ok {
		return
	}
	for _, username := range r.Usernames() {
		u, err := b.users.Get(username)
		if err != nil {
			continue
		}
		b.deliver(u, payload)
	}
}

func (b *Broker) sendTo(conn models.Connection, message interface{}) {
	payload, ok := b.encode(message)
	if !ok {
		return
	}
	if err := conn.Send(payload); err != nil {
		b.logger.Warn("Failed to send message", zap.Error(err))
	}
}

func (b *Broker) deliver(u *models.User, payload []byte) {
	if err := u.Conn.Send(payload); err != nil {
		// the read side of the connection reports the disconnect
		b.logger.Warn("Failed to send message, closing connection", zap.String("username", u.Username), zap.Error(err))
		_ = u.Conn.Close()
	}
}

func (b *Broker) encode(message interface{}) ([]byte, bool) {
	payload, err := json.Marshal(message)
	if err != nil {
		b.logger.Error("Failed to marshal message", zap.Error(err))
		return nil, false
	}
	return payload, true
}
