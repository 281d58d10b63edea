package models

import "time"

// Connection is the outbound side of a client connection.
type Connection interface {
	// Send queues an encoded frame for the client.
	Send(payload []byte) error

	// Close flushes queued frames and closes the connection.
	Close() error
}

// User is a struct that represents a connected user.
type User struct {
	// Username is the display name, unique among connected users.
	Username string

	// Conn is the connection of the user.
	Conn Connection

	// ConnectedAt is when the handshake completed.
	ConnectedAt time.Time
}
