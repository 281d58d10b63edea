package broker

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/directory"
	"github.com/Icerzack/keyrace/internal/models"
	"github.com/Icerzack/keyrace/internal/protocol"
	"github.com/Icerzack/keyrace/internal/room"
)

func (b *Broker) connect(ev Event) {
	newUser := &models.User{
		Username:    ev.Username,
		Conn:        ev.Conn,
		ConnectedAt: b.clock.Now(),
	}
	if err := b.users.Add(ev.Username, newUser); err != nil {
		b.logger.Info("Rejected connection", zap.String("username", ev.Username), zap.Error(err))
		b.sendTo(ev.Conn, protocol.NewNotice(
			protocol.EventUserWithSameNameAlreadyExist,
			fmt.Sprintf("user with username %s has already connected", ev.Username),
		))
		_ = ev.Conn.Close()
		return
	}

	b.logger.Info("User connected", zap.String("username", ev.Username))
	b.sendTo(ev.Conn, protocol.NewRooms(b.rooms.LobbyRooms()))
}

func (b *Broker) disconnect(ctx context.Context, ev Event) {
	// the rejected duplicate of a connected user
	if !b.isCurrent(ev.Username, ev.Conn) {
		return
	}

	if current, ok := b.rooms.FindRoomOf(ev.Username); ok {
		exists := b.rooms.LeaveRoom(current.ID, ev.Username)
		b.afterLeave(ctx, current, exists)
	}
	_ = b.users.Delete(ev.Username)
	b.logger.Info("User disconnected", zap.String("username", ev.Username))
}

func (b *Broker) createRoom(ctx context.Context, ev Event) {
	newRoom, err := b.rooms.CreateRoom(ev.RoomName)
	if err != nil {
		b.logger.Info("Failed to create room", zap.String("username", ev.Username), zap.Error(err))
		if errors.Is(err, directory.ErrRoomNameTaken) {
			b.sendTo(ev.Conn, protocol.NewNotice(
				protocol.EventRoomWithSameNameAlreadyExist,
				fmt.Sprintf("Room with name %s already exists", ev.RoomName),
			))
			return
		}
		b.sendTo(ev.Conn, protocol.NewNotice(protocol.EventJoinRoomFailed, joinFailureText(err)))
		return
	}

	res, err := b.rooms.Transfer(newRoom.ID, ev.Username)
	if err != nil {
		b.logger.Error("Creator could not join the new room", zap.String("roomID", newRoom.ID), zap.Error(err))
		b.rooms.LeaveRoom(newRoom.ID, ev.Username)
		b.sendTo(ev.Conn, protocol.NewNotice(protocol.EventJoinRoomFailed, joinFailureText(err)))
		return
	}
	if res.Previous != nil {
		b.afterLeave(ctx, res.Previous, res.PreviousExists)
	}

	b.broadcastLobby()
	b.broadcastToRoom(newRoom, protocol.NewJoinRoomDone(newRoom.Snapshot()))
}

func (b *Broker) joinRoom(ctx context.Context, ev Event) {
	res, err := b.rooms.Transfer(ev.RoomID, ev.Username)
	if err != nil {
		b.logger.Info("Failed to join room",
			zap.String("username", ev.Username),
			zap.String("roomID", ev.RoomID),
			zap.Error(err),
		)
		b.sendTo(ev.Conn, protocol.NewNotice(protocol.EventJoinRoomFailed, joinFailureText(err)))
		return
	}
	if res.Unchanged {
		return
	}
	if res.Previous != nil {
		b.afterLeave(ctx, res.Previous, res.PreviousExists)
	}

	b.broadcastToRoom(res.Room, protocol.NewJoinRoomDone(res.Room.Snapshot()))
	b.broadcastLobby()
}

func (b *Broker) leaveRoom(ctx context.Context, ev Event) {
	current, ok := b.rooms.FindRoomOf(ev.Username)
	if !ok {
		return
	}
	exists := b.rooms.LeaveRoom(current.ID, ev.Username)
	b.afterLeave(ctx, current, exists)
}

// afterLeave publishes a membership loss and re-evaluates the room's game.
func (b *Broker) afterLeave(ctx context.Context, r *room.Room, exists bool) {
	if !exists {
		b.timers.Cancel(r.ID)
		b.broadcastLobby()
		return
	}

	b.broadcastLobby()
	b.broadcastToRoom(r, protocol.NewUpdateCurrentRoom(r.Snapshot()))

	switch r.Stage() {
	case room.Lobby:
		if r.AllReady() {
			b.startCountdown(r)
		}
	case room.Racing:
		if r.AllCompleted() {
			b.finish(ctx, r, completedReason)
		}
	}
}

func (b *Broker) updateReady(ev Event) {
	current, ok := b.rooms.FindRoomOf(ev.Username)
	if !ok {
		return
	}
	allReady, err := current.SetReady(ev.Username, ev.Ready)
	if err != nil {
		b.logger.Debug("Ignoring ready update", zap.String("username", ev.Username), zap.Error(err))
		return
	}

	b.broadcastToRoom(current, protocol.NewUpdateCurrentRoom(current.Snapshot()))
	if allReady {
		b.startCountdown(current)
	}
}

func (b *Broker) initGame(ev Event) {
	current, ok := b.rooms.FindRoomOf(ev.Username)
	if !ok {
		return
	}
	switch current.Stage() {
	case room.Countdown:
		b.startRace(current)
	case room.Racing:
	default:
		b.logger.Debug("Ignoring init-game", zap.String("username", ev.Username), zap.Stringer("stage", current.Stage()))
		return
	}

	b.sendTo(ev.Conn, protocol.NewStartGame(b.remainingRaceSeconds(current)))
	b.broadcastLobby()
}

func (b *Broker) updateProgress(ctx context.Context, ev Event) {
	current, ok := b.rooms.FindRoomOf(ev.Username)
	if !ok {
		return
	}
	allCompleted, err := current.UpdateProgress(ev.Username, ev.Progress)
	if err != nil {
		b.logger.Debug("Ignoring progress update", zap.String("username", ev.Username), zap.Error(err))
		return
	}

	b.broadcastToRoom(current, protocol.NewUpdateCurrentRoom(current.Snapshot()))
	if allCompleted {
		b.finish(ctx, current, completedReason)
	}
}

func (b *Broker) gameTimeout(ctx context.Context, ev Event) {
	current, ok := b.rooms.FindRoomOf(ev.Username)
	if !ok || current.Stage() != room.Racing {
		return
	}
	b.finish(ctx, current, timeoutReason)
}

func joinFailureText(err error) string {
	switch {
	case errors.Is(err, directory.ErrRoomFull):
		return "The room has reached the limit of the number of maximally connected users"
	case errors.Is(err, directory.ErrRoomNotFound):
		return "The room does not exist anymore"
	case errors.Is(err, directory.ErrGameInProgress):
		return "The game in the room has already started"
	case errors.Is(err, directory.ErrEmptyRoomName):
		return "Room name must not be empty"
	default:
		return "Unable to join the room"
	}
}
