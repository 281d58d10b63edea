package broker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/protocol"
	"github.com/Icerzack/keyrace/internal/results"
	"github.com/Icerzack/keyrace/internal/room"
)

const (
	completedReason = results.ReasonCompleted
	timeoutReason   = results.ReasonTimeout
)

// startCountdown draws the race text and arms the countdown timer of an all-ready room.
func (b *Broker) startCountdown(r *room.Room) {
	textID := b.randIntN(b.texts.Count())
	round, err := r.StartCountdown(textID)
	if err != nil {
		b.logger.Debug("Countdown not started", zap.String("roomID", r.ID), zap.Error(err))
		return
	}

	roomID := r.ID
	b.timers.Schedule(roomID, seconds(b.config.SecondsBeforeStart), func() {
		b.Submit(Event{Type: EventCountdownElapsed, RoomID: roomID, Round: round})
	})

	b.logger.Info("Countdown started",
		zap.String("roomID", roomID),
		zap.Int("round", round),
		zap.Int("textID", textID),
	)
	b.broadcastToRoom(r, protocol.NewStartTimer(b.config.SecondsBeforeStart, r.Snapshot(), textID))
}

// startRace moves a counting down room to racing and replaces the countdown with the race timer.
func (b *Broker) startRace(r *room.Room) bool {
	if err := r.StartRace(); err != nil {
		b.logger.Debug("Race not started", zap.String("roomID", r.ID), zap.Error(err))
		return false
	}

	roomID, round := r.ID, r.Round()
	b.timers.Schedule(roomID, seconds(b.config.SecondsForGame), func() {
		b.Submit(Event{Type: EventRaceTimerElapsed, RoomID: roomID, Round: round})
	})
	b.logger.Info("Race started", zap.String("roomID", roomID), zap.Int("round", round))
	return true
}

func (b *Broker) countdownElapsed(ev Event) {
	r, err := b.rooms.Get(ev.RoomID)
	if err != nil || r.Round() != ev.Round || r.Stage() != room.Countdown {
		b.logger.Debug("Stale countdown", zap.String("roomID", ev.RoomID), zap.Int("round", ev.Round))
		return
	}
	if b.startRace(r) {
		b.broadcastLobby()
	}
}

func (b *Broker) raceTimerElapsed(ctx context.Context, ev Event) {
	r, err := b.rooms.Get(ev.RoomID)
	if err != nil || r.Round() != ev.Round || r.Stage() != room.Racing {
		b.logger.Debug("Stale race timer", zap.String("roomID", ev.RoomID), zap.Int("round", ev.Round))
		return
	}
	b.finish(ctx, r, timeoutReason)
}

// finish ends the race of the room once, announces the standings and puts the
// room back into the lobby.
func (b *Broker) finish(ctx context.Context, r *room.Room, reason results.Reason) {
	standings, err := r.Finish(b.config.StandingsOrder)
	if err != nil {
		b.logger.Debug("Race already finished", zap.String("roomID", r.ID), zap.Error(err))
		return
	}
	b.timers.Cancel(r.ID)

	b.logger.Info("Race finished", zap.String("roomID", r.ID), zap.String("reason", string(reason)))
	b.broadcastToRoom(r, protocol.NewFinishGame(standings, string(reason)))
	b.broadcastToRoom(r, protocol.NewUpdateCurrentRoom(r.Snapshot()))
	b.broadcastLobby()

	err = b.results.Publish(ctx, results.RaceResult{
		RoomID:     r.ID,
		RoomName:   r.Name,
		TextID:     r.TextID(),
		Reason:     reason,
		Standings:  standings.Users,
		FinishedAt: b.clock.Now(),
	})
	if err != nil {
		b.logger.Error("Failed to publish race result", zap.String("roomID", r.ID), zap.Error(err))
	}
}

// remainingRaceSeconds rounds the time left on the race timer up to whole seconds.
func (b *Broker) remainingRaceSeconds(r *room.Room) int {
	left, ok := b.timers.Remaining(r.ID)
	if !ok {
		return b.config.SecondsForGame
	}
	return int((left + time.Second - 1) / time.Second)
}
