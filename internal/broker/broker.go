package broker

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/directory"
	"github.com/Icerzack/keyrace/internal/models"
	"github.com/Icerzack/keyrace/internal/results"
	"github.com/Icerzack/keyrace/internal/room"
	"github.com/Icerzack/keyrace/internal/scheduler"
	uStorage "github.com/Icerzack/keyrace/internal/storage/user"
	"github.com/Icerzack/keyrace/internal/texts"
)

type Config struct {
	// SecondsBeforeStart is the countdown between all-ready and the race
	SecondsBeforeStart int

	// SecondsForGame caps the length of a race
	SecondsForGame int

	// StandingsOrder sorts the users of FINISH_GAME
	StandingsOrder room.StandingsOrder

	// QueueSize is the capacity of the event queue
	QueueSize int
}

// Broker applies client and timer events to the rooms one at a time and fans
// the resulting state out to the connected users.
type Broker struct {
	config Config

	// users is the registry of connected users
	users uStorage.Storage

	// rooms is the directory of existing rooms
	rooms *directory.Directory

	texts   texts.Provider
	results results.Publisher

	clock    clockwork.Clock
	timers   *scheduler.Scheduler
	randIntN func(n int) int

	events   chan Event
	done     chan struct{}
	stopOnce sync.Once

	logger *zap.Logger
}

func NewBroker(
	config Config,
	users uStorage.Storage,
	rooms *directory.Directory,
	textProvider texts.Provider,
	publisher results.Publisher,
	clock clockwork.Clock,
	logger *zap.Logger,
) *Broker {
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}
	return &Broker{
		config:   config,
		users:    users,
		rooms:    rooms,
		texts:    textProvider,
		results:  publisher,
		clock:    clock,
		timers:   scheduler.NewScheduler(clock, logger),
		randIntN: rand.IntN,
		events:   make(chan Event, config.QueueSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Run processes events until the context is cancelled. Pending timers are
// dropped on return.
func (b *Broker) Run(ctx context.Context) {
	b.logger.Info("Broker started")
	defer b.stop()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Broker stopped")
			return
		case ev := <-b.events:
			b.Handle(ctx, ev)
		}
	}
}

// Submit queues an event. It blocks while the queue is full and reports false
// once the broker has stopped.
func (b *Broker) Submit(ev Event) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.events <- ev:
		return true
	case <-b.done:
		return false
	}
}

// Handle applies a single event. It must only be called from one goroutine at a time.
func (b *Broker) Handle(ctx context.Context, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error("Panic while handling event",
				zap.Stringer("event", ev.Type),
				zap.String("username", ev.Username),
				zap.Any("panic", rec),
			)
		}
	}()

	b.logger.Debug("Handling event",
		zap.Stringer("event", ev.Type),
		zap.String("username", ev.Username),
		zap.String("roomID", ev.RoomID),
	)

	switch ev.Type {
	case EventConnect:
		b.connect(ev)
		return
	case EventDisconnect:
		b.disconnect(ctx, ev)
		return
	case EventCountdownElapsed:
		b.countdownElapsed(ev)
		return
	case EventRaceTimerElapsed:
		b.raceTimerElapsed(ctx, ev)
		return
	}

	if !b.isCurrent(ev.Username, ev.Conn) {
		b.logger.Debug("Dropping event from unregistered connection",
			zap.Stringer("event", ev.Type),
			zap.String("username", ev.Username),
		)
		return
	}

	switch ev.Type {
	case EventCreateRoom:
		b.createRoom(ctx, ev)
	case EventJoinRoom:
		b.joinRoom(ctx, ev)
	case EventLeaveRoom:
		b.leaveRoom(ctx, ev)
	case EventUpdateReady:
		b.updateReady(ev)
	case EventInitGame:
		b.initGame(ev)
	case EventUpdateProgress:
		b.updateProgress(ctx, ev)
	case EventGameTimeout:
		b.gameTimeout(ctx, ev)
	default:
		b.logger.Debug("Unknown event", zap.Stringer("event", ev.Type))
	}
}

func (b *Broker) stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.timers.StopAll()
	})
}

func (b *Broker) isCurrent(username string, conn models.Connection) bool {
	u, err := b.users.Get(username)
	return err == nil && u.Conn == conn
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
