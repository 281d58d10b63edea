package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/broker"
	"github.com/Icerzack/keyrace/internal/directory"
	"github.com/Icerzack/keyrace/internal/rest/ws"
	"github.com/Icerzack/keyrace/internal/results"
	"github.com/Icerzack/keyrace/internal/storage/room"
	inmemRoom "github.com/Icerzack/keyrace/internal/storage/room/inmemory"
	"github.com/Icerzack/keyrace/internal/storage/user"
	inmemUser "github.com/Icerzack/keyrace/internal/storage/user/inmemory"
	"github.com/Icerzack/keyrace/internal/texts"
)

type Rest struct {
	config *Config

	server *http.Server

	broker    *broker.Broker
	texts     texts.Provider
	publisher results.Publisher

	// cancel stops the broker loop
	cancel context.CancelFunc
}

func NewRest(config *Config) *Rest {
	return &Rest{
		config: config,
	}
}

func (rest *Rest) Start() {
	handler, err := rest.setup()
	if err != nil {
		rest.config.Logger.Error("Failed to set up server", zap.Error(err))
		return
	}

	rest.server = &http.Server{
		Addr:              ":" + strconv.Itoa(rest.config.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	rest.config.Logger.Info("Listening", zap.Int("port", rest.config.Port))
	if err := rest.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		rest.config.Logger.Error("server error", zap.Error(err))
		return
	}
}

func (rest *Rest) Stop() {
	if rest.server != nil {
		if err := rest.server.Shutdown(context.Background()); err != nil {
			rest.config.Logger.Error("server error", zap.Error(err))
		}
	}
	if rest.cancel != nil {
		rest.cancel()
	}
	if rest.publisher != nil {
		if err := rest.publisher.Close(); err != nil {
			rest.config.Logger.Error("Failed to close results publisher", zap.Error(err))
		}
	}
}

// setup builds the game and starts its loop. It returns the HTTP handler of the server.
func (rest *Rest) setup() (http.Handler, error) {
	textProvider, err := rest.defineTexts()
	if err != nil {
		return nil, err
	}
	publisher, err := rest.definePublisher()
	if err != nil {
		return nil, err
	}
	usersStorage, roomsStorage := rest.defineStorage()

	rest.texts = textProvider
	rest.publisher = publisher
	rest.broker = broker.NewBroker(
		broker.Config{
			SecondsBeforeStart: rest.config.SecondsBeforeStart,
			SecondsForGame:     rest.config.SecondsForGame,
			StandingsOrder:     rest.config.StandingsOrder,
		},
		usersStorage,
		directory.NewDirectory(roomsStorage, rest.config.MaxUsersPerRoom, rest.config.Logger),
		textProvider,
		publisher,
		clockwork.NewRealClock(),
		rest.config.Logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	rest.cancel = cancel
	go rest.broker.Run(ctx)

	return rest.router(), nil
}

func (rest *Rest) router() http.Handler {
	router := chi.NewRouter()
	router.Use(cors.New(cors.Options{
		AllowedOrigins: rest.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler)

	// Define the /ping endpoint
	router.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte("pong"))
		if err != nil {
			return
		}
	})

	router.Get("/rooms", rest.listRooms)
	router.Get("/game/texts/{id}", rest.getText)

	// Define the /ws endpoint
	wsServer := ws.NewWebSocketHandler(rest.broker, rest.config.Connection, rest.config.Logger)
	router.HandleFunc("/ws", wsServer.Handle)

	return router
}

func (rest *Rest) listRooms(w http.ResponseWriter, _ *http.Request) {
	rest.writeJSON(w, http.StatusOK, map[string]interface{}{"rooms": rest.broker.LobbyRooms()})
}

func (rest *Rest) getText(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		rest.writeJSON(w, http.StatusNotFound, map[string]string{"error": "text not found"})
		return
	}
	text, err := rest.texts.Get(id)
	if err != nil {
		rest.writeJSON(w, http.StatusNotFound, map[string]string{"error": "text not found"})
		return
	}
	rest.writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (rest *Rest) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rest.config.Logger.Debug("Failed to write response", zap.Error(err))
	}
}

func (rest *Rest) defineStorage() (user.Storage, room.Storage) {
	var usersStorage user.Storage
	var roomsStorage room.Storage

	switch rest.config.UsersStorageType {
	case user.InMemoryStorageType:
		rest.config.Logger.Info("Using in-memory storage for users")
		usersStorage = inmemUser.NewStorage(rest.config.Logger)
	default:
		rest.config.Logger.Info("Using in-memory storage for users")
		usersStorage = inmemUser.NewStorage(rest.config.Logger)
	}
	switch rest.config.RoomsStorageType {
	case room.InMemoryStorageType:
		rest.config.Logger.Info("Using in-memory storage for rooms")
		roomsStorage = inmemRoom.NewStorage(rest.config.Logger)
	default:
		rest.config.Logger.Info("Using in-memory storage for rooms")
		roomsStorage = inmemRoom.NewStorage(rest.config.Logger)
	}

	return usersStorage, roomsStorage
}

func (rest *Rest) defineTexts() (texts.Provider, error) {
	if rest.config.TextsPath == "" {
		rest.config.Logger.Info("Using built-in texts")
		return texts.Default(), nil
	}
	table, err := texts.LoadFile(rest.config.TextsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load texts: %w", err)
	}
	rest.config.Logger.Info("Loaded texts", zap.String("path", rest.config.TextsPath), zap.Int("count", table.Count()))
	return table, nil
}

func (rest *Rest) definePublisher() (results.Publisher, error) {
	switch rest.config.ResultsType {
	case results.NATSPublisherType:
		rest.config.Logger.Info("Publishing race results to NATS", zap.String("url", rest.config.NATS.URL))
		publisher, err := results.NewNATSPublisher(rest.config.NATS, rest.config.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect results publisher: %w", err)
		}
		return publisher, nil
	default:
		rest.config.Logger.Info("Logging race results")
		return results.NewLogPublisher(rest.config.Logger), nil
	}
}
