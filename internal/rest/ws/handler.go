package ws

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/internal/broker"
	"github.com/Icerzack/keyrace/internal/protocol"
)

// Submitter accepts events for the game loop.
type Submitter interface {
	Submit(ev broker.Event) bool
}

type WebSocketHandler struct {
	// upgrader is used to upgrade the HTTP connection to a WebSocket connection
	upgrader *websocket.Upgrader

	// events receives everything the clients send
	events Submitter

	config ConnectionConfig
	logger *zap.Logger
}

func NewWebSocketHandler(events Submitter, config ConnectionConfig, logger *zap.Logger) *WebSocketHandler {
	if config.PingInterval <= 0 || config.SendQueueSize <= 0 {
		config = DefaultConnectionConfig()
	}
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		events: events,
		config: config,
		logger: logger,
	}
}

// Handle serves /ws?username=<name>. The connection lives until either side closes it.
func (ws *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if strings.TrimSpace(username) == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	wsConn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}
	conn := newConnection(wsConn, username, ws.config, ws.logger)
	ws.logger.Info("Connection upgraded successfully", zap.String("username", username), zap.String("connectionID", conn.ID))

	go conn.writePump()
	if !ws.events.Submit(broker.Event{Type: broker.EventConnect, Username: username, Conn: conn}) {
		_ = conn.Close()
		return
	}

	conn.readPump(func(msg []byte) {
		ws.messageHandler(conn, msg)
	})

	ws.events.Submit(broker.Event{Type: broker.EventDisconnect, Username: username, Conn: conn})
	_ = conn.Close()
	ws.logger.Info("Connection closed", zap.String("username", username), zap.String("connectionID", conn.ID))
}

func (ws *WebSocketHandler) messageHandler(conn *Connection, msg []byte) {
	message, err := protocol.Decode(msg)
	if err != nil {
		ws.logger.Debug("Failed to define message", zap.String("username", conn.Username), zap.Error(err))
		return
	}

	ev := broker.Event{Username: conn.Username, Conn: conn}
	switch v := message.(type) {
	case *protocol.CreateRoomRequest:
		ev.Type = broker.EventCreateRoom
		ev.RoomName = v.RoomName
	case *protocol.JoinRoomRequest:
		ev.Type = broker.EventJoinRoom
		ev.RoomID = v.RoomID
	case *protocol.LeaveRoomRequest:
		ev.Type = broker.EventLeaveRoom
	case *protocol.UpdateReadyRequest:
		ev.Type = broker.EventUpdateReady
		ev.Ready = v.Ready
	case *protocol.InitGameRequest:
		ev.Type = broker.EventInitGame
	case *protocol.UpdateProgressRequest:
		ev.Type = broker.EventUpdateProgress
		ev.Progress = v.Progress
	case *protocol.GameTimeoutRequest:
		ev.Type = broker.EventGameTimeout
	default:
		return
	}
	ws.events.Submit(ev)
}
