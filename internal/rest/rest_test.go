package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/Icerzack/keyrace/internal/protocol"
	"github.com/Icerzack/keyrace/internal/results"
	"github.com/Icerzack/keyrace/internal/room"
	"github.com/Icerzack/keyrace/internal/storage/user"
	"github.com/Icerzack/keyrace/internal/texts"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	rest := NewRest(&Config{
		AllowedOrigins:     []string{"http://localhost:3000"},
		UsersStorageType:   user.InMemoryStorageType,
		MaxUsersPerRoom:    5,
		SecondsBeforeStart: 10,
		SecondsForGame:     60,
		StandingsOrder:     room.OrderAscending,
		ResultsType:        results.LogPublisherType,
		Logger:             zaptest.NewLogger(t),
	})
	handler, err := rest.setup()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
		rest.Stop()
	})
	return server
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return resp.StatusCode, body
}

func TestRest_Ping(t *testing.T) {
	server := newTestServer(t)

	status, body := get(t, server.URL+"/ping")
	if status != http.StatusOK || string(body) != "pong" {
		t.Errorf("unexpected response %d %q", status, body)
	}
}

func TestRest_Texts(t *testing.T) {
	server := newTestServer(t)
	want, _ := texts.Default().Get(0)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"first", "/game/texts/0", http.StatusOK},
		{"out of range", "/game/texts/999", http.StatusNotFound},
		{"negative", "/game/texts/-1", http.StatusNotFound},
		{"not a number", "/game/texts/abc", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, server.URL+tt.path)
			if status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
			if status != http.StatusOK {
				return
			}
			var resp struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if resp.Text != want {
				t.Errorf("expected %q, got %q", want, resp.Text)
			}
		})
	}
}

func TestRest_CORS(t *testing.T) {
	server := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/rooms", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected the origin to be allowed, got %q", got)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame map[string]interface{}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return frame
}

func TestRest_WebSocketRoomIsListed(t *testing.T) {
	server := newTestServer(t)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?username=alice"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if frame := readFrame(t, conn); frame["event"] != protocol.EventUpdateRooms {
		t.Fatalf("expected UPDATE_ROOMS first, got %v", frame)
	}
	if err := conn.WriteJSON(map[string]string{"event": protocol.EventCreateRoom, "roomName": "A"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	readFrame(t, conn)
	if frame := readFrame(t, conn); frame["event"] != protocol.EventJoinRoomDone {
		t.Fatalf("expected JOIN_ROOM_DONE, got %v", frame)
	}

	status, body := get(t, server.URL+"/rooms")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var resp struct {
		Rooms []room.Snapshot `json:"rooms"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(resp.Rooms) != 1 || resp.Rooms[0].Name != "A" || resp.Rooms[0].Users[0].Username != "alice" {
		t.Errorf("unexpected rooms %+v", resp.Rooms)
	}

	duplicate, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer duplicate.Close()
	if frame := readFrame(t, duplicate); frame["event"] != protocol.EventUserWithSameNameAlreadyExist {
		t.Errorf("expected a duplicate name notice, got %v", frame)
	}
}
