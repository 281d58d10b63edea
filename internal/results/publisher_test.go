package results

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Icerzack/keyrace/internal/room"
)

func TestLogPublisher_Publish(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	progress := 100
	err := p.Publish(context.Background(), RaceResult{
		RoomID:   "room-1",
		RoomName: "A",
		TextID:   2,
		Reason:   ReasonTimeout,
		Standings: []room.UserSnapshot{
			{Username: "bob"},
			{Username: "alice", Progress: &progress},
		},
		FinishedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	entries := logs.FilterMessage("Race finished").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["roomID"] != "room-1" || fields["reason"] != "timeout" {
		t.Errorf("unexpected fields %v", fields)
	}
	standings, ok := fields["standings"].([]interface{})
	if !ok || len(standings) != 2 || standings[0] != "bob" {
		t.Errorf("unexpected standings %v", fields["standings"])
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	cfg := DefaultNATSConfig()
	cfg.URL = "nats://127.0.0.1:1"

	if _, err := NewNATSPublisher(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected connection error")
	}
}
