package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestPublishReachesOnlyTheTournamentRoom(t *testing.T) {
	hub, _ := startHub(t)

	inRoom := NewClient(hub, nil, RoomForTournament(3))
	otherRoom := NewClient(hub, nil, RoomForTournament(4))
	hub.Register(inRoom)
	hub.Register(otherRoom)
	require.Eventually(t, func() bool { return hub.RoomSize("3") == 1 && hub.RoomSize("4") == 1 }, time.Second, 5*time.Millisecond)

	err := hub.Publish(context.Background(), models.Event{Type: models.EventMatchStarted, TournamentID: 3})
	require.NoError(t, err)

	select {
	case raw := <-inRoom.send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "match.started", msg.Type)
		assert.Equal(t, "3", msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("client in room did not receive the event")
	}
	assert.Empty(t, otherRoom.send)
}

func TestUnregisterClosesSendAndDropsEmptyRoom(t *testing.T) {
	hub, _ := startHub(t)

	client := NewClient(hub, nil, "9")
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.RoomSize("9") == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.RoomSize("9") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestStoppedHubClosesClients(t *testing.T) {
	hub, cancel := startHub(t)

	client := NewClient(hub, nil, "1")
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.RoomSize("1") == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-hub.done

	_, open := <-client.send
	assert.False(t, open)

	late := NewClient(hub, nil, "1")
	hub.Register(late)
	_, open = <-late.send
	assert.False(t, open)
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub, _ := startHub(t)
	assert.NoError(t, hub.BroadcastToRoom("nobody", Message{Type: "x"}))
}
