package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 7)
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHub_BroadcastsSeatInventory(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	hub.FlightChanged(&models.Flight{
		ID:     7,
		Status: models.FlightStatusDelayed,
		AvailableSeats: map[models.SeatClass]int{
			models.SeatClassExecutive: 0,
			models.SeatClassBusiness:  4,
			models.SeatClassEconomy:   7,
		},
		Capacity: map[models.SeatClass]int{
			models.SeatClassExecutive: 2,
			models.SeatClassBusiness:  4,
			models.SeatClassEconomy:   10,
		},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageTypeSeatsUpdated, msg.Type)
	assert.Equal(t, 7, msg.FlightID)
	assert.Equal(t, models.FlightStatusDelayed, msg.Status)
	assert.Equal(t, []SeatUpdate{
		{Class: models.SeatClassExecutive, Available: 0, Capacity: 2},
		{Class: models.SeatClassBusiness, Available: 4, Capacity: 4},
		{Class: models.SeatClassEconomy, Available: 7, Capacity: 10},
	}, msg.Seats)
	assert.NotZero(t, msg.Timestamp)
}

func TestHub_OnlyFlightWatchersReceive(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	hub.FlightRemoved(8)
	hub.FlightRemoved(7)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageTypeFlightRemoved, msg.Type)
	assert.Equal(t, 7, msg.FlightID, "messages for other flights are not delivered")
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount(7) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownReleasesConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 7)
	}))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-hub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Zero(t, hub.ClientCount(7))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	var netErr net.Error
	assert.False(t, errors.As(err, &netErr) && netErr.Timeout(), "watchers are disconnected, got %v", err)

	left := make(chan struct{})
	go func() {
		hub.leave(&Client{hub: hub, flightID: 7})
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(2 * time.Second):
		t.Fatal("leaving a stopped hub blocked")
	}

	late := dial(t, srv)
	defer late.Close()
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = late.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "late connections are closed, got %v", err)
}
