package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/pkg/logger"
	"github.com/sangkips/restobill-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func fakeClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan []byte, 256)}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.send:
		var event Event
		require.NoError(t, json.Unmarshal(msg, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("client did not receive an event")
		return Event{}
	}
}

func TestHubRegistration(t *testing.T) {
	hub := startHub(t)
	client := fakeClient(hub)

	hub.Register(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestBillCreatedReachesEveryClient(t *testing.T) {
	hub := startHub(t)
	first, second := fakeClient(hub), fakeClient(hub)
	hub.Register(first)
	hub.Register(second)

	hub.BillCreated(&entity.Bill{ID: "bill-1700000000000", BillNumber: "08"})

	for _, c := range []*Client{first, second} {
		event := receive(t, c)
		assert.Equal(t, EventBillCreated, event.Type)
		assert.Equal(t, "bill-1700000000000", event.BillID)
		assert.Equal(t, "08", event.BillNumber)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	slow := &Client{hub: hub, send: make(chan []byte)}
	hub.Register(slow)

	hub.Broadcast(Event{Type: EventBillCreated})
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRunClosesClientsOnShutdown(t *testing.T) {
	hub := NewHub(logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := fakeClient(hub)
	hub.Register(client)
	cancel()
	<-done

	_, open := <-client.send
	assert.False(t, open)
}

func TestStoppedHubDoesNotBlock(t *testing.T) {
	hub := NewHub(logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan bool)
	go func() {
		registered := hub.Register(fakeClient(hub))
		hub.Unregister(fakeClient(hub))
		finished <- registered
	}()

	select {
	case registered := <-finished:
		assert.False(t, registered)
	case <-time.After(time.Second):
		t.Fatal("register or unregister blocked after shutdown")
	}
}

func TestServeWS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)
	jwt := utils.NewJWTManager("ws-secret", time.Hour)

	router := gin.New()
	router.GET("/ws/bills", ServeWS(hub, jwt))
	server := httptest.NewServer(router)
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/bills"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := jwt.GenerateAccessToken(uuid.New(), "Ravi", "cashier")
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.BillCreated(&entity.Bill{ID: "bill-1", BillNumber: "01"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventBillCreated, event.Type)
	assert.Equal(t, "01", event.BillNumber)
}
