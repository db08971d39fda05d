package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "chat-hub/internal/middleware"
	"chat-hub/internal/registry"
	"chat-hub/internal/router"
	ws "chat-hub/internal/websocket"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := registry.NewUsers()
	groups := registry.NewGroups()
	hub := ws.NewHub(logger)
	rt := router.New(users, groups, hub, nil, logger)
	wh := NewWebSocketHandler(hub, rt, users, groups, logger)
	limiter := m.NewIPRateLimiter(m.RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
		CleanupInterval:   time.Minute,
	})

	engine := gin.New()
	NewRouter(wh, limiter).RegisterRoutes(engine)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *gorilla.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *gorilla.Conn, frame string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte(frame)))
}

func readFrame(t *testing.T, conn *gorilla.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/hc")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Running", string(body))
}

func TestConnectionInfo_EmptyServer(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws/info")
	require.NoError(t, err)
	defer resp.Body.Close()

	var info ConnectionInfoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, 0, info.TotalConnections)
	assert.Empty(t, info.OnlineUsers)
	assert.Empty(t, info.Groups)
	assert.NotEmpty(t, info.ServerTime)
}

func TestWebSocket_RegisterFlow(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv)
	sendFrame(t, alice, `{"type":"register","name":"Alice","mobile":"111"}`)

	frame := readFrame(t, alice)
	assert.Equal(t, "registered", frame["type"])
	assert.Equal(t, true, frame["success"])

	frame = readFrame(t, alice)
	assert.Equal(t, "group_list", frame["type"])
	assert.Empty(t, frame["groups"])

	frame = readFrame(t, alice)
	assert.Equal(t, "user_list", frame["type"])
	assert.Empty(t, frame["users"])

	// Second registration: Bob sees Alice in his snapshot, Alice hears
	// about Bob.
	bob := dial(t, srv)
	sendFrame(t, bob, `{"type":"register","name":"Bob","mobile":"222"}`)

	readFrame(t, bob) // registered
	readFrame(t, bob) // group_list
	frame = readFrame(t, bob)
	assert.Equal(t, "user_list", frame["type"])
	users := frame["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].(map[string]any)["name"])

	frame = readFrame(t, alice)
	assert.Equal(t, "user_joined", frame["type"])
	assert.Equal(t, "Bob", frame["user"].(map[string]any)["name"])
}

func TestWebSocket_GroupAndDirectMessageScenario(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv)
	sendFrame(t, alice, `{"type":"register","name":"Alice","mobile":"111"}`)
	for i := 0; i < 3; i++ {
		readFrame(t, alice)
	}

	bob := dial(t, srv)
	sendFrame(t, bob, `{"type":"register","name":"Bob","mobile":"222"}`)
	for i := 0; i < 3; i++ {
		readFrame(t, bob)
	}
	readFrame(t, alice) // user_joined for Bob

	// Alice creates "general": confirmation for her, announcement for
	// everyone.
	sendFrame(t, alice, `{"type":"join_group","groupName":"general"}`)
	frame := readFrame(t, alice)
	assert.Equal(t, "joined_group", frame["type"])
	frame = readFrame(t, alice)
	assert.Equal(t, "group_created", frame["type"])
	assert.Equal(t, "general", frame["groupName"])
	frame = readFrame(t, bob)
	assert.Equal(t, "group_created", frame["type"])

	// Direct message to Bob's mobile carries the resolved sender.
	sendFrame(t, alice, `{"type":"message","to":"222","content":"hi"}`)
	frame = readFrame(t, bob)
	assert.Equal(t, "message", frame["type"])
	assert.Equal(t, "Alice", frame["from"])
	assert.Equal(t, "111", frame["fromMobile"])
	assert.Equal(t, "hi", frame["content"])

	// Bob leaves; Alice gets the departure with his mobile.
	require.NoError(t, bob.Close())
	frame = readFrame(t, alice)
	assert.Equal(t, "user_left", frame["type"])
	assert.Equal(t, "222", frame["mobile"])
}

func TestWebSocket_MalformedFrameKeepsConnectionAlive(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv)
	sendFrame(t, conn, "this is not json")

	sendFrame(t, conn, `{"type":"register","name":"Alice","mobile":"111"}`)
	frame := readFrame(t, conn)
	assert.Equal(t, "registered", frame["type"])
}

func TestConnectionInfo_ReflectsPresence(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv)
	sendFrame(t, alice, `{"type":"register","name":"Alice","mobile":"111"}`)
	for i := 0; i < 3; i++ {
		readFrame(t, alice)
	}
	sendFrame(t, alice, `{"type":"join_group","groupName":"general"}`)
	readFrame(t, alice) // joined_group
	readFrame(t, alice) // group_created

	resp, err := http.Get(srv.URL + "/ws/info")
	require.NoError(t, err)
	defer resp.Body.Close()

	var info ConnectionInfoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, 1, info.TotalConnections)
	require.Len(t, info.OnlineUsers, 1)
	assert.Equal(t, "Alice", info.OnlineUsers[0].Name)
	assert.Equal(t, []string{"general"}, info.Groups)
}
